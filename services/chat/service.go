package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MeowSalty/aibox/database/types"
	"github.com/MeowSalty/aibox/services/openai"
	"gorm.io/gorm"
)

// systemPrompt 聊天工具固定的系统提示词
//
// 系统提示词不写入聊天记录，每次请求时动态拼装在最前面。
const systemPrompt = "You are a helpful assistant."

// Service 定义聊天服务接口
type Service interface {
	// SendMessage 发送一条消息并返回助手回复与完整聊天记录
	SendMessage(ctx context.Context, sessionID, apiKey, content string) (string, []*types.ChatMessage, error)

	// History 获取会话的聊天记录
	History(ctx context.Context, sessionID string) ([]*types.ChatMessage, error)

	// Clear 清空会话的聊天记录
	Clear(ctx context.Context, sessionID string) error
}

// service 是 Service 接口的具体实现
type service struct {
	db     *gorm.DB
	client openai.Client
	logger *slog.Logger
}

// New 创建聊天服务实例
//
// 参数：
//   - db: GORM 数据库连接对象
//   - client: OpenAI 上游客户端
//   - logger: 日志记录器实例
//
// 返回值：
//   - Service: 初始化后的聊天服务实例
func New(db *gorm.DB, client openai.Client, logger *slog.Logger) Service {
	return &service{
		db:     db,
		client: client,
		logger: logger,
	}
}

// SendMessage 发送一条消息并返回助手回复与完整聊天记录
//
// 用户消息先入库，再调用上游；上游失败时用户消息保留在记录中，
// 与原始行为一致（下次发送会连同这条消息一起带上）。
func (s *service) SendMessage(ctx context.Context, sessionID, apiKey, content string) (string, []*types.ChatMessage, error) {
	// 1. 保存用户消息
	userMessage := &types.ChatMessage{
		SessionID: sessionID,
		Role:      types.RoleUser,
		Content:   content,
	}
	if err := s.db.WithContext(ctx).Create(userMessage).Error; err != nil {
		return "", nil, fmt.Errorf("保存用户消息失败：%w", err)
	}

	// 2. 加载完整聊天记录并拼装上游消息列表
	history, err := s.History(ctx, sessionID)
	if err != nil {
		return "", nil, err
	}

	messages := make([]openai.Message, 0, len(history)+1)
	messages = append(messages, openai.Message{Role: types.RoleSystem, Content: systemPrompt})
	for _, msg := range history {
		messages = append(messages, openai.Message{Role: msg.Role, Content: msg.Content})
	}

	// 3. 调用上游聊天补全
	reply, err := s.client.Complete(ctx, apiKey, messages)
	if err != nil {
		return "", nil, err
	}

	// 4. 保存助手回复
	assistantMessage := &types.ChatMessage{
		SessionID: sessionID,
		Role:      types.RoleAssistant,
		Content:   reply,
	}
	if err := s.db.WithContext(ctx).Create(assistantMessage).Error; err != nil {
		// 回复已经拿到，入库失败只记日志，不让用户丢失回复
		s.logger.ErrorContext(ctx, "保存助手回复失败", "error", err, "session_id", sessionID)
	}

	history = append(history, assistantMessage)
	return reply, history, nil
}

// History 获取会话的聊天记录
//
// 新会话返回空切片而不是 nil，保证 JSON 序列化为空数组。
func (s *service) History(ctx context.Context, sessionID string) ([]*types.ChatMessage, error) {
	messages := make([]*types.ChatMessage, 0)
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("获取聊天记录失败：%w", err)
	}
	return messages, nil
}

// Clear 清空会话的聊天记录
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&types.ChatMessage{}).Error; err != nil {
		return fmt.Errorf("清空聊天记录失败：%w", err)
	}
	return nil
}
