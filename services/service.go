package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/MeowSalty/aibox/services/chat"
	"github.com/MeowSalty/aibox/services/openai"
	"github.com/MeowSalty/aibox/services/session"
	"github.com/MeowSalty/aibox/services/stats"
	"gorm.io/gorm"
)

// Services 持有所有服务实例的结构体
type Services struct {
	SessionService session.Service
	OpenAIClient   openai.Client
	ChatService    chat.Service
	StatsService   stats.Service
}

// Options 服务初始化选项
type Options struct {
	OpenAIBaseURL string        // OpenAI API 基础地址
	OpenAITimeout time.Duration // 上游请求超时
	UserAgent     string        // 上游请求 User-Agent
	SessionTTL    time.Duration // 会话有效期
}

// NewServices 初始化所有服务并返回 Services 实例
//
// 该函数负责初始化应用所需的所有服务，并将日志记录器正确传递给各服务。
//
// 参数：
//
//	ctx - 上下文，用于服务的初始化
//	logger - 日志记录器，用于记录服务初始化和运行过程中的日志信息
//	db - GORM 数据库连接对象
//	opts - 服务初始化选项
//
// 返回值：
//
//	*Services - 包含所有服务实例的结构体
//	error - 初始化过程中可能出现的错误
func NewServices(ctx context.Context, logger *slog.Logger, db *gorm.DB, opts Options) (*Services, error) {
	// 初始化实时数据采集器
	stats.InitCollector(logger.WithGroup("collector"))

	// 初始化统计服务
	statsService := stats.New(db, logger.WithGroup("stats"))

	// 初始化 OpenAI 上游客户端
	openaiClient := openai.New(
		opts.OpenAIBaseURL,
		opts.OpenAITimeout,
		opts.UserAgent,
		statsService,
		logger.WithGroup("openai"),
	)

	// 初始化会话服务
	sessionService := session.New(opts.SessionTTL, logger.WithGroup("session"))

	// 初始化聊天服务
	chatService := chat.New(db, openaiClient, logger.WithGroup("chat"))

	return &Services{
		SessionService: sessionService,
		OpenAIClient:   openaiClient,
		ChatService:    chatService,
		StatsService:   statsService,
	}, nil
}
