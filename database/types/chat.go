package types

import "time"

// 消息角色常量
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// 聊天消息表 (chat_messages)
//
// 按会话保存聊天记录，系统提示词不入库，在请求时动态拼装。
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`    // 消息 ID
	SessionID string    `gorm:"index" json:"session_id"` // 会话标识（外键指向内存会话）
	Role      string    `json:"role"`                    // 消息角色 (user, assistant)
	Content   string    `json:"content"`                 // 消息内容
	CreatedAt time.Time `gorm:"index" json:"created_at"` // 创建时间
}
