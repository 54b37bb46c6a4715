package types

import (
	"time"
)

// RequestLog 表示单次上游请求的统计信息
type RequestLog struct {
	ID string `gorm:"primaryKey" json:"id"` // 唯一标识符

	// 请求基本信息
	Timestamp time.Time `gorm:"index" json:"timestamp"` // 请求时间
	Tool      string    `gorm:"index" json:"tool"`      // 工具类型 (images, chat, speech)
	Model     string    `gorm:"index" json:"model"`     // 模型名称

	// 耗时信息
	Duration int64 `json:"duration"` // 总用时 (微秒)

	// 结果状态
	Success    bool    `gorm:"index" json:"success"` // 是否成功
	StatusCode int     `json:"status_code"`          // 上游 HTTP 状态码（网络错误时为 0）
	ErrorMsg   *string `json:"error_msg,omitempty"`  // 错误信息（失败时）

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
