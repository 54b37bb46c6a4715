package stats

import (
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// service 是 Service 接口的具体实现
type service struct {
	db     *gorm.DB
	logger *slog.Logger
}

// RequestRecord 表示一次待记录的上游请求结果
type RequestRecord struct {
	Tool       string        // 工具类型 (images, chat, speech)
	Model      string        // 模型名称
	Duration   time.Duration // 总用时
	Success    bool          // 是否成功
	StatusCode int           // 上游 HTTP 状态码（网络错误时为 0）
	ErrorMsg   string        // 错误信息（失败时）
}

// StatsOverviewResponse 定义了全局概览数据的响应结构
type StatsOverviewResponse struct {
	TotalRequests int64            `json:"total_requests"` // 总请求量
	SuccessRate   float64          `json:"success_rate"`   // 成功率
	AvgDuration   float64          `json:"avg_duration"`   // 平均用时 (微秒)
	ToolCounts    map[string]int64 `json:"tool_counts"`    // 各工具请求数
}

// StatsRealtimeResponse 定义了实时数据的响应结构
type StatsRealtimeResponse struct {
	RPM               int64 `json:"rpm"`                // 每分钟请求数
	ActiveConnections int64 `json:"active_connections"` // 活动连接数
}

// ListRequestLogsOptions 定义了获取请求日志列表的筛选选项
type ListRequestLogsOptions struct {
	// 时间范围筛选
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Success   *bool      `json:"success,omitempty"`
	Tool      *string    `json:"tool,omitempty"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}
