package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/MeowSalty/aibox/database/types"
	"gorm.io/gorm"
)

// New 创建一个新的统计服务实例
func New(db *gorm.DB, logger *slog.Logger) Service {
	return &service{db: db, logger: logger}
}

// Service 定义统计服务接口
type Service interface {
	// Record 记录一次上游请求的结果
	Record(ctx context.Context, record RequestRecord)

	// GetOverview 获取全局概览数据
	GetOverview(ctx context.Context, duration time.Duration) (*StatsOverviewResponse, error)

	// GetRealtime 获取实时数据
	GetRealtime(ctx context.Context) (*StatsRealtimeResponse, error)

	// ListRequestLogs 获取请求日志列表
	ListRequestLogs(ctx context.Context, opts ListRequestLogsOptions) ([]*types.RequestLog, int64, error)
}
