package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/MeowSalty/aibox/database/types"
	"github.com/google/uuid"
)

// Record 实现记录单次上游请求结果的业务逻辑
//
// 记录失败只写日志不向调用方返回错误，避免统计问题影响业务请求。
func (s *service) Record(ctx context.Context, record RequestRecord) {
	entry := &types.RequestLog{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		Tool:       record.Tool,
		Model:      record.Model,
		Duration:   record.Duration.Microseconds(),
		Success:    record.Success,
		StatusCode: record.StatusCode,
	}
	if record.ErrorMsg != "" {
		msg := record.ErrorMsg
		entry.ErrorMsg = &msg
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		s.logger.ErrorContext(ctx, "写入请求日志失败", "error", err, "tool", record.Tool)
	}
}

// ListRequestLogs 实现获取请求日志列表的业务逻辑
func (s *service) ListRequestLogs(ctx context.Context, opts ListRequestLogsOptions) ([]*types.RequestLog, int64, error) {
	s.logger.InfoContext(ctx, "开始获取请求日志列表",
		"page", opts.Page,
		"page_size", opts.PageSize,
	)

	// 构建查询条件
	query := s.db.WithContext(ctx).Model(&types.RequestLog{})

	// 时间范围筛选
	if opts.StartTime != nil {
		query = query.Where("timestamp >= ?", *opts.StartTime)
	}
	if opts.EndTime != nil {
		query = query.Where("timestamp <= ?", *opts.EndTime)
	}

	// 结果状态筛选
	if opts.Success != nil {
		query = query.Where("success = ?", *opts.Success)
	}

	// 工具类型筛选
	if opts.Tool != nil {
		query = query.Where("tool = ?", *opts.Tool)
	}

	// 统计总数
	var count int64
	if err := query.Count(&count).Error; err != nil {
		s.logger.ErrorContext(ctx, "统计请求日志总数失败", "error", err)
		return nil, 0, fmt.Errorf("获取请求日志列表失败：%w", err)
	}

	// 计算偏移量
	offset := (opts.Page - 1) * opts.PageSize

	// 执行分页查询，按时间倒序排列以确保最新数据在前
	var result []*types.RequestLog
	if err := query.Order("timestamp DESC").Offset(offset).Limit(opts.PageSize).Find(&result).Error; err != nil {
		s.logger.ErrorContext(ctx, "获取请求日志列表失败", "error", err)
		return nil, 0, fmt.Errorf("获取请求日志列表失败：%w", err)
	}

	s.logger.InfoContext(ctx, "成功获取请求日志列表",
		"count", count,
		"result_size", len(result),
	)

	return result, count, nil
}
