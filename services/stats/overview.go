package stats

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/MeowSalty/aibox/database/types"
)

const (
	// defaultDuration 默认统计时间范围
	defaultDuration = 24 * time.Hour
)

// toolCount 工具请求数聚合行
type toolCount struct {
	Tool  string
	Count int64
}

// GetOverview 实现获取全局概览数据的业务逻辑
//
// 该方法通过并发查询优化性能，获取指定时间范围内的统计数据：
//   - 总请求数和成功率
//   - 平均用时
//   - 各工具的请求数分布
//
// 参数：
//   - ctx: 上下文，用于控制请求生命周期
//   - duration: 统计时间范围，0 值将使用默认的 24 小时
//
// 返回：
//   - *StatsOverviewResponse: 包含所有统计数据的响应对象
//   - error: 如果查询失败则返回错误
func (s *service) GetOverview(ctx context.Context, duration time.Duration) (*StatsOverviewResponse, error) {
	// 设置默认时间范围
	if duration == 0 {
		duration = defaultDuration
	}

	startTime := time.Now().Add(-duration)

	s.logger.InfoContext(ctx, "开始获取全局概览数据",
		"duration", duration,
		"start_time", startTime,
	)

	var (
		totalRequests   int64
		successRequests int64
		avgDuration     float64
		toolCounts      map[string]int64

		wg      sync.WaitGroup
		errChan = make(chan error, 3)
	)

	// 并发查询 1: 获取请求统计（总数和成功数）
	wg.Add(1)
	go func() {
		defer wg.Done()
		total, success, err := s.getRequestCounts(ctx, startTime)
		if err != nil {
			errChan <- fmt.Errorf("获取请求统计失败：%w", err)
			return
		}
		totalRequests = total
		successRequests = success
	}()

	// 并发查询 2: 计算平均用时
	wg.Add(1)
	go func() {
		defer wg.Done()
		avg, err := s.getAvgDuration(ctx, startTime)
		if err != nil {
			errChan <- fmt.Errorf("计算平均用时失败：%w", err)
			return
		}
		avgDuration = avg
	}()

	// 并发查询 3: 获取各工具请求数分布
	wg.Add(1)
	go func() {
		defer wg.Done()
		counts, err := s.getToolCounts(ctx, startTime)
		if err != nil {
			errChan <- fmt.Errorf("获取工具分布失败：%w", err)
			return
		}
		toolCounts = counts
	}()

	wg.Wait()
	close(errChan)

	// 收集第一个错误
	for err := range errChan {
		if err != nil {
			s.logger.ErrorContext(ctx, "获取全局概览数据失败", "error", err)
			return nil, err
		}
	}

	successRate := 0.0
	if totalRequests > 0 {
		successRate = float64(successRequests) / float64(totalRequests)
	}

	return &StatsOverviewResponse{
		TotalRequests: totalRequests,
		SuccessRate:   successRate,
		AvgDuration:   avgDuration,
		ToolCounts:    toolCounts,
	}, nil
}

// getRequestCounts 查询指定时间之后的总请求数与成功请求数
func (s *service) getRequestCounts(ctx context.Context, startTime time.Time) (int64, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&types.RequestLog{}).
		Where("timestamp >= ?", startTime).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var success int64
	if err := s.db.WithContext(ctx).Model(&types.RequestLog{}).
		Where("timestamp >= ? AND success = ?", startTime, true).
		Count(&success).Error; err != nil {
		return 0, 0, err
	}

	return total, success, nil
}

// getAvgDuration 查询指定时间之后的平均请求用时（微秒）
func (s *service) getAvgDuration(ctx context.Context, startTime time.Time) (float64, error) {
	var avg sql.NullFloat64
	if err := s.db.WithContext(ctx).Model(&types.RequestLog{}).
		Select("AVG(duration)").
		Where("timestamp >= ?", startTime).
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if !avg.Valid {
		// 没有任何记录
		return 0, nil
	}
	return avg.Float64, nil
}

// getToolCounts 查询指定时间之后各工具的请求数
func (s *service) getToolCounts(ctx context.Context, startTime time.Time) (map[string]int64, error) {
	var rows []toolCount
	if err := s.db.WithContext(ctx).Model(&types.RequestLog{}).
		Select("tool, COUNT(*) AS count").
		Where("timestamp >= ?", startTime).
		Group("tool").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Tool] = row.Count
	}
	return counts, nil
}
