package stats

import (
	"strconv"
	"time"

	"github.com/MeowSalty/aibox/services/stats"
	"github.com/gofiber/fiber/v2"
)

// StatsHandler 统计处理器结构体
type StatsHandler struct {
	StatsService stats.Service
}

// NewStatsHandler 创建统计处理器实例
//
// 参数：
//   - statsService: 统计服务接口实例
//
// 返回值：
//   - *StatsHandler: 统计处理器实例
func NewStatsHandler(statsService stats.Service) *StatsHandler {
	return &StatsHandler{
		StatsService: statsService,
	}
}

// GetOverview 获取全局概览数据
//
// 支持通过 hours 查询参数指定统计时间范围，默认 24 小时。
func (h *StatsHandler) GetOverview(c *fiber.Ctx) error {
	duration := time.Duration(0)
	if hours := c.QueryInt("hours", 0); hours > 0 {
		duration = time.Duration(hours) * time.Hour
	}

	overview, err := h.StatsService.GetOverview(c.Context(), duration)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "获取统计概览数据失败："+err.Error())
	}

	return c.JSON(overview)
}

// GetRealtime 获取实时数据
func (h *StatsHandler) GetRealtime(c *fiber.Ctx) error {
	realtime, err := h.StatsService.GetRealtime(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "获取实时数据失败："+err.Error())
	}

	return c.JSON(realtime)
}

// ListRequestLogs 获取请求日志列表
func (h *StatsHandler) ListRequestLogs(c *fiber.Ctx) error {
	opts := stats.ListRequestLogsOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 || opts.PageSize > 100 {
		opts.PageSize = 20
	}

	// 结果状态筛选
	if successStr := c.Query("success"); successStr != "" {
		success, err := strconv.ParseBool(successStr)
		if err == nil {
			opts.Success = &success
		}
	}

	// 工具类型筛选
	if tool := c.Query("tool"); tool != "" {
		opts.Tool = &tool
	}

	logs, total, err := h.StatsService.ListRequestLogs(c.Context(), opts)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "获取请求日志列表失败："+err.Error())
	}

	return c.JSON(fiber.Map{
		"total":     total,
		"page":      opts.Page,
		"page_size": opts.PageSize,
		"logs":      logs,
	})
}
