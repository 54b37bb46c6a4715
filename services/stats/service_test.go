package stats

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/MeowSalty/aibox/database/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) Service {
	t.Helper()

	// 共享缓存让连接池里的每个连接都看到同一个内存数据库
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Discard,
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败：%v", err)
	}
	if err := db.AutoMigrate(&types.RequestLog{}); err != nil {
		t.Fatalf("迁移表结构失败：%v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(db, logger)
}

func TestRecordAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Record(ctx, RequestRecord{
		Tool:       "images",
		Model:      "dall-e-3",
		Duration:   1500 * time.Millisecond,
		Success:    true,
		StatusCode: 200,
	})
	svc.Record(ctx, RequestRecord{
		Tool:       "chat",
		Model:      "gpt-3.5-turbo",
		Duration:   300 * time.Millisecond,
		Success:    false,
		StatusCode: 401,
		ErrorMsg:   "Incorrect API key provided",
	})

	logs, total, err := svc.ListRequestLogs(ctx, ListRequestLogsOptions{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("获取请求日志列表失败：%v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("意外的日志数量：total=%d len=%d", total, len(logs))
	}

	// 工具类型筛选
	tool := "chat"
	logs, total, err = svc.ListRequestLogs(ctx, ListRequestLogsOptions{Page: 1, PageSize: 10, Tool: &tool})
	if err != nil {
		t.Fatalf("获取请求日志列表失败：%v", err)
	}
	if total != 1 || logs[0].Tool != "chat" {
		t.Fatalf("工具筛选结果异常：total=%d", total)
	}
	if logs[0].ErrorMsg == nil || *logs[0].ErrorMsg != "Incorrect API key provided" {
		t.Errorf("错误信息未保存：%+v", logs[0])
	}

	// 结果状态筛选
	success := true
	_, total, err = svc.ListRequestLogs(ctx, ListRequestLogsOptions{Page: 1, PageSize: 10, Success: &success})
	if err != nil {
		t.Fatalf("获取请求日志列表失败：%v", err)
	}
	if total != 1 {
		t.Fatalf("状态筛选结果异常：total=%d", total)
	}
}

func TestGetOverview(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.Record(ctx, RequestRecord{Tool: "images", Model: "dall-e-3", Duration: time.Second, Success: true, StatusCode: 200})
	svc.Record(ctx, RequestRecord{Tool: "chat", Model: "gpt-3.5-turbo", Duration: time.Second, Success: true, StatusCode: 200})
	svc.Record(ctx, RequestRecord{Tool: "chat", Model: "gpt-3.5-turbo", Duration: time.Second, Success: false, StatusCode: 500})

	overview, err := svc.GetOverview(ctx, 0)
	if err != nil {
		t.Fatalf("获取概览数据失败：%v", err)
	}
	if overview.TotalRequests != 3 {
		t.Errorf("意外的总请求数：%d", overview.TotalRequests)
	}
	if overview.SuccessRate < 0.66 || overview.SuccessRate > 0.67 {
		t.Errorf("意外的成功率：%f", overview.SuccessRate)
	}
	if overview.ToolCounts["chat"] != 2 || overview.ToolCounts["images"] != 1 {
		t.Errorf("意外的工具分布：%+v", overview.ToolCounts)
	}
}

func TestCollector(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	InitCollector(logger)
	collector := GetCollector()

	before := collector.GetRPM()
	collector.RecordRequest()
	collector.RecordRequest()
	if got := collector.GetRPM(); got < before+2 {
		t.Errorf("RPM 应至少增加 2：before=%d after=%d", before, got)
	}

	collector.IncrementConnection()
	collector.IncrementConnection()
	collector.DecrementConnection()
	if got := collector.GetActiveConnections(); got != 1 {
		t.Errorf("意外的活动连接数：%d", got)
	}
	collector.DecrementConnection()
}
