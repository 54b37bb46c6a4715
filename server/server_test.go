package server

import (
	"io"
	"log/slog"
	"testing"
)

// 会话表和实时采集器都只存在于单个进程的内存中，
// prefork 一旦开启，登录状态就无法跨子进程共享。
func TestAppNeverPrefork(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := newFiberApp(logger)
	if app.Config().Prefork {
		t.Fatal("fiber 应用不应启用 prefork")
	}
}
