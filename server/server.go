package server

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/MeowSalty/aibox/config"
	"github.com/MeowSalty/aibox/database"
	"github.com/MeowSalty/aibox/frontend"
	"github.com/MeowSalty/aibox/logger"
	"github.com/MeowSalty/aibox/router"
	"github.com/MeowSalty/aibox/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	slogfiber "github.com/samber/slog-fiber"
)

// newFiberApp 创建 fiber 应用并挂载基础中间件
//
// 会话与实时采集器都保存在进程内存中，因此不启用 prefork 多进程
// 模式：子进程各自持有一份空的会话表，登录后的请求会被其他
// 子进程拒绝。
func newFiberApp(fiberLogger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		Prefork: false,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			stack := debug.Stack()
			// 将堆栈信息按行分割，以数组形式记录，提高 JSON 日志可读性
			stackLines := strings.Split(strings.TrimSpace(string(stack)), "\n")
			fiberLogger.Error("发生 panic",
				"panic", e,
				"path", c.Path(),
				"method", c.Method(),
				"stack", stackLines,
			)
		},
	}))
	app.Use(slogfiber.New(fiberLogger))

	return app
}

// Run 启动服务器
func Run(cfg *config.Config) {
	// 初始化日志记录器
	appLogger, fileHandler := logger.InitLogger(cfg.LogLevel)
	if fileHandler != nil {
		defer fileHandler.Close()
	}

	// 创建日志组
	fiberLogger := appLogger.WithGroup("fiber")
	gormLogger := appLogger.WithGroup("gorm")
	frontendLogger := appLogger.WithGroup("frontend")
	routerLogger := appLogger.WithGroup("router")

	slog.SetDefault(appLogger)

	// 如果启用了前端支持，则初始化前端
	if cfg.EnableWeb {
		if err := frontend.InitializeWeb(frontendLogger, &cfg.WebDir, cfg.EnableFrontendUpdate, cfg.GitHubProxy); err != nil {
			appLogger.Error("初始化前端失败，本次运行将禁用前端支持", "error", err)
			cfg.EnableWeb = false
		}
	}

	// 连接数据库
	db, err := database.Connect(cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBSSLMode, cfg.DBTLSConfig, gormLogger)
	if err != nil {
		appLogger.Error("数据库连接失败", "error", err)
		os.Exit(1)
	}

	// 创建 fiber 应用
	fiberApp := newFiberApp(fiberLogger)

	// 初始化服务
	appContext := context.Background()
	svcs, err := services.NewServices(appContext, appLogger.WithGroup("services"), db, services.Options{
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAITimeout: time.Duration(cfg.OpenAITimeoutMS) * time.Millisecond,
		UserAgent:     cfg.UserAgent,
		SessionTTL:    time.Duration(cfg.SessionTTLMin) * time.Minute,
	})
	if err != nil {
		appLogger.Error("服务初始化失败", "error", err)
		os.Exit(1)
	}

	// 如果使用默认凭证，输出警告
	if cfg.AdminUser == "admin" && cfg.AdminPass == "admin" {
		appLogger.Warn("正在使用默认登录凭证，请通过 ADMIN_USER/ADMIN_PASS 修改")
	}

	// 设置路由
	routerConfig := router.Config{
		EnableWeb: cfg.EnableWeb,
		WebDir:    cfg.WebDir,
		AdminUser: cfg.AdminUser,
		AdminPass: cfg.AdminPass,
	}
	if err := router.SetupRoutes(fiberApp, svcs, routerConfig, routerLogger); err != nil {
		appLogger.Error("路由设置失败", "error", err)
		os.Exit(1)
	}

	// 启动 Web 服务
	go func() {
		if err := fiberApp.Listen(cfg.Port); err != nil {
			fiberLogger.Error("无法启动 Web 服务", "error", err)
			os.Exit(1)
		}
	}()

	// 等待关闭信号
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-c
	appLogger.Info("收到关闭信号，正在关闭应用...")

	// 关闭会话服务
	if svcs.SessionService != nil {
		svcs.SessionService.Close()
		appLogger.Info("会话服务已成功关闭")
	}

	// 关闭 Web 服务
	if err := fiberApp.Shutdown(); err != nil {
		fiberLogger.Error("关闭 Web 服务失败", "error", err)
	} else {
		fiberLogger.Info("Web 服务已成功关闭")
	}

	// 关闭数据库连接
	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("获取数据库连接失败", "error", err)
	} else if err := sqlDB.Close(); err != nil {
		appLogger.Error("关闭数据库连接失败", "error", err)
	} else {
		appLogger.Info("数据库连接已成功关闭")
	}
	appLogger.Info("应用已成功关闭")
}
