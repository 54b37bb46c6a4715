package router

import (
	"log/slog"

	authHandler "github.com/MeowSalty/aibox/handlers/auth"
	chatHandler "github.com/MeowSalty/aibox/handlers/chat"
	imageHandler "github.com/MeowSalty/aibox/handlers/image"
	settingsHandler "github.com/MeowSalty/aibox/handlers/settings"
	speechHandler "github.com/MeowSalty/aibox/handlers/speech"
	statsHandler "github.com/MeowSalty/aibox/handlers/stats"
	textHandler "github.com/MeowSalty/aibox/handlers/text"
	"github.com/MeowSalty/aibox/services"
	"github.com/MeowSalty/aibox/services/session"
	statsService "github.com/MeowSalty/aibox/services/stats"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Config 路由配置
type Config struct {
	EnableWeb bool
	WebDir    string
	AdminUser string
	AdminPass string
}

// SetupRoutes 配置 API 路由
func SetupRoutes(web *fiber.App, svcs *services.Services, config Config, logger *slog.Logger) error {
	web.Use(cors.New())
	webAPI := web.Group("/api")

	webAPI.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "pong",
		})
	})

	// 登录相关路由不要求会话
	authHandler.SetupAuthRoutes(webAPI, svcs.SessionService, config.AdminUser, config.AdminPass, logger)

	// 其余 API 都要求已登录会话
	authed := webAPI.Group("", createSessionMiddleware(svcs.SessionService))

	settingsHandler.SetupSettingsRoutes(authed, svcs.SessionService)
	statsHandler.SetupStatsRoutes(authed, svcs.StatsService)

	// 工具路由额外要求已配置 API Key，并接入统计采集
	tools := authed.Group("", createStatsCollectorMiddleware(), createAPIKeyMiddleware())

	imageHandler.SetupImageRoutes(tools, svcs.OpenAIClient, logger)
	textHandler.SetupTextRoutes(tools, svcs.OpenAIClient, logger)
	speechHandler.SetupSpeechRoutes(tools, svcs.OpenAIClient, logger)
	chatHandler.SetupChatRoutes(tools, svcs.ChatService, logger)

	// 如果启用了前端支持，则设置前端路由
	if config.EnableWeb {
		// 静态文件服务
		web.Static("/", config.WebDir)
		// 添加一个兜底路由，将未匹配的路径都指向 index.html 以支持 SPA
		web.Get("*", func(c *fiber.Ctx) error {
			return c.SendFile(config.WebDir + "/index.html")
		})
	}

	return nil
}

// createSessionMiddleware 创建会话验证中间件
//
// 从 cookie 中读取会话令牌并查找会话，查找成功后把会话放入
// Locals 供后续处理器使用。
func createSessionMiddleware(sessions session.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(authHandler.CookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "未登录",
			})
		}

		sess, ok := sessions.Get(token)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "会话已过期，请重新登录",
			})
		}

		c.Locals(session.LocalsKey, sess)
		return c.Next()
	}
}

// createAPIKeyMiddleware 创建 API Key 检查中间件
//
// 工具接口在会话未配置上游 API Key 时直接拒绝，不发起上游调用。
func createAPIKeyMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := c.Locals(session.LocalsKey).(*session.Session)
		if !ok || sess.APIKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "请先在设置中配置 OpenAI API Key",
			})
		}
		return c.Next()
	}
}

// createStatsCollectorMiddleware 创建统计数据采集中间件
//
// 该中间件用于采集工具接口的请求数据和活动连接数。
// 所有工具接口都是一次同步调用，请求完成即可减少连接数。
func createStatsCollectorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		collector := statsService.GetCollector()

		// 记录请求
		collector.RecordRequest()

		// 增加活动连接数，请求完成后减少
		collector.IncrementConnection()
		defer collector.DecrementConnection()

		return c.Next()
	}
}
