package settings

import (
	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// SetupSettingsRoutes 配置会话设置相关的路由
func SetupSettingsRoutes(router fiber.Router, sessions session.Service) {
	handler := New(sessions)

	settingsGroup := router.Group("/settings")
	settingsGroup.Put("/key", handler.SetKey)
	settingsGroup.Get("/key", handler.GetKey)
}
