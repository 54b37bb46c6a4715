package auth

import (
	"log/slog"

	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes 配置登录相关的路由
//
// 这些路由不要求已登录会话。
func SetupAuthRoutes(router fiber.Router, sessions session.Service, adminUser, adminPass string, logger *slog.Logger) {
	handler := New(sessions, adminUser, adminPass, logger.WithGroup("auth"))

	authGroup := router.Group("/auth")
	authGroup.Post("/login", handler.Login)
	authGroup.Post("/logout", handler.Logout)
	authGroup.Get("/status", handler.Status)
}
