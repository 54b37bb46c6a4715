package chat

import (
	"log/slog"

	"github.com/MeowSalty/aibox/services/chat"
	"github.com/gofiber/fiber/v2"
)

// SetupChatRoutes 配置聊天相关的路由
func SetupChatRoutes(router fiber.Router, chatService chat.Service, logger *slog.Logger) {
	handler := New(chatService, logger.WithGroup("chat"))

	chatGroup := router.Group("/chat")
	chatGroup.Post("/messages", handler.Send)
	chatGroup.Get("/messages", handler.History)
	chatGroup.Delete("/messages", handler.Clear)
}
