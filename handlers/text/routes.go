package text

import (
	"log/slog"

	"github.com/MeowSalty/aibox/services/openai"
	"github.com/gofiber/fiber/v2"
)

// SetupTextRoutes 配置文本工具相关的路由
func SetupTextRoutes(router fiber.Router, client openai.Client, logger *slog.Logger) {
	handler := New(client, logger.WithGroup("text"))

	textGroup := router.Group("/text")
	textGroup.Post("/summarize", handler.Summarize)
	textGroup.Post("/rewrite", handler.Rewrite)
}
