package image

import (
	"log/slog"

	"github.com/MeowSalty/aibox/services/openai"
	"github.com/gofiber/fiber/v2"
)

// SetupImageRoutes 配置图片生成相关的路由
func SetupImageRoutes(router fiber.Router, client openai.Client, logger *slog.Logger) {
	handler := New(client, logger.WithGroup("image"))

	imageGroup := router.Group("/image")
	imageGroup.Post("/generations", handler.Generate)
}
