package speech

import (
	"log/slog"

	"github.com/MeowSalty/aibox/services/openai"
	"github.com/gofiber/fiber/v2"
)

// SetupSpeechRoutes 配置语音合成相关的路由
func SetupSpeechRoutes(router fiber.Router, client openai.Client, logger *slog.Logger) {
	handler := New(client, logger.WithGroup("speech"))

	router.Post("/speech", handler.Generate)
}
