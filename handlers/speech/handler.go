package speech

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MeowSalty/aibox/services/openai"
	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// Handler 负责处理语音合成请求
type Handler struct {
	client openai.Client
	logger *slog.Logger
}

// SpeechRequest 表示语音合成请求体
type SpeechRequest struct {
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// New 创建语音合成处理器实例
func New(client openai.Client, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// Generate 处理语音合成请求，直接返回 mp3 字节
func (h *Handler) Generate(c *fiber.Ctx) error {
	var req SpeechRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求格式",
		})
	}

	if strings.TrimSpace(req.Input) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "请输入要转换的文本",
		})
	}

	if !openai.IsValidVoice(req.Voice) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("不支持的声音：%s，可选值：%s", req.Voice, strings.Join(openai.Voices, ", ")),
		})
	}

	sess := c.Locals(session.LocalsKey).(*session.Session)

	audio, err := h.client.Speech(c.Context(), sess.APIKey, req.Input, req.Voice)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": apiErr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "语音合成失败：" + err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="speech.mp3"`)
	return c.Send(audio)
}
