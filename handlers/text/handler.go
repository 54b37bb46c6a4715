package text

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/MeowSalty/aibox/services/openai"
	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// 文本工具使用的系统提示词
const (
	summarizePrompt = "Summarize the following text."
	rewritePrompt   = "Rewrite the following text to improve clarity."
)

// Handler 负责处理文本工具请求（摘要与改写）
type Handler struct {
	client openai.Client
	logger *slog.Logger
}

// TextRequest 表示文本工具请求体
type TextRequest struct {
	Text string `json:"text"`
}

// New 创建文本工具处理器实例
func New(client openai.Client, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// Summarize 处理文本摘要请求
func (h *Handler) Summarize(c *fiber.Ctx) error {
	return h.complete(c, summarizePrompt)
}

// Rewrite 处理文本改写请求
func (h *Handler) Rewrite(c *fiber.Ctx) error {
	return h.complete(c, rewritePrompt)
}

// complete 以固定系统提示词发起一次聊天补全
//
// 摘要与改写共用同一条上游通路，只有系统提示词不同。
func (h *Handler) complete(c *fiber.Ctx, systemPrompt string) error {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求格式",
		})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "请输入文本内容",
		})
	}

	sess := c.Locals(session.LocalsKey).(*session.Session)

	messages := []openai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: req.Text},
	}

	output, err := h.client.Complete(c.Context(), sess.APIKey, messages)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": apiErr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "文本处理失败：" + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"output": output,
	})
}
