package image

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/MeowSalty/aibox/services/openai"
	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// Handler 负责处理图片生成请求
type Handler struct {
	client openai.Client
	logger *slog.Logger
}

// GenerateRequest 表示图片生成请求体
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// New 创建图片生成处理器实例
func New(client openai.Client, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// Generate 处理图片生成请求
//
// 调用上游生成图片后再拉取图片字节，前端据此展示并提供下载，
// 不需要二次跨域访问图片地址。
func (h *Handler) Generate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求格式",
		})
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "请输入图片描述",
		})
	}

	sess := c.Locals(session.LocalsKey).(*session.Session)
	ctx := c.Context()

	url, err := h.client.GenerateImage(ctx, sess.APIKey, req.Prompt)
	if err != nil {
		return upstreamError(c, err)
	}

	data, err := h.client.FetchImage(ctx, url)
	if err != nil {
		// 图片已经生成，拉取失败时仍返回地址
		h.logger.WarnContext(ctx, "拉取生成图片失败", "error", err)
		return c.JSON(fiber.Map{
			"url": url,
		})
	}

	return c.JSON(fiber.Map{
		"url":     url,
		"b64_png": base64.StdEncoding.EncodeToString(data),
	})
}

// upstreamError 将上游错误转换为 HTTP 响应
func upstreamError(c *fiber.Ctx, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": apiErr.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "图片生成失败：" + err.Error(),
	})
}
