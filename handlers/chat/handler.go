package chat

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/MeowSalty/aibox/services/chat"
	"github.com/MeowSalty/aibox/services/openai"
	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// Handler 负责处理聊天请求
type Handler struct {
	chatService chat.Service
	logger      *slog.Logger
}

// SendRequest 表示发送消息的请求体
type SendRequest struct {
	Content string `json:"content"`
}

// New 创建聊天处理器实例
func New(chatService chat.Service, logger *slog.Logger) *Handler {
	return &Handler{
		chatService: chatService,
		logger:      logger,
	}
}

// Send 发送一条消息并返回助手回复与完整聊天记录
func (h *Handler) Send(c *fiber.Ctx) error {
	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求格式",
		})
	}

	if strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "请输入消息内容",
		})
	}

	sess := c.Locals(session.LocalsKey).(*session.Session)

	reply, messages, err := h.chatService.SendMessage(c.Context(), sess.Token, sess.APIKey, req.Content)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": apiErr.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "发送消息失败：" + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"reply":    reply,
		"messages": messages,
	})
}

// History 获取当前会话的聊天记录
func (h *Handler) History(c *fiber.Ctx) error {
	sess := c.Locals(session.LocalsKey).(*session.Session)

	messages, err := h.chatService.History(c.Context(), sess.Token)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "获取聊天记录失败：" + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"messages": messages,
	})
}

// Clear 清空当前会话的聊天记录
func (h *Handler) Clear(c *fiber.Ctx) error {
	sess := c.Locals(session.LocalsKey).(*session.Session)

	if err := h.chatService.Clear(c.Context(), sess.Token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "清空聊天记录失败：" + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "聊天记录已清空",
	})
}
