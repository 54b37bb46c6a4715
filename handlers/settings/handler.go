package settings

import (
	"strings"

	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// Handler 负责处理会话设置相关请求
type Handler struct {
	sessions session.Service
}

// SetKeyRequest 表示设置 API Key 的请求体
type SetKeyRequest struct {
	APIKey string `json:"api_key"`
}

// New 创建设置处理器实例
func New(sessions session.Service) *Handler {
	return &Handler{sessions: sessions}
}

// SetKey 将上游 API Key 写入当前会话
//
// Key 只保存在内存会话中，随会话过期或登出一起消失。
func (h *Handler) SetKey(c *fiber.Ctx) error {
	var req SetKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求格式",
		})
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "请输入 OpenAI API Key",
		})
	}

	sess := c.Locals(session.LocalsKey).(*session.Session)
	if !h.sessions.SetAPIKey(sess.Token, apiKey) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "会话已过期，请重新登录",
		})
	}

	return c.JSON(fiber.Map{
		"message": "API Key 已保存",
	})
}

// GetKey 查询当前会话是否已配置 API Key
//
// 出于安全考虑不回显 Key 本身。
func (h *Handler) GetKey(c *fiber.Ctx) error {
	sess := c.Locals(session.LocalsKey).(*session.Session)
	return c.JSON(fiber.Map{
		"configured": sess.APIKey != "",
	})
}
