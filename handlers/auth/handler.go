package auth

import (
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// CookieName 会话 cookie 名称
const CookieName = "aibox_session"

// Handler 负责处理登录相关请求
type Handler struct {
	sessions  session.Service
	adminUser string
	adminPass string
	logger    *slog.Logger
}

// LoginRequest 表示登录请求体
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// New 创建登录处理器实例
//
// 参数：
//   - sessions: 会话服务实例
//   - adminUser: 登录用户名
//   - adminPass: 登录密码
//   - logger: 日志记录器实例
//
// 返回值：
//   - *Handler: 初始化后的登录处理器实例
func New(sessions session.Service, adminUser, adminPass string, logger *slog.Logger) *Handler {
	return &Handler{
		sessions:  sessions,
		adminUser: adminUser,
		adminPass: adminPass,
		logger:    logger,
	}
}

// Login 处理登录请求
//
// 凭证校验只是一次常量时间的字符串比较，匹配成功后创建
// 内存会话并写入 cookie。
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求格式",
		})
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPass)) == 1
	if !userOK || !passOK {
		h.logger.Warn("登录失败", "username", req.Username)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "用户名或密码错误",
		})
	}

	sess := h.sessions.Create()

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sess.Token,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	h.logger.Info("登录成功", "username", req.Username)
	return c.JSON(fiber.Map{
		"message": "登录成功",
	})
}

// Logout 处理登出请求
func (h *Handler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(CookieName)
	if token != "" {
		h.sessions.Delete(token)
	}

	// 清除 cookie
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"message": "已登出",
	})
}

// Status 查询当前登录状态
func (h *Handler) Status(c *fiber.Ctx) error {
	token := c.Cookies(CookieName)
	if token == "" {
		return c.JSON(fiber.Map{
			"logged_in":   false,
			"has_api_key": false,
		})
	}

	sess, ok := h.sessions.Get(token)
	if !ok {
		return c.JSON(fiber.Map{
			"logged_in":   false,
			"has_api_key": false,
		})
	}

	return c.JSON(fiber.Map{
		"logged_in":   true,
		"has_api_key": sess.APIKey != "",
	})
}
