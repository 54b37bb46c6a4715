package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) (*fiber.App, session.Service) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.New(time.Hour, logger)
	t.Cleanup(sessions.Close)

	app := fiber.New()
	SetupAuthRoutes(app.Group("/api"), sessions, "admin", "admin", logger)
	return app, sessions
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	return resp
}

func TestLoginSuccess(t *testing.T) {
	app, sessions := newTestApp(t)

	resp := postJSON(t, app, "/api/auth/login", `{"username":"admin","password":"admin"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	// 应写入会话 cookie
	var token string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == CookieName {
			token = cookie.Value
		}
	}
	if token == "" {
		t.Fatal("登录成功后应写入会话 cookie")
	}

	if _, ok := sessions.Get(token); !ok {
		t.Fatal("cookie 中的令牌应对应一个有效会话")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("解析响应失败：%v", err)
	}
	if body["error"] == "" {
		t.Fatal("失败响应应包含错误信息")
	}
}

func TestLogout(t *testing.T) {
	app, sessions := newTestApp(t)

	sess := sessions.Create()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.Token})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	if _, ok := sessions.Get(sess.Token); ok {
		t.Fatal("登出后会话应被删除")
	}
}

func TestStatus(t *testing.T) {
	app, sessions := newTestApp(t)

	// 未登录
	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}

	var body struct {
		LoggedIn  bool `json:"logged_in"`
		HasAPIKey bool `json:"has_api_key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("解析响应失败：%v", err)
	}
	if body.LoggedIn {
		t.Fatal("未登录状态不应为已登录")
	}

	// 已登录且配置了 API Key
	sess := sessions.Create()
	sessions.SetAPIKey(sess.Token, "sk-test")

	req = httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.Token})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("解析响应失败：%v", err)
	}
	if !body.LoggedIn || !body.HasAPIKey {
		t.Fatalf("意外的登录状态：%+v", body)
	}
}
