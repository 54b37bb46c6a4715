package chat

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MeowSalty/aibox/database/types"
	"github.com/MeowSalty/aibox/services/openai"
	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// fakeService 记录调用并返回固定数据的假聊天服务
type fakeService struct {
	lastSessionID string
	lastContent   string
	reply         string
	messages      []*types.ChatMessage
	err           error
	cleared       bool
}

func (f *fakeService) SendMessage(ctx context.Context, sessionID, apiKey, content string) (string, []*types.ChatMessage, error) {
	f.lastSessionID = sessionID
	f.lastContent = content
	if f.err != nil {
		return "", nil, f.err
	}
	return f.reply, f.messages, nil
}

func (f *fakeService) History(ctx context.Context, sessionID string) ([]*types.ChatMessage, error) {
	f.lastSessionID = sessionID
	return f.messages, nil
}

func (f *fakeService) Clear(ctx context.Context, sessionID string) error {
	f.lastSessionID = sessionID
	f.cleared = true
	return nil
}

func newTestApp(svc *fakeService) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := fiber.New()
	// 测试中跳过登录流程，直接注入会话
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(session.LocalsKey, &session.Session{Token: "sess-1", APIKey: "sk-test"})
		return c.Next()
	})
	SetupChatRoutes(app.Group("/api"), svc, logger)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, "/api/chat/messages", reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	return resp
}

func TestSend(t *testing.T) {
	svc := &fakeService{
		reply: "hi there",
		messages: []*types.ChatMessage{
			{ID: 1, SessionID: "sess-1", Role: types.RoleUser, Content: "hello"},
			{ID: 2, SessionID: "sess-1", Role: types.RoleAssistant, Content: "hi there"},
		},
	}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, `{"content":"hello"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	var body struct {
		Reply    string               `json:"reply"`
		Messages []*types.ChatMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("解析响应失败：%v", err)
	}
	if body.Reply != "hi there" {
		t.Errorf("意外的回复：%s", body.Reply)
	}
	if len(body.Messages) != 2 {
		t.Errorf("意外的消息数量：%d", len(body.Messages))
	}

	// 会话令牌作为聊天记录的标识
	if svc.lastSessionID != "sess-1" {
		t.Errorf("意外的会话标识：%s", svc.lastSessionID)
	}
	if svc.lastContent != "hello" {
		t.Errorf("意外的消息内容：%s", svc.lastContent)
	}
}

func TestSendEmptyContent(t *testing.T) {
	svc := &fakeService{reply: "unused"}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, `{"content":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("空消息应返回 400，实际：%d", resp.StatusCode)
	}

	if svc.lastContent != "" {
		t.Fatal("空消息不应调用聊天服务")
	}
}

func TestSendUpstreamError(t *testing.T) {
	svc := &fakeService{err: &openai.APIError{StatusCode: 429, Message: "Rate limit reached"}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodPost, `{"content":"hello"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("上游错误应返回 502，实际：%d", resp.StatusCode)
	}
}

func TestHistory(t *testing.T) {
	svc := &fakeService{
		messages: []*types.ChatMessage{
			{ID: 1, SessionID: "sess-1", Role: types.RoleUser, Content: "hello"},
		},
	}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodGet, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	var body struct {
		Messages []*types.ChatMessage `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("解析响应失败：%v", err)
	}
	if len(body.Messages) != 1 || body.Messages[0].Content != "hello" {
		t.Errorf("意外的聊天记录：%+v", body.Messages)
	}
}

func TestHistoryEmptySerializesAsArray(t *testing.T) {
	svc := &fakeService{messages: []*types.ChatMessage{}}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodGet, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("读取响应失败：%v", err)
	}
	// 空记录应序列化为空数组而不是 null
	if !strings.Contains(string(raw), `"messages":[]`) {
		t.Fatalf("空聊天记录应序列化为空数组：%s", raw)
	}
}

func TestClear(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc)

	resp := doRequest(t, app, http.MethodDelete, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}
	if !svc.cleared {
		t.Fatal("应调用聊天服务清空记录")
	}
}
