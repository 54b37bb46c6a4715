package text

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MeowSalty/aibox/services/openai"
	"github.com/MeowSalty/aibox/services/session"
	"github.com/gofiber/fiber/v2"
)

// fakeClient 记录请求并返回固定输出的假客户端
type fakeClient struct {
	lastMessages []openai.Message
	output       string
	err          error
}

func (f *fakeClient) GenerateImage(ctx context.Context, apiKey, prompt string) (string, error) {
	return "", errors.New("未实现")
}

func (f *fakeClient) Complete(ctx context.Context, apiKey string, messages []openai.Message) (string, error) {
	f.lastMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func (f *fakeClient) Speech(ctx context.Context, apiKey, input, voice string) ([]byte, error) {
	return nil, errors.New("未实现")
}

func (f *fakeClient) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return nil, errors.New("未实现")
}

func newTestApp(client openai.Client) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := fiber.New()
	// 测试中跳过登录流程，直接注入会话
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(session.LocalsKey, &session.Session{Token: "sess-1", APIKey: "sk-test"})
		return c.Next()
	})
	SetupTextRoutes(app.Group("/api"), client, logger)
	return app
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

func TestSummarize(t *testing.T) {
	fake := &fakeClient{output: "a summary"}
	app := newTestApp(fake)

	resp := postJSON(t, app, "/api/text/summarize", `{"text":"long text"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("解析响应失败：%v", err)
	}
	if body["output"] != "a summary" {
		t.Fatalf("意外的输出：%s", body["output"])
	}

	// 系统提示词应为摘要提示词
	if len(fake.lastMessages) != 2 || fake.lastMessages[0].Content != summarizePrompt {
		t.Errorf("意外的上游消息：%+v", fake.lastMessages)
	}
	if fake.lastMessages[1].Content != "long text" {
		t.Errorf("意外的用户消息：%+v", fake.lastMessages[1])
	}
}

func TestRewrite(t *testing.T) {
	fake := &fakeClient{output: "rewritten"}
	app := newTestApp(fake)

	resp := postJSON(t, app, "/api/text/rewrite", `{"text":"clumsy text"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	if len(fake.lastMessages) != 2 || fake.lastMessages[0].Content != rewritePrompt {
		t.Errorf("意外的上游消息：%+v", fake.lastMessages)
	}
}

func TestEmptyText(t *testing.T) {
	fake := &fakeClient{output: "unused"}
	app := newTestApp(fake)

	resp := postJSON(t, app, "/api/text/summarize", `{"text":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("空文本应返回 400，实际：%d", resp.StatusCode)
	}

	if fake.lastMessages != nil {
		t.Fatal("空文本不应调用上游")
	}
}

func TestUpstreamError(t *testing.T) {
	fake := &fakeClient{err: &openai.APIError{StatusCode: 401, Message: "Incorrect API key provided"}}
	app := newTestApp(fake)

	resp := postJSON(t, app, "/api/text/summarize", `{"text":"some text"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("上游错误应返回 502，实际：%d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("解析响应失败：%v", err)
	}
	if !strings.Contains(body["error"], "Incorrect API key provided") {
		t.Fatalf("错误响应应透传上游消息：%s", body["error"])
	}
}
