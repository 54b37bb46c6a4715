package image

import (
	"context"
	"encoding/base64"
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

// fakeClient 只实现图片相关操作的假客户端
type fakeClient struct {
	lastPrompt string
	url        string
	image      []byte
	genErr     error
	fetchErr   error
}

func (f *fakeClient) GenerateImage(ctx context.Context, apiKey, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.genErr != nil {
		return "", f.genErr
	}
	return f.url, nil
}

func (f *fakeClient) Complete(ctx context.Context, apiKey string, messages []openai.Message) (string, error) {
	return "", errors.New("未实现")
}

func (f *fakeClient) Speech(ctx context.Context, apiKey, input, voice string) ([]byte, error) {
	return nil, errors.New("未实现")
}

func (f *fakeClient) FetchImage(ctx context.Context, url string) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.image, nil
}

func newTestApp(client openai.Client) *fiber.App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := fiber.New()
	// 测试中跳过登录流程，直接注入会话
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(session.LocalsKey, &session.Session{Token: "sess-1", APIKey: "sk-test"})
		return c.Next()
	})
	SetupImageRoutes(app.Group("/api"), client, logger)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/image/generations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("请求失败：%v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]string {
	t.Helper()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("解析响应失败：%v", err)
	}
	return body
}

func TestGenerate(t *testing.T) {
	fake := &fakeClient{url: "https://cdn.example.com/img.png", image: []byte("png-bytes")}
	app := newTestApp(fake)

	resp := postJSON(t, app, `{"prompt":"a red fox"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["url"] != fake.url {
		t.Errorf("意外的图片地址：%s", body["url"])
	}
	if body["b64_png"] != base64.StdEncoding.EncodeToString(fake.image) {
		t.Errorf("意外的图片内容：%s", body["b64_png"])
	}
	if fake.lastPrompt != "a red fox" {
		t.Errorf("意外的提示词：%s", fake.lastPrompt)
	}
}

func TestEmptyPrompt(t *testing.T) {
	fake := &fakeClient{url: "unused"}
	app := newTestApp(fake)

	resp := postJSON(t, app, `{"prompt":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("空提示词应返回 400，实际：%d", resp.StatusCode)
	}

	if fake.lastPrompt != "" {
		t.Fatal("空提示词不应调用上游")
	}
}

func TestFetchFailureReturnsURLOnly(t *testing.T) {
	fake := &fakeClient{
		url:      "https://cdn.example.com/img.png",
		fetchErr: errors.New("连接被重置"),
	}
	app := newTestApp(fake)

	// 图片已经生成，拉取失败时仍应把地址交给前端
	resp := postJSON(t, app, `{"prompt":"a red fox"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("意外的状态码：%d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["url"] != fake.url {
		t.Errorf("意外的图片地址：%s", body["url"])
	}
	if _, ok := body["b64_png"]; ok {
		t.Error("拉取失败时响应不应包含图片字节")
	}
}

func TestUpstreamError(t *testing.T) {
	fake := &fakeClient{genErr: &openai.APIError{StatusCode: 400, Message: "Your request was rejected"}}
	app := newTestApp(fake)

	resp := postJSON(t, app, `{"prompt":"something"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("上游错误应返回 502，实际：%d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if !strings.Contains(body["error"], "Your request was rejected") {
		t.Fatalf("错误响应应透传上游消息：%s", body["error"])
	}
}
