package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeowSalty/aibox/services/stats"
)

const (
	// DefaultBaseURL OpenAI API 默认基础地址
	DefaultBaseURL = "https://api.openai.com"

	// maxResponseBodyBytes 上游响应体大小上限
	maxResponseBodyBytes = 20 << 20
)

// Client 定义 OpenAI 上游客户端接口
//
// 所有操作都是一次同步调用：序列化请求体，POST 到固定端点，
// 解析响应。没有重试、退避或流式处理。
type Client interface {
	// GenerateImage 用给定的提示词生成一张图片，返回图片地址
	GenerateImage(ctx context.Context, apiKey, prompt string) (string, error)

	// Complete 发起一次聊天补全，返回第一条回复的内容
	Complete(ctx context.Context, apiKey string, messages []Message) (string, error)

	// Speech 将文本合成为语音，返回音频字节 (mp3)
	Speech(ctx context.Context, apiKey, input, voice string) ([]byte, error)

	// FetchImage 拉取生成的图片字节以便前端展示和下载
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// client 是 Client 接口的具体实现
type client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	stats      stats.Service
	logger     *slog.Logger
}

// New 创建 OpenAI 上游客户端
//
// 参数：
//   - baseURL: API 基础地址，空值使用默认地址
//   - timeout: 单次请求超时
//   - userAgent: 上游请求使用的 User-Agent，空值使用 Go 默认值
//   - statsService: 统计服务，用于记录每次上游调用（可为 nil）
//   - logger: 日志记录器实例
//
// 返回值：
//   - Client: 初始化后的客户端实例
func New(baseURL string, timeout time.Duration, userAgent string, statsService stats.Service, logger *slog.Logger) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		stats:      statsService,
		logger:     logger,
	}
}

// GenerateImage 用给定的提示词生成一张图片
func (c *client) GenerateImage(ctx context.Context, apiKey, prompt string) (string, error) {
	payload := imageGenerationRequest{
		Model:  ImageModel,
		Prompt: prompt,
		N:      1,
		Size:   "1024x1024",
	}

	body, err := c.post(ctx, apiKey, "/v1/images/generations", "images", ImageModel, payload)
	if err != nil {
		return "", err
	}

	var resp imageGenerationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("解析图片生成响应失败：%w", err)
	}
	if len(resp.Data) == 0 {
		return "", errors.New("图片生成响应中没有数据")
	}

	return resp.Data[0].URL, nil
}

// Complete 发起一次聊天补全
func (c *client) Complete(ctx context.Context, apiKey string, messages []Message) (string, error) {
	payload := chatCompletionRequest{
		Model:    ChatModel,
		Messages: messages,
	}

	body, err := c.post(ctx, apiKey, "/v1/chat/completions", "chat", ChatModel, payload)
	if err != nil {
		return "", err
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("解析聊天补全响应失败：%w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("聊天补全响应中没有候选结果")
	}

	return resp.Choices[0].Message.Content, nil
}

// Speech 将文本合成为语音
func (c *client) Speech(ctx context.Context, apiKey, input, voice string) ([]byte, error) {
	payload := speechRequest{
		Model: SpeechModel,
		Input: input,
		Voice: voice,
	}

	// 语音端点直接返回音频字节
	return c.post(ctx, apiKey, "/v1/audio/speech", "speech", SpeechModel, payload)
}

// FetchImage 拉取生成的图片字节
//
// 图片地址由上游签发，下载不需要鉴权。
func (c *client) FetchImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建图片下载请求失败：%w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载图片失败：%w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载图片失败，状态码：%d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取图片内容失败：%w", err)
	}
	return data, nil
}

// post 向上游端点发起 POST 请求并处理统计记录
//
// 非 2xx 响应被解析为 *APIError 返回。每次调用（无论成败）
// 都会写入请求日志。
func (c *client) post(ctx context.Context, apiKey, path, tool, model string, payload any) ([]byte, error) {
	startTime := time.Now()

	body, statusCode, err := c.doPost(ctx, apiKey, path, payload)

	// 记录本次上游调用
	if c.stats != nil {
		record := stats.RequestRecord{
			Tool:       tool,
			Model:      model,
			Duration:   time.Since(startTime),
			Success:    err == nil,
			StatusCode: statusCode,
		}
		if err != nil {
			record.ErrorMsg = err.Error()
		}
		c.stats.Record(ctx, record)
	}

	if err != nil {
		c.logger.ErrorContext(ctx, "上游请求失败",
			"tool", tool,
			"path", path,
			"status", statusCode,
			"error", err,
		)
		return nil, err
	}

	c.logger.InfoContext(ctx, "上游请求成功",
		"tool", tool,
		"path", path,
		"duration", time.Since(startTime),
	)
	return body, nil
}

// doPost 执行单次 HTTP POST 并读取响应体
func (c *client) doPost(ctx context.Context, apiKey, path string, payload any) ([]byte, int, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("序列化请求体失败：%w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, 0, fmt.Errorf("创建上游请求失败：%w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("上游请求失败：%w", err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("读取上游响应失败：%w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, decodeAPIError(resp.StatusCode, body)
	}

	return body, resp.StatusCode, nil
}

// decodeAPIError 从上游错误响应体解析 APIError
func decodeAPIError(statusCode int, body []byte) *APIError {
	var envelope apiErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		apiErr := *envelope.Error
		apiErr.StatusCode = statusCode
		return &apiErr
	}

	// 信封解析失败，退化为截断后的原始响应体
	message := string(body)
	if len(message) > 512 {
		message = message[:512]
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// readLimited 读取响应体并限制大小，防止异常上游占满内存
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxResponseBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxResponseBodyBytes {
		return nil, errors.New("上游响应过大，已超过限制")
	}
	return data, nil
}
