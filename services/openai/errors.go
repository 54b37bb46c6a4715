package openai

import "fmt"

// APIError 表示上游 OpenAI API 返回的错误
//
// 消息体优先取上游错误信封中的 message 字段，信封解析失败时
// 退化为截断后的原始响应体。
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Type       string `json:"type,omitempty"`
	Code       string `json:"code,omitempty"`
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	return fmt.Sprintf("OpenAI API 错误（状态码 %d）：%s", e.StatusCode, e.Message)
}
