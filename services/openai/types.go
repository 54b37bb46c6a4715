package openai

// 固定使用的上游模型
const (
	ImageModel  = "dall-e-3"
	ChatModel   = "gpt-3.5-turbo"
	SpeechModel = "tts-1"
)

// Voices 语音合成支持的声音列表
var Voices = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}

// IsValidVoice 判断声音名称是否受支持
func IsValidVoice(voice string) bool {
	for _, v := range Voices {
		if v == voice {
			return true
		}
	}
	return false
}

// Message 表示一条聊天消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest 聊天补全请求体
type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// chatCompletionResponse 聊天补全响应体
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// imageGenerationRequest 图片生成请求体
type imageGenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

// imageGenerationResponse 图片生成响应体
type imageGenerationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	} `json:"data"`
}

// speechRequest 语音合成请求体
type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// apiErrorEnvelope OpenAI 错误响应的外层结构
type apiErrorEnvelope struct {
	Error *APIError `json:"error"`
}
