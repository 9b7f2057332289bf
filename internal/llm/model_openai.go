package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/masanarilee/ai-reactor-tools/internal/config"
)

// --- OpenAI 兼容的请求/响应结构 ---

type chatCompletionRequest struct {
	Model       string            `json:"model"`
	Messages    []*schema.Message `json:"messages"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
}

type chatCompletionMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type chatCompletionChoice struct {
	Index        int                   `json:"index"`
	Message      chatCompletionMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
}

// OpenAICompatChatModel 实现 eino 的 model.BaseChatModel 接口，
// 通过 OpenAI 兼容的 chat completions 接口与外部生成服务交互。
type OpenAICompatChatModel struct {
	apiKey      string
	modelName   string
	apiURL      string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewOpenAICompatChatModel 创建 OpenAI 兼容聊天模型实例
func NewOpenAICompatChatModel(cfg config.GenerationConfig, logger zerolog.Logger) (*OpenAICompatChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("生成服务API密钥不能为空")
	}

	return &OpenAICompatChatModel{
		apiKey:      cfg.APIKey,
		modelName:   cfg.Model,
		apiURL:      cfg.APIURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger.With().Str("component", "openai_chat_model").Logger(),
	}, nil
}

// Generate 实现 model.BaseChatModel 接口
// 单次请求单次响应；不在此层做任何重试或提示词改写。
func (m *OpenAICompatChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	opts := model.GetCommonOptions(&model.Options{}, options...)

	reqPayload := chatCompletionRequest{
		Model:       m.modelName,
		Messages:    messages,
		MaxTokens:   m.maxTokens,
		Temperature: m.temperature,
	}
	if opts.Model != nil && *opts.Model != "" {
		reqPayload.Model = *opts.Model
	}
	if opts.MaxTokens != nil && *opts.MaxTokens > 0 {
		reqPayload.MaxTokens = *opts.MaxTokens
	}
	if opts.Temperature != nil && *opts.Temperature > 0 {
		reqPayload.Temperature = float64(*opts.Temperature)
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	m.logger.Debug().
		Str("url", m.apiURL).
		Str("model", reqPayload.Model).
		Int("prompt_chars", promptChars(messages)).
		Msg("发送生成请求")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, newGenerationError(ErrTransport, 0, err.Error())
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, newGenerationError(ErrTransport, 0, fmt.Sprintf("读取响应体失败: %v", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, newGenerationError(ErrService, httpResp.StatusCode, truncateForLog(string(bodyBytes), 500))
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, newGenerationError(ErrMalformedResponse, 0, fmt.Sprintf("反序列化失败: %v", err))
	}

	// 缺少choices或content字段的响应一律视为格式异常，绝不当作空文本成功
	if len(resp.Choices) == 0 {
		return nil, newGenerationError(ErrMalformedResponse, 0, "响应中没有choices")
	}
	content := resp.Choices[0].Message.Content
	if content == nil {
		return nil, newGenerationError(ErrMalformedResponse, 0, "响应消息缺少content字段")
	}

	return &schema.Message{
		Role:    schema.Assistant,
		Content: *content,
	}, nil
}

// Stream 实现 model.BaseChatModel 接口
// 本服务只消费完整文本，不需要流式输出。
func (m *OpenAICompatChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OpenAICompatChatModel 未实现 Stream")
}

func promptChars(messages []*schema.Message) int {
	total := 0
	for _, msg := range messages {
		total += len([]rune(msg.Content))
	}
	return total
}

func truncateForLog(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
