package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cloudwego/eino/schema"
	openai "github.com/sashabaranov/go-openai"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
)

// goOpenAIDriver OpenAI 兼容接口（DeepSeek、OpenRouter 等）
type goOpenAIDriver struct {
	client  *openai.Client
	timeout time.Duration
}

func newGoOpenAIDriver(settings config.ProviderSettings) *goOpenAIDriver {
	cfg := openai.DefaultConfig(settings.APIKey)
	if settings.BaseURL != "" {
		cfg.BaseURL = settings.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: settings.Timeout}
	return &goOpenAIDriver{
		client:  openai.NewClientWithConfig(cfg),
		timeout: settings.Timeout,
	}
}

func (d *goOpenAIDriver) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	creq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	}
	if req.JSON {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	start := time.Now()
	resp, err := d.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		recordCall(ctx, req.Model, start, nil, err)
		return nil, openAIError(err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("empty choices from provider")
		recordCall(ctx, req.Model, start, nil, err)
		return nil, transportError(0, "", err)
	}

	out := &ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
	}
	if resp.Usage.TotalTokens > 0 {
		out.Usage = &entity.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
		}
	}
	recordCall(ctx, req.Model, start, out.Usage, nil)
	return out, nil
}

func (d *goOpenAIDriver) ListModels(ctx context.Context) ([]string, error) {
	list, err := d.client.ListModels(ctx)
	if err != nil {
		return nil, openAIError(err)
	}
	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.ID)
	}
	return models, nil
}

func toOpenAIMessages(msgs []*schema.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		switch m.Role {
		case schema.System:
			role = openai.ChatMessageRoleSystem
		case schema.Assistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return transportError(apiErr.HTTPStatusCode, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return transportError(reqErr.HTTPStatusCode, "", err)
	}
	return transportError(0, "", err)
}
