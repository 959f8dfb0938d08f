package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/ollama/ollama/api"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
)

const defaultOllamaURL = "http://localhost:11434"

// ollamaDriver 本地 Ollama，不需要 API key
type ollamaDriver struct {
	client *api.Client
}

func newOllamaDriver(settings config.ProviderSettings) (*ollamaDriver, error) {
	base := strings.TrimSpace(settings.BaseURL)
	if base == "" {
		base = defaultOllamaURL
	}
	// api.NewClient 需要不带 /v1 后缀的地址
	base = strings.TrimSuffix(strings.TrimSuffix(base, "/"), "/v1")

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base url %q: %w", base, err)
	}
	return &ollamaDriver{
		client: api.NewClient(u, &http.Client{Timeout: settings.Timeout}),
	}, nil
}

func (d *ollamaDriver) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	stream := false
	creq := &api.ChatRequest{
		Model:    req.Model,
		Messages: toOllamaMessages(req.Messages),
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}
	if req.JSON {
		creq.Format = json.RawMessage(`"json"`)
	}

	start := time.Now()
	var resp api.ChatResponse
	err := d.client.Chat(ctx, creq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		recordCall(ctx, req.Model, start, nil, err)
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return nil, transportError(statusErr.StatusCode, statusErr.ErrorMessage, err)
		}
		return nil, transportError(0, "", err)
	}

	out := &ChatResponse{Content: resp.Message.Content, Model: resp.Model}
	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 {
		out.Usage = &entity.TokenUsage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
		}
	}
	recordCall(ctx, req.Model, start, out.Usage, nil)
	return out, nil
}

func (d *ollamaDriver) ListModels(ctx context.Context) ([]string, error) {
	list, err := d.client.List(ctx)
	if err != nil {
		return nil, transportError(0, "", err)
	}
	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

func toOllamaMessages(msgs []*schema.Message) []api.Message {
	out := make([]api.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, api.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}
