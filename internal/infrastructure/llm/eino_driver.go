package llm

import (
	"context"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
)

// einoDriver 通过 Eino OpenAI 适配器调用
type einoDriver struct {
	provider string
	settings config.ProviderSettings
	factory  *EinoFactory
}

func newEinoDriver(provider string, settings config.ProviderSettings, factory *EinoFactory) *einoDriver {
	return &einoDriver{provider: provider, settings: settings, factory: factory}
}

func (d *einoDriver) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	chatModel, err := d.factory.Get(ctx, d.provider, d.settings)
	if err != nil {
		return nil, transportError(0, "", err)
	}

	// 单独调用组件时需要手动初始化回调，全局回调才会生效
	ctx = einocallbacks.InitCallbacks(ctx, &einocallbacks.RunInfo{
		Name:      d.provider,
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})

	opts := []model.Option{
		model.WithTemperature(float32(req.Temperature)),
		model.WithMaxTokens(req.MaxTokens),
	}
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}

	msg, err := chatModel.Generate(ctx, req.Messages, opts...)
	if err != nil {
		return nil, transportError(0, "", err)
	}

	resp := &ChatResponse{Content: msg.Content, Model: req.Model}
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		resp.Usage = &entity.TokenUsage{
			PromptTokens:     msg.ResponseMeta.Usage.PromptTokens,
			CompletionTokens: msg.ResponseMeta.Usage.CompletionTokens,
		}
	}
	return resp, nil
}
