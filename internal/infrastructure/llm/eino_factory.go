package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"z-novel-studio/internal/config"
)

// EinoFactory 按提供商 ID 缓存 openai 驱动的 Eino ChatModel
type EinoFactory struct {
	mu     sync.RWMutex
	models map[string]model.BaseChatModel
}

// NewEinoFactory 创建 Eino ChatModel 工厂
func NewEinoFactory() *EinoFactory {
	return &EinoFactory{models: make(map[string]model.BaseChatModel)}
}

// Get 获取提供商的 ChatModel，首次使用时按配置创建
// 模型、温度和 token 上限每次调用通过 model.Option 覆盖，不进缓存键
func (f *EinoFactory) Get(ctx context.Context, id string, settings config.ProviderSettings) (model.BaseChatModel, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("eino chat model requires a provider id")
	}

	f.mu.RLock()
	m, ok := f.models[id]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	if settings.APIKey == "" {
		return nil, fmt.Errorf("provider %s has no api key", id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok = f.models[id]; ok {
		return m, nil
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", id, err)
	}

	f.models[id] = chatModel
	return chatModel, nil
}
