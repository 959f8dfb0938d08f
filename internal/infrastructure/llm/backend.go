package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/infrastructure/llm/prompt"
	"z-novel-studio/pkg/logger"
)

// Backend 进程内生成后端，同时实现 generation.Transport 和 provider.CatalogSource
type Backend struct {
	cfg     config.LLMConfig
	prompts *prompt.Registry
	eino    *EinoFactory

	mu      sync.Mutex
	drivers map[string]ChatDriver
}

// NewBackend 创建本地后端
func NewBackend(cfg *config.Config, prompts *prompt.Registry, eino *EinoFactory) *Backend {
	return &Backend{
		cfg:     cfg.LLM,
		prompts: prompts,
		eino:    eino,
		drivers: make(map[string]ChatDriver),
	}
}

// Call 实现 generation.Transport
func (b *Backend) Call(ctx context.Context, call generation.TransportCall) (*generation.RawResponse, error) {
	id := call.Provider.ProviderID
	settings, ok := b.cfg.Providers[id]
	if !ok {
		return nil, &generation.TransportError{Message: fmt.Sprintf("provider %s is not configured", id)}
	}
	if settings.RequiresAPIKey() && strings.TrimSpace(settings.APIKey) == "" {
		logger.Warn(ctx, "provider has no credentials, returning simulated response",
			"provider", id,
			"operation", call.Operation,
		)
		return simulatedResponse(id, settings, call), nil
	}

	msgs, err := b.prompts.Render(ctx, call.Operation, promptVars(call.Payload))
	if err != nil {
		return nil, err
	}

	driver, err := b.driver(id, settings)
	if err != nil {
		return nil, &generation.TransportError{Err: err}
	}

	req := ChatRequest{
		Model:       call.Provider.ModelID,
		Messages:    msgs,
		Temperature: call.Provider.Temperature,
		MaxTokens:   call.Provider.MaxTokens,
		JSON:        call.Operation == entity.OperationIdeas,
	}
	resp, err := driver.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	raw := &generation.RawResponse{
		ProviderLabel: settings.DisplayName,
		Model:         resp.Model,
		Usage:         resp.Usage,
	}
	if raw.Model == "" {
		raw.Model = req.Model
	}
	if raw.Usage == nil {
		raw.Usage = estimateUsage(raw.Model, msgs, resp.Content)
	}

	if call.Operation == entity.OperationIdeas {
		raw.Ideas = decodeIdeas(resp.Content)
	} else {
		raw.Content = resp.Content
	}
	return raw, nil
}

// ListProviders 实现 provider.CatalogSource
// 支持列出模型的驱动实时查询，失败时使用配置中的模型列表
func (b *Backend) ListProviders(ctx context.Context) ([]entity.ProviderInfo, error) {
	ids := slices.Sorted(maps.Keys(b.cfg.Providers))
	infos := make([]entity.ProviderInfo, 0, len(ids))

	for _, id := range ids {
		settings := b.cfg.Providers[id]
		models := slices.Clone(settings.Models)
		if settings.Model != "" && !slices.Contains(models, settings.Model) {
			models = append([]string{settings.Model}, models...)
		}

		if live := b.liveModels(ctx, id, settings); len(live) > 0 {
			models = live
		}

		infos = append(infos, entity.ProviderInfo{
			ID:           id,
			DisplayName:  settings.DisplayName,
			Models:       models,
			DefaultModel: settings.Model,
		})
	}
	return infos, nil
}

func (b *Backend) liveModels(ctx context.Context, id string, settings config.ProviderSettings) []string {
	if settings.RequiresAPIKey() && strings.TrimSpace(settings.APIKey) == "" {
		return nil
	}
	driver, err := b.driver(id, settings)
	if err != nil {
		return nil
	}
	lister, ok := driver.(ModelLister)
	if !ok {
		return nil
	}
	models, err := lister.ListModels(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to list provider models, using configured list",
			"provider", id,
			"error", err.Error(),
		)
		return nil
	}
	slices.Sort(models)
	return models
}

func (b *Backend) driver(id string, settings config.ProviderSettings) (ChatDriver, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if d, ok := b.drivers[id]; ok {
		return d, nil
	}

	var (
		d   ChatDriver
		err error
	)
	switch settings.Driver {
	case config.DriverOpenAI:
		d = newEinoDriver(id, settings, b.eino)
	case config.DriverGoOpenAI:
		d = newGoOpenAIDriver(settings)
	case config.DriverOllama:
		d, err = newOllamaDriver(settings)
	default:
		err = fmt.Errorf("unknown driver %q for provider %s", settings.Driver, id)
	}
	if err != nil {
		return nil, err
	}
	b.drivers[id] = d
	return d, nil
}

func promptVars(p generation.Payload) map[string]any {
	return map[string]any{
		"novel_id":          p.NovelID,
		"chapter_number":    p.ChapterNumber,
		"chapter_title":     orNone(p.ChapterTitle),
		"user_prompt":       orNone(p.UserPrompt),
		"instruction":       orDefault(p.ImprovementPrompt, "Improve clarity, rhythm and style."),
		"content":           p.Content,
		"previous_content":  p.PreviousContent,
		"user_instructions": orDefault(p.UserInstructions, "Continue naturally."),
	}
}

func orNone(s string) string {
	return orDefault(s, "(none)")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

// decodeIdeas 模型输出是 JSON 时解码，否则原样作为字符串
func decodeIdeas(content string) any {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v
	}
	return content
}
