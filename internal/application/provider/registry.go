// Package provider 维护生成后端目录并解析单次请求的提供商配置
package provider

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/pkg/logger"
)

// ErrNoProviderConfigured 目录为空
var ErrNoProviderConfigured = stderrors.New("no generation provider configured")

// CatalogSource 动态目录来源
type CatalogSource interface {
	ListProviders(ctx context.Context) ([]entity.ProviderInfo, error)
}

// Registry 提供商目录快照，构造后只读
type Registry struct {
	providers       map[string]entity.ProviderInfo
	defaultProvider string
}

// NewRegistry 从目录条目创建注册表
// defaultProvider 不在目录中时按 ID 排序取第一个
func NewRegistry(defaultProvider string, infos []entity.ProviderInfo) *Registry {
	r := &Registry{providers: make(map[string]entity.ProviderInfo, len(infos))}
	for _, info := range infos {
		id := strings.TrimSpace(info.ID)
		if id == "" {
			continue
		}
		info.ID = id
		info.Models = slices.Clone(info.Models)
		if info.DisplayName == "" {
			info.DisplayName = id
		}
		r.providers[id] = info
	}

	defaultProvider = strings.TrimSpace(defaultProvider)
	if _, ok := r.providers[defaultProvider]; ok {
		r.defaultProvider = defaultProvider
	} else if ids := r.IDs(); len(ids) > 0 {
		r.defaultProvider = ids[0]
	}
	return r
}

// NewStaticRegistry 从配置创建静态目录
func NewStaticRegistry(cfg config.LLMConfig) *Registry {
	return NewRegistry(cfg.DefaultProvider, InfosFromConfig(cfg))
}

// InfosFromConfig 将配置中的提供商转换为目录条目
func InfosFromConfig(cfg config.LLMConfig) []entity.ProviderInfo {
	infos := make([]entity.ProviderInfo, 0, len(cfg.Providers))
	for _, id := range slices.Sorted(maps.Keys(cfg.Providers)) {
		p := cfg.Providers[id]
		models := slices.Clone(p.Models)
		if p.Model != "" && !slices.Contains(models, p.Model) {
			models = append([]string{p.Model}, models...)
		}
		infos = append(infos, entity.ProviderInfo{
			ID:           id,
			DisplayName:  p.DisplayName,
			Models:       models,
			DefaultModel: p.Model,
		})
	}
	return infos
}

// LoadRegistry 会话开始时查询一次动态目录
func LoadRegistry(ctx context.Context, src CatalogSource, defaultProvider string) (*Registry, error) {
	infos, err := src.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return NewRegistry(defaultProvider, infos), nil
}

// Empty 目录是否为空
func (r *Registry) Empty() bool {
	return len(r.providers) == 0
}

// DefaultProvider 默认提供商 ID
func (r *Registry) DefaultProvider() string {
	return r.defaultProvider
}

// List 返回目录副本
func (r *Registry) List() map[string]entity.ProviderInfo {
	out := make(map[string]entity.ProviderInfo, len(r.providers))
	for id, info := range r.providers {
		info.Models = slices.Clone(info.Models)
		out[id] = info
	}
	return out
}

// IDs 排序后的提供商 ID
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.providers))
}

// Get 获取目录条目
func (r *Registry) Get(id string) (entity.ProviderInfo, bool) {
	info, ok := r.providers[id]
	if ok {
		info.Models = slices.Clone(info.Models)
	}
	return info, ok
}

// DefaultFor 返回提供商的默认模型
func (r *Registry) DefaultFor(id string) (string, bool) {
	info, ok := r.providers[id]
	if !ok {
		return "", false
	}
	model := info.Default()
	return model, model != ""
}

// Resolve 补全并校验提供商配置
// 未知提供商是校验错误；未知模型退回默认模型
// 提供商没有任何可用模型且请求未指定时同样是校验错误
func (r *Registry) Resolve(ctx context.Context, cfg entity.ProviderConfig) (entity.ProviderConfig, error) {
	if r.Empty() {
		return cfg, ErrNoProviderConfigured
	}

	cfg.ProviderID = strings.TrimSpace(cfg.ProviderID)
	cfg.ModelID = strings.TrimSpace(cfg.ModelID)
	if cfg.ProviderID == "" {
		cfg.ProviderID = r.defaultProvider
	}

	info, ok := r.providers[cfg.ProviderID]
	if !ok {
		return cfg, &entity.ValidationError{Field: "providerId", Reason: fmt.Sprintf("unknown provider %q", cfg.ProviderID)}
	}

	switch {
	case cfg.ModelID == "":
		cfg.ModelID = info.Default()
	case len(info.Models) > 0 && !info.HasModel(cfg.ModelID):
		fallback := info.Default()
		logger.Warn(ctx, "model not advertised by provider, falling back to default",
			"provider", cfg.ProviderID,
			"model", cfg.ModelID,
			"fallback", fallback,
		)
		cfg.ModelID = fallback
	}
	if cfg.ModelID == "" {
		return cfg, &entity.ValidationError{Field: "modelId", Reason: fmt.Sprintf("provider %q advertises no model", cfg.ProviderID)}
	}

	return cfg.Normalize(), nil
}
