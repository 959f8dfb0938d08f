package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"z-novel-studio/internal/domain/entity"
)

// Loader 缓存未命中时的加载函数
type Loader func(ctx context.Context) (any, error)

// ReadThroughCache 读穿缓存，返回序列化后的值
type ReadThroughCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader Loader) ([]byte, error)
}

// CachedSource 为动态目录加一层缓存
type CachedSource struct {
	source CatalogSource
	cache  ReadThroughCache
	key    string
	ttl    time.Duration
}

// NewCachedSource 创建带缓存的目录来源
func NewCachedSource(source CatalogSource, cache ReadThroughCache, key string, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, cache: cache, key: key, ttl: ttl}
}

// ListProviders 实现 CatalogSource
func (s *CachedSource) ListProviders(ctx context.Context) ([]entity.ProviderInfo, error) {
	data, err := s.cache.GetOrLoad(ctx, s.key, s.ttl, func(ctx context.Context) (any, error) {
		return s.source.ListProviders(ctx)
	})
	if err != nil {
		return nil, err
	}

	var infos []entity.ProviderInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("decode cached catalogue: %w", err)
	}
	return infos, nil
}
