// Package memory 提供进程内的仓储实现，用于开发和测试
package memory

import (
	"context"
	"slices"
	"sync"

	"z-novel-studio/internal/domain/repository"
)

// PreferenceRepository 内存偏好仓储
type PreferenceRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewPreferenceRepository 创建内存偏好仓储
func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{records: make(map[string][]byte)}
}

func (r *PreferenceRepository) Get(ctx context.Context, ownerID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.records[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (r *PreferenceRepository) Put(ctx context.Context, ownerID string, record []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[ownerID] = slices.Clone(record)
	return nil
}
