package redis

import (
	"context"
	"fmt"

	"z-novel-studio/internal/domain/repository"
)

// PreferenceRepository 以 Redis 字符串保存阅读偏好，不设过期
type PreferenceRepository struct {
	client *Client
	prefix string
}

// NewPreferenceRepository 创建偏好仓储
func NewPreferenceRepository(client *Client, prefix string) *PreferenceRepository {
	return &PreferenceRepository{client: client, prefix: prefix}
}

func (r *PreferenceRepository) key(ownerID string) string {
	return r.prefix + ownerID
}

// Get 读取原始记录
func (r *PreferenceRepository) Get(ctx context.Context, ownerID string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(ownerID))
	if err != nil {
		if IsNil(err) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	return val, nil
}

// Put 整体覆盖记录
func (r *PreferenceRepository) Put(ctx context.Context, ownerID string, record []byte) error {
	if err := r.client.Set(ctx, r.key(ownerID), record, 0); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}
