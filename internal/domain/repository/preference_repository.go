package repository

import "context"

// PreferenceRepository 偏好记录的持久化
// 记录按原始 JSON 存取，合并与校验由上层负责
type PreferenceRepository interface {
	// Get 读取记录，不存在时返回 ErrNotFound
	Get(ctx context.Context, ownerID string) ([]byte, error)
	// Put 整条覆盖写入
	Put(ctx context.Context, ownerID string, record []byte) error
}
