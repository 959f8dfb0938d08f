package repository

import (
	"context"

	"z-novel-studio/internal/domain/entity"
)

// WorldbuildingRepository 世界观资料只读访问
type WorldbuildingRepository interface {
	// ListByNovel 列出小说的资料，kind 为空时返回全部类型
	ListByNovel(ctx context.Context, novelID string, kind *entity.ReferenceKind) ([]*entity.WorldbuildingReference, error)
	// GetByID 按 ID 获取，不存在时返回 ErrNotFound
	GetByID(ctx context.Context, id string) (*entity.WorldbuildingReference, error)
}
