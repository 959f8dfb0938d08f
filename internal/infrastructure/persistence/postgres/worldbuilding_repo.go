package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/repository"
)

// WorldbuildingRepository 世界观资料仓储实现
type WorldbuildingRepository struct {
	client *Client
}

// NewWorldbuildingRepository 创建世界观资料仓储
func NewWorldbuildingRepository(client *Client) *WorldbuildingRepository {
	return &WorldbuildingRepository{client: client}
}

// ListByNovel 列出小说的资料
func (r *WorldbuildingRepository) ListByNovel(ctx context.Context, novelID string, kind *entity.ReferenceKind) ([]*entity.WorldbuildingReference, error) {
	ctx, span := tracer.Start(ctx, "postgres.WorldbuildingRepository.ListByNovel")
	defer span.End()

	query := r.client.db.WithContext(ctx).Where("novel_id = ?", novelID)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	var refs []*entity.WorldbuildingReference
	if err := query.Order("kind ASC, name ASC").Find(&refs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	if refs == nil {
		refs = make([]*entity.WorldbuildingReference, 0)
	}
	return refs, nil
}

// GetByID 根据 ID 获取资料
func (r *WorldbuildingRepository) GetByID(ctx context.Context, id string) (*entity.WorldbuildingReference, error) {
	ctx, span := tracer.Start(ctx, "postgres.WorldbuildingRepository.GetByID")
	defer span.End()

	var ref entity.WorldbuildingReference
	if err := r.client.db.WithContext(ctx).First(&ref, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get reference: %w", err)
	}
	return &ref, nil
}

// Upsert 写入预置资料，已存在时覆盖内容字段
func (r *WorldbuildingRepository) Upsert(ctx context.Context, refs []*entity.WorldbuildingReference) error {
	ctx, span := tracer.Start(ctx, "postgres.WorldbuildingRepository.Upsert")
	defer span.End()

	if len(refs) == 0 {
		return nil
	}
	err := r.client.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"novel_id", "kind", "name", "description", "levels", "updated_at"}),
	}).Create(&refs).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert references: %w", err)
	}
	return nil
}
