package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/repository"
)

// WorldbuildingRepository 内存世界观资料仓储
type WorldbuildingRepository struct {
	mu   sync.RWMutex
	refs []*entity.WorldbuildingReference
}

// NewWorldbuildingRepository 创建仓储
func NewWorldbuildingRepository(refs ...*entity.WorldbuildingReference) *WorldbuildingRepository {
	r := &WorldbuildingRepository{}
	for _, ref := range refs {
		r.Add(ref)
	}
	return r
}

// NewSeededWorldbuildingRepository 使用配置中的预置条目
func NewSeededWorldbuildingRepository(cfg config.WorldbuildingConfig) *WorldbuildingRepository {
	return NewWorldbuildingRepository(ReferencesFromSeed(cfg.Seed)...)
}

// ReferencesFromSeed 将配置条目转换为资料
func ReferencesFromSeed(seeds []config.WorldbuildingSeed) []*entity.WorldbuildingReference {
	refs := make([]*entity.WorldbuildingReference, 0, len(seeds))
	for _, seed := range seeds {
		refs = append(refs, &entity.WorldbuildingReference{
			ID:          seed.ID,
			NovelID:     seed.NovelID,
			Kind:        entity.ReferenceKind(strings.ToLower(strings.TrimSpace(seed.Kind))),
			Name:        seed.Name,
			Description: seed.Description,
			Levels:      slices.Clone(seed.Levels),
		})
	}
	return refs
}

// Add 添加条目
func (r *WorldbuildingRepository) Add(ref *entity.WorldbuildingReference) {
	cp := *ref
	cp.Levels = slices.Clone(ref.Levels)
	r.mu.Lock()
	r.refs = append(r.refs, &cp)
	r.mu.Unlock()
}

func (r *WorldbuildingRepository) ListByNovel(ctx context.Context, novelID string, kind *entity.ReferenceKind) ([]*entity.WorldbuildingReference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.WorldbuildingReference, 0)
	for _, ref := range r.refs {
		if ref.NovelID != novelID {
			continue
		}
		if kind != nil && ref.Kind != *kind {
			continue
		}
		cp := *ref
		out = append(out, &cp)
	}
	return out, nil
}

func (r *WorldbuildingRepository) GetByID(ctx context.Context, id string) (*entity.WorldbuildingReference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ref := range r.refs {
		if ref.ID == id {
			cp := *ref
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}
