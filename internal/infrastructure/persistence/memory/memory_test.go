package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/repository"
)

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository()

	_, err := repo.Get(ctx, "r1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Put(ctx, "r1", []byte(`{"theme":"dark"}`)))
	data, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, string(data))
}

func TestSeededWorldbuildingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSeededWorldbuildingRepository(config.WorldbuildingConfig{Seed: []config.WorldbuildingSeed{
		{ID: "c1", NovelID: "n1", Kind: "Character", Name: "Lin Feng"},
		{ID: "k1", NovelID: "n1", Kind: "cultivation", Name: "Nine Heavens", Levels: []string{"Qi", "Core"}},
		{ID: "w1", NovelID: "n2", Kind: "world", Name: "Azure Realm"},
	}})

	all, err := repo.ListByNovel(ctx, "n1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	kind := entity.ReferenceCultivation
	only, err := repo.ListByNovel(ctx, "n1", &kind)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, []string{"Qi", "Core"}, only[0].Levels)

	ref, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.ReferenceCharacter, ref.Kind)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
