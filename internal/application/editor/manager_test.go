package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
)

func TestManagerOpenGetClose(t *testing.T) {
	m := NewManager(config.EditorConfig{SessionTTL: time.Hour})
	s := m.Open(entity.ChapterDraft{Content: "x"})

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Close(s.ID()))
	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(s.ID()), ErrSessionNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	m := NewManager(config.EditorConfig{})
	a := m.Open(entity.ChapterDraft{Content: "a"})
	b := m.Open(entity.ChapterDraft{Content: "b"})
	require.NotEqual(t, a.ID(), b.ID())

	require.NoError(t, a.SetContent("a2"))
	assert.Equal(t, "b", b.Snapshot().Draft.Content)

	err := b.ApplyGenerationResult(a.Ticket(), &entity.GenerationResult{Content: "y"}, ApplyReplace)
	assert.ErrorIs(t, err, ErrStaleResult)
}

func TestManagerSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(config.EditorConfig{SessionTTL: 30 * time.Minute})
	m.now = func() time.Time { return now }

	idle := m.Open(entity.ChapterDraft{Content: "idle"})
	now = now.Add(20 * time.Minute)
	active := m.Open(entity.ChapterDraft{Content: "active"})

	now = now.Add(15 * time.Minute)
	require.NoError(t, active.SetContent("still typing"))

	assert.Equal(t, 1, m.Sweep(now))
	_, err := m.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(active.ID())
	assert.NoError(t, err)
}

func TestManagerSweepKeepsReadOnlySessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(config.EditorConfig{SessionTTL: 30 * time.Minute})
	m.now = func() time.Time { return now }

	reader := m.Open(entity.ChapterDraft{Content: "只读"})
	for i := 0; i < 3; i++ {
		now = now.Add(20 * time.Minute)
		got, err := m.Get(reader.ID())
		require.NoError(t, err)
		_ = got.Snapshot()
		assert.Equal(t, 0, m.Sweep(now))
	}

	now = now.Add(31 * time.Minute)
	assert.Equal(t, 1, m.Sweep(now))
	_, err := m.Get(reader.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
