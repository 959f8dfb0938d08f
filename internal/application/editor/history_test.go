package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditHistoryEmpty(t *testing.T) {
	h := NewEditHistory(0)
	assert.Equal(t, -1, h.Cursor())
	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
	_, ok = h.Current()
	assert.False(t, ok)
}

func TestEditHistoryPushSameIsNoop(t *testing.T) {
	h := NewEditHistory(0)
	assert.True(t, h.Push("a"))
	assert.False(t, h.Push("a"))
	assert.Equal(t, 1, h.Len())
}

func TestEditHistoryTruncatesRedoBranch(t *testing.T) {
	h := NewEditHistory(0)
	h.Push("a")
	h.Push("b")
	h.Push("c")

	v, ok := h.Undo()
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.True(t, h.CanRedo())

	h.Push("d")
	assert.False(t, h.CanRedo())
	assert.Equal(t, 3, h.Len())

	v, _ = h.Undo()
	assert.Equal(t, "b", v)
	v, _ = h.Redo()
	assert.Equal(t, "d", v)
}

func TestEditHistoryLimitDropsOldest(t *testing.T) {
	h := NewEditHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c")

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Cursor())
	v, _ := h.Undo()
	assert.Equal(t, "b", v)
	assert.False(t, h.CanUndo())
}
