package editor

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-novel-studio/internal/application/classifier"
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
)

func openSession(t *testing.T, content string) *Session {
	t.Helper()
	m := NewManager(config.EditorConfig{SessionTTL: time.Hour, MaxHistory: 0})
	return m.Open(entity.ChapterDraft{ChapterNumber: "1", Title: "Dawn", Content: content})
}

func content(s *Session) string {
	return s.Snapshot().Draft.Content
}

func TestUndoAfterCommitRestoresPreviousCommit(t *testing.T) {
	s := openSession(t, "v0")
	for i := 1; i <= 5; i++ {
		require.NoError(t, s.SetContent(fmt.Sprintf("v%d", i)))
		pushed, err := s.Commit()
		require.NoError(t, err)
		require.True(t, pushed)

		moved, err := s.Undo()
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, fmt.Sprintf("v%d", i-1), content(s))

		moved, err = s.Redo()
		require.NoError(t, err)
		assert.True(t, moved)
		assert.Equal(t, fmt.Sprintf("v%d", i), content(s))
	}
}

func TestCommitAfterUndoDiscardsRedo(t *testing.T) {
	s := openSession(t, "a")
	require.NoError(t, s.SetContent("b"))
	_, _ = s.Commit()
	_, _ = s.Undo()

	require.NoError(t, s.SetContent("c"))
	_, _ = s.Commit()

	moved, err := s.Redo()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, "c", content(s))
	assert.False(t, s.Snapshot().CanRedo)
}

func TestUndoKeepsUncommittedTyping(t *testing.T) {
	s := openSession(t, "committed")
	require.NoError(t, s.SetContent("typed but not committed"))
	assert.True(t, s.Snapshot().Dirty)

	moved, _ := s.Undo()
	assert.True(t, moved)
	assert.Equal(t, "committed", content(s))

	moved, _ = s.Redo()
	assert.True(t, moved)
	assert.Equal(t, "typed but not committed", content(s))
}

func TestUndoRedoOutOfRangeIsNoop(t *testing.T) {
	s := openSession(t, "only")
	moved, err := s.Undo()
	require.NoError(t, err)
	assert.False(t, moved)
	moved, err = s.Redo()
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, "only", content(s))
}

func TestApplyAppend(t *testing.T) {
	s := openSession(t, "X")
	err := s.ApplyGenerationResult(s.Ticket(), &entity.GenerationResult{Content: "Y"}, ApplyAppend)
	require.NoError(t, err)
	assert.Equal(t, "X\n\nY", content(s))

	_, _ = s.Undo()
	assert.Equal(t, "X", content(s))
}

func TestApplyAppendOnEmptyDraft(t *testing.T) {
	s := openSession(t, "")
	require.NoError(t, s.ApplyGenerationResult(s.Ticket(), &entity.GenerationResult{Content: "Y"}, ApplyAppend))
	assert.Equal(t, "Y", content(s))
}

func TestApplyAppendKeepsAuthoredText(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		result string
		want   string
	}{
		{"trailing newline kept", "X\n", "\nY", "X\n\n\n\nY"},
		{"whitespace base kept", "   ", "Y", "   \n\nY"},
		{"plain join", "第一段", "第二段", "第一段\n\n第二段"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openSession(t, tt.base)
			require.NoError(t, s.ApplyGenerationResult(s.Ticket(), &entity.GenerationResult{Content: tt.result}, ApplyAppend))
			assert.Equal(t, tt.want, content(s))
		})
	}
}

func TestApplyReplaceStripsMarkerAndCommits(t *testing.T) {
	s := openSession(t, "old")
	raw := classifier.FormatSimulated([]string{"provider: x"}, "new chapter")
	require.NoError(t, s.ApplyGenerationResult(s.Ticket(), &entity.GenerationResult{Content: raw, Simulated: true}, ApplyReplace))

	assert.Equal(t, "new chapter", content(s))
	snap := s.Snapshot()
	assert.False(t, snap.Dirty)
	assert.True(t, snap.CanUndo)
}

func TestApplyReplaceKeepsPendingTypingInHistory(t *testing.T) {
	s := openSession(t, "first")
	require.NoError(t, s.SetContent("my edits"))
	require.NoError(t, s.ApplyGenerationResult(s.Ticket(), &entity.GenerationResult{Content: "generated"}, ApplyReplace))

	_, _ = s.Undo()
	assert.Equal(t, "my edits", content(s))
}

func TestApplyEmptyResultLeavesDraftUntouched(t *testing.T) {
	s := openSession(t, "keep")
	err := s.ApplyGenerationResult(s.Ticket(), &entity.GenerationResult{Content: "   "}, ApplyReplace)
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Equal(t, "keep", content(s))
	assert.Equal(t, 1, s.Snapshot().HistoryLen)
}

func TestApplyStaleTicket(t *testing.T) {
	s := openSession(t, "chapter one")
	ticket := s.Ticket()

	require.NoError(t, s.Reload(entity.ChapterDraft{ChapterNumber: "2", Content: "chapter two"}))
	err := s.ApplyGenerationResult(ticket, &entity.GenerationResult{Content: "late"}, ApplyReplace)
	assert.ErrorIs(t, err, ErrStaleResult)
	assert.Equal(t, "chapter two", content(s))

	fresh := s.Ticket()
	s.Close()
	err = s.ApplyGenerationResult(fresh, &entity.GenerationResult{Content: "late"}, ApplyReplace)
	assert.ErrorIs(t, err, ErrStaleResult)

	assert.ErrorIs(t, s.SetContent("x"), ErrSessionClosed)
}

func TestInsertReferenceOffsets(t *testing.T) {
	ref := &entity.WorldbuildingReference{Kind: entity.ReferenceCharacter, Name: "Lin Feng", Description: "A wandering swordsman."}
	block, err := FormatReference(ref)
	require.NoError(t, err)

	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"prepend", 0, block + "abc"},
		{"append", 3, "abc" + block},
		{"middle", 1, "a" + block + "bc"},
		{"negative clamps", -10, block + "abc"},
		{"past end clamps", 99, "abc" + block},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openSession(t, "abc")
			require.NoError(t, s.InsertReference(ref, tt.offset))
			assert.Equal(t, tt.want, content(s))
			_, _ = s.Undo()
			assert.Equal(t, "abc", content(s))
		})
	}
}

func TestInsertReferenceCountsRunes(t *testing.T) {
	ref := &entity.WorldbuildingReference{Kind: entity.ReferenceWorld, Name: "青云界"}
	block, _ := FormatReference(ref)

	s := openSession(t, "山海经")
	require.NoError(t, s.InsertReference(ref, 1))
	assert.Equal(t, "山"+block+"海经", content(s))
}

func TestFormatReferenceTemplates(t *testing.T) {
	cultivation, err := FormatReference(&entity.WorldbuildingReference{
		Kind:        entity.ReferenceCultivation,
		Name:        "Nine Heavens",
		Description: "Qi refinement path.",
		Levels:      []string{"Qi Condensation", "Foundation", "Golden Core"},
	})
	require.NoError(t, err)
	assert.Equal(t, "[Cultivation System] Nine Heavens\nQi refinement path.\nLevels: Qi Condensation, Foundation, Golden Core\n", cultivation)

	magic, err := FormatReference(&entity.WorldbuildingReference{Kind: entity.ReferenceMagic, Name: "Runes"})
	require.NoError(t, err)
	assert.Equal(t, "[Magic System] Runes\n", magic)

	_, err = FormatReference(&entity.WorldbuildingReference{Kind: "weapon", Name: "x"})
	var verr *entity.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, entity.DocumentStats{}, ComputeStats(""))

	stats := ComputeStats("a b c")
	assert.Equal(t, 3, stats.Words)
	assert.Equal(t, 5, stats.Characters)
	assert.Equal(t, 1, stats.Paragraphs)
	assert.Equal(t, 1, stats.ReadingTimeMinutes)

	long := strings.TrimSpace(strings.Repeat("word ", 450))
	assert.Equal(t, 3, ComputeStats(long).ReadingTimeMinutes)

	paras := ComputeStats("first para\nstill first\n\n  \n\nsecond\n \nthird")
	assert.Equal(t, 3, paras.Paragraphs)
}

func TestModeForOperation(t *testing.T) {
	mode, err := ModeForOperation(entity.OperationContinue)
	require.NoError(t, err)
	assert.Equal(t, ApplyAppend, mode)

	mode, err = ModeForOperation(entity.OperationImprove)
	require.NoError(t, err)
	assert.Equal(t, ApplyReplace, mode)

	_, err = ModeForOperation(entity.OperationIdeas)
	assert.ErrorIs(t, err, ErrNotApplicable)
}
