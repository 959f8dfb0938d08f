package prompt

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-novel-studio/internal/domain/entity"
)

func TestRenderEveryOperation(t *testing.T) {
	r := NewRegistry()
	vars := map[string]any{
		"novel_id":          "n1",
		"chapter_number":    "12",
		"chapter_title":     "The Gate",
		"user_prompt":       "a duel {with braces}",
		"instruction":       "tighten",
		"content":           "text",
		"previous_content":  "before",
		"user_instructions": "go on",
	}

	for _, op := range entity.OperationKinds {
		msgs, err := r.Render(context.Background(), op, vars)
		require.NoError(t, err, op)
		require.Len(t, msgs, 2)
		assert.Equal(t, schema.System, msgs[0].Role)
		assert.Equal(t, schema.User, msgs[1].Role)
		assert.NotEmpty(t, msgs[1].Content)
	}

	msgs, err := r.Render(context.Background(), entity.OperationGenerate, vars)
	require.NoError(t, err)
	assert.Contains(t, msgs[1].Content, "Chapter number: 12")
	assert.Contains(t, msgs[1].Content, "a duel {with braces}")
}

func TestUnknownOperation(t *testing.T) {
	_, err := NewRegistry().ChatTemplate("summarize")
	assert.Error(t, err)
}
