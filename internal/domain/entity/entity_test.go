package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderInfoDefault(t *testing.T) {
	assert.Equal(t, "b", ProviderInfo{Models: []string{"a", "b"}, DefaultModel: "b"}.Default())
	assert.Equal(t, "a", ProviderInfo{Models: []string{"a", "b"}, DefaultModel: "missing"}.Default())
	assert.Equal(t, "a", ProviderInfo{Models: []string{"a"}}.Default())
	assert.Equal(t, "", ProviderInfo{}.Default())
}

func TestProviderConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   ProviderConfig
		temp float64
		max  int
	}{
		{"zero max tokens uses default", ProviderConfig{Temperature: 0.5}, 0.5, DefaultMaxTokens},
		{"clamps low", ProviderConfig{Temperature: -1, MaxTokens: 5}, 0, MinMaxTokens},
		{"clamps high", ProviderConfig{Temperature: 1.7, MaxTokens: 99999}, 1, MaxMaxTokens},
		{"keeps valid", ProviderConfig{Temperature: 0.2, MaxTokens: 1200}, 0.2, 1200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.temp, got.Temperature)
			assert.Equal(t, tt.max, got.MaxTokens)
		})
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name  string
		req   GenerationRequest
		field string
	}{
		{"generate without chapter number", GenerateChapterRequest{NovelID: "n1"}, "chapterNumber"},
		{"generate without novel", GenerateChapterRequest{ChapterNumber: "3"}, "novelId"},
		{"improve blank content", ImproveContentRequest{Content: "  \n"}, "content"},
		{"continue without previous content", ContinueTextRequest{NovelID: "n1"}, "previousContent"},
		{"ideas without novel", ChapterIdeasRequest{}, "novelId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.NoError(t, GenerateChapterRequest{NovelID: "n1", ChapterNumber: "1"}.Validate())
	assert.NoError(t, ImproveContentRequest{Content: "text"}.Validate())
	assert.NoError(t, ContinueTextRequest{NovelID: "n1", PreviousContent: "text"}.Validate())
	assert.NoError(t, ChapterIdeasRequest{NovelID: "n1"}.Validate())
}

func TestWithProviderConfigReturnsCopy(t *testing.T) {
	orig := ImproveContentRequest{Content: "x", Provider: ProviderConfig{ProviderID: "a"}}
	updated := orig.WithProviderConfig(ProviderConfig{ProviderID: "b"})

	assert.Equal(t, "a", orig.ProviderConfig().ProviderID)
	assert.Equal(t, "b", updated.ProviderConfig().ProviderID)
	assert.Equal(t, OperationImprove, updated.Kind())
}

func TestParseKinds(t *testing.T) {
	k, err := ParseOperationKind(" Continue ")
	require.NoError(t, err)
	assert.Equal(t, OperationContinue, k)
	_, err = ParseOperationKind("summarize")
	assert.Error(t, err)

	rk, err := ParseReferenceKind("cultivation")
	require.NoError(t, err)
	assert.Equal(t, ReferenceCultivation, rk)
	_, err = ParseReferenceKind("weapon")
	assert.Error(t, err)
}

func TestReaderPreferencesValidate(t *testing.T) {
	assert.NoError(t, DefaultReaderPreferences().Validate())

	p := DefaultReaderPreferences()
	p.Theme = "neon"
	var verr *ValidationError
	require.ErrorAs(t, p.Validate(), &verr)
	assert.Equal(t, "theme", verr.Field)

	p = DefaultReaderPreferences()
	p.FontSize = 9
	require.ErrorAs(t, p.Validate(), &verr)
	assert.Equal(t, "fontSize", verr.Field)
}
