package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.RemoteBackendConfig{BaseURL: srv.URL + "/", APIKey: "secret", Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(config.RemoteBackendConfig{})
	assert.Error(t, err)
}

func TestCallGenerate(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/ai/generate", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":"第一章正文","providerLabel":"DeepSeek","simulated":false}`))
	})

	call, err := generation.BuildCall(entity.GenerateChapterRequest{
		NovelID:       "n1",
		ChapterNumber: "1",
		ChapterTitle:  "开端",
		UserPrompt:    "写一个雨夜",
		Provider:      entity.ProviderConfig{ProviderID: "deepseek", ModelID: "deepseek-chat", Temperature: 0.5, MaxTokens: 1200},
	})
	require.NoError(t, err)

	raw, err := c.Call(context.Background(), call)
	require.NoError(t, err)
	assert.Equal(t, "第一章正文", raw.Content)
	assert.Equal(t, "DeepSeek", raw.ProviderLabel)

	assert.Equal(t, "n1", got["novelId"])
	assert.Equal(t, "deepseek", got["providerId"])
	assert.Equal(t, "deepseek-chat", got["modelId"])
	assert.Equal(t, 0.5, got["temperature"])
	assert.Equal(t, float64(1200), got["maxTokens"])
	assert.NotContains(t, got, "providerConfig")
}

func TestCallIdeasKeepsLooseShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ai/ideas", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "providerConfig")
		_, _ = w.Write([]byte(`{"ideas":["伏笔","反转"],"providerLabel":"OpenAI"}`))
	})

	call, err := generation.BuildCall(entity.ChapterIdeasRequest{NovelID: "n1"})
	require.NoError(t, err)

	raw, err := c.Call(context.Background(), call)
	require.NoError(t, err)
	assert.Equal(t, []any{"伏笔", "反转"}, raw.Ideas)
}

func TestCallErrorStatus(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "message field", body: `{"message":"quota exceeded"}`, message: "quota exceeded"},
		{name: "error string", body: `{"error":"bad model"}`, message: "bad model"},
		{name: "nested error", body: `{"error":{"message":"rate limited"}}`, message: "rate limited"},
		{name: "plain text", body: `upstream exploded`, message: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Call(context.Background(), generation.TransportCall{Operation: entity.OperationImprove})
			var te *generation.TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, http.StatusBadGateway, te.StatusCode)
			assert.Equal(t, tt.message, te.Message)
		})
	}
}

func TestCallTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(config.RemoteBackendConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Call(context.Background(), generation.TransportCall{Operation: entity.OperationContinue})
	var te *generation.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "generation timed out", te.Message)
}

func TestListProviders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/ai/providers", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"openai": {"displayName": "OpenAI", "models": ["gpt-4o", "gpt-4o-mini"], "defaultModel": "gpt-4o-mini"},
			"deepseek": {"models": ["deepseek-chat"]}
		}`))
	})

	infos, err := c.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "deepseek", infos[0].ID)
	assert.Equal(t, "deepseek", infos[0].DisplayName)
	assert.Equal(t, "openai", infos[1].ID)
	assert.Equal(t, "gpt-4o-mini", infos[1].Default())
}
