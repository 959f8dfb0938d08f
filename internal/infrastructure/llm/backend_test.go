package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z-novel-studio/internal/application/classifier"
	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/infrastructure/llm/prompt"
)

func newTestBackend(providers map[string]config.ProviderSettings) *Backend {
	cfg := &config.Config{LLM: config.LLMConfig{DefaultProvider: "deepseek", Providers: providers}}
	return NewBackend(cfg, prompt.NewRegistry(), NewEinoFactory())
}

func testCall(op entity.OperationKind, providerID, model string, payload generation.Payload) generation.TransportCall {
	return generation.TransportCall{
		Operation: op,
		Provider:  entity.ProviderConfig{ProviderID: providerID, ModelID: model, Temperature: 0.7, MaxTokens: 1000},
		Payload:   payload,
	}
}

func TestCallWithoutCredentialsIsSimulated(t *testing.T) {
	b := newTestBackend(map[string]config.ProviderSettings{
		"deepseek": {Driver: config.DriverGoOpenAI, DisplayName: "DeepSeek", Model: "deepseek-chat"},
	})

	raw, err := b.Call(context.Background(), testCall(entity.OperationGenerate, "deepseek", "deepseek-chat",
		generation.Payload{NovelID: "n1", ChapterNumber: "4", ChapterTitle: "Storm"}))
	require.NoError(t, err)

	assert.True(t, raw.Simulated)
	assert.True(t, classifier.IsSimulated(raw.Content))
	assert.Contains(t, classifier.Strip(raw.Content), "Chapter 4: Storm")
	assert.Equal(t, "DeepSeek (simulated)", raw.ProviderLabel)
}

func TestSimulatedImproveKeepsOriginalText(t *testing.T) {
	b := newTestBackend(map[string]config.ProviderSettings{
		"openai": {Driver: config.DriverOpenAI, DisplayName: "OpenAI"},
	})

	raw, err := b.Call(context.Background(), testCall(entity.OperationImprove, "openai", "gpt-4o-mini",
		generation.Payload{Content: "My own words."}))
	require.NoError(t, err)
	assert.Equal(t, "My own words.", classifier.Strip(raw.Content))
}

func TestSimulatedIdeasAreMarked(t *testing.T) {
	b := newTestBackend(map[string]config.ProviderSettings{
		"openai": {Driver: config.DriverOpenAI, DisplayName: "OpenAI"},
	})

	raw, err := b.Call(context.Background(), testCall(entity.OperationIdeas, "openai", "gpt-4o-mini", generation.Payload{NovelID: "n1"}))
	require.NoError(t, err)
	ideas := generation.NormalizeIdeas(raw.Ideas)
	assert.Len(t, ideas, 3)
	assert.True(t, raw.Simulated)
}

func TestCallUnknownProvider(t *testing.T) {
	b := newTestBackend(map[string]config.ProviderSettings{})
	_, err := b.Call(context.Background(), testCall(entity.OperationIdeas, "ghost", "", generation.Payload{NovelID: "n1"}))
	var te *generation.TransportError
	assert.ErrorAs(t, err, &te)
}

func openAICompatibleServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
			return
		}
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		content := "The wind howled across the pass."
		if req["response_format"] != nil {
			content = `{"ideas":["Ambush at the ford","A letter arrives"]}`
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  req["model"],
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
		})
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"deepseek-reasoner","object":"model"},{"id":"deepseek-chat","object":"model"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGoOpenAIDriverGenerate(t *testing.T) {
	srv := openAICompatibleServer(t)
	b := newTestBackend(map[string]config.ProviderSettings{
		"deepseek": {Driver: config.DriverGoOpenAI, DisplayName: "DeepSeek", APIKey: "good-key", BaseURL: srv.URL + "/v1", Timeout: 5 * time.Second},
	})

	raw, err := b.Call(context.Background(), testCall(entity.OperationContinue, "deepseek", "deepseek-chat",
		generation.Payload{NovelID: "n1", PreviousContent: "They rode north."}))
	require.NoError(t, err)
	assert.Equal(t, "The wind howled across the pass.", raw.Content)
	assert.False(t, raw.Simulated)
	assert.Equal(t, "deepseek-chat", raw.Model)
	require.NotNil(t, raw.Usage)
	assert.Equal(t, 12, raw.Usage.PromptTokens)
	assert.False(t, raw.Usage.Estimated)
}

func TestGoOpenAIDriverIdeasJSON(t *testing.T) {
	srv := openAICompatibleServer(t)
	b := newTestBackend(map[string]config.ProviderSettings{
		"deepseek": {Driver: config.DriverGoOpenAI, DisplayName: "DeepSeek", APIKey: "good-key", BaseURL: srv.URL + "/v1"},
	})

	raw, err := b.Call(context.Background(), testCall(entity.OperationIdeas, "deepseek", "deepseek-chat", generation.Payload{NovelID: "n1"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Ambush at the ford", "A letter arrives"}, generation.NormalizeIdeas(raw.Ideas))
}

func TestGoOpenAIDriverUpstreamError(t *testing.T) {
	srv := openAICompatibleServer(t)
	b := newTestBackend(map[string]config.ProviderSettings{
		"deepseek": {Driver: config.DriverGoOpenAI, DisplayName: "DeepSeek", APIKey: "bad-key", BaseURL: srv.URL + "/v1"},
	})

	_, err := b.Call(context.Background(), testCall(entity.OperationImprove, "deepseek", "deepseek-chat", generation.Payload{Content: "x"}))
	var te *generation.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
	assert.Equal(t, "invalid api key", te.Message)
}

func ollamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["model"] == "missing" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"model \"missing\" not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":             req["model"],
			"created_at":        time.Now().UTC().Format(time.RFC3339Nano),
			"message":           map[string]any{"role": "assistant", "content": "Lanterns flickered in the rain."},
			"done":              true,
			"prompt_eval_count": 30,
			"eval_count":        9,
		})
	})
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"qwen2.5:7b","model":"qwen2.5:7b"},{"name":"llama3.1:8b","model":"llama3.1:8b"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaDriver(t *testing.T) {
	srv := ollamaServer(t)
	b := newTestBackend(map[string]config.ProviderSettings{
		"ollama": {Driver: config.DriverOllama, DisplayName: "Ollama", BaseURL: srv.URL, Model: "qwen2.5:7b"},
	})

	raw, err := b.Call(context.Background(), testCall(entity.OperationGenerate, "ollama", "qwen2.5:7b",
		generation.Payload{NovelID: "n1", ChapterNumber: "1"}))
	require.NoError(t, err)
	assert.Equal(t, "Lanterns flickered in the rain.", raw.Content)
	require.NotNil(t, raw.Usage)
	assert.Equal(t, 30, raw.Usage.PromptTokens)
	assert.Equal(t, 9, raw.Usage.CompletionTokens)

	_, err = b.Call(context.Background(), testCall(entity.OperationGenerate, "ollama", "missing",
		generation.Payload{NovelID: "n1", ChapterNumber: "1"}))
	var te *generation.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.StatusCode)
}

func TestListProvidersUsesLiveAndConfiguredModels(t *testing.T) {
	oll := ollamaServer(t)
	oai := openAICompatibleServer(t)
	b := newTestBackend(map[string]config.ProviderSettings{
		"ollama":   {Driver: config.DriverOllama, DisplayName: "Ollama", BaseURL: oll.URL, Model: "qwen2.5:7b"},
		"deepseek": {Driver: config.DriverGoOpenAI, DisplayName: "DeepSeek", APIKey: "good-key", BaseURL: oai.URL + "/v1", Model: "deepseek-chat"},
		"openai":   {Driver: config.DriverOpenAI, DisplayName: "OpenAI", Model: "gpt-4o-mini", Models: []string{"gpt-4o"}},
		"offline":  {Driver: config.DriverOllama, DisplayName: "Offline", BaseURL: "http://127.0.0.1:1", Models: []string{"tiny"}},
	})

	infos, err := b.ListProviders(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 4)

	byID := map[string]entity.ProviderInfo{}
	for _, info := range infos {
		byID[info.ID] = info
	}
	assert.Equal(t, []string{"deepseek-chat", "deepseek-reasoner"}, byID["deepseek"].Models)
	assert.Equal(t, []string{"llama3.1:8b", "qwen2.5:7b"}, byID["ollama"].Models)
	assert.Equal(t, "qwen2.5:7b", byID["ollama"].Default())
	assert.Equal(t, []string{"gpt-4o-mini", "gpt-4o"}, byID["openai"].Models)
	assert.Equal(t, []string{"tiny"}, byID["offline"].Models)
}

func TestDecodeIdeas(t *testing.T) {
	assert.Equal(t, map[string]any{"ideas": []any{"a"}}, decodeIdeas("```json\n{\"ideas\":[\"a\"]}\n```"))
	assert.Equal(t, "1. plain\n2. list", decodeIdeas("1. plain\n2. list"))
}
