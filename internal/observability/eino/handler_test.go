package eino

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"z-novel-studio/internal/domain/service"
	"z-novel-studio/pkg/metrics"
)

func TestChatModelCallbackRecordsUsage(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := service.WithLLMCall(context.Background(), "generate", "openai", "gpt-4o-mini")

	before := testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("generate", "openai", "gpt-4o-mini", "prompt"))

	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Messages: []*schema.Message{schema.UserMessage("hi")}})
	time.Sleep(time.Millisecond)
	h.OnEnd(ctx, nil, &model.CallbackOutput{
		Config:     &model.Config{Model: "gpt-4o-mini"},
		TokenUsage: &model.TokenUsage{PromptTokens: 7, CompletionTokens: 3},
	})

	after := testutil.ToFloat64(metrics.LLMTokensUsed.WithLabelValues("generate", "openai", "gpt-4o-mini", "prompt"))
	assert.Equal(t, 7.0, after-before)
}

func TestElapsedSecondsWithoutStart(t *testing.T) {
	assert.Zero(t, elapsedSeconds(context.Background()))
}

func TestChatModelCallbackRecordsErrors(t *testing.T) {
	h := newChatModelCallbackHandler()
	ctx := service.WithDraftSession(context.Background(), "sess-1")
	ctx = service.WithLLMCall(ctx, "improve", "openai", "gpt-4o")

	before := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("improve", "openai", "gpt-4o", "error"))
	ctx = h.OnStart(ctx, nil, &model.CallbackInput{Messages: []*schema.Message{schema.UserMessage("hi")}})
	h.OnError(ctx, nil, assert.AnError)

	after := testutil.ToFloat64(metrics.LLMCallTotal.WithLabelValues("improve", "openai", "gpt-4o", "error"))
	assert.Equal(t, 1.0, after-before)
}

func TestInitIsIdempotent(t *testing.T) {
	assert.NotNil(t, globalHandler())
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}
