// Package service 提供跨层共享的领域上下文
package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyOperation llmCtxKey = "llm_operation"
	llmCtxKeyProvider  llmCtxKey = "llm_provider"
	llmCtxKeyModel     llmCtxKey = "llm_model"
	llmCtxKeySession   llmCtxKey = "draft_session"
)

const unknown = "unknown"

func withValue(ctx context.Context, key llmCtxKey, value string) context.Context {
	if ctx == nil {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func valueFrom(ctx context.Context, key llmCtxKey) string {
	if ctx == nil {
		return unknown
	}
	s, ok := ctx.Value(key).(string)
	if !ok || s == "" {
		return unknown
	}
	return s
}

// WithLLMCall 标记一次模型调用所属的操作、提供商和模型，供回调指标使用
func WithLLMCall(ctx context.Context, operation, provider, model string) context.Context {
	ctx = withValue(ctx, llmCtxKeyOperation, operation)
	ctx = withValue(ctx, llmCtxKeyProvider, provider)
	return withValue(ctx, llmCtxKeyModel, model)
}

func OperationFromContext(ctx context.Context) string {
	return valueFrom(ctx, llmCtxKeyOperation)
}

func ProviderFromContext(ctx context.Context) string {
	return valueFrom(ctx, llmCtxKeyProvider)
}

func ModelFromContext(ctx context.Context) string {
	return valueFrom(ctx, llmCtxKeyModel)
}

// WithDraftSession 标记生成所属的编辑会话，只作为追踪属性，不进指标标签
func WithDraftSession(ctx context.Context, sessionID string) context.Context {
	return withValue(ctx, llmCtxKeySession, sessionID)
}

// DraftSessionFromContext 未标记时返回空串
func DraftSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(llmCtxKeySession).(string)
	return s
}
