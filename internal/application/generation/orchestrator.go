// Package generation 将一次操作请求转换为一次外部生成调用并归一化结果
package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"z-novel-studio/internal/application/classifier"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/service"
	"z-novel-studio/pkg/logger"
	"z-novel-studio/pkg/metrics"
	"z-novel-studio/pkg/tracer"
)

// ProviderResolver 提供商配置解析
type ProviderResolver interface {
	Resolve(ctx context.Context, cfg entity.ProviderConfig) (entity.ProviderConfig, error)
	Get(id string) (entity.ProviderInfo, bool)
}

// Orchestrator 生成编排器
// 不做重试、排队或合并，每次 Invoke 恰好一次外部调用
type Orchestrator struct {
	registry  ProviderResolver
	transport Transport
}

// NewOrchestrator 创建编排器
func NewOrchestrator(registry ProviderResolver, transport Transport) *Orchestrator {
	return &Orchestrator{registry: registry, transport: transport}
}

// Invoke 执行一次生成
func (o *Orchestrator) Invoke(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error) {
	op := req.Kind()
	providerLabel := req.ProviderConfig().ProviderID
	if providerLabel == "" {
		providerLabel = "default"
	}

	ctx, span := tracer.Start(ctx, "generation.Invoke")
	defer span.End()
	span.SetAttributes(attribute.String("generation.operation", string(op)))

	if err := req.Validate(); err != nil {
		metrics.GenerationTotal.WithLabelValues(string(op), providerLabel, "validation_error").Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	cfg, err := o.registry.Resolve(ctx, req.ProviderConfig())
	if err != nil {
		status := "validation_error"
		if !errors.As(err, new(*entity.ValidationError)) {
			status = "no_provider"
		}
		metrics.GenerationTotal.WithLabelValues(string(op), providerLabel, status).Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	req = req.WithProviderConfig(cfg)
	span.SetAttributes(
		attribute.String("generation.provider", cfg.ProviderID),
		attribute.String("generation.model", cfg.ModelID),
	)

	call, err := BuildCall(req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	start := time.Now()
	raw, err := o.transport.Call(service.WithLLMCall(ctx, string(op), cfg.ProviderID, cfg.ModelID), call)
	metrics.GenerationDuration.WithLabelValues(string(op), cfg.ProviderID).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(op), cfg.ProviderID, "transport_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failed")
		logger.Error(ctx, "generation transport failed", err,
			"operation", op,
			"provider", cfg.ProviderID,
			"model", cfg.ModelID,
		)
		return nil, newGenerationError(op, err)
	}
	if raw == nil {
		raw = &RawResponse{}
	}

	result := o.normalize(op, cfg, raw)
	if op != entity.OperationIdeas && strings.TrimSpace(result.Content) == "" {
		metrics.GenerationTotal.WithLabelValues(string(op), cfg.ProviderID, "empty").Inc()
		span.SetStatus(codes.Error, "empty result")
		return nil, &GenerationError{Operation: op, Message: ErrEmptyContent.Error(), Err: ErrEmptyContent}
	}

	metrics.GenerationTotal.WithLabelValues(string(op), cfg.ProviderID, "success").Inc()
	if result.Simulated {
		metrics.SimulatedResponsesTotal.WithLabelValues(string(op), cfg.ProviderID).Inc()
		logger.Warn(ctx, "generation returned simulated response",
			"operation", op,
			"provider", cfg.ProviderID,
		)
	}
	span.SetAttributes(attribute.Bool("generation.simulated", result.Simulated))

	return result, nil
}

// normalize 分类并整理原始结果
// simulated 只取决于显式标志或标记
func (o *Orchestrator) normalize(op entity.OperationKind, cfg entity.ProviderConfig, raw *RawResponse) *entity.GenerationResult {
	content, simulated := classifier.Classify(raw.Content)
	simulated = simulated || raw.Simulated

	result := &entity.GenerationResult{
		Operation:     op,
		Content:       content,
		ProviderLabel: strings.TrimSpace(raw.ProviderLabel),
		Provider:      cfg.ProviderID,
		Model:         cfg.ModelID,
		Usage:         raw.Usage,
	}
	if raw.Model != "" {
		result.Model = raw.Model
	}

	if op == entity.OperationIdeas {
		simulated = simulated || ideasMarked(raw.Ideas)
		if raw.Ideas == nil && content != "" {
			result.Ideas = NormalizeIdeas(content)
		} else {
			result.Ideas = NormalizeIdeas(raw.Ideas)
		}
		result.Content = ""
	}
	result.Simulated = simulated

	if result.ProviderLabel == "" {
		if info, ok := o.registry.Get(cfg.ProviderID); ok && info.DisplayName != "" {
			result.ProviderLabel = info.DisplayName
		} else {
			result.ProviderLabel = cfg.ProviderID
		}
	}
	return result
}
