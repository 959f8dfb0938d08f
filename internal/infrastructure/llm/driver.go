// Package llm 在进程内实现生成传输：按提供商驱动调用模型，缺少凭据时返回模拟响应
package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/schema"

	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/service"
	"z-novel-studio/pkg/metrics"
)

// ChatRequest 驱动无关的对话请求
type ChatRequest struct {
	Model       string
	Messages    []*schema.Message
	Temperature float64
	MaxTokens   int
	// JSON 要求模型输出 JSON 对象
	JSON bool
}

// ChatResponse 驱动返回
type ChatResponse struct {
	Content string
	Model   string
	Usage   *entity.TokenUsage
}

// ChatDriver 单个提供商的模型客户端
type ChatDriver interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ModelLister 支持列出可用模型的驱动
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// transportError 将驱动错误转换为传输错误
// status 为 0 且 message 为空时编排器使用通用提示
func transportError(status int, message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		message = "generation timed out"
	}
	return &generation.TransportError{StatusCode: status, Message: message, Err: err}
}

// recordCall 记录非 Eino 驱动的调用指标，Eino 驱动由全局回调记录
func recordCall(ctx context.Context, model string, start time.Time, usage *entity.TokenUsage, err error) {
	op := service.OperationFromContext(ctx)
	provider := service.ProviderFromContext(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LLMCallTotal.WithLabelValues(op, provider, model, status).Inc()
	metrics.LLMCallDuration.WithLabelValues(op, provider, model).Observe(time.Since(start).Seconds())
	if usage != nil {
		metrics.LLMTokensUsed.WithLabelValues(op, provider, model, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(op, provider, model, "completion").Add(float64(usage.CompletionTokens))
	}
}
