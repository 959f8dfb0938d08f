package generation

import (
	"context"
	"fmt"

	"z-novel-studio/internal/domain/entity"
)

// Transport 生成传输协作方，每次调用对应一次外部请求
type Transport interface {
	Call(ctx context.Context, call TransportCall) (*RawResponse, error)
}

// TransportCall 一次外部调用
type TransportCall struct {
	Operation entity.OperationKind
	Provider  entity.ProviderConfig
	Payload   Payload
}

// Payload 外部调用的请求体
// generate 使用平铺的提供商字段，其余操作使用 providerConfig
type Payload struct {
	NovelID           string                 `json:"novelId,omitempty"`
	ChapterNumber     string                 `json:"chapterNumber,omitempty"`
	ChapterTitle      string                 `json:"chapterTitle,omitempty"`
	UserPrompt        string                 `json:"userPrompt,omitempty"`
	Content           string                 `json:"content,omitempty"`
	ImprovementPrompt string                 `json:"improvementPrompt,omitempty"`
	PreviousContent   string                 `json:"previousContent,omitempty"`
	UserInstructions  string                 `json:"userInstructions,omitempty"`
	ProviderID        string                 `json:"providerId,omitempty"`
	ModelID           string                 `json:"modelId,omitempty"`
	Temperature       *float64               `json:"temperature,omitempty"`
	MaxTokens         int                    `json:"maxTokens,omitempty"`
	ProviderConfig    *entity.ProviderConfig `json:"providerConfig,omitempty"`
}

// RawResponse 协作方返回的原始结果
// Ideas 的形状不固定：字符串、数组或对象
type RawResponse struct {
	Content       string             `json:"content"`
	Ideas         any                `json:"ideas,omitempty"`
	ProviderLabel string             `json:"providerLabel,omitempty"`
	Model         string             `json:"model,omitempty"`
	Simulated     bool               `json:"simulated,omitempty"`
	Usage         *entity.TokenUsage `json:"usage,omitempty"`
}

// TransportError 网络错误或非 2xx 响应
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("transport: status %d: %s", e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("transport: status %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("transport: %v", e.Err)
	default:
		return "transport: " + e.Message
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BuildCall 将请求转换为外部调用
func BuildCall(req entity.GenerationRequest) (TransportCall, error) {
	cfg := req.ProviderConfig()
	call := TransportCall{Operation: req.Kind(), Provider: cfg}

	switch r := req.(type) {
	case entity.GenerateChapterRequest:
		temp := cfg.Temperature
		call.Payload = Payload{
			NovelID:       r.NovelID,
			ChapterNumber: r.ChapterNumber,
			ChapterTitle:  r.ChapterTitle,
			UserPrompt:    r.UserPrompt,
			ProviderID:    cfg.ProviderID,
			ModelID:       cfg.ModelID,
			Temperature:   &temp,
			MaxTokens:     cfg.MaxTokens,
		}
	case entity.ImproveContentRequest:
		call.Payload = Payload{
			Content:           r.Content,
			ImprovementPrompt: r.InstructionPrompt,
			ProviderConfig:    &cfg,
		}
	case entity.ContinueTextRequest:
		call.Payload = Payload{
			NovelID:          r.NovelID,
			PreviousContent:  r.PreviousContent,
			UserInstructions: r.UserInstructions,
			ProviderConfig:   &cfg,
		}
	case entity.ChapterIdeasRequest:
		call.Payload = Payload{
			NovelID:        r.NovelID,
			ProviderConfig: &cfg,
		}
	default:
		return TransportCall{}, fmt.Errorf("unsupported generation request %T", req)
	}
	return call, nil
}
