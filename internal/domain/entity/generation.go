package entity

import (
	"fmt"
	"strings"
)

// OperationKind 生成操作类型
type OperationKind string

const (
	OperationGenerate OperationKind = "generate"
	OperationImprove  OperationKind = "improve"
	OperationContinue OperationKind = "continue"
	OperationIdeas    OperationKind = "ideas"
)

// OperationKinds 全部操作类型
var OperationKinds = []OperationKind{OperationGenerate, OperationImprove, OperationContinue, OperationIdeas}

// ParseOperationKind 解析操作类型
func ParseOperationKind(s string) (OperationKind, error) {
	k := OperationKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case OperationGenerate, OperationImprove, OperationContinue, OperationIdeas:
		return k, nil
	default:
		return "", &ValidationError{Field: "operation", Reason: fmt.Sprintf("unknown operation %q", s)}
	}
}

// ValidationError 请求缺少必填字段
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s is required", e.Field)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field}
	}
	return nil
}

// GenerationRequest 生成请求，每种操作一个实现
type GenerationRequest interface {
	Kind() OperationKind
	ProviderConfig() ProviderConfig
	WithProviderConfig(ProviderConfig) GenerationRequest
	Validate() error

	generationRequest()
}

// GenerateChapterRequest 生成整章
type GenerateChapterRequest struct {
	NovelID       string
	ChapterNumber string
	ChapterTitle  string
	UserPrompt    string
	Provider      ProviderConfig
}

func (r GenerateChapterRequest) Kind() OperationKind            { return OperationGenerate }
func (r GenerateChapterRequest) ProviderConfig() ProviderConfig { return r.Provider }
func (r GenerateChapterRequest) generationRequest()             {}

func (r GenerateChapterRequest) WithProviderConfig(c ProviderConfig) GenerationRequest {
	r.Provider = c
	return r
}

func (r GenerateChapterRequest) Validate() error {
	if err := required("chapterNumber", r.ChapterNumber); err != nil {
		return err
	}
	return required("novelId", r.NovelID)
}

// ImproveContentRequest 润色已有内容
type ImproveContentRequest struct {
	Content           string
	InstructionPrompt string
	Provider          ProviderConfig
}

func (r ImproveContentRequest) Kind() OperationKind            { return OperationImprove }
func (r ImproveContentRequest) ProviderConfig() ProviderConfig { return r.Provider }
func (r ImproveContentRequest) generationRequest()             {}

func (r ImproveContentRequest) WithProviderConfig(c ProviderConfig) GenerationRequest {
	r.Provider = c
	return r
}

func (r ImproveContentRequest) Validate() error {
	return required("content", r.Content)
}

// ContinueTextRequest 续写
type ContinueTextRequest struct {
	NovelID          string
	PreviousContent  string
	UserInstructions string
	Provider         ProviderConfig
}

func (r ContinueTextRequest) Kind() OperationKind            { return OperationContinue }
func (r ContinueTextRequest) ProviderConfig() ProviderConfig { return r.Provider }
func (r ContinueTextRequest) generationRequest()             {}

func (r ContinueTextRequest) WithProviderConfig(c ProviderConfig) GenerationRequest {
	r.Provider = c
	return r
}

func (r ContinueTextRequest) Validate() error {
	if err := required("previousContent", r.PreviousContent); err != nil {
		return err
	}
	return required("novelId", r.NovelID)
}

// ChapterIdeasRequest 章节灵感
type ChapterIdeasRequest struct {
	NovelID  string
	Provider ProviderConfig
}

func (r ChapterIdeasRequest) Kind() OperationKind            { return OperationIdeas }
func (r ChapterIdeasRequest) ProviderConfig() ProviderConfig { return r.Provider }
func (r ChapterIdeasRequest) generationRequest()             {}

func (r ChapterIdeasRequest) WithProviderConfig(c ProviderConfig) GenerationRequest {
	r.Provider = c
	return r
}

func (r ChapterIdeasRequest) Validate() error {
	return required("novelId", r.NovelID)
}

// TokenUsage token 用量
type TokenUsage struct {
	PromptTokens     int  `json:"promptTokens"`
	CompletionTokens int  `json:"completionTokens"`
	Estimated        bool `json:"estimated,omitempty"`
}

// GenerationResult 归一化后的生成结果
type GenerationResult struct {
	Operation     OperationKind `json:"operation"`
	Content       string        `json:"content,omitempty"`
	Ideas         []string      `json:"ideas,omitempty"`
	ProviderLabel string        `json:"providerLabel"`
	Provider      string        `json:"provider"`
	Model         string        `json:"model"`
	Simulated     bool          `json:"simulated"`
	Usage         *TokenUsage   `json:"usage,omitempty"`
}
