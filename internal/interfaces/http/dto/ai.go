package dto

import (
	"z-novel-studio/internal/domain/entity"
)

// SimulatedNotice 模拟结果的提示文案
const SimulatedNotice = "No generation backend credentials are configured. This is placeholder text, not model output."

// ProviderConfigRequest 提供商配置
// temperature 缺省时使用 0.7，显式传 0 保留 0
type ProviderConfigRequest struct {
	ProviderID  string   `json:"providerId"`
	ModelID     string   `json:"modelId"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   int      `json:"maxTokens"`
}

// ToEntity 转换为领域配置
func (r *ProviderConfigRequest) ToEntity() entity.ProviderConfig {
	if r == nil {
		return entity.ProviderConfig{Temperature: entity.DefaultTemperature}
	}
	cfg := entity.ProviderConfig{
		ProviderID:  r.ProviderID,
		ModelID:     r.ModelID,
		Temperature: entity.DefaultTemperature,
		MaxTokens:   r.MaxTokens,
	}
	if r.Temperature != nil {
		cfg.Temperature = *r.Temperature
	}
	return cfg
}

// GenerateChapterRequest 生成章节请求
type GenerateChapterRequest struct {
	NovelID        string                 `json:"novelId"`
	ChapterNumber  string                 `json:"chapterNumber"`
	ChapterTitle   string                 `json:"chapterTitle"`
	UserPrompt     string                 `json:"userPrompt"`
	ProviderConfig *ProviderConfigRequest `json:"providerConfig"`
}

// ToEntity 转换为领域请求
func (r *GenerateChapterRequest) ToEntity() entity.GenerateChapterRequest {
	return entity.GenerateChapterRequest{
		NovelID:       r.NovelID,
		ChapterNumber: r.ChapterNumber,
		ChapterTitle:  r.ChapterTitle,
		UserPrompt:    r.UserPrompt,
		Provider:      r.ProviderConfig.ToEntity(),
	}
}

// ImproveContentRequest 润色请求
type ImproveContentRequest struct {
	Content           string                 `json:"content"`
	ImprovementPrompt string                 `json:"improvementPrompt"`
	ProviderConfig    *ProviderConfigRequest `json:"providerConfig"`
}

// ToEntity 转换为领域请求
func (r *ImproveContentRequest) ToEntity() entity.ImproveContentRequest {
	return entity.ImproveContentRequest{
		Content:           r.Content,
		InstructionPrompt: r.ImprovementPrompt,
		Provider:          r.ProviderConfig.ToEntity(),
	}
}

// ContinueTextRequest 续写请求
type ContinueTextRequest struct {
	NovelID          string                 `json:"novelId"`
	PreviousContent  string                 `json:"previousContent"`
	UserInstructions string                 `json:"userInstructions"`
	ProviderConfig   *ProviderConfigRequest `json:"providerConfig"`
}

// ToEntity 转换为领域请求
func (r *ContinueTextRequest) ToEntity() entity.ContinueTextRequest {
	return entity.ContinueTextRequest{
		NovelID:          r.NovelID,
		PreviousContent:  r.PreviousContent,
		UserInstructions: r.UserInstructions,
		Provider:         r.ProviderConfig.ToEntity(),
	}
}

// ChapterIdeasRequest 灵感请求
type ChapterIdeasRequest struct {
	NovelID        string                 `json:"novelId"`
	ProviderConfig *ProviderConfigRequest `json:"providerConfig"`
}

// ToEntity 转换为领域请求
func (r *ChapterIdeasRequest) ToEntity() entity.ChapterIdeasRequest {
	return entity.ChapterIdeasRequest{
		NovelID:  r.NovelID,
		Provider: r.ProviderConfig.ToEntity(),
	}
}

// ProvidersResponse 提供商目录
type ProvidersResponse struct {
	Configured      bool                  `json:"configured"`
	DefaultProvider string                `json:"defaultProvider,omitempty"`
	Providers       []entity.ProviderInfo `json:"providers"`
}
