package dto

import (
	"z-novel-studio/internal/application/editor"
	"z-novel-studio/internal/domain/entity"
)

// OpenDraftRequest 打开编辑会话
type OpenDraftRequest struct {
	NovelID       string `json:"novelId"`
	ChapterNumber string `json:"chapterNumber"`
	Title         string `json:"title"`
	Content       string `json:"content"`
}

// ToEntity 转换为草稿
func (r *OpenDraftRequest) ToEntity() entity.ChapterDraft {
	return entity.ChapterDraft{
		NovelID:       r.NovelID,
		ChapterNumber: r.ChapterNumber,
		Title:         r.Title,
		Content:       r.Content,
	}
}

// SetContentRequest 用户输入
type SetContentRequest struct {
	Content *string `json:"content" binding:"required"`
}

// DraftGenerateRequest 在草稿上运行生成并写回
// epoch 为空时以服务端当前票据为准
type DraftGenerateRequest struct {
	Operation        string                 `json:"operation" binding:"required"`
	Epoch            *uint64                `json:"epoch"`
	UserPrompt       string                 `json:"userPrompt"`
	Instruction      string                 `json:"improvementPrompt"`
	UserInstructions string                 `json:"userInstructions"`
	ProviderConfig   *ProviderConfigRequest `json:"providerConfig"`
}

// InlineReference 请求中直接携带的资料
type InlineReference struct {
	Kind        string   `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Levels      []string `json:"levels"`
}

// InsertReferenceRequest 插入资料，referenceId 与 reference 二选一
// offset 为空时插入到末尾
type InsertReferenceRequest struct {
	ReferenceID string           `json:"referenceId"`
	Reference   *InlineReference `json:"reference"`
	Offset      *int             `json:"offset"`
}

// HistoryResponse 历史操作结果
type HistoryResponse struct {
	Changed bool            `json:"changed"`
	Draft   editor.Snapshot `json:"draft"`
}

// DraftGenerateResponse 生成并写回的结果
type DraftGenerateResponse struct {
	Result *entity.GenerationResult `json:"result"`
	Draft  editor.Snapshot          `json:"draft"`
}
