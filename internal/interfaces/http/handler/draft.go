package handler

import (
	stderrors "errors"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"z-novel-studio/internal/application/editor"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/repository"
	"z-novel-studio/internal/domain/service"
	"z-novel-studio/internal/interfaces/http/dto"
	"z-novel-studio/pkg/errors"
	"z-novel-studio/pkg/logger"
	"z-novel-studio/pkg/metrics"
)

// DraftHandler 草稿编辑会话处理器
type DraftHandler struct {
	sessions      *editor.Manager
	generator     Generator
	worldbuilding repository.WorldbuildingRepository
}

// NewDraftHandler 创建草稿处理器
func NewDraftHandler(sessions *editor.Manager, generator Generator, worldbuilding repository.WorldbuildingRepository) *DraftHandler {
	return &DraftHandler{
		sessions:      sessions,
		generator:     generator,
		worldbuilding: worldbuilding,
	}
}

func recordEditorOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.EditorOperationsTotal.WithLabelValues(op, status).Inc()
}

func (h *DraftHandler) session(c *gin.Context) (*editor.Session, bool) {
	s, err := h.sessions.Get(dto.BindSessionID(c))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return s, true
}

// OpenDraft 打开编辑会话
// @Summary 打开编辑会话
// @Tags Drafts
// @Accept json
// @Produce json
// @Param body body dto.OpenDraftRequest true "草稿"
// @Success 201 {object} dto.Response[editor.Snapshot]
// @Router /v1/drafts [post]
func (h *DraftHandler) OpenDraft(c *gin.Context) {
	var req dto.OpenDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	s := h.sessions.Open(req.ToEntity())
	recordEditorOp("open", nil)

	ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, s.ID())
	logger.Info(ctx, "editing session opened", "novel_id", req.NovelID, "chapter", req.ChapterNumber)
	dto.Created(c, s.Snapshot())
}

// GetDraft 查看会话
// @Summary 查看编辑会话
// @Tags Drafts
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[editor.Snapshot]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/drafts/{sid} [get]
func (h *DraftHandler) GetDraft(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	dto.Success(c, s.Snapshot())
}

// ReloadDraft 替换草稿，进行中的生成结果将作废
// @Summary 重新载入草稿
// @Tags Drafts
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.OpenDraftRequest true "草稿"
// @Success 200 {object} dto.Response[editor.Snapshot]
// @Router /v1/drafts/{sid} [put]
func (h *DraftHandler) ReloadDraft(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.OpenDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	err := s.Reload(req.ToEntity())
	recordEditorOp("reload", err)
	if err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, s.Snapshot())
}

// CloseDraft 关闭会话并丢弃草稿
// @Summary 关闭编辑会话
// @Tags Drafts
// @Param sid path string true "会话 ID"
// @Success 204
// @Router /v1/drafts/{sid} [delete]
func (h *DraftHandler) CloseDraft(c *gin.Context) {
	err := h.sessions.Close(dto.BindSessionID(c))
	recordEditorOp("close", err)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info(c.Request.Context(), "editing session closed")
	dto.NoContent(c)
}

// SetContent 写入用户输入，不记录历史
// @Summary 更新草稿内容
// @Tags Drafts
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SetContentRequest true "内容"
// @Success 200 {object} dto.Response[editor.Snapshot]
// @Router /v1/drafts/{sid}/content [put]
func (h *DraftHandler) SetContent(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.SetContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := s.SetContent(*req.Content); err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, s.Snapshot())
}

// Commit 提交当前内容
// @Summary 提交当前内容到历史
// @Tags Drafts
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.HistoryResponse]
// @Router /v1/drafts/{sid}/commit [post]
func (h *DraftHandler) Commit(c *gin.Context) {
	h.history(c, "commit", (*editor.Session).Commit)
}

// Undo 撤销
// @Summary 撤销
// @Tags Drafts
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.HistoryResponse]
// @Router /v1/drafts/{sid}/undo [post]
func (h *DraftHandler) Undo(c *gin.Context) {
	h.history(c, "undo", (*editor.Session).Undo)
}

// Redo 重做
// @Summary 重做
// @Tags Drafts
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.HistoryResponse]
// @Router /v1/drafts/{sid}/redo [post]
func (h *DraftHandler) Redo(c *gin.Context) {
	h.history(c, "redo", (*editor.Session).Redo)
}

func (h *DraftHandler) history(c *gin.Context, op string, fn func(*editor.Session) (bool, error)) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	changed, err := fn(s)
	recordEditorOp(op, err)
	if err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, dto.HistoryResponse{Changed: changed, Draft: s.Snapshot()})
}

// Generate 以草稿为上下文生成并写回
// 票据在请求开始时捕获，期间草稿被替换或关闭则结果作废
// @Summary 生成并写回草稿
// @Tags Drafts
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.DraftGenerateRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.DraftGenerateResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/drafts/{sid}/generate [post]
func (h *DraftHandler) Generate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.DraftGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	op, err := entity.ParseOperationKind(req.Operation)
	if err != nil {
		writeError(c, err)
		return
	}
	mode, err := editor.ModeForOperation(op)
	if err != nil {
		writeError(c, err)
		return
	}

	ticket := s.Ticket()
	if req.Epoch != nil && *req.Epoch != ticket.Epoch {
		writeError(c, editor.ErrStaleResult)
		return
	}

	snap := s.Snapshot()
	cfg := req.ProviderConfig.ToEntity()
	var genReq entity.GenerationRequest
	switch op {
	case entity.OperationGenerate:
		genReq = entity.GenerateChapterRequest{
			NovelID:       snap.Draft.NovelID,
			ChapterNumber: snap.Draft.ChapterNumber,
			ChapterTitle:  snap.Draft.Title,
			UserPrompt:    req.UserPrompt,
			Provider:      cfg,
		}
	case entity.OperationImprove:
		genReq = entity.ImproveContentRequest{
			Content:           snap.Draft.Content,
			InstructionPrompt: req.Instruction,
			Provider:          cfg,
		}
	case entity.OperationContinue:
		genReq = entity.ContinueTextRequest{
			NovelID:          snap.Draft.NovelID,
			PreviousContent:  snap.Draft.Content,
			UserInstructions: req.UserInstructions,
			Provider:         cfg,
		}
	}

	ctx := service.WithDraftSession(c.Request.Context(), ticket.SessionID)
	result, err := h.generator.Invoke(ctx, genReq)
	if err != nil {
		writeError(c, err)
		return
	}

	err = s.ApplyGenerationResult(ticket, result, mode)
	recordEditorOp("apply_"+string(op), err)
	if err != nil {
		if stderrors.Is(err, editor.ErrStaleResult) {
			logger.Warn(ctx, "discarding stale generation result", "operation", string(op), "epoch", ticket.Epoch)
		}
		writeError(c, err)
		return
	}
	writeResult(c, result, dto.DraftGenerateResponse{Result: result, Draft: s.Snapshot()})
}

// InsertReference 在光标处插入世界观资料
// @Summary 插入世界观资料
// @Tags Drafts
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.InsertReferenceRequest true "资料"
// @Success 200 {object} dto.Response[editor.Snapshot]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/drafts/{sid}/references [post]
func (h *DraftHandler) InsertReference(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req dto.InsertReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	snap := s.Snapshot()
	ref, err := h.resolveReference(c, snap.Draft, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	offset := utf8.RuneCountInString(snap.Draft.Content)
	if req.Offset != nil {
		offset = *req.Offset
	}

	err = s.InsertReference(ref, offset)
	recordEditorOp("insert_reference", err)
	if err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, s.Snapshot())
}

func (h *DraftHandler) resolveReference(c *gin.Context, draft entity.ChapterDraft, req *dto.InsertReferenceRequest) (*entity.WorldbuildingReference, error) {
	switch {
	case req.ReferenceID != "":
		ref, err := h.worldbuilding.GetByID(c.Request.Context(), req.ReferenceID)
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrReferenceNotFound.WithDetail(req.ReferenceID)
		}
		if err != nil {
			return nil, err
		}
		if draft.NovelID != "" && ref.NovelID != draft.NovelID {
			return nil, &entity.ValidationError{Field: "referenceId", Reason: "reference belongs to another novel"}
		}
		return ref, nil
	case req.Reference != nil:
		kind, err := entity.ParseReferenceKind(req.Reference.Kind)
		if err != nil {
			return nil, err
		}
		return &entity.WorldbuildingReference{
			NovelID:     draft.NovelID,
			Kind:        kind,
			Name:        req.Reference.Name,
			Description: req.Reference.Description,
			Levels:      req.Reference.Levels,
		}, nil
	default:
		return nil, &entity.ValidationError{Field: "referenceId"}
	}
}

// Stats 文档统计
// @Summary 文档统计
// @Tags Drafts
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[entity.DocumentStats]
// @Router /v1/drafts/{sid}/stats [get]
func (h *DraftHandler) Stats(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	dto.Success(c, s.Stats())
}
