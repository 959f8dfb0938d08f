package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"z-novel-studio/internal/application/provider"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/interfaces/http/dto"
	"z-novel-studio/pkg/logger"
)

// Generator 生成编排
type Generator interface {
	Invoke(ctx context.Context, req entity.GenerationRequest) (*entity.GenerationResult, error)
}

// AIHandler 无状态生成接口
type AIHandler struct {
	generator Generator
	registry  *provider.Registry
}

// NewAIHandler 创建生成处理器
func NewAIHandler(generator Generator, registry *provider.Registry) *AIHandler {
	return &AIHandler{
		generator: generator,
		registry:  registry,
	}
}

// ListProviders 获取提供商目录
// @Summary 获取提供商目录
// @Tags AI
// @Produce json
// @Success 200 {object} dto.Response[dto.ProvidersResponse]
// @Router /v1/ai/providers [get]
func (h *AIHandler) ListProviders(c *gin.Context) {
	resp := dto.ProvidersResponse{
		Configured: !h.registry.Empty(),
		Providers:  make([]entity.ProviderInfo, 0),
	}
	if resp.Configured {
		resp.DefaultProvider = h.registry.DefaultProvider()
		infos := h.registry.List()
		for _, id := range h.registry.IDs() {
			resp.Providers = append(resp.Providers, infos[id])
		}
	}
	dto.Success(c, resp)
}

// GenerateChapter 生成章节
// @Summary 生成章节
// @Tags AI
// @Accept json
// @Produce json
// @Param body body dto.GenerateChapterRequest true "生成参数"
// @Success 200 {object} dto.Response[entity.GenerationResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/ai/generate [post]
func (h *AIHandler) GenerateChapter(c *gin.Context) {
	var req dto.GenerateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.invoke(c, req.ToEntity())
}

// ImproveContent 润色内容
// @Summary 润色内容
// @Tags AI
// @Accept json
// @Produce json
// @Param body body dto.ImproveContentRequest true "润色参数"
// @Success 200 {object} dto.Response[entity.GenerationResult]
// @Router /v1/ai/improve [post]
func (h *AIHandler) ImproveContent(c *gin.Context) {
	var req dto.ImproveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.invoke(c, req.ToEntity())
}

// ContinueText 续写
// @Summary 续写
// @Tags AI
// @Accept json
// @Produce json
// @Param body body dto.ContinueTextRequest true "续写参数"
// @Success 200 {object} dto.Response[entity.GenerationResult]
// @Router /v1/ai/continue [post]
func (h *AIHandler) ContinueText(c *gin.Context) {
	var req dto.ContinueTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.invoke(c, req.ToEntity())
}

// ChapterIdeas 章节灵感
// @Summary 章节灵感
// @Tags AI
// @Accept json
// @Produce json
// @Param body body dto.ChapterIdeasRequest true "灵感参数"
// @Success 200 {object} dto.Response[entity.GenerationResult]
// @Router /v1/ai/ideas [post]
func (h *AIHandler) ChapterIdeas(c *gin.Context) {
	var req dto.ChapterIdeasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	h.invoke(c, req.ToEntity())
}

func (h *AIHandler) invoke(c *gin.Context, req entity.GenerationRequest) {
	ctx := c.Request.Context()

	result, err := h.generator.Invoke(ctx, req)
	if err != nil {
		writeError(c, err)
		return
	}
	writeResult(c, result, result)
}

// writeResult 模拟结果附带提示
func writeResult[T any](c *gin.Context, result *entity.GenerationResult, data T) {
	if result.Simulated {
		logger.Warn(c.Request.Context(), "returning simulated generation result",
			"operation", string(result.Operation),
			"provider", result.Provider,
		)
		dto.SuccessWithNotice(c, data, dto.SimulatedNotice)
		return
	}
	dto.Success(c, data)
}
