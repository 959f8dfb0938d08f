package handler

import (
	"github.com/gin-gonic/gin"

	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/repository"
	"z-novel-studio/internal/interfaces/http/dto"
)

// WorldbuildingHandler 世界观资料处理器，只读
type WorldbuildingHandler struct {
	repo repository.WorldbuildingRepository
}

// NewWorldbuildingHandler 创建资料处理器
func NewWorldbuildingHandler(repo repository.WorldbuildingRepository) *WorldbuildingHandler {
	return &WorldbuildingHandler{repo: repo}
}

// ListReferences 列出小说的世界观资料
// @Summary 列出世界观资料
// @Tags Worldbuilding
// @Produce json
// @Param nid path string true "小说 ID"
// @Param kind query string false "资料类型 character/world/magic/cultivation"
// @Success 200 {object} dto.Response[dto.WorldbuildingListResponse]
// @Router /v1/novels/{nid}/worldbuilding [get]
func (h *WorldbuildingHandler) ListReferences(c *gin.Context) {
	novelID := dto.BindNovelID(c)

	var kind *entity.ReferenceKind
	if raw := c.Query("kind"); raw != "" {
		k, err := entity.ParseReferenceKind(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		kind = &k
	}

	refs, err := h.repo.ListByNovel(c.Request.Context(), novelID, kind)
	if err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, dto.WorldbuildingListResponse{NovelID: novelID, References: refs})
}
