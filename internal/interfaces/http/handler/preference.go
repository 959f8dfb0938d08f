package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/interfaces/http/dto"
)

const maxPatchBody = 64 << 10

// PreferenceStore 阅读偏好存取
type PreferenceStore interface {
	Load(ctx context.Context, ownerID string) (entity.ReaderPreferences, error)
	Save(ctx context.Context, ownerID string, prefs entity.ReaderPreferences) (entity.ReaderPreferences, error)
	Patch(ctx context.Context, ownerID string, patch []byte) (entity.ReaderPreferences, error)
}

// PreferenceHandler 阅读偏好处理器
type PreferenceHandler struct {
	store PreferenceStore
}

// NewPreferenceHandler 创建偏好处理器
func NewPreferenceHandler(store PreferenceStore) *PreferenceHandler {
	return &PreferenceHandler{store: store}
}

// GetPreferences 读取生效的偏好
// @Summary 读取阅读偏好
// @Tags Preferences
// @Produce json
// @Param X-Reader-ID header string false "偏好归属"
// @Success 200 {object} dto.Response[entity.ReaderPreferences]
// @Router /v1/preferences [get]
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	owner := dto.BindReaderID(c)

	prefs, err := h.store.Load(c.Request.Context(), owner)
	if err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, prefs)
}

// SavePreferences 整条覆盖
// @Summary 保存阅读偏好
// @Tags Preferences
// @Accept json
// @Produce json
// @Param body body entity.ReaderPreferences true "偏好"
// @Success 200 {object} dto.Response[entity.ReaderPreferences]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/preferences [put]
func (h *PreferenceHandler) SavePreferences(c *gin.Context) {
	owner := dto.BindReaderID(c)

	var prefs entity.ReaderPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	saved, err := h.store.Save(c.Request.Context(), owner, prefs)
	if err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, saved)
}

// PatchPreferences 合并补丁
// 对象按 RFC 7386 合并，数组按 RFC 6902 操作
// @Summary 修改阅读偏好
// @Tags Preferences
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response[entity.ReaderPreferences]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/preferences [patch]
func (h *PreferenceHandler) PatchPreferences(c *gin.Context) {
	owner := dto.BindReaderID(c)

	patch, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPatchBody))
	if err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	saved, err := h.store.Patch(c.Request.Context(), owner, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	dto.Success(c, saved)
}
