// Package handler 提供 HTTP 请求处理器
package handler

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"z-novel-studio/internal/application/editor"
	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/application/provider"
	"z-novel-studio/internal/domain/entity"
	"z-novel-studio/internal/domain/repository"
	"z-novel-studio/internal/interfaces/http/dto"
	"z-novel-studio/pkg/errors"
	"z-novel-studio/pkg/logger"
)

// toAppError 将领域错误映射为 AppError，field 仅校验错误时非空
func toAppError(err error) (appErr *errors.AppError, field string) {
	var (
		ve *entity.ValidationError
		ge *generation.GenerationError
	)
	switch {
	case stderrors.As(err, &ve):
		return errors.ErrValidationFailed.WithDetail(ve.Error()).WithError(err), ve.Field
	case stderrors.Is(err, provider.ErrNoProviderConfigured):
		return errors.ErrNoProviderConfigured.WithError(err), ""
	case stderrors.Is(err, generation.ErrEmptyContent), stderrors.Is(err, editor.ErrEmptyResult):
		return errors.ErrEmptyResult.WithError(err), ""
	case stderrors.As(err, &ge):
		return errors.New(errors.CodeGenerationFailed, ge.Message).WithError(err), ""
	case stderrors.Is(err, editor.ErrStaleResult):
		return errors.ErrStaleResult.WithError(err), ""
	case stderrors.Is(err, editor.ErrSessionNotFound), stderrors.Is(err, editor.ErrSessionClosed):
		return errors.ErrSessionNotFound.WithError(err), ""
	case stderrors.Is(err, editor.ErrNotApplicable):
		return errors.ErrValidationFailed.WithDetail(err.Error()).WithError(err), "operation"
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.ErrNotFound.WithError(err), ""
	case errors.IsAppError(err):
		return errors.AsAppError(err), ""
	default:
		return errors.ErrInternalError.WithError(err), ""
	}
}

// writeError 写出错误响应，5xx 记录日志
func writeError(c *gin.Context, err error) {
	appErr, field := toAppError(err)
	if appErr.HTTPStatus >= 500 {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.FullPath(),
			"code", string(appErr.Code),
		)
	}
	dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
		ErrorCode: string(appErr.Code),
		Field:     field,
		Details:   appErr.Detail,
	})
}
