// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"z-novel-studio/pkg/errors"
	"z-novel-studio/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery Panic 恢复中间件
// 编辑会话持有互斥锁，panic 只会终止当前请求
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":     http.StatusInternalServerError,
					"message":  errors.ErrInternalError.Message,
					"error":    gin.H{"error_code": string(errors.CodeInternalError)},
					"trace_id": c.GetString("trace_id"),
				})
			}
		}()

		c.Next()
	}
}
