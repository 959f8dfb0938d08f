package dto

import (
	"strings"

	"github.com/gin-gonic/gin"

	"z-novel-studio/pkg/logger"
)

const (
	// ReaderIDHeader 偏好归属头
	ReaderIDHeader = "X-Reader-ID"
	// DefaultReaderID 未携带归属头时使用
	DefaultReaderID = "default"
)

// BindSessionID 从 URI 绑定编辑会话 ID
func BindSessionID(c *gin.Context) string {
	sid := c.Param("sid")
	ctx := logger.WithContext(c.Request.Context(), logger.SessionIDKey, sid)
	c.Request = c.Request.WithContext(ctx)
	return sid
}

// BindNovelID 从 URI 绑定小说 ID
func BindNovelID(c *gin.Context) string {
	nid := c.Param("nid")
	ctx := logger.WithContext(c.Request.Context(), logger.NovelIDKey, nid)
	c.Request = c.Request.WithContext(ctx)
	return nid
}

// BindReaderID 从请求头绑定偏好归属
func BindReaderID(c *gin.Context) string {
	id := strings.TrimSpace(c.GetHeader(ReaderIDHeader))
	if id == "" {
		id = DefaultReaderID
	}
	ctx := logger.WithContext(c.Request.Context(), logger.ReaderIDKey, id)
	c.Request = c.Request.WithContext(ctx)
	return id
}
