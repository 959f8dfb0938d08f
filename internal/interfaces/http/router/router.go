// Package router 提供 HTTP 路由配置
package router

import (
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/interfaces/http/handler"
	"z-novel-studio/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Health        *handler.HealthHandler
	AI            *handler.AIHandler
	Draft         *handler.DraftHandler
	Worldbuilding *handler.WorldbuildingHandler
	Preference    *handler.PreferenceHandler
}

// Router HTTP 路由器
type Router struct {
	engine   *gin.Engine
	cfg      *config.Config
	handlers Handlers
}

// New 创建新的路由器
func New(cfg *config.Config, handlers Handlers) *Router {
	// 设置 Gin 模式
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	r := &Router{
		engine:   engine,
		cfg:      cfg,
		handlers: handlers,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupMiddleware 配置中间件
func (r *Router) setupMiddleware() {
	// 基础中间件
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	// CORS 中间件
	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	// 追踪中间件
	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	// 指标中间件
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

// setupRoutes 配置路由
func (r *Router) setupRoutes() {
	h := r.handlers

	// 系统端点
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	// Prometheus 指标端点
	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.engine.Group("/v1")

	// 无状态生成
	ai := v1.Group("/ai")
	{
		ai.GET("/providers", h.AI.ListProviders)
		ai.POST("/generate", h.AI.GenerateChapter)
		ai.POST("/improve", h.AI.ImproveContent)
		ai.POST("/continue", h.AI.ContinueText)
		ai.POST("/ideas", h.AI.ChapterIdeas)
	}

	// 草稿编辑会话
	drafts := v1.Group("/drafts")
	{
		drafts.POST("", h.Draft.OpenDraft)
		drafts.GET("/:sid", h.Draft.GetDraft)
		drafts.PUT("/:sid", h.Draft.ReloadDraft)
		drafts.DELETE("/:sid", h.Draft.CloseDraft)
		drafts.PUT("/:sid/content", h.Draft.SetContent)
		drafts.POST("/:sid/commit", h.Draft.Commit)
		drafts.POST("/:sid/undo", h.Draft.Undo)
		drafts.POST("/:sid/redo", h.Draft.Redo)
		drafts.POST("/:sid/generate", h.Draft.Generate)
		drafts.POST("/:sid/references", h.Draft.InsertReference)
		drafts.GET("/:sid/stats", h.Draft.Stats)
	}

	// 世界观资料
	v1.GET("/novels/:nid/worldbuilding", h.Worldbuilding.ListReferences)

	// 阅读偏好
	prefs := v1.Group("/preferences")
	{
		prefs.GET("", h.Preference.GetPreferences)
		prefs.PUT("", h.Preference.SavePreferences)
		prefs.PATCH("", h.Preference.PatchPreferences)
	}
}
