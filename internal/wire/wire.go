//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/application/preference"
	"z-novel-studio/internal/application/provider"
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/infrastructure/llm"
	"z-novel-studio/internal/infrastructure/llm/prompt"
	"z-novel-studio/internal/infrastructure/persistence/postgres"
	"z-novel-studio/internal/interfaces/http/handler"
	"z-novel-studio/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		DataSet,
		LLMSet,
		ApplicationSet,
		RouterSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}

// InitializeBootstrap 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializeBootstrap(ctx context.Context, cfg *config.Config) (*BootstrapApp, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		postgres.NewWorldbuildingRepository,
		wire.Struct(new(BootstrapApp), "*"),
	)
	return nil, nil, nil
}

// DataSet 存储提供者集合
var DataSet = wire.NewSet(
	ProvidePostgresClientOptional,
	ProvideRedisClientOptional,
	ProvidePreferenceRepository,
	ProvideWorldbuildingRepository,
)

// LLMSet 生成后端提供者集合
var LLMSet = wire.NewSet(
	prompt.NewRegistry,
	llm.NewEinoFactory,
	llm.NewBackend,
	ProvideRemoteClient,
	ProvideTransport,
	ProvideCatalogSource,
	ProvideRegistry,
)

// ApplicationSet 应用服务提供者集合
var ApplicationSet = wire.NewSet(
	generation.NewOrchestrator,
	wire.Bind(new(generation.ProviderResolver), new(*provider.Registry)),
	ProvideEditorManager,
	ProvidePreferenceStore,
)

// RouterSet 路由提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewAIHandler,
	wire.Bind(new(handler.Generator), new(*generation.Orchestrator)),
	handler.NewDraftHandler,
	handler.NewWorldbuildingHandler,
	handler.NewPreferenceHandler,
	wire.Bind(new(handler.PreferenceStore), new(*preference.Store)),
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
