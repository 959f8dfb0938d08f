// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"fmt"

	"z-novel-studio/internal/application/editor"
	"z-novel-studio/internal/application/generation"
	"z-novel-studio/internal/application/preference"
	"z-novel-studio/internal/application/provider"
	"z-novel-studio/internal/config"
	"z-novel-studio/internal/domain/repository"
	"z-novel-studio/internal/infrastructure/llm"
	"z-novel-studio/internal/infrastructure/persistence/memory"
	"z-novel-studio/internal/infrastructure/persistence/postgres"
	"z-novel-studio/internal/infrastructure/persistence/redis"
	"z-novel-studio/internal/infrastructure/persistence/sqlite"
	"z-novel-studio/internal/infrastructure/transport/httpclient"
	"z-novel-studio/internal/interfaces/http/handler"
	"z-novel-studio/internal/interfaces/http/router"
	"z-novel-studio/pkg/logger"
)

// catalogCacheKey 动态目录在 Redis 中的键
const catalogCacheKey = "catalog:providers"

// App 应用入口需要的组件
type App struct {
	Router   *router.Router
	Sessions *editor.Manager
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvidePostgresClientOptional 世界观后端为 postgres 或显式启用时才连接
func ProvidePostgresClientOptional(cfg *config.Config) (*postgres.Client, func(), error) {
	if !cfg.Database.Postgres.Enabled && cfg.Worldbuilding.Backend != config.WorldbuildingBackendPostgres {
		return nil, func() {}, nil
	}
	return ProvidePostgresClient(cfg)
}

// ProvideRedisClientOptional 未启用时返回 nil
func ProvideRedisClientOptional(cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Cache.Redis.Enabled && cfg.Preferences.Backend != config.PreferenceBackendRedis {
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRemoteClient 远程传输模式下的 HTTP 客户端，本地模式返回 nil
func ProvideRemoteClient(cfg *config.Config) (*httpclient.Client, error) {
	if cfg.LLM.Transport != config.TransportRemote {
		return nil, nil
	}
	return httpclient.NewClient(cfg.LLM.Remote)
}

// ProvideTransport 按配置选择生成传输
func ProvideTransport(backend *llm.Backend, remote *httpclient.Client) generation.Transport {
	if remote != nil {
		return remote
	}
	return backend
}

// ProvideCatalogSource 动态目录来源与传输一致
func ProvideCatalogSource(backend *llm.Backend, remote *httpclient.Client) provider.CatalogSource {
	if remote != nil {
		return remote
	}
	return backend
}

// ProvideRegistry 构建提供商目录
// 动态目录加载失败时退回配置中的静态目录
func ProvideRegistry(ctx context.Context, cfg *config.Config, source provider.CatalogSource, redisClient *redis.Client) *provider.Registry {
	static := provider.NewStaticRegistry(cfg.LLM)
	if cfg.LLM.Catalog != config.CatalogDynamic {
		return static
	}

	if redisClient != nil {
		source = provider.NewCachedSource(source, redis.NewCache(redisClient), catalogCacheKey, cfg.LLM.CatalogCacheTTL)
	}
	registry, err := provider.LoadRegistry(ctx, source, cfg.LLM.DefaultProvider)
	if err != nil {
		logger.Warn(ctx, "dynamic provider catalogue unavailable, using configured providers", "error", err.Error())
		return static
	}
	if registry.Empty() {
		logger.Warn(ctx, "dynamic provider catalogue is empty, using configured providers")
		return static
	}
	return registry
}

// BootstrapApp 初始化命令需要的组件
type BootstrapApp struct {
	Postgres      *postgres.Client
	Worldbuilding *postgres.WorldbuildingRepository
}

// ProvideEditorManager 提供编辑会话管理器
func ProvideEditorManager(cfg *config.Config) *editor.Manager {
	return editor.NewManager(cfg.Editor)
}

// ProvidePreferenceRepository 按配置选择偏好存储
func ProvidePreferenceRepository(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (repository.PreferenceRepository, func(), error) {
	switch cfg.Preferences.Backend {
	case config.PreferenceBackendSQLite:
		repo, err := sqlite.Open(ctx, cfg.Preferences.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case config.PreferenceBackendRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("preferences backend redis requires cache.redis")
		}
		return redis.NewPreferenceRepository(redisClient, cfg.Preferences.RedisPrefix), func() {}, nil
	case config.PreferenceBackendMemory:
		return memory.NewPreferenceRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown preferences backend %q", cfg.Preferences.Backend)
	}
}

// ProvidePreferenceStore 服务端默认值在此处一次性解析
func ProvidePreferenceStore(cfg *config.Config, repo repository.PreferenceRepository) *preference.Store {
	return preference.NewStore(repo, preference.ServerDefaults{AutoAdvance: cfg.Preferences.AutoAdvance})
}

// ProvideWorldbuildingRepository 按配置选择世界观资料来源
func ProvideWorldbuildingRepository(cfg *config.Config, pg *postgres.Client) (repository.WorldbuildingRepository, error) {
	switch cfg.Worldbuilding.Backend {
	case config.WorldbuildingBackendPostgres:
		if pg == nil {
			return nil, fmt.Errorf("worldbuilding backend postgres requires database.postgres")
		}
		return postgres.NewWorldbuildingRepository(pg), nil
	case config.WorldbuildingBackendMemory:
		return memory.NewSeededWorldbuildingRepository(cfg.Worldbuilding), nil
	default:
		return nil, fmt.Errorf("unknown worldbuilding backend %q", cfg.Worldbuilding.Backend)
	}
}

// ProvideHealthHandler 只把已启用的依赖纳入就绪检查
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, redisClient *redis.Client, registry *provider.Registry) *handler.HealthHandler {
	checks := map[string]handler.HealthChecker{
		"postgres": nil,
		"redis":    nil,
	}
	if pg != nil {
		checks["postgres"] = pg
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	return handler.NewHealthHandler(checks, registry, cfg.App.Version)
}
