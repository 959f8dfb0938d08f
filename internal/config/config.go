// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Editor        EditorConfig        `yaml:"editor" mapstructure:"editor"`
	Preferences   PreferencesConfig   `yaml:"preferences" mapstructure:"preferences"`
	Worldbuilding WorldbuildingConfig `yaml:"worldbuilding" mapstructure:"worldbuilding"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// 目录模式
const (
	CatalogStatic  = "static"
	CatalogDynamic = "dynamic"
)

// 生成传输模式
const (
	TransportLocal  = "local"
	TransportRemote = "remote"
)

// 驱动类型
const (
	DriverOpenAI   = "openai"
	DriverGoOpenAI = "go-openai"
	DriverOllama   = "ollama"
)

// LLMConfig LLM 配置
type LLMConfig struct {
	DefaultProvider string                      `yaml:"default_provider" mapstructure:"default_provider"`
	Catalog         string                      `yaml:"catalog" mapstructure:"catalog"`
	CatalogCacheTTL time.Duration               `yaml:"catalog_cache_ttl" mapstructure:"catalog_cache_ttl"`
	Transport       string                      `yaml:"transport" mapstructure:"transport"`
	Remote          RemoteBackendConfig         `yaml:"remote" mapstructure:"remote"`
	Providers       map[string]ProviderSettings `yaml:"providers" mapstructure:"providers"`
}

// RemoteBackendConfig 远程生成后端配置
type RemoteBackendConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ProviderSettings LLM 提供商配置
type ProviderSettings struct {
	Driver      string        `yaml:"driver" mapstructure:"driver"`
	DisplayName string        `yaml:"display_name" mapstructure:"display_name"`
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Models      []string      `yaml:"models" mapstructure:"models"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// RequiresAPIKey 返回驱动是否需要凭据
func (p ProviderSettings) RequiresAPIKey() bool {
	return p.Driver != DriverOllama
}

// EditorConfig 编辑会话配置
type EditorConfig struct {
	SessionTTL    time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval" mapstructure:"sweep_interval"`
	MaxHistory    int           `yaml:"max_history" mapstructure:"max_history"`
}

// 偏好存储后端
const (
	PreferenceBackendSQLite = "sqlite"
	PreferenceBackendRedis  = "redis"
	PreferenceBackendMemory = "memory"
)

// PreferencesConfig 阅读偏好配置
type PreferencesConfig struct {
	Backend     string `yaml:"backend" mapstructure:"backend"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	RedisPrefix string `yaml:"redis_prefix" mapstructure:"redis_prefix"`
	// AutoAdvance 服务端下发的默认值，留空表示不覆盖内置默认
	AutoAdvance *bool `yaml:"auto_advance" mapstructure:"auto_advance"`
}

// 世界观资料后端
const (
	WorldbuildingBackendMemory   = "memory"
	WorldbuildingBackendPostgres = "postgres"
)

// WorldbuildingConfig 世界观资料配置
type WorldbuildingConfig struct {
	Backend string              `yaml:"backend" mapstructure:"backend"`
	Seed    []WorldbuildingSeed `yaml:"seed" mapstructure:"seed"`
}

// WorldbuildingSeed 内存后端的预置条目
type WorldbuildingSeed struct {
	ID          string   `yaml:"id" mapstructure:"id"`
	NovelID     string   `yaml:"novel_id" mapstructure:"novel_id"`
	Kind        string   `yaml:"kind" mapstructure:"kind"`
	Name        string   `yaml:"name" mapstructure:"name"`
	Description string   `yaml:"description" mapstructure:"description"`
	Levels      []string `yaml:"levels" mapstructure:"levels"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	CORS CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
