package config

import (
	"fmt"
	"os"
	"time"
)

// Battle 对战服务配置
// 优先级：环境变量 > 模块 settings > 默认值
type Battle struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL     string        `env:"BATTLE_DATABASE_URL"`
	DBMaxOpenConns  int           `env:"BATTLE_DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns  int           `env:"BATTLE_DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLife   time.Duration `env:"BATTLE_DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	HTTPHost        string        `env:"BATTLE_HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort        int           `env:"BATTLE_HTTP_PORT" envDefault:"8090"`
	ShutdownTimeout time.Duration `env:"BATTLE_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	RateLimitPerSecond float64  `env:"BATTLE_RATE_LIMIT" envDefault:"100"`
	CORSAllowOrigins   []string `env:"BATTLE_CORS_ORIGINS" envSeparator:","`
	MaxImportBytes     int64    `env:"MONSTER_IMPORT_MAX_BYTES" envDefault:"1048576"`

	RedisHost       string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort       int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	MonsterCacheTTL time.Duration `env:"MONSTER_CACHE_TTL" envDefault:"10m"`
	CacheEnabled    bool          `env:"MONSTER_CACHE_ENABLED" envDefault:"true"`

	PurgeRetentionDays int    `env:"BATTLE_PURGE_RETENTION_DAYS" envDefault:"30"`
	PurgeSchedule      string `env:"BATTLE_PURGE_SCHEDULE" envDefault:"0 30 3 * * *"`
}

// LoadBattle 解析环境变量，并用 mqant 模块 settings 补齐未通过环境变量设置的项
func LoadBattle(settings map[string]interface{}) (*Battle, error) {
	cfg := &Battle{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}

	if v, ok := settings["database_url"].(string); ok {
		cfg.DatabaseURL = GetDatabaseURL("BATTLE_DATABASE_URL", v)
	}
	if _, set := os.LookupEnv("BATTLE_HTTP_PORT"); !set {
		// mqant 的 JSON settings 中数字解析为 float64
		if v, ok := settings["http_port"].(float64); ok && v > 0 {
			cfg.HTTPPort = int(v)
		}
	}
	if _, set := os.LookupEnv("REDIS_HOST"); !set {
		if v, ok := settings["redis_host"].(string); ok && v != "" {
			cfg.RedisHost = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验必要配置
func (c *Battle) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database url not configured: set BATTLE_DATABASE_URL or settings.database_url")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTPPort)
	}
	if c.MaxImportBytes <= 0 {
		return fmt.Errorf("invalid import size limit: %d", c.MaxImportBytes)
	}
	if c.PurgeRetentionDays < 1 {
		return fmt.Errorf("invalid purge retention days: %d", c.PurgeRetentionDays)
	}
	return nil
}

// HTTPAddress 监听地址
func (c *Battle) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// ForLog 用于启动日志输出的脱敏视图
func (c *Battle) ForLog() map[string]any {
	return SanitizeConfigForLog(map[string]any{
		"environment":          c.Environment,
		"log_level":            c.LogLevel,
		"database_url":         c.DatabaseURL,
		"http_address":         c.HTTPAddress(),
		"redis_host":           c.RedisHost,
		"redis_port":           c.RedisPort,
		"redis_password":       c.RedisPassword,
		"monster_cache_ttl":    c.MonsterCacheTTL.String(),
		"cache_enabled":        c.CacheEnabled,
		"rate_limit":           c.RateLimitPerSecond,
		"max_import_bytes":     c.MaxImportBytes,
		"purge_retention_days": c.PurgeRetentionDays,
		"purge_schedule":       c.PurgeSchedule,
	})
}
