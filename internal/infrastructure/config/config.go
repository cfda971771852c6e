package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Match       MatchConfig     `mapstructure:"match"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Redis       RedisConfig     `mapstructure:"redis"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	MaxBodySize int64           `mapstructure:"max_body_size"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	Log         LogConfig       `mapstructure:"log"`
}

// LogConfig 日誌設定；File 為空時不寫檔
type LogConfig struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"`
	File  string `mapstructure:"file"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CatalogConfig 上游食材/食譜目錄設定
type CatalogConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	PageSize        int           `mapstructure:"page_size"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// MatchConfig 模糊比對預設值
type MatchConfig struct {
	Threshold float64 `mapstructure:"threshold"`
	Limit     int     `mapstructure:"limit"`
	MaxLimit  int     `mapstructure:"max_limit"`
}

// CacheConfig 搜尋結果快取配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig 目錄原始資料的共享快取
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件；沒有也沒關係，環境變數仍然有效
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	v := viper.New()

	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"server.port":              "PORT",
		"catalog.base_url":         "CATALOG_BASE_URL",
		"catalog.page_size":        "CATALOG_PAGE_SIZE",
		"catalog.timeout":          "CATALOG_TIMEOUT",
		"catalog.refresh_interval": "CATALOG_REFRESH_INTERVAL",
		"match.threshold":          "MATCH_THRESHOLD",
		"match.limit":              "MATCH_LIMIT",
		"cache.enabled":            "CACHE_ENABLED",
		"redis.enabled":            "REDIS_ENABLED",
		"redis.addr":               "REDIS_ADDR",
		"redis.password":           "REDIS_PASSWORD",
		"redis.db":                 "REDIS_DB",
		"rate_limit.enabled":       "RATE_LIMIT_ENABLED",
		"rate_limit.requests":      "RATE_LIMIT_REQUESTS",
		"rate_limit.window":        "RATE_LIMIT_WINDOW",
		"dedup_window":             "DEDUP_WINDOW",
		"log.level":                "LOG_LEVEL",
		"log.mode":                 "LOG_MODE",
		"log.file":                 "LOG_FILE",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// 設定設定檔名稱和路徑
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// 讀取設定檔
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "recipe-matcher")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// 目錄設定；page_size 取一個足以涵蓋全部資料的上限
	v.SetDefault("catalog.base_url", "http://localhost:3000/api")
	v.SetDefault("catalog.page_size", 10000)
	v.SetDefault("catalog.timeout", "15s")
	v.SetDefault("catalog.refresh_interval", "5m")

	// 比對設定
	v.SetDefault("match.threshold", 0.35)
	v.SetDefault("match.limit", 10)
	v.SetDefault("match.max_limit", 100)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.cleanup_interval", "1m")

	// Redis 設定
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("max_body_size", 1<<20) // 1MB
	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/app.log")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證目錄設定
	if _, err := url.ParseRequestURI(config.Catalog.BaseURL); err != nil {
		return fmt.Errorf("invalid catalog base url: %w", err)
	}
	if config.Catalog.PageSize <= 0 {
		return fmt.Errorf("invalid catalog page size")
	}

	// 驗證比對設定
	if config.Match.Threshold < 0 || config.Match.Threshold > 1 {
		return fmt.Errorf("match threshold must be within [0, 1]")
	}
	if config.Match.Limit <= 0 || config.Match.MaxLimit < config.Match.Limit {
		return fmt.Errorf("invalid match limit")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required when redis is enabled")
	}

	return nil
}
