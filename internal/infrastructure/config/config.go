package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Corpus      CorpusConfig    `mapstructure:"corpus"`
	Session     SessionConfig   `mapstructure:"session"`
	Search      SearchConfig    `mapstructure:"search"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// CorpusConfig 食譜庫配置
type CorpusConfig struct {
	Path         string        `mapstructure:"path"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// SessionConfig 會話儲存配置
type SessionConfig struct {
	// Store 可為 "memory" 或 "redis"
	Store           string        `mapstructure:"store"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	MaxSessions     int           `mapstructure:"max_sessions"`
	RedisAddr       string        `mapstructure:"redis_addr"`
}

// SearchConfig 食譜搜尋配置
type SearchConfig struct {
	// MaxResults 回傳給用戶的結果上限
	MaxResults int `mapstructure:"max_results"`
	// RetrievalMultiplier 檢索階段的放大倍數，補償飲食過濾刪除的候選
	RetrievalMultiplier int `mapstructure:"retrieval_multiplier"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件（允許不存在）
	_ = godotenv.Load()

	// 設定預設值
	setDefaults()

	// 設定環境變數前綴
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("corpus.path", "CORPUS_PATH")
	viper.BindEnv("session.store", "SESSION_STORE")
	viper.BindEnv("session.redis_addr", "SESSION_REDIS_ADDR")
	viper.BindEnv("search.max_results", "SEARCH_MAX_RESULTS")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	// 設定設定檔名稱和路徑
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// 讀取設定檔
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析設定
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-chatbot")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// 食譜庫設定
	viper.SetDefault("corpus.path", "data/recipes.db")
	viper.SetDefault("corpus.query_timeout", "5s")

	// 會話設定
	viper.SetDefault("session.store", "memory")
	viper.SetDefault("session.ttl", "30m")
	viper.SetDefault("session.cleanup_interval", "5m")
	viper.SetDefault("session.max_sessions", 10000)
	viper.SetDefault("session.redis_addr", "localhost:6379")

	// 搜尋設定
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.retrieval_multiplier", 3)

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 請求去重設定
	viper.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證食譜庫設定
	if config.Corpus.Path == "" {
		return fmt.Errorf("corpus path is required")
	}
	if config.Corpus.QueryTimeout <= 0 {
		return fmt.Errorf("invalid corpus query timeout")
	}

	// 驗證會話設定
	switch config.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid session store: %s", config.Session.Store)
	}
	if config.Session.TTL <= 0 {
		return fmt.Errorf("invalid session ttl")
	}
	if config.Session.CleanupInterval <= 0 {
		return fmt.Errorf("invalid session cleanup interval")
	}
	if config.Session.MaxSessions <= 0 {
		return fmt.Errorf("invalid session max sessions")
	}

	// 驗證搜尋設定
	if config.Search.MaxResults <= 0 {
		return fmt.Errorf("invalid search max results")
	}
	if config.Search.RetrievalMultiplier < 1 {
		return fmt.Errorf("invalid search retrieval multiplier")
	}

	return nil
}
