package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Models     ModelsConfig     `mapstructure:"models"`
	Store      StoreConfig      `mapstructure:"store"`
	Search     SearchConfig     `mapstructure:"search"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Persona    PersonaConfig    `mapstructure:"persona"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	I18n       I18nConfig       `mapstructure:"i18n"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type ModelsConfig struct {
	Default   string          `mapstructure:"default"`
	Endpoints []ModelEndpoint `mapstructure:"endpoints"`
}

type ModelEndpoint struct {
	Name    string      `mapstructure:"name"`
	BaseURL string      `mapstructure:"base_url"`
	APIKey  string      `mapstructure:"api_key"`
	Models  []ModelInfo `mapstructure:"models"`
}

type ModelInfo struct {
	ID        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

type StoreConfig struct {
	Type  string      `mapstructure:"type"` // "redis" or "rest"
	Redis RedisConfig `mapstructure:"redis"`
	Rest  RestConfig  `mapstructure:"rest"`
	Local LocalConfig `mapstructure:"local"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RestConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LocalConfig struct {
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type SearchConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Depth      string `mapstructure:"depth"`
	MaxResults int    `mapstructure:"max_results"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

type PersonaConfig struct {
	Name         string `mapstructure:"name"`
	SystemPrompt string `mapstructure:"system_prompt"`
	MaxMessages  int    `mapstructure:"max_messages"`
}

type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	Output string     `mapstructure:"output"`
	File   FileConfig `mapstructure:"file"`
}

type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MonitoringConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

type I18nConfig struct {
	DefaultLanguage string   `mapstructure:"default_language"`
	Languages       []string `mapstructure:"languages"`
	Directory       string   `mapstructure:"directory"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	viper.BindEnv("store.redis.password", "REDIS_PASSWORD")
	viper.BindEnv("store.redis.db", "REDIS_DB")
	viper.BindEnv("store.rest.base_url", "KV_REST_URL")
	viper.BindEnv("store.rest.token", "KV_REST_TOKEN")
	viper.BindEnv("search.api_key", "SEARCH_API_KEY")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Redis host/port may arrive as separate env vars
	if redisHost := viper.GetString("REDIS_HOST"); redisHost != "" {
		redisPort := viper.GetString("REDIS_PORT")
		if redisPort == "" {
			redisPort = "6379"
		}
		config.Store.Redis.Addr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}

	// LLM endpoint credentials from environment
	if apiKey := viper.GetString("LLM_API_KEY"); apiKey != "" {
		for i := range config.Models.Endpoints {
			if config.Models.Endpoints[i].APIKey == "" {
				config.Models.Endpoints[i].APIKey = apiKey
			}
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	switch cfg.Store.Type {
	case "redis":
		if cfg.Store.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for redis store")
		}
	case "rest":
		if cfg.Store.Rest.BaseURL == "" {
			return fmt.Errorf("rest base_url is required for rest store")
		}
	default:
		return fmt.Errorf("unsupported store type: %s", cfg.Store.Type)
	}
	if len(cfg.Models.Endpoints) == 0 {
		return fmt.Errorf("at least one model endpoint is required")
	}
	return nil
}
