package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the client configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL            string        `mapstructure:"base_url"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	RetryMaxAttempts  int           `mapstructure:"retry_max_attempts"`
	RetryDelaySeconds int64         `mapstructure:"retry_delay_seconds"`
	RetryDelay        time.Duration `mapstructure:"-"`

	SessionStoreType string `mapstructure:"session_store_type"`
	BBoltPath        string `mapstructure:"bbolt_path"`
	RoutesFile       string `mapstructure:"routes_file"`

	NotificationPageSize int `mapstructure:"notification_page_size"`
	QuoteFirstPageSize   int `mapstructure:"quote_first_page_size"`
	QuoteNextPageSize    int `mapstructure:"quote_next_page_size"`
	DefaultQuoteCategory int `mapstructure:"default_quote_category"`
	PrefetchWindow       int `mapstructure:"prefetch_window"`

	FirstPageRetryDelaySeconds int64         `mapstructure:"first_page_retry_delay_seconds"`
	FirstPageRetryDelay        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "haven-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("base_url", "https://harmonyhavenappserver.erdemserhat.com/")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_delay_seconds", 1)
	v.SetDefault("session_store_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/session.db")
	v.SetDefault("routes_file", "./configs/routes.yaml")
	v.SetDefault("notification_page_size", 20)
	v.SetDefault("quote_first_page_size", 100)
	v.SetDefault("quote_next_page_size", 10)
	v.SetDefault("default_quote_category", 21)
	v.SetDefault("prefetch_window", 3)
	v.SetDefault("first_page_retry_delay_seconds", 3)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base_url must not be empty")
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.RetryMaxAttempts <= 0 {
		return nil, fmt.Errorf("invalid retry_max_attempts (must be positive)")
	}
	if cfg.RetryDelaySeconds <= 0 {
		return nil, fmt.Errorf("invalid retry_delay_seconds (must be positive seconds)")
	}
	cfg.RetryDelay = time.Duration(cfg.RetryDelaySeconds) * time.Second

	if cfg.NotificationPageSize <= 0 || cfg.QuoteFirstPageSize <= 0 || cfg.QuoteNextPageSize <= 0 {
		return nil, fmt.Errorf("page sizes must be positive")
	}
	if cfg.PrefetchWindow <= 0 {
		return nil, fmt.Errorf("invalid prefetch_window (must be positive)")
	}
	if cfg.FirstPageRetryDelaySeconds <= 0 {
		return nil, fmt.Errorf("invalid first_page_retry_delay_seconds (must be positive seconds)")
	}
	cfg.FirstPageRetryDelay = time.Duration(cfg.FirstPageRetryDelaySeconds) * time.Second

	return &cfg, nil
}
