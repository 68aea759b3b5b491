// Package config provides configuration management for the Pitwall application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Scoring     ScoringConfig     `mapstructure:"scoring" validate:"required"`
	Calendar    CalendarConfig    `mapstructure:"calendar" validate:"required"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	Features    FeaturesConfig    `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	AdminSecret         string `mapstructure:"admin_secret" validate:"required"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds" validate:"required,gt=0"`
}

// ScoringConfig represents scoring aggregator configuration
type ScoringConfig struct {
	RescoreCron       string `mapstructure:"rescore_cron" validate:"required"`
	RescoreWindowDays int    `mapstructure:"rescore_window_days" validate:"required,gt=0"`
}

// CalendarConfig represents the external race calendar API configuration
type CalendarConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key"`
	SeasonYear     int     `mapstructure:"season_year" validate:"required,gt=1949"`
	SyncCron       string  `mapstructure:"sync_cron" validate:"required"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
}

// LeaderboardConfig represents leaderboard caching configuration
type LeaderboardConfig struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig represents AWS X-Ray tracing configuration
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	DaemonAddr   string  `mapstructure:"daemon_addr"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	LiveUpdatesEnabled   bool `mapstructure:"live_updates_enabled"`
	CalendarSyncEnabled  bool `mapstructure:"calendar_sync_enabled"`
	AutoRescoringEnabled bool `mapstructure:"auto_rescoring_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
