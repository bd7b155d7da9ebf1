// Package config provides configuration management for the deck ranker.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/deck-ranker/internal/winrate"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Ranking   RankingConfig   `mapstructure:"ranking" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
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
	EnsureSchema       bool   `mapstructure:"ensure_schema"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
	RateLimitPerSecond  float64  `mapstructure:"rate_limit_per_second" validate:"gte=0"`
	RateLimitBurst      int      `mapstructure:"rate_limit_burst" validate:"gte=0"`
	HealthPort          int      `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// RankingConfig holds engine defaults applied when a request omits them
type RankingConfig struct {
	Sensitivity     float64 `mapstructure:"sensitivity" validate:"required,gte=1,lte=100"`
	PriorWeight     float64 `mapstructure:"prior_weight" validate:"gte=0"`
	MinValidMatches int     `mapstructure:"min_valid_matches" validate:"gte=0"`
	SparsePolicy    string  `mapstructure:"sparse_policy" validate:"required,sparsepolicy"`
}

// CacheConfig represents the ranking result cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// SchedulerConfig represents the periodic ranking recompute
type SchedulerConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	RecomputeCron  string  `mapstructure:"recompute_cron" validate:"omitempty,cronspec"`
	EnvironmentIDs []int64 `mapstructure:"environment_ids"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SecretsConfig points at an optional AWS Secrets Manager secret
type SecretsConfig struct {
	AWSRegion  string `mapstructure:"aws_region"`
	SecretName string `mapstructure:"secret_name"`
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

// GetServerAddress returns the listen address of the API server
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// GetCacheTTL returns the cache TTL as a duration
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// UsesSecretsManager reports whether secrets should be fetched from AWS
func (c *Config) UsesSecretsManager() bool {
	return c.Secrets.AWSRegion != "" && c.Secrets.SecretName != ""
}

// EngineConfig converts the ranking section into engine parameters
func (c *Config) EngineConfig() (winrate.Config, error) {
	policy, err := winrate.ParseSparsePolicy(c.Ranking.SparsePolicy)
	if err != nil {
		return winrate.Config{}, err
	}
	engineCfg := winrate.Config{
		Sensitivity:     c.Ranking.Sensitivity,
		PriorWeight:     c.Ranking.PriorWeight,
		MinValidMatches: c.Ranking.MinValidMatches,
		Policy:          policy,
	}
	return engineCfg, engineCfg.Validate()
}
