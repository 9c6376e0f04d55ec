// Package config provides configuration management for the garage API.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like SERVER_PORT, DATABASE_PATH)
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Frontend FrontendConfig `mapstructure:"frontend"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// AllowedOrigins configures CORS. Empty means allow all origins,
	// matching the open API surface the browser front end expects.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains SQLite settings. The store is a single file
// owned by this process; one shared handle serves all repositories.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`

	// BusyTimeout is passed to SQLite so writers back off instead of
	// failing immediately when the file is locked.
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// FrontendConfig controls static asset serving for the bundled SPA.
type FrontendConfig struct {
	// Dir is the directory served at /. Empty disables static serving;
	// the JSON API is unaffected either way.
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/grandauto-garage")

	// Environment variable override without prefix: SERVER_PORT,
	// DATABASE_PATH, LOG_LEVEL, FRONTEND_DIR.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{})

	// Database
	v.SetDefault("database.path", "garage.db")
	v.SetDefault("database.busy_timeout", "5s")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Frontend
	v.SetDefault("frontend.dir", "")
}
