package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Ensure no env vars interfere
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Server defaults
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.Server.AllowedOrigins) != 0 {
		t.Errorf("Server.AllowedOrigins = %v, want empty", cfg.Server.AllowedOrigins)
	}

	// Database defaults
	if cfg.Database.Path != "garage.db" {
		t.Errorf("Database.Path = %q, want garage.db", cfg.Database.Path)
	}
	if cfg.Database.BusyTimeout != 5*time.Second {
		t.Errorf("Database.BusyTimeout = %v, want 5s", cfg.Database.BusyTimeout)
	}

	// Log defaults
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}

	// Frontend default: static serving disabled
	if cfg.Frontend.Dir != "" {
		t.Errorf("Frontend.Dir = %q, want empty", cfg.Frontend.Dir)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "8090")
	t.Setenv("DATABASE_PATH", "/tmp/test-garage.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Errorf("Server.Port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test-garage.db" {
		t.Errorf("Database.Path = %q, want /tmp/test-garage.db", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:   ServerConfig{Port: 3000},
				Database: DatabaseConfig{Path: "garage.db"},
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
