// Package config loads the global canexec settings.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// GlobalConfig holds settings from ~/.canexec/config.yaml.
type GlobalConfig struct {
	Engine EngineConfig `yaml:"engine"`
	Exec   ExecConfig   `yaml:"exec"`
	Debug  DebugConfig  `yaml:"debug"`
}

// EngineConfig selects the container engine endpoint.
type EngineConfig struct {
	// Host is a Docker host URL (unix://..., tcp://...). Empty means the
	// platform default.
	Host string `yaml:"host"`
}

// ExecConfig tunes exec sessions.
type ExecConfig struct {
	// FirstChunkTimeout bounds the wait for the first output chunk.
	// Zero waits indefinitely.
	FirstChunkTimeout time.Duration `yaml:"first_chunk_timeout"`
}

// DebugConfig controls the debug log files.
type DebugConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

// DefaultGlobalConfig returns the default global configuration.
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Debug: DebugConfig{
			RetentionDays: 14,
		},
	}
}

// LoadGlobal reads ~/.canexec/config.yaml and applies environment overrides.
func LoadGlobal() (*GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	configPath := filepath.Join(GlobalConfigDir(), "config.yaml")
	if data, err := os.ReadFile(configPath); err == nil {
		_ = yaml.Unmarshal(data, cfg) // Ignore unmarshal errors, use defaults
	}

	if host := os.Getenv("CANEXEC_ENGINE_HOST"); host != "" {
		cfg.Engine.Host = host
	}

	return cfg, nil
}

// GlobalConfigDir returns the path to ~/.canexec.
func GlobalConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".canexec")
	}
	return filepath.Join(homeDir, ".canexec")
}
