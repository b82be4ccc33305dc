// Package config loads the editor-core configuration from an optional YAML
// file, with environment overrides for anything deploy-specific. Secrets are
// never read from the file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/peiassist/backend/internal/platform/envutil"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Model    ModelConfig    `yaml:"model"`
	Storage  StorageConfig  `yaml:"storage"`
	Autosave AutosaveConfig `yaml:"autosave"`
}

type ServerConfig struct {
	// Port the local collaborator surface listens on.
	Port int `yaml:"port"`
	// Mode is the logger/gin mode ("development" or "production").
	Mode string `yaml:"mode"`
}

type ModelConfig struct {
	// Endpoint is the OpenAI-compatible base URL.
	Endpoint string `yaml:"endpoint"`
	// Name is the chat model id.
	Name string `yaml:"name"`
	// Temperature controls randomness.
	Temperature float64 `yaml:"temperature"`
	// MaxTokens caps a single completion.
	MaxTokens int `yaml:"max_tokens"`
	// Timeout bounds one outbound call at the transport level.
	Timeout time.Duration `yaml:"timeout"`
	// MinRequestSpacing is the minimum start-to-start delay between calls.
	MinRequestSpacing time.Duration `yaml:"min_request_spacing"`
}

type StorageConfig struct {
	// Path is the device-local sqlite database file.
	Path string `yaml:"path"`
}

type AutosaveConfig struct {
	// Interval between reconciler cycles.
	Interval time.Duration `yaml:"interval"`
	// SavedHold is how long the "saved" status is shown before returning to idle.
	SavedHold time.Duration `yaml:"saved_hold"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port: 8787,
			Mode: "development",
		},
		Model: ModelConfig{
			Endpoint:          "https://api.groq.com/openai/v1",
			Name:              "llama-3.3-70b-versatile",
			Temperature:       0.7,
			MaxTokens:         4096,
			Timeout:           60 * time.Second,
			MinRequestSpacing: time.Second,
		},
		Storage: StorageConfig{
			Path: "pei-assistant.db",
		},
		Autosave: AutosaveConfig{
			Interval:  5 * time.Second,
			SavedHold: 2 * time.Second,
		},
	}
}

// Load reads the config file at path (defaults apply when the file is absent)
// and then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Server.Port = envutil.Int("PORT", cfg.Server.Port)
	cfg.Server.Mode = envutil.String("LOG_MODE", cfg.Server.Mode)
	cfg.Model.Endpoint = envutil.String("GROQ_BASE_URL", cfg.Model.Endpoint)
	cfg.Model.Name = envutil.String("GROQ_MODEL", cfg.Model.Name)
	cfg.Model.Timeout = envutil.Duration("GROQ_TIMEOUT", cfg.Model.Timeout)
	cfg.Model.MinRequestSpacing = envutil.Duration("AI_MIN_REQUEST_SPACING", cfg.Model.MinRequestSpacing)
	cfg.Storage.Path = envutil.String("PEI_DB_PATH", cfg.Storage.Path)
	cfg.Autosave.Interval = envutil.Duration("AUTOSAVE_INTERVAL", cfg.Autosave.Interval)
	cfg.Autosave.SavedHold = envutil.Duration("AUTOSAVE_SAVED_HOLD", cfg.Autosave.SavedHold)

	return cfg, nil
}
