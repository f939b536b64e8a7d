package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type TelegramConfig struct {
	Token     string   `json:"token" env:"VOICEFORGE_TELEGRAM_TOKEN"`
	Proxy     string   `json:"proxy" env:"VOICEFORGE_TELEGRAM_PROXY"`
	AllowFrom []string `json:"allow_from" env:"VOICEFORGE_TELEGRAM_ALLOW_FROM"`
}

type ElevenLabsConfig struct {
	APIKey  string `json:"api_key" env:"VOICEFORGE_ELEVENLABS_API_KEY"`
	BaseURL string `json:"base_url" env:"VOICEFORGE_ELEVENLABS_BASE_URL"`
}

type StorageConfig struct {
	Path string `json:"path" env:"VOICEFORGE_STORAGE_PATH"`
}

type Config struct {
	Telegram   TelegramConfig   `json:"telegram"`
	ElevenLabs ElevenLabsConfig `json:"elevenlabs"`
	Storage    StorageConfig    `json:"storage"`
	LogFile    string           `json:"log_file" env:"VOICEFORGE_LOG_FILE"`
}

func DefaultConfig() *Config {
	return &Config{
		ElevenLabs: ElevenLabsConfig{
			BaseURL: "https://api.elevenlabs.io/v1",
		},
		Storage: StorageConfig{
			Path: "voiceforge.db",
		},
	}
}

// LoadConfig reads the JSON config at path (missing file falls back to
// defaults) and overlays environment variables on top.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first missing required value. The transport token and
// the provider key have no workable defaults, so startup stops without them.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required (VOICEFORGE_TELEGRAM_TOKEN)")
	}
	if c.ElevenLabs.APIKey == "" {
		return fmt.Errorf("elevenlabs api key is required (VOICEFORGE_ELEVENLABS_API_KEY)")
	}
	if c.ElevenLabs.BaseURL == "" {
		return fmt.Errorf("elevenlabs base url is required")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}
	return nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0o600)
}
