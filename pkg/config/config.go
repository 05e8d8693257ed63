package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Board   BoardConfig   `json:"board"`
	Audio   AudioConfig   `json:"audio"`
	Logging LoggingConfig `json:"logging"`
}

type GatewayConfig struct {
	URL   string `json:"url" env:"BOARDLINK_GATEWAY_URL"`
	Token string `json:"token" env:"BOARDLINK_GATEWAY_TOKEN"`
	Room  string `json:"room" env:"BOARDLINK_GATEWAY_ROOM"`

	// Reconnect backoff bounds, in seconds.
	ReconnectMinSeconds int `json:"reconnect_min_seconds" env:"BOARDLINK_GATEWAY_RECONNECT_MIN_SECONDS"`
	ReconnectMaxSeconds int `json:"reconnect_max_seconds" env:"BOARDLINK_GATEWAY_RECONNECT_MAX_SECONDS"`
}

type BoardConfig struct {
	FocusClearSeconds int `json:"focus_clear_seconds" env:"BOARDLINK_BOARD_FOCUS_CLEAR_SECONDS"`
}

type AudioConfig struct {
	Bins      int `json:"bins" env:"BOARDLINK_AUDIO_BINS"`
	SampleHz  int `json:"sample_hz" env:"BOARDLINK_AUDIO_SAMPLE_HZ"`
	FrameSize int `json:"frame_size" env:"BOARDLINK_AUDIO_FRAME_SIZE"`
	RefreshHz int `json:"refresh_hz" env:"BOARDLINK_AUDIO_REFRESH_HZ"`
}

type LoggingConfig struct {
	Level       string `json:"level" env:"BOARDLINK_LOGGING_LEVEL"`
	FileEnabled bool   `json:"file_enabled" env:"BOARDLINK_LOGGING_FILE_ENABLED"`
	FilePath    string `json:"file_path" env:"BOARDLINK_LOGGING_FILE_PATH"`
}

func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			URL:                 "ws://localhost:7880/board",
			Room:                "classroom",
			ReconnectMinSeconds: 1,
			ReconnectMaxSeconds: 30,
		},
		Board: BoardConfig{
			FocusClearSeconds: 5,
		},
		Audio: AudioConfig{
			Bins:      32,
			SampleHz:  24000,
			FrameSize: 480,
			RefreshHz: 60,
		},
		Logging: LoggingConfig{
			Level:       "info",
			FileEnabled: false,
			FilePath:    "~/.boardlink/boardlink.log",
		},
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Env overrides still apply without a config file.
			if err := env.Parse(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) LogPath() string {
	return expandHome(c.Logging.FilePath)
}

func (c *Config) LogLevel() string {
	return strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
