package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines engine configuration.
type Config struct {
	DB     DBConfig     `yaml:"db"`
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
	Engine EngineConfig `yaml:"engine"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type EngineConfig struct {
	ReconcileIntervalMinutes int `yaml:"reconcile_interval_minutes"`
	HeartbeatSeconds         int `yaml:"heartbeat_seconds"`
	DebounceSeconds          int `yaml:"debounce_seconds"`
}

// Load reads configuration from an optional YAML file and environment
// variables.
func Load() (Config, error) {
	cfg := Config{
		DB: DBConfig{
			Path: "studytrack.db",
		},
		HTTP: HTTPConfig{
			Addr: ":9190",
		},
		Log: LogConfig{
			Level: "info",
		},
		Engine: EngineConfig{
			ReconcileIntervalMinutes: 30,
			HeartbeatSeconds:         1,
			DebounceSeconds:          2,
		},
	}

	if path := os.Getenv("STUDYTRACK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if dbPath := os.Getenv("STUDYTRACK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if addr := os.Getenv("STUDYTRACK_HTTP_ADDR"); addr != "" {
		cfg.HTTP.Addr = addr
	}
	if level := os.Getenv("STUDYTRACK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if raw := os.Getenv("STUDYTRACK_RECONCILE_INTERVAL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("invalid STUDYTRACK_RECONCILE_INTERVAL_MINUTES: %q", raw)
		}
		cfg.Engine.ReconcileIntervalMinutes = minutes
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
