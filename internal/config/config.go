package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Mood        MoodConfig                `json:"mood"`
}

type BasicConfig struct {
	ServerAddress        string `json:"server_address"`
	SessionRetentionDays int    `json:"session_retention_days"`
	SweepIntervalMinutes int    `json:"sweep_interval_minutes"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type MoodConfig struct {
	// Provider names the configured text-generation provider used for mood
	// analysis (openai, gemini or claude).
	Provider string `json:"provider"`
	// KeepOnAmbiguous keeps the current playlist when a turn carries neither
	// a positive nor a negative signal. Off by default: ambiguous turns
	// refresh, matching the historical behavior clients expect.
	KeepOnAmbiguous bool `json:"keep_on_ambiguous"`
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if len(cfg.Databases) == 0 {
		return nil, fmt.Errorf("at least one database must be configured")
	}

	// Resolve relative sqlite paths against the config file directory.
	for name, dbCfg := range cfg.Databases {
		if dbCfg.DSN == "" || dbCfg.DSN == ":memory:" || filepath.IsAbs(dbCfg.DSN) {
			continue
		}
		if name == "sqlite" || name == "sqlite3" {
			dbCfg.DSN = filepath.Join(filepath.Dir(absPath), dbCfg.DSN)
			cfg.Databases[name] = dbCfg
		}
	}

	return &cfg, nil
}
