package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// StationsConfig restricts polling to explicit station names or ids.
type StationsConfig struct {
	Names []string `yaml:"names" json:"names"`
	IDs   []string `yaml:"ids" json:"ids"`
}

// Settings holds all service configuration. Values come from an
// optional YAML file; TTR_* environment variables take precedence.
type Settings struct {
	DBURL                  string         `yaml:"db_url" json:"db_url" validate:"required"`
	PollingIntervalSeconds int            `yaml:"polling_interval_seconds" json:"polling_interval_seconds" validate:"gt=0"`
	Stations               StationsConfig `yaml:"stations" json:"stations"`
	LogLevel               string         `yaml:"log_level" json:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Settings {
	return Settings{
		DBURL:                  "sqlite:///./data/reliability.db",
		PollingIntervalSeconds: 300,
		LogLevel:               "INFO",
	}
}

// Load reads settings from the YAML file at path (skipped when path is
// empty), applies environment overrides and validates the result.
// A non-empty path that does not exist is an error.
func Load(path string) (Settings, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)

	if err := validator.New().Struct(cfg); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Settings) {
	cfg.DBURL = getEnv("TTR_DB_URL", cfg.DBURL)
	cfg.PollingIntervalSeconds = getEnvInt("TTR_POLLING_INTERVAL_SECONDS", cfg.PollingIntervalSeconds)
	cfg.LogLevel = getEnv("TTR_LOG_LEVEL", cfg.LogLevel)

	if names := os.Getenv("TTR_STATION_NAMES"); names != "" {
		cfg.Stations.Names = SplitList(names)
	}
	if ids := os.Getenv("TTR_STATION_IDS"); ids != "" {
		cfg.Stations.IDs = SplitList(ids)
	}
}

// SplitList splits a comma-separated value, trimming whitespace and
// dropping empty entries.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
