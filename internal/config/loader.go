package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "stride.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "STRIDE_PORT")
	setString(&cfg.Server.CORSOrigin, "STRIDE_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "STRIDE_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "STRIDE_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "STRIDE_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "STRIDE_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "STRIDE_PG_HEALTH_CHECK")
	setString(&cfg.LLM.URL, "STRIDE_LLM_URL")
	setString(&cfg.LLM.APIKey, "STRIDE_LLM_API_KEY")
	setString(&cfg.LLM.Model, "STRIDE_LLM_MODEL")
	setInt(&cfg.LLM.MaxTokens, "STRIDE_LLM_MAX_TOKENS")
	setDuration(&cfg.LLM.Timeout, "STRIDE_LLM_TIMEOUT")
	setString(&cfg.Logging.Level, "STRIDE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "STRIDE_LOG_SERVICE")
	setInt(&cfg.Breaker.MaxFailures, "STRIDE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "STRIDE_BREAKER_TIMEOUT")
	setInt(&cfg.Analytics.DefaultWindowDays, "STRIDE_ANALYTICS_DEFAULT_WINDOW")
	setInt(&cfg.Analytics.MaxWindowDays, "STRIDE_ANALYTICS_MAX_WINDOW")
	setInt(&cfg.Analytics.PatternLookbackDays, "STRIDE_ANALYTICS_PATTERN_LOOKBACK")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Analytics.MinWindowDays < 1 {
		return errors.New("analytics.min_window_days must be >= 1")
	}
	if cfg.Analytics.MaxWindowDays < cfg.Analytics.MinTrendWindowDays {
		return errors.New("analytics.max_window_days must cover at least one trend week")
	}
	if cfg.Analytics.DefaultWindowDays < cfg.Analytics.MinWindowDays || cfg.Analytics.DefaultWindowDays > cfg.Analytics.MaxWindowDays {
		return errors.New("analytics.default_window_days must fall inside the window bounds")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
