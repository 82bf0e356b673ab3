package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/archreview/internal/models"
	"github.com/example/archreview/internal/providers/llm"
)

var (
	validLogFormats = []string{"json", "console"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
)

type Config struct {
	GoogleAPIKey          string
	LocalHost             string
	Addr                  string
	RequestTimeoutSeconds int
	LocalTimeoutSeconds   int
	MaxPlanBytes          int
	MaxUploadBytes        int
	CloudModels           []string
	DefaultCloudModel     string
	CORSOrigins           []string
	LogLevel              string
	LogFormat             string
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) LocalTimeout() time.Duration {
	return time.Duration(c.LocalTimeoutSeconds) * time.Second
}

// Load reads .env files (if present) and then the environment. Variables
// already set in the environment take precedence over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, configError(fmt.Sprintf("cannot read %s", f), err)
		}
	}

	requestTimeout, err := parseIntEnvOrDefault("ARCHREVIEW_REQUEST_TIMEOUT_SECONDS", 60, 1, 600)
	if err != nil {
		return nil, err
	}
	localTimeout, err := parseIntEnvOrDefault("ARCHREVIEW_LOCAL_TIMEOUT_SECONDS", 60, 1, 600)
	if err != nil {
		return nil, err
	}
	maxPlan, err := parseIntEnvOrDefault("ARCHREVIEW_MAX_PLAN_BYTES", 50000, 1, 10<<20)
	if err != nil {
		return nil, err
	}
	maxUpload, err := parseIntEnvOrDefault("ARCHREVIEW_MAX_UPLOAD_BYTES", 10<<20, 1, 100<<20)
	if err != nil {
		return nil, err
	}

	addr := os.Getenv("ARCHREVIEW_ADDR")
	if addr == "" {
		addr = ":7860"
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		}
	}

	cfg := &Config{
		GoogleAPIKey:          strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		LocalHost:             getEnvOrDefault("ARCHREVIEW_LOCAL_HOST", "localhost:1234"),
		Addr:                  addr,
		RequestTimeoutSeconds: requestTimeout,
		LocalTimeoutSeconds:   localTimeout,
		MaxPlanBytes:          maxPlan,
		MaxUploadBytes:        maxUpload,
		CloudModels:           splitAndTrim(getEnvOrDefault("ARCHREVIEW_CLOUD_MODELS", "gemini-2.5-flash,gemini-2.5-pro")),
		DefaultCloudModel:     getEnvOrDefault("ARCHREVIEW_DEFAULT_CLOUD_MODEL", "gemini-2.5-pro"),
		CORSOrigins:           splitAndTrim(getEnvOrDefault("ARCHREVIEW_CORS_ORIGINS", "*")),
		LogLevel:              strings.ToLower(getEnvOrDefault("ARCHREVIEW_LOG_LEVEL", "info")),
		LogFormat:             strings.ToLower(getEnvOrDefault("ARCHREVIEW_LOG_FORMAT", "json")),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configError(msg string, err error) error {
	return models.NewError(models.KindConfig, msg, err)
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return defaultVal
}

// parseIntEnvOrDefault parses an integer environment variable with range validation or returns a default value if not set
func parseIntEnvOrDefault(key string, defaultVal, min, max int) (int, error) {
	str, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(str) == "" {
		return defaultVal, nil
	}

	val, err := strconv.Atoi(strings.TrimSpace(str))
	if err != nil {
		return 0, configError(fmt.Sprintf("%s must be a valid integer, got: %s", key, str), nil)
	}
	if val < min || val > max {
		return 0, configError(fmt.Sprintf("%s must be between %d and %d, got: %d", key, min, max, val), nil)
	}
	return val, nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func validateConfig(cfg *Config) error {
	if !slices.Contains(validLogFormats, cfg.LogFormat) {
		return configError(fmt.Sprintf("ARCHREVIEW_LOG_FORMAT must be one of: %v; got: %s", validLogFormats, cfg.LogFormat), nil)
	}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		return configError(fmt.Sprintf("ARCHREVIEW_LOG_LEVEL must be one of: %v; got: %s", validLogLevels, cfg.LogLevel), nil)
	}
	if _, err := llm.ParseHostPort(cfg.LocalHost); err != nil {
		return configError("ARCHREVIEW_LOCAL_HOST is invalid", err)
	}
	if len(cfg.CloudModels) == 0 {
		return configError("ARCHREVIEW_CLOUD_MODELS must list at least one model", nil)
	}
	if cfg.MaxUploadBytes < cfg.MaxPlanBytes {
		return configError(fmt.Sprintf("ARCHREVIEW_MAX_UPLOAD_BYTES (%d) must not be smaller than ARCHREVIEW_MAX_PLAN_BYTES (%d)",
			cfg.MaxUploadBytes, cfg.MaxPlanBytes), nil)
	}
	return nil
}
