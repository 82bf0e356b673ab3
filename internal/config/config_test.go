package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/archreview/internal/models"
)

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GOOGLE_API_KEY", "ARCHREVIEW_LOCAL_HOST", "ARCHREVIEW_ADDR", "PORT",
		"ARCHREVIEW_REQUEST_TIMEOUT_SECONDS", "ARCHREVIEW_LOCAL_TIMEOUT_SECONDS",
		"ARCHREVIEW_MAX_PLAN_BYTES", "ARCHREVIEW_MAX_UPLOAD_BYTES", "ARCHREVIEW_CLOUD_MODELS", "ARCHREVIEW_DEFAULT_CLOUD_MODEL",
		"ARCHREVIEW_CORS_ORIGINS", "ARCHREVIEW_LOG_LEVEL", "ARCHREVIEW_LOG_FORMAT",
	} {
		t.Setenv(k, "")
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_WithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GoogleAPIKey)
	assert.Equal(t, "localhost:1234", cfg.LocalHost)
	assert.Equal(t, ":7860", cfg.Addr)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 60*time.Second, cfg.LocalTimeout())
	assert.Equal(t, 50000, cfg.MaxPlanBytes)
	assert.Equal(t, 10<<20, cfg.MaxUploadBytes)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.5-pro"}, cfg.CloudModels)
	assert.Equal(t, "gemini-2.5-pro", cfg.DefaultCloudModel)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_ValidConfiguration(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", " key ")
	t.Setenv("ARCHREVIEW_LOCAL_HOST", "10.0.0.5:8080")
	t.Setenv("PORT", "9000")
	t.Setenv("ARCHREVIEW_REQUEST_TIMEOUT_SECONDS", "30")
	t.Setenv("ARCHREVIEW_CLOUD_MODELS", "gemini-2.5-pro, ,gemini-2.0-flash")
	t.Setenv("ARCHREVIEW_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("ARCHREVIEW_LOG_LEVEL", "DEBUG")
	t.Setenv("ARCHREVIEW_LOG_FORMAT", "console")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.GoogleAPIKey)
	assert.Equal(t, "10.0.0.5:8080", cfg.LocalHost)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, []string{"gemini-2.5-pro", "gemini-2.0-flash"}, cfg.CloudModels)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_AddrBeatsPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ARCHREVIEW_ADDR", "127.0.0.1:8000")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8000", cfg.Addr)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("GOOGLE_API_KEY")
	os.Unsetenv("ARCHREVIEW_LOCAL_HOST")
	t.Setenv("ARCHREVIEW_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GOOGLE_API_KEY=from-file\nARCHREVIEW_LOCAL_HOST=lm:4321\nARCHREVIEW_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("GOOGLE_API_KEY")
		os.Unsetenv("ARCHREVIEW_LOCAL_HOST")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GoogleAPIKey)
	assert.Equal(t, "lm:4321", cfg.LocalHost)
	// already set in the environment
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{"timeout not int", "ARCHREVIEW_REQUEST_TIMEOUT_SECONDS", "soon", "must be a valid integer"},
		{"timeout too large", "ARCHREVIEW_REQUEST_TIMEOUT_SECONDS", "601", "must be between 1 and 600"},
		{"timeout zero", "ARCHREVIEW_LOCAL_TIMEOUT_SECONDS", "0", "must be between"},
		{"log format", "ARCHREVIEW_LOG_FORMAT", "xml", "ARCHREVIEW_LOG_FORMAT must be one of"},
		{"log level", "ARCHREVIEW_LOG_LEVEL", "trace", "ARCHREVIEW_LOG_LEVEL must be one of"},
		{"local host", "ARCHREVIEW_LOCAL_HOST", "localhost", "ARCHREVIEW_LOCAL_HOST is invalid"},
		{"upload smaller than plan", "ARCHREVIEW_MAX_UPLOAD_BYTES", "100", "must not be smaller"},
		{"no cloud models", "ARCHREVIEW_CLOUD_MODELS", " , ", "at least one model"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(noEnvFile(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Equal(t, models.KindConfig, models.KindOf(err))
		})
	}
}
