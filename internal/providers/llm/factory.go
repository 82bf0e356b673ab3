package llm

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"

	"github.com/example/archreview/internal/models"
)

const defaultTimeout = 45 * time.Second

// FactoryConfig is the read-only configuration the factory builds clients from.
type FactoryConfig struct {
	GoogleAPIKey  string
	DefaultHost   string
	LocalTimeout  time.Duration
	LocalSchema   map[string]any
	GeminiOptions []option.ClientOption
}

// Factory constructs provider clients. Create performs no I/O.
type Factory struct {
	cfg FactoryConfig
}

func NewFactory(cfg FactoryConfig) *Factory {
	return &Factory{cfg: cfg}
}

// Create returns the client for provider. host is only used by the local
// provider; nil means the configured default host.
func (f *Factory) Create(provider models.Provider, host *models.HostConfig) (Client, error) {
	switch provider {
	case models.ProviderCloud:
		if strings.TrimSpace(f.cfg.GoogleAPIKey) == "" {
			return nil, models.NewError(models.KindConfig, "Google GenAI client not configured; set GOOGLE_API_KEY", nil)
		}
		return NewGeminiClient(f.cfg.GoogleAPIKey, f.cfg.GeminiOptions...), nil
	case models.ProviderLocal:
		hc, err := f.resolveHost(host)
		if err != nil {
			return nil, err
		}
		return NewLMStudioClient(hc.String(), f.cfg.LocalTimeout, f.cfg.LocalSchema), nil
	}
	return nil, models.NewError(models.KindConfig, fmt.Sprintf("unsupported provider %q", provider), nil)
}

func (f *Factory) resolveHost(host *models.HostConfig) (models.HostConfig, error) {
	if host == nil {
		if f.cfg.DefaultHost == "" {
			return models.HostConfig{}, models.NewError(models.KindConfig, "local provider requires host:port", nil)
		}
		return ParseHostPort(f.cfg.DefaultHost)
	}
	if err := checkHost(*host); err != nil {
		return models.HostConfig{}, err
	}
	return *host, nil
}

// ParseHostPort parses "host:port". A leading scheme and a trailing /v1 are
// tolerated since users often paste the server's base URL.
func ParseHostPort(s string) (models.HostConfig, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "http://"), "https://")
	raw = strings.TrimSuffix(strings.TrimSuffix(raw, "/"), "/v1")
	h, p, err := net.SplitHostPort(raw)
	if err != nil {
		return models.HostConfig{}, models.NewError(models.KindConfig, fmt.Sprintf("host must be host:port, got %q", s), err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return models.HostConfig{}, models.NewError(models.KindConfig, fmt.Sprintf("port must be a number, got %q", p), err)
	}
	hc := models.HostConfig{Host: h, Port: port}
	if err := checkHost(hc); err != nil {
		return models.HostConfig{}, err
	}
	return hc, nil
}

func checkHost(hc models.HostConfig) error {
	if strings.TrimSpace(hc.Host) == "" || strings.ContainsAny(hc.Host, "/ ") {
		return models.NewError(models.KindConfig, fmt.Sprintf("invalid host %q", hc.Host), nil)
	}
	if hc.Port < 1 || hc.Port > 65535 {
		return models.NewError(models.KindConfig, fmt.Sprintf("port must be between 1 and 65535, got %d", hc.Port), nil)
	}
	return nil
}
