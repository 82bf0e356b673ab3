package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/archreview/internal/models"
)

func TestParseHostPort(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    models.HostConfig
		wantErr bool
	}{
		{name: "plain", in: "localhost:1234", want: models.HostConfig{Host: "localhost", Port: 1234}},
		{name: "scheme and v1", in: "http://10.0.0.5:8080/v1", want: models.HostConfig{Host: "10.0.0.5", Port: 8080}},
		{name: "ipv6", in: "[::1]:1234", want: models.HostConfig{Host: "::1", Port: 1234}},
		{name: "missing port", in: "localhost", wantErr: true},
		{name: "bad port", in: "localhost:abc", wantErr: true},
		{name: "port out of range", in: "localhost:70000", wantErr: true},
		{name: "empty host", in: ":1234", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHostPort(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, models.KindConfig, models.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory(FactoryConfig{GoogleAPIKey: "k", DefaultHost: "localhost:1234"})

	c, err := f.Create(models.ProviderCloud, nil)
	require.NoError(t, err)
	assert.IsType(t, &GeminiClient{}, c)

	c, err = f.Create(models.ProviderLocal, nil)
	require.NoError(t, err)
	require.IsType(t, &LMStudioClient{}, c)
	assert.Equal(t, "http://localhost:1234/v1", c.(*LMStudioClient).BaseURL)

	c, err = f.Create(models.ProviderLocal, &models.HostConfig{Host: "gpu-box", Port: 9000})
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:9000/v1", c.(*LMStudioClient).BaseURL)
}

func TestFactoryCreateConfigErrors(t *testing.T) {
	f := NewFactory(FactoryConfig{})

	_, err := f.Create(models.ProviderCloud, nil)
	assert.Equal(t, models.KindConfig, models.KindOf(err))

	_, err = f.Create(models.ProviderLocal, nil)
	assert.Equal(t, models.KindConfig, models.KindOf(err))

	_, err = f.Create(models.ProviderLocal, &models.HostConfig{Host: "localhost", Port: 0})
	assert.Equal(t, models.KindConfig, models.KindOf(err))

	_, err = f.Create(models.ProviderLocal, &models.HostConfig{Port: 1234})
	assert.Equal(t, models.KindConfig, models.KindOf(err))

	_, err = f.Create(models.Provider("openai"), nil)
	assert.Equal(t, models.KindConfig, models.KindOf(err))
}
