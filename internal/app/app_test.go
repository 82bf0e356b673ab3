package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/example/archreview/internal/config"
	"github.com/example/archreview/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() *config.Config {
	return &config.Config{
		LocalHost:             "127.0.0.1:1",
		Addr:                  "127.0.0.1:0",
		RequestTimeoutSeconds: 1,
		LocalTimeoutSeconds:   1,
		MaxPlanBytes:          1000,
		MaxUploadBytes:        1 << 20,
		CloudModels:           []string{"gemini-2.5-flash", "gemini-2.5-pro"},
		DefaultCloudModel:     "gemini-2.5-pro",
		CORSOrigins:           []string{"*"},
	}
}

func TestServeUntilCancelled(t *testing.T) {
	srv := NewHTTPServer(testConfig(), zap.NewNop())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveOn(ctx, srv, ln, zap.NewNop()) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestOrchestratorWithoutAPIKey(t *testing.T) {
	o := NewOrchestrator(testConfig(), zap.NewNop())
	res := o.Analyze(context.Background(), models.AnalysisRequest{PlanText: "plan", Provider: models.ProviderCloud})
	assert.Equal(t, models.KindConfig, res.Error.Kind)
	assert.Contains(t, res.Error.Message, "GOOGLE_API_KEY")
}
