// Package app wires configuration into the orchestrator and HTTP server.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/archreview/internal/analysis"
	"github.com/example/archreview/internal/api"
	"github.com/example/archreview/internal/config"
	"github.com/example/archreview/internal/orchestrator"
	"github.com/example/archreview/internal/providers/llm"
)

const shutdownGrace = 10 * time.Second

// NewOrchestrator builds the provider factory and orchestrator for cfg.
func NewOrchestrator(cfg *config.Config, log *zap.Logger) *orchestrator.Orchestrator {
	factory := llm.NewFactory(llm.FactoryConfig{
		GoogleAPIKey: cfg.GoogleAPIKey,
		DefaultHost:  cfg.LocalHost,
		LocalTimeout: cfg.LocalTimeout(),
		LocalSchema:  analysis.ResponseSchema(),
	})
	return orchestrator.New(factory, orchestrator.Config{
		RequestTimeout:    cfg.RequestTimeout(),
		MaxPlanBytes:      cfg.MaxPlanBytes,
		CloudModels:       cfg.CloudModels,
		DefaultCloudModel: cfg.DefaultCloudModel,
	}, log)
}

func NewHTTPServer(cfg *config.Config, log *zap.Logger) *http.Server {
	srv := api.NewServer(NewOrchestrator(cfg, log), api.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
		CloudModels:    cfg.CloudModels,
		DefaultModel:   cfg.DefaultCloudModel,
		DefaultHost:    cfg.LocalHost,
	}, log)
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// analyses may take up to the request timeout plus rendering
		WriteTimeout: cfg.RequestTimeout() + 30*time.Second,
		ErrorLog:     zap.NewStdLog(log.Named("http")),
	}
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	srv := NewHTTPServer(cfg, log)
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return serveOn(ctx, srv, ln, log)
}

func serveOn(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server.listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		log.Info("server.shutdown")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
