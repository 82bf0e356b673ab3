package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/archreview/internal/analysis"
	"github.com/example/archreview/internal/models"
	"github.com/example/archreview/internal/providers/llm"
)

// FallbackLocalModel is offered when the local server cannot list its models.
const FallbackLocalModel = "local-model"

type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateDispatching      State = "dispatching"
	StateAwaitingResponse State = "awaiting_response"
	StateFormatting       State = "formatting"
	StateDone             State = "done"
)

// Observer is told about every state a request enters.
type Observer func(requestID string, s State)

// ClientFactory is satisfied by *llm.Factory.
type ClientFactory interface {
	Create(provider models.Provider, host *models.HostConfig) (llm.Client, error)
}

type Config struct {
	RequestTimeout    time.Duration
	MaxPlanBytes      int
	CloudModels       []string
	DefaultCloudModel string
}

type Orchestrator struct {
	factory  ClientFactory
	cfg      Config
	log      *zap.Logger
	observer Observer
}

func New(factory ClientFactory, cfg Config, log *zap.Logger) *Orchestrator {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{factory: factory, cfg: cfg, log: log}
}

// WithObserver returns a copy of o that reports state transitions to obs.
func (o *Orchestrator) WithObserver(obs Observer) *Orchestrator {
	cp := *o
	cp.observer = obs
	return &cp
}

func (o *Orchestrator) enter(id string, s State) {
	o.log.Debug("analysis.state", zap.String("request_id", id), zap.String("state", string(s)))
	if o.observer != nil {
		o.observer(id, s)
	}
}

// Analyze runs one request to completion. It never returns a partial result:
// the Result is either a success carrying feedback or a typed failure.
func (o *Orchestrator) Analyze(ctx context.Context, req models.AnalysisRequest) models.Result {
	id := uuid.NewString()
	start := time.Now()
	log := o.log.With(zap.String("request_id", id), zap.String("provider", string(req.Provider)))
	log.Info("analysis.start", zap.Int("plan_bytes", len(req.PlanText)), zap.String("model", req.Model))

	feedback, model, err := o.run(ctx, id, req)

	var res models.Result
	if err != nil {
		res = models.Failed(err)
	} else {
		res = models.Succeeded(feedback)
	}
	res.RequestID = id
	res.Provider = req.Provider
	res.Model = model
	res.DurationMS = time.Since(start).Milliseconds()
	o.enter(id, StateDone)

	if err != nil {
		log.Warn("analysis.done", zap.String("status", string(res.Status)),
			zap.String("kind", string(res.Error.Kind)), zap.Error(err), zap.Int64("duration_ms", res.DurationMS))
	} else {
		log.Info("analysis.done", zap.String("status", string(res.Status)), zap.String("model", model),
			zap.Int("improvements", len(feedback.AreasForImprovement)), zap.Int64("duration_ms", res.DurationMS))
	}
	return res
}

func (o *Orchestrator) run(ctx context.Context, id string, req models.AnalysisRequest) (*models.Feedback, string, error) {
	o.enter(id, StateValidating)
	if err := o.validatePlan(req.PlanText); err != nil {
		return nil, req.Model, err
	}

	o.enter(id, StateDispatching)
	client, err := o.create(req.Provider, req.Host)
	if err != nil {
		return nil, req.Model, err
	}
	defer closeClient(client)

	ctx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	model := o.resolveModel(ctx, req.Provider, req.Model, client)

	o.enter(id, StateAwaitingResponse)
	var raw string
	err = safely(client.Name(), func() error {
		var gerr error
		raw, gerr = client.GenerateAnalysis(ctx, analysis.SystemPrompt, analysis.UserPrompt(req.PlanText), model)
		return gerr
	})
	if err != nil {
		return nil, model, o.contextError(ctx, client.Name(), err)
	}

	o.enter(id, StateFormatting)
	feedback, err := analysis.Validate(raw)
	if err != nil {
		return nil, model, err
	}
	return feedback, model, nil
}

func (o *Orchestrator) validatePlan(plan string) error {
	if strings.TrimSpace(plan) == "" {
		return models.NewError(models.KindValidation, "please provide an architecture plan to analyze", nil)
	}
	if o.cfg.MaxPlanBytes > 0 && len(plan) > o.cfg.MaxPlanBytes {
		return models.NewError(models.KindValidation,
			fmt.Sprintf("plan is %d bytes; the limit is %d", len(plan), o.cfg.MaxPlanBytes), nil)
	}
	return nil
}

func (o *Orchestrator) create(provider models.Provider, host *models.HostConfig) (llm.Client, error) {
	client, err := o.factory.Create(provider, host)
	if err != nil {
		var typed *models.Error
		if !errors.As(err, &typed) {
			err = models.NewError(models.KindConfig, "cannot create client", err)
		}
		return nil, err
	}
	return client, nil
}

// resolveModel fills in an empty model: the configured default for the
// cloud, the first model the local server reports otherwise.
func (o *Orchestrator) resolveModel(ctx context.Context, provider models.Provider, model string, client llm.Client) string {
	if model = strings.TrimSpace(model); model != "" {
		return model
	}
	if provider == models.ProviderCloud {
		if o.cfg.DefaultCloudModel != "" {
			return o.cfg.DefaultCloudModel
		}
		if len(o.cfg.CloudModels) > 0 {
			return o.cfg.CloudModels[0]
		}
		return ""
	}
	var list []string
	err := safely(client.Name(), func() error {
		var lerr error
		list, lerr = client.ListModels(ctx)
		return lerr
	})
	if err != nil || len(list) == 0 {
		return FallbackLocalModel
	}
	return list[0]
}

// contextError turns an expired or cancelled request context into a
// ConnectionError regardless of how the client reported it.
func (o *Orchestrator) contextError(ctx context.Context, backend string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return models.NewError(models.KindConnection,
			fmt.Sprintf("%s did not respond within %s", backend, o.cfg.RequestTimeout), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return models.NewError(models.KindConnection, "request cancelled", err)
	}
	return err
}

// ListModels queries the provider for its models.
func (o *Orchestrator) ListModels(ctx context.Context, provider models.Provider, host *models.HostConfig) ([]string, error) {
	client, err := o.create(provider, host)
	if err != nil {
		return nil, err
	}
	defer closeClient(client)

	ctx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	var list []string
	err = safely(client.Name(), func() error {
		var lerr error
		list, lerr = client.ListModels(ctx)
		return lerr
	})
	if err != nil {
		return nil, o.contextError(ctx, client.Name(), err)
	}
	return list, nil
}

// AvailableModels is what the model picker offers. The cloud list is
// configured; the local list is live and falls back to FallbackLocalModel
// with a warning when the server cannot be reached.
func (o *Orchestrator) AvailableModels(ctx context.Context, provider models.Provider, host *models.HostConfig) ([]string, string) {
	if provider == models.ProviderCloud {
		return append([]string(nil), o.cfg.CloudModels...), ""
	}
	list, err := o.ListModels(ctx, provider, host)
	if err != nil {
		o.log.Warn("models.fallback", zap.String("provider", string(provider)), zap.Error(err))
		return []string{FallbackLocalModel}, models.MessageOf(err)
	}
	if len(list) == 0 {
		return []string{FallbackLocalModel}, "the local server reported no loaded models"
	}
	return list, ""
}

// TestConnection reports whether the provider is reachable. Factory errors
// become a failed check rather than an error.
func (o *Orchestrator) TestConnection(ctx context.Context, provider models.Provider, host *models.HostConfig) (bool, string) {
	client, err := o.create(provider, host)
	if err != nil {
		return false, models.MessageOf(err)
	}
	defer closeClient(client)

	ctx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	var (
		ok  bool
		msg string
	)
	err = safely(client.Name(), func() error {
		ok, msg = client.TestConnection(ctx)
		return nil
	})
	if err != nil {
		return false, models.MessageOf(err)
	}
	o.log.Info("connection.test", zap.String("provider", string(provider)), zap.Bool("ok", ok))
	return ok, msg
}

func safely(backend string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = models.NewError(models.KindProvider, fmt.Sprintf("%s client panicked: %v", backend, r), nil)
		}
	}()
	return fn()
}

func closeClient(c llm.Client) {
	if closer, ok := c.(io.Closer); ok {
		_ = closer.Close()
	}
}
