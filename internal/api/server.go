package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/archreview/internal/models"
	"github.com/example/archreview/internal/planfile"
	"github.com/example/archreview/internal/providers/llm"
	"github.com/example/archreview/internal/report"
)

// Analyzer is the part of the orchestrator the handlers use.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) models.Result
	AvailableModels(ctx context.Context, provider models.Provider, host *models.HostConfig) ([]string, string)
	TestConnection(ctx context.Context, provider models.Provider, host *models.HostConfig) (bool, string)
}

type Options struct {
	MaxUploadBytes int
	CORSOrigins    []string
	CloudModels    []string
	DefaultModel   string
	DefaultHost    string
}

type Server struct {
	orch Analyzer
	opts Options
	log  *zap.Logger
	now  func() time.Time
}

func NewServer(orch Analyzer, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Server{orch: orch, opts: opts, log: log, now: time.Now}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("POST /api/connection", s.handleConnection)
	mux.HandleFunc("POST /api/plan/import", s.handleImport)
	mux.HandleFunc("POST /api/export", s.handleExport)
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	var h http.Handler = mux
	h = recovery(s.log)(h)
	h = accessLog(s.log)(h)
	h = cors(s.opts.CORSOrigins)(h)
	return requestID(h)
}

type analyzeRequest struct {
	Plan     string `json:"plan"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Host     string `json:"host"`
}

type analyzeResponse struct {
	Result   models.Result `json:"result"`
	Markdown string        `json:"markdown"`
	HTML     string        `json:"html"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if !decodeJSON(w, r, &body, int64(s.opts.MaxUploadBytes)) {
		return
	}

	req, err := s.buildRequest(body)
	var res models.Result
	if err != nil {
		res = models.Failed(err)
		res.RequestID = RequestIDFromContext(r.Context())
	} else {
		res = s.orch.Analyze(r.Context(), req)
	}
	if r.Context().Err() != nil {
		// client went away; nobody is left to read the result
		return
	}

	md := renderMarkdown(res)
	frag, err := report.RenderHTML(md)
	if err != nil {
		s.log.Error("render.html", zap.Error(err), zap.String("request_id", res.RequestID))
		frag = ""
	}
	respondJSON(w, http.StatusOK, analyzeResponse{Result: res, Markdown: md, HTML: frag})
}

func (s *Server) buildRequest(body analyzeRequest) (models.AnalysisRequest, error) {
	provider := models.ProviderCloud
	if strings.TrimSpace(body.Provider) != "" {
		p, err := models.ParseProvider(body.Provider)
		if err != nil {
			return models.AnalysisRequest{}, err
		}
		provider = p
	}
	host, err := parseHost(provider, body.Host)
	if err != nil {
		return models.AnalysisRequest{}, err
	}
	return models.AnalysisRequest{
		PlanText: body.Plan,
		Provider: provider,
		Model:    strings.TrimSpace(body.Model),
		Host:     host,
	}, nil
}

func parseHost(provider models.Provider, raw string) (*models.HostConfig, error) {
	if provider != models.ProviderLocal || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	hc, err := llm.ParseHostPort(raw)
	if err != nil {
		return nil, err
	}
	return &hc, nil
}

func renderMarkdown(res models.Result) string {
	if !res.OK() {
		return fmt.Sprintf("**Error (%s):** %s\n", res.Error.Kind, res.Error.Message)
	}
	return report.Markdown(res.Feedback, res.Model)
}

type modelsResponse struct {
	Provider models.Provider `json:"provider"`
	Models   []string        `json:"models"`
	Default  string          `json:"default,omitempty"`
	Warning  string          `json:"warning,omitempty"`
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	provider, host, ok := s.providerAndHost(w, r.URL.Query().Get("provider"), r.URL.Query().Get("host"))
	if !ok {
		return
	}
	list, warning := s.orch.AvailableModels(r.Context(), provider, host)
	resp := modelsResponse{Provider: provider, Models: list, Warning: warning}
	if len(list) > 0 {
		resp.Default = list[0]
	}
	if provider == models.ProviderCloud && s.opts.DefaultModel != "" {
		resp.Default = s.opts.DefaultModel
	}
	respondJSON(w, http.StatusOK, resp)
}

type connectionRequest struct {
	Provider string `json:"provider"`
	Host     string `json:"host"`
}

type connectionResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (s *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	var body connectionRequest
	if !decodeJSON(w, r, &body, 64<<10) {
		return
	}
	provider, host, ok := s.providerAndHost(w, body.Provider, body.Host)
	if !ok {
		return
	}
	okConn, msg := s.orch.TestConnection(r.Context(), provider, host)
	respondJSON(w, http.StatusOK, connectionResponse{OK: okConn, Message: msg})
}

func (s *Server) providerAndHost(w http.ResponseWriter, rawProvider, rawHost string) (models.Provider, *models.HostConfig, bool) {
	provider := models.ProviderCloud
	if strings.TrimSpace(rawProvider) != "" {
		p, err := models.ParseProvider(rawProvider)
		if err != nil {
			respondError(w, http.StatusBadRequest, string(models.KindOf(err)), models.MessageOf(err))
			return "", nil, false
		}
		provider = p
	}
	host, err := parseHost(provider, rawHost)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(models.KindOf(err)), models.MessageOf(err))
		return "", nil, false
	}
	return provider, host, true
}

type importResponse struct {
	Filename string `json:"filename"`
	Plan     string `json:"plan"`
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.opts.MaxUploadBytes)+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, string(models.KindValidation), "upload exceeds the size limit")
			return
		}
		respondError(w, http.StatusBadRequest, string(models.KindValidation), "expected a multipart form with a \"file\" field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, int64(s.opts.MaxUploadBytes)+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, string(models.KindValidation), "cannot read upload")
		return
	}
	text, err := planfile.Extract(header.Filename, header.Header.Get("Content-Type"), data, s.opts.MaxUploadBytes)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if len(data) > s.opts.MaxUploadBytes {
			status = http.StatusRequestEntityTooLarge
		}
		respondError(w, status, string(models.KindOf(err)), models.MessageOf(err))
		return
	}
	s.log.Info("plan.import",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(data)),
		zap.Int("text_bytes", len(text)),
	)
	respondJSON(w, http.StatusOK, importResponse{Filename: header.Filename, Plan: text})
}

type exportRequest struct {
	Format   string           `json:"format"`
	Model    string           `json:"model"`
	Feedback *models.Feedback `json:"feedback"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var body exportRequest
	if !decodeJSON(w, r, &body, int64(s.opts.MaxUploadBytes)) {
		return
	}
	format, err := report.ParseFormat(body.Format)
	if err != nil || format == report.FormatHuman {
		respondError(w, http.StatusBadRequest, string(models.KindValidation), "format must be one of markdown, html, json, yaml")
		return
	}
	if body.Feedback == nil {
		respondError(w, http.StatusBadRequest, string(models.KindValidation), "no analysis to export")
		return
	}
	res := models.Succeeded(body.Feedback)
	res.Model = body.Model

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(format, s.now())))
	if err := report.Write(w, format, res); err != nil {
		s.log.Error("export.write", zap.Error(err), zap.String("format", string(format)))
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any, limit int64) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, string(models.KindValidation), "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, string(models.KindValidation), "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
