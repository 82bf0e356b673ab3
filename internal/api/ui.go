package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/example/archreview/internal/analysis"
)

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

type indexData struct {
	ExamplePlan  string
	CloudModels  []string
	DefaultModel string
	DefaultHost  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, indexData{
		ExamplePlan:  analysis.ExamplePlan,
		CloudModels:  s.opts.CloudModels,
		DefaultModel: s.opts.DefaultModel,
		DefaultHost:  s.opts.DefaultHost,
	})
	if err != nil {
		s.log.Error("render.index", zap.Error(err))
		http.Error(w, "cannot render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
