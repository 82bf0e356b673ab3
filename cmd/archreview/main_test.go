package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/archreview/internal/models"
)

const postgresSPOF = `{"planSummary":"An API backed by one Postgres instance.","strengths":[],"areasForImprovement":[{"area":"Database","concern":"SPOF","suggestion":"add replicas","severity":"HIGH"}],"actionableKeyPoints":["Add replicas"]}`

func fakeLMStudio(t *testing.T, content string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models":
			_, _ = w.Write([]byte(`{"data":[{"id":"qwen2.5-7b"}]}`))
		case "/v1/chat/completions":
			resp := map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": content}}}}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"GOOGLE_API_KEY", "ARCHREVIEW_LOCAL_HOST", "ARCHREVIEW_LOG_LEVEL", "ARCHREVIEW_LOG_FORMAT", "ARCHREVIEW_CLOUD_MODELS"} {
		t.Setenv(k, "")
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeFromFileAsJSON(t *testing.T) {
	host := fakeLMStudio(t, postgresSPOF)
	plan := filepath.Join(t.TempDir(), "plan.md")
	require.NoError(t, os.WriteFile(plan, []byte("# API\nOne Postgres."), 0o600))

	out, err := run(t, "", "analyze", plan, "-p", "local", "--host", host, "-o", "json")
	require.NoError(t, err)

	var res models.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, "qwen2.5-7b", res.Model)
	require.Len(t, res.Feedback.AreasForImprovement, 1)
	assert.Equal(t, models.SeverityHigh, res.Feedback.AreasForImprovement[0].Severity)
}

func TestAnalyzeFromStdinAsMarkdown(t *testing.T) {
	host := fakeLMStudio(t, postgresSPOF)

	out, err := run(t, "API with one Postgres", "analyze", "-", "-p", "local", "--host", host, "-m", "llama", "-o", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "## 📝 Architecture Analysis (via llama)"))
}

func TestAnalyzeFailureExitsNonZero(t *testing.T) {
	host := fakeLMStudio(t, "not json")

	out, err := run(t, "plan", "analyze", "-p", "local", "--host", host, "-o", "yaml")
	assert.ErrorIs(t, err, errAnalysisFailed)
	assert.Contains(t, out, "kind: ParseError")

	_, err = run(t, "   ", "analyze", "-p", "local", "--host", host)
	require.Error(t, err)
	assert.Equal(t, models.KindValidation, models.KindOf(err))
}

func TestAnalyzeCloudWithoutKey(t *testing.T) {
	out, err := run(t, "plan", "analyze", "-o", "json")
	assert.ErrorIs(t, err, errAnalysisFailed)
	assert.Contains(t, out, `"kind": "ConfigError"`)
}

func TestAnalyzeBadFlags(t *testing.T) {
	_, err := run(t, "plan", "analyze", "-o", "xml")
	assert.Error(t, err)

	_, err = run(t, "plan", "analyze", "-p", "azure")
	assert.Equal(t, models.KindConfig, models.KindOf(err))

	_, err = run(t, "plan", "analyze", "-p", "local", "--host", "nope")
	assert.Equal(t, models.KindConfig, models.KindOf(err))
}

func TestModelsAndPing(t *testing.T) {
	host := fakeLMStudio(t, postgresSPOF)

	out, err := run(t, "", "models", "-p", "local", "--host", host)
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5-7b\n", out)

	out, err = run(t, "", "models")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash\ngemini-2.5-pro\n", out)

	out, err = run(t, "", "ping", "-p", "local", "--host", host)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 models")

	out, err = run(t, "", "ping")
	require.Error(t, err)
	assert.Contains(t, out, "GOOGLE_API_KEY")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "archreview version dev\n", out)
}
