package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/example/archreview/internal/models"
)

type fakeGemini struct {
	text   string
	models []string
	err    error
	closed bool

	gotSystem, gotPrompt, gotModel string
}

func (f *fakeGemini) generate(ctx context.Context, systemPrompt, prompt, model string, temperature float32) (string, error) {
	f.gotSystem, f.gotPrompt, f.gotModel = systemPrompt, prompt, model
	return f.text, f.err
}

func (f *fakeGemini) listModels(ctx context.Context) ([]string, error) { return f.models, f.err }

func (f *fakeGemini) Close() error { f.closed = true; return nil }

func TestGeminiGenerateAnalysis(t *testing.T) {
	fake := &fakeGemini{text: `{"planSummary":"ok"}`}
	c := NewGeminiClient("key")
	c.backend = fake

	out, err := c.GenerateAnalysis(context.Background(), "sys", "plan", "gemini-2.5-pro")
	require.NoError(t, err)
	assert.Equal(t, `{"planSummary":"ok"}`, out)
	assert.Equal(t, "sys", fake.gotSystem)
	assert.Equal(t, "gemini-2.5-pro", fake.gotModel)

	require.NoError(t, c.Close())
	assert.True(t, fake.closed)
}

func TestGeminiEmptyResponse(t *testing.T) {
	c := NewGeminiClient("key")
	c.backend = &fakeGemini{text: "  "}
	_, err := c.GenerateAnalysis(context.Background(), "s", "p", "m")
	assert.Equal(t, models.KindProvider, models.KindOf(err))
}

func TestGeminiErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.ErrorKind
	}{
		{"unauthorized", &googleapi.Error{Code: http.StatusForbidden, Message: "API key not valid"}, models.KindConnection},
		{"server error", &googleapi.Error{Code: http.StatusInternalServerError, Message: "boom"}, models.KindProvider},
		{"deadline", context.DeadlineExceeded, models.KindConnection},
		{"unknown", errors.New("odd"), models.KindProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewGeminiClient("key")
			c.backend = &fakeGemini{err: tt.err}
			_, err := c.GenerateAnalysis(context.Background(), "s", "p", "m")
			assert.Equal(t, tt.want, models.KindOf(err))
		})
	}
}

func TestGeminiTestConnection(t *testing.T) {
	c := NewGeminiClient("key")
	c.backend = &fakeGemini{models: []string{"gemini-2.5-flash", "gemini-2.5-pro"}}
	ok, msg := c.TestConnection(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "Connected successfully. Found 2 models.", msg)

	c.backend = &fakeGemini{err: &googleapi.Error{Code: http.StatusUnauthorized}}
	ok, msg = c.TestConnection(context.Background())
	assert.False(t, ok)
	assert.Contains(t, msg, "authentication failed")
}
