package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const geminiName = "Google GenAI"

// geminiBackend is the slice of the SDK the client needs.
type geminiBackend interface {
	generate(ctx context.Context, systemPrompt, prompt, model string, temperature float32) (string, error)
	listModels(ctx context.Context) ([]string, error)
	Close() error
}

// GeminiClient talks to the hosted Gemini API. The SDK client is created on
// first use so that constructing a GeminiClient performs no I/O.
type GeminiClient struct {
	APIKey      string
	Temperature float32
	Options     []option.ClientOption

	mu      sync.Mutex
	backend geminiBackend
}

func NewGeminiClient(apiKey string, opts ...option.ClientOption) *GeminiClient {
	return &GeminiClient{APIKey: apiKey, Temperature: 0.2, Options: opts}
}

func (c *GeminiClient) Name() string { return geminiName }

func (c *GeminiClient) sdk(ctx context.Context) (geminiBackend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil {
		return c.backend, nil
	}
	opts := append([]option.ClientOption{option.WithAPIKey(c.APIKey)}, c.Options...)
	gc, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, geminiError(err)
	}
	c.backend = &sdkBackend{client: gc}
	return c.backend, nil
}

func (c *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	b, err := c.sdk(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := b.listModels(ctx)
	if err != nil {
		return nil, geminiError(err)
	}
	return ids, nil
}

func (c *GeminiClient) TestConnection(ctx context.Context) (bool, string) {
	ids, err := c.ListModels(ctx)
	if err != nil {
		return false, fmt.Sprintf("Connection failed: %v", err)
	}
	return true, fmt.Sprintf("Connected successfully. Found %d models.", len(ids))
}

func (c *GeminiClient) GenerateAnalysis(ctx context.Context, systemPrompt, userPlan, model string) (string, error) {
	b, err := c.sdk(ctx)
	if err != nil {
		return "", err
	}
	txt, err := b.generate(ctx, systemPrompt, userPlan, model, c.Temperature)
	if err != nil {
		return "", geminiError(err)
	}
	if strings.TrimSpace(txt) == "" {
		return "", providerError(geminiName, "empty response")
	}
	return txt, nil
}

func (c *GeminiClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend == nil {
		return nil
	}
	err := c.backend.Close()
	c.backend = nil
	return err
}

// geminiError maps SDK errors onto the shared taxonomy. Rejected credentials
// count as a connection problem, like an unreachable host.
func geminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
			return connectionError(geminiName, fmt.Sprintf("authentication failed (HTTP %d)", apiErr.Code), err)
		}
		return providerError(geminiName, fmt.Sprintf("HTTP %d: %s", apiErr.Code, apiErr.Message))
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return providerError(geminiName, blocked.Error())
	}
	return transportError(geminiName, err)
}

type sdkBackend struct{ client *genai.Client }

func (s *sdkBackend) generate(ctx context.Context, systemPrompt, prompt, model string, temperature float32) (string, error) {
	m := s.client.GenerativeModel(model)
	m.SetTemperature(temperature)
	m.ResponseMIMEType = "application/json"
	m.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

func (s *sdkBackend) listModels(ctx context.Context) ([]string, error) {
	var out []string
	it := s.client.ListModels(ctx)
	for {
		mi, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if !slices.Contains(mi.SupportedGenerationMethods, "generateContent") {
			continue
		}
		out = append(out, strings.TrimPrefix(mi.Name, "models/"))
	}
	return out, nil
}

func (s *sdkBackend) Close() error { return s.client.Close() }

// responseText joins the text parts of the first candidate.
func responseText(r *genai.GenerateContentResponse) string {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}
