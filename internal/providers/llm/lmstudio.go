package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	lmStudioName = "LM Studio"

	maxResponseBytes = 4 << 20
	maxErrorSnippet  = 512
)

// LMStudioClient targets an OpenAI-compatible local server (LM Studio,
// llama.cpp, vLLM). There is no authentication.
type LMStudioClient struct {
	Host        string
	BaseURL     string
	Temperature float32
	Schema      map[string]any

	httpClient *http.Client
}

// NewLMStudioClient builds a client for host ("localhost:1234"). A zero timeout
// falls back to the package default.
func NewLMStudioClient(host string, timeout time.Duration, schema map[string]any) *LMStudioClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LMStudioClient{
		Host:        host,
		BaseURL:     baseURL(host),
		Temperature: 0.2,
		Schema:      schema,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *LMStudioClient) Name() string { return lmStudioName }

type modelList struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (c *LMStudioClient) ListModels(ctx context.Context) ([]string, error) {
	var out modelList
	if err := c.do(ctx, http.MethodGet, "/models", nil, &out); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.Data))
	for _, m := range out.Data {
		if m.ID != "" {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func (c *LMStudioClient) TestConnection(ctx context.Context) (bool, string) {
	ids, err := c.ListModels(ctx)
	if err == nil {
		return true, fmt.Sprintf("Connected successfully. Found %d models.", len(ids))
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return false, fmt.Sprintf("Connection timeout to %s.", c.Host)
	}
	var se *statusError
	if errors.As(err, &se) {
		return false, fmt.Sprintf("Connection failed: HTTP %d", se.code)
	}
	return false, fmt.Sprintf("Cannot connect to LM Studio at %s. Please ensure LM Studio is running.", c.Host)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *LMStudioClient) GenerateAnalysis(ctx context.Context, systemPrompt, userPlan, model string) (string, error) {
	body := map[string]any{
		"model": model,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPlan},
		},
		"temperature": c.Temperature,
		"stream":      false,
	}
	if c.Schema != nil {
		body["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "architecture_analysis",
				"schema": c.Schema,
				"strict": true,
			},
		}
	}
	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/chat/completions", body, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil && resp.Error.Message != "" {
		return "", providerError(lmStudioName, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", providerError(lmStudioName, "no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("HTTP %d", e.code)
	}
	return fmt.Sprintf("HTTP %d - %s", e.code, e.body)
}

func (c *LMStudioClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return providerError(lmStudioName, err.Error())
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return connectionError(lmStudioName, "invalid host "+c.Host, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(lmStudioName, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorSnippet))
		se := &statusError{code: res.StatusCode, body: strings.TrimSpace(string(snippet))}
		return providerErrorWrap(lmStudioName, se)
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return transportError(lmStudioName, err)
		}
		return providerError(lmStudioName, "malformed response envelope: "+err.Error())
	}
	return nil
}

// baseURL normalises "host:port", "http://host:port" and ".../v1" alike.
func baseURL(host string) string {
	h := strings.TrimRight(strings.TrimSpace(host), "/")
	if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
		h = "http://" + h
	}
	if !strings.HasSuffix(h, "/v1") {
		h += "/v1"
	}
	return h
}
