package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client that records how often each method ran.
type MockClient struct {
	Models   []string
	Response string
	Err      error
	// Block makes GenerateAnalysis wait for ctx to end.
	Block bool
	// Panic, when set, is raised by GenerateAnalysis.
	Panic any

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockClient) Name() string { return "mock" }

func (m *MockClient) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[method]++
}

// Calls returns how many times method was invoked.
func (m *MockClient) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls sums the calls across every method.
func (m *MockClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *MockClient) ListModels(ctx context.Context) ([]string, error) {
	m.record("ListModels")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Models, nil
}

func (m *MockClient) TestConnection(ctx context.Context) (bool, string) {
	m.record("TestConnection")
	if m.Err != nil {
		return false, m.Err.Error()
	}
	return true, "ok"
}

func (m *MockClient) GenerateAnalysis(ctx context.Context, systemPrompt, userPlan, model string) (string, error) {
	m.record("GenerateAnalysis")
	if m.Panic != nil {
		panic(m.Panic)
	}
	if m.Block {
		<-ctx.Done()
		return "", transportError("mock", ctx.Err())
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockClient) Close() error {
	m.record("Close")
	return nil
}
