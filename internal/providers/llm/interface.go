package llm

import (
	"context"
)

// Client is the capability set shared by every inference backend. The cloud
// and local variants differ only in transport and auth.
type Client interface {
	// ListModels returns the model IDs the backend can serve.
	ListModels(ctx context.Context) ([]string, error)
	// TestConnection never fails; problems are reported through the message.
	TestConnection(ctx context.Context) (bool, string)
	// GenerateAnalysis returns the model's raw text for the given prompts.
	GenerateAnalysis(ctx context.Context, systemPrompt, userPlan, model string) (string, error)
	Name() string
}
