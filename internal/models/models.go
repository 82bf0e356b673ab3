package models

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderCloud Provider = "cloud"
	ProviderLocal Provider = "local"
)

// ParseProvider accepts the canonical names as well as the labels shown by
// the UI ("Google GenAI", "LM Studio (Local)").
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cloud", "gemini", "google", "google genai":
		return ProviderCloud, nil
	case "local", "lmstudio", "lm studio", "lm studio (local)":
		return ProviderLocal, nil
	}
	return "", NewError(KindConfig, fmt.Sprintf("unknown provider %q", s), nil)
}

// HostConfig addresses the local inference server.
type HostConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (h HostConfig) String() string { return fmt.Sprintf("%s:%d", h.Host, h.Port) }

type AnalysisRequest struct {
	PlanText string
	Provider Provider
	Model    string
	Host     *HostConfig
}

type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders severities for display, most urgent first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 99
}

func (s Severity) Valid() bool { return s.Rank() != 99 }

// Feedback is the validated analysis payload. Slices are never nil once the
// validator has produced it.
type Feedback struct {
	PlanSummary                   string           `json:"planSummary" yaml:"planSummary"`
	SummaryOfReviewerObservations string           `json:"summaryOfReviewerObservations,omitempty" yaml:"summaryOfReviewerObservations,omitempty"`
	Strengths                     []Strength       `json:"strengths" yaml:"strengths"`
	AreasForImprovement           []Improvement    `json:"areasForImprovement" yaml:"areasForImprovement"`
	StrategicRecommendations      []Recommendation `json:"strategicRecommendations" yaml:"strategicRecommendations"`
	ActionableKeyPoints           []string         `json:"actionableKeyPoints" yaml:"actionableKeyPoints"`
	NextStepsAndConsiderations    []string         `json:"nextStepsAndConsiderations" yaml:"nextStepsAndConsiderations"`
}

type Strength struct {
	Dimension string `json:"dimension,omitempty" yaml:"dimension,omitempty"`
	Point     string `json:"point" yaml:"point"`
	Reason    string `json:"reason" yaml:"reason"`
}

type Improvement struct {
	Area                string   `json:"area" yaml:"area"`
	Concern             string   `json:"concern" yaml:"concern"`
	Suggestion          string   `json:"suggestion" yaml:"suggestion"`
	Severity            Severity `json:"severity" yaml:"severity"`
	Impact              string   `json:"impact,omitempty" yaml:"impact,omitempty"`
	TradeOffsConsidered string   `json:"tradeOffsConsidered,omitempty" yaml:"tradeOffsConsidered,omitempty"`
}

type Recommendation struct {
	Recommendation        string `json:"recommendation" yaml:"recommendation"`
	Rationale             string `json:"rationale" yaml:"rationale"`
	PotentialImplications string `json:"potentialImplications,omitempty" yaml:"potentialImplications,omitempty"`
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Failure is what the UI shows in its error banner.
type Failure struct {
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
}

// Result is either a success carrying Feedback or a failure carrying Error.
type Result struct {
	RequestID  string    `json:"request_id" yaml:"request_id"`
	Status     Status    `json:"status" yaml:"status"`
	Provider   Provider  `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model      string    `json:"model,omitempty" yaml:"model,omitempty"`
	Feedback   *Feedback `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Error      *Failure  `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
}

func Succeeded(f *Feedback) Result {
	return Result{Status: StatusSuccess, Feedback: f}
}

// Failed converts any error into a failure result, keeping its kind when it
// carries one.
func Failed(err error) Result {
	return Result{Status: StatusFailure, Error: &Failure{Kind: KindOf(err), Message: MessageOf(err)}}
}

func (r Result) OK() bool { return r.Status == StatusSuccess }
