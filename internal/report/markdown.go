package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/archreview/internal/models"
)

// SortedImprovements returns the improvement areas most urgent first. Entries
// of equal severity keep the model's order.
func SortedImprovements(items []models.Improvement) []models.Improvement {
	out := make([]models.Improvement, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

// Markdown renders feedback as the report shown in the browser.
func Markdown(f *models.Feedback, model string) string {
	var b strings.Builder
	if model != "" {
		fmt.Fprintf(&b, "## 📝 Architecture Analysis (via %s)\n\n", model)
	} else {
		b.WriteString("## 📝 Architecture Analysis\n\n")
	}
	fmt.Fprintf(&b, "### 📜 Plan Summary\n%s\n\n", f.PlanSummary)

	if f.SummaryOfReviewerObservations != "" {
		fmt.Fprintf(&b, "### 🧭 Reviewer Observations\n%s\n\n", f.SummaryOfReviewerObservations)
	}

	if len(f.Strengths) > 0 {
		b.WriteString("### ✅ Strengths\n")
		for _, s := range f.Strengths {
			if s.Dimension != "" {
				fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Point, s.Dimension, s.Reason)
				continue
			}
			fmt.Fprintf(&b, "- **%s:** %s\n", s.Point, s.Reason)
		}
		b.WriteString("\n")
	}

	if len(f.AreasForImprovement) > 0 {
		b.WriteString("### 🔍 Areas for Improvement\n")
		for _, item := range SortedImprovements(f.AreasForImprovement) {
			fmt.Fprintf(&b, "- **[%s] %s**\n", item.Severity, item.Area)
			fmt.Fprintf(&b, "  - **Concern:** %s\n", item.Concern)
			fmt.Fprintf(&b, "  - **Suggestion:** %s\n", item.Suggestion)
			if item.Impact != "" {
				fmt.Fprintf(&b, "  - **Impact:** %s\n", item.Impact)
			}
			if item.TradeOffsConsidered != "" {
				fmt.Fprintf(&b, "  - **Trade-offs:** %s\n", item.TradeOffsConsidered)
			}
		}
		b.WriteString("\n")
	}

	if len(f.StrategicRecommendations) > 0 {
		b.WriteString("### 🏗️ Strategic Recommendations\n")
		for _, r := range f.StrategicRecommendations {
			fmt.Fprintf(&b, "- **%s**\n  - **Rationale:** %s\n", r.Recommendation, r.Rationale)
			if r.PotentialImplications != "" {
				fmt.Fprintf(&b, "  - **Implications:** %s\n", r.PotentialImplications)
			}
		}
		b.WriteString("\n")
	}

	if len(f.ActionableKeyPoints) > 0 {
		b.WriteString("### 🚀 Actionable Key Points\n")
		for _, p := range f.ActionableKeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if len(f.NextStepsAndConsiderations) > 0 {
		b.WriteString("### 🔭 Next Steps and Considerations\n")
		for _, p := range f.NextStepsAndConsiderations {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
