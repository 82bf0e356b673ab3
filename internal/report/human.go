package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/archreview/internal/models"
)

func severityColor(s models.Severity) *color.Color {
	switch s {
	case models.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case models.SeverityHigh:
		return color.New(color.FgRed)
	case models.SeverityMedium:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgGreen)
}

// Human prints a coloured terminal report.
func Human(w io.Writer, res models.Result) {
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	fmt.Fprintln(w)
	if !res.OK() {
		red.Fprintf(w, "❌ %s\n", res.Error.Kind)
		fmt.Fprintf(w, "   %s\n\n", res.Error.Message)
		return
	}
	f := res.Feedback

	cyan.Fprintf(w, "📜 PLAN SUMMARY")
	if res.Model != "" {
		fmt.Fprintf(w, " (via %s)", res.Model)
	}
	fmt.Fprintf(w, "\n   %s\n\n", f.PlanSummary)

	if f.SummaryOfReviewerObservations != "" {
		cyan.Fprintln(w, "🧭 REVIEWER OBSERVATIONS:")
		fmt.Fprintf(w, "   %s\n\n", f.SummaryOfReviewerObservations)
	}

	if len(f.Strengths) > 0 {
		green.Fprintln(w, "✅ STRENGTHS:")
		for _, s := range f.Strengths {
			fmt.Fprintf(w, "   • %s: %s\n", s.Point, s.Reason)
		}
		fmt.Fprintln(w)
	}

	if len(f.AreasForImprovement) > 0 {
		white.Fprintln(w, "🔍 AREAS FOR IMPROVEMENT:")
		for _, item := range SortedImprovements(f.AreasForImprovement) {
			fmt.Fprint(w, "   ")
			severityColor(item.Severity).Fprintf(w, "[%s]", item.Severity)
			fmt.Fprintf(w, " %s\n", item.Area)
			fmt.Fprintf(w, "      Concern:    %s\n", item.Concern)
			fmt.Fprintf(w, "      Suggestion: %s\n", item.Suggestion)
		}
		fmt.Fprintln(w)
	}

	if len(f.ActionableKeyPoints) > 0 {
		green.Fprintln(w, "🚀 ACTIONABLE KEY POINTS:")
		for i, p := range f.ActionableKeyPoints {
			fmt.Fprintf(w, "   %d. %s\n", i+1, p)
		}
		fmt.Fprintln(w)
	}
}
