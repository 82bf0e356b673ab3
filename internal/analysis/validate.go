package analysis

import (
	"encoding/json"
	"strings"

	"github.com/example/archreview/internal/models"
)

// Validate turns untrusted model output into Feedback. Parsing is the only
// way to fail; missing or mistyped fields fall back to zero values, unknown
// severities become MEDIUM and every string is sanitised.
func Validate(raw string) (*models.Feedback, error) {
	text := normalizeJSONText(raw)
	if text == "" {
		return nil, models.NewError(models.KindParse, "model returned empty output", nil)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return nil, models.NewError(models.KindParse, "model returned non-JSON output", err)
	}
	if top == nil {
		return nil, models.NewError(models.KindParse, "model returned non-JSON output", nil)
	}

	f := &models.Feedback{
		PlanSummary:                   str(top["planSummary"]),
		SummaryOfReviewerObservations: str(top["summaryOfReviewerObservations"]),
		Strengths:                     []models.Strength{},
		AreasForImprovement:           []models.Improvement{},
		StrategicRecommendations:      []models.Recommendation{},
		ActionableKeyPoints:           strs(top["actionableKeyPoints"]),
		NextStepsAndConsiderations:    strs(top["nextStepsAndConsiderations"]),
	}
	for _, o := range objects(top["strengths"]) {
		f.Strengths = append(f.Strengths, models.Strength{
			Dimension: str(o["dimension"]),
			Point:     str(o["point"]),
			Reason:    str(o["reason"]),
		})
	}
	for _, o := range objects(top["areasForImprovement"]) {
		f.AreasForImprovement = append(f.AreasForImprovement, models.Improvement{
			Area:                str(o["area"]),
			Concern:             str(o["concern"]),
			Suggestion:          str(o["suggestion"]),
			Severity:            severity(o["severity"]),
			Impact:              str(o["impact"]),
			TradeOffsConsidered: str(o["tradeOffsConsidered"]),
		})
	}
	for _, o := range objects(top["strategicRecommendations"]) {
		f.StrategicRecommendations = append(f.StrategicRecommendations, models.Recommendation{
			Recommendation:        str(o["recommendation"]),
			Rationale:             str(o["rationale"]),
			PotentialImplications: str(o["potentialImplications"]),
		})
	}
	return f, nil
}

// str decodes a JSON string; absent, null or non-string values give "".
func str(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return SanitizeText(s)
}

// strs keeps the string elements of a JSON array, in order.
func strs(raw json.RawMessage) []string {
	out := []string{}
	for _, item := range elements(raw) {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		out = append(out, SanitizeText(s))
	}
	return out
}

// objects keeps the object elements of a JSON array, in order.
func objects(raw json.RawMessage) []map[string]json.RawMessage {
	var out []map[string]json.RawMessage
	for _, item := range elements(raw) {
		var o map[string]json.RawMessage
		if err := json.Unmarshal(item, &o); err != nil || o == nil {
			continue
		}
		out = append(out, o)
	}
	return out
}

func elements(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func severity(raw json.RawMessage) models.Severity {
	var s string
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &s)
	}
	sev := models.Severity(strings.ToUpper(strings.TrimSpace(s)))
	if !sev.Valid() {
		return models.SeverityMedium
	}
	return sev
}

// normalizeJSONText strips code fences and surrounding prose that models add
// despite being asked for bare JSON.
func normalizeJSONText(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```") {
		t = strings.TrimPrefix(t, "```")
		// drop the language hint, e.g. json
		if idx := strings.IndexByte(t, '\n'); idx != -1 {
			t = t[idx+1:]
		}
		if j := strings.LastIndex(t, "```"); j != -1 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	if !strings.HasPrefix(t, "{") {
		if obj := extractJSONObject(t); obj != "" {
			return obj
		}
	}
	return t
}

// extractJSONObject returns the first balanced top-level {...} in s, ignoring
// braces inside string literals.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
