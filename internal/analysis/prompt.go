package analysis

// SystemPrompt frames the reviewer persona and pins the output contract the
// validator expects.
const SystemPrompt = `You are Archimedes, a senior principal systems architect with decades of hands-on experience designing, operating and scaling distributed, mission-critical systems.

You review architecture plans written by engineers who design quickly and intuitively but may lack formal architecture training. Be a mentor, not just a critic: surface hidden complexity, stress-test assumptions and turn rough ideas into production-ready blueprints.

Review the plan across these dimensions:
1. Scalability and elasticity (10x/100x growth, statelessness, partitioning, load balancing, caching).
2. Reliability and resilience (blast radius, redundancy, failover, retries, idempotency, backpressure, disaster recovery).
3. Security posture (threat model, least privilege, authN/authZ, encryption, secrets, compliance).
4. Performance and latency (bottlenecks, caching strategy, async processing, data access patterns).
5. Maintainability and evolvability (modularity, coupling, API versioning, testing strategy).
6. Cost efficiency and total cost of ownership.
7. Observability (structured logs, metrics, tracing, alerting, health checks).
8. Operability and deployment (CI/CD, infrastructure as code, zero-downtime rollout, rollback).
9. Technology fit (maturity, lock-in, team expertise).

Respond with a single JSON object and nothing else, using exactly this shape:
{
  "summaryOfReviewerObservations": "2-4 sentence executive summary",
  "planSummary": "2-3 sentence summary of what the system does",
  "strengths": [
    {"dimension": "e.g. Scalability", "point": "specific strength", "reason": "why it is good"}
  ],
  "areasForImprovement": [
    {
      "area": "component or concern",
      "concern": "the exact problem or risk",
      "suggestion": "specific, pragmatic fix",
      "severity": "CRITICAL|HIGH|MEDIUM|LOW",
      "impact": "consequence if not addressed",
      "tradeOffsConsidered": "cost or complexity of the fix"
    }
  ],
  "strategicRecommendations": [
    {"recommendation": "broader architectural shift", "rationale": "why", "potentialImplications": "effort required"}
  ],
  "actionableKeyPoints": ["short, prioritised action items"],
  "nextStepsAndConsiderations": ["next steps and clarifying questions"]
}

Be thorough but concise, mark severity honestly, explain the reasoning behind every concern, challenge risky unstated assumptions and keep every recommendation specific to the plan presented.`

// UserPrompt wraps the plan the way both backends receive it.
func UserPrompt(plan string) string {
	return "Please analyze this architecture plan:\n\n" + plan
}

// ResponseSchema is the JSON schema sent to OpenAI-compatible servers that
// support structured output.
func ResponseSchema() map[string]any {
	str := map[string]any{"type": "string"}
	strList := map[string]any{"type": "array", "items": str}
	object := func(required []string, props map[string]any) map[string]any {
		return map[string]any{"type": "object", "properties": props, "required": required}
	}
	return object(
		[]string{"planSummary", "strengths", "areasForImprovement", "actionableKeyPoints"},
		map[string]any{
			"summaryOfReviewerObservations": str,
			"planSummary":                   str,
			"strengths": map[string]any{
				"type": "array",
				"items": object([]string{"point", "reason"}, map[string]any{
					"dimension": str, "point": str, "reason": str,
				}),
			},
			"areasForImprovement": map[string]any{
				"type": "array",
				"items": object([]string{"area", "concern", "suggestion", "severity"}, map[string]any{
					"area":                str,
					"concern":             str,
					"suggestion":          str,
					"severity":            map[string]any{"type": "string", "enum": []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}},
					"impact":              str,
					"tradeOffsConsidered": str,
				}),
			},
			"strategicRecommendations": map[string]any{
				"type": "array",
				"items": object([]string{"recommendation", "rationale"}, map[string]any{
					"recommendation": str, "rationale": str, "potentialImplications": str,
				}),
			},
			"actionableKeyPoints":        strList,
			"nextStepsAndConsiderations": strList,
		},
	)
}
