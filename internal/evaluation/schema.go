package evaluation

import "github.com/abhisek/intervue/internal/llm"

// scoreProperty is the shared definition of one 0-10 sub-score.
func scoreProperty(desc string) map[string]any {
	return map[string]any{
		"type":        "integer",
		"minimum":     0,
		"maximum":     10,
		"description": desc,
	}
}

// EvaluationSchema defines the JSON schema for answer scoring responses.
// The schema is identical across interview types; only the rubric
// emphasis in the prompt differs.
var EvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "Multi-dimensional scoring of one interview answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correctness":            scoreProperty("Factual and technical accuracy of the answer"),
			"depth":                  scoreProperty("Depth of understanding beyond surface recall"),
			"clarity":                scoreProperty("How clearly the answer was communicated"),
			"practicalUnderstanding": scoreProperty("Evidence of hands-on, applied experience"),
			"confidence":             scoreProperty("How confidently the answer was delivered"),
			"overall": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     10,
				"description": "Overall score; omit to have it derived from the sub-scores",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of actionable feedback",
			},
			"strongPoints": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "What the answer did well",
			},
			"weakPoints": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Where the answer fell short",
			},
			"missedConcepts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Expected concepts the answer did not cover",
			},
			"followUp": map[string]any{
				"type":        "string",
				"description": "Optional suggested follow-up question",
			},
		},
		"required":             []any{"correctness", "depth", "clarity", "practicalUnderstanding", "confidence", "feedback", "strongPoints", "weakPoints", "missedConcepts"},
		"additionalProperties": false,
	},
}
