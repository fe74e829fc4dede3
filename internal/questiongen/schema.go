package questiongen

import "github.com/abhisek/intervue/internal/llm"

// QuestionSchema defines the JSON schema for question generation
// responses. The shape is fixed across interview types.
var QuestionSchema = &llm.Schema{
	Name:        "interview-question",
	Description: "A single interview question adapted to the candidate's context",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question asked to the candidate, answerable verbally",
			},
			"topic": map[string]any{
				"type":        "string",
				"description": "Short topic label, e.g. \"Goroutines\" or \"Conflict resolution\"",
			},
			"difficulty": map[string]any{
				"type":        "string",
				"enum":        []any{"easy", "medium", "hard"},
				"description": "The difficulty the question was written at",
			},
			"expectedPoints": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "string",
				},
				"description": "Key points a strong answer should cover",
			},
		},
		"required":             []any{"question", "topic", "difficulty", "expectedPoints"},
		"additionalProperties": false,
	},
}
