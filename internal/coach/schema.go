package coach

import (
	"github.com/abhisek/kotoba/internal/llm"
	"github.com/abhisek/kotoba/internal/quiz"
)

// AdviceSchema is the structured output the coach asks for.
var AdviceSchema = &llm.Schema{
	Name:        "study-advice",
	Description: "Personalized Japanese study tips for a learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One or two encouraging sentences about overall progress",
			},
			"tips": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{
							"type": "string",
							"enum": categoryEnum(),
						},
						"tip": map[string]any{
							"type":        "string",
							"description": "A concrete exercise the learner can do today",
						},
						"minutes": map[string]any{
							"type":        "integer",
							"description": "Suggested daily practice time in minutes",
							"minimum":     5,
							"maximum":     60,
						},
					},
					"required":             []any{"category", "tip", "minutes"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"summary", "tips"},
		"additionalProperties": false,
	},
}

func categoryEnum() []any {
	var out []any
	for _, c := range quiz.AllCategories() {
		out = append(out, string(c))
	}
	return out
}
