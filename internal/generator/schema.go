package generator

// Schema is a named JSON Schema sent with a request so the provider
// constrains its output. Responses are still parsed strictly on our side.
type Schema struct {
	Name string
	Body map[string]any
}

// questionMapSchema allows only Q<n> keys with string values.
func questionMapSchema(name string) *Schema {
	return &Schema{
		Name: name,
		Body: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"patternProperties": map[string]any{
				`^Q[0-9]+$`: map[string]any{"type": "string"},
			},
			"additionalProperties": false,
		},
	}
}

var (
	dailyQuestionsSchema = questionMapSchema("DailyQuestionSet")
	trendFollowupSchema  = questionMapSchema("TrendFollowupDict")

	followupListSchema = &Schema{
		Name: "FollowupOutput",
		Body: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":   map[string]any{"type": "string", "description": "Q-id like Q1, Q2, ..."},
							"text": map[string]any{"type": "string", "description": "Follow-up question text"},
						},
						"required":             []string{"id", "text"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"questions"},
			"additionalProperties": false,
		},
	}
)
