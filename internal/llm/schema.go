package llm

// MetricEntrySchema returns the JSON-Schema (draft 2020-12 subset) for one
// element of the model's metric array, as a generic map. Validation is
// deliberately loose: unknown keys pass, and medication presence rather
// than any type tag distinguishes the two variants.
func MetricEntrySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"metric":         map[string]any{"type": "string"},
			"value":          map[string]any{"type": "number"},
			"unit":           map[string]any{"type": "string"},
			"date":           map[string]any{"type": "string"},
			"interpretation": map[string]any{"type": "string"},
			"medication":     map[string]any{"type": "string"},
		},
		"anyOf": []any{
			map[string]any{"required": []string{"medication"}},
			map[string]any{"required": []string{"metric", "value"}},
		},
	}
}
