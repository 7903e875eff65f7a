package llm

// BuildApplicationJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// as a generic map describing the application-fields object the model is
// asked for. It is deliberately permissive: every field is nullable and
// unknown keys are allowed, since validation is diagnostic only. The
// coercer, not the schema, decides what survives.
func BuildApplicationJSONSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	nullableDate := map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}( \d{2}:\d{2})?$`,
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"company_name":     nullableString,
			"position":         nullableString,
			"applied_date":     nullableDate,
			"status":           nullableString,
			"interview_date":   nullableDate,
			"rejection_date":   nullableDate,
			"rejection_reason": nullableString,
			"job_url":          nullableString,
			"contact_email":    nullableString,
			"location":         nullableString,
			"salary_range":     nullableString,
			"notes":            nullableString,
		},
		"additionalProperties": true,
	}
}
