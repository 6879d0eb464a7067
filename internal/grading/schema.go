package grading

import (
	"github.com/CryptoTuck/policy-pilot-sub000/constants"
)

// BuildGradeJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the model as a structured output constraint
// and also use it locally to validate.
func BuildGradeJSONSchema() map[string]any {
	coverageProps := map[string]any{
		"name":    map[string]any{"type": "string", "minLength": 1},
		"score":   map[string]any{"type": "number", "minimum": 1, "maximum": 5},
		"comment": map[string]any{"type": "string"},
	}
	policyProps := map[string]any{
		"policy_type": map[string]any{
			"type": "string",
			"enum": constants.PolicyTypesAsStrings(),
		},
		"score": map[string]any{"type": "number", "minimum": 0, "maximum": 100},
		// E is not a grade anywhere downstream
		"grade": map[string]any{"type": "string", "pattern": `^[ABCDF]$`},
		"coverages": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           coverageProps,
				"required":             []string{"name", "score"},
			},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"policies": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           policyProps,
					"required":             []string{"policy_type"},
				},
			},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"policies"},
	}
}
