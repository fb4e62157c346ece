// internal/workers/recommendation/combined-recommendation/schema.go
package combinedrecommendation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

func userSchema() map[string]interface{} {
	attr := func(desc string) map[string]interface{} {
		return map[string]interface{}{"type": "integer", "description": desc}
	}
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"gender", "ageGroup", "travelStyle1", "travelStyle2", "travelStyle3", "travelStyle4"},
		"properties": map[string]interface{}{
			"gender":       attr("Encoded gender"),
			"ageGroup":     attr("Age group, e.g. 20 for twenties"),
			"travelStyle1": attr("Travel style dimension 1"),
			"travelStyle2": attr("Travel style dimension 2"),
			"travelStyle3": attr("Travel style dimension 3, five-point scale"),
			"travelStyle4": attr("Travel style dimension 4"),
		},
	}
}

// InputSchema describes the job variables for a seed list of seedCount places.
func InputSchema(seedCount int) map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"inputOrder", "users"},
		"properties": map[string]interface{}{
			"inputOrder": map[string]interface{}{
				"type":        "array",
				"description": "1-based ranks of the seed places, in the user's order",
				"minItems":    seedCount,
				"maxItems":    seedCount,
				"uniqueItems": true,
				"items": map[string]interface{}{
					"type":    "integer",
					"minimum": 1,
					"maximum": seedCount,
				},
			},
			"preferredCategories": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"users": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"items":    userSchema(),
			},
			"maxItems": map[string]interface{}{
				"type":    "integer",
				"minimum": 0,
			},
		},
	}
}

// ValidateVariables checks raw job variables against InputSchema.
func ValidateVariables(variables string, seedCount int) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(InputSchema(seedCount)),
		gojsonschema.NewStringLoader(variables),
	)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("input validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
