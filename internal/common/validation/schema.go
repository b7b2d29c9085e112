// Package validation checks inbound request payloads against JSON schemas
// before they are decoded into engine types. Criteria arriving from the
// AI-interpretation layer and from structured API calls go through the same
// schema.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SearchRequestSchema validates the body of a search request.
const SearchRequestSchema = `{
	"type": "object",
	"properties": {
		"criteria": {
			"type": "object",
			"properties": {
				"skills": {"type": "array", "items": {"type": "string"}},
				"min_experience_years": {"type": "number", "minimum": 0},
				"max_experience_years": {"type": "number", "minimum": 0},
				"companies": {"type": "array", "items": {"type": "string"}},
				"exclude_companies": {"type": "array", "items": {"type": "string"}},
				"departments": {"type": "array", "items": {"type": "string"}},
				"locations": {"type": "array", "items": {"type": "string"}},
				"min_education": {"type": "string"},
				"search_type": {
					"type": "string",
					"enum": ["skills_match", "same_department", "worked_with", "similar_candidates", "experience_match"]
				},
				"weights": {
					"type": "object",
					"properties": {
						"skills": {"type": "number", "minimum": 0},
						"experience": {"type": "number", "minimum": 0},
						"company": {"type": "number", "minimum": 0},
						"department": {"type": "number", "minimum": 0}
					},
					"additionalProperties": false
				}
			},
			"additionalProperties": false
		},
		"limit": {"type": "integer"},
		"offset": {"type": "integer"}
	},
	"required": ["criteria"],
	"additionalProperties": false
}`

// ValidationError describes a single schema violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateJSON validates a raw JSON document against a schema source.
func ValidateJSON(document []byte, schema string) ([]ValidationError, error) {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   e.Field(),
			Message: e.Description(),
		})
	}
	return errs, nil
}

// ValidateSearchRequest validates a search request body.
func ValidateSearchRequest(document []byte) ([]ValidationError, error) {
	return ValidateJSON(document, SearchRequestSchema)
}
