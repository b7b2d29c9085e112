package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSearchRequest(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		violations int
	}{
		{
			name: "full criteria",
			body: `{"criteria": {"skills": ["Python"], "min_experience_years": 5,
				"companies": ["Acme"], "search_type": "skills_match",
				"weights": {"skills": 0.5, "experience": 0.5}}, "limit": 10, "offset": 0}`,
			violations: 0,
		},
		{
			name:       "empty criteria",
			body:       `{"criteria": {}}`,
			violations: 0,
		},
		{
			name:       "missing criteria",
			body:       `{"limit": 10}`,
			violations: 1,
		},
		{
			name:       "unknown criteria field",
			body:       `{"criteria": {"skillz": ["Python"]}}`,
			violations: 1,
		},
		{
			name:       "negative experience",
			body:       `{"criteria": {"min_experience_years": -1}}`,
			violations: 1,
		},
		{
			name:       "unknown search type",
			body:       `{"criteria": {"search_type": "soulmates"}}`,
			violations: 1,
		},
		{
			name:       "skills of wrong type",
			body:       `{"criteria": {"skills": "Python"}}`,
			violations: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations, err := ValidateSearchRequest([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, violations, tt.violations)
		})
	}
}

func TestValidateSearchRequestInvalidJSON(t *testing.T) {
	_, err := ValidateSearchRequest([]byte(`{"criteria": `))
	assert.Error(t, err)
}
