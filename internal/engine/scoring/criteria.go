// internal/engine/scoring/criteria.go
package scoring

import (
	"talent-engine/internal/common/errors"
)

// SearchType tags the intent behind a criteria set. It does not change
// scoring; the interpretation layer uses it to shape criteria.
type SearchType string

const (
	SearchTypeSkillsMatch       SearchType = "skills_match"
	SearchTypeSameDepartment    SearchType = "same_department"
	SearchTypeWorkedWith        SearchType = "worked_with"
	SearchTypeSimilarCandidates SearchType = "similar_candidates"
	SearchTypeExperienceMatch   SearchType = "experience_match"
)

var validSearchTypes = map[SearchType]bool{
	SearchTypeSkillsMatch:       true,
	SearchTypeSameDepartment:    true,
	SearchTypeWorkedWith:        true,
	SearchTypeSimilarCandidates: true,
	SearchTypeExperienceMatch:   true,
}

// Weights holds the per-dimension scoring weights. Weights of inactive
// dimensions are excluded from normalization, so they need not sum to 1.
type Weights struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Company    float64 `json:"company"`
	Department float64 `json:"department"`
}

// DefaultWeights returns the documented defaults.
func DefaultWeights() Weights {
	return Weights{
		Skills:     0.4,
		Experience: 0.3,
		Company:    0.15,
		Department: 0.15,
	}
}

// Criteria is the structured set of constraints and weights driving a search.
// It is a value object, never persisted. Criteria are validated identically
// whether they came from a structured API call or an AI-interpreted query.
type Criteria struct {
	Skills             []string   `json:"skills,omitempty"`
	MinExperienceYears *float64   `json:"min_experience_years,omitempty"`
	MaxExperienceYears *float64   `json:"max_experience_years,omitempty"`
	Companies          []string   `json:"companies,omitempty"`
	ExcludeCompanies   []string   `json:"exclude_companies,omitempty"`
	Departments        []string   `json:"departments,omitempty"`
	Locations          []string   `json:"locations,omitempty"`
	MinEducation       string     `json:"min_education,omitempty"`
	SearchType         SearchType `json:"search_type,omitempty"`

	// Weights overrides the default dimension weights when non-nil.
	Weights *Weights `json:"weights,omitempty"`
}

// Validate rejects malformed criteria. Out-of-range input is never clamped.
func (c Criteria) Validate() error {
	if c.MinExperienceYears != nil && *c.MinExperienceYears < 0 {
		return errors.InvalidArgument("min_experience_years must be non-negative")
	}
	if c.MaxExperienceYears != nil && *c.MaxExperienceYears < 0 {
		return errors.InvalidArgument("max_experience_years must be non-negative")
	}
	if c.MinExperienceYears != nil && c.MaxExperienceYears != nil &&
		*c.MinExperienceYears > *c.MaxExperienceYears {
		return errors.InvalidArgumentf("experience range invalid: min %.1f > max %.1f",
			*c.MinExperienceYears, *c.MaxExperienceYears)
	}
	if c.SearchType != "" && !validSearchTypes[c.SearchType] {
		return errors.InvalidArgumentf("unknown search_type %q", c.SearchType)
	}
	if c.Weights != nil {
		w := *c.Weights
		if w.Skills < 0 || w.Experience < 0 || w.Company < 0 || w.Department < 0 {
			return errors.InvalidArgument("weights must be non-negative")
		}
		if w.Skills+w.Experience+w.Company+w.Department == 0 {
			return errors.InvalidArgument("at least one weight must be positive")
		}
	}
	return nil
}

// WeightsOr returns the request weights, or fallback for criteria that carry
// none.
func (c Criteria) WeightsOr(fallback Weights) Weights {
	if c.Weights != nil {
		return *c.Weights
	}
	return fallback
}

// HasExperienceRange reports whether any experience bound is set.
func (c Criteria) HasExperienceRange() bool {
	return c.MinExperienceYears != nil || c.MaxExperienceYears != nil
}

// IsEmpty reports whether no scoring dimension is active. Empty criteria
// score every candidate 1.0 uniformly; callers are expected to apply a limit.
func (c Criteria) IsEmpty() bool {
	return len(c.Skills) == 0 &&
		!c.HasExperienceRange() &&
		len(c.Companies) == 0 &&
		len(c.ExcludeCompanies) == 0 &&
		len(c.Departments) == 0
}
