// Package scoring computes weighted multi-criteria match scores between a
// criteria set and one candidate profile. Scores are deterministic and
// explainable: no randomness, no fuzzy matching, fixed dimension order.
package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"talent-engine/internal/store"
	"talent-engine/pkg/skills"
)

// Dimension keys used in score breakdowns.
const (
	DimSkills     = "skills"
	DimExperience = "experience"
	DimCompany    = "company"
	DimDepartment = "department"
)

// Engine scores candidates against criteria. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	now      func() time.Time
	defaults Weights
}

func NewEngine() *Engine {
	return NewEngineWith(time.Now, DefaultWeights())
}

// NewEngineAt pins the reference time used for open-ended work intervals.
func NewEngineAt(now func() time.Time) *Engine {
	return NewEngineWith(now, DefaultWeights())
}

// NewEngineWith pins the reference time and sets the fallback weights applied
// to criteria that carry none. Zero-value weights fall back to the built-in
// defaults.
func NewEngineWith(now func() time.Time, defaults Weights) *Engine {
	if defaults == (Weights{}) {
		defaults = DefaultWeights()
	}
	return &Engine{now: now, defaults: defaults}
}

// Score returns the aggregate match score in [0,1], human-readable match
// reasons, and the per-dimension breakdown. Unset criteria dimensions are
// excluded from both the numerator and the weight-normalization denominator.
// An excluded-company hit is a veto: the aggregate is exactly 0 regardless of
// every other dimension.
func (e *Engine) Score(c Criteria, p *store.Profile) (float64, []string, map[string]float64) {
	breakdown := make(map[string]float64, 4)

	for _, company := range c.ExcludeCompanies {
		if p.HasCompany(company) {
			breakdown[DimCompany] = 0
			return 0, nil, breakdown
		}
	}

	weights := c.WeightsOr(e.defaults)
	years := p.TotalExperienceYears(e.now())

	type dimension struct {
		weight float64
		score  float64
		reason string
		active bool
	}

	dims := make([]dimension, 0, 4)

	// Fixed dimension order: skills, experience, company, department.
	// Reason ordering depends on it.
	skillScore, matched := e.scoreSkills(c, p)
	dims = append(dims, dimension{
		weight: weights.Skills,
		score:  skillScore,
		reason: "Skills: " + strings.Join(matched, ", "),
		active: len(c.Skills) > 0,
	})

	expScore, expReason := e.scoreExperience(c, years)
	dims = append(dims, dimension{
		weight: weights.Experience,
		score:  expScore,
		reason: expReason,
		active: c.HasExperienceRange(),
	})

	companyScore, companyName := e.scoreCompany(c, p)
	dims = append(dims, dimension{
		weight: weights.Company,
		score:  companyScore,
		reason: "Company: worked at " + companyName,
		active: len(c.Companies) > 0,
	})

	deptScore, deptName := e.scoreDepartment(c, p)
	dims = append(dims, dimension{
		weight: weights.Department,
		score:  deptScore,
		reason: "Department: " + deptName,
		active: len(c.Departments) > 0,
	})

	keys := []string{DimSkills, DimExperience, DimCompany, DimDepartment}

	var (
		weightedSum float64
		weightTotal float64
		reasons     []string
	)
	for i, d := range dims {
		if !d.active {
			continue
		}
		breakdown[keys[i]] = d.score
		weightedSum += d.weight * d.score
		weightTotal += d.weight
		if d.score > 0 {
			reasons = append(reasons, d.reason)
		}
	}

	// Empty criteria score every candidate 1.0 uniformly.
	if weightTotal == 0 {
		return 1.0, nil, breakdown
	}

	score := weightedSum / weightTotal
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, reasons, breakdown
}

// scoreSkills returns |matched| / |criteria.skills| and the matched criteria
// names in criteria order. Matching is case-insensitive on canonical names,
// no partial matching.
func (e *Engine) scoreSkills(c Criteria, p *store.Profile) (float64, []string) {
	if len(c.Skills) == 0 {
		return 1.0, nil
	}

	have := p.SkillSet()
	var matched []string
	seen := make(map[string]struct{}, len(c.Skills))
	requested := 0
	for _, want := range c.Skills {
		canon := skills.Canonical(want)
		if canon == "" {
			continue
		}
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}
		requested++
		if _, ok := have[canon]; ok {
			matched = append(matched, strings.TrimSpace(want))
		}
	}
	if requested == 0 {
		return 1.0, nil
	}
	return float64(len(matched)) / float64(requested), matched
}

// scoreExperience applies the closed-interval rule with a floor-at-zero
// linear decay outside the range.
func (e *Engine) scoreExperience(c Criteria, years float64) (float64, string) {
	if !c.HasExperienceRange() {
		return 1.0, ""
	}

	yearsLabel := strconv.FormatFloat(years, 'f', -1, 64)

	switch {
	case c.MinExperienceYears != nil && c.MaxExperienceYears != nil:
		min, max := *c.MinExperienceYears, *c.MaxExperienceYears
		if years >= min && years <= max {
			return 1.0, fmt.Sprintf("Experience: %s years (within %g-%g range)", yearsLabel, min, max)
		}
		var distance float64
		if years < min {
			distance = min - years
		} else {
			distance = years - max
		}
		width := max - min
		if width <= 0 {
			// Degenerate single-point range decays per year of distance.
			width = 1
		}
		score := 1 - distance/width
		if score < 0 {
			score = 0
		}
		return score, fmt.Sprintf("Experience: %s years (near %g-%g range)", yearsLabel, min, max)

	case c.MinExperienceYears != nil:
		min := *c.MinExperienceYears
		if min <= 0 || years >= min {
			return 1.0, fmt.Sprintf("Experience: %s years (meets %g year minimum)", yearsLabel, min)
		}
		return years / min, fmt.Sprintf("Experience: %s years (below %g year minimum)", yearsLabel, min)

	default:
		max := *c.MaxExperienceYears
		if years <= max {
			return 1.0, fmt.Sprintf("Experience: %s years (within %g year maximum)", yearsLabel, max)
		}
		if max <= 0 {
			return 0, ""
		}
		score := 1 - (years-max)/max
		if score < 0 {
			score = 0
		}
		return score, fmt.Sprintf("Experience: %s years (above %g year maximum)", yearsLabel, max)
	}
}

func (e *Engine) scoreCompany(c Criteria, p *store.Profile) (float64, string) {
	if len(c.Companies) == 0 {
		return 1.0, ""
	}
	for _, company := range c.Companies {
		if p.HasCompany(company) {
			return 1.0, strings.TrimSpace(company)
		}
	}
	return 0, ""
}

func (e *Engine) scoreDepartment(c Criteria, p *store.Profile) (float64, string) {
	if len(c.Departments) == 0 {
		return 1.0, ""
	}
	for _, dept := range c.Departments {
		if p.HasDepartment(dept) {
			return 1.0, strings.TrimSpace(dept)
		}
	}
	return 0, ""
}
