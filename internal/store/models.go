// internal/store/models.go
package store

import (
	"sort"
	"strings"
	"time"

	"talent-engine/pkg/skills"
)

// Candidate is the identity portion of a profile. Records are owned by the
// ingestion pipeline; the engine only reads them.
type Candidate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// WorkExperience is one employment stint. A nil EndDate means the position is
// current. Invariant: StartDate <= EndDate when both are present.
type WorkExperience struct {
	Company     string     `json:"company"`
	Department  string     `json:"department,omitempty"`
	Position    string     `json:"position"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// End returns the stint's end, with open-ended stints clamped to now.
func (w WorkExperience) End(now time.Time) time.Time {
	if w.EndDate != nil {
		return *w.EndDate
	}
	return now
}

// SkillLevel is the ordinal proficiency scale.
type SkillLevel int

const (
	LevelBeginner SkillLevel = iota + 1
	LevelIntermediate
	LevelAdvanced
	LevelExpert
)

func (l SkillLevel) String() string {
	switch l {
	case LevelBeginner:
		return "beginner"
	case LevelIntermediate:
		return "intermediate"
	case LevelAdvanced:
		return "advanced"
	case LevelExpert:
		return "expert"
	default:
		return "unknown"
	}
}

// ParseSkillLevel maps a stored level name to its ordinal, defaulting to
// beginner for unknown values.
func ParseSkillLevel(s string) SkillLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expert":
		return LevelExpert
	case "advanced":
		return LevelAdvanced
	case "intermediate":
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}

// CandidateSkill is one entry of a candidate's skill set, keyed by canonical
// skill name (no duplicates).
type CandidateSkill struct {
	Name     string     `json:"name"`
	Category string     `json:"category,omitempty"`
	Level    SkillLevel `json:"level"`
	Years    float64    `json:"years"`
}

// Profile is a fully loaded candidate: identity, work history, skill set.
type Profile struct {
	Candidate  Candidate        `json:"candidate"`
	Experience []WorkExperience `json:"experience"`
	Skills     []CandidateSkill `json:"skills"`
}

// TotalExperienceYears derives total professional experience by merging
// overlapping work intervals so concurrent stints are not double counted.
func (p *Profile) TotalExperienceYears(now time.Time) float64 {
	if len(p.Experience) == 0 {
		return 0
	}

	type span struct{ start, end time.Time }
	spans := make([]span, 0, len(p.Experience))
	for _, w := range p.Experience {
		end := w.End(now)
		if !end.After(w.StartDate) {
			continue
		}
		spans = append(spans, span{start: w.StartDate, end: end})
	}
	if len(spans) == 0 {
		return 0
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

	totalMonths := 0
	cur := spans[0]
	for _, s := range spans[1:] {
		if !s.start.After(cur.end) {
			if s.end.After(cur.end) {
				cur.end = s.end
			}
			continue
		}
		totalMonths += MonthsBetween(cur.start, cur.end)
		cur = s
	}
	totalMonths += MonthsBetween(cur.start, cur.end)

	return float64(totalMonths) / 12.0
}

// CurrentPosition returns the most recent work entry, preferring open-ended
// stints sorted by start date descending, falling back to the latest end
// date. Nil when the candidate has no work history.
func (p *Profile) CurrentPosition(now time.Time) *WorkExperience {
	var current *WorkExperience
	for i := range p.Experience {
		w := &p.Experience[i]
		if w.EndDate != nil {
			continue
		}
		if current == nil || w.StartDate.After(current.StartDate) {
			current = w
		}
	}
	if current != nil {
		return current
	}
	for i := range p.Experience {
		w := &p.Experience[i]
		if current == nil || w.End(now).After(current.End(now)) {
			current = w
		}
	}
	return current
}

// HasCompany reports whether the candidate ever worked at the named company.
func (p *Profile) HasCompany(company string) bool {
	want := normalizeName(company)
	if want == "" {
		return false
	}
	for _, w := range p.Experience {
		if normalizeName(w.Company) == want {
			return true
		}
	}
	return false
}

// HasDepartment reports whether any work entry is in the named department.
func (p *Profile) HasDepartment(department string) bool {
	want := normalizeName(department)
	if want == "" {
		return false
	}
	for _, w := range p.Experience {
		if normalizeName(w.Department) == want {
			return true
		}
	}
	return false
}

// SkillSet returns the candidate's canonical skill names.
func (p *Profile) SkillSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		if c := skills.Canonical(s.Name); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// SkillNames returns the raw skill names in stored order.
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}

// MonthsBetween counts whole months from a to b, zero when b precedes a.
func MonthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
