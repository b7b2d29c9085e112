// internal/engine/search/result.go
package search

import (
	"sort"
	"time"

	"talent-engine/internal/store"
)

// Highlights are the display fields attached to a ranked result.
type Highlights struct {
	TopSkills []string `json:"top_skills,omitempty"`
	Location  string   `json:"location,omitempty"`
	Headline  string   `json:"headline,omitempty"`
}

// MatchResult is one ranked search hit. Created fresh per invocation, never
// persisted.
type MatchResult struct {
	CandidateID     string             `json:"candidate_id"`
	Name            string             `json:"name"`
	Score           float64            `json:"score"`
	Breakdown       map[string]float64 `json:"breakdown"`
	Reasons         []string           `json:"reasons,omitempty"`
	ExperienceYears float64            `json:"experience_years"`
	Highlights      Highlights         `json:"highlights"`
}

const topSkillCount = 3

// formatResult shapes a scored profile into a MatchResult with highlights.
func formatResult(p *store.Profile, score float64, reasons []string, breakdown map[string]float64, years float64, now time.Time) MatchResult {
	result := MatchResult{
		CandidateID:     p.Candidate.ID,
		Name:            p.Candidate.Name,
		Score:           score,
		Breakdown:       breakdown,
		Reasons:         reasons,
		ExperienceYears: years,
		Highlights: Highlights{
			TopSkills: topSkills(p),
			Location:  p.Candidate.Location,
			Headline:  headline(p, now),
		},
	}
	return result
}

// topSkills picks the strongest skills: proficiency first, then years, then
// name for a stable order.
func topSkills(p *store.Profile) []string {
	if len(p.Skills) == 0 {
		return nil
	}
	ranked := make([]store.CandidateSkill, len(p.Skills))
	copy(ranked, p.Skills)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Level != ranked[j].Level {
			return ranked[i].Level > ranked[j].Level
		}
		if ranked[i].Years != ranked[j].Years {
			return ranked[i].Years > ranked[j].Years
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > topSkillCount {
		ranked = ranked[:topSkillCount]
	}
	names := make([]string, len(ranked))
	for i, s := range ranked {
		names[i] = s.Name
	}
	return names
}

func headline(p *store.Profile, now time.Time) string {
	current := p.CurrentPosition(now)
	if current == nil {
		return ""
	}
	if current.Position == "" {
		return current.Company
	}
	return current.Position + " at " + current.Company
}
