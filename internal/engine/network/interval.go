// internal/engine/network/interval.go
package network

import (
	"strings"
	"time"

	"talent-engine/internal/store"
)

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// intersect computes the date-range intersection of two work stints.
// Open-ended stints are clamped to now. ok is false when the ranges only
// touch or do not overlap at all.
func intersect(a, b store.WorkExperience, now time.Time) (start, end time.Time, ok bool) {
	start = a.StartDate
	if b.StartDate.After(start) {
		start = b.StartDate
	}
	end = a.End(now)
	if bEnd := b.End(now); bEnd.Before(end) {
		end = bEnd
	}
	return start, end, end.After(start)
}

// bestOverlap finds the longest overlapping stint pair between two candidates
// at a shared company. A pair may have multiple overlapping stints; keeping
// only the longest per ordered pair avoids duplicate edges. Returns nil when
// the candidates never overlapped.
func bestOverlap(a, b *store.Profile, now time.Time) *ConnectionEdge {
	var best *ConnectionEdge
	for _, wa := range a.Experience {
		companyA := strings.ToLower(strings.TrimSpace(wa.Company))
		if companyA == "" {
			continue
		}
		for _, wb := range b.Experience {
			if companyA != strings.ToLower(strings.TrimSpace(wb.Company)) {
				continue
			}
			start, end, ok := intersect(wa, wb, now)
			if !ok {
				continue
			}
			months := store.MonthsBetween(start, end)

			relationship := RelationSameCompany
			sharedDept := ""
			if wa.Department != "" &&
				strings.EqualFold(strings.TrimSpace(wa.Department), strings.TrimSpace(wb.Department)) {
				relationship = RelationColleague
				sharedDept = wa.Department
			}

			candidate := &ConnectionEdge{
				CandidateA:       a.Candidate.ID,
				CandidateB:       b.Candidate.ID,
				Name:             b.Candidate.Name,
				Relationship:     relationship,
				SharedCompany:    wa.Company,
				SharedDepartment: sharedDept,
				OverlapStart:     start,
				OverlapEnd:       end,
				OverlapMonths:    months,
				Degree:           1,
			}
			if betterOverlap(candidate, best) {
				best = candidate
			}
		}
	}
	return best
}

// betterOverlap orders overlap candidates deterministically: longer duration
// wins, then the earlier overlap start, then the later overlap end, then
// colleague over same_company. Month truncation lets two overlaps tie on
// duration and start while ending on different days, so the end date must be
// part of the chain or the winner would depend on stint enumeration order.
func betterOverlap(candidate, current *ConnectionEdge) bool {
	if current == nil {
		return true
	}
	if candidate.OverlapMonths != current.OverlapMonths {
		return candidate.OverlapMonths > current.OverlapMonths
	}
	if !candidate.OverlapStart.Equal(current.OverlapStart) {
		return candidate.OverlapStart.Before(current.OverlapStart)
	}
	if !candidate.OverlapEnd.Equal(current.OverlapEnd) {
		return candidate.OverlapEnd.After(current.OverlapEnd)
	}
	return candidate.Relationship == RelationColleague && current.Relationship != RelationColleague
}
