// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"time"

	"talent-engine/internal/common/errors"
)

// MemoryStore is an in-memory Store over a fixed profile set. It backs tests
// and local experiments; filter semantics mirror the postgres adapter.
type MemoryStore struct {
	profiles map[string]*Profile
	now      func() time.Time
}

func NewMemoryStore(profiles []*Profile) *MemoryStore {
	m := &MemoryStore{
		profiles: make(map[string]*Profile, len(profiles)),
		now:      time.Now,
	}
	for _, p := range profiles {
		m.profiles[p.Candidate.ID] = p
	}
	return m
}

// WithNow pins the reference time used for experience-month filtering.
func (m *MemoryStore) WithNow(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) GetCandidate(_ context.Context, id string) (*Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, errors.NotFound("candidate", id)
	}
	return p, nil
}

func (m *MemoryStore) QueryCandidates(_ context.Context, filter Filter) ([]string, error) {
	var ids []string
	for id, p := range m.profiles {
		if m.matches(p, filter) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) BatchLoad(_ context.Context, ids []string) (map[string]*Profile, error) {
	out := make(map[string]*Profile, len(ids))
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *MemoryStore) matches(p *Profile, filter Filter) bool {
	if len(filter.Companies) > 0 {
		found := false
		for _, company := range filter.Companies {
			if p.HasCompany(company) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Departments) > 0 {
		found := false
		for _, dept := range filter.Departments {
			if p.HasDepartment(dept) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(filter.Locations) > 0 {
		found := false
		for _, loc := range filter.Locations {
			if normalizeName(loc) == normalizeName(p.Candidate.Location) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.MinExperienceMonths != nil || filter.MaxExperienceMonths != nil {
		months := int(p.TotalExperienceYears(m.now()) * 12)
		if filter.MinExperienceMonths != nil && months < *filter.MinExperienceMonths {
			return false
		}
		if filter.MaxExperienceMonths != nil && months > *filter.MaxExperienceMonths {
			return false
		}
	}
	return true
}
