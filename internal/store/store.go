// Package store is the candidate store adapter: read-only access to
// candidate, work-history and skill records held by the external persistence
// service. It returns plain in-memory structures; the engine owns no state.
package store

import "context"

// Filter carries only cheap, indexable predicates. It pre-filters the
// population before scoring; it is not a replacement for scoring.
type Filter struct {
	Companies           []string
	Departments         []string
	Locations           []string
	MinExperienceMonths *int
	MaxExperienceMonths *int
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return len(f.Companies) == 0 &&
		len(f.Departments) == 0 &&
		len(f.Locations) == 0 &&
		f.MinExperienceMonths == nil &&
		f.MaxExperienceMonths == nil
}

// Store is the read interface the engine consumes. Implementations must be
// safe for concurrent use.
type Store interface {
	// GetCandidate loads one full profile. Unresolved ids surface as a
	// NOT_FOUND engine error.
	GetCandidate(ctx context.Context, id string) (*Profile, error)

	// QueryCandidates returns the ids matching the filter, ascending.
	QueryCandidates(ctx context.Context, filter Filter) ([]string, error)

	// BatchLoad loads full profiles for a set of ids. Unknown ids are
	// silently absent from the result map.
	BatchLoad(ctx context.Context, ids []string) (map[string]*Profile, error)
}
