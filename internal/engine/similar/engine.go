// Package similar ranks candidates by likeness to a reference candidate. It
// derives search criteria from the reference's own profile and delegates to
// the criteria search coordinator.
package similar

import (
	"context"
	"time"

	"talent-engine/internal/common/errors"
	"talent-engine/internal/common/logger"
	"talent-engine/internal/common/metrics"
	"talent-engine/internal/engine/scoring"
	"talent-engine/internal/engine/search"
	"talent-engine/internal/store"
)

// experienceWindowYears is the tolerance band around the reference's total
// experience, so near-peers surface instead of exact matches only.
const experienceWindowYears = 2.0

type Engine struct {
	store       store.Store
	coordinator *search.Coordinator
	logger      logger.Logger
	now         func() time.Time
}

func NewEngine(st store.Store, coordinator *search.Coordinator, log logger.Logger, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:       st,
		coordinator: coordinator,
		logger:      log.WithFields(map[string]interface{}{"component": "similarity-engine"}),
		now:         now,
	}
}

// FindSimilar returns up to limit candidates ranked by similarity to the
// reference candidate. The reference itself never appears in the results.
func (e *Engine) FindSimilar(ctx context.Context, referenceID string, limit int, excludeSameCompany bool) ([]search.MatchResult, error) {
	start := time.Now()
	status := "ok"
	defer func() {
		metrics.EngineRequestsTotal.WithLabelValues("find_similar", status).Inc()
		metrics.EngineRequestDuration.WithLabelValues("find_similar").Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		status = "invalid"
		return nil, errors.InvalidArgumentf("limit must be positive, got %d", limit)
	}
	if limit > e.coordinator.MaxLimit() {
		status = "invalid"
		return nil, errors.InvalidArgumentf("limit %d exceeds maximum %d", limit, e.coordinator.MaxLimit())
	}

	reference, err := e.store.GetCandidate(ctx, referenceID)
	if err != nil {
		status = statusOf(err)
		return nil, err
	}

	criteria := e.deriveCriteria(reference, excludeSameCompany)

	// One extra slot absorbs the reference candidate when it ranks.
	results, _, err := e.coordinator.Query(ctx, criteria, limit+1, 0)
	if err != nil {
		status = statusOf(err)
		return nil, err
	}

	filtered := make([]search.MatchResult, 0, len(results))
	for _, r := range results {
		if r.CandidateID == referenceID {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	e.logger.Debug("similarity search completed", map[string]interface{}{
		"referenceId": referenceID,
		"returned":    len(filtered),
	})

	return filtered, nil
}

// deriveCriteria builds a criteria set from the reference's own profile: its
// skill names, a ±2 year experience window, its current department, and its
// current company as an exclusion when requested.
func (e *Engine) deriveCriteria(reference *store.Profile, excludeSameCompany bool) scoring.Criteria {
	now := e.now()
	years := reference.TotalExperienceYears(now)

	min := years - experienceWindowYears
	if min < 0 {
		min = 0
	}
	max := years + experienceWindowYears

	criteria := scoring.Criteria{
		Skills:             reference.SkillNames(),
		MinExperienceYears: &min,
		MaxExperienceYears: &max,
		SearchType:         scoring.SearchTypeSimilarCandidates,
	}

	if current := reference.CurrentPosition(now); current != nil {
		if current.Department != "" {
			criteria.Departments = []string{current.Department}
		}
		if excludeSameCompany && current.Company != "" {
			criteria.ExcludeCompanies = []string{current.Company}
		}
	}

	return criteria
}

func statusOf(err error) string {
	switch errors.CodeOf(err) {
	case errors.CodeNotFound:
		return "not_found"
	case errors.CodeCancelled:
		return "cancelled"
	case errors.CodeInvalidArgument:
		return "invalid"
	default:
		return "error"
	}
}
