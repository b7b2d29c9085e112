// Package search runs the scoring engine across a pre-filtered candidate
// set, then ranks, paginates and assembles explanatory match results.
package search

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"talent-engine/internal/common/errors"
	"talent-engine/internal/common/logger"
	"talent-engine/internal/common/metrics"
	"talent-engine/internal/engine/scoring"
	"talent-engine/internal/store"
)

// Options tune the coordinator. Zero values fall back to defaults.
type Options struct {
	// MaxLimit bounds requested page sizes. Default 100.
	MaxLimit int

	// Concurrency bounds parallel candidate scoring. Default NumCPU.
	Concurrency int

	// DefaultWeights applies to criteria that carry no weights of their own.
	// Zero value falls back to the built-in defaults.
	DefaultWeights scoring.Weights

	// Now pins the reference time for open-ended work intervals.
	Now func() time.Time
}

func (o *Options) applyDefaults() {
	if o.MaxLimit <= 0 {
		o.MaxLimit = 100
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.NumCPU()
	}
	if o.DefaultWeights == (scoring.Weights{}) {
		o.DefaultWeights = scoring.DefaultWeights()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Coordinator is the criteria search entry point.
type Coordinator struct {
	store       store.Store
	scorer      *scoring.Engine
	logger      logger.Logger
	maxLimit    int
	concurrency int
	now         func() time.Time
}

func NewCoordinator(st store.Store, log logger.Logger, opts Options) *Coordinator {
	opts.applyDefaults()
	return &Coordinator{
		store:       st,
		scorer:      scoring.NewEngineWith(opts.Now, opts.DefaultWeights),
		logger:      log.WithFields(map[string]interface{}{"component": "search-coordinator"}),
		maxLimit:    opts.MaxLimit,
		concurrency: opts.Concurrency,
		now:         opts.Now,
	}
}

// MaxLimit returns the configured page-size bound.
func (c *Coordinator) MaxLimit() int {
	return c.maxLimit
}

// Search scores the pre-filtered population against criteria and returns the
// requested page plus the total count of scored candidates. Ordering is fully
// deterministic: score descending, total experience descending, candidate id
// ascending.
func (c *Coordinator) Search(ctx context.Context, criteria scoring.Criteria, limit, offset int) ([]MatchResult, int, error) {
	if limit > c.maxLimit {
		return nil, 0, errors.InvalidArgumentf("limit %d exceeds maximum %d", limit, c.maxLimit)
	}
	return c.Query(ctx, criteria, limit, offset)
}

// Query is Search without the upper page-size bound. The similarity engine
// uses it to request one extra slot for self-exclusion; external callers go
// through Search.
func (c *Coordinator) Query(ctx context.Context, criteria scoring.Criteria, limit, offset int) ([]MatchResult, int, error) {
	start := time.Now()
	status := "ok"
	defer func() {
		metrics.EngineRequestsTotal.WithLabelValues("search", status).Inc()
		metrics.EngineRequestDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	}()

	if limit <= 0 {
		status = "invalid"
		return nil, 0, errors.InvalidArgumentf("limit must be positive, got %d", limit)
	}
	if offset < 0 {
		status = "invalid"
		return nil, 0, errors.InvalidArgumentf("offset must be non-negative, got %d", offset)
	}
	if err := criteria.Validate(); err != nil {
		status = "invalid"
		return nil, 0, err
	}

	ids, err := c.store.QueryCandidates(ctx, buildFilter(criteria))
	if err != nil {
		status = "error"
		return nil, 0, err
	}
	sort.Strings(ids)

	// Single cancellation check between the population fetch and the
	// scoring fan-out; no partial results past this point.
	if err := errors.FromContext(ctx); err != nil {
		status = "cancelled"
		return nil, 0, err
	}

	profiles, err := c.store.BatchLoad(ctx, ids)
	if err != nil {
		status = "error"
		return nil, 0, err
	}

	scored := c.scoreAll(criteria, ids, profiles)
	metrics.CandidatesScored.Add(float64(len(scored)))

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if scored[i].years != scored[j].years {
			return scored[i].years > scored[j].years
		}
		return scored[i].profile.Candidate.ID < scored[j].profile.Candidate.ID
	})

	total := len(scored)

	if offset >= total {
		return []MatchResult{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := scored[offset:end]

	now := c.now()
	results := make([]MatchResult, len(page))
	for i, s := range page {
		results[i] = formatResult(s.profile, s.score, s.reasons, s.breakdown, s.years, now)
	}

	c.logger.Debug("search completed", map[string]interface{}{
		"scored":   total,
		"returned": len(results),
		"offset":   offset,
	})

	return results, total, nil
}

type scoredCandidate struct {
	profile   *store.Profile
	score     float64
	years     float64
	reasons   []string
	breakdown map[string]float64
}

// scoreAll scores candidates in parallel under the concurrency bound. Scoring
// is a pure function of immutable input, so workers share nothing; results
// land at fixed indexes to keep assembly deterministic.
func (c *Coordinator) scoreAll(criteria scoring.Criteria, ids []string, profiles map[string]*store.Profile) []scoredCandidate {
	ordered := make([]*store.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			ordered = append(ordered, p)
		}
	}

	scored := make([]scoredCandidate, len(ordered))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, p := range ordered {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p *store.Profile) {
			defer wg.Done()
			defer func() { <-sem }()
			score, reasons, breakdown := c.scorer.Score(criteria, p)
			scored[i] = scoredCandidate{
				profile:   p,
				score:     score,
				years:     p.TotalExperienceYears(c.now()),
				reasons:   reasons,
				breakdown: breakdown,
			}
		}(i, p)
	}
	wg.Wait()

	return scored
}

// buildFilter derives the store prefilter from criteria. Only predicates
// that cannot exclude a candidate the scorer would still rank are pushed
// down: locations (filter-only criterion) and the experience range padded by
// one range width so linear-decay candidates stay in the population. Company
// and department membership stay weighted dimensions, never prefilters.
func buildFilter(criteria scoring.Criteria) store.Filter {
	var f store.Filter

	f.Locations = criteria.Locations

	if criteria.MinExperienceYears != nil && criteria.MaxExperienceYears != nil {
		min, max := *criteria.MinExperienceYears, *criteria.MaxExperienceYears
		width := max - min
		if width <= 0 {
			width = 1
		}
		lower := monthsFloor(min - width)
		upper := monthsCeil(max + width)
		f.MinExperienceMonths = &lower
		f.MaxExperienceMonths = &upper
	}

	return f
}

func monthsFloor(years float64) int {
	months := int(years * 12)
	if months < 0 {
		return 0
	}
	return months
}

func monthsCeil(years float64) int {
	months := int(years*12) + 1
	if months < 0 {
		return 0
	}
	return months
}
