// Package network discovers professional connections between candidates from
// temporal overlap of their work-history intervals, including bounded-depth
// traversal for indirect connections. The colleague relation is computed on
// demand from interval data; no adjacency structure is ever materialized.
package network

import (
	"context"
	"sort"
	"time"

	"talent-engine/internal/common/errors"
	"talent-engine/internal/common/logger"
	"talent-engine/internal/common/metrics"
	"talent-engine/internal/store"
)

// HardMaxDepth bounds indirect traversal regardless of configuration. Each
// hop re-runs direct-edge computation for every frontier node, so fan-out
// grows combinatorially on dense graphs.
const HardMaxDepth = 3

// RelationType classifies a connection edge.
type RelationType string

const (
	// RelationColleague marks overlapping stints at the same company and
	// department.
	RelationColleague RelationType = "colleague"

	// RelationSameCompany marks overlapping stints at the same company in
	// different (or unknown) departments.
	RelationSameCompany RelationType = "same_company"

	// RelationSameDepartment is reserved for department-level grouping
	// produced by the interpretation layer; interval analysis never emits it.
	RelationSameDepartment RelationType = "same_department"
)

// ConnectionEdge is a derived connection between two candidates. Recomputing
// it is idempotent; it is never persisted.
type ConnectionEdge struct {
	CandidateA       string       `json:"candidate_a"`
	CandidateB       string       `json:"candidate_b"`
	Name             string       `json:"name,omitempty"`
	Relationship     RelationType `json:"relationship"`
	SharedCompany    string       `json:"shared_company"`
	SharedDepartment string       `json:"shared_department,omitempty"`
	OverlapStart     time.Time    `json:"overlap_start"`
	OverlapEnd       time.Time    `json:"overlap_end"`
	OverlapMonths    int          `json:"overlap_months"`

	// Degree is the hop distance from the target: 1 for direct edges.
	Degree int `json:"degree"`

	// ConnectionPath lists candidate ids from the target to the discovered
	// node, shortest path first found. Only set on indirect edges.
	ConnectionPath []string `json:"connection_path,omitempty"`
}

// Options tune the engine. Zero values fall back to defaults.
type Options struct {
	// MaxLimit bounds requested result sizes. Default 100.
	MaxLimit int

	// DefaultMaxDepth applies when an indirect query passes maxDepth 0.
	// Default 2, capped at HardMaxDepth.
	DefaultMaxDepth int

	// DefaultMinOverlapMonths is the overlap threshold the request layer
	// applies when a query leaves it unset. Default 1.
	DefaultMinOverlapMonths int

	// Now pins the reference time for open-ended work intervals.
	Now func() time.Time
}

func (o *Options) applyDefaults() {
	if o.MaxLimit <= 0 {
		o.MaxLimit = 100
	}
	if o.DefaultMaxDepth <= 0 || o.DefaultMaxDepth > HardMaxDepth {
		o.DefaultMaxDepth = 2
	}
	if o.DefaultMinOverlapMonths <= 0 {
		o.DefaultMinOverlapMonths = 1
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

type Engine struct {
	store             store.Store
	logger            logger.Logger
	maxLimit          int
	defaultMaxDepth   int
	defaultMinOverlap int
	now               func() time.Time
}

func NewEngine(st store.Store, log logger.Logger, opts Options) *Engine {
	opts.applyDefaults()
	return &Engine{
		store:             st,
		logger:            log.WithFields(map[string]interface{}{"component": "network-engine"}),
		maxLimit:          opts.MaxLimit,
		defaultMaxDepth:   opts.DefaultMaxDepth,
		defaultMinOverlap: opts.DefaultMinOverlapMonths,
		now:               opts.Now,
	}
}

// DefaultMinOverlapMonths returns the configured overlap threshold for
// queries that leave it unset. Zero stays a valid explicit value, so the
// default is applied by the caller, never inferred here.
func (e *Engine) DefaultMinOverlapMonths() int {
	return e.defaultMinOverlap
}

// FindColleagues returns the target's connection edges: direct colleagues by
// interval overlap, plus indirect connections via breadth-first traversal
// when includeIndirect is set. Direct edges sort by overlap duration
// descending; indirect results sort by hop distance ascending, then overlap
// duration descending. The limit truncates only after sorting.
func (e *Engine) FindColleagues(ctx context.Context, candidateID string, minOverlapMonths int, includeIndirect bool, maxDepth, limit int) ([]ConnectionEdge, error) {
	start := time.Now()
	status := "ok"
	defer func() {
		metrics.EngineRequestsTotal.WithLabelValues("find_colleagues", status).Inc()
		metrics.EngineRequestDuration.WithLabelValues("find_colleagues").Observe(time.Since(start).Seconds())
	}()

	// All argument checks precede any computation.
	if maxDepth > HardMaxDepth {
		status = "invalid"
		return nil, errors.InvalidArgumentf("maxDepth %d exceeds maximum %d", maxDepth, HardMaxDepth)
	}
	if maxDepth < 0 {
		status = "invalid"
		return nil, errors.InvalidArgumentf("maxDepth must be non-negative, got %d", maxDepth)
	}
	if minOverlapMonths < 0 {
		status = "invalid"
		return nil, errors.InvalidArgumentf("minOverlapMonths must be non-negative, got %d", minOverlapMonths)
	}
	if limit <= 0 {
		status = "invalid"
		return nil, errors.InvalidArgumentf("limit must be positive, got %d", limit)
	}
	if limit > e.maxLimit {
		status = "invalid"
		return nil, errors.InvalidArgumentf("limit %d exceeds maximum %d", limit, e.maxLimit)
	}
	if maxDepth == 0 {
		maxDepth = e.defaultMaxDepth
	}

	target, err := e.store.GetCandidate(ctx, candidateID)
	if err != nil {
		status = statusOf(err)
		return nil, err
	}

	direct, err := e.directEdges(ctx, target, minOverlapMonths)
	if err != nil {
		status = statusOf(err)
		return nil, err
	}

	if !includeIndirect {
		sortDirect(direct)
		return truncate(direct, limit), nil
	}

	edges, err := e.traverse(ctx, target, direct, minOverlapMonths, maxDepth)
	if err != nil {
		status = statusOf(err)
		return nil, err
	}

	sortIndirect(edges)
	return truncate(edges, limit), nil
}

// directEdges computes all first-degree connection edges for one candidate.
// The candidate pool is prefiltered to shared-company membership; results
// come back in ascending candidate id order before sorting, so ties are
// deterministic.
func (e *Engine) directEdges(ctx context.Context, target *store.Profile, minOverlapMonths int) ([]ConnectionEdge, error) {
	companies := companiesOf(target)
	if len(companies) == 0 {
		return nil, nil
	}

	ids, err := e.store.QueryCandidates(ctx, store.Filter{Companies: companies})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	others := ids[:0]
	for _, id := range ids {
		if id != target.Candidate.ID {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return nil, nil
	}

	profiles, err := e.store.BatchLoad(ctx, others)
	if err != nil {
		return nil, err
	}

	now := e.now()
	var edges []ConnectionEdge
	for _, id := range others {
		other, ok := profiles[id]
		if !ok {
			continue
		}
		edge := bestOverlap(target, other, now)
		if edge == nil || edge.OverlapMonths < minOverlapMonths {
			continue
		}
		edges = append(edges, *edge)
	}
	return edges, nil
}

// traverse expands the direct neighbor set breadth-first up to maxDepth hops.
// A visited set guarantees termination on the cyclic colleague relation, and
// ascending-id frontier order makes shortest-path ties deterministic.
func (e *Engine) traverse(ctx context.Context, target *store.Profile, direct []ConnectionEdge, minOverlapMonths, maxDepth int) ([]ConnectionEdge, error) {
	targetID := target.Candidate.ID

	visited := map[string]bool{targetID: true}
	paths := map[string][]string{}

	results := make([]ConnectionEdge, 0, len(direct))
	var frontier []string
	for _, edge := range direct {
		visited[edge.CandidateB] = true
		paths[edge.CandidateB] = []string{targetID, edge.CandidateB}
		results = append(results, edge)
		frontier = append(frontier, edge.CandidateB)
	}
	sort.Strings(frontier)

	for depth := 2; depth <= maxDepth && len(frontier) > 0; depth++ {
		// Cancellation is only observed between hop expansions; a cancelled
		// request never returns partial results.
		if err := errors.FromContext(ctx); err != nil {
			return nil, err
		}

		var next []string
		for _, nodeID := range frontier {
			metrics.NetworkExpansions.Inc()

			node, err := e.store.GetCandidate(ctx, nodeID)
			if err != nil {
				return nil, err
			}
			neighbors, err := e.directEdges(ctx, node, minOverlapMonths)
			if err != nil {
				return nil, err
			}

			// directEdges returns ascending CandidateB order already, but the
			// traversal contract depends on it, so keep it explicit.
			sort.Slice(neighbors, func(i, j int) bool {
				return neighbors[i].CandidateB < neighbors[j].CandidateB
			})

			for _, edge := range neighbors {
				if visited[edge.CandidateB] {
					continue
				}
				visited[edge.CandidateB] = true

				path := append(append([]string{}, paths[nodeID]...), edge.CandidateB)
				paths[edge.CandidateB] = path

				indirect := edge
				indirect.Degree = depth
				indirect.ConnectionPath = path
				results = append(results, indirect)
				next = append(next, edge.CandidateB)
			}
		}
		sort.Strings(next)
		frontier = next
	}

	return results, nil
}

func companiesOf(p *store.Profile) []string {
	seen := make(map[string]struct{}, len(p.Experience))
	var companies []string
	for _, w := range p.Experience {
		name := w.Company
		if name == "" {
			continue
		}
		key := normalizeKey(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		companies = append(companies, name)
	}
	sort.Strings(companies)
	return companies
}

func sortDirect(edges []ConnectionEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].OverlapMonths != edges[j].OverlapMonths {
			return edges[i].OverlapMonths > edges[j].OverlapMonths
		}
		return edges[i].CandidateB < edges[j].CandidateB
	})
}

func sortIndirect(edges []ConnectionEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Degree != edges[j].Degree {
			return edges[i].Degree < edges[j].Degree
		}
		if edges[i].OverlapMonths != edges[j].OverlapMonths {
			return edges[i].OverlapMonths > edges[j].OverlapMonths
		}
		return edges[i].CandidateB < edges[j].CandidateB
	})
}

func truncate(edges []ConnectionEdge, limit int) []ConnectionEdge {
	if edges == nil {
		return []ConnectionEdge{}
	}
	if len(edges) > limit {
		return edges[:limit]
	}
	return edges
}

func statusOf(err error) string {
	switch errors.CodeOf(err) {
	case errors.CodeNotFound:
		return "not_found"
	case errors.CodeCancelled:
		return "cancelled"
	default:
		return "error"
	}
}
