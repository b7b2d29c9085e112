// Package engine assembles the matching and network discovery components
// behind one facade. Every call is synchronous, independent, and side-effect
// free with respect to the engine's own state: it only reads from the store.
package engine

import (
	"context"
	"time"

	"talent-engine/internal/common/config"
	"talent-engine/internal/common/logger"
	"talent-engine/internal/engine/network"
	"talent-engine/internal/engine/scoring"
	"talent-engine/internal/engine/search"
	"talent-engine/internal/engine/similar"
	"talent-engine/internal/store"
)

// Options tune the engine facade. Zero values fall back to defaults.
type Options struct {
	MaxLimit                int
	Concurrency             int
	DefaultMaxDepth         int
	DefaultMinOverlapMonths int
	DefaultWeights          scoring.Weights
	Now                     func() time.Time
}

// OptionsFromConfig maps the engine configuration section onto Options.
func OptionsFromConfig(cfg config.EngineConfig) Options {
	return Options{
		MaxLimit:                cfg.MaxLimit,
		Concurrency:             cfg.Concurrency,
		DefaultMaxDepth:         cfg.MaxDepth,
		DefaultMinOverlapMonths: cfg.DefaultMinOverlapMonths,
		DefaultWeights: scoring.Weights{
			Skills:     cfg.Weights.Skills,
			Experience: cfg.Weights.Experience,
			Company:    cfg.Weights.Company,
			Department: cfg.Weights.Department,
		},
	}
}

// Engine is the surface the request-handling layer consumes.
type Engine struct {
	coordinator *search.Coordinator
	similarity  *similar.Engine
	network     *network.Engine
}

func New(st store.Store, log logger.Logger, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	coordinator := search.NewCoordinator(st, log, search.Options{
		MaxLimit:       opts.MaxLimit,
		Concurrency:    opts.Concurrency,
		DefaultWeights: opts.DefaultWeights,
		Now:            opts.Now,
	})

	return &Engine{
		coordinator: coordinator,
		similarity:  similar.NewEngine(st, coordinator, log, opts.Now),
		network: network.NewEngine(st, log, network.Options{
			MaxLimit:                opts.MaxLimit,
			DefaultMaxDepth:         opts.DefaultMaxDepth,
			DefaultMinOverlapMonths: opts.DefaultMinOverlapMonths,
			Now:                     opts.Now,
		}),
	}
}

// DefaultMinOverlapMonths is the colleague-overlap threshold applied when a
// request leaves it unset.
func (e *Engine) DefaultMinOverlapMonths() int {
	return e.network.DefaultMinOverlapMonths()
}

// Search runs a multi-criteria candidate search. See search.Coordinator.
func (e *Engine) Search(ctx context.Context, criteria scoring.Criteria, limit, offset int) ([]search.MatchResult, int, error) {
	return e.coordinator.Search(ctx, criteria, limit, offset)
}

// FindSimilar ranks candidates by likeness to a reference candidate. See
// similar.Engine.
func (e *Engine) FindSimilar(ctx context.Context, referenceID string, limit int, excludeSameCompany bool) ([]search.MatchResult, error) {
	return e.similarity.FindSimilar(ctx, referenceID, limit, excludeSameCompany)
}

// FindColleagues discovers direct and indirect connections through work
// history overlap. See network.Engine.
func (e *Engine) FindColleagues(ctx context.Context, candidateID string, minOverlapMonths int, includeIndirect bool, maxDepth, limit int) ([]network.ConnectionEdge, error) {
	return e.network.FindColleagues(ctx, candidateID, minOverlapMonths, includeIndirect, maxDepth, limit)
}
