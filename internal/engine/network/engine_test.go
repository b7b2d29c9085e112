package network

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-engine/internal/common/errors"
	"talent-engine/internal/common/logger"
	"talent-engine/internal/store"
)

func testEngine(profiles ...*store.Profile) *Engine {
	st := store.NewMemoryStore(profiles).WithNow(fixedNow)
	return NewEngine(st, logger.NewNoOpLogger(), Options{Now: fixedNow})
}

func edgeIDs(edges []ConnectionEdge) []string {
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.CandidateB
	}
	return ids
}

func TestFindColleaguesDirect(t *testing.T) {
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 6, 1), date(2022, 6, 1))),
		worker("b", stint("Acme", "Engineering", date(2021, 1, 1), date(2023, 1, 1))),
		worker("c", stint("Acme", "Sales", date(2021, 6, 1), date(2022, 1, 1))),
		worker("d", stint("Globex", "Engineering", date(2020, 1, 1), date(2023, 1, 1))),
	)

	edges, err := engine.FindColleagues(context.Background(), "a", 1, false, 0, 20)
	require.NoError(t, err)

	// Overlap duration descending: b (17 months) before c (7 months); d never
	// shared a company.
	require.Len(t, edges, 2)

	assert.Equal(t, "b", edges[0].CandidateB)
	assert.Equal(t, 17, edges[0].OverlapMonths)
	assert.Equal(t, RelationColleague, edges[0].Relationship)
	assert.Equal(t, date(2021, 1, 1), edges[0].OverlapStart)
	assert.Equal(t, date(2022, 6, 1), edges[0].OverlapEnd)
	assert.Equal(t, 1, edges[0].Degree)
	assert.Empty(t, edges[0].ConnectionPath)

	assert.Equal(t, "c", edges[1].CandidateB)
	assert.Equal(t, 7, edges[1].OverlapMonths)
	assert.Equal(t, RelationSameCompany, edges[1].Relationship)
}

func TestFindColleaguesMinOverlapThreshold(t *testing.T) {
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 6, 1), date(2022, 6, 1))),
		worker("b", stint("Acme", "Engineering", date(2021, 1, 1), date(2023, 1, 1))),
		worker("c", stint("Acme", "Sales", date(2021, 6, 1), date(2022, 1, 1))),
	)

	edges, err := engine.FindColleagues(context.Background(), "a", 12, false, 0, 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, edgeIDs(edges))
}

func TestFindColleaguesIndirect(t *testing.T) {
	// a and b overlapped at Acme, b and c overlapped at Globex. c is only
	// reachable through b.
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
		worker("b",
			stint("Acme", "Engineering", date(2020, 1, 1), date(2021, 1, 1)),
			stint("Globex", "Engineering", date(2021, 1, 1), date(2023, 1, 1)),
		),
		worker("c", stint("Globex", "Engineering", date(2021, 1, 1), date(2023, 1, 1))),
	)

	edges, err := engine.FindColleagues(context.Background(), "a", 1, true, 2, 20)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	assert.Equal(t, "b", edges[0].CandidateB)
	assert.Equal(t, 1, edges[0].Degree)
	assert.Empty(t, edges[0].ConnectionPath)

	assert.Equal(t, "c", edges[1].CandidateB)
	assert.Equal(t, 2, edges[1].Degree)
	assert.Equal(t, []string{"a", "b", "c"}, edges[1].ConnectionPath)
}

func TestFindColleaguesDepthOneFindsNoIndirect(t *testing.T) {
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
		worker("b",
			stint("Acme", "Engineering", date(2020, 1, 1), date(2021, 1, 1)),
			stint("Globex", "Engineering", date(2021, 1, 1), date(2023, 1, 1)),
		),
		worker("c", stint("Globex", "Engineering", date(2021, 1, 1), date(2023, 1, 1))),
	)

	edges, err := engine.FindColleagues(context.Background(), "a", 1, true, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, edgeIDs(edges))
}

func TestFindColleaguesCycleTerminates(t *testing.T) {
	// Triangle: every pair overlapped at Acme. Traversal must terminate and
	// report each connection exactly once.
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
		worker("b", stint("Acme", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
		worker("c", stint("Acme", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
	)

	edges, err := engine.FindColleagues(context.Background(), "a", 1, true, 3, 20)
	require.NoError(t, err)

	require.Len(t, edges, 2)
	assert.ElementsMatch(t, []string{"b", "c"}, edgeIDs(edges))
	for _, e := range edges {
		assert.Equal(t, 1, e.Degree)
	}
}

func TestFindColleaguesIndirectOrdering(t *testing.T) {
	// Direct neighbors first regardless of overlap length, then second-degree
	// connections by overlap descending.
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2021, 1, 1), date(2021, 4, 1))),
		worker("b",
			stint("Acme", "Engineering", date(2021, 1, 1), date(2021, 4, 1)),
			stint("Globex", "Engineering", date(2018, 1, 1), date(2023, 1, 1)),
		),
		worker("c", stint("Globex", "Engineering", date(2018, 1, 1), date(2023, 1, 1))),
		worker("d", stint("Globex", "Engineering", date(2021, 1, 1), date(2022, 1, 1))),
	)

	edges, err := engine.FindColleagues(context.Background(), "a", 1, true, 2, 20)
	require.NoError(t, err)

	require.Equal(t, []string{"b", "c", "d"}, edgeIDs(edges))
	assert.Equal(t, 1, edges[0].Degree)
	assert.Equal(t, 2, edges[1].Degree)
	assert.Equal(t, 2, edges[2].Degree)
	assert.Greater(t, edges[1].OverlapMonths, edges[2].OverlapMonths)
}

func TestFindColleaguesLimitAfterSort(t *testing.T) {
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 6, 1), date(2022, 6, 1))),
		worker("b", stint("Acme", "Engineering", date(2021, 1, 1), date(2023, 1, 1))),
		worker("c", stint("Acme", "Sales", date(2021, 6, 1), date(2022, 1, 1))),
	)

	edges, err := engine.FindColleagues(context.Background(), "a", 1, false, 0, 1)
	require.NoError(t, err)

	// The longest overlap survives truncation, not an arbitrary edge.
	assert.Equal(t, []string{"b"}, edgeIDs(edges))
}

func TestFindColleaguesNoConnections(t *testing.T) {
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
		worker("b", stint("Globex", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
	)

	edges, err := engine.FindColleagues(context.Background(), "a", 1, false, 0, 20)
	require.NoError(t, err)
	assert.NotNil(t, edges)
	assert.Empty(t, edges)
}

func TestFindColleaguesUnknownCandidate(t *testing.T) {
	engine := testEngine()

	_, err := engine.FindColleagues(context.Background(), "ghost", 1, false, 0, 20)
	assert.True(t, errors.IsNotFound(err))
}

// explodingStore fails the test on any access; argument validation must come
// before any store interaction.
type explodingStore struct {
	t *testing.T
}

func (s explodingStore) GetCandidate(context.Context, string) (*store.Profile, error) {
	s.t.Fatal("store accessed during argument validation")
	return nil, nil
}

func (s explodingStore) QueryCandidates(context.Context, store.Filter) ([]string, error) {
	s.t.Fatal("store accessed during argument validation")
	return nil, nil
}

func (s explodingStore) BatchLoad(context.Context, []string) (map[string]*store.Profile, error) {
	s.t.Fatal("store accessed during argument validation")
	return nil, nil
}

func TestFindColleaguesInvalidArguments(t *testing.T) {
	tests := []struct {
		name             string
		minOverlapMonths int
		maxDepth         int
		limit            int
	}{
		{name: "maxDepth above hard cap", minOverlapMonths: 1, maxDepth: 4, limit: 20},
		{name: "negative maxDepth", minOverlapMonths: 1, maxDepth: -1, limit: 20},
		{name: "negative minOverlapMonths", minOverlapMonths: -1, maxDepth: 2, limit: 20},
		{name: "zero limit", minOverlapMonths: 1, maxDepth: 2, limit: 0},
		{name: "limit above maximum", minOverlapMonths: 1, maxDepth: 2, limit: 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(explodingStore{t: t}, logger.NewNoOpLogger(), Options{Now: fixedNow})

			_, err := engine.FindColleagues(context.Background(), "a", tt.minOverlapMonths, true, tt.maxDepth, tt.limit)
			assert.True(t, errors.IsInvalidArgument(err), "expected INVALID_ARGUMENT, got %v", err)
		})
	}
}

func TestDefaultMinOverlapMonths(t *testing.T) {
	st := store.NewMemoryStore(nil)

	engine := NewEngine(st, logger.NewNoOpLogger(), Options{DefaultMinOverlapMonths: 6})
	assert.Equal(t, 6, engine.DefaultMinOverlapMonths())

	engine = NewEngine(st, logger.NewNoOpLogger(), Options{})
	assert.Equal(t, 1, engine.DefaultMinOverlapMonths())
}

func TestFindColleaguesCancelledBetweenHops(t *testing.T) {
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
		worker("b", stint("Acme", "Engineering", date(2020, 1, 1), date(2022, 1, 1))),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	edges, err := engine.FindColleagues(ctx, "a", 1, true, 2, 20)
	assert.True(t, errors.IsCancelled(err))
	assert.Nil(t, edges)
}

func TestFindColleaguesOverlapSymmetric(t *testing.T) {
	engine := testEngine(
		worker("a", stint("Acme", "Engineering", date(2020, 6, 1), date(2022, 6, 1))),
		worker("b", stint("Acme", "Engineering", date(2021, 1, 1), date(2023, 1, 1))),
	)

	fromA, err := engine.FindColleagues(context.Background(), "a", 1, false, 0, 20)
	require.NoError(t, err)
	fromB, err := engine.FindColleagues(context.Background(), "b", 1, false, 0, 20)
	require.NoError(t, err)

	require.Len(t, fromA, 1)
	require.Len(t, fromB, 1)
	assert.Equal(t, fromA[0].OverlapMonths, fromB[0].OverlapMonths)
	assert.Equal(t, fromA[0].OverlapStart, fromB[0].OverlapStart)
	assert.Equal(t, fromA[0].OverlapEnd, fromB[0].OverlapEnd)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), fromA[0].OverlapStart)
}
