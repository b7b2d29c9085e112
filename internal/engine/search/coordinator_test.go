package search

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-engine/internal/common/errors"
	"talent-engine/internal/common/logger"
	"talent-engine/internal/engine/scoring"
	"talent-engine/internal/store"
)

var testNow = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func floatPtr(f float64) *float64 { return &f }

func testProfile(id string, years float64, skillNames ...string) *store.Profile {
	start := testNow.AddDate(0, -int(years*12), 0)
	end := testNow
	skills := make([]store.CandidateSkill, len(skillNames))
	for i, name := range skillNames {
		skills[i] = store.CandidateSkill{Name: name, Level: store.LevelAdvanced, Years: years}
	}
	return &store.Profile{
		Candidate: store.Candidate{ID: id, Name: "Candidate " + id},
		Experience: []store.WorkExperience{
			{Company: "Acme", Department: "Engineering", Position: "Engineer", StartDate: start, EndDate: &end},
		},
		Skills: skills,
	}
}

func testCoordinator(profiles ...*store.Profile) *Coordinator {
	st := store.NewMemoryStore(profiles).WithNow(fixedNow)
	return NewCoordinator(st, logger.NewNoOpLogger(), Options{Now: fixedNow})
}

func rankedIDs(results []MatchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.CandidateID
	}
	return ids
}

func TestSearchRanking(t *testing.T) {
	coordinator := testCoordinator(
		testProfile("a1", 6, "Python", "SQL"),
		testProfile("b2", 4, "Python"),
		testProfile("c3", 10, "Java"),
		testProfile("d4", 6, "Python", "Go"),
	)

	criteria := scoring.Criteria{Skills: []string{"Python"}}

	results, total, err := coordinator.Search(context.Background(), criteria, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	// Score descending, then years descending, then id ascending.
	assert.Equal(t, []string{"a1", "d4", "b2", "c3"}, rankedIDs(results))
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, 0.0, results[3].Score)
}

func TestSearchDeterministic(t *testing.T) {
	coordinator := testCoordinator(
		testProfile("a1", 6, "Python"),
		testProfile("b2", 6, "Python"),
		testProfile("c3", 6, "Python"),
	)

	criteria := scoring.Criteria{Skills: []string{"Python"}}

	first, _, err := coordinator.Search(context.Background(), criteria, 10, 0)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, _, err := coordinator.Search(context.Background(), criteria, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, rankedIDs(first), rankedIDs(again))
	}
	assert.Equal(t, []string{"a1", "b2", "c3"}, rankedIDs(first))
}

func TestSearchPaginationStability(t *testing.T) {
	coordinator := testCoordinator(
		testProfile("a1", 6, "Python", "SQL"),
		testProfile("b2", 4, "Python"),
		testProfile("c3", 10, "Java"),
		testProfile("d4", 6, "Python", "Go"),
	)

	criteria := scoring.Criteria{Skills: []string{"Python"}}

	full, fullTotal, err := coordinator.Search(context.Background(), criteria, 4, 0)
	require.NoError(t, err)

	page1, total1, err := coordinator.Search(context.Background(), criteria, 2, 0)
	require.NoError(t, err)
	page2, total2, err := coordinator.Search(context.Background(), criteria, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, fullTotal, total1)
	assert.Equal(t, fullTotal, total2)
	assert.Equal(t, rankedIDs(full), append(rankedIDs(page1), rankedIDs(page2)...))
}

func TestSearchOffsetBeyondTotal(t *testing.T) {
	coordinator := testCoordinator(testProfile("a1", 6, "Python"))

	results, total, err := coordinator.Search(context.Background(), scoring.Criteria{}, 10, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, results)
	assert.NotNil(t, results)
}

func TestSearchEmptyCriteriaScoresEveryoneEqually(t *testing.T) {
	coordinator := testCoordinator(
		testProfile("a1", 6, "Python"),
		testProfile("b2", 2, "Java"),
	)

	results, total, err := coordinator.Search(context.Background(), scoring.Criteria{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, r := range results {
		assert.Equal(t, 1.0, r.Score)
	}
}

func TestSearchInvalidArguments(t *testing.T) {
	coordinator := testCoordinator(testProfile("a1", 6, "Python"))

	tests := []struct {
		name     string
		criteria scoring.Criteria
		limit    int
		offset   int
	}{
		{name: "zero limit", criteria: scoring.Criteria{}, limit: 0},
		{name: "negative limit", criteria: scoring.Criteria{}, limit: -5},
		{name: "limit above maximum", criteria: scoring.Criteria{}, limit: 101},
		{name: "negative offset", criteria: scoring.Criteria{}, limit: 10, offset: -1},
		{
			name: "experience min above max",
			criteria: scoring.Criteria{
				MinExperienceYears: floatPtr(10),
				MaxExperienceYears: floatPtr(5),
			},
			limit: 10,
		},
		{
			name:     "unknown search type",
			criteria: scoring.Criteria{SearchType: "soulmates"},
			limit:    10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := coordinator.Search(context.Background(), tt.criteria, tt.limit, tt.offset)
			assert.True(t, errors.IsInvalidArgument(err), "expected INVALID_ARGUMENT, got %v", err)
		})
	}
}

func TestSearchCancelledContext(t *testing.T) {
	coordinator := testCoordinator(testProfile("a1", 6, "Python"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, total, err := coordinator.Search(ctx, scoring.Criteria{Skills: []string{"Python"}}, 10, 0)
	assert.True(t, errors.IsCancelled(err))
	assert.Nil(t, results)
	assert.Zero(t, total)
}

func TestSearchConfiguredDefaultWeights(t *testing.T) {
	st := store.NewMemoryStore([]*store.Profile{testProfile("a1", 6)}).WithNow(fixedNow)
	coordinator := NewCoordinator(st, logger.NewNoOpLogger(), Options{
		DefaultWeights: scoring.Weights{Skills: 1},
		Now:            fixedNow,
	})

	// Skills miss, experience hits: with all configured weight on skills the
	// candidate must score 0 rather than the built-in 0.3/0.7 blend.
	criteria := scoring.Criteria{
		Skills:             []string{"Python"},
		MinExperienceYears: floatPtr(5),
	}

	results, _, err := coordinator.Search(context.Background(), criteria, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Score)
}

type failingStore struct{}

func (failingStore) GetCandidate(context.Context, string) (*store.Profile, error) {
	return nil, errors.Unavailable("candidate store unreachable", stderrors.New("connection refused"))
}

func (failingStore) QueryCandidates(context.Context, store.Filter) ([]string, error) {
	return nil, errors.Unavailable("candidate store unreachable", stderrors.New("connection refused"))
}

func (failingStore) BatchLoad(context.Context, []string) (map[string]*store.Profile, error) {
	return nil, errors.Unavailable("candidate store unreachable", stderrors.New("connection refused"))
}

func TestSearchStoreUnavailable(t *testing.T) {
	coordinator := NewCoordinator(failingStore{}, logger.NewNoOpLogger(), Options{Now: fixedNow})

	_, _, err := coordinator.Search(context.Background(), scoring.Criteria{}, 10, 0)
	assert.True(t, errors.IsUnavailable(err))
}

func TestSearchHighlights(t *testing.T) {
	p := testProfile("a1", 6, "Python", "SQL", "Go", "Docker")
	p.Candidate.Location = "Berlin"
	coordinator := testCoordinator(p)

	results, _, err := coordinator.Search(context.Background(), scoring.Criteria{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)

	hl := results[0].Highlights
	assert.Equal(t, "Berlin", hl.Location)
	assert.Equal(t, "Engineer at Acme", hl.Headline)
	assert.Len(t, hl.TopSkills, 3)
}
