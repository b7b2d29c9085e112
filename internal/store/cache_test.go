package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-engine/internal/common/logger"
)

// countingStore records how often the inner store is hit.
type countingStore struct {
	Store
	gets    int
	batches [][]string
}

func (c *countingStore) GetCandidate(ctx context.Context, id string) (*Profile, error) {
	c.gets++
	return c.Store.GetCandidate(ctx, id)
}

func (c *countingStore) BatchLoad(ctx context.Context, ids []string) (map[string]*Profile, error) {
	c.batches = append(c.batches, ids)
	return c.Store.BatchLoad(ctx, ids)
}

func newTestCache(t *testing.T, profiles ...*Profile) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &countingStore{Store: NewMemoryStore(profiles)}
	cache := NewCachedStore(inner, client, time.Minute, logger.NewNoOpLogger())
	return cache, inner, mr
}

func testCandidate(id string) *Profile {
	return &Profile{
		Candidate: Candidate{ID: id, Name: "Candidate " + id},
		Experience: []WorkExperience{
			{Company: "Acme", Department: "Engineering", Position: "Engineer", StartDate: date(2020, 1, 1)},
		},
		Skills: []CandidateSkill{{Name: "Python", Level: LevelAdvanced, Years: 4}},
	}
}

func TestCachedGetCandidate(t *testing.T) {
	cache, inner, mr := newTestCache(t, testCandidate("c1"))
	ctx := context.Background()

	first, err := cache.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.gets)
	assert.True(t, mr.Exists("candidate:profile:c1"))

	second, err := cache.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, inner.gets, "second read must come from the cache")
	assert.Equal(t, first.Candidate, second.Candidate)
	assert.Equal(t, first.Skills, second.Skills)
}

func TestCachedGetCandidateMissPassthrough(t *testing.T) {
	cache, _, _ := newTestCache(t)

	_, err := cache.GetCandidate(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestCachedBatchLoadOnlyFetchesMissing(t *testing.T) {
	cache, inner, _ := newTestCache(t, testCandidate("a1"), testCandidate("b2"))
	ctx := context.Background()

	_, err := cache.GetCandidate(ctx, "a1")
	require.NoError(t, err)

	profiles, err := cache.BatchLoad(ctx, []string{"a1", "b2"})
	require.NoError(t, err)
	assert.Len(t, profiles, 2)

	require.Len(t, inner.batches, 1)
	assert.Equal(t, []string{"b2"}, inner.batches[0])
}

func TestCachedCorruptEntryFallsThrough(t *testing.T) {
	cache, inner, mr := newTestCache(t, testCandidate("c1"))
	require.NoError(t, mr.Set("candidate:profile:c1", "{not json"))

	p, err := cache.GetCandidate(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", p.Candidate.ID)
	assert.Equal(t, 1, inner.gets)
}

func TestCachedEntryExpires(t *testing.T) {
	cache, inner, mr := newTestCache(t, testCandidate("c1"))
	ctx := context.Background()

	_, err := cache.GetCandidate(ctx, "c1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.GetCandidate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.gets)
}

func TestCachedQueryPassesThrough(t *testing.T) {
	cache, _, _ := newTestCache(t, testCandidate("a1"), testCandidate("b2"))

	ids, err := cache.QueryCandidates(context.Background(), Filter{Companies: []string{"Acme"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "b2"}, ids)
}
