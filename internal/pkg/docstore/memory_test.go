package docstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID        string    `bson:"_id"`
	Owner     string    `bson:"owner"`
	Tags      []string  `bson:"tags"`
	Score     int64     `bson:"score"`
	Hits      int64     `bson:"hits"`
	CreatedAt time.Time `bson:"createdAt"`
}

func TestMemoryStore_CreateIsConditional(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, "items", "a", &item{Owner: "alice"}))
	err := s.Create(ctx, "items", "a", &item{Owner: "bob"})
	assert.ErrorIs(t, err, ErrDuplicate)

	var got item
	require.NoError(t, s.Get(ctx, "items", "a", &got))
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "alice", got.Owner)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	var got item
	err := NewMemoryStore().Get(context.Background(), "items", "nope", &got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "items", "a", &item{Owner: "alice", Score: 3}))

	require.NoError(t, s.Update(ctx, "items", "a", map[string]any{"score": int64(9)}))

	var got item
	require.NoError(t, s.Get(ctx, "items", "a", &got))
	assert.Equal(t, "alice", got.Owner)
	assert.Equal(t, int64(9), got.Score)

	assert.ErrorIs(t, s.Update(ctx, "items", "missing", map[string]any{"score": 1}), ErrNotFound)
}

func TestMemoryStore_IncrementConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "items", "a", &item{}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Increment(ctx, "items", "a", map[string]int64{"score": 1, "hits": -1})
		}()
	}
	wg.Wait()

	var got item
	require.NoError(t, s.Get(ctx, "items", "a", &got))
	assert.Equal(t, int64(50), got.Score)
	assert.Equal(t, int64(-50), got.Hits)

	assert.ErrorIs(t, s.Increment(ctx, "items", "missing", map[string]int64{"score": 1}), ErrNotFound)
}

func TestMemoryStore_QueryFiltersOrdersAndLimits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Set(ctx, "items", "a", &item{Owner: "alice", Tags: []string{"go"}, Score: 1, CreatedAt: base}))
	require.NoError(t, s.Set(ctx, "items", "b", &item{Owner: "alice", Tags: []string{"rust", "go"}, Score: 5, CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.Set(ctx, "items", "c", &item{Owner: "bob", Tags: []string{"go"}, Score: 3, CreatedAt: base.Add(2 * time.Hour)}))

	var byOwner []*item
	require.NoError(t, s.Query(ctx, "items", Query{
		Filters: []Filter{Eq("owner", "alice")},
		OrderBy: "score",
		Desc:    true,
	}, &byOwner))
	require.Len(t, byOwner, 2)
	assert.Equal(t, "b", byOwner[0].ID)
	assert.Equal(t, "a", byOwner[1].ID)

	var tagged []item
	require.NoError(t, s.Query(ctx, "items", Query{
		Filters: []Filter{Eq("tags", "go")},
		OrderBy: "createdAt",
		Desc:    true,
		Limit:   2,
	}, &tagged))
	require.Len(t, tagged, 2)
	assert.Equal(t, "c", tagged[0].ID)
	assert.Equal(t, "b", tagged[1].ID)

	var recent []*item
	require.NoError(t, s.Query(ctx, "items", Query{
		Filters: []Filter{Gte("createdAt", base.Add(time.Hour))},
	}, &recent))
	assert.Len(t, recent, 2)

	n, err := s.Count(ctx, "items", Gte("score", 3))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Count(ctx, "items", Gte("score", 3), Lt("score", 5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "items", "a", &item{}))

	require.NoError(t, s.Delete(ctx, "items", "a"))
	require.NoError(t, s.Delete(ctx, "items", "a"))

	n, err := s.Count(ctx, "items")
	require.NoError(t, err)
	assert.Zero(t, n)
}
