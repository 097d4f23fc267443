package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-h-a/finrag/store"
)

func newRecord(owner, session, content string, chunkId int, embedding []float32) store.Record {
	return store.Record{
		OwnerId:    owner,
		SessionId:  session,
		Content:    content,
		Source:     "statement.txt",
		Page:       "Unknown",
		ChunkId:    chunkId,
		Layer:      "chunk",
		UploadedAt: time.Now().UTC(),
		Embedding:  embedding,
	}
}

func TestMemoryStore_AddEmptyBatchIsNoop(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(context.Background(), nil))

	results, err := s.Search(context.Background(), []float32{1, 0}, 10, store.Filter{OwnerId: "u1"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStore_AddRejectsMissingOwner(t *testing.T) {
	s := NewStore(store.WithCollection("finrag_clean_v1"))

	err := s.Add(context.Background(), []store.Record{
		{Content: "orphan", Embedding: []float32{1, 0}},
	})
	require.Error(t, err)

	var writeErr *store.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "finrag_clean_v1", writeErr.Collection)
}

func TestMemoryStore_OwnerIsolation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("owner_a", "s1", "alpha revenue", 0, []float32{1, 0}),
		newRecord("owner_b", "s2", "beta revenue", 0, []float32{1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{OwnerId: "owner_a"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	for _, rec := range results {
		assert.Equal(t, "owner_a", rec.OwnerId)
	}
}

func TestMemoryStore_SearchRequiresOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("owner_a", "s1", "alpha revenue", 0, []float32{1, 0}),
		newRecord("owner_b", "s2", "beta revenue", 0, []float32{1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{})
	require.ErrorIs(t, err, store.ErrMissingOwner)
	assert.Nil(t, results)

	// Session alone does not satisfy the owner requirement.
	_, err = s.Search(ctx, []float32{1, 0}, 10, store.Filter{SessionId: "s1"})
	require.ErrorIs(t, err, store.ErrMissingOwner)
}

func TestMemoryStore_SessionFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("u1", "old-session", "stale chunk", 0, []float32{1, 0}),
		newRecord("u1", "new-session", "fresh chunk", 0, []float32{1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{OwnerId: "u1", SessionId: "new-session"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fresh chunk", results[0].Content)
}

func TestMemoryStore_LayerFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	chunkRec := newRecord("u1", "s1", "detail", 0, []float32{1, 0})
	docRec := newRecord("u1", "s1", "summary", 1, []float32{1, 0})
	docRec.Layer = "document"

	require.NoError(t, s.Add(ctx, []store.Record{chunkRec, docRec}))

	results, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{OwnerId: "u1", Layer: "document"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "summary", results[0].Content)
}

func TestMemoryStore_SearchOrderedByScoreThenInsertion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("u1", "s1", "far", 0, []float32{0, 1}),
		newRecord("u1", "s1", "near first", 1, []float32{1, 0}),
		newRecord("u1", "s1", "near second", 2, []float32{1, 0}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 3, store.Filter{OwnerId: "u1"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "near first", results[0].Content)
	assert.Equal(t, "near second", results[1].Content)
	assert.Equal(t, "far", results[2].Content)
	assert.Greater(t, results[0].Score, results[2].Score)
}

func TestMemoryStore_SearchLimit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("u1", "s1", "a", 0, []float32{1, 0}),
		newRecord("u1", "s1", "b", 1, []float32{0.9, 0.1}),
		newRecord("u1", "s1", "c", 2, []float32{0.8, 0.2}),
	}))

	results, err := s.Search(ctx, []float32{1, 0}, 2, store.Filter{OwnerId: "u1"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMemoryStore_DeleteByOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("u1", "s1", "mine", 0, []float32{1, 0}),
		newRecord("u2", "s2", "theirs", 0, []float32{1, 0}),
	}))

	require.NoError(t, s.DeleteByOwner(ctx, "u1"))

	mine, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{OwnerId: "u1"})
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{OwnerId: "u2"})
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestMemoryStore_DeleteByOwnerKeepsSession(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("u1", "old-session", "stale", 0, []float32{1, 0}),
		newRecord("u1", "new-session", "fresh", 0, []float32{1, 0}),
	}))

	require.NoError(t, s.DeleteByOwner(ctx, "u1", store.WithKeepSession("new-session")))

	results, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{OwnerId: "u1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fresh", results[0].Content)
}

// Re-ingestion is delete-then-add. A query landing between the two sees
// empty or partial data; that window is accepted, but the end state after
// the add must be exactly the new batch.
func TestMemoryStore_DeleteThenAddWindow(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("u1", "old-session", "old doc", 0, []float32{1, 0}),
	}))

	require.NoError(t, s.DeleteByOwner(ctx, "u1"))

	// The cleanup window: a concurrent query sees nothing for this owner.
	during, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{OwnerId: "u1"})
	require.NoError(t, err)
	assert.Empty(t, during)

	require.NoError(t, s.Add(ctx, []store.Record{
		newRecord("u1", "new-session", "new doc one", 0, []float32{1, 0}),
		newRecord("u1", "new-session", "new doc two", 1, []float32{0.9, 0.1}),
	}))

	after, err := s.Search(ctx, []float32{1, 0}, 10, store.Filter{OwnerId: "u1"})
	require.NoError(t, err)
	require.Len(t, after, 2)

	for _, rec := range after {
		assert.Equal(t, "new-session", rec.SessionId)
	}
}

func TestMemoryStore_SearchZeroLimit(t *testing.T) {
	s := NewStore()

	results, err := s.Search(context.Background(), []float32{1, 0}, 0, store.Filter{OwnerId: "u1"})
	require.NoError(t, err)
	assert.Nil(t, results)
}
