package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchedStore_FakeIDs(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "/main.js", "javascript")

	batch := NewBatchedStore()
	id1, err := batch.InsertFunction(testFunction(f.ID, "Foo", 1, 0.1, "excellent"))
	require.NoError(t, err)
	assert.Negative(t, id1, "batched IDs should be negative")

	id2, err := batch.InsertFunction(testFunction(f.ID, "Bar", 5, 0.1, "excellent"))
	require.NoError(t, err)
	assert.Negative(t, id2)
	assert.NotEqual(t, id1, id2)
	assert.Len(t, batch.Functions, 2)

	// Nothing reaches SQLite before commit.
	committed, err := s.FunctionsByFile(f.ID)
	require.NoError(t, err)
	assert.Empty(t, committed)
}

func TestCommitBatch_RemapsSuggestions(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "/main.js", "javascript")

	batch := NewBatchedStore()
	fn := testFunction(f.ID, "getUserData", 1, 0.94, "high")
	fn.NodeTags = []byte(`[{"word":"delete"}]`)
	fakeID, err := batch.InsertFunction(fn)
	require.NoError(t, err)
	_, err = batch.InsertSuggestion(&Suggestion{FunctionID: fakeID, Rank: 1, Name: "deleteUserData", Verb: "delete", Similarity: 0.9})
	require.NoError(t, err)
	_, err = batch.InsertSuggestion(&Suggestion{FunctionID: fakeID, Rank: 2, Name: "removeUserData", Verb: "remove", Similarity: 0.8})
	require.NoError(t, err)

	require.NoError(t, s.CommitBatch(batch))

	fns, err := s.FunctionsByFile(f.ID)
	require.NoError(t, err)
	require.Len(t, fns, 1)
	assert.Positive(t, fns[0].ID)
	assert.Equal(t, fn.NodeTags, fns[0].NodeTags)

	sgs, err := s.SuggestionsByFunction(fns[0].ID)
	require.NoError(t, err)
	require.Len(t, sgs, 2)
	assert.Equal(t, "deleteUserData", sgs[0].Name)
}

func TestCommitBatch_UnknownFakeID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "/main.js", "javascript")

	batch := NewBatchedStore()
	_, err := batch.InsertFunction(testFunction(f.ID, "a", 1, 0, "excellent"))
	require.NoError(t, err)
	_, err = batch.InsertSuggestion(&Suggestion{FunctionID: -42, Rank: 1, Name: "x", Verb: "x"})
	require.NoError(t, err)

	err = s.CommitBatch(batch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in batch")

	// The transaction rolled back.
	fns, err := s.FunctionsByFile(f.ID)
	require.NoError(t, err)
	assert.Empty(t, fns)
}

func TestBatchedStore_ConcurrentInserts(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	f := insertTestFile(t, s, "/main.js", "javascript")
	batch := NewBatchedStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := batch.InsertFunction(testFunction(f.ID, "fn", i+1, 0, "excellent"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[int64]bool{}
	for _, fn := range batch.Functions {
		assert.False(t, seen[fn.ID])
		seen[fn.ID] = true
	}
	require.NoError(t, s.CommitBatch(batch))
	fns, err := s.FunctionsByFile(f.ID)
	require.NoError(t, err)
	assert.Len(t, fns, 20)
}
