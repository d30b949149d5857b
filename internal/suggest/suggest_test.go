package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/harmonizer/internal/coord"
)

func TestIndex_Table(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	assert.GreaterOrEqual(t, idx.Len(), 250)
	assert.LessOrEqual(t, idx.Len(), 270)

	seen := map[string]bool{}
	var counts coord.Counts
	for _, e := range idx.Entries() {
		assert.False(t, seen[e.Verb], "duplicate verb %q", e.Verb)
		seen[e.Verb] = true
		assert.NotEmpty(t, e.Category)
		counts.Add(e.Coordinate.Dominant(), 1)
	}
	for _, d := range coord.Dimensions {
		assert.Greater(t, counts[d], 10.0, "too few %s verbs", d)
	}

	cats := idx.Categories()
	assert.Equal(t, "retrieval", cats[0])
	assert.Contains(t, cats, "phrasal")
}

func TestSuggest_SortedAndTruncated(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	exec := coord.MustFromCounts(0, 1, 2, 1)
	got := idx.Suggest(exec, "", 7)
	require.Len(t, got, 7)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Similarity, got[i].Similarity)
	}
	for _, s := range got {
		assert.GreaterOrEqual(t, s.Similarity, 0.0)
		assert.LessOrEqual(t, s.Similarity, 1.0)
	}

	assert.Len(t, idx.Suggest(exec, "", idx.Len()+10), idx.Len())
	assert.Empty(t, idx.Suggest(exec, "", 0))
}

func TestSuggest_Colinear(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	got := idx.Suggest(coord.Pure(coord.Power), "", 1)
	require.Len(t, got, 1)
	assert.Equal(t, "delete", got[0].Verb)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-12)

	e, ok := idx.Lookup("get")
	require.True(t, ok)
	got = idx.Suggest(e.Coordinate, "", 1)
	assert.Equal(t, "get", got[0].Verb)
	assert.InDelta(t, 1.0, got[0].Similarity, 1e-12)
}

func TestSuggest_TiesKeepTableOrder(t *testing.T) {
	t.Parallel()

	same := coord.MustFromCounts(0, 0, 1, 0)
	idx := newIndex([]Entry{
		{"zap", same, "x"},
		{"alpha", same, "x"},
		{"get", coord.Pure(coord.Wisdom), "y"},
		{"mid", same, "x"},
	})
	got := idx.Suggest(coord.Pure(coord.Power), "", 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"zap", "alpha", "mid"}, []string{got[0].Verb, got[1].Verb, got[2].Verb})
}

func TestSuggest_Noun(t *testing.T) {
	t.Parallel()

	idx := newIndex([]Entry{
		{"fetch", coord.Pure(coord.Wisdom), "retrieval"},
		{"look_up", coord.MustFromCounts(0, 1, 0, 9), "phrasal"},
	})
	got := idx.Suggest(coord.Pure(coord.Wisdom), "user", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "fetchUser", got[0].Name)
	assert.Equal(t, "look_up_user", got[1].Name)

	assert.Equal(t, "fetch", compose("fetch", "  "))
	assert.Equal(t, "deleteÉtat", compose("delete", "état"))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	idx := NewIndex()
	e, ok := idx.Lookup(" Delete ")
	require.True(t, ok)
	assert.Equal(t, "destruction", e.Category)
	assert.Equal(t, coord.Power, e.Coordinate.Dominant())

	_, ok = idx.Lookup("frobnicate")
	assert.False(t, ok)
}

func TestSuggest_GetUserDataExecution(t *testing.T) {
	t.Parallel()

	exec := coord.MustFromCounts(0, 0, 2, 1)
	got := NewIndex().Suggest(exec, "userData", 3)
	require.Len(t, got, 3)
	for _, s := range got {
		e, ok := NewIndex().Lookup(s.Verb)
		require.True(t, ok)
		assert.Equal(t, coord.Power, e.Coordinate.Dominant(), s.Verb)
	}
}
