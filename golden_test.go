package harmonizer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// goldenEntry is one expected function in testdata/golden/expected.json.
type goldenEntry struct {
	File       string  `json:"file"`
	Function   string  `json:"function"`
	Line       int     `json:"line"`
	Severity   string  `json:"severity"`
	Intent     string  `json:"intent"`
	Execution  string  `json:"execution"`
	Disharmony float64 `json:"disharmony"`
}

func toGolden(r FunctionReport) goldenEntry {
	return goldenEntry{
		File:       filepath.Base(r.File),
		Function:   r.Function.Name,
		Line:       r.Function.Span.StartLine,
		Severity:   r.Severity.String(),
		Intent:     r.IntentDominant.String(),
		Execution:  r.ExecutionDominant.String(),
		Disharmony: r.Disharmony,
	}
}

func loadGolden(t *testing.T) []goldenEntry {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "golden", "expected.json"))
	require.NoError(t, err)
	var want []goldenEntry
	require.NoError(t, json.Unmarshal(data, &want))
	return want
}

var goldenOpts = cmp.Options{
	cmpopts.EquateApprox(0, 1e-3),
}

// TestGolden_Stored checks every stored function against the expected
// results, for both pipelines.
func TestGolden_Stored(t *testing.T) {
	t.Parallel()

	want := loadGolden(t)
	for _, parallel := range []bool{false, true} {
		e, _ := newAnalyzedEngine(t, WithParallel(parallel))
		res, err := e.Query().Functions(FunctionFilter{}, Sort{Field: SortByLine}, Pagination{})
		require.NoError(t, err)

		got := make([]goldenEntry, len(res.Items))
		for i, r := range res.Items {
			got[i] = toGolden(r)
		}
		if diff := cmp.Diff(want, got, goldenOpts); diff != "" {
			t.Errorf("parallel=%v: stored results mismatch (-want +got):\n%s", parallel, diff)
		}
	}
}

// TestGolden_Source checks that analyzing without a database gives the
// same results as the stored pipeline.
func TestGolden_Source(t *testing.T) {
	t.Parallel()

	want := loadGolden(t)
	e := newTestEngine(t)

	var got []goldenEntry
	for _, name := range goldenFiles {
		path := filepath.Join("testdata", "golden", name)
		src, err := os.ReadFile(path)
		require.NoError(t, err)
		reports, err := e.AnalyzeSource(context.Background(), path, src)
		require.NoError(t, err)
		for _, r := range reports {
			got = append(got, toGolden(r))
		}
	}
	sort.SliceStable(got, func(i, j int) bool {
		if got[i].File != got[j].File {
			return got[i].File < got[j].File
		}
		return got[i].Line < got[j].Line
	})
	if diff := cmp.Diff(want, got, goldenOpts); diff != "" {
		t.Errorf("source results mismatch (-want +got):\n%s", diff)
	}
}
