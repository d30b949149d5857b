package harmonizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/extract"
	"github.com/jward/harmonizer/internal/store"
	"github.com/jward/harmonizer/internal/suggest"
	"github.com/jward/harmonizer/internal/vocab"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const getUserDataJS = `function getUserData(userId) {
  database.delete(userId);
  cache.remove(userId);
  return userId;
}
`

const deleteUserJS = `function deleteUser(userId) {
  database.delete(userId);
  cache.remove(userId);
}
`

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return newTestEngineAt(t, filepath.Join(t.TempDir(), "test.db"), opts...)
}

func newTestEngineAt(t *testing.T, dbPath string, opts ...Option) *Engine {
	t.Helper()
	e, err := New(dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

// writeFile writes src to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestNew_CreatesStore(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	require.NotNil(t, e.Store())
	require.NotNil(t, e.Query())
	assert.Equal(t, vocab.Default().Fingerprint(), e.Vocabulary().Fingerprint())

	// Migration ran.
	_, err := e.Store().InsertFile(&store.File{Path: "/tmp/x.js", Language: "javascript", Hash: "abc"})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := New("/nonexistent/dir/db.sqlite")
	require.Error(t, err)
}

func TestNew_WithoutDatabase(t *testing.T) {
	t.Parallel()

	e, err := New("")
	require.NoError(t, err)
	defer e.Close()

	assert.Nil(t, e.Store())
	_, err = e.AnalyzeFiles(context.Background(), []string{"x.js"})
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = e.Query().Summary()
	assert.ErrorIs(t, err, ErrNoStore)
	assert.ErrorIs(t, e.Reset(), ErrNoStore)

	reports, err := e.AnalyzeSource(context.Background(), "users.js", []byte(getUserDataJS))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestWithLanguages(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithLanguages("go", "Python", "cobol"))
	assert.True(t, e.languages[extract.Go])
	assert.True(t, e.languages[extract.Python])
	assert.False(t, e.languages[extract.JavaScript])
	assert.Len(t, e.languages, 2)

	all := newTestEngine(t, WithLanguages())
	assert.Nil(t, all.languages)
}

func TestAnalyzeSource_GetUserData(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	reports, err := e.AnalyzeSource(context.Background(), "users.js", []byte(getUserDataJS))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	r := reports[0]

	assert.Equal(t, "users.js", r.File)
	assert.Equal(t, "getUserData", r.Function.Name)
	assert.Equal(t, coord.Wisdom, r.IntentDominant)
	assert.Equal(t, coord.Power, r.ExecutionDominant)
	assert.Greater(t, r.Disharmony, 0.5)
	assert.Equal(t, SeverityHigh, r.Severity)
	assert.True(t, r.Mismatched())
	assert.Len(t, r.Breakdown, coord.NumDimensions)
	assert.Nil(t, r.Baseline)
	assert.Nil(t, r.NodeTags)

	require.Len(t, r.Suggestions, 3)
	idx := suggest.NewIndex()
	for _, s := range r.Suggestions {
		entry, ok := idx.Lookup(s.Verb)
		require.True(t, ok, s.Verb)
		assert.Equal(t, coord.Power, entry.Coordinate.Dominant(), s.Verb)
		assert.Contains(t, s.Name, s.Verb)
	}
}

func TestAnalyzeSource_Harmonious(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	reports, err := e.AnalyzeSource(context.Background(), "users.js", []byte(deleteUserJS))
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, SeverityExcellent, reports[0].Severity)
	assert.InDelta(t, 0.0, reports[0].Disharmony, 1e-12)
	assert.False(t, reports[0].Mismatched())
}

func TestAnalyzeSource_Options(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithBaseline(true), WithNodeTags(true), WithSuggestions(5, "account"))
	reports, err := e.AnalyzeSource(context.Background(), "users.js", []byte(getUserDataJS))
	require.NoError(t, err)
	r := reports[0]

	require.NotNil(t, r.Baseline)
	assert.Greater(t, r.Baseline.Composite, 0.0)
	require.Len(t, r.NodeTags, 3)
	assert.Equal(t, "delete", r.NodeTags[0].Word)
	require.Len(t, r.Suggestions, 5)
	for _, s := range r.Suggestions {
		assert.Contains(t, s.Name, "ccount")
	}

	none := newTestEngine(t, WithSuggestions(0, ""))
	reports, err = none.AnalyzeSource(context.Background(), "users.js", []byte(getUserDataJS))
	require.NoError(t, err)
	assert.Empty(t, reports[0].Suggestions)
}

func TestAnalyzeSource_CustomVocabulary(t *testing.T) {
	t.Parallel()

	// Teaching the table that getUserData is a Power word aligns intent
	// with execution.
	table := vocab.Default().Extend(map[string]coord.Dimension{"getUserData": coord.Power})
	e := newTestEngine(t, WithVocabulary(table), WithCache(vocab.NewMemoryCache(16)))
	reports, err := e.AnalyzeSource(context.Background(), "users.js", []byte(getUserDataJS))
	require.NoError(t, err)
	assert.Equal(t, coord.Power, reports[0].IntentDominant)
	assert.Less(t, reports[0].Disharmony, 0.5)
}

func TestAnalyzeSource_CacheCoversFunctionCoordinates(t *testing.T) {
	t.Parallel()

	cache := vocab.NewMemoryCache(16)
	e := newTestEngine(t, WithCache(cache))
	ctx := context.Background()

	first, err := e.AnalyzeSource(ctx, "users.js", []byte(getUserDataJS))
	require.NoError(t, err)
	assert.Equal(t, vocab.CacheStats{Entries: 3, Misses: 3}, cache.Stats())

	// Context, intent and execution are all served from the cache.
	second, err := e.AnalyzeSource(ctx, "users.js", []byte(getUserDataJS))
	require.NoError(t, err)
	assert.Equal(t, vocab.CacheStats{Entries: 3, Hits: 3, Misses: 3}, cache.Stats())
	assert.Equal(t, first, second)

	plain := newTestEngine(t)
	want, err := plain.AnalyzeSource(ctx, "users.js", []byte(getUserDataJS))
	require.NoError(t, err)
	assert.Equal(t, want, first)
}

func TestAnalyzeSource_Errors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	_, err := e.AnalyzeSource(context.Background(), "bad.js", []byte("function broken( {\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrParse))

	_, err = e.AnalyzeSource(context.Background(), "notes.txt", []byte("hello"))
	assert.True(t, errors.Is(err, extract.ErrParse))
}

func TestAnalyzeFiles(t *testing.T) {
	t.Parallel()

	for _, parallel := range []bool{false, true} {
		t.Run(map[bool]string{false: "serial", true: "parallel"}[parallel], func(t *testing.T) {
			t.Parallel()

			e := newTestEngine(t, WithParallel(parallel), WithWorkers(2))
			dir := t.TempDir()
			paths := []string{
				writeFile(t, dir, "users.js", getUserDataJS),
				writeFile(t, dir, "admin.js", deleteUserJS),
				writeFile(t, dir, "readme.txt", "not code"),
			}

			summary, err := e.AnalyzeFiles(context.Background(), paths)
			require.NoError(t, err)
			assert.Equal(t, 2, summary.Files)
			assert.Equal(t, 1, summary.FilesSkipped)
			assert.Equal(t, 2, summary.Functions)
			assert.Equal(t, 1, summary.BySeverity["high"])
			assert.Equal(t, 1, summary.BySeverity["excellent"])
			assert.False(t, summary.Reanalyzed)
			assert.NotEmpty(t, summary.RunID)

			f, err := e.Store().FileByPath(paths[0])
			require.NoError(t, err)
			assert.Equal(t, 1, f.FunctionCount)
			assert.Equal(t, "javascript", f.Language)

			fns, err := e.Store().FunctionsByFile(f.ID)
			require.NoError(t, err)
			require.Len(t, fns, 1)
			assert.Equal(t, "high", fns[0].Severity)
			sgs, err := e.Store().SuggestionsByFunction(fns[0].ID)
			require.NoError(t, err)
			assert.Len(t, sgs, 3)
			assert.Equal(t, 1, sgs[0].Rank)

			run, err := e.Store().RunByID(summary.RunID)
			require.NoError(t, err)
			assert.Equal(t, 2, run.Files)
			assert.Equal(t, 2, run.Functions)
			assert.Equal(t, 0, run.Errors)
			assert.False(t, run.FinishedAt.IsZero())
		})
	}
}

func TestAnalyzeFiles_SkipsFilteredLanguages(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, WithLanguages("python"))
	path := writeFile(t, t.TempDir(), "users.js", getUserDataJS)

	summary, err := e.AnalyzeFiles(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Files)
	assert.Equal(t, 1, summary.FilesSkipped)

	_, err = e.Store().FileByPath(path)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAnalyzeFiles_SkipsUnchangedFiles(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeFile(t, t.TempDir(), "users.js", getUserDataJS)
	ctx := context.Background()

	_, err := e.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	f1, err := e.Store().FileByPath(path)
	require.NoError(t, err)
	assert.Equal(t, store.HashContent([]byte(getUserDataJS)), f1.Hash)

	summary, err := e.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Files)
	assert.Equal(t, 1, summary.FilesSkipped)

	f2, err := e.Store().FileByPath(path)
	require.NoError(t, err)
	assert.Equal(t, f1.ID, f2.ID)
}

func TestAnalyzeFiles_ComparesSeverities(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	dir := t.TempDir()
	ctx := context.Background()
	path := writeFile(t, dir, "admin.js", deleteUserJS)

	_, err := e.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)

	// Same function, but the body now only returns.
	writeFile(t, dir, "admin.js", "function deleteUser(userId) {\n  return userId;\n}\n")
	summary, err := e.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 1, summary.Worsened)
	assert.Equal(t, 0, summary.Improved)
	assert.Equal(t, 1, summary.BySeverity["critical"])

	writeFile(t, dir, "admin.js", deleteUserJS)
	summary, err = e.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Worsened)
	assert.Equal(t, 1, summary.Improved)

	// The old rows were replaced, not duplicated.
	f, err := e.Store().FileByPath(path)
	require.NoError(t, err)
	fns, err := e.Store().FunctionsByFile(f.ID)
	require.NoError(t, err)
	assert.Len(t, fns, 1)
}

func TestAnalyzeFiles_RecordsParseFailures(t *testing.T) {
	t.Parallel()

	for _, parallel := range []bool{false, true} {
		e := newTestEngine(t, WithParallel(parallel))
		dir := t.TempDir()
		bad := writeFile(t, dir, "bad.js", "function broken( {\n")
		good := writeFile(t, dir, "users.js", getUserDataJS)

		summary, err := e.AnalyzeFiles(context.Background(), []string{bad, good})
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Files)
		assert.Equal(t, 1, summary.ParseErrors)
		assert.Equal(t, 1, summary.Functions)

		f, err := e.Store().FileByPath(bad)
		require.NoError(t, err)
		assert.Contains(t, f.ParseError, "syntax error")
		assert.Equal(t, 0, f.FunctionCount)
	}
}

func TestAnalyzeFiles_CollectsErrors(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "users.js", getUserDataJS)
	missing := filepath.Join(dir, "missing.js")

	summary, err := e.AnalyzeFiles(context.Background(), []string{missing, good})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis had 1 error(s)")
	assert.ErrorIs(t, err, os.ErrNotExist)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Files)

	run, err := e.Store().RunByID(summary.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Errors)
}

func TestAnalyzeFiles_Cancelled(t *testing.T) {
	t.Parallel()

	for _, parallel := range []bool{false, true} {
		e := newTestEngine(t, WithParallel(parallel))
		dir := t.TempDir()
		path := writeFile(t, dir, "users.js", getUserDataJS)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.AnalyzeFiles(ctx, []string{path})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)

		// An interrupted file is retried, not treated as unchanged.
		summary, err := e.AnalyzeFiles(context.Background(), []string{path})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Files)
		assert.Equal(t, 1, summary.Functions)
	}
}

func TestAnalyzeFiles_VocabularyChangeForcesReanalysis(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	path := writeFile(t, t.TempDir(), "users.js", getUserDataJS)
	ctx := context.Background()

	first, err := New(dbPath)
	require.NoError(t, err)
	_, err = first.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	same := newTestEngineAt(t, dbPath)
	summary, err := same.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	assert.False(t, summary.Reanalyzed)
	assert.Equal(t, 1, summary.FilesSkipped)
	require.NoError(t, same.Close())

	table := vocab.Default().Extend(map[string]coord.Dimension{"getUserData": coord.Power})
	changed := newTestEngineAt(t, dbPath, WithVocabulary(table))
	summary, err = changed.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	assert.True(t, summary.Reanalyzed)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 0, summary.BySeverity["high"])

	runs, err := changed.Query().Runs(10)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestAnalyzeFiles_ReportsEverySeverityLevel(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeFile(t, t.TempDir(), "admin.js", deleteUserJS)
	summary, err := e.AnalyzeFiles(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"excellent": 1,
		"low":       0,
		"medium":    0,
		"high":      0,
		"critical":  0,
	}, summary.BySeverity)

	stored, err := e.Query().Summary()
	require.NoError(t, err)
	assert.Equal(t, stored.BySeverity, summary.BySeverity)
}

func TestAnalyzeDirectory_Walk(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	root := t.TempDir()
	writeFile(t, root, "users.js", getUserDataJS)
	writeFile(t, root, "pkg/admin.js", deleteUserJS)
	writeFile(t, root, ".hidden/secret.js", getUserDataJS)
	writeFile(t, root, "node_modules/lib/index.js", getUserDataJS)
	writeFile(t, root, "vendor/dep.go", "package dep\n\nfunc X() {}\n")
	writeFile(t, root, "notes.md", "# notes")

	paths, err := e.walkListFiles(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "users.js"),
		filepath.Join(root, "pkg", "admin.js"),
	}, paths)

	summary, err := e.AnalyzeDirectory(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, root, summary.Root)
	assert.GreaterOrEqual(t, summary.Files, 2)

	f, err := e.Store().FileByPath(filepath.Join(root, "pkg", "admin.js"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.FunctionCount)
}

func TestAnalyzeFiles_Logs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	e := newTestEngine(t, WithLogger(zap.New(core)), WithParallel(false))
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.js", "function broken( {\n")
	good := writeFile(t, dir, "users.js", getUserDataJS)

	_, err := e.AnalyzeFiles(context.Background(), []string{bad, good})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("parse failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("analyzed").Len())
	finished := logs.FilterMessage("analysis finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(1), finished[0].ContextMap()["functions"])
}

func TestReset(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	path := writeFile(t, t.TempDir(), "users.js", getUserDataJS)
	ctx := context.Background()

	_, err := e.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	require.NoError(t, e.Reset())

	summary, err := e.AnalyzeFiles(ctx, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 0, summary.FilesSkipped)
}

func TestNounFromName(t *testing.T) {
	t.Parallel()

	idx := suggest.NewIndex()
	tests := map[string]string{
		"getUserData":     "userData",
		"get_user_data":   "userData",
		"UserData":        "userData",
		"delete":          "",
		extract.Anonymous: "",
		"":                "",
	}
	for name, want := range tests {
		assert.Equal(t, want, nounFromName(name, idx), name)
	}
}

func TestContextText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "users javascript", contextText("/src/users.js", extract.JavaScript))
	assert.Equal(t, "order_service python", contextText("order_service.py", extract.Python))
}
