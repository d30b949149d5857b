package harmonizer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jward/harmonizer/internal/extract"
	"github.com/jward/harmonizer/internal/store"
	"github.com/jward/harmonizer/internal/suggest"
	"github.com/jward/harmonizer/internal/vocab"
)

// fingerprintKey is the metadata key holding the analysis fingerprint of
// the stored results.
const fingerprintKey = "analysis_fingerprint"

// Engine orchestrates the harmonizer pipeline: file discovery, change
// detection, extraction, scoring, suggestion and storage.
type Engine struct {
	store     *store.Store
	table     *vocab.Table
	analyzer  *vocab.CachedAnalyzer
	extractor *extract.Extractor
	index     *suggest.Index
	logger    *zap.Logger

	languages map[extract.Language]bool // nil means all languages

	useParallel bool
	workers     int

	topN     int
	noun     string
	nodeTags bool
	baseline bool
	cache    vocab.Cache
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will process. Unknown
// names are ignored.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		if len(languages) == 0 {
			return
		}
		e.languages = make(map[extract.Language]bool, len(languages))
		for _, name := range languages {
			if lang, err := extract.ParseLanguage(name); err == nil {
				e.languages[lang] = true
			}
		}
	}
}

// WithParallel controls parallel analysis. When true (default), AnalyzeFiles
// uses a worker pool for parsing and scoring, with a single goroutine
// committing batches to SQLite. Set to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithWorkers sets the worker pool size. Zero or less means runtime.NumCPU.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithVocabulary replaces the built-in vocabulary table.
func WithVocabulary(t *Vocabulary) Option {
	return func(e *Engine) {
		if t != nil {
			e.table = t
		}
	}
}

// WithCache sets the cache that memoizes the intent, execution and context
// coordinates. nil disables caching.
func WithCache(c vocab.Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithSuggestions sets how many names to suggest per function and the noun
// they are built around. An empty noun derives one from each function name.
func WithSuggestions(topN int, noun string) Option {
	return func(e *Engine) {
		e.topN = topN
		e.noun = noun
	}
}

// WithNodeTags records the syntax nodes that contributed to each function's
// execution coordinate.
func WithNodeTags(enabled bool) Option {
	return func(e *Engine) {
		e.nodeTags = enabled
	}
}

// WithBaseline attaches baseline diagnostics of the execution coordinate
// to each report. Baselines are not stored.
func WithBaseline(enabled bool) Option {
	return func(e *Engine) {
		e.baseline = enabled
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine backed by a SQLite database at dbPath. An empty
// dbPath creates an Engine without storage, which supports AnalyzeSource
// only.
func New(dbPath string, opts ...Option) (*Engine, error) {
	e := &Engine{
		table:       vocab.Default(),
		index:       suggest.NewIndex(),
		logger:      zap.NewNop(),
		useParallel: true,
		topN:        3,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	e.analyzer = vocab.NewCachedAnalyzer(e.table, e.cache)
	e.extractor = extract.New(e.table, extract.WithNodeTags(e.nodeTags))

	if dbPath == "" {
		return e, nil
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("harmonizer: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("harmonizer: migrate: %w", err)
	}
	e.store = s
	return e, nil
}

// ErrNoStore is returned by operations that need a database when the
// Engine was created without one.
var ErrNoStore = errors.New("harmonizer: engine has no database")

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Store returns the underlying Store for direct access. It is nil for
// engines without a database.
func (e *Engine) Store() *Store {
	return e.store
}

// Vocabulary returns the table the Engine scores with.
func (e *Engine) Vocabulary() *Vocabulary {
	return e.table
}

// Query returns a new QueryBuilder wrapping the Store.
func (e *Engine) Query() *QueryBuilder {
	return &QueryBuilder{store: e.store, index: e.index}
}

// Reset discards every stored result so the next run analyzes all files.
func (e *Engine) Reset() error {
	if e.store == nil {
		return ErrNoStore
	}
	if err := e.store.Reset(); err != nil {
		return fmt.Errorf("harmonizer: reset: %w", err)
	}
	return nil
}

// fingerprint covers everything that changes stored results: the vocabulary
// and the suggestion and node tag settings.
func (e *Engine) fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "vocab:%s\n", e.table.Fingerprint())
	fmt.Fprintf(h, "top:%d\nnoun:%s\ntags:%v\n", e.topN, e.noun, e.nodeTags)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// AnalyzeSource analyzes one in-memory file without touching the database.
// The language is chosen from path. A file with syntax errors yields a
// *extract.ParseError.
func (e *Engine) AnalyzeSource(ctx context.Context, path string, src []byte) ([]FunctionReport, error) {
	lang, ok := extract.LanguageForFile(path)
	if !ok {
		return nil, &extract.ParseError{Path: path, Err: fmt.Errorf("unsupported file type")}
	}
	return e.analyzeContent(ctx, path, lang, src)
}

func (e *Engine) analyzeContent(ctx context.Context, path string, lang extract.Language, src []byte) ([]FunctionReport, error) {
	exs, err := e.extractor.ExtractLanguage(ctx, path, src, lang)
	if err != nil {
		return nil, err
	}
	surround := e.analyzer.AnalyzeText(contextText(path, lang))
	reports := make([]FunctionReport, len(exs))
	for i, ex := range exs {
		reports[i] = e.buildReport(path, surround, ex)
	}
	return reports, nil
}

// AnalyzeFiles analyzes the given file paths and stores the results. When
// WithParallel is enabled it uses a worker pool; otherwise it runs
// serially.
//
// For each file:
//  1. Detect language from extension
//  2. Skip unsupported or filtered-out languages
//  3. Skip unchanged files (same content hash)
//  4. Capture old severities, delete stale data, insert the file record
//  5. Extract, score and suggest
//  6. Store functions and suggestions, record parse failures on the file
//
// Errors on individual files are collected; processing continues. The
// summary is returned even when some files failed.
func (e *Engine) AnalyzeFiles(ctx context.Context, paths []string) (*RunSummary, error) {
	return e.analyze(ctx, "", paths)
}

func (e *Engine) analyze(ctx context.Context, root string, paths []string) (*RunSummary, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	started := time.Now()
	fp := e.fingerprint()

	summary := &RunSummary{Root: root, BySeverity: severityCounts()}
	stored, err := e.store.GetMetadata(fingerprintKey)
	if err != nil {
		return nil, fmt.Errorf("harmonizer: %w", err)
	}
	if stored != "" && stored != fp {
		e.logger.Info("analysis settings changed, re-analyzing every file")
		if err := e.store.Reset(); err != nil {
			return nil, fmt.Errorf("harmonizer: reset: %w", err)
		}
		summary.Reanalyzed = true
	}

	run, err := e.store.StartRun(root, fp, started)
	if err != nil {
		return nil, fmt.Errorf("harmonizer: %w", err)
	}
	summary.RunID = run.ID

	var runErr error
	if e.useParallel {
		runErr = e.analyzeParallel(ctx, paths, summary)
	} else {
		runErr = e.analyzeSerial(ctx, paths, summary)
	}

	if err := e.store.SetMetadata(fingerprintKey, fp); err != nil && runErr == nil {
		runErr = fmt.Errorf("harmonizer: %w", err)
	}

	summary.Duration = time.Since(started)
	run.FinishedAt = time.Now()
	run.Files = summary.Files
	run.FilesSkipped = summary.FilesSkipped
	run.Functions = summary.Functions
	if runErr != nil {
		run.Errors = 1
		var multi *analysisError
		if errors.As(runErr, &multi) {
			run.Errors = multi.count
		}
	}
	if err := e.store.FinishRun(run); err != nil && runErr == nil {
		runErr = fmt.Errorf("harmonizer: %w", err)
	}

	e.logger.Info("analysis finished",
		zap.String("run", run.ID),
		zap.Int("files", summary.Files),
		zap.Int("skipped", summary.FilesSkipped),
		zap.Int("functions", summary.Functions),
		zap.Int("parse_errors", summary.ParseErrors),
		zap.Duration("duration", summary.Duration))
	return summary, runErr
}

// analysisError reports how many files failed and wraps the first failure.
type analysisError struct {
	count int
	first error
}

func (e *analysisError) Error() string {
	return fmt.Sprintf("analysis had %d error(s): %v", e.count, e.first)
}

func (e *analysisError) Unwrap() error { return e.first }

func collect(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return &analysisError{count: len(errs), first: errs[0]}
}

func (e *Engine) analyzeSerial(ctx context.Context, paths []string, summary *RunSummary) error {
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		item, skip, err := e.prepareFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("prepare %s: %w", path, err))
			continue
		}
		if skip {
			summary.FilesSkipped++
			continue
		}
		res := e.processFile(ctx, item, e.store)
		if err := e.finishFile(res, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return collect(errs)
}

// workItem holds everything one file needs between preparation and commit.
type workItem struct {
	path    string
	lang    extract.Language
	fileID  int64
	content []byte
	batch   *store.BatchedStore

	// Severities of the previous analysis keyed by store.FunctionKey.
	previous map[string]string
}

// fileResult is the outcome of processing one workItem.
type fileResult struct {
	item     workItem
	reports  []FunctionReport
	parseErr *extract.ParseError
	err      error
}

// prepareFile does the serial part of a file's work: hash check, cleanup,
// file record. Returns (item, skip, error). skip=true means the file is
// unchanged, unsupported or filtered out.
func (e *Engine) prepareFile(path string) (workItem, bool, error) {
	lang, ok := extract.LanguageForFile(path)
	if !ok {
		return workItem{}, true, nil
	}
	if e.languages != nil && !e.languages[lang] {
		e.logger.Debug("language filtered out", zap.String("file", path))
		return workItem{}, true, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return workItem{}, false, fmt.Errorf("read file: %w", err)
	}
	hash := store.HashContent(content)

	existing, err := e.store.FileByPath(path)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return workItem{}, false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		e.logger.Debug("unchanged", zap.String("file", path))
		return workItem{}, true, nil
	}

	var previous map[string]string
	if existing != nil {
		old, err := e.store.FunctionsByFile(existing.ID)
		if err != nil {
			return workItem{}, false, fmt.Errorf("capture old functions: %w", err)
		}
		previous = make(map[string]string, len(old))
		for _, fn := range old {
			previous[store.FunctionKey(fn)] = fn.Severity
		}
		if err := e.store.DeleteFile(existing.ID); err != nil {
			return workItem{}, false, fmt.Errorf("delete old data: %w", err)
		}
	}

	fileID, err := e.store.InsertFile(&store.File{
		Path:         path,
		Language:     string(lang),
		Hash:         hash,
		LastAnalyzed: time.Now(),
	})
	if err != nil {
		return workItem{}, false, fmt.Errorf("insert file: %w", err)
	}

	return workItem{
		path:     path,
		lang:     lang,
		fileID:   fileID,
		content:  content,
		batch:    store.NewBatchedStore(),
		previous: previous,
	}, false, nil
}

// processFile analyzes one file and writes its results to ds. Parse
// failures are reported in the result, not as errors.
func (e *Engine) processFile(ctx context.Context, item workItem, ds store.DataStore) fileResult {
	res := fileResult{item: item}
	reports, err := e.analyzeContent(ctx, item.path, item.lang, item.content)
	if err != nil {
		var perr *extract.ParseError
		if errors.As(err, &perr) {
			res.parseErr = perr
			return res
		}
		res.err = fmt.Errorf("analyze %s: %w", item.path, err)
		return res
	}
	if err := writeReports(ds, item.fileID, reports); err != nil {
		res.err = fmt.Errorf("write %s: %w", item.path, err)
		return res
	}
	res.reports = reports
	return res
}

// finishFile records a processed file's outcome on its row and in summary.
func (e *Engine) finishFile(res fileResult, summary *RunSummary) error {
	if res.err != nil {
		e.logger.Warn("analysis failed", zap.String("file", res.item.path), zap.Error(res.err))
		// Drop the file row so the next run retries it instead of
		// treating it as unchanged.
		if err := e.store.DeleteFile(res.item.fileID); err != nil {
			return fmt.Errorf("%w (cleanup: %v)", res.err, err)
		}
		return res.err
	}
	summary.Files++
	if res.parseErr != nil {
		summary.ParseErrors++
		e.logger.Warn("parse failed", zap.String("file", res.item.path), zap.Error(res.parseErr.Err))
		if err := e.store.UpdateFileResult(res.item.fileID, 0, res.parseErr.Err.Error()); err != nil {
			return fmt.Errorf("record %s: %w", res.item.path, err)
		}
		return nil
	}
	if err := e.store.UpdateFileResult(res.item.fileID, len(res.reports), ""); err != nil {
		return fmt.Errorf("record %s: %w", res.item.path, err)
	}

	summary.Functions += len(res.reports)
	for _, r := range res.reports {
		summary.BySeverity[r.Severity.String()]++
		if res.item.previous == nil {
			continue
		}
		fn := r.storeFunction(res.item.fileID)
		old, ok := res.item.previous[store.FunctionKey(fn)]
		if !ok {
			continue
		}
		prev, err := ParseSeverity(old)
		if err != nil {
			continue
		}
		switch {
		case r.Severity > prev:
			summary.Worsened++
		case r.Severity < prev:
			summary.Improved++
		}
	}
	e.logger.Debug("analyzed",
		zap.String("file", res.item.path),
		zap.Int("functions", len(res.reports)))
	return nil
}

// skipDirs are excluded from directory walks.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// AnalyzeDirectory walks root and analyzes all files with supported
// extensions. If root is inside a git repository, uses git ls-files to
// respect .gitignore. Falls back to a filesystem walk (skipping hidden dirs,
// node_modules, vendor, __pycache__) if git is unavailable.
func (e *Engine) AnalyzeDirectory(ctx context.Context, root string) (*RunSummary, error) {
	paths, err := e.gitListFiles(root)
	if err != nil {
		e.logger.Debug("git ls-files unavailable, walking", zap.String("root", root), zap.Error(err))
		paths, err = e.walkListFiles(root)
		if err != nil {
			return nil, err
		}
	}
	return e.analyze(ctx, root, paths)
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) files under root, filtered to supported languages.
func (e *Engine) gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := extract.LanguageForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

// walkListFiles discovers files by walking the filesystem.
func (e *Engine) walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := extract.LanguageForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("harmonizer: walk directory: %w", err)
	}
	return paths, nil
}
