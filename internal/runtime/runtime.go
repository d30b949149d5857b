// Package runtime evaluates Risor scripts that compute project vocabularies.
//
// A script calls define(word, dimension) for every word it wants to add or
// reassign. The words it defines are returned to the caller, which layers
// them over the vocabulary table with vocab.Table.Extend.
package runtime

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"
	"go.uber.org/zap"

	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/vocab"
)

// DefaultScriptPath is where a project keeps its vocabulary script.
const DefaultScriptPath = ".harmonizer/vocab.risor"

// Runtime embeds a Risor VM and exposes the vocabulary table to scripts.
type Runtime struct {
	table      *vocab.Table
	scriptsDir string
	fsys       fs.FS
	logger     *zap.Logger
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS loads scripts and resolves imports from fsys instead of disk.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithLogger routes the script-side log object to l.
func WithLogger(l *zap.Logger) RuntimeOption {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRuntime creates a Runtime over table. A nil table means vocab.Default.
// Relative script paths and imports resolve against scriptsDir.
func NewRuntime(table *vocab.Table, scriptsDir string, opts ...RuntimeOption) *Runtime {
	if table == nil {
		table = vocab.Default()
	}
	r := &Runtime{
		table:      table,
		scriptsDir: scriptsDir,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScript loads and executes a script and returns the words it defined.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string, extraGlobals map[string]any) (map[string]coord.Dimension, error) {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return nil, err
	}
	return r.eval(ctx, src, scriptPath, extraGlobals)
}

// RunSource executes Risor source directly and returns the words it defined.
func (r *Runtime) RunSource(ctx context.Context, source string, extraGlobals map[string]any) (map[string]coord.Dimension, error) {
	return r.eval(ctx, source, "<inline>", extraGlobals)
}

func (r *Runtime) eval(ctx context.Context, source, label string, extraGlobals map[string]any) (map[string]coord.Dimension, error) {
	s := newSession(r.table)
	globals := r.buildGlobals(s, label, extraGlobals)

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if imp := r.buildImporter(globals); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	if _, err := risor.Eval(ctx, source, opts...); err != nil {
		return nil, fmt.Errorf("runtime: script %s: %w", label, err)
	}
	defined := s.definitions()
	r.logger.Debug("vocabulary script finished",
		zap.String("script", label),
		zap.Int("defined", len(defined)))
	return defined, nil
}

// buildImporter returns nil when neither an fs.FS nor a scripts directory
// is configured.
func (r *Runtime) buildImporter(globals map[string]any) importer.Importer {
	globalNames := make([]string, 0, len(globals))
	for name := range globals {
		globalNames = append(globalNames, name)
	}

	if r.fsys != nil {
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		})
	}
	if r.scriptsDir != "" {
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		})
	}
	return nil
}

// LoadScript reads a .risor file from the configured fs.FS, or from disk
// relative to the scripts directory.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return "", fmt.Errorf("runtime: loading script %s from fs: %w", fsPath, err)
		}
		return string(data), nil
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(r.scriptsDir, path)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("runtime: loading script %s: %w", fullPath, err)
	}
	return string(data), nil
}

func (r *Runtime) buildGlobals(s *session, label string, extra map[string]any) map[string]any {
	globals := map[string]any{
		"define":     makeDefineFn(s),
		"lookup":     makeLookupFn(s),
		"analyze":    makeAnalyzeFn(s),
		"tokens":     makeTokensFn(),
		"functions":  makeFunctionsFn(s),
		"dimensions": dimensionNames(),
		"log":        mustProxy(&logObject{logger: r.logger.With(zap.String("script", label))}),
	}
	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func dimensionNames() []any {
	out := make([]any, 0, coord.NumDimensions)
	for _, d := range coord.Dimensions {
		out = append(out, d.String())
	}
	return out
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("runtime: proxy error: %v", err))
	}
	return p
}
