package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jward/harmonizer"
	"github.com/jward/harmonizer/internal/config"
	"github.com/jward/harmonizer/internal/logging"
	"github.com/jward/harmonizer/internal/vocab"
)

var (
	flagDB          string
	flagFormat      string
	flagConfig      string
	flagLogLevel    string
	flagVocabFiles  []string
	flagVocabScript string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "harmonizer",
	Short:         "Find functions whose names promise something their bodies don't do",
	Long:          "Harmonizer maps each function's name and body onto Love, Justice, Power and Wisdom coordinates and reports the distance between them.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: database from config, relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file or directory (default: repo root)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringSliceVar(&flagVocabFiles, "vocab", nil, "vocabulary override files (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&flagVocabScript, "vocab-script", "", "Risor vocabulary script (default: "+harmonizer.DefaultScriptPath+" when present)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.SetFlagErrorFunc(flagError)
}

// flagError reports flag parsing failures through the result envelope.
func flagError(cmd *cobra.Command, err error) error {
	return outputError(cmd.Name(), err)
}

// session holds what every command resolves before it runs.
type session struct {
	repoRoot string
	cfg      *config.Config
	logger   *zap.Logger
}

// newSession loads configuration for the repository containing dir and
// builds the logger.
func newSession(dir string) (*session, error) {
	repoRoot := findRepoRoot(dir)
	path := flagConfig
	if path == "" {
		path = repoRoot
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logger, err := logging.New(logging.Config{Level: level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, err
	}
	return &session{repoRoot: repoRoot, cfg: cfg, logger: logger}, nil
}

// cwdSession is newSession for the working directory.
func cwdSession() (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	return newSession(cwd)
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// vocabulary layers config overrides, --vocab files and the vocabulary
// script over the built-in table.
func (s *session) vocabulary(ctx context.Context) (*harmonizer.Vocabulary, error) {
	overrides, err := s.cfg.Overrides()
	if err != nil {
		return nil, err
	}
	for _, f := range flagVocabFiles {
		m, err := vocab.LoadOverrides(f)
		if err != nil {
			return nil, err
		}
		for k, d := range m {
			overrides[k] = d
		}
	}

	script := s.cfg.VocabularyScript
	if flagVocabScript != "" {
		script = flagVocabScript
	}
	if script == "" {
		def := filepath.Join(s.repoRoot, harmonizer.DefaultScriptPath)
		if _, err := os.Stat(def); err == nil {
			script = def
		}
	}
	return harmonizer.BuildVocabulary(ctx, harmonizer.VocabularySources{
		Overrides: overrides,
		Script:    script,
		Logger:    s.logger,
	})
}

// engineOptions translates the configuration into engine options.
func (s *session) engineOptions(table *harmonizer.Vocabulary) []harmonizer.Option {
	cfg := s.cfg
	opts := []harmonizer.Option{
		harmonizer.WithLogger(s.logger),
		harmonizer.WithParallel(cfg.Parallel),
		harmonizer.WithSuggestions(cfg.Suggestions.TopN, cfg.Suggestions.ContextNoun),
		harmonizer.WithNodeTags(cfg.Analysis.NodeTags),
		harmonizer.WithBaseline(cfg.Analysis.Baseline),
	}
	if table != nil {
		opts = append(opts, harmonizer.WithVocabulary(table))
	}
	if len(cfg.Languages) > 0 {
		opts = append(opts, harmonizer.WithLanguages(cfg.Languages...))
	}
	if cfg.Workers > 0 {
		opts = append(opts, harmonizer.WithWorkers(cfg.Workers))
	}
	if cfg.Cache.Enabled {
		opts = append(opts, harmonizer.WithCache(vocab.NewMemoryCache(cfg.Cache.Size)))
	}
	return opts
}

// dbPath returns the database path from the --db flag or the config.
func (s *session) dbPath() string {
	return resolveDBPath(s.repoRoot, flagDB, s.cfg.Database)
}

// openEngine opens an existing database for queries.
func (s *session) openEngine() (*harmonizer.Engine, error) {
	dbPath := s.dbPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'harmonizer analyze' first)", dbPath)
	}
	return harmonizer.New(dbPath, harmonizer.WithLogger(s.logger))
}

// resolveTargetDir returns the absolute path of the directory to analyze.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath picks the flag value over the configured one. Relative
// paths are taken from the repo root.
func resolveDBPath(repoRoot, flagValue, configured string) string {
	p := configured
	if flagValue != "" {
		p = flagValue
	}
	if p == "" {
		p = config.Default().Database
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(repoRoot, p)
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
