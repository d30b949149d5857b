package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/harmonizer"
)

var (
	flagForce     bool
	flagLanguages string
	flagTop       int
	flagNoun      string
	flagSerial    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a repository and store the results",
	Long:  "Parses source files with tree-sitter, scores every function and writes the results to the SQLite database. Unchanged files are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and analyze from scratch")
	addAnalysisFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&flagSerial, "serial", false, "analyze files one at a time")
}

// addAnalysisFlags registers the flags shared by analyze and check.
func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. go,python)")
	cmd.Flags().IntVar(&flagTop, "top", 3, "naming suggestions per function")
	cmd.Flags().StringVar(&flagNoun, "noun", "", "noun for suggested names (default: derived from each function name)")
}

// applyAnalysisFlags folds the flags the user set into the configuration.
func applyAnalysisFlags(cmd *cobra.Command, s *session) error {
	if cmd.Flags().Changed("languages") {
		s.cfg.Languages = splitList(flagLanguages)
	}
	if cmd.Flags().Changed("top") {
		s.cfg.Suggestions.TopN = flagTop
	}
	if cmd.Flags().Changed("noun") {
		s.cfg.Suggestions.ContextNoun = flagNoun
	}
	if f := cmd.Flags().Lookup("serial"); f != nil && f.Changed {
		s.cfg.Parallel = !flagSerial
	}
	return s.cfg.Validate()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return outputError("analyze", err)
	}
	s, err := newSession(targetDir)
	if err != nil {
		return outputError("analyze", err)
	}
	defer s.close()
	if err := applyAnalysisFlags(cmd, s); err != nil {
		return outputError("analyze", err)
	}

	ctx := cmd.Context()
	table, err := s.vocabulary(ctx)
	if err != nil {
		return outputError("analyze", err)
	}

	dbPath := s.dbPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return outputError("analyze", fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err))
	}
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return outputError("analyze", fmt.Errorf("removing database for --force: %w", err))
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	engine, err := harmonizer.New(dbPath, s.engineOptions(table)...)
	if err != nil {
		return outputError("analyze", fmt.Errorf("creating engine: %w", err))
	}
	defer engine.Close()

	summary, err := engine.AnalyzeDirectory(ctx, targetDir)
	if summary == nil {
		return outputError("analyze", fmt.Errorf("analyzing: %w", err))
	}
	result := CLIResult{Command: "analyze", Results: runSummaryToCLI(summary, dbPath)}
	if err != nil {
		// Per-file failures still produce a summary worth printing.
		result.Error = err.Error()
		errorHandled = true
		if outErr := outputResult(result); outErr != nil {
			return outErr
		}
		return err
	}
	return outputResult(result)
}

var (
	flagMinSeverity string
	flagFailOn      string
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Analyze files without a database",
	Long:  "Scores every function in the given files and prints the reports. Nothing is stored.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	addAnalysisFlags(checkCmd)
	checkCmd.Flags().StringVar(&flagMinSeverity, "min-severity", "", "only report functions at or above this severity (default: analysis.minSeverity)")
	checkCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "exit non-zero when a function reaches this severity")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := cwdSession()
	if err != nil {
		return outputError("check", err)
	}
	defer s.close()
	if err := applyAnalysisFlags(cmd, s); err != nil {
		return outputError("check", err)
	}

	minSev := s.cfg.MinSeverity()
	if flagMinSeverity != "" {
		if minSev, err = harmonizer.ParseSeverity(flagMinSeverity); err != nil {
			return outputError("check", err)
		}
	}
	var failOn *harmonizer.Severity
	if flagFailOn != "" {
		sev, err := harmonizer.ParseSeverity(flagFailOn)
		if err != nil {
			return outputError("check", err)
		}
		failOn = &sev
	}

	ctx := cmd.Context()
	table, err := s.vocabulary(ctx)
	if err != nil {
		return outputError("check", err)
	}
	engine, err := harmonizer.New("", s.engineOptions(table)...)
	if err != nil {
		return outputError("check", fmt.Errorf("creating engine: %w", err))
	}
	defer engine.Close()

	var (
		cliFns  []CLIFunction
		failing int
	)
	for _, arg := range args {
		path, err := resolveFilePath(arg)
		if err != nil {
			return outputError("check", err)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return outputError("check", fmt.Errorf("reading %s: %w", arg, err))
		}
		reports, err := engine.AnalyzeSource(ctx, path, src)
		if err != nil {
			return outputError("check", err)
		}
		for i := range reports {
			r := &reports[i]
			if failOn != nil && r.Severity.AtLeast(*failOn) {
				failing++
			}
			if r.Severity.AtLeast(minSev) {
				cliFns = append(cliFns, functionToCLI(r))
			}
		}
	}

	count := len(cliFns)
	if err := outputResult(CLIResult{Command: "check", Results: cliFns, TotalCount: &count}); err != nil {
		return err
	}
	if failing > 0 {
		return fmt.Errorf("%d function(s) at or above %s", failing, *failOn)
	}
	return nil
}
