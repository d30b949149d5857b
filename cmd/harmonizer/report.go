package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jward/harmonizer"
)

var (
	flagLimit  int
	flagOffset int
	flagSort   string
	flagOrder  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Query stored analysis results",
	Long:  "Read results written by 'harmonizer analyze'. Line numbers are 1-based.",
}

func init() {
	reportCmd.PersistentFlags().IntVar(&flagLimit, "limit", 50, "pagination limit (max 500)")
	reportCmd.PersistentFlags().IntVar(&flagOffset, "offset", 0, "pagination offset")
	reportCmd.PersistentFlags().StringVar(&flagSort, "sort", "", "sort field: disharmony|name|file|line|severity")
	reportCmd.PersistentFlags().StringVar(&flagOrder, "order", "", "sort order: asc|desc (default: worst first for disharmony and severity)")

	reportCmd.AddCommand(functionsCmd)
	reportCmd.AddCommand(filesCmd)
	reportCmd.AddCommand(summaryCmd)
	reportCmd.AddCommand(detailCmd)
	reportCmd.AddCommand(atCmd)
	reportCmd.AddCommand(runsCmd)
}

// --- Helpers ---

// resolveFilePath converts a file argument to an absolute path.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}

// parseIntArg parses a positional argument as a positive integer with a
// clear error.
func parseIntArg(value, name string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, value)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", name, value)
	}
	return n, nil
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(os.Stdout, result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResult{Command: command, Error: err.Error()})
	return err
}

// buildPagination creates a Pagination from CLI flags.
func buildPagination() harmonizer.Pagination {
	return harmonizer.Pagination{Limit: flagLimit, Offset: flagOffset}
}

// buildSort creates a Sort from CLI flags.
func buildSort() (harmonizer.Sort, error) {
	field, err := harmonizer.ParseSortField(flagSort)
	if err != nil {
		return harmonizer.Sort{}, err
	}
	var order harmonizer.SortOrder
	switch flagOrder {
	case "":
	case "asc":
		order = harmonizer.Asc
	case "desc":
		order = harmonizer.Desc
	default:
		return harmonizer.Sort{}, fmt.Errorf("invalid order %q: must be asc or desc", flagOrder)
	}
	return harmonizer.Sort{Field: field, Order: order}, nil
}

// withEngine opens the database for the working directory and runs fn.
func withEngine(command string, fn func(*session, *harmonizer.Engine) error) error {
	s, err := cwdSession()
	if err != nil {
		return outputError(command, err)
	}
	defer s.close()
	engine, err := s.openEngine()
	if err != nil {
		return outputError(command, err)
	}
	defer engine.Close()
	if err := fn(s, engine); err != nil {
		return outputError(command, err)
	}
	return nil
}

// --- Commands ---

var (
	flagReportSeverity string
	flagReportKinds    string
	flagReportLanguage string
	flagReportPath     string
	flagReportSearch   string
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List analyzed functions, worst first",
	Args:  cobra.NoArgs,
	RunE:  runFunctions,
}

func init() {
	functionsCmd.Flags().StringVar(&flagReportSeverity, "min-severity", "", "only functions at or above this severity (default: analysis.minSeverity)")
	functionsCmd.Flags().StringVar(&flagReportKinds, "kind", "", "comma-separated function kinds")
	functionsCmd.Flags().StringVar(&flagReportLanguage, "language", "", "only functions in files of this language")
	functionsCmd.Flags().StringVar(&flagReportPath, "path", "", "only functions in files under this path")
	functionsCmd.Flags().StringVar(&flagReportSearch, "search", "", "name pattern; * matches any run of characters")
}

func runFunctions(cmd *cobra.Command, args []string) error {
	return withEngine("functions", func(s *session, engine *harmonizer.Engine) error {
		filter := harmonizer.FunctionFilter{
			Kinds:    splitList(flagReportKinds),
			Language: flagReportLanguage,
		}
		minSev := s.cfg.MinSeverity()
		if flagReportSeverity != "" {
			sev, err := harmonizer.ParseSeverity(flagReportSeverity)
			if err != nil {
				return err
			}
			minSev = sev
		}
		if minSev > harmonizer.SeverityExcellent {
			filter.MinSeverity = &minSev
		}
		if flagReportPath != "" {
			p, err := resolveFilePath(flagReportPath)
			if err != nil {
				return err
			}
			filter.PathPrefix = &p
		}
		sort, err := buildSort()
		if err != nil {
			return err
		}

		q := engine.Query()
		var res *harmonizer.PagedResult[harmonizer.FunctionReport]
		if flagReportSearch != "" {
			res, err = q.SearchFunctions(flagReportSearch, filter, sort, buildPagination())
		} else {
			res, err = q.Functions(filter, sort, buildPagination())
		}
		if err != nil {
			return err
		}

		cliFns := make([]CLIFunction, len(res.Items))
		for i := range res.Items {
			cliFns[i] = functionToCLI(&res.Items[i])
		}
		return outputResult(CLIResult{
			Command:    "functions",
			Results:    cliFns,
			TotalCount: &res.TotalCount,
		})
	})
}

var (
	flagFilesPath     string
	flagFilesLanguage string
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List analyzed files",
	Args:  cobra.NoArgs,
	RunE:  runFiles,
}

func init() {
	filesCmd.Flags().StringVar(&flagFilesPath, "path", "", "only files under this path")
	filesCmd.Flags().StringVar(&flagFilesLanguage, "language", "", "only files of this language")
}

func runFiles(cmd *cobra.Command, args []string) error {
	return withEngine("files", func(_ *session, engine *harmonizer.Engine) error {
		prefix := ""
		if flagFilesPath != "" {
			p, err := resolveFilePath(flagFilesPath)
			if err != nil {
				return err
			}
			prefix = p
		}
		sort, err := buildSort()
		if err != nil {
			return err
		}
		res, err := engine.Query().Files(prefix, flagFilesLanguage, sort, buildPagination())
		if err != nil {
			return err
		}
		cliFiles := make([]CLIFile, len(res.Items))
		for i, f := range res.Items {
			cliFiles[i] = fileToCLI(f)
		}
		return outputResult(CLIResult{
			Command:    "files",
			Results:    cliFiles,
			TotalCount: &res.TotalCount,
		})
	})
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show per-severity counts and disharmony statistics",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	return withEngine("summary", func(_ *session, engine *harmonizer.Engine) error {
		sum, err := engine.Query().Summary()
		if err != nil {
			return err
		}
		return outputResult(CLIResult{Command: "summary", Results: *sum})
	})
}

var detailCmd = &cobra.Command{
	Use:   "detail <id>",
	Short: "Explain one function's intent and execution",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetail,
}

func runDetail(cmd *cobra.Command, args []string) error {
	return withEngine("detail", func(_ *session, engine *harmonizer.Engine) error {
		id, err := parseIntArg(args[0], "id")
		if err != nil {
			return err
		}
		d, err := engine.Query().FunctionDetail(id)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("function %d not found", id)
		}
		one := 1
		return outputResult(CLIResult{Command: "detail", Results: *d, TotalCount: &one})
	})
}

var atCmd = &cobra.Command{
	Use:   "at <file> <line>",
	Short: "Explain the innermost function covering a line",
	Args:  cobra.ExactArgs(2),
	RunE:  runAt,
}

func runAt(cmd *cobra.Command, args []string) error {
	return withEngine("at", func(_ *session, engine *harmonizer.Engine) error {
		file, err := resolveFilePath(args[0])
		if err != nil {
			return err
		}
		line, err := parseIntArg(args[1], "line")
		if err != nil {
			return err
		}
		d, err := engine.Query().FunctionAt(file, int(line))
		if err != nil {
			return err
		}
		if d == nil {
			return outputResult(CLIResult{Command: "at", Results: nil})
		}
		one := 1
		return outputResult(CLIResult{Command: "at", Results: *d, TotalCount: &one})
	})
}

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "List recent analysis runs, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	return withEngine("runs", func(_ *session, engine *harmonizer.Engine) error {
		q := engine.Query()
		if len(args) == 1 {
			run, err := q.Run(args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("run %s not found", args[0])
			}
			one := 1
			return outputResult(CLIResult{Command: "runs", Results: []CLIRun{runToCLI(run)}, TotalCount: &one})
		}

		runs, err := q.Runs(flagLimit)
		if err != nil {
			return err
		}
		cliRuns := make([]CLIRun, len(runs))
		for i, r := range runs {
			cliRuns[i] = runToCLI(r)
		}
		count := len(cliRuns)
		return outputResult(CLIResult{Command: "runs", Results: cliRuns, TotalCount: &count})
	})
}
