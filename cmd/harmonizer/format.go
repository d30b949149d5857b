package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/jward/harmonizer"
	"github.com/jward/harmonizer/internal/baseline"
)

// severityStyles colors severity names in text output. lipgloss drops the
// colors when stdout is not a terminal.
var severityStyles = map[harmonizer.Severity]lipgloss.Style{
	harmonizer.SeverityExcellent: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	harmonizer.SeverityLow:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	harmonizer.SeverityMedium:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	harmonizer.SeverityHigh:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	harmonizer.SeverityCritical:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

var headingStyle = lipgloss.NewStyle().Bold(true)

func styleSeverity(s harmonizer.Severity) string {
	style, ok := severityStyles[s]
	if !ok {
		return s.String()
	}
	return style.Render(s.String())
}

// formatFunctionsText formats CLIFunction results as aligned columns. The
// styled severity is last so escape codes don't skew the alignment.
func formatFunctionsText(w io.Writer, fns []CLIFunction) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFILE\tLINE\tINTENT\tEXECUTION\tDISHARMONY\tSEVERITY")
	for _, f := range fns {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%.3f\t%s\n",
			f.ID, f.Name, f.File, f.StartLine, f.Intent, f.Execution, f.Disharmony, styleSeverity(f.Severity))
	}
	tw.Flush()
	for _, f := range fns {
		if len(f.Suggestions) > 0 && f.Intent != f.Execution {
			fmt.Fprintf(w, "%s:%d %s: consider %s\n", f.File, f.StartLine, f.Name, strings.Join(f.Suggestions, ", "))
		}
	}
}

// formatFilesText formats CLIFile results as aligned columns.
func formatFilesText(w io.Writer, files []CLIFile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tLANGUAGE\tFUNCTIONS\tPARSE ERROR")
	for _, f := range files {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", f.ID, f.Path, f.Language, f.FunctionCount, f.ParseError)
	}
	tw.Flush()
}

// formatRunsText formats CLIRun results as aligned columns.
func formatRunsText(w io.Writer, runs []CLIRun) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tFILES\tSKIPPED\tFUNCTIONS\tERRORS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Files, r.FilesSkipped, r.Functions, r.Errors)
	}
	tw.Flush()
}

// formatSeverityCounts writes one line per severity, least severe first.
func formatSeverityCounts(w io.Writer, counts map[string]int) {
	for sev := harmonizer.SeverityExcellent; sev <= harmonizer.SeverityCritical; sev++ {
		fmt.Fprintf(w, "  %s: %d\n", styleSeverity(sev), counts[sev.String()])
	}
}

// formatRunSummaryText formats an analyze result.
func formatRunSummaryText(w io.Writer, s CLIRunSummary) {
	fmt.Fprintf(w, "Analyzed %s in %dms (run %s)\n", s.Root, s.DurationMS, s.RunID)
	fmt.Fprintf(w, "Database: %s\n", s.Database)
	fmt.Fprintf(w, "Files: %d analyzed, %d skipped, %d failed to parse\n", s.Files, s.FilesSkipped, s.ParseErrors)
	fmt.Fprintf(w, "Functions: %d\n", s.Functions)
	formatSeverityCounts(w, s.BySeverity)
	if s.Worsened > 0 || s.Improved > 0 {
		fmt.Fprintf(w, "Since last run: %d worsened, %d improved\n", s.Worsened, s.Improved)
	}
	if s.Reanalyzed {
		fmt.Fprintln(w, "Analysis settings changed; every file was re-analyzed.")
	}
}

// formatSummaryText formats the stored summary.
func formatSummaryText(w io.Writer, s harmonizer.Summary) {
	fmt.Fprintln(w, headingStyle.Render("Summary"))
	fmt.Fprintln(w, "=======")
	fmt.Fprintf(w, "Files: %d (%d failed to parse)\n", s.Files, s.ParseFailures)
	fmt.Fprintf(w, "Functions: %d (%d mismatched)\n", s.Functions, s.Mismatched)
	fmt.Fprintf(w, "Disharmony: mean %.3f, max %.3f\n", s.MeanDisharmony, s.MaxDisharmony)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Severity:")
	formatSeverityCounts(w, s.BySeverity)

	if len(s.Languages) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Languages:")
		for _, l := range s.Languages {
			fmt.Fprintf(w, "  %s: %d files, %d functions\n", l.Language, l.FileCount, l.FunctionCount)
		}
	}
}

// formatDetailText formats a function detail.
func formatDetailText(w io.Writer, d harmonizer.FunctionDetail) {
	r := d.Report
	fmt.Fprintf(w, "%s (#%d) %s:%d-%d\n", headingStyle.Render(r.Function.Name), r.ID, r.File,
		r.Function.Span.StartLine, r.Function.Span.EndLine)
	fmt.Fprintf(w, "Severity: %s (disharmony %.3f)\n", styleSeverity(r.Severity), r.Disharmony)
	if d.Explanation != "" {
		fmt.Fprintln(w, d.Explanation)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Intent:    %s\n", r.Intent)
	fmt.Fprintf(w, "Context:   %s\n", r.Context)
	fmt.Fprintf(w, "Execution: %s\n", r.Execution)
	fmt.Fprintf(w, "Coherence %.3f, balance %.3f, benevolence %.3f\n", r.Coherence, r.Balance, r.Benevolence)
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tINTENT\tEXECUTION\tDELTA")
	for _, row := range r.Breakdown {
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%+.3f\n", row.Dimension, row.Intent, row.Execution, row.Delta)
	}
	tw.Flush()

	if len(r.Suggestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Suggested names:")
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "  %s (%s, %.3f)\n", s.Name, s.Category, s.Similarity)
		}
	}

	fmt.Fprintln(w)
	formatBaselineText(w, d.Baseline)
}

// formatBaselineText formats a baseline report.
func formatBaselineText(w io.Writer, b baseline.Report) {
	fmt.Fprintf(w, "Coordinate: %s\n", b.Coordinate)
	fmt.Fprintf(w, "Effective:  %s\n", b.Effective)
	fmt.Fprintf(w, "Composite: %.3f (%s)\n", b.Composite, b.CompositeLabel)
	fmt.Fprintf(w, "Distance from equilibrium: %.3f (%s)\n", b.EquilibriumDistance, b.EquilibriumLabel)
	fmt.Fprintf(w, "Robustness %.3f, effectiveness %.3f, growth %.3f, harmony %.3f\n",
		b.Robustness, b.Effectiveness, b.GrowthPotential, b.Harmony)
}

// formatWordsText formats vocabulary lookups.
func formatWordsText(w io.Writer, words []CLIWord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tPHRASE\tDIMENSION\tTIER")
	for _, word := range words {
		if !word.Known {
			fmt.Fprintf(tw, "%s\t\t-\tunknown\n", word.Word)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", word.Word, word.Phrase, word.Dimension, word.Tier)
	}
	tw.Flush()
}

// formatSuggestionsText formats the suggest command's result.
func formatSuggestionsText(w io.Writer, s CLISuggestions) {
	fmt.Fprintf(w, "Execution: %s (%s)\n", s.Execution, s.Dominant)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tSIMILARITY")
	for _, sg := range s.Suggestions {
		fmt.Fprintf(tw, "%s\t%s\t%.3f\n", sg.Name, sg.Category, sg.Similarity)
	}
	tw.Flush()
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []CLIFunction:
		formatFunctionsText(w, v)
	case []CLIFile:
		formatFilesText(w, v)
	case []CLIRun:
		formatRunsText(w, v)
	case CLIRunSummary:
		formatRunSummaryText(w, v)
	case harmonizer.Summary:
		formatSummaryText(w, v)
	case harmonizer.FunctionDetail:
		formatDetailText(w, v)
	case baseline.Report:
		formatBaselineText(w, v)
	case []CLIWord:
		formatWordsText(w, v)
	case CLISuggestions:
		formatSuggestionsText(w, v)
	case nil:
		// No output for nil results (e.g., at with no covering function).
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}

	if result.Error != "" {
		fmt.Fprintf(w, "\nError: %s\n", result.Error)
	}

	// Pagination footer.
	if result.TotalCount != nil {
		count := *result.TotalCount
		shown := resultLen(result.Results)
		if shown < count {
			fmt.Fprintf(w, "\nShowing %d of %d results\n", shown, count)
		}
	}
	return nil
}

// resultLen returns the length of a result slice, or 1 for a single value.
func resultLen(v any) int {
	switch r := v.(type) {
	case []CLIFunction:
		return len(r)
	case []CLIFile:
		return len(r)
	case []CLIRun:
		return len(r)
	case []CLIWord:
		return len(r)
	case CLISuggestions:
		return len(r.Suggestions)
	case nil:
		return 0
	default:
		return 1
	}
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
