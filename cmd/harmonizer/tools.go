package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jward/harmonizer/internal/baseline"
	"github.com/jward/harmonizer/internal/vocab"
)

var (
	flagSuggestNoun string
	flagSuggestTop  int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <words>...",
	Short: "Suggest function names for what a body does",
	Long:  "Treats the words as a function body (e.g. 'delete remove return'), builds its coordinate and ranks verbs by similarity.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&flagSuggestNoun, "noun", "", "noun appended to each suggested verb")
	suggestCmd.Flags().IntVar(&flagSuggestTop, "top", 5, "number of suggestions")

	// Components such as -1 are arguments, not shorthand flags.
	baselineCmd.Flags().SetInterspersed(false)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	s, err := cwdSession()
	if err != nil {
		return outputError("suggest", err)
	}
	defer s.close()
	table, err := s.vocabulary(cmd.Context())
	if err != nil {
		return outputError("suggest", err)
	}

	execution := table.Coordinate(vocab.Words(args...))
	sgs := suggestionIndex.Suggest(execution, flagSuggestNoun, flagSuggestTop)
	count := len(sgs)
	return outputResult(CLIResult{
		Command: "suggest",
		Results: CLISuggestions{
			Words:       args,
			Execution:   execution,
			Dominant:    execution.Dominant(),
			Suggestions: sgs,
		},
		TotalCount: &count,
	})
}

var baselineCmd = &cobra.Command{
	Use:   "baseline <love> <justice> <power> <wisdom>",
	Short: "Score an absolute coordinate against the reference points",
	Long:  "Flags must come before the components. Put -- first when the love component is negative.",
	Args:  cobra.ExactArgs(4),
	RunE:  runBaseline,
}

func runBaseline(cmd *cobra.Command, args []string) error {
	a, err := parseAbsoluteCoordinate(args)
	if err != nil {
		return outputError("baseline", err)
	}
	return outputResult(CLIResult{Command: "baseline", Results: baseline.Diagnose(a)})
}

// parseAbsoluteCoordinate reads four non-negative components.
func parseAbsoluteCoordinate(args []string) (baseline.AbsoluteCoordinate, error) {
	names := [4]string{"love", "justice", "power", "wisdom"}
	var v [4]float64
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return baseline.AbsoluteCoordinate{}, fmt.Errorf("invalid %s %q: must be a number", names[i], arg)
		}
		if f < 0 {
			return baseline.AbsoluteCoordinate{}, fmt.Errorf("invalid %s %q: must not be negative", names[i], arg)
		}
		v[i] = f
	}
	return baseline.AbsoluteCoordinate{L: v[0], J: v[1], P: v[2], W: v[3]}, nil
}

var vocabCmd = &cobra.Command{
	Use:   "vocab <words>...",
	Short: "Show which dimension each word maps to",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVocab,
}

func runVocab(cmd *cobra.Command, args []string) error {
	s, err := cwdSession()
	if err != nil {
		return outputError("vocab", err)
	}
	defer s.close()
	table, err := s.vocabulary(cmd.Context())
	if err != nil {
		return outputError("vocab", err)
	}

	words := make([]CLIWord, len(args))
	for i, w := range args {
		words[i] = wordToCLI(w, table)
	}
	count := len(words)
	return outputResult(CLIResult{Command: "vocab", Results: words, TotalCount: &count})
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	s, err := cwdSession()
	if err != nil {
		return outputError("config", err)
	}
	defer s.close()
	if flagFormat == "text" {
		return s.cfg.WriteYAML(os.Stdout)
	}
	return outputResult(CLIResult{Command: "config", Results: s.cfg})
}
