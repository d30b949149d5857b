package harmonizer

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jward/harmonizer/internal/baseline"
	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/extract"
	"github.com/jward/harmonizer/internal/ice"
	"github.com/jward/harmonizer/internal/store"
	"github.com/jward/harmonizer/internal/suggest"
	"github.com/jward/harmonizer/internal/vocab"
)

// contextText is the text the context coordinate is built from: the file
// name tokens plus the language name.
func contextText(path string, lang extract.Language) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + " " + string(lang)
}

func (e *Engine) buildReport(path string, surround coord.Coordinate, ex extract.Extraction) FunctionReport {
	res := ice.AnalyzeCoordinates(e.analyzer.Coordinate(ex.Intent), surround, e.analyzer.Coordinate(ex.Execution))
	r := reportFromResult(res)
	r.File = path
	r.Function = ex.Record
	r.NodeTags = ex.Nodes

	noun := e.noun
	if noun == "" {
		noun = nounFromName(ex.Record.Name, e.index)
	}
	r.Suggestions = e.index.Suggest(res.Execution, noun, e.topN)
	if e.baseline {
		b := baseline.Diagnose(baseline.FromCoordinate(res.Execution))
		r.Baseline = &b
	}
	return r
}

func reportFromResult(res ice.Result) FunctionReport {
	rows := ice.Breakdown(res)
	return FunctionReport{
		Intent:            res.Intent,
		Context:           res.Context,
		Execution:         res.Execution,
		Disharmony:        res.Disharmony,
		Coherence:         res.Coherence,
		Balance:           res.Balance,
		Benevolence:       res.Benevolence,
		Severity:          res.Severity,
		IntentDominant:    res.Intent.Dominant(),
		ExecutionDominant: res.Execution.Dominant(),
		Breakdown:         rows[:],
	}
}

// nounFromName drops a leading known verb from a function name and returns
// the rest in camelCase: "getUserData" yields "userData". Names without a
// remainder yield "".
func nounFromName(name string, idx *suggest.Index) string {
	if name == extract.Anonymous {
		return ""
	}
	toks := vocab.Tokenize(name)
	if len(toks) == 0 {
		return ""
	}
	if _, ok := idx.Lookup(toks[0]); ok {
		toks = toks[1:]
	}
	if len(toks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(toks[0])
	for _, t := range toks[1:] {
		r, size := utf8.DecodeRuneInString(t)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(t[size:])
	}
	return b.String()
}

// storeFunction converts a report into its row form.
func (r *FunctionReport) storeFunction(fileID int64) *store.Function {
	fn := &store.Function{
		FileID:            fileID,
		Name:              r.Function.Name,
		Kind:              string(r.Function.Kind),
		Params:            r.Function.Params,
		IsAsync:           r.Function.IsAsync,
		IsGenerator:       r.Function.IsGenerator,
		IsArrow:           r.Function.IsArrow,
		Doc:               r.Function.Doc,
		StartLine:         r.Function.Span.StartLine,
		StartCol:          r.Function.Span.StartColumn,
		EndLine:           r.Function.Span.EndLine,
		EndCol:            r.Function.Span.EndColumn,
		Intent:            r.Intent.Components(),
		Context:           r.Context.Components(),
		Execution:         r.Execution.Components(),
		Disharmony:        r.Disharmony,
		Coherence:         r.Coherence,
		Balance:           r.Balance,
		Benevolence:       r.Benevolence,
		Severity:          r.Severity.String(),
		IntentDominant:    r.IntentDominant.String(),
		ExecutionDominant: r.ExecutionDominant.String(),
	}
	if len(r.NodeTags) > 0 {
		// Node is a flat struct of strings, ints and bools.
		fn.NodeTags, _ = json.Marshal(r.NodeTags)
	}
	return fn
}

// writeReports stores reports and their suggestions through ds.
func writeReports(ds store.DataStore, fileID int64, reports []FunctionReport) error {
	for i := range reports {
		r := &reports[i]
		id, err := ds.InsertFunction(r.storeFunction(fileID))
		if err != nil {
			return err
		}
		for rank, s := range r.Suggestions {
			if _, err := ds.InsertSuggestion(&store.Suggestion{
				FunctionID: id,
				Rank:       rank + 1,
				Name:       s.Name,
				Verb:       s.Verb,
				Category:   s.Category,
				Similarity: s.Similarity,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func coordinateFrom(v [4]float64) (Coordinate, error) {
	return coord.FromCounts(v[0], v[1], v[2], v[3])
}

// reportFromStore rebuilds a report from its stored row. file may be nil,
// in which case File and Language stay empty.
func reportFromStore(fn *store.Function, file *store.File, sgs []*store.Suggestion) (FunctionReport, error) {
	intent, err := coordinateFrom(fn.Intent)
	if err != nil {
		return FunctionReport{}, fmt.Errorf("function %d: intent: %w", fn.ID, err)
	}
	surround, err := coordinateFrom(fn.Context)
	if err != nil {
		return FunctionReport{}, fmt.Errorf("function %d: context: %w", fn.ID, err)
	}
	execution, err := coordinateFrom(fn.Execution)
	if err != nil {
		return FunctionReport{}, fmt.Errorf("function %d: execution: %w", fn.ID, err)
	}
	sev, err := ParseSeverity(fn.Severity)
	if err != nil {
		return FunctionReport{}, fmt.Errorf("function %d: %w", fn.ID, err)
	}

	r := reportFromResult(ice.Result{
		Intent:      intent,
		Context:     surround,
		Execution:   execution,
		Disharmony:  fn.Disharmony,
		Coherence:   fn.Coherence,
		Balance:     fn.Balance,
		Benevolence: fn.Benevolence,
		Severity:    sev,
	})
	r.ID = fn.ID
	r.Function = extract.FunctionRecord{
		Name:        fn.Name,
		Kind:        extract.Kind(fn.Kind),
		Params:      fn.Params,
		IsAsync:     fn.IsAsync,
		IsGenerator: fn.IsGenerator,
		IsArrow:     fn.IsArrow,
		Doc:         fn.Doc,
		Span: extract.Span{
			StartLine:   fn.StartLine,
			StartColumn: fn.StartCol,
			EndLine:     fn.EndLine,
			EndColumn:   fn.EndCol,
		},
	}
	if file != nil {
		r.File = file.Path
		r.Function.Language = extract.Language(file.Language)
	}
	if len(fn.NodeTags) > 0 {
		if err := json.Unmarshal(fn.NodeTags, &r.NodeTags); err != nil {
			return FunctionReport{}, fmt.Errorf("function %d: node tags: %w", fn.ID, err)
		}
	}
	for _, s := range sgs {
		r.Suggestions = append(r.Suggestions, Suggestion{
			Name:       s.Name,
			Verb:       s.Verb,
			Category:   s.Category,
			Similarity: s.Similarity,
		})
	}
	return r, nil
}
