// Package extract turns source files into per-function concept lists.
//
// Each function-like construct yields an Extraction: its FunctionRecord, the
// intent concepts taken from its name and documentation, and the execution
// concepts taken from one traversal of its body. Body traversal dispatches on
// tree-sitter node kinds through per-language tables onto a closed set of
// constructs, each with a fixed contribution.
package extract

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/vocab"
)

// Anonymous is the name recorded for functions without one.
const Anonymous = "anonymous"

// ErrParse marks files that could not be parsed.
var ErrParse = errors.New("extract: parse failure")

// ParseError is a per-file parse failure.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract: %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// Span is a 1-based source range.
type Span struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	EndLine     int `json:"end_line"`
	EndColumn   int `json:"end_column"`
}

// FunctionRecord describes one function-like construct.
type FunctionRecord struct {
	Name        string   `json:"name"`
	Kind        Kind     `json:"kind"`
	Language    Language `json:"language"`
	Params      []string `json:"params"`
	IsAsync     bool     `json:"is_async"`
	IsGenerator bool     `json:"is_generator"`
	IsArrow     bool     `json:"is_arrow"`
	Doc         string   `json:"doc,omitempty"`
	Span        Span     `json:"span"`
}

// Concept is an extracted word; see vocab.Concept.
type Concept = vocab.Concept

// Node is one tagged syntax node, recorded for diagnostic display.
type Node struct {
	Kind      string          `json:"kind"`
	Line      int             `json:"line"`
	Construct string          `json:"construct"`
	Word      string          `json:"word"`
	Dimension coord.Dimension `json:"dimension"`
	Known     bool            `json:"known"`
}

// Extraction is the output for one function.
type Extraction struct {
	Record    FunctionRecord
	Intent    []Concept
	Execution []Concept
	// Nodes is filled only when node tagging is enabled.
	Nodes []Node
}

// Extractor parses files and extracts concepts. It is safe for concurrent
// use; every call creates its own parser.
type Extractor struct {
	table    *vocab.Table
	nodeTags bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNodeTags records per-node dimension tags on every Extraction.
func WithNodeTags(enabled bool) Option {
	return func(x *Extractor) {
		x.nodeTags = enabled
	}
}

// New returns an extractor that resolves call names through table. A nil
// table means the built-in vocabulary.
func New(table *vocab.Table, opts ...Option) *Extractor {
	if table == nil {
		table = vocab.Default()
	}
	x := &Extractor{table: table}
	for _, o := range opts {
		o(x)
	}
	return x
}

// Table returns the vocabulary used for node tags.
func (x *Extractor) Table() *vocab.Table { return x.table }

// Extract detects the language from path and extracts every function.
func (x *Extractor) Extract(ctx context.Context, path string, src []byte) ([]Extraction, error) {
	lang, ok := LanguageForFile(path)
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unsupported file type")}
	}
	return x.ExtractLanguage(ctx, path, src, lang)
}

// ExtractLanguage parses src as lang and extracts every function in source
// order. A tree containing syntax errors yields a *ParseError.
func (x *Extractor) ExtractLanguage(ctx context.Context, path string, src []byte, lang Language) ([]Extraction, error) {
	prof, ok := profiles[lang]
	grammar, gok := grammarFor(lang)
	if !ok || !gok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("unsupported language %q", lang)}
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("syntax error near line %d", firstErrorLine(root))}
	}

	w := &walker{x: x, prof: prof, lang: lang, src: src}
	var out []Extraction
	for _, fn := range w.functions(root) {
		out = append(out, w.extract(fn))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Record.Span, out[j].Record.Span
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartColumn < b.StartColumn
	})
	return out, nil
}

// firstErrorLine returns the 1-based line of the first ERROR or missing node.
func firstErrorLine(root *sitter.Node) int {
	line := int(root.StartPoint().Row) + 1
	var find func(n *sitter.Node) bool
	find = func(n *sitter.Node) bool {
		if n.IsError() || n.IsMissing() {
			line = int(n.StartPoint().Row) + 1
			return true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c != nil && c.HasError() && find(c) {
				return true
			}
			if c != nil && c.IsMissing() {
				line = int(c.StartPoint().Row) + 1
				return true
			}
		}
		return false
	}
	find(root)
	return line
}
