package runtime

import (
	"context"
	"sync"

	"github.com/risor-io/risor/object"
	"go.uber.org/zap"

	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/extract"
	"github.com/jward/harmonizer/internal/vocab"
)

// session collects the words one script evaluation defines. Lookups and
// analysis inside the script see its own definitions layered over the table.
type session struct {
	table *vocab.Table

	mu      sync.Mutex
	defined map[string]coord.Dimension
}

func newSession(t *vocab.Table) *session {
	return &session{table: t, defined: make(map[string]coord.Dimension)}
}

func (s *session) define(word string, d coord.Dimension) {
	s.mu.Lock()
	s.defined[word] = d
	s.mu.Unlock()
}

func (s *session) definitions() map[string]coord.Dimension {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]coord.Dimension, len(s.defined))
	for k, v := range s.defined {
		out[k] = v
	}
	return out
}

// effective returns the table with the session's words applied.
func (s *session) effective() *vocab.Table {
	defs := s.definitions()
	if len(defs) == 0 {
		return s.table
	}
	return s.table.Extend(defs)
}

// makeDefineFn creates the "define" host function.
//
// define(word, dimension) or define({word: dimension, ...})
func makeDefineFn(s *session) *object.Builtin {
	return object.NewBuiltin("define", func(ctx context.Context, args ...object.Object) object.Object {
		switch len(args) {
		case 1:
			m, ok := args[0].(*object.Map)
			if !ok {
				return object.Errorf("define: expected a map, got %s", args[0].Type())
			}
			for word, v := range m.Value() {
				if errObj := defineOne(s, word, v); errObj != nil {
					return errObj
				}
			}
			return object.Nil
		case 2:
			word, ok := args[0].(*object.String)
			if !ok {
				return object.Errorf("define: word must be a string, got %s", args[0].Type())
			}
			if errObj := defineOne(s, word.Value(), args[1]); errObj != nil {
				return errObj
			}
			return object.Nil
		default:
			return object.NewArgsError("define", 2, len(args))
		}
	})
}

func defineOne(s *session, word string, v object.Object) object.Object {
	name, ok := v.(*object.String)
	if !ok {
		return object.Errorf("define: dimension for %q must be a string, got %s", word, v.Type())
	}
	d, err := coord.ParseDimension(name.Value())
	if err != nil {
		return object.Errorf("define: %q: %v", word, err)
	}
	key := vocab.Phrase(word)
	if key == "" {
		return object.Errorf("define: empty word")
	}
	s.define(key, d)
	return nil
}

// makeLookupFn creates the "lookup" host function.
//
// lookup(word) → dimension name or nil
func makeLookupFn(s *session) *object.Builtin {
	return object.NewBuiltin("lookup", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("lookup", 1, len(args))
		}
		word, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("lookup: word must be a string, got %s", args[0].Type())
		}
		d, found := s.effective().Lookup(word.Value())
		if !found {
			return object.Nil
		}
		return object.NewString(d.String())
	})
}

// makeAnalyzeFn creates the "analyze" host function.
//
// analyze(text) → {"love": f, "justice": f, "power": f, "wisdom": f}
func makeAnalyzeFn(s *session) *object.Builtin {
	return object.NewBuiltin("analyze", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("analyze", 1, len(args))
		}
		text, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("analyze: text must be a string, got %s", args[0].Type())
		}
		c := s.effective().AnalyzeText(text.Value())
		m := make(map[string]object.Object, coord.NumDimensions)
		for _, d := range coord.Dimensions {
			m[d.String()] = object.NewFloat(c.Get(d))
		}
		return object.NewMap(m)
	})
}

// makeTokensFn creates the "tokens" host function.
//
// tokens(text) → list of lowercase tokens
func makeTokensFn() *object.Builtin {
	return object.NewBuiltin("tokens", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("tokens", 1, len(args))
		}
		text, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("tokens: text must be a string, got %s", args[0].Type())
		}
		toks := vocab.Tokenize(text.Value())
		items := make([]object.Object, len(toks))
		for i, tok := range toks {
			items[i] = object.NewString(tok)
		}
		return object.NewList(items)
	})
}

// makeFunctionsFn creates the "functions" host function. Scripts use it to
// mine names from sample sources.
//
// functions(source, language) → list of {name, kind, line}
func makeFunctionsFn(s *session) *object.Builtin {
	return object.NewBuiltin("functions", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("functions", 2, len(args))
		}
		src, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("functions: source must be a string, got %s", args[0].Type())
		}
		langStr, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("functions: language must be a string, got %s", args[1].Type())
		}
		lang, err := extract.ParseLanguage(langStr.Value())
		if err != nil {
			return object.Errorf("functions: %v", err)
		}
		exs, err := extract.New(s.table).ExtractLanguage(ctx, "<script>", []byte(src.Value()), lang)
		if err != nil {
			return object.Errorf("functions: %v", err)
		}
		items := make([]object.Object, len(exs))
		for i, ex := range exs {
			items[i] = object.NewMap(map[string]object.Object{
				"name": object.NewString(ex.Record.Name),
				"kind": object.NewString(string(ex.Record.Kind)),
				"line": object.NewInt(int64(ex.Record.Span.StartLine)),
			})
		}
		return object.NewList(items)
	})
}

// logObject provides log.Info/Warn/Error methods for scripts.
type logObject struct {
	logger *zap.Logger
}

func (l *logObject) Info(msg string)  { l.logger.Info(msg) }
func (l *logObject) Warn(msg string)  { l.logger.Warn(msg) }
func (l *logObject) Error(msg string) { l.logger.Error(msg) }
