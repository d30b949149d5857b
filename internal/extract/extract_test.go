package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/harmonizer/internal/coord"
	"github.com/jward/harmonizer/internal/vocab"
)

func extractSource(t *testing.T, path, src string, opts ...Option) []Extraction {
	t.Helper()
	out, err := New(nil, opts...).Extract(context.Background(), path, []byte(src))
	require.NoError(t, err)
	return out
}

func byName(t *testing.T, exs []Extraction, name string) Extraction {
	t.Helper()
	for _, ex := range exs {
		if ex.Record.Name == name {
			return ex
		}
	}
	t.Fatalf("function %q not extracted", name)
	return Extraction{}
}

func countWord(concepts []Concept, word string) int {
	n := 0
	for _, c := range concepts {
		if c.Word == word {
			n++
		}
	}
	return n
}

func TestRulesCoverEveryConstruct(t *testing.T) {
	t.Parallel()

	for c := Construct(0); c < numConstructs; c++ {
		r := rules[c]
		assert.NotEqual(t, "unknown", c.String())
		assert.True(t, r.fromNode || len(r.words) > 0, "construct %s has no rule", c)
		if !r.resolved {
			assert.True(t, r.dimension.Valid(), c.String())
		}
	}
	for lang, prof := range profiles {
		for kind, c := range prof.constructs {
			assert.True(t, c >= 0 && c < numConstructs, "%s: %s maps to invalid construct", lang, kind)
		}
		assert.NotEmpty(t, prof.functions, lang)
		assert.NotEmpty(t, prof.calleeField, lang)
	}
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	tests := map[string]Language{
		"a/b.go":    Go,
		"x.js":      JavaScript,
		"x.JSX":     JavaScript,
		"x.mjs":     JavaScript,
		"x.ts":      TypeScript,
		"x.tsx":     TSX,
		"tool.py":   Python,
		"lib/x.cts": TypeScript,
	}
	for path, want := range tests {
		got, ok := LanguageForFile(path)
		require.True(t, ok, path)
		assert.Equal(t, want, got, path)
	}
	_, ok := LanguageForFile("main.rb")
	assert.False(t, ok)

	assert.Equal(t, []Language{Go, JavaScript, Python, TSX, TypeScript}, Languages())

	l, err := ParseLanguage(" Python ")
	require.NoError(t, err)
	assert.Equal(t, Python, l)
	_, err = ParseLanguage("cobol")
	assert.Error(t, err)
}

const getUserDataJS = `function getUserData(userId) {
  database.delete(userId);
  cache.remove(userId);
  return userId;
}
`

func TestExtract_GetUserData(t *testing.T) {
	t.Parallel()

	exs := extractSource(t, "users.js", getUserDataJS)
	require.Len(t, exs, 1)
	ex := exs[0]

	assert.Equal(t, "getUserData", ex.Record.Name)
	assert.Equal(t, KindFunction, ex.Record.Kind)
	assert.Equal(t, JavaScript, ex.Record.Language)
	assert.Equal(t, []string{"userId"}, ex.Record.Params)
	assert.Equal(t, Span{StartLine: 1, StartColumn: 1, EndLine: 5, EndColumn: 2}, ex.Record.Span)

	assert.Equal(t, []Concept{{Word: "getUserData"}}, ex.Intent)
	assert.Equal(t, []Concept{
		{Word: "delete"},
		{Word: "remove"},
		{Word: "return", Dimension: coord.Wisdom, Tagged: true},
	}, ex.Execution)

	table := vocab.Default()
	intent := table.Coordinate(ex.Intent)
	exec := table.Coordinate(ex.Execution)
	assert.Equal(t, coord.Wisdom, intent.Dominant())
	assert.InDelta(t, 2.0/3.0, exec.Power(), 1e-12)
	assert.InDelta(t, 1.0/3.0, exec.Wisdom(), 1e-12)
	assert.Nil(t, ex.Nodes)
}

func TestExtract_NodeTags(t *testing.T) {
	t.Parallel()

	exs := extractSource(t, "users.js", getUserDataJS, WithNodeTags(true))
	require.Len(t, exs, 1)
	nodes := exs[0].Nodes
	require.Len(t, nodes, 3)

	assert.Equal(t, Node{Kind: "call_expression", Line: 2, Construct: "call", Word: "delete", Dimension: coord.Power, Known: true}, nodes[0])
	assert.Equal(t, "remove", nodes[1].Word)
	assert.Equal(t, Node{Kind: "return_statement", Line: 4, Construct: "return", Word: "return", Dimension: coord.Wisdom, Known: true}, nodes[2])
}

func TestExtract_JSRuleset(t *testing.T) {
	t.Parallel()

	src := `async function processItems(items) {
  let count = 0;
  for (let i = 0; i < items.length; i++) {
    if (items[i].valid) {
      count += 1;
    }
  }
  while (count > 0) {
    count = count - 1;
  }
  switch (count) {
    case 0:
      break;
  }
  try {
    await save(items);
  } catch (e) {
    throw new Error("failed");
  }
  return items;
}
`
	exs := extractSource(t, "p.js", src)
	require.Len(t, exs, 1)
	ex := exs[0]
	exec := ex.Execution

	assert.True(t, ex.Record.IsAsync)
	assert.False(t, ex.Record.IsArrow)
	assert.Equal(t, 1, countWord(exec, "if"))
	assert.Equal(t, 1, countWord(exec, "conditional"))
	assert.Equal(t, 1, countWord(exec, "check"))
	assert.Equal(t, 1, countWord(exec, "for"))
	assert.Equal(t, 1, countWord(exec, "iterate"))
	assert.Equal(t, 1, countWord(exec, "while"))
	assert.Equal(t, 2, countWord(exec, "loop"))
	assert.Equal(t, 1, countWord(exec, "switch"))
	assert.Equal(t, 1, countWord(exec, "case"))
	assert.Equal(t, 1, countWord(exec, "try"))
	assert.Equal(t, 1, countWord(exec, "handle"))
	assert.Equal(t, 1, countWord(exec, "throw"))
	assert.Equal(t, 1, countWord(exec, "error"))
	assert.Equal(t, 1, countWord(exec, "await"))
	assert.Equal(t, 1, countWord(exec, "save"))
	assert.Equal(t, 1, countWord(exec, "return"))
	assert.Equal(t, 2, countWord(exec, "assign"))
	assert.Equal(t, 2, countWord(exec, "let"))

	for _, c := range exec {
		switch c.Word {
		case "if", "switch", "for", "while":
			assert.Equal(t, coord.Justice, c.Dimension)
		case "throw", "assign":
			assert.Equal(t, coord.Power, c.Dimension)
		case "try", "catch", "handle":
			assert.Equal(t, coord.Love, c.Dimension)
		case "return", "await", "let":
			assert.Equal(t, coord.Wisdom, c.Dimension)
			assert.True(t, c.Tagged)
		case "save":
			assert.False(t, c.Tagged)
		}
	}
}

func TestExtract_NestedAndArrow(t *testing.T) {
	t.Parallel()

	src := "const loadAll = (ids) => ids.map((id) => fetchOne(id));\n"
	exs := extractSource(t, "load.js", src)
	require.Len(t, exs, 2)

	outer, inner := exs[0], exs[1]
	assert.Equal(t, "loadAll", outer.Record.Name)
	assert.Equal(t, KindArrow, outer.Record.Kind)
	assert.True(t, outer.Record.IsArrow)
	assert.Equal(t, []string{"ids"}, outer.Record.Params)
	assert.Equal(t, []Concept{
		{Word: "map"},
		{Word: "return", Dimension: coord.Wisdom, Tagged: true},
	}, outer.Execution)

	assert.Equal(t, Anonymous, inner.Record.Name)
	assert.Empty(t, inner.Intent)
	assert.Equal(t, []Concept{
		{Word: "fetchOne"},
		{Word: "return", Dimension: coord.Wisdom, Tagged: true},
	}, inner.Execution)
}

func TestExtract_MethodsAndDocs(t *testing.T) {
	t.Parallel()

	src := `class Store {
  /** Removes a record. */
  deleteRecord(id) {
    this.rows.delete(id);
  }
}

const api = {
  fetchUser: function (id) {
    return get(id);
  },
  save(x) {
    return x;
  },
};
`
	exs := extractSource(t, "store.js", src)
	require.Len(t, exs, 3)

	del := byName(t, exs, "deleteRecord")
	assert.Equal(t, KindMethod, del.Record.Kind)
	assert.Equal(t, "Removes a record.", del.Record.Doc)
	assert.Equal(t, []Concept{{Word: "deleteRecord"}, {Word: "Removes"}, {Word: "record"}}, del.Intent)

	fetch := byName(t, exs, "fetchUser")
	assert.Equal(t, KindFunction, fetch.Record.Kind)
	assert.Equal(t, 1, countWord(fetch.Execution, "get"))

	save := byName(t, exs, "save")
	assert.Equal(t, KindMethod, save.Record.Kind)
	assert.Equal(t, []string{"x"}, save.Record.Params)
}

func TestExtract_TypeScript(t *testing.T) {
	t.Parallel()

	src := `// Loads every item.
export async function getItems(limit: number): Promise<Item[]> {
  const rows = await api.fetch(limit);
  return rows;
}
`
	exs := extractSource(t, "items.ts", src)
	require.Len(t, exs, 1)
	ex := exs[0]
	assert.Equal(t, "getItems", ex.Record.Name)
	assert.Equal(t, TypeScript, ex.Record.Language)
	assert.True(t, ex.Record.IsAsync)
	assert.Equal(t, []string{"limit"}, ex.Record.Params)
	assert.Equal(t, "Loads every item.", ex.Record.Doc)
	assert.Equal(t, 1, countWord(ex.Execution, "const"))
	assert.Equal(t, 1, countWord(ex.Execution, "fetch"))
	assert.Equal(t, 1, countWord(ex.Execution, "await"))
}

func TestExtract_Python(t *testing.T) {
	t.Parallel()

	src := `class Repo:
    def get_user(self, user_id):
        """Fetch the user record."""
        self.cache.clear()
        for row in self.rows:
            if row.id == user_id:
                return row
        raise KeyError(user_id)


handler = lambda x: transform(x)


async def stream(items):
    for item in items:
        yield await item
`
	exs := extractSource(t, "repo.py", src)
	require.Len(t, exs, 3)

	get := byName(t, exs, "get_user")
	assert.Equal(t, KindMethod, get.Record.Kind)
	assert.Equal(t, []string{"self", "user_id"}, get.Record.Params)
	assert.Equal(t, "Fetch the user record.", get.Record.Doc)
	assert.Equal(t, 1, countWord(get.Execution, "clear"))
	assert.Equal(t, 1, countWord(get.Execution, "for"))
	assert.Equal(t, 1, countWord(get.Execution, "if"))
	assert.Equal(t, 1, countWord(get.Execution, "return"))
	assert.Equal(t, 1, countWord(get.Execution, "throw"))

	h := byName(t, exs, "handler")
	assert.Equal(t, KindLambda, h.Record.Kind)
	assert.True(t, h.Record.IsArrow)
	assert.Equal(t, []string{"x"}, h.Record.Params)
	assert.Equal(t, []Concept{
		{Word: "transform"},
		{Word: "return", Dimension: coord.Wisdom, Tagged: true},
	}, h.Execution)

	s := byName(t, exs, "stream")
	assert.Equal(t, KindFunction, s.Record.Kind)
	assert.True(t, s.Record.IsAsync)
	assert.True(t, s.Record.IsGenerator)
	assert.Equal(t, 1, countWord(s.Execution, "yield"))
	assert.Equal(t, 1, countWord(s.Execution, "await"))
}

func TestExtract_Go(t *testing.T) {
	t.Parallel()

	src := `package svc

// FetchOrders returns the orders for a customer.
func (s *Service) FetchOrders(ctx context.Context, id string) ([]Order, error) {
	orders, err := s.db.Query(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		s.total += o.Amount
	}
	v := <-s.ready
	_ = v
	cleanup := func() { s.db.Close() }
	cleanup()
	return orders, nil
}
`
	exs := extractSource(t, "svc.go", src)
	require.Len(t, exs, 2)

	f := byName(t, exs, "FetchOrders")
	assert.Equal(t, KindMethod, f.Record.Kind)
	assert.Equal(t, Go, f.Record.Language)
	assert.Equal(t, []string{"ctx", "id"}, f.Record.Params)
	assert.Equal(t, "FetchOrders returns the orders for a customer.", f.Record.Doc)

	exec := f.Execution
	assert.Equal(t, 1, countWord(exec, "Query"))
	assert.Equal(t, 1, countWord(exec, "cleanup"))
	assert.Equal(t, 0, countWord(exec, "Close"))
	assert.Equal(t, 1, countWord(exec, "if"))
	assert.Equal(t, 1, countWord(exec, "for"))
	assert.Equal(t, 2, countWord(exec, "return"))
	assert.Equal(t, 2, countWord(exec, "assign"))
	assert.Equal(t, 3, countWord(exec, "var"))
	assert.Equal(t, 1, countWord(exec, "await"))

	lit := byName(t, exs, "cleanup")
	assert.Equal(t, KindLiteral, lit.Record.Kind)
	assert.Equal(t, []Concept{{Word: "Close"}}, lit.Execution)
}

func TestExtract_ParseErrors(t *testing.T) {
	t.Parallel()

	x := New(nil)
	_, err := x.Extract(context.Background(), "bad.js", []byte("function broken( {\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.js", pe.Path)

	_, err = x.Extract(context.Background(), "main.rb", []byte("def x; end"))
	assert.True(t, errors.Is(err, ErrParse))

	_, err = x.ExtractLanguage(context.Background(), "x", nil, Language("cobol"))
	assert.True(t, errors.Is(err, ErrParse))
}

func TestExtract_Empty(t *testing.T) {
	t.Parallel()

	exs := extractSource(t, "empty.py", "x = 1\n")
	assert.Empty(t, exs)
}

func TestCleanDoc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"// Returns the user.", "Returns the user."},
		{"/**\n * Deletes rows.\n * @param id row id\n */", "Deletes rows.\n@param id row id"},
		{"# comment", "comment"},
		{`"""Docstring here."""`, "Docstring here."},
		{"/// triple", "triple"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanDoc(tt.in), tt.in)
	}

	assert.Equal(t, []string{"Deletes", "rows", "param", "row"}, docWords("Deletes rows.\n@param id row id"))
}
