package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// walker holds per-file state while extracting.
type walker struct {
	x    *Extractor
	prof *profile
	lang Language
	src  []byte
}

// current accumulates one function's execution concepts.
type current struct {
	concepts []Concept
	nodes    []Node
	sawYield bool
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

func (w *walker) isFunction(n *sitter.Node) bool {
	if n == nil || !n.IsNamed() {
		return false
	}
	_, ok := w.prof.functions[n.Type()]
	return ok
}

// functions returns every function-like node in pre-order.
func (w *walker) functions(root *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if w.isFunction(n) && n.ChildByFieldName("body") != nil {
			out = append(out, n)
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

func (w *walker) extract(fn *sitter.Node) Extraction {
	kind := w.prof.functions[fn.Type()]
	if kind == KindFunction && w.lang == Python && isPythonMethod(fn) {
		kind = KindMethod
	}

	rec := FunctionRecord{
		Name:        w.name(fn),
		Kind:        kind,
		Language:    w.lang,
		Params:      w.params(fn),
		IsAsync:     hasToken(fn, "async"),
		IsGenerator: strings.HasPrefix(fn.Type(), "generator_") || hasToken(fn, "*"),
		IsArrow:     kind == KindArrow || kind == KindLambda,
		Doc:         w.doc(fn),
		Span: Span{
			StartLine:   int(fn.StartPoint().Row) + 1,
			StartColumn: int(fn.StartPoint().Column) + 1,
			EndLine:     int(fn.EndPoint().Row) + 1,
			EndColumn:   int(fn.EndPoint().Column) + 1,
		},
	}

	var intent []Concept
	if rec.Name != Anonymous {
		intent = append(intent, Concept{Word: rec.Name})
	}
	for _, word := range docWords(rec.Doc) {
		intent = append(intent, Concept{Word: word})
	}

	cur := &current{}
	body := fn.ChildByFieldName("body")
	w.visit(body, cur)
	if implicitReturn(kind, body) {
		w.apply(ConstructReturn, body, cur)
	}
	if cur.sawYield && w.lang == Python {
		rec.IsGenerator = true
	}

	ex := Extraction{Record: rec, Intent: intent, Execution: cur.concepts}
	if w.x.nodeTags {
		ex.Nodes = cur.nodes
	}
	return ex
}

// implicitReturn reports whether an expression-bodied arrow or lambda
// returns its body.
func implicitReturn(kind Kind, body *sitter.Node) bool {
	switch kind {
	case KindArrow:
		return body != nil && body.Type() != "statement_block"
	case KindLambda:
		return body != nil
	}
	return false
}

// visit walks a function body once. Nested functions are not entered; they
// are extracted on their own.
func (w *walker) visit(n *sitter.Node, cur *current) {
	if n == nil || w.isFunction(n) {
		return
	}
	if n.IsNamed() {
		if c, ok := w.prof.constructs[n.Type()]; ok {
			if guard, has := w.prof.guards[n.Type()]; !has || guard(n, w.src) {
				w.apply(c, n, cur)
			}
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.visit(n.Child(i), cur)
	}
}

// apply adds the contribution of construct c found at node n.
func (w *walker) apply(c Construct, n *sitter.Node, cur *current) {
	r := rules[c]
	line := int(n.StartPoint().Row) + 1
	if c == ConstructYield {
		cur.sawYield = true
	}

	if r.fromNode {
		var word string
		switch c {
		case ConstructCall:
			word = w.callee(n)
		case ConstructDeclare:
			word = w.declKeyword(n)
		}
		if word == "" {
			return
		}
		concept := Concept{Word: word}
		if !r.resolved {
			concept.Dimension, concept.Tagged = r.dimension, true
		}
		cur.concepts = append(cur.concepts, concept)
		if w.x.nodeTags {
			d, known := w.x.table.Resolve(concept)
			cur.nodes = append(cur.nodes, Node{
				Kind: n.Type(), Line: line, Construct: c.String(),
				Word: word, Dimension: d, Known: known,
			})
		}
		return
	}

	for _, word := range r.words {
		cur.concepts = append(cur.concepts, Concept{Word: word, Dimension: r.dimension, Tagged: true})
	}
	if w.x.nodeTags {
		cur.nodes = append(cur.nodes, Node{
			Kind: n.Type(), Line: line, Construct: c.String(),
			Word: strings.Join(r.words, " "), Dimension: r.dimension, Known: true,
		})
	}
}

// callee returns the rightmost identifier of a call's callee:
// database.delete(x) resolves to "delete".
func (w *walker) callee(call *sitter.Node) string {
	return w.rightmostIdent(call.ChildByFieldName(w.prof.calleeField))
}

func (w *walker) rightmostIdent(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "identifier", "property_identifier", "field_identifier",
		"private_property_identifier", "shorthand_property_identifier",
		"type_identifier":
		return strings.TrimPrefix(w.text(n), "#")
	case "member_expression":
		return w.rightmostIdent(n.ChildByFieldName("property"))
	case "attribute":
		return w.rightmostIdent(n.ChildByFieldName("attribute"))
	case "selector_expression":
		return w.rightmostIdent(n.ChildByFieldName("field"))
	case "generic_function", "instantiation_expression":
		return w.rightmostIdent(n.ChildByFieldName("function"))
	case "non_null_expression":
		return w.rightmostIdent(n.NamedChild(0))
	}
	return ""
}

func (w *walker) declKeyword(n *sitter.Node) string {
	if kw, ok := w.prof.declKeyword[n.Type()]; ok {
		return kw
	}
	if kind := n.ChildByFieldName("kind"); kind != nil {
		return w.text(kind)
	}
	if n.ChildCount() == 0 {
		return ""
	}
	return w.text(n.Child(0))
}

// name returns the declared name, or the name a function expression is
// assigned to, or Anonymous.
func (w *walker) name(fn *sitter.Node) string {
	if n := fn.ChildByFieldName("name"); n != nil {
		return w.text(n)
	}
	p := fn.Parent()
	if p == nil {
		return Anonymous
	}
	var name string
	switch p.Type() {
	case "variable_declarator":
		if sameNode(p.ChildByFieldName("value"), fn) {
			name = w.rightmostIdent(p.ChildByFieldName("name"))
		}
	case "assignment_expression", "assignment":
		if sameNode(p.ChildByFieldName("right"), fn) {
			name = w.rightmostIdent(p.ChildByFieldName("left"))
		}
	case "pair":
		if sameNode(p.ChildByFieldName("value"), fn) {
			name = strings.Trim(w.text(p.ChildByFieldName("key")), `"'`+"`")
		}
	case "field_definition":
		name = w.rightmostIdent(p.ChildByFieldName("property"))
	case "public_field_definition":
		name = w.rightmostIdent(p.ChildByFieldName("name"))
	case "expression_list":
		name = w.goAssignedName(p, fn)
	}
	if name == "" {
		return Anonymous
	}
	return name
}

// goAssignedName resolves f in `f := func() {}` and `var f = func() {}`.
func (w *walker) goAssignedName(list, fn *sitter.Node) string {
	idx := -1
	for i := 0; i < int(list.NamedChildCount()); i++ {
		if sameNode(list.NamedChild(i), fn) {
			idx = i
			break
		}
	}
	gp := list.Parent()
	if idx < 0 || gp == nil {
		return ""
	}
	switch gp.Type() {
	case "short_var_declaration", "assignment_statement":
		left := gp.ChildByFieldName("left")
		if left != nil && idx < int(left.NamedChildCount()) {
			return w.rightmostIdent(left.NamedChild(idx))
		}
	case "var_spec", "const_spec":
		var names []string
		for i := 0; i < int(gp.ChildCount()); i++ {
			if gp.FieldNameForChild(i) == "name" {
				names = append(names, w.text(gp.Child(i)))
			}
		}
		if idx < len(names) {
			return names[idx]
		}
	}
	return ""
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil &&
		a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// hasToken reports whether fn has a direct anonymous child token tok, such
// as "async" or the generator star.
func hasToken(fn *sitter.Node, tok string) bool {
	for i := 0; i < int(fn.ChildCount()); i++ {
		c := fn.Child(i)
		if c != nil && !c.IsNamed() && c.Type() == tok {
			return true
		}
	}
	return false
}

func isPythonMethod(fn *sitter.Node) bool {
	p := fn.Parent()
	if p != nil && p.Type() == "decorated_definition" {
		p = p.Parent()
	}
	return p != nil && p.Type() == "block" && p.Parent() != nil && p.Parent().Type() == "class_definition"
}

func (w *walker) params(fn *sitter.Node) []string {
	if single := fn.ChildByFieldName("parameter"); single != nil {
		return []string{w.text(single)}
	}
	list := fn.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		out = append(out, w.paramNames(list.NamedChild(i))...)
	}
	return out
}

func (w *walker) paramNames(p *sitter.Node) []string {
	if p == nil {
		return nil
	}
	switch p.Type() {
	case "comment", "keyword_separator", "positional_separator":
		return nil
	case "identifier":
		return []string{w.text(p)}
	case "parameter_declaration", "variadic_parameter_declaration":
		var names []string
		for i := 0; i < int(p.ChildCount()); i++ {
			if p.FieldNameForChild(i) == "name" {
				names = append(names, w.text(p.Child(i)))
			}
		}
		return names
	}
	for _, field := range []string{"name", "pattern", "left"} {
		if n := p.ChildByFieldName(field); n != nil {
			return w.paramNames(n)
		}
	}
	for i := 0; i < int(p.NamedChildCount()); i++ {
		if c := p.NamedChild(i); c.Type() == "identifier" {
			return []string{w.text(c)}
		}
	}
	return []string{w.text(p)}
}

// docWrappers are node kinds that sit between a function and the statement
// its leading comments attach to.
var docWrappers = map[string]bool{
	"variable_declarator":     true,
	"lexical_declaration":     true,
	"variable_declaration":    true,
	"export_statement":        true,
	"assignment_expression":   true,
	"assignment":              true,
	"expression_statement":    true,
	"pair":                    true,
	"field_definition":        true,
	"public_field_definition": true,
	"decorated_definition":    true,
	"expression_list":         true,
	"short_var_declaration":   true,
	"var_spec":                true,
	"var_declaration":         true,
}

// doc returns the function's documentation with comment markers stripped.
// Python docstrings win over leading comments.
func (w *walker) doc(fn *sitter.Node) string {
	if w.prof.docstrings {
		if ds := w.docstring(fn); ds != "" {
			return ds
		}
	}

	anchor := fn
	for p := anchor.Parent(); p != nil && docWrappers[p.Type()]; p = p.Parent() {
		anchor = p
	}

	var lines []string
	row := anchor.StartPoint().Row
	for s := anchor.PrevSibling(); s != nil && s.Type() == "comment"; s = s.PrevSibling() {
		if s.EndPoint().Row+1 < row {
			break
		}
		lines = append([]string{w.text(s)}, lines...)
		row = s.StartPoint().Row
	}
	return cleanDoc(strings.Join(lines, "\n"))
}

func (w *walker) docstring(fn *sitter.Node) string {
	body := fn.ChildByFieldName("body")
	if body == nil || body.Type() != "block" || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	if s := first.NamedChild(0); s.Type() == "string" {
		return cleanDoc(w.text(s))
	}
	return ""
}

// cleanDoc strips comment and string delimiters line by line.
func cleanDoc(raw string) string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		for _, s := range []string{`"""`, `'''`, "*/"} {
			line = strings.TrimSuffix(line, s)
		}
		line = strings.TrimSpace(line)
		for _, p := range []string{`"""`, `'''`, "///", "//", "/**", "/*", "#", "*"} {
			line = strings.TrimPrefix(line, p)
		}
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// docWords splits documentation into words longer than two characters.
func docWords(doc string) []string {
	fields := strings.FieldsFunc(doc, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	var out []string
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}
