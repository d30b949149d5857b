package extract

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/harmonizer/internal/coord"
)

// Construct is a syntax construct that contributes execution concepts.
type Construct int

const (
	ConstructCall Construct = iota
	ConstructIf
	ConstructSwitch
	ConstructFor
	ConstructWhile
	ConstructReturn
	ConstructYield
	ConstructThrow
	ConstructTry
	ConstructAssign
	ConstructDeclare
	ConstructAwait

	numConstructs
)

var constructNames = [numConstructs]string{
	ConstructCall:    "call",
	ConstructIf:      "if",
	ConstructSwitch:  "switch",
	ConstructFor:     "for",
	ConstructWhile:   "while",
	ConstructReturn:  "return",
	ConstructYield:   "yield",
	ConstructThrow:   "throw",
	ConstructTry:     "try",
	ConstructAssign:  "assign",
	ConstructDeclare: "declare",
	ConstructAwait:   "await",
}

func (c Construct) String() string {
	if c < 0 || c >= numConstructs {
		return "unknown"
	}
	return constructNames[c]
}

// rule is the fixed contribution of one construct. When fromNode is set the
// word comes from the node itself: the callee name for calls, the
// mutability keyword for declarations.
type rule struct {
	words     []string
	dimension coord.Dimension
	fromNode  bool
	// resolved means the word's dimension comes from the vocabulary rather
	// than from the rule.
	resolved bool
}

// rules maps every construct to its contribution. The array is indexed by
// Construct, so a construct without a rule shows up as a zero entry.
var rules = [numConstructs]rule{
	ConstructCall:    {fromNode: true, resolved: true},
	ConstructIf:      {words: []string{"if", "conditional", "check"}, dimension: coord.Justice},
	ConstructSwitch:  {words: []string{"switch", "case"}, dimension: coord.Justice},
	ConstructFor:     {words: []string{"for", "loop", "iterate"}, dimension: coord.Justice},
	ConstructWhile:   {words: []string{"while", "loop"}, dimension: coord.Justice},
	ConstructReturn:  {words: []string{"return"}, dimension: coord.Wisdom},
	ConstructYield:   {words: []string{"yield"}, dimension: coord.Wisdom},
	ConstructThrow:   {words: []string{"throw", "error"}, dimension: coord.Power},
	ConstructTry:     {words: []string{"try", "catch", "handle"}, dimension: coord.Love},
	ConstructAssign:  {words: []string{"assign", "set", "modify"}, dimension: coord.Power},
	ConstructDeclare: {fromNode: true, dimension: coord.Wisdom},
	ConstructAwait:   {words: []string{"await", "async"}, dimension: coord.Wisdom},
}

// Kind classifies function-like constructs.
type Kind string

const (
	KindFunction Kind = "function"
	KindMethod   Kind = "method"
	KindArrow    Kind = "arrow"
	KindLambda   Kind = "lambda"
	KindLiteral  Kind = "literal"
)

// profile is the node-kind dispatch table for one language.
type profile struct {
	// functions maps function-like node kinds to their Kind.
	functions map[string]Kind
	// constructs maps body node kinds to constructs.
	constructs map[string]Construct
	// calleeField names the call node's callee field.
	calleeField string
	// declKeyword returns the fixed keyword for declaration node kinds that
	// do not spell it out as their first token.
	declKeyword map[string]string
	// docstrings enables Python-style leading string documentation.
	docstrings bool
	// guards narrow node kinds that only count in some forms.
	guards map[string]func(n *sitter.Node, src []byte) bool
}

var jsConstructs = map[string]Construct{
	"call_expression":                 ConstructCall,
	"if_statement":                    ConstructIf,
	"switch_statement":                ConstructSwitch,
	"for_statement":                   ConstructFor,
	"for_in_statement":                ConstructFor,
	"while_statement":                 ConstructWhile,
	"do_statement":                    ConstructWhile,
	"return_statement":                ConstructReturn,
	"yield_expression":                ConstructYield,
	"throw_statement":                 ConstructThrow,
	"try_statement":                   ConstructTry,
	"assignment_expression":           ConstructAssign,
	"augmented_assignment_expression": ConstructAssign,
	"lexical_declaration":             ConstructDeclare,
	"variable_declaration":            ConstructDeclare,
	"await_expression":                ConstructAwait,
}

var jsFunctions = map[string]Kind{
	"function_declaration":           KindFunction,
	"generator_function_declaration": KindFunction,
	"function_expression":            KindFunction,
	"function":                       KindFunction,
	"generator_function":             KindFunction,
	"arrow_function":                 KindArrow,
	"method_definition":              KindMethod,
}

var jsProfile = &profile{
	functions:   jsFunctions,
	constructs:  jsConstructs,
	calleeField: "function",
	declKeyword: map[string]string{"variable_declaration": "var"},
}

var profiles = map[Language]*profile{
	JavaScript: jsProfile,
	TypeScript: jsProfile,
	TSX:        jsProfile,
	Python: {
		functions: map[string]Kind{
			"function_definition": KindFunction,
			"lambda":              KindLambda,
		},
		constructs: map[string]Construct{
			"call":                 ConstructCall,
			"if_statement":         ConstructIf,
			"match_statement":      ConstructSwitch,
			"for_statement":        ConstructFor,
			"for_in_clause":        ConstructFor,
			"while_statement":      ConstructWhile,
			"return_statement":     ConstructReturn,
			"yield":                ConstructYield,
			"raise_statement":      ConstructThrow,
			"try_statement":        ConstructTry,
			"assignment":           ConstructAssign,
			"augmented_assignment": ConstructAssign,
			"await":                ConstructAwait,
		},
		calleeField: "function",
		docstrings:  true,
	},
	Go: {
		functions: map[string]Kind{
			"function_declaration": KindFunction,
			"method_declaration":   KindMethod,
			"func_literal":         KindLiteral,
		},
		constructs: map[string]Construct{
			"call_expression":             ConstructCall,
			"if_statement":                ConstructIf,
			"expression_switch_statement": ConstructSwitch,
			"type_switch_statement":       ConstructSwitch,
			"select_statement":            ConstructSwitch,
			"for_statement":               ConstructFor,
			"return_statement":            ConstructReturn,
			"assignment_statement":        ConstructAssign,
			"short_var_declaration":       ConstructDeclare,
			"var_declaration":             ConstructDeclare,
			"const_declaration":           ConstructDeclare,
			"unary_expression":            ConstructAwait,
		},
		calleeField: "function",
		declKeyword: map[string]string{"short_var_declaration": "var"},
		guards: map[string]func(*sitter.Node, []byte) bool{
			// Only channel receives suspend.
			"unary_expression": func(n *sitter.Node, src []byte) bool {
				op := n.ChildByFieldName("operator")
				return op != nil && op.Content(src) == "<-"
			},
		},
	},
}
