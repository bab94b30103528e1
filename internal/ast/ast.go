// Package ast defines the Statement sum type the parser builds and the
// interpreter walks. Each arm of the specification's Statement variant is
// a concrete Go type implementing the Statement marker interface, in
// place of an open class hierarchy.
package ast

import "github.com/v0rts/openvas-scanner/internal/token"

// Statement is implemented by every AST node kind.
type Statement interface {
	Span() token.Span
	statementNode()
}

// AssignOrder distinguishes pre-operator (`++a`) from post-operator
// (`a++`) assignment forms. It is a parser-time flag threaded unchanged
// into the evaluator, never recomputed at runtime.
type AssignOrder int

const (
	// AssignReturn yields the newly stored value (prefix forms, and `=`
	// itself which has no meaningful "previous" distinction).
	AssignReturn AssignOrder = iota
	// ReturnAssign yields the value that was stored over (postfix forms).
	ReturnAssign
)

func (o AssignOrder) String() string {
	if o == ReturnAssign {
		return "ReturnAssign"
	}
	return "AssignReturn"
}

// DeclareScope selects which frame a Declare statement's names are bound
// into.
type DeclareScope int

const (
	ScopeLocal DeclareScope = iota
	ScopeGlobal
)

type base struct{ span token.Span }

func (b base) Span() token.Span { return b.span }
func (base) statementNode()     {}

// Primitive wraps a literal token (number, string, boolean, NULL, IPv4
// address, or an Undefined identifier used in value position).
type Primitive struct {
	base
	Token token.Token
}

func NewPrimitive(t token.Token) Primitive { return Primitive{base{t.Span}, t} }

// Variable is a bare name reference, e.g. `a` in `a = 1`.
type Variable struct {
	base
	Name token.Token
}

func NewVariable(t token.Token) Variable { return Variable{base{t.Span}, t} }

// Array is a name with an optional index/key expression: `a` or `a[i]`.
type Array struct {
	base
	Name  token.Token
	Index Statement // nil when no index was given
}

// Parameter is an array literal / call argument list: `[a, b, c]`.
type Parameter struct {
	base
	Elements []Statement
}

// Assign is any of `=`, the compound `OP=` forms, or `++`/`--`.
type Assign struct {
	base
	Op     token.Category
	Order  AssignOrder
	Target Statement
	Value  Statement // NoOp for `++`/`--`, which carry no right-hand side
}

// Operator is a unary (len(Operands) == 1) or binary (len == 2) operator
// application, including the `x` repeat operator.
type Operator struct {
	base
	Op       token.Category
	Operands []Statement
}

// Call invokes a named function (user-declared or built-in) with
// arguments carried by a Parameter or NamedParameter statement.
type Call struct {
	base
	Name token.Token
	Args Statement
}

// NamedParameter is a `name: expr` call argument.
type NamedParameter struct {
	base
	Name  token.Token
	Value Statement
}

// If is `if (Cond) Then [else Else]`.
type If struct {
	base
	Cond Statement
	Then Statement
	Else Statement // nil when no else clause
}

// For is `for (Init; Cond; Update) Body`.
type For struct {
	base
	Init, Cond, Update, Body Statement
}

// While is `while (Cond) Body`.
type While struct {
	base
	Cond, Body Statement
}

// Repeat is `repeat Body until (Cond);` — exit-on-condition-true semantics.
type Repeat struct {
	base
	Body, Cond Statement
}

// ForEach is `foreach Var (Iter) Body`.
type ForEach struct {
	base
	Var  token.Token
	Iter Statement
	Body Statement
}

// Block is a brace-delimited statement sequence.
type Block struct {
	base
	Statements []Statement
}

// FunctionDeclaration binds Name to a callable in the innermost frame.
type FunctionDeclaration struct {
	base
	Name   token.Token
	Params []token.Token
	Body   Statement
}

// Return is `return [Value];`.
type Return struct {
	base
	Value Statement // nil for a bare `return;`
}

// Include is `include(Path);`.
type Include struct {
	base
	Path Statement
}

// Exit is `exit(Code);`.
type Exit struct {
	base
	Code Statement
}

// Declare is `local_var a, b;` or `global_var a, b;`.
type Declare struct {
	base
	Scope DeclareScope
	Names []token.Token
}

// AttackCategory wraps a bare ACT_* keyword reference used as a value.
type AttackCategory struct {
	base
	Act token.ACT
}

// Break is a bare `break;` inside a loop body.
type Break struct{ base }

// Continue is a bare `continue;` inside a loop body.
type Continue struct{ base }

// NoOp is a grouping/terminator token carried through as a statement with
// no evaluation effect (`;`, `,`, `)`, `]`, `}`).
type NoOp struct {
	base
	Token *token.Token
}

// EoF marks the end of the statement stream.
type EoF struct{ base }
