package ast

import "github.com/v0rts/openvas-scanner/internal/token"

// The New* constructors are the sole way other packages build Statement
// nodes; they exist because base is unexported (every node carries its
// span uniformly rather than recomputing it from children on demand).

func NewArray(span token.Span, name token.Token, index Statement) Array {
	return Array{base{span}, name, index}
}

func NewParameter(span token.Span, elements []Statement) Parameter {
	return Parameter{base{span}, elements}
}

func NewAssign(span token.Span, op token.Category, order AssignOrder, target, val Statement) Assign {
	return Assign{base{span}, op, order, target, val}
}

func NewOperator(span token.Span, op token.Category, operands []Statement) Operator {
	return Operator{base{span}, op, operands}
}

func NewCall(span token.Span, name token.Token, args Statement) Call {
	return Call{base{span}, name, args}
}

func NewNamedParameter(span token.Span, name token.Token, val Statement) NamedParameter {
	return NamedParameter{base{span}, name, val}
}

func NewIf(span token.Span, cond, then, els Statement) If {
	return If{base{span}, cond, then, els}
}

func NewFor(span token.Span, init, cond, update, body Statement) For {
	return For{base{span}, init, cond, update, body}
}

func NewWhile(span token.Span, cond, body Statement) While {
	return While{base{span}, cond, body}
}

func NewRepeat(span token.Span, body, cond Statement) Repeat {
	return Repeat{base{span}, body, cond}
}

func NewForEach(span token.Span, v token.Token, iter, body Statement) ForEach {
	return ForEach{base{span}, v, iter, body}
}

func NewBlock(span token.Span, statements []Statement) Block {
	return Block{base{span}, statements}
}

func NewFunctionDeclaration(span token.Span, name token.Token, params []token.Token, body Statement) FunctionDeclaration {
	return FunctionDeclaration{base{span}, name, params, body}
}

func NewReturn(span token.Span, val Statement) Return {
	return Return{base{span}, val}
}

func NewInclude(span token.Span, path Statement) Include {
	return Include{base{span}, path}
}

func NewExit(span token.Span, code Statement) Exit {
	return Exit{base{span}, code}
}

func NewDeclare(span token.Span, scope DeclareScope, names []token.Token) Declare {
	return Declare{base{span}, scope, names}
}

func NewAttackCategory(span token.Span, act token.ACT) AttackCategory {
	return AttackCategory{base{span}, act}
}

func NewBreak(span token.Span) Break {
	return Break{base{span}}
}

func NewContinue(span token.Span) Continue {
	return Continue{base{span}}
}

func NewNoOp(span token.Span, t *token.Token) NoOp {
	return NoOp{base{span}, t}
}

func NewEoF(span token.Span) EoF {
	return EoF{base{span}}
}
