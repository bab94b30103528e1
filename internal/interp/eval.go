package interp

import (
	"context"
	"fmt"

	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/token"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// Eval walks stmt and produces the Value it evaluates to, or an
// InterpretError if evaluation cannot proceed. Control values (Exit,
// Return, Break) are returned as ordinary Values for the caller (Block,
// loop, or call-dispatch code) to inspect and propagate.
func (i *Interpreter) Eval(ctx context.Context, stmt ast.Statement) (value.Value, error) {
	switch s := stmt.(type) {
	case ast.Primitive:
		return i.evalPrimitive(s)
	case ast.Variable:
		slot := i.Reg.Named(identName(s.Name))
		if slot.IsFunction {
			return value.Null, nerrors.NewInterpretError(nerrors.NotAssignable, fmt.Sprintf("%s is a function and not usable as a value", identName(s.Name)))
		}
		return slot.Value, nil
	case ast.Array:
		return i.evalArrayRead(ctx, s)
	case ast.Parameter:
		return i.evalParameter(ctx, s)
	case ast.Assign:
		return i.evalAssign(ctx, s)
	case ast.Operator:
		return i.evalOperator(ctx, s)
	case ast.Call:
		return i.evalCall(ctx, s)
	case ast.NamedParameter:
		return i.Eval(ctx, s.Value)
	case ast.If:
		return i.evalIf(ctx, s)
	case ast.For:
		return i.evalFor(ctx, s)
	case ast.While:
		return i.evalWhile(ctx, s)
	case ast.Repeat:
		return i.evalRepeat(ctx, s)
	case ast.ForEach:
		return i.evalForEach(ctx, s)
	case ast.Block:
		return i.evalBlock(ctx, s)
	case ast.FunctionDeclaration:
		return i.evalFunctionDeclaration(s)
	case ast.Return:
		return i.evalReturn(ctx, s)
	case ast.Include:
		return i.evalInclude(ctx, s)
	case ast.Exit:
		return i.evalExit(ctx, s)
	case ast.Declare:
		return i.evalDeclare(s)
	case ast.AttackCategory:
		return value.Category(s.Act), nil
	case ast.Break:
		return value.Break, nil
	case ast.Continue:
		return value.Continue, nil
	case ast.NoOp:
		return value.Null, nil
	case ast.EoF:
		return value.Null, nil
	default:
		return value.Null, nerrors.NewInterpretError(nerrors.WrongOperandType, fmt.Sprintf("cannot evaluate statement of type %T", stmt))
	}
}

// identName recovers the source name carried by an identifier token
// (Variable/Array/Call names, function parameters, declare names, foreach
// loop variables). Most carry the Undefined arm; a keyword that parses as a
// variable, such as _FCT_ANON_ARGS, falls back to its keyword spelling.
func identName(t token.Token) string {
	if name, ok := t.Ident.IsUndefined(); ok {
		return name
	}
	return t.Ident.String()
}

func (i *Interpreter) evalPrimitive(p ast.Primitive) (value.Value, error) {
	t := p.Token
	switch t.Category {
	case token.NUMBER:
		n, err := i.lex.DecodeNumber(t)
		if err != nil {
			return value.Null, nerrors.WrapInterpretError(nerrors.WrongOperandType, "invalid number literal", err)
		}
		return value.Num(n), nil
	case token.STRING:
		// Double-quoted literals decode escapes into text; single-quoted
		// ones carry their raw bytes as Data.
		if t.Quoting == token.Quotable {
			return value.Data(i.lex.Decode(t)), nil
		}
		return value.Str(i.lex.Decode(t)), nil
	case token.IPV4ADDRESS:
		return value.Str(i.lex.Lookup(t.Span)), nil
	case token.IDENTIFIER:
		switch {
		case t.Ident.Is(token.True):
			return value.Bool(true), nil
		case t.Ident.Is(token.False):
			return value.Bool(false), nil
		case t.Ident.Is(token.NullKeyword):
			return value.Null, nil
		}
		if act, ok := t.Ident.ACTValue(); ok {
			return value.Category(act), nil
		}
		if name, ok := t.Ident.IsUndefined(); ok {
			return value.Str(name), nil
		}
		return value.Null, nil
	default:
		return value.Null, nil
	}
}

func (i *Interpreter) evalArrayRead(ctx context.Context, a ast.Array) (value.Value, error) {
	slot := i.Reg.Named(identName(a.Name))
	if slot.IsFunction {
		return value.Null, nerrors.NewInterpretError(nerrors.NotAssignable, fmt.Sprintf("%s is a function and not usable as a value", identName(a.Name)))
	}
	base := slot.Value
	if a.Index == nil {
		return base, nil
	}
	idx, err := i.Eval(ctx, a.Index)
	if err != nil {
		return value.Null, err
	}
	switch base.Kind {
	case value.KindArray:
		n := value.ToI64(idx)
		if n < 0 || int(n) >= len(base.Array) {
			return value.Null, nil
		}
		return base.Array[n], nil
	case value.KindDict:
		v, ok := base.Dict[value.ToString(idx)]
		if !ok {
			return value.Null, nil
		}
		return v, nil
	case value.KindNull:
		return value.Null, nil
	default:
		return value.Null, nerrors.NewInterpretError(nerrors.OutOfRangeAccess, fmt.Sprintf("cannot index into %v", base.Kind))
	}
}

func (i *Interpreter) evalParameter(ctx context.Context, p ast.Parameter) (value.Value, error) {
	out := make([]value.Value, 0, len(p.Elements))
	for _, el := range p.Elements {
		v, err := i.Eval(ctx, el)
		if err != nil {
			return value.Null, err
		}
		out = append(out, v)
	}
	return value.Arr(out), nil
}

func (i *Interpreter) evalIf(ctx context.Context, s ast.If) (value.Value, error) {
	cond, err := i.Eval(ctx, s.Cond)
	if err != nil {
		return value.Null, err
	}
	if value.ToBool(cond) {
		return i.Eval(ctx, s.Then)
	}
	if s.Else != nil {
		return i.Eval(ctx, s.Else)
	}
	return value.Null, nil
}

func (i *Interpreter) evalBlock(ctx context.Context, s ast.Block) (value.Value, error) {
	for _, stmt := range s.Statements {
		v, err := i.Eval(ctx, stmt)
		if err != nil {
			return value.Null, err
		}
		if v.IsControl() {
			return v, nil
		}
	}
	return value.Null, nil
}

func (i *Interpreter) evalFunctionDeclaration(s ast.FunctionDeclaration) (value.Value, error) {
	params := make([]string, len(s.Params))
	for idx, p := range s.Params {
		params[idx] = identName(p)
	}
	// The declaring source's lexer travels with the body so primitives in
	// an included function still decode against the file they came from.
	i.Reg.AddLocal(identName(s.Name), register.FunctionSlot(&register.Function{
		Params: params,
		Body:   functionBody{body: s.Body, lex: i.lex},
	}))
	return value.Null, nil
}

func (i *Interpreter) evalReturn(ctx context.Context, s ast.Return) (value.Value, error) {
	if s.Value == nil {
		return value.ReturnWith(value.Null), nil
	}
	v, err := i.Eval(ctx, s.Value)
	if err != nil {
		return value.Null, err
	}
	return value.ReturnWith(v), nil
}

func (i *Interpreter) evalExit(ctx context.Context, s ast.Exit) (value.Value, error) {
	if s.Code == nil {
		return value.ExitWith(0), nil
	}
	v, err := i.Eval(ctx, s.Code)
	if err != nil {
		return value.Null, err
	}
	return value.ExitWith(value.ToI64(v)), nil
}

func (i *Interpreter) evalDeclare(s ast.Declare) (value.Value, error) {
	for _, name := range s.Names {
		slot := register.ValueSlot(value.Null)
		if s.Scope == ast.ScopeGlobal {
			i.Reg.AddGlobal(identName(name), slot)
		} else {
			i.Reg.AddLocal(identName(name), slot)
		}
	}
	return value.Null, nil
}

func (i *Interpreter) evalInclude(ctx context.Context, s ast.Include) (value.Value, error) {
	keyVal, err := i.Eval(ctx, s.Path)
	if err != nil {
		return value.Null, err
	}
	key := value.ToString(keyVal)
	src, loadErr := i.Loader.Load(key)
	if loadErr != nil {
		return value.Null, nerrors.WrapInterpretError(nerrors.LoadFailure, fmt.Sprintf("include(%q) failed", key), loadErr)
	}
	stmts, parseErrs := parseAll(string(src))
	if len(parseErrs) > 0 {
		return value.Null, nerrors.WrapInterpretError(nerrors.LoadFailure, fmt.Sprintf("include(%q): source failed to parse", key), parseErrs[0])
	}
	savedLex := i.lex
	i.lex = newDecodeLexer(string(src))
	defer func() { i.lex = savedLex }()
	v, err := i.Run(ctx, stmts)
	return v, err
}
