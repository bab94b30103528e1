package interp

import (
	"context"
	"fmt"

	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// functionBody pairs a declared function's AST with the lexer of the
// source it was declared in, so token payloads keep decoding against the
// right file after an include has come and gone.
type functionBody struct {
	body ast.Statement
	lex  *lexer.Lexer
}

// evalCall resolves a Call target — user-declared function first, then
// the built-in dispatcher — and invokes it with the evaluated positional
// and named arguments.
func (i *Interpreter) evalCall(ctx context.Context, s ast.Call) (value.Value, error) {
	name := identName(s.Name)

	var positional []value.Value
	named := make(map[string]value.Value)
	if s.Args != nil {
		param, ok := s.Args.(ast.Parameter)
		if !ok {
			return value.Null, nerrors.NewInterpretError(nerrors.WrongOperandType, fmt.Sprintf("unexpected call arguments %T", s.Args))
		}
		for _, el := range param.Elements {
			if np, isNamed := el.(ast.NamedParameter); isNamed {
				v, err := i.Eval(ctx, np.Value)
				if err != nil {
					return value.Null, err
				}
				named[identName(np.Name)] = v
				continue
			}
			v, err := i.Eval(ctx, el)
			if err != nil {
				return value.Null, err
			}
			positional = append(positional, v)
		}
	}

	if _, slot, ok := i.Reg.IndexNamed(name); ok {
		if slot.IsFunction {
			return i.callUserFunction(ctx, name, slot.Func, positional, named)
		}
		if i.Dispatcher == nil || !i.Dispatcher.Defined(name) {
			return value.Null, nerrors.NewInterpretError(nerrors.UndefinedAsFunction, fmt.Sprintf("%s is not a function", name))
		}
	}
	if i.Dispatcher != nil && i.Dispatcher.Defined(name) {
		return i.callBuiltin(ctx, name, positional, named)
	}
	return value.Null, nerrors.NewInterpretError(nerrors.MissingFunction, fmt.Sprintf("unknown function %s", name))
}

// callUserFunction brackets the body evaluation in exactly one
// CreateChild/Drop pair, binding positionals to the declared parameter
// names in order (extras discarded, missing left Null) and named
// arguments by name. A Return unwraps at this boundary; end-of-body is
// Null; Exit keeps propagating.
func (i *Interpreter) callUserFunction(ctx context.Context, name string, fn *register.Function, positional []value.Value, named map[string]value.Value) (value.Value, error) {
	body, ok := fn.Body.(functionBody)
	if !ok {
		return value.Null, nerrors.NewInterpretError(nerrors.MissingFunction, fmt.Sprintf("%s has no body", name))
	}

	i.Reg.CreateChild(true)
	defer i.Reg.Drop()
	for idx, p := range fn.Params {
		v := value.Null
		if idx < len(positional) {
			v = positional[idx]
		}
		i.Reg.AddLocal(p, register.ValueSlot(v))
	}
	for k, v := range named {
		i.Reg.AddLocal(k, register.ValueSlot(v))
	}

	savedLex := i.lex
	i.lex = body.lex
	defer func() { i.lex = savedLex }()

	v, err := i.Eval(ctx, body.body)
	if err != nil {
		return value.Null, err
	}
	switch v.Kind {
	case value.KindReturn:
		return *v.Return, nil
	case value.KindExit:
		return v, nil
	default:
		return value.Null, nil
	}
}

// callBuiltin binds the positional arguments as _FCT_ANON_ARGS and the
// named ones by name into a fresh frame, then hands the register to the
// dispatcher. A FunctionError comes back as an InterpretError.
func (i *Interpreter) callBuiltin(ctx context.Context, name string, positional []value.Value, named map[string]value.Value) (value.Value, error) {
	i.Reg.CreateChild(true)
	defer i.Reg.Drop()
	i.Reg.AddLocal("_FCT_ANON_ARGS", register.ValueSlot(value.Arr(positional)))
	for k, v := range named {
		i.Reg.AddLocal(k, register.ValueSlot(v))
	}

	v, found, ferr := i.Dispatcher.Execute(ctx, name, i.Reg)
	if ferr != nil {
		return value.Null, nerrors.WrapInterpretError(nerrors.BuiltinFailure, fmt.Sprintf("%s failed", name), ferr)
	}
	if !found {
		return value.Null, nerrors.NewInterpretError(nerrors.MissingFunction, fmt.Sprintf("unknown function %s", name))
	}
	return v, nil
}
