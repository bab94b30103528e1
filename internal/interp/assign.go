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

// combinator folds the current slot value and the evaluated right-hand
// side into the value to store. `=` ignores the left entirely; the
// compound forms coerce both sides to i64 first.
type combinator func(left, right value.Value) (value.Value, error)

func numericCombinator(f func(l, r int64) int64) combinator {
	return func(left, right value.Value) (value.Value, error) {
		return value.Num(f(value.ToI64(left), value.ToI64(right))), nil
	}
}

func assignCombinator(op token.Category) (combinator, error) {
	switch op {
	case token.EQUAL:
		return func(_, right value.Value) (value.Value, error) { return right, nil }, nil
	case token.PLUSEQUAL:
		return numericCombinator(func(l, r int64) int64 { return l + r }), nil
	case token.MINUSEQUAL:
		return numericCombinator(func(l, r int64) int64 { return l - r }), nil
	case token.STAREQUAL:
		return numericCombinator(func(l, r int64) int64 { return l * r }), nil
	case token.SLASHEQUAL:
		return func(left, right value.Value) (value.Value, error) {
			r := value.ToI64(right)
			if r == 0 {
				return value.Null, nerrors.NewInterpretError(nerrors.WrongOperandType, "division by zero")
			}
			return value.Num(value.ToI64(left) / r), nil
		}, nil
	case token.PERCENTEQUAL:
		return func(left, right value.Value) (value.Value, error) {
			r := value.ToI64(right)
			if r == 0 {
				return value.Null, nerrors.NewInterpretError(nerrors.WrongOperandType, "modulo by zero")
			}
			return value.Num(value.ToI64(left) % r), nil
		}, nil
	case token.LESSLESSEQUAL:
		return numericCombinator(shiftLeft), nil
	case token.GREATERGREATEREQUAL:
		return numericCombinator(shiftRight), nil
	case token.GREATERGREATERGREATEREQUAL:
		return numericCombinator(shiftRightUnsigned), nil
	case token.PLUSPLUS:
		return numericCombinator(func(l, _ int64) int64 { return l + 1 }), nil
	case token.MINUSMINUS:
		return numericCombinator(func(l, _ int64) int64 { return l - 1 }), nil
	default:
		return nil, nerrors.NewInterpretError(nerrors.WrongOperandType, fmt.Sprintf("invalid assign category %s", op))
	}
}

// evalAssign implements every `=`/`OP=`/`++`/`--` form: it resolves the
// target name (and optional index), applies the combinator, stores the
// result at the frame the name was found in (or the root for a fresh
// name), and returns either the new or the previous value per Order.
func (i *Interpreter) evalAssign(ctx context.Context, s ast.Assign) (value.Value, error) {
	var name token.Token
	var index ast.Statement
	switch target := s.Target.(type) {
	case ast.Variable:
		name = target.Name
	case ast.Array:
		name = target.Name
		index = target.Index
	default:
		return value.Null, nerrors.NewInterpretError(nerrors.InvalidAssignTarget, fmt.Sprintf("cannot assign to %T", s.Target))
	}
	key := identName(name)

	var lookup *value.Value
	if index != nil {
		idx, err := i.Eval(ctx, index)
		if err != nil {
			return value.Null, err
		}
		lookup = &idx
	}

	right := value.Null
	if s.Value != nil {
		v, err := i.Eval(ctx, s.Value)
		if err != nil {
			return value.Null, err
		}
		right = v
	}

	combine, err := assignCombinator(s.Op)
	if err != nil {
		return value.Null, err
	}

	ridx, left, err := i.namedValue(key)
	if err != nil {
		return value.Null, err
	}

	save := func(v value.Value) {
		i.Reg.AddToIndex(ridx, key, register.ValueSlot(v))
	}

	if lookup == nil {
		result, err := combine(left, right)
		if err != nil {
			return value.Null, err
		}
		save(result)
		if s.Order == ast.ReturnAssign {
			return left, nil
		}
		return result, nil
	}

	// A string index always selects the dict form; a numeric index keeps
	// an existing dict a dict and otherwise materializes an array.
	if lookup.Kind == value.KindString || lookup.Kind == value.KindData || left.Kind == value.KindDict {
		return i.assignDict(save, value.ToString(*lookup), left, right, s.Order, combine)
	}
	return i.assignArray(save, value.ToI64(*lookup), left, right, s.Order, combine)
}

func (i *Interpreter) assignDict(save func(value.Value), key string, left, right value.Value, order ast.AssignOrder, combine combinator) (value.Value, error) {
	dict := value.PrepareDict(left)
	original, ok := dict[key]
	if !ok {
		original = value.Null
	}
	result, err := combine(original, right)
	if err != nil {
		return value.Null, err
	}
	dict[key] = result
	save(value.Dict(dict))
	if order == ast.ReturnAssign {
		return original, nil
	}
	return result, nil
}

func (i *Interpreter) assignArray(save func(value.Value), idx int64, left, right value.Value, order ast.AssignOrder, combine combinator) (value.Value, error) {
	if idx < 0 {
		return value.Null, nerrors.NewInterpretError(nerrors.OutOfRangeAccess, fmt.Sprintf("cannot assign at negative index %d", idx))
	}
	pos, arr := value.PrepareArray(idx, left)
	original := arr[pos]
	result, err := combine(original, right)
	if err != nil {
		return value.Null, err
	}
	arr[pos] = result
	save(value.Arr(arr))
	if order == ast.ReturnAssign {
		return original, nil
	}
	return result, nil
}

// namedValue resolves key for assignment: a miss lands at the root frame
// with a Null starting value, and a function slot is rejected outright.
func (i *Interpreter) namedValue(key string) (int, value.Value, error) {
	ridx, slot, ok := i.Reg.IndexNamed(key)
	if !ok {
		return 0, value.Null, nil
	}
	if slot.IsFunction {
		return 0, value.Null, nerrors.NewInterpretError(nerrors.FunctionNotAssignable, fmt.Sprintf("%s is a function and not assignable", key))
	}
	return ridx, slot.Value, nil
}
