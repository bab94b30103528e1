package interp

import (
	"context"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/token"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// compiledRegex caches one `=~`/`!~` pattern compilation per pattern
// string for the lifetime of the interpreter.
type compiledRegex struct {
	re *regexp2.Regexp
}

func (i *Interpreter) regex(pattern string) (*regexp2.Regexp, error) {
	if cached, ok := i.regexCache[pattern]; ok {
		return cached.re, nil
	}
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, nerrors.WrapInterpretError(nerrors.UnparseableRegex, fmt.Sprintf("unparseable regex %q", pattern), err)
	}
	i.regexCache[pattern] = &compiledRegex{re: re}
	return re, nil
}

func (i *Interpreter) matchRegex(left, right value.Value) (value.Value, error) {
	re, err := i.regex(value.ToString(right))
	if err != nil {
		return value.Null, err
	}
	matched, merr := re.MatchString(value.ToString(left))
	if merr != nil {
		return value.Null, nerrors.WrapInterpretError(nerrors.UnparseableRegex, "regex match failed", merr)
	}
	return value.Bool(matched), nil
}

// evalOperator dispatches a unary or binary Operator node. A missing
// right operand is treated as Null, matching the coercion defaults.
func (i *Interpreter) evalOperator(ctx context.Context, s ast.Operator) (value.Value, error) {
	if s.Op == token.X {
		return i.evalRepeatOperator(ctx, s)
	}
	left, err := i.Eval(ctx, s.Operands[0])
	if err != nil {
		return value.Null, err
	}
	right := value.Null
	if len(s.Operands) > 1 {
		right, err = i.Eval(ctx, s.Operands[1])
		if err != nil {
			return value.Null, err
		}
	}

	switch s.Op {
	case token.PLUS:
		switch left.Kind {
		case value.KindString:
			return value.Str(left.Text + value.ToString(right)), nil
		case value.KindData:
			return value.Str(value.DataText(left.Text) + value.ToString(right)), nil
		default:
			return value.Num(value.ToI64(left) + value.ToI64(right)), nil
		}
	case token.MINUS:
		switch left.Kind {
		case value.KindString:
			return value.Str(strings.Replace(left.Text, value.ToString(right), "", 1)), nil
		case value.KindData:
			return value.Str(strings.Replace(value.DataText(left.Text), value.ToString(right), "", 1)), nil
		default:
			if len(s.Operands) == 1 {
				return value.Num(-value.ToI64(left)), nil
			}
			return value.Num(value.ToI64(left) - value.ToI64(right)), nil
		}
	case token.STAR:
		return value.Num(value.ToI64(left) * value.ToI64(right)), nil
	case token.SLASH:
		r := value.ToI64(right)
		if r == 0 {
			return value.Null, nerrors.NewInterpretError(nerrors.WrongOperandType, "division by zero")
		}
		return value.Num(value.ToI64(left) / r), nil
	case token.PERCENT:
		r := value.ToI64(right)
		if r == 0 {
			return value.Null, nerrors.NewInterpretError(nerrors.WrongOperandType, "modulo by zero")
		}
		return value.Num(value.ToI64(left) % r), nil
	case token.STARSTAR:
		return value.Num(power(value.ToI64(left), value.ToI64(right))), nil
	case token.LESSLESS:
		return value.Num(shiftLeft(value.ToI64(left), value.ToI64(right))), nil
	case token.GREATERGREATER:
		return value.Num(shiftRight(value.ToI64(left), value.ToI64(right))), nil
	case token.GREATERGREATERGREATER:
		return value.Num(shiftRightUnsigned(value.ToI64(left), value.ToI64(right))), nil
	case token.AMPERSAND:
		return value.Num(value.ToI64(left) & value.ToI64(right)), nil
	case token.PIPE:
		return value.Num(value.ToI64(left) | value.ToI64(right)), nil
	case token.CARET:
		return value.Num(value.ToI64(left) ^ value.ToI64(right)), nil
	case token.TILDE:
		return value.Num(^value.ToI64(left)), nil
	case token.BANG:
		return value.Bool(!value.ToBool(left)), nil
	case token.AMPERSANDAMPERSAND:
		return value.Bool(value.ToBool(left) && value.ToBool(right)), nil
	case token.PIPEPIPE:
		return value.Bool(value.ToBool(left) || value.ToBool(right)), nil
	case token.EQUALEQUAL:
		return value.Bool(value.Equal(left, right)), nil
	case token.BANGEQUAL:
		return value.Bool(!value.Equal(left, right)), nil
	case token.LESS:
		return value.Bool(value.ToI64(left) < value.ToI64(right)), nil
	case token.LESSEQUAL:
		return value.Bool(value.ToI64(left) <= value.ToI64(right)), nil
	case token.GREATER:
		return value.Bool(value.ToI64(left) > value.ToI64(right)), nil
	case token.GREATEREQUAL:
		return value.Bool(value.ToI64(left) >= value.ToI64(right)), nil
	case token.EQUALTILDE:
		return i.matchRegex(left, right)
	case token.BANGTILDE:
		v, err := i.matchRegex(left, right)
		if err != nil {
			return value.Null, err
		}
		return value.Bool(!v.Boolean), nil
	case token.GREATERLESS:
		return value.Bool(strings.Contains(value.ToString(left), value.ToString(right))), nil
	case token.GREATERBANGLESS:
		return value.Bool(!strings.Contains(value.ToString(left), value.ToString(right))), nil
	default:
		return value.Null, nerrors.NewInterpretError(nerrors.WrongOperandType, fmt.Sprintf("wrong operator category %s", s.Op))
	}
}

// evalRepeatOperator implements `E x N`. The count evaluates first; N = 0
// skips the expression entirely, N = 1 evaluates it exactly once, and
// larger counts re-run the intermediate rounds before one final
// evaluation whose result is returned.
func (i *Interpreter) evalRepeatOperator(ctx context.Context, s ast.Operator) (value.Value, error) {
	n, err := i.Eval(ctx, s.Operands[1])
	if err != nil {
		return value.Null, err
	}
	repeat := value.ToI64(n)
	if repeat == 0 {
		return value.Null, nil
	}
	for round := int64(1); round < repeat-1; round++ {
		if i.cancelled() {
			return value.Null, nil
		}
		if _, err := i.Eval(ctx, s.Operands[0]); err != nil {
			return value.Null, err
		}
	}
	return i.Eval(ctx, s.Operands[0])
}

func shiftLeft(l, r int64) int64 {
	if r < 0 || r >= 64 {
		return 0
	}
	return l << uint(r)
}

func shiftRight(l, r int64) int64 {
	if r < 0 {
		return 0
	}
	if r >= 64 {
		r = 63
	}
	return l >> uint(r)
}

// shiftRightUnsigned truncates the left operand to 32 bits, shifts it as
// an unsigned quantity, and re-signs the result.
func shiftRightUnsigned(l, r int64) int64 {
	if r < 0 || r >= 32 {
		return 0
	}
	return int64(int32(uint32(l) >> uint(r)))
}

// power raises base to exp in 32-bit wrapping arithmetic, the overflow
// behavior numeric scripts in the feed rely on.
func power(base, exp int64) int64 {
	result := uint32(1)
	b := uint32(base)
	e := uint32(exp)
	for e > 0 {
		if e&1 == 1 {
			result *= b
		}
		b *= b
		e >>= 1
	}
	return int64(int32(result))
}
