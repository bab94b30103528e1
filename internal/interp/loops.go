package interp

import (
	"context"

	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// loopBody evaluates one loop-body round and classifies the outcome:
// stop ends the loop (break; callers check cancellation themselves), done short-circuits the
// whole loop with the returned value (exit or return), and neither means
// keep iterating (continue folds into this case).
func (i *Interpreter) loopBody(ctx context.Context, body ast.Statement) (result value.Value, stop, done bool, err error) {
	v, err := i.Eval(ctx, body)
	if err != nil {
		return value.Null, false, false, err
	}
	switch v.Kind {
	case value.KindBreak:
		return value.Null, true, false, nil
	case value.KindExit, value.KindReturn:
		return v, false, true, nil
	default:
		return value.Null, false, false, nil
	}
}

// Loops never open a frame of their own; the current NASL engine doesn't
// either, so a loop variable keeps leaking into the enclosing scope.
func (i *Interpreter) evalFor(ctx context.Context, s ast.For) (value.Value, error) {
	if s.Init != nil {
		if _, err := i.Eval(ctx, s.Init); err != nil {
			return value.Null, err
		}
	}
	for {
		if i.cancelled() {
			return value.Null, nil
		}
		cond, err := i.Eval(ctx, s.Cond)
		if err != nil {
			return value.Null, err
		}
		if !value.ToBool(cond) {
			return value.Null, nil
		}
		result, stop, done, err := i.loopBody(ctx, s.Body)
		if err != nil {
			return value.Null, err
		}
		if done {
			return result, nil
		}
		if stop {
			return value.Null, nil
		}
		if s.Update != nil {
			if _, err := i.Eval(ctx, s.Update); err != nil {
				return value.Null, err
			}
		}
	}
}

func (i *Interpreter) evalWhile(ctx context.Context, s ast.While) (value.Value, error) {
	for {
		if i.cancelled() {
			return value.Null, nil
		}
		cond, err := i.Eval(ctx, s.Cond)
		if err != nil {
			return value.Null, err
		}
		if !value.ToBool(cond) {
			return value.Null, nil
		}
		result, stop, done, err := i.loopBody(ctx, s.Body)
		if err != nil {
			return value.Null, err
		}
		if done {
			return result, nil
		}
		if stop {
			return value.Null, nil
		}
	}
}

// evalRepeat runs the body at least once and leaves the loop as soon as
// the condition turns true.
func (i *Interpreter) evalRepeat(ctx context.Context, s ast.Repeat) (value.Value, error) {
	for {
		result, stop, done, err := i.loopBody(ctx, s.Body)
		if err != nil {
			return value.Null, err
		}
		if done {
			return result, nil
		}
		if stop {
			return value.Null, nil
		}
		if s.Cond == nil {
			// A repeat that lost its until clause to a parse error runs
			// its body exactly once.
			return value.Null, nil
		}
		cond, err := i.Eval(ctx, s.Cond)
		if err != nil {
			return value.Null, err
		}
		if value.ToBool(cond) {
			return value.Null, nil
		}
		if i.cancelled() {
			return value.Null, nil
		}
	}
}

func (i *Interpreter) evalForEach(ctx context.Context, s ast.ForEach) (value.Value, error) {
	iter, err := i.Eval(ctx, s.Iter)
	if err != nil {
		return value.Null, err
	}
	name := identName(s.Var)
	for _, v := range iterationValues(iter) {
		if i.cancelled() {
			return value.Null, nil
		}
		i.Reg.AddLocal(name, register.ValueSlot(v))
		result, stop, done, err := i.loopBody(ctx, s.Body)
		if err != nil {
			return value.Null, err
		}
		if done {
			return result, nil
		}
		if stop {
			return value.Null, nil
		}
	}
	return value.Null, nil
}

// iterationValues coerces a foreach iterable to a sequence: an Array
// iterates in place, a Dict yields its values in unspecified order, Null
// yields nothing, and any scalar is a one-element sequence.
func iterationValues(v value.Value) []value.Value {
	switch v.Kind {
	case value.KindArray:
		return v.Array
	case value.KindDict:
		out := make([]value.Value, 0, len(v.Dict))
		for _, e := range v.Dict {
			out = append(out, e)
		}
		return out
	case value.KindNull:
		return nil
	default:
		return []value.Value{v}
	}
}
