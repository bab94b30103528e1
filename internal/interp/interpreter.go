// Package interp implements the tree-walking evaluator: given a Statement
// AST, a register, and the external loader/sink/dispatcher collaborators,
// it walks nodes and produces Value results, threading assignment,
// operator, call-dispatch, and control-flow semantics through a single
// Eval entry point.
package interp

import (
	"context"

	"github.com/v0rts/openvas-scanner/internal/ast"
	"github.com/v0rts/openvas-scanner/internal/builtin"
	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/loader"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/sink"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// Interpreter evaluates a Statement stream parsed from a single source
// against a shared register. It is single-threaded and cooperative: no
// statement begins evaluating before the previous one has fully finished
// or yielded a control value, and the only suspension points are at
// built-in call boundaries and include-loader boundaries.
type Interpreter struct {
	Reg        *register.Register
	Sink       sink.Sink
	Loader     loader.Loader
	Dispatcher builtin.Dispatcher
	ScriptKey  string

	lex *lexer.Lexer

	regexCache map[string]*compiledRegex

	// cancel is polled between top-level statements and loop iterations.
	// The current built-in call, if any, always finishes first.
	cancel func() bool
}

// New returns an Interpreter for source, sharing reg across the lifetime
// of a script run (a fresh Register per script, per the single-interpreter-
// per-script concurrency model).
func New(source string, scriptKey string, reg *register.Register, sk sink.Sink, ld loader.Loader, disp builtin.Dispatcher) *Interpreter {
	return &Interpreter{
		Reg:        reg,
		Sink:       sk,
		Loader:     ld,
		Dispatcher: disp,
		ScriptKey:  scriptKey,
		lex:        lexer.New(source),
		regexCache: make(map[string]*compiledRegex),
	}
}

// WithCancel installs a cooperative cancellation check, polled between
// top-level statements and loop iterations.
func (i *Interpreter) WithCancel(cancel func() bool) *Interpreter {
	i.cancel = cancel
	return i
}

func (i *Interpreter) cancelled() bool {
	return i.cancel != nil && i.cancel()
}

// Run evaluates every statement in stmts in order, stopping early (without
// error) on a top-level Exit, and returning the last evaluated value plus
// any halting InterpretError.
func (i *Interpreter) Run(ctx context.Context, stmts []ast.Statement) (value.Value, error) {
	var last value.Value
	for _, stmt := range stmts {
		if i.cancelled() {
			return last, nil
		}
		v, err := i.Eval(ctx, stmt)
		if err != nil {
			return last, err
		}
		last = v
		if v.Kind == value.KindExit {
			return v, nil
		}
	}
	return last, nil
}

// RunAll evaluates every statement and collects each yielded value,
// matching the specification's "yield a Value for each" contract — used
// by the CLI and the end-to-end snapshot tests.
func (i *Interpreter) RunAll(ctx context.Context, stmts []ast.Statement) ([]value.Value, error) {
	out := make([]value.Value, 0, len(stmts))
	for _, stmt := range stmts {
		if i.cancelled() {
			return out, nil
		}
		v, err := i.Eval(ctx, stmt)
		if err != nil {
			return out, err
		}
		out = append(out, v)
		if v.Kind == value.KindExit {
			return out, nil
		}
	}
	return out, nil
}
