// Package builtin defines the contract between the interpreter core and
// external built-in function packs (raw-IP, packet forgery, HTTP, and so
// on) without implementing any of those packs itself: only the lookup
// interface and a couple of composable/demo implementations live here.
package builtin

import (
	"context"

	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// Dispatcher resolves a built-in function name to a callable. Multiple
// dispatchers may be composed with Composite; the first one that claims
// a name wins.
type Dispatcher interface {
	// Defined reports whether name is handled by this dispatcher.
	Defined(name string) bool
	// Execute runs the named function with the positional and named
	// arguments already bound into reg's innermost frame by the caller.
	// A nil error with found=false means this dispatcher does not
	// recognize name; the caller should try the next dispatcher.
	Execute(ctx context.Context, name string, reg *register.Register) (result value.Value, found bool, err *nerrors.FunctionError)
}

// Func adapts a plain function into a single-name Dispatcher.
type Func struct {
	Name string
	Call func(ctx context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError)
}

func (f Func) Defined(name string) bool { return name == f.Name }

func (f Func) Execute(ctx context.Context, name string, reg *register.Register) (value.Value, bool, *nerrors.FunctionError) {
	if name != f.Name {
		return value.Null, false, nil
	}
	v, err := f.Call(ctx, reg)
	return v, true, err
}

// Composite tries each Dispatcher in order, first hit wins.
type Composite []Dispatcher

func (c Composite) Defined(name string) bool {
	for _, d := range c {
		if d.Defined(name) {
			return true
		}
	}
	return false
}

func (c Composite) Execute(ctx context.Context, name string, reg *register.Register) (value.Value, bool, *nerrors.FunctionError) {
	for _, d := range c {
		if v, ok, err := d.Execute(ctx, name, reg); ok {
			return v, ok, err
		}
	}
	return value.Null, false, nil
}
