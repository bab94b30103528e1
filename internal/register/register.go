// Package register implements the interpreter's lexical environment: an
// ordered stack of frames mapping names to value or function slots,
// indexed by frame position rather than linked by parent pointer so a
// lookup can report exactly which frame a name was found in.
package register

import "github.com/v0rts/openvas-scanner/internal/value"

// Function is the payload of a function slot: a declared NASL function's
// parameter names and body. Body is stored as an opaque interface{} so
// this package need not know the interpreter's body type; the interpreter
// stores its own value there and downcasts it on call.
type Function struct {
	Params []string
	Body   interface{}
}

// Slot is the contents of a named register entry: exactly one of Value or
// Func is meaningful, selected by IsFunction.
type Slot struct {
	IsFunction bool
	Value      value.Value
	Func       *Function
}

// ValueSlot wraps v as an ordinary value slot.
func ValueSlot(v value.Value) Slot { return Slot{Value: v} }

// FunctionSlot wraps fn as a function slot.
func FunctionSlot(fn *Function) Slot { return Slot{IsFunction: true, Func: fn} }

type frame struct {
	names              map[string]Slot
	isFunctionBoundary bool
}

func newFrame(isFunctionBoundary bool) *frame {
	return &frame{names: make(map[string]Slot), isFunctionBoundary: isFunctionBoundary}
}

// Register is the stack of frames comprising the dynamic environment.
// Frame 0 is the root and holds globals; it is never popped.
type Register struct {
	frames []*frame
}

// New creates a root frame, seeded with initial as frame 0's bindings.
func New(initial map[string]value.Value) *Register {
	r := &Register{}
	root := newFrame(true)
	for k, v := range initial {
		root.names[k] = ValueSlot(v)
	}
	r.frames = append(r.frames, root)
	return r
}

// CreateChild pushes a new innermost frame. isFunctionCall is recorded
// for introspection; it does not affect name visibility — NASL's
// dynamic-ish resolution means a function boundary never hides globals,
// or indeed any enclosing frame, from index lookups.
func (r *Register) CreateChild(isFunctionCall bool) {
	r.frames = append(r.frames, newFrame(isFunctionCall))
}

// Drop pops the innermost frame. It is a no-op on the root frame, which
// lives for the lifetime of the Register.
func (r *Register) Drop() {
	if len(r.frames) > 1 {
		r.frames = r.frames[:len(r.frames)-1]
	}
}

// Depth returns the number of live frames, root included.
func (r *Register) Depth() int { return len(r.frames) }

// IndexNamed scans from the innermost frame outward and returns the frame
// index and slot for the first frame binding name. ok is false if no
// frame binds it.
func (r *Register) IndexNamed(name string) (int, Slot, bool) {
	for i := len(r.frames) - 1; i >= 0; i-- {
		if slot, ok := r.frames[i].names[name]; ok {
			return i, slot, true
		}
	}
	return 0, Slot{}, false
}

// AddToIndex writes a slot directly into the frame at idx, the form every
// assignment uses to update a name at the frame where it was originally
// found rather than always shadowing at the innermost frame.
func (r *Register) AddToIndex(idx int, name string, slot Slot) {
	if idx < 0 || idx >= len(r.frames) {
		return
	}
	r.frames[idx].names[name] = slot
}

// AddLocal writes a slot at the innermost frame, restricting subsequent
// plain writes of that name to this frame (the effect of `local_var`).
func (r *Register) AddLocal(name string, slot Slot) {
	r.frames[len(r.frames)-1].names[name] = slot
}

// AddGlobal writes a slot at the root frame (the effect of `global_var`).
func (r *Register) AddGlobal(name string, slot Slot) {
	r.frames[0].names[name] = slot
}

// Named returns the slot bound to name, or a Null value slot if name is
// unbound anywhere in the stack. This silent-default behavior is
// preserved for variable lookups; callers resolving a call target must
// reject a miss explicitly rather than fall through to this default.
func (r *Register) Named(name string) Slot {
	_, slot, ok := r.IndexNamed(name)
	if !ok {
		return ValueSlot(value.Null)
	}
	return slot
}
