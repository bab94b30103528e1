package value

import (
	"math"
	"testing"

	"github.com/v0rts/openvas-scanner/internal/token"
)

func TestToI64(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want int64
	}{
		{"null", Null, 0},
		{"number", Num(42), 42},
		{"min number", Num(math.MinInt64), math.MinInt64},
		{"max number", Num(math.MaxInt64), math.MaxInt64},
		{"true", Bool(true), 1},
		{"false", Bool(false), 0},
		{"exit", ExitWith(3), 3},
		{"string", Str("whatever"), 1},
		{"data", Data("bytes"), 1},
		{"array", Arr([]Value{Num(9)}), 1},
		{"dict", Dict(map[string]Value{"k": Num(9)}), 1},
		{"attack category", Category(token.ACTAttack), int64(token.ACTAttack)},
	}
	for _, c := range cases {
		if got := ToI64(c.in); got != c.want {
			t.Errorf("%s: ToI64 = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestToBool(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want bool
	}{
		{"null", Null, false},
		{"zero", Num(0), false},
		{"nonzero", Num(-7), true},
		{"true", Bool(true), true},
		{"false", Bool(false), false},
		{"empty string", Str(""), false},
		{"zero string", Str("0"), false},
		{"string", Str("0x0"), true},
		{"empty array", Arr(nil), false},
		{"array", Arr([]Value{Null}), true},
		{"empty dict", Dict(map[string]Value{}), false},
		{"dict", Dict(map[string]Value{"k": Null}), true},
		{"exit zero", ExitWith(0), false},
		{"exit nonzero", ExitWith(1), true},
		{"attack category", Category(token.ACTInit), true},
	}
	for _, c := range cases {
		if got := ToBool(c.in); got != c.want {
			t.Errorf("%s: ToBool = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want bool
	}{
		{"numbers", Num(1), Num(1), true},
		{"numbers differ", Num(1), Num(2), false},
		{"number vs null", Num(0), Null, true},
		{"string vs data", Str("a"), Data("a"), true},
		{"strings differ", Str("a"), Str("b"), false},
		{"arrays", Arr([]Value{Num(1), Null}), Arr([]Value{Num(1), Null}), true},
		{"arrays differ in length", Arr([]Value{Num(1)}), Arr(nil), false},
		{"dicts", Dict(map[string]Value{"k": Num(1)}), Dict(map[string]Value{"k": Num(1)}), true},
		{"dict key missing", Dict(map[string]Value{"k": Num(1)}), Dict(map[string]Value{"x": Num(1)}), false},
		{"string vs number", Str("1"), Num(1), false},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Errorf("%s: Equal = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestIsControl(t *testing.T) {
	for _, v := range []Value{ExitWith(0), ReturnWith(Num(1)), Break, Continue} {
		if !v.IsControl() {
			t.Errorf("%s should be a control value", v)
		}
	}
	for _, v := range []Value{Null, Num(1), Str("x"), Arr(nil)} {
		if v.IsControl() {
			t.Errorf("%s should not be a control value", v)
		}
	}
}

func TestPrepareArray(t *testing.T) {
	t.Run("null extends to index", func(t *testing.T) {
		idx, arr := PrepareArray(2, Null)
		if idx != 2 || len(arr) != 3 {
			t.Fatalf("got idx %d len %d", idx, len(arr))
		}
		for _, v := range arr {
			if v.Kind != KindNull {
				t.Fatalf("expected Null padding, got %s", v)
			}
		}
	})
	t.Run("scalar promotes to element zero", func(t *testing.T) {
		_, arr := PrepareArray(2, Num(12))
		if arr[0].Number != 12 || arr[1].Kind != KindNull || len(arr) != 3 {
			t.Fatalf("got %v", arr)
		}
	})
	t.Run("existing array reused", func(t *testing.T) {
		_, arr := PrepareArray(0, Arr([]Value{Num(1), Num(2)}))
		if len(arr) != 2 || arr[1].Number != 2 {
			t.Fatalf("got %v", arr)
		}
	})
}

func TestPrepareDict(t *testing.T) {
	t.Run("array keys become numeric strings", func(t *testing.T) {
		m := PrepareDict(Arr([]Value{Num(5), Num(6)}))
		if m["0"].Number != 5 || m["1"].Number != 6 {
			t.Fatalf("got %v", m)
		}
	})
	t.Run("null becomes empty", func(t *testing.T) {
		if m := PrepareDict(Null); len(m) != 0 {
			t.Fatalf("got %v", m)
		}
	})
	t.Run("scalar keyed at zero", func(t *testing.T) {
		m := PrepareDict(Num(3))
		if len(m) != 1 || m["0"].Number != 3 {
			t.Fatalf("got %v", m)
		}
	})
}

func TestDataText(t *testing.T) {
	if got := DataText("plain"); got != "plain" {
		t.Errorf("ascii passthrough: got %q", got)
	}
	// Each byte maps to the same-numbered code point, so 0xFF becomes U+00FF.
	if got := DataText("\xff"); got != "ÿ" {
		t.Errorf("byte cast: got %q", got)
	}
}
