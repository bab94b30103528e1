package interp

import (
	"context"
	"testing"

	"github.com/v0rts/openvas-scanner/internal/builtin"
	"github.com/v0rts/openvas-scanner/internal/lexer"
	"github.com/v0rts/openvas-scanner/internal/loader"
	"github.com/v0rts/openvas-scanner/internal/parser"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/sink"
	"github.com/v0rts/openvas-scanner/internal/value"
)

func newTestInterpreter(code string) (*Interpreter, []value.Value, error) {
	mem := sink.NewMemory()
	reg := register.New(nil)
	disp := builtin.DescriptionBuiltins("test", mem)
	p := parser.New(lexer.New(code))
	stmts := p.All()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, nil, errs[0]
	}
	it := New(code, "test", reg, mem, loader.NoOp{}, disp)
	vals, err := it.RunAll(context.Background(), stmts)
	return it, vals, err
}

func evalAll(t *testing.T, code string) []value.Value {
	t.Helper()
	_, vals, err := newTestInterpreter(code)
	if err != nil {
		t.Fatalf("%q: %v", code, err)
	}
	return vals
}

func wantValues(t *testing.T, code string, want ...value.Value) {
	t.Helper()
	got := evalAll(t, code)
	if len(got) != len(want) {
		t.Fatalf("%q: got %d values %v, want %d", code, len(got), got, len(want))
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || !value.Equal(got[i], want[i]) {
			t.Errorf("%q: value %d = %s (%d), want %s (%d)", code, i, got[i], got[i].Kind, want[i], want[i].Kind)
		}
	}
}

func TestVariableAssignmentSequence(t *testing.T) {
	wantValues(t, `
	a = 12;
	a += 13;
	a -= 2;
	a /= 2;
	a *= 2;
	a >>= 2;
	a <<= 2;
	a >>>= 2;
	a %= 2;
	a++;
	++a;
	a--;
	--a;
	`,
		value.Num(12),
		value.Num(25),
		value.Num(23),
		value.Num(11),
		value.Num(22),
		value.Num(5),
		value.Num(20),
		value.Num(5),
		value.Num(1),
		value.Num(1),
		value.Num(3),
		value.Num(3),
		value.Num(1),
	)
}

func TestIndexedAssignmentSequence(t *testing.T) {
	wantValues(t, `
	a[0] = 12;
	a[0] += 13;
	a[0] -= 2;
	a[0] *= 2;
	a[0]++;
	++a[0];
	`,
		value.Num(12),
		value.Num(25),
		value.Num(23),
		value.Num(46),
		value.Num(46),
		value.Num(48),
	)
}

func TestImplicitArrayExtension(t *testing.T) {
	wantValues(t, `a[2] = 12; a;`,
		value.Num(12),
		value.Arr([]value.Value{value.Null, value.Null, value.Num(12)}),
	)
}

func TestScalarPromotionKeepsElementZero(t *testing.T) {
	wantValues(t, `a = 12; a; a[2] = 12; a;`,
		value.Num(12),
		value.Num(12),
		value.Num(12),
		value.Arr([]value.Value{value.Num(12), value.Null, value.Num(12)}),
	)
}

func TestDictMaterialization(t *testing.T) {
	wantValues(t, `a['hi'] = 12; a; a['hi'];`,
		value.Num(12),
		value.Dict(map[string]value.Value{"hi": value.Num(12)}),
		value.Num(12),
	)
}

func TestIndexPastLengthReadsNull(t *testing.T) {
	wantValues(t, `a[0] = 1; a[9];`, value.Num(1), value.Null)
}

func TestPrefixVersusPostfix(t *testing.T) {
	wantValues(t, `a = 0; p = a++; q = a; p; q;`,
		value.Num(0), value.Num(0), value.Num(1), value.Num(0), value.Num(1))
	wantValues(t, `a = 0; p = ++a; q = a; p; q;`,
		value.Num(0), value.Num(1), value.Num(1), value.Num(1), value.Num(1))
}

func TestCompoundAssignMatchesOperator(t *testing.T) {
	wantValues(t, `a = 1; a += 2; a;`, value.Num(1), value.Num(3), value.Num(3))
	wantValues(t, `a = 1; a = a + 2; a;`, value.Num(1), value.Num(3), value.Num(3))
}

func TestOperators(t *testing.T) {
	cases := []struct {
		code string
		want value.Value
	}{
		{"1+2;", value.Num(3)},
		{`"hello " + "world!";`, value.Str("hello world!")},
		{`"hello " - 'o ';`, value.Str("hell")},
		{`'hello ' + 'world!';`, value.Str("hello world!")},
		{"1 - 2;", value.Num(-1)},
		{"1*2;", value.Num(2)},
		{"512/2;", value.Num(256)},
		{"512%2;", value.Num(0)},
		{"512 << 2;", value.Num(2048)},
		{"512 >> 2;", value.Num(128)},
		{"-2 >>> 2;", value.Num(1073741823)},
		{"-2 & 2;", value.Num(2)},
		{"-2 | 2;", value.Num(-2)},
		{"-2 ^ 2;", value.Num(-4)},
		{"2 ** 2;", value.Num(4)},
		{"2 ** 10;", value.Num(1024)},
		{"~2;", value.Num(-3)},
		{"'hello' =~ 'hell';", value.Bool(true)},
		{"'hello' !~ 'hell';", value.Bool(false)},
		{"'hello' >< 'ell';", value.Bool(true)},
		{"'hello' >!< 'ell';", value.Bool(false)},
		{"!1;", value.Bool(false)},
		{"1 && 1;", value.Bool(true)},
		{"0 || 1;", value.Bool(true)},
		{"1 == 1;", value.Bool(true)},
		{"1 != 1;", value.Bool(false)},
		{"1 < 2;", value.Bool(true)},
		{"2 <= 2;", value.Bool(true)},
		{"3 > 2;", value.Bool(true)},
		{"2 >= 3;", value.Bool(false)},
	}
	for _, c := range cases {
		wantValues(t, c.code, c.want)
	}
}

func TestRepeatOperator(t *testing.T) {
	t.Run("zero skips evaluation", func(t *testing.T) {
		wantValues(t, `a = 1; a++ x 0; a;`, value.Num(1), value.Null, value.Num(1))
	})
	t.Run("one evaluates exactly once", func(t *testing.T) {
		wantValues(t, `a = 1; a++ x 1; a;`, value.Num(1), value.Num(1), value.Num(2))
	})
	t.Run("larger counts drop one round", func(t *testing.T) {
		// E x N evaluates E only N-1 times for N > 1; the engine has
		// always behaved this way and scripts depend on it.
		wantValues(t, `a = 0; a++ x 5; a;`, value.Num(0), value.Num(3), value.Num(4))
	})
}

func TestForLoop(t *testing.T) {
	wantValues(t, `a = 0; for (i = 1; i < 5; i++) { a += i; } a;`,
		value.Num(0), value.Null, value.Num(10))
}

func TestForLoopWithoutUpdate(t *testing.T) {
	wantValues(t, `a = 0; for (; a < 5; ) { a += 1; } a;`,
		value.Num(0), value.Null, value.Num(5))
}

func TestForEachLoop(t *testing.T) {
	wantValues(t, `arr[0] = 3; arr[1] = 5; a = 0; foreach i (arr) { a += i; } a;`,
		value.Num(3), value.Num(5), value.Num(0), value.Null, value.Num(8))
}

func TestForEachOverDict(t *testing.T) {
	wantValues(t, `h['a'] = 1; h['b'] = 2; s = 0; foreach v (h) { s += v; } s;`,
		value.Num(1), value.Num(2), value.Num(0), value.Null, value.Num(3))
}

func TestForEachOverScalarAndNull(t *testing.T) {
	wantValues(t, `s = 0; foreach v (7) { s += v; } s;`,
		value.Num(0), value.Null, value.Num(7))
	wantValues(t, `s = 0; foreach v (nothing) { s += 1; } s;`,
		value.Num(0), value.Null, value.Num(0))
}

func TestWhileLoop(t *testing.T) {
	wantValues(t, `i = 4; a = 0; while (i > 0) { a += i; i--; } a; i;`,
		value.Num(4), value.Num(0), value.Null, value.Num(10), value.Num(0))
}

func TestRepeatUntilLoop(t *testing.T) {
	wantValues(t, `i = 10; a = 0; repeat { a += i; i--; } until (i > 0); a; i;`,
		value.Num(10), value.Num(0), value.Null, value.Num(10), value.Num(9))
}

func TestBreakAndContinue(t *testing.T) {
	wantValues(t, `
	a = 0;
	i = 5;
	while (i > 0) {
		if (i == 4) { i--; continue; }
		if (i == 1) { break; }
		a += i;
		i--;
	}
	a;
	i;
	`,
		value.Num(0), value.Num(5), value.Null, value.Num(10), value.Num(1))
}

func TestExitStopsTheScript(t *testing.T) {
	_, vals, err := newTestInterpreter(`a = 1; exit(42); a = 2;`)
	if err != nil {
		t.Fatal(err)
	}
	if len(vals) != 2 {
		t.Fatalf("exit did not stop evaluation: %v", vals)
	}
	last := vals[len(vals)-1]
	if last.Kind != value.KindExit || last.Number != 42 {
		t.Fatalf("want Exit(42), got %s", last)
	}
}

func TestExitPropagatesFromLoop(t *testing.T) {
	_, vals, err := newTestInterpreter(`for (i = 0; i < 10; i++) { exit(7); }`)
	if err != nil {
		t.Fatal(err)
	}
	if vals[0].Kind != value.KindExit || vals[0].Number != 7 {
		t.Fatalf("want Exit(7), got %s", vals[0])
	}
}

func TestFunctions(t *testing.T) {
	t.Run("positional arguments", func(t *testing.T) {
		wantValues(t, `function add(a, b) { return a + b; } add(1, 2);`,
			value.Null, value.Num(3))
	})
	t.Run("named arguments", func(t *testing.T) {
		wantValues(t, `function add(a, b) { return a + b; } add(b: 2, a: 40);`,
			value.Null, value.Num(42))
	})
	t.Run("missing argument is Null", func(t *testing.T) {
		wantValues(t, `function f(a) { return a; } f();`,
			value.Null, value.Null)
	})
	t.Run("end of body returns Null", func(t *testing.T) {
		wantValues(t, `function g(a) { a + 1; } g(1);`,
			value.Null, value.Null)
	})
	t.Run("globals stay visible inside a call", func(t *testing.T) {
		wantValues(t, `g = 10; function h() { return g + 1; } h();`,
			value.Num(10), value.Null, value.Num(11))
	})
	t.Run("plain write lands at the defining frame", func(t *testing.T) {
		wantValues(t, `a = 1; function f() { a = 2; } f(); a;`,
			value.Num(1), value.Null, value.Null, value.Num(2))
	})
	t.Run("local_var shields the outer binding", func(t *testing.T) {
		wantValues(t, `a = 1; function f() { local_var a; a = 2; return a; } f(); a;`,
			value.Num(1), value.Null, value.Num(2), value.Num(1))
	})
	t.Run("recursion", func(t *testing.T) {
		wantValues(t, `function fib(n) { if (n < 2) return n; return fib(n: n - 1) + fib(n: n - 2); } fib(n: 10);`,
			value.Null, value.Num(55))
	})
}

func TestBuiltins(t *testing.T) {
	t.Run("strlen", func(t *testing.T) {
		wantValues(t, `strlen("abc");`, value.Num(3))
	})
	t.Run("typeof", func(t *testing.T) {
		wantValues(t, `typeof(42);`, value.Str("int"))
	})
	t.Run("int coercion", func(t *testing.T) {
		wantValues(t, `int("whatever");`, value.Num(1))
	})
	t.Run("substr", func(t *testing.T) {
		wantValues(t, `substr("hello", 1, 3);`, value.Str("el"))
	})
}

func TestDescriptionBlockWritesSink(t *testing.T) {
	code := `
	if (description)
	{
		script_oid("1.3.6.1.4.1.25623.1.0.100315");
		script_name("Example plugin");
		script_tag(name: "summary", value: "An example.");
		exit(0);
	}
	`
	mem := sink.NewMemory()
	reg := register.New(map[string]value.Value{"description": value.Num(1)})
	disp := builtin.DescriptionBuiltins("example.nasl", mem)
	p := parser.New(lexer.New(code))
	stmts := p.All()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	it := New(code, "example.nasl", reg, mem, loader.NoOp{}, disp)
	v, err := it.Run(context.Background(), stmts)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != value.KindExit || v.Number != 0 {
		t.Fatalf("want Exit(0), got %s", v)
	}
	oid, name, _, _, _, _, tags, _, ok := mem.Record("example.nasl")
	if !ok {
		t.Fatal("no record dispatched for example.nasl")
	}
	if oid != "1.3.6.1.4.1.25623.1.0.100315" || name != "Example plugin" {
		t.Fatalf("got oid %q name %q", oid, name)
	}
	if tags["summary"] != "An example." {
		t.Fatalf("got tags %v", tags)
	}
}

func TestInterpretErrors(t *testing.T) {
	cases := map[string]string{
		"missing function":        `nosuchfunction(1);`,
		"value used as function":  `a = 1; a();`,
		"function not assignable": `function f() { return 1; } f = 2;`,
		"function read as value":  `function f() { return 1; } f;`,
		"unparseable regex":       `'a' =~ '(';`,
		"division by zero":        `1/0;`,
		"modulo by zero":          `1%0;`,
		"negative index write":    `a[-1] = 2;`,
	}
	for name, code := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := newTestInterpreter(code); err == nil {
				t.Fatalf("%q: expected an interpret error", code)
			}
		})
	}
}

func TestUndefinedVariableIsNull(t *testing.T) {
	wantValues(t, `missing;`, value.Null)
}

func TestKeywordPrimitives(t *testing.T) {
	// TRUE/FALSE/NULL resolve as primitives, not variables.
	wantValues(t, `TRUE;`, value.Bool(true))
	wantValues(t, `FALSE;`, value.Bool(false))
	wantValues(t, `NULL;`, value.Null)
}

func TestAttackCategoryValue(t *testing.T) {
	vals := evalAll(t, `ACT_GATHER_INFO;`)
	if vals[0].Kind != value.KindAttackCategory {
		t.Fatalf("got %s", vals[0])
	}
}

func TestCancellationStopsLoops(t *testing.T) {
	code := `while (1) { a += 1; }`
	mem := sink.NewMemory()
	reg := register.New(nil)
	p := parser.New(lexer.New(code))
	stmts := p.All()
	it := New(code, "test", reg, mem, loader.NoOp{}, nil)
	calls := 0
	it.WithCancel(func() bool {
		calls++
		return calls > 3
	})
	if _, err := it.Run(context.Background(), stmts); err != nil {
		t.Fatal(err)
	}
}
