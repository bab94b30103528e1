// Package value implements the NASL dynamic value model: the Value sum
// type, its to-integer and to-boolean coercion rules, and the container
// materialization helpers assignment relies on.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/v0rts/openvas-scanner/internal/token"
)

// Kind discriminates the Value variants.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindData
	KindArray
	KindDict
	KindAttackCategory
	KindExit
	KindReturn
	KindBreak
	KindContinue
)

// Value is the dynamic value every expression evaluates to. Only one of
// the fields matching Kind is meaningful; the zero Value is Null.
type Value struct {
	Kind    Kind
	Boolean bool
	Number  int64
	Text    string // String or Data payload
	Array   []Value
	Dict    map[string]Value
	Act     token.ACT
	Return  *Value // payload for KindReturn
}

// Null is the zero value and the default for missing lookups.
var Null = Value{Kind: KindNull}

// Break is the sentinel control value produced by a `break` statement.
var Break = Value{Kind: KindBreak}

// Continue is the sentinel control value produced by a `continue`
// statement; loops consume it at the end of the current iteration.
var Continue = Value{Kind: KindContinue}

func Bool(b bool) Value      { return Value{Kind: KindBoolean, Boolean: b} }
func Num(n int64) Value      { return Value{Kind: KindNumber, Number: n} }
func Str(s string) Value     { return Value{Kind: KindString, Text: s} }
func Data(b string) Value    { return Value{Kind: KindData, Text: b} }
func Arr(v []Value) Value    { return Value{Kind: KindArray, Array: v} }
func Dict(m map[string]Value) Value {
	return Value{Kind: KindDict, Dict: m}
}
func Category(a token.ACT) Value { return Value{Kind: KindAttackCategory, Act: a} }
func ExitWith(n int64) Value     { return Value{Kind: KindExit, Number: n} }
func ReturnWith(v Value) Value   { return Value{Kind: KindReturn, Return: &v} }

// IsControl reports whether v is one of Exit/Return/Break/Continue — a value that
// must short-circuit block, loop, and function evaluation rather than be
// treated as an ordinary result.
func (v Value) IsControl() bool {
	switch v.Kind {
	case KindExit, KindReturn, KindBreak, KindContinue:
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "Null"
	case KindBoolean:
		return strconv.FormatBool(v.Boolean)
	case KindNumber:
		return strconv.FormatInt(v.Number, 10)
	case KindString, KindData:
		return v.Text
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, e := range v.Array {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		keys := make([]string, 0, len(v.Dict))
		for k := range v.Dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, v.Dict[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindAttackCategory:
		return v.Act.String()
	case KindExit:
		return fmt.Sprintf("Exit(%d)", v.Number)
	case KindReturn:
		return fmt.Sprintf("Return(%s)", v.Return.String())
	case KindBreak:
		return "Break"
	case KindContinue:
		return "Continue"
	default:
		return "?"
	}
}

// ToI64 implements the to-i64 coercion table of the interpreter's operator
// semantics.
func ToI64(v Value) int64 {
	switch v.Kind {
	case KindNull:
		return 0
	case KindNumber:
		return v.Number
	case KindBoolean:
		if v.Boolean {
			return 1
		}
		return 0
	case KindExit:
		return v.Number
	case KindString, KindArray, KindDict, KindData:
		return 1
	case KindAttackCategory:
		return int64(v.Act)
	default:
		return 0
	}
}

// ToBool implements the to-bool coercion table of the interpreter's
// operator semantics.
func ToBool(v Value) bool {
	switch v.Kind {
	case KindNull:
		return false
	case KindBoolean:
		return v.Boolean
	case KindNumber:
		return v.Number != 0
	case KindExit:
		return v.Number != 0
	case KindString:
		return v.Text != "" && v.Text != "0"
	case KindData:
		return v.Text != "" && v.Text != "0"
	case KindArray:
		return len(v.Array) > 0
	case KindDict:
		return len(v.Dict) > 0
	case KindAttackCategory:
		return true
	default:
		return false
	}
}

// ToString renders v as its NASL string form, used by `+`/`-` concatenation
// and containment operators when coercing the right-hand operand.
func ToString(v Value) string {
	switch v.Kind {
	case KindString:
		return v.Text
	case KindData:
		return DataText(v.Text)
	case KindNull:
		return ""
	default:
		return v.String()
	}
}

// DataText converts a Data payload to text by mapping each byte to the
// same-numbered code point.
func DataText(raw string) string {
	ascii := true
	for i := 0; i < len(raw); i++ {
		if raw[i] > 127 {
			ascii = false
			break
		}
	}
	if ascii {
		return raw
	}
	runes := make([]rune, len(raw))
	for i := 0; i < len(raw); i++ {
		runes[i] = rune(raw[i])
	}
	return string(runes)
}

// Equal implements the structural equality `==`/`!=` compare against,
// treating a missing right operand as Null.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		// Cross-kind comparisons fall back to numeric coercion, matching
		// the original's loose equality for Number/Boolean/Exit mixes.
		if isNumeric(a.Kind) && isNumeric(b.Kind) {
			return ToI64(a) == ToI64(b)
		}
		if (a.Kind == KindString || a.Kind == KindData) && (b.Kind == KindString || b.Kind == KindData) {
			return a.Text == b.Text
		}
		return false
	}
	switch a.Kind {
	case KindNull, KindBreak:
		return true
	case KindBoolean:
		return a.Boolean == b.Boolean
	case KindNumber, KindExit:
		return a.Number == b.Number
	case KindString, KindData:
		return a.Text == b.Text
	case KindAttackCategory:
		return a.Act == b.Act
	case KindArray:
		if len(a.Array) != len(b.Array) {
			return false
		}
		for i := range a.Array {
			if !Equal(a.Array[i], b.Array[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.Dict) != len(b.Dict) {
			return false
		}
		for k, av := range a.Dict {
			bv, ok := b.Dict[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func isNumeric(k Kind) bool {
	return k == KindNumber || k == KindBoolean || k == KindExit || k == KindNull
}
