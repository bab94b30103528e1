package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/v0rts/openvas-scanner/internal/nerrors"
	"github.com/v0rts/openvas-scanner/internal/register"
	"github.com/v0rts/openvas-scanner/internal/sink"
	"github.com/v0rts/openvas-scanner/internal/value"
)

// DescriptionBuiltins returns the small set of script_* built-ins that
// every NASL description block calls into, backed by a sink.Sink. It is
// a demonstration pack, not the real raw-IP/packet-forgery registry the
// specification treats as an external collaborator — enough to make the
// CLI and end-to-end tests exercise the call-dispatch and sink-write
// paths without depending on anything the core doesn't own.
func DescriptionBuiltins(scriptKey string, sk sink.Sink) Dispatcher {
	write := func(kind sink.FieldKind, key string, v value.Value) *nerrors.FunctionError {
		if err := sk.Dispatch(scriptKey, sink.Field{Kind: kind, Key: key, Value: v}); err != nil {
			return nerrors.NewFunctionError(nerrors.IOFailure, err.Error())
		}
		return nil
	}
	positional := func(reg *register.Register, i int) value.Value {
		args := reg.Named("_FCT_ANON_ARGS").Value
		if args.Kind != value.KindArray || i >= len(args.Array) {
			return value.Null
		}
		return args.Array[i]
	}

	return Composite{
		Func{"script_oid", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			v := positional(reg, 0)
			return v, write(sink.FieldOID, "", v)
		}},
		Func{"script_name", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			v := positional(reg, 0)
			return v, write(sink.FieldName, "", v)
		}},
		Func{"script_version", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			v := positional(reg, 0)
			return v, write(sink.FieldVersion, "", v)
		}},
		Func{"script_category", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			v := positional(reg, 0)
			return v, write(sink.FieldCategory, "", v)
		}},
		Func{"script_family", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			v := positional(reg, 0)
			return v, write(sink.FieldFamily, "", v)
		}},
		Func{"script_dependencies", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			args := reg.Named("_FCT_ANON_ARGS").Value
			for _, a := range args.Array {
				if err := write(sink.FieldDependency, "", a); err != nil {
					return value.Null, err
				}
			}
			return value.Null, nil
		}},
		Func{"script_tag", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			name := reg.Named("name").Value
			val := reg.Named("value").Value
			if name.Kind == value.KindNull {
				return value.Null, nerrors.NewFunctionError(nerrors.MissingArgument, "script_tag requires a name: argument")
			}
			return value.Null, write(sink.FieldTag, value.ToString(name), val)
		}},
		Func{"script_xref", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			src := reg.Named("name").Value
			val := reg.Named("value").Value
			return value.Null, write(sink.FieldReference, value.ToString(src), val)
		}},
		Func{"display", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			args := reg.Named("_FCT_ANON_ARGS").Value
			parts := make([]string, len(args.Array))
			for i, a := range args.Array {
				parts[i] = value.ToString(a)
			}
			fmt.Println(strings.Join(parts, ""))
			return value.Null, nil
		}},
		Func{"typeof", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			return value.Str(kindName(positional(reg, 0).Kind)), nil
		}},
		Func{"strlen", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			return value.Num(int64(len(value.ToString(positional(reg, 0))))), nil
		}},
		Func{"int", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			return value.Num(value.ToI64(positional(reg, 0))), nil
		}},
		Func{"substr", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			s := value.ToString(positional(reg, 0))
			start := int(value.ToI64(positional(reg, 1)))
			end := len(s)
			if third := positional(reg, 2); third.Kind != value.KindNull {
				end = int(value.ToI64(third))
			}
			if start < 0 || start > len(s) || end < start || end > len(s) {
				return value.Null, nerrors.NewFunctionError(nerrors.WrongArgument, "substr: index out of range")
			}
			return value.Str(s[start:end]), nil
		}},
		Func{"raw_string", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			args := reg.Named("_FCT_ANON_ARGS").Value
			var b strings.Builder
			for _, a := range args.Array {
				b.WriteByte(byte(value.ToI64(a)))
			}
			return value.Data(b.String()), nil
		}},
		Func{"hexstr", func(_ context.Context, reg *register.Register) (value.Value, *nerrors.FunctionError) {
			s := value.ToString(positional(reg, 0))
			var b strings.Builder
			for i := 0; i < len(s); i++ {
				fmt.Fprintf(&b, "%02x", s[i])
			}
			return value.Str(b.String()), nil
		}},
	}
}

func kindName(k value.Kind) string {
	switch k {
	case value.KindNull:
		return "undef"
	case value.KindBoolean:
		return "int"
	case value.KindNumber:
		return "int"
	case value.KindString:
		return "string"
	case value.KindData:
		return "data"
	case value.KindArray:
		return "array"
	case value.KindDict:
		return "array"
	case value.KindAttackCategory:
		return "int"
	default:
		return "undef"
	}
}
