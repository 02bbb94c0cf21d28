package eval

import (
	"strings"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/decimal"
	"github.com/rill-lang/rill/internal/rillerr"
	"github.com/rill-lang/rill/internal/value"
)

// Coerce converts v to the declared type t, per the variable-declaration
// coercion table in spec section 4.F. It is also reused by the swap
// special form, which looks up each variable's current dynamic type and
// coerces the incoming value into it.
func Coerce(t ast.Type, v value.Value, line int) (value.Value, error) {
	switch t {
	case ast.TypeDec:
		return coerceDec(v, line)
	case ast.TypeStr:
		return value.String{S: v.String()}, nil
	case ast.TypeBin:
		return coerceBin(v, line)
	case ast.TypeList:
		return coerceList(v, line)
	default: // any
		return v, nil
	}
}

func coerceDec(v value.Value, line int) (value.Value, error) {
	switch x := v.(type) {
	case value.Number:
		return x, nil
	case value.String:
		d, err := decimal.Parse(x.S)
		if err != nil {
			return nil, rillerr.New(rillerr.NonNumericString, "%q is not a valid number", x.S).WithLine(line)
		}
		return value.Number{D: d}, nil
	case value.Binary:
		return value.BinaryToNumber(x), nil
	case value.Null:
		return value.Number{D: decimal.Zero}, nil
	case *value.Instance:
		// `dec p = new(Point)` binds the instance as is.
		return x, nil
	}
	return nil, rillerr.New(rillerr.TypeMismatch, "cannot coerce %s to dec", v.Type()).WithLine(line)
}

func coerceBin(v value.Value, line int) (value.Value, error) {
	switch x := v.(type) {
	case value.Binary:
		return x, nil
	case value.Null:
		return value.Binary{Bytes: []byte{0}}, nil
	case value.String:
		s := x.S
		if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
			return nil, rillerr.New(rillerr.TypeMismatch, "string %q does not match 0x...", s).WithLine(line)
		}
		b, err := value.EvalLiteral(&ast.HexLit{Value: s[2:]})
		if err != nil {
			return nil, err.(*rillerr.Error).WithLine(line)
		}
		return b, nil
	}
	return nil, rillerr.New(rillerr.TypeMismatch, "cannot coerce %s to bin", v.Type()).WithLine(line)
}

func coerceList(v value.Value, line int) (value.Value, error) {
	switch x := v.(type) {
	case *value.List:
		return x, nil
	case value.Null:
		return &value.List{}, nil
	}
	return nil, rillerr.New(rillerr.TypeMismatch, "cannot coerce %s to list", v.Type()).WithLine(line)
}
