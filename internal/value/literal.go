package value

import (
	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/rillerr"
)

// EvalLiteral evaluates the restricted literal forms the grammar allows
// as parameter/field defaults (number, string, hex, nul, empty-list, and
// lists of literals). It needs no Environment: any other expression,
// such as an identifier inside a list default, fails with TypeMismatch.
func EvalLiteral(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.NumberLit:
		return Number{D: n.Value}, nil
	case *ast.StringLit:
		return String{S: n.Value}, nil
	case *ast.HexLit:
		b, err := hexToBytes(n.Value)
		if err != nil {
			return nil, err
		}
		return Binary{Bytes: b}, nil
	case *ast.NullLit:
		return Null{}, nil
	case *ast.EmptyListLit:
		return &List{}, nil
	case *ast.ListLit:
		elems := make([]Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := EvalLiteral(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return &List{Elems: elems}, nil
	}
	return nil, rillerr.New(rillerr.TypeMismatch, "not a literal default value")
}

func hexToBytes(digits string) ([]byte, error) {
	if len(digits)%2 != 0 {
		digits = "0" + digits
	}
	out := make([]byte, len(digits)/2)
	for i := 0; i < len(out); i++ {
		hi, ok1 := hexNibble(digits[2*i])
		lo, ok2 := hexNibble(digits[2*i+1])
		if !ok1 || !ok2 {
			return nil, rillerr.New(rillerr.InvalidHex, "invalid hex literal: %q", digits)
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
