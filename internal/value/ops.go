package value

import (
	"math/big"

	"github.com/rill-lang/rill/internal/decimal"
	"github.com/rill-lang/rill/internal/rillerr"
)

// BinaryToNumber interprets b's bytes as an unsigned big-endian base-256
// integer and returns it as a Number, per spec section 4.B/8 property 2.
func BinaryToNumber(b Binary) Number {
	i := new(big.Int).SetBytes(b.Bytes)
	d, _ := decimal.Parse(i.String())
	return Number{D: d}
}

// Add implements the `+` row of the mixed-type table in spec section 4.B.
func Add(left, right Value, line int) (Value, error) {
	switch l := left.(type) {
	case Number:
		switch r := right.(type) {
		case Number:
			return Number{D: l.D.Add(r.D)}, nil
		case Binary:
			return Number{D: l.D.Add(BinaryToNumber(r).D)}, nil
		case String:
			return String{S: l.String() + r.S}, nil
		}
	case Binary:
		switch r := right.(type) {
		case Number:
			return Number{D: BinaryToNumber(l).D.Add(r.D)}, nil
		case String:
			return String{S: l.String() + r.S}, nil
		case Binary:
			return nil, rillerr.New(rillerr.TypeMismatch, "bin + bin is not defined").WithLine(line)
		}
	case String:
		switch r := right.(type) {
		case Number, Binary, String:
			return String{S: l.S + r.String()}, nil
		}
	case *List:
		if r, ok := right.(*List); ok {
			cp := make([]Value, 0, len(l.Elems)+len(r.Elems))
			for _, e := range l.Elems {
				cp = append(cp, e.Clone())
			}
			for _, e := range r.Elems {
				cp = append(cp, e.Clone())
			}
			return &List{Elems: cp}, nil
		}
	}
	return nil, rillerr.New(rillerr.TypeMismatch, "%s + %s is not defined", left.Type(), right.Type()).WithLine(line)
}

// numericOnly factors out the -, *, /, ^ rows, which are numeric-only.
func numericOnly(left, right Value, line int, op string) (decimal.Decimal, decimal.Decimal, error) {
	l, ok := left.(Number)
	if !ok {
		return decimal.Decimal{}, decimal.Decimal{}, rillerr.New(rillerr.TypeMismatch, "%s is not a number", left.Type()).WithLine(line)
	}
	r, ok := right.(Number)
	if !ok {
		return decimal.Decimal{}, decimal.Decimal{}, rillerr.New(rillerr.TypeMismatch, "%s %s %s is not defined", left.Type(), op, right.Type()).WithLine(line)
	}
	return l.D, r.D, nil
}

func Sub(left, right Value, line int) (Value, error) {
	l, r, err := numericOnly(left, right, line, "-")
	if err != nil {
		return nil, err
	}
	return Number{D: l.Sub(r)}, nil
}

func Mul(left, right Value, line int) (Value, error) {
	if l, ok := left.(*List); ok {
		if r, ok := right.(Number); ok {
			n, err := r.D.ToMachineInt()
			if err != nil || n < 0 {
				n = 0
			}
			cp := make([]Value, 0, int(n)*len(l.Elems))
			for i := int64(0); i < n; i++ {
				for _, e := range l.Elems {
					cp = append(cp, e.Clone())
				}
			}
			return &List{Elems: cp}, nil
		}
	}
	l, r, err := numericOnly(left, right, line, "*")
	if err != nil {
		return nil, err
	}
	return Number{D: l.Mul(r)}, nil
}

func Div(left, right Value, line int) (Value, error) {
	l, r, err := numericOnly(left, right, line, "/")
	if err != nil {
		return nil, err
	}
	q, divErr := l.Div(r)
	if divErr != nil {
		return nil, divErr.(*rillerr.Error).WithLine(line)
	}
	return Number{D: q}, nil
}

func Pow(left, right Value, line int) (Value, error) {
	l, r, err := numericOnly(left, right, line, "^")
	if err != nil {
		return nil, err
	}
	p, powErr := l.Pow(r)
	if powErr != nil {
		return nil, powErr.(*rillerr.Error).WithLine(line)
	}
	return Number{D: p}, nil
}

// Equal implements the equality rules of spec section 4.B.
func Equal(left, right Value) bool {
	switch l := left.(type) {
	case Number:
		switch r := right.(type) {
		case Number:
			return l.D.Equal(r.D)
		case Binary:
			return l.D.Equal(BinaryToNumber(r).D)
		}
	case Binary:
		switch r := right.(type) {
		case Binary:
			return BinaryToNumber(l).D.Equal(BinaryToNumber(r).D)
		case Number:
			return BinaryToNumber(l).D.Equal(r.D)
		}
	case String:
		if r, ok := right.(String); ok {
			return l.S == r.S
		}
	case *List:
		if r, ok := right.(*List); ok {
			if len(l.Elems) != len(r.Elems) {
				return false
			}
			for i := range l.Elems {
				if !Equal(l.Elems[i], r.Elems[i]) {
					return false
				}
			}
			return true
		}
	case Exception:
		if r, ok := right.(Exception); ok {
			return Equal(l.Payload, r.Payload)
		}
	case Null:
		_, ok := right.(Null)
		return ok
	}
	return false
}

// Less implements the `<` ordering, defined only for Number<Number and
// String<String per spec section 4.B.
func Less(left, right Value, line int) (bool, error) {
	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			return l.D.Cmp(r.D) < 0, nil
		}
	case String:
		if r, ok := right.(String); ok {
			return l.S < r.S, nil
		}
	}
	return false, rillerr.New(rillerr.TypeMismatch, "%s < %s is not defined", left.Type(), right.Type()).WithLine(line)
}

// Compare returns -1/0/1 for ordering, used by comparison operators and
// by the sort() builtin.
func Compare(left, right Value, line int) (int, error) {
	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			return l.D.Cmp(r.D), nil
		}
	case String:
		if r, ok := right.(String); ok {
			switch {
			case l.S < r.S:
				return -1, nil
			case l.S > r.S:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, rillerr.New(rillerr.TypeMismatch, "%s and %s are not ordered", left.Type(), right.Type()).WithLine(line)
}

// Index implements list subscripting: negative indices count from the
// end, out-of-range fails with IndexOutOfRange.
func Index(list *List, idx Value, line int) (Value, error) {
	n, ok := idx.(Number)
	if !ok {
		return nil, rillerr.New(rillerr.InvalidIndex, "index must be a number, got %s", idx.Type()).WithLine(line)
	}
	i, err := n.D.ToMachineInt()
	if err != nil || n.D.Scale() != 0 {
		return nil, rillerr.New(rillerr.InvalidIndex, "index is not an integer: %s", n.D.String()).WithLine(line)
	}
	if i < 0 {
		i += int64(len(list.Elems))
	}
	if i < 0 || i >= int64(len(list.Elems)) {
		return nil, rillerr.New(rillerr.IndexOutOfRange, "index %d out of range for list of length %d", i, len(list.Elems)).WithLine(line)
	}
	return list.Elems[i], nil
}

// SetIndex implements `list[i] = v` element mutation, per spec section 3.
func SetIndex(list *List, idx Value, v Value, line int) error {
	n, ok := idx.(Number)
	if !ok {
		return rillerr.New(rillerr.InvalidIndex, "index must be a number, got %s", idx.Type()).WithLine(line)
	}
	i, err := n.D.ToMachineInt()
	if err != nil || n.D.Scale() != 0 {
		return rillerr.New(rillerr.InvalidIndex, "index is not an integer: %s", n.D.String()).WithLine(line)
	}
	if i < 0 {
		i += int64(len(list.Elems))
	}
	if i < 0 || i >= int64(len(list.Elems)) {
		return rillerr.New(rillerr.IndexOutOfRange, "index %d out of range for list of length %d", i, len(list.Elems)).WithLine(line)
	}
	list.Elems[i] = v
	return nil
}
