// Package value implements Rill's tagged Value union and the lexical
// Environment it is stored in (spec section 3 and 4.B). The two live in
// one package because they are mutually recursive: a Function value
// captures an *Environment, and an Environment cell holds a Value — Go
// has no way to split that across two packages without an import cycle,
// so value plays the role the teacher's value/value.go and exec/context.go
// play together, merged.
package value

import (
	"fmt"
	"strings"

	"github.com/rill-lang/rill/internal/decimal"
)

// Value is implemented by every one of the closed set of variants in
// spec section 3. Each variant supplies its own textual form, repr form,
// truthiness, and structural clone.
type Value interface {
	Type() string
	String() string // textual form
	Repr() string    // diagnostic, self-describing form
	Truthy() bool
	Clone() Value
}

// Null is the sole no-payload, always-falsy value.
type Null struct{}

func (Null) Type() string   { return "null" }
func (Null) String() string { return "nul" }
func (Null) Repr() string   { return "nul" }
func (Null) Truthy() bool   { return false }
func (Null) Clone() Value   { return Null{} }

// Number wraps a BigDecimal.
type Number struct{ D decimal.Decimal }

func NewNumber(d decimal.Decimal) Number { return Number{D: d} }

// Bool represents a comparison result as a Number (1 or 0): the closed
// Value set in spec section 3 has no dedicated boolean variant, and
// truthiness is already defined as Number ≠ 0.
func Bool(b bool) Number {
	if b {
		return Number{D: decimal.One}
	}
	return Number{D: decimal.Zero}
}

func (n Number) Type() string   { return "dec" }
func (n Number) String() string { return n.D.String() }
func (n Number) Repr() string   { return n.D.String() }
func (n Number) Truthy() bool   { return !n.D.IsZero() }
func (n Number) Clone() Value   { return n }

// Binary is an ordered sequence of bytes, textually `0x` + lower-case hex.
type Binary struct{ Bytes []byte }

func (b Binary) Type() string { return "bin" }

func (b Binary) String() string {
	var sb strings.Builder
	sb.WriteString("0x")
	for _, by := range b.Bytes {
		fmt.Fprintf(&sb, "%02x", by)
	}
	return sb.String()
}

func (b Binary) Repr() string { return b.String() }

func (b Binary) Truthy() bool {
	for _, by := range b.Bytes {
		if by != 0 {
			return true
		}
	}
	return false
}

func (b Binary) Clone() Value {
	cp := make([]byte, len(b.Bytes))
	copy(cp, b.Bytes)
	return Binary{Bytes: cp}
}

// String is a byte string.
type String struct{ S string }

func (s String) Type() string   { return "str" }
func (s String) String() string { return s.S }
func (s String) Repr() string   { return fmt.Sprintf("%q", s.S) }
func (s String) Truthy() bool   { return s.S != "" }
func (s String) Clone() Value   { return s }

// List is an ordered, heterogeneous, mutable-by-index sequence of Values.
type List struct{ Elems []Value }

func (l *List) Type() string { return "list" }

func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.Repr()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Repr() string { return l.String() }
func (l *List) Truthy() bool { return len(l.Elems) > 0 }

func (l *List) Clone() Value {
	cp := make([]Value, len(l.Elems))
	for i, e := range l.Elems {
		cp[i] = e.Clone()
	}
	return &List{Elems: cp}
}

// Exception carries a payload value; compares structurally by it.
type Exception struct{ Payload Value }

func (e Exception) Type() string   { return "exception" }
func (e Exception) String() string { return fmt.Sprintf("<Exception: %s>", e.Payload.String()) }
func (e Exception) Repr() string   { return e.String() }
func (e Exception) Truthy() bool   { return true }
func (e Exception) Clone() Value   { return Exception{Payload: e.Payload.Clone()} }

// NewException wraps a string message, the usual shape raised by the
// evaluator when it converts a RuntimeError into a catchable value.
func NewException(msg string) Exception { return Exception{Payload: String{S: msg}} }
