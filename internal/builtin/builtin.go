// Package builtin implements Rill's native standard library (spec
// section G / table row "Native library"), grounded on the teacher's
// value/unary.go and value/sin.go (robpike.io/ivy): a flat table of
// host-Go functions wrapped as callable Values, registered into the
// global Environment the same way the teacher seeds its own symbol
// table with predefined operators.
package builtin

import (
	"bufio"
	"hash/fnv"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/rill-lang/rill/internal/decimal"
	"github.com/rill-lang/rill/internal/eval"
	"github.com/rill-lang/rill/internal/rillerr"
	"github.com/rill-lang/rill/internal/value"
)

// Install populates env with the native library. stdin/stdout back the
// ask() builtin; the REPL and the one-shot runner each pass their own
// configured streams.
func Install(env *value.Environment, stdin io.Reader, stdout io.Writer) {
	reader := bufio.NewReader(stdin)
	for _, n := range []*value.Native{
		native("abs", builtinAbs),
		native("rt", builtinRoot),
		native("sort", builtinSort),
		native("setify", builtinSetify),
		native("min", builtinMin),
		native("max", builtinMax),
		native("hash", builtinHash),
		native("sin", trig("sin", math.Sin)),
		native("cos", trig("cos", math.Cos)),
		native("tan", trig("tan", math.Tan)),
		native("countdown", builtinCountdown),
		native("Exception", builtinException),
		native("new", builtinNew),
		nativeAsk("ask", reader, stdout),
	} {
		env.Define(n.Name, n)
	}
}

func native(name string, fn func([]value.Value) (value.Value, error)) *value.Native {
	return &value.Native{Name: name, Fn: fn}
}

func arity(name string, args []value.Value, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		if min == max {
			return rillerr.New(rillerr.ArityError, "%s expects %d argument(s), got %d", name, min, len(args))
		}
		return rillerr.New(rillerr.ArityError, "%s expects %d to %d argument(s), got %d", name, min, max, len(args))
	}
	return nil
}

func numArg(name string, args []value.Value, i int) (decimal.Decimal, error) {
	n, ok := args[i].(value.Number)
	if !ok {
		return decimal.Decimal{}, rillerr.New(rillerr.TypeMismatch, "%s: argument %d must be dec, got %s", name, i+1, args[i].Type())
	}
	return n.D, nil
}

func listArg(name string, args []value.Value, i int) (*value.List, error) {
	l, ok := args[i].(*value.List)
	if !ok {
		return nil, rillerr.New(rillerr.TypeMismatch, "%s: argument %d must be list, got %s", name, i+1, args[i].Type())
	}
	return l, nil
}

// builtinAbs returns the absolute value of a dec.
func builtinAbs(args []value.Value) (value.Value, error) {
	if err := arity("abs", args, 1, 1); err != nil {
		return nil, err
	}
	d, err := numArg("abs", args, 0)
	if err != nil {
		return nil, err
	}
	return value.Number{D: d.Abs()}, nil
}

// builtinRoot computes the n-th root (default 2, i.e. square root) of a
// dec, per spec scenario S5, delegating to decimal.Decimal.Root.
func builtinRoot(args []value.Value) (value.Value, error) {
	if err := arity("rt", args, 1, 2); err != nil {
		return nil, err
	}
	d, err := numArg("rt", args, 0)
	if err != nil {
		return nil, err
	}
	n := 2
	if len(args) == 2 {
		nd, err := numArg("rt", args, 1)
		if err != nil {
			return nil, err
		}
		m, err := nd.ToMachineInt()
		if err != nil || nd.Scale() != 0 {
			return nil, rillerr.New(rillerr.NonPositiveRoot, "rt: root index must be an integer, got %s", nd.String())
		}
		n = int(m)
	}
	r, err := d.Root(n, decimal.DivPrecision)
	if err != nil {
		return nil, err
	}
	return value.Number{D: r}, nil
}

// builtinSort returns a new list holding the same elements in ascending
// order per value.Compare, per spec scenario S2. The argument list is
// left untouched.
func builtinSort(args []value.Value) (value.Value, error) {
	if err := arity("sort", args, 1, 1); err != nil {
		return nil, err
	}
	l, err := listArg("sort", args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]value.Value, len(l.Elems))
	copy(out, l.Elems)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := value.Compare(out[i], out[j], 0)
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return &value.List{Elems: out}, nil
}

// builtinSetify returns sort(list) with adjacent duplicates removed
// (equal per value.Equal), per spec scenario S2.
func builtinSetify(args []value.Value) (value.Value, error) {
	sorted, err := builtinSort(args)
	if err != nil {
		return nil, err
	}
	l := sorted.(*value.List)
	out := make([]value.Value, 0, len(l.Elems))
	for _, e := range l.Elems {
		if len(out) > 0 && value.Equal(out[len(out)-1], e) {
			continue
		}
		out = append(out, e)
	}
	return &value.List{Elems: out}, nil
}

func builtinMin(args []value.Value) (value.Value, error) {
	if err := arity("min", args, 2, 2); err != nil {
		return nil, err
	}
	c, err := value.Compare(args[0], args[1], 0)
	if err != nil {
		return nil, err
	}
	if c <= 0 {
		return args[0], nil
	}
	return args[1], nil
}

func builtinMax(args []value.Value) (value.Value, error) {
	if err := arity("max", args, 2, 2); err != nil {
		return nil, err
	}
	c, err := value.Compare(args[0], args[1], 0)
	if err != nil {
		return nil, err
	}
	if c >= 0 {
		return args[0], nil
	}
	return args[1], nil
}

// builtinHash returns a 64-bit FNV-1a digest of v's textual form, as an
// 8-byte Binary. hash/fnv is stdlib: no pack dependency does general
// value hashing, so this is the one ambient exception documented in the
// grounding ledger.
func builtinHash(args []value.Value) (value.Value, error) {
	if err := arity("hash", args, 1, 1); err != nil {
		return nil, err
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(args[0].String()))
	sum := h.Sum64()
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(sum)
		sum >>= 8
	}
	return value.Binary{Bytes: b}, nil
}

// trig builds a sin/cos/tan native by round-tripping through float64,
// mirroring the teacher's floatSin/floatCos at reduced precision (§9 does
// not require transcendental functions to carry full BigDecimal
// precision; only +,-,*,/,^ and rt do).
func trig(name string, fn func(float64) float64) func([]value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		if err := arity(name, args, 1, 1); err != nil {
			return nil, err
		}
		d, err := numArg(name, args, 0)
		if err != nil {
			return nil, err
		}
		f, perr := strconv.ParseFloat(d.String(), 64)
		if perr != nil {
			return nil, rillerr.New(rillerr.NonNumericString, "%s: %v", name, perr)
		}
		r, perr := decimal.Parse(strconv.FormatFloat(fn(f), 'f', decimal.DivPrecision, 64))
		if perr != nil {
			return nil, perr
		}
		return value.Number{D: r}, nil
	}
}

// builtinCountdown returns [n, n-1, ..., 1] for an integer n >= 0 (empty
// list for n <= 0).
func builtinCountdown(args []value.Value) (value.Value, error) {
	if err := arity("countdown", args, 1, 1); err != nil {
		return nil, err
	}
	d, err := numArg("countdown", args, 0)
	if err != nil {
		return nil, err
	}
	n, merr := d.ToMachineInt()
	if merr != nil || d.Scale() != 0 {
		return nil, rillerr.New(rillerr.TypeMismatch, "countdown: argument must be an integer, got %s", d.String())
	}
	elems := make([]value.Value, 0)
	for i := n; i > 0; i-- {
		elems = append(elems, value.Number{D: decimal.New(i)})
	}
	return &value.List{Elems: elems}, nil
}

// builtinException wraps a single argument into an Exception value, the
// constructor `raise Exception("boom")` uses in spec scenario S3.
func builtinException(args []value.Value) (value.Value, error) {
	if err := arity("Exception", args, 1, 1); err != nil {
		return nil, err
	}
	return value.Exception{Payload: args[0]}, nil
}

// builtinNew instantiates a Class, per spec scenario S4, delegating to
// eval.NewInstance so the field-default/zero-value logic lives in one
// place.
func builtinNew(args []value.Value) (value.Value, error) {
	if err := arity("new", args, 1, 1); err != nil {
		return nil, err
	}
	cls, ok := args[0].(*value.Class)
	if !ok {
		return nil, rillerr.New(rillerr.TypeMismatch, "new: argument must be a class, got %s", args[0].Type())
	}
	inst, err := eval.NewInstance(cls)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// nativeAsk builds the ask(prompt) native: prints prompt (if non-empty)
// to stdout with no trailing newline, then reads one line from stdin.
func nativeAsk(name string, reader *bufio.Reader, stdout io.Writer) *value.Native {
	return &value.Native{Name: name, Fn: func(args []value.Value) (value.Value, error) {
		if err := arity(name, args, 0, 1); err != nil {
			return nil, err
		}
		if len(args) == 1 && stdout != nil {
			_, _ = io.WriteString(stdout, args[0].String())
		}
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return value.String{S: ""}, nil
		}
		for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
			line = line[:len(line)-1]
		}
		return value.String{S: line}, nil
	}}
}
