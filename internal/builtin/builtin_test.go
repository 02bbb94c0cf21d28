package builtin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rill-lang/rill/internal/decimal"
	"github.com/rill-lang/rill/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(s string) value.Number {
	d, err := decimal.Parse(s)
	if err != nil {
		panic(err)
	}
	return value.Number{D: d}
}

func newEnv() *value.Environment {
	env := value.NewEnvironment()
	Install(env, strings.NewReader(""), &bytes.Buffer{})
	return env
}

func call(t *testing.T, env *value.Environment, name string, args ...value.Value) value.Value {
	t.Helper()
	v, err := env.Get(name)
	require.NoError(t, err)
	n := v.(*value.Native)
	out, err := n.Fn(args)
	require.NoError(t, err)
	return out
}

func TestAbs(t *testing.T) {
	env := newEnv()
	got := call(t, env, "abs", num("-5"))
	assert.Equal(t, "5", got.String())
}

func TestSortAndSetify(t *testing.T) {
	env := newEnv()
	xs := &value.List{Elems: []value.Value{num("3"), num("1"), num("2")}}
	sorted := call(t, env, "sort", xs)
	assert.Equal(t, "[3, 1, 2]", xs.String(), "sort must not mutate its argument")
	assert.Equal(t, "[1, 2, 3]", sorted.String())

	dup := &value.List{Elems: []value.Value{num("1"), num("1"), num("2"), num("3"), num("2")}}
	set := call(t, env, "setify", dup)
	assert.Equal(t, "[1, 2, 3]", set.String())
}

func TestRootSquare(t *testing.T) {
	env := newEnv()
	got := call(t, env, "rt", num("2")).(value.Number)
	sq := got.D.Mul(got.D)
	diff := sq.Sub(decimal.New(2)).Abs()
	tol, err := decimal.Parse("0.0000000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.True(t, diff.Cmp(tol) < 0, "rt(2)^2 should be within tolerance of 2, got %s", sq.String())
}

func TestMinMax(t *testing.T) {
	env := newEnv()
	assert.Equal(t, "1", call(t, env, "min", num("1"), num("2")).String())
	assert.Equal(t, "2", call(t, env, "max", num("1"), num("2")).String())
}

func TestException(t *testing.T) {
	env := newEnv()
	got := call(t, env, "Exception", value.String{S: "boom"})
	assert.Equal(t, "<Exception: boom>", got.String())
}

func TestCountdown(t *testing.T) {
	env := newEnv()
	got := call(t, env, "countdown", num("3"))
	assert.Equal(t, "[3, 2, 1]", got.String())
}

func TestHashIsDeterministicAndSizedEight(t *testing.T) {
	env := newEnv()
	a := call(t, env, "hash", value.String{S: "x"}).(value.Binary)
	b := call(t, env, "hash", value.String{S: "x"}).(value.Binary)
	assert.Equal(t, a.Bytes, b.Bytes)
	assert.Len(t, a.Bytes, 8)
}

func TestAskReadsLineAndEchoesPrompt(t *testing.T) {
	env := value.NewEnvironment()
	var out bytes.Buffer
	Install(env, strings.NewReader("hello\n"), &out)
	got := call(t, env, "ask", value.String{S: "name? "})
	assert.Equal(t, "hello", got.String())
	assert.Equal(t, "name? ", out.String())
}
