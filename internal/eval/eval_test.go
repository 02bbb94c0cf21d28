package eval_test

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/internal/builtin"
	"github.com/rill-lang/rill/internal/decimal"
	"github.com/rill-lang/rill/internal/eval"
	"github.com/rill-lang/rill/internal/parse"
)

// capture is the Printer the tests use to observe say() output; it is the
// same minimal shape internal/repl's outPrinter adapts a writer to.
type capture struct{ lines []string }

func (c *capture) Println(s string) { c.lines = append(c.lines, s) }

// newInterpreter wires an Interpreter with the native library installed,
// the way both internal/repl and cmd/rill do, against a fresh capture.
func newInterpreter() (*eval.Interpreter, *capture) {
	out := &capture{}
	it := eval.NewInterpreter(out)
	builtin.Install(it.Global, strings.NewReader(""), io.Discard)
	return it, out
}

// runSource parses and runs src against a fresh interpreter, returning the
// printed lines and Run's diagnostic (empty on a clean run).
func runSource(t *testing.T, src string) ([]string, string) {
	t.Helper()
	stmts, errs := parse.NewParser("<test>", src).Parse()
	require.Empty(t, errs, "unexpected parse errors")
	it, out := newInterpreter()
	msg := it.Run(stmts)
	return out.lines, msg
}

// TestClosureCapturesReassignedOuterVariable is testable property 6: a
// function defined inside another captures that call's environment, and
// a later reassignment of a variable in it is visible through the closure.
func TestClosureCapturesReassignedOuterVariable(t *testing.T) {
	lines, msg := runSource(t, `
def makeCounter() do
  dec x = 10
  def get() do
    return x
  enddef
  x = 20
  return get()
enddef
say(makeCounter())
`)
	require.Empty(t, msg)
	require.Equal(t, []string{"20"}, lines)
}

// TestFinallyAlwaysRuns is testable property 7: finally runs under normal
// fall-through, return, an uncaught raise, and a Timeout.
func TestFinallyAlwaysRuns(t *testing.T) {
	t.Run("normal", func(t *testing.T) {
		lines, msg := runSource(t, `
try
  dec y = 1
catch e
  say("unreached")
finally
  say("finally-normal")
endtry
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"finally-normal"}, lines)
	})

	t.Run("return", func(t *testing.T) {
		lines, msg := runSource(t, `
def f() do
  try
    return 1
  catch e
    say("unreached")
  finally
    say("finally-return")
  endtry
enddef
say(f())
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"finally-return", "1"}, lines)
	})

	t.Run("uncaught raise", func(t *testing.T) {
		lines, msg := runSource(t, `
try
  raise Exception("boom")
catch e
  raise e
finally
  say("finally-raise")
endtry
`)
		assert.Equal(t, []string{"finally-raise"}, lines)
		assert.Contains(t, msg, "boom")
	})

	t.Run("timeout", func(t *testing.T) {
		stmts, errs := parse.NewParser("<test>", `
try
  while 1 do
  endwhile
catch e
  say("unreached")
finally
  say("finally-timeout")
endtry
`).Parse()
		require.Empty(t, errs)
		it, out := newInterpreter()
		it.ArmDeadline(10 * time.Millisecond)
		msg := it.Run(stmts)
		assert.Equal(t, []string{"finally-timeout"}, out.lines)
		assert.Equal(t, "Timeout: deadline exceeded", msg)
	})
}

// TestDeadlineHaltsInfiniteLoop is testable property 8: an armed deadline
// halts an infinite while within a small multiple of the limit.
func TestDeadlineHaltsInfiniteLoop(t *testing.T) {
	stmts, errs := parse.NewParser("<test>", `
while 1 do
endwhile
`).Parse()
	require.Empty(t, errs)
	it, _ := newInterpreter()
	it.ArmDeadline(10 * time.Millisecond)

	start := time.Now()
	msg := it.Run(stmts)
	elapsed := time.Since(start)

	assert.Equal(t, "Timeout: deadline exceeded", msg)
	assert.Less(t, elapsed, 500*time.Millisecond, "deadline must halt the loop promptly, not hang")
}

// TestFieldBeforeMethodDispatch is testable property 9: field access wins
// over a same-named method, and a field mutated through a method is
// visible through the same instance afterward.
func TestFieldBeforeMethodDispatch(t *testing.T) {
	t.Run("field shadows method of the same name", func(t *testing.T) {
		lines, msg := runSource(t, `
ins Foo(dec bar = 1) contains
  def bar() do
    return 99
  enddef
endins
dec f = new(Foo)
say(f.bar)
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"1"}, lines)
	})

	t.Run("field mutation through a method is visible afterward", func(t *testing.T) {
		lines, msg := runSource(t, `
ins Point(dec x = 0) contains
  def setX(dec v) do
    this.x = v
    return nul
  enddef
  def getX() do
    return this.x
  enddef
endins
dec p = new(Point)
p.setX(5)
say(p.getX())
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"5"}, lines)
	})
}

// TestArityDefaultsAndTypeMatching is testable property 10: a function
// with one required and one defaulted parameter accepts 1 or 2 arguments,
// rejects 0 or 3 with ArityError, rejects a mismatched parameter type
// with TypeMismatch, and `any` accepts every type.
func TestArityDefaultsAndTypeMatching(t *testing.T) {
	t.Run("1 or 2 arguments", func(t *testing.T) {
		lines, msg := runSource(t, `
def f(dec a, dec b = 2) do
  return a + b
enddef
say(f(1))
say(f(1, 5))
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"3", "6"}, lines)
	})

	t.Run("too few arguments is an ArityError", func(t *testing.T) {
		lines, msg := runSource(t, `
def f(dec a, dec b = 2) do
  return a + b
enddef
try
  f()
catch e
  say(e)
endtry
`)
		require.Empty(t, msg)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "expects 1 argument to 2 arguments, got 0")
	})

	t.Run("too many arguments is an ArityError", func(t *testing.T) {
		lines, msg := runSource(t, `
def f(dec a, dec b = 2) do
  return a + b
enddef
try
  f(1, 2, 3)
catch e
  say(e)
endtry
`)
		require.Empty(t, msg)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "expects 1 argument to 2 arguments, got 3")
	})

	t.Run("mismatched parameter type is a TypeMismatch", func(t *testing.T) {
		lines, msg := runSource(t, `
def f(dec a, dec b = 2) do
  return a + b
enddef
try
  f("x")
catch e
  say(e)
endtry
`)
		require.Empty(t, msg)
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "expected dec, got str")
	})

	t.Run("any accepts every type", func(t *testing.T) {
		lines, msg := runSource(t, `
def g(any a) do
  return a
enddef
say(g(1))
say(g("s"))
say(g([1]))
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"1", "s", "[1]"}, lines)
	})
}

// TestEndToEndScenarios drives each literal scenario from testable
// properties S1-S6 end to end: parse, evaluate, and compare printed
// output against the scenario's expected stdout.
func TestEndToEndScenarios(t *testing.T) {
	t.Run("S1", func(t *testing.T) {
		lines, msg := runSource(t, `
dec x = 2
dec y = 3
say(x^y+1)
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"9"}, lines)
	})

	t.Run("S2", func(t *testing.T) {
		lines, msg := runSource(t, `
list xs = [3,1,2]
say(sort(xs))
say(setify([1,1,2,3,2]))
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"[1, 2, 3]", "[1, 2, 3]"}, lines)
	})

	t.Run("S3", func(t *testing.T) {
		lines, msg := runSource(t, `
try
  raise Exception("boom")
catch e
  say(e)
endtry
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"<Exception: boom>"}, lines)
	})

	t.Run("S4", func(t *testing.T) {
		lines, msg := runSource(t, `
ins Point(dec x = 0, dec y = 0) contains
  def mag() do
    return (x*x + y*y)
  enddef
endins
dec p = new(Point)
p.x = 3
p.y = 4
say(p.mag())
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"25"}, lines)
	})

	t.Run("S5", func(t *testing.T) {
		lines, msg := runSource(t, `say(rt(2))`)
		require.Empty(t, msg)
		require.Len(t, lines, 1)

		v, err := decimal.Parse(lines[0])
		require.NoError(t, err)
		diff := v.Mul(v).Sub(decimal.New(2)).Abs()
		epsilon, err := decimal.Parse("0." + strings.Repeat("0", 44) + "1") // 10^-45
		require.NoError(t, err)
		assert.Equal(t, -1, diff.Cmp(epsilon), "rt(2)^2 must be within 10^-45 of 2, got diff %s", diff.String())
	})

	t.Run("S6", func(t *testing.T) {
		lines, msg := runSource(t, `
dec a = 1
dec b = 2
swap(a,b)
say(a)
say(b)
`)
		require.Empty(t, msg)
		assert.Equal(t, []string{"2", "1"}, lines)
	})
}
