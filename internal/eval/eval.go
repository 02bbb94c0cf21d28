// Package eval implements Rill's tree-walking evaluator (spec section
// 4.F), grounded on the teacher's exec/context.go (robpike.io/ivy): a
// single context struct carrying globals, a call stack, and debug state
// that is threaded explicitly through every walker call rather than held
// in package-level globals (spec section 9's "global singleton mutable
// state" design note).
package eval

import (
	"time"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/rillerr"
	"github.com/rill-lang/rill/internal/rlog"
	"github.com/rill-lang/rill/internal/value"
)

// Frame is one entry of the call stack, kept for post-mortem diagnostics.
type Frame struct {
	Name string
	Line int
}

// Interpreter holds everything the walker needs, replacing the source's
// process-wide DEBUG flag and global call stack with explicit fields.
type Interpreter struct {
	Global   *value.Environment
	Deadline time.Time // zero value means "no deadline armed"
	Stack    []Frame
	Out      Printer
	Log      *rlog.Logger // nil means no "eval" topic tracing
}

// Printer is the minimal sink the evaluator writes `say` output to; the
// REPL and one-shot runner both satisfy it with their configured writer.
type Printer interface {
	Println(s string)
}

// NewInterpreter builds an Interpreter with a fresh, empty global
// environment. Callers install the native standard library themselves
// via internal/builtin.Install(it.Global, ...) — eval cannot import
// builtin directly, since builtin's `new` native depends on eval.
func NewInterpreter(out Printer) *Interpreter {
	it := &Interpreter{Global: value.NewEnvironment(), Out: out}
	return it
}

// ArmDeadline sets a wall-clock budget, checked between statements and
// during await polling.
func (it *Interpreter) ArmDeadline(limit time.Duration) {
	if limit <= 0 {
		it.Deadline = time.Time{}
		return
	}
	it.Deadline = time.Now().Add(limit)
}

func (it *Interpreter) deadlineExceeded() bool {
	return !it.Deadline.IsZero() && !time.Now().Before(it.Deadline)
}

// CtrlKind distinguishes the non-local control-flow signals the walker
// can produce, per spec section 9's "control flow via signals" note.
type CtrlKind int

const (
	CtrlNone CtrlKind = iota
	CtrlReturn
	CtrlRaise
	CtrlTimeout
)

// Ctrl is returned alongside (or instead of) an ordinary value by every
// statement-execution method. CtrlNone means "fell through normally".
type Ctrl struct {
	Kind  CtrlKind
	Value value.Value // payload for Return and Raise
}

func none() Ctrl { return Ctrl{Kind: CtrlNone} }

func raiseValue(v value.Value) Ctrl { return Ctrl{Kind: CtrlRaise, Value: v} }

// raiseErr converts a host-level *rillerr.Error into a control signal:
// Timeout propagates specially (it is never caught by try), everything
// else becomes a catchable Exception, per spec section 4.F/7.
func raiseErr(err error) Ctrl {
	re, ok := err.(*rillerr.Error)
	if !ok {
		return raiseValue(value.NewException(err.Error()))
	}
	if re.Kind == rillerr.Timeout {
		return Ctrl{Kind: CtrlTimeout}
	}
	return raiseValue(value.NewException(re.Error()))
}

// Run executes a top-level statement list against the interpreter's
// global environment, returning a diagnostic string if an uncaught
// exception or timeout escaped (empty string on a clean run).
func (it *Interpreter) Run(stmts []ast.Stmt) string {
	ctrl := it.execBlock(it.Global, stmts)
	switch ctrl.Kind {
	case CtrlRaise:
		msg := uncaughtDiagnostic(ctrl.Value, it.Stack)
		it.Stack = nil
		return msg
	case CtrlTimeout:
		it.Stack = nil
		return "Timeout: deadline exceeded"
	}
	return ""
}

func uncaughtDiagnostic(payload value.Value, stack []Frame) string {
	msg := "uncaught exception: " + payload.String()
	for i := len(stack) - 1; i >= 0; i-- {
		msg += "\n\tat " + stack[i].Name
	}
	return msg
}
