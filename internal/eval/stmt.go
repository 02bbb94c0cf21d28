package eval

import (
	"fmt"
	"time"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/rillerr"
	"github.com/rill-lang/rill/internal/value"
)

const awaitPollInterval = 20 * time.Millisecond

// execBlock runs a statement list in order, short-circuiting on the first
// non-None control signal.
func (it *Interpreter) execBlock(env *value.Environment, stmts []ast.Stmt) Ctrl {
	for _, s := range stmts {
		ctrl := it.execStmt(env, s)
		if ctrl.Kind != CtrlNone {
			return ctrl
		}
	}
	return none()
}

func (it *Interpreter) execStmt(env *value.Environment, stmt ast.Stmt) Ctrl {
	if it.deadlineExceeded() {
		return Ctrl{Kind: CtrlTimeout}
	}
	it.Log.Debug("eval", "stmt", "type", fmt.Sprintf("%T", stmt), "line", stmt.Line())
	switch s := stmt.(type) {
	case *ast.VarDecl:
		return it.execVarDecl(env, s)
	case *ast.ExprStmt:
		_, ctrl := it.evalExpr(env, s.X)
		return ctrl
	case *ast.If:
		return it.execIf(env, s)
	case *ast.While:
		return it.execWhile(env, s)
	case *ast.Await:
		return it.execAwait(env, s)
	case *ast.Try:
		return it.execTry(env, s)
	case *ast.Raise:
		v, ctrl := it.evalExpr(env, s.Value)
		if ctrl.Kind != CtrlNone {
			return ctrl
		}
		return raiseValue(v)
	case *ast.FuncDef:
		fn := &value.Function{Name: s.Name, Params: s.Params, Body: s.Body, Env: env}
		env.Define(s.Name, fn)
		return none()
	case *ast.ClassDef:
		return it.execClassDef(env, s)
	case *ast.Say:
		v, ctrl := it.evalExpr(env, s.Value)
		if ctrl.Kind != CtrlNone {
			return ctrl
		}
		if it.Out != nil {
			it.Out.Println(v.String())
		}
		return none()
	case *ast.Return:
		if s.Value == nil {
			return Ctrl{Kind: CtrlReturn, Value: value.Null{}}
		}
		v, ctrl := it.evalExpr(env, s.Value)
		if ctrl.Kind != CtrlNone {
			return ctrl
		}
		return Ctrl{Kind: CtrlReturn, Value: v}
	}
	return raiseErr(rillerr.New(rillerr.RuntimeErrorKind, "unhandled statement %T", stmt).WithLine(stmt.Line()))
}

func (it *Interpreter) execVarDecl(env *value.Environment, s *ast.VarDecl) Ctrl {
	var v value.Value = value.Null{}
	if s.Value != nil {
		var ctrl Ctrl
		v, ctrl = it.evalExpr(env, s.Value)
		if ctrl.Kind != CtrlNone {
			return ctrl
		}
	}
	coerced, err := Coerce(s.Type, v, s.Line())
	if err != nil {
		return raiseErr(err)
	}
	env.Define(s.Name, coerced)
	return none()
}

func (it *Interpreter) execIf(env *value.Environment, s *ast.If) Ctrl {
	cond, ctrl := it.evalExpr(env, s.Cond)
	if ctrl.Kind != CtrlNone {
		return ctrl
	}
	if cond.Truthy() {
		return it.execBlock(env.Child(), s.Then)
	}
	if s.Else != nil {
		return it.execBlock(env.Child(), s.Else)
	}
	return none()
}

// execWhile runs the do-block until the condition is falsy, then always
// runs finally — except when the loop body (or condition) exits via an
// uncaught raise, per spec section 4.F.
func (it *Interpreter) execWhile(env *value.Environment, s *ast.While) Ctrl {
	var exitCtrl Ctrl
	for {
		if it.deadlineExceeded() {
			exitCtrl = Ctrl{Kind: CtrlTimeout}
			break
		}
		cond, ctrl := it.evalExpr(env, s.Cond)
		if ctrl.Kind == CtrlRaise {
			return ctrl // no finally on an uncaught exception
		}
		if ctrl.Kind != CtrlNone {
			exitCtrl = ctrl
			break
		}
		if !cond.Truthy() {
			exitCtrl = none()
			break
		}
		bodyCtrl := it.execBlock(env.Child(), s.Body)
		if bodyCtrl.Kind == CtrlRaise {
			return bodyCtrl
		}
		if bodyCtrl.Kind != CtrlNone {
			exitCtrl = bodyCtrl
			break
		}
	}
	if s.Finally != nil {
		saved := it.Deadline
		if exitCtrl.Kind == CtrlTimeout {
			it.Deadline = time.Time{} // let finally run past the expired deadline
		}
		finallyCtrl := it.execBlock(env.Child(), s.Finally)
		it.Deadline = saved
		if finallyCtrl.Kind != CtrlNone {
			return finallyCtrl
		}
	}
	return exitCtrl
}

// execAwait polls Cond every awaitPollInterval until truthy, then runs
// Body once in a fresh child environment, per spec section 4.F/9.
func (it *Interpreter) execAwait(env *value.Environment, s *ast.Await) Ctrl {
	for {
		if it.deadlineExceeded() {
			return Ctrl{Kind: CtrlTimeout}
		}
		cond, ctrl := it.evalExpr(env, s.Cond)
		if ctrl.Kind != CtrlNone {
			return ctrl
		}
		if cond.Truthy() {
			break
		}
		time.Sleep(awaitPollInterval)
	}
	return it.execBlock(env.Child(), s.Body)
}

// execTry implements the state machine documented in spec section 4.F:
// body, then (if it raised) catch, then always finally; finally's own
// control flow overrides whatever try/catch produced.
func (it *Interpreter) execTry(env *value.Environment, s *ast.Try) Ctrl {
	bodyCtrl := it.execBlock(env.Child(), s.Body)
	resultCtrl := bodyCtrl
	if bodyCtrl.Kind == CtrlRaise {
		catchEnv := env.Child()
		catchEnv.Define(s.CatchName, bodyCtrl.Value)
		resultCtrl = it.execBlock(catchEnv, s.Catch)
	}
	if s.Finally != nil {
		saved := it.Deadline
		if resultCtrl.Kind == CtrlTimeout {
			it.Deadline = time.Time{} // let finally run past the expired deadline
		}
		finallyCtrl := it.execBlock(env.Child(), s.Finally)
		it.Deadline = saved
		if finallyCtrl.Kind != CtrlNone {
			return finallyCtrl
		}
	}
	return resultCtrl
}

func (it *Interpreter) execClassDef(env *value.Environment, s *ast.ClassDef) Ctrl {
	methods := make(map[string]*value.Function, len(s.Methods))
	cls := &value.Class{Name: s.Name, Fields: s.Fields, Env: env}
	for _, m := range s.Methods {
		methods[m.Name] = &value.Function{Name: m.Name, Params: m.Params, Body: m.Body, Env: env}
	}
	cls.Methods = methods
	env.Define(s.Name, cls)
	return none()
}
