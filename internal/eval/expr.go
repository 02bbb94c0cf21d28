package eval

import (
	"fmt"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/rillerr"
	"github.com/rill-lang/rill/internal/value"
)

// evalExpr evaluates an expression node, returning a control signal
// instead of a value when evaluation triggers a raise (from a failed
// operation or a called function) or a timeout. The deadline is checked
// on every expression, so a long argument chain can't stall past it.
func (it *Interpreter) evalExpr(env *value.Environment, expr ast.Expr) (value.Value, Ctrl) {
	if it.deadlineExceeded() {
		return nil, Ctrl{Kind: CtrlTimeout}
	}
	it.Log.Debug("eval", "expr", "type", fmt.Sprintf("%T", expr))
	switch e := expr.(type) {
	case *ast.NumberLit:
		return value.Number{D: e.Value}, none()
	case *ast.StringLit:
		return value.String{S: e.Value}, none()
	case *ast.HexLit:
		v, err := value.EvalLiteral(e)
		if err != nil {
			return nil, raiseErr(err)
		}
		return v, none()
	case *ast.NullLit:
		return value.Null{}, none()
	case *ast.EmptyListLit:
		return &value.List{}, none()
	case *ast.ListLit:
		elems := make([]value.Value, len(e.Elements))
		for i, el := range e.Elements {
			v, ctrl := it.evalExpr(env, el)
			if ctrl.Kind != CtrlNone {
				return nil, ctrl
			}
			elems[i] = v
		}
		return &value.List{Elems: elems}, none()
	case *ast.Identifier:
		v, err := env.Get(e.Name)
		if err != nil {
			return nil, raiseErr(err.(*rillerr.Error).WithLine(e.Line()))
		}
		return v, none()
	case *ast.Unary:
		return it.evalUnary(env, e)
	case *ast.Binary:
		return it.evalBinary(env, e)
	case *ast.Assign:
		return it.evalAssign(env, e)
	case *ast.Subscript:
		return it.evalSubscript(env, e)
	case *ast.Member:
		return it.evalMember(env, e)
	case *ast.Call:
		return it.evalCall(env, e)
	}
	return nil, raiseErr(rillerr.New(rillerr.RuntimeErrorKind, "unhandled expression %T", expr).WithLine(expr.Line()))
}

func (it *Interpreter) evalUnary(env *value.Environment, e *ast.Unary) (value.Value, Ctrl) {
	v, ctrl := it.evalExpr(env, e.Right)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	n, ok := v.(value.Number)
	if !ok {
		return nil, raiseErr(rillerr.New(rillerr.TypeMismatch, "unary - is not defined for %s", v.Type()).WithLine(e.Line()))
	}
	return value.Number{D: n.D.Negate()}, none()
}

func (it *Interpreter) evalBinary(env *value.Environment, e *ast.Binary) (value.Value, Ctrl) {
	l, ctrl := it.evalExpr(env, e.Left)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	r, ctrl := it.evalExpr(env, e.Right)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	line := e.Line()
	var (
		result value.Value
		err    error
	)
	switch e.Op {
	case "+":
		result, err = value.Add(l, r, line)
	case "-":
		result, err = value.Sub(l, r, line)
	case "*":
		result, err = value.Mul(l, r, line)
	case "/":
		result, err = value.Div(l, r, line)
	case "^":
		result, err = value.Pow(l, r, line)
	case "==":
		result, err = value.Bool(value.Equal(l, r)), nil
	case "!=":
		result, err = value.Bool(!value.Equal(l, r)), nil
	case "<":
		var lt bool
		lt, err = value.Less(l, r, line)
		result = value.Bool(lt)
	case "<=":
		var c int
		c, err = value.Compare(l, r, line)
		result = value.Bool(c <= 0)
	case ">":
		var c int
		c, err = value.Compare(l, r, line)
		result = value.Bool(c > 0)
	case ">=":
		var c int
		c, err = value.Compare(l, r, line)
		result = value.Bool(c >= 0)
	default:
		err = rillerr.New(rillerr.RuntimeErrorKind, "unknown operator %q", e.Op).WithLine(line)
	}
	if err != nil {
		return nil, raiseErr(err)
	}
	return result, none()
}

func (it *Interpreter) evalAssign(env *value.Environment, e *ast.Assign) (value.Value, Ctrl) {
	v, ctrl := it.evalExpr(env, e.Value)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	switch target := e.Target.(type) {
	case *ast.Identifier:
		if err := env.Assign(target.Name, v); err != nil {
			return nil, raiseErr(err.(*rillerr.Error).WithLine(e.Line()))
		}
		return v, none()
	case *ast.Subscript:
		list, lctrl := it.evalListTarget(env, target.List)
		if lctrl.Kind != CtrlNone {
			return nil, lctrl
		}
		idx, ictrl := it.evalExpr(env, target.Index)
		if ictrl.Kind != CtrlNone {
			return nil, ictrl
		}
		if err := value.SetIndex(list, idx, v, e.Line()); err != nil {
			return nil, raiseErr(err)
		}
		return v, none()
	case *ast.Member:
		obj, octrl := it.evalExpr(env, target.Object)
		if octrl.Kind != CtrlNone {
			return nil, octrl
		}
		inst, ok := obj.(*value.Instance)
		if !ok {
			return nil, raiseErr(rillerr.New(rillerr.TypeMismatch, "%s has no fields", obj.Type()).WithLine(e.Line()))
		}
		if err := it.setField(inst, target.Name, v, e.Line()); err != nil {
			return nil, raiseErr(err)
		}
		return v, none()
	}
	return nil, raiseErr(rillerr.New(rillerr.RuntimeErrorKind, "invalid assignment target").WithLine(e.Line()))
}

func (it *Interpreter) evalListTarget(env *value.Environment, expr ast.Expr) (*value.List, Ctrl) {
	v, ctrl := it.evalExpr(env, expr)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	l, ok := v.(*value.List)
	if !ok {
		return nil, raiseErr(rillerr.New(rillerr.TypeMismatch, "%s is not a list", v.Type()).WithLine(expr.Line()))
	}
	return l, none()
}

func (it *Interpreter) evalSubscript(env *value.Environment, e *ast.Subscript) (value.Value, Ctrl) {
	list, ctrl := it.evalListTarget(env, e.List)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	idx, ictrl := it.evalExpr(env, e.Index)
	if ictrl.Kind != CtrlNone {
		return nil, ictrl
	}
	v, err := value.Index(list, idx, e.Line())
	if err != nil {
		return nil, raiseErr(err)
	}
	return v, none()
}

func (it *Interpreter) evalMember(env *value.Environment, e *ast.Member) (value.Value, Ctrl) {
	obj, ctrl := it.evalExpr(env, e.Object)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	inst, ok := obj.(*value.Instance)
	if !ok {
		return nil, raiseErr(rillerr.New(rillerr.TypeMismatch, "%s has no members", obj.Type()).WithLine(e.Line()))
	}
	v, err := it.getField(inst, e.Name, e.Line())
	if err != nil {
		return nil, raiseErr(err)
	}
	return v, none()
}
