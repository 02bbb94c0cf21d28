package eval

import (
	"fmt"

	"github.com/rill-lang/rill/internal/ast"
	"github.com/rill-lang/rill/internal/rillerr"
	"github.com/rill-lang/rill/internal/value"
)

func (it *Interpreter) evalCall(env *value.Environment, e *ast.Call) (value.Value, Ctrl) {
	if id, ok := e.Callee.(*ast.Identifier); ok && id.Name == "swap" {
		return it.evalSwap(env, e)
	}

	callee, ctrl := it.evalExpr(env, e.Callee)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, actrl := it.evalExpr(env, a)
		if actrl.Kind != CtrlNone {
			return nil, actrl
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *value.Native:
		v, err := fn.Fn(args)
		if err != nil {
			return nil, wrapNativeErr(err, e.Line())
		}
		return v, none()
	case *value.Function:
		return it.callFunction(fn.Env.Child(), fn, args, e.Line())
	case *value.BoundMethod:
		target := fn.Instance.Fields.Child()
		target.Define("this", fn.Instance)
		return it.callFunction(target, fn.Fn, args, e.Line())
	default:
		return nil, raiseErr(rillerr.New(rillerr.TypeMismatch, "%s is not callable", callee.Type()).WithLine(e.Line()))
	}
}

func wrapNativeErr(err error, line int) Ctrl {
	if re, ok := err.(*rillerr.Error); ok {
		return raiseErr(re.WithLine(line))
	}
	return raiseErr(rillerr.New(rillerr.RuntimeErrorKind, "%v", err).WithLine(line))
}

// callFunction binds params into target (already parented appropriately
// by the caller), runs the body with a call-stack frame pushed, and
// translates a CtrlReturn into a plain value per spec section 4.F.
func (it *Interpreter) callFunction(target *value.Environment, fn *value.Function, args []value.Value, line int) (value.Value, Ctrl) {
	ctrl := it.bindParams(target, fn.Params, args, fn.Name, line)
	if ctrl.Kind != CtrlNone {
		return nil, ctrl
	}
	it.Stack = append(it.Stack, Frame{Name: fn.Name, Line: line})
	bodyCtrl := it.execBlock(target, fn.Body)
	it.Stack = it.Stack[:len(it.Stack)-1]
	switch bodyCtrl.Kind {
	case CtrlReturn:
		return bodyCtrl.Value, none()
	case CtrlNone:
		return value.Null{}, none()
	default: // Raise or Timeout propagates
		return nil, bodyCtrl
	}
}

func (it *Interpreter) bindParams(target *value.Environment, params []ast.Param, args []value.Value, name string, line int) Ctrl {
	required := 0
	for _, p := range params {
		if p.Default == nil {
			required++
		}
	}
	if len(args) < required || len(args) > len(params) {
		return raiseErr(rillerr.New(rillerr.ArityError, "%s expects %s, got %d", name, arityDesc(required, len(params)), len(args)).WithLine(line))
	}
	for i, p := range params {
		var v value.Value
		if i < len(args) {
			v = args[i]
		} else {
			dv, err := value.EvalLiteral(p.Default)
			if err != nil {
				return raiseErr(err)
			}
			v = dv
		}
		if !valueMatchesType(v, p.Type) {
			return raiseErr(rillerr.New(rillerr.TypeMismatch, "parameter %s: expected %s, got %s", p.Name, p.Type, v.Type()).WithLine(line))
		}
		target.Define(p.Name, v)
	}
	return none()
}

func arityDesc(min, max int) string {
	if min == max {
		return pluralArgs(min)
	}
	return fmt.Sprintf("%s to %s", pluralArgs(min), pluralArgs(max))
}

func pluralArgs(n int) string {
	if n == 1 {
		return "1 argument"
	}
	return fmt.Sprintf("%d arguments", n)
}

func valueMatchesType(v value.Value, t ast.Type) bool {
	switch t {
	case ast.TypeDec:
		_, ok := v.(value.Number)
		return ok
	case ast.TypeStr:
		_, ok := v.(value.String)
		return ok
	case ast.TypeBin:
		_, ok := v.(value.Binary)
		return ok
	case ast.TypeList:
		_, ok := v.(*value.List)
		return ok
	default: // any
		return true
	}
}

// evalSwap implements the swap(a, b) special form (spec section 4.F):
// both arguments must be identifier nodes; each variable's current value
// is coerced into the other's declared type, falling back to an
// identity clone when coercion fails (spec section 9, ambiguity 3).
func (it *Interpreter) evalSwap(env *value.Environment, e *ast.Call) (value.Value, Ctrl) {
	if len(e.Args) != 2 {
		return nil, raiseErr(rillerr.New(rillerr.ArityError, "swap expects 2 arguments, got %d", len(e.Args)).WithLine(e.Line()))
	}
	idA, okA := e.Args[0].(*ast.Identifier)
	idB, okB := e.Args[1].(*ast.Identifier)
	if !okA || !okB {
		return nil, raiseErr(rillerr.New(rillerr.TypeMismatch, "swap arguments must be variables").WithLine(e.Line()))
	}
	va, err := env.Get(idA.Name)
	if err != nil {
		return nil, raiseErr(err)
	}
	vb, err := env.Get(idB.Name)
	if err != nil {
		return nil, raiseErr(err)
	}
	typeA := declTypeOf(va)
	typeB := declTypeOf(vb)
	newA, errA := Coerce(typeA, vb, e.Line())
	if errA != nil {
		newA = vb.Clone()
	}
	newB, errB := Coerce(typeB, va, e.Line())
	if errB != nil {
		newB = va.Clone()
	}
	_ = env.Assign(idA.Name, newA)
	_ = env.Assign(idB.Name, newB)
	return value.Null{}, none()
}

func declTypeOf(v value.Value) ast.Type {
	switch v.(type) {
	case value.Number:
		return ast.TypeDec
	case value.String:
		return ast.TypeStr
	case value.Binary:
		return ast.TypeBin
	case *value.List:
		return ast.TypeList
	default:
		return ast.TypeAny
	}
}

// getField implements `obj.name` read access: field first, then method
// (bound to a fresh BoundMethod), per spec section 4.F.
func (it *Interpreter) getField(inst *value.Instance, name string, line int) (value.Value, error) {
	if v, ok := inst.Fields.HasOwn(name); ok {
		return v, nil
	}
	if m, ok := inst.Class.Methods[name]; ok {
		return &value.BoundMethod{Instance: inst, Fn: m}, nil
	}
	return nil, rillerr.New(rillerr.UndefinedField, "%s has no field or method %q", inst.Class.Name, name).WithLine(line)
}

// setField implements `obj.name = v`: the field must be declared by the
// class and v must match its declared type.
func (it *Interpreter) setField(inst *value.Instance, name string, v value.Value, line int) error {
	for _, f := range inst.Class.Fields {
		if f.Name != name {
			continue
		}
		if !valueMatchesType(v, f.Type) {
			return rillerr.New(rillerr.TypeMismatch, "field %s: expected %s, got %s", name, f.Type, v.Type()).WithLine(line)
		}
		return inst.Fields.Assign(name, v)
	}
	return rillerr.New(rillerr.UndefinedField, "%s has no field %q", inst.Class.Name, name).WithLine(line)
}
