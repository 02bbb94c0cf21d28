package value

import (
	"fmt"

	"github.com/rill-lang/rill/internal/ast"
)

// Function is a user-defined function or method: its parameter list, body
// AST, and the environment captured at definition time.
type Function struct {
	Name   string
	Params []ast.Param
	Body   []ast.Stmt
	Env    *Environment
}

func (f *Function) Type() string   { return "function" }
func (f *Function) String() string { return f.Repr() }
func (f *Function) Repr() string   { return fmt.Sprintf("<function %s>", f.Name) }
func (f *Function) Truthy() bool   { return true }
func (f *Function) Clone() Value   { return f } // shared handle, not deep-cloned

// BoundMethod binds `this` at member-access time, pairing an instance with
// one of its class's methods.
type BoundMethod struct {
	Instance *Instance
	Fn       *Function
}

func (b *BoundMethod) Type() string   { return "function" }
func (b *BoundMethod) String() string { return b.Repr() }
func (b *BoundMethod) Repr() string {
	return fmt.Sprintf("<bound method %s.%s>", b.Instance.Class.Name, b.Fn.Name)
}
func (b *BoundMethod) Truthy() bool { return true }
func (b *BoundMethod) Clone() Value { return b }

// Native wraps a Go-implemented library function.
type Native struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (n *Native) Type() string   { return "function" }
func (n *Native) String() string { return n.Repr() }
func (n *Native) Repr() string   { return fmt.Sprintf("<native %s>", n.Name) }
func (n *Native) Truthy() bool   { return true }
func (n *Native) Clone() Value   { return n }

// Class is (name, field list, method table, captured environment).
type Class struct {
	Name    string
	Fields  []ast.Param
	Methods map[string]*Function
	Env     *Environment
}

func (c *Class) Type() string   { return "class" }
func (c *Class) String() string { return c.Repr() }
func (c *Class) Repr() string   { return fmt.Sprintf("<class %s>", c.Name) }
func (c *Class) Truthy() bool   { return true }
func (c *Class) Clone() Value   { return c }

// Instance is owned 1-1 by its field Environment, per spec section 3.
type Instance struct {
	Class  *Class
	Fields *Environment
}

func (i *Instance) Type() string   { return "instance" }
func (i *Instance) String() string { return i.Repr() }
func (i *Instance) Repr() string   { return fmt.Sprintf("<instance of %s>", i.Class.Name) }
func (i *Instance) Truthy() bool   { return true }
func (i *Instance) Clone() Value   { return i } // owned by its environment, not deep-cloned
