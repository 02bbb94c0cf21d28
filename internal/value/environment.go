package value

import "github.com/rill-lang/rill/internal/rillerr"

// Environment is a lexical-scope frame: a name→value mapping plus an
// optional parent, grounded on the teacher's exec/context.go Context
// (Stack/Globals/Define/Errorf), generalized from ivy's single global
// symbol table to Rill's nested block/function/method scopes.
type Environment struct {
	vars   map[string]Value
	parent *Environment
}

// NewEnvironment creates a root environment with no parent (the globals).
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]Value)}
}

// Child creates a new frame whose parent is e, used on function/method
// entry and block entry for if/while/await/try/catch/finally.
func (e *Environment) Child() *Environment {
	return &Environment{vars: make(map[string]Value), parent: e}
}

// Define unconditionally binds name in this frame, shadowing any outer
// binding of the same name.
func (e *Environment) Define(name string, v Value) {
	e.vars[name] = v
}

// Assign updates the nearest frame (starting at e) that already binds
// name, failing with UndefinedName if none does.
func (e *Environment) Assign(name string, v Value) error {
	for frame := e; frame != nil; frame = frame.parent {
		if _, ok := frame.vars[name]; ok {
			frame.vars[name] = v
			return nil
		}
	}
	return rillerr.New(rillerr.UndefinedName, "undefined name: %s", name)
}

// Get resolves name along the chain starting at e.
func (e *Environment) Get(name string) (Value, error) {
	for frame := e; frame != nil; frame = frame.parent {
		if v, ok := frame.vars[name]; ok {
			return v, nil
		}
	}
	return nil, rillerr.New(rillerr.UndefinedName, "undefined name: %s", name)
}

// HasOwn looks up name in this frame only, without walking to the parent.
// Used for instance field lookup, which must not fall through to
// enclosing/global scope.
func (e *Environment) HasOwn(name string) (Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// GetType returns a tag from the closed set
// {dec, str, bin, list, exception, class, instance, function, unknown}.
func (e *Environment) GetType(name string) string {
	v, err := e.Get(name)
	if err != nil {
		return "unknown"
	}
	switch v.(type) {
	case Number:
		return "dec"
	case String:
		return "str"
	case Binary:
		return "bin"
	case *List:
		return "list"
	case Exception:
		return "exception"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	case *Function, *BoundMethod, *Native:
		return "function"
	default:
		return "unknown"
	}
}
