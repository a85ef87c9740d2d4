package runtime

import (
	"mini-lisp/internal/ast"
	"sort"
)

// Function is a user-defined function created by defun.
type Function struct {
	Name   string
	Params []string
	Body   []ast.Expr
}

func (f *Function) String() string { return "<function " + f.Name + ">" }

// Environment is one scope frame. Variables and functions live in separate
// namespaces. Writes always go to the receiver's own frame; the parent is
// only read.
type Environment struct {
	vars   map[string]Value
	funcs  map[string]*Function
	parent *Environment
}

// NewEnvironment creates an empty frame with an optional parent scope.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		vars:   make(map[string]Value),
		funcs:  make(map[string]*Function),
		parent: parent,
	}
}

// NewChild creates an empty frame whose parent is e.
func (e *Environment) NewChild() *Environment {
	return NewEnvironment(e)
}

// Parent returns the enclosing frame, or nil for the root.
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Depth returns the number of frames from e to the root, counting e.
func (e *Environment) Depth() int {
	n := 0
	for env := e; env != nil; env = env.parent {
		n++
	}
	return n
}

// ---- variables ----

// SetVariable binds name in this frame, shadowing any parent binding.
func (e *Environment) SetVariable(name string, value Value) {
	e.vars[name] = value
}

// GetVariable looks up a variable by walking the scope chain.
func (e *Environment) GetVariable(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, exists := env.vars[name]; exists {
			return val, true
		}
	}
	return nil, false
}

// HasVariable reports whether name is bound anywhere in the chain.
func (e *Environment) HasVariable(name string) bool {
	_, ok := e.GetVariable(name)
	return ok
}

// ---- functions ----

// SetFunction binds name to fn in this frame.
func (e *Environment) SetFunction(name string, fn *Function) {
	e.funcs[name] = fn
}

// GetFunction looks up a function by walking the scope chain.
func (e *Environment) GetFunction(name string) (*Function, bool) {
	for env := e; env != nil; env = env.parent {
		if fn, exists := env.funcs[name]; exists {
			return fn, true
		}
	}
	return nil, false
}

// HasFunction reports whether name is bound to a function anywhere in the
// chain.
func (e *Environment) HasFunction(name string) bool {
	_, ok := e.GetFunction(name)
	return ok
}

// VariableNames returns the variables bound in this frame, sorted.
func (e *Environment) VariableNames() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FunctionNames returns the functions bound in this frame, sorted.
func (e *Environment) FunctionNames() []string {
	names := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
