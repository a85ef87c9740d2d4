// Package ast defines the expression tree produced by the parser.
package ast

import (
	"mini-lisp/internal/span"
	"strconv"
	"strings"
)

// Expr is implemented by the three expression variants: *Int, *Symbol and
// *Form. The set is closed.
type Expr interface {
	exprNode()
	GetSpan() span.Span
	String() string
}

// NodeBase provides the common Span field for all expressions.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) exprNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// Int is an integer atom.
type Int struct {
	NodeBase
	Value int64
}

func (e *Int) String() string { return strconv.FormatInt(e.Value, 10) }

// Symbol is a symbol atom.
type Symbol struct {
	NodeBase
	Name string
}

func (e *Symbol) String() string { return e.Name }

// Form is a parenthesized sequence of expressions. It may be empty.
type Form struct {
	NodeBase
	Elems []Expr
}

func (e *Form) String() string {
	parts := make([]string, len(e.Elems))
	for i, elem := range e.Elems {
		parts[i] = elem.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the first element's symbol name, if the form starts with a
// symbol.
func (e *Form) Head() (string, bool) {
	if len(e.Elems) == 0 {
		return "", false
	}
	sym, ok := e.Elems[0].(*Symbol)
	if !ok {
		return "", false
	}
	return sym.Name, true
}

// Args returns every element after the head.
func (e *Form) Args() []Expr {
	if len(e.Elems) == 0 {
		return nil
	}
	return e.Elems[1:]
}

// IsAtom reports whether e is not a form.
func IsAtom(e Expr) bool {
	_, ok := e.(*Form)
	return !ok
}

// ---- constructors, mostly for tests and quoting ----

// NewInt returns an integer atom with a zero span.
func NewInt(v int64) *Int { return &Int{Value: v} }

// NewSymbol returns a symbol atom with a zero span.
func NewSymbol(name string) *Symbol { return &Symbol{Name: name} }

// NewForm returns a form with a zero span.
func NewForm(elems ...Expr) *Form { return &Form{Elems: elems} }

// Equal reports whether a and b have the same structure, ignoring spans.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Int:
		y, ok := b.(*Int)
		return ok && x.Value == y.Value
	case *Symbol:
		y, ok := b.(*Symbol)
		return ok && x.Name == y.Name
	case *Form:
		y, ok := b.(*Form)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
