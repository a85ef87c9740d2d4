// Package runtime implements the environment and evaluator for mini-lisp.
package runtime

import (
	"mini-lisp/internal/ast"
	"strconv"
	"strings"
)

// Value is a runtime value. The set of implementations is closed: IntVal,
// BoolVal, SymbolVal, *ListVal and NilVal.
type Value interface {
	TypeName() string
	String() string
	value()
}

// IntVal represents an integer value.
type IntVal int64

func (v IntVal) TypeName() string { return "int" }
func (v IntVal) String() string   { return strconv.FormatInt(int64(v), 10) }
func (IntVal) value()             {}

// BoolVal represents a boolean value.
type BoolVal bool

func (v BoolVal) TypeName() string { return "bool" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }
func (BoolVal) value()             {}

// SymbolVal is a symbol used as data, either quoted or unbound.
type SymbolVal string

func (v SymbolVal) TypeName() string { return "symbol" }
func (v SymbolVal) String() string   { return string(v) }
func (SymbolVal) value()             {}

// NilVal is the empty result of an empty form or an unmatched cond.
type NilVal struct{}

func (v NilVal) TypeName() string { return "nil" }
func (v NilVal) String() string   { return "nil" }
func (NilVal) value()             {}

// ListVal is an ordered sequence of values.
type ListVal struct {
	Elements []Value
}

func (v *ListVal) TypeName() string { return "list" }
func (v *ListVal) String() string {
	parts := make([]string, len(v.Elements))
	for i, elem := range v.Elements {
		parts[i] = elem.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}
func (*ListVal) value() {}

// NewList returns a list holding elems.
func NewList(elems ...Value) *ListVal {
	if elems == nil {
		elems = []Value{}
	}
	return &ListVal{Elements: elems}
}

// ---- Truthiness ----

// IsTruthy reports whether v selects a cond clause: everything except false
// and nil.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case NilVal:
		return false
	case BoolVal:
		return bool(val)
	default:
		return true
	}
}

// ---- Helpers ----

// IsAtom reports whether v is not a list.
func IsAtom(v Value) bool {
	_, ok := v.(*ListVal)
	return !ok
}

// ValuesEqual reports structural equality.
func ValuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case IntVal:
		y, ok := b.(IntVal)
		return ok && x == y
	case BoolVal:
		y, ok := b.(BoolVal)
		return ok && x == y
	case SymbolVal:
		y, ok := b.(SymbolVal)
		return ok && x == y
	case NilVal:
		_, ok := b.(NilVal)
		return ok
	case *ListVal:
		y, ok := b.(*ListVal)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !ValuesEqual(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromExpr converts an unevaluated expression into data.
func FromExpr(expr ast.Expr) Value {
	switch e := expr.(type) {
	case *ast.Int:
		return IntVal(e.Value)
	case *ast.Symbol:
		return SymbolVal(e.Name)
	case *ast.Form:
		elems := make([]Value, len(e.Elems))
		for i, sub := range e.Elems {
			elems[i] = FromExpr(sub)
		}
		return NewList(elems...)
	default:
		return NilVal{}
	}
}
