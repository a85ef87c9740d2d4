package runtime

import (
	"mini-lisp/internal/ast"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueStrings(t *testing.T) {
	assert.Equal(t, "-12", IntVal(-12).String())
	assert.Equal(t, "true", BoolVal(true).String())
	assert.Equal(t, "nil", NilVal{}.String())
	assert.Equal(t, "sym", SymbolVal("sym").String())
	assert.Equal(t, "(1 (a true) ())", NewList(IntVal(1), NewList(SymbolVal("a"), BoolVal(true)), NewList()).String())
}

func TestTruthiness(t *testing.T) {
	assert.False(t, IsTruthy(NilVal{}))
	assert.False(t, IsTruthy(BoolVal(false)))
	assert.False(t, IsTruthy(nil))
	assert.True(t, IsTruthy(BoolVal(true)))
	assert.True(t, IsTruthy(IntVal(0)))
	assert.True(t, IsTruthy(SymbolVal("x")))
	assert.True(t, IsTruthy(NewList()))
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, ValuesEqual(IntVal(1), IntVal(1)))
	assert.False(t, ValuesEqual(IntVal(1), SymbolVal("1")))
	assert.True(t, ValuesEqual(NilVal{}, NilVal{}))
	assert.False(t, ValuesEqual(NilVal{}, NewList()))
	assert.True(t, ValuesEqual(NewList(IntVal(1), NewList()), NewList(IntVal(1), NewList())))
	assert.False(t, ValuesEqual(NewList(IntVal(1)), NewList(IntVal(2))))
}

func TestFromExpr(t *testing.T) {
	expr := ast.NewForm(ast.NewSymbol("+"), ast.NewInt(1), ast.NewForm())
	v := FromExpr(expr)
	assert.Equal(t, "(+ 1 ())", v.String())
	assert.False(t, IsAtom(v))
	assert.True(t, IsAtom(FromExpr(ast.NewInt(3))))
}

func TestSpecialFormTable(t *testing.T) {
	for f := FormAdd; f <= FormDefun; f++ {
		got, ok := LookupSpecialForm(f.String())
		assert.True(t, ok, "%d", f)
		assert.Equal(t, f, got)
	}
	_, ok := LookupSpecialForm("square")
	assert.False(t, ok)
	assert.True(t, FormDiv.IsArithmetic())
	assert.False(t, FormLess.IsArithmetic())
	assert.True(t, FormGreaterEq.IsComparison())
	assert.False(t, FormSetq.IsComparison())
}
