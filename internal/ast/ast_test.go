package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormString(t *testing.T) {
	f := NewForm(NewSymbol("+"), NewInt(1), NewForm(NewSymbol("*"), NewInt(2), NewInt(-3)))
	assert.Equal(t, "(+ 1 (* 2 -3))", f.String())
	assert.Equal(t, "()", NewForm().String())
}

func TestFormHeadAndArgs(t *testing.T) {
	f := NewForm(NewSymbol("setq"), NewSymbol("x"), NewInt(1))
	head, ok := f.Head()
	require.True(t, ok)
	assert.Equal(t, "setq", head)
	assert.Len(t, f.Args(), 2)

	_, ok = NewForm(NewInt(1), NewInt(2)).Head()
	assert.False(t, ok)
	_, ok = NewForm().Head()
	assert.False(t, ok)
	assert.Nil(t, NewForm().Args())
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := NewForm(NewSymbol("a"), NewInt(1))
	b := NewForm(NewSymbol("a"), NewInt(1))
	b.Span.End.Offset = 5
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, NewForm(NewSymbol("a"), NewInt(2))))
	assert.False(t, Equal(a, NewForm(NewSymbol("a"))))
	assert.False(t, Equal(NewInt(1), NewSymbol("1")))
}

func TestIsAtom(t *testing.T) {
	assert.True(t, IsAtom(NewInt(1)))
	assert.True(t, IsAtom(NewSymbol("x")))
	assert.False(t, IsAtom(NewForm()))
}

func TestNodeToMapJSON(t *testing.T) {
	f := NewForm(NewSymbol("quote"), NewInt(7))
	data, err := json.Marshal(NodeToMap(f))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "Form", got["kind"])
	elems := got["elems"].([]interface{})
	require.Len(t, elems, 2)
	assert.Equal(t, "quote", elems[0].(map[string]interface{})["name"])
	assert.Equal(t, float64(7), elems[1].(map[string]interface{})["value"])
}
