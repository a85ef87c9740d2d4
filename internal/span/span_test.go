package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	a := Span{Start: Position{Offset: 0, Line: 1, Column: 1}, End: Position{Offset: 1, Line: 1, Column: 2}}
	b := Span{Start: Position{Offset: 6, Line: 1, Column: 7}, End: Position{Offset: 7, Line: 1, Column: 8}}

	j := Join(a, b)
	assert.Equal(t, 0, j.Start.Offset)
	assert.Equal(t, 7, j.End.Offset)
	assert.Equal(t, 7, j.Len())
	assert.Equal(t, j, Join(b, a))
	assert.Equal(t, "1:1..1:8", j.String())
}
