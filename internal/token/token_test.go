package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindNames(t *testing.T) {
	for k := EOF; k <= WORD; k++ {
		assert.NotContains(t, k.String(), "Kind(", "kind %d has no name", int(k))
	}
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestZeroTokenIsEOF(t *testing.T) {
	var tok Token
	assert.Equal(t, EOF, tok.Kind)
}

func TestTexts(t *testing.T) {
	toks := []Token{
		{Kind: LPAREN, Lexeme: "("},
		{Kind: QUOTE, Lexeme: QuoteLexeme},
		{Kind: WORD, Lexeme: "x"},
		{Kind: RPAREN, Lexeme: ")"},
		{Kind: EOF},
	}
	assert.Equal(t, []string{"(", "quote", "x", ")"}, Texts(toks))
	assert.Empty(t, Texts([]Token{{Kind: EOF}}))
}
