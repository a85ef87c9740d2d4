// Package token defines the tokens produced by the lexer.
package token

import (
	"fmt"
	"mini-lisp/internal/span"
)

// Kind records how a token was produced. The parser still classifies WORD
// text into integers and symbols.
type Kind int

const (
	EOF Kind = iota

	LPAREN   // (
	RPAREN   // )
	QUOTE    // ' shorthand, lexeme "quote"
	OPERATOR // + - * /
	WORD     // identifiers and integer literals
)

var kindNames = map[Kind]string{
	EOF:      "EOF",
	LPAREN:   "(",
	RPAREN:   ")",
	QUOTE:    "QUOTE",
	OPERATOR: "OPERATOR",
	WORD:     "WORD",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// QuoteLexeme is the text stored for the ' shorthand.
const QuoteLexeme = "quote"

// IsOperatorChar reports whether ch is one of the four arithmetic operators.
func IsOperatorChar(ch byte) bool {
	return ch == '+' || ch == '-' || ch == '*' || ch == '/'
}

// Token is a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}

// Texts returns the lexemes of toks, without the trailing EOF.
func Texts(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind == EOF {
			break
		}
		out = append(out, t.Lexeme)
	}
	return out
}
