// Package lexer splits one line of source text into tokens.
package lexer

import (
	"mini-lisp/internal/span"
	"mini-lisp/internal/token"
)

// Option configures a Lexer.
type Option func(l *Lexer)

// WithLine sets the line number recorded in token spans. Defaults to 1.
func WithLine(line int) Option {
	return func(l *Lexer) {
		l.line = line
	}
}

// WithSkipLeadingWord makes the lexer drop the first whitespace-delimited
// word of the input before tokenizing the rest.
func WithSkipLeadingWord() Option {
	return func(l *Lexer) {
		l.skipFirst = true
	}
}

// Lexer tokenizes a single line of source.
type Lexer struct {
	source    string
	pos       int // current read position in source
	line      int
	skipFirst bool
}

// New creates a new Lexer for the given source line.
func New(source string, opts ...Option) *Lexer {
	l := &Lexer{source: source, line: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize scans the whole line and returns its tokens followed by EOF.
// It never fails; unbalanced parentheses are reported by the parser.
func (l *Lexer) Tokenize() []token.Token {
	if l.skipFirst {
		l.skipLeadingWord()
	}
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// ---- internal helpers ----

// peek returns the current character without advancing, or 0 if at end.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

// peekNext returns the character after current, or 0 if at end.
func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.pos + 1}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// isDelimiter reports whether ch ends a WORD run.
func isDelimiter(ch byte) bool {
	return isSpace(ch) || ch == '(' || ch == ')' || ch == '\'' || ch == ';' || token.IsOperatorChar(ch)
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) && isSpace(l.source[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) skipLeadingWord() {
	l.skipWhitespace()
	for l.pos < len(l.source) && !isSpace(l.source[l.pos]) {
		l.pos++
	}
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	l.skipWhitespace()

	// ; comment runs to the end of the line
	if l.peek() == ';' {
		l.pos = len(l.source)
	}

	if l.pos >= len(l.source) {
		return token.Token{Kind: token.EOF, Span: l.makeSpan(l.curPos())}
	}

	start := l.curPos()
	ch := l.peek()

	switch {
	case ch == '(':
		l.pos++
		return token.Token{Kind: token.LPAREN, Lexeme: "(", Span: l.makeSpan(start)}
	case ch == ')':
		l.pos++
		return token.Token{Kind: token.RPAREN, Lexeme: ")", Span: l.makeSpan(start)}
	case ch == '\'':
		l.pos++
		return token.Token{Kind: token.QUOTE, Lexeme: token.QuoteLexeme, Span: l.makeSpan(start)}
	case (ch == '-' || ch == '+') && isDigit(l.peekNext()) && l.atWordBoundary():
		// signed integer literal
		l.pos++
		return l.readWord(start)
	case token.IsOperatorChar(ch):
		l.pos++
		return token.Token{Kind: token.OPERATOR, Lexeme: string(ch), Span: l.makeSpan(start)}
	default:
		return l.readWord(start)
	}
}

func (l *Lexer) readWord(start span.Position) token.Token {
	for l.pos < len(l.source) && !isDelimiter(l.source[l.pos]) {
		l.pos++
	}
	return token.Token{Kind: token.WORD, Lexeme: l.source[start.Offset:l.pos], Span: l.makeSpan(start)}
}

// atWordBoundary reports whether the current position starts a fresh word,
// so that "1-2" still lexes as three tokens.
func (l *Lexer) atWordBoundary() bool {
	if l.pos == 0 {
		return true
	}
	prev := l.source[l.pos-1]
	return isSpace(prev) || prev == '(' || prev == '\''
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
