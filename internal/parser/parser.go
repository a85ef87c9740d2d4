// Package parser builds expression trees from tokens by recursive descent
// with one token of lookahead.
package parser

import (
	"mini-lisp/internal/ast"
	"mini-lisp/internal/diag"
	"mini-lisp/internal/span"
	"mini-lisp/internal/token"
	"strconv"
)

// DefaultMaxDepth bounds form nesting.
const DefaultMaxDepth = 10000

// Option configures a Parser.
type Option func(p *Parser)

// WithMaxDepth sets the maximum nesting depth. n <= 0 disables the limit.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// Parser turns a token slice into expressions. The cursor is shared by all
// recursive calls.
type Parser struct {
	tokens   []token.Token
	pos      int
	depth    int
	maxDepth int
}

// New creates a new parser from a token slice. A trailing EOF token is
// optional.
func New(tokens []token.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses exactly one top-level expression. Missing or trailing tokens
// are a SyntaxError.
func (p *Parser) Parse() (ast.Expr, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		tok := p.peek()
		return nil, p.error(tok.Span, "unexpected trailing input %q", tok.Lexeme)
	}
	return expr, nil
}

// ParseAll parses every top-level expression until the tokens run out.
func (p *Parser) ParseAll() ([]ast.Expr, error) {
	var exprs []ast.Expr
	for !p.isAtEnd() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF, Span: p.endSpan()}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) isAtEnd() bool {
	return p.check(token.EOF)
}

// endSpan is the position just past the last real token.
func (p *Parser) endSpan() span.Span {
	if len(p.tokens) == 0 {
		return span.Span{}
	}
	last := p.tokens[len(p.tokens)-1].Span
	return span.Span{Start: last.End, End: last.End}
}

func (p *Parser) error(s span.Span, format string, args ...interface{}) *diag.Diagnostic {
	return diag.Errorf(diag.SyntaxError, s, format, args...)
}

// ---- expressions ----

func (p *Parser) parseExpr() (ast.Expr, error) {
	if p.isAtEnd() {
		return nil, p.error(p.peek().Span, "incomplete expression")
	}

	p.depth++
	defer func() { p.depth-- }()
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return nil, diag.Errorf(diag.StackLimitExceeded, p.peek().Span,
			"expression nesting exceeds %d levels", p.maxDepth)
	}

	tok := p.advance()
	switch tok.Kind {
	case token.LPAREN:
		return p.parseForm(tok)
	case token.RPAREN:
		return nil, p.error(tok.Span, "parenthesis in wrong position").
			WithHint("remove the unmatched ')'")
	case token.QUOTE:
		quoted, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		head := &ast.Symbol{NodeBase: ast.NodeBase{Span: tok.Span}, Name: token.QuoteLexeme}
		return &ast.Form{
			NodeBase: ast.NodeBase{Span: span.Join(tok.Span, quoted.GetSpan())},
			Elems:    []ast.Expr{head, quoted},
		}, nil
	default:
		return parseAtom(tok), nil
	}
}

func (p *Parser) parseForm(open token.Token) (ast.Expr, error) {
	form := &ast.Form{Elems: []ast.Expr{}}
	for !p.check(token.RPAREN) {
		if p.isAtEnd() {
			return nil, p.error(p.peek().Span, "incomplete expression").
				WithHint("missing ')' for '(' at " + open.Span.Start.String())
		}
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		form.Elems = append(form.Elems, elem)
	}
	closing := p.advance()
	form.Span = span.Join(open.Span, closing.Span)
	return form, nil
}

func parseAtom(tok token.Token) ast.Expr {
	base := ast.NodeBase{Span: tok.Span}
	if v, err := strconv.ParseInt(tok.Lexeme, 10, 64); err == nil {
		return &ast.Int{NodeBase: base, Value: v}
	}
	return &ast.Symbol{NodeBase: base, Name: tok.Lexeme}
}
