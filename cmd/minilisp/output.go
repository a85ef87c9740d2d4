package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mini-lisp/internal/diag"
	"mini-lisp/internal/token"
)

// ---- output helpers ----

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}

func diagsToSlice(errs []error) []map[string]interface{} {
	result := make([]map[string]interface{}, len(errs))
	for i, err := range errs {
		d, ok := diag.As(err)
		if !ok {
			result[i] = map[string]interface{}{"message": err.Error()}
			continue
		}
		result[i] = map[string]interface{}{
			"code":    d.Code,
			"kind":    d.Kind.String(),
			"message": d.Message,
			"line":    d.Span.Start.Line,
			"column":  d.Span.Start.Column,
			"offset":  d.Span.Start.Offset,
		}
		if d.Hint != "" {
			result[i]["hint"] = d.Hint
		}
	}
	return result
}

// ---- token output helpers ----

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%-10s %-20s %d:%d\n", tok.Kind, tok.Lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

func printTokensJSON(w io.Writer, tokens []token.Token) error {
	type tokenJSON struct {
		Kind   string `json:"kind"`
		Lexeme string `json:"lexeme"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
		Offset int    `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		toks = append(toks, tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		})
	}
	return printJSON(w, map[string]interface{}{"tokens": toks})
}
