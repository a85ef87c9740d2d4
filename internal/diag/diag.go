// Package diag provides the error kinds and diagnostic type shared by the
// parser and the evaluator.
package diag

import (
	"errors"
	"fmt"
	"mini-lisp/internal/span"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	SyntaxError Kind = iota
	UnknownOperator
	TypeError
	DivisionByZero
	ArityError
	UnboundVariable
	MalformedForm
	StackLimitExceeded
)

var kindNames = map[Kind]string{
	SyntaxError:        "SyntaxError",
	UnknownOperator:    "UnknownOperator",
	TypeError:          "TypeError",
	DivisionByZero:     "DivisionByZero",
	ArityError:         "ArityError",
	UnboundVariable:    "UnboundVariable",
	MalformedForm:      "MalformedForm",
	StackLimitExceeded: "StackLimitExceeded",
}

// Stable error codes: E1xxx for the reader, E2xxx for evaluation and E3xxx
// for limits that either stage can hit.
var kindCodes = map[Kind]string{
	SyntaxError:        "E1001",
	StackLimitExceeded: "E3001",
	UnknownOperator:    "E2001",
	TypeError:          "E2002",
	DivisionByZero:     "E2003",
	ArityError:         "E2004",
	UnboundVariable:    "E2005",
	MalformedForm:      "E2006",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Code returns the stable error code for k.
func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return "E0000"
}

// Diagnostic is an error raised while reading or evaluating one line.
type Diagnostic struct {
	Code    string    `json:"code"`            // stable error code, e.g. "E2003"
	Kind    Kind      `json:"kind"`            // error class
	Message string    `json:"message"`         // human-readable description
	Span    span.Span `json:"span"`            // source location
	Hint    string    `json:"hint,omitempty"`  // optional hint
	Trace   []string  `json:"trace,omitempty"` // active user functions, innermost first
}

// Error returns a human-readable representation of the diagnostic.
func (d *Diagnostic) Error() string {
	loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
	msg := fmt.Sprintf("[%s] %s at %s: %s", d.Code, d.Kind, loc, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	if len(d.Trace) > 0 {
		msg += " (in " + strings.Join(d.Trace, " <- ") + ")"
	}
	return msg
}

// MaxTraceFrames bounds the entries CompactTrace keeps.
const MaxTraceFrames = 20

// CompactTrace folds runs of the same function into one "name (xN)" entry
// and keeps at most MaxTraceFrames entries, innermost first, followed by a
// "... N more" marker.
func CompactTrace(frames []string) []string {
	var out []string
	for i := 0; i < len(frames); {
		j := i + 1
		for j < len(frames) && frames[j] == frames[i] {
			j++
		}
		entry := frames[i]
		if n := j - i; n > 1 {
			entry = fmt.Sprintf("%s (x%d)", frames[i], n)
		}
		out = append(out, entry)
		i = j
	}
	if len(out) > MaxTraceFrames {
		more := len(out) - MaxTraceFrames
		out = append(out[:MaxTraceFrames:MaxTraceFrames], fmt.Sprintf("... %d more", more))
	}
	return out
}

// WithHint attaches a hint and returns d.
func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hint = hint
	return d
}

// Errorf creates a diagnostic of the given kind at s.
func Errorf(kind Kind, s span.Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:    kind.Code(),
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Span:    s,
	}
}

// As reports whether err is, or wraps, a *Diagnostic.
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// IsKind reports whether err is a diagnostic of the given kind.
func IsKind(err error, kind Kind) bool {
	d, ok := As(err)
	return ok && d.Kind == kind
}
