// Package driver feeds source lines through the lexer, parser and
// interpreter and reports each result or error.
package driver

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"mini-lisp/internal/lexer"
	"mini-lisp/internal/parser"
	"mini-lisp/internal/runtime"
	"mini-lisp/internal/token"
	"os"
	"strings"
	"time"
)

// maxLineSize is the longest source line RunFile accepts.
const maxLineSize = 1024 * 1024

var exitKeywords = map[string]bool{
	"exit":  true,
	"quit":  true,
	"salir": true,
}

// Option configures a Runner.
type Option func(r *Runner)

// WithOutput sets where results are printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithErrorOutput sets where failures are reported. Defaults to os.Stderr.
func WithErrorOutput(w io.Writer) Option {
	return func(r *Runner) { r.errOut = w }
}

// WithLogger sets the logger used for per-line debug records.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMaxDepth bounds both parser nesting and evaluation depth.
func WithMaxDepth(n int) Option {
	return func(r *Runner) {
		r.parseOpts = append(r.parseOpts, parser.WithMaxDepth(n))
		r.evalOpts = append(r.evalOpts, runtime.WithMaxDepth(n))
	}
}

// WithStrictSymbols makes unbound symbols an error.
func WithStrictSymbols() Option {
	return func(r *Runner) {
		r.evalOpts = append(r.evalOpts, runtime.WithStrictSymbols())
	}
}

// Runner owns one interpreter session.
type Runner struct {
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	parseOpts []parser.Option
	evalOpts  []runtime.Option

	interp *runtime.Interpreter
	lineNo int // lines consumed by EvalLine
}

// New creates a Runner with a fresh root environment.
func New(opts ...Option) *Runner {
	r := &Runner{
		out:    os.Stdout,
		errOut: os.Stderr,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.interp = runtime.NewInterpreter(nil, r.evalOpts...)
	return r
}

// Interpreter returns the session interpreter.
func (r *Runner) Interpreter() *runtime.Interpreter {
	return r.interp
}

// EvalLine tokenizes, parses and evaluates one line of source.
func (r *Runner) EvalLine(line string) (runtime.Value, error) {
	r.lineNo++
	return r.evalAt(line, r.lineNo)
}

func (r *Runner) evalAt(line string, lineNo int) (runtime.Value, error) {
	start := time.Now()
	tokens := lexer.New(line, lexer.WithLine(lineNo)).Tokenize()

	var val runtime.Value
	expr, err := parser.New(tokens, r.parseOpts...).Parse()
	if err == nil {
		val, err = r.interp.Evaluate(expr)
	}

	r.logger.Debug("eval",
		"line", lineNo,
		"tokens", len(tokens)-1,
		"elapsed", time.Since(start),
		"ok", err == nil)
	return val, err
}

// RunLine evaluates line and prints its value, or reports the failure with
// the line echoed. It returns false when the line failed.
func (r *Runner) RunLine(line string) bool {
	if IsBlank(line) {
		return true
	}
	r.lineNo++
	return r.report(line, r.lineNo)
}

func (r *Runner) report(line string, lineNo int) bool {
	val, err := r.evalAt(line, lineNo)
	if err != nil {
		fmt.Fprintf(r.errOut, "error evaluating line %d: %s\n  %s\n", lineNo, strings.TrimSpace(line), err)
		return false
	}
	fmt.Fprintf(r.out, "=> %s\n", val)
	return true
}

// RunFile evaluates every line of rd in order. Blank and comment-only lines
// are skipped. A failing line is reported and the run continues; failures
// counts them. err is only set when reading rd fails.
func (r *Runner) RunFile(rd io.Reader) (failures int, err error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if IsBlank(line) {
			continue
		}
		if !r.report(line, lineNo) {
			failures++
		}
	}
	if err := scanner.Err(); err != nil {
		return failures, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	return failures, nil
}

// WriteBindings lists the root frame's variables and functions.
func (r *Runner) WriteBindings(w io.Writer) {
	env := r.interp.Env()
	for _, name := range env.VariableNames() {
		val, _ := env.GetVariable(name)
		fmt.Fprintf(w, "%s = %s\n", name, val)
	}
	for _, name := range env.FunctionNames() {
		fn, _ := env.GetFunction(name)
		fmt.Fprintf(w, "(defun %s (%s) ...)\n", name, strings.Join(fn.Params, " "))
	}
}

// ---- line classification ----

// IsBlank reports whether line holds no tokens.
func IsBlank(line string) bool {
	return len(token.Texts(lexer.New(line).Tokenize())) == 0
}

// IsExit reports whether line is a session exit keyword.
func IsExit(line string) bool {
	return exitKeywords[strings.ToLower(strings.TrimSpace(line))]
}

// IsEnvCommand reports whether line asks for the session bindings.
func IsEnvCommand(line string) bool {
	return strings.TrimSpace(line) == ":env"
}

// ParenDepth returns the count of '(' minus ')' tokens on line. The REPL
// keeps reading while the running total is positive.
func ParenDepth(line string) int {
	depth := 0
	for _, tok := range lexer.New(line).Tokenize() {
		switch tok.Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
	}
	return depth
}

// Accumulator gathers REPL input until its parentheses balance.
type Accumulator struct {
	pending []string
	depth   int
}

// Feed adds line to the pending input. While '(' outnumbers ')' it returns
// ready=false; otherwise it returns the pending lines joined into one source
// line and starts over. A surplus ')' completes the input so the evaluator
// can report it.
func (a *Accumulator) Feed(line string) (source string, ready bool) {
	a.pending = append(a.pending, line)
	a.depth += ParenDepth(line)
	if a.depth > 0 {
		return "", false
	}
	if len(a.pending) == 1 {
		source = a.pending[0]
	} else {
		// a comment would swallow the lines joined after it
		parts := make([]string, len(a.pending))
		for i, l := range a.pending {
			parts[i], _, _ = strings.Cut(l, ";")
		}
		source = strings.Join(parts, " ")
	}
	a.Reset()
	return source, true
}

// Pending reports whether a form is still open.
func (a *Accumulator) Pending() bool {
	return a.depth > 0
}

// Reset drops any pending input.
func (a *Accumulator) Reset() {
	a.pending = a.pending[:0]
	a.depth = 0
}
