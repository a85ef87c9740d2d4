package driver

import (
	"bytes"
	"errors"
	"log/slog"
	"mini-lisp/internal/diag"
	"mini-lisp/internal/runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runSource runs source as a file, returning the combined output.
func runSource(source string, opts ...Option) (string, int, error) {
	var buf bytes.Buffer
	opts = append([]Option{WithOutput(&buf), WithErrorOutput(&buf)}, opts...)
	r := New(opts...)
	failures, err := r.RunFile(strings.NewReader(source))
	return buf.String(), failures, err
}

func TestEvalLineSequence(t *testing.T) {
	r := New()
	_, err := r.EvalLine("(setq x 10)")
	require.NoError(t, err)
	val, err := r.EvalLine("(+ x 5)")
	require.NoError(t, err)
	assert.Equal(t, runtime.IntVal(15), val)
}

func TestEvalLineErrorCarriesLineNumber(t *testing.T) {
	r := New()
	_, err := r.EvalLine("(+ 1 1)")
	require.NoError(t, err)
	_, err = r.EvalLine("(/ 1 0)")
	d, ok := diag.As(err)
	require.True(t, ok)
	assert.Equal(t, diag.DivisionByZero, d.Kind)
	assert.Equal(t, 2, d.Span.Start.Line)
}

func TestRunLinePrints(t *testing.T) {
	var out, errOut bytes.Buffer
	r := New(WithOutput(&out), WithErrorOutput(&errOut))

	assert.True(t, r.RunLine("(list 1 2)"))
	assert.True(t, r.RunLine("   "))
	assert.False(t, r.RunLine("(nosuch)"))

	assert.Equal(t, "=> (1 2)\n", out.String())
	assert.False(t, r.Interpreter().Env().HasVariable("nosuch"))
	assert.Contains(t, errOut.String(), "error evaluating line 2: (nosuch)")
	assert.Contains(t, errOut.String(), "UnknownOperator")
}

func TestRunFileContinuesAfterErrors(t *testing.T) {
	out, failures, err := runSource("(setq a 1)\n(/ a 0)\n\n(+ a 1)\n")
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
	assert.Equal(t, "=> 1\n"+
		"error evaluating line 2: (/ a 0)\n"+
		"  [E2003] DivisionByZero at 2:6: division by zero\n"+
		"=> 2\n", out)
}

func TestRunFileStrict(t *testing.T) {
	out, failures, err := runSource("menor\n", WithStrictSymbols())
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
	assert.Contains(t, out, "UnboundVariable")

	out, failures, _ = runSource("menor\n")
	assert.Zero(t, failures)
	assert.Equal(t, "=> menor\n", out)
}

func TestRunFileMaxDepth(t *testing.T) {
	src := "(defun down (n) (down n))\n(down 1)\n(+ 1 1)\n"
	out, failures, err := runSource(src, WithMaxDepth(100))
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
	assert.Contains(t, out, "StackLimitExceeded")
	assert.True(t, strings.HasSuffix(out, "=> 2\n"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestRunFileReadError(t *testing.T) {
	r := New(WithOutput(&bytes.Buffer{}), WithErrorOutput(&bytes.Buffer{}))
	_, err := r.RunFile(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestDebugLogging(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(WithLogger(logger), WithOutput(&bytes.Buffer{}))
	_, err := r.EvalLine("(+ 1 2)")
	require.NoError(t, err)

	assert.Contains(t, logBuf.String(), "msg=eval")
	assert.Contains(t, logBuf.String(), "line=1")
	assert.Contains(t, logBuf.String(), "tokens=5")
	assert.Contains(t, logBuf.String(), "ok=true")
}

func TestWriteBindings(t *testing.T) {
	r := New()
	for _, line := range []string{"(setq b 2)", "(setq a '(1 2))", "(defun add (x y) (+ x y))"} {
		_, err := r.EvalLine(line)
		require.NoError(t, err)
	}
	var buf bytes.Buffer
	r.WriteBindings(&buf)
	assert.Equal(t, "a = (1 2)\nb = 2\n(defun add (x y) ...)\n", buf.String())
}

func TestLineClassification(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("  \t"))
	assert.True(t, IsBlank("; note"))
	assert.False(t, IsBlank("x"))

	assert.True(t, IsExit("exit"))
	assert.True(t, IsExit("  QUIT "))
	assert.True(t, IsExit("salir"))
	assert.False(t, IsExit("(exit)"))

	assert.Equal(t, 0, ParenDepth("(+ 1 2)"))
	assert.Equal(t, 2, ParenDepth("(defun f (x)  (+ x"))
	assert.Equal(t, -1, ParenDepth("))("))
}

func TestRunLineKeepsBindings(t *testing.T) {
	r := New(WithOutput(&bytes.Buffer{}))
	require.True(t, r.RunLine("(setq kept 7)"))
	require.True(t, r.RunLine("(defun twice (x) (* 2 x))"))

	env := r.Interpreter().Env()
	assert.True(t, env.HasVariable("kept"))
	assert.True(t, env.HasFunction("twice"))
}

func TestAccumulatorJoinsSplitForm(t *testing.T) {
	var acc Accumulator

	src, ready := acc.Feed("(defun add (x y)")
	assert.False(t, ready)
	assert.Empty(t, src)
	assert.True(t, acc.Pending())

	src, ready = acc.Feed("  (+ x y))")
	require.True(t, ready)
	assert.Equal(t, "(defun add (x y)   (+ x y))", src)
	assert.False(t, acc.Pending())

	r := New(WithOutput(&bytes.Buffer{}))
	_, err := r.EvalLine(src)
	require.NoError(t, err)
	val, err := r.EvalLine("(add 2 3)")
	require.NoError(t, err)
	assert.Equal(t, runtime.IntVal(5), val)
}

func TestAccumulatorSurplusCloseParen(t *testing.T) {
	var acc Accumulator

	src, ready := acc.Feed("(+ 1 2))")
	require.True(t, ready)
	assert.Equal(t, "(+ 1 2))", src)
	assert.False(t, acc.Pending())

	_, err := New().EvalLine(src)
	assert.True(t, diag.IsKind(err, diag.SyntaxError), "got %v", err)

	// the negative depth does not carry into the next form
	_, ready = acc.Feed("(list 1")
	assert.False(t, ready)
	src, ready = acc.Feed("2)")
	require.True(t, ready)
	assert.Equal(t, "(list 1 2)", src)
}

func TestAccumulatorDropsCommentsWhenJoining(t *testing.T) {
	var acc Accumulator
	_, ready := acc.Feed("(+ 1 ; first operand")
	require.False(t, ready)
	src, ready := acc.Feed("2)")
	require.True(t, ready)

	val, err := New().EvalLine(src)
	require.NoError(t, err)
	assert.Equal(t, runtime.IntVal(3), val)
}

func TestAccumulatorReset(t *testing.T) {
	var acc Accumulator

	_, ready := acc.Feed("(setq x")
	require.False(t, ready)
	acc.Reset()
	assert.False(t, acc.Pending())

	src, ready := acc.Feed("(+ 1 1)")
	require.True(t, ready)
	assert.Equal(t, "(+ 1 1)", src)
}

func TestAccumulatorPassesPlainLines(t *testing.T) {
	var acc Accumulator
	for _, line := range []string{"42", "", "'sym"} {
		src, ready := acc.Feed(line)
		assert.True(t, ready)
		assert.Equal(t, line, src)
	}
}

func TestSessionCommands(t *testing.T) {
	assert.True(t, IsEnvCommand(":env"))
	assert.True(t, IsEnvCommand("  :env "))
	assert.False(t, IsEnvCommand("env"))
	assert.False(t, IsEnvCommand("(:env)"))
}
