package runtime

import (
	"mini-lisp/internal/ast"
	"mini-lisp/internal/diag"
	"mini-lisp/internal/span"
)

// DefaultMaxDepth bounds nested evaluation so runaway recursion fails with
// StackLimitExceeded instead of exhausting the Go stack.
const DefaultMaxDepth = 10000

// Option configures an Interpreter.
type Option func(i *Interpreter)

// WithMaxDepth sets the maximum evaluation depth. n <= 0 disables the limit.
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) {
		i.maxDepth = n
	}
}

// WithStrictSymbols makes evaluating an unbound symbol fail with
// UnboundVariable instead of returning the symbol itself.
func WithStrictSymbols() Option {
	return func(i *Interpreter) {
		i.strict = true
	}
}

// ============================================================
// Interpreter
// ============================================================

// Interpreter evaluates expressions against a root environment. It is not
// safe for concurrent use.
type Interpreter struct {
	global   *Environment
	maxDepth int
	strict   bool

	depth int
	calls []string // active user functions, outermost first
}

// NewInterpreter creates an interpreter over env. A nil env gets a fresh
// root frame.
func NewInterpreter(env *Environment, opts ...Option) *Interpreter {
	if env == nil {
		env = NewEnvironment(nil)
	}
	i := &Interpreter{global: env, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Env returns the root environment.
func (i *Interpreter) Env() *Environment {
	return i.global
}

// Evaluate evaluates expr in the root environment. setq and defun effects
// that happened before an error are kept.
func (i *Interpreter) Evaluate(expr ast.Expr) (Value, error) {
	return i.EvaluateIn(expr, i.global)
}

// EvaluateIn evaluates expr in env.
func (i *Interpreter) EvaluateIn(expr ast.Expr, env *Environment) (Value, error) {
	return i.eval(expr, env)
}

// errorf builds a diagnostic carrying the compacted call trace.
func (i *Interpreter) errorf(kind diag.Kind, s span.Span, format string, args ...interface{}) *diag.Diagnostic {
	d := diag.Errorf(kind, s, format, args...)
	if len(i.calls) > 0 {
		frames := make([]string, len(i.calls))
		for idx, name := range i.calls {
			frames[len(i.calls)-1-idx] = name
		}
		d.Trace = diag.CompactTrace(frames)
	}
	return d
}

// ============================================================
// Expression dispatch
// ============================================================

func (i *Interpreter) eval(expr ast.Expr, env *Environment) (Value, error) {
	i.depth++
	defer func() { i.depth-- }()
	if i.maxDepth > 0 && i.depth > i.maxDepth {
		return nil, i.errorf(diag.StackLimitExceeded, expr.GetSpan(), "evaluation depth exceeds %d", i.maxDepth).
			WithHint("check for recursion without a base case")
	}

	switch e := expr.(type) {
	case *ast.Int:
		return IntVal(e.Value), nil
	case *ast.Symbol:
		return i.evalSymbol(e, env)
	case *ast.Form:
		return i.evalForm(e, env)
	default:
		return nil, i.errorf(diag.MalformedForm, expr.GetSpan(), "unhandled expression type: %T", expr)
	}
}

func (i *Interpreter) evalSymbol(e *ast.Symbol, env *Environment) (Value, error) {
	if val, ok := env.GetVariable(e.Name); ok {
		return val, nil
	}
	switch e.Name {
	case "true":
		return BoolVal(true), nil
	case "false":
		return BoolVal(false), nil
	case "nil":
		return NilVal{}, nil
	}
	if i.strict {
		d := i.errorf(diag.UnboundVariable, e.GetSpan(), "undefined variable '%s'", e.Name)
		if env.HasFunction(e.Name) {
			d.WithHint("'" + e.Name + "' is a function; call it as (" + e.Name + " ...)")
		} else {
			d.WithHint("use '" + e.Name + " to write a symbol")
		}
		return nil, d
	}
	return SymbolVal(e.Name), nil
}

func (i *Interpreter) evalForm(e *ast.Form, env *Environment) (Value, error) {
	if len(e.Elems) == 0 {
		return NilVal{}, nil
	}

	op, ok := e.Head()
	if !ok {
		// a form headed by a non-symbol is data
		return FromExpr(e), nil
	}

	if form, ok := LookupSpecialForm(op); ok {
		return i.evalSpecial(form, e, env)
	}
	if val, ok := env.GetVariable(op); ok {
		return val, nil
	}
	if fn, ok := env.GetFunction(op); ok {
		return i.callFunction(fn, e, env)
	}
	return nil, i.errorf(diag.UnknownOperator, e.Elems[0].GetSpan(), "unknown operator '%s'", op)
}

// ============================================================
// Special forms
// ============================================================

func (i *Interpreter) evalSpecial(form SpecialForm, e *ast.Form, env *Environment) (Value, error) {
	switch {
	case form.IsArithmetic():
		return i.evalArithmetic(form, e, env)
	case form.IsComparison():
		return i.evalComparison(form, e, env)
	}

	args := e.Args()
	switch form {
	case FormSetq:
		if err := i.expectArgs(form, e, 2); err != nil {
			return nil, err
		}
		name, ok := args[0].(*ast.Symbol)
		if !ok {
			return nil, i.errorf(diag.MalformedForm, args[0].GetSpan(), "setq target must be a symbol, got %s", args[0])
		}
		val, err := i.eval(args[1], env)
		if err != nil {
			return nil, err
		}
		env.SetVariable(name.Name, val)
		return val, nil

	case FormAtom:
		if err := i.expectArgs(form, e, 1); err != nil {
			return nil, err
		}
		val, err := i.eval(args[0], env)
		if err != nil {
			return nil, err
		}
		return BoolVal(IsAtom(val)), nil

	case FormList:
		elems := make([]Value, len(args))
		for idx, arg := range args {
			val, err := i.eval(arg, env)
			if err != nil {
				return nil, err
			}
			elems[idx] = val
		}
		return NewList(elems...), nil

	case FormEqual:
		if err := i.expectArgs(form, e, 2); err != nil {
			return nil, err
		}
		a, err := i.eval(args[0], env)
		if err != nil {
			return nil, err
		}
		b, err := i.eval(args[1], env)
		if err != nil {
			return nil, err
		}
		return BoolVal(ValuesEqual(a, b)), nil

	case FormCond:
		return i.evalCond(e, env)

	case FormQuote:
		if err := i.expectArgs(form, e, 1); err != nil {
			return nil, err
		}
		return FromExpr(args[0]), nil

	case FormDefun:
		return i.evalDefun(e, env)

	default:
		return nil, i.errorf(diag.UnknownOperator, e.GetSpan(), "unhandled special form '%s'", form)
	}
}

func (i *Interpreter) expectArgs(form SpecialForm, e *ast.Form, n int) error {
	if got := len(e.Args()); got != n {
		noun := "operands"
		if n == 1 {
			noun = "operand"
		}
		return i.errorf(diag.ArityError, e.GetSpan(), "'%s' expects %d %s, got %d", form, n, noun, got)
	}
	return nil
}

// resolveNumber evaluates expr and requires an integer result.
func (i *Interpreter) resolveNumber(form SpecialForm, expr ast.Expr, env *Environment) (int64, error) {
	val, err := i.eval(expr, env)
	if err != nil {
		return 0, err
	}
	n, ok := val.(IntVal)
	if !ok {
		return 0, i.errorf(diag.TypeError, expr.GetSpan(), "'%s' expected a number, got %s %s", form, val.TypeName(), val)
	}
	return int64(n), nil
}

func (i *Interpreter) operands(form SpecialForm, e *ast.Form, env *Environment) (int64, int64, error) {
	if err := i.expectArgs(form, e, 2); err != nil {
		return 0, 0, err
	}
	args := e.Args()
	a, err := i.resolveNumber(form, args[0], env)
	if err != nil {
		return 0, 0, err
	}
	b, err := i.resolveNumber(form, args[1], env)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (i *Interpreter) evalArithmetic(form SpecialForm, e *ast.Form, env *Environment) (Value, error) {
	a, b, err := i.operands(form, e, env)
	if err != nil {
		return nil, err
	}
	switch form {
	case FormAdd:
		return IntVal(a + b), nil
	case FormSub:
		return IntVal(a - b), nil
	case FormMul:
		return IntVal(a * b), nil
	default:
		if b == 0 {
			return nil, i.errorf(diag.DivisionByZero, e.Args()[1].GetSpan(), "division by zero")
		}
		return IntVal(a / b), nil
	}
}

func (i *Interpreter) evalComparison(form SpecialForm, e *ast.Form, env *Environment) (Value, error) {
	a, b, err := i.operands(form, e, env)
	if err != nil {
		return nil, err
	}
	switch form {
	case FormLess:
		return BoolVal(a < b), nil
	case FormGreater:
		return BoolVal(a > b), nil
	case FormLessEq:
		return BoolVal(a <= b), nil
	default:
		return BoolVal(a >= b), nil
	}
}

func (i *Interpreter) evalCond(e *ast.Form, env *Environment) (Value, error) {
	for _, arg := range e.Args() {
		clause, ok := arg.(*ast.Form)
		if !ok || len(clause.Elems) == 0 {
			return nil, i.errorf(diag.MalformedForm, arg.GetSpan(), "cond clause must be a non-empty form, got %s", arg)
		}
		test, err := i.eval(clause.Elems[0], env)
		if err != nil {
			return nil, err
		}
		if !IsTruthy(test) {
			continue
		}
		if len(clause.Elems) == 1 {
			return test, nil
		}
		return i.evalBody(clause.Elems[1:], env)
	}
	return NilVal{}, nil
}

func (i *Interpreter) evalDefun(e *ast.Form, env *Environment) (Value, error) {
	args := e.Args()
	if len(args) < 3 {
		return nil, i.errorf(diag.ArityError, e.GetSpan(), "'defun' expects a name, a parameter list and a body, got %d operands", len(args))
	}
	name, ok := args[0].(*ast.Symbol)
	if !ok {
		return nil, i.errorf(diag.MalformedForm, args[0].GetSpan(), "function name must be a symbol, got %s", args[0])
	}
	paramList, ok := args[1].(*ast.Form)
	if !ok {
		return nil, i.errorf(diag.MalformedForm, args[1].GetSpan(), "parameter list of '%s' must be a form, got %s", name.Name, args[1])
	}
	params := make([]string, len(paramList.Elems))
	for idx, p := range paramList.Elems {
		sym, ok := p.(*ast.Symbol)
		if !ok {
			return nil, i.errorf(diag.MalformedForm, p.GetSpan(), "parameter of '%s' must be a symbol, got %s", name.Name, p)
		}
		params[idx] = sym.Name
	}

	env.SetFunction(name.Name, &Function{
		Name:   name.Name,
		Params: params,
		Body:   args[2:],
	})
	return SymbolVal(name.Name), nil
}

// ============================================================
// Function calls
// ============================================================

func (i *Interpreter) callFunction(fn *Function, e *ast.Form, env *Environment) (Value, error) {
	args := e.Args()
	if len(args) != len(fn.Params) {
		return nil, i.errorf(diag.ArityError, e.GetSpan(), "%s() expects %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}

	// Arguments are evaluated in the caller's frame
	vals := make([]Value, len(args))
	for idx, arg := range args {
		val, err := i.eval(arg, env)
		if err != nil {
			return nil, err
		}
		vals[idx] = val
	}

	funcEnv := env.NewChild()
	for idx, param := range fn.Params {
		funcEnv.SetVariable(param, vals[idx])
	}

	i.calls = append(i.calls, fn.Name)
	defer func() { i.calls = i.calls[:len(i.calls)-1] }()

	return i.evalBody(fn.Body, funcEnv)
}

// evalBody evaluates exprs in order and returns the last value.
func (i *Interpreter) evalBody(exprs []ast.Expr, env *Environment) (Value, error) {
	var result Value = NilVal{}
	for _, expr := range exprs {
		val, err := i.eval(expr, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}
