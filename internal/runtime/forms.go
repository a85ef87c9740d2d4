package runtime

import "fmt"

// SpecialForm identifies an operator the evaluator handles itself rather
// than through a user function call.
type SpecialForm int

const (
	FormAdd SpecialForm = iota
	FormSub
	FormMul
	FormDiv
	FormLess
	FormGreater
	FormLessEq
	FormGreaterEq
	FormSetq
	FormAtom
	FormList
	FormEqual
	FormCond
	FormQuote
	FormDefun
)

var formNames = map[SpecialForm]string{
	FormAdd:       "+",
	FormSub:       "-",
	FormMul:       "*",
	FormDiv:       "/",
	FormLess:      "<",
	FormGreater:   ">",
	FormLessEq:    "<=",
	FormGreaterEq: ">=",
	FormSetq:      "setq",
	FormAtom:      "atom",
	FormList:      "list",
	FormEqual:     "equal",
	FormCond:      "cond",
	FormQuote:     "quote",
	FormDefun:     "defun",
}

var specialForms = func() map[string]SpecialForm {
	m := make(map[string]SpecialForm, len(formNames))
	for form, name := range formNames {
		m[name] = form
	}
	return m
}()

// String returns the operator name of the form.
func (f SpecialForm) String() string {
	if name, ok := formNames[f]; ok {
		return name
	}
	return fmt.Sprintf("SpecialForm(%d)", int(f))
}

// IsArithmetic reports whether f is one of + - * /.
func (f SpecialForm) IsArithmetic() bool {
	return f >= FormAdd && f <= FormDiv
}

// IsComparison reports whether f is one of < > <= >=.
func (f SpecialForm) IsComparison() bool {
	return f >= FormLess && f <= FormGreaterEq
}

// LookupSpecialForm returns the special form named name.
func LookupSpecialForm(name string) (SpecialForm, bool) {
	f, ok := specialForms[name]
	return f, ok
}
