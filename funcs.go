package fnplot

import (
	"math"
)

// Func is a function from reals to reals, or a named constant.
type Func interface {
	// Call evaluates the function. The function arguments are passed in
	// invoc, which has a length for which CanCall returned true. Arguments
	// outside the function's domain should produce an *EvalError with
	// Kind DomainError.
	Call(invoc []float64) (float64, error)

	// CanCall returns whether the function can be called with n arguments.
	// This controls how the parser handles names of this function:
	//
	// 	1.	If CanCall(0), the name is a constant. The parser calls the
	//		function once and uses the result as a literal.
	//
	// 	2.	Otherwise, if CanCall(1), the name must be followed by a
	//		parenthesized argument.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"sin":   Monadic("sin", math.Sin, nil),
	"cos":   Monadic("cos", math.Cos, nil),
	"tan":   Monadic("tan", math.Tan, nil),
	"asin":  Monadic("asin", math.Asin, unit),
	"acos":  Monadic("acos", math.Acos, unit),
	"atan":  Monadic("atan", math.Atan, nil),
	"sinh":  Monadic("sinh", math.Sinh, nil),
	"cosh":  Monadic("cosh", math.Cosh, nil),
	"tanh":  Monadic("tanh", math.Tanh, nil),
	"exp":   Monadic("exp", math.Exp, nil),
	"log":   Monadic("log", math.Log, positive),
	"ln":    Monadic("ln", math.Log, positive),
	"log10": Monadic("log10", math.Log10, positive),
	"sqrt":  Monadic("sqrt", math.Sqrt, nonnegative),
	"abs":   Monadic("abs", math.Abs, nil),

	// constants
	"pi": Niladic(math.Pi),
	"e":  Niladic(math.E),
}

// DefaultFuncs returns the names of the default functions and constants.
func DefaultFuncs() []string {
	names := make([]string, 0, len(globalfuncs))
	for k := range globalfuncs {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

func positive(x float64) bool    { return x > 0 }
func nonnegative(x float64) bool { return x >= 0 }
func unit(x float64) bool        { return -1 <= x && x <= 1 }

type monadic struct {
	name   string
	f      func(float64) float64
	domain func(float64) bool
}

func (m monadic) Call(invoc []float64) (float64, error) {
	x := invoc[0]
	if m.domain != nil && !m.domain(x) {
		return 0, &EvalError{Kind: DomainError, Op: m.name, Arg: x}
	}
	return m.f(x), nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. If domain is not
// nil, arguments for which it returns false produce a DomainError naming the
// function instead of calling f.
func Monadic(name string, f func(float64) float64, domain func(float64) bool) Func {
	return monadic{name: name, f: f, domain: domain}
}

type niladic float64

func (n niladic) Call(invoc []float64) (float64, error) {
	return float64(n), nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic creates a named constant.
func Niladic(v float64) Func {
	return niladic(v)
}
