package fnplot

import (
	"errors"
	"math"
	"strconv"
)

// EvalErrorKind classifies an evaluation failure at a single point.
type EvalErrorKind int8

const (
	evalNone EvalErrorKind = iota
	// DivisionByZero is a division by zero, including a zero base raised
	// to a negative power.
	DivisionByZero
	// DomainError is an argument outside a function's real domain, e.g. the
	// logarithm of a non-positive number or a negative base with a
	// non-integer exponent.
	DomainError
	// Overflow is an infinite result.
	Overflow
	// NotANumber is a NaN result.
	NotANumber
)

func (k EvalErrorKind) String() string {
	switch k {
	case DivisionByZero:
		return "division by zero"
	case DomainError:
		return "domain error"
	case Overflow:
		return "overflow"
	case NotANumber:
		return "not a number"
	default:
		return "EvalErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// EvalError is an error evaluating an expression at one point.
type EvalError struct {
	// Kind is the class of failure.
	Kind EvalErrorKind
	// Op names the operator or function that failed.
	Op string
	// Arg is the value the operation was applied to. For binary operators
	// it is the left operand.
	Arg float64
}

func (err *EvalError) Error() string {
	if err.Op == "" {
		return err.Kind.String()
	}
	arg := strconv.FormatFloat(err.Arg, 'g', -1, 64)
	switch err.Kind {
	case DomainError:
		return arg + " outside domain of " + err.Op
	default:
		return err.Kind.String() + " in " + err.Op + " of " + arg
	}
}

// Is reports whether target is an *EvalError with the same Kind and no Op,
// so that errors.Is matches the Err sentinels.
func (err *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Op == "" && t.Kind == err.Kind
}

// Sentinels for use with errors.Is.
var (
	ErrDivisionByZero error = &EvalError{Kind: DivisionByZero}
	ErrDomain         error = &EvalError{Kind: DomainError}
	ErrOverflow       error = &EvalError{Kind: Overflow}
	ErrNaN            error = &EvalError{Kind: NotANumber}
)

// Eval evaluates the expression at x.
func (e *Expr) Eval(x float64) (float64, error) {
	r, err := e.n.eval(x)
	if err != nil {
		return 0, err
	}
	return r, nil
}

// eval computes the node's value at x. Every finite result is checked, so
// operands are always finite.
func (n *node) eval(x float64) (float64, *EvalError) {
	switch n.kind {
	case nodeNum:
		return finite(n.name, n.num, n.num)
	case nodeVar:
		return x, nil
	case nodeCall:
		a, err := n.left.eval(x)
		if err != nil {
			return 0, err
		}
		r, cerr := n.fn.Call([]float64{a})
		if cerr != nil {
			var ee *EvalError
			if errors.As(cerr, &ee) {
				return 0, ee
			}
			return 0, &EvalError{Kind: DomainError, Op: n.name, Arg: a}
		}
		return finite(n.name, a, r)
	case nodeNeg:
		v, err := n.left.eval(x)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case nodeAdd:
		l, r, err := n.operands(x)
		if err != nil {
			return 0, err
		}
		return finite("+", l, l+r)
	case nodeSub:
		l, r, err := n.operands(x)
		if err != nil {
			return 0, err
		}
		return finite("-", l, l-r)
	case nodeMul:
		l, r, err := n.operands(x)
		if err != nil {
			return 0, err
		}
		return finite("*", l, l*r)
	case nodeDiv:
		l, r, err := n.operands(x)
		if err != nil {
			return 0, err
		}
		if r == 0 {
			return 0, &EvalError{Kind: DivisionByZero, Op: "/", Arg: l}
		}
		return finite("/", l, l/r)
	case nodePow:
		l, r, err := n.operands(x)
		if err != nil {
			return 0, err
		}
		// No complex results.
		if l < 0 && r != math.Trunc(r) {
			return 0, &EvalError{Kind: DomainError, Op: "^", Arg: l}
		}
		if l == 0 && r < 0 {
			return 0, &EvalError{Kind: DivisionByZero, Op: "^", Arg: l}
		}
		return finite("^", l, math.Pow(l, r))
	default:
		panic("fnplot: invalid AST node " + n.kind.String())
	}
}

// operands evaluates both children of a binary node.
func (n *node) operands(x float64) (l, r float64, err *EvalError) {
	if l, err = n.left.eval(x); err != nil {
		return 0, 0, err
	}
	if r, err = n.right.eval(x); err != nil {
		return 0, 0, err
	}
	return l, r, nil
}

// finite classifies a non-finite result of op applied to arg.
func finite(op string, arg, v float64) (float64, *EvalError) {
	switch {
	case math.IsNaN(v):
		return 0, &EvalError{Kind: NotANumber, Op: op, Arg: arg}
	case math.IsInf(v, 0):
		return 0, &EvalError{Kind: Overflow, Op: op, Arg: arg}
	}
	return v, nil
}
