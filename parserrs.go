package fnplot

import "strconv"

// UnknownIdentifierError is an error indicating a name that is neither the
// variable x nor a whitelisted function or constant. It implements
// InputError.
type UnknownIdentifierError struct {
	// Col is the position of the identifier.
	Col int
	// Name is the identifier.
	Name string
}

func (err *UnknownIdentifierError) Error() string {
	return errpos(err.Col, "unknown identifier "+strconv.Quote(err.Name))
}

func (err *UnknownIdentifierError) Pos() int {
	return err.Col
}

// UnexpectedTokenError is an error indicating a token that the grammar does
// not allow where it appears. It implements InputError.
type UnexpectedTokenError struct {
	// Col is the position of the token.
	Col int
	// Expected describes what the parser was looking for.
	Expected string
	// Found describes the token that was found.
	Found string
}

func (err *UnexpectedTokenError) Error() string {
	return errpos(err.Col, "expected "+err.Expected+", found "+err.Found)
}

func (err *UnexpectedTokenError) Pos() int {
	return err.Col
}

// UnbalancedParensError is an error indicating a parenthesis without a
// partner. It implements InputError.
type UnbalancedParensError struct {
	// Col is the position where the partner was needed: the end of the input
	// for a missing close parenthesis, or the stray close parenthesis.
	Col int
	// Missing is the parenthesis that would balance the input.
	Missing string
}

func (err *UnbalancedParensError) Error() string {
	if err.Missing == "(" {
		return errpos(err.Col, "close parenthesis with no open parenthesis")
	}
	return errpos(err.Col, "open parenthesis with no close parenthesis")
}

func (err *UnbalancedParensError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty expression or
// parenthesized subexpression. It implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression, or the empty string if
	// the entire input is empty.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input text implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the start of the token that
	// caused the error.
	Pos() int
}

var (
	_ InputError = (*UnknownIdentifierError)(nil)
	_ InputError = (*UnexpectedTokenError)(nil)
	_ InputError = (*UnbalancedParensError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)
