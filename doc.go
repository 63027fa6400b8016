// Package fnplot parses and samples real functions of one variable.
//
// An expression like "sin(2*x) * cos(x/3)" is lexed, parsed against a fixed
// whitelist of functions and constants, and evaluated at evenly spaced
// points of a domain. Nothing in an expression can name anything outside the
// whitelist, so there is no path from input text to code execution.
//
// "-2^2" is the same as "-(2^2)", and "2^3^2" is "2^(3^2)". "**" is another
// spelling of "^". There is no implicit multiplication: "2x" and "2 x" are
// errors.
//
// Evaluation never fails as a whole because of the function's values. A
// division by zero or a logarithm of a negative number marks only the point
// where it happens, and sampling goes on to the next point.
package fnplot
