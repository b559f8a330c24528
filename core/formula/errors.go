package formula

import "errors"

// Sentinel errors for the formula pipeline, one per spec.md §7 error
// kind. All lexer/scope/parser/evaluator failures return (wrap) one of
// these so callers can dispatch on kind via errors.Is, in the pack's
// sentinel-error convention (katalvlaran-lvlath/matrix/errors.go).
var (
	// ErrParseError is returned by ParseFn when a leaf scope starts
	// with an element that is not a value, variable, nested scope or
	// function (for example a stray operator or whitespace token).
	ErrParseError = errors.New("formula: parse error")
	// ErrInvalidCharacter is returned by Lex when no token pattern
	// matches the remaining input.
	ErrInvalidCharacter = errors.New("formula: invalid character detected")
	// ErrUnmatchedBrackets is returned for depth underflow (extra ')')
	// or an unclosed '(' when building the scope tree.
	ErrUnmatchedBrackets = errors.New("formula: unmatched brackets")
	// ErrTrailingOperator is returned when a binary operator has no
	// right-hand operand.
	ErrTrailingOperator = errors.New("formula: trailing operator")
	// ErrMissingOperand is returned when a leaf scope is empty.
	ErrMissingOperand = errors.New("formula: missing operand")
	// ErrMissingVariable is returned by EvaluateMultivariable when a
	// variable has no binding in the environment.
	ErrMissingVariable = errors.New("formula: missing variable")
	// ErrFunctionSyntax is returned when a function token has no
	// preceding argument to apply to.
	ErrFunctionSyntax = errors.New("formula: function syntax error")
	// ErrDivisionByZero is returned when the right operand of '/' is
	// complex zero.
	ErrDivisionByZero = errors.New("formula: division by zero")
)
