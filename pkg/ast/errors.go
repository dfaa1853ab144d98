package ast

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the cause of a ParseError or CompileError.
type ErrorCode string

const (
	// P01xx: parse errors
	ErrUnexpectedEnd        ErrorCode = "P0101"
	ErrUnexpectedCharacter  ErrorCode = "P0102"
	ErrInvalidNth           ErrorCode = "P0103"
	ErrEmptyCompound        ErrorCode = "P0104"
	ErrTrailingInput        ErrorCode = "P0105"
	ErrStringNotClosed      ErrorCode = "P0106"
	ErrInvalidAttributeItem ErrorCode = "P0107"
	ErrNestingTooDeep       ErrorCode = "P0108"

	// C02xx: compile errors
	ErrUndefinedPseudoClass ErrorCode = "C0201"
	ErrInvalidArgument      ErrorCode = "C0202"
	ErrPseudoElement        ErrorCode = "C0203"
	ErrColumnCombinator     ErrorCode = "C0204"
)

// Sentinels matched by errors.Is on every ParseError and CompileError.
var (
	ErrParse   = errors.New("selector parse error")
	ErrCompile = errors.New("selector compile error")
)

// ParseError reports malformed selector text. Position is the 0-based
// character (not byte) offset where parsing stopped.
type ParseError struct {
	Code     ErrorCode
	Message  string
	Position int
}

// NewParseError creates a ParseError.
func NewParseError(code ErrorCode, message string, position int) *ParseError {
	return &ParseError{Code: code, Message: message, Position: position}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// CompileError reports a well-formed selector that uses a construct the
// compiler rejects.
type CompileError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewCompileError creates a CompileError.
func NewCompileError(code ErrorCode, message string) *CompileError {
	return &CompileError{Code: code, Message: message}
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is ErrCompile.
func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}

// Unwrap returns the wrapped error.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// WithCause wraps another error.
func (e *CompileError) WithCause(err error) *CompileError {
	e.Err = err
	return e
}
