// Package errs implements the flat, tagged error taxonomy: one Go type
// carrying a Code, a message, an optional wrapped cause, and a list of
// fixed operator-facing suggestions — replacing the source's
// multiple-inheritance exception hierarchy with composition.
package errs

import "fmt"

// Code identifies the kind of failure a caller must branch on.
type Code string

const (
	DocumentError    Code = "DocumentError"
	DriverError      Code = "DriverError"
	LLMTransport     Code = "LLMTransport"
	LLMAuth          Code = "LLMAuth"
	LLMFormat        Code = "LLMFormat"
	LLMCancelled     Code = "LLMCancelled"
	PlanValidation   Code = "PlanValidation"
	FormatProtection Code = "FormatProtection"
	TaskExecution    Code = "TaskExecution"
	Configuration    Code = "Configuration"
	Cancelled        Code = "Cancelled"
)

// Error is the single error type used across every pipeline stage.
type Error struct {
	Code        Code
	Message     string
	Cause       error
	Suggestions []string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is supports errors.Is comparison against a bare Code-only sentinel
// produced by New(code, "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New builds an Error for code, attaching suggestions looked up by
// code from the fixed suggestion table.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Suggestions: SuggestionsFor(code)}
}

// Wrap builds an Error for code around cause, attaching suggestions
// looked up by code from the fixed suggestion table.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause, Suggestions: SuggestionsFor(code)}
}

// Sentinel returns a bare Error usable only with errors.Is to test a
// wrapped error's Code, e.g. errors.Is(err, errs.Sentinel(errs.LLMAuth)).
func Sentinel(code Code) *Error { return &Error{Code: code} }
