// Package errors provides structured error types for the logicdiagram engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Source line reporting for text-format failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - REFERENCE_*: an id, node or tag that does not exist was named
//   - INVARIANT_*: the operation would break a structural rule of the graph or tree
//   - PARSE_*: the diagram or solution text is malformed
//   - INVALID_*, NOT_FOUND, INTERNAL_*: surrounding layers (config, store, server)
//
// The category predicates [IsReference], [IsInvariant] and [IsParse] match on
// the prefix, so callers can branch on the category without listing codes.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownElement, "unknown element %s", uid)
//	if errors.IsReference(err) {
//	    // Show "not found" to the user
//	}
//
//	// Codec failures carry the offending line
//	err := errors.AtLine(errors.ErrCodeMalformedLine, 4, "expected 4 fields, got %d", n)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Reference errors
	ErrCodeUnknownElement Code = "REFERENCE_UNKNOWN_ELEMENT"
	ErrCodeUnknownWire    Code = "REFERENCE_UNKNOWN_WIRE"
	ErrCodeUnknownNode    Code = "REFERENCE_UNKNOWN_NODE"
	ErrCodeUnknownTag     Code = "REFERENCE_UNKNOWN_TAG"

	// Invariant errors
	ErrCodeSlotOccupied    Code = "INVARIANT_SLOT_OCCUPIED"
	ErrCodeWrongKind       Code = "INVARIANT_WRONG_KIND"
	ErrCodeNoActiveDiagram Code = "INVARIANT_NO_ACTIVE_DIAGRAM"
	ErrCodeNotActive       Code = "INVARIANT_NOT_ACTIVE"

	// Parse errors
	ErrCodeUnknownKind     Code = "PARSE_UNKNOWN_KIND"
	ErrCodeMalformedLine   Code = "PARSE_MALFORMED_LINE"
	ErrCodeMalformedNumber Code = "PARSE_MALFORMED_NUMBER"
	ErrCodeDuplicateID     Code = "PARSE_DUPLICATE_ID"

	// Surrounding layers
	ErrCodeInvalidName  Code = "INVALID_NAME"
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

const (
	prefixReference = "REFERENCE_"
	prefixInvariant = "INVARIANT_"
	prefixParse     = "PARSE_"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Line    int    // 1-based source line for text-format errors, 0 if not applicable
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// AtLine creates a new Error that points at a source line.
func AtLine(code Code, line int, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Rebase returns a copy of err with its line number shifted by offset.
// Errors without a line, or that are not an *Error, are returned unchanged.
// It is used when a diagram body is parsed out of a larger solution file.
func Rebase(err error, offset int) error {
	var e *Error
	if !errors.As(err, &e) || e.Line == 0 {
		return err
	}
	cp := *e
	cp.Line += offset
	return &cp
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetLine extracts the source line from an error, or 0.
func GetLine(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Line
	}
	return 0
}

// IsReference reports whether err names something that does not exist.
func IsReference(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), prefixReference)
}

// IsInvariant reports whether err is a structural rule violation.
// Duplicate ids found while parsing count as both parse and invariant errors.
func IsInvariant(err error) bool {
	code := GetCode(err)
	return strings.HasPrefix(string(code), prefixInvariant) || code == ErrCodeDuplicateID
}

// IsParse reports whether err came from malformed text.
func IsParse(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), prefixParse)
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Line > 0 {
			return fmt.Sprintf("line %d: %s", e.Line, e.Message)
		}
		return e.Message
	}
	return err.Error()
}
