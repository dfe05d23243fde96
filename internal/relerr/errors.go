// Package relerr provides standardized error handling for relgen.
// All errors carry stable, machine-readable codes, structured context,
// and support errors.Is/errors.As matching and wrapping.
package relerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Code represents a stable, machine-readable error code.
// Format: E{category}{number} where category is 1-5 and number is 001-999.
type Code string

// Error codes organized by category.
const (
	// Schema errors (E1xxx) - problems with entity schema definitions
	ErrInvalidSchema   Code = "E1001" // Entity schema is malformed or inconsistent
	ErrSchemaNotFound  Code = "E1002" // Referenced entity does not exist
	ErrDuplicateField  Code = "E1003" // Field name appears more than once
	ErrInvalidType     Code = "E1004" // Field type is not supported
	ErrInvalidRelation Code = "E1005" // Relationship definition is invalid

	// Config errors (E2xxx) - problems with override configuration
	ErrConfigRead    Code = "E2001" // Config file could not be read or parsed
	ErrInvalidConfig Code = "E2002" // Config content is structurally invalid

	// Adapter errors (E3xxx) - problems with dialect adapters
	ErrAdapterNotFound  Code = "E3001" // No adapter registered for the dialect
	ErrAdapterDuplicate Code = "E3002" // Adapter already registered for the dialect

	// SQL generation errors (E4xxx)
	ErrSQLGeneration Code = "E4001" // DDL could not be generated
	ErrSQLVerify     Code = "E4002" // Generated DDL failed verification

	// Lockfile errors (E5xxx)
	ErrLockRead     Code = "E5001" // Lockfile could not be read
	ErrLockMismatch Code = "E5002" // Schema fingerprint does not match lockfile
)

// Error is the standard error type for relgen.
// It provides structured error information with codes, context, and wrapping.
type Error struct {
	code    Code           // Machine-readable error code
	message string         // Human-readable error message
	context map[string]any // Structured context data
	cause   error          // Wrapped underlying error
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		code:    code,
		message: message,
	}
}

// Wrap creates a new Error wrapping an underlying cause.
func Wrap(code Code, cause error, message string) *Error {
	return &Error{
		code:    code,
		message: message,
		cause:   cause,
	}
}

// Error returns the formatted error string.
// Format:
//
//	[E3001] no adapter registered for dialect
//	  dialect: oracle
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.code, e.message))

	// Write context in sorted order for deterministic output
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString(fmt.Sprintf("\n  %s: %v", k, e.context[k]))
		}
	}

	if e.cause != nil {
		b.WriteString(fmt.Sprintf("\n  cause: %v", e.cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error for errors.Unwrap compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the target error matches this error.
// Two *Error values match when they share the same code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.code == targetErr.code
	}

	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code {
	return e.code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.message
}

// GetContext returns the error context map.
func (e *Error) GetContext() map[string]any {
	return e.context
}

// With adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithEntity adds entity context to the error.
func (e *Error) WithEntity(name string) *Error {
	return e.With("entity", name)
}

// WithField adds field context to the error.
func (e *Error) WithField(name string) *Error {
	return e.With("field", name)
}

// WithDialect adds dialect context to the error.
func (e *Error) WithDialect(name string) *Error {
	return e.With("dialect", name)
}

// WithSQL adds SQL statement context to the error.
func (e *Error) WithSQL(sql string) *Error {
	return e.With("sql", sql)
}

// WithHelp adds a help suggestion to the error (displayed as "help: ...").
func (e *Error) WithHelp(help string) *Error {
	helps, _ := e.context["helps"].([]string)
	helps = append(helps, help)
	return e.With("helps", helps)
}

// HasCode reports whether err carries the given relerr code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.code == code
	}
	return false
}
