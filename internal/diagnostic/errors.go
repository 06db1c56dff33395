package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a single compile-time failure.
type Error struct {
	// Code classifies the failure.
	Code Code
	// Subject is the offending declaration path or type name.
	Subject string
	// Member is the offending field or property (if any).
	Member string
	// Message is the human-readable description.
	Message string
	// Hint tells the user how to fix the declaration.
	Hint string
}

// Newf creates an Error with a formatted message.
func Newf(code Code, subject, member, hint, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Subject: subject,
		Member:  member,
		Message: fmt.Sprintf(format, args...),
		Hint:    hint,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	if e.Subject != "" {
		b.WriteString("[" + e.Subject + "] ")
	}

	if e.Member != "" {
		b.WriteString(e.Member + ": ")
	}

	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)

	if e.Hint != "" {
		b.WriteString(" (hint: " + e.Hint + ")")
	}

	return b.String()
}

// Is reports whether target is an *Error with the same code. It lets callers
// write errors.Is(err, &diagnostic.Error{Code: diagnostic.CodeMissingDecoder}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Code == e.Code
}

// Flatten walks err (including errors.Join trees and wrapped errors) and
// returns every *Error found, in order.
func Flatten(err error) []*Error {
	if err == nil {
		return nil
	}

	if de, ok := err.(*Error); ok {
		return []*Error{de}
	}

	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		var out []*Error
		for _, e := range u.Unwrap() {
			out = append(out, Flatten(e)...)
		}

		return out
	case interface{ Unwrap() error }:
		return Flatten(u.Unwrap())
	}

	return nil
}

// Codes returns the codes of all diagnostics carried by err.
func Codes(err error) []Code {
	flat := Flatten(err)
	codes := make([]Code, 0, len(flat))

	for _, e := range flat {
		codes = append(codes, e.Code)
	}

	return codes
}

// HasCode reports whether err carries a diagnostic with the given code.
func HasCode(err error, code Code) bool {
	for _, c := range Codes(err) {
		if c == code {
			return true
		}
	}

	return false
}
