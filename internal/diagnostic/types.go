package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"collection-generator/internal/common"
)

// Diagnostics holds all diagnostic information from a compilation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is the taxonomy entry for this diagnostic.
	Code Code
	// Message is the human-readable description.
	Message string
	// Subject identifies which declaration or type this relates to (if any).
	Subject string
	// Member identifies which field or property this relates to (if any).
	Member string
	// Hint is a remediation suggestion.
	Hint string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add records err as error diagnostics. Joined errors are flattened so every
// *Error becomes its own entry; plain errors are kept with CodeUnknown.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}

	flat := Flatten(err)
	if len(flat) == 0 {
		d.Errors = append(d.Errors, Diagnostic{
			Severity: DiagnosticError,
			Code:     CodeUnknown,
			Message:  err.Error(),
		})

		return
	}

	for _, e := range flat {
		d.Errors = append(d.Errors, Diagnostic{
			Severity: DiagnosticError,
			Code:     e.Code,
			Message:  e.Message,
			Subject:  e.Subject,
			Member:   e.Member,
			Hint:     e.Hint,
		})
	}
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(message, subject, member string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Message:  message,
		Subject:  subject,
		Member:   member,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Err returns all error diagnostics joined into one error, or nil if valid.
// Each part is an *Error, so callers can inspect it with Flatten or errors.As.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	errs := make([]error, 0, len(d.Errors))
	for _, e := range d.Errors {
		errs = append(errs, &Error{
			Code:    e.Code,
			Subject: e.Subject,
			Member:  e.Member,
			Message: e.Message,
			Hint:    e.Hint,
		})
	}

	return errors.Join(errs...)
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Subject != "" {
		prefix = append(prefix, "["+d.Subject+"]")
	}

	if d.Member != "" {
		prefix = append(prefix, d.Member)
	}

	msg := d.Message
	if d.Code != CodeUnknown {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
