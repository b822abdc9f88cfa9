// Package diagnostic collects the errors, warnings and notes produced while validating
// and compiling mapping files.
package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kevinseim/beanio-sub003/internal/common"
)

// Diagnostics holds all diagnostic information from validation and compilation.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Path locates the component, e.g. "stream 'orders': record 'header': field 'date'".
	Path string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
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

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, path, message string, suggestions ...string) {
	d.add(&d.Errors, DiagnosticError, code, path, message, suggestions)
}

// AddErrorf adds an error diagnostic with a formatted message.
func (d *Diagnostics) AddErrorf(code, path, format string, args ...any) {
	d.AddError(code, path, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, path, message string, suggestions ...string) {
	d.add(&d.Warnings, DiagnosticWarning, code, path, message, suggestions)
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, path, message string) {
	d.add(&d.Infos, DiagnosticInfo, code, path, message, nil)
}

func (d *Diagnostics) add(dst *[]Diagnostic, severity DiagnosticSeverity, code, path, message string, suggestions []string) {
	*dst = append(*dst, Diagnostic{
		Severity:    severity,
		Code:        code,
		Message:     message,
		Path:        path,
		Suggestions: suggestions,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns errors, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string: "path: [code] message (did you mean ...?)".
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + common.JoinQuoted(d.Suggestions) + "?)"
	}

	if d.Path != "" {
		return d.Path + ": " + msg
	}

	return msg
}
