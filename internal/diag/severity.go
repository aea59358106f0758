// Package diag detects compiler diagnostics in build output and recovers the
// source path they point at.
package diag

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity selects which class of diagnostic a session reacts to.
type Severity int

const (
	Error Severity = iota
	Warning
)

// SeverityFor returns Warning when warnings should be treated as errors.
func SeverityFor(warningsAsErrors bool) Severity {
	if warningsAsErrors {
		return Warning
	}
	return Error
}

// Marker returns the literal substring that identifies the severity in a line.
// The surrounding spaces are part of the marker.
func (s Severity) Marker() string {
	switch s {
	case Warning:
		return " warning: "
	default:
		return " error: "
	}
}

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	default:
		return "error"
	}
}

// Title returns the severity name for status lines ("Error", "Warning").
func (s Severity) Title() string {
	return cases.Title(language.English).String(s.String())
}
