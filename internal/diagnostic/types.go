package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"visitorgen/internal/common"
)

// Stable diagnostic codes used across the pipeline.
const (
	CodeBadTargetSyntax      = "bad_target_syntax"
	CodeBadVisitorSyntax     = "bad_visitor_syntax"
	CodeNameInference        = "name_inference"
	CodeUnknownType          = "unknown_type"
	CodeDuplicateTarget      = "duplicate_target"
	CodeVisitorModeConflict  = "visitor_mode_conflict"
	CodeUnresolvedCapability = "unresolved_capability"
	CodeUnionAmbiguous       = "union_ambiguous"
	CodeMapMutate            = "map_mutate"
	CodeEmptyGroup           = "empty_group"
	CodeSkippedField         = "skipped_field"
	CodeDriveLeaf            = "drive_leaf"
)

// Diagnostics accumulates problems found while normalizing configuration and
// building plans. One bad entry must not abort its siblings, so builders add
// here and keep going.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a stable identifier for this kind of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Subject identifies the configuration unit this relates to, such as a
	// visitor name or a group name (if any).
	Subject string
	// Path identifies the configuration entry or field path within the
	// subject (if any), e.g. "targets[2]" or "Node.Next".
	Path string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, subject, path string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Subject:  subject,
		Path:     path,
	})
}

// AddErrorWithSuggestions adds an error diagnostic carrying candidate fixes.
func (d *Diagnostics) AddErrorWithSuggestions(code, message, subject, path string, suggestions []string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity:    SeverityError,
		Code:        code,
		Message:     message,
		Subject:     subject,
		Path:        path,
		Suggestions: suggestions,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, subject, path string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Subject:  subject,
		Path:     path,
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

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Subject != "" {
		prefix = append(prefix, "["+d.Subject+"]")
	}

	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
