package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors - centralized error taxonomy
var (
	// ErrConfiguration marks invalid model parameters, distribution bounds or
	// unknown pathogen/model/route names. Raised at construction, never deferred.
	ErrConfiguration = errors.New("configuration error")

	// ErrPrecondition marks an operation invoked before required state was set.
	ErrPrecondition = errors.New("precondition failed")

	// ErrValidation marks out-of-range inputs caught at a call boundary.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks lookups of unknown records.
	ErrNotFound = errors.New("resource not found")

	// Unknown pathogen and model names are both configuration errors and
	// failed lookups.
	ErrPathogenNotFound = fmt.Errorf("%w: %w: pathogen", ErrConfiguration, ErrNotFound)
	ErrModelNotFound    = fmt.Errorf("%w: %w: dose-response model", ErrConfiguration, ErrNotFound)
)

// Error constructors with context
func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

func NewPreconditionError(operation string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrPrecondition, operation, reason)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrValidation, field, reason)
}

// NewPathogenNotFoundError lists the available names so callers can present them.
func NewPathogenNotFoundError(name string, available []string) error {
	sorted := append([]string(nil), available...)
	sort.Strings(sorted)
	return fmt.Errorf("%w %q (available: %s)", ErrPathogenNotFound, name, strings.Join(sorted, ", "))
}

func NewModelNotFoundError(pathogen, model string, available []string) error {
	sorted := append([]string(nil), available...)
	sort.Strings(sorted)
	return fmt.Errorf("%w %q for pathogen %q (available: %s)", ErrModelNotFound, model, pathogen, strings.Join(sorted, ", "))
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrPrecondition)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ValidationIssue is a single failed boundary check.
type ValidationIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationReport collects every failed check of a parameter batch so the
// caller sees all problems at once.
type ValidationReport struct {
	Issues []ValidationIssue `json:"issues"`
}

// Add records an issue.
func (r *ValidationReport) Add(field, reason string) {
	r.Issues = append(r.Issues, ValidationIssue{Field: field, Reason: reason})
}

// Check records an issue when ok is false.
func (r *ValidationReport) Check(ok bool, field, reason string) {
	if !ok {
		r.Add(field, reason)
	}
}

// Merge appends the issues of another report, prefixing field names.
func (r *ValidationReport) Merge(prefix string, other *ValidationReport) {
	if other == nil {
		return
	}
	for _, issue := range other.Issues {
		field := issue.Field
		if prefix != "" {
			field = prefix + "." + field
		}
		r.Add(field, issue.Reason)
	}
}

// MergeErr folds err into the report: a ValidationFailure contributes its
// issues, any other error becomes a single issue under prefix.
func (r *ValidationReport) MergeErr(prefix string, err error) {
	if err == nil {
		return
	}
	var failure *ValidationFailure
	if errors.As(err, &failure) {
		r.Merge(prefix, &failure.Report)
		return
	}
	r.Add(prefix, err.Error())
}

// HasIssues reports whether any check failed.
func (r *ValidationReport) HasIssues() bool {
	return len(r.Issues) > 0
}

// Err returns nil when the report is clean, otherwise a single error wrapping
// ErrValidation that names every issue.
func (r *ValidationReport) Err() error {
	if !r.HasIssues() {
		return nil
	}
	return &ValidationFailure{Report: *r}
}

// ValidationFailure is the aggregated error produced by ValidationReport.Err.
type ValidationFailure struct {
	Report ValidationReport
}

func (e *ValidationFailure) Error() string {
	parts := make([]string, len(e.Report.Issues))
	for i, issue := range e.Report.Issues {
		parts[i] = issue.Field + ": " + issue.Reason
	}
	return fmt.Sprintf("%s (%d issues): %s", ErrValidation, len(parts), strings.Join(parts, "; "))
}

func (e *ValidationFailure) Unwrap() error {
	return ErrValidation
}
