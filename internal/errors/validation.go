package errors

import (
	"fmt"
	"strings"
)

// FieldProblem is one rejected input field
type FieldProblem struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// ValidationBuilder collects field problems in the order they are found
type ValidationBuilder struct {
	problems []FieldProblem
}

// NewValidationBuilder returns an empty builder
func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{}
}

// Fieldf records a formatted problem for field
func (vb *ValidationBuilder) Fieldf(field, format string, args ...any) *ValidationBuilder {
	vb.problems = append(vb.problems, FieldProblem{Field: field, Problem: fmt.Sprintf(format, args...)})
	return vb
}

// RequiredField records a missing field
func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Fieldf(field, "is required")
}

// InvalidField records a field whose value is unusable
func (vb *ValidationBuilder) InvalidField(field, why string) *ValidationBuilder {
	return vb.Fieldf(field, "is invalid: %s", why)
}

// Build returns nil when nothing was recorded, otherwise an InvalidArgument
// listing every problem. The problems are also kept under the "fields" meta key.
func (vb *ValidationBuilder) Build() error {
	if len(vb.problems) == 0 {
		return nil
	}
	parts := make([]string, len(vb.problems))
	for i, p := range vb.problems {
		parts[i] = p.Field + " " + p.Problem
	}
	return InvalidArgumentf("validation failed: %s", strings.Join(parts, "; ")).
		WithMeta("fields", vb.problems)
}

// ValidateRequired records field when value is blank
func ValidateRequired(field, value string, vb *ValidationBuilder) {
	if strings.TrimSpace(value) == "" {
		vb.RequiredField(field)
	}
}

// ValidateRange records field when value falls outside [lo, hi]
func ValidateRange(field string, value, lo, hi int, vb *ValidationBuilder) {
	if value < lo || value > hi {
		vb.Fieldf(field, "must be between %d and %d", lo, hi)
	}
}
