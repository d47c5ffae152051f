package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects per-field problems.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Error lists fields in sorted order so messages are stable.
func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, strings.Join(v.Fields[name], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationError) Add(field, message string) {
	v.Fields[field] = append(v.Fields[field], message)
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// ToError converts the collected problems into an InvalidArgument error
// with the field map under the "fields" meta key.
func (v *ValidationError) ToError() *Error {
	if !v.HasErrors() {
		return nil
	}
	return InvalidArgument(v.Error()).WithMeta("fields", v.Fields)
}

// ValidationBuilder accumulates field errors fluently.
type ValidationBuilder struct {
	err *ValidationError
}

func NewValidationBuilder() *ValidationBuilder {
	return &ValidationBuilder{err: NewValidationError()}
}

func (vb *ValidationBuilder) Field(field, message string) *ValidationBuilder {
	vb.err.Add(field, message)
	return vb
}

func (vb *ValidationBuilder) Fieldf(field, format string, args ...any) *ValidationBuilder {
	return vb.Field(field, fmt.Sprintf(format, args...))
}

func (vb *ValidationBuilder) RequiredField(field string) *ValidationBuilder {
	return vb.Field(field, "is required")
}

func (vb *ValidationBuilder) InvalidField(field, reason string) *ValidationBuilder {
	return vb.Fieldf(field, "is invalid: %s", reason)
}

// RangeField records an error when value lies outside [lo, hi].
func (vb *ValidationBuilder) RangeField(field string, value, lo, hi int) *ValidationBuilder {
	if value < lo || value > hi {
		vb.Fieldf(field, "must be between %d and %d, got %d", lo, hi, value)
	}
	return vb
}

// FloatRangeField records an error when value lies outside [lo, hi].
func (vb *ValidationBuilder) FloatRangeField(field string, value, lo, hi float64) *ValidationBuilder {
	if value < lo || value > hi {
		vb.Fieldf(field, "must be between %g and %g, got %g", lo, hi, value)
	}
	return vb
}

func (vb *ValidationBuilder) HasErrors() bool {
	return vb.err.HasErrors()
}

// Build returns nil when nothing was recorded.
func (vb *ValidationBuilder) Build() error {
	if vb.err.HasErrors() {
		return vb.err.ToError()
	}
	return nil
}
