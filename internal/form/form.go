// Package form implements the modal dynamic-form path: an ad hoc ordered
// list of labeled fields whose collected values are serialized as
// "label: value" lines and spliced into the triggering surface.
//
// This path shares the surface contract with trigger expansion but
// bypasses variable resolution and template wrapping entirely.
package form

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by form validation.
var (
	ErrNoFields      = errors.New("form has no fields")
	ErrRequiredEmpty = errors.New("required field is empty")
)

// Kind is a field input type.
type Kind string

// Field kinds.
const (
	KindText      Kind = "text"
	KindMultiline Kind = "multiline"
	KindChoice    Kind = "choice"
	KindBoolean   Kind = "boolean"
	KindDate      Kind = "date"
)

// Field is one labeled entry in a dynamic form.
type Field struct {
	Label    string
	Kind     Kind
	Required bool
	Options  []string // Choice fields only
	Value    string   // Collected value
}

// ValidationError reports which field failed validation.
type ValidationError struct {
	Label string
	Err   error
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Label, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Form is an ordered list of fields.
type Form struct {
	fields []Field
}

// New creates an empty form.
func New() *Form {
	return &Form{}
}

// Add appends a field and returns the form for chaining.
func (f *Form) Add(field Field) *Form {
	f.fields = append(f.fields, field)
	return f
}

// Fields returns the fields in order.
func (f *Form) Fields() []Field {
	return f.fields
}

// SetValue sets the collected value of the field at index i.
func (f *Form) SetValue(i int, value string) {
	if i >= 0 && i < len(f.fields) {
		f.fields[i].Value = value
	}
}

// Validate checks that the form is non-empty and every required field
// carries a non-empty value.
func (f *Form) Validate() error {
	if len(f.fields) == 0 {
		return ErrNoFields
	}

	for _, field := range f.fields {
		if field.Required && strings.TrimSpace(field.Value) == "" {
			return &ValidationError{Label: field.Label, Err: ErrRequiredEmpty}
		}
	}

	return nil
}

// Serialize renders the collected values as one "label: value" line per
// field, in field order, with labels lowercased.
func (f *Form) Serialize() string {
	var sb strings.Builder
	for i, field := range f.fields {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.ToLower(field.Label))
		sb.WriteString(": ")
		sb.WriteString(field.Value)
	}
	return sb.String()
}
