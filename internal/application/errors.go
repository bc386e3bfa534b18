package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested table or reservation does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConcurrentUpdate is returned when the floor changed underneath an operation.
	ErrConcurrentUpdate = errors.New("application: floor was modified concurrently")
)

// ValidationError maps request fields (first_name, guests, time, ...) to the
// message shown next to them. Nothing is written while one is returned.
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	fields := v.Fields()
	if len(fields) == 0 {
		return "invalid input"
	}
	return "invalid input: " + strings.Join(fields, ", ")
}

func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Fields lists the rejected fields in sorted order.
func (v *ValidationError) Fields() []string {
	if v == nil {
		return nil
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// add keeps the first message recorded for a field.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; exists {
		return
	}
	v.FieldErrors[field] = message
}
