package models

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorValidation carries every field problem found for a request.
type ErrorValidation struct {
	Message string
	Fields  map[string][]string
}

func NewValidationError(message string) *ErrorValidation {
	return &ErrorValidation{Message: message, Fields: map[string][]string{}}
}

func (e *ErrorValidation) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ErrorValidation) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when no field errors were collected.
func (e *ErrorValidation) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return *e
}

func (e ErrorValidation) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	if len(parts) == 0 {
		return e.Message
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string { return e.Message }

type ErrorInternalServer struct {
	Message string
}

func (e ErrorInternalServer) Error() string { return e.Message }

// FieldError is a shortcut for a single-field validation failure.
func FieldError(message, field, fieldMessage string) error {
	v := NewValidationError(message)
	v.Add(field, fieldMessage)
	return *v
}
