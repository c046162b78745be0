package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrDeveloperNotFound = errors.New("developer not found")
	ErrCompoundNotFound  = errors.New("compound not found")
	ErrAmenityNotFound   = errors.New("amenity not found")
	ErrDuplicateName     = errors.New("name already exists")
	ErrForbidden         = errors.New("not allowed to perform this action")
)

// ValidationError carries every violated field, not just the first one found.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}
