package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error kinds. Every error returned by the services either wraps one of these
// or is a persistence failure that callers should treat as transient.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
)

var (
	ErrArticleNotFound  = fmt.Errorf("article %w", ErrNotFound)
	ErrDraftNotFound    = fmt.Errorf("draft %w", ErrNotFound)
	ErrPersonNotFound   = fmt.Errorf("person %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrNotAuthor        = fmt.Errorf("%w: requester is not the author", ErrForbidden)
	ErrAuthRequired     = fmt.Errorf("%w: authentication required", ErrUnauthorized)
	ErrAlreadyPublished = fmt.Errorf("%w: article is already published", ErrConflict)
)

// ValidationError collects every violated field of a request.
type ValidationError struct {
	Fields map[string][]string
}

// Add records a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	if e == nil {
		return false
	}
	return len(e.Fields[field]) > 0
}

// Err returns nil when nothing was recorded.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func requiredField(v *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "can't be blank")
	}
}
