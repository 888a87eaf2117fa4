package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced recipe/user/tag/ingredient
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a non-author tries to mutate a recipe.
	ErrForbidden = errors.New("forbidden")
	// ErrEdgeMissing is returned by DELETE on an absent favorite/cart/follow
	// edge. Handlers must translate it to a bare 400 with no error body.
	ErrEdgeMissing = errors.New("edge missing")
	// ErrBadToken is returned for malformed short-link tokens.
	ErrBadToken = errors.New("malformed short-link token")
)

// ValidationError is a field-tagged validation failure, rendered by the API
// layer as {"<field>": ["<message>"]} with status 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
