package services

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = fmt.Errorf("user %w", errNotFoundSuffix)
	ErrNoteNotFound       = fmt.Errorf("note %w", errNotFoundSuffix)
	ErrTodoNotFound       = fmt.Errorf("todo %w", errNotFoundSuffix)
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserExists         = errors.New("username already taken")
	ErrInternal           = errors.New("internal server error")
)

var errNotFoundSuffix = notFound{}

// notFound lets the entity-specific errors read "note not found" while still matching ErrNotFound.
type notFound struct{}

func (notFound) Error() string { return "not found" }

func (notFound) Is(target error) bool { return target == ErrNotFound }
