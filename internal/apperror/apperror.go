// Package apperror defines the typed errors returned by the marketplace
// services. Each AppError wraps one sentinel so callers can branch with
// errors.Is while still showing a human-readable message.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSameStore         = errors.New("same store transfer")
)

type AppError struct {
	Err     error  // sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation, e.g. a duplicate email or store
// name. key is the value that collided.
func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized is returned for bad credentials and unknown session tokens.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

func InsufficientStock(available, requested int64) *AppError {
	return &AppError{
		Err:     ErrInsufficientStock,
		Message: fmt.Sprintf("insufficient stock: %d available, %d requested", available, requested),
		Field:   "quantity",
	}
}

func SameStoreTransfer(storeID int64) *AppError {
	return &AppError{
		Err:     ErrSameStore,
		Message: fmt.Sprintf("cannot transfer a product from store %d to itself", storeID),
	}
}
