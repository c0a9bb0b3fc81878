package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies failures by how the dashboard reacts to them.
type Kind string

const (
	// KindConnectivity means the remote store was unreachable or refused the credentials.
	KindConnectivity Kind = "CONNECTIVITY"

	// KindSchema means fetched rows lack an expected column or hold a malformed value.
	KindSchema Kind = "SCHEMA"

	// KindModelLoad means the model artifact is missing or corrupt.
	KindModelLoad Kind = "MODEL_LOAD"

	// KindValidation means a caller passed an argument outside the contract.
	KindValidation Kind = "VALIDATION"
)

// AppError is an error tagged with a Kind.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

func NewConnectivityError(message string, err error) *AppError {
	return &AppError{Kind: KindConnectivity, Message: message, Err: err}
}

func NewSchemaError(message string) *AppError {
	return &AppError{Kind: KindSchema, Message: message}
}

func NewModelLoadError(message string, err error) *AppError {
	return &AppError{Kind: KindModelLoad, Message: message, Err: err}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// IsKind reports whether any error in err's chain is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// KindOf returns the Kind of the first AppError in err's chain, or "" if none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
