// Package errors defines the error taxonomy shared by the loader, the batch
// processor and the tool server.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	// ErrorTypeDecode means the bytes were read but are not a decodable image.
	// Recoverable: the image contributes zero crops.
	ErrorTypeDecode ErrorType = "decode"

	// ErrorTypeUnreadable means the source bytes could not be read at all.
	ErrorTypeUnreadable ErrorType = "unreadable"

	// ErrorTypeProcessing means detection, cropping or writing failed for one
	// image after it was decoded.
	ErrorTypeProcessing ErrorType = "processing"

	// ErrorTypeValidation means invalid configuration or arguments.
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound means a named tool, file or directory does not exist
	// or holds nothing to process.
	ErrorTypeNotFound ErrorType = "not_found"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new decode error
func NewDecodeError(path string, cause error) *AppError {
	return &AppError{Type: ErrorTypeDecode, Message: "failed to decode image", Path: path, Cause: cause}
}

// NewUnreadableError creates a new unreadable-source error
func NewUnreadableError(path string, cause error) *AppError {
	return &AppError{Type: ErrorTypeUnreadable, Message: "failed to read image", Path: path, Cause: cause}
}

// NewProcessingError creates a new processing error
func NewProcessingError(message, path string, cause error) *AppError {
	return &AppError{Type: ErrorTypeProcessing, Message: message, Path: path, Cause: cause}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, Cause: cause}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message, path string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message, Path: path}
}

// IsType checks whether err, or any error it wraps, is an AppError of the
// given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// TypeOf returns the type of the first AppError in err's chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
