package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

// ErrorType represents different types of errors that can occur
type ErrorType int

const (
	ErrorTypeNotFound ErrorType = iota
	ErrorTypeInvalidArgument
	ErrorTypeAlreadyExists
	ErrorTypeFileSystem
	ErrorTypeConfig
	ErrorTypeWatcher
)

// String returns a string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNotFound:
		return "not found"
	case ErrorTypeInvalidArgument:
		return "invalid argument"
	case ErrorTypeAlreadyExists:
		return "already exists"
	case ErrorTypeFileSystem:
		return "filesystem"
	case ErrorTypeConfig:
		return "config"
	case ErrorTypeWatcher:
		return "watcher"
	default:
		return "unknown"
	}
}

// AppError represents a structured application error
type AppError struct {
	Type      ErrorType
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error in %s [%s]: %s", e.Type, e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports a missing path or a path of the wrong kind.
// It wraps fs.ErrNotExist.
func NewNotFoundError(operation, path, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeNotFound,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       fs.ErrNotExist,
	}
}

// NewInvalidArgumentError reports an argument the engine cannot act on.
// It wraps fs.ErrInvalid.
func NewInvalidArgumentError(operation, path, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeInvalidArgument,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       fs.ErrInvalid,
	}
}

// NewAlreadyExistsError reports a destination that is already taken.
// It wraps fs.ErrExist.
func NewAlreadyExistsError(operation, path, message string) *AppError {
	return &AppError{
		Type:      ErrorTypeAlreadyExists,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       fs.ErrExist,
	}
}

// NewFileSystemError creates a new filesystem error
func NewFileSystemError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeFileSystem,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(operation, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeConfig,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewWatcherError creates a new watcher error
func NewWatcherError(operation, path, message string, err error) *AppError {
	return &AppError{
		Type:      ErrorTypeWatcher,
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// IsNotFound reports whether err is a NotFound AppError or wraps fs.ErrNotExist.
func IsNotFound(err error) bool {
	return hasType(err, ErrorTypeNotFound) || stderrors.Is(err, fs.ErrNotExist)
}

// IsInvalidArgument reports whether err is an InvalidArgument AppError.
func IsInvalidArgument(err error) bool {
	return hasType(err, ErrorTypeInvalidArgument)
}

// IsAlreadyExists reports whether err is an AlreadyExists AppError or wraps fs.ErrExist.
func IsAlreadyExists(err error) bool {
	return hasType(err, ErrorTypeAlreadyExists) || stderrors.Is(err, fs.ErrExist)
}

func hasType(err error, t ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
