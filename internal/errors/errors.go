package errors

import "fmt"

// Error codes
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeStorage      = "STORAGE_ERROR"
	ErrCodeConnectivity = "CONNECTIVITY_ERROR"
	ErrCodeGeneration   = "GENERATION_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "CONNECTIVITY_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewStorageError creates a new STORAGE_ERROR for a failed local store
// operation. Write failures are logged and swallowed at the history
// facade; read and delete failures carry this error to the caller.
func NewStorageError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeStorage,
		Message: fmt.Sprintf("storage operation %s failed", op),
		Status:  500,
		Err:     err,
	}
}

// NewConnectivityError creates a new CONNECTIVITY_ERROR for an unreachable
// remote collaborator. The caller decides whether to retry.
func NewConnectivityError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeConnectivity,
		Message: "remote store unreachable",
		Status:  503,
		Err:     err,
	}
}

// NewGenerationError creates a new GENERATION_ERROR for empty or malformed
// output from the quiz-generation collaborator.
func NewGenerationError(reason string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeGeneration,
		Message: fmt.Sprintf("quiz generation failed: %s", reason),
		Status:  502,
		Err:     err,
	}
}
