package apperrors

import "errors"

// Common errors
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrNotLoggedIn        = errors.New("not logged in")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrPasswordsDiffer = errors.New("passwords don't match")
)

// Course errors
var (
	// ErrNoCourseVersion is returned by operations that need a saved version when the owner has none.
	ErrNoCourseVersion = errors.New("course could not be found")
	// ErrVersionNotFound is returned when a requested version index or id does not exist.
	ErrVersionNotFound = errors.New("course version not found")
	// ErrPositionOutOfRange is returned by positional accessors on the course aggregate.
	ErrPositionOutOfRange = errors.New("position out of range")
	// ErrMalformedCourse is returned when a course payload cannot be decoded.
	ErrMalformedCourse = errors.New("malformed course payload")
	// ErrItemRejected is returned when a learning outcome fails validation.
	ErrItemRejected = errors.New("item failed validation")
)

// Export and evaluation errors
var (
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrEvaluatorUnavailable = errors.New("evaluator unavailable")
)

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// Message returns the user facing message carried by err, or fallback.
func Message(err error, fallback string) string {
	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}
