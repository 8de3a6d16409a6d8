package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Unexpected failures (persistence, cache, encoding)
	ErrInternal = errors.New("internal error")
)

// Schedule errors
var (
	ErrScheduleConflict = errors.New("schedule conflict")
	ErrInvalidSlot      = errors.New("invalid schedule slot")
	ErrNoActiveTerm     = errors.New("no active term")
	ErrDuplicateSlot    = errors.New("duplicate slot in schedule")
)

// Entity errors
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrClassNotFound        = errors.New("class not found")
	ErrTermNotFound         = errors.New("term not found")
	ErrAcademicYearNotFound = errors.New("academic year not found")
	ErrAlreadyEnrolled      = errors.New("student already enrolled in course")
)

// Kind classifies an error for the caller. Every error produced by the
// services maps to exactly one kind.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindPermission
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	default:
		return "internal"
	}
}

// KindOf reports the kind of err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case Is(err, ErrValidationFailed, ErrBadRequest, ErrInvalidSlot, ErrNoActiveTerm, ErrDuplicateSlot):
		return KindValidation
	case Is(err, ErrConflict, ErrScheduleConflict, ErrResourceAlreadyExists, ErrAlreadyEnrolled):
		return KindConflict
	case Is(err, ErrResourceNotFound, ErrCourseNotFound, ErrTeacherNotFound, ErrStudentNotFound,
		ErrClassNotFound, ErrTermNotFound, ErrAcademicYearNotFound):
		return KindNotFound
	case Is(err, ErrPermissionDenied, ErrTokenExpired, ErrTokenInvalid):
		return KindPermission
	default:
		return KindInternal
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewNotFoundError wraps one of the entity sentinels with a message
func NewNotFoundError(sentinel error, message string) error {
	return &CustomError{
		Err:     sentinel,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewScheduleConflictError creates a schedule conflict error. details carries
// the full conflict list so callers can report beyond the first message.
func NewScheduleConflictError(message string, details map[string]interface{}) error {
	return &CustomError{
		Err:     ErrScheduleConflict,
		Message: message,
		Code:    "SCHEDULE_CONFLICT",
		Details: details,
	}
}

// NewValidationError creates a validation error wrapping sentinel
func NewValidationError(sentinel error, message string) error {
	if sentinel == nil {
		sentinel = ErrValidationFailed
	}
	return &CustomError{
		Err:     sentinel,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewInternalError hides cause behind a generic message. The cause stays
// reachable through Cause for logging.
func NewInternalError(message string, cause error) error {
	return &CustomError{
		Err:     ErrInternal,
		Message: message,
		cause:   cause,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}

	cause error
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

// Cause returns the underlying failure of an internal error, if any
func (e *CustomError) Cause() error {
	return e.cause
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusMsg adds a user-friendly status message
func (e *CustomError) WithStatusMsg(msg string) *CustomError {
	e.StatusMsg = msg
	return e
}

// Details extracts the details map of a CustomError anywhere in err's chain
func Details(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}

// Message returns the user-facing message of err
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
