package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Configuration errors (1xxx)
	ErrCodeConfigNotFound ErrorCode = "RKPI1001"
	ErrCodeConfigInvalid  ErrorCode = "RKPI1002"
	ErrCodeConfigWrite    ErrorCode = "RKPI1003"

	// Input errors (2xxx)
	ErrCodeFileNotFound   ErrorCode = "RKPI2001"
	ErrCodeFilePermission ErrorCode = "RKPI2002"
	ErrCodeInputInvalid   ErrorCode = "RKPI2003"
	ErrCodeMissingColumn  ErrorCode = "RKPI2004"

	// Pipeline errors (3xxx)
	ErrCodePipelineAborted ErrorCode = "RKPI3001"
	ErrCodeStageFailed     ErrorCode = "RKPI3002"

	// Export errors (4xxx)
	ErrCodeExportFailed ErrorCode = "RKPI4001"
	ErrCodeSQLite       ErrorCode = "RKPI4002"

	// Scrape errors (5xxx)
	ErrCodeNetwork       ErrorCode = "RKPI5001"
	ErrCodeHTTPStatus    ErrorCode = "RKPI5002"
	ErrCodeBlocked       ErrorCode = "RKPI5003"
	ErrCodeRobotsDenied  ErrorCode = "RKPI5004"
	ErrCodeParse         ErrorCode = "RKPI5005"
	ErrCodeRateLimited   ErrorCode = "RKPI5006"
	ErrCodeNoListings    ErrorCode = "RKPI5007"
	ErrCodeServerFailure ErrorCode = "RKPI5008"

	// System errors (9xxx)
	ErrCodeInternal           ErrorCode = "RKPI9001"
	ErrCodeTimeout            ErrorCode = "RKPI9002"
	ErrCodeMaxRetriesExceeded ErrorCode = "RKPI9003"
	ErrCodeUserInput          ErrorCode = "RKPI9004"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // Run cannot continue
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Newf creates a new AppError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// Inherit context and recoverability from a wrapped AppError
	var ae *AppError
	if errors.As(err, &ae) {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
		appErr.Recoverable = ae.Recoverable
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'retailkpi run --help' for the list of flags",
		)
}

// InputError creates an error for an input table that cannot be loaded.
// Input errors are fatal: no stage can run without all three tables.
func InputError(table, path string, cause error) *AppError {
	code := ErrCodeInputInvalid
	var suggestions []string
	switch {
	case errors.Is(cause, fs.ErrNotExist):
		code = ErrCodeFileNotFound
		suggestions = append(suggestions,
			fmt.Sprintf("Check the inputs.%s path in your configuration", table),
			"Paths are resolved relative to the working directory",
		)
	case errors.Is(cause, fs.ErrPermission):
		code = ErrCodeFilePermission
	default:
		suggestions = append(suggestions, "Make sure the file is comma separated and has a header row")
	}
	return Wrap(cause, code, fmt.Sprintf("failed to load %s table", table)).
		WithContext("table", table).
		WithContext("path", path).
		WithSeverity(SeverityCritical).
		WithSuggestions(suggestions...)
}

// MissingColumnError reports a required column absent from a header row.
func MissingColumnError(table, column string) *AppError {
	return New(ErrCodeMissingColumn, fmt.Sprintf("%s table has no %q column", table, column)).
		WithContext("table", table).
		WithContext("column", column).
		WithSeverity(SeverityCritical).
		WithSuggestions("Rename the header or add the column to the CSV file")
}

// ValidationError creates a validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning)
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if ae, ok := err.(*AppError); ok && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
