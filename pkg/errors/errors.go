package errors

import "fmt"

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeAPIError   = "API_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeExport     = "EXPORT_ERROR"
)

type AppError struct {
	Message string
	Code    string
	Context map[string]any
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(message, code string, context map[string]any) *AppError {
	return &AppError{
		Message: message,
		Code:    code,
		Context: context,
	}
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// APIError reports a non-success response from an upstream HTTP API.
type APIError struct {
	*AppError
	StatusCode int
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		AppError: &AppError{
			Message: message,
			Code:    CodeAPIError,
			Context: context,
		},
		StatusCode: statusCode,
	}
}

// IsRetryable reports whether the upstream failure is worth another attempt.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

type ValidationError struct {
	*AppError
	Field string
	Value any
}

func NewValidationError(message, field string, value any) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message: message,
			Code:    CodeValidation,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message: message,
			Code:    CodeCache,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message: message,
			Code:    CodeService,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// ExportError wraps failures while writing an export file.
type ExportError struct {
	*AppError
	Path string
}

func NewExportError(message, path string, cause error) *ExportError {
	return &ExportError{
		AppError: &AppError{
			Message: message,
			Code:    CodeExport,
			Context: map[string]any{
				"path": path,
			},
			Cause: cause,
		},
		Path: path,
	}
}
