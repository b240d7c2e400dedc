// Package errors provides standardized error handling for the intent
// dispatch pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Routing / classification
	ErrCodeClassificationFailed ErrorCode = "CLASSIFICATION_FAILED"

	// Parameter extraction
	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	ErrCodeSchemaInvalid    ErrorCode = "SCHEMA_INVALID"

	// Project context
	ErrCodeProjectContextRequired ErrorCode = "PROJECT_CONTEXT_REQUIRED"

	// Data source
	ErrCodeServiceFailed  ErrorCode = "SERVICE_FAILED"
	ErrCodeServiceTimeout ErrorCode = "SERVICE_TIMEOUT"

	// LLM capability
	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMRequestFailed   ErrorCode = "LLM_REQUEST_FAILED"
	ErrCodeComposeFailed      ErrorCode = "COMPOSE_FAILED"

	// Infrastructure
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeMemoryStoreFailed        ErrorCode = "MEMORY_STORE_FAILED"

	// Registration / catch-all
	ErrCodeDuplicateIntent ErrorCode = "DUPLICATE_INTENT"
	ErrCodeUnexpected      ErrorCode = "UNEXPECTED_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewClassificationError creates a routing error. Never surfaced to the
// user directly: the router falls back to the default intent instead.
func NewClassificationError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationFailed,
		Message:   "Intent classification failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionError creates a retryable parameter extraction error.
func NewExtractionError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Parameter extraction failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaInvalidError creates a non-retryable error for capability
// output that does not satisfy the intent's parameter schema.
func NewSchemaInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaInvalid,
		Message:   "Extraction result does not match parameter schema",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMissingParameterError creates a non-retryable error naming the
// parameter that is absent even after context fill.
func NewMissingParameterError(param string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingParameter,
		Message:   fmt.Sprintf("Required parameter '%s' is missing", param),
		Details:   fmt.Sprintf("parameter: %s", param),
		Retryable: false,
		Metadata:  map[string]interface{}{"parameter": param},
		Timestamp: time.Now().UTC(),
	}
}

// NewProjectContextRequiredError creates a non-retryable error for intents
// that need a selected project when none is available.
func NewProjectContextRequiredError(intent string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProjectContextRequired,
		Message:   "This action requires a selected project",
		Details:   fmt.Sprintf("intent: %s", intent),
		Retryable: false,
		Metadata:  map[string]interface{}{"intent": intent},
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceError creates a retryable data-source error.
func NewServiceError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceFailed,
		Message:   fmt.Sprintf("Data source '%s' query failed", source),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceTimeoutError creates a retryable data-source timeout error.
func NewServiceTimeoutError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceTimeout,
		Message:   fmt.Sprintf("Data source '%s' timeout", source),
		Details:   "query exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM capability timeout error.
func NewLLMTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Language model call timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMRequestError creates a retryable LLM capability error.
func NewLLMRequestError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMRequestFailed,
		Message:   "Language model call failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewComposeError creates a retryable answer composition error.
func NewComposeError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeComposeFailed,
		Message:   "Answer composition failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMemoryStoreError creates a retryable conversation store error.
func NewMemoryStoreError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMemoryStoreFailed,
		Message:   "Conversation store operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateIntentError creates a non-retryable registration error.
// Double registration indicates a packaging bug, not a runtime condition.
func NewDuplicateIntentError(category string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateIntent,
		Message:   fmt.Sprintf("Intent '%s' is already registered", category),
		Details:   fmt.Sprintf("category: %s", category),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnexpectedError wraps anything uncaught at the handler boundary.
func NewUnexpectedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnexpected,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError extracts a *StandardError from err, wrapping anything
// else as an unexpected error so callers always get a coded error.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewUnexpectedError(err)
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// UserMessage maps an error to text safe to show the end user. Underlying
// causes stay in logs, never in the response body.
func UserMessage(err error) string {
	stdErr := AsStandardError(err)
	switch stdErr.Code {
	case ErrCodeMissingParameter:
		if p, ok := stdErr.Metadata["parameter"].(string); ok {
			return fmt.Sprintf("Não consegui identificar o parâmetro '%s' na sua pergunta. Pode reformular incluindo essa informação?", p)
		}
		return "Não consegui identificar todas as informações necessárias. Pode reformular a pergunta?"
	case ErrCodeProjectContextRequired:
		return "Esta ação precisa de um projeto selecionado. Selecione um projeto primeiro (ex: 'selecionar projeto Delta')."
	case ErrCodeExtractionFailed, ErrCodeSchemaInvalid:
		return "Desculpe, não consegui entender a sua pergunta. Pode reformular?"
	case ErrCodeServiceFailed, ErrCodeServiceTimeout:
		return "Desculpe, não consegui consultar os dados agora. Tente novamente em instantes."
	default:
		return "Desculpe, ocorreu um erro ao processar a sua pergunta."
	}
}
