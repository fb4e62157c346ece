// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"

	ErrCodeModelSchemaMismatch    ErrorCode = "MODEL_SCHEMA_MISMATCH"
	ErrCodeModelArtifactMissing   ErrorCode = "MODEL_ARTIFACT_MISSING"
	ErrCodeModelInvocationFailed  ErrorCode = "MODEL_INVOCATION_FAILED"
	ErrCodeModelTimeout           ErrorCode = "MODEL_TIMEOUT"
	ErrCodeReferenceDataLoad      ErrorCode = "REFERENCE_DATA_LOAD_FAILED"
	ErrCodeDatabaseConnectionFail ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
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
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewInputValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputValidationFailed,
		Message:   "Recommendation input is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewModelSchemaMismatchError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelSchemaMismatch,
		Message:   "Candidate columns do not match the model schema",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewModelArtifactMissingError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelArtifactMissing,
		Message:   "Model artifact could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewModelInvocationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelInvocationFailed,
		Message:   "Predictive model call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewModelTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelTimeout,
		Message:   "Predictive model call timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewReferenceDataLoadError(table string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReferenceDataLoad,
		Message:   "Reference data could not be loaded",
		Details:   fmt.Sprintf("table: %s, error: %s", table, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFail,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Retry Policy
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputValidationFailed:  "INPUT_VALIDATION_FAILED",
	ErrCodeModelSchemaMismatch:    "MODEL_SCHEMA_MISMATCH",
	ErrCodeModelArtifactMissing:   "MODEL_ARTIFACT_MISSING",
	ErrCodeModelInvocationFailed:  "MODEL_INVOCATION_FAILED",
	ErrCodeModelTimeout:           "MODEL_TIMEOUT",
	ErrCodeReferenceDataLoad:      "REFERENCE_DATA_LOAD_FAILED",
	ErrCodeDatabaseConnectionFail: "DATABASE_CONNECTION_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeModelInvocationFailed,
		ErrCodeReferenceDataLoad,
		ErrCodeDatabaseConnectionFail:
		return 3

	case ErrCodeModelTimeout, "TIMEOUT_ERROR":
		return 2

	case "EXTERNAL_SERVICE_ERROR":
		return 1

	default:
		return 0 // validation and schema errors never succeed on retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MODEL"):
		return "MODEL"
	case strings.Contains(codeStr, "REFERENCE") || strings.Contains(codeStr, "DATABASE"):
		return "DATA"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "TIMEOUT") || strings.Contains(codeStr, "EXTERNAL"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
