package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"model invocation", ErrCodeModelInvocationFailed, 3},
		{"reference data", ErrCodeReferenceDataLoad, 3},
		{"database", ErrCodeDatabaseConnectionFail, 3},
		{"model timeout", ErrCodeModelTimeout, 2},
		{"input validation", ErrCodeInputValidationFailed, 0},
		{"schema mismatch", ErrCodeModelSchemaMismatch, 0},
		{"artifact missing", ErrCodeModelArtifactMissing, 0},
		{"internal", ErrCodeInternal, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetRetryCount(tt.code))
			assert.Equal(t, tt.want > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	t.Run("retryable error keeps policy retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewModelInvocationFailedError(fmt.Errorf("connection reset")))

		assert.Equal(t, "MODEL_INVOCATION_FAILED", bpmn.Code)
		assert.Equal(t, 3, bpmn.Retries)
		assert.True(t, bpmn.Retryable)
		assert.Equal(t, "MODEL_INVOCATION_FAILED", bpmn.ErrorVariables["originalErrorCode"])

		vars := bpmn.ToErrorVariables()
		assert.Equal(t, "MODEL_INVOCATION_FAILED", vars["errorCode"])
		assert.Equal(t, "connection reset", vars["errorDetails"])
	})

	t.Run("non-retryable error has no retries", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewModelSchemaMismatchError("missing column GENDER"))

		assert.Equal(t, "MODEL_SCHEMA_MISMATCH", bpmn.Code)
		assert.Zero(t, bpmn.Retries)
		assert.False(t, bpmn.Retryable)
	})

	t.Run("unmapped code passes through", func(t *testing.T) {
		bpmn := ConvertToBPMNError(NewExternalServiceError("zeebe", fmt.Errorf("unavailable")))

		assert.Equal(t, "EXTERNAL_SERVICE_ERROR", bpmn.Code)
		assert.Equal(t, 1, bpmn.Retries)
	})
}

func TestNormalize(t *testing.T) {
	t.Run("wrapped standard error is unwrapped", func(t *testing.T) {
		orig := NewReferenceDataLoadError("attractions", fmt.Errorf("timeout"))
		wrapped := fmt.Errorf("load dataset: %w", orig)

		got := Normalize(wrapped)
		require.NotNil(t, got)
		assert.Same(t, orig, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := Normalize(stderrors.New("boom"))

		assert.Equal(t, ErrCodeInternal, got.Code)
		assert.Equal(t, "boom", got.Details)
		assert.False(t, got.Retryable)
	})
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "MODEL", GetErrorCategory(ErrCodeModelTimeout))
	assert.Equal(t, "DATA", GetErrorCategory(ErrCodeReferenceDataLoad))
	assert.Equal(t, "DATA", GetErrorCategory(ErrCodeDatabaseConnectionFail))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.Equal(t, "INFRASTRUCTURE", GetErrorCategory("TIMEOUT_ERROR"))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
