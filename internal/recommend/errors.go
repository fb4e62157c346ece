// internal/recommend/errors.go
package recommend

import "errors"

var (
	ErrInvalidSelection = errors.New("INPUT_VALIDATION_FAILED")
	ErrSchemaMismatch   = errors.New("MODEL_SCHEMA_MISMATCH")
)
