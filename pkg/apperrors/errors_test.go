package apperrors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_MarshalHidesInternalError(t *testing.T) {
	appErr := Wrap(errors.New("pq: connection refused"), CodeInternalError, "system", "Internal server error", 500)

	raw, err := json.Marshal(appErr)
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "connection refused")
	assert.Contains(t, string(raw), `"code":"INTERNAL_ERROR"`)
}

func TestAppError_ErrorTypeSerialization(t *testing.T) {
	raw, err := json.Marshal(ErrKYCPending)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"errorType":"kyc_pending"`)

	raw, err = json.Marshal(ErrAccountBanned)
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "errorType")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("row not found")
	appErr := ErrNotFound(cause)

	assert.True(t, Is(appErr, cause))

	var target *AppError
	assert.True(t, As(appErr, &target))
	assert.Equal(t, CodeNotFound, target.Code)
}
