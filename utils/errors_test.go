package utils

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := InternalError("Payment creation failed", cause)

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Payment creation failed: connection refused", appErr.Error())
	assert.True(t, errors.Is(appErr, cause))
}

func TestAppErrorWithoutCause(t *testing.T) {
	appErr := NotFoundError("Order not found", nil)

	assert.Equal(t, "Order not found", appErr.Error())
	assert.Nil(t, appErr.Unwrap())
}

func TestGetAppError(t *testing.T) {
	appErr := ConflictError(ErrDuplicateEntry, nil)

	require.NotNil(t, GetAppError(appErr))
	assert.Nil(t, GetAppError(errors.New("plain error")))
	assert.Nil(t, GetAppError(nil))
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsNotFoundError(NotFoundError("Order not found", nil)))
	assert.False(t, IsNotFoundError(ConflictError(ErrDuplicateEntry, nil)))

	assert.True(t, IsConflictError(ConflictError(ErrDuplicateEntry, nil)))
	assert.False(t, IsConflictError(errors.New("plain error")))
}

func TestWrapError(t *testing.T) {
	cause := errors.New("record not found")
	wrapped := WrapError(cause, "loading order status")

	assert.Equal(t, "loading order status: record not found", wrapped.Error())
	assert.True(t, errors.Is(wrapped, cause))
	assert.Nil(t, WrapError(nil, "ignored"))
}
