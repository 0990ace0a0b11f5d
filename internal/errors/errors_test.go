package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_ErrorInterface(t *testing.T) {
	var err error = NewNotFoundError("entity not found")
	assert.NotNil(t, err)
	assert.Equal(t, "entity not found", err.Error())
}

func TestNotFoundError_WrappedIsStillDetected(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewNotFoundError("order not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order not found", notFoundErr.Message)
}

func TestConflictError_IsConflictError(t *testing.T) {
	err := NewConflictError("cannot cancel order that is not pending")

	conflictErr, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "cannot cancel order that is not pending", conflictErr.Error())

	_, ok = IsConflictError(NewNotFoundError("x"))
	assert.False(t, ok)
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := NewInsufficientStockError("p-1", "iPhone 15 Pro", 2, 3)

	assert.Equal(t, "insufficient stock for iPhone 15 Pro. Available: 2, Requested: 3", err.Error())

	ise, ok := IsInsufficientStockError(fmt.Errorf("tx: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "p-1", ise.ProductID)
	assert.Equal(t, 2, ise.Available)
	assert.Equal(t, 3, ise.Requested)
}

func TestForbiddenAndDeadlockErrors(t *testing.T) {
	_, ok := IsForbiddenError(NewForbiddenError("forbidden"))
	assert.True(t, ok)

	de, ok := IsDeadlockError(NewDeadlockError("max retries exceeded"))
	assert.True(t, ok)
	assert.Equal(t, "max retries exceeded", de.Error())
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "email", Message: "invalid email"},
		{Field: "name", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
