package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("amount", "must be positive")
	assert.Equal(t, "amount: must be positive", err.Error())
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("saving edit: %w", err)))
	assert.False(t, IsValidation(errors.New("boom")))

	bare := &ValidationError{Reason: "nothing to save"}
	assert.Equal(t, "nothing to save", bare.Error())
}

func TestTransportError(t *testing.T) {
	withStatus := &TransportError{Op: "GET /transactions", Status: 502}
	assert.Equal(t, "GET /transactions: server returned 502", withStatus.Error())

	cause := errors.New("connection refused")
	noResponse := &TransportError{Op: "GET /transactions", Err: cause}
	assert.Equal(t, "GET /transactions: connection refused", noResponse.Error())
	assert.ErrorIs(t, noResponse, cause)
}

func TestAuthError(t *testing.T) {
	err := &AuthError{Op: "DELETE /transactions/7", Status: 403}
	assert.Equal(t, "DELETE /transactions/7: authentication rejected (403)", err.Error())
	assert.True(t, IsAuth(err))
	assert.True(t, IsAuth(fmt.Errorf("deleting: %w", err)))
	assert.False(t, IsAuth(&TransportError{Status: 500}))
}

func TestUserError(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := NewUserError("could not reach the server", cause)
	assert.Equal(t, "could not reach the server: dial tcp: timeout", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := NewUserError("nothing to import", nil)
	assert.Equal(t, "nothing to import", plain.Error())
}
