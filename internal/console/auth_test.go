package console

import (
	"context"
	"testing"

	"lexron-admin/internal/backend"

	"github.com/stretchr/testify/assert"
)

func TestSignUp_RegistersAdmin(t *testing.T) {
	auth := backend.NewMemoryAuth()

	res := SignUp(context.Background(), auth, " admin@lexron.io ", "hunter22")

	assert.True(t, res.SignedIn)
	s, err := auth.GetSession(context.Background())
	assert.NoError(t, err)
	if assert.NotNil(t, s) {
		assert.Equal(t, "admin", s.User.Role)
		assert.Equal(t, "admin@lexron.io", s.User.Email)
	}
}

func TestSignUp_WithoutSessionAsksForConfirmation(t *testing.T) {
	auth := backend.NewMemoryAuth()
	auth.RequireConfirmation = true

	res := SignUp(context.Background(), auth, "admin@lexron.io", "hunter22")

	assert.False(t, res.SignedIn)
	assert.Equal(t, ConfirmEmailMessage, res.Message)
}

func TestSignUp_DuplicateShowsBackendMessage(t *testing.T) {
	auth := backend.NewMemoryAuth()
	SignUp(context.Background(), auth, "admin@lexron.io", "hunter22")

	res := SignUp(context.Background(), auth, "admin@lexron.io", "hunter22")

	assert.Equal(t, AuthResult{Message: "User already registered"}, res)
}

func TestSignIn(t *testing.T) {
	auth := backend.NewMemoryAuth()
	auth.RequireConfirmation = true
	SignUp(context.Background(), auth, "admin@lexron.io", "hunter22")

	assert.Equal(t, AuthResult{Message: "Invalid login credentials"}, SignIn(context.Background(), auth, "admin@lexron.io", "wrong"))
	assert.Equal(t, AuthResult{Message: MissingFieldsMessage}, SignIn(context.Background(), auth, "", "hunter22"))
	assert.Equal(t, AuthResult{SignedIn: true}, SignIn(context.Background(), auth, "admin@lexron.io", "hunter22"))
}

func TestMessageOr_FallsBackOnEmptyMessage(t *testing.T) {
	assert.Equal(t, LoginFailedMessage, messageOr(&backend.Error{Status: 500}, LoginFailedMessage))
}
