package console

import (
	"context"
	"strings"

	"lexron-admin/internal/backend"
)

const (
	ConfirmEmailMessage       = "Please check your email for a confirmation link."
	LoginFailedMessage        = "Invalid credentials."
	RegistrationFailedMessage = "An error occurred during registration."
	MissingFieldsMessage      = "Email and password are required."
)

// AuthResult is the outcome of a login or registration form. Message is
// shown on the form when the admin was not signed in.
type AuthResult struct {
	SignedIn bool
	Message  string
}

func blankCredentials(email, password string) bool {
	return strings.TrimSpace(email) == "" || password == ""
}

// SignIn submits the login form
func SignIn(ctx context.Context, auth backend.Auth, email, password string) AuthResult {
	if blankCredentials(email, password) {
		return AuthResult{Message: MissingFieldsMessage}
	}

	if _, err := auth.SignInWithPassword(ctx, strings.TrimSpace(email), password); err != nil {
		return AuthResult{Message: messageOr(err, LoginFailedMessage)}
	}
	return AuthResult{SignedIn: true}
}

// SignUp submits the registration form. Accounts are registered as admins.
func SignUp(ctx context.Context, auth backend.Auth, email, password string) AuthResult {
	if blankCredentials(email, password) {
		return AuthResult{Message: MissingFieldsMessage}
	}

	result, err := auth.SignUp(ctx, strings.TrimSpace(email), password, map[string]string{"role": "admin"})
	if err != nil {
		return AuthResult{Message: messageOr(err, RegistrationFailedMessage)}
	}
	if result.Session == nil {
		return AuthResult{Message: ConfirmEmailMessage}
	}
	return AuthResult{SignedIn: true}
}

func messageOr(err error, fallback string) string {
	if msg := backend.Message(err); msg != "" {
		return msg
	}
	return fallback
}
