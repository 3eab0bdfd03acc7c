package backend

import (
	"context"
	"errors"
	"io"
	"time"
)

// Query selects and orders the rows returned by Table.Select. Filters are
// equality matches keyed by column.
type Query struct {
	Order   string
	Desc    bool
	Filters map[string]string
}

// Table is one collection of the data API
type Table[T any] interface {
	Select(ctx context.Context, q Query) ([]T, error)
	// Insert stores record and returns the row as the backend echoed it
	Insert(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

// User is the signed-in identity
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the token pair held by a signed-in client
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// AuthEvent names what caused an auth state change
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// AuthChange is delivered to OnAuthStateChange listeners. Session is nil
// once signed out.
type AuthChange struct {
	Event   AuthEvent
	Session *Session
}

// Subscription releases an OnAuthStateChange listener
type Subscription interface {
	Unsubscribe()
}

// SignUpResult carries the new user and, when the backend signed them in
// immediately, their session
type SignUpResult struct {
	User    User
	Session *Session
}

// Auth is the authentication half of the backend
type Auth interface {
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(listener func(AuthChange)) Subscription
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, data map[string]string) (*SignUpResult, error)
	SignOut(ctx context.Context) error
}

// Storage is the object store half of the backend
type Storage interface {
	// Upload stores r under bucket/path and returns the object key.
	// Existing objects are replaced only when upsert is set.
	Upload(ctx context.Context, bucket, path string, r io.Reader, upsert bool) (string, error)
	PublicURL(bucket, path string) string
}

// Error is a failure reported by the backend itself. Message is the text
// the backend sent and is meant to be shown to the user as is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Message extracts the user-facing text of err
func Message(err error) string {
	var backendErr *Error
	if errors.As(err, &backendErr) {
		return backendErr.Message
	}
	return err.Error()
}
