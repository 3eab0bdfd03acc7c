package backend

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryAuth is an Auth kept in process. Accounts registered through SignUp
// can sign in afterwards. With RequireConfirmation set, SignUp returns no
// session, as a backend that mails confirmation links would.
type MemoryAuth struct {
	mu        sync.Mutex
	accounts  map[string]memoryAccount
	session   *Session
	listeners map[int]func(AuthChange)
	nextID    int

	RequireConfirmation bool
	Err                 error
}

type memoryAccount struct {
	password string
	user     User
}

func NewMemoryAuth() *MemoryAuth {
	return &MemoryAuth{
		accounts:  make(map[string]memoryAccount),
		listeners: make(map[int]func(AuthChange)),
	}
}

func (a *MemoryAuth) GetSession(context.Context) (*Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return nil, a.Err
	}
	return a.session, nil
}

func (a *MemoryAuth) OnAuthStateChange(listener func(AuthChange)) Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners[id] = listener

	return &subscription{unsubscribe: func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}}
}

// Listeners reports how many subscriptions are live
func (a *MemoryAuth) Listeners() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.listeners)
}

// Emit sets the session and notifies listeners as the backend would
func (a *MemoryAuth) Emit(event AuthEvent, s *Session) {
	a.mu.Lock()
	a.session = s
	listeners := make([]func(AuthChange), 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		l(AuthChange{Event: event, Session: s})
	}
}

func (a *MemoryAuth) SignInWithPassword(_ context.Context, email, password string) (*Session, error) {
	a.mu.Lock()
	if a.Err != nil {
		a.mu.Unlock()
		return nil, a.Err
	}
	account, ok := a.accounts[email]
	a.mu.Unlock()

	if !ok || account.password != password {
		return nil, &Error{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}

	s := newMemorySession(account.user)
	a.Emit(EventSignedIn, s)
	return s, nil
}

func (a *MemoryAuth) SignUp(_ context.Context, email, password string, data map[string]string) (*SignUpResult, error) {
	a.mu.Lock()
	if a.Err != nil {
		a.mu.Unlock()
		return nil, a.Err
	}
	if _, exists := a.accounts[email]; exists {
		a.mu.Unlock()
		return nil, &Error{Status: http.StatusConflict, Message: "User already registered"}
	}

	role := "user"
	if data["role"] == "admin" {
		role = "admin"
	}
	user := User{ID: uuid.NewString(), Email: email, Role: role}
	a.accounts[email] = memoryAccount{password: password, user: user}
	confirm := a.RequireConfirmation
	a.mu.Unlock()

	result := &SignUpResult{User: user}
	if !confirm {
		result.Session = newMemorySession(user)
		a.Emit(EventSignedIn, result.Session)
	}
	return result, nil
}

func (a *MemoryAuth) SignOut(context.Context) error {
	a.mu.Lock()
	err := a.Err
	a.mu.Unlock()

	a.Emit(EventSignedOut, nil)
	return err
}

func newMemorySession(user User) *Session {
	return &Session{
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         user,
	}
}

// MemoryStorage is a Storage kept in process
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	BaseURL string
	Err     error
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte), BaseURL: baseURL}
}

func (s *MemoryStorage) Upload(ctx context.Context, bucket, path string, r io.Reader, upsert bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}

	key := bucket + "/" + path
	if _, exists := s.objects[key]; exists && !upsert {
		return "", &Error{Status: http.StatusConflict, Message: "The resource already exists"}
	}
	s.objects[key] = buf.Bytes()
	return key, nil
}

// Object returns the stored bytes of bucket/path
func (s *MemoryStorage) Object(bucket, path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[bucket+"/"+path]
	return b, ok
}

func (s *MemoryStorage) PublicURL(bucket, path string) string {
	return s.BaseURL + "/" + bucket + "/" + path
}
