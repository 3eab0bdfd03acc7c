package backend

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// refreshMargin is how long before expiry a session is renewed
const refreshMargin = 30 * time.Second

type sessionPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	User         User   `json:"user"`
}

func (p *sessionPayload) toSession() *Session {
	return &Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    time.Unix(p.ExpiresAt, 0),
		User:         p.User,
	}
}

// GetSession returns the held session, renewing it first when it is about
// to expire. A nil session with a nil error means nobody is signed in.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	s := c.currentSession()
	if s == nil || time.Until(s.ExpiresAt) > refreshMargin {
		return s, nil
	}

	var payload sessionPayload
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/v1/refresh",
		json:      map[string]string{"refresh_token": s.RefreshToken},
		anonymous: true,
	}, &payload)
	if err != nil {
		var rejected *Error
		if errors.As(err, &rejected) {
			c.logger.Info("Session could not be renewed, signing out", zap.Error(err))
			c.setSession(EventSignedOut, nil)
			return nil, nil
		}
		return nil, err
	}

	renewed := payload.toSession()
	c.setSession(EventTokenRefreshed, renewed)
	return renewed, nil
}

// SignInWithPassword starts a session for email
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var payload sessionPayload
	err := c.do(ctx, request{
		method:    http.MethodPost,
		path:      "/auth/v1/token?grant_type=password",
		json:      map[string]string{"email": email, "password": password},
		anonymous: true,
	}, &payload)
	if err != nil {
		return nil, err
	}

	s := payload.toSession()
	c.setSession(EventSignedIn, s)
	return s, nil
}

// SignUp registers a new account. data is stored as user metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, data map[string]string) (*SignUpResult, error) {
	var payload struct {
		User    User            `json:"user"`
		Session *sessionPayload `json:"session"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		json: map[string]interface{}{
			"email":    email,
			"password": password,
			"data":     data,
		},
		anonymous: true,
	}, &payload)
	if err != nil {
		return nil, err
	}

	result := &SignUpResult{User: payload.User}
	if payload.Session != nil && payload.Session.AccessToken != "" {
		result.Session = payload.Session.toSession()
		c.setSession(EventSignedIn, result.Session)
	}
	return result, nil
}

// SignOut ends the session. The local session is dropped even when the
// backend could not be told.
func (c *Client) SignOut(ctx context.Context) error {
	s := c.currentSession()
	if s == nil {
		return nil
	}

	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		json:   map[string]string{"refresh_token": s.RefreshToken},
	}, nil)

	c.setSession(EventSignedOut, nil)
	return err
}
