package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"lexron-admin/internal/config"

	"go.uber.org/zap"
)

// Client talks to the admin API over HTTP. It holds the current session and
// attaches its access token to every request.
type Client struct {
	baseURL    string
	publicKey  string
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.RWMutex
	session   *Session
	listeners map[int]func(AuthChange)
	nextID    int
}

// NewClient creates a client for the API described by cfg
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return NewClientWithHTTP(cfg, http.DefaultClient, logger)
}

// NewClientWithHTTP creates a client that sends requests through httpClient
func NewClientWithHTTP(cfg config.BackendConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		publicKey:  cfg.PublicKey,
		httpClient: httpClient,
		logger:     logger,
		listeners:  make(map[int]func(AuthChange)),
	}
}

// errorEnvelope mirrors the API's structured error body
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type request struct {
	method  string
	path    string
	body    io.Reader
	json    interface{}
	headers map[string]string
	// anonymous requests never carry the session token
	anonymous bool
}

func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	body := req.body
	if req.json != nil {
		payload, err := json.Marshal(req.json)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("apikey", c.publicKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.json != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	token := c.publicKey
	if !req.anonymous {
		if s := c.currentSession(); s != nil {
			token = s.AccessToken
		}
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		)
		return fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return &Error{Status: resp.StatusCode, Message: envelope.Error.Message}
	}

	message := strings.TrimSpace(string(raw))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: message}
}

func (c *Client) currentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// setSession replaces the held session and notifies every listener
func (c *Client) setSession(event AuthEvent, s *Session) {
	c.mu.Lock()
	c.session = s
	listeners := make([]func(AuthChange), 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	c.logger.Debug("Auth state changed", zap.String("event", string(event)))
	for _, l := range listeners {
		l(AuthChange{Event: event, Session: s})
	}
}

// OnAuthStateChange registers listener for every later sign-in, sign-out
// and token refresh
func (c *Client) OnAuthStateChange(listener func(AuthChange)) Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = listener

	return &subscription{unsubscribe: func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}}
}

type subscription struct {
	once        sync.Once
	unsubscribe func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.unsubscribe)
}
