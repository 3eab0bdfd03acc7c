package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lexron-admin/internal/config"
	"lexron-admin/internal/database"
	custommiddleware "lexron-admin/internal/middleware"
	"lexron-admin/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testKey    = "anon-key"
	testSecret = "server-test-secret"
)

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "0", Env: "test"},
		JWT:     config.JWTConfig{Secret: testSecret},
		Backend: config.BackendConfig{PublicKey: testKey},
	}
	storage := service.NewStorageServiceWithFs(afero.NewMemMapFs(), "http://localhost/storage/v1/object/public")

	srv := NewServerWithStorage(cfg, zap.NewNop(), database.Wrap(db), redisClient, storage)
	t.Cleanup(func() { srv.Close() })
	return srv, mock
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	claims := &service.Claims{
		UserID: uuid.New(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestHealth(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectPing()

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "up", health["status"])
}

func TestRest_RequiresKeyTokenAndAdmin(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name   string
		key    string
		token  string
		status int
	}{
		{"no api key", "", adminToken(t, "admin"), http.StatusUnauthorized},
		{"no token", testKey, "", http.StatusUnauthorized},
		{"not admin", testKey, adminToken(t, "user"), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/rest/v1/categories", nil)
			if tc.key != "" {
				req.Header.Set(custommiddleware.APIKeyHeader, tc.key)
			}
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRest_ListCategories(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT id, name, slug, description, created_at FROM categories ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "created_at"}).
			AddRow("c1", "Laptops", "laptops", nil, time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/rest/v1/categories?order=name.asc", nil)
	req.Header.Set(custommiddleware.APIKeyHeader, testKey)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Laptops")
	assert.NotEmpty(t, w.Header().Get("Server-Timing"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRest_UnknownTable(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/rest/v1/orders", nil)
	req.Header.Set(custommiddleware.APIKeyHeader, testKey)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorage_PublicDownloadNeedsNoKey(t *testing.T) {
	srv, _ := newTestServer(t)

	up := httptest.NewRequest(http.MethodPost, "/storage/v1/object/brands/logos/a.svg", bytes.NewReader([]byte("<svg/>")))
	up.Header.Set(custommiddleware.APIKeyHeader, testKey)
	up.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, up)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	get := httptest.NewRecorder()
	srv.Handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/storage/v1/object/public/brands/logos/a.svg", nil))

	assert.Equal(t, http.StatusOK, get.Code)
	assert.True(t, strings.HasPrefix(get.Header().Get("Content-Type"), "image/svg+xml"))
}

func TestAuth_SignUpRateLimitedPerClient(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.MatchExpectationsInOrder(false)

	// Bodies are invalid so no query runs; only the limiter is exercised
	var last int
	for i := 0; i <= custommiddleware.AuthRateLimit.RequestsPerWindow; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/v1/signup", strings.NewReader(`{}`))
		req.Header.Set(custommiddleware.APIKeyHeader, testKey)
		req.RemoteAddr = "10.1.1.1:1234"
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)
		last = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}
