package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerTimingMiddleware_WritesHeader(t *testing.T) {
	handler := ServerTimingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timing := StartTiming(r.Context(), "db", "select categories")
		timing.Stop()
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/rest/v1/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Server-Timing"), "db")
}

func TestStartTiming_NoopWithoutMiddleware(t *testing.T) {
	timing := StartTiming(context.Background(), "db", "")
	assert.NotPanics(t, timing.Stop)

	var nilTiming *Timing
	assert.NotPanics(t, nilTiming.Stop)
}
