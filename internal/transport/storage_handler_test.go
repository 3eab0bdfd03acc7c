package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lexron-admin/internal/middleware"
	"lexron-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStorageRouter() http.Handler {
	storage := service.NewStorageServiceWithFs(afero.NewMemMapFs(), "http://localhost:8080/storage/v1/object/public")
	r := chi.NewRouter()
	NewStorageHandler(storage, zap.NewNop()).RegisterRoutes(r, passThrough)
	return r
}

func upload(h http.Handler, path string, body []byte, upsert bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "image/png")
	if upsert {
		req.Header.Set(middleware.UpsertHeader, "true")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStorageHandler_UploadThenDownload(t *testing.T) {
	router := newStorageRouter()

	w := upload(router, "/storage/v1/object/brands/logos/abc.png", []byte("\x89PNG-data"), false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var obj service.StoredObject
	require.NoError(t, json.NewDecoder(w.Body).Decode(&obj))
	assert.Equal(t, "brands/logos/abc.png", obj.Key)
	assert.Equal(t, "http://localhost:8080/storage/v1/object/public/brands/logos/abc.png", obj.PublicURL)

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/storage/v1/object/public/brands/logos/abc.png", nil))

	require.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "image/png", get.Header().Get("Content-Type"))
	body, _ := io.ReadAll(get.Body)
	assert.Equal(t, "\x89PNG-data", string(body))
}

func TestStorageHandler_DuplicateWithoutUpsert(t *testing.T) {
	router := newStorageRouter()

	require.Equal(t, http.StatusOK, upload(router, "/storage/v1/object/brands/logos/a.png", []byte("1"), false).Code)

	w := upload(router, "/storage/v1/object/brands/logos/a.png", []byte("2"), false)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "The resource already exists")

	assert.Equal(t, http.StatusOK, upload(router, "/storage/v1/object/brands/logos/a.png", []byte("2"), true).Code)
}

func TestStorageHandler_TooLarge(t *testing.T) {
	router := newStorageRouter()

	w := upload(router, "/storage/v1/object/brands/logos/big.png", []byte(strings.Repeat("x", MaxUploadSize+1)), true)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestStorageHandler_DownloadMissing(t *testing.T) {
	router := newStorageRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/storage/v1/object/public/brands/logos/none.png", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorageHandler_UploadGuarded(t *testing.T) {
	storage := service.NewStorageServiceWithFs(afero.NewMemMapFs(), "http://cdn")
	r := chi.NewRouter()
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
	NewStorageHandler(storage, zap.NewNop()).RegisterRoutes(r, deny)

	assert.Equal(t, http.StatusForbidden, upload(r, "/storage/v1/object/brands/logos/a.png", []byte("1"), false).Code)
}
