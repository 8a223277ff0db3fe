package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyMiddlewareDisabled(t *testing.T) {
	t.Parallel()

	handler := apiKeyMiddleware("")(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/articles", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIKeyMiddlewareMissingKey(t *testing.T) {
	t.Parallel()

	handler := apiKeyMiddleware("secret")(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/articles", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyMiddlewareWrongKey(t *testing.T) {
	t.Parallel()

	handler := apiKeyMiddleware("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/articles", nil)
	req.Header.Set("X-API-Key", "wrong")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyMiddlewareValidKey(t *testing.T) {
	t.Parallel()

	handler := apiKeyMiddleware("secret")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/articles", nil)
	req.Header.Set("X-API-Key", "secret")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	healthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
