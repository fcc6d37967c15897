package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/books/12", "/books/{id}"},
		{"/books/12/reviews/sort", "/books/{id}"},
		{"/reviews/12", "/reviews/{id}"},
		{"/reviews/ratings/12", "/reviews/ratings/{id}"},
		{"/authors/3", "/authors/{id}"},
		{"/discounts/3", "/discounts/{id}"},
		{"/shop", "/shop"},
		{"/cart", "/cart"},
		{"/books/", "/books/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestRequestID(t *testing.T) {
	var fromContext string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.NotEmpty(t, fromContext)
	assert.Equal(t, fromContext, rec.Header().Get("X-Request-ID"))
}

func TestWithRequestLogger(t *testing.T) {
	base := slog.New(slog.NewTextHandler(httptest.NewRecorder().Body, nil))

	var got *slog.Logger
	handler := WithRequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetLogger(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/shop", nil))

	assert.NotNil(t, got)
	assert.NotEqual(t, slog.Default(), got, "the request logger must come from the context")
}

func TestGetLoggerFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	fallback := slog.New(slog.NewTextHandler(httptest.NewRecorder().Body, nil))
	assert.Equal(t, fallback, GetLogger(req.Context(), fallback))
	assert.Equal(t, slog.Default(), GetLogger(req.Context()))
}

func TestMetricsMiddleware(t *testing.T) {
	m := NewMetrics("chapters_test")

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart/items/5", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The scrape endpoint serves the recorded series
	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), "chapters_test_http_requests_total")
}
