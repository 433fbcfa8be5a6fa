package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/admin-console/internal/handler"
)

type fakeTokens map[string]string

func (f fakeTokens) ValidateToken(token string) (string, error) {
	id, ok := f[token]
	if !ok {
		return "", errors.New("unknown token")
	}
	return id, nil
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, handler.DoctorID(c))
	})
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := newEngine(NewAuthMiddleware(fakeTokens{"good": "d1"}).Authenticate())

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, "missing authorization header"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "invalid authorization format"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "invalid authorization format"},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, "invalid token"},
		{"valid", "Bearer good", http.StatusOK, "d1"},
		{"lower case scheme", "bearer good", http.StatusOK, "d1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			w := get(r, header)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := newEngine(NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2}).RateLimit())

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)

	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := newEngine(RequestID(), SecurityHeaders())

	w := get(r, nil)
	assert.NotEmpty(t, w.Header().Get(HeaderXRequestID))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	header := http.Header{}
	header.Set(HeaderXRequestID, "req-1")
	w = get(r, header)
	assert.Equal(t, "req-1", w.Header().Get(HeaderXRequestID))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/ping", func(c *gin.Context) { panic("boom") })

	w := get(r, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
