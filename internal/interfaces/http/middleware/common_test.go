package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
)

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func corsRequest(router http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORSWithConfig(t *testing.T) {
	t.Run("default config sets no CORS headers", func(t *testing.T) {
		w := corsRequest(newCORSRouter(DefaultCORSConfig()), http.MethodGet, "https://evil.example")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allows listed origin with credentials", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://book.example", "https://admin.example"}
		w := corsRequest(newCORSRouter(cfg), http.MethodGet, "https://admin.example")

		assert.Equal(t, "https://admin.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
		assert.Equal(t, "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining", w.Header().Get("Access-Control-Expose-Headers"))
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("ignores unlisted origin", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://book.example"}
		w := corsRequest(newCORSRouter(cfg), http.MethodGet, "https://evil.example")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard never sends credentials", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"*"}
		w := corsRequest(newCORSRouter(cfg), http.MethodGet, "https://any.example")

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight answers 204 for allowed and disallowed origins", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://book.example"}
		cfg.MaxAge = 90 * time.Second
		router := newCORSRouter(cfg)

		allowed := corsRequest(router, http.MethodOptions, "https://book.example")
		assert.Equal(t, http.StatusNoContent, allowed.Code)
		assert.Equal(t, "https://book.example", allowed.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "90", allowed.Header().Get("Access-Control-Max-Age"))

		denied := corsRequest(router, http.MethodOptions, "https://evil.example")
		assert.Equal(t, http.StatusNoContent, denied.Code)
		assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.RequestIDKey))
	})

	t.Run("generates request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "client-id-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "client-id-1", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "client-id-1", w.Body.String())
	})
}

func TestSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(cfg SecurityConfig) http.Header {
		router := gin.New()
		router.Use(Secure(cfg))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		return w.Header()
	}

	t.Run("defaults", func(t *testing.T) {
		h := serve(DefaultSecurityConfig())
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
		assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", h.Get("Content-Security-Policy"))
		assert.Empty(t, h.Get("Strict-Transport-Security"))
	})

	t.Run("HSTS enabled", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true
		h := serve(cfg)
		assert.Equal(t, "max-age=31536000; includeSubDomains", h.Get("Strict-Transport-Security"))
	})
}
