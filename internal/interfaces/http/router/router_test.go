package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func text(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func call(engine http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	quotes := NewDomainGroup("quotes", "/quotes").GET("/:id", text("quote"))
	bookings := NewDomainGroup("bookings", "/bookings").GET("", text("bookings"))

	NewRouter(engine, WithAPIVersion("v2")).Register(quotes).Register(bookings).Setup()

	w := call(engine, http.MethodGet, "/api/v2/quotes/abc")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "quote", w.Body.String())

	w = call(engine, http.MethodGet, "/api/v2/bookings")
	assert.Equal(t, "bookings", w.Body.String())

	assert.Equal(t, http.StatusNotFound, call(engine, http.MethodGet, "/api/v1/bookings").Code)
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("rules", "/rules").
		GET("/:id", text("get")).
		POST("", text("post")).
		PUT("/:id", text("put")).
		PATCH("/:id", text("patch")).
		DELETE("/:id", text("delete"))
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/v1/rules/1", "get"},
		{http.MethodPost, "/api/v1/rules", "post"},
		{http.MethodPut, "/api/v1/rules/1", "put"},
		{http.MethodPatch, "/api/v1/rules/1", "patch"},
		{http.MethodDelete, "/api/v1/rules/1", "delete"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := call(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
	assert.Equal(t, 5, g.RouteCount())
}

func TestDomainGroupSubgroupsInheritMiddleware(t *testing.T) {
	engine := gin.New()
	admin := NewDomainGroup("admin", "/admin").Use(func(c *gin.Context) {
		c.Header("X-Admin", "yes")
		c.Next()
	})
	admin.Group("rules", "/rules").GET("", text("rules"))
	admin.Group("quotes", "/quotes").
		Use(func(c *gin.Context) {
			c.Header("X-Quotes", "yes")
			c.Next()
		}).
		GET("", text("quotes"))

	assert.Equal(t, "admin", admin.Name())
	assert.Equal(t, "/admin", admin.Prefix())
	assert.Equal(t, 2, admin.RouteCount())
	assert.Equal(t, []string{"GET /admin/rules", "GET /admin/quotes"}, admin.Routes())

	admin.RegisterRoutes(engine.Group("/api/v1"))

	w := call(engine, http.MethodGet, "/api/v1/admin/rules")
	assert.Equal(t, "rules", w.Body.String())
	assert.Equal(t, "yes", w.Header().Get("X-Admin"))
	assert.Empty(t, w.Header().Get("X-Quotes"))

	w = call(engine, http.MethodGet, "/api/v1/admin/quotes")
	assert.Equal(t, "yes", w.Header().Get("X-Admin"))
	assert.Equal(t, "yes", w.Header().Get("X-Quotes"))
}
