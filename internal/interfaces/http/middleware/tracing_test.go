package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quotebook/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer sets up a test tracer provider and returns the span recorder.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
		otel.SetTracerProvider(previous)
	})

	return sr
}

func newTracedRouter(cfg TracingConfig, status int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Tracing(cfg)...)
	handler := func(c *gin.Context) {
		c.Set(JWTSubjectKey, "ops")
		c.Status(status)
	}
	router.GET("/api/v1/admin/quotes/:id", handler)
	router.GET("/health", handler)
	return router
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter(TracingConfig{ServiceName: "test", Enabled: false}, http.StatusOK)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/quotes/1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_RecordsEnrichedSpan(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter(DefaultTracingConfig(), http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/quotes/1", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := spanAttrs(spans[0])
	assert.Equal(t, "req-42", attrs["request_id"].AsString())
	assert.Equal(t, "ops", attrs["actor"].AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_MarksErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			sr := setupTestTracer(t)
			router := newTracedRouter(DefaultTracingConfig(), status)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/quotes/1", nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
		})
	}
}

func TestTracing_SkipsHealth(t *testing.T) {
	sr := setupTestTracer(t)
	router := newTracedRouter(DefaultTracingConfig(), http.StatusOK)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestSpanEnricher_WithNoSpan(t *testing.T) {
	router := gin.New()
	router.Use(SpanEnricher())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.RequestIDKey))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
