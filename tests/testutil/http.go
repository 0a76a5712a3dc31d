package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// Request describes one call against an http.Handler.
type Request struct {
	Method        string
	Path          string
	Body          any // marshalled to JSON unless it is a string
	Authorization string
	Headers       map[string]string
}

// Do serves req and returns the recorded response.
func Do(t *testing.T, h http.Handler, req Request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err, "Failed to marshal request body")
		body = bytes.NewReader(data)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	r := httptest.NewRequest(method, req.Path, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.Authorization != "" {
		r.Header.Set("Authorization", req.Authorization)
	}
	for k, v := range req.Headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// Field returns the value at a gjson path of the response body.
func Field(w *httptest.ResponseRecorder, path string) gjson.Result {
	return gjson.Get(w.Body.String(), path)
}

// RequireStatus fails the test when the response has another status,
// printing the body.
func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

// AssertErrorCode checks the envelope of an error response.
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())
	assert.False(t, Field(w, "success").Bool(), "Expected success to be false")
	assert.Equal(t, code, Field(w, "error.code").String())
}
