package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000", "http://localhost:3001"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name              string
		method            string
		origin            string
		expectAllowOrigin string
		expectCredentials string
		expectStatusCode  int
	}{
		{name: "allowed origin", method: "POST", origin: "http://localhost:3000", expectAllowOrigin: "http://localhost:3000", expectCredentials: "true", expectStatusCode: http.StatusOK},
		{name: "second allowed origin", method: "GET", origin: "http://localhost:3001", expectAllowOrigin: "http://localhost:3001", expectCredentials: "true", expectStatusCode: http.StatusOK},
		{name: "disallowed origin still served", method: "POST", origin: "https://evil.example", expectStatusCode: http.StatusOK},
		{name: "no origin header", method: "GET", expectStatusCode: http.StatusOK},
		{name: "preflight allowed", method: "OPTIONS", origin: "http://localhost:3000", expectAllowOrigin: "http://localhost:3000", expectCredentials: "true", expectStatusCode: http.StatusNoContent},
		{name: "preflight disallowed", method: "OPTIONS", origin: "https://evil.example", expectStatusCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/chat", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectStatusCode, rr.Code)
			assert.Equal(t, tt.expectAllowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.expectCredentials, rr.Header().Get("Access-Control-Allow-Credentials"))
			assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Methods"))
			assert.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

// wildcard + credentials must never be emitted
func TestCORS_NeverWildcard(t *testing.T) {
	handler := CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.NotEqual(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}
