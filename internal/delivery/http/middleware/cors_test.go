package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_WildcardAllowsAnyOrigin(t *testing.T) {
	handler := CORS([]string{"*"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "http://test/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_WildcardPreflight(t *testing.T) {
	handler := CORS([]string{"*"}, okHandler())

	req := httptest.NewRequest(http.MethodOptions, "http://test/api/projects", nil)
	req.Header.Set("Origin", "http://app.example.com")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, corsAllowHeaders, rr.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_ExplicitOrigins(t *testing.T) {
	handler := CORS([]string{"http://app.example.com", "https://admin.example.com/"}, okHandler())

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{name: "listed origin", origin: "http://app.example.com", wantHeader: "http://app.example.com"},
		{name: "listed with trailing slash trimmed", origin: "https://admin.example.com", wantHeader: "https://admin.example.com"},
		{name: "unlisted origin", origin: "http://evil.example.com", wantHeader: ""},
		{name: "no origin header", origin: "", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://test/api/projects", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantHeader, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_NoOriginWithWildcard(t *testing.T) {
	handler := CORS([]string{"*"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "http://test/api/health", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
