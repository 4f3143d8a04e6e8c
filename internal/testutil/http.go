package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/squadlog/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// JSONRequest builds a request with body encoded as JSON. A nil actor
// leaves the request anonymous.
func JSONRequest(t *testing.T, method, target string, body any, actor *auth.Actor) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	if actor != nil {
		r = auth.WithActor(r, actor)
	}
	return r
}

// DecodeJSON decodes the recorder body into dst.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

// SessionManager returns a manager with a fixed test key that can issue
// and clear cookies. It never resolves actors.
func SessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	tokens, err := auth.NewTokenService([]byte("test-session-key-0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return auth.NewSessionManager(tokens, auth.SessionConfig{Name: "session"}, nil, zap.NewNop())
}

// SessionCookie returns the session cookie set on rec, or nil.
func SessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	return nil
}
