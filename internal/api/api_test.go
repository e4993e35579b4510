package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue/internal/session"
	"venue/pkg/store"
)

type fakeSessions map[string]*session.Session

func (f fakeSessions) FindByID(_ context.Context, id string) (*session.Session, error) {
	s, ok := f[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return s, nil
}

func TestSessionAuth(t *testing.T) {
	now := time.Now()
	active := &session.Session{ID: "s1", Username: "manager", StoreToken: "tok", ExpiresAt: now.Add(time.Hour)}
	revokedAt := now
	revoked := &session.Session{ID: "s2", Username: "old", ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}
	sessions := fakeSessions{"s1": active, "s2": revoked}

	var seen *session.Session
	h := SessionAuth("secret", sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
		assert.Equal(t, "tok", StoreFor(r, store.Client{Token: "service"}).Token)
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(authz string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/me", nil)
		if authz != "" {
			req.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	good, err := session.IssueToken(*active, "secret", now)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, call("Bearer "+good))
	require.NotNil(t, seen)
	assert.Equal(t, "manager", seen.Username)

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Token "+good))

	old, err := session.IssueToken(*revoked, "secret", now)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+old))

	unknown, err := session.IssueToken(session.Session{ID: "nope", ExpiresAt: now.Add(time.Hour)}, "secret", now)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+unknown))
}

func TestWriteStoreError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", &store.ValidationError{Fields: map[string]string{"email": "is required"}}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", &store.APIError{Status: 404}, http.StatusNotFound, "NOT_FOUND"},
		{"rejected", &store.APIError{Status: 400, Body: `{"room":["bad"]}`}, http.StatusUnprocessableEntity, "STORE_REJECTED"},
		{"token", &store.APIError{Status: 401}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"server", &store.APIError{Status: 503}, http.StatusBadGateway, "STORE_UNAVAILABLE"},
		{"network", errors.New("dial tcp: connection refused"), http.StatusBadGateway, "STORE_UNAVAILABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteStoreError(rec, httptest.NewRequest(http.MethodGet, "/", nil), "test", tc.err)

			assert.Equal(t, tc.status, rec.Code)
			var env ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}
}

func TestRateKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/public/feedback", nil)
	req.RemoteAddr = "203.0.113.9:5123"
	assert.Equal(t, "rl:venue:ip:203.0.113.9:route:POST /v1/public/feedback", RateKey("rl:venue", req))
}

func TestCORSMiddleware(t *testing.T) {
	h := CORSMiddleware(CORSOptions{
		AllowedOrigins: []string{"https://bar.example.com", "https://*.preview.bar.example.com"},
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(method, origin string, preflight bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/v1/public/menu", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		if preflight {
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(http.MethodOptions, "https://bar.example.com", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://bar.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))

	rec = serve(http.MethodOptions, "https://pr-12.preview.bar.example.com", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://pr-12.preview.bar.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	for _, origin := range []string{
		"https://evil.example.com",
		"https://a.b.preview.bar.example.com",
		"http://pr-12.preview.bar.example.com",
		"https://preview.bar.example.com",
	} {
		rec = serve(http.MethodOptions, origin, true)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: preflight status=%d want 403", origin, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("%s: allow-origin=%q want empty", origin, got)
		}
	}

	rec = serve(http.MethodGet, "https://evil.example.com", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(http.MethodGet, "https://bar.example.com", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Request-ID")
}
