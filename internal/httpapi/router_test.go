package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue/internal/storefake"
	"venue/pkg/config"
	"venue/pkg/store"
)

// newTestRouter wires the router without Postgres or Redis. Only routes that
// never reach a repository are exercised here.
func newTestRouter(t *testing.T) (http.Handler, *storefake.Server) {
	t.Helper()

	fake := storefake.New()
	fake.Token = "svc-token"
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(new(strings.Builder))

	h := NewRouter(Dependencies{
		Cfg: config.Config{
			AllowedOrigins: []string{"https://bar.example.com"},
			Store: config.StoreConfig{
				BaseURL:      srv.URL,
				ServiceToken: "svc-token",
				Timeout:      5 * time.Second,
			},
			Session:      config.SessionConfig{Secret: "test-secret", TTL: time.Hour},
			MenuCacheTTL: time.Minute,
			ListPageSize: 10,
		},
		Log: log,
	})
	return h, fake
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h, fake := newTestRouter(t)

	for _, path := range []string{"/v1/admin/me", "/v1/admin/reservations", "/v1/admin/analytics", "/v1/admin/audit"} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status=%d want 401", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/reservations", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := serve(h, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")

	assert.Empty(t, fake.Calls(http.MethodGet), "store must not be reached without a session")
}

func TestPublicRoomTypes(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/public/rooms/types", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		RoomTypes []struct {
			Type      string `json:"type"`
			MaxGuests int    `json:"max_guests"`
		} `json:"room_types"`
		Durations []string `json:"durations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.RoomTypes, 2)
	assert.Equal(t, "TABLE", body.RoomTypes[0].Type)
	assert.Equal(t, "KARAOKE_ROOM", body.RoomTypes[1].Type)
	assert.Len(t, body.Durations, 5)
}

func TestPublicMenuUsesServiceToken(t *testing.T) {
	h, fake := newTestRouter(t)
	fake.SeedMenu(
		store.MenuItem{ID: 1, Name: "Wings", Category: "Starters", Price: decimal.RequireFromString("9.00"), IsAvailable: true},
		store.MenuItem{ID: 2, Name: "Old Special", Category: "Starters", Price: decimal.RequireFromString("7.00"), IsAvailable: false},
	)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/public/menu", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Wings")
	assert.NotContains(t, rec.Body.String(), "Old Special")

	calls := fake.Calls(http.MethodGet)
	require.Len(t, calls, 1)
	assert.Equal(t, "Token svc-token", calls[0].Auth)
}

func TestPublicChat(t *testing.T) {
	h, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/public/chat", strings.NewReader(`{"message":"do you have karaoke?"}`))
	rec := serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		ConversationID string `json:"conversation_id"`
		Topic          string `json:"topic"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "karaoke", body.Topic)
	assert.NotEmpty(t, body.ConversationID)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/public/reservations", nil)
	req.Header.Set("Origin", "https://bar.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(h, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://bar.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/public/reservations", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = serve(h, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNotFoundEnvelope(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"NOT_FOUND"`)
}
