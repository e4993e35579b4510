package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"venue/internal/api"
	"venue/internal/audit"
	"venue/internal/session"
	"venue/pkg/db"
	"venue/pkg/store"
)

type Sessions interface {
	Create(ctx context.Context, username, storeToken string, ttl time.Duration) (*session.Session, error)
	End(ctx context.Context, id string, also func(q db.DBTX) error) error
}

type TokenIssuer interface {
	ObtainToken(ctx context.Context, creds store.Credentials) (string, error)
}

type Handlers struct {
	Store    TokenIssuer
	Sessions Sessions
	Audit    api.AuditRecorder
	Secret   string
	TTL      time.Duration
	Now      func() time.Time
}

type loginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// Login trades admin credentials for a store token, keeps it in a new
// session and answers with a signed session token.
func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds store.Credentials
	if err := api.DecodeJSON(r, &creds); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	storeToken, err := h.Store.ObtainToken(r.Context(), creds)
	if err != nil {
		var verr *store.ValidationError
		switch {
		case errors.As(err, &verr):
			api.WriteValidation(w, verr.Fields)
		case store.IsRejected(err), store.IsUnauthorized(err):
			api.Log(r.Context()).WithField("username", creds.Username).Info("login refused")
			api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password")
		default:
			api.WriteStoreError(w, r, "obtain token", err)
		}
		return
	}

	s, err := h.Sessions.Create(r.Context(), creds.Username, storeToken, h.TTL)
	if err != nil {
		api.Log(r.Context()).WithError(err).Error("create session failed")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	tok, err := session.IssueToken(*s, h.Secret, h.now())
	if err != nil {
		api.Log(r.Context()).WithError(err).Error("issue session token failed")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), audit.Entry{
			SessionID: s.ID,
			Actor:     s.Username,
			Action:    audit.ActionLogin,
			Resource:  "session",
		}); err != nil {
			api.Log(r.Context()).WithError(err).Warn("audit record failed")
		}
	}

	api.WriteJSON(w, http.StatusOK, loginResponse{Token: tok, Username: s.Username, ExpiresAt: s.ExpiresAt})
}

// Logout revokes the current session; the revocation and its audit entry
// commit together.
func (h Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	s := api.SessionFromContext(r.Context())
	if s == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not signed in")
		return
	}

	entry := audit.Entry{SessionID: s.ID, Actor: s.Username, Action: audit.ActionLogout, Resource: "session"}
	err := h.Sessions.End(r.Context(), s.ID, func(q db.DBTX) error {
		return audit.Insert(r.Context(), q, entry)
	})
	if err != nil {
		api.Log(r.Context()).WithError(err).Error("logout failed")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) Me(w http.ResponseWriter, r *http.Request) {
	s := api.SessionFromContext(r.Context())
	if s == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "not signed in")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"username":   s.Username,
		"created_at": s.CreatedAt,
		"expires_at": s.ExpiresAt,
	})
}
