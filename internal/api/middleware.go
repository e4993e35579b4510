package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"venue/internal/session"
)

type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*session.Session, error)
}

// SessionAuth requires `Authorization: Bearer <token>` issued at login. The
// token's session must exist, be unrevoked and unexpired.
func SessionAuth(secret string, sessions SessionFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
				return
			}

			now := time.Now()
			id, err := session.VerifyToken(strings.TrimSpace(authz[7:]), secret, now)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
				return
			}

			s, err := sessions.FindByID(r.Context(), id)
			if err != nil {
				if !errors.Is(err, session.ErrSessionNotFound) {
					Log(r.Context()).WithError(err).Error("session lookup failed")
					WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
					return
				}
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown session")
				return
			}
			if err := s.Active(now); err != nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}
