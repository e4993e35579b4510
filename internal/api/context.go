package api

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"venue/internal/session"
	"venue/pkg/store"
)

type ctxKey string

const (
	ctxKeySession   ctxKey = "session"
	ctxKeyRequestID ctxKey = "request_id"
)

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxKeySession, s)
}

func SessionFromContext(ctx context.Context) *session.Session {
	v := ctx.Value(ctxKeySession)
	if v == nil {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

// Actor names who is acting: the admin username, or "guest" on public routes.
func Actor(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.Username
	}
	return "guest"
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// Log returns a logger tagged with the request id.
func Log(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if id := RequestID(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	if s := SessionFromContext(ctx); s != nil {
		entry = entry.WithField("admin", s.Username)
	}
	return entry
}

// StoreFor returns the base client carrying the admin's store token when the
// request is authenticated. Public requests keep the base (service) token.
func StoreFor(r *http.Request, base store.Client) store.Client {
	if s := SessionFromContext(r.Context()); s != nil {
		base.Token = s.StoreToken
	}
	return base
}
