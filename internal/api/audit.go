package api

import (
	"context"
	"net/http"

	"venue/internal/audit"
)

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

// RecordAudit stores an admin action for the request's session. Failures
// are logged and never fail the request.
func RecordAudit(r *http.Request, rec AuditRecorder, action audit.Action, resource, resourceID string, metadata any) {
	if rec == nil {
		return
	}
	e := audit.Entry{
		Actor:      Actor(r.Context()),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Metadata:   metadata,
	}
	if s := SessionFromContext(r.Context()); s != nil {
		e.SessionID = s.ID
	}
	if err := rec.Record(r.Context(), e); err != nil {
		Log(r.Context()).WithError(err).WithField("action", action).Warn("audit record failed")
	}
}
