package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"venue/internal/api"
	"venue/internal/audit"
)

type auditLister interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Entry, error)
}

type auditLog struct {
	Repo auditLister
}

// List shows recent admin actions, newest first. ?limit= defaults to 100.
func (h auditLog) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.Repo.ListRecent(r.Context(), limit)
	if err != nil {
		api.Log(r.Context()).WithError(err).Error("list audit log failed")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}
