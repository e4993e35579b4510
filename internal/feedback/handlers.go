package feedback

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"venue/internal/api"
	"venue/internal/audit"
	"venue/pkg/store"
)

type Store interface {
	ListFeedback(ctx context.Context) ([]store.Feedback, error)
	CreateFeedback(ctx context.Context, in store.FeedbackCreate) (store.Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) error
	RespondToFeedback(ctx context.Context, id int64, in store.FeedbackResponse) (store.Feedback, error)
}

type Handlers struct {
	Store func(r *http.Request) Store
	// SubmitTimeout bounds the public submission call to the store.
	SubmitTimeout time.Duration
	Audit         api.AuditRecorder
}

func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	var in store.FeedbackCreate
	if err := api.DecodeJSON(r, &in); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	ctx := r.Context()
	if h.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.SubmitTimeout)
		defer cancel()
	}

	f, err := h.Store(r).CreateFeedback(ctx, in)
	if err != nil {
		api.WriteStoreError(w, r, "submit feedback", err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":      f.ID,
		"message": "Thanks for your feedback!",
	})
}

// List returns feedback newest first. ?unanswered=true keeps only entries
// without a response.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store(r).ListFeedback(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, "list feedback", err)
		return
	}
	if unanswered, _ := strconv.ParseBool(r.URL.Query().Get("unanswered")); unanswered {
		open := items[:0]
		for _, f := range items {
			if f.Response == "" {
				open = append(open, f)
			}
		}
		items = open
	}
	SortNewestFirst(items)
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	if err := h.Store(r).DeleteFeedback(r.Context(), id); err != nil {
		api.WriteStoreError(w, r, "delete feedback", err)
		return
	}
	api.RecordAudit(r, h.Audit, audit.ActionFeedbackDeleted, "feedback", strconv.FormatInt(id, 10), nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) Respond(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	var in store.FeedbackResponse
	if err := api.DecodeJSON(r, &in); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	in.Response = strings.TrimSpace(in.Response)

	f, err := h.Store(r).RespondToFeedback(r.Context(), id, in)
	if err != nil {
		api.WriteStoreError(w, r, "respond to feedback", err)
		return
	}
	api.RecordAudit(r, h.Audit, audit.ActionFeedbackResponded, "feedback", strconv.FormatInt(id, 10), nil)
	api.WriteJSON(w, http.StatusOK, f)
}

// SortNewestFirst orders by creation time, then id, both descending.
// Entries without a timestamp sort last.
func SortNewestFirst(items []store.Feedback) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].CreatedAt, items[j].CreatedAt
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return items[i].ID > items[j].ID
	})
}
