package analytics

import (
	"context"
	"net/http"
	"time"

	"venue/internal/api"
	"venue/internal/reservation"
	"venue/pkg/store"
)

type Store interface {
	reservation.Store
	ListFeedback(ctx context.Context) ([]store.Feedback, error)
	ListEmployees(ctx context.Context) ([]store.Employee, error)
	ListMenu(ctx context.Context) ([]store.MenuItem, error)
}

type Dashboard struct {
	From         string           `json:"from,omitempty"`
	To           string           `json:"to,omitempty"`
	Reservations ReservationStats `json:"reservations"`
	Feedback     FeedbackStats    `json:"feedback"`
	Staff        StaffStats       `json:"staff"`
	Menu         MenuStats        `json:"menu"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

type Handler struct {
	Store func(r *http.Request) Store
}

// Dashboard aggregates everything the admin charts need. ?from= and ?to=
// (YYYY-MM-DD, inclusive) narrow the reservation figures.
func (h Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var from, to reservation.Date
	var err error
	if raw := q.Get("from"); raw != "" {
		if from, err = reservation.ParseDate(raw); err != nil {
			api.WriteValidation(w, map[string]string{"from": "Enter a date as YYYY-MM-DD"})
			return
		}
	}
	if raw := q.Get("to"); raw != "" {
		if to, err = reservation.ParseDate(raw); err != nil {
			api.WriteValidation(w, map[string]string{"to": "Enter a date as YYYY-MM-DD"})
			return
		}
	}

	s := h.Store(r)
	wf := reservation.Workflow{Store: s, Log: api.Log(r.Context())}
	items, err := wf.List(r.Context(), store.ReservationQuery{})
	if err != nil {
		api.WriteStoreError(w, r, "analytics reservations", err)
		return
	}
	feedback, err := s.ListFeedback(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, "analytics feedback", err)
		return
	}
	employees, err := s.ListEmployees(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, "analytics employees", err)
		return
	}
	menu, err := s.ListMenu(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, "analytics menu", err)
		return
	}

	api.WriteJSON(w, http.StatusOK, Dashboard{
		From:         from.String(),
		To:           to.String(),
		Reservations: Reservations(InRange(items, from, to)),
		Feedback:     Feedback(feedback),
		Staff:        Staff(employees),
		Menu:         Menu(menu),
		GeneratedAt:  time.Now().UTC(),
	})
}

// InRange keeps reservations dated within [from, to]. A zero bound is open.
func InRange(items []reservation.Reservation, from, to reservation.Date) []reservation.Reservation {
	if from.IsZero() && to.IsZero() {
		return items
	}
	out := make([]reservation.Reservation, 0, len(items))
	for _, r := range items {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && to.Before(r.Date) {
			continue
		}
		out = append(out, r)
	}
	return out
}
