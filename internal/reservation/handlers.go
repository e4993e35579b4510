package reservation

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"venue/internal/api"
	"venue/internal/audit"
	"venue/internal/events"
	"venue/pkg/store"
)

type History interface {
	ListByReservation(ctx context.Context, reservationID int64) ([]events.Event, error)
}

type Handlers struct {
	Store    func(r *http.Request) Store
	Pending  PendingConfirmations
	Timeline Timeline
	History  History
	Audit    api.AuditRecorder
	PageSize int
	Now      func() time.Time
}

func (h Handlers) workflow(r *http.Request) Workflow {
	return Workflow{
		Store:    h.Store(r),
		Pending:  h.Pending,
		Timeline: h.Timeline,
		Log:      api.Log(r.Context()),
		Now:      h.Now,
	}
}

func (h Handlers) audit(r *http.Request, action audit.Action, id int64, metadata any) {
	api.RecordAudit(r, h.Audit, action, "reservation", strconv.FormatInt(id, 10), metadata)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := store.ReservationQuery{Date: q.Get("date")}
	if rt := q.Get("room_type"); rt != "" {
		t, err := ParseRoomType(rt)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid room_type")
			return
		}
		query.RoomType = string(t)
	}

	items, err := h.workflow(r).List(r.Context(), query)
	if err != nil {
		api.WriteStoreError(w, r, "list reservations", err)
		return
	}

	tab := ParseTab(q.Get("tab"))
	search := q.Get("q")
	pageSize := atoiDefault(q.Get("page_size"), h.PageSize)
	if pageSize > 100 {
		pageSize = 100
	}
	page := Paginate(Filter(items, tab, search), atoiDefault(q.Get("page"), 1), pageSize)

	counts := map[Tab]int{}
	for _, t := range []Tab{TabAll, TabPending, TabConfirmed, TabCancelled} {
		counts[t] = len(Filter(items, t, search))
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"tab":    tab,
		"q":      search,
		"page":   page,
		"counts": counts,
	})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	wf := h.workflow(r)
	res, err := wf.Get(r.Context(), id)
	if err != nil {
		api.WriteStoreError(w, r, "get reservation", err)
		return
	}

	pending, err := wf.IsConfirmationPending(r.Context(), id)
	if err != nil {
		api.Log(r.Context()).WithError(err).Warn("pending confirmation lookup failed")
	}

	timeline := []events.Event{}
	if h.History != nil {
		if evs, err := h.History.ListByReservation(r.Context(), id); err == nil {
			timeline = evs
		} else {
			api.Log(r.Context()).WithError(err).Warn("timeline lookup failed")
		}
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"reservation":          RowFor(res),
		"confirmation_pending": pending,
		"timeline":             timeline,
	})
}

// Create is the dashboard's "Add reservation".
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, audit.ActionReservationCreated)
}

// PublicCreate is the guest booking form on the public site.
func (h Handlers) PublicCreate(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "")
}

func (h Handlers) create(w http.ResponseWriter, r *http.Request, action audit.Action) {
	var req FormRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	wf := h.workflow(r)
	f, errs := ParseForm(req)
	if len(errs) > 0 {
		f.Status, f.RoomID = StatusPending, nil
		errs.merge(Validate(f, true, wf.today()))
		api.WriteValidation(w, errs)
		return
	}

	res, err := wf.Create(r.Context(), f, api.Actor(r.Context()))
	if err != nil {
		h.writeErr(w, r, "create reservation", err)
		return
	}
	if action != "" {
		h.audit(r, action, res.ID, map[string]any{"room_type": res.RoomType})
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"reservation": RowFor(res)})
}

// Update submits the edit form. Submitting status CONFIRMED while a
// confirmation is parked runs the confirmation flow.
func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	var req FormRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	f, errs := ParseForm(req)
	if len(errs) > 0 {
		api.WriteValidation(w, errs)
		return
	}

	res, err := h.workflow(r).SubmitEdit(r.Context(), id, f, api.Actor(r.Context()))
	if err != nil {
		h.writeErr(w, r, "update reservation", err)
		return
	}
	h.audit(r, audit.ActionReservationUpdated, id, map[string]any{"confirmed": res.Confirmed})
	api.WriteJSON(w, http.StatusOK, res)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h Handlers) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	target, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	res, err := h.workflow(r).RequestStatusChange(r.Context(), id, target, api.Actor(r.Context()))
	if err != nil {
		h.writeErr(w, r, "change status", err)
		return
	}
	h.audit(r, audit.ActionReservationStatus, id, map[string]any{"target": target, "outcome": res.Outcome})

	status := http.StatusOK
	if res.Outcome == OutcomeNeedsRoomAssignment {
		status = http.StatusAccepted
	}
	api.WriteJSON(w, status, res)
}

func (h Handlers) AbandonConfirmation(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	if err := h.workflow(r).AbandonConfirmation(r.Context(), id, api.Actor(r.Context())); err != nil {
		api.Log(r.Context()).WithError(err).Error("abandon confirmation failed")
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	res, err := h.workflow(r).Delete(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, "delete reservation", err)
		return
	}
	h.audit(r, audit.ActionReservationDeleted, id, map[string]any{"guest_name": res.GuestName, "date": res.Date})
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) EligibleRooms(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r)
	if !ok {
		return
	}
	rooms, err := h.workflow(r).EligibleRoomsFor(r.Context(), id)
	if err != nil {
		api.WriteStoreError(w, r, "eligible rooms", err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": rooms})
}

// Rooms lists the catalog, optionally narrowed with ?type=.
func (h Handlers) Rooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.workflow(r).Rooms(r.Context())
	if err != nil {
		api.WriteStoreError(w, r, "list rooms", err)
		return
	}
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := ParseRoomType(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid type")
			return
		}
		rooms = EligibleRooms(rooms, t)
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": rooms})
}

type roomTypeInfo struct {
	Type      RoomType `json:"type"`
	Label     string   `json:"label"`
	MaxGuests int      `json:"max_guests"`
}

// RoomTypes feeds the guest booking form.
func (h Handlers) RoomTypes(w http.ResponseWriter, r *http.Request) {
	types := make([]roomTypeInfo, 0, len(RoomTypes))
	for _, t := range RoomTypes {
		types = append(types, roomTypeInfo{Type: t, Label: t.Label(), MaxGuests: t.MaxGuests()})
	}
	durations := make([]string, 0, len(Durations))
	for _, d := range Durations {
		durations = append(durations, d.Label())
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"room_types": types, "durations": durations})
}

func (h Handlers) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	var fields FieldErrors
	var saveErr *SaveError
	switch {
	case errors.As(err, &fields):
		api.WriteValidation(w, fields)
	case errors.Is(err, ErrTerminal):
		api.WriteError(w, http.StatusConflict, "RESERVATION_LOCKED", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		api.WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", "invalid state transition")
	case errors.Is(err, ErrNotDeletable):
		api.WriteError(w, http.StatusConflict, "RESERVATION_NOT_DELETABLE", err.Error())
	case errors.As(err, &saveErr):
		api.WriteStoreError(w, r, op, saveErr.Err)
	default:
		api.WriteStoreError(w, r, op, err)
	}
}

func atoiDefault(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
