package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"venue/pkg/store"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTerminal          = errors.New("reservation is confirmed or cancelled and can no longer be edited")
	ErrNotDeletable      = errors.New("only pending reservations can be deleted")
)

// SaveError wraps a failed store write. The reservation is left as it was.
type SaveError struct {
	Op  string
	Err error
}

func (e *SaveError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *SaveError) Unwrap() error { return e.Err }

// Store is the subset of the reservation REST API the workflow needs.
type Store interface {
	ListReservations(ctx context.Context, q store.ReservationQuery) ([]store.Reservation, error)
	GetReservation(ctx context.Context, id int64) (store.Reservation, error)
	CreateReservation(ctx context.Context, in store.ReservationCreate) (store.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, patch store.ReservationPatch) (store.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
	ListRooms(ctx context.Context) ([]store.Room, error)
}

// PendingConfirmations holds confirmations that are waiting on a room.
type PendingConfirmations interface {
	Defer(ctx context.Context, reservationID int64, requestedBy string) error
	IsPending(ctx context.Context, reservationID int64) (bool, error)
	Clear(ctx context.Context, reservationID int64) error
}

// Timeline records per-reservation events. Failures are logged only.
type Timeline interface {
	Record(ctx context.Context, reservationID int64, eventType, summary, actor string, data any) error
}

const (
	EventCreated               = "CREATED"
	EventUpdated               = "UPDATED"
	EventStatusChanged         = "STATUS_CHANGED"
	EventConfirmationDeferred  = "CONFIRMATION_DEFERRED"
	EventConfirmationAbandoned = "CONFIRMATION_ABANDONED"
	EventRoomAssigned          = "ROOM_ASSIGNED"
)

type Workflow struct {
	Store    Store
	Pending  PendingConfirmations
	Timeline Timeline
	Log      logrus.FieldLogger
	Now      func() time.Time
}

func (w Workflow) today() Date {
	if w.Now == nil {
		return DateOf(time.Now())
	}
	return DateOf(w.Now())
}

func (w Workflow) log() logrus.FieldLogger {
	if w.Log == nil {
		return logrus.StandardLogger()
	}
	return w.Log
}

func (w Workflow) record(ctx context.Context, id int64, eventType, summary, actor string, data any) {
	if w.Timeline == nil {
		return
	}
	if err := w.Timeline.Record(ctx, id, eventType, summary, actor, data); err != nil {
		w.log().WithError(err).WithFields(logrus.Fields{
			"reservation_id": id,
			"event_type":     eventType,
		}).Warn("timeline record failed")
	}
}

// Get loads one reservation with room details filled in.
func (w Workflow) Get(ctx context.Context, id int64) (Reservation, error) {
	raw, err := w.Store.GetReservation(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	r, err := FromStore(raw)
	if err != nil {
		return Reservation{}, err
	}
	if r.Room != nil && r.Room.Name == "" {
		if rooms, err := w.Rooms(ctx); err == nil {
			items := []Reservation{r}
			attachRooms(items, rooms)
			r = items[0]
		}
	}
	return r, nil
}

// List reloads reservations from the store. Records that cannot be converted
// are skipped and logged.
func (w Workflow) List(ctx context.Context, q store.ReservationQuery) ([]Reservation, error) {
	raw, err := w.Store.ListReservations(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]Reservation, 0, len(raw))
	for _, s := range raw {
		r, err := FromStore(s)
		if err != nil {
			w.log().WithError(err).WithField("reservation_id", s.ID).Warn("skipping unreadable reservation")
			continue
		}
		out = append(out, r)
	}
	rooms, err := w.Rooms(ctx)
	if err != nil {
		w.log().WithError(err).Warn("room catalog unavailable; room names omitted")
		return out, nil
	}
	attachRooms(out, rooms)
	return out, nil
}

func (w Workflow) Rooms(ctx context.Context) ([]Room, error) {
	raw, err := w.Store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	return RoomsFromStore(raw), nil
}

// EligibleRoomsFor resolves the rooms that match the reservation's room type.
func (w Workflow) EligibleRoomsFor(ctx context.Context, id int64) ([]Room, error) {
	r, err := w.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rooms, err := w.Rooms(ctx)
	if err != nil {
		return nil, err
	}
	return EligibleRooms(rooms, r.RoomType), nil
}

// Create submits a new reservation. New reservations always start PENDING
// without a room, whatever the form carried.
func (w Workflow) Create(ctx context.Context, f Form, actor string) (Reservation, error) {
	f.Status = StatusPending
	f.RoomID = nil
	if errs := Validate(f, true, w.today()); len(errs) > 0 {
		return Reservation{}, errs
	}

	raw, err := w.Store.CreateReservation(ctx, f.createRequest())
	if err != nil {
		return Reservation{}, &SaveError{Op: "create reservation", Err: err}
	}
	r, err := FromStore(raw)
	if err != nil {
		return Reservation{}, err
	}
	w.record(ctx, r.ID, EventCreated, "Reservation created", actor, map[string]any{
		"room_type": r.RoomType,
		"guests":    r.NumberOfGuests,
	})
	return r, nil
}

type Outcome string

const (
	OutcomeUpdated             Outcome = "updated"
	OutcomeNeedsRoomAssignment Outcome = "needs_room_assignment"
)

type StatusResult struct {
	Outcome          Outcome `json:"outcome"`
	Reservation      Row     `json:"reservation"`
	Form             *Form   `json:"form,omitempty"`
	ConfirmationFlow bool    `json:"confirmation_flow"`
	EligibleRooms    []Room  `json:"eligible_rooms,omitempty"`
}

// RequestStatusChange runs the status gate. Confirming without a room sends
// nothing to the store; it parks the confirmation and hands back a form in
// confirmation-flow mode together with the eligible rooms.
func (w Workflow) RequestStatusChange(ctx context.Context, id int64, target Status, actor string) (StatusResult, error) {
	current, err := w.Get(ctx, id)
	if err != nil {
		return StatusResult{}, err
	}

	switch Decide(current.Status, target, current.HasRoom()) {
	case DecisionRejected:
		return StatusResult{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, target)

	case DecisionNeedsRoomAssignment:
		if err := w.Pending.Defer(ctx, id, actor); err != nil {
			return StatusResult{}, fmt.Errorf("defer confirmation: %w", err)
		}
		w.record(ctx, id, EventConfirmationDeferred, "Confirmation waiting for room assignment", actor, nil)

		rooms, err := w.Rooms(ctx)
		if err != nil {
			return StatusResult{}, err
		}
		form := FormFor(current)
		form.Status = StatusConfirmed
		return StatusResult{
			Outcome:          OutcomeNeedsRoomAssignment,
			Reservation:      RowFor(current),
			Form:             &form,
			ConfirmationFlow: true,
			EligibleRooms:    EligibleRooms(rooms, current.RoomType),
		}, nil
	}

	updated, err := w.applyStatus(ctx, current, target, actor)
	if err != nil {
		return StatusResult{}, err
	}
	if target == StatusCancelled {
		if err := w.Pending.Clear(ctx, id); err != nil {
			w.log().WithError(err).WithField("reservation_id", id).Warn("clear pending confirmation failed")
		}
	}
	return StatusResult{Outcome: OutcomeUpdated, Reservation: RowFor(updated)}, nil
}

// applyStatus issues a status-only update.
func (w Workflow) applyStatus(ctx context.Context, current Reservation, target Status, actor string) (Reservation, error) {
	raw, err := w.Store.UpdateReservation(ctx, current.ID, store.StatusOnly(string(target)))
	if err != nil {
		return Reservation{}, &SaveError{Op: "update status", Err: err}
	}
	updated, err := w.converted(ctx, current.ID, raw)
	if err != nil {
		return Reservation{}, err
	}
	w.record(ctx, current.ID, EventStatusChanged, "Status changed to "+target.Label(), actor, map[string]any{
		"from": current.Status,
		"to":   target,
	})
	return updated, nil
}

// converted tolerates update endpoints that answer with an empty body.
func (w Workflow) converted(ctx context.Context, id int64, raw store.Reservation) (Reservation, error) {
	if raw.ID == 0 {
		return w.Get(ctx, id)
	}
	r, err := FromStore(raw)
	if err != nil {
		return Reservation{}, err
	}
	if r.Room != nil && r.Room.Name == "" {
		return w.Get(ctx, id)
	}
	return r, nil
}

type EditResult struct {
	Reservation Row  `json:"reservation"`
	Confirmed   bool `json:"confirmed"`
}

// SubmitEdit saves the edit form. A form submitted with status CONFIRMED
// while a confirmation is parked runs in confirmation-flow mode: the fields
// (room included) are saved first and the CONFIRMED transition is issued as
// a second call only after that succeeded. Any other successful save ends
// the parked confirmation. The submitted status is never rewritten.
func (w Workflow) SubmitEdit(ctx context.Context, id int64, f Form, actor string) (EditResult, error) {
	current, err := w.Get(ctx, id)
	if err != nil {
		return EditResult{}, err
	}
	if current.Status.Terminal() {
		return EditResult{}, ErrTerminal
	}

	parked, err := w.Pending.IsPending(ctx, id)
	if err != nil {
		return EditResult{}, fmt.Errorf("load pending confirmation: %w", err)
	}
	flow := parked && f.Status == StatusConfirmed

	errs := Validate(f, false, w.today())
	if f.RoomID != nil {
		if roomErrs := w.checkRoom(ctx, f); len(roomErrs) > 0 {
			errs.merge(roomErrs)
		}
	}
	if len(errs) > 0 {
		return EditResult{}, errs
	}

	if !flow && f.Status != current.Status && Decide(current.Status, f.Status, f.RoomID != nil) != DecisionProceed {
		return EditResult{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, f.Status)
	}

	raw, err := w.Store.UpdateReservation(ctx, id, f.patch(!flow))
	if err != nil {
		return EditResult{}, &SaveError{Op: "save reservation", Err: err}
	}
	saved, err := w.converted(ctx, id, raw)
	if err != nil {
		return EditResult{}, err
	}
	w.record(ctx, id, EventUpdated, "Reservation updated", actor, nil)
	if f.RoomID != nil && (current.Room == nil || current.Room.ID != *f.RoomID) {
		w.record(ctx, id, EventRoomAssigned, "Room assigned", actor, map[string]any{"room_id": *f.RoomID})
	}

	if !flow {
		if parked {
			if err := w.Pending.Clear(ctx, id); err != nil {
				w.log().WithError(err).WithField("reservation_id", id).Warn("clear pending confirmation failed")
			} else {
				w.record(ctx, id, EventConfirmationAbandoned, "Confirmation abandoned", actor, nil)
			}
		}
		if saved.Status != current.Status {
			w.record(ctx, id, EventStatusChanged, "Status changed to "+saved.Status.Label(), actor, map[string]any{
				"from": current.Status,
				"to":   saved.Status,
			})
		}
		return EditResult{Reservation: RowFor(saved), Confirmed: saved.Status == StatusConfirmed}, nil
	}

	confirmed, err := w.applyStatus(ctx, saved, StatusConfirmed, actor)
	if err != nil {
		// The room stays assigned and the confirmation stays parked so the
		// admin can submit again.
		return EditResult{}, err
	}
	if err := w.Pending.Clear(ctx, id); err != nil {
		w.log().WithError(err).WithField("reservation_id", id).Warn("clear pending confirmation failed")
	}
	return EditResult{Reservation: RowFor(confirmed), Confirmed: true}, nil
}

// checkRoom verifies the chosen room exists and matches the room type.
func (w Workflow) checkRoom(ctx context.Context, f Form) FieldErrors {
	rooms, err := w.Rooms(ctx)
	if err != nil {
		// The store rejects unknown rooms itself.
		w.log().WithError(err).Warn("room catalog unavailable; skipping room check")
		return nil
	}
	room, ok := findRoom(rooms, *f.RoomID)
	switch {
	case !ok:
		return FieldErrors{"room": "Unknown room"}
	case room.Type != f.RoomType:
		return FieldErrors{"room": room.Name + " is not a " + f.RoomType.Label()}
	}
	return nil
}

// AbandonConfirmation drops a parked confirmation, e.g. when the dialog is
// closed without saving.
func (w Workflow) AbandonConfirmation(ctx context.Context, id int64, actor string) error {
	pending, err := w.Pending.IsPending(ctx, id)
	if err != nil {
		return err
	}
	if !pending {
		return nil
	}
	if err := w.Pending.Clear(ctx, id); err != nil {
		return err
	}
	w.record(ctx, id, EventConfirmationAbandoned, "Confirmation abandoned", actor, nil)
	return nil
}

// IsConfirmationPending reports whether a confirmation is parked.
func (w Workflow) IsConfirmationPending(ctx context.Context, id int64) (bool, error) {
	return w.Pending.IsPending(ctx, id)
}

// Delete removes a reservation. Only pending reservations can be deleted.
func (w Workflow) Delete(ctx context.Context, id int64) (Reservation, error) {
	current, err := w.Get(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if !ActionsFor(current.Status).Delete {
		return Reservation{}, ErrNotDeletable
	}
	if err := w.Store.DeleteReservation(ctx, id); err != nil {
		return Reservation{}, &SaveError{Op: "delete reservation", Err: err}
	}
	if err := w.Pending.Clear(ctx, id); err != nil {
		w.log().WithError(err).WithField("reservation_id", id).Warn("clear pending confirmation failed")
	}
	return current, nil
}
