package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// Reservation is the store's reservation record. The store has used two
// shapes for the room: a nested object under "room" or a bare id under
// "room"/"room_id". UnmarshalJSON folds both into RoomID and Room.
type Reservation struct {
	ID              int64      `json:"id" validate:"required"`
	GuestName       string     `json:"guest_name"`
	GuestEmail      string     `json:"guest_email"`
	Date            string     `json:"date" validate:"required"`
	Time            string     `json:"time"`
	Duration        string     `json:"duration"`
	NumberOfGuests  int        `json:"number_of_guests"`
	RoomID          *int64     `json:"room_id"`
	Room            *Room      `json:"room,omitempty"`
	RoomType        string     `json:"room_type"`
	Status          string     `json:"status" validate:"required"`
	SpecialRequests string     `json:"special_requests"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

type reservationFields Reservation

func (r *Reservation) UnmarshalJSON(b []byte) error {
	res := gjson.ParseBytes(b)
	if !res.IsObject() {
		return fmt.Errorf("reservation: expected object")
	}

	var aux struct {
		reservationFields
		RoomID   json.RawMessage `json:"room_id"`
		Room     json.RawMessage `json:"room"`
		Duration json.RawMessage `json:"duration"`
		Date     json.RawMessage `json:"date"`
		Time     json.RawMessage `json:"time"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = Reservation(aux.reservationFields)

	r.Date = firstString(res, "date", "reservation_date")
	r.Time = firstString(res, "time", "reservation_time")
	r.Duration = res.Get("duration").String()

	room := res.Get("room")
	switch {
	case room.IsObject():
		var rm Room
		if err := json.Unmarshal([]byte(room.Raw), &rm); err != nil {
			return fmt.Errorf("reservation room: %w", err)
		}
		id := rm.ID
		r.Room = &rm
		r.RoomID = &id
	case room.Type == gjson.Number:
		id := room.Int()
		r.RoomID = &id
	}
	if r.RoomID == nil {
		if v := res.Get("room_id"); v.Type == gjson.Number {
			id := v.Int()
			r.RoomID = &id
		}
	}
	if r.RoomType == "" && r.Room != nil {
		r.RoomType = r.Room.Type
	}
	return nil
}

func firstString(res gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := res.Get(k); v.Exists() && v.Type != gjson.Null {
			return v.String()
		}
	}
	return ""
}

type ReservationQuery struct {
	Date     string
	Status   string
	RoomType string
}

func (q ReservationQuery) values() url.Values {
	v := url.Values{}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.RoomType != "" {
		v.Set("room_type", q.RoomType)
	}
	return v
}

// ReservationCreate is the POST body. Party size caps per room type are
// enforced by the caller; here only the absolute bounds apply.
type ReservationCreate struct {
	GuestName       string `json:"guest_name" validate:"required,max=200"`
	GuestEmail      string `json:"guest_email" validate:"required,email"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04:05"`
	Duration        string `json:"duration" validate:"required,datetime=15:04:05"`
	NumberOfGuests  int    `json:"number_of_guests" validate:"gte=1,lte=10"`
	RoomType        string `json:"room_type" validate:"required,oneof=TABLE KARAOKE_ROOM"`
	RoomID          *int64 `json:"room_id"`
	Status          string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED"`
	SpecialRequests string `json:"special_requests" validate:"max=2000"`
}

// ReservationPatch is a partial update. Nil fields are omitted from the
// body; the room is only sent when SetRoom is true, in which case a nil
// RoomID is sent as an explicit null.
type ReservationPatch struct {
	GuestName       *string `json:"guest_name" validate:"omitempty,min=1,max=200"`
	GuestEmail      *string `json:"guest_email" validate:"omitempty,email"`
	Date            *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time            *string `json:"time" validate:"omitempty,datetime=15:04:05"`
	Duration        *string `json:"duration" validate:"omitempty,datetime=15:04:05"`
	NumberOfGuests  *int    `json:"number_of_guests" validate:"omitempty,gte=1,lte=10"`
	RoomType        *string `json:"room_type" validate:"omitempty,oneof=TABLE KARAOKE_ROOM"`
	Status          *string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	SpecialRequests *string `json:"special_requests" validate:"omitempty,max=2000"`
	SetRoom         bool    `json:"-"`
	RoomID          *int64  `json:"room_id"`
}

func (p ReservationPatch) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	put := func(k string, v any, ok bool) {
		if ok {
			m[k] = v
		}
	}
	put("guest_name", deref(p.GuestName), p.GuestName != nil)
	put("guest_email", deref(p.GuestEmail), p.GuestEmail != nil)
	put("date", deref(p.Date), p.Date != nil)
	put("time", deref(p.Time), p.Time != nil)
	put("duration", deref(p.Duration), p.Duration != nil)
	put("room_type", deref(p.RoomType), p.RoomType != nil)
	put("status", deref(p.Status), p.Status != nil)
	put("special_requests", deref(p.SpecialRequests), p.SpecialRequests != nil)
	if p.NumberOfGuests != nil {
		m["number_of_guests"] = *p.NumberOfGuests
	}
	if p.SetRoom {
		if p.RoomID != nil {
			m["room_id"] = *p.RoomID
		} else {
			m["room_id"] = nil
		}
	}
	return json.Marshal(m)
}

// StatusOnly builds a patch that carries nothing but the new status.
func StatusOnly(status string) ReservationPatch {
	return ReservationPatch{Status: &status}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (c Client) ListReservations(ctx context.Context, q ReservationQuery) ([]Reservation, error) {
	items, err := decodeList[Reservation](ctx, c, "/reservations/", q.values())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	for i := range items {
		if err := Validate(items[i]); err != nil {
			return nil, fmt.Errorf("list reservations: record %d: %w", items[i].ID, err)
		}
	}
	return items, nil
}

func (c Client) GetReservation(ctx context.Context, id int64) (Reservation, error) {
	var out Reservation
	if _, err := c.doJSON(ctx, http.MethodGet, reservationPath(id), nil, nil, &out); err != nil {
		return Reservation{}, fmt.Errorf("get reservation %d: %w", id, err)
	}
	if err := Validate(out); err != nil {
		return Reservation{}, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return out, nil
}

func (c Client) CreateReservation(ctx context.Context, in ReservationCreate) (Reservation, error) {
	if err := Validate(in); err != nil {
		return Reservation{}, err
	}
	var out Reservation
	if _, err := c.doJSON(ctx, http.MethodPost, "/reservations/", nil, in, &out); err != nil {
		return Reservation{}, fmt.Errorf("create reservation: %w", err)
	}
	return out, nil
}

func (c Client) UpdateReservation(ctx context.Context, id int64, patch ReservationPatch) (Reservation, error) {
	if err := Validate(patch); err != nil {
		return Reservation{}, err
	}
	var out Reservation
	if _, err := c.doJSON(ctx, http.MethodPatch, reservationPath(id), nil, patch, &out); err != nil {
		return Reservation{}, fmt.Errorf("update reservation %d: %w", id, err)
	}
	return out, nil
}

func (c Client) DeleteReservation(ctx context.Context, id int64) error {
	if _, err := c.doJSON(ctx, http.MethodDelete, reservationPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("delete reservation %d: %w", id, err)
	}
	return nil
}

func reservationPath(id int64) string {
	return "/reservations/" + strconv.FormatInt(id, 10) + "/"
}
