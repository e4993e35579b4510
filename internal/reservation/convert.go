package reservation

import (
	"fmt"

	"venue/pkg/store"
)

// FromStore converts a store record. The store's labels ("Karaoke Room",
// "Confirmed") are folded into the canonical enums here and nowhere else.
func FromStore(s store.Reservation) (Reservation, error) {
	status, err := ParseStatus(s.Status)
	if err != nil {
		return Reservation{}, fmt.Errorf("reservation %d: %w", s.ID, err)
	}
	date, err := ParseDate(s.Date)
	if err != nil {
		return Reservation{}, fmt.Errorf("reservation %d: %w", s.ID, err)
	}

	r := Reservation{
		ID:              s.ID,
		GuestName:       s.GuestName,
		GuestEmail:      s.GuestEmail,
		Date:            date,
		NumberOfGuests:  s.NumberOfGuests,
		Status:          status,
		SpecialRequests: s.SpecialRequests,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.Time != "" {
		if r.Time, err = ParseClock(s.Time); err != nil {
			return Reservation{}, fmt.Errorf("reservation %d: %w", s.ID, err)
		}
	}
	// Unknown lengths are kept as zero rather than failing the whole record.
	r.Duration, _ = ParseDuration(s.Duration)

	if s.RoomType != "" {
		if r.RoomType, err = ParseRoomType(s.RoomType); err != nil {
			return Reservation{}, fmt.Errorf("reservation %d: %w", s.ID, err)
		}
	}

	switch {
	case s.Room != nil:
		room := roomFromStore(*s.Room)
		r.Room = &room
	case s.RoomID != nil:
		r.Room = &Room{ID: *s.RoomID, Type: r.RoomType}
	}
	if r.RoomType == "" && r.Room != nil {
		r.RoomType = r.Room.Type
	}
	return r, nil
}

func roomFromStore(s store.Room) Room {
	t, _ := ParseRoomType(s.Type)
	return Room{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Capacity:    s.Capacity,
		Bookable:    s.Bookable,
		Type:        t,
	}
}

// RoomsFromStore drops rooms whose type cannot be recognised.
func RoomsFromStore(in []store.Room) []Room {
	out := make([]Room, 0, len(in))
	for _, s := range in {
		r := roomFromStore(s)
		if r.Type == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// attachRooms fills in room details for records that only carried an id.
func attachRooms(items []Reservation, rooms []Room) {
	for i := range items {
		r := items[i].Room
		if r == nil || r.Name != "" {
			continue
		}
		if full, ok := findRoom(rooms, r.ID); ok {
			items[i].Room = &full
		}
	}
}

func (f Form) createRequest() store.ReservationCreate {
	return store.ReservationCreate{
		GuestName:       f.GuestName,
		GuestEmail:      f.GuestEmail,
		Date:            f.Date.String(),
		Time:            f.Time.String(),
		Duration:        f.Duration.Wire(),
		NumberOfGuests:  f.NumberOfGuests,
		RoomType:        string(f.RoomType),
		RoomID:          f.RoomID,
		Status:          string(f.Status),
		SpecialRequests: f.SpecialRequests,
	}
}

// patch is the normalized save payload: date YYYY-MM-DD, time HH:MM:SS and
// room_id as a plain id or null.
func (f Form) patch(withStatus bool) store.ReservationPatch {
	p := store.ReservationPatch{
		GuestName:       ptr(f.GuestName),
		GuestEmail:      ptr(f.GuestEmail),
		Date:            ptr(f.Date.String()),
		Time:            ptr(f.Time.String()),
		Duration:        ptr(f.Duration.Wire()),
		NumberOfGuests:  &f.NumberOfGuests,
		RoomType:        ptr(string(f.RoomType)),
		SpecialRequests: ptr(f.SpecialRequests),
		SetRoom:         true,
		RoomID:          f.RoomID,
	}
	if withStatus {
		p.Status = ptr(string(f.Status))
	}
	return p
}

func ptr[T any](v T) *T { return &v }
