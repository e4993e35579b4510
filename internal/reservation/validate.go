package reservation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// FieldErrors maps a form field to its message. The first message recorded
// for a field wins.
type FieldErrors map[string]string

func (fe FieldErrors) add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

func (fe FieldErrors) merge(other FieldErrors) {
	for k, v := range other {
		fe.add(k, v)
	}
}

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid reservation: " + strings.Join(parts, "; ")
}

// FormRequest is the reservation form as posted by the site or dashboard.
type FormRequest struct {
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Duration        string `json:"duration"`
	NumberOfGuests  int    `json:"number_of_guests"`
	RoomType        string `json:"room_type"`
	RoomID          *int64 `json:"room_id"`
	Status          string `json:"status"`
	SpecialRequests string `json:"special_requests"`
}

// Form is a parsed reservation form.
type Form struct {
	GuestName       string   `json:"guest_name"`
	GuestEmail      string   `json:"guest_email"`
	Date            Date     `json:"date"`
	Time            Clock    `json:"time"`
	Duration        Duration `json:"duration"`
	NumberOfGuests  int      `json:"number_of_guests"`
	RoomType        RoomType `json:"room_type"`
	RoomID          *int64   `json:"room_id"`
	Status          Status   `json:"status"`
	SpecialRequests string   `json:"special_requests"`
}

// FormFor pre-populates a form from an existing reservation.
func FormFor(r Reservation) Form {
	f := Form{
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		Date:            r.Date,
		Time:            r.Time,
		Duration:        r.Duration,
		NumberOfGuests:  r.NumberOfGuests,
		RoomType:        r.RoomType,
		Status:          r.Status,
		SpecialRequests: r.SpecialRequests,
	}
	if r.Room != nil {
		id := r.Room.ID
		f.RoomID = &id
	}
	return f
}

// ParseForm converts the raw request. Values that cannot be parsed are
// reported on their field; a missing status defaults to PENDING.
func ParseForm(req FormRequest) (Form, FieldErrors) {
	errs := FieldErrors{}
	f := Form{
		GuestName:       strings.TrimSpace(req.GuestName),
		GuestEmail:      strings.TrimSpace(req.GuestEmail),
		NumberOfGuests:  req.NumberOfGuests,
		RoomID:          req.RoomID,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
		Status:          StatusPending,
	}

	if strings.TrimSpace(req.Date) == "" {
		errs.add("date", "Date is required")
	} else if d, err := ParseDate(req.Date); err != nil {
		errs.add("date", "Enter a date as YYYY-MM-DD")
	} else {
		f.Date = d
	}

	if strings.TrimSpace(req.Time) == "" {
		errs.add("time", "Time is required")
	} else if c, err := ParseClock(req.Time); err != nil {
		errs.add("time", "Enter a time as HH:MM")
	} else {
		f.Time = c
	}

	if d, err := ParseDuration(req.Duration); err != nil {
		errs.add("duration", "Choose a duration of 1, 1.5, 2, 2.5 or 3 hours")
	} else {
		f.Duration = d
	}

	if t, err := ParseRoomType(req.RoomType); err != nil {
		errs.add("room_type", "Choose Table or Karaoke Room")
	} else {
		f.RoomType = t
	}

	if strings.TrimSpace(req.Status) != "" {
		if st, err := ParseStatus(req.Status); err != nil {
			errs.add("status", "Unknown status")
		} else {
			f.Status = st
		}
	}

	return f, errs
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate applies the form rules in order and returns every violation.
// isNew enables the check that the date is not in the past.
func Validate(f Form, isNew bool, today Date) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(f.GuestName) == "" {
		errs.add("guest_name", "Guest name is required")
	}

	email := strings.TrimSpace(f.GuestEmail)
	switch {
	case email == "":
		errs.add("guest_email", "Email is required")
	case !emailPattern.MatchString(email):
		errs.add("guest_email", "Enter a valid email address")
	}

	if isNew && !f.Date.IsZero() && f.Date.Before(today) {
		errs.add("date", "Date cannot be in the past")
	}

	switch limit := f.RoomType.MaxGuests(); {
	case f.NumberOfGuests < 1:
		errs.add("number_of_guests", "At least one guest is required")
	case limit > 0 && f.NumberOfGuests > limit:
		errs.add("number_of_guests", f.RoomType.Label()+" bookings allow at most "+strconv.Itoa(limit)+" guests")
	}

	if f.Status == StatusConfirmed && f.RoomID == nil {
		errs.add("room", "Assign a room to confirm this reservation")
		errs.add("status", "A reservation cannot be confirmed without a room")
	}

	return errs
}
