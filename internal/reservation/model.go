package reservation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus accepts any casing ("Confirmed", "confirmed").
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status: %q", s)
	}
}

func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// RoomType is canonically TABLE or KARAOKE_ROOM. Display strings such as
// "Karaoke Room" are only produced by Label and only accepted by ParseRoomType.
type RoomType string

const (
	RoomTypeTable   RoomType = "TABLE"
	RoomTypeKaraoke RoomType = "KARAOKE_ROOM"
)

var RoomTypes = []RoomType{RoomTypeTable, RoomTypeKaraoke}

func ParseRoomType(s string) (RoomType, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", " ", "-", " ").Replace(norm)
	switch strings.Join(strings.Fields(norm), " ") {
	case "table":
		return RoomTypeTable, nil
	case "karaoke room", "karaoke":
		return RoomTypeKaraoke, nil
	default:
		return "", fmt.Errorf("unknown room type: %q", s)
	}
}

func (t RoomType) Label() string {
	switch t {
	case RoomTypeTable:
		return "Table"
	case RoomTypeKaraoke:
		return "Karaoke Room"
	}
	return string(t)
}

// MaxGuests is the party size cap for the room type.
func (t RoomType) MaxGuests() int {
	switch t {
	case RoomTypeTable:
		return 6
	case RoomTypeKaraoke:
		return 10
	}
	return 0
}

// Duration is a booking length in minutes.
type Duration int

var Durations = []Duration{60, 90, 120, 150, 180}

// ParseDuration accepts "01:30:00", "1:30", "1.5h", "90m" and bare hours ("1.5").
// Only the bookable lengths are valid.
func ParseDuration(s string) (Duration, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var minutes float64
	switch {
	case strings.Contains(raw, ":"):
		parts := strings.Split(raw, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, fmt.Errorf("invalid duration: %q", s)
		}
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return 0, fmt.Errorf("invalid duration: %q", s)
		}
		minutes = float64(h*60 + m)
	case strings.HasSuffix(raw, "m"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(raw, "m"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %q", s)
		}
		minutes = n
	default:
		n, err := strconv.ParseFloat(strings.TrimSuffix(raw, "h"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %q", s)
		}
		minutes = n * 60
	}

	d := Duration(minutes)
	for _, allowed := range Durations {
		if d == allowed && float64(d) == minutes {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unsupported duration: %q", s)
}

// Wire renders HH:MM:SS.
func (d Duration) Wire() string {
	return fmt.Sprintf("%02d:%02d:00", int(d)/60, int(d)%60)
}

func (d Duration) Label() string {
	return strconv.FormatFloat(float64(d)/60, 'f', -1, 64) + "h"
}

func (d Duration) MarshalText() ([]byte, error) {
	if d == 0 {
		return []byte(""), nil
	}
	return []byte(d.Label()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = 0
		return nil
	}
	v, err := ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %q", s)
	}
	return DateOf(t), nil
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// ParseClock accepts "19:30" and "19:30:00".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return Clock{}, fmt.Errorf("invalid time: %q", s)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

func (c Clock) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

type Room struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Capacity    int      `json:"capacity"`
	Bookable    bool     `json:"bookable"`
	Type        RoomType `json:"type"`
}

type Reservation struct {
	ID              int64      `json:"id"`
	GuestName       string     `json:"guest_name"`
	GuestEmail      string     `json:"guest_email"`
	Date            Date       `json:"date"`
	Time            Clock      `json:"time"`
	Duration        Duration   `json:"duration"`
	NumberOfGuests  int        `json:"number_of_guests"`
	Room            *Room      `json:"room"`
	RoomType        RoomType   `json:"room_type"`
	Status          Status     `json:"status"`
	SpecialRequests string     `json:"special_requests,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

func (r Reservation) HasRoom() bool { return r.Room != nil }
