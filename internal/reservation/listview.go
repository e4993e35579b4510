package reservation

import "strings"

// Tab is a status filter of the reservation list.
type Tab string

const (
	TabAll       Tab = "all"
	TabConfirmed Tab = "confirmed"
	TabPending   Tab = "pending"
	TabCancelled Tab = "cancelled"
)

// ParseTab falls back to TabAll for anything unknown.
func ParseTab(s string) Tab {
	switch t := Tab(strings.ToLower(strings.TrimSpace(s))); t {
	case TabConfirmed, TabPending, TabCancelled:
		return t
	}
	return TabAll
}

func (t Tab) matches(s Status) bool {
	switch t {
	case TabConfirmed:
		return s == StatusConfirmed
	case TabPending:
		return s == StatusPending
	case TabCancelled:
		return s == StatusCancelled
	}
	return true
}

// Filter applies the tab and then a case-insensitive search over guest name,
// email, date, room type and room name.
func Filter(items []Reservation, tab Tab, query string) []Reservation {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Reservation, 0, len(items))
	for _, r := range items {
		if !tab.matches(r.Status) {
			continue
		}
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r Reservation, q string) bool {
	fields := []string{
		r.GuestName,
		r.GuestEmail,
		r.Date.String(),
		string(r.RoomType),
		r.RoomType.Label(),
	}
	if r.Room != nil {
		fields = append(fields, r.Room.Name)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Actions are the row actions offered for a reservation.
type Actions struct {
	View    bool `json:"view"`
	Confirm bool `json:"confirm"`
	Cancel  bool `json:"cancel"`
	Delete  bool `json:"delete"`
}

func ActionsFor(s Status) Actions {
	open := s == StatusPending
	return Actions{View: true, Confirm: open, Cancel: open, Delete: open}
}

type Row struct {
	Reservation
	StatusLabel   string  `json:"status_label"`
	RoomTypeLabel string  `json:"room_type_label"`
	Actions       Actions `json:"actions"`
}

func RowFor(r Reservation) Row {
	return Row{
		Reservation:   r,
		StatusLabel:   r.Status.Label(),
		RoomTypeLabel: r.RoomType.Label(),
		Actions:       ActionsFor(r.Status),
	}
}

type Page struct {
	Items      []Row `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Paginate slices items into 1-based pages. A page past the end is empty but
// still reports the totals.
func Paginate(items []Reservation, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = 10
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	p := Page{
		Items:      []Row{},
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
	// Compared before multiplying so huge page numbers cannot overflow.
	if page > totalPages {
		return p
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	for _, r := range items[start:end] {
		p.Items = append(p.Items, RowFor(r))
	}
	return p
}
