// Package analytics aggregates store data for the dashboard charts.
package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"venue/internal/reservation"
	"venue/pkg/store"
)

type DayPoint struct {
	Date         string `json:"date"`
	Reservations int    `json:"reservations"`
	Guests       int    `json:"guests"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type ReservationStats struct {
	Total            int                          `json:"total"`
	ByStatus         map[reservation.Status]int   `json:"by_status"`
	ByRoomType       map[reservation.RoomType]int `json:"by_room_type"`
	PerDay           []DayPoint                   `json:"per_day"`
	AveragePartySize decimal.Decimal              `json:"average_party_size"`
	ConfirmationRate decimal.Decimal              `json:"confirmation_rate"`
	BusiestHours     []HourCount                  `json:"busiest_hours"`
}

type FeedbackStats struct {
	Count          int             `json:"count"`
	AverageRating  decimal.Decimal `json:"average_rating"`
	Distribution   map[int]int     `json:"distribution"`
	RespondedRatio decimal.Decimal `json:"responded_ratio"`
}

type StaffStats struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	ByPosition map[string]int `json:"by_position"`
}

type MenuStats struct {
	Items        int             `json:"items"`
	Available    int             `json:"available"`
	ByCategory   map[string]int  `json:"by_category"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

const busiestHoursShown = 5

// Reservations summarises the given reservations. ConfirmationRate is the
// share of confirmed reservations in percent.
func Reservations(items []reservation.Reservation) ReservationStats {
	s := ReservationStats{
		Total:            len(items),
		ByStatus:         map[reservation.Status]int{},
		ByRoomType:       map[reservation.RoomType]int{},
		PerDay:           []DayPoint{},
		AveragePartySize: decimal.Zero,
		ConfirmationRate: decimal.Zero,
		BusiestHours:     []HourCount{},
	}
	for _, st := range []reservation.Status{reservation.StatusPending, reservation.StatusConfirmed, reservation.StatusCancelled} {
		s.ByStatus[st] = 0
	}
	for _, t := range reservation.RoomTypes {
		s.ByRoomType[t] = 0
	}
	if len(items) == 0 {
		return s
	}

	days := map[string]*DayPoint{}
	hours := map[int]int{}
	guests := 0
	for _, r := range items {
		s.ByStatus[r.Status]++
		if r.RoomType != "" {
			s.ByRoomType[r.RoomType]++
		}
		guests += r.NumberOfGuests

		key := r.Date.String()
		p, ok := days[key]
		if !ok {
			p = &DayPoint{Date: key}
			days[key] = p
		}
		p.Reservations++
		p.Guests += r.NumberOfGuests

		if r.Status != reservation.StatusCancelled {
			hours[r.Time.Hour]++
		}
	}

	for _, p := range days {
		s.PerDay = append(s.PerDay, *p)
	}
	sort.Slice(s.PerDay, func(i, j int) bool { return s.PerDay[i].Date < s.PerDay[j].Date })

	for h, c := range hours {
		s.BusiestHours = append(s.BusiestHours, HourCount{Hour: h, Count: c})
	}
	sort.Slice(s.BusiestHours, func(i, j int) bool {
		if s.BusiestHours[i].Count != s.BusiestHours[j].Count {
			return s.BusiestHours[i].Count > s.BusiestHours[j].Count
		}
		return s.BusiestHours[i].Hour < s.BusiestHours[j].Hour
	})
	if len(s.BusiestHours) > busiestHoursShown {
		s.BusiestHours = s.BusiestHours[:busiestHoursShown]
	}

	total := decimal.NewFromInt(int64(len(items)))
	s.AveragePartySize = decimal.NewFromInt(int64(guests)).Div(total).Round(2)
	s.ConfirmationRate = percent(s.ByStatus[reservation.StatusConfirmed], len(items))
	return s
}

func Feedback(items []store.Feedback) FeedbackStats {
	s := FeedbackStats{
		Count:          len(items),
		AverageRating:  decimal.Zero,
		Distribution:   map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		RespondedRatio: decimal.Zero,
	}
	if len(items) == 0 {
		return s
	}
	sum, responded := 0, 0
	for _, f := range items {
		sum += f.Rating
		if _, ok := s.Distribution[f.Rating]; ok {
			s.Distribution[f.Rating]++
		}
		if strings.TrimSpace(f.Response) != "" {
			responded++
		}
	}
	s.AverageRating = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(items)))).Round(2)
	s.RespondedRatio = percent(responded, len(items))
	return s
}

func Staff(items []store.Employee) StaffStats {
	s := StaffStats{Total: len(items), ByPosition: map[string]int{}}
	for _, e := range items {
		if e.IsActive {
			s.Active++
		}
		pos := strings.TrimSpace(e.Position)
		if pos == "" {
			pos = "Unassigned"
		}
		s.ByPosition[pos]++
	}
	return s
}

func Menu(items []store.MenuItem) MenuStats {
	s := MenuStats{Items: len(items), ByCategory: map[string]int{}, AveragePrice: decimal.Zero}
	if len(items) == 0 {
		return s
	}
	sum := decimal.Zero
	for _, it := range items {
		if it.IsAvailable {
			s.Available++
		}
		cat := strings.TrimSpace(it.Category)
		if cat == "" {
			cat = "Other"
		}
		s.ByCategory[cat]++
		sum = sum.Add(it.Price)
	}
	s.AveragePrice = sum.Div(decimal.NewFromInt(int64(len(items)))).Round(2)
	return s
}

// percent is part/total*100 rounded to one decimal place.
func percent(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(total))).Round(1)
}
