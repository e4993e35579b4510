// Package storefake is an in-memory stand-in for the remote reservation REST
// API. It backs local development (cmd/dev/simstore) and HTTP tests.
package storefake

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"venue/pkg/store"
)

// Call records one request the fake received.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
	Auth   string
}

type Server struct {
	// Token required on every call except token auth. Empty disables the check.
	Token string
	// Users maps username to password for /api-token-auth/.
	Users map[string]string

	mu           sync.Mutex
	nextID       int64
	reservations map[int64]store.Reservation
	rooms        []store.Room
	feedback     map[int64]store.Feedback
	employees    map[int64]store.Employee
	menu         map[int64]store.MenuItem
	calls        []Call
	failNext     map[string]int
}

func New() *Server {
	return &Server{
		Users:        map[string]string{},
		nextID:       100,
		reservations: map[int64]store.Reservation{},
		feedback:     map[int64]store.Feedback{},
		employees:    map[int64]store.Employee{},
		menu:         map[int64]store.MenuItem{},
		failNext:     map[string]int{},
	}
}

// SeedRooms replaces the room catalog.
func (s *Server) SeedRooms(rooms ...store.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = append([]store.Room(nil), rooms...)
}

func (s *Server) SeedReservation(r store.Reservation) store.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.id()
	}
	s.reservations[r.ID] = s.withRoom(r)
	return s.reservations[r.ID]
}

func (s *Server) SeedMenu(items ...store.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		if it.ID == 0 {
			it.ID = s.id()
		}
		s.menu[it.ID] = it
	}
}

func (s *Server) Reservation(id int64) (store.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	return r, ok
}

// Calls returns the recorded requests, optionally filtered by method.
func (s *Server) Calls(method string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if method == "" || c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// FailNext makes the next n requests with the given method answer 500.
func (s *Server) FailNext(method string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[method] = n
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/api-token-auth/", s.obtainToken)

	r.Group(func(r chi.Router) {
		r.Use(s.auth)

		r.Get("/reservations/", s.listReservations)
		r.Post("/reservations/", s.createReservation)
		r.Get("/reservations/{id}/", s.getReservation)
		r.Patch("/reservations/{id}/", s.patchReservation)
		r.Delete("/reservations/{id}/", s.deleteReservation)

		r.Get("/rooms/", s.listRooms)

		r.Get("/feedback/", s.listFeedback)
		r.Post("/feedback/", s.createFeedback)
		r.Delete("/feedback/{id}/", s.deleteFeedback)
		r.Post("/feedback/{id}/response/", s.respondFeedback)

		r.Get("/employees/", s.listEmployees)
		r.Post("/employees/", s.saveEmployee)
		r.Get("/employees/{id}/", s.getEmployee)
		r.Put("/employees/{id}/", s.saveEmployee)
		r.Delete("/employees/{id}/", s.deleteEmployee)

		r.Get("/menus/list", s.listMenu)
		r.Post("/menus/create", s.saveMenuItem)
		r.Put("/menus/{id}/", s.saveMenuItem)
		r.Delete("/menus/{id}/", s.deleteMenuItem)
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) {
			raw, _ := readAll(r)
			_ = json.Unmarshal(raw, &body)
		}

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body, Auth: r.Header.Get("Authorization")})
		fail := s.failNext[r.Method] > 0
		if fail {
			s.failNext[r.Method]--
		}
		s.mu.Unlock()

		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "simulated failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" && r.Header.Get("Authorization") != "Token "+s.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) obtainToken(w http.ResponseWriter, r *http.Request) {
	var creds store.Credentials
	if err := decodeBody(r, &creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	s.mu.Lock()
	pw, ok := s.Users[creds.Username]
	s.mu.Unlock()
	if !ok || pw != creds.Password {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Unable to log in with provided credentials."}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.Token})
}

func (s *Server) listReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	out := make([]store.Reservation, 0, len(s.reservations))
	for _, res := range s.reservations {
		if d := q.Get("date"); d != "" && res.Date != d {
			continue
		}
		if st := q.Get("status"); st != "" && !strings.EqualFold(res.Status, st) {
			continue
		}
		if rt := q.Get("room_type"); rt != "" && !strings.EqualFold(res.RoomType, rt) {
			continue
		}
		out = append(out, res)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	res, found := s.reservations[id]
	s.mu.Unlock()
	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) createReservation(w http.ResponseWriter, r *http.Request) {
	var in store.ReservationCreate
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	now := time.Now().UTC()
	s.mu.Lock()
	res := store.Reservation{
		ID:              s.id(),
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		Date:            in.Date,
		Time:            in.Time,
		Duration:        in.Duration,
		NumberOfGuests:  in.NumberOfGuests,
		RoomID:          in.RoomID,
		RoomType:        in.RoomType,
		Status:          in.Status,
		SpecialRequests: in.SpecialRequests,
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}
	res = s.withRoom(res)
	s.reservations[res.ID] = res
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) patchReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body map[string]json.RawMessage
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, found := s.reservations[id]
	if !found {
		notFound(w)
		return
	}
	setString := func(key string, dst *string) {
		if v, ok := body[key]; ok {
			_ = json.Unmarshal(v, dst)
		}
	}
	setString("guest_name", &res.GuestName)
	setString("guest_email", &res.GuestEmail)
	setString("date", &res.Date)
	setString("time", &res.Time)
	setString("duration", &res.Duration)
	setString("room_type", &res.RoomType)
	setString("status", &res.Status)
	setString("special_requests", &res.SpecialRequests)
	if v, ok := body["number_of_guests"]; ok {
		_ = json.Unmarshal(v, &res.NumberOfGuests)
	}
	if v, ok := body["room_id"]; ok {
		var roomID *int64
		_ = json.Unmarshal(v, &roomID)
		res.RoomID = roomID
		res.Room = nil
	}
	if res.Status == "CONFIRMED" && res.RoomID == nil {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"room": {"A confirmed reservation needs a room."}})
		return
	}
	now := time.Now().UTC()
	res.UpdatedAt = &now
	res = s.withRoom(res)
	s.reservations[id] = res
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) deleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.reservations[id]
	delete(s.reservations, id)
	s.mu.Unlock()
	if !found {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]store.Room{}, s.rooms...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listFeedback(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]store.Feedback, 0, len(s.feedback))
	for _, f := range s.feedback {
		out = append(out, f)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createFeedback(w http.ResponseWriter, r *http.Request) {
	var in store.FeedbackCreate
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	now := time.Now().UTC()
	s.mu.Lock()
	f := store.Feedback{ID: s.id(), Name: in.Name, Email: in.Email, Rating: in.Rating, Message: in.Message, CreatedAt: &now}
	s.feedback[f.ID] = f
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) deleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.feedback[id]
	delete(s.feedback, id)
	s.mu.Unlock()
	if !found {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) respondFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in store.FeedbackResponse
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, found := s.feedback[id]
	if !found {
		notFound(w)
		return
	}
	now := time.Now().UTC()
	f.Response = in.Response
	f.RespondedAt = &now
	s.feedback[id] = f
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]store.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	e, found := s.employees[id]
	s.mu.Unlock()
	if !found {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) saveEmployee(w http.ResponseWriter, r *http.Request) {
	var in store.EmployeeInput
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	status := http.StatusCreated
	var id int64
	if chi.URLParam(r, "id") != "" {
		parsed, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if _, found := s.employees[parsed]; err != nil || !found {
			notFound(w)
			return
		}
		id, status = parsed, http.StatusOK
	} else {
		id = s.id()
	}
	e := store.Employee{
		ID: id, FirstName: in.FirstName, LastName: in.LastName, Email: in.Email,
		Phone: in.Phone, Position: in.Position, HireDate: in.HireDate, IsActive: in.IsActive,
	}
	s.employees[id] = e
	writeJSON(w, status, e)
}

func (s *Server) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.employees[id]
	delete(s.employees, id)
	s.mu.Unlock()
	if !found {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listMenu(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]store.MenuItem, 0, len(s.menu))
	for _, m := range s.menu {
		out = append(out, m)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) saveMenuItem(w http.ResponseWriter, r *http.Request) {
	var in store.MenuItemInput
	if err := decodeBody(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid json"})
		return
	}
	if in.Price.LessThanOrEqual(decimal.Zero) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"price": {"Ensure this value is greater than 0."}})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	status := http.StatusCreated
	var id int64
	if chi.URLParam(r, "id") != "" {
		parsed, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if _, found := s.menu[parsed]; err != nil || !found {
			notFound(w)
			return
		}
		id, status = parsed, http.StatusOK
	} else {
		id = s.id()
	}
	m := store.MenuItem{
		ID: id, Name: in.Name, Description: in.Description, Category: in.Category,
		Price: in.Price, IsAvailable: in.IsAvailable, ImageURL: in.ImageURL,
	}
	s.menu[id] = m
	writeJSON(w, status, m)
}

func (s *Server) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.menu[id]
	delete(s.menu, id)
	s.mu.Unlock()
	if !found {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withRoom expands RoomID into the nested room object. Caller holds mu.
func (s *Server) withRoom(r store.Reservation) store.Reservation {
	r.Room = nil
	if r.RoomID == nil {
		return r
	}
	for _, room := range s.rooms {
		if room.ID == *r.RoomID {
			rm := room
			r.Room = &rm
			break
		}
	}
	return r
}

// id hands out the next identifier. Caller holds mu.
func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}
