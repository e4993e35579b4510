package reservation_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue/internal/reservation"
)

func newHandlerRouter(t *testing.T) (http.Handler, env) {
	t.Helper()
	e := newEnv(t)
	h := reservation.Handlers{
		Store:    func(*http.Request) reservation.Store { return e.wf.Store },
		Pending:  e.pending,
		Timeline: e.timeline,
		PageSize: 10,
		Now:      func() time.Time { return time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC) },
	}
	r := chi.NewRouter()
	r.Post("/public/reservations", h.PublicCreate)
	r.Get("/reservations", h.List)
	r.Get("/reservations/{id}", h.Get)
	r.Put("/reservations/{id}", h.Update)
	r.Delete("/reservations/{id}", h.Delete)
	r.Post("/reservations/{id}/status", h.ChangeStatus)
	return r, e
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	h.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

const editForm = `{"guest_name":"Ann Lee","guest_email":"ann@example.com","date":"2030-01-12","time":"19:00",
"duration":"2","number_of_guests":4,"room_type":"TABLE","room_id":3,"status":"CONFIRMED"}`

func TestChangeStatus_WithoutRoomAnswers202(t *testing.T) {
	h, e := newHandlerRouter(t)
	seeded := e.seed("PENDING", nil)

	rec := do(h, http.MethodPost, fmt.Sprintf("/reservations/%d/status", seeded.ID), `{"status":"confirmed"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var body struct {
		Outcome          string `json:"outcome"`
		ConfirmationFlow bool   `json:"confirmation_flow"`
		EligibleRooms    []struct {
			ID int64 `json:"id"`
		} `json:"eligible_rooms"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "needs_room_assignment", body.Outcome)
	assert.True(t, body.ConfirmationFlow)
	require.Len(t, body.EligibleRooms, 1)
	assert.Equal(t, int64(3), body.EligibleRooms[0].ID)
	assert.Empty(t, e.fake.Calls(http.MethodPatch))

	rec = do(h, http.MethodGet, fmt.Sprintf("/reservations/%d", seeded.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"confirmation_pending":true`)
}

func TestChangeStatus_WithRoomConfirms(t *testing.T) {
	h, e := newHandlerRouter(t)
	seeded := e.seed("PENDING", roomPtr(3))

	rec := do(h, http.MethodPost, fmt.Sprintf("/reservations/%d/status", seeded.ID), `{"status":"CONFIRMED"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"outcome":"updated"`)
	assert.Len(t, e.fake.Calls(http.MethodPatch), 1)
}

func TestConflictCodes(t *testing.T) {
	h, e := newHandlerRouter(t)
	confirmed := e.seed("CONFIRMED", roomPtr(3))
	cancelled := e.seed("CANCELLED", nil)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		code   string
	}{
		{"transition out of cancelled", http.MethodPost, fmt.Sprintf("/reservations/%d/status", cancelled.ID), `{"status":"PENDING"}`, "INVALID_STATE_TRANSITION"},
		{"edit of confirmed", http.MethodPut, fmt.Sprintf("/reservations/%d", confirmed.ID), editForm, "RESERVATION_LOCKED"},
		{"delete of confirmed", http.MethodDelete, fmt.Sprintf("/reservations/%d", confirmed.ID), "", "RESERVATION_NOT_DELETABLE"},
		{"delete of cancelled", http.MethodDelete, fmt.Sprintf("/reservations/%d", cancelled.ID), "", "RESERVATION_NOT_DELETABLE"},
	}
	for _, tc := range cases {
		rec := do(h, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusConflict {
			t.Fatalf("%s: status=%d want 409 body=%s", tc.name, rec.Code, rec.Body.String())
		}
		if got := decodeError(t, rec).Error.Code; got != tc.code {
			t.Fatalf("%s: code=%s want %s", tc.name, got, tc.code)
		}
	}
	assert.Empty(t, e.fake.Calls(http.MethodPatch))
	assert.Empty(t, e.fake.Calls(http.MethodDelete))
}

func TestChangeStatus_StoreFailureIs502(t *testing.T) {
	h, e := newHandlerRouter(t)
	seeded := e.seed("PENDING", roomPtr(3))
	e.fake.FailNext(http.MethodPatch, 1)

	rec := do(h, http.MethodPost, fmt.Sprintf("/reservations/%d/status", seeded.ID), `{"status":"CONFIRMED"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
	assert.Equal(t, "STORE_UNAVAILABLE", decodeError(t, rec).Error.Code)

	stored, _ := e.fake.Reservation(seeded.ID)
	assert.Equal(t, "PENDING", stored.Status)
}

func TestUpdate_ParkedConfirmationThenCancel(t *testing.T) {
	h, e := newHandlerRouter(t)
	seeded := e.seed("PENDING", nil)
	path := fmt.Sprintf("/reservations/%d", seeded.ID)

	rec := do(h, http.MethodPost, path+"/status", `{"status":"CONFIRMED"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	cancel := strings.Replace(editForm, `"status":"CONFIRMED"`, `"status":"CANCELLED"`, 1)
	rec = do(h, http.MethodPut, path, cancel)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"confirmed":false`)

	stored, _ := e.fake.Reservation(seeded.ID)
	assert.Equal(t, "CANCELLED", stored.Status)
}

func TestPublicCreate_ReportsParseAndRuleErrorsTogether(t *testing.T) {
	h, e := newHandlerRouter(t)

	rec := do(h, http.MethodPost, "/public/reservations",
		`{"guest_name":"","guest_email":"not-an-email","date":"12/01/2030","time":"19:00","duration":"2","number_of_guests":0,"room_type":"TABLE"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	for _, field := range []string{"date", "guest_name", "guest_email", "number_of_guests"} {
		assert.Contains(t, body.Error.Fields, field)
	}
	assert.NotContains(t, body.Error.Fields, "status")
	assert.Empty(t, e.fake.Calls(http.MethodPost))
}

func TestPublicCreate_ForcesPending(t *testing.T) {
	h, e := newHandlerRouter(t)

	rec := do(h, http.MethodPost, "/public/reservations", editForm)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"PENDING"`)

	posts := e.fake.Calls(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, "PENDING", posts[0].Body["status"])
	assert.Nil(t, posts[0].Body["room_id"])
}

func TestList_TabCountsAndPageSizeCap(t *testing.T) {
	h, e := newHandlerRouter(t)
	e.seed("PENDING", nil)
	e.seed("PENDING", nil)
	e.seed("CONFIRMED", roomPtr(3))
	e.seed("CANCELLED", nil)

	rec := do(h, http.MethodGet, "/reservations?tab=pending&page_size=1000&page=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Tab    string         `json:"tab"`
		Counts map[string]int `json:"counts"`
		Page   struct {
			Items    []json.RawMessage `json:"items"`
			PageSize int               `json:"page_size"`
			Total    int               `json:"total"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pending", body.Tab)
	assert.Equal(t, map[string]int{"all": 4, "pending": 2, "confirmed": 1, "cancelled": 1}, body.Counts)
	assert.Equal(t, 100, body.Page.PageSize)
	assert.Equal(t, 2, body.Page.Total)
	assert.Len(t, body.Page.Items, 2)

	rec = do(h, http.MethodGet, "/reservations?page=4611686018427387906", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}
