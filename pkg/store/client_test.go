package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue/internal/storefake"
	"venue/pkg/store"
)

func newClient(t *testing.T) (store.Client, *storefake.Server) {
	t.Helper()
	fake := storefake.New()
	fake.Token = "abc123"
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return store.Client{BaseURL: srv.URL, Token: "abc123", HTTPClient: srv.Client()}, fake
}

func TestClient_SendsTokenAuthorization(t *testing.T) {
	c, fake := newClient(t)

	_, err := c.ListRooms(context.Background())
	require.NoError(t, err)

	calls := fake.Calls(http.MethodGet)
	require.Len(t, calls, 1)
	assert.Equal(t, "Token abc123", calls[0].Auth)
}

func TestClient_NonSuccessSurfacesAPIError(t *testing.T) {
	c, _ := newClient(t)
	c.Token = "wrong"

	_, err := c.ListReservations(context.Background(), store.ReservationQuery{})
	require.Error(t, err)
	assert.True(t, store.IsUnauthorized(err))

	var apiErr *store.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Body, "Invalid token")
}

func TestClient_GetReservationNotFound(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.GetReservation(context.Background(), 999)
	assert.True(t, store.IsNotFound(err))
}

func TestClient_CreateReservationValidatesBeforeSending(t *testing.T) {
	c, fake := newClient(t)

	_, err := c.CreateReservation(context.Background(), store.ReservationCreate{
		GuestName:      "Ann",
		GuestEmail:     "not-an-email",
		Date:           "2030-01-02",
		Time:           "19:00:00",
		Duration:       "02:00:00",
		NumberOfGuests: 4,
		RoomType:       "TABLE",
		Status:         "PENDING",
	})

	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "guest_email")
	assert.Empty(t, fake.Calls(http.MethodPost))
}

func TestClient_StatusOnlyPatchCarriesOnlyStatus(t *testing.T) {
	c, fake := newClient(t)
	roomID := int64(3)
	fake.SeedRooms(store.Room{ID: 3, Name: "Booth 3", Type: "TABLE", Capacity: 6, Bookable: true})
	seeded := fake.SeedReservation(store.Reservation{
		GuestName: "Ann", GuestEmail: "ann@example.com", Date: "2030-01-02", Time: "19:00:00",
		Duration: "02:00:00", NumberOfGuests: 4, RoomType: "TABLE", RoomID: &roomID, Status: "PENDING",
	})

	got, err := c.UpdateReservation(context.Background(), seeded.ID, store.StatusOnly("CONFIRMED"))
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", got.Status)

	patches := fake.Calls(http.MethodPatch)
	require.Len(t, patches, 1)
	assert.Equal(t, map[string]any{"status": "CONFIRMED"}, patches[0].Body)
}

func TestReservationPatch_ExplicitNullRoom(t *testing.T) {
	b, err := json.Marshal(store.ReservationPatch{SetRoom: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"room_id":null}`, string(b))

	b, err = json.Marshal(store.ReservationPatch{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}

func TestReservation_DecodesBothRoomShapes(t *testing.T) {
	cases := map[string]string{
		"nested object": `{"id":1,"date":"2030-01-02","status":"PENDING","room":{"id":7,"name":"Stage","type":"KARAOKE_ROOM","max_number_of_people":10}}`,
		"bare id":       `{"id":1,"date":"2030-01-02","status":"PENDING","room":7,"room_type":"KARAOKE_ROOM"}`,
		"room_id":       `{"id":1,"reservation_date":"2030-01-02","status":"PENDING","room_id":7,"room_type":"KARAOKE_ROOM"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var r store.Reservation
			require.NoError(t, json.Unmarshal([]byte(raw), &r))
			require.NotNil(t, r.RoomID)
			assert.Equal(t, int64(7), *r.RoomID)
			assert.Equal(t, "KARAOKE_ROOM", r.RoomType)
			assert.Equal(t, "2030-01-02", r.Date)
		})
	}
}

func TestReservation_NullRoom(t *testing.T) {
	var r store.Reservation
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"date":"2030-01-02","status":"PENDING","room":null,"room_id":null}`), &r))
	assert.Nil(t, r.RoomID)
	assert.Nil(t, r.Room)
}

func TestClient_ListUnwrapsPaginatedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":2,"next":null,"results":[{"id":1,"name":"A","type":"TABLE"},{"id":2,"name":"B","room_type":"KARAOKE_ROOM","capacity":8}]}`))
	}))
	defer srv.Close()

	rooms, err := store.Client{BaseURL: srv.URL}.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "KARAOKE_ROOM", rooms[1].Type)
	assert.Equal(t, 8, rooms[1].Capacity)
	assert.True(t, rooms[1].Bookable)
}

func TestClient_MenuPriceMustBePositive(t *testing.T) {
	c, fake := newClient(t)

	_, err := c.CreateMenuItem(context.Background(), store.MenuItemInput{Name: "Wings", Category: "Food", Price: decimal.Zero})
	var verr *store.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "price")

	item, err := c.CreateMenuItem(context.Background(), store.MenuItemInput{Name: "Wings", Category: "Food", Price: decimal.RequireFromString("12.50")})
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Len(t, fake.Calls(http.MethodPost), 1)
}

func TestClient_ObtainTokenDoesNotSendToken(t *testing.T) {
	c, fake := newClient(t)
	fake.Users["manager"] = "s3cret"

	tok, err := c.ObtainToken(context.Background(), store.Credentials{Username: "manager", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)

	calls := fake.Calls(http.MethodPost)
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth)

	_, err = c.ObtainToken(context.Background(), store.Credentials{Username: "manager", Password: "nope"})
	assert.True(t, store.IsRejected(err))
}
