package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Reservation {
	return []Reservation{
		{ID: 1, GuestName: "Ann Lee", GuestEmail: "ann@example.com", Date: Date{2030, 1, 12}, RoomType: RoomTypeTable, Status: StatusPending},
		{ID: 2, GuestName: "Bo Chan", GuestEmail: "bo@example.com", Date: Date{2030, 1, 13}, RoomType: RoomTypeKaraoke, Status: StatusConfirmed,
			Room: &Room{ID: 7, Name: "Neon Stage", Type: RoomTypeKaraoke}},
		{ID: 3, GuestName: "Cy Diaz", GuestEmail: "cy@example.com", Date: Date{2030, 1, 14}, RoomType: RoomTypeTable, Status: StatusCancelled},
	}
}

func ids(items []Reservation) []int64 {
	out := make([]int64, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter_Tabs(t *testing.T) {
	items := sample()
	assert.Equal(t, []int64{1, 2, 3}, ids(Filter(items, TabAll, "")))
	assert.Equal(t, []int64{1}, ids(Filter(items, TabPending, "")))
	assert.Equal(t, []int64{2}, ids(Filter(items, TabConfirmed, "")))
	assert.Equal(t, []int64{3}, ids(Filter(items, TabCancelled, "")))
}

func TestFilter_Search(t *testing.T) {
	items := sample()
	assert.Equal(t, []int64{2}, ids(Filter(items, TabAll, "karaoke room")))
	assert.Equal(t, []int64{2}, ids(Filter(items, TabAll, "neon")))
	assert.Equal(t, []int64{1}, ids(Filter(items, TabAll, "ANN@")))
	assert.Equal(t, []int64{3}, ids(Filter(items, TabAll, "2030-01-14")))
	assert.Empty(t, Filter(items, TabConfirmed, "ann"))
}

func TestFilter_Idempotent(t *testing.T) {
	items := sample()
	once := Filter(items, TabAll, "table")
	assert.Equal(t, ids(once), ids(Filter(once, TabAll, "table")))
}

func TestFilter_ClearingSearchRestoresTab(t *testing.T) {
	items := append(sample(), Reservation{
		ID: 4, GuestName: "Dee Fox", GuestEmail: "dee@example.com", Date: Date{2030, 1, 15},
		RoomType: RoomTypeTable, Status: StatusConfirmed, Room: &Room{ID: 3, Name: "Booth 3", Type: RoomTypeTable},
	})
	confirmed := Filter(items, TabConfirmed, "")
	require.Equal(t, []int64{2, 4}, ids(confirmed))

	assert.Empty(t, Filter(items, TabConfirmed, "zzz"))
	assert.Equal(t, confirmed, Filter(items, TabConfirmed, ""))
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabConfirmed, ParseTab("Confirmed"))
	assert.Equal(t, TabAll, ParseTab(""))
	assert.Equal(t, TabAll, ParseTab("archived"))
}

func TestActionsFor(t *testing.T) {
	assert.Equal(t, Actions{View: true, Confirm: true, Cancel: true, Delete: true}, ActionsFor(StatusPending))
	assert.Equal(t, Actions{View: true}, ActionsFor(StatusConfirmed))
	assert.Equal(t, Actions{View: true}, ActionsFor(StatusCancelled))
}

func TestPaginate(t *testing.T) {
	items := sample()

	p := Paginate(items, 1, 2)
	require.Len(t, p.Items, 2)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, "Pending", p.Items[0].StatusLabel)

	p = Paginate(items, 2, 2)
	require.Len(t, p.Items, 1)
	assert.Equal(t, int64(3), p.Items[0].ID)

	p = Paginate(items, 5, 2)
	assert.Empty(t, p.Items)
	assert.Equal(t, 3, p.Total)

	p = Paginate(items, atoiDefault("4611686018427387906", 1), 10)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.TotalPages)

	p = Paginate(items, 3, 1)
	require.Len(t, p.Items, 1)
	assert.Equal(t, int64(3), p.Items[0].ID)

	p = Paginate(nil, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 0, p.TotalPages)
}

func TestEligibleRoomsKeepsCatalogOrder(t *testing.T) {
	rooms := []Room{
		{ID: 9, Name: "Booth 9", Type: RoomTypeTable},
		{ID: 3, Name: "Stage", Type: RoomTypeKaraoke},
		{ID: 1, Name: "Booth 1", Type: RoomTypeTable},
	}
	got := EligibleRooms(rooms, RoomTypeTable)
	require.Len(t, got, 2)
	assert.Equal(t, int64(9), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Empty(t, EligibleRooms(nil, RoomTypeKaraoke))
}
