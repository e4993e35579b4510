package reservation

// EligibleRooms returns the rooms of the requested type in catalog order.
func EligibleRooms(rooms []Room, t RoomType) []Room {
	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

func findRoom(rooms []Room, id int64) (Room, bool) {
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}
