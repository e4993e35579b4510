package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

type Room struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"max_number_of_people"`
	Bookable    bool   `json:"is_bookable"`
	Type        string `json:"type"`
}

type roomFields Room

// UnmarshalJSON accepts "room_type"/"capacity"/"bookable" as aliases of
// the canonical keys.
func (r *Room) UnmarshalJSON(b []byte) error {
	var f roomFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Room(f)

	res := gjson.ParseBytes(b)
	if r.Type == "" {
		r.Type = res.Get("room_type").String()
	}
	if !res.Get("max_number_of_people").Exists() {
		r.Capacity = int(res.Get("capacity").Int())
	}
	if !res.Get("is_bookable").Exists() {
		if v := res.Get("bookable"); v.Exists() {
			r.Bookable = v.Bool()
		} else {
			r.Bookable = true
		}
	}
	return nil
}

func (c Client) ListRooms(ctx context.Context) ([]Room, error) {
	rooms, err := decodeList[Room](ctx, c, "/rooms/", nil)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}
