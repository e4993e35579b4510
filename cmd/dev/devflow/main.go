// Command devflow walks one booking through the confirmation flow against a
// running API (backed by cmd/dev/simstore or a real store):
//
//	guest books -> manager confirms without a room (parked) -> manager assigns
//	a room in the edit form (confirmed) -> further edits are rejected.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type client struct {
	base  string
	token string
	http  *http.Client
}

func (c *client) do(method, path string, body any) (int, gjson.Result) {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		fail("new request %s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		fail("%s %s: %v\ntip: is the API running? base=%s", method, path, err, c.base)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, gjson.ParseBytes(b)
}

func (c *client) expect(want int, method, path string, body any) gjson.Result {
	got, res := c.do(method, path, body)
	if got != want {
		fail("%s %s: status=%d want=%d body=%s", method, path, got, want, res.Raw)
	}
	return res
}

func main() {
	var (
		base     = flag.String("base", "", "API base url (defaults to http://localhost<HTTP_ADDR>)")
		username = flag.String("user", "manager", "admin username")
		password = flag.String("password", "manager", "admin password")
		roomType = flag.String("room-type", "KARAOKE_ROOM", "TABLE or KARAOKE_ROOM")
	)
	flag.Parse()
	if *base == "" {
		*base = defaultBase(os.Getenv("HTTP_ADDR"))
	}

	c := &client{base: strings.TrimRight(*base, "/"), http: &http.Client{Timeout: 10 * time.Second}}

	login := c.expect(http.StatusOK, http.MethodPost, "/v1/admin/login", map[string]string{
		"username": *username,
		"password": *password,
	})
	c.token = login.Get("token").String()
	fmt.Printf("logged in as %s (session expires %s)\n", login.Get("username"), login.Get("expires_at"))

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	guest := &client{base: c.base, http: c.http}
	created := guest.expect(http.StatusCreated, http.MethodPost, "/v1/public/reservations", map[string]any{
		"guest_name":       "Devflow Guest",
		"guest_email":      "guest@example.com",
		"date":             date,
		"time":             "19:30",
		"duration":         "2",
		"number_of_guests": 4,
		"room_type":        *roomType,
		"special_requests": "birthday",
	})
	id := created.Get("reservation.id").Int()
	fmt.Printf("guest booked reservation %d status=%s\n", id, created.Get("reservation.status"))

	path := fmt.Sprintf("/v1/admin/reservations/%d", id)
	parked := c.expect(http.StatusAccepted, http.MethodPost, path+"/status", map[string]string{"status": "CONFIRMED"})
	fmt.Printf("confirm without room: outcome=%s eligible_rooms=%d\n",
		parked.Get("outcome"), len(parked.Get("eligible_rooms").Array()))

	rooms := c.expect(http.StatusOK, http.MethodGet, path+"/rooms", nil).Get("items").Array()
	if len(rooms) == 0 {
		fail("no %s rooms available to assign", *roomType)
	}
	roomID := rooms[0].Get("id").Int()

	form := parked.Get("form")
	edit := map[string]any{
		"guest_name":       form.Get("guest_name").String(),
		"guest_email":      form.Get("guest_email").String(),
		"date":             date,
		"time":             "19:30",
		"duration":         "2",
		"number_of_guests": form.Get("number_of_guests").Int(),
		"room_type":        *roomType,
		"room_id":          roomID,
		"status":           "CONFIRMED",
		"special_requests": form.Get("special_requests").String(),
	}
	saved := c.expect(http.StatusOK, http.MethodPut, path, edit)
	fmt.Printf("assigned room %d (%s): confirmed=%t status=%s\n",
		roomID, rooms[0].Get("name"), saved.Get("confirmed").Bool(), saved.Get("reservation.status"))

	locked := c.expect(http.StatusConflict, http.MethodPut, path, edit)
	fmt.Printf("edit after confirmation rejected: %s\n", locked.Get("error.code"))

	detail := c.expect(http.StatusOK, http.MethodGet, path, nil)
	fmt.Println("timeline:")
	for _, ev := range detail.Get("timeline").Array() {
		fmt.Printf("  - %s %s by %s\n", ev.Get("occurredAt"), ev.Get("summary"), ev.Get("actor"))
	}
}

func defaultBase(httpAddr string) string {
	addr := strings.TrimSpace(httpAddr)
	switch {
	case addr == "":
		return "http://localhost:8081"
	case strings.HasPrefix(addr, ":"):
		return "http://localhost" + addr
	case strings.HasPrefix(addr, "0.0.0.0:"):
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + addr
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
