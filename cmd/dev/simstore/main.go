// Command simstore serves an in-memory reservation store for local runs of
// the API (point STORE_BASE_URL at http://localhost:8000/api).
package main

import (
	"flag"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"venue/internal/storefake"
	"venue/pkg/logger"
	"venue/pkg/store"
)

func main() {
	var (
		addr     = flag.String("addr", ":8000", "listen address")
		token    = flag.String("token", "dev-token", "token issued to every login and required on every call")
		username = flag.String("user", "manager", "admin username")
		password = flag.String("password", "manager", "admin password")
	)
	flag.Parse()

	log := logger.New("dev", "debug")

	srv := storefake.New()
	srv.Token = *token
	srv.Users[*username] = *password
	srv.SeedRooms(
		store.Room{ID: 1, Name: "Booth 1", Capacity: 6, Bookable: true, Type: "TABLE"},
		store.Room{ID: 2, Name: "Booth 2", Capacity: 6, Bookable: true, Type: "TABLE"},
		store.Room{ID: 3, Name: "Big Screen Table", Capacity: 10, Bookable: true, Type: "TABLE"},
		store.Room{ID: 4, Name: "Neon Stage", Capacity: 12, Bookable: true, Type: "KARAOKE_ROOM"},
		store.Room{ID: 5, Name: "Velvet Lounge", Capacity: 20, Bookable: true, Type: "KARAOKE_ROOM"},
	)
	srv.SeedMenu(
		store.MenuItem{ID: 1, Name: "Loaded Nachos", Category: "Starters", Price: decimal.RequireFromString("9.50"), IsAvailable: true},
		store.MenuItem{ID: 2, Name: "Buffalo Wings", Category: "Starters", Price: decimal.RequireFromString("11.00"), IsAvailable: true},
		store.MenuItem{ID: 3, Name: "Smash Burger", Category: "Mains", Price: decimal.RequireFromString("14.50"), IsAvailable: true},
		store.MenuItem{ID: 4, Name: "House Lager", Category: "Drinks", Price: decimal.RequireFromString("5.00"), IsAvailable: true},
	)

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           http.StripPrefix("/api", srv.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.WithField("addr", *addr).Info("simulated store listening under /api")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("serve")
	}
}
