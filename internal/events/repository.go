package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"venue/pkg/db"
)

// Event is one entry of a reservation's timeline.
type Event struct {
	ID            string    `json:"id"`
	ReservationID int64     `json:"reservationId"`
	EventType     string    `json:"eventType"`
	Summary       string    `json:"summary"`
	Actor         string    `json:"actor"`
	OccurredAt    time.Time `json:"occurredAt"`
	Data          any       `json:"data,omitempty"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, reservationID int64, eventType, summary, actor string, data any) error {
	return Insert(ctx, r.db, reservationID, eventType, summary, actor, time.Now(), data)
}

func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]Event, error) {
	const q = `
SELECT id::text, reservation_id, event_type, summary, actor, occurred_at, COALESCE(data, '{}'::jsonb)
FROM reservation_events
WHERE reservation_id = $1
ORDER BY occurred_at ASC, id ASC
`
	rows, err := r.db.Query(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.ReservationID, &e.EventType, &e.Summary, &e.Actor, &e.OccurredAt, &e.Data); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Insert works against the pool or an open transaction.
func Insert(ctx context.Context, q db.DBTX, reservationID int64, eventType, summary, actor string, occurredAt time.Time, data any) error {
	var s *string
	if data != nil {
		b, _ := json.Marshal(data)
		str := string(b)
		s = &str
	}
	const stmt = `
INSERT INTO reservation_events (reservation_id, event_type, summary, actor, occurred_at, data)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := q.Exec(ctx, stmt, reservationID, eventType, summary, actor, occurredAt, s)
	return err
}
