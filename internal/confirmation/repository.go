package confirmation

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is a confirmation parked until the reservation gets a room.
type Record struct {
	ReservationID   int64     `json:"reservationId"`
	RequestedBy     string    `json:"requestedBy"`
	RequestedStatus string    `json:"requestedStatus"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Defer parks a CONFIRMED request. Asking again refreshes the requester.
func (r *Repository) Defer(ctx context.Context, reservationID int64, requestedBy string) error {
	const q = `
INSERT INTO pending_confirmations (reservation_id, requested_by, requested_status)
VALUES ($1, $2, 'CONFIRMED')
ON CONFLICT (reservation_id) DO UPDATE SET
  requested_by = EXCLUDED.requested_by,
  updated_at = NOW()
`
	_, err := r.db.Exec(ctx, q, reservationID, requestedBy)
	return err
}

func (r *Repository) Get(ctx context.Context, reservationID int64) (*Record, error) {
	const q = `
SELECT reservation_id, requested_by, requested_status, created_at
FROM pending_confirmations
WHERE reservation_id = $1
`
	var rec Record
	if err := r.db.QueryRow(ctx, q, reservationID).Scan(
		&rec.ReservationID, &rec.RequestedBy, &rec.RequestedStatus, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) IsPending(ctx context.Context, reservationID int64) (bool, error) {
	_, err := r.Get(ctx, reservationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) Clear(ctx context.Context, reservationID int64) error {
	const q = `DELETE FROM pending_confirmations WHERE reservation_id = $1`
	_, err := r.db.Exec(ctx, q, reservationID)
	return err
}
