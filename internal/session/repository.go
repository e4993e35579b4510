package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"venue/pkg/db"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, username, storeToken string, ttl time.Duration) (*Session, error) {
	const q = `
INSERT INTO admin_sessions (id, username, store_token, expires_at)
VALUES ($1, $2, $3, $4)
RETURNING id::text, username, store_token, created_at, expires_at, revoked_at
`
	s := &Session{}
	if err := r.db.QueryRow(ctx, q, uuid.NewString(), username, storeToken, time.Now().Add(ttl)).Scan(
		&s.ID, &s.Username, &s.StoreToken, &s.CreatedAt, &s.ExpiresAt, &s.RevokedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}
	const q = `
SELECT id::text, username, store_token, created_at, expires_at, revoked_at
FROM admin_sessions
WHERE id = $1
`
	s := &Session{}
	err := r.db.QueryRow(ctx, q, id).Scan(
		&s.ID, &s.Username, &s.StoreToken, &s.CreatedAt, &s.ExpiresAt, &s.RevokedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Revoke ends a session. It is run inside the logout transaction.
func Revoke(ctx context.Context, q db.DBTX, id string) error {
	const stmt = `
UPDATE admin_sessions
SET revoked_at = NOW()
WHERE id = $1 AND revoked_at IS NULL
`
	_, err := q.Exec(ctx, stmt, id)
	return err
}

// End revokes the session and runs also in the same transaction.
func (r *Repository) End(ctx context.Context, id string, also func(q db.DBTX) error) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := Revoke(ctx, tx, id); err != nil {
			return err
		}
		if also == nil {
			return nil
		}
		return also(tx)
	})
}

// DeleteExpired prunes sessions that expired before the given time.
func (r *Repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const q = `DELETE FROM admin_sessions WHERE expires_at < $1`
	tag, err := r.db.Exec(ctx, q, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
