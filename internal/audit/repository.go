package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"venue/pkg/db"
)

// Entry is one admin action. SessionID is empty for actions without a session.
type Entry struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"sessionId,omitempty"`
	Actor      string    `json:"actor"`
	Action     Action    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resourceId,omitempty"`
	Metadata   any       `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, e Entry) error {
	return Insert(ctx, r.db, e)
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `
SELECT id, COALESCE(session_id::text, ''), actor, action, resource, COALESCE(resource_id, ''),
       COALESCE(metadata, '{}'::jsonb), created_at
FROM audit_logs
ORDER BY created_at DESC, id DESC
LIMIT $1
`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Actor, &e.Action, &e.Resource, &e.ResourceID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Insert works against the pool or an open transaction.
func Insert(ctx context.Context, q db.DBTX, e Entry) error {
	var meta *string
	if e.Metadata != nil {
		b, _ := json.Marshal(e.Metadata)
		str := string(b)
		meta = &str
	}
	var sessionID, resourceID *string
	if e.SessionID != "" {
		sessionID = &e.SessionID
	}
	if e.ResourceID != "" {
		resourceID = &e.ResourceID
	}
	const stmt = `
INSERT INTO audit_logs (session_id, actor, action, resource, resource_id, metadata)
VALUES (CAST($1 AS uuid), $2, $3, $4, $5, CAST($6 AS jsonb))
`
	_, err := q.Exec(ctx, stmt, sessionID, e.Actor, string(e.Action), e.Resource, resourceID, meta)
	return err
}
