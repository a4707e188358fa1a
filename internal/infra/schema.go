package infra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS subscribers (
    id              TEXT PRIMARY KEY,
    email           TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'active',
    subscribed_at   TIMESTAMPTZ NOT NULL,
    unsubscribed_at TIMESTAMPTZ,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS subscribers_email_key ON subscribers (email);

CREATE TABLE IF NOT EXISTS donations (
    id          TEXT PRIMARY KEY,
    session_id  TEXT NOT NULL,
    amount      NUMERIC(12,2) NOT NULL,
    currency    TEXT NOT NULL,
    donor_email TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL,
    metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the tables and the unique email index if they do not
// exist yet. The unique index is what resolves concurrent subscribes for the
// same address, so it must be in place before the API serves traffic.
func EnsureSchema(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
