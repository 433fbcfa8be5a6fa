package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/jwalitptl/admin-console/internal/config"
)

func NewDB(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// schema is applied by Migrate. Dates and clock times are kept as the
// strings the API exchanges.
const schema = `
CREATE TABLE IF NOT EXISTS doctors (
	id            TEXT PRIMARY KEY,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL,
	specialty     TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS doctors_email_idx ON doctors (lower(email));

CREATE TABLE IF NOT EXISTS patients (
	id                      TEXT PRIMARY KEY,
	first_name              TEXT NOT NULL,
	last_name               TEXT NOT NULL,
	date_of_birth           TEXT NOT NULL,
	gender                  TEXT NOT NULL,
	email                   TEXT NOT NULL,
	phone                   TEXT NOT NULL DEFAULT '',
	address                 TEXT NOT NULL DEFAULT '',
	emergency_contact_name  TEXT NOT NULL DEFAULT '',
	emergency_contact_phone TEXT NOT NULL DEFAULT '',
	blood_type              TEXT NOT NULL DEFAULT '',
	allergies               TEXT[] NOT NULL DEFAULT '{}',
	chronic_conditions      TEXT[] NOT NULL DEFAULT '{}',
	notes                   TEXT NOT NULL DEFAULT '',
	status                  TEXT NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS appointments (
	id         TEXT PRIMARY KEY,
	patient_id TEXT NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
	doctor_id  TEXT NOT NULL REFERENCES doctors (id),
	date       TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	type       TEXT NOT NULL,
	status     TEXT NOT NULL,
	reason     TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT '',
	room       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS appointments_schedule_idx ON appointments (doctor_id, date, start_time);

CREATE TABLE IF NOT EXISTS reset_tokens (
	token      TEXT PRIMARY KEY,
	doctor_id  TEXT NOT NULL REFERENCES doctors (id) ON DELETE CASCADE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
