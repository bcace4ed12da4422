package repository

import (
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		currency_pref TEXT NOT NULL DEFAULT 'USD',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		asset_type TEXT NOT NULL DEFAULT '',
		account_label TEXT NOT NULL DEFAULT '',
		value_cents BIGINT NOT NULL CHECK (value_cents >= 0),
		liquid BOOLEAN NOT NULL DEFAULT TRUE,
		received_date DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS future_assets (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL DEFAULT '',
		amount_cents BIGINT NOT NULL,
		expected_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS liabilities (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		liability_type TEXT NOT NULL,
		total_cents BIGINT NOT NULL CHECK (total_cents > 0),
		remaining_cents BIGINT NOT NULL CHECK (remaining_cents >= 0),
		installment_cents BIGINT NOT NULL DEFAULT 0,
		installments_total INT NOT NULL DEFAULT 1,
		installments_paid INT NOT NULL DEFAULT 0,
		frequency TEXT NOT NULL DEFAULT 'monthly',
		due_date DATE NOT NULL,
		next_due_date DATE NOT NULL,
		priority INT NOT NULL DEFAULT 50,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS installments (
		id BIGSERIAL PRIMARY KEY,
		liability_id BIGINT NOT NULL REFERENCES liabilities(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		seq INT NOT NULL,
		amount_cents BIGINT NOT NULL,
		due_date DATE NOT NULL,
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at TIMESTAMPTZ,
		UNIQUE (liability_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		occurred_at DATE NOT NULL,
		amount_cents BIGINT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		merchant TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		account_label TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		source_text TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_user ON assets(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_liabilities_user ON liabilities(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_installments_liability ON installments(liability_id)`,
	`CREATE INDEX IF NOT EXISTS idx_installments_due ON installments(user_id, paid, due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_future_assets_date ON future_assets(user_id, expected_date)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id)`,
}

// InitSchema creates the tables and indexes if they do not exist yet.
func InitSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
