package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// profiles.username is deliberately not UNIQUE: generated usernames may
// collide and the dataset keeps them as drawn.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		address TEXT NOT NULL,
		telephone TEXT NOT NULL,
		picture BYTEA
	)`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY,
		profile_id INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		holder_first_name TEXT NOT NULL,
		holder_last_name TEXT NOT NULL,
		balance NUMERIC NOT NULL
	)`,
	`ALTER TABLE accounts ALTER COLUMN balance TYPE NUMERIC`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_profile_id ON accounts(profile_id)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY,
		sender_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		receiver_id INTEGER NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		amount NUMERIC NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('withdrawal', 'deposit', 'transfer')),
		CHECK (sender_id <> receiver_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_sender_id ON transactions(sender_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_receiver_id ON transactions(receiver_id)`,
	// One row. Bumped by every write that replaces the dataset, so cached
	// views can be keyed by the dataset they were read from.
	`CREATE TABLE IF NOT EXISTS dataset_generation (
		singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		generation BIGINT NOT NULL
	)`,
	`INSERT INTO dataset_generation (singleton, generation) VALUES (TRUE, 0) ON CONFLICT DO NOTHING`,
}

// EnsureSchema creates the dataset tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, query := range schema {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
