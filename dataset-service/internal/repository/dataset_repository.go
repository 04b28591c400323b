package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/eaglebank/dataseed/shared/models"
	"github.com/eaglebank/dataseed/shared/utils"
	"github.com/lib/pq"
)

// Children first so foreign keys never block the wipe.
var wipeStatements = []string{
	`DELETE FROM transactions`,
	`DELETE FROM accounts`,
	`DELETE FROM profiles`,
}

// DatasetRepository writes whole datasets to PostgreSQL. Every write runs in
// one transaction, so readers see either the previous dataset or the new one,
// and bumps the dataset generation in that same transaction.
type DatasetRepository struct {
	db *sql.DB
}

func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// Replace wipes every table and inserts dataset, keeping the generated ids.
// Plaintext passwords are hashed before anything is written. On success
// dataset.Generation holds the generation it was committed under.
func (r *DatasetRepository) Replace(ctx context.Context, dataset *models.Dataset) error {
	hashes := make([]string, len(dataset.Profiles))
	for i, p := range dataset.Profiles {
		hash, err := utils.HashPassword(p.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password of profile %d: %w", p.ProfileID, err)
		}
		hashes[i] = hash
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	generation, err := wipe(ctx, tx)
	if err != nil {
		return err
	}
	if err := insertProfiles(ctx, tx, dataset.Profiles, hashes); err != nil {
		return err
	}
	if err := insertAccounts(ctx, tx, dataset.Accounts); err != nil {
		return err
	}
	if err := copyTransactions(ctx, tx, dataset.Transactions); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	dataset.Generation = generation
	return nil
}

// Clear leaves the store empty.
func (r *DatasetRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := wipe(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

// Counts reports how many rows each table holds.
func (r *DatasetRepository) Counts(ctx context.Context) (profiles, accounts, transactions int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM transactions)
	`
	if err = r.db.QueryRowContext(ctx, query).Scan(&profiles, &accounts, &transactions); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return profiles, accounts, transactions, nil
}

// Generation returns the generation of the committed dataset.
func (r *DatasetRepository) Generation(ctx context.Context) (int64, error) {
	var generation int64
	if err := r.db.QueryRowContext(ctx, `SELECT generation FROM dataset_generation`).Scan(&generation); err != nil {
		return 0, fmt.Errorf("failed to read dataset generation: %w", err)
	}
	return generation, nil
}

// wipe starts a new generation and empties every table. The generation row
// stays locked until tx ends, which also serialises concurrent writers.
func wipe(ctx context.Context, tx *sql.Tx) (int64, error) {
	var generation int64
	if err := tx.QueryRowContext(ctx,
		`UPDATE dataset_generation SET generation = generation + 1 RETURNING generation`,
	).Scan(&generation); err != nil {
		return 0, fmt.Errorf("failed to advance dataset generation: %w", err)
	}
	for _, stmt := range wipeStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("failed to wipe dataset: %w", err)
		}
	}
	return generation, nil
}

func insertProfiles(ctx context.Context, tx *sql.Tx, profiles []models.Profile, hashes []string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO profiles (id, username, password_hash, first_name, last_name, email, address, telephone, picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare profile insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range profiles {
		if _, err := stmt.ExecContext(ctx,
			p.ProfileID, p.Username, hashes[i], p.FirstName, p.LastName,
			p.Email, p.Address, p.Telephone, p.Picture,
		); err != nil {
			return fmt.Errorf("failed to insert profile %d: %w", p.ProfileID, err)
		}
	}
	return nil
}

func insertAccounts(ctx context.Context, tx *sql.Tx, accounts []models.Account) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO accounts (id, profile_id, holder_first_name, holder_last_name, balance)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare account insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range accounts {
		if _, err := stmt.ExecContext(ctx,
			a.AccountID, a.ProfileID, a.HolderFirstName, a.HolderLastName, a.Balance,
		); err != nil {
			return fmt.Errorf("failed to insert account %d: %w", a.AccountID, err)
		}
	}
	return nil
}

// copyTransactions streams the ledger with COPY FROM STDIN.
func copyTransactions(ctx context.Context, tx *sql.Tx, transactions []models.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("transactions", "id", "sender_id", "receiver_id", "amount", "kind"))
	if err != nil {
		return fmt.Errorf("failed to prepare transaction copy: %w", err)
	}
	for _, t := range transactions {
		if _, err := stmt.ExecContext(ctx, t.TransactionID, t.SenderID, t.ReceiverID, t.Amount, string(t.Kind)); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy transaction %d: %w", t.TransactionID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush transaction copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close transaction copy: %w", err)
	}
	return nil
}
