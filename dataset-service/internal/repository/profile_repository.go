package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eaglebank/dataseed/shared/models"
)

// Credentials is the slice of a profile needed to authenticate it.
type Credentials struct {
	ProfileID    int
	Username     string
	PasswordHash string
}

// ProfileWriteRepository handles registrations against the PostgreSQL write
// store.
type ProfileWriteRepository struct {
	db *sql.DB
}

func NewProfileWriteRepository(db *sql.DB) *ProfileWriteRepository {
	return &ProfileWriteRepository{db: db}
}

// Register stores profile under the next free profile id together with an
// empty account under the next free account id. The ids are written back
// into profile and the returned account. The generation is the dataset the
// new rows belong to.
func (r *ProfileWriteRepository) Register(ctx context.Context, profile *models.Profile, passwordHash string) (*models.Account, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Serialise id allocation against concurrent registrations and
	// regenerations without blocking readers.
	if _, err := tx.ExecContext(ctx, `LOCK TABLE profiles, accounts IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return nil, 0, fmt.Errorf("failed to lock tables: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1)`, profile.Username,
	).Scan(&exists); err != nil {
		return nil, 0, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, 0, ErrUsernameTaken
	}

	var profileID, accountID int
	var generation int64
	if err := tx.QueryRowContext(ctx, `
		SELECT
			COALESCE((SELECT MAX(id) FROM profiles), -1) + 1,
			COALESCE((SELECT MAX(id) FROM accounts), -1) + 1,
			(SELECT generation FROM dataset_generation)
	`).Scan(&profileID, &accountID, &generation); err != nil {
		return nil, 0, fmt.Errorf("failed to allocate ids: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (id, username, password_hash, first_name, last_name, email, address, telephone, picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		profileID, profile.Username, passwordHash, profile.FirstName, profile.LastName,
		profile.Email, profile.Address, profile.Telephone, profile.Picture,
	); err != nil {
		return nil, 0, fmt.Errorf("failed to create profile: %w", err)
	}

	account := &models.Account{
		AccountID:       accountID,
		ProfileID:       profileID,
		HolderFirstName: profile.FirstName,
		HolderLastName:  profile.LastName,
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, profile_id, holder_first_name, holder_last_name, balance)
		VALUES ($1, $2, $3, $4, $5)
	`,
		account.AccountID, account.ProfileID, account.HolderFirstName, account.HolderLastName, account.Balance,
	); err != nil {
		return nil, 0, fmt.Errorf("failed to create account: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit registration: %w", err)
	}
	profile.ProfileID = profileID
	return account, generation, nil
}

// GetCredentials returns the login data for username. When generated
// usernames collide the lowest profile id wins.
func (r *ProfileWriteRepository) GetCredentials(ctx context.Context, username string) (*Credentials, error) {
	query := `
		SELECT id, username, password_hash
		FROM profiles
		WHERE username = $1
		ORDER BY id
		LIMIT 1
	`
	var c Credentials
	err := r.db.QueryRowContext(ctx, query, username).Scan(&c.ProfileID, &c.Username, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &c, nil
}
