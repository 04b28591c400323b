package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/eaglebank/dataseed/shared/models"
	sharedredis "github.com/eaglebank/dataseed/shared/redis"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProfileViewKeyPrefix     = "profile:view:"
	AccountViewKeyPrefix     = "account:view:"
	TransactionViewKeyPrefix = "transaction:view:"
)

// GenerationReader reports the generation of the committed dataset.
type GenerationReader interface {
	Generation(ctx context.Context) (int64, error)
}

// DatasetReadRepository serves the read model. Single entities come from
// Redis first and fall back to PostgreSQL, warming the cache on every cold
// read. Listings always hit PostgreSQL.
//
// Cached views are keyed by dataset generation and looked up under the
// generation PostgreSQL reports as committed, so a view read from an earlier
// dataset is never served once a newer one is committed.
type DatasetReadRepository struct {
	db           *sql.DB
	generations  GenerationReader
	profiles     *sharedredis.ViewCache[models.ProfileView]
	accounts     *sharedredis.ViewCache[models.AccountView]
	transactions *sharedredis.ViewCache[models.TransactionView]
	logger       *zap.Logger
}

func NewDatasetReadRepository(db *sql.DB, generations GenerationReader, redisClient *goredis.Client, ttl time.Duration, logger *zap.Logger) *DatasetReadRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetReadRepository{
		db:           db,
		generations:  generations,
		profiles:     sharedredis.NewViewCache[models.ProfileView](redisClient, ttl, logger),
		accounts:     sharedredis.NewViewCache[models.AccountView](redisClient, ttl, logger),
		transactions: sharedredis.NewViewCache[models.TransactionView](redisClient, ttl, logger),
		logger:       logger,
	}
}

// viewKey is prefix, generation and id, e.g. "profile:view:7:3".
func viewKey(prefix string, generation int64, id int) string {
	return prefix + strconv.FormatInt(generation, 10) + ":" + strconv.Itoa(id)
}

func (r *DatasetReadRepository) GetProfile(ctx context.Context, profileID int) (*models.ProfileView, error) {
	generation, err := r.generations.Generation(ctx)
	if err != nil {
		return nil, err
	}
	if v, ok := r.profiles.Get(ctx, viewKey(ProfileViewKeyPrefix, generation, profileID)); ok {
		return v, nil
	}

	// The generation is read in the same statement as the row, so the view
	// is cached under the dataset it actually came from.
	query := `
		SELECT p.id, p.username, p.first_name, p.last_name, p.email, p.address, p.telephone, g.generation
		FROM profiles p CROSS JOIN dataset_generation g
		WHERE p.id = $1
	`
	var p models.Profile
	err = r.db.QueryRowContext(ctx, query, profileID).Scan(
		&p.ProfileID, &p.Username, &p.FirstName, &p.LastName, &p.Email, &p.Address, &p.Telephone, &generation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %d: %w", profileID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	view := ProfileToView(&p)
	r.profiles.Set(ctx, viewKey(ProfileViewKeyPrefix, generation, view.ProfileID), view)
	return view, nil
}

// GetPicture returns the stored picture bytes. Pictures are not cached.
func (r *DatasetReadRepository) GetPicture(ctx context.Context, profileID int) ([]byte, error) {
	var picture []byte
	err := r.db.QueryRowContext(ctx, `SELECT picture FROM profiles WHERE id = $1`, profileID).Scan(&picture)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %d: %w", profileID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get picture: %w", err)
	}
	if len(picture) == 0 {
		return nil, fmt.Errorf("picture of profile %d: %w", profileID, ErrNotFound)
	}
	return picture, nil
}

func (r *DatasetReadRepository) GetAccount(ctx context.Context, accountID int) (*models.AccountView, error) {
	generation, err := r.generations.Generation(ctx)
	if err != nil {
		return nil, err
	}
	if v, ok := r.accounts.Get(ctx, viewKey(AccountViewKeyPrefix, generation, accountID)); ok {
		return v, nil
	}

	query := `
		SELECT a.id, a.profile_id, a.holder_first_name, a.holder_last_name, a.balance, g.generation
		FROM accounts a CROSS JOIN dataset_generation g
		WHERE a.id = $1
	`
	var view models.AccountView
	err = r.db.QueryRowContext(ctx, query, accountID).Scan(
		&view.AccountID, &view.ProfileID, &view.HolderFirstName, &view.HolderLastName, &view.Balance, &generation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", accountID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	r.accounts.Set(ctx, viewKey(AccountViewKeyPrefix, generation, view.AccountID), &view)
	return &view, nil
}

// ListAccounts returns every account ordered by id, or only those owned by
// profileID when it is non-nil.
func (r *DatasetReadRepository) ListAccounts(ctx context.Context, profileID *int) ([]models.AccountView, error) {
	query := `
		SELECT id, profile_id, holder_first_name, holder_last_name, balance
		FROM accounts
		WHERE $1::INTEGER IS NULL OR profile_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, nullableInt(profileID))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	views := []models.AccountView{}
	for rows.Next() {
		var view models.AccountView
		if err := rows.Scan(
			&view.AccountID, &view.ProfileID, &view.HolderFirstName, &view.HolderLastName, &view.Balance,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return views, nil
}

func (r *DatasetReadRepository) GetTransaction(ctx context.Context, transactionID int) (*models.TransactionView, error) {
	generation, err := r.generations.Generation(ctx)
	if err != nil {
		return nil, err
	}
	if v, ok := r.transactions.Get(ctx, viewKey(TransactionViewKeyPrefix, generation, transactionID)); ok {
		return v, nil
	}

	query := `
		SELECT t.id, t.sender_id, t.receiver_id, t.amount, t.kind, g.generation
		FROM transactions t CROSS JOIN dataset_generation g
		WHERE t.id = $1
	`
	var view models.TransactionView
	err = r.db.QueryRowContext(ctx, query, transactionID).Scan(
		&view.TransactionID, &view.SenderID, &view.ReceiverID, &view.Amount, &view.Kind, &generation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	r.transactions.Set(ctx, viewKey(TransactionViewKeyPrefix, generation, view.TransactionID), &view)
	return &view, nil
}

// ListTransactions returns the ledger in simulation order, or only the
// transactions sent or received by accountID when it is non-nil.
func (r *DatasetReadRepository) ListTransactions(ctx context.Context, accountID *int) ([]models.TransactionView, error) {
	query := `
		SELECT id, sender_id, receiver_id, amount, kind
		FROM transactions
		WHERE $1::INTEGER IS NULL OR sender_id = $1 OR receiver_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, nullableInt(accountID))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	views := []models.TransactionView{}
	for rows.Next() {
		var view models.TransactionView
		if err := rows.Scan(
			&view.TransactionID, &view.SenderID, &view.ReceiverID, &view.Amount, &view.Kind,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return views, nil
}

// PurgeViews drops the cached views of every generation. It keeps going
// after a failed prefix and returns the first error.
func (r *DatasetReadRepository) PurgeViews(ctx context.Context) error {
	var firstErr error
	record := func(prefix string, n int, err error) {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		r.logger.Debug("purged views", zap.String("prefix", prefix), zap.Int("keys", n))
	}

	n, err := r.profiles.DeletePrefix(ctx, ProfileViewKeyPrefix)
	record(ProfileViewKeyPrefix, n, err)
	n, err = r.accounts.DeletePrefix(ctx, AccountViewKeyPrefix)
	record(AccountViewKeyPrefix, n, err)
	n, err = r.transactions.DeletePrefix(ctx, TransactionViewKeyPrefix)
	record(TransactionViewKeyPrefix, n, err)
	return firstErr
}

// WarmViews caches the views of a freshly stored dataset under its
// generation.
func (r *DatasetReadRepository) WarmViews(ctx context.Context, dataset *models.Dataset) {
	generation := dataset.Generation
	profiles := make([]models.ProfileView, 0, len(dataset.Profiles))
	for i := range dataset.Profiles {
		profiles = append(profiles, *ProfileToView(&dataset.Profiles[i]))
	}
	accounts := make([]models.AccountView, 0, len(dataset.Accounts))
	for i := range dataset.Accounts {
		accounts = append(accounts, *AccountToView(&dataset.Accounts[i]))
	}
	transactions := make([]models.TransactionView, 0, len(dataset.Transactions))
	for i := range dataset.Transactions {
		transactions = append(transactions, *TransactionToView(&dataset.Transactions[i]))
	}

	r.profiles.SetMany(ctx, profiles, func(v *models.ProfileView) string {
		return viewKey(ProfileViewKeyPrefix, generation, v.ProfileID)
	})
	r.accounts.SetMany(ctx, accounts, func(v *models.AccountView) string {
		return viewKey(AccountViewKeyPrefix, generation, v.AccountID)
	})
	r.transactions.SetMany(ctx, transactions, func(v *models.TransactionView) string {
		return viewKey(TransactionViewKeyPrefix, generation, v.TransactionID)
	})
}

// CacheRegistration caches the views of a newly registered profile and its
// account under the generation they were stored in.
func (r *DatasetReadRepository) CacheRegistration(ctx context.Context, generation int64, profile *models.Profile, account *models.Account) {
	pv := ProfileToView(profile)
	r.profiles.Set(ctx, viewKey(ProfileViewKeyPrefix, generation, pv.ProfileID), pv)
	av := AccountToView(account)
	r.accounts.Set(ctx, viewKey(AccountViewKeyPrefix, generation, av.AccountID), av)
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
