// Package lifecycle wipes the store and seeds it with a freshly generated
// dataset.
package lifecycle

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/eaglebank/dataseed/dataset-service/internal/factory"
	"github.com/eaglebank/dataseed/dataset-service/internal/icon"
	"github.com/eaglebank/dataseed/dataset-service/internal/lexical"
	"github.com/eaglebank/dataseed/dataset-service/internal/simulator"
	"github.com/eaglebank/dataseed/shared/models"
	"go.uber.org/zap"
)

// Store persists a dataset. Replace must delete every existing row and
// insert the new ones as a single unit of work.
type Store interface {
	Replace(ctx context.Context, dataset *models.Dataset) error
}

// Options sizes each generated dataset.
type Options struct {
	Profiles       int
	Transactions   int
	PasswordLength int
	Simulator      simulator.Options
	// LogCredentials logs every generated username and plaintext password
	// at debug level once the dataset is stored. The store keeps only
	// hashes, so this is the only way to log in as a generated profile.
	LogCredentials bool
}

// DefaultOptions returns 10 profiles, 100 transactions and 12 character
// passwords.
func DefaultOptions() Options {
	return Options{
		Profiles:       10,
		Transactions:   100,
		PasswordLength: factory.DefaultPasswordLength,
	}
}

// Controller owns the random source, so only one Regenerate runs at a time.
type Controller struct {
	mu     sync.Mutex
	rng    *rand.Rand
	store  Store
	opts   Options
	logger *zap.Logger
}

func NewController(rng *rand.Rand, store Store, opts Options, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{rng: rng, store: store, opts: opts, logger: logger}
}

// Regenerate builds a new dataset in memory and hands it to the store. On a
// store failure the previous dataset stays in place and the error is
// returned wrapped; nothing is retried.
func (c *Controller) Regenerate(ctx context.Context) (*models.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	dataset, err := c.generate()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("regeneration cancelled: %w", err)
	}
	if err := c.store.Replace(ctx, dataset); err != nil {
		return nil, fmt.Errorf("failed to persist dataset: %w", err)
	}

	c.logger.Info("dataset regenerated",
		zap.Int("profiles", len(dataset.Profiles)),
		zap.Int("accounts", len(dataset.Accounts)),
		zap.Int("transactions", len(dataset.Transactions)),
		zap.Duration("took", time.Since(start)),
	)
	if c.opts.LogCredentials {
		for _, p := range dataset.Profiles {
			c.logger.Debug("generated credentials",
				zap.Int("profileId", p.ProfileID),
				zap.String("username", p.Username),
				zap.String("password", p.Password),
			)
		}
	}
	return dataset, nil
}

func (c *Controller) generate() (*models.Dataset, error) {
	icons, err := icon.New(c.rng).Batch(c.opts.Profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate pictures: %w", err)
	}
	profiles := factory.Profiles(lexical.New(c.rng), icons, c.opts.Profiles, c.opts.PasswordLength)
	accounts := factory.Accounts(c.rng, profiles)

	transactions, err := simulator.New(c.rng, c.opts.Simulator).Run(accounts, c.opts.Transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate transactions: %w", err)
	}
	return &models.Dataset{
		Profiles:     profiles,
		Accounts:     accounts,
		Transactions: transactions,
	}, nil
}
