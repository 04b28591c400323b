package lifecycle

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"sync"
	"testing"

	"github.com/eaglebank/dataseed/shared/models"
	"github.com/eaglebank/dataseed/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ---- mock store ----

type mockStore struct {
	mu        sync.Mutex
	replaceFn func(context.Context, *models.Dataset) error
	stored    []*models.Dataset
}

func (m *mockStore) Replace(ctx context.Context, d *models.Dataset) error {
	if m.replaceFn != nil {
		if err := m.replaceFn(ctx, d); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.stored = append(m.stored, d)
	m.mu.Unlock()
	return nil
}

func newTestController(seed uint64, store Store) *Controller {
	return NewController(rand.New(rand.NewPCG(seed, seed)), store, DefaultOptions(), nil)
}

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9]{8}@(gmail\.com|outlook\.com|icloud\.com|yahoo\.com)$`)
	phonePattern = regexp.MustCompile(`^\+614\d{8}$`)
)

func assertDatasetShape(t *testing.T, d *models.Dataset) {
	t.Helper()
	require.Len(t, d.Profiles, 10)
	require.Len(t, d.Accounts, 10)
	require.Len(t, d.Transactions, 100)

	for i, p := range d.Profiles {
		assert.Equal(t, i, p.ProfileID)
		assert.Len(t, p.Password, 12)
		assert.Regexp(t, emailPattern, p.Email)
		assert.Regexp(t, phonePattern, p.Telephone)
		assert.NotEmpty(t, p.Picture)
	}
	for i, a := range d.Accounts {
		assert.Equal(t, i, a.AccountID)
		assert.Equal(t, d.Profiles[i].ProfileID, a.ProfileID)
		assert.Equal(t, utils.Round2(a.Balance), a.Balance)
	}
	for i, tx := range d.Transactions {
		assert.Equal(t, i, tx.TransactionID)
		assert.NotEqual(t, tx.SenderID, tx.ReceiverID)
		assert.True(t, tx.SenderID >= 0 && tx.SenderID <= 9)
		assert.True(t, tx.ReceiverID >= 0 && tx.ReceiverID <= 9)
	}
}

func TestRegenerate(t *testing.T) {
	store := &mockStore{}
	c := newTestController(1, store)

	d, err := c.Regenerate(context.Background())
	require.NoError(t, err)
	assertDatasetShape(t, d)

	require.Len(t, store.stored, 1)
	assert.Same(t, d, store.stored[0])
}

func TestRegenerateTwiceKeepsTheShape(t *testing.T) {
	store := &mockStore{}
	c := newTestController(2, store)

	first, err := c.Regenerate(context.Background())
	require.NoError(t, err)
	second, err := c.Regenerate(context.Background())
	require.NoError(t, err)

	assertDatasetShape(t, first)
	assertDatasetShape(t, second)
	assert.Len(t, store.stored, 2)
	assert.NotEqual(t, first.Profiles[0].Username+first.Profiles[0].Password,
		second.Profiles[0].Username+second.Profiles[0].Password)
}

func TestRegenerateStoreFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	store := &mockStore{replaceFn: func(context.Context, *models.Dataset) error { return storeErr }}

	d, err := newTestController(3, store).Regenerate(context.Background())
	require.Error(t, err)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "failed to persist dataset")
	assert.Empty(t, store.stored)
}

func TestRegenerateCancelledContext(t *testing.T) {
	store := &mockStore{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestController(4, store).Regenerate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.stored)
}

func TestRegenerateTooFewProfiles(t *testing.T) {
	opts := DefaultOptions()
	opts.Profiles = 1
	c := NewController(rand.New(rand.NewPCG(5, 5)), &mockStore{}, opts, nil)

	_, err := c.Regenerate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to simulate transactions")
}

func TestRegenerateIsSerialised(t *testing.T) {
	var (
		mu     sync.Mutex
		active int
		peak   int
	)
	store := &mockStore{replaceFn: func(context.Context, *models.Dataset) error {
		mu.Lock()
		active++
		peak = max(peak, active)
		mu.Unlock()

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	}}
	c := newTestController(6, store)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Regenerate(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, peak)
	assert.Len(t, store.stored, 8)
}

func TestSameSeedSameDataset(t *testing.T) {
	a, err := newTestController(7, &mockStore{}).Regenerate(context.Background())
	require.NoError(t, err)
	b, err := newTestController(7, &mockStore{}).Regenerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGeneratedCredentialsAreLoggedOnlyWhenEnabled(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		core, logs := observer.New(zapcore.DebugLevel)
		opts := DefaultOptions()
		opts.LogCredentials = enabled
		store := &mockStore{}
		c := NewController(rand.New(rand.NewPCG(5, 5)), store, opts, zap.New(core))

		d, err := c.Regenerate(context.Background())
		require.NoError(t, err)

		entries := logs.FilterMessage("generated credentials").All()
		if !enabled {
			assert.Empty(t, entries)
			continue
		}
		require.Len(t, entries, len(d.Profiles))
		for i, entry := range entries {
			assert.Equal(t, zapcore.DebugLevel, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, d.Profiles[i].Username, fields["username"])
			assert.Equal(t, d.Profiles[i].Password, fields["password"])
		}
	}
}

func TestCredentialsAreNotLoggedWhenStoreFails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts := DefaultOptions()
	opts.LogCredentials = true
	store := &mockStore{replaceFn: func(context.Context, *models.Dataset) error { return errors.New("connection refused") }}
	c := NewController(rand.New(rand.NewPCG(5, 5)), store, opts, zap.New(core))

	_, err := c.Regenerate(context.Background())
	require.Error(t, err)
	assert.Zero(t, logs.FilterMessage("generated credentials").Len())
}
