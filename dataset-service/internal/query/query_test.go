package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/eaglebank/dataseed/dataset-service/internal/repository"
	"github.com/eaglebank/dataseed/shared/cqrs"
	"github.com/eaglebank/dataseed/shared/middleware"
	"github.com/eaglebank/dataseed/shared/models"
	"github.com/eaglebank/dataseed/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

// ---- mock implementations ----

type mockCredentialStore struct {
	getFn func(context.Context, string) (*repository.Credentials, error)
}

func (m *mockCredentialStore) GetCredentials(ctx context.Context, username string) (*repository.Credentials, error) {
	if m.getFn != nil {
		return m.getFn(ctx, username)
	}
	return nil, fmt.Errorf("not configured")
}

type mockReader struct {
	accounts     map[int]models.AccountView
	transactions []models.TransactionView
	listedFor    *int
}

func (m *mockReader) GetProfile(context.Context, int) (*models.ProfileView, error) {
	return nil, repository.ErrNotFound
}
func (m *mockReader) GetPicture(context.Context, int) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}
func (m *mockReader) GetAccount(_ context.Context, id int) (*models.AccountView, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, repository.ErrNotFound)
	}
	return &a, nil
}
func (m *mockReader) ListAccounts(context.Context, *int) ([]models.AccountView, error) {
	return nil, nil
}
func (m *mockReader) GetTransaction(context.Context, int) (*models.TransactionView, error) {
	return nil, repository.ErrNotFound
}
func (m *mockReader) ListTransactions(_ context.Context, accountID *int) ([]models.TransactionView, error) {
	m.listedFor = accountID
	return m.transactions, nil
}

// ---- auth ----

func storeWithPassword(t *testing.T, password string) *mockCredentialStore {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return &mockCredentialStore{getFn: func(_ context.Context, username string) (*repository.Credentials, error) {
		if username != "BraveOtter" {
			return nil, fmt.Errorf("profile %q: %w", username, repository.ErrNotFound)
		}
		return &repository.Credentials{ProfileID: 4, Username: username, PasswordHash: hash}, nil
	}}
}

func TestLogin(t *testing.T) {
	svc := NewAuthQueryService(storeWithPassword(t, "S3cret!pass"), testSecret)

	tests := []struct {
		name     string
		cmd      cqrs.LoginCommand
		wantErr  error
		wantUser int
	}{
		{"valid credentials", cqrs.LoginCommand{Username: "BraveOtter", Password: "S3cret!pass"}, nil, 4},
		{"wrong password", cqrs.LoginCommand{Username: "BraveOtter", Password: "nope"}, ErrInvalidCredentials, 0},
		{"unknown user", cqrs.LoginCommand{Username: "Ghost", Password: "S3cret!pass"}, ErrInvalidCredentials, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Login(context.Background(), tt.cmd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			claims, err := middleware.ParseToken(testSecret, token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, claims.ProfileID)
		})
	}
}

func TestLoginStoreFailureIsNotInvalidCredentials(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewAuthQueryService(&mockCredentialStore{getFn: func(context.Context, string) (*repository.Credentials, error) {
		return nil, boom
	}}, testSecret)

	_, err := svc.Login(context.Background(), cqrs.LoginCommand{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc := NewAuthQueryService(&mockCredentialStore{}, testSecret)
	issuedAt := time.Now().Add(-time.Hour)
	old, err := middleware.IssueToken(testSecret, 7, "QuietFalcon", issuedAt)
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(context.Background(), cqrs.RefreshTokenCommand{Token: old})
	require.NoError(t, err)
	claims, err := middleware.ParseToken(testSecret, fresh)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.ProfileID)
	assert.Equal(t, "QuietFalcon", claims.Username)
	assert.True(t, claims.IssuedAt.After(issuedAt))

	_, err = svc.RefreshToken(context.Background(), cqrs.RefreshTokenCommand{Token: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := middleware.IssueToken([]byte("other"), 7, "QuietFalcon", time.Now())
	require.NoError(t, err)
	_, err = svc.RefreshToken(context.Background(), cqrs.RefreshTokenCommand{Token: foreign})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

// ---- dataset ----

func TestListTransactionsForUnknownAccount(t *testing.T) {
	reader := &mockReader{accounts: map[int]models.AccountView{}}
	svc := NewDatasetQueryService(reader)

	id := 42
	_, err := svc.ListTransactions(context.Background(), cqrs.ListTransactionsQuery{AccountID: &id})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Nil(t, reader.listedFor)
}

func TestListTransactionsForAccount(t *testing.T) {
	reader := &mockReader{
		accounts:     map[int]models.AccountView{1: {AccountID: 1}},
		transactions: []models.TransactionView{{TransactionID: 3, SenderID: 1, ReceiverID: 2}},
	}
	svc := NewDatasetQueryService(reader)

	id := 1
	txs, err := svc.ListTransactions(context.Background(), cqrs.ListTransactionsQuery{AccountID: &id})
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	require.NotNil(t, reader.listedFor)
	assert.Equal(t, 1, *reader.listedFor)
}

func TestListAllTransactions(t *testing.T) {
	reader := &mockReader{transactions: make([]models.TransactionView, 100)}
	txs, err := NewDatasetQueryService(reader).ListTransactions(context.Background(), cqrs.ListTransactionsQuery{})
	require.NoError(t, err)
	assert.Len(t, txs, 100)
	assert.Nil(t, reader.listedFor)
}
