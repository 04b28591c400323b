package query

import (
	"context"

	"github.com/eaglebank/dataseed/shared/cqrs"
	"github.com/eaglebank/dataseed/shared/models"
)

type DatasetReader interface {
	GetProfile(ctx context.Context, profileID int) (*models.ProfileView, error)
	GetPicture(ctx context.Context, profileID int) ([]byte, error)
	GetAccount(ctx context.Context, accountID int) (*models.AccountView, error)
	ListAccounts(ctx context.Context, profileID *int) ([]models.AccountView, error)
	GetTransaction(ctx context.Context, transactionID int) (*models.TransactionView, error)
	ListTransactions(ctx context.Context, accountID *int) ([]models.TransactionView, error)
}

// DatasetQueryService reads exclusively from the read model.
type DatasetQueryService struct {
	reader DatasetReader
}

func NewDatasetQueryService(reader DatasetReader) *DatasetQueryService {
	return &DatasetQueryService{reader: reader}
}

func (s *DatasetQueryService) GetProfile(ctx context.Context, q cqrs.GetProfileQuery) (*models.ProfileView, error) {
	return s.reader.GetProfile(ctx, q.ProfileID)
}

func (s *DatasetQueryService) GetProfilePicture(ctx context.Context, q cqrs.GetProfilePictureQuery) ([]byte, error) {
	return s.reader.GetPicture(ctx, q.ProfileID)
}

func (s *DatasetQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.AccountView, error) {
	return s.reader.GetAccount(ctx, q.AccountID)
}

func (s *DatasetQueryService) ListAccounts(ctx context.Context, q cqrs.ListAccountsQuery) ([]models.AccountView, error) {
	return s.reader.ListAccounts(ctx, q.ProfileID)
}

func (s *DatasetQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	return s.reader.GetTransaction(ctx, q.TransactionID)
}

// ListTransactions checks the account exists before listing its ledger, so an
// unknown account is reported as not found rather than as an empty list.
func (s *DatasetQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	if q.AccountID != nil {
		if _, err := s.reader.GetAccount(ctx, *q.AccountID); err != nil {
			return nil, err
		}
	}
	return s.reader.ListTransactions(ctx, q.AccountID)
}
