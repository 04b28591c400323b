package query

import (
	"context"
	"errors"
	"time"

	"github.com/eaglebank/dataseed/dataset-service/internal/repository"
	"github.com/eaglebank/dataseed/shared/cqrs"
	"github.com/eaglebank/dataseed/shared/middleware"
	"github.com/eaglebank/dataseed/shared/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type CredentialStore interface {
	GetCredentials(ctx context.Context, username string) (*repository.Credentials, error)
}

// AuthQueryService handles login and token refresh. Neither mutates the
// dataset, so there is no command side for auth.
type AuthQueryService struct {
	store  CredentialStore
	secret []byte
	now    func() time.Time
}

func NewAuthQueryService(store CredentialStore, secret []byte) *AuthQueryService {
	return &AuthQueryService{store: store, secret: secret, now: time.Now}
}

func (s *AuthQueryService) Login(ctx context.Context, cmd cqrs.LoginCommand) (string, error) {
	creds, err := s.store.GetCredentials(ctx, cmd.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !utils.CheckPassword(cmd.Password, creds.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return middleware.IssueToken(s.secret, creds.ProfileID, creds.Username, s.now())
}

func (s *AuthQueryService) RefreshToken(_ context.Context, cmd cqrs.RefreshTokenCommand) (string, error) {
	claims, err := middleware.ParseToken(s.secret, cmd.Token)
	if err != nil {
		return "", ErrInvalidToken
	}
	return middleware.IssueToken(s.secret, claims.ProfileID, claims.Username, s.now())
}
