package command

import (
	"context"
	"fmt"

	"github.com/eaglebank/dataseed/shared/cqrs"
	"github.com/eaglebank/dataseed/shared/events"
	"github.com/eaglebank/dataseed/shared/models"
	"github.com/eaglebank/dataseed/shared/utils"
	"go.uber.org/zap"
)

type ProfileStore interface {
	Register(ctx context.Context, profile *models.Profile, passwordHash string) (*models.Account, int64, error)
}

// ProfileCommandService registers profiles outside of a generation run.
type ProfileCommandService struct {
	store     ProfileStore
	readModel ReadModel
	publisher EventPublisher
	logger    *zap.Logger
}

func NewProfileCommandService(store ProfileStore, readModel ReadModel, publisher EventPublisher, logger *zap.Logger) *ProfileCommandService {
	return &ProfileCommandService{
		store:     store,
		readModel: readModel,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates a profile and an empty account for it.
func (s *ProfileCommandService) Register(ctx context.Context, cmd cqrs.RegisterProfileCommand) (*models.Profile, error) {
	passwordHash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	profile := &models.Profile{
		Username:  cmd.Username,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Email:     cmd.Email,
		Address:   cmd.Address,
		Telephone: cmd.Telephone,
	}
	account, generation, err := s.store.Register(ctx, profile, passwordHash)
	if err != nil {
		return nil, err
	}

	s.readModel.CacheRegistration(ctx, generation, profile, account)
	if err := s.publisher.Publish(ctx, events.DatasetEventsStream, events.ProfileRegistered, events.ProfileRegisteredEvent{
		ProfileID: profile.ProfileID,
		AccountID: account.AccountID,
		Username:  profile.Username,
	}); err != nil {
		s.logger.Warn("failed to publish profile.registered event", zap.Error(err))
	}
	return profile, nil
}
