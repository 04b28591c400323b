package command

import (
	"context"
	"fmt"
	"time"

	"github.com/eaglebank/dataseed/shared/cqrs"
	"github.com/eaglebank/dataseed/shared/events"
	"github.com/eaglebank/dataseed/shared/metrics"
	"github.com/eaglebank/dataseed/shared/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Regenerator produces and persists a fresh dataset.
type Regenerator interface {
	Regenerate(ctx context.Context) (*models.Dataset, error)
}

// ReadModel is the Redis projection kept in step with the write store.
type ReadModel interface {
	PurgeViews(ctx context.Context) error
	WarmViews(ctx context.Context, dataset *models.Dataset)
	CacheRegistration(ctx context.Context, generation int64, profile *models.Profile, account *models.Account)
}

type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// RowCounter reports the size of the stored dataset.
type RowCounter interface {
	Counts(ctx context.Context) (profiles, accounts, transactions int, err error)
}

// DatasetCommandService regenerates the dataset and keeps the read model,
// the event stream and the metrics in sync with it.
type DatasetCommandService struct {
	controller Regenerator
	readModel  ReadModel
	publisher  EventPublisher
	counter    RowCounter
	metrics    *metrics.DatasetMetrics
	logger     *zap.Logger
}

func NewDatasetCommandService(
	controller Regenerator,
	readModel ReadModel,
	publisher EventPublisher,
	counter RowCounter,
	m *metrics.DatasetMetrics,
	logger *zap.Logger,
) *DatasetCommandService {
	return &DatasetCommandService{
		controller: controller,
		readModel:  readModel,
		publisher:  publisher,
		counter:    counter,
		metrics:    m,
		logger:     logger,
	}
}

// Regenerate replaces the stored dataset. Only the store write can fail the
// call; cache and event failures are logged.
func (s *DatasetCommandService) Regenerate(ctx context.Context, cmd cqrs.RegenerateDatasetCommand) (*models.DatasetSummary, error) {
	start := time.Now()
	dataset, err := s.controller.Regenerate(ctx)
	if err != nil {
		s.metrics.ObserveRegeneration(metrics.OutcomeFailure, time.Since(start))
		s.logger.Error("dataset regeneration failed", zap.String("requestedBy", cmd.RequestedBy), zap.Error(err))
		return nil, err
	}
	s.metrics.ObserveRegeneration(metrics.OutcomeSuccess, time.Since(start))
	for _, tx := range dataset.Transactions {
		s.metrics.CountTransaction(string(tx.Kind))
	}
	s.metrics.SetDatasetRows(len(dataset.Profiles), len(dataset.Accounts), len(dataset.Transactions))

	if err := s.readModel.PurgeViews(ctx); err != nil {
		s.logger.Warn("failed to purge read model", zap.Error(err))
	}
	s.readModel.WarmViews(ctx, dataset)

	summary := &models.DatasetSummary{
		RunID:        uuid.NewString(),
		Generation:   dataset.Generation,
		Profiles:     len(dataset.Profiles),
		Accounts:     len(dataset.Accounts),
		Transactions: len(dataset.Transactions),
	}
	if err := s.publisher.Publish(ctx, events.DatasetEventsStream, events.DatasetRegenerated, events.DatasetRegeneratedEvent{
		RunID:        summary.RunID,
		Generation:   summary.Generation,
		Profiles:     summary.Profiles,
		Accounts:     summary.Accounts,
		Transactions: summary.Transactions,
	}); err != nil {
		s.logger.Warn("failed to publish dataset.regenerated event", zap.Error(err))
	}

	s.logger.Info("dataset replaced",
		zap.String("runId", summary.RunID),
		zap.Int64("generation", summary.Generation),
		zap.String("requestedBy", cmd.RequestedBy),
	)
	return summary, nil
}

// HandleDatasetEvent keeps the dataset_rows gauge of this instance current
// when another instance changes the dataset.
func (s *DatasetCommandService) HandleDatasetEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.DatasetRegenerated:
		var data events.DatasetRegeneratedEvent
		if err := events.Decode(event, &data); err != nil {
			return err
		}
		s.metrics.SetDatasetRows(data.Profiles, data.Accounts, data.Transactions)
		s.logger.Debug("dataset rows updated from event", zap.String("runId", data.RunID))
		return nil
	case events.ProfileRegistered:
		profiles, accounts, transactions, err := s.counter.Counts(ctx)
		if err != nil {
			return fmt.Errorf("failed to refresh dataset rows: %w", err)
		}
		s.metrics.SetDatasetRows(profiles, accounts, transactions)
		return nil
	default:
		return nil
	}
}
