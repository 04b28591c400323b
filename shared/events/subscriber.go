package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler func(ctx context.Context, event Event) error

type Subscriber struct {
	client        *redis.Client
	group         string
	consumer      string
	stream        string
	handler       Handler
	batchSize     int64
	blockDuration time.Duration
	logger        *zap.Logger
}

type SubscriberConfig struct {
	Group    string
	Consumer string
	Stream   string
	Handler  Handler
	// BatchSize defaults to 10.
	BatchSize int64
	// BlockDuration defaults to 5s; a negative value disables blocking reads.
	BlockDuration time.Duration
	Logger        *zap.Logger
}

func NewSubscriber(client *redis.Client, config SubscriberConfig) *Subscriber {
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}
	if config.BlockDuration == 0 {
		config.BlockDuration = 5 * time.Second
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &Subscriber{
		client:        client,
		group:         config.Group,
		consumer:      config.Consumer,
		stream:        config.Stream,
		handler:       config.Handler,
		batchSize:     config.BatchSize,
		blockDuration: config.BlockDuration,
		logger:        config.Logger,
	}
}

// EnsureGroup creates the consumer group (and stream) if it doesn't exist.
func (s *Subscriber) EnsureGroup(ctx context.Context) error {
	err := s.client.XGroupCreateMkStream(ctx, s.stream, s.group, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.EnsureGroup(ctx); err != nil {
		return err
	}

	s.logger.Info("subscriber started",
		zap.String("stream", s.stream), zap.String("group", s.group), zap.String("consumer", s.consumer))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("subscriber stopping", zap.String("stream", s.stream))
			return ctx.Err()
		default:
			if err := s.Poll(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("error reading messages", zap.Error(err))
				time.Sleep(time.Second)
			}
		}
	}
}

// Poll reads one batch from the stream, dispatches it and acknowledges every
// message the handler accepted.
func (s *Subscriber) Poll(ctx context.Context) error {
	streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.group,
		Consumer: s.consumer,
		Streams:  []string{s.stream, ">"},
		Count:    s.batchSize,
		Block:    s.blockDuration,
	}).Result()

	if err == redis.Nil {
		return nil // No messages
	}
	if err != nil {
		return fmt.Errorf("failed to read from stream: %w", err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := s.processMessage(ctx, message); err != nil {
				s.logger.Warn("failed to process message", zap.String("messageId", message.ID), zap.Error(err))
				// Don't ACK failed messages - they'll be retried
				continue
			}

			if err := s.client.XAck(ctx, s.stream, s.group, message.ID).Err(); err != nil {
				s.logger.Warn("failed to ack message", zap.String("messageId", message.ID), zap.Error(err))
			}
		}
	}

	return nil
}

func (s *Subscriber) processMessage(ctx context.Context, message redis.XMessage) error {
	eventData, ok := message.Values["event"].(string)
	if !ok {
		return fmt.Errorf("invalid message format")
	}

	var event Event
	if err := json.Unmarshal([]byte(eventData), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return s.handler(ctx, event)
}
