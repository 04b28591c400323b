package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultStreamMaxLen caps each stream at roughly this many entries.
const DefaultStreamMaxLen = 10000

// Publisher appends events to Redis streams, trimming each stream to about
// maxLen entries. A maxLen of 0 disables trimming.
type Publisher struct {
	client *redis.Client
	maxLen int64
	now    func() time.Time
}

func NewPublisher(client *redis.Client, maxLen int64) *Publisher {
	return &Publisher{client: client, maxLen: maxLen, now: time.Now}
}

// Publish wraps data in an Event with a fresh id and appends it to stream.
func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	payload, err := json.Marshal(Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: p.now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"event": payload},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}

// Decode re-marshals the loosely typed Data of an event into out.
func Decode(event Event, out any) error {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", event.Type, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", event.Type, err)
	}
	return nil
}
