package events

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublishAndPoll(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var received []Event
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "test-group",
		Consumer:      "test-consumer",
		Stream:        DatasetEventsStream,
		BlockDuration: -1,
		Handler: func(ctx context.Context, event Event) error {
			received = append(received, event)
			return nil
		},
	})
	require.NoError(t, sub.EnsureGroup(ctx))
	require.NoError(t, sub.EnsureGroup(ctx), "creating the group twice is not an error")

	pub := NewPublisher(client, 0)
	require.NoError(t, pub.Publish(ctx, DatasetEventsStream, DatasetRegenerated, DatasetRegeneratedEvent{
		RunID: "run-1", Profiles: 10, Accounts: 10, Transactions: 100,
	}))

	require.NoError(t, sub.Poll(ctx))
	require.Len(t, received, 1)
	assert.Equal(t, DatasetRegenerated, received[0].Type)
	assert.NotEmpty(t, received[0].ID)

	var data DatasetRegeneratedEvent
	require.NoError(t, Decode(received[0], &data))
	assert.Equal(t, DatasetRegeneratedEvent{RunID: "run-1", Profiles: 10, Accounts: 10, Transactions: 100}, data)

	// acknowledged messages are not redelivered
	require.NoError(t, sub.Poll(ctx))
	assert.Len(t, received, 1)
}

func TestPollLeavesFailedMessagesPending(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "test-group",
		Consumer:      "test-consumer",
		Stream:        DatasetEventsStream,
		BlockDuration: -1,
		Handler: func(ctx context.Context, event Event) error {
			return errors.New("boom")
		},
	})
	require.NoError(t, sub.EnsureGroup(ctx))
	require.NoError(t, NewPublisher(client, 0).Publish(ctx, DatasetEventsStream, ProfileRegistered, ProfileRegisteredEvent{ProfileID: 10}))

	require.NoError(t, sub.Poll(ctx))

	pending, err := client.XPending(ctx, DatasetEventsStream, "test-group").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}
