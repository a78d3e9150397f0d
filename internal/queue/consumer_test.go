package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	err  error
	msgs []redis.XMessage
}

func (h *recordingHandler) Handle(_ context.Context, msg redis.XMessage) error {
	h.msgs = append(h.msgs, msg)
	return h.err
}

func newConsumerFixture(t *testing.T, handler MessageHandler) (*miniredis.Miniredis, *redis.Client, *Consumer) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := NewConsumer(client, "filevault:jobs", "filevault-workers", "worker-1", time.Minute, zerolog.Nop(), handler)
	require.NoError(t, c.EnsureGroup(context.Background()))
	return mr, client, c
}

func TestConsumer_EnsureGroupIdempotent(t *testing.T) {
	_, _, c := newConsumerFixture(t, &recordingHandler{})

	// Second creation hits BUSYGROUP, which is not an error.
	require.NoError(t, c.EnsureGroup(context.Background()))
}

func TestConsumer_AcksSuccessfulDelivery(t *testing.T) {
	_, client, c := newConsumerFixture(t, &recordingHandler{})
	ctx := context.Background()

	producer := NewProducer(client, "filevault:jobs")
	require.NoError(t, producer.Enqueue(ctx, ThumbnailJob{UserID: "u1", FileID: "f1"}))

	require.NoError(t, c.read(ctx))

	handler := c.handler.(*recordingHandler)
	require.Len(t, handler.msgs, 1)
	assert.Equal(t, "f1", handler.msgs[0].Values["fileId"])

	pending, err := client.XPending(ctx, "filevault:jobs", "filevault-workers").Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}

func TestConsumer_AcksFailedDelivery(t *testing.T) {
	// A handler error is terminal for the attempt; the delivery is acked
	// anyway so the entry never wedges the pending list.
	_, client, c := newConsumerFixture(t, &recordingHandler{err: errors.New("boom")})
	ctx := context.Background()

	producer := NewProducer(client, "filevault:jobs")
	require.NoError(t, producer.Enqueue(ctx, ThumbnailJob{UserID: "u1", FileID: "f1"}))

	require.NoError(t, c.read(ctx))

	handler := c.handler.(*recordingHandler)
	require.Len(t, handler.msgs, 1)

	pending, err := client.XPending(ctx, "filevault:jobs", "filevault-workers").Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}

func TestConsumer_ReclaimsStalledDelivery(t *testing.T) {
	mr, client, c := newConsumerFixture(t, &recordingHandler{})
	ctx := context.Background()

	producer := NewProducer(client, "filevault:jobs")
	require.NoError(t, producer.Enqueue(ctx, ThumbnailJob{UserID: "u1", FileID: "f1"}))

	// A different consumer takes the delivery and dies before acking.
	_, err := client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    "filevault-workers",
		Consumer: "worker-dead",
		Streams:  []string{"filevault:jobs", ">"},
		Count:    1,
	}).Result()
	require.NoError(t, err)

	pending, err := client.XPending(ctx, "filevault:jobs", "filevault-workers").Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, pending.Count)

	// Too young to claim yet.
	require.NoError(t, c.claimStalled(ctx))
	handler := c.handler.(*recordingHandler)
	assert.Empty(t, handler.msgs)

	mr.FastForward(2 * time.Minute)

	require.NoError(t, c.claimStalled(ctx))
	require.Len(t, handler.msgs, 1)
	assert.Equal(t, "f1", handler.msgs[0].Values["fileId"])

	pending, err = client.XPending(ctx, "filevault:jobs", "filevault-workers").Result()
	require.NoError(t, err)
	assert.Zero(t, pending.Count)
}
