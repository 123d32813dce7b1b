package queue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRedisQueue returns a queue on a throwaway key. Skips if Redis is
// unavailable.
func testRedisQueue(t *testing.T) *RedisQueue {
	t.Helper()

	url := os.Getenv("LEBEM_TEST_REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/15"
	}

	client, err := Connect(context.Background(), url)
	if err != nil {
		t.Skipf("skipping integration test: Redis not reachable: %v", err)
	}

	key := "lebem:test:" + uuid.NewString()
	t.Cleanup(func() {
		client.Del(context.Background(), key)
		client.Close()
	})

	return NewRedisQueue(client, key)
}

func TestRedisQueueRoundTrip(t *testing.T) {
	q := testRedisQueue(t)
	ctx := context.Background()

	first := NewJob("review", map[string]string{"name": "Ali"})
	second := NewJob("contact", map[string]string{"name": "Vali"})
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Ali", got.Payload["name"])

	got, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestRedisQueueClose(t *testing.T) {
	q := testRedisQueue(t)
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Enqueue(context.Background(), NewJob("review", nil)), ErrClosed)
	_, err := q.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRedisQueueDequeueHonorsContext(t *testing.T) {
	q := testRedisQueue(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.Error(t, err)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	assert.Error(t, err)
}
