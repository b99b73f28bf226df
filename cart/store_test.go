package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()

	s, err := Open(ctx, store, "u1")
	require.NoError(t, err)
	require.NoError(t, s.AddItem(ctx, "r1", "a"))
	require.NoError(t, s.AddItem(ctx, "r1", "a"))
	require.NoError(t, s.AddItem(ctx, "r2", "b"))
	require.NoError(t, s.RemoveItem(ctx, "r2", "b"))

	again, err := Open(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Carts().Quantity("r1", "a"))
	assert.Empty(t, again.Carts().Items("r2"))

	other, err := Open(ctx, store, "u2")
	require.NoError(t, err)
	assert.Empty(t, other.Carts().Items("r1"))

	require.NoError(t, again.Reset(ctx))
	afterReset, err := Open(ctx, store, "u1")
	require.NoError(t, err)
	assert.Empty(t, afterReset.Carts().Items("r1"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	_, client := setupTestRedis(t)
	exerciseStore(t, NewRedisStore(client, "", 0))
}

func TestRedisStoreKeyAndTTL(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, "test:cart", time.Hour)
	ctx := context.Background()

	s, err := Open(ctx, store, "u1")
	require.NoError(t, err)
	require.NoError(t, s.AddItem(ctx, "r1", "a"))

	assert.True(t, mr.Exists("test:cart:u1"))
	assert.Equal(t, time.Hour, mr.TTL("test:cart:u1"))
}

func TestRedisStoreCorruptValue(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisStore(client, "test:cart", time.Hour)
	require.NoError(t, mr.Set("test:cart:u1", "{not json"))

	_, err := Open(context.Background(), store, "u1")
	assert.Error(t, err)
}

func TestLastWriterWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	phone, err := Open(ctx, store, "u1")
	require.NoError(t, err)
	laptop, err := Open(ctx, store, "u1")
	require.NoError(t, err)

	require.NoError(t, phone.AddItem(ctx, "r1", "a"))
	require.NoError(t, laptop.AddItem(ctx, "r1", "b"))

	final, err := Open(ctx, store, "u1")
	require.NoError(t, err)
	assert.Equal(t, []Line{{ItemID: "b", Quantity: 1}}, final.Carts().Items("r1"))
}
