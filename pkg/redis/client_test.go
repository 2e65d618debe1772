package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	return mr
}

func TestSetGetDel(t *testing.T) {
	setup(t)
	ctx := context.Background()

	require.NoError(t, Set(ctx, "k", "v", time.Minute))

	val, err := Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, Del(ctx, "k"))
	_, err = Get(ctx, "k")
	assert.Error(t, err)
}

func TestSetNX(t *testing.T) {
	setup(t)
	ctx := context.Background()

	ok, err := SetNX(ctx, "lock", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = SetNX(ctx, "lock", "2", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second claim must lose")
}

func TestPublish(t *testing.T) {
	setup(t)
	ctx := context.Background()

	sub := GetClient().Subscribe(ctx, "test.channel")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, Publish(ctx, "test.channel", "hello"))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "hello", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}
