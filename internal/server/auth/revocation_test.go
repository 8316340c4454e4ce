package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: baseTime}
	l := NewMemoryRevocationList(clock.Now)

	ok, err := l.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Revoke(ctx, "a", baseTime.Add(time.Minute)))
	ok, err = l.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	clock.t = baseTime.Add(time.Minute)
	ok, err = l.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "entry expires with the token")
	assert.Empty(t, l.entries)
}

func TestMemoryRevocationList_IgnoresAlreadyExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: baseTime}
	l := NewMemoryRevocationList(clock.Now)

	require.NoError(t, l.Revoke(ctx, "old", baseTime.Add(-time.Second)))
	assert.Empty(t, l.entries)
}

func TestRedisRevocationList(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	clock := &fakeClock{t: baseTime}
	l := NewRedisRevocationList(client, clock.Now)

	require.NoError(t, l.Revoke(ctx, "jti-1", baseTime.Add(10*time.Minute)))

	ok, err := l.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 10*time.Minute, mr.TTL(revokedKeyPrefix+"jti-1"))

	ok, err = l.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(10 * time.Minute)
	ok, err = l.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRevocationList_SkipsExpiredTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := &fakeClock{t: baseTime}
	l := NewRedisRevocationList(client, clock.Now)

	require.NoError(t, l.Revoke(context.Background(), "gone", baseTime))
	assert.False(t, mr.Exists(revokedKeyPrefix+"gone"))
}

func TestRedisRevocationList_PropagatesErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisRevocationList(client, nil).IsRevoked(context.Background(), "x")
	assert.Error(t, err)
}
