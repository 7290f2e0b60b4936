package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

func setupBlacklist(t *testing.T) (*TokenBlacklist, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTokenBlacklist(client), mr
}

func TestTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl, mr := setupBlacklist(t)

	revoked, err := bl.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "token-a", time.Minute))
	revoked, err = bl.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	t.Run("不保存原始Token", func(t *testing.T) {
		for _, k := range mr.Keys() {
			assert.NotContains(t, k, "token-a")
		}
	})

	t.Run("过期后自动移除", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)
		revoked, err := bl.IsRevoked(ctx, "token-a")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("已过期的Token不写入", func(t *testing.T) {
		require.NoError(t, bl.Revoke(ctx, "token-b", 0))
		assert.Empty(t, mr.Keys())
	})
}

func TestTokenBlacklist_RedisDown(t *testing.T) {
	bl, mr := setupBlacklist(t)
	mr.Close()

	_, err := bl.IsRevoked(context.Background(), "token-a")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRedisError, apperrors.GetAppError(err).Code)
}
