package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

const blacklistPrefix = "catalog:blacklist:"

// TokenBlacklist 已吊销的JWT
// Key为 catalog:blacklist:{sha256(token)}，TTL与Token剩余有效期一致，过期自动清理
type TokenBlacklist struct {
	client redis.UniversalClient
}

// NewTokenBlacklist 创建Token黑名单
func NewTokenBlacklist(client redis.UniversalClient) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke 吊销Token，ttl<=0时不写入（Token已过期，无需拉黑）
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, key(token), "revoked", ttl).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "添加Token到黑名单失败")
	}
	return nil
}

// IsRevoked 检查Token是否已被吊销
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "检查黑名单失败")
	}
	return n > 0, nil
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistPrefix + hex.EncodeToString(sum[:])
}
