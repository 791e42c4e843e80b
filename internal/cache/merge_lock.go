package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// luaReleaseMergeLockIfMatch 仅当锁值匹配 token 时才删除，避免误删新请求的锁。
const luaReleaseMergeLockIfMatch = `
local lockKey = KEYS[1]
local token = ARGV[1]
if redis.call('GET', lockKey) == token then
  return redis.call('DEL', lockKey)
end
return 0
`

// mergeLockKey 统一约定购物车合并锁键名（按身份维度）
func mergeLockKey(identityKey string) string {
	return buildKey(fmt.Sprintf("order:merge_lock:%s", identityKey))
}

// AcquireMergeLock 获取按身份维度的购物车合并锁。
// Redis 未启用时返回放行（合并路径的金额重算具备幂等性，锁只是收窄竞争窗口）。
func AcquireMergeLock(ctx context.Context, identityKey string, ttl time.Duration) (string, bool, error) {
	if !Enabled() {
		return "", true, nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	token := uuid.NewString()
	ok, err := redisClient.SetNX(ctx, mergeLockKey(identityKey), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// ReleaseMergeLock 安全释放购物车合并锁
func ReleaseMergeLock(ctx context.Context, identityKey, token string) error {
	if !Enabled() || token == "" {
		return nil
	}
	_, err := redisClient.Eval(ctx, luaReleaseMergeLockIfMatch, []string{mergeLockKey(identityKey)}, token).Int()
	return err
}
