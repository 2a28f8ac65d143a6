package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stock_valuation/internal/feature/portfolio/domain"
	"stock_valuation/internal/feature/portfolio/usecase"
)

// releaseScript deletes the key only if this holder still owns it.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// RunLockRedis implements usecase.RunLock with SET NX PX.
// The TTL bounds how long a crashed run can block the next one.
type RunLockRedis struct {
	rdb      *redis.Client
	key      string
	ttl      time.Duration
	newToken func() string
}

var _ usecase.RunLock = (*RunLockRedis)(nil)

// NewRunLockRedis creates a run lock. If rdb is nil, Acquire always succeeds.
// If ttl is 0, it defaults to 10 minutes. If key is empty, it uses "portfolio:update:lock".
func NewRunLockRedis(rdb *redis.Client, key string, ttl time.Duration) *RunLockRedis {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if key == "" {
		key = "portfolio:update:lock"
	}
	return &RunLockRedis{rdb: rdb, key: key, ttl: ttl, newToken: uuid.NewString}
}

func (l *RunLockRedis) Acquire(ctx context.Context) (func(context.Context) error, error) {
	// Redisが未設定の場合はロックなしで実行
	if l.rdb == nil {
		return func(context.Context) error { return nil }, nil
	}

	token := l.newToken()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire update lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrLockHeld
	}

	return func(ctx context.Context) error {
		return l.rdb.Eval(ctx, releaseScript, []string{l.key}, token).Err()
	}, nil
}
