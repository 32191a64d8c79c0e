package guard

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"dialout-service/pkg/utils"
)

// Guard caps concurrent dials to a single destination so that a misbehaving
// caller (or a duplicated batch) cannot stack paid dials to one number.
//
// Acquire returning false means the cap is reached; the attempt must not dial.
// Release is best-effort: redis slots also expire on their own, covering the
// case where the process dies mid-call.
type Guard interface {
	Acquire(ctx context.Context, destination string) (bool, error)
	Release(ctx context.Context, destination string)
}

const keyPrefix = "dialout:active:"

// slotTTL covers the ringing window; a slot left behind by a crashed
// process disappears after this long.
const slotTTL = 2 * time.Minute

// RedisGuard enforces the cap across all dial-out processes.
type RedisGuard struct {
	rdb   *redis.Client
	limit int
}

func NewRedisGuard(rdb *redis.Client, limit int) *RedisGuard {
	return &RedisGuard{rdb: rdb, limit: limit}
}

func (g *RedisGuard) Acquire(ctx context.Context, destination string) (bool, error) {
	return utils.AcquireConcurrencyCap(ctx, g.rdb, keyPrefix+destination, g.limit, slotTTL)
}

func (g *RedisGuard) Release(ctx context.Context, destination string) {
	_ = utils.ReleaseConcurrencyCap(ctx, g.rdb, keyPrefix+destination)
}

// MemoryGuard is a single-process implementation for tests and the CLI.
type MemoryGuard struct {
	mu     sync.Mutex
	limit  int
	active map[string]int
}

func NewMemoryGuard(limit int) *MemoryGuard {
	return &MemoryGuard{limit: limit, active: make(map[string]int)}
}

func (g *MemoryGuard) Acquire(ctx context.Context, destination string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active[destination] >= g.limit {
		return false, nil
	}
	g.active[destination]++
	return true, nil
}

func (g *MemoryGuard) Release(ctx context.Context, destination string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active[destination] > 0 {
		g.active[destination]--
	}
	if g.active[destination] == 0 {
		delete(g.active, destination)
	}
}
