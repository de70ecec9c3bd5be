package submission

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const inFlightPrefix = "application:inflight:"

// Guard marks a submission key as in flight so a second attempt is ignored.
type Guard interface {
	// Acquire reports false when key is already held.
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// releaseScript deletes the marker only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares in-flight markers between worker instances. Markers expire
// after ttl so a crashed worker cannot block an application forever.
type RedisGuard struct {
	redis redisCmdable
	ttl   time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// redisCmdable is the subset of the go-redis client the guard needs.
type redisCmdable interface {
	redis.Scripter
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

func NewRedisGuard(rdb redisCmdable, ttl time.Duration) *RedisGuard {
	return &RedisGuard{redis: rdb, ttl: ttl, tokens: make(map[string]string)}
}

func InFlightKey(key string) string {
	return inFlightPrefix + key
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := g.redis.SetNX(ctx, InFlightKey(key), token, g.ttl).Result()
	if err != nil || !ok {
		return false, err
	}
	g.mu.Lock()
	g.tokens[key] = token
	g.mu.Unlock()
	return true, nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	token, ok := g.tokens[key]
	delete(g.tokens, key)
	g.mu.Unlock()
	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, g.redis, []string{InFlightKey(key)}, token).Err()
}

// localGuard keeps markers in process memory.
type localGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocalGuard returns a Guard scoped to this process.
func NewLocalGuard() Guard {
	return &localGuard{held: make(map[string]struct{})}
}

func (g *localGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.held[key]; ok {
		return false, nil
	}
	g.held[key] = struct{}{}
	return true, nil
}

func (g *localGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.held, key)
	g.mu.Unlock()
	return nil
}
