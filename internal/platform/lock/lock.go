package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("resource is locked by another computation")

// Locker serializes recomputations that share a key.
type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}

type Release func(ctx context.Context) error

type RedisLocker struct {
	client  *redislock.Client
	ttl     time.Duration
	retries int
}

func NewRedis(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl, retries: 20}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Release, error) {
	lk, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), l.retries),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLocked
	}
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, nil
}

// Local is an in-process Locker for single instance deployments. A waiter
// gives up with ErrLocked after the same window the Redis locker retries for.
type Local struct {
	mu   sync.Mutex
	keys map[string]*localSlot
	wait time.Duration
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

func NewLocal() *Local {
	return &Local{keys: map[string]*localSlot{}, wait: 2 * time.Second}
}

func (l *Local) Acquire(ctx context.Context, key string) (Release, error) {
	l.mu.Lock()
	slot, ok := l.keys[key]
	if !ok {
		slot = &localSlot{ch: make(chan struct{}, 1)}
		l.keys[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case slot.ch <- struct{}{}:
		var once sync.Once
		return func(context.Context) error {
			once.Do(func() {
				<-slot.ch
				l.drop(key, slot)
			})
			return nil
		}, nil
	case <-timer.C:
		l.drop(key, slot)
		return nil, ErrLocked
	case <-ctx.Done():
		l.drop(key, slot)
		return nil, ctx.Err()
	}
}

// drop forgets the key once no holder or waiter references it.
func (l *Local) drop(key string, slot *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 && l.keys[key] == slot {
		delete(l.keys, key)
	}
}
