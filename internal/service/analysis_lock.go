package service

import (
	"context"
	"fmt"
	"item_bank_backend/internal/util"
	"item_bank_backend/pkg/logger"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KeyLocker 按键串行化分析结果的写入。
// 等待时长由 ctx 控制，超时返回 util.ErrLockTimeout；ttl 为持有上限，进程内锁忽略该值。
type KeyLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

func analysisLockKey(questionID, sessionKey string) string {
	return fmt.Sprintf("item_analysis:lock:%s:%s", questionID, sessionKey)
}

// LocalKeyLocker 单实例部署使用的进程内锁
type LocalKeyLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
}

type localLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalKeyLocker() *LocalKeyLocker {
	return &LocalKeyLocker{locks: make(map[string]*localLock)}
}

func (l *LocalKeyLocker) Lock(ctx context.Context, key string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	lk, ok := l.locks[key]
	if !ok {
		lk = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lk
	}
	lk.refs++
	l.mu.Unlock()

	select {
	case lk.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, lk)
		return nil, fmt.Errorf("%w: %v", util.ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lk.ch
			l.release(key, lk)
		})
	}, nil
}

func (l *LocalKeyLocker) release(key string, lk *localLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, key)
	}
}

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisKeyLocker 多实例部署使用的 SET NX 锁，TTL 防止持有者崩溃后死锁
type RedisKeyLocker struct {
	Client *redis.Client
	Retry  time.Duration
}

func NewRedisKeyLocker(client *redis.Client) *RedisKeyLocker {
	return &RedisKeyLocker{
		Client: client,
		Retry:  50 * time.Millisecond,
	}
}

func (l *RedisKeyLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("analysis lock ttl must be positive, got %s", ttl)
	}
	token := uuid.New().String()

	ticker := time.NewTicker(l.Retry)
	defer ticker.Stop()

	for {
		ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
		if err == nil && ok {
			break
		}
		if err != nil && ctx.Err() == nil {
			return nil, err
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", util.ErrLockTimeout, key)
		}
	}

	return func() {
		// 释放不受请求取消影响
		if err := releaseScript.Run(context.Background(), l.Client, []string{key}, token).Err(); err != nil {
			logger.Log.Warn("failed to release analysis lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
