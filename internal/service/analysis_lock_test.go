package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"item_bank_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalKeyLocker_SerializesSameKey(t *testing.T) {
	l := NewLocalKeyLocker()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "k", time.Second)
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, l.locks)
}

func TestLocalKeyLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocalKeyLocker()

	unlockA, err := l.Lock(context.Background(), "a", time.Second)
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, "b", time.Second)
	require.NoError(t, err)
	unlockB()
}

func TestLocalKeyLocker_HonoursContext(t *testing.T) {
	l := NewLocalKeyLocker()

	unlock, err := l.Lock(context.Background(), "k", time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k", time.Second)
	assert.ErrorIs(t, err, util.ErrLockTimeout)

	unlock()
	unlock() // 重复释放无副作用

	again, err := l.Lock(context.Background(), "k", time.Second)
	require.NoError(t, err)
	again()
	assert.Empty(t, l.locks)
}

func TestRedisKeyLocker_RejectsNonPositiveTTL(t *testing.T) {
	l := NewRedisKeyLocker(nil)

	for _, ttl := range []time.Duration{0, -time.Second} {
		_, err := l.Lock(context.Background(), "k", ttl)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, util.ErrLockTimeout)
	}
}
