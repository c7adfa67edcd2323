package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/config"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

func TestMemoryLocker_SerializesOwner(t *testing.T) {
	l := NewMemoryLocker()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "owner-1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, maxInside)
	assert.Empty(t, l.locks)
}

func TestMemoryLocker_OwnersAreIndependent(t *testing.T) {
	l := NewMemoryLocker()

	unlockA, err := l.Lock(context.Background(), "owner-a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, "owner-b")
	require.NoError(t, err)
	unlockB()
}

func TestMemoryLocker_ContextCancelled(t *testing.T) {
	l := NewMemoryLocker()

	unlock, err := l.Lock(context.Background(), "owner-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "owner-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	// a second call is a no-op
	unlock()
	assert.Empty(t, l.locks)

	unlock, err = l.Lock(context.Background(), "owner-1")
	require.NoError(t, err)
	unlock()
}

func TestNew(t *testing.T) {
	logger := zap.NewNop()

	locker, err := New(config.ComplianceConfig{}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryLocker{}, locker)

	locker, err = New(config.ComplianceConfig{LockBackend: config.LockBackendMemory}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryLocker{}, locker)

	_, err = New(config.ComplianceConfig{LockBackend: config.LockBackendRedis}, nil, logger)
	assert.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	locker, err = New(config.ComplianceConfig{LockBackend: config.LockBackendRedis, LockTTL: time.Second}, client, logger)
	require.NoError(t, err)
	assert.IsType(t, &RedisLocker{}, locker)

	_, err = New(config.ComplianceConfig{LockBackend: "etcd"}, nil, logger)
	assert.Error(t, err)
}

func TestRedisLocker_BackendDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "localhost:0",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	l := NewRedisLocker(client, time.Second, zap.NewNop())
	unlock, err := l.Lock(context.Background(), "owner-1")
	assert.Nil(t, unlock)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrUnavailable, apperrors.CodeOf(err))
}
