package redis

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigOptions(t *testing.T) {
	opts := Config{Host: "cache", Port: 6380, Db: 2, MaxIdleConn: 4, DialTimeout: time.Second}.Options()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 4, opts.MaxIdleConns)
	assert.Equal(t, time.Second, opts.DialTimeout)
	assert.Zero(t, opts.ReadTimeout)

	assert.Equal(t, "xltable:lock:out.xlsx", Config{LockPrefix: "xltable:lock:"}.LockKey("out.xlsx"))
}

func unreachable(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestUnlockWithoutLock(t *testing.T) {
	l := NewLocker("xltable:test", unreachable(t))
	err := l.Unlock()
	assert.ErrorIs(t, err, ErrNotHeld)
	assert.True(t, ErrLocker.Has(err))
}

func TestLockUnreachable(t *testing.T) {
	l := NewLocker("xltable:test", unreachable(t))
	err := l.Lock(time.Second)
	require.Error(t, err)
	assert.True(t, ErrLocker.Has(err))

	start := time.Now()
	err = l.TryLock(150 * time.Millisecond)
	require.Error(t, err)
	assert.True(t, ErrLocker.Has(err))
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.ErrorIs(t, l.Unlock(), ErrNotHeld)
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(Config{Host: "127.0.0.1", Port: 1, DialTimeout: 50 * time.Millisecond})
	assert.True(t, ErrRedis.Has(err))
}
