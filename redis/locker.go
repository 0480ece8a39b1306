package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/opdss/xltable/contracts/locker"
	"github.com/redis/go-redis/v9"
	"github.com/zeebo/errs"
)

var ErrLocker = errs.Class("redis.locker")

var ErrTimeout = errors.New("try lock time out")
var ErrFailure = errors.New("get lock failure")
var ErrNotHeld = errors.New("lock not held")

const delLua = `if redis.call("get",KEYS[1]) == ARGV[1] then return redis.call("del",KEYS[1]) end return 0`

var _ locker.Locker = (*Locker)(nil)

// Locker 基于redis实现的分布式锁，保存同一个工作簿文件的进程之间互斥
type Locker struct {
	client       redis.Cmdable
	unlockScript *redis.Script
	key          string
	token        string
	deadline     time.Time
}

func NewLocker(key string, rdb redis.Cmdable) *Locker {
	return &Locker{
		client:       rdb,
		key:          key,
		token:        uuid.New().String(),
		unlockScript: redis.NewScript(delLua),
	}
}

// Lock 非阻塞锁
func (l *Locker) Lock(exp time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), exp)
	defer cancel()
	ok, err := l.client.SetNX(ctx, l.key, l.token, exp).Result()
	if err != nil {
		return ErrLocker.Wrap(err)
	}
	if !ok {
		return ErrLocker.Wrap(ErrFailure)
	}
	l.deadline = time.Now().Add(exp)
	return nil
}

// TryLock 自旋锁，超时时间与锁时间相同
func (l *Locker) TryLock(wait time.Duration) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()
	var ok bool
	for {
		ok, err = l.client.SetNX(ctx, l.key, l.token, wait).Result()
		if err == nil && ok {
			l.deadline = time.Now().Add(wait)
			return nil
		}
		pause := 10 * time.Millisecond
		if err != nil {
			pause = 50 * time.Millisecond
		}
		select {
		case <-ctx.Done():
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return ErrLocker.Wrap(err)
			}
			return ErrLocker.Wrap(ErrTimeout)
		case <-time.After(pause):
		}
	}
}

// Unlock 只删除自己持有的锁，锁已过期时返回 ErrNotHeld
func (l *Locker) Unlock() error {
	if l.deadline.IsZero() {
		return ErrLocker.Wrap(ErrNotHeld)
	}
	deadline := l.deadline
	l.deadline = time.Time{}
	if time.Now().After(deadline) {
		return ErrLocker.Wrap(ErrNotHeld)
	}
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()
	n, err := l.unlockScript.Run(ctx, l.client, []string{l.key}, l.token).Int()
	if err != nil {
		return ErrLocker.New("unlock %s: %w", l.key, err)
	}
	if n == 0 {
		return ErrLocker.Wrap(ErrNotHeld)
	}
	return nil
}
