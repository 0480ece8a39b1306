package locker

import "time"

// Locker 跨进程的互斥锁，保存同一个工作簿文件时使用
type Locker interface {
	// Lock 不等待，已被占用时返回错误，exp 后自动过期
	Lock(exp time.Duration) error
	// TryLock 在 wait 时间内重试获取锁
	TryLock(wait time.Duration) error
	// Unlock 只释放自己持有的锁，未持有或者已过期时返回错误
	Unlock() error
}
