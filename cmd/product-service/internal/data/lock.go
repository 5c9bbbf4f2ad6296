package data

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"

	"productmanagement/pkg/monitoring"
)

// maxReaders 进程内并发读上限，写锁一次占满全部权重
const maxReaders = 1 << 20

// Locker 数据文档的读写锁
type Locker interface {
	// RLock 获取共享锁，返回释放函数
	RLock(ctx context.Context) (func(), error)
	// Lock 获取独占锁，返回释放函数
	Lock(ctx context.Context) (func(), error)
	// Close 释放底层资源
	Close() error
}

// MutexLocker 仅进程内有效的读写锁
type MutexLocker struct {
	sem *semaphore.Weighted
}

// NewMutexLocker 创建进程内读写锁
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{sem: semaphore.NewWeighted(maxReaders)}
}

// RLock 获取共享锁
func (l *MutexLocker) RLock(ctx context.Context) (func(), error) {
	start := time.Now()
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire shared lock: %w", err)
	}
	monitoring.DocumentLockWait.WithLabelValues("shared").Observe(time.Since(start).Seconds())
	return func() { l.sem.Release(1) }, nil
}

// Lock 获取独占锁
func (l *MutexLocker) Lock(ctx context.Context) (func(), error) {
	start := time.Now()
	if err := l.sem.Acquire(ctx, maxReaders); err != nil {
		return nil, fmt.Errorf("acquire exclusive lock: %w", err)
	}
	monitoring.DocumentLockWait.WithLabelValues("exclusive").Observe(time.Since(start).Seconds())
	return func() { l.sem.Release(maxReaders) }, nil
}

// Close 无资源需要释放
func (l *MutexLocker) Close() error {
	return nil
}

// FileLocker 进程内读写锁叠加 <path>.lock 上的操作系统咨询锁，
// 用于多个进程共享同一数据文件的场景。
type FileLocker struct {
	sem        *semaphore.Weighted
	fl         *flock.Flock
	retryDelay time.Duration

	// gate 保护 readers，首个读者等待 OS 锁期间也持有它，其余读者按各自的 ctx 等待
	gate    *semaphore.Weighted
	readers int
}

// NewFileLocker 创建文件锁，lockPath 通常为数据文件路径加 .lock 后缀
func NewFileLocker(lockPath string, retryDelay time.Duration) *FileLocker {
	if retryDelay <= 0 {
		retryDelay = 10 * time.Millisecond
	}
	return &FileLocker{
		sem:        semaphore.NewWeighted(maxReaders),
		gate:       semaphore.NewWeighted(1),
		fl:         flock.New(lockPath),
		retryDelay: retryDelay,
	}
}

// RLock 获取共享锁。进程内第一个读者获取 OS 共享锁，最后一个读者释放。
func (l *FileLocker) RLock(ctx context.Context) (func(), error) {
	start := time.Now()
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire shared lock: %w", err)
	}

	if err := l.gate.Acquire(ctx, 1); err != nil {
		l.sem.Release(1)
		return nil, fmt.Errorf("acquire shared lock: %w", err)
	}
	if l.readers == 0 {
		if _, err := l.fl.TryRLockContext(ctx, l.retryDelay); err != nil {
			l.gate.Release(1)
			l.sem.Release(1)
			return nil, fmt.Errorf("acquire shared file lock %s: %w", l.fl.Path(), err)
		}
	}
	l.readers++
	l.gate.Release(1)
	monitoring.DocumentLockWait.WithLabelValues("shared").Observe(time.Since(start).Seconds())

	return func() {
		// readers > 0 时没有读者在等待 OS 锁，gate 只会被短暂占用
		_ = l.gate.Acquire(context.Background(), 1)
		l.readers--
		if l.readers == 0 {
			_ = l.fl.Unlock()
		}
		l.gate.Release(1)
		l.sem.Release(1)
	}, nil
}

// Lock 获取独占锁
func (l *FileLocker) Lock(ctx context.Context) (func(), error) {
	start := time.Now()
	if err := l.sem.Acquire(ctx, maxReaders); err != nil {
		return nil, fmt.Errorf("acquire exclusive lock: %w", err)
	}
	if _, err := l.fl.TryLockContext(ctx, l.retryDelay); err != nil {
		l.sem.Release(maxReaders)
		return nil, fmt.Errorf("acquire exclusive file lock %s: %w", l.fl.Path(), err)
	}
	monitoring.DocumentLockWait.WithLabelValues("exclusive").Observe(time.Since(start).Seconds())

	return func() {
		_ = l.fl.Unlock()
		l.sem.Release(maxReaders)
	}, nil
}

// Close 关闭锁文件句柄
func (l *FileLocker) Close() error {
	return l.fl.Close()
}
