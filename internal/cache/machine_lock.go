package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockTimeout 获取锁超时
var ErrLockTimeout = errors.New("machine lock timeout")

const lockRetryInterval = 100 * time.Millisecond

var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// MachineLock 售货机级互斥锁
// Redis 启用时使用 SET NX + TTL 跨实例串行化，未启用时退化为进程内信号量。
type MachineLock struct {
	ttl time.Duration

	mu     sync.Mutex
	locals map[string]chan struct{}
}

// NewMachineLock 创建售货机锁
func NewMachineLock(ttl time.Duration) *MachineLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &MachineLock{
		ttl:    ttl,
		locals: make(map[string]chan struct{}),
	}
}

// Acquire 获取指定售货机的锁，返回释放函数。
// 锁被占用时按固定间隔重试，直到 ctx 结束。
func (l *MachineLock) Acquire(ctx context.Context, machineUUID string) (func(), error) {
	if Enabled() {
		return l.acquireRedis(ctx, machineUUID)
	}
	return l.acquireLocal(ctx, machineUUID)
}

func (l *MachineLock) acquireRedis(ctx context.Context, machineUUID string) (func(), error) {
	client := Client()
	key := buildKey(fmt.Sprintf("lock:machine:%s", machineUUID))
	token := uuid.NewString()

	for {
		ok, err := client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			release := func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				_, _ = releaseLockScript.Run(releaseCtx, client, []string{key}, token).Result()
			}
			return release, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(lockRetryInterval):
		}
	}
}

func (l *MachineLock) acquireLocal(ctx context.Context, machineUUID string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.locals[machineUUID]
	if !ok {
		sem = make(chan struct{}, 1)
		l.locals[machineUUID] = sem
	}
	l.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ErrLockTimeout
	}
}
