package locker

import (
	"context"
	"errors"
	"sync"
	"time"

	"Vine/pkg/log"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrLockTimeout = errors.New("acquire lock timeout")

// Locker 按 key 串行化，同一账户的所有变动都要先拿到锁
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

type entry struct {
	mu  sync.Mutex
	ref int
}

// Local 进程内 keyed mutex，entry 引用计数为 0 时回收
type Local struct {
	entries cmap.ConcurrentMap[string, *entry]
}

func NewLocal() *Local {
	return &Local{entries: cmap.New[*entry]()}
}

func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	e := l.entries.Upsert(key, nil, func(exist bool, old *entry, _ *entry) *entry {
		if exist {
			old.ref++
			return old
		}
		return &entry{ref: 1}
	})

	locked := make(chan struct{})
	go func() {
		e.mu.Lock()
		close(locked)
	}()

	select {
	case <-locked:
	case <-ctx.Done():
		// 等拿到锁后立即释放，保证引用计数正确
		go func() {
			<-locked
			l.release(key, e)
		}()
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, e) })
	}, nil
}

func (l *Local) release(key string, e *entry) {
	e.mu.Unlock()
	l.entries.RemoveCb(key, func(_ string, v *entry, exists bool) bool {
		if !exists || v != e {
			return false
		}
		v.ref--
		return v.ref == 0
	})
}

// Size 当前持有 entry 的 key 数量
func (l *Local) Size() int {
	return l.entries.Count()
}

const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Redis 跨实例锁，先拿本地锁再拿 redis 锁，减少同进程内的无效轮询
type Redis struct {
	client *redis.Client
	local  *Local
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		local:  NewLocal(),
		prefix: "vine:lock:",
		ttl:    10 * time.Second,
		retry:  20 * time.Millisecond,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	unlockLocal, err := r.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	redisKey := r.prefix + key
	token := uuid.NewString()
	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			unlockLocal()
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			unlockLocal()
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}

	return func() {
		if err := r.client.Eval(context.Background(), unlockScript, []string{redisKey}, token).Err(); err != nil {
			log.L.Warn("release redis lock failed", zap.String("key", redisKey), zap.Error(err))
		}
		unlockLocal()
	}, nil
}

// New redis 可用时使用分布式锁，否则只在进程内串行
func New(client *redis.Client) Locker {
	if client == nil {
		return NewLocal()
	}
	return NewRedis(client)
}
