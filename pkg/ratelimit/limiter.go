package ratelimit

import (
	"time"

	"Vine/config"

	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Registry 每个 key 一个令牌桶
type Registry struct {
	visitors cmap.ConcurrentMap[string, *visitor]
	limit    rate.Limit
	burst    int
}

func NewRegistry(perSecond float64, burst int) *Registry {
	if burst <= 0 {
		burst = 1
	}
	return &Registry{
		visitors: cmap.New[*visitor](),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (r *Registry) Allow(key string) bool {
	now := time.Now()
	v := r.visitors.Upsert(key, nil, func(exist bool, old *visitor, _ *visitor) *visitor {
		if exist {
			old.lastSeen = now
			return old
		}
		return &visitor{limiter: rate.NewLimiter(r.limit, r.burst), lastSeen: now}
	})
	return v.limiter.AllowN(now, 1)
}

// Cleanup 清理 idle 以上未访问的 key，返回清理数量
func (r *Registry) Cleanup(idle time.Duration) int {
	deadline := time.Now().Add(-idle)
	removed := 0
	for _, key := range r.visitors.Keys() {
		if r.visitors.RemoveCb(key, func(_ string, v *visitor, exists bool) bool {
			return exists && v.lastSeen.Before(deadline)
		}) {
			removed++
		}
	}
	return removed
}

func NewRegistryFromConfig(cfg *config.Config) *Registry {
	return NewRegistry(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
}
