package plugins

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/breeew/stellar-api/internal/core"
)

func Setup(install func(p core.Plugins), mode string) {
	p := provider[mode]
	if p == nil {
		panic("Setup mode not found: " + mode)
	}
	install(p())
}

var provider = map[string]core.SetupFunc{
	"selfhost": func() core.Plugins {
		return newSelfHostMode()
	},
	"saas": func() core.Plugins {
		return newSaaSPlugin()
	},
}

// Modes lists the names accepted by Setup.
func Modes() []string {
	return []string{"selfhost", "saas"}
}

type limiterGroup struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLimiterGroup() *limiterGroup {
	return &limiterGroup{
		limiters: make(map[string]*rate.Limiter),
	}
}

// use returns the limiter of key, ratelimit 代表每分钟允许的数量
func (g *limiterGroup) use(key string, defaultRatelimit int) core.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, exist := g.limiters[key]
	if !exist {
		if defaultRatelimit <= 0 {
			defaultRatelimit = 1
		}
		limit := rate.Every(time.Minute / time.Duration(defaultRatelimit))
		l = rate.NewLimiter(limit, defaultRatelimit*2)
		g.limiters[key] = l
	}
	return l
}
