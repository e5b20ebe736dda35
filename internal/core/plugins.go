package core

import (
	"context"
	"time"
)

type Plugins interface {
	Install(*Core) error
	Name() string
	DefaultAppid() string
	UseLimiter(key string, method string, defaultRatelimit int) Limiter
	Cache() Cache
}

// Cache is a shared key value cache. Get returns an empty string on miss.
type Cache interface {
	SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type Limiter interface {
	Allow() bool
}

type SetupFunc func() Plugins

func (c *Core) InstallPlugins(p Plugins) {
	if err := p.Install(c); err != nil {
		panic(err)
	}
	c.Plugins = p
}
