package plugins

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/breeew/stellar-api/internal/core"
	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/pkg/utils"
)

const (
	DEFAULT_SELFHOST_EMAIL = "admin@stellar.local"
)

var _ core.Plugins = (*SelfHostPlugin)(nil)

func newSelfHostMode() *SelfHostPlugin {
	return &SelfHostPlugin{
		Appid:    "stellar-selfhost",
		limiters: newLimiterGroup(),
		cache:    newMemoryCache(),
	}
}

type SelfHostPlugin struct {
	core     *core.Core
	Appid    string
	limiters *limiterGroup
	cache    *memoryCache
}

func (s *SelfHostPlugin) Name() string {
	return "selfhost"
}

func (s *SelfHostPlugin) DefaultAppid() string {
	return s.Appid
}

// Install creates the default account on first start and prints its
// credentials once.
func (s *SelfHostPlugin) Install(c *core.Core) error {
	s.core = c
	fmt.Println("Start initialize.")
	utils.SetupIDWorker(1)

	email := os.Getenv("STELLAR_API_SELFHOST_EMAIL")
	if email == "" {
		email = DEFAULT_SELFHOST_EMAIL
	}
	password := os.Getenv("STELLAR_API_SELFHOST_PASSWORD")
	if password == "" {
		password = utils.RandomStr(16)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	created, err := v1.NewUserLogic(ctx, s.core).EnsureUser("admin", email, password)
	if err != nil {
		return fmt.Errorf("Initialize default user error: %w", err)
	}
	if !created {
		fmt.Println("System is already initialized. Skip.")
		return nil
	}

	fmt.Println("Appid:", s.Appid)
	fmt.Println("Email:", email)
	fmt.Println("Password:", password)
	return nil
}

func (s *SelfHostPlugin) Cache() core.Cache {
	return s.cache
}

func (s *SelfHostPlugin) UseLimiter(key string, method string, defaultRatelimit int) core.Limiter {
	return s.limiters.use(method+":"+key, defaultRatelimit)
}

type cacheItem struct {
	value     string
	expiresAt time.Time
}

// memoryCache is the single process stand-in for redis.
type memoryCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		items: make(map[string]cacheItem),
	}
}

func (c *memoryCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(expiresAt),
	}
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if time.Now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return "", nil
	}
	return item.value, nil
}
