package plugins

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/pkg/utils"
)

var _ core.Plugins = (*SaaSPlugin)(nil)

func newSaaSPlugin() *SaaSPlugin {
	return &SaaSPlugin{
		Appid:    "stellar",
		limiters: newLimiterGroup(),
	}
}

type SaaSPlugin struct {
	core     *core.Core
	Appid    string
	limiters *limiterGroup
	cache    *RedisCache
}

func (s *SaaSPlugin) Name() string {
	return "saas"
}

func (s *SaaSPlugin) DefaultAppid() string {
	return s.Appid
}

func (s *SaaSPlugin) Install(c *core.Core) error {
	s.core = c
	utils.SetupIDWorker(1) // TODO: Cluster id by redis

	cfg := c.Cfg().Redis
	if cfg.Addr == "" {
		return fmt.Errorf("saas mode requires redis.addr")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Failed to connect redis, %w", err)
	}

	s.cache = NewRedisCache(client)
	return nil
}

func (s *SaaSPlugin) Cache() core.Cache {
	return s.cache
}

func (s *SaaSPlugin) UseLimiter(key string, method string, defaultRatelimit int) core.Limiter {
	return s.limiters.use(method+":"+key, defaultRatelimit)
}

// RedisCache shares scrape results and summaries between replicas.
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return c.client.Set(ctx, key, value, expiresAt).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}
