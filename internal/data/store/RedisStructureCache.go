package store

import (
	"context"

	"github.com/akolanti/DocFlowAPI/internal/config"
	"github.com/akolanti/DocFlowAPI/internal/data/redisStore"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

// RedisStructureCache remembers the raw structuring answer per OCR text hash
// so re-structuring the same document never hits the hosted model twice.
type RedisStructureCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisStructureCache(ctx context.Context) *RedisStructureCache {
	return &RedisStructureCache{
		store:  redisStore.GetRedisStore(ctx, config.RedisStructureCache),
		logger: logger_i.NewLogger("StructureCache"),
	}
}

func (c *RedisStructureCache) GetAnswer(ctx context.Context, key string) (string, bool) {
	val, err := c.store.Get(ctx, key)
	if c.store.IsNil(err) {
		return "", false
	} else if err != nil {
		c.logger.Err("Cache lookup failed", err)
		return "", false
	}
	c.logger.Debug("Cache hit", "key", key)
	return val, true
}

func (c *RedisStructureCache) SaveAnswer(ctx context.Context, key string, rawAnswer string) error {
	err := c.store.Set(ctx, key, rawAnswer, config.RedisStructureCacheTTL)
	if err == nil {
		c.logger.Debug("Cached structuring answer", "key", key)
	}
	return err
}

func TestStructureCache(store *redisStore.Store) *RedisStructureCache {
	return &RedisStructureCache{
		store:  store,
		logger: logger_i.NewLogger("test structure cache"),
	}
}
