package store

import (
	"context"
	"sync"
)

type InMemoryStructureCache struct {
	cacheMutex *sync.RWMutex
	answers    map[string]string
}

func InitInMemoryStructureCache() *InMemoryStructureCache {
	return &InMemoryStructureCache{
		cacheMutex: new(sync.RWMutex),
		answers:    make(map[string]string),
	}
}

func (c *InMemoryStructureCache) GetAnswer(ctx context.Context, key string) (string, bool) {
	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()
	answer, found := c.answers[key]
	return answer, found
}

func (c *InMemoryStructureCache) SaveAnswer(ctx context.Context, key string, rawAnswer string) error {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	c.answers[key] = rawAnswer
	return nil
}
