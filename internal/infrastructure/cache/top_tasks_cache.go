package cache

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// lruTopTasksCache keeps each user's top task listing for a fixed TTL
type lruTopTasksCache struct {
	lru *expirable.LRU[uint, []*tasks.TaskSummary]
}

// NewTopTasksCache creates a cache holding up to size users' listings for ttl
func NewTopTasksCache(size int, ttl time.Duration) tasks.TopTasksCache {
	return &lruTopTasksCache{lru: expirable.NewLRU[uint, []*tasks.TaskSummary](size, nil, ttl)}
}

func (c *lruTopTasksCache) Get(userID uint) ([]*tasks.TaskSummary, bool) {
	return c.lru.Get(userID)
}

func (c *lruTopTasksCache) Add(userID uint, list []*tasks.TaskSummary) {
	c.lru.Add(userID, list)
}
