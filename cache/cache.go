// Package cache memoizes replayed game histories, so that repeated
// searches over an overlapping candidate pool do not re-replay the same
// move logs. Histories are sequences of immutable snapshots, so handing
// the same history to concurrent readers is safe.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/cgplocate/game"
)

type loadFunc func(key string) (game.History, error)

type Cache struct {
	sync.Mutex
	histories map[string]game.History
}

func New() *Cache {
	return &Cache{histories: make(map[string]game.History)}
}

// Get returns the cached history for key, replaying it via load on a
// miss.
func (c *Cache) Get(key string, load loadFunc) (game.History, error) {
	c.Lock()
	defer c.Unlock()
	if h, ok := c.histories[key]; ok {
		return h, nil
	}
	log.Debug().Str("key", key).Msg("replaying into cache")
	h, err := load(key)
	if err != nil {
		return nil, err
	}
	c.histories[key] = h
	return h, nil
}

// Len returns the number of cached histories.
func (c *Cache) Len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.histories)
}
