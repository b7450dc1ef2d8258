package scale

import (
	"sync"

	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/logger"
	"github.com/jsphweid/scaletree/model"
	"github.com/sirupsen/logrus"
)

type cacheEntry struct {
	resolved *Resolved
	warnings diag.Warnings
}

// Cache memoizes Resolve by (track id, hierarchy version). Seeing a new
// version throws away everything cached for the old one.
type Cache struct {
	items   map[model.TrackID]cacheEntry
	version uint64
	mutex   sync.RWMutex
	log     logrus.FieldLogger
}

func NewCache(log logrus.FieldLogger) *Cache {
	return &Cache{
		items: make(map[model.TrackID]cacheEntry),
		log:   logger.OrDiscard(log),
	}
}

func (c *Cache) get(version uint64, trackID model.TrackID) (cacheEntry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if version != c.version {
		return cacheEntry{}, false
	}
	entry, ok := c.items[trackID]
	return entry, ok
}

func (c *Cache) set(version uint64, trackID model.TrackID, entry cacheEntry) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if version != c.version {
		c.items = make(map[model.TrackID]cacheEntry)
		c.version = version
	}
	c.items[trackID] = entry
}

// Resolve is scale.Resolve backed by the cache. Errors are not cached.
func (c *Cache) Resolve(h model.Hierarchy, trackID model.TrackID) (*Resolved, diag.Warnings, error) {
	if entry, ok := c.get(h.Version, trackID); ok {
		return entry.resolved, entry.warnings, nil
	}
	resolved, warnings, err := Resolve(h, trackID, c.log)
	if err != nil {
		return nil, nil, err
	}
	c.set(h.Version, trackID, cacheEntry{resolved: resolved, warnings: warnings})
	return resolved, warnings, nil
}

func (c *Cache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[model.TrackID]cacheEntry)
}
