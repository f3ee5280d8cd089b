package store

import (
	"sync"

	"github.com/nodalync/node/internal/ndlcrypto"
	"github.com/nodalync/node/internal/ndltypes"
)

// ContentCache holds paid-for content in memory, evicting the
// least-recently-queried entry once the configured byte ceiling is
// exceeded. A cache hit is the sole local authorization for using that
// hash as a derivation source — so eviction only ever drops bytes the
// node can re-query for, never a manifest or receipt record elsewhere.
type ContentCache struct {
	mu        sync.Mutex
	maxBytes  int64
	curBytes  int64
	entries   map[ndlcrypto.Hash]ndltypes.CachedContent
}

// NewContentCache creates a cache bounded by maxBytes of content.
func NewContentCache(maxBytes int64) *ContentCache {
	return &ContentCache{
		maxBytes: maxBytes,
		entries:  make(map[ndlcrypto.Hash]ndltypes.CachedContent),
	}
}

// Put inserts or refreshes a cached entry, evicting the
// least-recently-queried entries until the byte ceiling is satisfied.
func (c *ContentCache) Put(entry ndltypes.CachedContent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[entry.Hash]; ok {
		c.curBytes -= int64(len(existing.Bytes))
	}
	c.entries[entry.Hash] = entry
	c.curBytes += int64(len(entry.Bytes))

	for c.maxBytes > 0 && c.curBytes > c.maxBytes && len(c.entries) > 0 {
		c.evictOldestLocked()
	}
}

func (c *ContentCache) evictOldestLocked() {
	var oldestHash ndlcrypto.Hash
	var oldestTime int64
	first := true
	for h, e := range c.entries {
		if first || e.QueriedAt < oldestTime {
			oldestHash, oldestTime, first = h, e.QueriedAt, false
		}
	}
	if first {
		return
	}
	c.curBytes -= int64(len(c.entries[oldestHash].Bytes))
	delete(c.entries, oldestHash)
}

// Get returns the cached entry for hash, if present.
func (c *ContentCache) Get(hash ndlcrypto.Hash) (ndltypes.CachedContent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[hash]
	return entry, ok
}

// Has reports whether hash is cached — the authorization check for
// using it as a derivation source.
func (c *ContentCache) Has(hash ndlcrypto.Hash) bool {
	_, ok := c.Get(hash)
	return ok
}
