// Package cache provides a content-addressed result cache for product
// analyses. Keys hash the item's descriptive fields rather than its product
// ID, so records with identical content share one entry.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/raine/catalog-vision/catalog"
)

type entry struct {
	result   catalog.AIAnalysisResult
	storedAt time.Time
}

// ResultCache is a bounded LRU cache with lazy TTL expiry. Expired entries
// are dropped when read; there is no background sweep.
type ResultCache struct {
	lru *lru.Cache[string, entry]
	ttl time.Duration
}

// New creates a cache holding at most capacity entries, each valid for ttl
// after insertion.
func New(capacity int, ttl time.Duration) (*ResultCache, error) {
	inner, err := lru.New[string, entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}
	return &ResultCache{lru: inner, ttl: ttl}, nil
}

// Get returns the cached result for key and refreshes its recency. An entry
// older than the TTL is evicted and reported as a miss.
func (c *ResultCache) Get(key string) (catalog.AIAnalysisResult, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return catalog.AIAnalysisResult{}, false
	}
	if time.Since(e.storedAt) > c.ttl {
		c.lru.Remove(key)
		log.Debug().Str("key", shortKey(key)).Msg("cache entry expired")
		return catalog.AIAnalysisResult{}, false
	}
	return e.result, true
}

// Set stores result under key at the most-recently-used position, evicting
// the least-recently-used entry if the cache is full.
func (c *ResultCache) Set(key string, result catalog.AIAnalysisResult) {
	evicted := c.lru.Add(key, entry{result: result, storedAt: time.Now()})
	if evicted {
		log.Debug().Str("key", shortKey(key)).Msg("cache evicted oldest entry")
	}
}

// Len returns the number of live entries, including any not yet lazily
// expired.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}

// Clear drops all entries unconditionally.
func (c *ResultCache) Clear() {
	c.lru.Purge()
}

// Key computes a stable content hash over the item's descriptive fields.
// The product ID is deliberately excluded: two product records with the same
// content and image resolve to the same entry.
func Key(input catalog.ProductAnalysisInput) string {
	h := sha256.New()
	writeField := func(s string) {
		// Length prefix prevents boundary collisions between fields.
		binary.Write(h, binary.LittleEndian, int64(len(s)))
		h.Write([]byte(s))
	}
	writeField(input.Name)
	writeField(input.Description)
	writeField(input.Category)
	for _, tag := range input.Tags {
		writeField(tag)
	}
	writeField(input.ImageURL)
	return hex.EncodeToString(h.Sum(nil))
}

func shortKey(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}
