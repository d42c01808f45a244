// Copyright © 2026 The Crisp authors

package diagnostic

import (
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SourceCache keeps the contents of recently rendered files so that
// diagnostics in the same file do not re-read it.
type SourceCache struct {
	cache *lru.Cache[string, []byte]
	read  func(string) ([]byte, error)
}

// NewSourceCache returns a cache of at most size files.  A nil read
// function reads from disk.
func NewSourceCache(size int, read func(string) ([]byte, error)) *SourceCache {
	if read == nil {
		read = os.ReadFile
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		// Only a non-positive size fails.
		cache, _ = lru.New[string, []byte](1)
	}
	return &SourceCache{cache: cache, read: read}
}

// Add seeds the cache with content for name, for sources that were parsed
// from memory.
func (c *SourceCache) Add(name string, content []byte) {
	c.cache.Add(name, content)
}

// Read returns the contents of name.  It has the signature of
// Renderer.SourceReader.
func (c *SourceCache) Read(name string) ([]byte, error) {
	if data, ok := c.cache.Get(name); ok {
		return data, nil
	}
	data, err := c.read(name)
	if err != nil {
		return nil, err
	}
	c.cache.Add(name, data)
	return data, nil
}
