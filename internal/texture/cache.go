package texture

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Generator produces the encoded bytes for a texture on a cache miss.
type Generator func() ([]byte, error)

// Cache memoizes generated textures. Implementations must be safe for
// concurrent use; racing miss-then-insert is acceptable (last writer wins)
// because entries are pure functions of their key.
type Cache interface {
	GetOrCreate(ctx context.Context, key Key, generate Generator) ([]byte, error)
}

// MemoryCache is a size-capped in-process LRU cache. The cap replaces the
// unbounded growth of the original texture map with explicit eviction.
type MemoryCache struct {
	entries *lru.Cache[string, []byte]
}

// NewMemoryCache creates a MemoryCache holding at most size entries.
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = 64
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries}, nil
}

// GetOrCreate returns the cached bytes for key, invoking generate on a
// miss and storing the result.
func (c *MemoryCache) GetOrCreate(_ context.Context, key Key, generate Generator) ([]byte, error) {
	if data, ok := c.entries.Get(key.String()); ok {
		return data, nil
	}

	data, err := generate()
	if err != nil {
		return nil, err
	}
	c.entries.Add(key.String(), data)

	return data, nil
}
