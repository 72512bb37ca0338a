package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ppiankov/bookrel/internal/model"
)

// Cache defines the interface for caching.
// A zero ttl means the cache's own default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a source URL
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "bookrel-source-v1-" + hex.EncodeToString(hash[:])
}

// Source is a fetched book as stored in the cache: decoded text plus the
// response metadata. Derived graph data is never cached.
type Source struct {
	URL       string          `json:"url"`
	Text      string          `json:"text"`
	Meta      model.FetchMeta `json:"meta"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// LoadSource returns the cached source for url, if any
func LoadSource(c Cache, url string) (*Source, bool) {
	data, ok := c.Get(CacheKey(url))
	if !ok {
		return nil, false
	}
	var src Source
	if err := json.Unmarshal(data, &src); err != nil || src.URL != url {
		return nil, false
	}
	return &src, true
}

// StoreSource caches a fetched source under its URL
func StoreSource(c Cache, src *Source, ttl time.Duration) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return c.Set(CacheKey(src.URL), data, ttl)
}
