package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/ducky/internal/model"
)

// Cache stores knowledge-service response bodies
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a request URL. Spoken questions often differ
// only in letter case, so the q parameter is lower-cased; the rest of the
// URL is kept as is because topic paths are case-sensitive.
func Key(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if params := u.Query(); params.Has("q") {
			params.Set("q", strings.ToLower(params.Get("q")))
			u.RawQuery = params.Encode()
			rawURL = u.String()
		}
	}
	hash := sha256.Sum256([]byte(rawURL))
	return "ducky:v1:" + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg: memory only, or memory backed by
// disk when a directory is configured. It returns nil when caching is off.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.DiskDir == "" {
		return NewMemoryCache(cfg.MemoryTTL, 2*cfg.MemoryTTL)
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.DiskDir, cfg.DiskTTL)
}
