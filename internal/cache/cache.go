// Package cache keeps market responses in memory and on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque payloads with a TTL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key namespaces for market payloads
const (
	KindItems      = "items"
	KindAttributes = "attributes"
	KindSearch     = "search"
)

// Key builds a cache key for a payload kind and request identity, such as
// the encoded query string of an auction search
func Key(kind, identity string) string {
	hash := sha256.Sum256([]byte(identity))
	return "rivenscan:v1:" + kind + ":" + hex.EncodeToString(hash[:8])
}

// GetJSON decodes a cached payload into v
func GetJSON(c Cache, key string, v interface{}) bool {
	if c == nil {
		return false
	}
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON encodes v and stores it
func SetJSON(c Cache, key string, v interface{}, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(key, data, ttl)
}
