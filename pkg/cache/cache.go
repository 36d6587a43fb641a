// Package cache provides the byte caches used for API responses, media
// downloads and rendered cards.
//
// All backends implement [Cache]. The CLI uses [FileCache] under the XDG
// cache directory; the server can share a [RedisCache] or [MongoCache]
// between instances. [NullCache] disables caching, which is the default:
// every request then fetches and renders from scratch.
//
// Keys are built by a [Keyer] so that every backend sees the same layout:
//
//	k := cache.NewDefaultKeyer()
//	k.PostKey("1590044136545427456")           // post:1590044136545427456
//	k.CardKey("1590044136545427456", opts)     // card:<sha256 of id+opts>
package cache

import (
	"context"
	"time"
)

// TTLs applied by the pipeline when storing entries.
const (
	TTLPost  = 10 * time.Minute // metrics go stale quickly
	TTLMedia = 24 * time.Hour
	TTLCard  = 10 * time.Minute
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// PostKey is the key of a fetched, denormalized post.
	PostKey(id string) string
	// MediaKey is the key of downloaded media bytes.
	MediaKey(url string) string
	// CardKey is the key of a rendered card artifact.
	CardKey(id string, opts CardKeyOpts) string
}

// CardKeyOpts are the render options that change the bytes of a card.
type CardKeyOpts struct {
	Format   string  `json:"format"`
	Width    float64 `json:"width"`
	Scale    float64 `json:"scale"`
	Timezone string  `json:"timezone"`
	Margin   float64 `json:"margin"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PostKey(id string) string   { return "post:" + id }
func (DefaultKeyer) MediaKey(url string) string { return hashKey("media", url) }
func (DefaultKeyer) CardKey(id string, opts CardKeyOpts) string {
	return hashKey("card", id, opts)
}
