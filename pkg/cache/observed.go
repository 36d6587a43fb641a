package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/postcard/pkg/observability"
)

// ObservedCache reports hits, misses and writes of an inner cache to the
// registered [observability.CacheHooks].
type ObservedCache struct {
	Cache
}

// Observe wraps c so its traffic reaches the cache hooks.
func Observe(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	if _, ok := c.(ObservedCache); ok {
		return c
	}
	return ObservedCache{c}
}

func (o ObservedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	if ok {
		observability.Cache().OnCacheHit(ctx, KeyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, KeyType(key))
	}
	return data, ok, err
}

func (o ObservedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

// KeyType returns the entry kind of a key built by a [Keyer]: "post",
// "media", "card", or "other". Scope prefixes are skipped.
func KeyType(key string) string {
	for part := range strings.SplitSeq(key, ":") {
		switch part {
		case "post", "media", "card":
			return part
		}
	}
	return "other"
}
