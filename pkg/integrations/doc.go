// Package integrations provides the shared HTTP client for upstream APIs.
//
// # Overview
//
// Each upstream API has its own subpackage built on [Client]:
//
//   - [twitter]: X/Twitter v2 post lookup
//
// # Client Pattern
//
// API clients follow a consistent pattern:
//
//	client := twitter.NewClient(cfg, c)                  // config and cache.Cache
//	posts, err := client.Lookup(ctx, []string{"20"})     // denormalized posts
//
// [Client] handles:
//   - Default headers such as the bearer credential
//   - Optional retries of transient failures (off unless configured)
//   - Response caching through [cache.Cache]
//   - Mapping HTTP status codes to [errors.Code] values
//
// Media downloads go through [Client.GetBytes] so they share the timeout and
// the cache with API calls.
//
// [twitter]: github.com/matzehuels/postcard/pkg/integrations/twitter
// [cache.Cache]: github.com/matzehuels/postcard/pkg/cache.Cache
// [errors.Code]: github.com/matzehuels/postcard/pkg/errors.Code
package integrations
