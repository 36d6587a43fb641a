// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; binaries decide what
// to do with them. The defaults are no-ops, so instrumentation costs nothing
// unless a hook is installed.
//
// Register hooks at startup:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//
// Emit events from library code:
//
//	observability.Pipeline().OnFetchStart(ctx, ids)
//	posts, err := client.Lookup(ctx, ids)
//	observability.Pipeline().OnFetchComplete(ctx, ids, len(posts), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the card pipeline.
type PipelineHooks interface {
	OnFetchStart(ctx context.Context, ids []string)
	OnFetchComplete(ctx context.Context, ids []string, posts int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, postID string)
	OnLayoutComplete(ctx context.Context, postID string, duration time.Duration)

	OnRenderStart(ctx context.Context, postID, format string)
	OnRenderComplete(ctx context.Context, postID, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "post",
// "media" or "card".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from outgoing HTTP requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records transport failures such as timeouts.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopPipelineHooks ignores all pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFetchStart(context.Context, []string) {}
func (NoopPipelineHooks) OnFetchComplete(context.Context, []string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string)                   {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, string)           {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores all HTTP events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
