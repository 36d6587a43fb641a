package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// [PipelineHooks], [CacheHooks] and [HTTPHooks].
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Install registers h for all event categories.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnFetchStart(_ context.Context, ids []string) {
	h.logger.Debug("fetch", "ids", strings.Join(ids, ","))
}

func (h *LogHooks) OnFetchComplete(_ context.Context, ids []string, posts int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "ids", strings.Join(ids, ","), "took", d, "err", err)
		return
	}
	h.logger.Debug("fetched", "ids", strings.Join(ids, ","), "posts", posts, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, postID string) {
	h.logger.Debug("layout", "post", postID)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, postID string, d time.Duration) {
	h.logger.Debug("laid out", "post", postID, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, postID, format string) {
	h.logger.Debug("render", "post", postID, "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, postID, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "post", postID, "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "post", postID, "format", format, "bytes", size, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("request failed", "method", method, "host", host, "path", path, "err", err)
}
