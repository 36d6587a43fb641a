package config

import (
	"strconv"
	"time"

	perrors "github.com/matzehuels/postcard/pkg/errors"
)

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides c with environment variables read through lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	e := envReader{lookup: lookup}

	if port, ok := lookup("PORT"); ok && port != "" {
		c.Server.Addr = ":" + port
	}
	e.str("POSTCARD_ADDR", &c.Server.Addr)

	e.str("TWITTER_BEARER_TOKEN", &c.Twitter.BearerToken)
	e.str("POSTCARD_TWITTER_BEARER_TOKEN", &c.Twitter.BearerToken)
	e.str("POSTCARD_TWITTER_BASE_URL", &c.Twitter.BaseURL)
	e.duration("POSTCARD_TWITTER_TIMEOUT", &c.Twitter.Timeout)
	e.int("POSTCARD_TWITTER_ATTEMPTS", &c.Twitter.Attempts)
	e.bool("POSTCARD_TWITTER_REVERSE_ORDER", &c.Twitter.ReverseOrder)

	e.str("POSTCARD_CACHE_BACKEND", &c.Cache.Backend)
	e.str("POSTCARD_CACHE_DIR", &c.Cache.Dir)
	e.duration("POSTCARD_CACHE_TTL", &c.Cache.TTL)
	e.str("POSTCARD_CACHE_PREFIX", &c.Cache.Prefix)
	e.str("POSTCARD_REDIS_URL", &c.Cache.RedisURL)
	e.str("POSTCARD_MONGO_URI", &c.Cache.MongoURI)
	e.str("POSTCARD_MONGO_DATABASE", &c.Cache.MongoDatabase)

	e.float("POSTCARD_RENDER_WIDTH", &c.Render.Width)
	e.float("POSTCARD_RENDER_SCALE", &c.Render.Scale)
	e.str("POSTCARD_RENDER_TIMEZONE", &c.Render.Timezone)
	e.str("POSTCARD_RENDER_FORMAT", &c.Render.Format)

	e.str("POSTCARD_PUBLISH_BUCKET", &c.Publish.Bucket)
	e.str("POSTCARD_PUBLISH_ENDPOINT", &c.Publish.Endpoint)
	e.str("POSTCARD_PUBLISH_REGION", &c.Publish.Region)
	e.str("POSTCARD_PUBLISH_ACCESS_KEY", &c.Publish.AccessKey)
	e.str("POSTCARD_PUBLISH_SECRET_KEY", &c.Publish.SecretKey)
	e.str("POSTCARD_PUBLISH_PREFIX", &c.Publish.Prefix)

	return e.err
}

// envReader parses variables into fields and keeps the first error.
type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := e.lookup(key)
	return v, ok && v != ""
}

func (e *envReader) fail(key string, err error) {
	e.err = perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "invalid %s", key)
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) int(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) float(key string, dst *float64) {
	if v, ok := e.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) bool(key string, dst *bool) {
	if v, ok := e.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) duration(key string, dst *time.Duration) {
	if v, ok := e.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(key, err)
			return
		}
		*dst = d
	}
}
