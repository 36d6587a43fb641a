package config

import (
	"time"

	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/pipeline"
)

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return invalid("server.addr must not be empty")
	}

	if err := perrors.ValidateURL(c.Twitter.BaseURL); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "twitter.base_url")
	}
	if c.Twitter.Timeout <= 0 {
		return invalid("twitter.timeout must be positive")
	}
	if c.Twitter.Attempts < 1 {
		return invalid("twitter.attempts must be at least 1")
	}

	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return invalid("cache.redis_url is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" || c.Cache.MongoDatabase == "" {
			return invalid("cache.mongo_uri and cache.mongo_database are required for the mongo backend")
		}
	default:
		return invalid("cache.backend must be one of none, file, redis, mongo; got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return invalid("cache.ttl must not be negative")
	}

	if !(c.Render.Width > 0 && c.Render.Width <= pipeline.MaxWidth) {
		return invalid("render.width must be in (0, %v]", pipeline.MaxWidth)
	}
	if !(c.Render.Scale > 0 && c.Render.Scale <= pipeline.MaxScale) {
		return invalid("render.scale must be in (0, %v]", pipeline.MaxScale)
	}
	if _, err := time.LoadLocation(c.Render.Timezone); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "render.timezone")
	}
	if err := pipeline.ValidateFormat(c.Render.Format); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "render.format")
	}

	if c.Publish.Bucket != "" {
		if c.Publish.Region == "" {
			return invalid("publish.region is required when publish.bucket is set")
		}
		if c.Publish.Endpoint != "" {
			if err := perrors.ValidateURL(c.Publish.Endpoint); err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "publish.endpoint")
			}
		}
		if (c.Publish.AccessKey == "") != (c.Publish.SecretKey == "") {
			return invalid("publish.access_key and publish.secret_key must be set together")
		}
	}
	return nil
}

// RequireBearerToken fails when no API credential is configured.
func (c *Config) RequireBearerToken() error {
	if c.Twitter.BearerToken == "" {
		return invalid("no bearer token: set TWITTER_BEARER_TOKEN or twitter.bearer_token")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return perrors.New(perrors.ErrCodeInvalidConfig, format, args...)
}
