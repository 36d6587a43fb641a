// Package config loads postcard settings.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, from --config or $POSTCARD_CONFIG
//  3. a .env file in the working directory
//  4. environment variables (POSTCARD_*, TWITTER_BEARER_TOKEN, PORT)
//  5. command-line flags, applied by the caller
//
// Example file:
//
//	[server]
//	addr = ":8080"
//
//	[twitter]
//	bearer_token = "AAAA..."
//	timeout = "10s"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "5m"
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/integrations"
	"github.com/matzehuels/postcard/pkg/integrations/twitter"
	"github.com/matzehuels/postcard/pkg/pipeline"
	"github.com/matzehuels/postcard/pkg/render/card"
)

// EnvFile is the dotenv file read by [Load].
const EnvFile = ".env"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the complete postcard configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Twitter TwitterConfig `toml:"twitter"`
	Cache   CacheConfig   `toml:"cache"`
	Render  RenderConfig  `toml:"render"`
	Publish PublishConfig `toml:"publish"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// TwitterConfig configures the post lookup client.
type TwitterConfig struct {
	BearerToken  string        `toml:"bearer_token"`
	BaseURL      string        `toml:"base_url"`
	Timeout      time.Duration `toml:"timeout"`
	Attempts     int           `toml:"attempts"`
	ReverseOrder bool          `toml:"reverse_order"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	// Dir is the file backend directory; empty means the user cache dir.
	Dir string `toml:"dir"`
	// TTL overrides the post and card expiry when positive.
	TTL           time.Duration `toml:"ttl"`
	Prefix        string        `toml:"prefix"`
	RedisURL      string        `toml:"redis_url"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
}

// RenderConfig holds render defaults for requests that omit them.
type RenderConfig struct {
	Width    float64 `toml:"width"`
	Scale    float64 `toml:"scale"`
	Timezone string  `toml:"timezone"`
	Format   string  `toml:"format"`
}

// PublishConfig configures uploads of rendered cards. Publishing is off
// while Bucket is empty.
type PublishConfig struct {
	Bucket    string `toml:"bucket"`
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Prefix    string `toml:"prefix"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		Twitter: TwitterConfig{
			BaseURL:  twitter.DefaultBaseURL,
			Timeout:  integrations.DefaultTimeout,
			Attempts: 1,
		},
		Cache: CacheConfig{
			Backend:       BackendNone,
			MongoDatabase: "postcard",
		},
		Render: RenderConfig{
			Width:    card.DefaultWidth,
			Scale:    pipeline.DefaultScale,
			Timezone: pipeline.DefaultTimezone,
			Format:   pipeline.DefaultFormat,
		},
		Publish: PublishConfig{
			Region: "us-east-1",
			Prefix: "cards/",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path
// (falling back to $POSTCARD_CONFIG), .env and the environment, then
// validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("POSTCARD_CONFIG")
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := LoadDotEnv(EnvFile); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges the TOML file at path into c. Unknown keys are rejected.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return nil
}

// LoadDotEnv exports the variables of the given dotenv files without
// overriding variables that are already set. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read %s", f)
		}
	}
	return nil
}

// TwitterOptions returns the lookup client options.
func (c *Config) TwitterOptions() twitter.Options {
	return twitter.Options{
		BearerToken:  c.Twitter.BearerToken,
		BaseURL:      c.Twitter.BaseURL,
		Timeout:      c.Twitter.Timeout,
		Attempts:     c.Twitter.Attempts,
		ReverseOrder: c.Twitter.ReverseOrder,
	}
}

// PipelineOptions returns options for rendering id with the configured
// render defaults.
func (c *Config) PipelineOptions(id string) pipeline.Options {
	return pipeline.Options{
		PostID:   id,
		Format:   c.Render.Format,
		Width:    c.Render.Width,
		Scale:    c.Render.Scale,
		Timezone: c.Render.Timezone,
	}
}
