package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/postcard/pkg/cache"
	"github.com/matzehuels/postcard/pkg/config"
	"github.com/matzehuels/postcard/pkg/observability"
	"github.com/matzehuels/postcard/pkg/post"
)

const lookupBody = `{
  "data": [{
    "id": "20",
    "text": "just setting up my twttr",
    "author_id": "12",
    "created_at": "2006-03-21T20:50:14.000Z",
    "public_metrics": {"retweet_count": 120000, "reply_count": 17000, "like_count": 250000, "quote_count": 0}
  }],
  "includes": {
    "users": [{"id": "12", "name": "jack", "username": "jack", "verified": true}]
  }
}`

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// setupEnv points the CLI at a fake lookup API and a temp file cache and
// returns the request counter.
func setupEnv(t *testing.T) *atomic.Int32 {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, lookupBody)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("POSTCARD_CONFIG", "")
	t.Setenv("TWITTER_BEARER_TOKEN", "test-token")
	t.Setenv("POSTCARD_TWITTER_BASE_URL", srv.URL)
	t.Setenv("POSTCARD_CACHE_BACKEND", "file")
	t.Setenv("POSTCARD_CACHE_DIR", filepath.Join(dir, "cache"))
	return &calls
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"serve", "render", "fetch", "pick", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestRenderCommand(t *testing.T) {
	calls := setupEnv(t)
	captureStdout(t)

	out := filepath.Join(t.TempDir(), "card.svg")
	if err := execute(t, "render", "20", "-f", "svg", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(data)
	for _, want := range []string{"<svg", "just setting up my twttr", "@jack", "250K"} {
		if !strings.Contains(svg, want) {
			t.Errorf("card missing %q", want)
		}
	}

	// Second render is served from the card cache.
	if err := execute(t, "render", "20", "-f", "svg", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("API calls = %d, want 1", got)
	}
}

func TestRenderCommandDefaultPath(t *testing.T) {
	setupEnv(t)
	captureStdout(t)

	if err := execute(t, "render", "20", "-f", "json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile("20.json")
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
}

func TestRenderCommandStdout(t *testing.T) {
	setupEnv(t)
	out := captureStdout(t)

	if err := execute(t, "render", "20", "-f", "svg", "-o", "-", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out.String(), "<svg") {
		t.Errorf("stdout = %.40q", out.String())
	}
}

func TestRenderCommandErrors(t *testing.T) {
	setupEnv(t)
	captureStdout(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad id", []string{"render", "abc"}},
		{"bad format", []string{"render", "20", "-f", "gif"}},
		{"bad scale", []string{"render", "20", "--scale", "9"}},
		{"no args", []string{"render"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRenderCommandNoToken(t *testing.T) {
	setupEnv(t)
	t.Setenv("TWITTER_BEARER_TOKEN", "")
	captureStdout(t)

	err := execute(t, "render", "20")
	if err == nil || !strings.Contains(err.Error(), "bearer token") {
		t.Errorf("err = %v, want missing bearer token", err)
	}
}

func TestFetchCommand(t *testing.T) {
	setupEnv(t)
	out := captureStdout(t)

	if err := execute(t, "fetch", "20", "--json"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	var posts []post.Post
	if err := json.Unmarshal(out.Bytes(), &posts); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(posts) != 1 || posts[0].Author.Username != "jack" {
		t.Errorf("posts = %+v", posts)
	}

	out.Reset()
	if err := execute(t, "fetch", "20"); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(out.String(), "@jack") || !strings.Contains(out.String(), "250K") {
		t.Errorf("table = %s", out.String())
	}
}

func TestCacheCommands(t *testing.T) {
	setupEnv(t)
	out := captureStdout(t)

	if err := execute(t, "render", "20", "-f", "svg", "-o", filepath.Join(t.TempDir(), "x.svg")); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := execute(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out.String()), "cache") {
		t.Errorf("cache path = %q", out.String())
	}

	out.Reset()
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cleared 2 cached entries") {
		t.Errorf("clear output = %q", out.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "postcard") {
		t.Error("bash completion does not mention postcard")
	}
}

func TestNewCache(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	cfg := config.Default()
	store, err := c.newCache(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("backend none = %T, want *cache.NullCache", store)
	}

	cfg.Cache.Backend = config.BackendFile
	cfg.Cache.Dir = t.TempDir()
	store, err = c.newCache(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := store.(*cache.FileCache); !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("backend file = %T", store)
	}

	store, err = c.newCache(ctx, cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("no-cache = %T, want *cache.NullCache", store)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")
	dir, _ = cacheDir()
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestSetLogLevelDebug(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	t.Cleanup(observability.Reset)
	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v", c.Logger.GetLevel())
	}

	observability.Pipeline().OnFetchStart(context.Background(), []string{"20"})
	if !strings.Contains(buf.String(), "20") {
		t.Errorf("debug hooks not installed: %q", buf.String())
	}
}
