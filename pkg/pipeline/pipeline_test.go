package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/postcard/pkg/cache"
	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/post"
	"github.com/matzehuels/postcard/pkg/render/card"
)

type fakeFetcher struct {
	posts []post.Post
	calls atomic.Int32
}

func (f *fakeFetcher) Lookup(ctx context.Context, ids []string) ([]post.Post, error) {
	f.calls.Add(1)
	var out []post.Post
	for _, id := range ids {
		for _, p := range f.posts {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

type fakeMedia struct {
	urls []string
}

func (m *fakeMedia) LoadAll(ctx context.Context, urls []string) ([]image.Image, error) {
	m.urls = append(m.urls, urls...)
	out := make([]image.Image, len(urls))
	for i := range urls {
		out[i] = image.NewRGBA(image.Rect(0, 0, 4, 4))
	}
	return out, nil
}

func samplePost() post.Post {
	return post.Post{
		ID:   "1590044136545427456",
		Text: "hello world",
		Author: post.Author{
			ID: "44196397", Name: "Jane Doe", Username: "jane",
			ProfileImageURL: "https://pbs.twimg.com/profile_images/1/jane_normal.jpg",
		},
		CreatedAt: time.Date(2022, 11, 8, 18, 30, 0, 0, time.UTC),
		Media: []post.Media{
			{Key: "a", Type: post.MediaPhoto, URL: "https://pbs.twimg.com/media/a.jpg", Width: 1024, Height: 683},
		},
		Metrics:    &post.Metrics{ReplyCount: 3, LikeCount: 1200},
		Referenced: []post.Reference{},
	}
}

func newTestRunner(t *testing.T) (*Runner, *fakeFetcher, *fakeMedia) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeFetcher{posts: []post.Post{samplePost()}}
	m := &fakeMedia{}
	r := NewRunner(f, m, c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r, f, m
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"json", false},
		{"pdf", true},
		{"PNG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		FormatPNG:  "image/png",
		FormatSVG:  "image/svg+xml",
		FormatJSON: "application/json",
		"bin":      "application/octet-stream",
	}
	for format, want := range tests {
		if got := ContentType(format); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{PostID: "20"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Format != FormatPNG || opts.Width != card.DefaultWidth || opts.Scale != 1 || opts.Timezone != "UTC" {
		t.Errorf("defaults = %+v", opts)
	}
	if opts.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", opts.Location())
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code perrors.Code
	}{
		{"missing id", Options{}, perrors.ErrCodeInvalidInput},
		{"non-numeric id", Options{PostID: "abc"}, perrors.ErrCodeInvalidInput},
		{"bad format", Options{PostID: "20", Format: "gif"}, perrors.ErrCodeInvalidFormat},
		{"negative scale", Options{PostID: "20", Scale: -1}, perrors.ErrCodeInvalidInput},
		{"huge scale", Options{PostID: "20", Scale: 10}, perrors.ErrCodeInvalidInput},
		{"huge width", Options{PostID: "20", Width: 10000}, perrors.ErrCodeInvalidInput},
		{"negative margin", Options{PostID: "20", Margin: -1}, perrors.ErrCodeInvalidInput},
		{"NaN scale", Options{PostID: "20", Scale: math.NaN()}, perrors.ErrCodeInvalidInput},
		{"infinite scale", Options{PostID: "20", Scale: math.Inf(1)}, perrors.ErrCodeInvalidInput},
		{"NaN width", Options{PostID: "20", Width: math.NaN()}, perrors.ErrCodeInvalidInput},
		{"infinite margin", Options{PostID: "20", Margin: math.Inf(1)}, perrors.ErrCodeInvalidInput},
		{"unknown timezone", Options{PostID: "20", Timezone: "Mars/Olympus"}, perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("ValidateAndSetDefaults() succeeded, want error")
			}
			if got := perrors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v", got, tt.code)
			}
		})
	}
}

func TestExecuteSVG(t *testing.T) {
	r, f, _ := newTestRunner(t)
	p := samplePost()

	res, err := r.Execute(context.Background(), Options{PostID: p.ID, Format: FormatSVG})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.ContentType != "image/svg+xml" {
		t.Errorf("ContentType = %q", res.ContentType)
	}
	if !strings.HasPrefix(string(res.Artifact), "<svg") || !strings.Contains(string(res.Artifact), "hello world") {
		t.Errorf("artifact is not the card svg: %.80s", res.Artifact)
	}
	if res.Post.ID != p.ID {
		t.Errorf("Post.ID = %q, want %q", res.Post.ID, p.ID)
	}
	if res.CacheInfo.PostHit || res.CacheInfo.CardHit {
		t.Errorf("first run should miss the cache: %+v", res.CacheInfo)
	}
	if f.calls.Load() != 1 {
		t.Errorf("lookups = %d, want 1", f.calls.Load())
	}
}

func TestExecuteCachesCard(t *testing.T) {
	r, f, _ := newTestRunner(t)
	opts := Options{PostID: samplePost().ID, Format: FormatSVG}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.CardHit {
		t.Error("second run should hit the card cache")
	}
	if !bytes.Equal(first.Artifact, second.Artifact) {
		t.Error("cached card differs from rendered card")
	}
	if f.calls.Load() != 1 {
		t.Errorf("lookups = %d, want 1", f.calls.Load())
	}

	opts.Refresh = true
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("Execute(refresh) error: %v", err)
	}
	if f.calls.Load() != 2 {
		t.Errorf("lookups after refresh = %d, want 2", f.calls.Load())
	}
}

func TestExecuteReusesCachedPost(t *testing.T) {
	r, f, _ := newTestRunner(t)
	p := samplePost()

	if _, err := r.Execute(context.Background(), Options{PostID: p.ID, Format: FormatSVG}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	res, err := r.Execute(context.Background(), Options{PostID: p.ID, Format: FormatJSON})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !res.CacheInfo.PostHit || res.CacheInfo.CardHit {
		t.Errorf("CacheInfo = %+v, want post hit and card miss", res.CacheInfo)
	}
	if f.calls.Load() != 1 {
		t.Errorf("lookups = %d, want 1", f.calls.Load())
	}

	got := res.Post
	if got.Author.Name != p.Author.Name || !got.CreatedAt.Equal(p.CreatedAt) || len(got.Media) != 1 {
		t.Errorf("cached post = %+v", got)
	}
	if got.Metrics == nil || got.Metrics.LikeCount != 1200 {
		t.Errorf("cached metrics = %+v", got.Metrics)
	}
}

func TestExecuteRejectsNaNScale(t *testing.T) {
	r, f, _ := newTestRunner(t)

	_, err := r.Execute(context.Background(), Options{PostID: samplePost().ID, Scale: math.NaN(), Format: FormatPNG})
	if perrors.GetCode(err) != perrors.ErrCodeInvalidInput {
		t.Fatalf("Execute() error = %v, want INVALID_INPUT", err)
	}
	if f.calls.Load() != 0 {
		t.Error("invalid options must not reach the fetcher")
	}
}

func TestExecuteNotFound(t *testing.T) {
	r, _, _ := newTestRunner(t)
	_, err := r.Execute(context.Background(), Options{PostID: "99"})
	if !perrors.Is(err, perrors.ErrCodeNotFound) {
		t.Errorf("Execute() error = %v, want NOT_FOUND", err)
	}
}

func TestExecutePNG(t *testing.T) {
	r, _, m := newTestRunner(t)
	p := samplePost()

	res, err := r.Execute(context.Background(), Options{PostID: p.ID, Scale: 2, Margin: 8})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(res.Artifact))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if w, want := img.Bounds().Dx(), int(2*card.DefaultWidth); w != want {
		t.Errorf("width = %d, want %d", w, want)
	}
	if res.Stats.Images != 2 || len(m.urls) != 2 {
		t.Errorf("images = %d, loaded %v; want avatar and photo", res.Stats.Images, m.urls)
	}
	if m.urls[0] != p.Author.ProfileImageURL {
		t.Errorf("first image = %q, want avatar", m.urls[0])
	}
}

func TestLayoutWithoutValidation(t *testing.T) {
	r, _, _ := newTestRunner(t)
	box := r.Layout(context.Background(), samplePost(), Options{})
	if box.W != card.DefaultWidth {
		t.Errorf("width = %v, want %v", box.W, card.DefaultWidth)
	}
}
