package card

import (
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/matzehuels/postcard/pkg/fonts"
	"github.com/matzehuels/postcard/pkg/post"
)

// fixedMeasurer gives every rune half the font size.
type fixedMeasurer struct{}

func (fixedMeasurer) Width(s fonts.Style, size float64, text string) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.5
}
func (fixedMeasurer) Ascent(s fonts.Style, size float64) float64  { return size * 0.8 }
func (fixedMeasurer) Descent(s fonts.Style, size float64) float64 { return size * 0.2 }

func photo(key string, w, h int) post.Media {
	return post.Media{Key: key, Type: post.MediaPhoto, URL: "https://pbs.twimg.com/media/" + key + ".jpg", Width: w, Height: h}
}

func samplePost() post.Post {
	return post.Post{
		ID:   "1590044136545427456",
		Text: "check this out https://example.com/x\nmore text",
		Author: post.Author{
			ID: "44196397", Name: "Jane Doe", Username: "jane", Verified: true,
			ProfileImageURL: "https://pbs.twimg.com/profile_images/1/jane_normal.jpg",
		},
		CreatedAt: time.Date(2022, 11, 8, 18, 30, 0, 0, time.UTC),
		Media: []post.Media{
			photo("a", 1024, 683), photo("b", 800, 800), photo("c", 1280, 720), photo("d", 1200, 800),
		},
		Metrics:    &post.Metrics{ReplyCount: 1200, RetweetCount: 34, LikeCount: 98765},
		Referenced: []post.Reference{},
	}
}

func kinds(c *CardNode) string {
	var out []string
	for _, n := range c.Children {
		out = append(out, n.Kind().String())
	}
	return strings.Join(out, ",")
}

func TestComposeOrder(t *testing.T) {
	root := Compose(samplePost(), Options{})
	if got, want := kinds(root), "header,text,media_grid,timestamp,metrics"; got != want {
		t.Errorf("children = %s, want %s", got, want)
	}

	text := root.Children[1].(*TextNode)
	if text.Text != "check this out more text" {
		t.Errorf("text = %q", text.Text)
	}
}

func TestComposeFourMedia(t *testing.T) {
	root := Compose(samplePost(), Options{})

	g := root.Children[2].(*MediaGridNode)
	if g.Box.Width != PreviewWidth || g.Box.Height != PreviewHeight {
		t.Errorf("preview box = %v, want 620x340", g.Box)
	}
	if len(g.Columns) != 2 || len(g.Columns[0].Tiles) != 2 || len(g.Columns[1].Tiles) != 2 {
		t.Fatalf("columns = %+v, want 2x2", g.Columns)
	}

	m := root.Children[4].(*MetricsNode)
	var labels []string
	for _, it := range m.Items {
		labels = append(labels, it.Name+"="+it.Label)
	}
	if got, want := strings.Join(labels, " "), "reply=1.2K retweet=34 like=99K"; got != want {
		t.Errorf("metrics = %s, want %s", got, want)
	}
	if m.Items[2].Href != "https://twitter.com/intent/like?tweet_id=1590044136545427456" {
		t.Errorf("like href = %s", m.Items[2].Href)
	}

	ts := root.Children[3].(*TimestampNode)
	if ts.Text != "6:30 PM - Nov 8, 2022" {
		t.Errorf("timestamp = %q", ts.Text)
	}
	if ts.Href != "https://twitter.com/jane/status/1590044136545427456" {
		t.Errorf("timestamp href = %s", ts.Href)
	}
}

func TestComposeQuoteNestedOnce(t *testing.T) {
	inner := post.Post{ID: "3", Text: "innermost", Author: post.Author{Username: "c"}}
	quoted := post.Post{
		ID: "2", Text: "quoted", Author: post.Author{Username: "b"},
		Referenced: []post.Reference{{Kind: post.KindQuoted, Post: inner}},
	}
	p := samplePost()
	p.Media = nil
	p.Referenced = []post.Reference{
		{Kind: post.KindRepliedTo, Post: post.Post{ID: "9"}},
		{Kind: post.KindQuoted, Post: quoted},
	}

	root := Compose(p, Options{})
	if got := root.Depth(); got != 2 {
		t.Fatalf("Depth() = %d, want 2", got)
	}
	if got, want := kinds(root), "header,text,card,timestamp,metrics"; got != want {
		t.Errorf("children = %s, want %s", got, want)
	}

	nested := root.Children[2].(*CardNode)
	if !nested.Nested || nested.PostID != "2" {
		t.Errorf("nested card = %+v, want quoted post 2", nested)
	}
	for _, n := range nested.Children {
		if n.Kind() == KindCard {
			t.Error("quoted card should not embed another quote")
		}
	}
}

func TestComposeMissingFields(t *testing.T) {
	p := post.Post{ID: "1", Text: "hi", Author: post.Author{ID: "7"}}
	root := Compose(p, Options{})

	if got, want := kinds(root), "header,text,metrics"; got != want {
		t.Errorf("children = %s, want %s (no media, no timestamp)", got, want)
	}
	m := root.Children[2].(*MetricsNode)
	for _, it := range m.Items {
		if it.Label != "0" {
			t.Errorf("%s = %q, want 0 for missing metrics", it.Name, it.Label)
		}
	}
}

func TestComposeScale(t *testing.T) {
	root := Compose(samplePost(), Options{Scale: 2})
	g := root.Children[2].(*MediaGridNode)
	if g.Box.Width != 1240 || g.Box.Height != 680 {
		t.Errorf("scaled preview box = %v, want 1240x680", g.Box)
	}
	if root.Scale != 2 {
		t.Errorf("Scale = %v, want 2", root.Scale)
	}
}

func TestLayout(t *testing.T) {
	root := Compose(samplePost(), Options{})
	box := Layout(root, DefaultWidth, fixedMeasurer{})

	if box.Kind != KindCard || box.W != DefaultWidth {
		t.Errorf("root = %s %vpx, want card %vpx", box.Kind, box.W, DefaultWidth)
	}
	if len(box.Children) != 5 {
		t.Fatalf("children = %d, want 5", len(box.Children))
	}

	prevBottom := 0.0
	for _, c := range box.Children {
		if c.Y < prevBottom {
			t.Errorf("%s starts at %v, above previous bottom %v", c.Kind, c.Y, prevBottom)
		}
		if c.X < box.X || c.X+c.W > box.X+box.W {
			t.Errorf("%s [%v, %v] escapes card width", c.Kind, c.X, c.X+c.W)
		}
		prevBottom = c.Y + c.H
	}
	if prevBottom > box.Y+box.H {
		t.Errorf("content bottom %v below card bottom %v", prevBottom, box.Y+box.H)
	}

	grid := box.Children[2]
	var images int
	for _, it := range grid.Items {
		if it.Kind != ItemImage {
			continue
		}
		images++
		c := it.Clip
		if c == nil {
			t.Fatal("media item without clip")
		}
		if c.X < grid.X || c.Y < grid.Y || c.X+c.W > grid.X+grid.W+1e-9 || c.Y+c.H > grid.Y+grid.H+1e-9 {
			t.Errorf("cell %+v outside grid %v,%v %vx%v", *c, grid.X, grid.Y, grid.W, grid.H)
		}
	}
	if images != 4 {
		t.Errorf("grid images = %d, want 4", images)
	}

	want := []string{
		"https://pbs.twimg.com/profile_images/1/jane_normal.jpg",
		"https://pbs.twimg.com/media/a.jpg",
	}
	urls := box.ImageURLs()
	if len(urls) != 5 || urls[0] != want[0] || urls[1] != want[1] {
		t.Errorf("ImageURLs() = %v", urls)
	}
}

func TestLayoutScale(t *testing.T) {
	one := Layout(Compose(samplePost(), Options{Scale: 1}), DefaultWidth, fixedMeasurer{})
	two := Layout(Compose(samplePost(), Options{Scale: 2}), DefaultWidth*2, fixedMeasurer{})

	if math.Abs(two.H-2*one.H) > 1e-6 {
		t.Errorf("height at scale 2 = %v, want %v", two.H, 2*one.H)
	}
}

func TestLayoutNestedCard(t *testing.T) {
	p := samplePost()
	p.Media = nil
	p.Referenced = []post.Reference{{Kind: post.KindQuoted, Post: post.Post{
		ID: "2", Text: "quoted", Author: post.Author{Username: "b"},
		Media: []post.Media{photo("q", 100, 100)},
	}}}

	box := Layout(Compose(p, Options{}), DefaultWidth, fixedMeasurer{})
	nested := box.Children[2]
	if nested.Kind != KindCard {
		t.Fatalf("child 2 = %s, want card", nested.Kind)
	}
	content := DefaultWidth - 2*(borderWidth+paddingX)
	if nested.W != content {
		t.Errorf("nested width = %v, want %v", nested.W, content)
	}
	g := nested.Children[2]
	if g.Kind != KindMediaGrid || g.X+g.W > nested.X+nested.W {
		t.Errorf("nested grid %s [%v, %v] overflows nested card", g.Kind, g.X, g.X+g.W)
	}
}

func TestLayoutHeaderTruncatesName(t *testing.T) {
	p := samplePost()
	p.Author.Name = strings.Repeat("W", 200)
	box := Layout(Compose(p, Options{}), DefaultWidth, fixedMeasurer{})

	header := box.Children[0]
	for _, it := range header.Items {
		if it.Kind == ItemText && it.Bold {
			if !strings.HasSuffix(it.Text, ellipsis) {
				t.Errorf("long name not truncated: %q", it.Text)
			}
			if it.Title != p.Author.Name {
				t.Error("truncated name should keep the full name as title")
			}
		}
		if it.X+it.W > header.X+header.W+1e-9 {
			t.Errorf("header item %q overflows", it.Text)
		}
	}
}

func TestWrapText(t *testing.T) {
	measure := func(s string) float64 { return float64(utf8.RuneCountInString(s)) }

	tests := []struct {
		name string
		text string
		maxW float64
		want []string
	}{
		{"fits", "hello world", 20, []string{"hello world"}},
		{"wraps", "hello world again", 11, []string{"hello world", "again"}},
		{"newline", "a\n\nb", 10, []string{"a", "", "b"}},
		{"long word", "abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"empty", "   ", 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.maxW, measure)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("wrapText(%q, %v) = %q, want %q", tt.text, tt.maxW, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	measure := func(s string) float64 { return float64(utf8.RuneCountInString(s)) }

	if got := truncate("short", 10, measure); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	if got := truncate("a long name", 5, measure); got != "a lo…" {
		t.Errorf("truncate() = %q, want %q", got, "a lo…")
	}
}
