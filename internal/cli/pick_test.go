package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/postcard/pkg/pipeline"
	"github.com/matzehuels/postcard/pkg/post"
)

func samplePosts() []post.Post {
	quoted := post.Post{ID: "1500", Text: "the quoted post", Author: post.Author{Name: "Twitter", Username: "Twitter"}}
	return []post.Post{
		{
			ID:         "20",
			Text:       "just setting up my twttr",
			Author:     post.Author{Name: "jack", Username: "jack"},
			CreatedAt:  time.Date(2006, 3, 21, 20, 50, 14, 0, time.UTC),
			Metrics:    &post.Metrics{LikeCount: 250000},
			Referenced: []post.Reference{{Kind: post.KindQuoted, Post: quoted}},
		},
		{ID: "21", Text: "second", Author: post.Author{Name: "biz", Username: "biz"}},
		quoted,
	}
}

func TestWithReferences(t *testing.T) {
	got := withReferences(samplePosts())
	var ids []string
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	if strings.Join(ids, ",") != "20,21,1500" {
		t.Errorf("ids = %v, want [20 21 1500]", ids)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPostListNavigation(t *testing.T) {
	var m tea.Model = NewPostListModel(samplePosts())

	for _, k := range []string{"down", "down", "down", "up"} {
		m, _ = m.Update(key(k))
	}
	if c := m.(PostListModel).Cursor; c != 1 {
		t.Errorf("cursor = %d, want 1", c)
	}

	m, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Error("enter should quit")
	}
	if sel := m.(PostListModel).Selected; sel == nil || sel.ID != "21" {
		t.Errorf("selected = %+v, want 21", sel)
	}
}

func TestPostListQuit(t *testing.T) {
	m, cmd := NewPostListModel(samplePosts()).Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
	if m.(PostListModel).Selected != nil {
		t.Error("q must not select")
	}
}

func TestPostListScroll(t *testing.T) {
	var m tea.Model = NewPostListModel(samplePosts())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	if h := m.(PostListModel).Height; h != 3 {
		t.Fatalf("height = %d, want 3", h)
	}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if h := m.(PostListModel).Height; h != 3 {
		t.Fatalf("height = %d, want 3", h)
	}

	m = PostListModel{Posts: samplePosts(), Height: 1}
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if l := m.(PostListModel); l.Offset != 2 || l.Cursor != 2 {
		t.Errorf("offset, cursor = %d, %d, want 2, 2", l.Offset, l.Cursor)
	}
	m, _ = m.Update(key("k"))
	if l := m.(PostListModel); l.Offset != 1 {
		t.Errorf("offset = %d, want 1", l.Offset)
	}
}

func TestPostListView(t *testing.T) {
	view := NewPostListModel(samplePosts()).View()
	for _, want := range []string{"Select Post", "jack", "@biz", "just setting up my twttr", "Mar 21, 2006", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPostTable(t *testing.T) {
	out := postTable(samplePosts())
	for _, want := range []string{"ID", "Author", "@jack", "250K", "Mar 21, 2006", "-"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}

func TestOneLine(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"two\nlines  here", 20, "two lines here"},
		{"abcdefghij", 5, "abcd…"},
		{"link https://t.co/x", 20, "link"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := oneLine(tt.in, tt.n); got != tt.want {
			t.Errorf("oneLine(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int]string{512: "512 B", 2048: "2.0 KB", 3 << 20: "3.0 MB"}
	for n, want := range tests {
		if got := formatBytes(n); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestRenderOptsApply(t *testing.T) {
	base := pipeline.Options{PostID: "20", Format: "png", Width: 672, Scale: 1, Timezone: "UTC"}

	got := renderOpts{}.apply(base)
	if got.Format != "png" || got.Scale != 1 || got.Width != 672 || got.Timezone != "UTC" {
		t.Errorf("unset flags changed options: %+v", got)
	}

	got = renderOpts{format: "svg", scale: 2, width: 500, timezone: "Asia/Tokyo", margin: 8, refresh: true}.apply(base)
	if got.Format != "svg" || got.Scale != 2 || got.Width != 500 || got.Timezone != "Asia/Tokyo" || got.Margin != 8 || !got.Refresh {
		t.Errorf("flags not applied: %+v", got)
	}
	if got.PostID != "20" {
		t.Errorf("post id = %q", got.PostID)
	}
}
