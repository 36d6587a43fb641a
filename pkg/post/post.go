// Package post defines the denormalized post model rendered into cards.
//
// Values in this package are built once per request from an API response
// and are treated as immutable afterwards: functions that derive new data
// (layouts, card trees) return new values instead of mutating posts.
package post

import "time"

// Reference kinds reported by the lookup API.
const (
	KindQuoted    = "quoted"
	KindRepliedTo = "replied_to"
	KindRetweeted = "retweeted"
)

// Media kinds reported by the lookup API.
const (
	MediaPhoto       = "photo"
	MediaVideo       = "video"
	MediaAnimatedGIF = "animated_gif"
)

// Post is a single social-media message with its author, media and
// referenced posts resolved inline.
type Post struct {
	ID         string      `json:"id" msgpack:"id"`
	Text       string      `json:"text" msgpack:"text"`
	Author     Author      `json:"author" msgpack:"author"`
	CreatedAt  time.Time   `json:"created_at" msgpack:"created_at"`
	Media      []Media     `json:"media" msgpack:"media"`
	Metrics    *Metrics    `json:"public_metrics,omitempty" msgpack:"public_metrics,omitempty"`
	Referenced []Reference `json:"referenced_tweets" msgpack:"referenced_tweets"`
}

// Author is the account that published a post.
type Author struct {
	ID              string `json:"id" msgpack:"id"`
	Name            string `json:"name" msgpack:"name"`
	Username        string `json:"username" msgpack:"username"`
	ProfileImageURL string `json:"profile_image_url,omitempty" msgpack:"profile_image_url,omitempty"`
	Verified        bool   `json:"verified" msgpack:"verified"`
}

// Media is an attachment of a post. Width and Height are zero when the API
// did not report natural dimensions.
type Media struct {
	Key             string `json:"media_key" msgpack:"media_key"`
	Type            string `json:"type" msgpack:"type"`
	URL             string `json:"url,omitempty" msgpack:"url,omitempty"`
	PreviewImageURL string `json:"preview_image_url,omitempty" msgpack:"preview_image_url,omitempty"`
	Width           int    `json:"width,omitempty" msgpack:"width,omitempty"`
	Height          int    `json:"height,omitempty" msgpack:"height,omitempty"`
}

// Metrics holds the public engagement counts of a post.
type Metrics struct {
	ReplyCount   int `json:"reply_count" msgpack:"reply_count"`
	RetweetCount int `json:"retweet_count" msgpack:"retweet_count"`
	LikeCount    int `json:"like_count" msgpack:"like_count"`
	QuoteCount   int `json:"quote_count" msgpack:"quote_count"`
}

// Reference is a referenced post tagged with its relation kind.
type Reference struct {
	Kind string `json:"type" msgpack:"type"`
	Post Post   `json:"post" msgpack:"post"`
}

// ImageURL returns the URL to draw for m: the media URL for photos and the
// preview still for videos and GIFs.
func (m Media) ImageURL() string {
	if m.Type == MediaPhoto || m.PreviewImageURL == "" {
		return m.URL
	}
	return m.PreviewImageURL
}

// HasSize reports whether both natural dimensions are known.
func (m Media) HasSize() bool { return m.Width > 0 && m.Height > 0 }

// Quoted returns the first referenced post of kind [KindQuoted].
func (p Post) Quoted() (Post, bool) {
	for _, r := range p.Referenced {
		if r.Kind == KindQuoted {
			return r.Post, true
		}
	}
	return Post{}, false
}

// ProfileURL returns the author's profile link.
func (a Author) ProfileURL() string { return "https://twitter.com/" + a.Username }

// URL returns the canonical status link of p.
func (p Post) URL() string {
	return "https://twitter.com/" + p.Author.Username + "/status/" + p.ID
}

// ReplyURL returns the reply intent link of p.
func (p Post) ReplyURL() string { return "https://twitter.com/intent/tweet?in_reply_to=" + p.ID }

// RetweetURL returns the retweet intent link of p.
func (p Post) RetweetURL() string { return "https://twitter.com/intent/retweet?tweet_id=" + p.ID }

// LikeURL returns the like intent link of p.
func (p Post) LikeURL() string { return "https://twitter.com/intent/like?tweet_id=" + p.ID }
