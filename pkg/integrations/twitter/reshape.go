package twitter

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/postcard/pkg/post"
)

// reshaper resolves the flat lookup response into denormalized posts.
type reshaper struct {
	users  map[string]wireUser
	tweets map[string]wireTweet
	media  map[string]wireMedia
	logger *log.Logger
}

// reshape maps resp to posts in response order.
func reshape(resp lookupResponse, logger *log.Logger) []post.Post {
	r := newReshaper(resp, logger)
	posts := make([]post.Post, 0, len(resp.Data))
	for _, t := range resp.Data {
		p := r.post(t)
		p.Referenced = r.references(t)
		posts = append(posts, p)
	}
	return posts
}

func newReshaper(resp lookupResponse, logger *log.Logger) *reshaper {
	r := &reshaper{
		users:  make(map[string]wireUser, len(resp.Includes.Users)),
		tweets: make(map[string]wireTweet, len(resp.Includes.Tweets)),
		media:  make(map[string]wireMedia, len(resp.Includes.Media)),
		logger: logger,
	}
	for _, u := range resp.Includes.Users {
		r.users[u.ID] = u
	}
	for _, t := range resp.Includes.Tweets {
		r.tweets[t.ID] = t
	}
	for _, m := range resp.Includes.Media {
		r.media[m.MediaKey] = m
	}
	return r
}

// post converts t without its references.
func (r *reshaper) post(t wireTweet) post.Post {
	p := post.Post{
		ID:         t.ID,
		Text:       t.Text,
		Author:     r.author(t.AuthorID),
		CreatedAt:  parseTime(t.CreatedAt),
		Media:      r.mediaFor(t),
		Referenced: []post.Reference{},
	}
	if m := t.PublicMetrics; m != nil {
		p.Metrics = &post.Metrics{
			ReplyCount:   m.ReplyCount,
			RetweetCount: m.RetweetCount,
			LikeCount:    m.LikeCount,
			QuoteCount:   m.QuoteCount,
		}
	}
	return p
}

func (r *reshaper) author(id string) post.Author {
	u, ok := r.users[id]
	if !ok {
		return post.Author{ID: id}
	}
	return post.Author{
		ID:              u.ID,
		Name:            u.Name,
		Username:        u.Username,
		ProfileImageURL: u.ProfileImageURL,
		Verified:        u.Verified,
	}
}

func (r *reshaper) mediaFor(t wireTweet) []post.Media {
	if t.Attachments == nil {
		return []post.Media{}
	}
	out := make([]post.Media, 0, len(t.Attachments.MediaKeys))
	for _, key := range t.Attachments.MediaKeys {
		m, ok := r.media[key]
		if !ok {
			r.logger.Debug("dropping unknown media", "post", t.ID, "media_key", key)
			continue
		}
		out = append(out, post.Media{
			Key:             m.MediaKey,
			Type:            m.Type,
			URL:             m.URL,
			PreviewImageURL: m.PreviewImageURL,
			Width:           m.Width,
			Height:          m.Height,
		})
	}
	return out
}

// references resolves one level of referenced posts. Referenced posts keep
// an empty Referenced slice.
func (r *reshaper) references(t wireTweet) []post.Reference {
	out := make([]post.Reference, 0, len(t.ReferencedTweets))
	for _, ref := range t.ReferencedTweets {
		full, ok := r.tweets[ref.ID]
		if !ok {
			r.logger.Debug("dropping unresolved reference", "post", t.ID, "ref", ref.ID, "kind", ref.Type)
			continue
		}
		out = append(out, post.Reference{Kind: ref.Type, Post: r.post(full)})
	}
	return out
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
