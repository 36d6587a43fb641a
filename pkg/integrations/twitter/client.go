package twitter

import (
	"context"
	"io"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/postcard/pkg/errors"
	"github.com/matzehuels/postcard/pkg/integrations"
	"github.com/matzehuels/postcard/pkg/post"
)

// DefaultBaseURL is the v2 API root.
const DefaultBaseURL = "https://api.twitter.com/2"

// Field lists requested from the lookup endpoint.
var (
	expansions = []string{
		"author_id",
		"attachments.media_keys",
		"referenced_tweets.id",
		"referenced_tweets.id.author_id",
	}
	tweetFields = []string{
		"attachments", "author_id", "public_metrics", "created_at",
		"id", "in_reply_to_user_id", "referenced_tweets", "text",
	}
	userFields = []string{
		"id", "name", "profile_image_url", "protected", "url", "username", "verified",
	}
	mediaFields = []string{
		"duration_ms", "height", "media_key", "preview_image_url",
		"type", "url", "width", "public_metrics",
	}
)

// Options configures a [Client].
type Options struct {
	BearerToken string        // API credential, sent as "Authorization: Bearer ..."
	BaseURL     string        // API root (default [DefaultBaseURL])
	Timeout     time.Duration // Per-request timeout (default [integrations.DefaultTimeout])
	Attempts    int           // Tries per lookup; values below 1 mean one
	// ReverseOrder returns posts last-to-first. Kept for callers that
	// relied on the reversed order of earlier releases.
	ReverseOrder bool
	Logger       *log.Logger // Debug output for dropped references (default discards)
}

// Client looks up posts by id.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
	reverse bool
	logger  *log.Logger
}

// NewClient creates a lookup client. Lookups are not cached here; the
// pipeline caches reshaped posts.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	headers := map[string]string{"Accept": "application/json"}
	if opts.BearerToken != "" {
		headers["Authorization"] = "Bearer " + opts.BearerToken
	}
	return &Client{
		Client:  integrations.NewClient(nil, "twitter:", 0, headers).WithTimeout(opts.Timeout).WithAttempts(opts.Attempts),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		reverse: opts.ReverseOrder,
		logger:  logger,
	}
}

// Lookup fetches the posts with the given ids in one request.
//
// An empty ids slice returns an empty result without issuing a request.
// Ids that do not resolve are silently absent from the result; callers
// detect a missing post by the result length.
//
// Returns:
//   - [perrors.ErrCodeInvalidInput] for malformed ids
//   - [perrors.ErrCodeUnauthorized], [perrors.ErrCodeRateLimited] or
//     [perrors.ErrCodeNetwork] for failed requests
func (c *Client) Lookup(ctx context.Context, ids []string) ([]post.Post, error) {
	if len(ids) == 0 {
		return []post.Post{}, nil
	}
	if err := perrors.ValidatePostIDs(ids); err != nil {
		return nil, err
	}

	var resp lookupResponse
	if err := c.Client.Get(ctx, c.lookupURL(ids), &resp); err != nil {
		return nil, err
	}
	for _, e := range resp.Errors {
		c.logger.Debug("lookup partial error", "id", e.ResourceID, "title", e.Title, "detail", e.Detail)
	}

	posts := reshape(resp, c.logger)
	if c.reverse {
		slices.Reverse(posts)
	}
	return posts, nil
}

// Get fetches a single post. It returns [perrors.ErrCodeNotFound] when the
// post does not exist or is not visible.
func (c *Client) Get(ctx context.Context, id string) (*post.Post, error) {
	posts, err := c.Lookup(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, perrors.New(perrors.ErrCodeNotFound, "no post with id %s", id)
	}
	return &posts[0], nil
}

func (c *Client) lookupURL(ids []string) string {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("expansions", strings.Join(expansions, ","))
	q.Set("tweet.fields", strings.Join(tweetFields, ","))
	q.Set("user.fields", strings.Join(userFields, ","))
	q.Set("media.fields", strings.Join(mediaFields, ","))
	return c.baseURL + "/tweets?" + q.Encode()
}
