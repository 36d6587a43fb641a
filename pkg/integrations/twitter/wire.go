package twitter

// Wire types mirror the subset of the v2 lookup schema requested by
// [Client.Lookup]. They never leave this package; [reshape] maps them to
// post values.

type lookupResponse struct {
	Data     []wireTweet  `json:"data"`
	Includes wireIncludes `json:"includes"`
	Errors   []wireError  `json:"errors,omitempty"`
}

type wireIncludes struct {
	Users  []wireUser  `json:"users"`
	Tweets []wireTweet `json:"tweets"`
	Media  []wireMedia `json:"media"`
}

type wireTweet struct {
	ID               string           `json:"id"`
	Text             string           `json:"text"`
	AuthorID         string           `json:"author_id"`
	CreatedAt        string           `json:"created_at"`
	InReplyToUserID  string           `json:"in_reply_to_user_id,omitempty"`
	Attachments      *wireAttachments `json:"attachments,omitempty"`
	PublicMetrics    *wireMetrics     `json:"public_metrics,omitempty"`
	ReferencedTweets []wireReference  `json:"referenced_tweets,omitempty"`
}

type wireAttachments struct {
	MediaKeys []string `json:"media_keys"`
}

type wireReference struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type wireMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

type wireUser struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
	Protected       bool   `json:"protected"`
	URL             string `json:"url"`
	Verified        bool   `json:"verified"`
}

type wireMedia struct {
	MediaKey        string `json:"media_key"`
	Type            string `json:"type"`
	URL             string `json:"url"`
	PreviewImageURL string `json:"preview_image_url"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	DurationMS      int    `json:"duration_ms"`
}

// wireError is a partial error; the API reports ids that do not resolve
// here while still answering 200 for the rest.
type wireError struct {
	Value        string `json:"value"`
	Detail       string `json:"detail"`
	Title        string `json:"title"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Type         string `json:"type"`
}
