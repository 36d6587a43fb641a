// Package twitter provides a client for the X/Twitter v2 post lookup API.
//
// # Overview
//
// The lookup endpoint returns posts in a flat shape: the posts themselves in
// "data" and every referenced user, post and media object once in
// "includes". [Client.Lookup] issues one request with all expansions the
// card needs and reshapes the response into denormalized [post.Post] values
// with the author, media and referenced posts inline.
//
// # Usage
//
//	client := twitter.NewClient(twitter.Options{BearerToken: token})
//	p, err := client.Get(ctx, "1590044136545427456")
//
// The bearer credential is always injected through [Options]; the client
// never reads the environment.
//
// # Reshaping Rules
//
//   - Media follows the order of attachments.media_keys; unknown keys are dropped
//   - References missing from includes.tweets are dropped
//   - A post whose author is missing gets an [post.Author] with only ID set
//   - Absent attachments and references become empty slices
//
// [post.Post]: github.com/matzehuels/postcard/pkg/post.Post
// [post.Author]: github.com/matzehuels/postcard/pkg/post.Author
package twitter
