// Package publish uploads rendered cards to an S3-compatible bucket so they
// can be linked from elsewhere.
//
//	pub, err := publish.New(ctx, publish.Options{Bucket: "cards", Region: "auto", Endpoint: r2})
//	obj, err := pub.Publish(ctx, publish.Artifact{PostID: id, Format: "png", ContentType: "image/png", Data: png})
//	fmt.Println(obj.URL)
//
// Every upload gets a fresh object key, so published cards are immutable.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	perrors "github.com/matzehuels/postcard/pkg/errors"
)

// CacheControl is set on every uploaded object.
const CacheControl = "public, max-age=31536000, immutable"

// Uploader is the subset of the S3 client used for publishing.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures the bucket connection. Static credentials are used
// when both keys are set; otherwise the default AWS credential chain
// applies.
type Options struct {
	Bucket    string
	Endpoint  string // custom endpoint for R2, MinIO and friends
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Artifact is a rendered card to publish.
type Artifact struct {
	PostID      string
	Format      string
	ContentType string
	Data        []byte
}

// Object describes an uploaded artifact.
type Object struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	URL    string `json:"url"`
	Size   int    `json:"size"`
}

// Publisher uploads artifacts.
type Publisher struct {
	client   Uploader
	bucket   string
	prefix   string
	endpoint string
	region   string
}

// New creates a Publisher backed by an S3 client.
func New(ctx context.Context, opts Options) (*Publisher, error) {
	if opts.Bucket == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "publish bucket is required")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "load aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	p := NewWithClient(client, opts.Bucket, opts.Prefix)
	p.endpoint, p.region = opts.Endpoint, opts.Region
	return p, nil
}

// NewWithClient creates a Publisher around an existing client.
func NewWithClient(client Uploader, bucket, prefix string) *Publisher {
	return &Publisher{client: client, bucket: bucket, prefix: prefix}
}

// Publish uploads a and returns where it was stored.
func (p *Publisher) Publish(ctx context.Context, a Artifact) (Object, error) {
	if err := perrors.ValidatePostID(a.PostID); err != nil {
		return Object{}, err
	}
	if len(a.Data) == 0 {
		return Object{}, perrors.New(perrors.ErrCodeInvalidInput, "nothing to publish for %s", a.PostID)
	}

	key := p.Key(a.PostID, a.Format)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(a.Data),
		ContentType:  aws.String(a.ContentType),
		CacheControl: aws.String(CacheControl),
		Metadata:     map[string]string{"post-id": a.PostID},
	})
	if err != nil {
		return Object{}, perrors.Wrap(perrors.ErrCodeNetwork, err, "upload %s", key)
	}
	return Object{Bucket: p.bucket, Key: key, URL: p.URL(key), Size: len(a.Data)}, nil
}

// Key returns a fresh object key: <prefix><post id>/<uuid>.<format>.
func (p *Publisher) Key(postID, format string) string {
	return fmt.Sprintf("%s%s/%s.%s", p.prefix, postID, uuid.NewString(), format)
}

// URL returns the address of key. Custom endpoints use path-style URLs.
func (p *Publisher) URL(key string) string {
	if p.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(p.endpoint, "/"), p.bucket, key)
	}
	if p.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", p.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}
