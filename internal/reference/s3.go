package reference

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of the S3 client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source fetches reference snapshots published to a bucket.
type S3Source struct {
	client ObjectGetter
	bucket string
}

// NewS3Source creates a source reading from bucket.
func NewS3Source(client ObjectGetter, bucket string) *S3Source {
	return &S3Source{client: client, bucket: bucket}
}

// Fetch downloads and decodes the snapshot stored under key. The key's extension selects
// the codec.
func (s *S3Source) Fetch(ctx context.Context, key string) (*Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", s.bucket, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	return DecodeSnapshot(key, out.Body)
}

// ParseS3URI splits "s3://bucket/path/to/key.yaml" into bucket and key.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", false
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", false
	}
	return u.Host, key, true
}
