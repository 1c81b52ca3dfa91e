package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/kvauth/internal/common"
)

// ObjectAPI is the part of *s3.Client the repository needs.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options describes how to reach an S3-compatible endpoint (e.g. MinIO).
type S3Options struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// NewS3Client builds an S3 client with static credentials and path-style
// addressing.
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
		so.UsePathStyle = true
	}), nil
}

// S3Repository keeps one JSON object per key under <namespace>/.
// Create and Update rely on conditional writes (If-None-Match, If-Match).
type S3Repository struct {
	client    ObjectAPI
	bucket    string
	namespace string
}

// NewS3Repository constructs a repository over bucket.
func NewS3Repository(client ObjectAPI, bucket, namespace string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, namespace: namespace}
}

func (r *S3Repository) objectKey(key string) string {
	return r.namespace + "/" + url.PathEscape(key) + ".json"
}

func (r *S3Repository) Get(ctx context.Context, key string) (string, error) {
	value, _, err := r.get(ctx, key)
	return value, err
}

func (r *S3Repository) get(ctx context.Context, key string) (string, *string, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.objectKey(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return "", nil, common.ErrorNotFound
		}
		return "", nil, fmt.Errorf("s3 get: %w", err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return "", nil, fmt.Errorf("s3 read: %w", err)
	}
	return string(b), out.ETag, nil
}

func (r *S3Repository) put(ctx context.Context, key, value string, mod func(*s3.PutObjectInput)) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.objectKey(key)),
		Body:        strings.NewReader(value),
		ContentType: aws.String("application/json"),
	}
	if mod != nil {
		mod(in)
	}
	_, err := r.client.PutObject(ctx, in)
	return err
}

func (r *S3Repository) Put(ctx context.Context, key, value string) error {
	if err := r.put(ctx, key, value, nil); err != nil {
		return fmt.Errorf("s3 put: %w", err)
	}
	return nil
}

func (r *S3Repository) Create(ctx context.Context, key, value string) error {
	err := r.put(ctx, key, value, func(in *s3.PutObjectInput) {
		in.IfNoneMatch = aws.String("*")
	})
	if err != nil {
		if isPreconditionFailed(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("s3 put: %w", err)
	}
	return nil
}

func (r *S3Repository) Update(ctx context.Context, key string, fn UpdateFunc) error {
	old, etag, err := r.get(ctx, key)
	if err != nil {
		return err
	}
	// without an ETag the write below would be unconditional
	if aws.ToString(etag) == "" {
		return fmt.Errorf("%w: backend returned no ETag", common.ErrVersionConflict)
	}

	next, err := fn(old)
	if err != nil {
		return err
	}

	err = r.put(ctx, key, next, func(in *s3.PutObjectInput) {
		in.IfMatch = etag
	})
	if err != nil {
		if isPreconditionFailed(err) {
			return common.ErrVersionConflict
		}
		return fmt.Errorf("s3 put: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "PreconditionFailed", "ConditionalRequestConflict":
			return true
		}
	}
	return false
}
