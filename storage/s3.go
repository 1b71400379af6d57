package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"newsdigest/config"
	"newsdigest/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// objectAPI is the slice of the S3 client the store needs; tests substitute a fake.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the archive document at bucket/key
type S3Store struct {
	client objectAPI
	bucket string
	key    string
}

// NewS3Store creates an S3-backed store using the default AWS configuration chain,
// with optional region/profile/path-style overrides.
func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3Store(client, cfg.Bucket, cfg.Key), nil
}

func newS3Store(client objectAPI, bucket, key string) *S3Store {
	if key == "" {
		key = config.DefaultS3Key
	}
	return &S3Store{client: client, bucket: bucket, key: key}
}

// Load returns an empty archive when the object does not exist.
func (s *S3Store) Load(ctx context.Context) (types.Archive, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return types.Archive{}, nil
		}
		return nil, fmt.Errorf("getting s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return Decode(data)
}

// Save overwrites the object with the encoded archive. S3 PUTs replace objects atomically.
func (s *S3Store) Save(ctx context.Context, archive types.Archive) error {
	data, err := Encode(archive)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(s.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json; charset=utf-8"),
		CacheControl: aws.String("public, max-age=300"),
	})
	if err != nil {
		return fmt.Errorf("putting s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

// isNotFound reports whether err is an HTTP 404 or a NoSuchKey/NotFound API error.
func isNotFound(err error) bool {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
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
