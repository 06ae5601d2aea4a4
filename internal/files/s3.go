// internal/files/s3.go
package files

import (
	"context"
	stderrors "errors"
	"io"
	"sort"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"loantracker/internal/common/errors"
)

// S3 stores documents in an S3 bucket. Keys map directly onto object keys.
type S3 struct {
	client *s3.Client
	bucket string
}

func NewS3(ctx context.Context, bucket, region string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	return &S3{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (s *S3) Save(ctx context.Context, key string, r io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	})
	if err != nil {
		return errors.NewStorageError(err)
	}
	return nil
}

func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	p := strings.TrimSuffix(prefix, "/") + "/"
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &p,
	})
	if err != nil {
		return nil, errors.NewStorageError(err)
	}
	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key != nil {
			keys = append(keys, *obj.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if stderrors.As(err, &nsk) {
			return nil, errors.NewFileNotFoundError("", key)
		}
		return nil, errors.NewStorageError(err)
	}
	return out.Body, nil
}
