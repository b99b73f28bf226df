package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client the store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Store struct {
	client   S3API
	bucket   string
	baseURL  string
	maxBytes int64
}

// NewS3Store loads the default AWS credential chain for region. baseURL is
// the public prefix objects are reachable at; empty means the bucket's
// virtual-hosted URL.
func NewS3Store(ctx context.Context, bucket, region, baseURL string, maxBytes int64) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, baseURL, maxBytes), nil
}

func NewS3StoreWithClient(client S3API, bucket, baseURL string, maxBytes int64) *S3Store {
	return &S3Store{
		client:   client,
		bucket:   bucket,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}
}

func (s *S3Store) Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (models.Image, error) {
	ctype, err := CheckImage(fh, s.maxBytes)
	if err != nil {
		return models.Image{}, err
	}

	f, err := fh.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer f.Close()

	key := objectKey(folder, ctype)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(ctype),
		ContentLength: aws.Int64(fh.Size),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("unable to upload file to S3: %v", err)
	}
	return models.Image{URL: s.baseURL + "/" + key, PublicID: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("unable to delete %s from S3: %v", publicID, err)
	}
	return nil
}
