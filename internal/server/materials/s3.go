package materials

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignTTL is how long a material download link stays valid.
const PresignTTL = 15 * time.Minute

type S3Options struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// GetObjectPresigner is satisfied by *s3.PresignClient.
type GetObjectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store answers every lookup with a presigned GET URL on an
// S3-compatible backend (AWS, MinIO).
type S3Store struct {
	bucket    string
	presigner GetObjectPresigner
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Store builds a presign client from static credentials. Presigning is
// done locally, so no request reaches the backend here.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.User, opts.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithPresigner(opts.Bucket, s3.NewPresignClient(client)), nil
}

func NewS3StoreWithPresigner(bucket string, p GetObjectPresigner) *S3Store {
	return &S3Store{bucket: bucket, presigner: p}
}

func (s *S3Store) Locate(ctx context.Context, name string) (*Location, error) {
	key, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}

	return &Location{RedirectURL: req.URL}, nil
}
