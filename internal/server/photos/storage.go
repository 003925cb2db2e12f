// Package photos issues presigned object-storage upload URLs for employee
// photos. Any S3-compatible backend works, MinIO included.
package photos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/staffql/internal/server/models"
	"github.com/google/uuid"
)

const UploadValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	nowFunc = time.Now
)

// Options configure the S3 endpoint. PublicURL is the base under which
// uploaded objects are readable, e.g. http://localhost:9000.
type Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	PublicURL    string
}

type Storage struct {
	opts Options
}

func NewStorage(opts Options) *Storage {
	return &Storage{opts: opts}
}

// StorageKey returns a fresh object key of the form
// employees/YYYY/MM/DD/<uuid>.<ext>.
func StorageKey(t time.Time, ext string) string {
	return fmt.Sprintf("employees/%04d/%02d/%02d/%s.%s",
		t.Year(), int(t.Month()), t.Day(), uuid.New(), strings.ToLower(ext))
}

func (s *Storage) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.opts.AccessKey,
			s.opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT URL for a new object with the given
// extension, together with the public URL the object will have once uploaded.
func (s *Storage) PresignUpload(ctx context.Context, ext string) (*models.PhotoUpload, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	now := nowFunc()
	bucket := s.opts.Bucket
	key := StorageKey(now.UTC(), ext)

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(UploadValidity))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &models.PhotoUpload{
		UploadURL: req.URL,
		PhotoURL:  strings.TrimRight(s.opts.PublicURL, "/") + "/" + bucket + "/" + key,
		ExpiresAt: now.Add(UploadValidity),
	}, nil
}
