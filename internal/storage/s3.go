package storage

import (
	"context"
	"log"
	"mime/multipart"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/devfolio/portfolio-backend/internal/config"
)

// S3Store keeps uploads in an S3 (or MinIO) bucket under an uploads/ prefix.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Store(cfg config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true // MinIO
		}
	})

	base := cfg.S3Endpoint
	if base == "" {
		base = "https://" + cfg.S3Bucket + ".s3." + cfg.S3Region + ".amazonaws.com"
	} else {
		base = strings.TrimRight(base, "/") + "/" + cfg.S3Bucket
	}

	return &S3Store{client: client, bucket: cfg.S3Bucket, baseURL: base}, nil
}

func (s *S3Store) Save(ctx context.Context, ownerID string, fh *multipart.FileHeader, kind Kind) (string, error) {
	if err := Validate(fh, kind); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := "uploads/" + objectName(ownerID, fh.Filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(fh.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", err
	}
	return s.baseURL + "/" + key, nil
}

func (s *S3Store) Remove(ctx context.Context, refs ...string) {
	for _, ref := range refs {
		i := strings.LastIndex(ref, "/uploads/")
		if i < 0 {
			continue
		}
		key := "uploads/" + ref[i+len("/uploads/"):]
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			log.Printf("storage: failed to delete s3 object %s: %v", key, err)
		}
	}
}
