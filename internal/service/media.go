package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"vibemusic/internal/config"
	"vibemusic/internal/model"
)

// ObjectPresigner is the subset of s3.PresignClient used for direct uploads.
type ObjectPresigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// ObjectHeader is the subset of s3.Client used to inspect finished uploads.
type ObjectHeader interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// MediaService hands out presigned URLs so clients upload tracks straight to R2.
type MediaService struct {
	presigner ObjectPresigner
	objects   ObjectHeader
	bucket    string
	publicURL string
}

// NewMediaService constructs an S3-compatible presign client for Cloudflare R2.
func NewMediaService(ctx context.Context, cfg *config.Config) (*MediaService, error) {
	if !cfg.UploadsEnabled() {
		return nil, model.ErrUploadsDisabled
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return NewMediaServiceWithClients(s3.NewPresignClient(s3Client), s3Client, cfg.R2BucketName, cfg.R2PublicURL), nil
}

func NewMediaServiceWithClients(presigner ObjectPresigner, objects ObjectHeader, bucket, publicURL string) *MediaService {
	return &MediaService{
		presigner: presigner,
		objects:   objects,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// PresignTrackUpload validates the declared type and size and returns a PUT
// URL valid for model.PresignExpiry. A zero fileSize means unknown.
func (s *MediaService) PresignTrackUpload(ctx context.Context, userID int64, contentType string, fileSize int64) (*model.PresignUploadResponse, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	ext, ok := model.AudioExtension(contentType)
	if !ok {
		return nil, model.ErrInvalidAudioType
	}
	if fileSize > model.MaxTrackSizeBytes {
		return nil, model.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/%d/%s%s", model.TrackFolder, userID, uuid.NewString(), ext)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(model.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &model.PresignUploadResponse{
		UploadURL:  req.URL,
		PublicURL:  fmt.Sprintf("%s/%s", s.publicURL, key),
		Key:        key,
		ExpiresInS: int(model.PresignExpiry / time.Second),
	}, nil
}

// UploadedSize returns the stored size of key, or model.ErrUploadMissing when
// the client never completed the upload.
func (s *MediaService) UploadedSize(ctx context.Context, key string) (int64, error) {
	out, err := s.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return 0, model.ErrUploadMissing
		}
		return 0, fmt.Errorf("failed to inspect upload: %w", err)
	}
	return aws.ToInt64(out.ContentLength), nil
}
