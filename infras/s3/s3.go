package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"umrahcrm/config"
	"umrahcrm/infras/otel"
	"umrahcrm/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
)

const (
	DirPaymentProofs = "payment-proofs"
	DirDocuments     = "documents"
	DirVideos        = "videos"
	DirContracts     = "contracts"
)

var (
	ErrNotConfigured = errors.New("object storage is not configured")
	ErrForeignURL    = errors.New("url does not belong to the bucket")
)

type S3 interface {
	// Upload stores the file under directory with a generated name and returns its public URL.
	Upload(ctx context.Context, directory string, file multipart.File, header *multipart.FileHeader) (url string, err error)
	UploadBytes(ctx context.Context, directory, fileName, contentType string, data []byte) (url string, err error)
	Delete(ctx context.Context, url string) error
}

type s3Impl struct {
	client *s3.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	s3Cfg := cfg.External.S3
	if s3Cfg.APIEndpoint == "" || s3Cfg.BucketName == "" {
		log.Warn().Msg("S3 is not configured, uploads are disabled")

		return disabled{}
	}

	staticProvider := credentials.NewStaticCredentialsProvider(s3Cfg.AccessKeyID, s3Cfg.SecretAccessKey, "")

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), awsConfig.WithCredentialsProvider(staticProvider))
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s3Cfg.APIEndpoint)
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return &s3Impl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (svc *s3Impl) Upload(ctx context.Context, directory string, file multipart.File, header *multipart.FileHeader) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	data, err := io.ReadAll(file)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to read file: %w", err)
	}

	fileName := uuid.NewString() + strings.ToLower(path.Ext(header.Filename))

	return svc.put(ctx, path.Join(directory, fileName), header.Header.Get(constant.RequestHeaderContentType), data)
}

func (svc *s3Impl) UploadBytes(ctx context.Context, directory, fileName, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadBytes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return svc.put(ctx, path.Join(directory, fileName), contentType, data)
}

func (svc *s3Impl) Delete(ctx context.Context, url string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := ObjectKey(svc.cfg.External.S3.PublicDomain, url)
	if key == "" {
		return fmt.Errorf("%w: %s", ErrForeignURL, url)
	}

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    svc.cfg.External.S3.BucketName,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.cfg.External.S3.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (svc *s3Impl) put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	bucket := svc.cfg.External.S3.BucketName

	_, err := svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		log.Error().Err(err).Str(otelAttrObjectKey, key).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return PublicURL(svc.cfg.External.S3.PublicDomain, key), nil
}

func PublicURL(publicDomain, key string) string {
	return strings.TrimSuffix(publicDomain, "/") + "/" + key
}

// ObjectKey reverses PublicURL. It returns an empty string for URLs outside the public domain.
func ObjectKey(publicDomain, url string) string {
	prefix := strings.TrimSuffix(publicDomain, "/") + "/"
	if publicDomain == "" || !strings.HasPrefix(url, prefix) {
		return constant.Empty
	}

	return strings.TrimPrefix(url, prefix)
}

type disabled struct{}

func (disabled) Upload(context.Context, string, multipart.File, *multipart.FileHeader) (string, error) {
	return constant.Empty, ErrNotConfigured
}

func (disabled) UploadBytes(context.Context, string, string, string, []byte) (string, error) {
	return constant.Empty, ErrNotConfigured
}

func (disabled) Delete(context.Context, string) error {
	return ErrNotConfigured
}
