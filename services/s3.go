package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"sareeapi/config"
)

// presignedURLExpiration is how long archive download links stay valid.
const presignedURLExpiration = 15 * time.Minute

type AWSServiceProvider interface {
	UploadObject(ctx context.Context, bucketName, key string, body []byte, contentType string) error
	GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error)
}

type AWSService struct {
	S3Client        *s3.Client
	S3PresignClient *s3.PresignClient
}

// NewAWSService builds an S3 client against the Cloudflare R2 endpoint of the account.
func NewAWSService(ctx context.Context, cfg config.R2Config) (*AWSService, error) {
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID),
		}, nil
	})
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithEndpointResolverWithOptions(r2Resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg)
	return &AWSService{
		S3Client:        s3Client,
		S3PresignClient: s3.NewPresignClient(s3Client),
	}, nil
}

func (awsService *AWSService) UploadObject(ctx context.Context, bucketName, key string, body []byte, contentType string) error {
	_, err := awsService.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (awsService *AWSService) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	presignedGetRequest, err := awsService.S3PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(fileKey),
	}, s3.WithPresignExpires(presignedURLExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %w", err)
	}
	return presignedGetRequest.URL, nil
}
