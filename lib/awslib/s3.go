package awslib

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Client struct {
	client putObjectAPI
}

func NewS3Client(cfg aws.Config) S3Client {
	return S3Client{client: s3.NewFromConfig(cfg)}
}

type ConfigArgs struct {
	Region             string
	AwsAccessKeyID     string
	AwsSecretAccessKey string
}

// LoadConfig uses static credentials when both keys are set, otherwise the default credential chain.
func LoadConfig(ctx context.Context, args ConfigArgs) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cmp.Or(args.Region, os.Getenv("AWS_REGION")))}
	if args.AwsAccessKeyID != "" && args.AwsSecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(args.AwsAccessKeyID, args.AwsSecretAccessKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return cfg, nil
}

func ObjectKey(prefix, fp string) string {
	objectKey := filepath.Base(fp)
	if prefix != "" {
		objectKey = fmt.Sprintf("%s/%s", prefix, objectKey)
	}

	return objectKey
}

// UploadLocalFileToS3 uploads [fp] to the bucket and returns the S3 URI.
func (s S3Client) UploadLocalFileToS3(ctx context.Context, bucket, prefix, fp string) (string, error) {
	file, err := os.Open(fp)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}

	defer file.Close()

	objectKey := ObjectKey(prefix, fp)
	if _, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
		Body:   file,
	}); err != nil {
		return "", fmt.Errorf("failed to upload file to s3: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", bucket, objectKey), nil
}
