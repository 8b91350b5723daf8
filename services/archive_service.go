package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "github.com/avery-lane/storefront-crm-api/config"
)

// ArchiveInterface defines the interface for shipping job log artifacts
// to durable storage
type ArchiveInterface interface {
	UploadReport(name string, content []byte) (string, error)
}

// ArchiveService ships report snapshots to an S3 bucket
type ArchiveService struct {
	client *s3.Client
	bucket string
}

var archiveServiceInstance ArchiveInterface

// InitArchiveService initializes the archive service with AWS credentials
func InitArchiveService() (ArchiveInterface, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	archiveServiceInstance = &ArchiveService{
		client: s3.NewFromConfig(awsConfig),
		bucket: cfg.AWSS3Bucket,
	}

	return archiveServiceInstance, nil
}

// GetArchiveService returns the initialized archive service instance
func GetArchiveService() ArchiveInterface {
	return archiveServiceInstance
}

// SetArchiveService sets the archive service instance (primarily for testing)
func SetArchiveService(service ArchiveInterface) {
	archiveServiceInstance = service
}

// UploadReport uploads one report snapshot and returns its S3 key.
// Key format: reports/{timestamp}_{name}
func (s *ArchiveService) UploadReport(name string, content []byte) (string, error) {
	key := fmt.Sprintf("reports/%d_%s", time.Now().Unix(), name)

	_, err := s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to S3: %w", err)
	}

	return key, nil
}
