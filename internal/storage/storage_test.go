package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "exports/u1/a.json", ObjectKey("/exports/", "u1", "a.json"))
	assert.Equal(t, "u1/a.json", ObjectKey("", "/u1/", "a.json"))
	assert.Equal(t, "exports", ObjectKey("exports", ""))
	assert.Equal(t, "", ObjectKey(""))
}

func newOfflineService() *S3Service {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  aws.NewCredentialsCache(staticCreds{}),
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
	})
	return NewS3Service(client)
}

func TestS3Service_RequiresBucket(t *testing.T) {
	svc := newOfflineService()
	ctx := context.Background()

	_, err := svc.PutObject(ctx, "a.json", strings.NewReader("{}"), UploadOptions{})
	assert.EqualError(t, err, "storage bucket is required")

	_, err = svc.ListObjects(ctx, "", "p")
	assert.EqualError(t, err, "storage bucket is required")

	assert.EqualError(t, svc.DeletePrefix(ctx, "", "p"), "storage bucket is required")
	assert.EqualError(t, svc.DeletePrefix(ctx, "bucket", "  "), "prefix is required")

	_, err = svc.GetObjectURL(ctx, "", "k", time.Minute)
	assert.EqualError(t, err, "storage bucket is required")
}

func TestS3Service_GetObjectURLIsPresigned(t *testing.T) {
	svc := newOfflineService()

	url, err := svc.GetObjectURL(context.Background(), "bucket", "exports/u1/a.json", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/bucket/exports/u1/a.json")
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}

type staticCreds struct{}

func (staticCreds) Retrieve(context.Context) (aws.Credentials, error) {
	return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret", Source: "test"}, nil
}
