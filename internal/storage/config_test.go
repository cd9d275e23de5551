package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPublicBase(t *testing.T) {
	c := Config{Backend: BackendMinIO, MinIO: MinIOConfig{Endpoint: "minio:9000"}}
	require.Equal(t, "http://minio:9000", c.DefaultPublicBase())
	c.MinIO.UseSSL = true
	require.Equal(t, "https://minio:9000", c.DefaultPublicBase())

	c = Config{Backend: BackendS3, S3: S3Config{Region: "eu-west-1"}}
	require.Equal(t, "https://s3.eu-west-1.amazonaws.com", c.DefaultPublicBase())
	c.S3.Endpoint = "http://localstack:4566"
	require.Equal(t, "http://localstack:4566", c.DefaultPublicBase())

	c.PublicBaseURL = "https://cdn.example.com"
	require.Equal(t, "https://cdn.example.com", c.DefaultPublicBase())
}

func TestNewSelectsBackend(t *testing.T) {
	ctx := context.Background()
	bs, err := New(ctx, Config{Backend: BackendMemory, PublicBaseURL: "http://x/blobs", Memory: MemoryConfig{Bucket: "b"}})
	require.NoError(t, err)
	require.IsType(t, &MemoryStorage{}, bs)
	require.Equal(t, "http://x/blobs/b/n", bs.PublicURL("n"))

	_, err = New(ctx, Config{Backend: "ftp"})
	require.Error(t, err)

	_, err = New(ctx, Config{Backend: BackendMinIO})
	require.Error(t, err, "minio without endpoint")
}
