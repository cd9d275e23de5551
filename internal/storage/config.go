package storage

import (
	"context"
	"fmt"
	"strings"
)

const (
	BackendMinIO  = "minio"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Config selects and configures the blob backend.
type Config struct {
	Backend string
	// PublicBaseURL overrides the base of public blob URLs.
	PublicBaseURL string
	MinIO         MinIOConfig
	S3            S3Config
	Memory        MemoryConfig
}

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// S3Config holds AWS S3 (or S3-compatible) configuration.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

type MemoryConfig struct {
	Bucket string
}

// DefaultPublicBase derives the public URL base for the configured backend.
func (c *Config) DefaultPublicBase() string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL
	}
	switch c.Backend {
	case BackendMinIO:
		scheme := "http"
		if c.MinIO.UseSSL {
			scheme = "https"
		}
		return scheme + "://" + c.MinIO.Endpoint
	case BackendS3:
		if c.S3.Endpoint != "" {
			return c.S3.Endpoint
		}
		return fmt.Sprintf("https://s3.%s.amazonaws.com", c.S3.Region)
	}
	return ""
}

// New builds the BlobStore selected by cfg.Backend.
func New(ctx context.Context, cfg Config) (BlobStore, error) {
	base := cfg.DefaultPublicBase()
	switch strings.ToLower(cfg.Backend) {
	case BackendMinIO:
		return NewMinIOStorage(ctx, &cfg.MinIO, base)
	case BackendS3:
		return NewS3Storage(ctx, &cfg.S3, base)
	case BackendMemory, "":
		return NewMemoryStorage(cfg.Memory.Bucket, base), nil
	}
	return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
}
