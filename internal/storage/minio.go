package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioAPI is the subset of *minio.Client used by MinIOStorage.
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	GetBucketPolicy(ctx context.Context, bucketName string) (string, error)
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
}

// MinIOStorage is a thin wrapper around the minio client.
// MinIO has no per-object ACLs, so MakePublic grants anonymous read on the
// bucket's objects the first time it is called.
type MinIOStorage struct {
	client minioAPI
	bucket string
	base   string

	mu       sync.Mutex
	readable bool
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(ctx context.Context, cfg *MinIOConfig, publicBase string) (*MinIOStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, cfg.Bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return newMinIOStorage(mc, cfg.Bucket, publicBase), nil
}

func newMinIOStorage(client minioAPI, bucket, publicBase string) *MinIOStorage {
	return &MinIOStorage{client: client, bucket: bucket, base: publicBase}
}

func (s *MinIOStorage) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if _, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("minio put %s: %w", name, err)
	}
	return nil
}

func (s *MinIOStorage) MakePublic(ctx context.Context, name string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return fmt.Errorf("minio publish %s: %w", name, ErrBlobNotFound)
		}
		return fmt.Errorf("minio stat %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readable {
		return nil
	}
	resource := "arn:aws:s3:::" + s.bucket + "/*"
	current, err := s.client.GetBucketPolicy(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio get policy: %w", err)
	}
	policy, changed, err := withPublicRead(current, resource)
	if err != nil {
		return fmt.Errorf("minio parse policy: %w", err)
	}
	if changed {
		if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
			return fmt.Errorf("minio set policy: %w", err)
		}
	}
	s.readable = true
	return nil
}

func (s *MinIOStorage) Delete(ctx context.Context, name string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove %s: %w", name, err)
	}
	return nil
}

func (s *MinIOStorage) PublicURL(name string) string {
	return PublicURL(s.base, s.bucket, name)
}

// bucketPolicy keeps statements as raw maps so operator-defined fields
// survive a rewrite.
type bucketPolicy struct {
	Version   string           `json:"Version"`
	Statement []map[string]any `json:"Statement"`
}

// withPublicRead returns current extended with an anonymous s3:GetObject
// Allow on resource. changed is false when an equivalent Allow is present.
func withPublicRead(current, resource string) (string, bool, error) {
	p := bucketPolicy{Version: "2012-10-17"}
	if strings.TrimSpace(current) != "" {
		if err := json.Unmarshal([]byte(current), &p); err != nil {
			return "", false, err
		}
	}
	for _, st := range p.Statement {
		if grantsPublicRead(st, resource) {
			return current, false, nil
		}
	}
	p.Statement = append(p.Statement, map[string]any{
		"Effect":    "Allow",
		"Principal": map[string]any{"AWS": []string{"*"}},
		"Action":    []string{"s3:GetObject"},
		"Resource":  []string{resource},
	})
	b, err := json.Marshal(p)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

func grantsPublicRead(st map[string]any, resource string) bool {
	if effect, _ := st["Effect"].(string); effect != "Allow" {
		return false
	}
	if _, ok := st["Condition"]; ok {
		return false
	}
	principal := st["Principal"]
	if m, ok := principal.(map[string]any); ok {
		principal = m["AWS"]
	}
	return contains(principal, "*") &&
		(contains(st["Action"], "s3:GetObject") || contains(st["Action"], "s3:*")) &&
		contains(st["Resource"], resource)
}

// contains matches v, a JSON string or array of strings, against want.
func contains(v any, want string) bool {
	switch x := v.(type) {
	case string:
		return x == want
	case []any:
		for _, e := range x {
			if s, _ := e.(string); s == want {
				return true
			}
		}
	}
	return false
}
