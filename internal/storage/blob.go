package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore holds image bytes addressed by name. Delete of a missing blob
// is not an error.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	MakePublic(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
	// PublicURL is the anonymous-read URL of name once it has been made public.
	PublicURL(name string) string
}

// NewBlobName returns a collision-free blob name: a random token followed by
// the base name of the uploaded file.
func NewBlobName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return uuid.NewString() + "-" + base
}

// PublicURL joins base, bucket and the escaped blob name: <base>/<bucket>/<name>.
func PublicURL(base, bucket, name string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + url.PathEscape(name)
}

// NameFromURL recovers the blob name from the trailing path segment of a
// public URL built by PublicURL.
func NameFromURL(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	seg := raw[strings.LastIndex(raw, "/")+1:]
	if name, err := url.PathUnescape(seg); err == nil {
		return name
	}
	return seg
}
