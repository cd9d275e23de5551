package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

type memoryBlob struct {
	data        []byte
	contentType string
	public      bool
}

// MemoryStorage keeps blobs in process memory. It also serves public blobs
// over HTTP at /<bucket>/<name> so that its public URLs resolve.
type MemoryStorage struct {
	bucket string
	base   string

	mu    sync.RWMutex
	blobs map[string]*memoryBlob
}

func NewMemoryStorage(bucket, publicBase string) *MemoryStorage {
	if bucket == "" {
		bucket = "catalog-images"
	}
	return &MemoryStorage{bucket: bucket, base: publicBase, blobs: make(map[string]*memoryBlob)}
}

func (m *MemoryStorage) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("memory put %s: %w", name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[name] = &memoryBlob{data: b, contentType: contentType}
	return nil
}

func (m *MemoryStorage) MakePublic(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[name]
	if !ok {
		return fmt.Errorf("memory publish %s: %w", name, ErrBlobNotFound)
	}
	b.public = true
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, name)
	return nil
}

func (m *MemoryStorage) PublicURL(name string) string {
	return PublicURL(m.base, m.bucket, name)
}

// Object returns a copy of a stored blob and whether it is publicly readable.
func (m *MemoryStorage) Object(name string) (data []byte, contentType string, public bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[name]
	if !ok {
		return nil, "", false, ErrBlobNotFound
	}
	return bytes.Clone(b.data), b.contentType, b.public, nil
}

// Names lists every stored blob name.
func (m *MemoryStorage) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.blobs))
	for n := range m.blobs {
		out = append(out, n)
	}
	return out
}

// ServeHTTP serves GET /<bucket>/<name> for public blobs; private or missing
// blobs are 404.
func (m *MemoryStorage) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	p := strings.TrimPrefix(r.URL.Path, "/")
	bucket, name, ok := strings.Cut(p, "/")
	if !ok || bucket != m.bucket {
		http.NotFound(w, r)
		return
	}
	data, ct, public, err := m.Object(name)
	if err != nil || !public {
		http.NotFound(w, r)
		return
	}
	if ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(data)
	}
}
