package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/treeshop/catalog/internal/catalog"
	"github.com/treeshop/catalog/internal/catalog/repository"
	"github.com/treeshop/catalog/internal/storage"
	"github.com/treeshop/catalog/pkg/logger"
	"github.com/treeshop/catalog/pkg/metrics"
)

// UpdatedMessage is returned by a successful Update.
const UpdatedMessage = "Product updated successfully"

// Service defines the catalog operations used by the handler layer.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*catalog.Item, error)
	Get(ctx context.Context, id string) (*catalog.Item, error)
	List(ctx context.Context) ([]*catalog.Item, error)
	Update(ctx context.Context, id string, in UpdateInput) (*UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

type CreateInput struct {
	Name        string
	Description string
	Image       *catalog.Upload
}

type UpdateInput struct {
	Name        string
	Description string
	// Image replaces the current image when non-nil.
	Image *catalog.Upload
}

type UpdateResult struct {
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// New returns a Service writing documents to repo and images to blobs.
func New(repo repository.Repository, blobs storage.BlobStore) Service {
	return &catalogService{repo: repo, blobs: blobs}
}

type catalogService struct {
	repo  repository.Repository
	blobs storage.BlobStore
}

func (s *catalogService) Create(ctx context.Context, in CreateInput) (item *catalog.Item, err error) {
	defer observe("create", &err)
	if in.Image == nil {
		return nil, catalog.Validationf("no file uploaded")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, catalog.Validationf("name is required")
	}

	name, url, err := s.publish(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	item = &catalog.Item{Name: in.Name, Description: in.Description, ImageURL: url}
	id, err := s.repo.Add(ctx, item)
	if err != nil {
		orphaned("create", name, err)
		return nil, catalog.NewStoreError("insert document", err)
	}
	item.ID = id
	logger.With("op", "create", "id", id, "blob", name).Infof("product created")
	return item, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (item *catalog.Item, err error) {
	defer observe("get", &err)
	item, err = s.repo.Get(ctx, id)
	if err != nil {
		return nil, storeErr("get document", err)
	}
	return item, nil
}

func (s *catalogService) List(ctx context.Context) (items []*catalog.Item, err error) {
	defer observe("list", &err)
	items, err = s.repo.List(ctx)
	if err != nil {
		return nil, catalog.NewStoreError("list documents", err)
	}
	return items, nil
}

// Update writes name and description and, when an image is supplied,
// replaces the item's blob. The write order is upload, publish, document
// update, old blob delete: readers never see a URL for a blob that is not
// yet public or already deleted.
func (s *catalogService) Update(ctx context.Context, id string, in UpdateInput) (res *UpdateResult, err error) {
	defer observe("update", &err)
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storeErr("get document", err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, catalog.Validationf("name is required")
	}

	patch := catalog.Patch{Name: in.Name, Description: in.Description}
	if in.Image == nil {
		if err := s.repo.Update(ctx, id, patch); err != nil {
			return nil, storeErr("update document", err)
		}
		return &UpdateResult{Message: UpdatedMessage}, nil
	}

	name, url, err := s.publish(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	patch.ImageURL = &url
	if err := s.repo.Update(ctx, id, patch); err != nil {
		orphaned("update", name, err)
		return nil, storeErr("update document", err)
	}

	log := logger.With("op", "update", "id", id, "blob", name)
	if current.ImageURL != "" {
		old := storage.NameFromURL(current.ImageURL)
		log = log.With("old_blob", old)
		if err := s.blobs.Delete(ctx, old); err != nil {
			// the document already references the new blob; the update stands
			orphaned("replace", old, err)
		} else {
			metrics.BlobsDeleted.Inc()
		}
	}
	log.Infof("product image replaced")
	return &UpdateResult{Message: UpdatedMessage, ImageURL: url}, nil
}

// Delete removes the document only; its blob is left in the store. Unknown
// ids are not an error.
func (s *catalogService) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete", &err)
	if err := s.repo.Delete(ctx, id); err != nil {
		return catalog.NewStoreError("delete document", err)
	}
	logger.With("op", "delete", "id", id).Infof("product deleted")
	return nil
}

// publish stores the upload under a fresh blob name and makes it publicly
// readable. It returns the blob name and its public URL.
func (s *catalogService) publish(ctx context.Context, up *catalog.Upload) (string, string, error) {
	name := storage.NewBlobName(up.Filename)
	contentType, body := detectContentType(up)
	if err := s.blobs.Put(ctx, name, body, up.Size, contentType); err != nil {
		return "", "", catalog.NewStoreError("upload image", err)
	}
	if up.Size > 0 {
		metrics.BlobBytesUploaded.Add(float64(up.Size))
	}
	if err := s.blobs.MakePublic(ctx, name); err != nil {
		orphaned("publish", name, err)
		return "", "", catalog.NewStoreError("publish image", err)
	}
	return name, s.blobs.PublicURL(name), nil
}

// storeErr passes ErrNotFound through and wraps everything else.
func storeErr(op string, err error) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return err
	}
	return catalog.NewStoreError(op, err)
}

func orphaned(op, blob string, cause error) {
	metrics.OrphanedBlobs.WithLabelValues(op).Inc()
	logger.With("op", op, "blob", blob).Warnf("blob left unreferenced: %v", cause)
}

func observe(op string, err *error) {
	metrics.Operations.WithLabelValues(op, catalog.Outcome(*err)).Inc()
}

// detectContentType keeps the client-supplied type unless it is missing or
// generic, in which case the type is sniffed from the leading bytes.
func detectContentType(up *catalog.Upload) (string, io.Reader) {
	ct := strings.TrimSpace(up.ContentType)
	if ct != "" && ct != "application/octet-stream" {
		return ct, up.Body
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(up.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "application/octet-stream", io.MultiReader(bytes.NewReader(head[:n]), errReader{err})
	}
	head = head[:n]
	body := io.MultiReader(bytes.NewReader(head), up.Body)
	return mimetype.Detect(head).String(), body
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
