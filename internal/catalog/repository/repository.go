package repository

import (
	"context"

	"github.com/treeshop/catalog/internal/catalog"
)

// Repository is the document store holding one document per catalog item.
// Get and Update return catalog.ErrNotFound for unknown ids; Delete of an
// unknown id is not an error.
type Repository interface {
	Add(ctx context.Context, item *catalog.Item) (string, error)
	Get(ctx context.Context, id string) (*catalog.Item, error)
	List(ctx context.Context) ([]*catalog.Item, error)
	Update(ctx context.Context, id string, p catalog.Patch) error
	Delete(ctx context.Context, id string) error
}
