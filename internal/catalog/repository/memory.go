package repository

import (
	"context"
	"sync"

	"github.com/treeshop/catalog/internal/catalog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Repository used for tests and for running the
// service without MongoDB. Ids have the same shape as MongoRepo ids.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]catalog.Item
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]catalog.Item)}
}

func (m *MemoryRepo) Add(ctx context.Context, item *catalog.Item) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID().Hex()
	stored := *item
	stored.ID = id
	m.store[id] = stored
	return id, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if it, ok := m.store[id]; ok {
		return &it, nil
	}
	return nil, catalog.ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context) ([]*catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*catalog.Item, 0, len(m.store))
	for _, it := range m.store {
		it := it
		out = append(out, &it)
	}
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id string, p catalog.Patch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.store[id]
	if !ok {
		return catalog.ErrNotFound
	}
	it.Name = p.Name
	it.Description = p.Description
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	m.store[id] = it
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}
