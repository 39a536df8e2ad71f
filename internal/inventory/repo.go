package inventory

import (
	"context"
	"sort"
	"sync"

	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

// Repository owns the in-memory product catalog. Domain state lives in
// process memory for the whole session, so the repository guards a map with
// a RWMutex and hands out deep copies only.
type Repository interface {
	Get(ctx context.Context, id string) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Exists(ctx context.Context, id string) bool
	// Update runs mutate on the live record inside the write lock so a
	// deduct-append-recompute step is observably indivisible.
	Update(ctx context.Context, id string, mutate func(*models.Product) error) (models.Product, error)
}

type memoryRepository struct {
	mu       sync.RWMutex
	products map[string]*models.Product
}

// NewRepository builds the product store from seed records.
func NewRepository(seed []models.Product) Repository {
	products := make(map[string]*models.Product, len(seed))
	for _, p := range seed {
		record := p.Clone()
		products[record.ID] = &record
	}
	return &memoryRepository{products: products}
}

func (r *memoryRepository) Get(ctx context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.products[id]
	if !ok {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return record.Clone(), nil
}

func (r *memoryRepository) List(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Product, 0, len(r.products))
	for _, record := range r.products {
		out = append(out, record.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepository) Exists(ctx context.Context, id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.products[id]
	return ok
}

func (r *memoryRepository) Update(ctx context.Context, id string, mutate func(*models.Product) error) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.products[id]
	if !ok {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := mutate(record); err != nil {
		return models.Product{}, err
	}
	return record.Clone(), nil
}
