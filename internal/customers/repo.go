package customers

import (
	"context"
	"sort"
	"sync"

	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

// Repository owns the in-memory customer directory. The directory is
// read-only after seeding; writes would arrive with a real storefront.
type Repository interface {
	Get(ctx context.Context, id string) (models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
}

type memoryRepository struct {
	mu        sync.RWMutex
	customers map[string]*models.Customer
}

// NewRepository builds the directory from seed records.
func NewRepository(seed []models.Customer) Repository {
	customers := make(map[string]*models.Customer, len(seed))
	for _, c := range seed {
		record := c.Clone()
		customers[record.ID] = &record
	}
	return &memoryRepository{customers: customers}
}

func (r *memoryRepository) Get(ctx context.Context, id string) (models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.customers[id]
	if !ok {
		return models.Customer{}, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return record.Clone(), nil
}

func (r *memoryRepository) List(ctx context.Context) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Customer, 0, len(r.customers))
	for _, record := range r.customers {
		out = append(out, record.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
