package orders

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vietthreads/backoffice-backend/pkg/enums"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/models"
	"github.com/vietthreads/backoffice-backend/pkg/pagination"
)

// ListFilters narrows an order listing.
type ListFilters struct {
	Status *enums.OrderStatus
	Search string
}

// Page is one cursor page of orders, newest-first.
type Page struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Repository owns the in-memory order book. Hands out deep copies only;
// mutation happens inside Update's critical section.
type Repository interface {
	Find(ctx context.Context, id string) (models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*Page, error)
	CountByStatus(ctx context.Context) map[enums.OrderStatus]int
	Snapshot(ctx context.Context) []models.Order
	Update(ctx context.Context, id string, mutate func(*models.Order) error) (models.Order, error)
}

type memoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

// NewRepository builds the order store from seed records.
func NewRepository(seed []models.Order) Repository {
	orders := make(map[string]*models.Order, len(seed))
	for _, o := range seed {
		record := o.Clone()
		orders[record.ID] = &record
	}
	return &memoryRepository{orders: orders}
}

func (r *memoryRepository) Find(ctx context.Context, id string) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.orders[id]
	if !ok {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return record.Clone(), nil
}

func (r *memoryRepository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	r.mu.RLock()
	all := make([]models.Order, 0, len(r.orders))
	for _, record := range r.orders {
		if matchesFilters(record, filters) {
			all = append(all, record.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if cursor != nil {
		idx := 0
		for idx < len(all) {
			o := all[idx]
			if o.CreatedAt.Before(cursor.CreatedAt) ||
				(o.CreatedAt.Equal(cursor.CreatedAt) && o.ID < cursor.ID) {
				break
			}
			idx++
		}
		all = all[idx:]
	}

	// One record past the page size is enough to know a next page exists.
	if buffered := pagination.LimitWithBuffer(params.Limit); len(all) > buffered {
		all = all[:buffered]
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &Page{}
	if len(all) > limit {
		page.Orders = all[:limit]
		last := page.Orders[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	} else {
		page.Orders = all
	}
	return page, nil
}

func matchesFilters(o *models.Order, filters ListFilters) bool {
	if filters.Status != nil && o.Status != *filters.Status {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(filters.Search)); search != "" {
		if !strings.Contains(strings.ToLower(o.ID), search) &&
			!strings.Contains(strings.ToLower(o.CustomerName), search) &&
			!strings.Contains(o.Phone, search) {
			return false
		}
	}
	return true
}

func (r *memoryRepository) CountByStatus(ctx context.Context) map[enums.OrderStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[enums.OrderStatus]int)
	for _, record := range r.orders {
		counts[record.Status]++
	}
	return counts
}

func (r *memoryRepository) Snapshot(ctx context.Context) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Order, 0, len(r.orders))
	for _, record := range r.orders {
		out = append(out, record.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryRepository) Update(ctx context.Context, id string, mutate func(*models.Order) error) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.orders[id]
	if !ok {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err := mutate(record); err != nil {
		return models.Order{}, err
	}
	return record.Clone(), nil
}
