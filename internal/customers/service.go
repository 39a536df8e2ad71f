package customers

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

// Service exposes the customer directory.
type Service interface {
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	ListCustomers(ctx context.Context, search string) ([]models.Customer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	if strings.TrimSpace(id) == "" {
		return models.Customer{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	return s.repo.Get(ctx, id)
}

// ListCustomers filters by name, phone or email substring when search is set.
func (s *service) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return all, nil
	}
	filtered := make([]models.Customer, 0, len(all))
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), search) ||
			strings.Contains(strings.ToLower(c.Email), search) ||
			strings.Contains(c.Phone, search) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}
