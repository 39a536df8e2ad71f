package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vietthreads/backoffice-backend/internal/inventory"
	"github.com/vietthreads/backoffice-backend/pkg/enums"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
	"github.com/vietthreads/backoffice-backend/pkg/metrics"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

// StockDeductor is the slice of the ledger engine the state machine needs
// when an order enters fulfillment.
type StockDeductor interface {
	ApplyMovement(ctx context.Context, input inventory.ApplyMovementInput) (models.Product, error)
}

// TransitionPolicy decides whether a status change is allowed. The shipped
// policy permits every transition; stricter graphs plug in here.
type TransitionPolicy interface {
	Allow(from, to enums.OrderStatus) error
}

type permitAllPolicy struct{}

func (permitAllPolicy) Allow(from, to enums.OrderStatus) error { return nil }

// PermitAllTransitions returns the default transition policy.
func PermitAllTransitions() TransitionPolicy { return permitAllPolicy{} }

// SetStatusInput carries one status-change request.
type SetStatusInput struct {
	OrderID string
	Status  enums.OrderStatus
	Reason  string
	Actor   string
}

// Service is the order status state machine.
type Service interface {
	SetStatus(ctx context.Context, input SetStatusInput) (models.Order, error)
	FindByScan(ctx context.Context, code string) (models.Order, error)
}

type service struct {
	repo      Repository
	inventory StockDeductor
	policy    TransitionPolicy
	logg      *logger.Logger
	metrics   *metrics.ServiceMetrics

	now func() time.Time
}

// NewService builds the state machine with its required collaborators.
func NewService(repo Repository, deductor StockDeductor, policy TransitionPolicy, logg *logger.Logger, m *metrics.ServiceMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deductor == nil {
		return nil, fmt.Errorf("stock deductor required")
	}
	if policy == nil {
		policy = PermitAllTransitions()
	}
	return &service{
		repo:      repo,
		inventory: deductor,
		policy:    policy,
		logg:      logg,
		metrics:   m,
		now:       time.Now,
	}, nil
}

// SetStatus applies one status transition. Entering processing for the first
// time deducts stock for every line item, exactly once per order; the guard
// is the current status, so an order already processing never re-deducts.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (models.Order, error) {
	if strings.TrimSpace(input.OrderID) == "" {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Status.IsValid() {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.Status))
	}

	actor := input.Actor
	if actor == "" {
		actor = "Admin"
	}

	updated, err := s.repo.Update(ctx, input.OrderID, func(o *models.Order) error {
		if err := s.policy.Allow(o.Status, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "transition rejected")
		}

		if input.Status == enums.OrderStatusProcessing && o.Status != enums.OrderStatusProcessing {
			s.deductStock(ctx, o)
		}

		o.StatusHistory = append(o.StatusHistory, models.StatusLog{
			Status:    input.Status,
			UpdatedAt: s.now().UTC(),
			UpdatedBy: actor,
			Note:      input.Reason,
		})
		o.Status = input.Status
		if input.Reason != "" {
			o.ReturnReason = input.Reason
		}
		return nil
	})
	if err != nil {
		if s.logg != nil && pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
			s.logg.Warn(s.logg.WithOrderID(ctx, input.OrderID), "status change skipped, order unknown")
		}
		return models.Order{}, err
	}

	if s.logg != nil {
		lctx := s.logg.WithOrderID(ctx, input.OrderID)
		lctx = s.logg.WithActor(lctx, actor)
		s.logg.Info(s.logg.WithField(lctx, "status", input.Status.String()), "order status updated")
	}
	s.metrics.IncTransition(input.Status.String())
	return updated, nil
}

// deductStock appends one sale movement per line item. Line items pointing
// at products that left the catalog are logged and skipped, matching the
// no-op propagation policy for unknown ids.
func (s *service) deductStock(ctx context.Context, o *models.Order) {
	for _, item := range o.Items {
		_, err := s.inventory.ApplyMovement(ctx, inventory.ApplyMovementInput{
			ProductID: item.ProductID,
			Type:      enums.MovementTypeSale,
			Quantity:  -item.Quantity,
			Note:      fmt.Sprintf("export for order %s", o.ID),
			User:      "system",
		})
		if err != nil && s.logg != nil {
			lctx := s.logg.WithOrderID(ctx, o.ID)
			lctx = s.logg.WithProductID(lctx, item.ProductID)
			s.logg.Warn(lctx, "stock deduction skipped for line item")
		}
	}
}

// FindByScan resolves a raw QR-decoded string against the order book.
func (s *service) FindByScan(ctx context.Context, code string) (models.Order, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "scan code is required")
	}
	return s.repo.Find(ctx, code)
}
