package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/vietthreads/backoffice-backend/pkg/enums"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
	"github.com/vietthreads/backoffice-backend/pkg/metrics"
	"github.com/vietthreads/backoffice-backend/pkg/models"
)

// OversellPolicy names how the ledger engine treats a deduction that would
// push stock below zero. Only clamping ships today; the engine consults the
// policy so a rejecting variant can be added without restructuring.
type OversellPolicy string

const (
	// OversellClampToZero absorbs the shortfall: stock floors at zero and
	// the movement records the clamped delta's effect.
	OversellClampToZero OversellPolicy = "clamp_to_zero"
)

// ApplyMovementInput captures one ledger mutation request.
type ApplyMovementInput struct {
	ProductID string
	Type      enums.MovementType
	Quantity  int
	Note      string
	User      string
}

// ImportLine is one row of a batch stock intake.
type ImportLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Service is the stock-movement ledger engine. All writes to the product
// store flow through it so the ledger invariant (after == before + delta ==
// live stock) holds for every appended movement.
type Service interface {
	GetProduct(ctx context.Context, id string) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ApplyMovement(ctx context.Context, input ApplyMovementInput) (models.Product, error)
	ApplyImportBatch(ctx context.Context, lines []ImportLine, note, user string) ([]models.Product, error)
	Movements(ctx context.Context, productID string) ([]models.StockMovement, error)
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.ServiceMetrics
	policy  OversellPolicy

	now   func() time.Time
	newID func() string
}

// NewService wires the ledger engine with the product repository.
func NewService(repo Repository, logg *logger.Logger, m *metrics.ServiceMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{
		repo:    repo,
		logg:    logg,
		metrics: m,
		policy:  OversellClampToZero,
		now:     time.Now,
		newID:   newMovementID,
	}, nil
}

func newMovementID() string {
	return "MOV-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *service) GetProduct(ctx context.Context, id string) (models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

func (s *service) ApplyMovement(ctx context.Context, input ApplyMovementInput) (models.Product, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !input.Type.IsValid() {
		return models.Product{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement type %q", input.Type))
	}

	user := input.User
	if user == "" {
		user = "Admin"
	}

	updated, err := s.repo.Update(ctx, input.ProductID, func(p *models.Product) error {
		now := s.now().UTC()
		before := p.Stock
		after := before + input.Quantity
		if after < 0 && s.policy == OversellClampToZero {
			after = 0
		}

		p.Movements = append(p.Movements, models.StockMovement{
			ID:        s.newID(),
			ProductID: p.ID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Before:    before,
			After:     after,
			Note:      input.Note,
			CreatedAt: now,
			User:      user,
		})
		p.Stock = after
		p.Status = enums.StockStatusFor(after, p.MinStock)
		p.LastUpdated = now
		return nil
	})
	if err != nil {
		if s.logg != nil && pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
			s.logg.Warn(s.logg.WithProductID(ctx, input.ProductID), "movement skipped, product unknown")
		}
		return models.Product{}, err
	}

	s.metrics.IncMovement(input.Type.String())
	return updated, nil
}

// ApplyImportBatch validates every product id before applying any movement,
// so a bad line mid-batch cannot leave a half-applied intake.
func (s *service) ApplyImportBatch(ctx context.Context, lines []ImportLine, note, user string) ([]models.Product, error) {
	var invalid error
	for i, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" {
			invalid = multierr.Append(invalid, fmt.Errorf("line %d: product id is required", i))
			continue
		}
		if line.Quantity <= 0 {
			invalid = multierr.Append(invalid, fmt.Errorf("line %d: quantity must be positive", i))
		}
		if !s.repo.Exists(ctx, line.ProductID) {
			invalid = multierr.Append(invalid, fmt.Errorf("line %d: unknown product %s", i, line.ProductID))
		}
	}
	if invalid != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, invalid, "import batch rejected").
			WithDetails(map[string]any{"errors": multierr.Errors(invalid)})
	}

	updated := make([]models.Product, 0, len(lines))
	for _, line := range lines {
		product, err := s.ApplyMovement(ctx, ApplyMovementInput{
			ProductID: line.ProductID,
			Type:      enums.MovementTypeImport,
			Quantity:  line.Quantity,
			Note:      note,
			User:      user,
		})
		if err != nil {
			return nil, err
		}
		updated = append(updated, product)
	}
	return updated, nil
}

// Movements returns the ledger newest-first, across all products when
// productID is empty.
func (s *service) Movements(ctx context.Context, productID string) ([]models.StockMovement, error) {
	if productID != "" {
		product, err := s.repo.Get(ctx, productID)
		if err != nil {
			return nil, err
		}
		return sortNewestFirst(product.Movements), nil
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var all []models.StockMovement
	for _, product := range products {
		all = append(all, product.Movements...)
	}
	return sortNewestFirst(all), nil
}

func sortNewestFirst(movements []models.StockMovement) []models.StockMovement {
	out := make([]models.StockMovement, len(movements))
	copy(out, movements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
