package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vietthreads/backoffice-backend/api/responses"
	"github.com/vietthreads/backoffice-backend/api/validators"
	"github.com/vietthreads/backoffice-backend/internal/inventory"
	"github.com/vietthreads/backoffice-backend/pkg/enums"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
)

func ListProducts(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListMovements returns the ledger newest-first, across every product unless
// scoped with ?productId=.
func ListMovements(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := validators.SanitizeString(r.URL.Query().Get("productId"), 40)

		movements, err := svc.Movements(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, movements)
	}
}

type createMovementRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Type      string `json:"type" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
	Note      string `json:"note,omitempty" validate:"omitempty,max=500"`
	User      string `json:"user,omitempty" validate:"omitempty,max=80"`
}

// CreateMovement appends one manual adjustment to a product's ledger.
func CreateMovement(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload createMovementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movementType, err := enums.ParseMovementType(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
			return
		}

		product, err := svc.ApplyMovement(r.Context(), inventory.ApplyMovementInput{
			ProductID: payload.ProductID,
			Type:      movementType,
			Quantity:  payload.Quantity,
			Note:      validators.SanitizeString(payload.Note, 500),
			User:      validators.SanitizeString(payload.User, 80),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type importBatchRequest struct {
	Lines []inventory.ImportLine `json:"lines" validate:"dive"`
	Note  string                 `json:"note,omitempty" validate:"omitempty,max=500"`
	User  string                 `json:"user,omitempty" validate:"omitempty,max=80"`
}

// ImportBatch applies a stock intake across several products. The whole
// batch is validated before any line lands; an empty batch is a valid no-op.
func ImportBatch(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var payload importBatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user := validators.SanitizeString(payload.User, 80)
		if user == "" {
			user = "Kho_Manager"
		}

		products, err := svc.ApplyImportBatch(r.Context(), payload.Lines,
			validators.SanitizeString(payload.Note, 500), user)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, products)
	}
}
