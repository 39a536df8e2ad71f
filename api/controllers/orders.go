package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vietthreads/backoffice-backend/api/responses"
	"github.com/vietthreads/backoffice-backend/api/validators"
	"github.com/vietthreads/backoffice-backend/internal/invoices"
	ordersvc "github.com/vietthreads/backoffice-backend/internal/orders"
	"github.com/vietthreads/backoffice-backend/pkg/enums"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
	"github.com/vietthreads/backoffice-backend/pkg/pagination"
)

// ListOrders returns a cursor page of orders, optionally filtered by status
// and a free-text search over id, customer name and phone.
func ListOrders(repo ordersvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := ordersvc.ListFilters{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 120),
		}
		if raw := validators.SanitizeString(r.URL.Query().Get("status"), 40); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status").WithDetails(map[string]any{"status": raw}))
				return
			}
			filters.Status = &status
		}

		page, err := repo.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

func GetOrder(repo ordersvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "orderId")

		order, err := repo.Find(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// SetOrderStatus applies one status transition to an order.
func SetOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload setStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.SetStatus(r.Context(), ordersvc.SetStatusInput{
			OrderID: chi.URLParam(r, "orderId"),
			Status:  status,
			Reason:  validators.SanitizeString(payload.Reason, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// ScanOrder resolves a raw QR-decoded code against the order book.
func ScanOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.FindByScan(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderInvoice returns the printable invoice snapshot for an order.
func OrderInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoice, err := svc.BuildInvoice(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invoice)
	}
}
