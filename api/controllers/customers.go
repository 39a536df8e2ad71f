package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vietthreads/backoffice-backend/api/responses"
	"github.com/vietthreads/backoffice-backend/api/validators"
	customersvc "github.com/vietthreads/backoffice-backend/internal/customers"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
)

func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := validators.SanitizeString(r.URL.Query().Get("search"), 120)

		customers, err := svc.ListCustomers(r.Context(), search)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customers)
	}
}

func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customer, err := svc.GetCustomer(r.Context(), chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customer)
	}
}
