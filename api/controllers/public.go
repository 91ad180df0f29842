package controllers

import (
	"net/http"
	"strings"

	"github.com/distributech/distributech-backend/api/responses"
	ordersvc "github.com/distributech/distributech-backend/internal/orders"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
	"github.com/distributech/distributech-backend/pkg/logger"
)

// PublicListOrders serves the unauthenticated read-only order mirror. It
// reads straight from the repository because no actor scoping applies.
func PublicListOrders(repo ordersvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := ordersvc.ListFilters{
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
		}
		rows, err := repo.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders"))
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// PublicListOrderStatuses serves the status history mirror. The order_id
// query parameter is required.
func PublicListOrderStatuses(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if orderID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_id filter required"))
			return
		}

		rows, err := svc.ListStatuses(r.Context(), *orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
