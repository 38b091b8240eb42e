package controllers

import (
	"net/http"
	"strings"

	"github.com/agencecomx/sourcing-backend/api/responses"
	"github.com/agencecomx/sourcing-backend/api/validators"
	ordersvc "github.com/agencecomx/sourcing-backend/internal/orders"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

type placeOrderRequest struct {
	Currency  string                `json:"currency,omitempty"`
	Container *containerRequestBody `json:"container,omitempty"`
}

type containerRequestBody struct {
	ContainerID string  `json:"container_id" validate:"required,uuid"`
	ProductID   string  `json:"product_id" validate:"required,uuid"`
	CapacityCBM float64 `json:"capacity_cbm" validate:"required,gt=0"`
}

// PlaceOrder converts the caller's quote into an order at server-side prices.
func PlaceOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body placeOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := ordersvc.PlaceOrderInput{
			Currency: strings.ToUpper(strings.TrimSpace(body.Currency)),
		}

		if body.Container != nil {
			containerID, err := parseBodyUUID(body.Container.ContainerID, "invalid container id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			productID, err := parseBodyUUID(body.Container.ProductID, "invalid product id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Container = &ordersvc.ContainerRequest{
				ContainerID: containerID,
				ProductID:   productID,
				CapacityCBM: body.Container.CapacityCBM,
			}
		}

		result, err := svc.PlaceOrder(r.Context(), ordersvc.Actor{UserID: uid, Role: role}, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListOrders returns the caller's order history, newest first.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListOrders(r.Context(), ordersvc.Actor{UserID: uid, Role: role}, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetOrder returns one order visible to the caller.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.PathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetOrder(r.Context(), ordersvc.Actor{UserID: uid, Role: role}, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
