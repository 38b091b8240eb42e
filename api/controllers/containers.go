package controllers

import (
	"net/http"
	"time"

	"github.com/agencecomx/sourcing-backend/api/responses"
	"github.com/agencecomx/sourcing-backend/api/validators"
	containersvc "github.com/agencecomx/sourcing-backend/internal/containers"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

type createContainerRequest struct {
	Name                   string    `json:"name" validate:"required"`
	DepartureLocation      string    `json:"departure_location" validate:"required"`
	ArrivalLocation        string    `json:"arrival_location" validate:"required"`
	EstimatedDepartureDate time.Time `json:"estimated_departure_date" validate:"required"`
	TotalCapacity          float64   `json:"total_capacity" validate:"required,gt=0"`
}

type admitRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

// AdminCreateContainer opens a new shipment container.
func AdminCreateContainer(svc containersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "container service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createContainerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateContainer(r.Context(), containersvc.Actor{UserID: uid, Role: role}, containersvc.CreateContainerInput{
			Name:                   body.Name,
			DepartureLocation:      body.DepartureLocation,
			ArrivalLocation:        body.ArrivalLocation,
			EstimatedDepartureDate: body.EstimatedDepartureDate,
			TotalCapacity:          body.TotalCapacity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListContainers serves the container board, optionally active-only.
func ListContainers(svc containersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "container service unavailable"))
			return
		}

		activeOnly, err := validators.ParseQueryBool(r, "active_only", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListContainers(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetContainer returns one container with its remaining capacity.
func GetContainer(svc containersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "container service unavailable"))
			return
		}

		containerID, err := validators.PathUUID(r, "containerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetContainer(r.Context(), containerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdmitToContainer reserves capacity on a container, clamping at the cap.
func AdmitToContainer(svc containersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "container service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		containerID, err := validators.PathUUID(r, "containerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body admitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseBodyUUID(body.ProductID, "invalid product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Admit(r.Context(), containersvc.Actor{UserID: uid, Role: role}, containersvc.AdmitInput{
			ContainerID: containerID,
			ProductID:   productID,
			Quantity:    body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminListContainerItems exposes the admission ledger for one container.
func AdminListContainerItems(svc containersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "container service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		containerID, err := validators.PathUUID(r, "containerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListItems(r.Context(), containersvc.Actor{UserID: uid, Role: role}, containerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// MyReservations returns the caller's own container reservations.
func MyReservations(svc containersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "container service unavailable"))
			return
		}

		uid, _, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListReservations(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
