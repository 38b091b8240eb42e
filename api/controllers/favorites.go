package controllers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/agencecomx/sourcing-backend/api/responses"
	"github.com/agencecomx/sourcing-backend/api/validators"
	"github.com/agencecomx/sourcing-backend/internal/favorites"
	productsvc "github.com/agencecomx/sourcing-backend/internal/products"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

type favoritesResponse struct {
	ProductIDs []uuid.UUID             `json:"product_ids"`
	Products   []productsvc.ProductDTO `json:"products"`
}

type toggleFavoriteResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Favorited bool      `json:"favorited"`
}

// FavoritesList returns the caller's favorites hydrated from the catalog.
// Products removed from the catalog stay in the id list but are not hydrated.
func FavoritesList(manager *favorites.Manager, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites unavailable"))
			return
		}

		uid, _, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids := manager.StoreFor(r.Context(), uid).List()
		payload := favoritesResponse{
			ProductIDs: ids,
			Products:   make([]productsvc.ProductDTO, 0, len(ids)),
		}

		for _, id := range ids {
			product, err := products.GetProduct(r.Context(), id)
			if err != nil {
				var appErr *pkgerrors.Error
				if errors.As(err, &appErr) && appErr.Code() == pkgerrors.CodeNotFound {
					continue
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			payload.Products = append(payload.Products, *product)
		}

		responses.WriteSuccess(w, payload)
	}
}

// FavoriteToggle flips the favorite state for one product.
func FavoriteToggle(manager *favorites.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites unavailable"))
			return
		}

		uid, _, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		favorited, err := manager.StoreFor(r.Context(), uid).Toggle(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toggleFavoriteResponse{ProductID: productID, Favorited: favorited})
	}
}

// FavoriteAdd pins a product regardless of its current state.
func FavoriteAdd(manager *favorites.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites unavailable"))
			return
		}

		uid, _, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := manager.StoreFor(r.Context(), uid).Add(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toggleFavoriteResponse{ProductID: productID, Favorited: true})
	}
}

// FavoriteRemove unpins a product; removing an absent product is a no-op.
func FavoriteRemove(manager *favorites.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites unavailable"))
			return
		}

		uid, _, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := manager.StoreFor(r.Context(), uid).Remove(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toggleFavoriteResponse{ProductID: productID, Favorited: false})
	}
}
