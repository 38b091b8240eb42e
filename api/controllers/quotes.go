package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencecomx/sourcing-backend/api/responses"
	"github.com/agencecomx/sourcing-backend/api/validators"
	productsvc "github.com/agencecomx/sourcing-backend/internal/products"
	"github.com/agencecomx/sourcing-backend/internal/quotes"
	"github.com/agencecomx/sourcing-backend/pkg/currency"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

type addQuoteItemRequest struct {
	ProductID         uuid.UUID         `json:"product_id" validate:"required"`
	Quantity          int               `json:"quantity" validate:"required,min=1"`
	VariantSelections map[string]string `json:"variant_selections,omitempty"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type setSelectionsRequest struct {
	VariantSelections map[string]string `json:"variant_selections"`
}

type quoteLineResponse struct {
	Product           quotes.ProductSnapshot `json:"product"`
	Quantity          int                    `json:"quantity"`
	VariantSelections map[string]string      `json:"variant_selections,omitempty"`
	UnitPrice         decimal.Decimal        `json:"unit_price"`
	LineTotal         decimal.Decimal        `json:"line_total"`
	AddedAt           time.Time              `json:"added_at"`
}

type quoteResponse struct {
	Items     []quoteLineResponse `json:"items"`
	ItemCount int                 `json:"item_count"`
	Currency  string              `json:"currency"`
	Total     decimal.Decimal     `json:"total"`
}

// QuoteFetch returns the caller's quote with totals in the display currency.
func QuoteFetch(manager *quotes.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote manager unavailable"))
			return
		}

		uid, _, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		displayCurrency, err := displayCurrencyFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := manager.StoreFor(r.Context(), uid)
		payload, err := newQuoteResponse(store.Items(), displayCurrency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, payload)
	}
}

// QuoteAddItem snapshots the product and adds it to the caller's quote.
func QuoteAddItem(manager *quotes.Manager, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote manager unavailable"))
			return
		}

		uid, _, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addQuoteItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.GetProduct(r.Context(), body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.IsActive {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "product is no longer available"))
			return
		}

		store := manager.StoreFor(r.Context(), uid)
		if err := store.AddOrUpdate(r.Context(), snapshotFromProduct(product), body.Quantity, body.VariantSelections); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := newQuoteResponse(store.Items(), currency.BaseCurrency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

// QuoteSetQuantity replaces the quantity on one quote line.
func QuoteSetQuantity(manager *quotes.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote manager unavailable"))
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

		var body setQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := manager.StoreFor(r.Context(), uid)
		if err := store.SetQuantity(r.Context(), productID, body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := newQuoteResponse(store.Items(), currency.BaseCurrency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

// QuoteSetSelections replaces the variant selections on one quote line.
func QuoteSetSelections(manager *quotes.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote manager unavailable"))
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

		var body setSelectionsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := manager.StoreFor(r.Context(), uid)
		if err := store.SetVariantSelections(r.Context(), productID, body.VariantSelections); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := newQuoteResponse(store.Items(), currency.BaseCurrency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

// QuoteRemoveItem drops one line from the caller's quote.
func QuoteRemoveItem(manager *quotes.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote manager unavailable"))
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

		store := manager.StoreFor(r.Context(), uid)
		if err := store.Remove(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload, err := newQuoteResponse(store.Items(), currency.BaseCurrency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

// QuoteClear empties the caller's quote.
func QuoteClear(manager *quotes.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote manager unavailable"))
			return
		}

		uid, _, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store := manager.StoreFor(r.Context(), uid)
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

func displayCurrencyFromQuery(r *http.Request) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if code == "" {
		return currency.BaseCurrency, nil
	}
	if !currency.Supported(code) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency").
			WithDetails(map[string]any{"supported": currency.Codes()})
	}
	return code, nil
}

func snapshotFromProduct(product *productsvc.ProductDTO) quotes.ProductSnapshot {
	snapshot := quotes.ProductSnapshot{
		ProductID:  product.ID,
		SupplierID: product.SupplierID,
		Name:       product.Name,
		Category:   product.Category,
		ImageURL:   product.ImageURL,
		UnitPrice:  product.UnitPrice,
		Currency:   product.Currency,
		MOQ:        product.MOQ,
		Stock:      product.Stock,
		Tags:       append([]string{}, product.Tags...),
	}

	if product.Supplier != nil {
		snapshot.SupplierName = product.Supplier.Name
	}

	if product.Discount != nil {
		snapshot.Discount = &quotes.DiscountRule{
			MinQty:  product.Discount.MinQty,
			Percent: product.Discount.Percent,
		}
	}

	if len(product.Variants) > 0 {
		snapshot.Variants = make([]quotes.VariantOption, len(product.Variants))
		for i, v := range product.Variants {
			snapshot.Variants[i] = quotes.VariantOption{
				GroupName: v.GroupName,
				Name:      v.Name,
				Surcharge: v.Surcharge,
			}
		}
	}

	return snapshot
}

func newQuoteResponse(items []quotes.QuoteItem, displayCurrency string) (*quoteResponse, error) {
	payload := &quoteResponse{
		Items:    make([]quoteLineResponse, 0, len(items)),
		Currency: displayCurrency,
		Total:    decimal.Zero,
	}

	for _, item := range items {
		unit, err := currency.Convert(quotes.EffectiveUnitPrice(item), item.Snapshot.Currency, displayCurrency)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "convert unit price")
		}
		lineTotal, err := currency.Convert(quotes.LineTotal(item), item.Snapshot.Currency, displayCurrency)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "convert line total")
		}

		payload.Items = append(payload.Items, quoteLineResponse{
			Product:           item.Snapshot,
			Quantity:          item.Quantity,
			VariantSelections: item.VariantSelections,
			UnitPrice:         currency.Display(unit),
			LineTotal:         currency.Display(lineTotal),
			AddedAt:           item.AddedAt,
		})
		payload.ItemCount += item.Quantity
		payload.Total = payload.Total.Add(lineTotal)
	}

	payload.Total = currency.Display(payload.Total)
	return payload, nil
}
