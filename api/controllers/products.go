package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agencecomx/sourcing-backend/api/responses"
	"github.com/agencecomx/sourcing-backend/api/validators"
	productsvc "github.com/agencecomx/sourcing-backend/internal/products"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListProducts serves the marketplace catalog with cursor pagination.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplierID, err := validators.QueryUUID(r, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.ListProductsInput{
			Cursor:     r.URL.Query().Get("cursor"),
			Limit:      limit,
			SupplierID: supplierID,
			Search:     strings.TrimSpace(r.URL.Query().Get("q")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, err := enums.ParseProductCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			input.Category = &category
		}

		minPrice, err := queryPrice(r, "min_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.MinPrice = minPrice

		maxPrice, err := queryPrice(r, "max_price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.MaxPrice = maxPrice

		// Inactive products are only visible to staff and supplier views.
		_, role, actorErr := requestActor(r)
		if actorErr == nil && (role == enums.MemberRoleAdmin || role == enums.MemberRoleSupplier) {
			includeInactive, err := validators.ParseQueryBool(r, "include_inactive", false)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.IncludeInactive = includeInactive
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func queryPrice(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return &value, nil
}

// GetProduct returns one catalog product by id.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := validators.PathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SupplierCreateProduct handles catalog creation for suppliers and admins.
func SupplierCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateProduct(r.Context(), productsvc.Actor{UserID: uid, Role: role}, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// SupplierUpdateProduct applies a partial update to an owned product.
func SupplierUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateProduct(r.Context(), productsvc.Actor{UserID: uid, Role: role}, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SupplierDeleteProduct removes an owned product from the catalog.
func SupplierDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		uid, role, err := requestActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productsvc.Actor{UserID: uid, Role: role}, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type createProductRequest struct {
	SupplierID  *string          `json:"supplier_id,omitempty"`
	Name        string           `json:"name" validate:"required"`
	Description *string          `json:"description,omitempty"`
	Category    string           `json:"category" validate:"required"`
	ImageURL    *string          `json:"image_url,omitempty"`
	UnitPrice   decimal.Decimal  `json:"unit_price" validate:"required"`
	Currency    string           `json:"currency" validate:"required,len=3"`
	MOQ         int              `json:"moq" validate:"required,min=1"`
	Stock       int              `json:"stock" validate:"min=0"`
	Tags        []string         `json:"tags,omitempty"`
	Discount    *discountRequest `json:"discount,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	Variants    []variantRequest `json:"variants,omitempty"`
}

type discountRequest struct {
	MinQty  int             `json:"min_qty" validate:"required,min=1"`
	Percent decimal.Decimal `json:"percent" validate:"required"`
}

type variantRequest struct {
	GroupName string           `json:"group_name" validate:"required"`
	Name      string           `json:"name" validate:"required"`
	Surcharge *decimal.Decimal `json:"surcharge,omitempty"`
}

type updateProductRequest struct {
	Name          *string           `json:"name,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Category      *string           `json:"category,omitempty"`
	ImageURL      *string           `json:"image_url,omitempty"`
	UnitPrice     *decimal.Decimal  `json:"unit_price,omitempty"`
	Currency      *string           `json:"currency,omitempty"`
	MOQ           *int              `json:"moq,omitempty" validate:"omitempty,min=1"`
	Stock         *int              `json:"stock,omitempty" validate:"omitempty,min=0"`
	Tags          *[]string         `json:"tags,omitempty"`
	Discount      *discountRequest  `json:"discount,omitempty"`
	ClearDiscount bool              `json:"clear_discount,omitempty"`
	IsActive      *bool             `json:"is_active,omitempty"`
	Variants      *[]variantRequest `json:"variants,omitempty"`
}

func (r createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	category, err := enums.ParseProductCategory(strings.TrimSpace(r.Category))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}

	var supplierID *uuid.UUID
	if r.SupplierID != nil {
		parsed, err := uuid.Parse(strings.TrimSpace(*r.SupplierID))
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid supplier id")
		}
		supplierID = &parsed
	}

	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	input := productsvc.CreateProductInput{
		SupplierID:  supplierID,
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Category:    category,
		ImageURL:    r.ImageURL,
		UnitPrice:   r.UnitPrice,
		Currency:    strings.ToUpper(strings.TrimSpace(r.Currency)),
		MOQ:         r.MOQ,
		Stock:       r.Stock,
		Tags:        r.Tags,
		IsActive:    isActive,
		Variants:    toVariantInputs(r.Variants),
	}

	if r.Discount != nil {
		minQty := r.Discount.MinQty
		percent := r.Discount.Percent
		input.DiscountMinQty = &minQty
		input.DiscountPercent = &percent
	}

	return input, nil
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		Name:          r.Name,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		UnitPrice:     r.UnitPrice,
		MOQ:           r.MOQ,
		Stock:         r.Stock,
		Tags:          r.Tags,
		ClearDiscount: r.ClearDiscount,
		IsActive:      r.IsActive,
	}

	if r.Category != nil {
		category, err := enums.ParseProductCategory(strings.TrimSpace(*r.Category))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
		}
		input.Category = &category
	}

	if r.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*r.Currency))
		input.Currency = &code
	}

	if r.Discount != nil {
		minQty := r.Discount.MinQty
		percent := r.Discount.Percent
		input.DiscountMinQty = &minQty
		input.DiscountPercent = &percent
	}

	if r.Variants != nil {
		variants := toVariantInputs(*r.Variants)
		input.Variants = &variants
	}

	return input, nil
}

func toVariantInputs(payload []variantRequest) []productsvc.VariantInput {
	variants := make([]productsvc.VariantInput, len(payload))
	for i, v := range payload {
		variants[i] = productsvc.VariantInput{
			GroupName: strings.TrimSpace(v.GroupName),
			Name:      strings.TrimSpace(v.Name),
			Surcharge: v.Surcharge,
		}
	}
	return variants
}
