package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agencecomx/sourcing-backend/pkg/currency"
	"github.com/agencecomx/sourcing-backend/pkg/db"
	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Actor identifies the authenticated caller for catalog mutations.
type Actor struct {
	UserID uuid.UUID
	Role   enums.MemberRole
}

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, actor Actor, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, actor Actor, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, actor Actor, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SupplierID      *uuid.UUID
	Name            string
	Description     *string
	Category        enums.ProductCategory
	ImageURL        *string
	UnitPrice       decimal.Decimal
	Currency        string
	MOQ             int
	Stock           int
	Tags            []string
	DiscountMinQty  *int
	DiscountPercent *decimal.Decimal
	IsActive        bool
	Variants        []VariantInput
}

// VariantInput defines one selectable option inside a variant group.
type VariantInput struct {
	GroupName string
	Name      string
	Surcharge *decimal.Decimal
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name            *string
	Description     *string
	Category        *enums.ProductCategory
	ImageURL        *string
	UnitPrice       *decimal.Decimal
	Currency        *string
	MOQ             *int
	Stock           *int
	Tags            *[]string
	DiscountMinQty  *int
	DiscountPercent *decimal.Decimal
	ClearDiscount   bool
	IsActive        *bool
	Variants        *[]VariantInput
}

// ListProductsInput carries catalog listing filters.
type ListProductsInput struct {
	Cursor     string
	Limit      int
	Category   *enums.ProductCategory
	SupplierID *uuid.UUID
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	// IncludeInactive is honored for supplier/admin views only.
	IncludeInactive bool
}

type supplierLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error)
}

// service implements the product service.
type service struct {
	repo         *Repository
	dbClient     *db.Client
	supplierRepo supplierLoader
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, supplierRepo supplierLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if supplierRepo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{
		repo:         repo,
		dbClient:     dbClient,
		supplierRepo: supplierRepo,
	}, nil
}

// CreateProduct creates the product with its variants.
func (s *service) CreateProduct(ctx context.Context, actor Actor, input CreateProductInput) (*ProductDTO, error) {
	supplierID, err := s.resolveSupplierID(ctx, actor, input.SupplierID)
	if err != nil {
		return nil, err
	}

	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			SupplierID:      supplierID,
			Name:            strings.TrimSpace(input.Name),
			Description:     input.Description,
			Category:        input.Category,
			ImageURL:        input.ImageURL,
			UnitPrice:       input.UnitPrice,
			Currency:        strings.ToUpper(input.Currency),
			MOQ:             input.MOQ,
			Stock:           input.Stock,
			Tags:            append([]string{}, input.Tags...),
			DiscountMinQty:  input.DiscountMinQty,
			DiscountPercent: input.DiscountPercent,
			IsActive:        input.IsActive,
		}

		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if len(input.Variants) > 0 {
			if err := txRepo.ReplaceVariants(ctx, created.ID, buildVariantRows(input.Variants)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variants")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	detail, err := s.repo.GetProductDetail(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(detail), nil
}

// UpdateProduct updates an existing product and its variant rows.
func (s *service) UpdateProduct(ctx context.Context, actor Actor, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwnedProduct(ctx, actor, productID)
	if err != nil {
		return nil, err
	}

	if err := validateUpdateInput(product, input); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		applyUpdateToProduct(product, input)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.Variants != nil {
			if err := txRepo.ReplaceVariants(ctx, product.ID, buildVariantRows(*input.Variants)); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variants")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	detail, err := s.repo.GetProductDetail(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(detail), nil
}

// DeleteProduct removes a product and relies on FK cascades for variants.
func (s *service) DeleteProduct(ctx context.Context, actor Actor, productID uuid.UUID) error {
	product, err := s.loadOwnedProduct(ctx, actor, productID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, product.ID); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// GetProduct loads the public product detail.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	detail, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(detail), nil
}

// ListProducts returns a catalog page.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, productListQuery{
		Cursor:     input.Cursor,
		Limit:      input.Limit,
		Category:   input.Category,
		SupplierID: input.SupplierID,
		Search:     input.Search,
		MinPrice:   input.MinPrice,
		MaxPrice:   input.MaxPrice,
		ActiveOnly: !input.IncludeInactive,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) resolveSupplierID(ctx context.Context, actor Actor, requested *uuid.UUID) (uuid.UUID, error) {
	switch actor.Role {
	case enums.MemberRoleSupplier:
		supplier, err := s.supplierRepo.FindByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "no supplier profile for user")
			}
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}
		return supplier.ID, nil
	case enums.MemberRoleAdmin:
		if requested == nil || *requested == uuid.Nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_id is required")
		}
		if _, err := s.supplierRepo.FindByID(ctx, *requested); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
			}
			return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
		}
		return *requested, nil
	default:
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "only suppliers manage products")
	}
}

func (s *service) loadOwnedProduct(ctx context.Context, actor Actor, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if actor.Role == enums.MemberRoleAdmin {
		return product, nil
	}
	if actor.Role != enums.MemberRoleSupplier {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only suppliers manage products")
	}

	supplier, err := s.supplierRepo.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no supplier profile for user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if product.SupplierID != supplier.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to supplier")
	}
	return product, nil
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if !input.UnitPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be positive")
	}
	if !currency.Supported(input.Currency) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}
	if input.MOQ < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "moq must be at least 1")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	if err := validateDiscount(input.DiscountMinQty, input.DiscountPercent); err != nil {
		return err
	}
	return validateVariants(input.Variants)
}

func validateUpdateInput(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if input.Category != nil && !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if input.UnitPrice != nil && !input.UnitPrice.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit_price must be positive")
	}
	if input.Currency != nil && !currency.Supported(*input.Currency) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}
	if input.MOQ != nil && *input.MOQ < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "moq must be at least 1")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}

	minQty := product.DiscountMinQty
	percent := product.DiscountPercent
	if input.ClearDiscount {
		minQty, percent = nil, nil
	}
	if input.DiscountMinQty != nil {
		minQty = input.DiscountMinQty
	}
	if input.DiscountPercent != nil {
		percent = input.DiscountPercent
	}
	if err := validateDiscount(minQty, percent); err != nil {
		return err
	}

	if input.Variants != nil {
		return validateVariants(*input.Variants)
	}
	return nil
}

func validateDiscount(minQty *int, percent *decimal.Decimal) error {
	if (minQty == nil) != (percent == nil) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount requires both min_qty and percent")
	}
	if minQty == nil {
		return nil
	}
	if *minQty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount min_qty must be at least 1")
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be between 0 and 100")
	}
	return nil
}

func validateVariants(variants []VariantInput) error {
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		group := strings.TrimSpace(v.GroupName)
		name := strings.TrimSpace(v.Name)
		if group == "" || name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant group and name are required")
		}
		key := strings.ToLower(group) + "\x00" + strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate variant option")
		}
		seen[key] = struct{}{}
		if v.Surcharge != nil && v.Surcharge.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant surcharge must be non-negative")
		}
	}
	return nil
}

func buildVariantRows(variants []VariantInput) []models.ProductVariant {
	rows := make([]models.ProductVariant, len(variants))
	for i, v := range variants {
		rows[i] = models.ProductVariant{
			GroupName: strings.TrimSpace(v.GroupName),
			Name:      strings.TrimSpace(v.Name),
			Surcharge: v.Surcharge,
		}
	}
	return rows
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.UnitPrice != nil {
		product.UnitPrice = *input.UnitPrice
	}
	if input.Currency != nil {
		product.Currency = strings.ToUpper(*input.Currency)
	}
	if input.MOQ != nil {
		product.MOQ = *input.MOQ
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Tags != nil {
		product.Tags = append([]string{}, *input.Tags...)
	}
	if input.ClearDiscount {
		product.DiscountMinQty = nil
		product.DiscountPercent = nil
	}
	if input.DiscountMinQty != nil {
		product.DiscountMinQty = input.DiscountMinQty
	}
	if input.DiscountPercent != nil {
		product.DiscountPercent = input.DiscountPercent
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
