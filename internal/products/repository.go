package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agencecomx/sourcing-backend/internal/repo"
	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/agencecomx/sourcing-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository wraps the generic gateway with catalog queries.
type Repository struct {
	*repo.Gateway[models.Product]
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Gateway: repo.NewGateway[models.Product](db),
		db:      db,
	}
}

// WithTx rebinds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{
		Gateway: r.Gateway.WithTx(tx),
		db:      tx,
	}
}

// CreateProduct inserts a product together with its variants.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the full product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail loads a product with its variants and supplier.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Supplier").
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product. FK cascades clean up variants.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.Delete(ctx, id)
}

// ReplaceVariants swaps the product's variant rows for the provided set.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		variants[i].ProductID = productID
	}
	return r.db.WithContext(ctx).Create(&variants).Error
}

// AdjustStock decrements available stock, refusing to go negative.
func (r *Repository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type productListQuery struct {
	Cursor     string
	Limit      int
	Category   *enums.ProductCategory
	SupplierID *uuid.UUID
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	ActiveOnly bool
}

// ListProducts returns a cursor-paginated catalog page.
func (r *Repository) ListProducts(ctx context.Context, query productListQuery) (*ProductListResult, error) {
	normalizedLimit := pagination.NormalizeLimit(query.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Limit)
	cursorValue := strings.TrimSpace(query.Cursor)
	decodedCursor, err := pagination.ParseCursor(cursorValue)
	if err != nil {
		return nil, err
	}

	dataQuery := r.applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), query).
		Preload("Variants").
		Preload("Supplier")

	if decodedCursor != nil {
		dataQuery = dataQuery.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	dataQuery = dataQuery.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer)

	var records []models.Product
	if err := dataQuery.Find(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > normalizedLimit {
		resultRows = records[:normalizedLimit]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	items := make([]ProductDTO, 0, len(resultRows))
	for i := range resultRows {
		items = append(items, *NewProductDTO(&resultRows[i]))
	}

	totalCount, err := r.countProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	firstCursor, err := r.fetchBoundaryCursor(ctx, query, true)
	if err != nil {
		return nil, err
	}
	lastCursor, err := r.fetchBoundaryCursor(ctx, query, false)
	if err != nil {
		return nil, err
	}

	prevCursor := ""
	if cursorValue != "" {
		prevCursor = cursorValue
	}

	return &ProductListResult{
		Items: items,
		Pagination: ProductPagination{
			Page:    1,
			Total:   int(totalCount),
			Current: cursorValue,
			First:   firstCursor,
			Last:    lastCursor,
			Prev:    prevCursor,
			Next:    nextCursor,
		},
	}, nil
}

func (r *Repository) applyFilters(db *gorm.DB, query productListQuery) *gorm.DB {
	if query.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if query.Category != nil {
		db = db.Where("category = ?", *query.Category)
	}
	if query.SupplierID != nil {
		db = db.Where("supplier_id = ?", *query.SupplierID)
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		db = db.Where("lower(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if query.MinPrice != nil {
		db = db.Where("unit_price >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		db = db.Where("unit_price <= ?", *query.MaxPrice)
	}
	return db
}

func (r *Repository) countProducts(ctx context.Context, query productListQuery) (int64, error) {
	var count int64
	if err := r.applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), query).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repository) fetchBoundaryCursor(ctx context.Context, query productListQuery, ascending bool) (string, error) {
	order := "created_at DESC, id DESC"
	if ascending {
		order = "created_at ASC, id ASC"
	}

	var row struct {
		CreatedAt time.Time
		ID        uuid.UUID
	}

	boundary := r.applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), query).
		Select("created_at", "id").
		Order(order).
		Limit(1)

	if err := boundary.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	return pagination.EncodeCursor(pagination.Cursor{
		CreatedAt: row.CreatedAt,
		ID:        row.ID,
	}), nil
}
