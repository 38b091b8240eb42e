package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	apperrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/pagination"
)

// Gateway is a typed CRUD surface shared by entities that need no
// bespoke persistence logic. Domain repositories embed or wrap it and
// add their own queries on top.
type Gateway[T any] struct {
	base Base
}

// NewGateway builds a typed gateway over the provided connection.
func NewGateway[T any](db *gorm.DB) *Gateway[T] {
	return &Gateway[T]{base: NewBase(db)}
}

// Create inserts the record.
func (g *Gateway[T]) Create(ctx context.Context, record *T) error {
	if record == nil {
		return apperrors.New(apperrors.CodeValidation, "record is required")
	}
	if err := g.base.DB(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("creating record: %w", err)
	}
	return nil
}

// GetByID loads a record by primary key.
func (g *Gateway[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	if id == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "id is required")
	}
	var record T
	if err := g.base.DB(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
		}
		return nil, fmt.Errorf("loading record %s: %w", id, err)
	}
	return &record, nil
}

// ListQuery filters, orders, and pages a collection listing. Cursors encode
// a created_at/id keyset and assume the default recency ordering.
type ListQuery struct {
	Filters map[string]any
	OrderBy string
	Limit   int
	Cursor  string
}

// ListPage is one page of records plus the cursor for the next page.
type ListPage[T any] struct {
	Items      []T
	NextCursor string
}

// List returns a page of records matching the query filters.
func (g *Gateway[T]) List(ctx context.Context, query ListQuery) (*ListPage[T], error) {
	normalizedLimit := pagination.NormalizeLimit(query.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(query.Cursor))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeValidation, err, "invalid cursor")
	}

	order := query.OrderBy
	if order == "" {
		order = "created_at DESC, id DESC"
	}

	scoped := func() *gorm.DB {
		q := g.base.DB(ctx).Model(new(T))
		if len(query.Filters) > 0 {
			q = q.Where(query.Filters)
		}
		if decodedCursor != nil {
			q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
		}
		return q.Order(order)
	}

	var records []T
	if err := scoped().Limit(pagination.LimitWithBuffer(query.Limit)).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	page := &ListPage[T]{Items: records}
	if len(records) > normalizedLimit {
		page.Items = records[:normalizedLimit]

		// The keyset of the page's last row becomes the continuation cursor.
		var key pagination.Cursor
		if err := scoped().
			Select("created_at", "id").
			Offset(normalizedLimit - 1).
			Limit(1).
			Scan(&key).Error; err != nil {
			return nil, fmt.Errorf("resolving page cursor: %w", err)
		}
		page.NextCursor = pagination.EncodeCursor(key)
	}
	return page, nil
}

// Update applies the column map to the record with the given ID.
func (g *Gateway[T]) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "id is required")
	}
	if len(updates) == 0 {
		return apperrors.New(apperrors.CodeValidation, "no updates provided")
	}
	var record T
	result := g.base.DB(ctx).Model(&record).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("updating record %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "record not found")
	}
	return nil
}

// Delete removes the record with the given ID.
func (g *Gateway[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "id is required")
	}
	var record T
	result := g.base.DB(ctx).Where("id = ?", id).Delete(&record)
	if result.Error != nil {
		return fmt.Errorf("deleting record %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "record not found")
	}
	return nil
}

// Search returns records whose column matches the term, case-insensitive.
func (g *Gateway[T]) Search(ctx context.Context, column, term string, limit int) ([]T, error) {
	if column == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "search column is required")
	}
	query := g.base.DB(ctx).Where(fmt.Sprintf("%s ILIKE ?", column), "%"+term+"%")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []T
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	return records, nil
}

// BatchCreate inserts every record, collecting per-record failures
// instead of stopping at the first one.
func (g *Gateway[T]) BatchCreate(ctx context.Context, records []*T) error {
	var combined error
	for i, record := range records {
		if err := g.Create(ctx, record); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("record %d: %w", i, err))
		}
	}
	return combined
}

// DeleteAll removes every listed record, collecting per-ID failures
// instead of stopping at the first one.
func (g *Gateway[T]) DeleteAll(ctx context.Context, ids []uuid.UUID) error {
	var combined error
	for _, id := range ids {
		if err := g.Delete(ctx, id); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("id %s: %w", id, err))
		}
	}
	return combined
}

// WithTx returns a gateway bound to the supplied transaction.
func (g *Gateway[T]) WithTx(tx *gorm.DB) *Gateway[T] {
	return &Gateway[T]{base: NewBase(tx)}
}
