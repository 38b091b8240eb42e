package containers

import (
	"context"

	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates container and reservation ledger persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a container repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a container.
func (r *Repository) Create(ctx context.Context, container *models.Container) (*models.Container, error) {
	if err := r.db.WithContext(ctx).Create(container).Error; err != nil {
		return nil, err
	}
	return container, nil
}

// FindByID loads a container.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Container, error) {
	var container models.Container
	if err := r.db.WithContext(ctx).First(&container, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &container, nil
}

// FindByIDForUpdate loads a container under a row lock. Callers must run this
// inside a transaction or the lock is released immediately.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Container, error) {
	var container models.Container
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&container, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &container, nil
}

// List returns containers ordered by estimated departure, soonest first.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Container, error) {
	query := r.db.WithContext(ctx).Order("estimated_departure_date ASC")
	if activeOnly {
		query = query.Where("status = ?", enums.ContainerStatusActive)
	}

	var containers []models.Container
	if err := query.Find(&containers).Error; err != nil {
		return nil, err
	}
	return containers, nil
}

// UpdateCapacity persists the admission outcome on the container row.
func (r *Repository) UpdateCapacity(ctx context.Context, id uuid.UUID, used float64, status enums.ContainerStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.Container{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"used_capacity": used,
			"status":        status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateItem appends a reservation to the ledger.
func (r *Repository) CreateItem(ctx context.Context, item *models.ContainerItem) (*models.ContainerItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns the container's ledger, oldest first.
func (r *Repository) ListItems(ctx context.Context, containerID uuid.UUID) ([]models.ContainerItem, error) {
	var items []models.ContainerItem
	if err := r.db.WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListItemsForUser returns one user's reservations across containers.
func (r *Repository) ListItemsForUser(ctx context.Context, userID uuid.UUID) ([]models.ContainerItem, error) {
	var items []models.ContainerItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
