package containers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agencecomx/sourcing-backend/pkg/db"
	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies the authenticated caller for container operations.
type Actor struct {
	UserID uuid.UUID
	Role   enums.MemberRole
}

// Service exposes container management and capacity admission.
type Service interface {
	CreateContainer(ctx context.Context, actor Actor, input CreateContainerInput) (*ContainerDTO, error)
	GetContainer(ctx context.Context, containerID uuid.UUID) (*ContainerDTO, error)
	ListContainers(ctx context.Context, activeOnly bool) ([]ContainerDTO, error)
	Admit(ctx context.Context, actor Actor, input AdmitInput) (*AdmissionResultDTO, error)
	AdmitInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, input AdmitInput) (*AdmissionResultDTO, error)
	ListItems(ctx context.Context, actor Actor, containerID uuid.UUID) ([]ContainerItemDTO, error)
	ListReservations(ctx context.Context, userID uuid.UUID) ([]ContainerItemDTO, error)
}

// CreateContainerInput holds the validated payload to open a container.
type CreateContainerInput struct {
	Name                   string
	DepartureLocation      string
	ArrivalLocation        string
	EstimatedDepartureDate time.Time
	TotalCapacity          float64
}

// AdmitInput is one capacity request against a container.
type AdmitInput struct {
	ContainerID uuid.UUID
	ProductID   uuid.UUID
	Quantity    float64
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a container service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("container repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// CreateContainer opens a new container. Admin only; containers are never
// deleted, they close when full.
func (s *service) CreateContainer(ctx context.Context, actor Actor, input CreateContainerInput) (*ContainerDTO, error) {
	if actor.Role != enums.MemberRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins create containers")
	}
	if err := validateCreateContainerInput(input); err != nil {
		return nil, err
	}

	container := &models.Container{
		Name:                   strings.TrimSpace(input.Name),
		DepartureLocation:      strings.TrimSpace(input.DepartureLocation),
		ArrivalLocation:        strings.TrimSpace(input.ArrivalLocation),
		EstimatedDepartureDate: input.EstimatedDepartureDate,
		TotalCapacity:          input.TotalCapacity,
		Status:                 enums.ContainerStatusActive,
	}
	created, err := s.repo.Create(ctx, container)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert container")
	}
	return NewContainerDTO(created), nil
}

// GetContainer loads one container.
func (s *service) GetContainer(ctx context.Context, containerID uuid.UUID) (*ContainerDTO, error) {
	container, err := s.repo.FindByID(ctx, containerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "container not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load container")
	}
	return NewContainerDTO(container), nil
}

// ListContainers returns containers ordered by departure date.
func (s *service) ListContainers(ctx context.Context, activeOnly bool) ([]ContainerDTO, error) {
	containers, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list containers")
	}

	dtos := make([]ContainerDTO, len(containers))
	for i := range containers {
		dtos[i] = *NewContainerDTO(&containers[i])
	}
	return dtos, nil
}

// Admit reserves capacity in its own transaction.
func (s *service) Admit(ctx context.Context, actor Actor, input AdmitInput) (*AdmissionResultDTO, error) {
	var result *AdmissionResultDTO
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		admitted, err := s.AdmitInTx(ctx, tx, actor.UserID, input)
		if err != nil {
			return err
		}
		result = admitted
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "admit capacity")
	}
	return result, nil
}

// AdmitInTx reserves capacity inside the caller's transaction. The container
// row is locked for the duration so concurrent admissions serialize and never
// act on stale used capacity. The ledger records the admitted quantity, which
// may be less than requested when the container clamps and closes.
func (s *service) AdmitInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, input AdmitInput) (*AdmissionResultDTO, error) {
	if input.ContainerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "container id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	txRepo := s.repo.WithTx(tx)

	container, err := txRepo.FindByIDForUpdate(ctx, input.ContainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "container not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock container")
	}

	admission, err := decide(container.TotalCapacity, container.UsedCapacity, container.Status, input.Quantity)
	if err != nil {
		return nil, err
	}

	if err := txRepo.UpdateCapacity(ctx, container.ID, admission.NewUsedCapacity, admission.NewStatus); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update container capacity")
	}

	if admission.AdmittedQuantity > 0 {
		item := &models.ContainerItem{
			ContainerID: container.ID,
			ProductID:   input.ProductID,
			UserID:      userID,
			Quantity:    admission.AdmittedQuantity,
		}
		if _, err := txRepo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert reservation")
		}
	}

	return &AdmissionResultDTO{
		ContainerID:       container.ID,
		RequestedQuantity: input.Quantity,
		AdmittedQuantity:  admission.AdmittedQuantity,
		PartiallyAdmitted: admission.PartiallyAdmitted,
		UsedCapacity:      admission.NewUsedCapacity,
		Status:            admission.NewStatus,
	}, nil
}

// ListItems returns a container's reservation ledger. Admin only; buyers see
// their own reservations through ListReservations.
func (s *service) ListItems(ctx context.Context, actor Actor, containerID uuid.UUID) ([]ContainerItemDTO, error) {
	if actor.Role != enums.MemberRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins view the container ledger")
	}

	items, err := s.repo.ListItems(ctx, containerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list container items")
	}
	return itemDTOs(items), nil
}

// ListReservations returns the caller's reservations across containers.
func (s *service) ListReservations(ctx context.Context, userID uuid.UUID) ([]ContainerItemDTO, error) {
	items, err := s.repo.ListItemsForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	return itemDTOs(items), nil
}

func itemDTOs(items []models.ContainerItem) []ContainerItemDTO {
	dtos := make([]ContainerItemDTO, len(items))
	for i := range items {
		dtos[i] = *NewContainerItemDTO(&items[i])
	}
	return dtos
}

func validateCreateContainerInput(input CreateContainerInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.DepartureLocation) == "" || strings.TrimSpace(input.ArrivalLocation) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "departure and arrival locations are required")
	}
	if input.EstimatedDepartureDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "estimated departure date is required")
	}
	if input.TotalCapacity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "total capacity must be positive")
	}
	return nil
}
