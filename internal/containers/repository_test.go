package containers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("SOURCING_DB_DSN")
	if dsn == "" {
		t.Skip("SOURCING_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestContainer(t *testing.T, tx *gorm.DB, total, used float64) *models.Container {
	t.Helper()
	container := &models.Container{
		ID:                     uuid.New(),
		Name:                   "Shenzhen to Casablanca",
		DepartureLocation:      "Shenzhen",
		ArrivalLocation:        "Casablanca",
		EstimatedDepartureDate: time.Now().AddDate(0, 1, 0),
		TotalCapacity:          total,
		UsedCapacity:           used,
		Status:                 enums.ContainerStatusActive,
	}
	if err := tx.Create(container).Error; err != nil {
		t.Fatalf("create container: %v", err)
	}
	return container
}

func TestAdmitInTxClampsAndCloses(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	ctx := context.Background()
	repo := NewRepository(tx)
	svc := &service{repo: repo}

	container := mustCreateTestContainer(t, tx, 1000, 950)
	buyerID := uuid.New()
	productID := uuid.New()

	result, err := svc.AdmitInTx(ctx, tx, buyerID, AdmitInput{
		ContainerID: container.ID,
		ProductID:   productID,
		Quantity:    100,
	})
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if result.AdmittedQuantity != 50 || !result.PartiallyAdmitted {
		t.Fatalf("expected clamped admission of 50, got %+v", result)
	}
	if result.UsedCapacity != 1000 || result.Status != enums.ContainerStatusClosed {
		t.Fatalf("expected container filled and closed, got %+v", result)
	}

	// The ledger must carry the admitted quantity, not the request.
	items, err := repo.WithTx(tx).ListItems(ctx, container.ID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 50 {
		t.Fatalf("expected one ledger row of 50, got %+v", items)
	}

	// Closed is terminal: further requests fail and leave capacity alone.
	_, err = svc.AdmitInTx(ctx, tx, buyerID, AdmitInput{
		ContainerID: container.ID,
		ProductID:   productID,
		Quantity:    1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after close, got %v", err)
	}

	reloaded, err := repo.WithTx(tx).FindByID(ctx, container.ID)
	if err != nil {
		t.Fatalf("reload container: %v", err)
	}
	if reloaded.UsedCapacity != 1000 || reloaded.Status != enums.ContainerStatusClosed {
		t.Fatalf("rejected admission must not change the row, got %+v", reloaded)
	}
}

func TestAdmitInTxUnknownContainer(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	svc := &service{repo: NewRepository(tx)}
	_, err := svc.AdmitInTx(context.Background(), tx, uuid.New(), AdmitInput{
		ContainerID: uuid.New(),
		ProductID:   uuid.New(),
		Quantity:    10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
