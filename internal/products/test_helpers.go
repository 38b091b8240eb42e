package product

import (
	"fmt"
	"testing"

	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func mustCreateTestUser(t *testing.T, tx *gorm.DB, role enums.MemberRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("sourcing_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    "Repo",
		LastName:     "Tester",
		Role:         role,
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestSupplier(t *testing.T, tx *gorm.DB, userID uuid.UUID) *models.Supplier {
	t.Helper()
	supplier := &models.Supplier{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "Repo Supplier",
		Country:  "CN",
		Verified: true,
	}
	if err := tx.Create(supplier).Error; err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	return supplier
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, supplierID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		SupplierID: supplierID,
		Name:       "Test Product",
		Category:   enums.ProductCategoryElectronics,
		UnitPrice:  decimal.RequireFromString("10"),
		Currency:   "EUR",
		MOQ:        1,
		Stock:      500,
		IsActive:   true,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func stringPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}
