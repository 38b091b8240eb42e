package product

import (
	"context"
	"testing"

	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"github.com/google/uuid"
)

func TestRepositoryProductFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	user := mustCreateTestUser(t, tx, enums.MemberRoleSupplier)
	supplier := mustCreateTestSupplier(t, tx, user.ID)
	product := mustCreateTestProduct(t, tx, supplier.ID)

	if product.ID == uuid.Nil {
		t.Fatal("expected product id to be generated")
	}

	if err := repo.ReplaceVariants(ctx, product.ID, []models.ProductVariant{
		{GroupName: "Color", Name: "Red"},
		{GroupName: "Color", Name: "Blue", Surcharge: decimalPtr("0.50")},
	}); err != nil {
		t.Fatalf("replace variants: %v", err)
	}

	detail, err := repo.GetProductDetail(ctx, product.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Supplier == nil || detail.Supplier.ID != supplier.ID {
		t.Fatalf("expected supplier preloaded")
	}
	if len(detail.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(detail.Variants))
	}

	detail.Name = "Updated Name"
	if _, err := repo.UpdateProduct(ctx, detail); err != nil {
		t.Fatalf("update product: %v", err)
	}

	fetched, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if fetched.Name != "Updated Name" {
		t.Fatalf("expected updated name, got %s", fetched.Name)
	}

	page, err := repo.ListProducts(ctx, productListQuery{SupplierID: &supplier.ID, ActiveOnly: true})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(page.Items) == 0 {
		t.Fatal("expected at least one product in listing")
	}

	// unit price is 10; the band should include it, the floor should not
	banded, err := repo.ListProducts(ctx, productListQuery{
		SupplierID: &supplier.ID,
		MinPrice:   decimalPtr("5"),
		MaxPrice:   decimalPtr("15"),
	})
	if err != nil {
		t.Fatalf("list products by price band: %v", err)
	}
	if len(banded.Items) != 1 {
		t.Fatalf("expected price band to match product, got %d items", len(banded.Items))
	}
	priced, err := repo.ListProducts(ctx, productListQuery{
		SupplierID: &supplier.ID,
		MinPrice:   decimalPtr("50"),
	})
	if err != nil {
		t.Fatalf("list products above floor: %v", err)
	}
	if len(priced.Items) != 0 {
		t.Fatalf("expected no products above price floor, got %d", len(priced.Items))
	}

	if err := repo.AdjustStock(ctx, product.ID, -100); err != nil {
		t.Fatalf("adjust stock: %v", err)
	}
	if err := repo.AdjustStock(ctx, product.ID, -100000); err == nil {
		t.Fatal("expected stock floor to reject over-decrement")
	}

	if err := repo.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
}
