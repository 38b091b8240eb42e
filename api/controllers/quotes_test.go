package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/agencecomx/sourcing-backend/api/middleware"
	productsvc "github.com/agencecomx/sourcing-backend/internal/products"
	"github.com/agencecomx/sourcing-backend/internal/quotes"
	"github.com/agencecomx/sourcing-backend/pkg/kv"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
)

type stubProductService struct {
	product *productsvc.ProductDTO
	err     error
}

func (s stubProductService) CreateProduct(ctx context.Context, actor productsvc.Actor, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s stubProductService) UpdateProduct(ctx context.Context, actor productsvc.Actor, productID uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s stubProductService) DeleteProduct(ctx context.Context, actor productsvc.Actor, productID uuid.UUID) error {
	return s.err
}

func (s stubProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s stubProductService) ListProducts(ctx context.Context, input productsvc.ListProductsInput) (*productsvc.ProductListResult, error) {
	return nil, s.err
}

func newControllerTestManager(t *testing.T) *quotes.Manager {
	t.Helper()
	logg := logger.New(logger.Options{
		ServiceName: "controllers-test",
		Level:       zerolog.ErrorLevel,
		Output:      &bytes.Buffer{},
	})
	manager, err := quotes.NewManager(kv.NewMemoryStore(), logg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager
}

func catalogProduct(active bool) *productsvc.ProductDTO {
	return &productsvc.ProductDTO{
		ID:         uuid.New(),
		SupplierID: uuid.New(),
		Name:       "Bamboo Cutlery Set",
		Category:   "home_goods",
		UnitPrice:  decimal.RequireFromString("2.40"),
		Currency:   "EUR",
		MOQ:        50,
		Stock:      5000,
		IsActive:   active,
	}
}

func TestQuoteAddItemSnapshotsProduct(t *testing.T) {
	manager := newControllerTestManager(t)
	product := catalogProduct(true)
	buyerID := uuid.New()

	handler := QuoteAddItem(manager, stubProductService{product: product}, nil)

	payload := fmt.Sprintf(`{"product_id":%q,"quantity":100}`, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote/items", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), buyerID.String()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data quoteResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ItemCount != 100 {
		t.Fatalf("expected 100 units got %d", envelope.Data.ItemCount)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected one line got %d", len(envelope.Data.Items))
	}
	if envelope.Data.Items[0].Product.Name != product.Name {
		t.Fatalf("expected snapshot of %q got %q", product.Name, envelope.Data.Items[0].Product.Name)
	}

	store := manager.StoreFor(context.Background(), buyerID)
	if !store.Contains(product.ID) {
		t.Fatal("expected quote to contain the product")
	}
}

func TestQuoteAddItemRejectsInactiveProduct(t *testing.T) {
	manager := newControllerTestManager(t)
	product := catalogProduct(false)

	handler := QuoteAddItem(manager, stubProductService{product: product}, nil)

	payload := fmt.Sprintf(`{"product_id":%q,"quantity":100}`, product.ID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote/items", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestQuoteFetchRejectsUnsupportedCurrency(t *testing.T) {
	manager := newControllerTestManager(t)

	handler := QuoteFetch(manager, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote?currency=XXX", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteRequiresAuthenticatedUser(t *testing.T) {
	manager := newControllerTestManager(t)

	handler := QuoteFetch(manager, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quote", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
