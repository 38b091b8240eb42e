package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agencecomx/sourcing-backend/api/middleware"
	containersvc "github.com/agencecomx/sourcing-backend/internal/containers"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	"gorm.io/gorm"
)

type stubContainerService struct {
	container *containersvc.ContainerDTO
	admission *containersvc.AdmissionResultDTO
	items     []containersvc.ContainerItemDTO
	err       error
}

func (s stubContainerService) CreateContainer(ctx context.Context, actor containersvc.Actor, input containersvc.CreateContainerInput) (*containersvc.ContainerDTO, error) {
	return s.container, s.err
}

func (s stubContainerService) GetContainer(ctx context.Context, containerID uuid.UUID) (*containersvc.ContainerDTO, error) {
	return s.container, s.err
}

func (s stubContainerService) ListContainers(ctx context.Context, activeOnly bool) ([]containersvc.ContainerDTO, error) {
	if s.container == nil {
		return nil, s.err
	}
	return []containersvc.ContainerDTO{*s.container}, s.err
}

func (s stubContainerService) Admit(ctx context.Context, actor containersvc.Actor, input containersvc.AdmitInput) (*containersvc.AdmissionResultDTO, error) {
	return s.admission, s.err
}

func (s stubContainerService) AdmitInTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID, input containersvc.AdmitInput) (*containersvc.AdmissionResultDTO, error) {
	return s.admission, s.err
}

func (s stubContainerService) ListItems(ctx context.Context, actor containersvc.Actor, containerID uuid.UUID) ([]containersvc.ContainerItemDTO, error) {
	return s.items, s.err
}

func (s stubContainerService) ListReservations(ctx context.Context, userID uuid.UUID) ([]containersvc.ContainerItemDTO, error) {
	return s.items, s.err
}

func admitRequestContext(t *testing.T, containerID uuid.UUID) context.Context {
	t.Helper()
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("containerID", containerID.String())
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, uuid.New().String())
	ctx = middleware.WithRole(ctx, string(enums.MemberRoleBuyer))
	return ctx
}

func TestAdmitToContainerReturnsClampedResult(t *testing.T) {
	containerID := uuid.New()
	admission := &containersvc.AdmissionResultDTO{
		ContainerID:       containerID,
		RequestedQuantity: 100,
		AdmittedQuantity:  50,
		PartiallyAdmitted: true,
		UsedCapacity:      1000,
		Status:            enums.ContainerStatusClosed,
	}

	handler := AdmitToContainer(stubContainerService{admission: admission}, nil)

	payload := fmt.Sprintf(`{"product_id":%q,"quantity":100}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/containers/"+containerID.String()+"/admit", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(admitRequestContext(t, containerID))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data containersvc.AdmissionResultDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.PartiallyAdmitted || envelope.Data.AdmittedQuantity != 50 {
		t.Fatalf("expected clamped admission got %+v", envelope.Data)
	}
}

func TestAdmitToContainerRejectsNonPositiveQuantity(t *testing.T) {
	containerID := uuid.New()
	handler := AdmitToContainer(stubContainerService{}, nil)

	payload := fmt.Sprintf(`{"product_id":%q,"quantity":0}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/containers/"+containerID.String()+"/admit", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(admitRequestContext(t, containerID))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdmitToContainerInvalidContainerID(t *testing.T) {
	handler := AdmitToContainer(stubContainerService{}, nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("containerID", "not-a-uuid")
	ctx := context.WithValue(context.Background(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithUserID(ctx, uuid.New().String())

	payload := fmt.Sprintf(`{"product_id":%q,"quantity":10}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/containers/not-a-uuid/admit", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(ctx)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
