package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	authsvc "github.com/agencecomx/sourcing-backend/internal/auth"
	"github.com/agencecomx/sourcing-backend/internal/users"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

type stubAuthService struct {
	session  *authsvc.SessionDTO
	supplier *authsvc.CreatedSupplierDTO
	user     *users.UserDTO
	err      error
}

func (s stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.SessionDTO, error) {
	return s.session, s.err
}

func (s stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.SessionDTO, error) {
	return s.session, s.err
}

func (s stubAuthService) CreateSupplier(ctx context.Context, input authsvc.CreateSupplierInput) (*authsvc.CreatedSupplierDTO, error) {
	return s.supplier, s.err
}

func (s stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*authsvc.SessionDTO, error) {
	return s.session, s.err
}

func (s stubAuthService) Logout(ctx context.Context, accessID string) error {
	return s.err
}

func (s stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	session := &authsvc.SessionDTO{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		RedirectTo:   "/marketplace",
	}
	handler := AuthLogin(stubAuthService{session: session}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"buyer@example.com","password":"Secret#1"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"accessToken"`
			RedirectTo  string `json:"redirectTo"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("expected access token in payload got %+v", envelope.Data)
	}
	if envelope.Data.RedirectTo != "/marketplace" {
		t.Fatalf("expected redirect target got %s", envelope.Data.RedirectTo)
	}
}

func TestAuthLoginInvalidPayload(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"not-an-email"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	handler := AuthLogin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"buyer@example.com","password":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRegisterRejectsAdminRole(t *testing.T) {
	handler := AuthRegister(stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(`{"email":"new@example.com","password":"Secret#123","first_name":"New","last_name":"User","role":"admin"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
