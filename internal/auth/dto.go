package auth

import (
	"github.com/agencecomx/sourcing-backend/internal/users"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
)

// LoginInput carries the submitted credentials.
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput holds a self-service signup payload. Supplier signups carry
// the company fields; buyers leave them empty.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       *string
	Role        enums.MemberRole
	CompanyName string
	Country     string
	City        *string
}

// CreateSupplierInput is the admin-side supplier onboarding payload. The
// account gets a generated temporary password returned exactly once.
type CreateSupplierInput struct {
	Email       string
	FirstName   string
	LastName    string
	Phone       *string
	CompanyName string
	Country     string
	City        *string
}

// SessionDTO is the token pair plus the signed-in user.
type SessionDTO struct {
	User         *users.UserDTO `json:"user"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	RedirectTo   string         `json:"redirectTo"`
}

// CreatedSupplierDTO is the admin onboarding response.
type CreatedSupplierDTO struct {
	User         *users.UserDTO `json:"user"`
	SupplierID   string         `json:"supplierId"`
	TempPassword string         `json:"tempPassword"`
}

// RedirectTargetForRole maps a role to its post-login landing page.
func RedirectTargetForRole(role enums.MemberRole) string {
	switch role {
	case enums.MemberRoleAdmin:
		return "/admin/dashboard"
	case enums.MemberRoleSupplier:
		return "/supplier/dashboard"
	default:
		return "/marketplace"
	}
}
