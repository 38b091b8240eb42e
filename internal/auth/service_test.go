package auth

import (
	"strings"
	"testing"

	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:     "buyer@example.com",
		Password:  "correct-horse",
		FirstName: "Nadia",
		LastName:  "Benali",
		Role:      enums.MemberRoleBuyer,
	}
}

func TestValidateRegisterInput(t *testing.T) {
	if err := validateRegisterInput(validRegisterInput()); err != nil {
		t.Fatalf("valid buyer input rejected: %v", err)
	}

	supplier := validRegisterInput()
	supplier.Role = enums.MemberRoleSupplier
	supplier.CompanyName = "Benali Textiles"
	supplier.Country = "MA"
	if err := validateRegisterInput(supplier); err != nil {
		t.Fatalf("valid supplier input rejected: %v", err)
	}

	cases := map[string]func(*RegisterInput){
		"missing email":     func(in *RegisterInput) { in.Email = "" },
		"malformed email":   func(in *RegisterInput) { in.Email = "not-an-email" },
		"short password":    func(in *RegisterInput) { in.Password = "short" },
		"missing name":      func(in *RegisterInput) { in.FirstName = "  " },
		"admin role":        func(in *RegisterInput) { in.Role = enums.MemberRoleAdmin },
		"unknown role":      func(in *RegisterInput) { in.Role = enums.MemberRole("root") },
		"supplier, no firm": func(in *RegisterInput) { in.Role = enums.MemberRoleSupplier },
	}
	for name, mutate := range cases {
		input := validRegisterInput()
		mutate(&input)
		err := validateRegisterInput(input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestValidateSupplierInput(t *testing.T) {
	valid := CreateSupplierInput{
		Email:       "vendor@example.com",
		FirstName:   "Li",
		LastName:    "Wei",
		CompanyName: "Shenzhen Metals",
		Country:     "CN",
	}
	if err := validateSupplierInput(normalizeEmail(valid.Email), valid); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	missing := valid
	missing.CompanyName = ""
	err := validateSupplierInput(normalizeEmail(missing.Email), missing)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Buyer@Example.COM "); got != "buyer@example.com" {
		t.Fatalf("expected lowercased trimmed email, got %q", got)
	}
}

func TestRedirectTargetForRole(t *testing.T) {
	cases := map[enums.MemberRole]string{
		enums.MemberRoleAdmin:    "/admin/dashboard",
		enums.MemberRoleSupplier: "/supplier/dashboard",
		enums.MemberRoleBuyer:    "/marketplace",
	}
	for role, expected := range cases {
		if got := RedirectTargetForRole(role); got != expected {
			t.Fatalf("role %s: expected %s, got %s", role, expected, got)
		}
	}
	if got := RedirectTargetForRole(enums.MemberRole("unknown")); got != "/marketplace" {
		t.Fatalf("unknown role must land on the marketplace, got %s", got)
	}
	if !strings.HasPrefix(RedirectTargetForRole(enums.MemberRoleAdmin), "/") {
		t.Fatal("redirect targets must be absolute paths")
	}
}
