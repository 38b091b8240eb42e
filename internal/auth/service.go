package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agencecomx/sourcing-backend/internal/suppliers"
	"github.com/agencecomx/sourcing-backend/internal/users"
	pkgauth "github.com/agencecomx/sourcing-backend/pkg/auth"
	"github.com/agencecomx/sourcing-backend/pkg/auth/session"
	"github.com/agencecomx/sourcing-backend/pkg/config"
	"github.com/agencecomx/sourcing-backend/pkg/db"
	"github.com/agencecomx/sourcing-backend/pkg/db/models"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
	"github.com/agencecomx/sourcing-backend/pkg/logger"
	"github.com/agencecomx/sourcing-backend/pkg/security"
)

const (
	minPasswordLength  = 8
	tempPasswordLength = 16
)

// Service exposes the authentication surface.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*SessionDTO, error)
	Register(ctx context.Context, input RegisterInput) (*SessionDTO, error)
	CreateSupplier(ctx context.Context, input CreateSupplierInput) (*CreatedSupplierDTO, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*SessionDTO, error)
	Logout(ctx context.Context, accessID string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

type service struct {
	users     *users.Repository
	suppliers *suppliers.Repository
	sessions  *session.Manager
	dbClient  *db.Client
	cfg       *config.Config
	logg      *logger.Logger
}

// NewService constructs an auth service instance. Login/register rate limits
// live in the HTTP middleware, not here.
func NewService(userRepo *users.Repository, supplierRepo *suppliers.Repository, sessions *session.Manager, dbClient *db.Client, cfg *config.Config, logg *logger.Logger) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if supplierRepo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		users:     userRepo,
		suppliers: supplierRepo,
		sessions:  sessions,
		dbClient:  dbClient,
		cfg:       cfg,
		logg:      logg,
	}, nil
}

// Login verifies the credentials and opens a session. Failures never reveal
// whether the email exists.
func (s *service) Login(ctx context.Context, input LoginInput) (*SessionDTO, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is inactive")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "updating last login", err)
	}

	return s.openSession(ctx, user)
}

// Register creates a buyer or supplier account and signs it in.
func (s *service) Register(ctx context.Context, input RegisterInput) (*SessionDTO, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}

	hash, err := security.HashPassword(input.Password, s.cfg.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.users.WithTx(tx).Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
			Phone:        input.Phone,
			Role:         input.Role,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
		}
		user = created

		if input.Role == enums.MemberRoleSupplier {
			if _, err := s.suppliers.WithTx(tx).Create(ctx, &models.Supplier{
				UserID:  created.ID,
				Name:    strings.TrimSpace(input.CompanyName),
				Country: strings.TrimSpace(input.Country),
				City:    input.City,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier profile")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register")
	}

	return s.openSession(ctx, user)
}

// CreateSupplier onboards a supplier account server-side with a generated
// temporary password. Running on the server keeps the admin's own session
// untouched. Role enforcement happens at the route layer.
func (s *service) CreateSupplier(ctx context.Context, input CreateSupplierInput) (*CreatedSupplierDTO, error) {
	email := normalizeEmail(input.Email)
	if err := validateSupplierInput(email, input); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}

	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temp password")
	}
	hash, err := security.HashPassword(tempPassword, s.cfg.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var user *models.User
	var supplier *models.Supplier
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.users.WithTx(tx).Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: hash,
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
			Phone:        input.Phone,
			Role:         enums.MemberRoleSupplier,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert user")
		}
		user = created

		profile, err := s.suppliers.WithTx(tx).Create(ctx, &models.Supplier{
			UserID:  created.ID,
			Name:    strings.TrimSpace(input.CompanyName),
			Country: strings.TrimSpace(input.Country),
			City:    input.City,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier profile")
		}
		supplier = profile
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}

	return &CreatedSupplierDTO{
		User:         users.FromModel(user),
		SupplierID:   supplier.ID.String(),
		TempPassword: tempPassword,
	}, nil
}

// Refresh rotates the session and mints a fresh token pair. The expired
// access token is accepted solely to recover the session identifier.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*SessionDTO, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.cfg.JWT, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is inactive")
	}

	token, err := pkgauth.MintAccessToken(s.cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &SessionDTO{
		User:         users.FromModel(user),
		AccessToken:  token,
		RefreshToken: newRefresh,
		RedirectTo:   RedirectTargetForRole(user.Role),
	}, nil
}

// Logout revokes the caller's session. Revoking twice is harmless.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Me returns the signed-in user's profile.
func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) openSession(ctx context.Context, user *models.User) (*SessionDTO, error) {
	accessID := session.NewAccessID()
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	token, err := pkgauth.MintAccessToken(s.cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &SessionDTO{
		User:         users.FromModel(user),
		AccessToken:  token,
		RefreshToken: refreshToken,
		RedirectTo:   RedirectTargetForRole(user.Role),
	}, nil
}

func validateRegisterInput(input RegisterInput) error {
	if err := validateEmail(input.Email); err != nil {
		return err
	}
	if len(input.Password) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	switch input.Role {
	case enums.MemberRoleBuyer:
		return nil
	case enums.MemberRoleSupplier:
		if strings.TrimSpace(input.CompanyName) == "" || strings.TrimSpace(input.Country) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "company name and country are required for suppliers")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "role must be buyer or supplier")
	}
}

func validateSupplierInput(email string, input CreateSupplierInput) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if strings.TrimSpace(input.CompanyName) == "" || strings.TrimSpace(input.Country) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "company name and country are required")
	}
	return nil
}

func validateEmail(email string) error {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
