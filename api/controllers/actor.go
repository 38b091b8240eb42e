package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/agencecomx/sourcing-backend/api/middleware"
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

// requestActor resolves the authenticated caller from the request context.
func requestActor(r *http.Request) (uuid.UUID, enums.MemberRole, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}

	return uid, enums.MemberRole(middleware.RoleFromContext(r.Context())), nil
}
