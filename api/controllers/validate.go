package controllers

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

func parseBodyUUID(value, message string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	}
	return parsed, nil
}
