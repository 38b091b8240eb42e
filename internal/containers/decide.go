package containers

import (
	"github.com/agencecomx/sourcing-backend/pkg/enums"
	pkgerrors "github.com/agencecomx/sourcing-backend/pkg/errors"
)

// Admission is the outcome of one capacity request against a container.
type Admission struct {
	NewUsedCapacity float64
	NewStatus       enums.ContainerStatus
	// AdmittedQuantity is what actually got reserved. It equals the request
	// unless the container ran out of room and clamped.
	AdmittedQuantity  float64
	PartiallyAdmitted bool
}

// decide applies one capacity request to a container's current state. It is
// pure so the clamping rules are testable without a database. Filling the
// container to its total closes it, and a closed container rejects every
// further request without touching used capacity.
func decide(total, used float64, status enums.ContainerStatus, requested float64) (Admission, error) {
	if requested <= 0 {
		return Admission{}, pkgerrors.New(pkgerrors.CodeValidation, "requested capacity must be positive")
	}
	if status == enums.ContainerStatusClosed {
		return Admission{}, pkgerrors.New(pkgerrors.CodeStateConflict, "container is closed")
	}

	newUsed := used + requested
	if newUsed < total {
		return Admission{
			NewUsedCapacity:  newUsed,
			NewStatus:        enums.ContainerStatusActive,
			AdmittedQuantity: requested,
		}, nil
	}

	admitted := total - used
	if admitted < 0 {
		admitted = 0
	}
	return Admission{
		NewUsedCapacity:   total,
		NewStatus:         enums.ContainerStatusClosed,
		AdmittedQuantity:  admitted,
		PartiallyAdmitted: admitted < requested,
	}, nil
}
