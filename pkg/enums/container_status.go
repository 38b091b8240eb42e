package enums

import "fmt"

// ContainerStatus tracks whether a shipment container still accepts reservations.
// closed is terminal: a container never reopens.
type ContainerStatus string

const (
	ContainerStatusActive ContainerStatus = "active"
	ContainerStatusClosed ContainerStatus = "closed"
)

var validContainerStatuses = []ContainerStatus{
	ContainerStatusActive,
	ContainerStatusClosed,
}

// String implements fmt.Stringer.
func (c ContainerStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c ContainerStatus) IsValid() bool {
	for _, candidate := range validContainerStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContainerStatus converts raw input into a ContainerStatus.
func ParseContainerStatus(value string) (ContainerStatus, error) {
	for _, candidate := range validContainerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid container status %q", value)
}
