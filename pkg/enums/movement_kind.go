package enums

import "fmt"

// MovementKind classifies an inventory ledger entry. The kind implies the
// direction; the quantity on a movement is always a positive magnitude.
type MovementKind string

const (
	MovementKindIn      MovementKind = "in"
	MovementKindOut     MovementKind = "out"
	MovementKindAdjust  MovementKind = "adjust"
	MovementKindReserve MovementKind = "reserve"
	MovementKindRelease MovementKind = "release"
)

var validMovementKinds = []MovementKind{
	MovementKindIn,
	MovementKindOut,
	MovementKindAdjust,
	MovementKindReserve,
	MovementKindRelease,
}

// String implements fmt.Stringer.
func (m MovementKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementKind.
func (m MovementKind) IsValid() bool {
	for _, candidate := range validMovementKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementKind converts raw input into a MovementKind.
func ParseMovementKind(value string) (MovementKind, error) {
	for _, candidate := range validMovementKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement kind %q", value)
}
