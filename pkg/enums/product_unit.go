package enums

import "fmt"

// ProductUnit is the unit stock for a product is counted in.
type ProductUnit string

const (
	ProductUnitStem  ProductUnit = "stem"
	ProductUnitBunch ProductUnit = "bunch"
	ProductUnitPiece ProductUnit = "piece"
	ProductUnitMeter ProductUnit = "meter"
)

var validProductUnits = []ProductUnit{
	ProductUnitStem,
	ProductUnitBunch,
	ProductUnitPiece,
	ProductUnitMeter,
}

// String implements fmt.Stringer.
func (p ProductUnit) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductUnit.
func (p ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
