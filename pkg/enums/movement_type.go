package enums

import "fmt"

// MovementType classifies entries in a product's stock-movement ledger.
type MovementType string

const (
	MovementTypeImport MovementType = "import"
	MovementTypeExport MovementType = "export"
	MovementTypeAudit  MovementType = "audit"
	MovementTypeSale   MovementType = "sale"
	MovementTypeReturn MovementType = "return"
)

var validMovementTypes = []MovementType{
	MovementTypeImport,
	MovementTypeExport,
	MovementTypeAudit,
	MovementTypeSale,
	MovementTypeReturn,
}

// String implements fmt.Stringer.
func (m MovementType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MovementType.
func (m MovementType) IsValid() bool {
	for _, candidate := range validMovementTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMovementType converts raw input into a MovementType.
func ParseMovementType(value string) (MovementType, error) {
	for _, candidate := range validMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement type %q", value)
}
