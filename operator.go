package goconnection

import "fmt"

// Operator defines a comparison operator for filtering by column.
// Used in filter predicates and in keyset seek conditions.
type Operator string

const (
	OperatorEQ   Operator = "="
	OperatorNE   Operator = "<>"
	OperatorGT   Operator = ">"
	OperatorGTE  Operator = ">="
	OperatorLT   Operator = "<"
	OperatorLTE  Operator = "<="
	OperatorIN   Operator = "IN"
	OperatorLIKE Operator = "LIKE"
)

func (o Operator) Valid() bool {
	switch o {
	case OperatorEQ, OperatorNE, OperatorGT, OperatorGTE, OperatorLT, OperatorLTE, OperatorIN, OperatorLIKE:
		return true
	default:
		return false
	}
}

// ForOrdering maps a strict seek operator to the ordering it walks.
func (o Operator) ForOrdering() (Direction, error) {
	switch o {
	case OperatorGT:
		return DirectionASC, nil
	case OperatorLT:
		return DirectionDESC, nil
	default:
		return "", fmt.Errorf("cannot map operator '%s' to ordering", o)
	}
}
