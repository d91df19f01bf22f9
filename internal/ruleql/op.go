package ruleql

import "fmt"

// BinaryOp defines binary operation.
type BinaryOp int

const (
	// Logical ops.
	OpAnd BinaryOp = iota + 1
	OpOr
	// Comparison ops.
	OpEq
	OpNotEq
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpMatches
)

// IsLogic whether op is a logical operation.
func (op BinaryOp) IsLogic() bool {
	switch op {
	case OpAnd, OpOr:
		return true
	default:
		return false
	}
}

// IsOrdering whether op compares order of operands.
func (op BinaryOp) IsOrdering() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	default:
		return false
	}
}

// CheckType whether op is defined for a field of given type.
func (op BinaryOp) CheckType(t StaticType) bool {
	switch op {
	case OpEq, OpNotEq, OpIn:
		return true
	case OpGt, OpGte, OpLt, OpLte:
		return t.IsOrdered()
	case OpMatches:
		return t == TypeString || t == TypeAttribute
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpIn:
		return "in"
	case OpMatches:
		return "matches"
	default:
		return fmt.Sprintf("<unknown op %d>", op)
	}
}
