package ruleql

import (
	"strconv"
	"strings"
)

// String returns rule representation that parses back to the same
// expression.
func (e *BinaryExpr) String() string {
	var sb strings.Builder
	writeOperand(&sb, e.Left, e.Op, false)
	sb.WriteByte(' ')
	sb.WriteString(e.Op.String())
	sb.WriteByte(' ')
	writeOperand(&sb, e.Right, e.Op, true)
	return sb.String()
}

// writeOperand writes a logical operand, parenthesized when printing
// it bare would re-associate the tree on reparse. Logic operators are
// left-associative, so a right operand at the parent's precedence
// needs parentheses, a left one does not.
func writeOperand(sb *strings.Builder, e Expr, parent BinaryOp, right bool) {
	if b, ok := e.(*BinaryExpr); ok {
		if (b.Op == OpOr && parent == OpAnd) || (right && b.Op == parent) {
			sb.WriteByte('(')
			sb.WriteString(b.String())
			sb.WriteByte(')')
			return
		}
	}
	sb.WriteString(exprString(e))
}

func (e *NotExpr) String() string {
	if b, ok := e.Expr.(*BinaryExpr); ok && b.Op.IsLogic() {
		return "not (" + b.String() + ")"
	}
	return "not " + exprString(e.Expr)
}

func (e *ComparisonExpr) String() string {
	return e.Field.String() + " " + e.Op.String() + " " + e.Value.String()
}

func (e *HasExpr) String() string {
	var sb strings.Builder
	sb.WriteString("trace.has(")
	sb.WriteString(exprString(e.Pattern))
	sb.WriteByte(')')
	writeWhereChain(&sb, e.Where)
	return sb.String()
}

func (e *CountExpr) String() string {
	var sb strings.Builder
	sb.WriteString("trace.count(")
	sb.WriteString(exprString(e.Pattern))
	sb.WriteByte(')')
	writeWhereChain(&sb, e.Where)
	sb.WriteByte(' ')
	sb.WriteString(e.Op.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatInt(e.Value, 10))
	return sb.String()
}

func (e *WhereExpr) String() string {
	return ".where(" + e.Attribute.String() + " " + e.Op.String() + " " + e.Value.String() + ")"
}

func writeWhereChain(sb *strings.Builder, where []*WhereExpr) {
	for _, w := range where {
		sb.WriteString(w.String())
	}
}

// ExprString returns rule representation of any expression.
func ExprString(e Expr) string {
	return exprString(e)
}

func exprString(e Expr) string {
	type stringer interface {
		String() string
	}
	if s, ok := e.(stringer); ok {
		return s.String()
	}
	return "<expr>"
}
