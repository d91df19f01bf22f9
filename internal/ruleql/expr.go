package ruleql

// Expr is a RuleQL expression.
//
// Expressions are immutable once constructed and form a strict tree.
type Expr interface {
	expr()
}

func (*BinaryExpr) expr()     {}
func (*NotExpr) expr()        {}
func (*ComparisonExpr) expr() {}
func (*HasExpr) expr()        {}
func (*CountExpr) expr()      {}
func (*WhereExpr) expr()      {}

// BinaryExpr is a logical operation between two expressions.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp // OpAnd or OpOr
	Right Expr
}

// NotExpr negates an expression.
type NotExpr struct {
	Expr Expr
}

// ComparisonExpr compares a span field against a static value.
type ComparisonExpr struct {
	Field Attribute
	Op    BinaryOp
	Value Static
}

// HasExpr is a trace.has(pattern) expression: true iff at least one
// span satisfies the pattern and all where clauses.
type HasExpr struct {
	Pattern Expr
	Where   []*WhereExpr
}

// CountExpr is a trace.count(pattern) op value expression.
type CountExpr struct {
	Pattern Expr
	Where   []*WhereExpr
	Op      BinaryOp
	Value   int64
}

// WhereExpr is a .where(attr op value) filter evaluated against the
// span bound by the enclosing pattern.
type WhereExpr struct {
	Attribute Attribute
	Op        BinaryOp
	Value     Static
}
