package sqlparse

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
}

// TableRef is implemented by table sources in a FROM clause.
type TableRef interface {
	tableRefNode()
}

// ---------- Statements ----------

// CTE is one common table expression in a WITH clause.
type CTE struct {
	Name    string
	Columns []string
	Select  *SelectStmt
}

// SelectItem is one entry in a SELECT list. Exactly one of Star,
// TableStar or Expr is set.
type SelectItem struct {
	Star      bool   // SELECT *
	TableStar string // SELECT t.*
	Expr      Expr
	Alias     string
}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// JoinClause is one join step applied to the FROM source.
type JoinClause struct {
	Type    string // "inner", "left", "right", "full", "cross"
	Natural bool
	Right   TableRef
	On      Expr
	Using   []string
}

// FromClause is a FROM (or UPDATE ... FROM, DELETE ... USING) source
// with zero or more joins.
type FromClause struct {
	Source TableRef
	Joins  []JoinClause
}

// SelectStmt is a SELECT query, optionally the left side of a set
// operation chain.
type SelectStmt struct {
	CTEs     []CTE
	Distinct bool
	Items    []SelectItem
	From     *FromClause
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []OrderItem
	Limit    Expr
	Offset   Expr

	// Set operation: UNION/INTERSECT/EXCEPT with the right operand.
	SetOp string // "", "union", "union all", "intersect", "except"
	Right *SelectStmt
}

// InsertStmt is an INSERT INTO statement. Either Rows (VALUES lists)
// or Select is populated.
type InsertStmt struct {
	Table     *TableName
	Columns   []string
	Rows      [][]Expr
	Select    *SelectStmt
	Returning []SelectItem
}

// Assignment is one column = expr pair in an UPDATE SET clause.
type Assignment struct {
	Column *ColumnRef
	Value  Expr
}

// UpdateStmt is an UPDATE statement.
type UpdateStmt struct {
	Table       *TableName
	Assignments []Assignment
	From        *FromClause
	Where       Expr
	Returning   []SelectItem
}

// DeleteStmt is a DELETE FROM statement.
type DeleteStmt struct {
	Table     *TableName
	Using     *FromClause
	Where     Expr
	Returning []SelectItem
}

// RefSpec is the target of a REFERENCES clause. Column is empty when
// the referenced column is left implicit.
type RefSpec struct {
	Table  string
	Column string
}

// ColumnSpec is one column definition in a CREATE TABLE statement.
type ColumnSpec struct {
	Name       string
	Type       string
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	Default    Expr
	References *RefSpec
}

// ConstraintKind classifies a table-level constraint.
type ConstraintKind int

const (
	PrimaryKeyConstraint ConstraintKind = iota
	ForeignKeyConstraint
	UniqueConstraint
	CheckConstraint
)

// TableConstraint is one table-level constraint in a CREATE TABLE body.
type TableConstraint struct {
	Kind    ConstraintKind
	Name    string
	Columns []string
	Ref     *RefSpec // foreign key only
}

// CreateTableStmt is a CREATE TABLE statement.
type CreateTableStmt struct {
	Name        string
	IfNotExists bool
	Columns     []ColumnSpec
	Constraints []TableConstraint
}

// CreateIndexStmt is a CREATE [UNIQUE] INDEX statement.
type CreateIndexStmt struct {
	Name        string
	Unique      bool
	IfNotExists bool
	Table       string
	Columns     []string
}

func (*SelectStmt) stmtNode()      {}
func (*InsertStmt) stmtNode()      {}
func (*UpdateStmt) stmtNode()      {}
func (*DeleteStmt) stmtNode()      {}
func (*CreateTableStmt) stmtNode() {}
func (*CreateIndexStmt) stmtNode() {}

// ---------- Table references ----------

// TableName is a (possibly schema-qualified, possibly aliased) table.
type TableName struct {
	Schema string
	Name   string
	Alias  string
}

// DerivedTable is a parenthesized subquery used as a FROM source.
type DerivedTable struct {
	Select *SelectStmt
	Alias  string
}

func (*TableName) tableRefNode()    {}
func (*DerivedTable) tableRefNode() {}

// ---------- Expressions ----------

// LiteralKind classifies a literal expression.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
	BoolLiteral
	NullLiteral
	DefaultLiteral // DEFAULT keyword in an INSERT values list
)

// Literal is a constant value.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// Placeholder is a bound parameter marker (%s, :name, $1, ?).
type Placeholder struct {
	Text string
}

// ColumnRef is a (possibly table-qualified) column reference.
type ColumnRef struct {
	Table  string
	Column string
}

// StarExpr is * or t.* used in expression position.
type StarExpr struct {
	Table string
}

// FuncCall is a function invocation.
type FuncCall struct {
	Name     string
	Distinct bool
	Star     bool // count(*)
	Args     []Expr
}

// BinaryExpr is a binary operation; Op is the lower-cased operator or
// keyword ("=", "and", "like", ...).
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr is a prefix or postfix unary operation ("not", "-",
// "is null", "is not null").
type UnaryExpr struct {
	Op   string
	Expr Expr
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Expr Expr
}

// ListExpr is a parenthesized expression list (IN lists, row values).
type ListExpr struct {
	Items []Expr
}

// SubqueryExpr is a scalar or IN subquery.
type SubqueryExpr struct {
	Select *SelectStmt
}

// ExistsExpr is an EXISTS (subquery) predicate.
type ExistsExpr struct {
	Select *SelectStmt
}

// WhenClause is one WHEN ... THEN ... arm of a CASE expression.
type WhenClause struct {
	Cond   Expr
	Result Expr
}

// CaseExpr is a CASE expression, with an optional operand.
type CaseExpr struct {
	Operand Expr
	Whens   []WhenClause
	Else    Expr
}

// CastExpr is CAST(expr AS type) or expr::type.
type CastExpr struct {
	Expr Expr
	Type string
}

// InExpr is expr [NOT] IN (list | subquery).
type InExpr struct {
	Expr   Expr
	Not    bool
	List   []Expr
	Select *SelectStmt
}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*Literal) exprNode()     {}
func (*Placeholder) exprNode() {}
func (*ColumnRef) exprNode()   {}
func (*StarExpr) exprNode()    {}
func (*FuncCall) exprNode()    {}
func (*BinaryExpr) exprNode()  {}
func (*UnaryExpr) exprNode()   {}
func (*ParenExpr) exprNode()   {}
func (*ListExpr) exprNode()    {}
func (*SubqueryExpr) exprNode() {}
func (*ExistsExpr) exprNode()  {}
func (*CaseExpr) exprNode()    {}
func (*CastExpr) exprNode()    {}
func (*InExpr) exprNode()      {}
func (*BetweenExpr) exprNode() {}
