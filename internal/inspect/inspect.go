// Package inspect folds a parsed SQL statement into the flat fact sets
// the relation tracer works with: referenced tables, referenced columns
// and join clauses.
package inspect

import (
	"sort"

	"github.com/relmap-labs/relmap/pkg/core"
	"github.com/relmap-labs/relmap/pkg/sqlparse"
)

// Facts are the table, column and join references found in one query.
// Tables and Columns are lower-cased and sorted; Joins keep statement
// order.
type Facts struct {
	Tables  []string
	Columns []string
	Joins   []core.Join
}

// Query parses a single SQL statement and collects its facts. Table
// aliases count as table references. A statement that does not parse
// yields empty facts, never an error.
func Query(sql string) Facts {
	c := newCollector()
	if stmt, err := sqlparse.Parse(sql); err == nil {
		c.stmt(stmt)
	}
	return c.facts()
}

type collector struct {
	tables   map[string]struct{}
	columns  map[string]struct{}
	joins    []core.Join
	joinSeen map[string]struct{}
}

func newCollector() *collector {
	return &collector{
		tables:   make(map[string]struct{}),
		columns:  make(map[string]struct{}),
		joins:    []core.Join{},
		joinSeen: make(map[string]struct{}),
	}
}

func (c *collector) facts() Facts {
	return Facts{
		Tables:  sortedKeys(c.tables),
		Columns: sortedKeys(c.columns),
		Joins:   c.joins,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *collector) addTable(name string) {
	if name != "" {
		c.tables[name] = struct{}{}
	}
}

func (c *collector) addColumn(name string) {
	if name != "" {
		c.columns[name] = struct{}{}
	}
}

func (c *collector) addJoin(j core.Join) {
	key := j.Table + "\x00" + j.Alias
	if _, ok := c.joinSeen[key]; ok {
		return
	}
	c.joinSeen[key] = struct{}{}
	c.joins = append(c.joins, j)
}

// ---------- Statement traversal ----------

func (c *collector) stmt(s sqlparse.Stmt) {
	switch s := s.(type) {
	case *sqlparse.SelectStmt:
		c.selectStmt(s)
	case *sqlparse.InsertStmt:
		c.insertStmt(s)
	case *sqlparse.UpdateStmt:
		c.updateStmt(s)
	case *sqlparse.DeleteStmt:
		c.deleteStmt(s)
	case *sqlparse.CreateTableStmt:
		c.addTable(s.Name)
	case *sqlparse.CreateIndexStmt:
		c.addTable(s.Table)
	}
}

func (c *collector) selectStmt(s *sqlparse.SelectStmt) {
	if s == nil {
		return
	}
	for _, cte := range s.CTEs {
		c.selectStmt(cte.Select)
	}
	for _, item := range s.Items {
		c.expr(item.Expr)
	}
	if s.From != nil {
		c.from(s.From)
	}
	c.expr(s.Where)
	for _, e := range s.GroupBy {
		c.expr(e)
	}
	c.expr(s.Having)
	for _, oi := range s.OrderBy {
		c.expr(oi.Expr)
	}
	c.expr(s.Limit)
	c.expr(s.Offset)
	c.selectStmt(s.Right)
}

func (c *collector) insertStmt(s *sqlparse.InsertStmt) {
	c.addTable(s.Table.Name)
	for _, col := range s.Columns {
		c.addColumn(col)
	}
	for _, row := range s.Rows {
		for _, e := range row {
			c.expr(e)
		}
	}
	c.selectStmt(s.Select)
	c.returning(s.Returning)
}

func (c *collector) updateStmt(s *sqlparse.UpdateStmt) {
	c.addTable(s.Table.Name)
	if s.Table.Alias != "" {
		c.addTable(s.Table.Alias)
	}
	for _, a := range s.Assignments {
		c.addColumn(a.Column.Column)
		c.expr(a.Value)
	}
	if s.From != nil {
		c.from(s.From)
	}
	c.expr(s.Where)
	c.returning(s.Returning)
}

func (c *collector) deleteStmt(s *sqlparse.DeleteStmt) {
	c.addTable(s.Table.Name)
	if s.Table.Alias != "" {
		c.addTable(s.Table.Alias)
	}
	if s.Using != nil {
		c.from(s.Using)
	}
	c.expr(s.Where)
	c.returning(s.Returning)
}

func (c *collector) returning(items []sqlparse.SelectItem) {
	for _, item := range items {
		c.expr(item.Expr)
	}
}

func (c *collector) from(f *sqlparse.FromClause) {
	c.tableRef(f.Source, false)
	for _, j := range f.Joins {
		c.tableRef(j.Right, true)
		c.expr(j.On)
		for _, u := range j.Using {
			c.addColumn(u)
		}
	}
}

func (c *collector) tableRef(ref sqlparse.TableRef, joined bool) {
	switch r := ref.(type) {
	case *sqlparse.TableName:
		c.addTable(r.Name)
		if r.Alias != "" {
			c.addTable(r.Alias)
		}
		if joined {
			c.addJoin(core.Join{Table: r.Name, Alias: r.Alias})
		}
	case *sqlparse.DerivedTable:
		c.selectStmt(r.Select)
		if r.Alias != "" {
			c.addTable(r.Alias)
		}
	}
}

// ---------- Expression traversal ----------

func (c *collector) expr(e sqlparse.Expr) {
	switch e := e.(type) {
	case nil:
	case *sqlparse.ColumnRef:
		c.addColumn(e.Column)
	case *sqlparse.FuncCall:
		for _, arg := range e.Args {
			c.expr(arg)
		}
	case *sqlparse.BinaryExpr:
		c.expr(e.Left)
		c.expr(e.Right)
	case *sqlparse.UnaryExpr:
		c.expr(e.Expr)
	case *sqlparse.ParenExpr:
		c.expr(e.Expr)
	case *sqlparse.ListExpr:
		for _, item := range e.Items {
			c.expr(item)
		}
	case *sqlparse.SubqueryExpr:
		c.selectStmt(e.Select)
	case *sqlparse.ExistsExpr:
		c.selectStmt(e.Select)
	case *sqlparse.CaseExpr:
		c.expr(e.Operand)
		for _, w := range e.Whens {
			c.expr(w.Cond)
			c.expr(w.Result)
		}
		c.expr(e.Else)
	case *sqlparse.CastExpr:
		c.expr(e.Expr)
	case *sqlparse.InExpr:
		c.expr(e.Expr)
		for _, item := range e.List {
			c.expr(item)
		}
		c.selectStmt(e.Select)
	case *sqlparse.BetweenExpr:
		c.expr(e.Expr)
		c.expr(e.Low)
		c.expr(e.High)
	}
}
