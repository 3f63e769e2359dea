package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, sql string) Stmt {
	t.Helper()
	stmt, err := Parse(sql)
	require.NoError(t, err)
	require.NotNil(t, stmt)
	return stmt
}

func TestParseSimpleSelect(t *testing.T) {
	stmt := mustParse(t, "SELECT id, name FROM users WHERE active = true")
	sel, ok := stmt.(*SelectStmt)
	require.True(t, ok)
	require.Len(t, sel.Items, 2)
	require.NotNil(t, sel.From)
	tn, ok := sel.From.Source.(*TableName)
	require.True(t, ok)
	assert.Equal(t, "users", tn.Name)
	assert.NotNil(t, sel.Where)
}

func TestParseSelectStar(t *testing.T) {
	sel := mustParse(t, "SELECT * FROM orders").(*SelectStmt)
	require.Len(t, sel.Items, 1)
	assert.True(t, sel.Items[0].Star)
}

func TestParseJoins(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		joinType string
		table    string
		alias    string
	}{
		{
			"inner join with on",
			"SELECT u.id FROM users u JOIN orders o ON o.user_id = u.id",
			"inner", "orders", "o",
		},
		{
			"left outer join",
			"SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.a_id",
			"left", "b", "",
		},
		{
			"cross join",
			"SELECT * FROM a CROSS JOIN b",
			"cross", "b", "",
		},
		{
			"join with using",
			"SELECT * FROM a JOIN b USING (id)",
			"inner", "b", "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := mustParse(t, tt.sql).(*SelectStmt)
			require.Len(t, sel.From.Joins, 1)
			jc := sel.From.Joins[0]
			assert.Equal(t, tt.joinType, jc.Type)
			tn, ok := jc.Right.(*TableName)
			require.True(t, ok)
			assert.Equal(t, tt.table, tn.Name)
			assert.Equal(t, tt.alias, tn.Alias)
		})
	}
}

func TestParseCommaFromIsCrossJoin(t *testing.T) {
	sel := mustParse(t, "SELECT * FROM a, b WHERE a.id = b.a_id").(*SelectStmt)
	require.Len(t, sel.From.Joins, 1)
	assert.Equal(t, "cross", sel.From.Joins[0].Type)
}

func TestParseSubqueryInFrom(t *testing.T) {
	sel := mustParse(t, "SELECT x.n FROM (SELECT count(*) AS n FROM events) x").(*SelectStmt)
	dt, ok := sel.From.Source.(*DerivedTable)
	require.True(t, ok)
	assert.Equal(t, "x", dt.Alias)
	require.NotNil(t, dt.Select)
}

func TestParseCTE(t *testing.T) {
	sel := mustParse(t, `
		WITH recent AS (SELECT * FROM orders WHERE created_at > $1)
		SELECT user_id FROM recent`).(*SelectStmt)
	require.Len(t, sel.CTEs, 1)
	assert.Equal(t, "recent", sel.CTEs[0].Name)
}

func TestParseUnion(t *testing.T) {
	sel := mustParse(t, "SELECT id FROM a UNION ALL SELECT id FROM b ORDER BY id").(*SelectStmt)
	assert.Equal(t, "union all", sel.SetOp)
	require.NotNil(t, sel.Right)
	require.Len(t, sel.OrderBy, 1)
}

func TestParsePlaceholderStyles(t *testing.T) {
	for _, sql := range []string{
		"SELECT * FROM users WHERE email = %s",
		"SELECT * FROM users WHERE email = %(email)s",
		"SELECT * FROM users WHERE email = :email",
		"SELECT * FROM users WHERE email = $1",
		"SELECT * FROM users WHERE email = ?",
	} {
		_, err := Parse(sql)
		assert.NoError(t, err, "sql: %s", sql)
	}
}

func TestParseInsert(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO users (name, email) VALUES (%s, %s) RETURNING id")
	ins := stmt.(*InsertStmt)
	assert.Equal(t, "users", ins.Table.Name)
	assert.Equal(t, []string{"name", "email"}, ins.Columns)
	require.Len(t, ins.Rows, 1)
	require.Len(t, ins.Rows[0], 2)
	require.Len(t, ins.Returning, 1)
}

func TestParseInsertSelect(t *testing.T) {
	ins := mustParse(t, "INSERT INTO archive SELECT * FROM orders WHERE status = 'done'").(*InsertStmt)
	require.NotNil(t, ins.Select)
}

func TestParseInsertOnConflict(t *testing.T) {
	ins := mustParse(t, `
		INSERT INTO counters (key, value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = counters.value + 1
		RETURNING value`).(*InsertStmt)
	require.Len(t, ins.Returning, 1)
}

func TestParseUpdate(t *testing.T) {
	upd := mustParse(t, "UPDATE users SET name = %s, email = %s WHERE id = %s").(*UpdateStmt)
	assert.Equal(t, "users", upd.Table.Name)
	require.Len(t, upd.Assignments, 2)
	assert.NotNil(t, upd.Where)
}

func TestParseDelete(t *testing.T) {
	del := mustParse(t, "DELETE FROM sessions WHERE expires_at < now()").(*DeleteStmt)
	assert.Equal(t, "sessions", del.Table.Name)
	assert.NotNil(t, del.Where)
}

func TestParseExpressions(t *testing.T) {
	for _, sql := range []string{
		"SELECT CASE WHEN a > 1 THEN 'x' ELSE 'y' END FROM t",
		"SELECT CAST(price AS numeric) FROM items",
		"SELECT price::numeric(10,2) FROM items",
		"SELECT * FROM t WHERE id IN (1, 2, 3)",
		"SELECT * FROM t WHERE id NOT IN (SELECT id FROM banned)",
		"SELECT * FROM t WHERE n BETWEEN 1 AND 10",
		"SELECT * FROM t WHERE name LIKE 'a%' AND deleted_at IS NULL",
		"SELECT * FROM t WHERE EXISTS (SELECT 1 FROM u WHERE u.t_id = t.id)",
		"SELECT coalesce(nickname, name, 'anon') FROM users",
		"SELECT count(DISTINCT user_id) FROM events GROUP BY day HAVING count(*) > 5",
		"SELECT created_at > now() - interval '7 days' FROM t",
	} {
		_, err := Parse(sql)
		assert.NoError(t, err, "sql: %s", sql)
	}
}

func TestParseErrors(t *testing.T) {
	for _, sql := range []string{
		"",
		"SELEC id FROM t",
		"SELECT FROM t",
		"this is not sql at all",
		"SELECT * FROM",
	} {
		_, err := Parse(sql)
		assert.Error(t, err, "sql: %s", sql)
	}
}

func TestParseErrorHasPosition(t *testing.T) {
	_, err := Parse("SELECT * FROM WHERE x = 1")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Pos.Line)
}

func TestParseCreateTable(t *testing.T) {
	stmt := mustParse(t, `
		CREATE TABLE orders (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			total NUMERIC(10,2) DEFAULT 0,
			status TEXT
		)`)
	ct := stmt.(*CreateTableStmt)
	assert.Equal(t, "orders", ct.Name)
	require.Len(t, ct.Columns, 4)
	assert.True(t, ct.Columns[0].PrimaryKey)
	assert.Equal(t, "serial", ct.Columns[0].Type)
	require.NotNil(t, ct.Columns[1].References)
	assert.Equal(t, "users", ct.Columns[1].References.Table)
	assert.Equal(t, "id", ct.Columns[1].References.Column)
	assert.Equal(t, "numeric(10,2)", ct.Columns[2].Type)
}

func TestParseCreateTableTableConstraints(t *testing.T) {
	ct := mustParse(t, `
		CREATE TABLE order_items (
			order_id INTEGER,
			product_id INTEGER,
			qty INTEGER NOT NULL,
			PRIMARY KEY (order_id, product_id),
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`).(*CreateTableStmt)
	require.Len(t, ct.Constraints, 3)
	assert.Equal(t, PrimaryKeyConstraint, ct.Constraints[0].Kind)
	assert.Equal(t, []string{"order_id", "product_id"}, ct.Constraints[0].Columns)
	assert.Equal(t, ForeignKeyConstraint, ct.Constraints[1].Kind)
	assert.Equal(t, "orders", ct.Constraints[1].Ref.Table)
}

func TestParseCreateTableIfNotExists(t *testing.T) {
	ct := mustParse(t, "CREATE TABLE IF NOT EXISTS tags (id INTEGER)").(*CreateTableStmt)
	assert.True(t, ct.IfNotExists)
	assert.Equal(t, "tags", ct.Name)
}

func TestParseCreateIndex(t *testing.T) {
	ci := mustParse(t, "CREATE UNIQUE INDEX idx_users_email ON users (email)").(*CreateIndexStmt)
	assert.True(t, ci.Unique)
	assert.Equal(t, "idx_users_email", ci.Name)
	assert.Equal(t, "users", ci.Table)
	assert.Equal(t, []string{"email"}, ci.Columns)
}

func TestParseCreateIndexExpression(t *testing.T) {
	ci := mustParse(t, "CREATE INDEX idx_lower ON users (lower(email))").(*CreateIndexStmt)
	assert.Equal(t, []string{"email"}, ci.Columns)
}

func TestParseScriptSkipsUnmodeledStatements(t *testing.T) {
	stmts, err := ParseScript(`
		CREATE TABLE users (id INTEGER PRIMARY KEY);
		ALTER TABLE users ADD COLUMN email TEXT;
		CREATE VIEW active_users AS SELECT * FROM users;
		CREATE INDEX idx_users_id ON users (id);
	`)
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	_, ok := stmts[0].(*CreateTableStmt)
	assert.True(t, ok)
	_, ok = stmts[1].(*CreateIndexStmt)
	assert.True(t, ok)
}

func TestParseScriptFailsOnBadModeledStatement(t *testing.T) {
	_, err := ParseScript("CREATE TABLE broken (id INTEGER;")
	assert.Error(t, err)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := Parse("SELECT 1 FROM t garbage garbage garbage")
	assert.Error(t, err)
}
