package tracer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmap-labs/relmap/internal/testutil"
	"github.com/relmap-labs/relmap/pkg/core"
)

const goRepoSource = `package store

import "database/sql"

func ListOrders(db *sql.DB, userID int64) error {
	rows, err := db.Query("SELECT o.id, o.total FROM orders o JOIN users u ON u.id = o.user_id WHERE u.id = $1", userID)
	_ = rows
	return err
}

func DeleteSession(db *sql.DB, id string) error {
	_, err := db.Exec("DELETE FROM sessions WHERE id = $1", id)
	return err
}
`

func writeSQL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildCodeOnly(t *testing.T) {
	b := NewBuilder(Config{Logger: testutil.NewTestLogger(t)})
	rm := b.Build(goRepoSource, nil)

	require.Len(t, rm.QueriesInCode, 2)
	assert.Equal(t, "ListOrders", rm.QueriesInCode[0].Method)
	assert.Contains(t, rm.QueriesInCode[0].Tables, "orders")
	assert.Contains(t, rm.QueriesInCode[0].Tables, "users")
	require.Len(t, rm.QueriesInCode[0].Joins, 1)
	assert.Equal(t, core.Join{Table: "users", Alias: "u"}, rm.QueriesInCode[0].Joins[0])

	assert.Contains(t, rm.TablesReferenced, "orders")
	assert.Contains(t, rm.TablesReferenced, "sessions")
	assert.Empty(t, rm.QueriesInFiles)
	assert.Empty(t, rm.SchemaTables)
}

func TestBuildWithSchemaFile(t *testing.T) {
	dir := t.TempDir()
	schemaFile := writeSQL(t, dir, "schema.sql", `
CREATE TABLE users (
    id SERIAL PRIMARY KEY,
    email TEXT NOT NULL
);

CREATE TABLE orders (
    id SERIAL PRIMARY KEY,
    user_id INTEGER REFERENCES users(id)
);
`)
	b := NewBuilder(Config{Logger: testutil.NewTestLogger(t)})
	rm := b.Build(goRepoSource, []string{schemaFile})

	require.Len(t, rm.SchemaTables, 2)
	require.Contains(t, rm.SchemaTables, "orders")
	require.Len(t, rm.Relationships, 1)
	rel := rm.Relationships[0]
	assert.Equal(t, "orders", rel.FromTable)
	assert.Equal(t, "users", rel.ToTable)
	assert.Equal(t, core.RelationManyToOne, rel.Kind)

	// union across code queries and schema tables
	for _, want := range []string{"orders", "sessions", "users"} {
		assert.Contains(t, rm.TablesReferenced, want)
	}
}

func TestBuildMatchesFileQueriesToCode(t *testing.T) {
	dir := t.TempDir()
	queryFile := writeSQL(t, dir, "queries.sql", `
-- list orders for a user
SELECT o.id, o.total FROM orders o JOIN users u ON u.id = o.user_id WHERE u.id = :user_id;

-- unrelated report
SELECT count(*) FROM audit_log;
`)
	b := NewBuilder(Config{Logger: testutil.NewTestLogger(t)})
	rm := b.Build(goRepoSource, []string{queryFile})

	require.Len(t, rm.QueriesInFiles, 2)
	matched := rm.QueriesInFiles[0]
	assert.True(t, matched.UsedInCode)
	assert.Equal(t, []string{"ListOrders"}, matched.UsedInMethods)

	unmatched := rm.QueriesInFiles[1]
	assert.False(t, unmatched.UsedInCode)
	assert.Empty(t, unmatched.UsedInMethods)
}

func TestBuildTruncatesAfterMatching(t *testing.T) {
	// the query exceeds the stored length, with its distinguishing
	// clauses beyond the cut; matching still works on the full text
	longTail := strings.Repeat("col_with_a_long_name, ", 12)
	query := "SELECT " + longTail + "id FROM warehouse_inventory WHERE id = $1"
	require.Greater(t, len(query), DefaultMaxQueryLength)

	code := "package store\n\nfunc Load(db DB) {\n\tdb.Query(\"" + query + "\")\n}\n"
	dir := t.TempDir()
	queryFile := writeSQL(t, dir, "queries.sql", query+";\n")

	b := NewBuilder(Config{})
	rm := b.Build(code, []string{queryFile})

	require.Len(t, rm.QueriesInCode, 1)
	require.Len(t, rm.QueriesInFiles, 1)
	assert.True(t, rm.QueriesInFiles[0].UsedInCode)
	assert.True(t, strings.HasSuffix(rm.QueriesInCode[0].Query, "..."))
	assert.Len(t, []rune(strings.TrimSuffix(rm.QueriesInCode[0].Query, "...")), DefaultMaxQueryLength)
}

func TestBuildEmptyInputs(t *testing.T) {
	b := NewBuilder(Config{})
	rm := b.Build("", nil)
	assert.NotNil(t, rm)
	assert.Empty(t, rm.QueriesInCode)
	assert.Empty(t, rm.QueriesInFiles)
	assert.Empty(t, rm.TablesReferenced)
	assert.NotNil(t, rm.SchemaTables)
}

func TestBuildSkipsUnreadableFiles(t *testing.T) {
	b := NewBuilder(Config{Logger: testutil.NewTestLogger(t)})
	rm := b.Build(goRepoSource, []string{"/nonexistent/queries.sql"})
	assert.Empty(t, rm.QueriesInFiles)
	assert.Len(t, rm.QueriesInCode, 2)
}

func TestBuildMalformedSchemaDegradesToEmpty(t *testing.T) {
	dir := t.TempDir()
	bad := writeSQL(t, dir, "schema.sql", "CREATE TABLE broken (id INTEGER")
	b := NewBuilder(Config{Logger: testutil.NewTestLogger(t)})
	rm := b.Build("", []string{bad})
	assert.Empty(t, rm.SchemaTables)
	assert.Empty(t, rm.Relationships)
}

func TestBuildSelfReferentialSchema(t *testing.T) {
	dir := t.TempDir()
	schemaFile := writeSQL(t, dir, "schema.sql", `
CREATE TABLE categories (
    id SERIAL PRIMARY KEY,
    parent_id INTEGER REFERENCES categories(id)
);
`)
	b := NewBuilder(Config{})
	rm := b.Build("", []string{schemaFile})
	require.Len(t, rm.Relationships, 1)
	assert.Equal(t, rm.Relationships[0].FromTable, rm.Relationships[0].ToTable)
}

func TestBuildPythonSourceStillTraced(t *testing.T) {
	code := `
import psycopg2

def find_user(email):
    cur.execute("SELECT id, name FROM users WHERE email = %s", (email,))
`
	b := NewBuilder(Config{Logger: testutil.NewTestLogger(t)})
	rm := b.Build(code, nil)
	require.Len(t, rm.QueriesInCode, 1)
	assert.Equal(t, "", rm.QueriesInCode[0].Method)
	assert.Equal(t, []string{"users"}, rm.TablesReferenced)
}
