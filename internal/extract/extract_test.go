package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmap-labs/relmap/internal/testutil"
)

func TestExtractFromGoSource(t *testing.T) {
	src := `package repo

import "database/sql"

func GetUser(db *sql.DB, id int64) error {
	row := db.QueryRow("SELECT id, name FROM users WHERE id = $1", id)
	_ = row
	return nil
}

func CreateUser(db *sql.DB, name string) error {
	_, err := db.Exec("INSERT INTO users (name) VALUES ($1)", name)
	return err
}
`
	e := New(testutil.NewTestLogger(t))
	got := e.Extract(src)
	require.Len(t, got, 2)
	assert.Equal(t, "GetUser", got[0].Method)
	assert.Contains(t, got[0].Query, "FROM users")
	assert.Equal(t, "CreateUser", got[1].Method)
	assert.Contains(t, got[1].Query, "INSERT INTO users")
}

func TestExtractGoRawStringLiteral(t *testing.T) {
	src := "package repo\n\nconst listOrders = `\nSELECT id, total\nFROM orders\nWHERE user_id = $1`\n"
	e := New(nil)
	got := e.Extract(src)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Method)
	assert.Contains(t, got[0].Query, "FROM orders")
}

func TestExtractFromPythonSourceViaTextualStrategy(t *testing.T) {
	src := `
import psycopg2

def get_user(user_id):
    cur.execute("SELECT * FROM users WHERE id = %s", (user_id,))
    return cur.fetchone()

QUERY = """
    SELECT o.id, o.total
    FROM orders o
    JOIN users u ON u.id = o.user_id
"""
`
	e := New(testutil.NewTestLogger(t))
	got := e.Extract(src)
	require.Len(t, got, 2)
	for _, q := range got {
		assert.Equal(t, "", q.Method)
	}
	// triple-quoted strings are scanned before execute() calls
	assert.Contains(t, got[0].Query, "JOIN users")
	assert.Contains(t, got[1].Query, "FROM users")
}

func TestExtractMergeSuppressesDuplicates(t *testing.T) {
	// the same query is visible to both strategies; it must appear once
	src := `package repo

func Get(db DB) {
	db.Query("SELECT id FROM accounts WHERE active = true")
}
`
	e := New(nil)
	got := e.Extract(src)
	require.Len(t, got, 1)
	assert.Equal(t, "Get", got[0].Method)
}

func TestExtractIgnoresNonSQLStrings(t *testing.T) {
	src := `package main

func main() {
	println("hello world, this is not a query")
	println("SELECT")
}
`
	e := New(nil)
	assert.Empty(t, e.Extract(src))
}

func TestIsSQL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"SELECT * FROM users", true},
		{"  select id from t  ", true},
		{"INSERT INTO t VALUES (1)", true},
		{"CREATE TABLE t (id INTEGER)", true},
		{"DROP TABLE old_stuff", true},
		{"SELECT", false},          // too short
		{"hello world out there", false},
		{"update your profile picture", true}, // heuristic accepts this
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSQL(tt.input), "input: %q", tt.input)
	}
}
