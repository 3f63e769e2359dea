package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relmap-labs/relmap/internal/config"
	"github.com/relmap-labs/relmap/pkg/core"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if errOut.Len() > 0 {
		t.Logf("stderr: %s", errOut.String())
	}
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleSource = `package store

import "database/sql"

func FindUser(db *sql.DB, id int64) error {
	row := db.QueryRow("SELECT id, email FROM users WHERE id = $1", id)
	_ = row
	return nil
}
`

func TestRootCommandMetadata(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "relmap", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")

	for _, flag := range []string{"config", "project-root", "verbose", "output", "max-query-length"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"trace", "detect", "discover", "watch", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestTraceCommandMetadata(t *testing.T) {
	cmd := newTraceCmd()

	assert.Equal(t, "trace <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("sql-file"), "flag sql-file should exist")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "relmap "+Version)
	assert.Contains(t, out, "build date")
}

func TestTraceProducesRelationMap(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "store.go", sampleSource)
	writeFile(t, dir, filepath.Join("db", "schema.sql"), `
CREATE TABLE users (
    id SERIAL PRIMARY KEY,
    email TEXT NOT NULL
);
`)

	out, err := execute(t, "trace", src, "--project-root", dir)
	require.NoError(t, err)

	var rm core.RelationMap
	require.NoError(t, json.Unmarshal([]byte(out), &rm))
	require.Len(t, rm.QueriesInCode, 1)
	assert.Equal(t, "FindUser", rm.QueriesInCode[0].Method)
	assert.Contains(t, rm.TablesReferenced, "users")
	assert.Contains(t, rm.SchemaTables, "users")
}

func TestTraceExplicitSQLFileBypassesDiscovery(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "store.go", sampleSource)
	// conventional artifact that discovery would find
	writeFile(t, dir, filepath.Join("db", "schema.sql"), "CREATE TABLE users (id SERIAL PRIMARY KEY);\n")
	explicit := writeFile(t, dir, "extra.sql", "CREATE TABLE sessions (id TEXT PRIMARY KEY);\n")

	out, err := execute(t, "trace", src, "--project-root", dir, "--sql-file", explicit)
	require.NoError(t, err)

	var rm core.RelationMap
	require.NoError(t, json.Unmarshal([]byte(out), &rm))
	assert.Contains(t, rm.SchemaTables, "sessions")
	assert.NotContains(t, rm.SchemaTables, "users")
}

func TestTraceTableOutput(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "store.go", sampleSource)

	out, err := execute(t, "trace", src, "--project-root", dir, "--output", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "Queries in Code")
	assert.Contains(t, out, "FindUser")
	assert.Contains(t, out, "Tables referenced: users")
}

func TestTraceMissingFile(t *testing.T) {
	_, err := execute(t, "trace", "/nonexistent/store.go")
	assert.Error(t, err)
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "store.go", sampleSource)
	plain := writeFile(t, dir, "mathutil.go", "package mathutil\n\nfunc Add(a, b int) int { return a + b }\n")

	out, err := execute(t, "detect", src, "--project-root", dir)
	require.NoError(t, err)
	var result detectResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.DatabaseCode)

	out, err = execute(t, "detect", plain, "--project-root", dir)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.DatabaseCode)
}

func TestDetectUnreadableFileIsNotDatabaseCode(t *testing.T) {
	out, err := execute(t, "detect", "/nonexistent/store.go")
	require.NoError(t, err)

	var result detectResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.DatabaseCode)
}

func TestDiscoverCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "store.go", sampleSource)
	schema := writeFile(t, dir, filepath.Join("migrations", "001_init.sql"), "CREATE TABLE users (id SERIAL PRIMARY KEY);\n")

	out, err := execute(t, "discover", src, "--project-root", dir)
	require.NoError(t, err)

	var result discoverResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	resolved, err := filepath.EvalSymlinks(schema)
	require.NoError(t, err)
	found := false
	for _, f := range result.SQLFiles {
		r, err := filepath.EvalSymlinks(f)
		require.NoError(t, err)
		if r == resolved {
			found = true
		}
	}
	assert.True(t, found, "discovered files should include %s, got %v", schema, result.SQLFiles)
}

func TestDiscoverCommandGatesOnDetection(t *testing.T) {
	dir := t.TempDir()
	plain := writeFile(t, dir, "mathutil.go", "package mathutil\n\nfunc Add(a, b int) int { return a + b }\n")
	writeFile(t, dir, filepath.Join("db", "schema.sql"), "CREATE TABLE users (id SERIAL PRIMARY KEY);\n")

	out, err := execute(t, "discover", plain, "--project-root", dir)
	require.NoError(t, err)

	var result discoverResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.SQLFiles, "files without database code discover nothing")
}

func TestWatchCommandMetadata(t *testing.T) {
	cmd := newWatchCmd()

	assert.True(t, strings.HasPrefix(cmd.Use, "watch"))
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("sql-file"), "flag sql-file should exist")
}
