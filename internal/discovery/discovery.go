// Package discovery decides whether a source file interacts with a
// database and locates the SQL artifacts (schema and query files) that
// belong to it, searching conventional locations between the file and
// the project root.
package discovery

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Conventional names of directories that hold SQL artifacts.
var DefaultDirNames = []string{"db", "database", "sql", "migrations", "schema"}

// Glob patterns for SQL artifact files checked directly in a directory.
var DefaultFileGlobs = []string{"schema.sql", "queries.sql", "*.schema.sql", "*.queries.sql", "*.sql"}

// ---------- Database-code detection ----------

var dbImportPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*import\s+(?:psycopg2|sqlalchemy|asyncpg|aiosqlite|sqlite3|mysql|pymongo)`),
	regexp.MustCompile(`(?m)^\s*from\s+(?:django\.db|sqlalchemy|psycopg2)`),
	regexp.MustCompile(`"database/sql"`),
	regexp.MustCompile(`"github\.com/jackc/pgx`),
	regexp.MustCompile(`"github\.com/go-sql-driver/mysql"`),
	regexp.MustCompile(`"gorm\.io/gorm"`),
}

var sqlStatementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)\bSELECT\b.+\bFROM\b`),
	regexp.MustCompile(`(?i)\bINSERT\s+INTO\b`),
	regexp.MustCompile(`(?i)\bUPDATE\s+\w+\s+SET\b`),
	regexp.MustCompile(`(?i)\bDELETE\s+FROM\b`),
	regexp.MustCompile(`(?i)\bCREATE\s+TABLE\b`),
	regexp.MustCompile(`(?i)\bALTER\s+TABLE\b`),
}

// DetectFile reads path best-effort and reports whether its content
// shows signs of database interaction. An unreadable file is logged
// and treated as not database code.
func DetectFile(logger *slog.Logger, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to read file for detection", "file", path, "error", err)
		}
		return false
	}
	return HasDatabaseCode(string(data))
}

// HasDatabaseCode reports whether source content shows signs of
// database interaction: a known driver or ORM import, or an embedded
// SQL statement shape.
func HasDatabaseCode(content string) bool {
	for _, re := range dbImportPatterns {
		if re.MatchString(content) {
			return true
		}
	}
	for _, re := range sqlStatementPatterns {
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

// ---------- SQL artifact discovery ----------

// Config configures a Discoverer. Zero values fall back to the
// conventional defaults.
type Config struct {
	Logger    *slog.Logger
	DirNames  []string
	FileGlobs []string
}

// Discoverer locates SQL artifact files near a source file.
type Discoverer struct {
	logger    *slog.Logger
	dirNames  []string
	fileGlobs []string
}

// NewDiscoverer creates a discoverer from cfg.
func NewDiscoverer(cfg Config) *Discoverer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dirNames := cfg.DirNames
	if len(dirNames) == 0 {
		dirNames = DefaultDirNames
	}
	fileGlobs := cfg.FileGlobs
	if len(fileGlobs) == 0 {
		fileGlobs = DefaultFileGlobs
	}
	return &Discoverer{logger: logger, dirNames: dirNames, fileGlobs: fileGlobs}
}

// Discover returns the SQL artifact files relevant to sourcePath,
// deduplicated and sorted. The search starts in the file's directory,
// clamped into projectRoot, and walks up through the ancestors,
// stopping before the project root; the root level itself is searched
// only when the walk starts there. The walk never passes the
// filesystem root.
func (d *Discoverer) Discover(sourcePath, projectRoot string) []string {
	projectRoot = filepath.Clean(projectRoot)
	searchDir := filepath.Dir(filepath.Clean(sourcePath))
	if !within(searchDir, projectRoot) {
		searchDir = projectRoot
	}

	found := make(map[string]struct{})
	if searchDir == projectRoot {
		d.collect(searchDir, found)
	} else {
		for current := searchDir; current != projectRoot; {
			d.collect(current, found)
			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}

	files := make([]string, 0, len(found))
	for f := range found {
		files = append(files, f)
	}
	sort.Strings(files)
	d.logger.Debug("discovered sql artifacts", "source", sourcePath, "count", len(files))
	return files
}

// collect gathers SQL files in dir itself and in its conventionally
// named subdirectories.
func (d *Discoverer) collect(dir string, found map[string]struct{}) {
	for _, name := range d.dirNames {
		sub := filepath.Join(dir, name)
		info, err := os.Stat(sub)
		if err != nil || !info.IsDir() {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(sub, "*.sql"))
		if err != nil {
			continue
		}
		for _, m := range matches {
			found[m] = struct{}{}
		}
	}
	for _, pattern := range d.fileGlobs {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			found[m] = struct{}{}
		}
	}
}

// within reports whether path is projectRoot or lies beneath it.
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
