// Package extract finds SQL queries embedded in source code. Two
// strategies run over every input: a structural strategy that parses
// Go source and walks its AST recording the enclosing function of each
// SQL string literal, and a textual strategy that pattern-matches
// string shapes common to other languages (triple-quoted strings,
// cursor.execute calls). Their results are merged with duplicates
// suppressed by query prefix.
package extract

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Extracted is one SQL query found in source code.
type Extracted struct {
	Query  string
	Method string // innermost enclosing function, empty at module scope
}

// Extractor pulls embedded SQL out of source text.
type Extractor struct {
	logger *slog.Logger
}

// New creates an extractor. A nil logger discards output.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{logger: logger}
}

// mergePrefixLen bounds the query prefix used to detect duplicates
// between the two strategies.
const mergePrefixLen = 100

// Extract runs both strategies over src and merges the results:
// structural findings first, then textual findings whose prefix was
// not already captured.
func (e *Extractor) Extract(src string) []Extracted {
	out := e.structural(src)

	seen := make(map[string]struct{}, len(out))
	for _, q := range out {
		seen[queryPrefix(q.Query)] = struct{}{}
	}
	for _, q := range e.textual(src) {
		p := queryPrefix(q.Query)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, q)
	}
	return out
}

func queryPrefix(q string) string {
	if len(q) > mergePrefixLen {
		return q[:mergePrefixLen]
	}
	return q
}

// ---------- Structural strategy ----------

// structural parses src as a Go file and records SQL string literals
// with their enclosing function. Non-Go sources fail to parse and
// contribute nothing; the textual strategy still sees them.
func (e *Extractor) structural(src string) []Extracted {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "src.go", src, parser.SkipObjectResolution)
	if err != nil {
		e.logger.Debug("source is not parseable Go, structural strategy skipped", "error", err)
		return []Extracted{}
	}
	out := []Extracted{}
	ast.Walk(sqlVisitor{out: &out}, file)
	return out
}

// sqlVisitor walks a Go AST collecting SQL string literals. It is a
// value type: entering a function declaration returns a new visitor
// with the function name appended, so the enclosing-function context
// travels down the traversal instead of living in shared mutable
// state.
type sqlVisitor struct {
	stack []string
	out   *[]Extracted
}

func (v sqlVisitor) Visit(n ast.Node) ast.Visitor {
	switch n := n.(type) {
	case *ast.FuncDecl:
		inner := make([]string, len(v.stack), len(v.stack)+1)
		copy(inner, v.stack)
		return sqlVisitor{stack: append(inner, n.Name.Name), out: v.out}
	case *ast.BasicLit:
		if n.Kind != token.STRING {
			return v
		}
		s, err := strconv.Unquote(n.Value)
		if err != nil || !IsSQL(s) {
			return v
		}
		method := ""
		if len(v.stack) > 0 {
			method = v.stack[len(v.stack)-1]
		}
		*v.out = append(*v.out, Extracted{Query: s, Method: method})
	}
	return v
}

// ---------- Textual strategy ----------

var (
	// triple-quoted strings in foreign-language sources
	tripleDouble = regexp.MustCompile(`(?s)"""(.*?)"""`)
	tripleSingle = regexp.MustCompile(`(?s)'''(.*?)'''`)

	// cursor.execute("...") call shapes
	executeCall = regexp.MustCompile(`(?s)(?:cur|cursor|db|conn)\.execute(?:many)?\(\s*["'](.+?)["']`)

	// db.Query / QueryRow / Exec with a quoted first (or post-ctx) argument
	goQueryCall = regexp.MustCompile("(?s)\\.(?:Query|QueryRow|Exec)(?:Context)?\\(\\s*(?:\\w+\\s*,\\s*)?[\"`](.+?)[\"`]")
)

// textual scans raw source text for string shapes that carry SQL.
func (e *Extractor) textual(src string) []Extracted {
	out := []Extracted{}
	seen := make(map[string]struct{})
	add := func(q string) {
		if !IsSQL(q) {
			return
		}
		p := queryPrefix(q)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, Extracted{Query: q})
	}
	for _, re := range []*regexp.Regexp{tripleDouble, tripleSingle, executeCall, goQueryCall} {
		for _, m := range re.FindAllStringSubmatch(src, -1) {
			add(strings.TrimSpace(m[1]))
		}
	}
	return out
}

// ---------- SQL detection ----------

var sqlLeadingKeywords = []string{
	"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "ALTER", "DROP",
}

// IsSQL reports whether a string literal plausibly holds a SQL
// statement: it starts with a statement keyword and is long enough to
// not be a bare word.
func IsSQL(s string) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) <= 10 {
		return false
	}
	upper := strings.ToUpper(trimmed)
	for _, kw := range sqlLeadingKeywords {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return false
}
