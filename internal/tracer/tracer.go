// Package tracer builds the relation map: it correlates SQL queries
// embedded in source code with query files and schema definitions
// discovered alongside the code.
package tracer

import (
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/relmap-labs/relmap/internal/extract"
	"github.com/relmap-labs/relmap/internal/inspect"
	"github.com/relmap-labs/relmap/internal/schema"
	"github.com/relmap-labs/relmap/pkg/core"
)

// DefaultMaxQueryLength bounds the query text stored in the finished
// relation map.
const DefaultMaxQueryLength = 200

// Config configures a Builder.
type Config struct {
	Logger *slog.Logger
	// MaxQueryLength caps stored query text; longer queries are
	// truncated with a trailing ellipsis after matching is complete.
	// Zero means DefaultMaxQueryLength.
	MaxQueryLength int
}

// Builder assembles relation maps. It never fails on malformed input:
// unreadable files are skipped with a warning and unparseable SQL
// degrades to empty fact sets.
type Builder struct {
	logger         *slog.Logger
	maxQueryLength int
	extractor      *extract.Extractor
	schemaParser   *schema.Parser
}

// NewBuilder creates a Builder from cfg.
func NewBuilder(cfg Config) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxLen := cfg.MaxQueryLength
	if maxLen <= 0 {
		maxLen = DefaultMaxQueryLength
	}
	return &Builder{
		logger:         logger,
		maxQueryLength: maxLen,
		extractor:      extract.New(logger),
		schemaParser:   schema.NewParser(logger),
	}
}

// queryBlockSplitRe separates a query file into candidate statements:
// a semicolon at end of line or a comment line ends a block.
var queryBlockSplitRe = regexp.MustCompile(`;\s*\n|--[^\n]*\n`)

// Build extracts queries from code, parses the given SQL files, links
// file queries back to the code that uses them and returns the
// finished relation map. Matching runs on full query text; truncation
// to MaxQueryLength happens last.
func (b *Builder) Build(code string, sqlFiles []string) *core.RelationMap {
	rm := core.NewRelationMap()
	referenced := make(map[string]struct{})

	for _, q := range b.extractor.Extract(code) {
		facts := inspect.Query(q.Query)
		rm.QueriesInCode = append(rm.QueriesInCode, core.QueryInfo{
			Method:  q.Method,
			Query:   q.Query,
			Tables:  facts.Tables,
			Columns: facts.Columns,
			Joins:   facts.Joins,
		})
		for _, t := range facts.Tables {
			referenced[t] = struct{}{}
		}
	}

	reg := schema.NewRegistry()
	for _, path := range sqlFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			b.logger.Warn("failed to read sql file", "file", path, "error", err)
			continue
		}
		content := string(data)
		if strings.TrimSpace(content) == "" {
			continue
		}
		if strings.Contains(strings.ToUpper(content), "CREATE TABLE") {
			b.schemaParser.ParseInto(reg, content)
			continue
		}
		b.addQueryFile(rm, referenced, path, content)
	}

	rm.SchemaTables = reg.Tables
	rm.Relationships = reg.Relationships
	for name := range reg.Tables {
		referenced[name] = struct{}{}
	}

	b.matchFileQueries(rm)

	rm.TablesReferenced = make([]string, 0, len(referenced))
	for t := range referenced {
		rm.TablesReferenced = append(rm.TablesReferenced, t)
	}
	sort.Strings(rm.TablesReferenced)

	for i := range rm.QueriesInCode {
		rm.QueriesInCode[i].Query = b.truncate(rm.QueriesInCode[i].Query)
	}
	for i := range rm.QueriesInFiles {
		rm.QueriesInFiles[i].Query = b.truncate(rm.QueriesInFiles[i].Query)
	}
	return rm
}

// addQueryFile splits a non-schema SQL file into statement blocks and
// records every block that looks like a query.
func (b *Builder) addQueryFile(rm *core.RelationMap, referenced map[string]struct{}, path, content string) {
	for _, block := range queryBlockSplitRe.Split(content, -1) {
		block = strings.TrimSpace(block)
		if block == "" || !extract.IsSQL(block) {
			continue
		}
		facts := inspect.Query(block)
		rm.QueriesInFiles = append(rm.QueriesInFiles, core.FileQuery{
			QueryInfo: core.QueryInfo{
				Query:   block,
				Tables:  facts.Tables,
				Columns: facts.Columns,
				Joins:   facts.Joins,
			},
			File:          path,
			UsedInCode:    false,
			UsedInMethods: []string{},
		})
		for _, t := range facts.Tables {
			referenced[t] = struct{}{}
		}
	}
}

// matchFileQueries marks file queries that a code query resembles and
// records the code methods that use them.
func (b *Builder) matchFileQueries(rm *core.RelationMap) {
	for i := range rm.QueriesInFiles {
		fq := &rm.QueriesInFiles[i]
		for _, cq := range rm.QueriesInCode {
			if !QueriesSimilar(fq.Query, cq.Query) {
				continue
			}
			fq.UsedInCode = true
			if cq.Method != "" && !slices.Contains(fq.UsedInMethods, cq.Method) {
				fq.UsedInMethods = append(fq.UsedInMethods, cq.Method)
			}
		}
	}
}

func (b *Builder) truncate(query string) string {
	runes := []rune(query)
	if len(runes) <= b.maxQueryLength {
		return query
	}
	return string(runes[:b.maxQueryLength]) + "..."
}
