// Package schema interprets DDL scripts into a table registry: column
// definitions, primary keys, foreign keys, indexes and the foreign-key
// relationships between tables.
package schema

import (
	"io"
	"log/slog"
	"strings"

	"github.com/relmap-labs/relmap/pkg/core"
	"github.com/relmap-labs/relmap/pkg/sqlparse"
)

// Registry holds the tables and relationships declared by one or more
// DDL scripts.
type Registry struct {
	Tables        map[string]*core.TableSchema
	Relationships []core.Relationship
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Tables:        make(map[string]*core.TableSchema),
		Relationships: []core.Relationship{},
	}
}

// Parser extracts schema information from DDL scripts.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a schema parser. A nil logger discards output.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{logger: logger}
}

// Parse interprets one DDL script and adds its tables, indexes and
// relationships to the returned registry. A script that fails to parse
// contributes nothing; the failure is logged and swallowed.
func (p *Parser) Parse(script string) *Registry {
	reg := NewRegistry()
	p.ParseInto(reg, script)
	return reg
}

// ParseInto parses a script into an existing registry, so schema
// spread over several files accumulates. Indexes attach only to tables
// already registered when the CREATE INDEX statement is seen.
func (p *Parser) ParseInto(reg *Registry, script string) {
	stmts, err := sqlparse.ParseScript(script)
	if err != nil {
		p.logger.Debug("schema script failed to parse, skipping", "error", err)
		return
	}
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *sqlparse.CreateTableStmt:
			p.addTable(reg, s)
		case *sqlparse.CreateIndexStmt:
			p.addIndex(reg, s)
		}
	}
}

func (p *Parser) addTable(reg *Registry, s *sqlparse.CreateTableStmt) {
	table := &core.TableSchema{
		Name:        s.Name,
		Columns:     []core.ColumnDef{},
		PrimaryKeys: []string{},
		ForeignKeys: []core.ForeignKey{},
	}

	for _, col := range s.Columns {
		table.Columns = append(table.Columns, core.ColumnDef{
			Name: col.Name,
			Type: strings.ToUpper(col.Type),
		})
		if col.PrimaryKey {
			table.PrimaryKeys = append(table.PrimaryKeys, col.Name)
		}
		if col.References != nil {
			p.addForeignKey(reg, table, col.Name, col.References)
		}
	}

	for _, con := range s.Constraints {
		switch con.Kind {
		case sqlparse.PrimaryKeyConstraint:
			table.PrimaryKeys = append(table.PrimaryKeys, con.Columns...)
		case sqlparse.ForeignKeyConstraint:
			// composite foreign keys record one entry per local column
			for _, col := range con.Columns {
				p.addForeignKey(reg, table, col, con.Ref)
			}
		}
	}

	reg.Tables[s.Name] = table
	p.logger.Debug("registered table",
		"table", s.Name,
		"columns", len(table.Columns),
		"foreign_keys", len(table.ForeignKeys))
}

func (p *Parser) addForeignKey(reg *Registry, table *core.TableSchema, column string, ref *sqlparse.RefSpec) {
	refColumn := ref.Column
	if refColumn == "" {
		refColumn = "id"
	}
	table.ForeignKeys = append(table.ForeignKeys, core.ForeignKey{
		Column:           column,
		ReferencesTable:  ref.Table,
		ReferencesColumn: refColumn,
	})
	reg.Relationships = append(reg.Relationships, core.Relationship{
		FromTable:        table.Name,
		ToTable:          ref.Table,
		Kind:             core.RelationManyToOne,
		ForeignKey:       column,
		ReferencesColumn: refColumn,
	})
}

func (p *Parser) addIndex(reg *Registry, s *sqlparse.CreateIndexStmt) {
	table, ok := reg.Tables[s.Table]
	if !ok {
		p.logger.Debug("index references unknown table, dropping",
			"index", s.Name, "table", s.Table)
		return
	}
	table.Indexes = append(table.Indexes, core.Index{
		Name:    s.Name,
		Columns: s.Columns,
	})
}
