package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/relmap-labs/relmap/pkg/core"
)

// render writes a relation map in the selected output format.
func render(w io.Writer, format string, rm *core.RelationMap) error {
	switch format {
	case "table":
		return renderRelationTables(w, rm)
	default:
		return renderJSON(w, rm)
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderRelationTables(w io.Writer, rm *core.RelationMap) error {
	if len(rm.QueriesInCode) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle("Queries in Code")
		t.AppendHeader(table.Row{"Method", "Tables", "Query"})
		for _, q := range rm.QueriesInCode {
			t.AppendRow(table.Row{q.Method, strings.Join(q.Tables, ", "), q.Query})
		}
		t.Render()
	}

	if len(rm.QueriesInFiles) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle("Queries in Files")
		t.AppendHeader(table.Row{"File", "Used", "Methods", "Tables"})
		for _, q := range rm.QueriesInFiles {
			used := ""
			if q.UsedInCode {
				used = "yes"
			}
			t.AppendRow(table.Row{
				q.File,
				used,
				strings.Join(q.UsedInMethods, ", "),
				strings.Join(q.Tables, ", "),
			})
		}
		t.Render()
	}

	if len(rm.SchemaTables) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle("Schema Tables")
		t.AppendHeader(table.Row{"Table", "Columns", "Primary Keys", "Foreign Keys"})
		for _, name := range sortedTableNames(rm) {
			ts := rm.SchemaTables[name]
			fks := make([]string, 0, len(ts.ForeignKeys))
			for _, fk := range ts.ForeignKeys {
				fks = append(fks, fmt.Sprintf("%s -> %s.%s", fk.Column, fk.ReferencesTable, fk.ReferencesColumn))
			}
			t.AppendRow(table.Row{
				ts.Name,
				len(ts.Columns),
				strings.Join(ts.PrimaryKeys, ", "),
				strings.Join(fks, "; "),
			})
		}
		t.Render()
	}

	if len(rm.Relationships) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle("Relationships")
		t.AppendHeader(table.Row{"From", "Foreign Key", "To", "References", "Kind"})
		for _, rel := range rm.Relationships {
			t.AppendRow(table.Row{rel.FromTable, rel.ForeignKey, rel.ToTable, rel.ReferencesColumn, rel.Kind})
		}
		t.Render()
	}

	_, _ = fmt.Fprintf(w, "Tables referenced: %s\n", strings.Join(rm.TablesReferenced, ", "))
	return nil
}

func sortedTableNames(rm *core.RelationMap) []string {
	names := make([]string, 0, len(rm.SchemaTables))
	for name := range rm.SchemaTables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
