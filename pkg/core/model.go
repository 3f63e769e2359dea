package core

// RelationManyToOne is the cardinality produced by a foreign-key
// constraint; it is the only relationship kind the tracer emits.
const RelationManyToOne = "many-to-one"

// Join records a joined table and its alias as written in a query.
type Join struct {
	Table string `json:"table"`
	Alias string `json:"alias"`
}

// QueryInfo describes a single SQL query discovered in source code.
// Tables and Columns hold lower-cased identifiers, sorted.
type QueryInfo struct {
	// Method is the innermost enclosing function name, empty at module scope.
	Method  string   `json:"method,omitempty"`
	Query   string   `json:"query"`
	Tables  []string `json:"tables"`
	Columns []string `json:"columns"`
	Joins   []Join   `json:"joins"`
}

// FileQuery is a query found in a SQL file, annotated with whether a
// matching query was also found in the traced source code.
type FileQuery struct {
	QueryInfo
	File          string   `json:"file"`
	UsedInCode    bool     `json:"used_in_code"`
	UsedInMethods []string `json:"used_in_methods"`
}

// ColumnDef is one column declaration inside a CREATE TABLE statement.
type ColumnDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ForeignKey records a foreign-key constraint on a single local column.
type ForeignKey struct {
	Column           string `json:"column"`
	ReferencesTable  string `json:"references_table"`
	ReferencesColumn string `json:"references_column"`
}

// Index records a secondary index declared with CREATE INDEX.
type Index struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
}

// TableSchema is the parsed shape of one CREATE TABLE statement, plus any
// indexes attached to it by later CREATE INDEX statements.
type TableSchema struct {
	Name        string       `json:"name"`
	Columns     []ColumnDef  `json:"columns"`
	PrimaryKeys []string     `json:"primary_keys"`
	ForeignKeys []ForeignKey `json:"foreign_keys"`
	Indexes     []Index      `json:"indexes,omitempty"`
}

// Relationship links two tables through an explicit foreign-key
// constraint. Self-referential relationships (FromTable == ToTable)
// are valid.
type Relationship struct {
	FromTable        string `json:"from_table"`
	ToTable          string `json:"to_table"`
	Kind             string `json:"relationship"`
	ForeignKey       string `json:"foreign_key"`
	ReferencesColumn string `json:"references_column"`
}

// RelationMap correlates code-embedded queries, file-resident queries,
// and declared schema for a single traced source file.
//
// The JSON field names are the interchange contract consumed by the
// review-context pipeline and must not change.
type RelationMap struct {
	TablesReferenced []string                `json:"tables_referenced"`
	QueriesInCode    []QueryInfo             `json:"queries_in_code"`
	QueriesInFiles   []FileQuery             `json:"queries_in_files"`
	SchemaTables     map[string]*TableSchema `json:"schema_tables"`
	Relationships    []Relationship          `json:"relationships"`
}

// NewRelationMap returns an empty map with all collections initialized,
// so a degraded trace still serializes with every contract field present.
func NewRelationMap() *RelationMap {
	return &RelationMap{
		TablesReferenced: []string{},
		QueriesInCode:    []QueryInfo{},
		QueriesInFiles:   []FileQuery{},
		SchemaTables:     make(map[string]*TableSchema),
		Relationships:    []Relationship{},
	}
}
