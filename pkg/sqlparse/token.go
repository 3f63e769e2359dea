// Package sqlparse provides a tolerant lexer and recursive descent parser
// for a Postgres-flavored SQL dialect. It covers the DML statements
// (SELECT, INSERT, UPDATE, DELETE) and the DDL statements the relation
// tracer interprets (CREATE TABLE, CREATE INDEX).
//
// The parser is built for extraction, not validation: it accepts bound
// parameter placeholders (%s, :name, $1, ?) anywhere an expression is
// expected, and skims over constructs it does not model rather than
// failing where it safely can. Inputs that do not form a statement at
// all still produce an error, which callers treat as "not SQL".
package sqlparse

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int32

//nolint:revive // TOKEN_* names follow SQL token conventions
const (
	// Special tokens
	TOKEN_EOF TokenType = iota
	TOKEN_ILLEGAL

	// Literals
	TOKEN_IDENT       // identifier
	TOKEN_NUMBER      // 123, 45.67, 1e10
	TOKEN_STRING      // 'hello'
	TOKEN_PLACEHOLDER // %s, %(name)s, :name, $1, ?

	// Operators
	TOKEN_PLUS      // +
	TOKEN_MINUS     // -
	TOKEN_STAR      // *
	TOKEN_SLASH     // /
	TOKEN_MOD       // %
	TOKEN_DPIPE     // ||
	TOKEN_EQ        // =
	TOKEN_NE        // != or <>
	TOKEN_LT        // <
	TOKEN_GT        // >
	TOKEN_LE        // <=
	TOKEN_GE        // >=
	TOKEN_DOT       // .
	TOKEN_COMMA     // ,
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]
	TOKEN_SEMICOLON // ;
	TOKEN_DCOLON    // :: (Postgres cast)

	// Keywords (alphabetical)
	TOKEN_ALL
	TOKEN_ALTER
	TOKEN_AND
	TOKEN_AS
	TOKEN_ASC
	TOKEN_BETWEEN
	TOKEN_BY
	TOKEN_CASE
	TOKEN_CAST
	TOKEN_CHECK
	TOKEN_CONFLICT
	TOKEN_CONSTRAINT
	TOKEN_CREATE
	TOKEN_CROSS
	TOKEN_DEFAULT
	TOKEN_DELETE
	TOKEN_DESC
	TOKEN_DISTINCT
	TOKEN_DO
	TOKEN_DROP
	TOKEN_ELSE
	TOKEN_END
	TOKEN_EXCEPT
	TOKEN_EXISTS
	TOKEN_FALSE
	TOKEN_FOREIGN
	TOKEN_FROM
	TOKEN_FULL
	TOKEN_GROUP
	TOKEN_HAVING
	TOKEN_IF
	TOKEN_ILIKE
	TOKEN_IN
	TOKEN_INDEX
	TOKEN_INNER
	TOKEN_INSERT
	TOKEN_INTERSECT
	TOKEN_INTO
	TOKEN_IS
	TOKEN_JOIN
	TOKEN_KEY
	TOKEN_LATERAL
	TOKEN_LEFT
	TOKEN_LIKE
	TOKEN_LIMIT
	TOKEN_NATURAL
	TOKEN_NOT
	TOKEN_NULL
	TOKEN_NULLS
	TOKEN_OFFSET
	TOKEN_ON
	TOKEN_OR
	TOKEN_ORDER
	TOKEN_OUTER
	TOKEN_PRIMARY
	TOKEN_RECURSIVE
	TOKEN_REFERENCES
	TOKEN_RETURNING
	TOKEN_RIGHT
	TOKEN_SELECT
	TOKEN_SET
	TOKEN_TABLE
	TOKEN_THEN
	TOKEN_TRUE
	TOKEN_UNION
	TOKEN_UNIQUE
	TOKEN_UPDATE
	TOKEN_USING
	TOKEN_VALUES
	TOKEN_WHEN
	TOKEN_WHERE
	TOKEN_WITH
)

// Position is a location in the lexed input.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

// Token is a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

var tokenNames = map[TokenType]string{
	TOKEN_EOF:     "EOF",
	TOKEN_ILLEGAL: "ILLEGAL",

	TOKEN_IDENT:       "IDENT",
	TOKEN_NUMBER:      "NUMBER",
	TOKEN_STRING:      "STRING",
	TOKEN_PLACEHOLDER: "PLACEHOLDER",

	TOKEN_PLUS:      "+",
	TOKEN_MINUS:     "-",
	TOKEN_STAR:      "*",
	TOKEN_SLASH:     "/",
	TOKEN_MOD:       "%",
	TOKEN_DPIPE:     "||",
	TOKEN_EQ:        "=",
	TOKEN_NE:        "!=",
	TOKEN_LT:        "<",
	TOKEN_GT:        ">",
	TOKEN_LE:        "<=",
	TOKEN_GE:        ">=",
	TOKEN_DOT:       ".",
	TOKEN_COMMA:     ",",
	TOKEN_LPAREN:    "(",
	TOKEN_RPAREN:    ")",
	TOKEN_LBRACKET:  "[",
	TOKEN_RBRACKET:  "]",
	TOKEN_SEMICOLON: ";",
	TOKEN_DCOLON:    "::",

	TOKEN_ALL:        "ALL",
	TOKEN_ALTER:      "ALTER",
	TOKEN_AND:        "AND",
	TOKEN_AS:         "AS",
	TOKEN_ASC:        "ASC",
	TOKEN_BETWEEN:    "BETWEEN",
	TOKEN_BY:         "BY",
	TOKEN_CASE:       "CASE",
	TOKEN_CAST:       "CAST",
	TOKEN_CHECK:      "CHECK",
	TOKEN_CONFLICT:   "CONFLICT",
	TOKEN_CONSTRAINT: "CONSTRAINT",
	TOKEN_CREATE:     "CREATE",
	TOKEN_CROSS:      "CROSS",
	TOKEN_DEFAULT:    "DEFAULT",
	TOKEN_DELETE:     "DELETE",
	TOKEN_DESC:       "DESC",
	TOKEN_DISTINCT:   "DISTINCT",
	TOKEN_DO:         "DO",
	TOKEN_DROP:       "DROP",
	TOKEN_ELSE:       "ELSE",
	TOKEN_END:        "END",
	TOKEN_EXCEPT:     "EXCEPT",
	TOKEN_EXISTS:     "EXISTS",
	TOKEN_FALSE:      "FALSE",
	TOKEN_FOREIGN:    "FOREIGN",
	TOKEN_FROM:       "FROM",
	TOKEN_FULL:       "FULL",
	TOKEN_GROUP:      "GROUP",
	TOKEN_HAVING:     "HAVING",
	TOKEN_IF:         "IF",
	TOKEN_ILIKE:      "ILIKE",
	TOKEN_IN:         "IN",
	TOKEN_INDEX:      "INDEX",
	TOKEN_INNER:      "INNER",
	TOKEN_INSERT:     "INSERT",
	TOKEN_INTERSECT:  "INTERSECT",
	TOKEN_INTO:       "INTO",
	TOKEN_IS:         "IS",
	TOKEN_JOIN:       "JOIN",
	TOKEN_KEY:        "KEY",
	TOKEN_LATERAL:    "LATERAL",
	TOKEN_LEFT:       "LEFT",
	TOKEN_LIKE:       "LIKE",
	TOKEN_LIMIT:      "LIMIT",
	TOKEN_NATURAL:    "NATURAL",
	TOKEN_NOT:        "NOT",
	TOKEN_NULL:       "NULL",
	TOKEN_NULLS:      "NULLS",
	TOKEN_OFFSET:     "OFFSET",
	TOKEN_ON:         "ON",
	TOKEN_OR:         "OR",
	TOKEN_ORDER:      "ORDER",
	TOKEN_OUTER:      "OUTER",
	TOKEN_PRIMARY:    "PRIMARY",
	TOKEN_RECURSIVE:  "RECURSIVE",
	TOKEN_REFERENCES: "REFERENCES",
	TOKEN_RETURNING:  "RETURNING",
	TOKEN_RIGHT:      "RIGHT",
	TOKEN_SELECT:     "SELECT",
	TOKEN_SET:        "SET",
	TOKEN_TABLE:      "TABLE",
	TOKEN_THEN:       "THEN",
	TOKEN_TRUE:       "TRUE",
	TOKEN_UNION:      "UNION",
	TOKEN_UNIQUE:     "UNIQUE",
	TOKEN_UPDATE:     "UPDATE",
	TOKEN_USING:      "USING",
	TOKEN_VALUES:     "VALUES",
	TOKEN_WHEN:       "WHEN",
	TOKEN_WHERE:      "WHERE",
	TOKEN_WITH:       "WITH",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":        TOKEN_ALL,
	"alter":      TOKEN_ALTER,
	"and":        TOKEN_AND,
	"as":         TOKEN_AS,
	"asc":        TOKEN_ASC,
	"between":    TOKEN_BETWEEN,
	"by":         TOKEN_BY,
	"case":       TOKEN_CASE,
	"cast":       TOKEN_CAST,
	"check":      TOKEN_CHECK,
	"conflict":   TOKEN_CONFLICT,
	"constraint": TOKEN_CONSTRAINT,
	"create":     TOKEN_CREATE,
	"cross":      TOKEN_CROSS,
	"default":    TOKEN_DEFAULT,
	"delete":     TOKEN_DELETE,
	"desc":       TOKEN_DESC,
	"distinct":   TOKEN_DISTINCT,
	"do":         TOKEN_DO,
	"drop":       TOKEN_DROP,
	"else":       TOKEN_ELSE,
	"end":        TOKEN_END,
	"except":     TOKEN_EXCEPT,
	"exists":     TOKEN_EXISTS,
	"false":      TOKEN_FALSE,
	"foreign":    TOKEN_FOREIGN,
	"from":       TOKEN_FROM,
	"full":       TOKEN_FULL,
	"group":      TOKEN_GROUP,
	"having":     TOKEN_HAVING,
	"if":         TOKEN_IF,
	"ilike":      TOKEN_ILIKE,
	"in":         TOKEN_IN,
	"index":      TOKEN_INDEX,
	"inner":      TOKEN_INNER,
	"insert":     TOKEN_INSERT,
	"intersect":  TOKEN_INTERSECT,
	"into":       TOKEN_INTO,
	"is":         TOKEN_IS,
	"join":       TOKEN_JOIN,
	"key":        TOKEN_KEY,
	"lateral":    TOKEN_LATERAL,
	"left":       TOKEN_LEFT,
	"like":       TOKEN_LIKE,
	"limit":      TOKEN_LIMIT,
	"natural":    TOKEN_NATURAL,
	"not":        TOKEN_NOT,
	"null":       TOKEN_NULL,
	"nulls":      TOKEN_NULLS,
	"offset":     TOKEN_OFFSET,
	"on":         TOKEN_ON,
	"or":         TOKEN_OR,
	"order":      TOKEN_ORDER,
	"outer":      TOKEN_OUTER,
	"primary":    TOKEN_PRIMARY,
	"recursive":  TOKEN_RECURSIVE,
	"references": TOKEN_REFERENCES,
	"returning":  TOKEN_RETURNING,
	"right":      TOKEN_RIGHT,
	"select":     TOKEN_SELECT,
	"set":        TOKEN_SET,
	"table":      TOKEN_TABLE,
	"then":       TOKEN_THEN,
	"true":       TOKEN_TRUE,
	"union":      TOKEN_UNION,
	"unique":     TOKEN_UNIQUE,
	"update":     TOKEN_UPDATE,
	"using":      TOKEN_USING,
	"values":     TOKEN_VALUES,
	"when":       TOKEN_WHEN,
	"where":      TOKEN_WHERE,
	"with":       TOKEN_WITH,
}

// LookupIdent returns the token type for the given lowercase identifier:
// the keyword token if it is a keyword, TOKEN_IDENT otherwise.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}
