package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	l := NewLexer(input)
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Type == TOKEN_EOF {
			return toks
		}
		require.NotEqual(t, TOKEN_ILLEGAL, tok.Type, "illegal token %q", tok.Literal)
		toks = append(toks, tok)
	}
}

func TestLexerBasicSelect(t *testing.T) {
	toks := lexAll(t, "SELECT id, name FROM users WHERE id = 1;")
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []TokenType{
		TOKEN_SELECT, TOKEN_IDENT, TOKEN_COMMA, TOKEN_IDENT,
		TOKEN_FROM, TOKEN_IDENT, TOKEN_WHERE, TOKEN_IDENT,
		TOKEN_EQ, TOKEN_NUMBER, TOKEN_SEMICOLON,
	}, types)
	assert.Equal(t, "users", toks[5].Literal)
}

func TestLexerLowercasesIdentifiers(t *testing.T) {
	toks := lexAll(t, `SELECT Name FROM Users`)
	assert.Equal(t, "name", toks[1].Literal)
	assert.Equal(t, "users", toks[3].Literal)
}

func TestLexerPlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"psycopg positional", "WHERE id = %s", "%s"},
		{"psycopg named", "WHERE id = %(user_id)s", "%(user_id)s"},
		{"colon named", "WHERE id = :user_id", ":user_id"},
		{"dollar numbered", "WHERE id = $1", "$1"},
		{"question mark", "WHERE id = ?", "?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(t, tt.input)
			require.Len(t, toks, 4)
			assert.Equal(t, TOKEN_PLACEHOLDER, toks[3].Type)
			assert.Equal(t, tt.want, toks[3].Literal)
		})
	}
}

func TestLexerPercentIsModuloWhenNotPlaceholder(t *testing.T) {
	toks := lexAll(t, "a % 2")
	require.Len(t, toks, 3)
	assert.Equal(t, TOKEN_IDENT, toks[0].Type)
	assert.Equal(t, TOKEN_MOD, toks[1].Type)
}

func TestLexerStringEscapes(t *testing.T) {
	toks := lexAll(t, "SELECT 'it''s'")
	require.Len(t, toks, 2)
	assert.Equal(t, TOKEN_STRING, toks[1].Type)
	assert.Equal(t, "it's", toks[1].Literal)
}

func TestLexerComments(t *testing.T) {
	toks := lexAll(t, "SELECT 1 -- trailing\n/* block\ncomment */ FROM t")
	types := make([]TokenType, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	assert.Equal(t, []TokenType{TOKEN_SELECT, TOKEN_NUMBER, TOKEN_FROM, TOKEN_IDENT}, types)
}

func TestLexerDoubleColonCast(t *testing.T) {
	toks := lexAll(t, "a::text")
	require.Len(t, toks, 3)
	assert.Equal(t, TOKEN_DCOLON, toks[1].Type)
}

func TestLexerDollarQuotedString(t *testing.T) {
	toks := lexAll(t, "SELECT $$hello $ world$$")
	require.Len(t, toks, 2)
	assert.Equal(t, TOKEN_STRING, toks[1].Type)
	assert.Equal(t, "hello $ world", toks[1].Literal)
}

func TestLexerQuotedIdentifier(t *testing.T) {
	toks := lexAll(t, `SELECT "UserName" FROM t`)
	assert.Equal(t, TOKEN_IDENT, toks[1].Type)
	assert.Equal(t, "username", toks[1].Literal)
}

func TestLexerPositions(t *testing.T) {
	l := NewLexer("SELECT\n  id")
	tok := l.NextToken()
	assert.Equal(t, 1, tok.Pos.Line)
	tok = l.NextToken()
	assert.Equal(t, 2, tok.Pos.Line)
	assert.Equal(t, "id", tok.Literal)
}
