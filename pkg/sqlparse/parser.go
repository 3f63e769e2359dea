package sqlparse

// Parser is a recursive descent parser over the token stream produced
// by Lexer. It is tolerant by construction: unmodeled statement kinds
// and trailing clauses are skimmed instead of rejected, so real-world
// DDL scripts parse even when they use vendor extensions.
type Parser struct {
	lexer  *Lexer
	token  Token // current token
	peek   Token // next token
	errors []error
}

// NewParser creates a parser for the given SQL input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.next()
	p.next()
	return p
}

// Parse parses a single SQL statement, allowing one trailing semicolon.
func Parse(sql string) (Stmt, error) {
	p := NewParser(sql)
	stmt := p.parseStatement()
	if stmt != nil && !p.failed() {
		for p.match(TOKEN_SEMICOLON) {
		}
		if !p.check(TOKEN_EOF) {
			p.errorf("unexpected %s after statement", p.token.Type)
		}
	}
	if p.failed() {
		return nil, p.errors[0]
	}
	if stmt == nil {
		return nil, newParseError(p.token.Pos, "unsupported statement")
	}
	return stmt, nil
}

// ParseScript parses a multi-statement SQL script. Statement kinds the
// parser does not model (ALTER, DROP, CREATE VIEW, GRANT, ...) are
// skipped without error; a syntax error in a modeled statement fails
// the whole script.
func ParseScript(sql string) ([]Stmt, error) {
	p := NewParser(sql)
	var stmts []Stmt
	for !p.check(TOKEN_EOF) {
		if p.match(TOKEN_SEMICOLON) {
			continue
		}
		var stmt Stmt
		switch p.token.Type {
		case TOKEN_SELECT, TOKEN_WITH, TOKEN_INSERT, TOKEN_UPDATE, TOKEN_DELETE, TOKEN_CREATE:
			stmt = p.parseStatement()
		default:
			p.skipToStatementEnd()
			continue
		}
		if p.failed() {
			return nil, p.errors[0]
		}
		if stmt == nil {
			// unmodeled CREATE variant, already skimmed
			continue
		}
		stmts = append(stmts, stmt)
		if !p.check(TOKEN_EOF) && !p.match(TOKEN_SEMICOLON) {
			return nil, newParseError(p.token.Pos, "expected ';' between statements, got %s", p.token.Type)
		}
	}
	return stmts, nil
}

func (p *Parser) parseStatement() Stmt {
	switch p.token.Type {
	case TOKEN_SELECT, TOKEN_WITH:
		if stmt := p.parseSelectStmt(); stmt != nil {
			return stmt
		}
		return nil
	case TOKEN_INSERT:
		if stmt := p.parseInsert(); stmt != nil {
			return stmt
		}
		return nil
	case TOKEN_UPDATE:
		if stmt := p.parseUpdate(); stmt != nil {
			return stmt
		}
		return nil
	case TOKEN_DELETE:
		if stmt := p.parseDelete(); stmt != nil {
			return stmt
		}
		return nil
	case TOKEN_CREATE:
		return p.parseCreate()
	default:
		p.errorf("unexpected %s at start of statement", p.token.Type)
		return nil
	}
}

// ---------- Token stream helpers ----------

func (p *Parser) next() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

func (p *Parser) peekIs(t TokenType) bool {
	return p.peek.Type == t
}

func (p *Parser) match(t TokenType) bool {
	if p.token.Type == t {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(t TokenType) bool {
	if p.token.Type == t {
		p.next()
		return true
	}
	p.errorf("expected %s, got %s", t, p.token.Type)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, newParseError(p.token.Pos, format, args...))
}

func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// skipToStatementEnd advances to the next semicolon (or EOF) without
// consuming it.
func (p *Parser) skipToStatementEnd() {
	for !p.check(TOKEN_EOF) && !p.check(TOKEN_SEMICOLON) {
		p.next()
	}
}

// skipParens consumes a balanced parenthesized token group, starting
// at the opening parenthesis.
func (p *Parser) skipParens() bool {
	if !p.expect(TOKEN_LPAREN) {
		return false
	}
	depth := 1
	for depth > 0 {
		switch p.token.Type {
		case TOKEN_EOF:
			p.errorf("unexpected end of input inside parentheses")
			return false
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
		}
		p.next()
	}
	return true
}
