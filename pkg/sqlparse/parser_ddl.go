package sqlparse

// parseCreate dispatches CREATE TABLE and CREATE [UNIQUE] INDEX.
// Other CREATE variants (VIEW, FUNCTION, TRIGGER, ...) are skimmed to
// the end of the statement and produce no node.
func (p *Parser) parseCreate() Stmt {
	p.next() // CREATE
	unique := p.match(TOKEN_UNIQUE)
	// modifiers like TEMP, TEMPORARY, UNLOGGED lex as identifiers
	for p.check(TOKEN_IDENT) {
		p.next()
	}
	switch p.token.Type {
	case TOKEN_TABLE:
		if unique {
			p.errorf("unexpected UNIQUE before TABLE")
			return nil
		}
		if stmt := p.parseCreateTable(); stmt != nil {
			return stmt
		}
		return nil
	case TOKEN_INDEX:
		if stmt := p.parseCreateIndex(unique); stmt != nil {
			return stmt
		}
		return nil
	default:
		p.skipToStatementEnd()
		return nil
	}
}

func (p *Parser) parseCreateTable() *CreateTableStmt {
	p.next() // TABLE
	stmt := &CreateTableStmt{}
	if p.check(TOKEN_IF) {
		p.next()
		if !p.expect(TOKEN_NOT) || !p.expect(TOKEN_EXISTS) {
			return nil
		}
		stmt.IfNotExists = true
	}
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected table name, got %s", p.token.Type)
		return nil
	}
	name := p.token.Literal
	p.next()
	if p.match(TOKEN_DOT) {
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected table name after '.', got %s", p.token.Type)
			return nil
		}
		name = p.token.Literal
		p.next()
	}
	stmt.Name = name

	// CREATE TABLE ... AS SELECT has no column body; not modeled
	if !p.check(TOKEN_LPAREN) {
		p.skipToStatementEnd()
		return nil
	}
	p.next()
	for {
		if !p.parseTableElement(stmt) {
			return nil
		}
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	// storage options after the body (WITHOUT ROWID, ENGINE=..., ...)
	p.skipToStatementEnd()
	return stmt
}

func (p *Parser) parseTableElement(stmt *CreateTableStmt) bool {
	switch p.token.Type {
	case TOKEN_CONSTRAINT:
		p.next()
		name := ""
		if p.check(TOKEN_IDENT) {
			name = p.token.Literal
			p.next()
		}
		return p.parseTableConstraint(stmt, name)
	case TOKEN_PRIMARY, TOKEN_FOREIGN, TOKEN_UNIQUE, TOKEN_CHECK:
		return p.parseTableConstraint(stmt, "")
	default:
		return p.parseColumnSpec(stmt)
	}
}

func (p *Parser) parseTableConstraint(stmt *CreateTableStmt, name string) bool {
	switch p.token.Type {
	case TOKEN_PRIMARY:
		p.next()
		if !p.expect(TOKEN_KEY) {
			return false
		}
		cols := p.parseParenIdentList()
		if cols == nil {
			return false
		}
		stmt.Constraints = append(stmt.Constraints, TableConstraint{
			Kind: PrimaryKeyConstraint, Name: name, Columns: cols,
		})
	case TOKEN_FOREIGN:
		p.next()
		if !p.expect(TOKEN_KEY) {
			return false
		}
		cols := p.parseParenIdentList()
		if cols == nil {
			return false
		}
		if !p.expect(TOKEN_REFERENCES) {
			return false
		}
		ref := p.parseRefSpec()
		if ref == nil {
			return false
		}
		stmt.Constraints = append(stmt.Constraints, TableConstraint{
			Kind: ForeignKeyConstraint, Name: name, Columns: cols, Ref: ref,
		})
		p.skipToElementEnd() // ON DELETE / ON UPDATE actions
	case TOKEN_UNIQUE:
		p.next()
		cols := p.parseParenIdentList()
		if cols == nil {
			return false
		}
		stmt.Constraints = append(stmt.Constraints, TableConstraint{
			Kind: UniqueConstraint, Name: name, Columns: cols,
		})
	case TOKEN_CHECK:
		p.next()
		if !p.skipParens() {
			return false
		}
		stmt.Constraints = append(stmt.Constraints, TableConstraint{
			Kind: CheckConstraint, Name: name,
		})
	default:
		p.errorf("expected table constraint, got %s", p.token.Type)
		return false
	}
	return true
}

// parseColumnSpec parses one column definition. Unmodeled column
// attributes (COLLATE, GENERATED, vendor keywords) are skipped one
// token at a time so the attributes the tracer cares about still land.
func (p *Parser) parseColumnSpec(stmt *CreateTableStmt) bool {
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected column name, got %s", p.token.Type)
		return false
	}
	col := ColumnSpec{Name: p.token.Literal}
	p.next()
	col.Type = p.parseTypeName()
	if col.Type == "" {
		return false
	}

loop:
	for {
		switch p.token.Type {
		case TOKEN_COMMA, TOKEN_RPAREN, TOKEN_SEMICOLON, TOKEN_EOF:
			break loop
		case TOKEN_PRIMARY:
			p.next()
			if !p.expect(TOKEN_KEY) {
				return false
			}
			col.PrimaryKey = true
		case TOKEN_NOT:
			p.next()
			if !p.expect(TOKEN_NULL) {
				return false
			}
			col.NotNull = true
		case TOKEN_NULL:
			p.next()
		case TOKEN_UNIQUE:
			p.next()
			col.Unique = true
		case TOKEN_DEFAULT:
			p.next()
			d := p.parseExpr(precOr)
			if d == nil {
				return false
			}
			col.Default = d
		case TOKEN_REFERENCES:
			p.next()
			ref := p.parseRefSpec()
			if ref == nil {
				return false
			}
			col.References = ref
		case TOKEN_CONSTRAINT:
			p.next()
			if p.check(TOKEN_IDENT) {
				p.next()
			}
		case TOKEN_CHECK:
			p.next()
			if !p.skipParens() {
				return false
			}
		case TOKEN_LPAREN:
			if !p.skipParens() {
				return false
			}
		default:
			p.next()
		}
	}
	stmt.Columns = append(stmt.Columns, col)
	return true
}

func (p *Parser) parseRefSpec() *RefSpec {
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected referenced table, got %s", p.token.Type)
		return nil
	}
	ref := &RefSpec{Table: p.token.Literal}
	p.next()
	if p.match(TOKEN_DOT) {
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected table name after '.', got %s", p.token.Type)
			return nil
		}
		ref.Table = p.token.Literal
		p.next()
	}
	if p.check(TOKEN_LPAREN) {
		p.next()
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected referenced column, got %s", p.token.Type)
			return nil
		}
		ref.Column = p.token.Literal
		p.next()
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
	}
	return ref
}

func (p *Parser) parseParenIdentList() []string {
	if !p.expect(TOKEN_LPAREN) {
		return nil
	}
	var cols []string
	for {
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected column name, got %s", p.token.Type)
			return nil
		}
		cols = append(cols, p.token.Literal)
		p.next()
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	return cols
}

// skipToElementEnd advances to the next top-level comma or closing
// parenthesis of a CREATE TABLE body, skipping balanced groups.
func (p *Parser) skipToElementEnd() {
	depth := 0
	for !p.check(TOKEN_EOF) {
		switch p.token.Type {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			if depth == 0 {
				return
			}
			depth--
		case TOKEN_COMMA:
			if depth == 0 {
				return
			}
		case TOKEN_SEMICOLON:
			return
		}
		p.next()
	}
}

func (p *Parser) parseCreateIndex(unique bool) *CreateIndexStmt {
	p.next() // INDEX
	stmt := &CreateIndexStmt{Unique: unique}
	if p.check(TOKEN_IF) {
		p.next()
		if !p.expect(TOKEN_NOT) || !p.expect(TOKEN_EXISTS) {
			return nil
		}
		stmt.IfNotExists = true
	}
	if p.check(TOKEN_IDENT) {
		stmt.Name = p.token.Literal
		p.next()
	}
	if !p.expect(TOKEN_ON) {
		return nil
	}
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected table name, got %s", p.token.Type)
		return nil
	}
	name := p.token.Literal
	p.next()
	if p.match(TOKEN_DOT) {
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected table name after '.', got %s", p.token.Type)
			return nil
		}
		name = p.token.Literal
		p.next()
	}
	stmt.Table = name

	if p.match(TOKEN_USING) && p.check(TOKEN_IDENT) {
		p.next() // access method, e.g. btree, gin
	}
	if !p.expect(TOKEN_LPAREN) {
		return nil
	}
	for {
		col := p.parseIndexColumn()
		if col == "" {
			return nil
		}
		stmt.Columns = append(stmt.Columns, col)
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	// partial index predicates and storage options are skimmed
	p.skipToStatementEnd()
	return stmt
}

// parseIndexColumn parses one indexed column. For an expression index
// like lower(email) the first column inside the call is kept.
func (p *Parser) parseIndexColumn() string {
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected column in index, got %s", p.token.Type)
		return ""
	}
	name := p.token.Literal
	p.next()
	if p.check(TOKEN_LPAREN) {
		p.next()
		if p.check(TOKEN_IDENT) {
			name = p.token.Literal
		}
		depth := 1
		for depth > 0 {
			if p.check(TOKEN_EOF) {
				p.errorf("unexpected end of input in index expression")
				return ""
			}
			if p.check(TOKEN_LPAREN) {
				depth++
			}
			if p.check(TOKEN_RPAREN) {
				depth--
			}
			p.next()
		}
	}
	p.match(TOKEN_ASC)
	p.match(TOKEN_DESC)
	if p.match(TOKEN_NULLS) && p.check(TOKEN_IDENT) {
		p.next() // FIRST / LAST
	}
	return name
}
