package sqlparse

func (p *Parser) parseInsert() *InsertStmt {
	p.next() // INSERT
	if !p.expect(TOKEN_INTO) {
		return nil
	}
	table := p.parseTableTarget()
	if table == nil {
		return nil
	}
	stmt := &InsertStmt{Table: table}

	if p.check(TOKEN_LPAREN) && !p.peekIs(TOKEN_SELECT) && !p.peekIs(TOKEN_WITH) {
		p.next()
		for {
			if !p.check(TOKEN_IDENT) {
				p.errorf("expected column name in INSERT list, got %s", p.token.Type)
				return nil
			}
			stmt.Columns = append(stmt.Columns, p.token.Literal)
			p.next()
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
	}

	switch {
	case p.match(TOKEN_VALUES):
		for {
			if !p.expect(TOKEN_LPAREN) {
				return nil
			}
			var row []Expr
			for {
				e := p.parseExpr(precOr)
				if e == nil {
					return nil
				}
				row = append(row, e)
				if !p.match(TOKEN_COMMA) {
					break
				}
			}
			if !p.expect(TOKEN_RPAREN) {
				return nil
			}
			stmt.Rows = append(stmt.Rows, row)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	case p.check(TOKEN_SELECT) || p.check(TOKEN_WITH):
		stmt.Select = p.parseSelectStmt()
		if stmt.Select == nil {
			return nil
		}
	case p.check(TOKEN_LPAREN):
		p.next()
		stmt.Select = p.parseSelectStmt()
		if stmt.Select == nil {
			return nil
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
	case p.check(TOKEN_DEFAULT):
		p.next()
		if !p.expect(TOKEN_VALUES) {
			return nil
		}
	default:
		p.errorf("expected VALUES or SELECT in INSERT, got %s", p.token.Type)
		return nil
	}

	// ON CONFLICT is skimmed; its details do not affect extraction
	if p.check(TOKEN_ON) {
		for !p.check(TOKEN_EOF) && !p.check(TOKEN_SEMICOLON) && !p.check(TOKEN_RETURNING) {
			p.next()
		}
	}

	stmt.Returning = p.parseReturning()
	if p.failed() {
		return nil
	}
	return stmt
}

func (p *Parser) parseUpdate() *UpdateStmt {
	p.next() // UPDATE
	table := p.parseTableTarget()
	if table == nil {
		return nil
	}
	stmt := &UpdateStmt{Table: table}
	if !p.expect(TOKEN_SET) {
		return nil
	}
	for {
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected column name in SET, got %s", p.token.Type)
			return nil
		}
		col := &ColumnRef{Column: p.token.Literal}
		p.next()
		if p.match(TOKEN_DOT) {
			if !p.check(TOKEN_IDENT) {
				p.errorf("expected column name after '.', got %s", p.token.Type)
				return nil
			}
			col.Table = col.Column
			col.Column = p.token.Literal
			p.next()
		}
		if !p.expect(TOKEN_EQ) {
			return nil
		}
		val := p.parseExpr(precOr)
		if val == nil {
			return nil
		}
		stmt.Assignments = append(stmt.Assignments, Assignment{Column: col, Value: val})
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	if p.match(TOKEN_FROM) {
		stmt.From = p.parseFromClause()
		if stmt.From == nil {
			return nil
		}
	}
	if p.match(TOKEN_WHERE) {
		stmt.Where = p.parseExpr(precOr)
		if stmt.Where == nil {
			return nil
		}
	}
	stmt.Returning = p.parseReturning()
	if p.failed() {
		return nil
	}
	return stmt
}

func (p *Parser) parseDelete() *DeleteStmt {
	p.next() // DELETE
	if !p.expect(TOKEN_FROM) {
		return nil
	}
	table := p.parseTableTarget()
	if table == nil {
		return nil
	}
	stmt := &DeleteStmt{Table: table}
	if p.match(TOKEN_USING) {
		stmt.Using = p.parseFromClause()
		if stmt.Using == nil {
			return nil
		}
	}
	if p.match(TOKEN_WHERE) {
		stmt.Where = p.parseExpr(precOr)
		if stmt.Where == nil {
			return nil
		}
	}
	stmt.Returning = p.parseReturning()
	if p.failed() {
		return nil
	}
	return stmt
}

// parseTableTarget parses the statement's target table: a possibly
// schema-qualified name with an optional alias.
func (p *Parser) parseTableTarget() *TableName {
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected table name, got %s", p.token.Type)
		return nil
	}
	t := &TableName{Name: p.token.Literal}
	p.next()
	if p.match(TOKEN_DOT) {
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected table name after '.', got %s", p.token.Type)
			return nil
		}
		t.Schema = t.Name
		t.Name = p.token.Literal
		p.next()
	}
	t.Alias = p.parseAlias()
	if p.failed() {
		return nil
	}
	return t
}

// parseReturning consumes an optional RETURNING clause. A nil result
// with p.failed() false means the clause was absent.
func (p *Parser) parseReturning() []SelectItem {
	if !p.match(TOKEN_RETURNING) {
		return nil
	}
	var items []SelectItem
	for {
		item := p.parseSelectItem()
		if item == nil {
			return nil
		}
		items = append(items, *item)
		if !p.match(TOKEN_COMMA) {
			break
		}
	}
	return items
}
