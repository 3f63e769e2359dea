package sqlparse

// parseSelectStmt parses a full SELECT: optional WITH clause, the
// select core, any set-operation chain, then ORDER BY/LIMIT/OFFSET
// applied to the whole chain.
func (p *Parser) parseSelectStmt() *SelectStmt {
	stmt := &SelectStmt{}

	if p.match(TOKEN_WITH) {
		p.match(TOKEN_RECURSIVE)
		for {
			cte := p.parseCTE()
			if cte == nil {
				return nil
			}
			stmt.CTEs = append(stmt.CTEs, *cte)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}

	if !p.parseSelectCore(stmt) {
		return nil
	}

	cur := stmt
	for {
		var op string
		switch p.token.Type {
		case TOKEN_UNION:
			p.next()
			op = "union"
			if p.match(TOKEN_ALL) {
				op = "union all"
			}
		case TOKEN_INTERSECT:
			p.next()
			p.match(TOKEN_ALL)
			op = "intersect"
		case TOKEN_EXCEPT:
			p.next()
			p.match(TOKEN_ALL)
			op = "except"
		default:
			op = ""
		}
		if op == "" {
			break
		}
		right := &SelectStmt{}
		if !p.parseSelectCore(right) {
			return nil
		}
		cur.SetOp = op
		cur.Right = right
		cur = right
	}

	if p.check(TOKEN_ORDER) {
		p.next()
		if !p.expect(TOKEN_BY) {
			return nil
		}
		for {
			e := p.parseExpr(precOr)
			if e == nil {
				return nil
			}
			oi := OrderItem{Expr: e}
			if p.match(TOKEN_DESC) {
				oi.Desc = true
			} else {
				p.match(TOKEN_ASC)
			}
			if p.match(TOKEN_NULLS) && p.check(TOKEN_IDENT) {
				p.next() // FIRST / LAST
			}
			stmt.OrderBy = append(stmt.OrderBy, oi)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}
	if p.match(TOKEN_LIMIT) {
		if !p.match(TOKEN_ALL) {
			stmt.Limit = p.parseExpr(precOr)
			if stmt.Limit == nil {
				return nil
			}
		}
	}
	if p.match(TOKEN_OFFSET) {
		stmt.Offset = p.parseExpr(precOr)
		if stmt.Offset == nil {
			return nil
		}
	}
	return stmt
}

// parseSelectCore parses SELECT ... FROM ... WHERE ... GROUP BY ...
// HAVING into stmt, without set operations or ordering.
func (p *Parser) parseSelectCore(stmt *SelectStmt) bool {
	if !p.expect(TOKEN_SELECT) {
		return false
	}
	if p.match(TOKEN_DISTINCT) {
		stmt.Distinct = true
	} else {
		p.match(TOKEN_ALL)
	}

	for {
		item := p.parseSelectItem()
		if item == nil {
			return false
		}
		stmt.Items = append(stmt.Items, *item)
		if !p.match(TOKEN_COMMA) {
			break
		}
	}

	if p.match(TOKEN_FROM) {
		stmt.From = p.parseFromClause()
		if stmt.From == nil {
			return false
		}
	}
	if p.match(TOKEN_WHERE) {
		stmt.Where = p.parseExpr(precOr)
		if stmt.Where == nil {
			return false
		}
	}
	if p.check(TOKEN_GROUP) {
		p.next()
		if !p.expect(TOKEN_BY) {
			return false
		}
		for {
			e := p.parseExpr(precOr)
			if e == nil {
				return false
			}
			stmt.GroupBy = append(stmt.GroupBy, e)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}
	if p.match(TOKEN_HAVING) {
		stmt.Having = p.parseExpr(precOr)
		if stmt.Having == nil {
			return false
		}
	}
	return true
}

func (p *Parser) parseSelectItem() *SelectItem {
	expr := p.parseExpr(precOr)
	if expr == nil {
		return nil
	}
	if se, ok := expr.(*StarExpr); ok {
		if se.Table == "" {
			return &SelectItem{Star: true}
		}
		return &SelectItem{TableStar: se.Table}
	}
	item := &SelectItem{Expr: expr}
	if p.match(TOKEN_AS) {
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected alias after AS, got %s", p.token.Type)
			return nil
		}
		item.Alias = p.token.Literal
		p.next()
	} else if p.check(TOKEN_IDENT) {
		item.Alias = p.token.Literal
		p.next()
	}
	return item
}

func (p *Parser) parseCTE() *CTE {
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected CTE name, got %s", p.token.Type)
		return nil
	}
	cte := &CTE{Name: p.token.Literal}
	p.next()
	if p.check(TOKEN_LPAREN) && p.peekIs(TOKEN_IDENT) {
		p.next()
		for {
			if !p.check(TOKEN_IDENT) {
				p.errorf("expected column name in CTE, got %s", p.token.Type)
				return nil
			}
			cte.Columns = append(cte.Columns, p.token.Literal)
			p.next()
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
	}
	if !p.expect(TOKEN_AS) {
		return nil
	}
	if !p.expect(TOKEN_LPAREN) {
		return nil
	}
	cte.Select = p.parseSelectStmt()
	if cte.Select == nil {
		return nil
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	return cte
}

// ---------- FROM clause ----------

func (p *Parser) parseFromClause() *FromClause {
	f := &FromClause{}
	f.Source = p.parseTableRef()
	if f.Source == nil {
		return nil
	}
	for {
		if p.match(TOKEN_COMMA) {
			right := p.parseTableRef()
			if right == nil {
				return nil
			}
			f.Joins = append(f.Joins, JoinClause{Type: "cross", Right: right})
			continue
		}
		jc, ok := p.parseJoinClause()
		if !ok {
			return nil
		}
		if jc == nil {
			break
		}
		f.Joins = append(f.Joins, *jc)
	}
	return f
}

// parseJoinClause parses one join step. Returns (nil, true) when the
// current token does not start a join.
func (p *Parser) parseJoinClause() (*JoinClause, bool) {
	jc := &JoinClause{Type: "inner"}
	if p.check(TOKEN_NATURAL) {
		jc.Natural = true
		p.next()
	}
	switch p.token.Type {
	case TOKEN_JOIN, TOKEN_INNER:
		p.match(TOKEN_INNER)
	case TOKEN_LEFT:
		jc.Type = "left"
		p.next()
		p.match(TOKEN_OUTER)
	case TOKEN_RIGHT:
		jc.Type = "right"
		p.next()
		p.match(TOKEN_OUTER)
	case TOKEN_FULL:
		jc.Type = "full"
		p.next()
		p.match(TOKEN_OUTER)
	case TOKEN_CROSS:
		jc.Type = "cross"
		p.next()
	default:
		if jc.Natural {
			p.errorf("expected join after NATURAL, got %s", p.token.Type)
			return nil, false
		}
		return nil, true
	}
	if !p.expect(TOKEN_JOIN) {
		return nil, false
	}
	jc.Right = p.parseTableRef()
	if jc.Right == nil {
		return nil, false
	}
	if p.match(TOKEN_ON) {
		jc.On = p.parseExpr(precOr)
		if jc.On == nil {
			return nil, false
		}
	} else if p.match(TOKEN_USING) {
		if !p.expect(TOKEN_LPAREN) {
			return nil, false
		}
		for {
			if !p.check(TOKEN_IDENT) {
				p.errorf("expected column name in USING, got %s", p.token.Type)
				return nil, false
			}
			jc.Using = append(jc.Using, p.token.Literal)
			p.next()
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil, false
		}
	}
	return jc, true
}

func (p *Parser) parseTableRef() TableRef {
	p.match(TOKEN_LATERAL)

	if p.check(TOKEN_LPAREN) {
		p.next()
		if !p.check(TOKEN_SELECT) && !p.check(TOKEN_WITH) {
			p.errorf("expected subquery after '(' in FROM, got %s", p.token.Type)
			return nil
		}
		sel := p.parseSelectStmt()
		if sel == nil {
			return nil
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
		dt := &DerivedTable{Select: sel, Alias: p.parseAlias()}
		if p.failed() {
			return nil
		}
		return dt
	}

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
	// table function: keep the name, skim the arguments
	if p.check(TOKEN_LPAREN) {
		if !p.skipParens() {
			return nil
		}
	}
	t.Alias = p.parseAlias()
	if p.failed() {
		return nil
	}
	return t
}

// parseAlias consumes an optional [AS] identifier alias.
func (p *Parser) parseAlias() string {
	if p.match(TOKEN_AS) {
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected alias after AS, got %s", p.token.Type)
			return ""
		}
		a := p.token.Literal
		p.next()
		return a
	}
	if p.check(TOKEN_IDENT) {
		a := p.token.Literal
		p.next()
		return a
	}
	return ""
}
