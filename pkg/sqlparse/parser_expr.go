package sqlparse

import "strings"

// Operator precedence levels, loosest binding first.
const (
	precOr  = 1
	precAnd = 2
	precNot = 3
	precCmp = 4
	precAdd = 5
	precMul = 6
)

// binaryOpPrec reports the binary operator starting at the current
// token, if any. NOT is only a binary continuation when it introduces
// NOT IN / NOT LIKE / NOT BETWEEN.
func (p *Parser) binaryOpPrec() (string, int, bool) {
	switch p.token.Type {
	case TOKEN_OR:
		return "or", precOr, true
	case TOKEN_AND:
		return "and", precAnd, true
	case TOKEN_EQ:
		return "=", precCmp, true
	case TOKEN_NE:
		return "!=", precCmp, true
	case TOKEN_LT:
		return "<", precCmp, true
	case TOKEN_GT:
		return ">", precCmp, true
	case TOKEN_LE:
		return "<=", precCmp, true
	case TOKEN_GE:
		return ">=", precCmp, true
	case TOKEN_LIKE:
		return "like", precCmp, true
	case TOKEN_ILIKE:
		return "ilike", precCmp, true
	case TOKEN_IS:
		return "is", precCmp, true
	case TOKEN_IN:
		return "in", precCmp, true
	case TOKEN_BETWEEN:
		return "between", precCmp, true
	case TOKEN_NOT:
		switch p.peek.Type {
		case TOKEN_IN, TOKEN_LIKE, TOKEN_ILIKE, TOKEN_BETWEEN:
			return "not", precCmp, true
		}
		return "", 0, false
	case TOKEN_PLUS:
		return "+", precAdd, true
	case TOKEN_MINUS:
		return "-", precAdd, true
	case TOKEN_DPIPE:
		return "||", precAdd, true
	case TOKEN_STAR:
		return "*", precMul, true
	case TOKEN_SLASH:
		return "/", precMul, true
	case TOKEN_MOD:
		return "%", precMul, true
	}
	return "", 0, false
}

// parseExpr parses an expression, consuming binary operators with
// precedence >= minPrec.
func (p *Parser) parseExpr(minPrec int) Expr {
	var left Expr
	switch p.token.Type {
	case TOKEN_NOT:
		p.next()
		operand := p.parseExpr(precNot)
		if operand == nil {
			return nil
		}
		left = &UnaryExpr{Op: "not", Expr: operand}
	case TOKEN_MINUS:
		p.next()
		operand := p.parseExpr(precMul)
		if operand == nil {
			return nil
		}
		left = &UnaryExpr{Op: "-", Expr: operand}
	case TOKEN_PLUS:
		p.next()
		left = p.parseExpr(precMul)
		if left == nil {
			return nil
		}
	default:
		left = p.parsePrimary()
		if left == nil {
			return nil
		}
	}

	for {
		op, prec, ok := p.binaryOpPrec()
		if !ok || prec < minPrec {
			break
		}
		switch op {
		case "is":
			left = p.parseIsSuffix(left)
		case "in", "between", "not":
			left = p.parsePredicateSuffix(left)
		default:
			p.next()
			right := p.parseExpr(prec + 1)
			if right == nil {
				return nil
			}
			left = &BinaryExpr{Op: op, Left: left, Right: right}
		}
		if left == nil {
			return nil
		}
	}
	return left
}

// parseIsSuffix parses IS [NOT] NULL/TRUE/FALSE and
// IS [NOT] DISTINCT FROM with the operand already parsed.
func (p *Parser) parseIsSuffix(left Expr) Expr {
	p.next() // IS
	neg := p.match(TOKEN_NOT)
	var what string
	switch p.token.Type {
	case TOKEN_NULL:
		what = "null"
	case TOKEN_TRUE:
		what = "true"
	case TOKEN_FALSE:
		what = "false"
	case TOKEN_DISTINCT:
		p.next()
		if !p.expect(TOKEN_FROM) {
			return nil
		}
		right := p.parseExpr(precCmp + 1)
		if right == nil {
			return nil
		}
		op := "is distinct from"
		if neg {
			op = "is not distinct from"
		}
		return &BinaryExpr{Op: op, Left: left, Right: right}
	default:
		p.errorf("expected NULL, TRUE or FALSE after IS, got %s", p.token.Type)
		return nil
	}
	p.next()
	op := "is " + what
	if neg {
		op = "is not " + what
	}
	return &UnaryExpr{Op: op, Expr: left}
}

// parsePredicateSuffix parses [NOT] IN, [NOT] LIKE/ILIKE and
// [NOT] BETWEEN with the operand already parsed.
func (p *Parser) parsePredicateSuffix(left Expr) Expr {
	neg := p.match(TOKEN_NOT)
	switch p.token.Type {
	case TOKEN_IN:
		p.next()
		ie := &InExpr{Expr: left, Not: neg}
		if !p.expect(TOKEN_LPAREN) {
			return nil
		}
		if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
			ie.Select = p.parseSelectStmt()
			if ie.Select == nil {
				return nil
			}
		} else {
			for {
				e := p.parseExpr(precOr)
				if e == nil {
					return nil
				}
				ie.List = append(ie.List, e)
				if !p.match(TOKEN_COMMA) {
					break
				}
			}
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
		return ie
	case TOKEN_BETWEEN:
		p.next()
		low := p.parseExpr(precAdd)
		if low == nil {
			return nil
		}
		if !p.expect(TOKEN_AND) {
			return nil
		}
		high := p.parseExpr(precAdd)
		if high == nil {
			return nil
		}
		return &BetweenExpr{Expr: left, Not: neg, Low: low, High: high}
	case TOKEN_LIKE, TOKEN_ILIKE:
		op := p.token.Literal
		p.next()
		right := p.parseExpr(precCmp + 1)
		if right == nil {
			return nil
		}
		if neg {
			op = "not " + op
		}
		return &BinaryExpr{Op: op, Left: left, Right: right}
	default:
		p.errorf("expected IN, LIKE or BETWEEN after NOT, got %s", p.token.Type)
		return nil
	}
}

func (p *Parser) parsePrimary() Expr {
	var expr Expr
	tok := p.token
	switch tok.Type {
	case TOKEN_NUMBER:
		p.next()
		expr = &Literal{Kind: NumberLiteral, Value: tok.Literal}
	case TOKEN_STRING:
		p.next()
		expr = &Literal{Kind: StringLiteral, Value: tok.Literal}
	case TOKEN_TRUE:
		p.next()
		expr = &Literal{Kind: BoolLiteral, Value: "true"}
	case TOKEN_FALSE:
		p.next()
		expr = &Literal{Kind: BoolLiteral, Value: "false"}
	case TOKEN_NULL:
		p.next()
		expr = &Literal{Kind: NullLiteral, Value: "null"}
	case TOKEN_DEFAULT:
		p.next()
		expr = &Literal{Kind: DefaultLiteral, Value: "default"}
	case TOKEN_PLACEHOLDER:
		p.next()
		expr = &Placeholder{Text: tok.Literal}
	case TOKEN_STAR:
		p.next()
		expr = &StarExpr{}
	case TOKEN_CASE:
		expr = p.parseCase()
	case TOKEN_CAST:
		expr = p.parseCast()
	case TOKEN_EXISTS:
		p.next()
		if !p.expect(TOKEN_LPAREN) {
			return nil
		}
		sel := p.parseSelectStmt()
		if sel == nil {
			return nil
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
		expr = &ExistsExpr{Select: sel}
	case TOKEN_LPAREN:
		p.next()
		if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
			sel := p.parseSelectStmt()
			if sel == nil {
				return nil
			}
			if !p.expect(TOKEN_RPAREN) {
				return nil
			}
			expr = &SubqueryExpr{Select: sel}
			break
		}
		first := p.parseExpr(precOr)
		if first == nil {
			return nil
		}
		if p.check(TOKEN_COMMA) {
			items := []Expr{first}
			for p.match(TOKEN_COMMA) {
				e := p.parseExpr(precOr)
				if e == nil {
					return nil
				}
				items = append(items, e)
			}
			if !p.expect(TOKEN_RPAREN) {
				return nil
			}
			expr = &ListExpr{Items: items}
			break
		}
		if !p.expect(TOKEN_RPAREN) {
			return nil
		}
		expr = &ParenExpr{Expr: first}
	case TOKEN_IDENT:
		expr = p.parseIdentExpr()
	case TOKEN_LEFT, TOKEN_RIGHT:
		// soft keywords usable as function names
		if p.peekIs(TOKEN_LPAREN) {
			expr = p.parseIdentExpr()
			break
		}
		p.errorf("unexpected %s in expression", tok.Type)
		return nil
	default:
		p.errorf("unexpected %s in expression", tok.Type)
		return nil
	}
	if expr == nil {
		return nil
	}

	for p.match(TOKEN_DCOLON) {
		typ := p.parseTypeName()
		if typ == "" {
			return nil
		}
		expr = &CastExpr{Expr: expr, Type: typ}
	}
	return expr
}

// parseIdentExpr parses an expression starting with an identifier:
// a column reference, qualified reference, t.* or a function call.
func (p *Parser) parseIdentExpr() Expr {
	name := p.token.Literal
	p.next()

	if name == "interval" && p.check(TOKEN_STRING) {
		lit := p.token.Literal
		p.next()
		return &Literal{Kind: StringLiteral, Value: lit}
	}
	if p.check(TOKEN_LPAREN) {
		return p.parseFuncCall(name)
	}
	if !p.match(TOKEN_DOT) {
		return &ColumnRef{Column: name}
	}
	if p.match(TOKEN_STAR) {
		return &StarExpr{Table: name}
	}
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected identifier after '.', got %s", p.token.Type)
		return nil
	}
	col := p.token.Literal
	p.next()
	// deeper qualification folds the leading parts away
	for p.match(TOKEN_DOT) {
		if p.match(TOKEN_STAR) {
			return &StarExpr{Table: col}
		}
		if !p.check(TOKEN_IDENT) {
			p.errorf("expected identifier after '.', got %s", p.token.Type)
			return nil
		}
		name, col = col, p.token.Literal
		p.next()
	}
	return &ColumnRef{Table: name, Column: col}
}

func (p *Parser) parseFuncCall(name string) Expr {
	p.next() // (
	fc := &FuncCall{Name: name}
	if p.check(TOKEN_STAR) && p.peekIs(TOKEN_RPAREN) {
		p.next()
		fc.Star = true
	} else if !p.check(TOKEN_RPAREN) {
		if p.match(TOKEN_DISTINCT) {
			fc.Distinct = true
		}
		for {
			arg := p.parseExpr(precOr)
			if arg == nil {
				return nil
			}
			fc.Args = append(fc.Args, arg)
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	return fc
}

func (p *Parser) parseCase() Expr {
	p.next() // CASE
	c := &CaseExpr{}
	if !p.check(TOKEN_WHEN) {
		c.Operand = p.parseExpr(precOr)
		if c.Operand == nil {
			return nil
		}
	}
	for p.match(TOKEN_WHEN) {
		cond := p.parseExpr(precOr)
		if cond == nil {
			return nil
		}
		if !p.expect(TOKEN_THEN) {
			return nil
		}
		result := p.parseExpr(precOr)
		if result == nil {
			return nil
		}
		c.Whens = append(c.Whens, WhenClause{Cond: cond, Result: result})
	}
	if len(c.Whens) == 0 {
		p.errorf("CASE requires at least one WHEN arm")
		return nil
	}
	if p.match(TOKEN_ELSE) {
		c.Else = p.parseExpr(precOr)
		if c.Else == nil {
			return nil
		}
	}
	if !p.expect(TOKEN_END) {
		return nil
	}
	return c
}

func (p *Parser) parseCast() Expr {
	p.next() // CAST
	if !p.expect(TOKEN_LPAREN) {
		return nil
	}
	e := p.parseExpr(precOr)
	if e == nil {
		return nil
	}
	if !p.expect(TOKEN_AS) {
		return nil
	}
	typ := p.parseTypeName()
	if typ == "" {
		return nil
	}
	if !p.expect(TOKEN_RPAREN) {
		return nil
	}
	return &CastExpr{Expr: e, Type: typ}
}

// parseTypeName parses a type name: one or more identifier words
// (double precision), optional precision arguments and array brackets.
func (p *Parser) parseTypeName() string {
	if !p.check(TOKEN_IDENT) {
		p.errorf("expected type name, got %s", p.token.Type)
		return ""
	}
	parts := []string{p.token.Literal}
	p.next()
	// two-word types only: "double precision", "character varying"
	for p.check(TOKEN_IDENT) && (p.token.Literal == "precision" || p.token.Literal == "varying") {
		parts = append(parts, p.token.Literal)
		p.next()
	}
	name := strings.Join(parts, " ")
	if p.check(TOKEN_LPAREN) {
		p.next()
		var args []string
		for p.check(TOKEN_NUMBER) {
			args = append(args, p.token.Literal)
			p.next()
			if !p.match(TOKEN_COMMA) {
				break
			}
		}
		if !p.expect(TOKEN_RPAREN) {
			return ""
		}
		name += "(" + strings.Join(args, ",") + ")"
	}
	for p.check(TOKEN_LBRACKET) && p.peekIs(TOKEN_RBRACKET) {
		p.next()
		p.next()
		name += "[]"
	}
	return name
}
