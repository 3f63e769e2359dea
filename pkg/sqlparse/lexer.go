package sqlparse

import "strings"

// Lexer tokenizes SQL input byte-wise. Identifiers and keywords are
// lower-cased; string literals keep their raw content; comments are
// skipped. Bound parameter placeholders in the styles %s, %(name)s,
// :name, $1 and ? lex as TOKEN_PLACEHOLDER so that parameterized
// queries extracted from source code parse without substitution.
type Lexer struct {
	input   string
	pos     int  // current position
	readPos int  // next position
	ch      byte // current char (0 = EOF)
	line    int
	column  int
}

// NewLexer creates a lexer for the given SQL input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.pos}
}

// NextToken returns the next token in the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.position()

	switch l.ch {
	case 0:
		return Token{Type: TOKEN_EOF, Pos: pos}
	case ',':
		l.readChar()
		return Token{Type: TOKEN_COMMA, Literal: ",", Pos: pos}
	case '(':
		l.readChar()
		return Token{Type: TOKEN_LPAREN, Literal: "(", Pos: pos}
	case ')':
		l.readChar()
		return Token{Type: TOKEN_RPAREN, Literal: ")", Pos: pos}
	case '[':
		l.readChar()
		return Token{Type: TOKEN_LBRACKET, Literal: "[", Pos: pos}
	case ']':
		l.readChar()
		return Token{Type: TOKEN_RBRACKET, Literal: "]", Pos: pos}
	case ';':
		l.readChar()
		return Token{Type: TOKEN_SEMICOLON, Literal: ";", Pos: pos}
	case '.':
		l.readChar()
		return Token{Type: TOKEN_DOT, Literal: ".", Pos: pos}
	case '+':
		l.readChar()
		return Token{Type: TOKEN_PLUS, Literal: "+", Pos: pos}
	case '-':
		l.readChar()
		return Token{Type: TOKEN_MINUS, Literal: "-", Pos: pos}
	case '*':
		l.readChar()
		return Token{Type: TOKEN_STAR, Literal: "*", Pos: pos}
	case '/':
		l.readChar()
		return Token{Type: TOKEN_SLASH, Literal: "/", Pos: pos}
	case '=':
		l.readChar()
		return Token{Type: TOKEN_EQ, Literal: "=", Pos: pos}
	case '<':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TOKEN_LE, Literal: "<=", Pos: pos}
		}
		if l.ch == '>' {
			l.readChar()
			return Token{Type: TOKEN_NE, Literal: "<>", Pos: pos}
		}
		return Token{Type: TOKEN_LT, Literal: "<", Pos: pos}
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TOKEN_GE, Literal: ">=", Pos: pos}
		}
		return Token{Type: TOKEN_GT, Literal: ">", Pos: pos}
	case '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Token{Type: TOKEN_NE, Literal: "!=", Pos: pos}
		}
		return Token{Type: TOKEN_ILLEGAL, Literal: "!", Pos: pos}
	case '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			return Token{Type: TOKEN_DPIPE, Literal: "||", Pos: pos}
		}
		return Token{Type: TOKEN_ILLEGAL, Literal: "|", Pos: pos}
	case '\'':
		return l.readString(pos)
	case '"':
		return l.readQuotedIdent(pos)
	case '%':
		return l.readPercentPlaceholder(pos)
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			l.readChar()
			return Token{Type: TOKEN_DCOLON, Literal: "::", Pos: pos}
		}
		if isIdentStart(l.peekChar()) {
			l.readChar()
			name := l.readIdentifier()
			return Token{Type: TOKEN_PLACEHOLDER, Literal: ":" + name, Pos: pos}
		}
		l.readChar()
		return Token{Type: TOKEN_ILLEGAL, Literal: ":", Pos: pos}
	case '?':
		l.readChar()
		return Token{Type: TOKEN_PLACEHOLDER, Literal: "?", Pos: pos}
	case '$':
		return l.readDollar(pos)
	default:
		if isIdentStart(l.ch) {
			lit := l.readIdentifier()
			return Token{Type: LookupIdent(lit), Literal: lit, Pos: pos}
		}
		if isDigit(l.ch) {
			return l.readNumber(pos)
		}
		ch := l.ch
		l.readChar()
		return Token{Type: TOKEN_ILLEGAL, Literal: string(ch), Pos: pos}
	}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

// readString reads a single-quoted string literal. Doubled quotes
// inside the literal are the SQL escape for a quote character.
func (l *Lexer) readString(pos Position) Token {
	var sb strings.Builder
	l.readChar() // opening quote
	for {
		if l.ch == 0 {
			return Token{Type: TOKEN_ILLEGAL, Literal: sb.String(), Pos: pos}
		}
		if l.ch == '\'' {
			if l.peekChar() == '\'' {
				sb.WriteByte('\'')
				l.readChar()
				l.readChar()
				continue
			}
			l.readChar() // closing quote
			break
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	return Token{Type: TOKEN_STRING, Literal: sb.String(), Pos: pos}
}

// readQuotedIdent reads a double-quoted identifier, lower-casing it so
// quoted and bare identifiers fold together.
func (l *Lexer) readQuotedIdent(pos Position) Token {
	var sb strings.Builder
	l.readChar() // opening quote
	for l.ch != '"' && l.ch != 0 {
		sb.WriteByte(l.ch)
		l.readChar()
	}
	if l.ch == 0 {
		return Token{Type: TOKEN_ILLEGAL, Literal: sb.String(), Pos: pos}
	}
	l.readChar() // closing quote
	return Token{Type: TOKEN_IDENT, Literal: strings.ToLower(sb.String()), Pos: pos}
}

// readPercentPlaceholder handles the psycopg styles %s and %(name)s;
// a bare % is the modulo operator.
func (l *Lexer) readPercentPlaceholder(pos Position) Token {
	next := l.peekChar()
	if next == '(' {
		start := l.pos
		l.readChar() // %
		l.readChar() // (
		for l.ch != ')' && l.ch != 0 {
			l.readChar()
		}
		if l.ch == ')' {
			l.readChar()
			if isIdentStart(l.ch) {
				l.readChar() // format char, e.g. the s of %(name)s
			}
			return Token{Type: TOKEN_PLACEHOLDER, Literal: l.input[start:l.pos], Pos: pos}
		}
		return Token{Type: TOKEN_ILLEGAL, Literal: l.input[start:l.pos], Pos: pos}
	}
	if isIdentStart(next) {
		start := l.pos
		l.readChar() // %
		l.readIdentifier()
		return Token{Type: TOKEN_PLACEHOLDER, Literal: l.input[start:l.pos], Pos: pos}
	}
	l.readChar()
	return Token{Type: TOKEN_MOD, Literal: "%", Pos: pos}
}

// readDollar handles numbered placeholders ($1) and dollar-quoted
// strings ($$...$$ and $tag$...$tag$).
func (l *Lexer) readDollar(pos Position) Token {
	if isDigit(l.peekChar()) {
		start := l.pos
		l.readChar() // $
		for isDigit(l.ch) {
			l.readChar()
		}
		return Token{Type: TOKEN_PLACEHOLDER, Literal: l.input[start:l.pos], Pos: pos}
	}

	// Dollar quoting: read the tag, then scan for the matching closer.
	tagStart := l.pos
	l.readChar() // $
	for isIdentChar(l.ch) {
		l.readChar()
	}
	if l.ch != '$' {
		return Token{Type: TOKEN_ILLEGAL, Literal: l.input[tagStart:l.pos], Pos: pos}
	}
	l.readChar() // closing $ of the tag
	tag := l.input[tagStart:l.pos]

	bodyStart := l.pos
	idx := strings.Index(l.input[l.pos:], tag)
	if idx < 0 {
		for l.ch != 0 {
			l.readChar()
		}
		return Token{Type: TOKEN_ILLEGAL, Literal: l.input[bodyStart:l.pos], Pos: pos}
	}
	for l.pos < bodyStart+idx+len(tag) {
		l.readChar()
	}
	return Token{Type: TOKEN_STRING, Literal: l.input[bodyStart : bodyStart+idx], Pos: pos}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return strings.ToLower(l.input[start:l.pos])
}

func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peekChar()) || ((l.peekChar() == '+' || l.peekChar() == '-') && l.readPos+1 < len(l.input) && isDigit(l.input[l.readPos+1])) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return Token{Type: TOKEN_NUMBER, Literal: l.input[start:l.pos], Pos: pos}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
