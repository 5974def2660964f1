// Package lexer turns Ace source text into a token stream. It is the
// external collaborator named in spec.md §1 ("the lexer's UTF-8 byte
// handling details ... out of scope"); the core only depends on the Token
// shape it produces, but a working implementation lives here so the
// pipeline is runnable end-to-end.
//
// Structurally grounded on the teacher's internal/lexer/lexer.go: a
// position/readPosition/ch cursor over the input, line/column tracking
// advanced in readChar, and a big switch in NextToken.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/token"
)

// Lexer scans UTF-8 Ace source text into tokens.
type Lexer struct {
	file         string
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

// New returns a Lexer over input, attributing tokens to file.
func New(file, input string) *Lexer {
	l := &Lexer{file: file, input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) loc() diagnostics.Location {
	return diagnostics.Location{File: l.file, Line: l.line, Column: l.column}
}

func (l *Lexer) skipWhitespaceExceptNewline() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
	if l.ch == '/' && l.peekChar() == '/' {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
		l.skipWhitespaceExceptNewline()
	}
}

func simple(t token.Type, ch rune, loc diagnostics.Location) token.Token {
	return token.Token{Type: t, Lexeme: string(ch), Literal: string(ch), Loc: loc}
}

// NextToken consumes and returns the next token in the stream.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceExceptNewline()
	loc := l.loc()

	var tok token.Token
	switch l.ch {
	case '\n':
		tok = token.Token{Type: token.NEWLINE, Lexeme: "\\n", Loc: loc}
	case 0:
		tok = token.Token{Type: token.EOF, Loc: loc}
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.EQ, Lexeme: "==", Loc: loc}
		} else {
			tok = simple(token.ASSIGN, l.ch, loc)
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.NEQ, Lexeme: "!=", Loc: loc}
		} else {
			tok = simple(token.BANG, l.ch, loc)
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.LTE, Lexeme: "<=", Loc: loc}
		} else {
			tok = simple(token.LT, l.ch, loc)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = token.Token{Type: token.GTE, Lexeme: ">=", Loc: loc}
		} else {
			tok = simple(token.GT, l.ch, loc)
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = token.Token{Type: token.AND, Lexeme: "&&", Loc: loc}
		} else {
			tok = token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Loc: loc}
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = token.Token{Type: token.OR, Lexeme: "||", Loc: loc}
		} else {
			tok = token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Loc: loc}
		}
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok = token.Token{Type: token.ARROW, Lexeme: "->", Loc: loc}
		} else {
			tok = simple(token.MINUS, l.ch, loc)
		}
	case '+':
		tok = simple(token.PLUS, l.ch, loc)
	case '*':
		tok = simple(token.STAR, l.ch, loc)
	case '/':
		tok = simple(token.SLASH, l.ch, loc)
	case '%':
		tok = simple(token.PERCENT, l.ch, loc)
	case '~':
		tok = simple(token.BITNOT, l.ch, loc)
	case ',':
		tok = simple(token.COMMA, l.ch, loc)
	case ';':
		tok = simple(token.SEMICOLON, l.ch, loc)
	case ':':
		tok = simple(token.COLON, l.ch, loc)
	case '.':
		tok = simple(token.DOT, l.ch, loc)
	case '(':
		tok = simple(token.LPAREN, l.ch, loc)
	case ')':
		tok = simple(token.RPAREN, l.ch, loc)
	case '{':
		tok = simple(token.LBRACE, l.ch, loc)
	case '}':
		tok = simple(token.RBRACE, l.ch, loc)
	case '[':
		tok = simple(token.LBRACKET, l.ch, loc)
	case ']':
		tok = simple(token.RBRACKET, l.ch, loc)
	case '"':
		return l.readString(loc)
	default:
		if isLetter(l.ch) {
			return l.readIdentifier(loc)
		}
		if unicode.IsDigit(l.ch) {
			return l.readNumber(loc)
		}
		tok = token.Token{Type: token.ILLEGAL, Lexeme: string(l.ch), Loc: loc}
	}
	l.readChar()
	return tok
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func (l *Lexer) readIdentifier(loc diagnostics.Location) token.Token {
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.position]
	return token.Token{Type: token.LookupIdent(lit), Lexeme: lit, Literal: lit, Loc: loc}
}

func (l *Lexer) readNumber(loc diagnostics.Location) token.Token {
	start := l.position
	isFloat := false
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	lit := l.input[start:l.position]
	t := token.INT
	if isFloat {
		t = token.FLOAT
	}
	return token.Token{Type: t, Lexeme: lit, Literal: lit, Loc: loc}
}

func (l *Lexer) readString(loc diagnostics.Location) token.Token {
	var sb strings.Builder
	l.readChar() // consume opening quote
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				sb.WriteRune(l.ch)
			}
		} else {
			sb.WriteRune(l.ch)
		}
		l.readChar()
	}
	l.readChar() // consume closing quote
	return token.Token{Type: token.STRING, Lexeme: sb.String(), Literal: sb.String(), Loc: loc}
}

// All lexes the entire input and returns the full token stream, including
// the terminating EOF token.
func All(file, input string) []token.Token {
	l := New(file, input)
	var toks []token.Token
	for {
		t := l.NextToken()
		toks = append(toks, t)
		if t.Type == token.EOF {
			break
		}
	}
	return toks
}
