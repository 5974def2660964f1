// Package parser consumes the lexer's token stream and produces an AST
// (spec.md §2 item 2, §1 "the textual command-line front-end" collaborator
// boundary notwithstanding — a parser implementation is still needed to
// exercise the core end-to-end).
//
// Grounded on the teacher's internal/parser package: a Pratt parser with a
// prefix/infix function table keyed by token type, precedence climbing in
// parseExpression, and newline-aware statement boundaries (the teacher's
// language is newline-sensitive; so is Ace's, per spec.md's `;`-terminated
// but newline-tolerant statement grammar).
package parser

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/lexer"
	"github.com/ajmd17/ace-lang-sub001/internal/token"
)

// Precedence levels, lowest to highest.
const (
	precLowest int = iota
	precAssign
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precCall
)

var precedences = map[token.Type]int{
	token.ASSIGN:   precAssign,
	token.OR:       precOr,
	token.AND:      precAnd,
	token.EQ:       precEquality,
	token.NEQ:      precEquality,
	token.LT:       precRelational,
	token.GT:       precRelational,
	token.LTE:      precRelational,
	token.GTE:      precRelational,
	token.PLUS:     precAdditive,
	token.MINUS:    precAdditive,
	token.STAR:     precMultiplicative,
	token.SLASH:    precMultiplicative,
	token.PERCENT:  precMultiplicative,
	token.LPAREN:   precCall,
	token.DOT:      precCall,
	token.LBRACKET: precCall,
	token.KEYWORD_HAS: precCall,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser is a recursive-descent, Pratt-style parser over a token stream.
type Parser struct {
	file   string
	toks   []token.Token
	pos    int
	errors *diagnostics.Bag

	curToken  token.Token
	peekToken token.Token

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

// New builds a Parser over input attributed to file, reporting errors into
// errs.
func New(file, input string, errs *diagnostics.Bag) *Parser {
	p := &Parser{file: file, toks: lexer.All(file, input), errors: errs}
	p.prefixFns = make(map[token.Type]prefixParseFn)
	p.infixFns = make(map[token.Type]infixParseFn)
	p.registerExpressionFns()

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.toks) {
		p.peekToken = p.toks[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF}
	}
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.nextToken()
	}
}

func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.KindUnexpectedToken, "expected %v, got %q", t, p.curToken.Lexeme)
	return false
}

func (p *Parser) errorf(kind diagnostics.Kind, format string, args ...interface{}) {
	p.errors.Fatal(kind, p.curToken.Loc, format, args...)
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return precLowest
}

// ParseProgram parses the entire token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{File: p.file}
	p.skipNewlines()
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
		p.skipStatementEnd()
	}
	return prog
}

func (p *Parser) skipStatementEnd() {
	for p.curIs(token.SEMICOLON) || p.curIs(token.NEWLINE) {
		p.nextToken()
	}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(diagnostics.KindUnexpectedToken, "no prefix parse function for %q", p.curToken.Lexeme)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) loc() diagnostics.Location { return p.curToken.Loc }
