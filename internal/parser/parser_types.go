package parser

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/token"
)

// parseTypeExpr parses `Name` or `Name(Arg1, Arg2, ...)` starting with
// curToken on the type name, and leaves curToken on the last token
// consumed (the name itself, or the closing paren of a generic argument
// list) — the same "land on, don't advance past" convention every
// expression parse function follows.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	loc := p.loc()
	if !p.curIs(token.IDENT) {
		p.errorf(diagnostics.KindUnexpectedToken, "expected type name, got %q", p.curToken.Lexeme)
	}
	t := &ast.NamedTypeExpr{Loc: loc, Name: p.curToken.Lexeme}
	if p.peekIs(token.LPAREN) {
		p.nextToken() // cur: (
		p.nextToken() // cur: first arg name, or )
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			t.Args = append(t.Args, p.parseTypeExpr())
			p.nextToken()
			if p.curIs(token.COMMA) {
				p.nextToken()
			}
		}
	}
	return t
}
