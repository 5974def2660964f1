package parser

import (
	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/token"
)

// parseStatement dispatches on curToken and returns a fully-parsed
// statement, with curToken left on the statement's last real token (the
// closing brace of a block form, or the final token of a bare expression /
// declaration — never the trailing semicolon). ParseProgram and
// parseBlockStatement both advance past that token and skip any separator
// tokens immediately afterward, so no parse* helper needs to know whether
// a semicolon, a newline, or EOF follows it.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.KEYWORD_LET, token.KEYWORD_CONST:
		return p.parseVariableDeclaration()
	case token.KEYWORD_TYPE:
		return p.parsePrototypeDeclaration()
	case token.KEYWORD_MODULE:
		return p.parseModuleDeclaration()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.KEYWORD_IF:
		return p.parseIfStatement()
	case token.KEYWORD_WHILE:
		return p.parseWhileStatement()
	case token.KEYWORD_TRY:
		return p.parseTryCatchStatement()
	case token.KEYWORD_RETURN:
		return p.parseReturnStatement()
	case token.KEYWORD_YIELD:
		return p.parseYieldStatement()
	case token.KEYWORD_LOCAL_IMPORT:
		return p.parseLocalImportStatement()
	case token.KEYWORD_IMPORT:
		return p.parseModuleImportStatement()
	case token.KEYWORD_META:
		return p.parseMetaBlockStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	loc := p.loc()
	blk := &ast.BlockStatement{}
	blk.Loc = loc
	p.nextToken() // consume '{'
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			blk.Statements = append(blk.Statements, stmt)
		}
		p.nextToken()
		p.skipStatementEnd()
	}
	return blk
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	loc := p.loc()
	expr := p.parseExpression(precLowest)
	n := &ast.ExpressionStatement{Expr: expr}
	n.Loc = loc
	return n
}

func (p *Parser) parseVariableDeclaration() ast.Statement {
	loc := p.loc()
	isConst := p.curIs(token.KEYWORD_CONST)
	if !p.expect2(token.IDENT) {
		n := &ast.VariableDeclaration{IsConst: isConst}
		n.Loc = loc
		return n
	}
	n := &ast.VariableDeclaration{Name: p.curToken.Lexeme, IsConst: isConst}
	n.Loc = loc

	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		n.Type = p.parseTypeExpr()
	}
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		n.Value = p.parseExpression(precLowest)
	}
	return n
}

func (p *Parser) parsePrototypeDeclaration() ast.Statement {
	loc := p.loc()
	if !p.expect2(token.IDENT) {
		n := &ast.PrototypeDeclaration{}
		n.Loc = loc
		return n
	}
	n := &ast.PrototypeDeclaration{Name: p.curToken.Lexeme}
	n.Loc = loc

	if p.peekIs(token.LPAREN) {
		p.nextToken() // (
		p.nextToken()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			n.GenericParams = append(n.GenericParams, p.curToken.Lexeme)
			p.nextToken()
			if p.curIs(token.COMMA) {
				p.nextToken()
			}
		}
	}
	if !p.expect2(token.LBRACE) {
		return n
	}
	p.nextToken() // consume '{'
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		member := ast.PrototypeMember{Name: p.curToken.Lexeme}
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			member.Type = p.parseTypeExpr()
		}
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			member.Default = p.parseExpression(precAssign)
		}
		n.Members = append(n.Members, member)
		p.nextToken()
		p.skipStatementEnd()
	}
	return n
}

func (p *Parser) parseModuleDeclaration() ast.Statement {
	loc := p.loc()
	if !p.expect2(token.IDENT) {
		n := &ast.ModuleDeclaration{}
		n.Loc = loc
		return n
	}
	n := &ast.ModuleDeclaration{Name: p.curToken.Lexeme}
	n.Loc = loc
	if !p.expect2(token.LBRACE) {
		return n
	}
	p.nextToken()
	p.skipNewlines()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			n.Body = append(n.Body, stmt)
		}
		p.nextToken()
		p.skipStatementEnd()
	}
	return n
}

func (p *Parser) parseIfStatement() ast.Statement {
	loc := p.loc()
	if !p.expect2(token.LPAREN) {
		n := &ast.IfStatement{}
		n.Loc = loc
		return n
	}
	p.nextToken()
	cond := p.parseExpression(precLowest)
	p.expect2(token.RPAREN)
	if !p.expect2(token.LBRACE) {
		n := &ast.IfStatement{Cond: cond}
		n.Loc = loc
		return n
	}
	then := p.parseBlockStatement()
	n := &ast.IfStatement{Cond: cond, Then: then}
	n.Loc = loc

	if p.peekIs(token.KEYWORD_ELSE) {
		p.nextToken()
		switch {
		case p.peekIs(token.KEYWORD_IF):
			p.nextToken()
			n.Else = p.parseIfStatement()
		case p.peekIs(token.LBRACE):
			p.nextToken()
			n.Else = p.parseBlockStatement()
		default:
			p.errorf(diagnostics.KindElseOutsideIf, "expected { or if after else, got %q", p.peekToken.Lexeme)
		}
	}
	return n
}

func (p *Parser) parseWhileStatement() ast.Statement {
	loc := p.loc()
	if !p.expect2(token.LPAREN) {
		n := &ast.WhileStatement{}
		n.Loc = loc
		return n
	}
	p.nextToken()
	cond := p.parseExpression(precLowest)
	p.expect2(token.RPAREN)
	if !p.expect2(token.LBRACE) {
		n := &ast.WhileStatement{Cond: cond}
		n.Loc = loc
		return n
	}
	body := p.parseBlockStatement()
	n := &ast.WhileStatement{Cond: cond, Body: body}
	n.Loc = loc
	return n
}

func (p *Parser) parseTryCatchStatement() ast.Statement {
	loc := p.loc()
	if !p.expect2(token.LBRACE) {
		n := &ast.TryCatchStatement{}
		n.Loc = loc
		return n
	}
	tryBlk := p.parseBlockStatement()
	n := &ast.TryCatchStatement{Try: tryBlk}
	n.Loc = loc

	if !p.expect2(token.KEYWORD_CATCH) {
		return n
	}
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		if p.expect2(token.IDENT) {
			n.CatchName = p.curToken.Lexeme
		}
		p.expect2(token.RPAREN)
	}
	if !p.expect2(token.LBRACE) {
		return n
	}
	n.Catch = p.parseBlockStatement()
	return n
}

func (p *Parser) parseReturnStatement() ast.Statement {
	loc := p.loc()
	n := &ast.ReturnStatement{}
	n.Loc = loc
	if p.peekIs(token.SEMICOLON) || p.peekIs(token.NEWLINE) || p.peekIs(token.RBRACE) || p.peekIs(token.EOF) {
		return n
	}
	p.nextToken()
	n.Value = p.parseExpression(precLowest)
	return n
}

func (p *Parser) parseYieldStatement() ast.Statement {
	loc := p.loc()
	p.nextToken()
	value := p.parseExpression(precLowest)
	n := &ast.YieldStatement{Value: value}
	n.Loc = loc
	return n
}

func (p *Parser) parseLocalImportStatement() ast.Statement {
	loc := p.loc()
	if !p.expect2(token.STRING) {
		n := &ast.LocalImportStatement{}
		n.Loc = loc
		return n
	}
	n := &ast.LocalImportStatement{Path: p.curToken.Literal}
	n.Loc = loc
	return n
}

func (p *Parser) parseModuleImportStatement() ast.Statement {
	loc := p.loc()
	if !p.expect2(token.STRING) {
		n := &ast.ModuleImportStatement{}
		n.Loc = loc
		return n
	}
	n := &ast.ModuleImportStatement{Path: p.curToken.Literal}
	n.Loc = loc
	if p.peekIs(token.IDENT) && p.peekToken.Lexeme == "as" {
		p.nextToken()
		if p.expect2(token.IDENT) {
			n.Alias = p.curToken.Lexeme
		}
	}
	return n
}

func (p *Parser) parseMetaBlockStatement() ast.Statement {
	loc := p.loc()
	if !p.expect2(token.LBRACE) {
		n := &ast.MetaBlockStatement{}
		n.Loc = loc
		return n
	}
	blk := p.parseBlockStatement()
	n := &ast.MetaBlockStatement{Body: blk.Statements}
	n.Loc = loc
	return n
}
