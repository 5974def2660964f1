package parser

import (
	"strconv"

	"github.com/ajmd17/ace-lang-sub001/internal/ast"
	"github.com/ajmd17/ace-lang-sub001/internal/diagnostics"
	"github.com/ajmd17/ace-lang-sub001/internal/token"
)

func (p *Parser) registerExpressionFns() {
	p.prefixFns[token.IDENT] = p.parseIdentifier
	p.prefixFns[token.INT] = p.parseIntLiteral
	p.prefixFns[token.FLOAT] = p.parseFloatLiteral
	p.prefixFns[token.STRING] = p.parseStringLiteral
	p.prefixFns[token.KEYWORD_TRUE] = p.parseBoolLiteral
	p.prefixFns[token.KEYWORD_FALSE] = p.parseBoolLiteral
	p.prefixFns[token.KEYWORD_NULL] = p.parseNullLiteral
	p.prefixFns[token.MINUS] = p.parseUnaryExpr
	p.prefixFns[token.BANG] = p.parseUnaryExpr
	p.prefixFns[token.BITNOT] = p.parseUnaryExpr
	p.prefixFns[token.LPAREN] = p.parseGroupedOrTuple
	p.prefixFns[token.LBRACKET] = p.parseArrayLiteral
	p.prefixFns[token.LBRACE] = p.parseObjectLiteral
	p.prefixFns[token.KEYWORD_FUNC] = p.parseFunctionExpr
	p.prefixFns[token.KEYWORD_NEW] = p.parseNewExpr

	p.infixFns[token.PLUS] = p.parseBinaryExpr
	p.infixFns[token.MINUS] = p.parseBinaryExpr
	p.infixFns[token.STAR] = p.parseBinaryExpr
	p.infixFns[token.SLASH] = p.parseBinaryExpr
	p.infixFns[token.PERCENT] = p.parseBinaryExpr
	p.infixFns[token.EQ] = p.parseBinaryExpr
	p.infixFns[token.NEQ] = p.parseBinaryExpr
	p.infixFns[token.LT] = p.parseBinaryExpr
	p.infixFns[token.GT] = p.parseBinaryExpr
	p.infixFns[token.LTE] = p.parseBinaryExpr
	p.infixFns[token.GTE] = p.parseBinaryExpr
	p.infixFns[token.AND] = p.parseBinaryExpr
	p.infixFns[token.OR] = p.parseBinaryExpr
	p.infixFns[token.LPAREN] = p.parseCallExpr
	p.infixFns[token.DOT] = p.parseMemberExpr
	p.infixFns[token.LBRACKET] = p.parseArrayAccessExpr
	p.infixFns[token.ASSIGN] = p.parseAssignExpr
	p.infixFns[token.KEYWORD_HAS] = p.parseHasExpr
}

func (p *Parser) parseIdentifier() ast.Expression {
	n := &ast.Identifier{Name: p.curToken.Lexeme}
	n.Loc = p.loc()
	return n
}

func (p *Parser) parseIntLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorf(diagnostics.KindUnexpectedToken, "invalid integer literal %q", p.curToken.Literal)
	}
	n := &ast.IntLiteral{Value: v}
	n.Loc = p.loc()
	return n
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf(diagnostics.KindUnexpectedToken, "invalid float literal %q", p.curToken.Literal)
	}
	n := &ast.FloatLiteral{Value: v}
	n.Loc = p.loc()
	return n
}

func (p *Parser) parseStringLiteral() ast.Expression {
	n := &ast.StringLiteral{Value: p.curToken.Literal}
	n.Loc = p.loc()
	return n
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	n := &ast.BoolLiteral{Value: p.curIs(token.KEYWORD_TRUE)}
	n.Loc = p.loc()
	return n
}

func (p *Parser) parseNullLiteral() ast.Expression {
	n := &ast.NullLiteral{}
	n.Loc = p.loc()
	return n
}

func (p *Parser) parseUnaryExpr() ast.Expression {
	loc := p.loc()
	var op ast.UnaryOp
	switch p.curToken.Type {
	case token.MINUS:
		op = ast.OpNeg
	case token.BANG:
		op = ast.OpNot
	case token.BITNOT:
		op = ast.OpBitNot
	}
	p.nextToken()
	operand := p.parseExpression(precUnary)
	n := &ast.UnaryExpr{Op: op, Operand: operand}
	n.Loc = loc
	return n
}

// parseGroupedOrTuple parses `(expr)` (a plain grouped expression) or
// `(e1, e2, ...)` (a TupleLiteral), and `()` as the empty tuple. Every
// branch leaves curToken on the closing paren, matching the convention
// every prefix parse function follows: land on, never past, the
// expression's last token.
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	loc := p.loc()
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		n := &ast.TupleLiteral{}
		n.Loc = loc
		return n
	}
	p.nextToken()
	first := p.parseExpression(precLowest)
	if p.peekIs(token.COMMA) {
		elems := []ast.Expression{first}
		for p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			elems = append(elems, p.parseExpression(precLowest))
		}
		p.expect2(token.RPAREN)
		n := &ast.TupleLiteral{Elements: elems}
		n.Loc = loc
		return n
	}
	p.expect2(token.RPAREN)
	return first
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	loc := p.loc()
	elems := p.parseExpressionList(token.RBRACKET)
	n := &ast.ArrayLiteral{Elements: elems}
	n.Loc = loc
	return n
}

// parseExpressionList parses a comma-separated list of expressions
// bracketed by curToken (the opening delimiter) and end (the closing
// delimiter), landing curToken on end.
func (p *Parser) parseExpressionList(end token.Type) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(precLowest))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(precLowest))
	}
	p.expect2(end)
	return list
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	loc := p.loc()
	n := &ast.ObjectLiteral{}
	n.Loc = loc
	p.nextToken() // consume '{'
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.skipNewlines()
		if p.curIs(token.RBRACE) {
			break
		}
		if !p.curIs(token.IDENT) && !p.curIs(token.STRING) {
			p.errorf(diagnostics.KindUnexpectedToken, "expected field name, got %q", p.curToken.Lexeme)
			break
		}
		name := p.curToken.Lexeme
		p.nextToken()
		if !p.expect(token.COLON) {
			break
		}
		value := p.parseExpression(precLowest)
		n.Fields = append(n.Fields, ast.ObjectField{Name: name, Value: value})
		p.nextToken()
		if p.curIs(token.COMMA) {
			p.nextToken()
		}
	}
	return n
}

func (p *Parser) parseFunctionExpr() ast.Expression {
	loc := p.loc()
	n := &ast.FunctionExpr{}
	n.Loc = loc
	if p.peekIs(token.IDENT) {
		p.nextToken()
		n.Name = p.curToken.Lexeme
	}
	if !p.expect2(token.LPAREN) {
		return n
	}
	n.Params = p.parseParamList()
	if p.curIs(token.ARROW) {
		p.nextToken()
		n.ReturnType = p.parseTypeExpr()
		p.nextToken()
	}
	if !p.curIs(token.LBRACE) {
		p.errorf(diagnostics.KindUnexpectedToken, "expected { to begin function body, got %q", p.curToken.Lexeme)
		return n
	}
	n.Body = p.parseBlockStatement()
	return n
}

// expect2 advances past the peek token if it matches t, mirroring the
// teacher's peekAndAdvance helper used when the caller is still sitting on
// the token before the expected one.
func (p *Parser) expect2(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.KindUnexpectedToken, "expected %v, got %q", t, p.peekToken.Lexeme)
	return false
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		param := ast.Param{Name: p.curToken.Lexeme}
		if p.peekIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseTypeExpr()
		}
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(precAssign)
		}
		params = append(params, param)
		if !p.peekIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	p.expect2(token.RPAREN)
	p.nextToken()
	return params
}

func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	loc := p.loc()
	p.nextToken()
	value := p.parseExpression(precAssign - 1)
	n := &ast.AssignExpr{Target: left, Value: value}
	n.Loc = loc
	return n
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	loc := p.loc()
	op, ok := binaryOps[p.curToken.Type]
	if !ok {
		p.errorf(diagnostics.KindUnexpectedToken, "not a binary operator: %q", p.curToken.Lexeme)
	}
	prec := precedences[p.curToken.Type]
	p.nextToken()
	right := p.parseExpression(prec)
	n := &ast.BinaryExpr{Op: op, Left: left, Right: right}
	n.Loc = loc
	return n
}

var binaryOps = map[token.Type]ast.BinaryOp{
	token.PLUS:    ast.OpAdd,
	token.MINUS:   ast.OpSub,
	token.STAR:    ast.OpMul,
	token.SLASH:   ast.OpDiv,
	token.PERCENT: ast.OpMod,
	token.EQ:      ast.OpEq,
	token.NEQ:     ast.OpNeq,
	token.LT:      ast.OpLt,
	token.GT:      ast.OpGt,
	token.LTE:     ast.OpLte,
	token.GTE:     ast.OpGte,
	token.AND:     ast.OpAnd,
	token.OR:      ast.OpOr,
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	loc := p.loc()
	n := &ast.CallExpr{Callee: callee}
	n.Loc = loc
	n.Args = p.parseArgList()
	return n
}

func (p *Parser) parseArgList() []ast.Arg {
	var args []ast.Arg
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	for {
		var name string
		if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
			name = p.curToken.Lexeme
			p.nextToken()
			p.nextToken()
		}
		value := p.parseExpression(precAssign)
		args = append(args, ast.Arg{Name: name, Value: value})
		if !p.peekIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	p.expect2(token.RPAREN)
	return args
}

func (p *Parser) parseMemberExpr(obj ast.Expression) ast.Expression {
	loc := p.loc()
	if !p.expect2(token.IDENT) {
		n := &ast.MemberExpr{Object: obj}
		n.Loc = loc
		return n
	}
	n := &ast.MemberExpr{Object: obj, Name: p.curToken.Lexeme}
	n.Loc = loc
	return n
}

func (p *Parser) parseHasExpr(obj ast.Expression) ast.Expression {
	loc := p.loc()
	if !p.expect2(token.STRING) {
		n := &ast.HasExpr{Object: obj}
		n.Loc = loc
		return n
	}
	n := &ast.HasExpr{Object: obj, Name: p.curToken.Literal}
	n.Loc = loc
	return n
}

func (p *Parser) parseArrayAccessExpr(arr ast.Expression) ast.Expression {
	loc := p.loc()
	p.nextToken()
	idx := p.parseExpression(precLowest)
	p.expect2(token.RBRACKET)
	n := &ast.ArrayAccessExpr{Array: arr, Index: idx}
	n.Loc = loc
	return n
}

func (p *Parser) parseNewExpr() ast.Expression {
	loc := p.loc()
	if !p.expect2(token.IDENT) {
		n := &ast.NewExpr{}
		n.Loc = loc
		return n
	}
	n := &ast.NewExpr{TypeName: p.curToken.Lexeme}
	n.Loc = loc
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		n.Args = p.parseArgList()
	}
	return n
}
