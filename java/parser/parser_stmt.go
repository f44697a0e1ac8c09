package parser

import "github.com/dhamidi/jcook/java/ast"

func (p *Parser) parseBlock() *ast.Block {
	tok := p.expect(TokenLBrace)
	b := &ast.Block{Location: tok.Location()}
	for !p.check(TokenRBrace) {
		if p.check(TokenEOF) {
			p.failAt(p.peek(), "unterminated block starting at %s", tok.Location())
		}
		b.AddStatement(p.parseBlockStatement())
	}
	p.expect(TokenRBrace)
	return b
}

// parseBlockStatement parses a statement or a local variable declaration.
func (p *Parser) parseBlockStatement() ast.Stmt {
	switch tok := p.peek(); tok.Kind {
	case TokenClass, TokenInterface, TokenEnum:
		p.failAt(tok, "local type declarations are not supported")
	case TokenFinal, TokenAt:
		return p.parseLocalVarDecl(true)
	}
	if p.isLocalVarDecl() {
		return p.parseLocalVarDecl(true)
	}
	return p.parseStatement()
}

func (p *Parser) parseLocalVarDecl(semicolon bool) *ast.LocalVariableDeclarationStatement {
	start := p.peek()
	decl := &ast.LocalVariableDeclarationStatement{
		Location:  start.Location(),
		Modifiers: p.parseModifiers(true),
		Type:      p.parseType(),
	}
	decl.Variables = p.parseVariableDeclarators(p.expect(TokenIdent))
	if semicolon {
		p.expect(TokenSemicolon)
	}
	return decl
}

func (p *Parser) parseStatement() ast.Stmt {
	tok := p.peek()
	loc := tok.Location()
	switch tok.Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		p.advance()
		return &ast.EmptyStatement{Location: loc}
	case TokenIf:
		p.advance()
		s := &ast.IfStatement{Location: loc, Cond: p.parseParenExpression()}
		s.Then = p.parseStatement()
		if p.accept(TokenElse) {
			s.Else = p.parseStatement()
		}
		return s
	case TokenWhile:
		p.advance()
		s := &ast.WhileStatement{Location: loc, Cond: p.parseParenExpression()}
		s.Body = p.parseStatement()
		return s
	case TokenDo:
		p.advance()
		s := &ast.DoStatement{Location: loc, Body: p.parseStatement()}
		p.expect(TokenWhile)
		s.Cond = p.parseParenExpression()
		p.expect(TokenSemicolon)
		return s
	case TokenFor:
		return p.parseForStatement()
	case TokenSwitch:
		return p.parseSwitchStatement()
	case TokenReturn:
		p.advance()
		s := &ast.ReturnStatement{Location: loc}
		if !p.check(TokenSemicolon) {
			s.Value = p.parseExpression()
		}
		p.expect(TokenSemicolon)
		return s
	case TokenBreak:
		p.advance()
		s := &ast.BreakStatement{Location: loc}
		if p.check(TokenIdent) {
			s.Label = p.advance().Literal
		}
		p.expect(TokenSemicolon)
		return s
	case TokenContinue:
		p.advance()
		s := &ast.ContinueStatement{Location: loc}
		if p.check(TokenIdent) {
			s.Label = p.advance().Literal
		}
		p.expect(TokenSemicolon)
		return s
	case TokenThrow:
		p.advance()
		s := &ast.ThrowStatement{Location: loc, Value: p.parseExpression()}
		p.expect(TokenSemicolon)
		return s
	case TokenTry, TokenSynchronized, TokenAssert:
		p.failAt(tok, "%s statements are not supported", tok.Literal)
	case TokenIdent:
		if p.peekN(1).Kind == TokenColon {
			p.advance()
			p.advance()
			return &ast.LabeledStatement{Location: loc, Label: tok.Literal, Body: p.parseStatement()}
		}
	}

	e := p.parseExpression()
	if !isStatementExpression(e) {
		p.failAt(tok, "not a statement")
	}
	p.expect(TokenSemicolon)
	return &ast.ExpressionStatement{Location: loc, Expr: e}
}

func isStatementExpression(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Assignment, *ast.Crement, *ast.MethodInvocation, *ast.NewClassInstance:
		return true
	}
	return false
}

func (p *Parser) parseParenExpression() ast.Expr {
	p.expect(TokenLParen)
	e := p.parseExpression()
	p.expect(TokenRParen)
	return e
}

func (p *Parser) isEnhancedFor() bool {
	i := p.scanType(p.scanLocalModifiers(0))
	return i > 0 && p.peekN(i).Kind == TokenIdent && p.peekN(i+1).Kind == TokenColon
}

func (p *Parser) parseForStatement() ast.Stmt {
	tok := p.expect(TokenFor)
	p.expect(TokenLParen)

	if p.isEnhancedFor() {
		start := p.peek()
		mods := p.parseModifiers(true)
		v := &ast.FormalParameter{
			Location: start.Location(),
			Final:    mods.Has(ast.ModFinal),
			Type:     p.parseType(),
			Name:     p.expect(TokenIdent).Literal,
		}
		p.expect(TokenColon)
		s := &ast.ForEachStatement{Location: tok.Location(), Variable: v, Iterable: p.parseExpression()}
		p.expect(TokenRParen)
		s.Body = p.parseStatement()
		return s
	}

	s := &ast.ForStatement{Location: tok.Location()}
	if !p.check(TokenSemicolon) {
		if k := p.peek().Kind; k == TokenFinal || k == TokenAt || p.isLocalVarDecl() {
			s.Init = []ast.Stmt{p.parseLocalVarDecl(false)}
		} else {
			for _, e := range p.parseStatementExpressionList() {
				s.Init = append(s.Init, ast.NewExpressionStatement(e))
			}
		}
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenSemicolon) {
		s.Cond = p.parseExpression()
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenRParen) {
		s.Update = p.parseStatementExpressionList()
	}
	p.expect(TokenRParen)
	s.Body = p.parseStatement()
	return s
}

func (p *Parser) parseStatementExpressionList() []ast.Expr {
	var list []ast.Expr
	for {
		tok := p.peek()
		e := p.parseExpression()
		if !isStatementExpression(e) {
			p.failAt(tok, "not a statement")
		}
		list = append(list, e)
		if !p.accept(TokenComma) {
			return list
		}
	}
}

func (p *Parser) parseSwitchStatement() ast.Stmt {
	tok := p.expect(TokenSwitch)
	s := &ast.SwitchStatement{Location: tok.Location(), Selector: p.parseParenExpression()}
	p.expect(TokenLBrace)
	var current *ast.SwitchCase
	for !p.check(TokenRBrace) {
		label := p.peek()
		switch label.Kind {
		case TokenCase, TokenDefault:
			p.advance()
			if current == nil || len(current.Body) > 0 {
				current = &ast.SwitchCase{Location: label.Location()}
				s.Cases = append(s.Cases, current)
			}
			if label.Kind == TokenDefault {
				if current.Default {
					p.failAt(label, "duplicate default label")
				}
				current.Default = true
			} else {
				current.Labels = append(current.Labels, p.parseExpression())
			}
			p.expect(TokenColon)
		case TokenEOF:
			p.failAt(label, "unterminated switch statement")
		default:
			if current == nil {
				p.failAt(label, "expected case or default label, found %s", describe(label))
			}
			current.Body = append(current.Body, p.parseBlockStatement())
		}
	}
	p.expect(TokenRBrace)
	return s
}
