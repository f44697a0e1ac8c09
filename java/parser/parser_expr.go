package parser

import "github.com/dhamidi/jcook/java/ast"

func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	lhs := p.parseConditional()
	tok := p.peek()
	if !tok.Kind.IsAssignment() {
		return lhs
	}
	switch lhs.(type) {
	case *ast.AmbiguousName, *ast.FieldAccessExpression, *ast.ArrayAccess:
	default:
		p.failAt(tok, "invalid assignment target")
	}
	p.advance()
	return &ast.Assignment{Location: tok.Location(), Left: lhs, Op: tok.Literal, Right: p.parseAssignment()}
}

func (p *Parser) parseConditional() ast.Expr {
	cond := p.parseBinary(ast.PrecConditionalOr)
	tok := p.peek()
	if tok.Kind != TokenQuestion {
		return cond
	}
	p.advance()
	then := p.parseExpression()
	p.expect(TokenColon)
	return &ast.ConditionalExpression{Location: tok.Location(), Cond: cond, Then: then, Else: p.parseConditional()}
}

// parseBinary implements precedence climbing: operators binding at least as
// tightly as minPrec are folded into a left-associated tree.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	left := p.parseUnary()
	for {
		tok := p.peek()
		prec := ast.BinaryPrecedence(tok.Literal)
		if prec == 0 || prec < minPrec {
			return left
		}
		p.advance()
		if tok.Kind == TokenInstanceof {
			left = &ast.Instanceof{Location: tok.Location(), Value: left, Type: p.parseType()}
			continue
		}
		right := p.parseBinary(prec + 1)
		left = &ast.BinaryOperation{Location: tok.Location(), Left: left, Op: tok.Literal, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case TokenIncrement, TokenDecrement:
		p.advance()
		return &ast.Crement{Location: tok.Location(), Op: tok.Literal, Operand: p.parseUnary()}
	case TokenPlus, TokenMinus, TokenNot, TokenBitNot:
		p.advance()
		return &ast.UnaryOperation{Location: tok.Location(), Op: tok.Literal, Operand: p.parseUnary()}
	case TokenLParen:
		if p.isCast() {
			p.advance()
			typ := p.parseType()
			p.expect(TokenRParen)
			return &ast.Cast{Location: tok.Location(), Type: typ, Value: p.parseUnary()}
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// isCast decides whether a parenthesis opens a cast. Primitive casts are
// recognised by their type alone; reference casts must be followed by a
// token that cannot continue a binary expression.
func (p *Parser) isCast() bool {
	first := p.peekN(1)
	i := p.scanType(1)
	if i < 0 || p.peekN(i).Kind != TokenRParen {
		return false
	}
	if first.Kind.IsPrimitive() {
		return true
	}
	switch p.peekN(i + 1).Kind {
	case TokenIdent, TokenThis, TokenSuper, TokenNew, TokenLParen,
		TokenNot, TokenBitNot, TokenIntLiteral, TokenFloatLiteral,
		TokenCharLiteral, TokenStringLiteral, TokenTrue, TokenFalse, TokenNull:
		return true
	}
	return false
}

func (p *Parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenDot:
			p.advance()
			name := p.peek()
			switch name.Kind {
			case TokenIdent:
				p.advance()
				if p.check(TokenLParen) {
					e = &ast.MethodInvocation{Location: name.Location(), Target: e, Name: name.Literal, Arguments: p.parseArguments()}
				} else {
					e = &ast.FieldAccessExpression{Location: name.Location(), Target: e, Field: name.Literal}
				}
			case TokenNew:
				p.failAt(name, "qualified class instance creation is not supported")
			case TokenLT:
				p.failAt(name, "explicit type arguments are not supported")
			default:
				p.failAt(name, "expected identifier, found %s", describe(name))
			}
		case TokenLBracket:
			p.advance()
			index := p.parseExpression()
			p.expect(TokenRBracket)
			e = &ast.ArrayAccess{Location: tok.Location(), Array: e, Index: index}
		case TokenIncrement, TokenDecrement:
			p.advance()
			e = &ast.Crement{Location: tok.Location(), Op: tok.Literal, Operand: e, Postfix: true}
		default:
			return e
		}
	}
}

func (p *Parser) parseArguments() []ast.Expr {
	p.expect(TokenLParen)
	var args []ast.Expr
	if p.accept(TokenRParen) {
		return args
	}
	for {
		args = append(args, p.parseExpression())
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(TokenRParen)
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	loc := tok.Location()
	switch tok.Kind {
	case TokenIntLiteral:
		p.advance()
		return &ast.IntegerLiteral{Location: loc, Value: tok.Literal}
	case TokenFloatLiteral:
		p.advance()
		return &ast.FloatingPointLiteral{Location: loc, Value: tok.Literal}
	case TokenCharLiteral:
		p.advance()
		return &ast.CharacterLiteral{Location: loc, Value: tok.Literal}
	case TokenStringLiteral:
		p.advance()
		return &ast.StringLiteral{Location: loc, Value: tok.Literal}
	case TokenTrue, TokenFalse:
		p.advance()
		return &ast.BooleanLiteral{Location: loc, Value: tok.Kind == TokenTrue}
	case TokenNull:
		p.advance()
		return &ast.NullLiteral{Location: loc}
	case TokenThis:
		p.advance()
		if p.check(TokenLParen) {
			p.failAt(tok, "constructor invocation must be the first statement of a constructor")
		}
		return &ast.ThisReference{Location: loc}
	case TokenSuper:
		p.failAt(tok, "super member access is not supported")
	case TokenNew:
		return p.parseNew()
	case TokenLParen:
		return p.parseParenExpression()
	case TokenIdent:
		return p.parseName()
	}
	if tok.Kind.IsPrimitive() || tok.Kind == TokenVoid {
		return p.parseClassLiteral(p.parseType())
	}
	p.failAt(tok, "expected expression, found %s", describe(tok))
	return nil
}

func (p *Parser) parseClassLiteral(t ast.Type) ast.Expr {
	p.expect(TokenDot)
	p.expect(TokenClass)
	return &ast.ClassLiteral{Location: t.Loc(), Type: t}
}

// parseName folds a dotted identifier chain into an AmbiguousName. A
// trailing call splits off its last segment as the method name.
func (p *Parser) parseName() ast.Expr {
	first := p.peek()
	loc := first.Location()
	ids := []string{p.advance().Literal}
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		ids = append(ids, p.advance().Literal)
	}

	switch {
	case p.check(TokenLParen):
		name := ids[len(ids)-1]
		mi := &ast.MethodInvocation{Location: loc, Name: name}
		if len(ids) > 1 {
			mi.Target = &ast.AmbiguousName{Location: loc, Identifiers: ids[:len(ids)-1]}
		}
		mi.Arguments = p.parseArguments()
		return mi
	case p.check(TokenDot) && p.peekN(1).Kind == TokenClass:
		return p.parseClassLiteral(&ast.ReferenceType{Location: loc, Identifiers: ids})
	case p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket:
		t := p.parseDims(&ast.ReferenceType{Location: loc, Identifiers: ids})
		return p.parseClassLiteral(t)
	case p.check(TokenDot) && p.peekN(1).Kind == TokenThis:
		p.failAt(p.peekN(1), "qualified this is not supported")
	}
	return &ast.AmbiguousName{Location: loc, Identifiers: ids}
}

func (p *Parser) parseNew() ast.Expr {
	tok := p.expect(TokenNew)
	loc := tok.Location()

	var elem ast.Type
	if k := p.peek().Kind; k.IsPrimitive() {
		t := p.advance()
		prim, _ := ast.PrimitiveByName(t.Literal)
		elem = &ast.PrimitiveType{Location: t.Location(), Primitive: prim}
	} else {
		rt := p.parseReferenceType()
		if p.check(TokenLParen) {
			nci := &ast.NewClassInstance{Location: loc, Type: rt, Arguments: p.parseArguments()}
			if p.check(TokenLBrace) {
				p.failAt(p.peek(), "anonymous classes are not supported")
			}
			return nci
		}
		elem = rt
	}

	if !p.check(TokenLBracket) {
		p.failAt(p.peek(), "expected \"(\" or \"[\", found %s", describe(p.peek()))
	}

	na := &ast.NewArray{Location: loc, Type: elem}
	for p.check(TokenLBracket) {
		bracket := p.advance()
		if p.accept(TokenRBracket) {
			na.ExtraDims++
			continue
		}
		if na.ExtraDims > 0 {
			p.failAt(bracket, "array dimension expression after empty dimension")
		}
		na.Dimensions = append(na.Dimensions, p.parseExpression())
		p.expect(TokenRBracket)
	}

	if len(na.Dimensions) == 0 {
		if !p.check(TokenLBrace) {
			p.failAt(p.peek(), "array creation needs a dimension or an initializer")
		}
		t := elem
		for i := 0; i < na.ExtraDims; i++ {
			t = ast.NewArrayType(t)
		}
		return &ast.NewInitializedArray{Location: loc, Type: t.(*ast.ArrayType), Initializer: p.parseArrayInitializer()}
	}
	if p.check(TokenLBrace) {
		p.failAt(p.peek(), "array initializer not allowed with dimension expressions")
	}
	return na
}
