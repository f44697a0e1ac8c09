package parser

import (
	"strings"

	"github.com/dhamidi/jcook/java/ast"
)

func (p *Parser) parseCompilationUnit() *ast.CompilationUnit {
	cu := ast.NewCompilationUnit(p.file)

	if p.check(TokenPackage) {
		tok := p.advance()
		name := p.parseQualifiedName()
		p.expect(TokenSemicolon)
		cu.Package = &ast.PackageDeclaration{Location: tok.Location(), Name: strings.Join(name, ".")}
	}

	for p.check(TokenImport) {
		cu.Imports = append(cu.Imports, p.parseImportDecl())
	}

	for !p.check(TokenEOF) {
		if p.accept(TokenSemicolon) {
			continue
		}
		cu.AddTypeDeclaration(p.parseTypeDecl(p.parseModifiers(false)))
	}
	return cu
}

func (p *Parser) parseImportDecl() *ast.ImportDeclaration {
	tok := p.expect(TokenImport)
	imp := &ast.ImportDeclaration{Location: tok.Location()}
	imp.Static = p.accept(TokenStatic)
	imp.Identifiers = []string{p.expect(TokenIdent).Literal}
	for p.accept(TokenDot) {
		if p.accept(TokenStar) {
			imp.OnDemand = true
			break
		}
		imp.Identifiers = append(imp.Identifiers, p.expect(TokenIdent).Literal)
	}
	p.expect(TokenSemicolon)
	return imp
}

func (p *Parser) parseQualifiedName() []string {
	names := []string{p.expect(TokenIdent).Literal}
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		names = append(names, p.advance().Literal)
	}
	return names
}

// parseModifiers returns nil when no modifier or annotation is present.
// Local declarations only admit final and annotations.
func (p *Parser) parseModifiers(local bool) *ast.Modifiers {
	var mods *ast.Modifiers
	start := p.peek()
	ensure := func() {
		if mods == nil {
			mods = &ast.Modifiers{Location: start.Location()}
		}
	}
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenAt && p.peekN(1).Kind != TokenInterface:
			ensure()
			mods.Annotations = append(mods.Annotations, p.parseAnnotation())
		case tok.Kind.IsModifier() || (tok.Kind == TokenDefault && !local && p.peekN(1).Kind != TokenColon):
			if local && tok.Kind != TokenFinal {
				return mods
			}
			ensure()
			flag := ast.ModFromKeyword(tok.Literal)
			if mods.Flags.Has(flag) {
				p.failAt(tok, "repeated modifier %s", tok.Literal)
			}
			mods.Flags |= flag
			p.advance()
		default:
			return mods
		}
	}
}

func (p *Parser) parseAnnotation() *ast.Annotation {
	at := p.expect(TokenAt)
	nameTok := p.peek()
	name := p.parseQualifiedName()
	a := &ast.Annotation{
		Location: at.Location(),
		Type:     &ast.ReferenceType{Location: nameTok.Location(), Identifiers: name},
	}
	if p.accept(TokenLParen) {
		if !p.check(TokenRParen) {
			if p.check(TokenLBrace) {
				a.Value = p.parseArrayInitializer()
			} else {
				a.Value = p.parseExpression()
			}
			if p.check(TokenComma) {
				p.failAt(p.peek(), "annotations with several elements are not supported")
			}
		}
		p.expect(TokenRParen)
	}
	return a
}

func (p *Parser) parseTypeDecl(mods *ast.Modifiers) ast.TypeDeclaration {
	tok := p.peek()
	loc := tok.Location()
	if mods != nil {
		loc = mods.Location
	}
	switch tok.Kind {
	case TokenClass:
		return p.parseClassDecl(loc, mods)
	case TokenInterface:
		return p.parseInterfaceDecl(loc, mods)
	case TokenEnum:
		p.failAt(tok, "enum declarations are not supported")
	case TokenAt:
		p.failAt(tok, "annotation type declarations are not supported")
	}
	p.failAt(tok, "expected class or interface declaration, found %s", describe(tok))
	return nil
}

func (p *Parser) rejectTypeParameters() {
	if p.check(TokenLT) {
		p.failAt(p.peek(), "type parameters are not supported")
	}
}

func (p *Parser) parseClassDecl(loc ast.Location, mods *ast.Modifiers) *ast.ClassDeclaration {
	p.expect(TokenClass)
	cd := &ast.ClassDeclaration{
		Location:  loc,
		Modifiers: mods,
		Name:      p.expect(TokenIdent).Literal,
	}
	p.rejectTypeParameters()
	if p.accept(TokenExtends) {
		cd.Extends = p.parseReferenceType()
	}
	if p.accept(TokenImplements) {
		cd.Implements = p.parseReferenceTypeList()
	}
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) {
		if m := p.parseMember(cd.Name, false); m != nil {
			cd.AddMember(m)
		}
	}
	p.expect(TokenRBrace)
	return cd
}

func (p *Parser) parseInterfaceDecl(loc ast.Location, mods *ast.Modifiers) *ast.InterfaceDeclaration {
	p.expect(TokenInterface)
	id := &ast.InterfaceDeclaration{
		Location:  loc,
		Modifiers: mods,
		Name:      p.expect(TokenIdent).Literal,
	}
	p.rejectTypeParameters()
	if p.accept(TokenExtends) {
		id.Extends = p.parseReferenceTypeList()
	}
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) {
		if m := p.parseMember(id.Name, true); m != nil {
			id.AddMember(m)
		}
	}
	p.expect(TokenRBrace)
	return id
}

func (p *Parser) parseReferenceTypeList() []*ast.ReferenceType {
	types := []*ast.ReferenceType{p.parseReferenceType()}
	for p.accept(TokenComma) {
		types = append(types, p.parseReferenceType())
	}
	return types
}

// parseMember parses one class body declaration. It returns nil for a stray
// semicolon.
func (p *Parser) parseMember(typeName string, iface bool) ast.Member {
	start := p.peek()
	if p.accept(TokenSemicolon) {
		return nil
	}
	if start.Kind == TokenEOF {
		p.failAt(start, "unexpected end of input in class body")
	}
	if start.Kind == TokenLBrace && !iface {
		return &ast.Initializer{Location: start.Location(), Body: p.parseBlock()}
	}
	if start.Kind == TokenStatic && p.peekN(1).Kind == TokenLBrace && !iface {
		p.advance()
		return &ast.Initializer{Location: start.Location(), Static: true, Body: p.parseBlock()}
	}

	mods := p.parseModifiers(false)
	loc := start.Location()

	switch tok := p.peek(); tok.Kind {
	case TokenClass, TokenInterface, TokenEnum:
		p.failAt(tok, "nested type declarations are not supported")
	case TokenLT:
		p.failAt(tok, "generic methods are not supported")
	case TokenIdent:
		if p.peekN(1).Kind == TokenLParen {
			if iface || tok.Literal != typeName {
				p.failAt(tok, "method %s lacks a return type", tok.Literal)
			}
			return p.parseConstructor(loc, mods)
		}
	}

	typ := p.parseType()
	nameTok := p.expect(TokenIdent)
	if p.check(TokenLParen) {
		return p.parseMethodRest(loc, mods, typ, nameTok.Literal)
	}
	if pt, ok := typ.(*ast.PrimitiveType); ok && pt.Primitive == ast.PrimVoid {
		p.failAt(nameTok, "field %s cannot have type void", nameTok.Literal)
	}
	fd := &ast.FieldDeclaration{Location: loc, Modifiers: mods, Type: typ}
	fd.Variables = p.parseVariableDeclarators(nameTok)
	p.expect(TokenSemicolon)
	return fd
}

func (p *Parser) parseMethodRest(loc ast.Location, mods *ast.Modifiers, result ast.Type, name string) *ast.MethodDeclaration {
	md := &ast.MethodDeclaration{
		Location:   loc,
		Modifiers:  mods,
		ReturnType: result,
		Name:       name,
		Parameters: p.parseFormalParameters(),
	}
	if p.check(TokenLBracket) {
		p.failAt(p.peek(), "array brackets after the parameter list are not supported")
	}
	if p.accept(TokenThrows) {
		md.Thrown = p.parseReferenceTypeList()
	}
	if !p.accept(TokenSemicolon) {
		md.Body = p.parseBlock()
	}
	return md
}

func (p *Parser) parseConstructor(loc ast.Location, mods *ast.Modifiers) *ast.ConstructorDeclaration {
	cd := &ast.ConstructorDeclaration{
		Location:   loc,
		Modifiers:  mods,
		Name:       p.expect(TokenIdent).Literal,
		Parameters: p.parseFormalParameters(),
	}
	if p.accept(TokenThrows) {
		cd.Thrown = p.parseReferenceTypeList()
	}
	brace := p.expect(TokenLBrace)
	cd.Body = &ast.Block{Location: brace.Location()}
	if k := p.peek().Kind; (k == TokenThis || k == TokenSuper) && p.peekN(1).Kind == TokenLParen {
		tok := p.advance()
		cd.Invocation = &ast.ConstructorInvocation{
			Location:  tok.Location(),
			Super:     k == TokenSuper,
			Arguments: p.parseArguments(),
		}
		p.expect(TokenSemicolon)
	}
	for !p.check(TokenRBrace) {
		cd.Body.AddStatement(p.parseBlockStatement())
	}
	p.expect(TokenRBrace)
	return cd
}

func (p *Parser) parseFormalParameters() []*ast.FormalParameter {
	p.expect(TokenLParen)
	var params []*ast.FormalParameter
	if p.accept(TokenRParen) {
		return params
	}
	for {
		param := p.parseFormalParameter()
		params = append(params, param)
		if param.VarArgs || !p.accept(TokenComma) {
			break
		}
	}
	p.expect(TokenRParen)
	return params
}

func (p *Parser) parseFormalParameter() *ast.FormalParameter {
	start := p.peek()
	mods := p.parseModifiers(true)
	param := &ast.FormalParameter{
		Location: start.Location(),
		Final:    mods.Has(ast.ModFinal),
		Type:     p.parseType(),
	}
	param.VarArgs = p.accept(TokenEllipsis)
	param.Name = p.expect(TokenIdent).Literal
	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
		param.Type = ast.NewArrayType(param.Type)
	}
	return param
}

// parseVariableDeclarators parses `a = 1, b[] = {}, c` given the already
// consumed first name.
func (p *Parser) parseVariableDeclarators(first Token) []*ast.VariableDeclarator {
	name := first
	var vars []*ast.VariableDeclarator
	for {
		v := &ast.VariableDeclarator{Location: name.Location(), Name: name.Literal}
		for p.check(TokenLBracket) {
			p.advance()
			p.expect(TokenRBracket)
			v.Brackets++
		}
		if p.accept(TokenAssign) {
			v.Initializer = p.parseVariableInitializer()
		}
		vars = append(vars, v)
		if !p.accept(TokenComma) {
			return vars
		}
		name = p.expect(TokenIdent)
	}
}

func (p *Parser) parseVariableInitializer() ast.Expr {
	if p.check(TokenLBrace) {
		return p.parseArrayInitializer()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInitializer() *ast.ArrayInitializer {
	tok := p.expect(TokenLBrace)
	ai := &ast.ArrayInitializer{Location: tok.Location()}
	for !p.check(TokenRBrace) {
		ai.Values = append(ai.Values, p.parseVariableInitializer())
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expect(TokenRBrace)
	return ai
}

// parseType parses a primitive, void or reference type followed by any
// number of `[]` pairs.
func (p *Parser) parseType() ast.Type {
	tok := p.peek()
	var t ast.Type
	switch {
	case tok.Kind.IsPrimitive() || tok.Kind == TokenVoid:
		p.advance()
		prim, _ := ast.PrimitiveByName(tok.Literal)
		t = &ast.PrimitiveType{Location: tok.Location(), Primitive: prim}
	case tok.Kind == TokenIdent:
		t = p.parseReferenceType()
	default:
		p.failAt(tok, "expected type, found %s", describe(tok))
	}
	return p.parseDims(t)
}

func (p *Parser) parseDims(t ast.Type) ast.Type {
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		t = ast.NewArrayType(t)
	}
	return t
}

func (p *Parser) parseReferenceType() *ast.ReferenceType {
	tok := p.peek()
	rt := &ast.ReferenceType{Location: tok.Location(), Identifiers: p.parseQualifiedName()}
	if p.check(TokenLT) {
		rt.TypeArguments = p.parseTypeArguments()
		if p.check(TokenDot) {
			p.failAt(p.peek(), "member types of parameterized types are not supported")
		}
	}
	return rt
}

func (p *Parser) parseTypeArguments() []ast.Type {
	p.expect(TokenLT)
	var args []ast.Type
	for {
		if tok := p.peek(); tok.Kind == TokenQuestion {
			p.advance()
			w := &ast.Wildcard{Location: tok.Location()}
			if p.check(TokenExtends) || p.check(TokenSuper) {
				w.Super = p.advance().Kind == TokenSuper
				w.Bound = p.parseType()
			}
			args = append(args, w)
		} else {
			args = append(args, p.parseType())
		}
		if !p.accept(TokenComma) {
			break
		}
	}
	p.expectGT()
	return args
}

// expectGT consumes one `>`, splitting `>>`, `>>>` and friends that close
// nested type argument lists.
func (p *Parser) expectGT() {
	tok := p.peek()
	var rest TokenKind
	switch tok.Kind {
	case TokenGT:
		p.advance()
		return
	case TokenShr:
		rest = TokenGT
	case TokenUShr:
		rest = TokenShr
	case TokenGE:
		rest = TokenAssign
	case TokenShrAssign:
		rest = TokenGE
	case TokenUShrAssign:
		rest = TokenShrAssign
	default:
		p.failAt(tok, "expected \">\", found %s", describe(tok))
	}
	start := tok.Span.Start
	start.Offset++
	start.Column++
	p.tokens[p.pos] = Token{Kind: rest, Literal: tok.Literal[1:], Span: Span{Start: start, End: tok.Span.End}}
}

// scanType reports the lookahead index just past a type starting at index
// i, or -1 when the tokens there cannot form a type. It never consumes.
func (p *Parser) scanType(i int) int {
	tok := p.peekN(i)
	switch {
	case tok.Kind.IsPrimitive():
		i++
	case tok.Kind == TokenIdent:
		i++
		for p.peekN(i).Kind == TokenDot && p.peekN(i+1).Kind == TokenIdent {
			i += 2
		}
		if p.peekN(i).Kind == TokenLT {
			if i = p.scanTypeArguments(i); i < 0 {
				return -1
			}
		}
	default:
		return -1
	}
	for p.peekN(i).Kind == TokenLBracket && p.peekN(i+1).Kind == TokenRBracket {
		i += 2
	}
	return i
}

func (p *Parser) scanTypeArguments(i int) int {
	depth := 0
	for {
		tok := p.peekN(i)
		switch tok.Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		case TokenIdent, TokenDot, TokenComma, TokenQuestion, TokenExtends,
			TokenSuper, TokenLBracket, TokenRBracket:
		default:
			if !tok.Kind.IsPrimitive() {
				return -1
			}
		}
		i++
		if depth < 0 {
			return -1
		}
		if depth == 0 {
			return i
		}
	}
}

// scanLocalModifiers skips `final` and annotations in lookahead.
func (p *Parser) scanLocalModifiers(i int) int {
	for {
		switch p.peekN(i).Kind {
		case TokenFinal:
			i++
		case TokenAt:
			i++
			for p.peekN(i).Kind == TokenIdent || p.peekN(i).Kind == TokenDot {
				i++
			}
			if p.peekN(i).Kind == TokenLParen {
				depth := 0
				for {
					k := p.peekN(i).Kind
					if k == TokenEOF {
						return i
					}
					i++
					if k == TokenLParen {
						depth++
					} else if k == TokenRParen {
						if depth--; depth == 0 {
							break
						}
					}
				}
			}
		default:
			return i
		}
	}
}

// isLocalVarDecl reports whether the next tokens start `Type name`.
func (p *Parser) isLocalVarDecl() bool {
	i := p.scanType(p.scanLocalModifiers(0))
	return i > 0 && p.peekN(i).Kind == TokenIdent
}
