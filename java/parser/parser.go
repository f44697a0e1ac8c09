// Package parser turns Java source text into the typed syntax tree of
// package ast. Parsing is recursive descent; binary expressions use
// precedence climbing over the operator table in package ast.
package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jcook/java/ast"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser reads its input on first use and scans tokens lazily. Entry points
// may be called in sequence to consume consecutive constructs.
type Parser struct {
	file   string
	reader io.Reader
	lexer  *Lexer
	tokens []Token
	pos    int
}

func New(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseCompilationUnit parses a whole source file read from r.
func ParseCompilationUnit(r io.Reader, opts ...Option) (*ast.CompilationUnit, error) {
	return New(r, opts...).ParseCompilationUnit()
}

// ParseExpression parses src as exactly one expression.
func ParseExpression(src string, opts ...Option) (ast.Expr, error) {
	p := New(strings.NewReader(src), opts...)
	e, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return e, nil
}

// ParseStatement parses src as exactly one statement.
func ParseStatement(src string, opts ...Option) (ast.Stmt, error) {
	p := New(strings.NewReader(src), opts...)
	s, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) ParseCompilationUnit() (cu *ast.CompilationUnit, err error) {
	err = p.run(func() {
		cu = p.parseCompilationUnit()
	})
	return cu, err
}

// ParseTypeDeclaration parses one class or interface declaration.
func (p *Parser) ParseTypeDeclaration() (td ast.TypeDeclaration, err error) {
	err = p.run(func() {
		td = p.parseTypeDecl(p.parseModifiers(false))
	})
	return td, err
}

// ParseClassBody parses member declarations up to the end of input, without
// surrounding braces, and appends them to decl.
func (p *Parser) ParseClassBody(decl *ast.ClassDeclaration) error {
	return p.run(func() {
		for !p.check(TokenEOF) {
			if m := p.parseMember(decl.Name, false); m != nil {
				decl.AddMember(m)
			}
		}
	})
}

// ParseMethodDeclaration parses modifiers, result type, name, parameters,
// throws clause and body of a single method.
func (p *Parser) ParseMethodDeclaration() (md *ast.MethodDeclaration, err error) {
	err = p.run(func() {
		start := p.peek()
		mods := p.parseModifiers(false)
		typ := p.parseType()
		name := p.expect(TokenIdent)
		md = p.parseMethodRest(start.Location(), mods, typ, name.Literal)
	})
	return md, err
}

// ParseBlockStatements parses statements up to the end of input.
func (p *Parser) ParseBlockStatements() (stmts []ast.Stmt, err error) {
	err = p.run(func() {
		for !p.check(TokenEOF) {
			stmts = append(stmts, p.parseBlockStatement())
		}
	})
	return stmts, err
}

func (p *Parser) ParseStatement() (s ast.Stmt, err error) {
	err = p.run(func() {
		s = p.parseBlockStatement()
	})
	return s, err
}

func (p *Parser) ParseExpression() (e ast.Expr, err error) {
	err = p.run(func() {
		e = p.parseExpression()
	})
	return e, err
}

// ExpectEOF fails unless all input has been consumed.
func (p *Parser) ExpectEOF() error {
	return p.run(func() {
		p.expect(TokenEOF)
	})
}

// run executes a production and converts a bailout into an error. Errors
// from the reader are returned unchanged.
func (p *Parser) run(production func()) (err error) {
	if p.lexer == nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			return err
		}
		p.lexer = NewLexer(data, p.file)
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	production()
	return nil
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

// peekN scans ahead as far as needed. Tokens stay buffered so that
// speculative lookahead can be abandoned by resetting p.pos.
func (p *Parser) peekN(n int) Token {
	for len(p.tokens) <= p.pos+n {
		if len(p.tokens) > 0 && p.tokens[len(p.tokens)-1].Kind == TokenEOF {
			return p.tokens[len(p.tokens)-1]
		}
		tok, err := p.lexer.NextToken()
		if err != nil {
			panic(bailout{err})
		}
		p.tokens = append(p.tokens, tok)
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) accept(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind) Token {
	tok := p.peek()
	if tok.Kind != kind {
		p.failAt(tok, "expected %s, found %s", describeKind(kind), describe(tok))
	}
	return p.advance()
}

func (p *Parser) failAt(tok Token, format string, args ...any) {
	panic(bailout{&ParseError{Loc: tok.Location(), Message: fmt.Sprintf(format, args...)}})
}

func describeKind(kind TokenKind) string {
	switch kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	}
	return fmt.Sprintf("%q", kind.String())
}

func describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenStringLiteral:
		return fmt.Sprintf("literal %s", tok.Literal)
	}
	return fmt.Sprintf("%q", tok.Literal)
}
