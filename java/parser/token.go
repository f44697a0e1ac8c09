package parser

import (
	"strings"

	"github.com/dhamidi/jcook/java/ast"
)

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

// Location drops the byte offset; AST nodes only carry line and column.
func (p Position) Location() ast.Location {
	return ast.Location{File: p.File, Line: p.Line, Column: p.Column}
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTransient
	TokenTry
	TokenVoid
	TokenVolatile
	TokenWhile

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenUShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement
	TokenQuestion
	TokenColon
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
)

// Spellings of the keyword and punctuation kinds, in declaration order
// from TokenTrue and from TokenLParen.
const (
	keywordSpellings = `true false null
		abstract assert boolean break byte case catch char class const
		continue default do double else enum extends final finally float
		for goto if implements import instanceof int interface long native
		new package private protected public return short static strictfp
		super switch synchronized this throw throws transient try void
		volatile while`
	operatorSpellings = `( ) { } [ ] ; , . ... @
		= == != < <= > >= && || ! & | ^ ~ << >> >>> + - * / % ++ -- ? :
		+= -= *= /= %= &= |= ^= <<= >>= >>>=`
)

var (
	tokenKindNames = [TokenUShrAssign + 1]string{
		TokenEOF:           "EOF",
		TokenIdent:         "Identifier",
		TokenIntLiteral:    "IntLiteral",
		TokenFloatLiteral:  "FloatLiteral",
		TokenCharLiteral:   "CharLiteral",
		TokenStringLiteral: "StringLiteral",
	}
	keywords = make(map[string]TokenKind)
)

func init() {
	for i, word := range strings.Fields(keywordSpellings) {
		k := TokenTrue + TokenKind(i)
		tokenKindNames[k] = word
		keywords[word] = k
	}
	for i, op := range strings.Fields(operatorSpellings) {
		tokenKindNames[TokenLParen+TokenKind(i)] = op
	}
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) && tokenKindNames[k] != "" {
		return tokenKindNames[k]
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) Location() ast.Location {
	return t.Span.Start.Location()
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// IsModifier reports whether k is a declaration modifier keyword.
func (k TokenKind) IsModifier() bool {
	switch k {
	case TokenPublic, TokenProtected, TokenPrivate, TokenStatic, TokenFinal,
		TokenAbstract, TokenNative, TokenSynchronized, TokenTransient,
		TokenVolatile, TokenStrictfp:
		return true
	}
	return false
}

// IsPrimitive reports whether k names a primitive type (void excluded).
func (k TokenKind) IsPrimitive() bool {
	switch k {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return true
	}
	return false
}

// IsAssignment reports whether k is `=` or a compound assignment operator.
func (k TokenKind) IsAssignment() bool {
	return k == TokenAssign || (k >= TokenPlusAssign && k <= TokenUShrAssign)
}
