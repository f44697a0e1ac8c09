package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer produces significant tokens on demand. Whitespace and comments are
// consumed silently. A Lexer cannot be rewound; construct a new one to start
// over.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// advance consumes one rune and keeps line and column in step.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) errorf(at Position, format string, args ...any) error {
	return &ScanError{Loc: at.Location(), Message: fmt.Sprintf(format, args...)}
}

// skipTrivia consumes whitespace and comments.
func (l *Lexer) skipTrivia() error {
	for {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f':
			l.advance()
		case ch == '/' && l.peekN(1) == '/':
			for !l.atEOF() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekN(1) == '*':
			start := l.Position()
			l.advanceN(2)
			for {
				if l.atEOF() {
					return l.errorf(start, "unterminated comment")
				}
				if l.peek() == '*' && l.peekN(1) == '/' {
					l.advanceN(2)
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
}

// NextToken returns the next significant token. At end of input it keeps
// returning TokenEOF.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}
	startPos := l.Position()

	if l.atEOF() {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}, nil
	}

	ch := l.peek()
	switch {
	case isJavaLetter(l.peekRune()):
		return l.scanIdentOrKeyword(startPos), nil
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(startPos)
	case ch == '\'':
		return l.scanCharLiteral(startPos)
	case ch == '"':
		return l.scanStringLiteral(startPos)
	}
	return l.scanOperator(startPos)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isJavaLetterOrDigit(l.peekRune()) {
		l.advance()
	}
	end := l.Position()
	literal := string(l.input[start.Offset:end.Offset])
	return Token{
		Kind:    LookupKeyword(literal),
		Span:    Span{Start: start, End: end},
		Literal: literal,
	}
}

func (l *Lexer) scanDigits(valid func(byte) bool) (n int, trailingUnderscore bool) {
	for valid(l.peek()) || l.peek() == '_' {
		trailingUnderscore = l.peek() == '_'
		if !trailingUnderscore {
			n++
		}
		l.advance()
	}
	return n, trailingUnderscore
}

func (l *Lexer) scanNumber(start Position) (Token, error) {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		return l.scanHexNumber(start)
	}
	if l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		return l.scanBinaryNumber(start)
	}

	isFloat := false
	_, bad := l.scanDigits(isDigit)

	if l.peek() == '.' && !bad {
		isFloat = true
		l.advance()
		if l.peek() == '_' {
			return Token{}, l.errorf(start, "malformed number: underscore after decimal point")
		}
		_, bad = l.scanDigits(isDigit)
	}
	if bad {
		return Token{}, l.errorf(start, "malformed number: trailing underscore")
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if n, bad := l.scanDigits(isDigit); n == 0 || bad {
			return Token{}, l.errorf(start, "malformed number: missing exponent digits")
		}
	}

	ch := l.peek()
	if ch == 'f' || ch == 'F' || ch == 'd' || ch == 'D' {
		isFloat = true
		l.advance()
	} else if (ch == 'l' || ch == 'L') && !isFloat {
		l.advance()
	}

	if err := l.checkNumberEnd(start); err != nil {
		return Token{}, err
	}
	tok := l.token(TokenIntLiteral, start)
	if isFloat {
		tok.Kind = TokenFloatLiteral
		return tok, nil
	}
	if text := tok.Literal; len(text) > 1 && text[0] == '0' {
		for i := 1; i < len(text); i++ {
			if text[i] == '8' || text[i] == '9' {
				return Token{}, l.errorf(start, "malformed number: invalid digit %q in octal literal", text[i])
			}
		}
	}
	return tok, nil
}

func (l *Lexer) scanHexNumber(start Position) (Token, error) {
	l.advanceN(2)
	n, bad := l.scanDigits(isHexDigit)
	isFloat := false
	if l.peek() == '.' {
		isFloat = true
		l.advance()
		m, badFrac := l.scanDigits(isHexDigit)
		n += m
		bad = bad || badFrac
	}
	if n == 0 {
		return Token{}, l.errorf(start, "malformed number: hexadecimal literal has no digits")
	}
	if bad {
		return Token{}, l.errorf(start, "malformed number: trailing underscore")
	}
	if l.peek() == 'p' || l.peek() == 'P' {
		isFloat = true
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if n, bad := l.scanDigits(isDigit); n == 0 || bad {
			return Token{}, l.errorf(start, "malformed number: missing exponent digits")
		}
	} else if isFloat {
		return Token{}, l.errorf(start, "malformed number: hexadecimal floating-point literal needs an exponent")
	}
	if isFloat {
		if l.peek() == 'f' || l.peek() == 'F' || l.peek() == 'd' || l.peek() == 'D' {
			l.advance()
		}
	} else if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	if err := l.checkNumberEnd(start); err != nil {
		return Token{}, err
	}
	tok := l.token(TokenIntLiteral, start)
	if isFloat {
		tok.Kind = TokenFloatLiteral
	}
	return tok, nil
}

func (l *Lexer) scanBinaryNumber(start Position) (Token, error) {
	l.advanceN(2)
	n, bad := l.scanDigits(func(ch byte) bool { return ch == '0' || ch == '1' })
	if n == 0 {
		return Token{}, l.errorf(start, "malformed number: binary literal has no digits")
	}
	if bad {
		return Token{}, l.errorf(start, "malformed number: trailing underscore")
	}
	if l.peek() == 'l' || l.peek() == 'L' {
		l.advance()
	}
	if err := l.checkNumberEnd(start); err != nil {
		return Token{}, err
	}
	return l.token(TokenIntLiteral, start), nil
}

// checkNumberEnd rejects literals that run straight into an identifier,
// such as `12ab`.
func (l *Lexer) checkNumberEnd(start Position) error {
	if r := l.peekRune(); isJavaLetterOrDigit(r) {
		return l.errorf(start, "malformed number: unexpected %q", r)
	}
	return nil
}

// scanEscape consumes one escape sequence after the backslash.
func (l *Lexer) scanEscape() error {
	at := l.Position()
	l.advance()
	switch ch := l.peek(); {
	case ch == 'b' || ch == 't' || ch == 'n' || ch == 'f' || ch == 'r' ||
		ch == 's' || ch == '"' || ch == '\'' || ch == '\\':
		l.advance()
	case ch >= '0' && ch <= '7':
		digits := 3
		if ch > '3' {
			digits = 2
		}
		for i := 0; i < digits && l.peek() >= '0' && l.peek() <= '7'; i++ {
			l.advance()
		}
	case ch == 'u':
		for l.peek() == 'u' {
			l.advance()
		}
		for i := 0; i < 4; i++ {
			if !isHexDigit(l.peek()) {
				return l.errorf(at, "invalid unicode escape")
			}
			l.advance()
		}
	default:
		return l.errorf(at, "invalid escape sequence")
	}
	return nil
}

func (l *Lexer) scanCharLiteral(start Position) (Token, error) {
	l.advance()
	if l.atEOF() {
		return Token{}, l.errorf(start, "unterminated character literal")
	}
	switch l.peek() {
	case '\'':
		return Token{}, l.errorf(start, "empty character literal")
	case '\\':
		if err := l.scanEscape(); err != nil {
			return Token{}, err
		}
	case '\n', '\r':
		return Token{}, l.errorf(start, "unterminated character literal")
	default:
		l.advance()
	}
	if l.atEOF() || l.peek() != '\'' {
		return Token{}, l.errorf(start, "unterminated character literal")
	}
	l.advance()
	return l.token(TokenCharLiteral, start), nil
}

func (l *Lexer) scanStringLiteral(start Position) (Token, error) {
	l.advance()
	for {
		if l.atEOF() || l.peek() == '\n' || l.peek() == '\r' {
			return Token{}, l.errorf(start, "unterminated string literal")
		}
		ch := l.peek()
		if ch == '"' {
			l.advance()
			break
		}
		if ch == '\\' {
			if err := l.scanEscape(); err != nil {
				return Token{}, err
			}
			continue
		}
		l.advance()
	}
	return l.token(TokenStringLiteral, start), nil
}

type operator struct {
	text string
	kind TokenKind
}

// operators is ordered longest first so that the first prefix match wins.
var operators = []operator{
	{">>>=", TokenUShrAssign},
	{"<<=", TokenShlAssign},
	{">>=", TokenShrAssign},
	{">>>", TokenUShr},
	{"...", TokenEllipsis},
	{"==", TokenEQ},
	{"!=", TokenNE},
	{"<=", TokenLE},
	{">=", TokenGE},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"<<", TokenShl},
	{">>", TokenShr},
	{"++", TokenIncrement},
	{"--", TokenDecrement},
	{"+=", TokenPlusAssign},
	{"-=", TokenMinusAssign},
	{"*=", TokenStarAssign},
	{"/=", TokenSlashAssign},
	{"%=", TokenPercentAssign},
	{"&=", TokenAndAssign},
	{"|=", TokenOrAssign},
	{"^=", TokenXorAssign},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{".", TokenDot},
	{"@", TokenAt},
	{"=", TokenAssign},
	{"<", TokenLT},
	{">", TokenGT},
	{"!", TokenNot},
	{"~", TokenBitNot},
	{"?", TokenQuestion},
	{":", TokenColon},
	{"&", TokenBitAnd},
	{"|", TokenBitOr},
	{"^", TokenBitXor},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenStar},
	{"/", TokenSlash},
	{"%", TokenPercent},
}

func (l *Lexer) scanOperator(start Position) (Token, error) {
	rest := l.input[l.pos:]
	for _, op := range operators {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			l.advanceN(len(op.text))
			return l.token(op.kind, start), nil
		}
	}
	return Token{}, l.errorf(start, "unexpected character %q", l.peekRune())
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(r rune) bool {
	if r < utf8.RuneSelf {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
	}
	return unicode.IsLetter(r)
}

func isJavaLetterOrDigit(r rune) bool {
	if r < utf8.RuneSelf {
		return isJavaLetter(r) || (r >= '0' && r <= '9')
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
