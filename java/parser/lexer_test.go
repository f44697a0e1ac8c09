package parser

import (
	"errors"
	"testing"
)

func scanAll(t *testing.T, input string) ([]Token, error) {
	t.Helper()
	lexer := NewLexer([]byte(input), "test.java")
	var toks []Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenClass, TokenEOF}},
		{"public class Main {}", []TokenKind{TokenPublic, TokenClass, TokenIdent, TokenLBrace, TokenRBrace, TokenEOF}},
		{"123", []TokenKind{TokenIntLiteral, TokenEOF}},
		{"1_000L 0x1F 0b1010 017", []TokenKind{TokenIntLiteral, TokenIntLiteral, TokenIntLiteral, TokenIntLiteral, TokenEOF}},
		{"3.14 1e10 2f .5 1.5e-3d 0x1p3", []TokenKind{TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenFloatLiteral, TokenEOF}},
		{"\"hello\"", []TokenKind{TokenStringLiteral, TokenEOF}},
		{`"a\tb\"cA"`, []TokenKind{TokenStringLiteral, TokenEOF}},
		{"'a' '\\n' '\\''", []TokenKind{TokenCharLiteral, TokenCharLiteral, TokenCharLiteral, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenClass, TokenEOF}},
		{"/* block */ class /** doc */", []TokenKind{TokenClass, TokenEOF}},
		{"+ - * / %", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenEOF}},
		{"== != < <= > >=", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE, TokenEOF}},
		{"&& || !", []TokenKind{TokenAnd, TokenOr, TokenNot, TokenEOF}},
		{"<< >> >>>", []TokenKind{TokenShl, TokenShr, TokenUShr, TokenEOF}},
		{"<<= >>= >>>=", []TokenKind{TokenShlAssign, TokenShrAssign, TokenUShrAssign, TokenEOF}},
		{"++ --", []TokenKind{TokenIncrement, TokenDecrement, TokenEOF}},
		{"a.b...", []TokenKind{TokenIdent, TokenDot, TokenIdent, TokenEllipsis, TokenEOF}},
		{"true false null", []TokenKind{TokenTrue, TokenFalse, TokenNull, TokenEOF}},
		{"größe $x _y", []TokenKind{TokenIdent, TokenIdent, TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := scanAll(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []TokenKind
			for _, tok := range toks {
				got = append(got, tok.Kind)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	toks, err := scanAll(t, "int x;\n  return y;")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		index  int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 5},
		{2, 1, 6},
		{3, 2, 3},
		{4, 2, 10},
	}
	for _, tt := range tests {
		pos := toks[tt.index].Span.Start
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("token %d (%s): got %d:%d, want %d:%d", tt.index, toks[tt.index].Literal, pos.Line, pos.Column, tt.line, tt.column)
		}
		if pos.File != "test.java" {
			t.Errorf("token %d: file %q", tt.index, pos.File)
		}
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"unterminated string", "x = \"abc", 1, 5},
		{"string across newline", "\"abc\ndef\"", 1, 1},
		{"unterminated char", "'a", 1, 1},
		{"empty char", "''", 1, 1},
		{"unterminated comment", "a /* never", 1, 3},
		{"bad escape", `"\q"`, 1, 2},
		{"hex without digits", "0x;", 1, 1},
		{"exponent without digits", "1e+;", 1, 1},
		{"trailing underscore", "1_;", 1, 1},
		{"octal with nine", "019", 1, 1},
		{"identifier after number", "12ab", 1, 1},
		{"unknown character", "a # b", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scanAll(t, tt.input)
			var se *ScanError
			if !errors.As(err, &se) {
				t.Fatalf("got %v, want *ScanError", err)
			}
			if se.Loc.Line != tt.line || se.Loc.Column != tt.column {
				t.Errorf("error at %d:%d, want %d:%d (%s)", se.Loc.Line, se.Loc.Column, tt.line, tt.column, se.Message)
			}
		})
	}
}

func TestLexerEOFIsSticky(t *testing.T) {
	lexer := NewLexer([]byte("x"), "")
	for i := 0; i < 3; i++ {
		if _, err := lexer.NextToken(); err != nil {
			t.Fatal(err)
		}
	}
	tok, _ := lexer.NextToken()
	if tok.Kind != TokenEOF {
		t.Errorf("got %v, want EOF", tok.Kind)
	}
}

func TestTokenKindSpellings(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenStringLiteral, "StringLiteral"},
		{TokenTrue, "true"},
		{TokenNull, "null"},
		{TokenAbstract, "abstract"},
		{TokenInstanceof, "instanceof"},
		{TokenWhile, "while"},
		{TokenLParen, "("},
		{TokenEllipsis, "..."},
		{TokenUShr, ">>>"},
		{TokenColon, ":"},
		{TokenUShrAssign, ">>>="},
		{TokenUShrAssign + 1, "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("kind %d: got %q, want %q", int(tt.kind), got, tt.want)
		}
	}

	for k := TokenTrue; k <= TokenWhile; k++ {
		if got := LookupKeyword(k.String()); got != k {
			t.Errorf("LookupKeyword(%q) = %v, want %v", k.String(), got, k)
		}
	}
	if got := LookupKeyword("record"); got != TokenIdent {
		t.Errorf("LookupKeyword(record) = %v, want Identifier", got)
	}
}
