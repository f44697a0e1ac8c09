package compiler

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
)

// integerLiteral interprets the literal text. 2147483648 and
// 9223372036854775808L are only valid as the operand of unary minus, which
// negated reports.
func (b *body) integerLiteral(lit *ast.IntegerLiteral, negated bool) *value {
	text := strings.ReplaceAll(lit.Value, "_", "")
	long := strings.HasSuffix(text, "l") || strings.HasSuffix(text, "L")
	if long {
		text = text[:len(text)-1]
	}
	base, digits := 10, text
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		base, digits = 16, text[2:]
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		base, digits = 2, text[2:]
	case len(text) > 1 && text[0] == '0':
		base, digits = 8, text[1:]
	}
	n, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		fail(lit.Loc(), KindType, "Invalid integer literal %q", lit.Value)
	}
	outOfRange := func() {
		fail(lit.Loc(), KindType, "Integer literal %q is out of range", lit.Value)
	}
	if long {
		if base == 10 && (n > math.MaxInt64+1 || n == math.MaxInt64+1 && !negated) {
			outOfRange()
		}
		return constant(loader.Long, int64(n))
	}
	switch {
	case base == 10 && (n > math.MaxInt32+1 || n == math.MaxInt32+1 && !negated):
		outOfRange()
	case base != 10 && n > math.MaxUint32:
		outOfRange()
	}
	return constant(loader.Int, int32(uint32(n)))
}

func floatingLiteral(lit *ast.FloatingPointLiteral) *value {
	text := strings.ReplaceAll(lit.Value, "_", "")
	bits := 64
	hex := strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
	if last := text[len(text)-1]; !hex || strings.ContainsAny(text, "pP") {
		switch last {
		case 'f', 'F':
			bits, text = 32, text[:len(text)-1]
		case 'd', 'D':
			text = text[:len(text)-1]
		}
	}
	f, err := strconv.ParseFloat(text, bits)
	if err != nil || math.IsInf(f, 0) {
		fail(lit.Loc(), KindType, "Floating-point literal %q is out of range", lit.Value)
	}
	if bits == 32 {
		return constant(loader.Float, float32(f))
	}
	return constant(loader.Double, f)
}

func characterLiteral(lit *ast.CharacterLiteral) *value {
	units, ok := unquote(lit.Value, '\'')
	if !ok || len(units) != 1 {
		fail(lit.Loc(), KindType, "Invalid character literal %s", lit.Value)
	}
	return constant(loader.Char, units[0])
}

func (b *body) stringLiteral(lit *ast.StringLiteral) *value {
	units, ok := unquote(lit.Value, '"')
	if !ok {
		fail(lit.Loc(), KindType, "Invalid string literal %s", lit.Value)
	}
	return constant(b.s.lookupClass("java.lang.String").Type(), string(utf16.Decode(units)))
}

// unquote decodes a quoted literal into UTF-16 code units.
func unquote(text string, quote byte) ([]uint16, bool) {
	if len(text) < 2 || text[0] != quote || text[len(text)-1] != quote {
		return nil, false
	}
	body := text[1 : len(text)-1]
	var out []uint16
	for i := 0; i < len(body); {
		if body[i] != '\\' {
			r, size := utf8.DecodeRuneInString(body[i:])
			out = utf16.AppendRune(out, r)
			i += size
			continue
		}
		i++
		if i >= len(body) {
			return nil, false
		}
		c := body[i]
		i++
		switch c {
		case 'b':
			out = append(out, '\b')
		case 't':
			out = append(out, '\t')
		case 'n':
			out = append(out, '\n')
		case 'f':
			out = append(out, '\f')
		case 'r':
			out = append(out, '\r')
		case 's':
			out = append(out, ' ')
		case '"', '\'', '\\':
			out = append(out, uint16(c))
		case 'u':
			for i < len(body) && body[i] == 'u' {
				i++
			}
			if i+4 > len(body) {
				return nil, false
			}
			n, err := strconv.ParseUint(body[i:i+4], 16, 16)
			if err != nil {
				return nil, false
			}
			out = append(out, uint16(n))
			i += 4
		default:
			if c < '0' || c > '7' {
				return nil, false
			}
			n := uint16(c - '0')
			limit := 2
			if c > '3' {
				limit = 1
			}
			for ; limit > 0 && i < len(body) && body[i] >= '0' && body[i] <= '7'; limit-- {
				n = n*8 + uint16(body[i]-'0')
				i++
			}
			out = append(out, n)
		}
	}
	return out, true
}
