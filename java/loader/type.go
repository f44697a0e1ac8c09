package loader

import (
	"fmt"
	"strings"
)

type TypeKind int

const (
	KindVoid TypeKind = iota
	KindBoolean
	KindByte
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindNull
	KindClass
	KindArray
)

// Type is a runtime type. Primitive and null types are singletons; class and
// array types are compared with Equal.
type Type struct {
	Kind  TypeKind
	Class *Class
	Elem  *Type
}

var (
	Void    = &Type{Kind: KindVoid}
	Boolean = &Type{Kind: KindBoolean}
	Byte    = &Type{Kind: KindByte}
	Short   = &Type{Kind: KindShort}
	Char    = &Type{Kind: KindChar}
	Int     = &Type{Kind: KindInt}
	Long    = &Type{Kind: KindLong}
	Float   = &Type{Kind: KindFloat}
	Double  = &Type{Kind: KindDouble}
	Null    = &Type{Kind: KindNull}
)

var primitives = []struct {
	t    *Type
	name string
	desc byte
}{
	{Void, "void", 'V'},
	{Boolean, "boolean", 'Z'},
	{Byte, "byte", 'B'},
	{Short, "short", 'S'},
	{Char, "char", 'C'},
	{Int, "int", 'I'},
	{Long, "long", 'J'},
	{Float, "float", 'F'},
	{Double, "double", 'D'},
}

// PrimitiveNamed returns the primitive type for a keyword such as "int".
func PrimitiveNamed(name string) *Type {
	for _, p := range primitives {
		if p.name == name {
			return p.t
		}
	}
	return nil
}

func ClassType(c *Class) *Type {
	return c.Type()
}

func ArrayOf(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

func (t *Type) IsPrimitive() bool {
	return t.Kind >= KindBoolean && t.Kind <= KindDouble
}

func (t *Type) IsNumeric() bool {
	return t.Kind >= KindByte && t.Kind <= KindDouble
}

// IsIntegral covers byte, short, char, int and long.
func (t *Type) IsIntegral() bool {
	return t.Kind >= KindByte && t.Kind <= KindLong
}

func (t *Type) IsReference() bool {
	return t.Kind == KindClass || t.Kind == KindArray || t.Kind == KindNull
}

func (t *Type) IsArray() bool {
	return t.Kind == KindArray
}

// Is reports whether t is the class type named name.
func (t *Type) Is(name string) bool {
	return t.Kind == KindClass && t.Class.Name == name
}

func (t *Type) Equal(u *Type) bool {
	if t == u {
		return true
	}
	if t == nil || u == nil || t.Kind != u.Kind {
		return false
	}
	switch t.Kind {
	case KindClass:
		return t.Class == u.Class
	case KindArray:
		return t.Elem.Equal(u.Elem)
	}
	return true
}

// Name returns the source form, e.g. "int[]" or "java.lang.String".
func (t *Type) Name() string {
	switch t.Kind {
	case KindNull:
		return "null"
	case KindClass:
		return t.Class.Name
	case KindArray:
		return t.Elem.Name() + "[]"
	}
	for _, p := range primitives {
		if p.t.Kind == t.Kind {
			return p.name
		}
	}
	return "?"
}

func (t *Type) String() string {
	return t.Name()
}

// Descriptor returns the JVM field descriptor, e.g. "[I" or
// "Ljava/lang/String;".
func (t *Type) Descriptor() string {
	switch t.Kind {
	case KindClass:
		return "L" + SourceToInternalName(t.Class.Name) + ";"
	case KindArray:
		return "[" + t.Elem.Descriptor()
	case KindNull:
		return "Ljava/lang/Object;"
	}
	for _, p := range primitives {
		if p.t.Kind == t.Kind {
			return string(p.desc)
		}
	}
	return "?"
}

// MethodDescriptor renders a JVM method descriptor such as "(ID)V".
func MethodDescriptor(params []*Type, ret *Type) string {
	var sb strings.Builder
	sb.WriteString("(")
	for _, p := range params {
		sb.WriteString(p.Descriptor())
	}
	sb.WriteString(")")
	sb.WriteString(ret.Descriptor())
	return sb.String()
}

// Zero returns the default value of a field or array element of type t.
func (t *Type) Zero() any {
	switch t.Kind {
	case KindBoolean:
		return false
	case KindByte:
		return int8(0)
	case KindShort:
		return int16(0)
	case KindChar:
		return uint16(0)
	case KindInt:
		return int32(0)
	case KindLong:
		return int64(0)
	case KindFloat:
		return float32(0)
	case KindDouble:
		return float64(0)
	}
	return nil
}

// ParseDescriptor parses a field descriptor, resolving class names through
// l.
func ParseDescriptor(l *Loader, desc string) (*Type, error) {
	t, n, err := parseFieldType(l, desc, 0)
	if err != nil {
		return nil, err
	}
	if n != len(desc) {
		return nil, fmt.Errorf("%w: trailing characters in %q", ErrBadDescriptor, desc)
	}
	return t, nil
}

// ParseMethodDescriptor parses a descriptor such as "(I[Ljava/lang/String;)D".
func ParseMethodDescriptor(l *Loader, desc string) (params []*Type, ret *Type, err error) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, nil, fmt.Errorf("%w: %q does not start with (", ErrBadDescriptor, desc)
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		t, n, err := parseFieldType(l, desc, i)
		if err != nil {
			return nil, nil, err
		}
		if t.Kind == KindVoid {
			return nil, nil, fmt.Errorf("%w: void parameter in %q", ErrBadDescriptor, desc)
		}
		params = append(params, t)
		i += n
	}
	if i >= len(desc) {
		return nil, nil, fmt.Errorf("%w: unterminated parameter list in %q", ErrBadDescriptor, desc)
	}
	i++
	ret, n, err := parseFieldType(l, desc, i)
	if err != nil {
		return nil, nil, err
	}
	if i+n != len(desc) {
		return nil, nil, fmt.Errorf("%w: trailing characters in %q", ErrBadDescriptor, desc)
	}
	return params, ret, nil
}

func parseFieldType(l *Loader, desc string, start int) (*Type, int, error) {
	i := start
	dims := 0
	for i < len(desc) && desc[i] == '[' {
		dims++
		i++
	}
	if i >= len(desc) {
		return nil, 0, fmt.Errorf("%w: %q ends early", ErrBadDescriptor, desc)
	}

	var t *Type
	switch c := desc[i]; c {
	case 'L':
		semicolon := strings.IndexByte(desc[i:], ';')
		if semicolon == -1 {
			return nil, 0, fmt.Errorf("%w: unterminated class name in %q", ErrBadDescriptor, desc)
		}
		cls, err := l.Resolve(InternalToSourceName(desc[i+1 : i+semicolon]))
		if err != nil {
			return nil, 0, err
		}
		t = cls.Type()
		i += semicolon + 1
	default:
		for _, p := range primitives {
			if p.desc == c {
				t = p.t
			}
		}
		if t == nil {
			return nil, 0, fmt.Errorf("%w: unknown type %q in %q", ErrBadDescriptor, c, desc)
		}
		i++
	}
	if t.Kind == KindVoid && dims > 0 {
		return nil, 0, fmt.Errorf("%w: array of void in %q", ErrBadDescriptor, desc)
	}
	for ; dims > 0; dims-- {
		t = ArrayOf(t)
	}
	return t, i - start, nil
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
