package ast

import "strings"

type Primitive int

const (
	PrimVoid Primitive = iota
	PrimBoolean
	PrimByte
	PrimShort
	PrimChar
	PrimInt
	PrimLong
	PrimFloat
	PrimDouble
)

var primitiveNames = [...]string{
	PrimVoid:    "void",
	PrimBoolean: "boolean",
	PrimByte:    "byte",
	PrimShort:   "short",
	PrimChar:    "char",
	PrimInt:     "int",
	PrimLong:    "long",
	PrimFloat:   "float",
	PrimDouble:  "double",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "?"
}

// PrimitiveByName reports the primitive for a keyword such as "int".
func PrimitiveByName(name string) (Primitive, bool) {
	for i, n := range primitiveNames {
		if n == name {
			return Primitive(i), true
		}
	}
	return PrimVoid, false
}

type PrimitiveType struct {
	Location
	Primitive Primitive
}

type ArrayType struct {
	Location
	Component Type
}

// ReferenceType names a class or interface; the identifiers are resolved
// against imports and scopes at cook time.
type ReferenceType struct {
	Location
	Identifiers   []string
	TypeArguments []Type
}

// Wildcard is a `?`, `? extends T` or `? super T` type argument.
type Wildcard struct {
	Location
	Bound Type
	Super bool
}

func (*PrimitiveType) Kind() Kind { return KindPrimitiveType }
func (*ArrayType) Kind() Kind     { return KindArrayType }
func (*ReferenceType) Kind() Kind { return KindReferenceType }
func (*Wildcard) Kind() Kind      { return KindWildcard }

func (*PrimitiveType) typeNode() {}
func (*ArrayType) typeNode()     {}
func (*ReferenceType) typeNode() {}
func (*Wildcard) typeNode()      {}

// NewArrayType wraps a component type; the array type shares the component's
// location.
func NewArrayType(component Type) *ArrayType {
	return &ArrayType{Location: component.Loc(), Component: component}
}

func (t *ReferenceType) Name() string {
	return strings.Join(t.Identifiers, ".")
}
