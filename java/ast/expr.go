package ast

import "strings"

// Literals keep their source text verbatim; the compiler interprets it.
type (
	IntegerLiteral struct {
		Location
		Value string
	}

	FloatingPointLiteral struct {
		Location
		Value string
	}

	BooleanLiteral struct {
		Location
		Value bool
	}

	// CharacterLiteral holds the quoted source text, e.g. `'\n'`.
	CharacterLiteral struct {
		Location
		Value string
	}

	// StringLiteral holds the quoted source text, e.g. `"a\tb"`.
	StringLiteral struct {
		Location
		Value string
	}

	NullLiteral struct {
		Location
	}
)

// AmbiguousName is a dotted identifier sequence whose meaning (local
// variable, field, type or package) is decided by the compiler.
type AmbiguousName struct {
	Location
	Identifiers []string
}

func (n *AmbiguousName) String() string {
	return strings.Join(n.Identifiers, ".")
}

type FieldAccessExpression struct {
	Location
	Target Expr
	Field  string
}

type ArrayAccess struct {
	Location
	Array Expr
	Index Expr
}

// MethodInvocation calls Name on Target, or on the enclosing class when
// Target is nil.
type MethodInvocation struct {
	Location
	Target    Expr
	Name      string
	Arguments []Expr
}

type NewClassInstance struct {
	Location
	Type      *ReferenceType
	Arguments []Expr
}

// NewArray is `new T[d1][d2]...[]...`; Type is the element type and
// ExtraDims counts the trailing empty bracket pairs.
type NewArray struct {
	Location
	Type       Type
	Dimensions []Expr
	ExtraDims  int
}

// NewInitializedArray is `new T[]{...}`; Type is the array type.
type NewInitializedArray struct {
	Location
	Type        *ArrayType
	Initializer *ArrayInitializer
}

// ArrayInitializer is `{a, b, {c}}`. Values are expressions or nested
// initializers.
type ArrayInitializer struct {
	Location
	Values []Expr
}

type ClassLiteral struct {
	Location
	Type Type
}

type ThisReference struct {
	Location
}

type BinaryOperation struct {
	Location
	Left  Expr
	Op    string
	Right Expr
}

// UnaryOperation is a prefix `+ - ! ~`.
type UnaryOperation struct {
	Location
	Op      string
	Operand Expr
}

// Crement is a pre- or post-increment or decrement.
type Crement struct {
	Location
	Op      string
	Operand Expr
	Postfix bool
}

// Assignment covers `=` and the compound assignment operators.
type Assignment struct {
	Location
	Left  Expr
	Op    string
	Right Expr
}

type ConditionalExpression struct {
	Location
	Cond Expr
	Then Expr
	Else Expr
}

type Cast struct {
	Location
	Type  Type
	Value Expr
}

type Instanceof struct {
	Location
	Value Expr
	Type  Type
}

func (*IntegerLiteral) Kind() Kind        { return KindIntegerLiteral }
func (*FloatingPointLiteral) Kind() Kind  { return KindFloatingPointLiteral }
func (*BooleanLiteral) Kind() Kind        { return KindBooleanLiteral }
func (*CharacterLiteral) Kind() Kind      { return KindCharacterLiteral }
func (*StringLiteral) Kind() Kind         { return KindStringLiteral }
func (*NullLiteral) Kind() Kind           { return KindNullLiteral }
func (*AmbiguousName) Kind() Kind         { return KindAmbiguousName }
func (*FieldAccessExpression) Kind() Kind { return KindFieldAccessExpression }
func (*ArrayAccess) Kind() Kind           { return KindArrayAccess }
func (*MethodInvocation) Kind() Kind      { return KindMethodInvocation }
func (*NewClassInstance) Kind() Kind      { return KindNewClassInstance }
func (*NewArray) Kind() Kind              { return KindNewArray }
func (*NewInitializedArray) Kind() Kind   { return KindNewInitializedArray }
func (*ArrayInitializer) Kind() Kind      { return KindArrayInitializer }
func (*ClassLiteral) Kind() Kind          { return KindClassLiteral }
func (*ThisReference) Kind() Kind         { return KindThisReference }
func (*BinaryOperation) Kind() Kind       { return KindBinaryOperation }
func (*UnaryOperation) Kind() Kind        { return KindUnaryOperation }
func (*Crement) Kind() Kind               { return KindCrement }
func (*Assignment) Kind() Kind            { return KindAssignment }
func (*ConditionalExpression) Kind() Kind { return KindConditionalExpression }
func (*Cast) Kind() Kind                  { return KindCast }
func (*Instanceof) Kind() Kind            { return KindInstanceof }

func (*IntegerLiteral) exprNode()        {}
func (*FloatingPointLiteral) exprNode()  {}
func (*BooleanLiteral) exprNode()        {}
func (*CharacterLiteral) exprNode()      {}
func (*StringLiteral) exprNode()         {}
func (*NullLiteral) exprNode()           {}
func (*AmbiguousName) exprNode()         {}
func (*FieldAccessExpression) exprNode() {}
func (*ArrayAccess) exprNode()           {}
func (*MethodInvocation) exprNode()      {}
func (*NewClassInstance) exprNode()      {}
func (*NewArray) exprNode()              {}
func (*NewInitializedArray) exprNode()   {}
func (*ArrayInitializer) exprNode()      {}
func (*ClassLiteral) exprNode()          {}
func (*ThisReference) exprNode()         {}
func (*BinaryOperation) exprNode()       {}
func (*UnaryOperation) exprNode()        {}
func (*Crement) exprNode()               {}
func (*Assignment) exprNode()            {}
func (*ConditionalExpression) exprNode() {}
func (*Cast) exprNode()                  {}
func (*Instanceof) exprNode()            {}
