// Package ast defines the syntax tree produced by the parser and consumed by
// the compiler, the unparser and the deep copier.
//
// Nodes are plain structs that may also be assembled by hand. Every node
// embeds a Location and reports a Kind, which lets generic code such as Walk
// and DeepCopier dispatch on the closed set of node kinds.
package ast

import "strings"

type Node interface {
	Loc() Location
	Kind() Kind
}

// Type is a syntactic type: primitive, array or named reference type.
type Type interface {
	Node
	typeNode()
}

// Expr is any expression, including array initializers, which are only valid
// as variable initializers and inside NewInitializedArray.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement that may appear in a block.
type Stmt interface {
	Node
	stmtNode()
}

// TypeDeclaration is a top-level class or interface.
type TypeDeclaration interface {
	Node
	TypeName() string
	TypeModifiers() *Modifiers
	TypeMembers() []Member
	typeDeclNode()
}

// Member is a declaration inside a type body.
type Member interface {
	Node
	memberNode()
}

type Mod uint32

const ModNone Mod = 0

const (
	ModPublic Mod = 1 << iota
	ModProtected
	ModPrivate
	ModStatic
	ModFinal
	ModAbstract
	ModNative
	ModSynchronized
	ModTransient
	ModVolatile
	ModStrictfp
	ModDefault
)

var modNames = []struct {
	mod  Mod
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModStatic, "static"},
	{ModFinal, "final"},
	{ModTransient, "transient"},
	{ModVolatile, "volatile"},
	{ModSynchronized, "synchronized"},
	{ModNative, "native"},
	{ModStrictfp, "strictfp"},
	{ModDefault, "default"},
}

// ModFromKeyword maps a modifier keyword to its flag, or ModNone.
func ModFromKeyword(kw string) Mod {
	for _, m := range modNames {
		if m.name == kw {
			return m.mod
		}
	}
	return ModNone
}

func (m Mod) Has(flag Mod) bool {
	return m&flag != 0
}

// Keywords returns the modifier keywords in canonical source order.
func (m Mod) Keywords() []string {
	var out []string
	for _, mn := range modNames {
		if m.Has(mn.mod) {
			out = append(out, mn.name)
		}
	}
	return out
}

func (m Mod) String() string {
	return strings.Join(m.Keywords(), " ")
}

type Modifiers struct {
	Location
	Flags       Mod
	Annotations []*Annotation
}

func (*Modifiers) Kind() Kind { return KindModifiers }

// NewModifiers is a convenience for hand-built trees.
func NewModifiers(loc Location, flags Mod) *Modifiers {
	return &Modifiers{Location: loc, Flags: flags}
}

func (m *Modifiers) Has(flag Mod) bool {
	return m != nil && m.Flags.Has(flag)
}

// Annotation is a marker (`@Name`) or single-element (`@Name(value)`)
// annotation.
type Annotation struct {
	Location
	Type  *ReferenceType
	Value Expr
}

func (*Annotation) Kind() Kind { return KindAnnotation }
