package ast

import (
	"reflect"
	"strings"
	"testing"
)

func sampleMethod() *MethodDeclaration {
	loc := Location{File: "Sample.java", Line: 3, Column: 5}
	x := &AmbiguousName{Location: loc, Identifiers: []string{"x"}}
	return &MethodDeclaration{
		Location:   loc,
		Modifiers:  NewModifiers(loc, ModPublic|ModStatic),
		ReturnType: &PrimitiveType{Location: loc, Primitive: PrimInt},
		Name:       "calc",
		Parameters: []*FormalParameter{
			{Location: loc, Type: &PrimitiveType{Location: loc, Primitive: PrimInt}, Name: "x"},
		},
		Body: &Block{Location: loc, Statements: []Stmt{
			&IfStatement{
				Location: loc,
				Cond:     &BinaryOperation{Location: loc, Left: x, Op: ">", Right: &IntegerLiteral{Location: loc, Value: "0"}},
				Then:     &ReturnStatement{Location: loc, Value: x},
			},
			&ReturnStatement{Location: loc, Value: &IntegerLiteral{Location: loc, Value: "0"}},
		}},
	}
}

func TestDeepCopier_Identity(t *testing.T) {
	orig := sampleMethod()
	c := &DeepCopier{}
	cp := c.CopyMember(orig).(*MethodDeclaration)

	if !reflect.DeepEqual(orig, cp) {
		t.Fatalf("copy differs from original")
	}
	if cp == orig || cp.Body == orig.Body {
		t.Fatalf("copy aliases original nodes")
	}
	if &cp.Body.Statements[0] == &orig.Body.Statements[0] {
		t.Fatalf("copy aliases statement slice")
	}
}

func TestDeepCopier_NoSharedNodes(t *testing.T) {
	orig := sampleMethod()
	cp := (&DeepCopier{}).CopyMember(orig)

	seen := map[Node]bool{}
	Inspect(orig, func(n Node) bool {
		seen[n] = true
		return true
	})
	Inspect(cp, func(n Node) bool {
		if seen[n] {
			t.Errorf("node %s at %s is shared between original and copy", n.Kind(), n.Loc())
		}
		return true
	})
}

func TestDeepCopier_MutatingCopyLeavesOriginal(t *testing.T) {
	orig := &AmbiguousName{Identifiers: []string{"a", "b"}}
	cp := (&DeepCopier{}).CopyExpr(orig).(*AmbiguousName)
	cp.Identifiers[0] = "z"
	if orig.Identifiers[0] != "a" {
		t.Fatalf("original identifiers changed to %v", orig.Identifiers)
	}
}

func TestDeepCopier_ReturnToBreak(t *testing.T) {
	method := sampleMethod()
	c := &DeepCopier{}
	c.Override(KindReturnStatement, func(c *DeepCopier, n Node) Node {
		return &BreakStatement{Location: n.Loc(), Label: "calc_eval"}
	})

	body := c.CopyStmts(method.Body.Statements)
	labeled := &LabeledStatement{Label: "calc_eval", Body: &Block{Statements: body}}

	var kinds []string
	Inspect(labeled, func(n Node) bool {
		kinds = append(kinds, n.Kind().String())
		return true
	})
	got := strings.Join(kinds, " ")
	if strings.Contains(got, "ReturnStatement") {
		t.Errorf("return statement survived the rewrite: %s", got)
	}
	if n := strings.Count(got, "BreakStatement"); n != 2 {
		t.Errorf("got %d break statements, want 2", n)
	}
	if _, ok := method.Body.Statements[1].(*ReturnStatement); !ok {
		t.Errorf("original body was modified")
	}
}

func TestDeepCopier_DefaultInsideOverride(t *testing.T) {
	var calls int
	c := &DeepCopier{}
	c.Override(KindIntegerLiteral, func(c *DeepCopier, n Node) Node {
		calls++
		lit := c.Default(n).(*IntegerLiteral)
		lit.Value = "42"
		return lit
	})
	cp := c.CopyMember(sampleMethod()).(*MethodDeclaration)
	if calls != 2 {
		t.Errorf("override called %d times, want 2", calls)
	}
	ret := cp.Body.Statements[1].(*ReturnStatement)
	if got := ret.Value.(*IntegerLiteral).Value; got != "42" {
		t.Errorf("got %q, want 42", got)
	}
}

func TestDeepCopier_WrongCategoryPanics(t *testing.T) {
	c := &DeepCopier{}
	c.Override(KindReturnStatement, func(c *DeepCopier, n Node) Node {
		return &NullLiteral{Location: n.Loc()}
	})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for statement replaced by expression")
		}
	}()
	c.CopyMember(sampleMethod())
}

func TestDeepCopier_Nil(t *testing.T) {
	c := &DeepCopier{}
	if c.CopyExpr(nil) != nil {
		t.Errorf("CopyExpr(nil) returned non-nil")
	}
	if c.CopyStmts(nil) != nil {
		t.Errorf("CopyStmts(nil) returned non-nil")
	}
	var b *Block
	if c.CopyBlock(b) != nil {
		t.Errorf("CopyBlock(nil) returned non-nil")
	}
}
