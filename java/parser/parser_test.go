package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dhamidi/jcook/java/ast"
)

// sexpr renders an expression tree with explicit grouping so that tests can
// compare shapes without depending on the unparser.
func sexpr(e ast.Expr) string {
	switch e := e.(type) {
	case nil:
		return "<nil>"
	case *ast.IntegerLiteral:
		return e.Value
	case *ast.FloatingPointLiteral:
		return e.Value
	case *ast.StringLiteral:
		return e.Value
	case *ast.CharacterLiteral:
		return e.Value
	case *ast.BooleanLiteral:
		return fmt.Sprint(e.Value)
	case *ast.NullLiteral:
		return "null"
	case *ast.ThisReference:
		return "this"
	case *ast.AmbiguousName:
		return e.String()
	case *ast.BinaryOperation:
		return fmt.Sprintf("(%s %s %s)", e.Op, sexpr(e.Left), sexpr(e.Right))
	case *ast.Assignment:
		return fmt.Sprintf("(%s %s %s)", e.Op, sexpr(e.Left), sexpr(e.Right))
	case *ast.UnaryOperation:
		return fmt.Sprintf("(%s %s)", e.Op, sexpr(e.Operand))
	case *ast.Crement:
		if e.Postfix {
			return fmt.Sprintf("(post%s %s)", e.Op, sexpr(e.Operand))
		}
		return fmt.Sprintf("(pre%s %s)", e.Op, sexpr(e.Operand))
	case *ast.ConditionalExpression:
		return fmt.Sprintf("(? %s %s %s)", sexpr(e.Cond), sexpr(e.Then), sexpr(e.Else))
	case *ast.Cast:
		return fmt.Sprintf("(cast %s %s)", typeName(e.Type), sexpr(e.Value))
	case *ast.Instanceof:
		return fmt.Sprintf("(instanceof %s %s)", sexpr(e.Value), typeName(e.Type))
	case *ast.FieldAccessExpression:
		return fmt.Sprintf("(. %s %s)", sexpr(e.Target), e.Field)
	case *ast.ArrayAccess:
		return fmt.Sprintf("([] %s %s)", sexpr(e.Array), sexpr(e.Index))
	case *ast.MethodInvocation:
		parts := []string{"call", sexpr(e.Target), e.Name}
		for _, a := range e.Arguments {
			parts = append(parts, sexpr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.NewClassInstance:
		parts := []string{"new", e.Type.Name()}
		for _, a := range e.Arguments {
			parts = append(parts, sexpr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.NewArray:
		parts := []string{"newarray", typeName(e.Type)}
		for _, d := range e.Dimensions {
			parts = append(parts, sexpr(d))
		}
		return fmt.Sprintf("(%s +%d)", strings.Join(parts, " "), e.ExtraDims)
	case *ast.NewInitializedArray:
		return fmt.Sprintf("(newarray %s %s)", typeName(e.Type), sexpr(e.Initializer))
	case *ast.ArrayInitializer:
		var parts []string
		for _, v := range e.Values {
			parts = append(parts, sexpr(v))
		}
		return "{" + strings.Join(parts, " ") + "}"
	case *ast.ClassLiteral:
		return typeName(e.Type) + ".class"
	}
	return fmt.Sprintf("<%T>", e)
}

func typeName(t ast.Type) string {
	switch t := t.(type) {
	case *ast.PrimitiveType:
		return t.Primitive.String()
	case *ast.ArrayType:
		return typeName(t.Component) + "[]"
	case *ast.ReferenceType:
		if len(t.TypeArguments) == 0 {
			return t.Name()
		}
		var args []string
		for _, a := range t.TypeArguments {
			args = append(args, typeName(a))
		}
		return t.Name() + "<" + strings.Join(args, ",") + ">"
	case *ast.Wildcard:
		return "?"
	}
	return fmt.Sprintf("<%T>", t)
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * (2 + 3)", "(* 1 (+ 2 3))"},
		{"a - b - c", "(- (- a b) c)"},
		{"a = b = c", "(= a (= b c))"},
		{"x += 1", "(+= x 1)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a | b ^ c & d", "(| a (^ b (& c d)))"},
		{"a == b < c", "(== a (< b c))"},
		{"a << 1 + 2", "(<< a (+ 1 2))"},
		{"a ? b : c ? d : e", "(? a b (? c d e))"},
		{"-a * b", "(* (- a) b)"},
		{"!a && b", "(&& (! a) b)"},
		{"i++ + ++j", "(+ (post++ i) (pre++ j))"},
		{"(int) x + 1", "(+ (cast int x) 1)"},
		{"(double) -x", "(cast double (- x))"},
		{"(String) o", "(cast String o)"},
		{"(a) + b", "(+ a b)"},
		{"o instanceof String && b", "(&& (instanceof o String) b)"},
		{"a.b.c", "a.b.c"},
		{"a.b.m(1, 2)", "(call a.b m 1 2)"},
		{"m()", "(call <nil> m)"},
		{"a.m().f", "(. (call a m) f)"},
		{"a.m().n()", "(call (call a m) n)"},
		{"a[i][j]", "([] ([] a i) j)"},
		{"this.x", "(. this x)"},
		{"new Foo(1)", "(new Foo 1)"},
		{"new java.math.BigDecimal(s)", "(new java.math.BigDecimal s)"},
		{"new int[3][]", "(newarray int 3 +1)"},
		{"new byte[] { 1, 2 }", "(newarray byte[] {1 2})"},
		{"new int[][] { { 1 }, {} }", "(newarray int[][] {{1} {}})"},
		{"String.class", "String.class"},
		{"int[].class", "int[].class"},
		{"java.lang.String[].class", "java.lang.String[].class"},
		{`"s" + 'c' + 1.5f + null`, `(+ (+ (+ "s" 'c') 1.5f) null)`},
		{"true ? 1 : 0", "(? true 1 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := ParseExpression(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := sexpr(e); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestParseStatement(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, s ast.Stmt)
	}{
		{"int x = 1, y[] = {2};", func(t *testing.T, s ast.Stmt) {
			d := s.(*ast.LocalVariableDeclarationStatement)
			if len(d.Variables) != 2 || d.Variables[1].Brackets != 1 {
				t.Errorf("unexpected declarators %+v", d.Variables)
			}
		}},
		{"final java.util.List<java.util.List<String>> l = null;", func(t *testing.T, s ast.Stmt) {
			d := s.(*ast.LocalVariableDeclarationStatement)
			if !d.Modifiers.Has(ast.ModFinal) {
				t.Errorf("final modifier lost")
			}
			if got := typeName(d.Type); got != "java.util.List<java.util.List<String>>" {
				t.Errorf("type %s", got)
			}
		}},
		{"if (a) if (b) x(); else y();", func(t *testing.T, s ast.Stmt) {
			outer := s.(*ast.IfStatement)
			if outer.Else != nil {
				t.Errorf("else bound to the outer if")
			}
			if outer.Then.(*ast.IfStatement).Else == nil {
				t.Errorf("else missing on inner if")
			}
		}},
		{"for (int i = 0, j = 1; i < n; i++, j--) sum += i;", func(t *testing.T, s ast.Stmt) {
			f := s.(*ast.ForStatement)
			if len(f.Init) != 1 || len(f.Update) != 2 || f.Cond == nil {
				t.Errorf("unexpected for %+v", f)
			}
		}},
		{"for (i = 0, j = 0; ; ) {}", func(t *testing.T, s ast.Stmt) {
			f := s.(*ast.ForStatement)
			if len(f.Init) != 2 || f.Cond != nil || f.Update != nil {
				t.Errorf("unexpected for %+v", f)
			}
		}},
		{"for (final String s : names) n++;", func(t *testing.T, s ast.Stmt) {
			f := s.(*ast.ForEachStatement)
			if !f.Variable.Final || f.Variable.Name != "s" {
				t.Errorf("unexpected variable %+v", f.Variable)
			}
		}},
		{"outer: while (true) { continue outer; }", func(t *testing.T, s ast.Stmt) {
			l := s.(*ast.LabeledStatement)
			w := l.Body.(*ast.WhileStatement)
			c := w.Body.(*ast.Block).Statements[0].(*ast.ContinueStatement)
			if l.Label != "outer" || c.Label != "outer" {
				t.Errorf("labels %q %q", l.Label, c.Label)
			}
		}},
		{"do x++; while (x < 3);", func(t *testing.T, s ast.Stmt) {
			if _, ok := s.(*ast.DoStatement); !ok {
				t.Errorf("got %T", s)
			}
		}},
		{"switch (k) { case 1: case 2: a(); break; default: b(); }", func(t *testing.T, s ast.Stmt) {
			sw := s.(*ast.SwitchStatement)
			if len(sw.Cases) != 2 {
				t.Fatalf("got %d cases", len(sw.Cases))
			}
			if len(sw.Cases[0].Labels) != 2 || len(sw.Cases[0].Body) != 2 {
				t.Errorf("first case %+v", sw.Cases[0])
			}
			if !sw.Cases[1].Default {
				t.Errorf("second case is not default")
			}
		}},
		{"throw new RuntimeException(\"x\");", func(t *testing.T, s ast.Stmt) {
			if _, ok := s.(*ast.ThrowStatement); !ok {
				t.Errorf("got %T", s)
			}
		}},
		{"return;", func(t *testing.T, s ast.Stmt) {
			if s.(*ast.ReturnStatement).Value != nil {
				t.Errorf("unexpected return value")
			}
		}},
		{"a.b.c = 1;", func(t *testing.T, s ast.Stmt) {
			a := s.(*ast.ExpressionStatement).Expr.(*ast.Assignment)
			if sexpr(a.Left) != "a.b.c" {
				t.Errorf("left %s", sexpr(a.Left))
			}
		}},
		{";", func(t *testing.T, s ast.Stmt) {
			if _, ok := s.(*ast.EmptyStatement); !ok {
				t.Errorf("got %T", s)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s, err := ParseStatement(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, s)
		})
	}
}

func TestParseCompilationUnit(t *testing.T) {
	src := `package pkg.sub;

import java.util.*;
import static java.lang.Math.max;
import java.util.List;

public class Point extends Base implements Comparable, java.io.Serializable {
    private static final int ORIGIN = 0;
    private int x, y;

    static { count = 0; }

    { x = ORIGIN; }

    public Point(int x, int y) {
        super(x);
        this.y = y;
    }

    public Point() {
        this(0, 0);
    }

    public int sum(int... values) throws IllegalStateException {
        int s = 0;
        for (int v : values) s += v;
        return s;
    }

    abstract void nothing();
}

interface Shape {
    double area();
    default int sides() { return 0; }
}
`
	cu, err := ParseCompilationUnit(strings.NewReader(src), WithFile("Point.java"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cu.PackageName() != "pkg.sub" || cu.File != "Point.java" {
		t.Errorf("package %q file %q", cu.PackageName(), cu.File)
	}
	if len(cu.Imports) != 3 || !cu.Imports[0].OnDemand || !cu.Imports[1].Static {
		t.Errorf("unexpected imports %+v", cu.Imports)
	}
	if len(cu.Types) != 2 {
		t.Fatalf("got %d types", len(cu.Types))
	}

	cd := cu.Types[0].(*ast.ClassDeclaration)
	if cd.Name != "Point" || cd.Extends.Name() != "Base" || len(cd.Implements) != 2 {
		t.Errorf("unexpected class header %+v", cd)
	}
	if !cd.Modifiers.Has(ast.ModPublic) {
		t.Errorf("public modifier lost")
	}
	kinds := make([]string, len(cd.Members))
	for i, m := range cd.Members {
		kinds[i] = m.Kind().String()
	}
	want := "FieldDeclaration FieldDeclaration Initializer Initializer ConstructorDeclaration ConstructorDeclaration MethodDeclaration MethodDeclaration"
	if got := strings.Join(kinds, " "); got != want {
		t.Errorf("members:\n got %s\nwant %s", got, want)
	}

	if !cd.Members[2].(*ast.Initializer).Static || cd.Members[3].(*ast.Initializer).Static {
		t.Errorf("initializer staticness wrong")
	}
	ctor := cd.Members[4].(*ast.ConstructorDeclaration)
	if ctor.Invocation == nil || !ctor.Invocation.Super || len(ctor.Body.Statements) != 1 {
		t.Errorf("unexpected constructor %+v", ctor)
	}
	if inv := cd.Members[5].(*ast.ConstructorDeclaration).Invocation; inv == nil || inv.Super || len(inv.Arguments) != 2 {
		t.Errorf("unexpected this() invocation %+v", inv)
	}
	sum := cd.Members[6].(*ast.MethodDeclaration)
	if !sum.Parameters[0].VarArgs || len(sum.Thrown) != 1 || sum.Body == nil {
		t.Errorf("unexpected method %+v", sum)
	}
	if cd.Members[7].(*ast.MethodDeclaration).Body != nil {
		t.Errorf("abstract method has a body")
	}

	id := cu.Types[1].(*ast.InterfaceDeclaration)
	if len(id.Members) != 2 || !id.Members[1].(*ast.MethodDeclaration).Modifiers.Has(ast.ModDefault) {
		t.Errorf("unexpected interface %+v", id)
	}
}

func TestParseMethodDeclaration(t *testing.T) {
	src := "public static double calc(final double d, int[] xs) { return d * xs.length; }"
	md, err := New(strings.NewReader(src)).ParseMethodDeclaration()
	if err != nil {
		t.Fatal(err)
	}
	if md.Name != "calc" || len(md.Parameters) != 2 || !md.Parameters[0].Final {
		t.Errorf("unexpected method %+v", md)
	}
	if got := typeName(md.Parameters[1].Type); got != "int[]" {
		t.Errorf("parameter type %s", got)
	}
}

func TestParseClassBody(t *testing.T) {
	decl := &ast.ClassDeclaration{Name: "SC"}
	src := "int n; public int get() { return n; } SC() {}"
	if err := New(strings.NewReader(src)).ParseClassBody(decl); err != nil {
		t.Fatal(err)
	}
	if len(decl.Members) != 3 {
		t.Errorf("got %d members", len(decl.Members))
	}
}

func TestParseBlockStatements(t *testing.T) {
	stmts, err := New(strings.NewReader("int a = 1; a++; return a;")).ParseBlockStatements()
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 3 {
		t.Errorf("got %d statements", len(stmts))
	}
}

func TestParseLocations(t *testing.T) {
	cu, err := ParseCompilationUnit(strings.NewReader("class A {\n  int f() {\n    return 1 + 2;\n  }\n}\n"), WithFile("A.java"))
	if err != nil {
		t.Fatal(err)
	}
	md := cu.Types[0].(*ast.ClassDeclaration).Members[0].(*ast.MethodDeclaration)
	ret := md.Body.Statements[0].(*ast.ReturnStatement)
	tests := []struct {
		node ast.Node
		want string
	}{
		{cu.Types[0], "A.java:1:1"},
		{md, "A.java:2:3"},
		{ret, "A.java:3:5"},
		{ret.Value, "A.java:3:14"},
	}
	for _, tt := range tests {
		if got := tt.node.Loc().String(); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.node.Kind(), got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		loc   string
	}{
		{"missing semicolon", "class A { int x }", "1:17"},
		{"unterminated class", "class A { int x;", "1:17"},
		{"not a statement", "class A { void f() { 1 + 2; } }", "1:22"},
		{"bad assignment target", "class A { void f() { 1 = 2; } }", "1:24"},
		{"missing return type", "class A { foo() {} }", "1:11"},
		{"repeated modifier", "public public class A {}", "1:8"},
		{"unexpected token", "class A { void f() { int = 3; } }", "1:26"},
		{"enum", "enum E { A }", "1:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCompilationUnit(strings.NewReader(tt.input))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("got %v, want *ParseError", err)
			}
			if got := pe.Loc.String(); got != tt.loc {
				t.Errorf("error at %s, want %s (%s)", got, tt.loc, pe.Message)
			}
		})
	}
}

func TestScanErrorPropagates(t *testing.T) {
	_, err := ParseCompilationUnit(strings.NewReader("class A { String s = \"open; }"))
	var se *ScanError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *ScanError", err)
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestReaderErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := ParseCompilationUnit(failingReader{boom})
	if err != boom {
		t.Fatalf("got %v, want the reader's error", err)
	}
	_, err = New(io.MultiReader(failingReader{boom})).ParseExpression()
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want the reader's error", err)
	}
}
