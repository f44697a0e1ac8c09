package unparse

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/parser"
)

var testdataDir = flag.String("testdata", filepath.Join("..", "..", "testdata"), "directory containing .java sample sources")

// here returns the caller's location, for hand-built trees.
func here() ast.Location {
	_, file, line, _ := runtime.Caller(1)
	return ast.Location{File: filepath.Base(file), Line: line, Column: 1}
}

func name(ids ...string) *ast.AmbiguousName {
	return &ast.AmbiguousName{Location: here(), Identifiers: ids}
}

func integer(v string) *ast.IntegerLiteral {
	return &ast.IntegerLiteral{Location: here(), Value: v}
}

func binary(l ast.Expr, op string, r ast.Expr) *ast.BinaryOperation {
	return &ast.BinaryOperation{Location: here(), Left: l, Op: op, Right: r}
}

func unary(op string, e ast.Expr) *ast.UnaryOperation {
	return &ast.UnaryOperation{Location: here(), Op: op, Operand: e}
}

func assign(l ast.Expr, r ast.Expr) *ast.Assignment {
	return &ast.Assignment{Location: here(), Left: l, Op: "=", Right: r}
}

func cond(c, a, b ast.Expr) *ast.ConditionalExpression {
	return &ast.ConditionalExpression{Location: here(), Cond: c, Then: a, Else: b}
}

func call(target ast.Expr, method string, args ...ast.Expr) *ast.ExpressionStatement {
	return ast.NewExpressionStatement(&ast.MethodInvocation{Location: here(), Target: target, Name: method, Arguments: args})
}

var (
	intType    = &ast.PrimitiveType{Primitive: ast.PrimInt}
	stringType = &ast.ReferenceType{Identifiers: []string{"String"}}
)

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestUnparseExpression_Trees(t *testing.T) {
	a, b, c, d, e := name("a"), name("b"), name("c"), name("d"), name("e")
	tests := []struct {
		name string
		expr ast.Expr
		want string
	}{
		{"nested right operand", binary(a, "-", binary(b, "-", c)), "a - (b - c)"},
		{"nested left operand", binary(b, "-", binary(a, "-", c)), "b - (a - c)"},
		{"flat left chain", binary(binary(a, "-", b), "-", c), "a - b - c"},
		{"lower left operand", binary(binary(integer("1"), "+", integer("2")), "*", integer("3")), "(1 + 2) * 3"},
		{"higher right operand", binary(a, "+", binary(b, "*", c)), "a + b * c"},
		{"assignment of grouped product", assign(name("x"), binary(integer("1"), "*", binary(integer("2"), "+", integer("3")))), "x = 1 * (2 + 3)"},
		{"chained assignment", assign(a, assign(b, c)), "a = b = c"},
		{"assignment as operand", binary(assign(a, b), "+", integer("1")), "(a = b) + 1"},
		{"conditional in condition", cond(cond(a, b, c), d, e), "(a ? b : c) ? d : e"},
		{"conditional in else", cond(a, b, cond(c, d, e)), "a ? b : c ? d : e"},
		{"double negation", unary("-", unary("-", a)), "- -a"},
		{"negated predecrement", unary("-", &ast.Crement{Op: "--", Operand: a}), "- --a"},
		{"plus of minus", unary("+", unary("-", a)), "+-a"},
		{"not of conjunction", unary("!", binary(a, "&&", b)), "!(a && b)"},
		{"not of instanceof", unary("!", &ast.Instanceof{Value: a, Type: stringType}), "!(a instanceof String)"},
		{"reference cast of negation", &ast.Cast{Type: stringType, Value: unary("-", a)}, "(String) (-a)"},
		{"primitive cast of negation", &ast.Cast{Type: intType, Value: unary("-", a)}, "(int) -a"},
		{"cast of sum", &ast.Cast{Type: intType, Value: binary(a, "+", b)}, "(int) (a + b)"},
		{"call on sum", &ast.MethodInvocation{Target: binary(a, "+", b), Name: "toString"}, "(a + b).toString()"},
		{"field of cast", &ast.FieldAccessExpression{Target: &ast.Cast{Type: stringType, Value: a}, Field: "length"}, "((String) a).length"},
		{"index into new array", &ast.ArrayAccess{Array: &ast.NewArray{Type: intType, Dimensions: []ast.Expr{integer("3")}}, Index: integer("0")}, "(new int[3])[0]"},
		{"postfix of field", &ast.Crement{Op: "++", Operand: &ast.FieldAccessExpression{Target: &ast.ThisReference{}, Field: "n"}, Postfix: true}, "this.n++"},
		{"empty initializer", &ast.NewInitializedArray{Type: ast.NewArrayType(intType), Initializer: &ast.ArrayInitializer{}}, "new int[] {}"},
		{"class literal", &ast.ClassLiteral{Type: ast.NewArrayType(intType)}, "int[].class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnparseExpression_Source(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a+b*c", "a + b * c"},
		{"(a+b)*c", "(a + b) * c"},
		{"a*(b/c)", "a * (b / c)"},
		{"a<<b>>c", "a << b >> c"},
		{"a?b:c?d:e", "a ? b : c ? d : e"},
		{"(a?b:c)?d:e", "(a ? b : c) ? d : e"},
		{"-(-x)", "- -x"},
		{"-(--x)", "- --x"},
		{"- x", "-x"},
		{"(int)-x", "(int) -x"},
		{"(String)(-x)", "(String) (-x)"},
		{"((String)o).length()", "((String) o).length()"},
		{"(new int[3])[0]", "(new int[3])[0]"},
		{"new int[3][]", "new int[3][]"},
		{"new int[]{1,2}", "new int[] { 1, 2 }"},
		{"a.b.c(d, e)", "a.b.c(d, e)"},
		{"x instanceof String == true", "x instanceof String == true"},
		{"i++ + ++i", "i++ + ++i"},
		{"a[i][j] = k += 2", "a[i][j] = k += 2"},
		{"String.class", "String.class"},
		{"new java.math.BigDecimal(s).scale()", "new java.math.BigDecimal(s).scale()"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := parser.ParseExpression(tt.input)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.input, err)
			}
			got := String(e)
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			again, err := parser.ParseExpression(got)
			if err != nil {
				t.Fatalf("reparse %q: %v", got, err)
			}
			if String(again) != got {
				t.Errorf("reparse rendered %q, want %q", String(again), got)
			}
		})
	}
}

func TestUnparse_PrecedenceStatement(t *testing.T) {
	product := binary(integer("1"), "*", binary(integer("2"), "+", integer("3")))
	s := ast.NewExpressionStatement(assign(name("x"), product))

	got := String(s)
	if got != "x = 1 * (2 + 3);\n" {
		t.Fatalf("got %q", got)
	}

	reparsed, err := parser.ParseStatement(got)
	if err != nil {
		t.Fatal(err)
	}
	rhs := reparsed.(*ast.ExpressionStatement).Expr.(*ast.Assignment).Right.(*ast.BinaryOperation)
	if rhs.Op != "*" {
		t.Fatalf("root operator %q, want *", rhs.Op)
	}
	if sum, ok := rhs.Right.(*ast.BinaryOperation); !ok || sum.Op != "+" {
		t.Errorf("right operand %T, want the sum", rhs.Right)
	}
}

func TestUnparseStatement(t *testing.T) {
	a, b := name("a"), name("b")
	local := &ast.LocalVariableDeclarationStatement{
		Type:      intType,
		Variables: []*ast.VariableDeclarator{{Name: "y", Initializer: integer("1")}},
	}
	tests := []struct {
		name string
		stmt ast.Stmt
		want string
	}{
		{
			name: "dangling else",
			stmt: &ast.IfStatement{Cond: a, Then: &ast.IfStatement{Cond: b, Then: call(nil, "x")}, Else: call(nil, "y")},
			want: "if (a) {\n    if (b)\n        x();\n} else\n    y();\n",
		},
		{
			name: "else if chain",
			stmt: &ast.IfStatement{Cond: a, Then: &ast.Block{}, Else: &ast.IfStatement{Cond: b, Then: &ast.ReturnStatement{}}},
			want: "if (a) {\n} else if (b)\n    return;\n",
		},
		{
			name: "declaration as branch",
			stmt: &ast.IfStatement{Cond: a, Then: local},
			want: "if (a) {\n    int y = 1;\n}\n",
		},
		{
			name: "do without block",
			stmt: &ast.DoStatement{Body: ast.NewExpressionStatement(&ast.Crement{Op: "++", Operand: a, Postfix: true}), Cond: b},
			want: "do\n    a++;\nwhile (b);\n",
		},
		{
			name: "do with block",
			stmt: &ast.DoStatement{Body: &ast.Block{Statements: []ast.Stmt{&ast.BreakStatement{}}}, Cond: b},
			want: "do {\n    break;\n} while (b);\n",
		},
		{
			name: "labeled loop",
			stmt: &ast.LabeledStatement{Label: "outer", Body: &ast.WhileStatement{
				Cond: &ast.BooleanLiteral{Value: true},
				Body: &ast.Block{Statements: []ast.Stmt{&ast.ContinueStatement{Label: "outer"}}},
			}},
			want: "outer:\n    while (true) {\n        continue outer;\n    }\n",
		},
		{
			name: "empty for",
			stmt: &ast.ForStatement{Body: &ast.EmptyStatement{}},
			want: "for (;;)\n    ;\n",
		},
		{
			name: "switch",
			stmt: &ast.SwitchStatement{Selector: a, Cases: []*ast.SwitchCase{
				{Labels: []ast.Expr{integer("1"), integer("2")}, Body: []ast.Stmt{&ast.BreakStatement{}}},
				{Default: true, Body: []ast.Stmt{&ast.ReturnStatement{Value: b}}},
			}},
			want: "switch (a) {\ncase 1:\ncase 2:\n    break;\ndefault:\n    return b;\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := String(tt.stmt)
			if got != tt.want {
				t.Fatalf("got:\n%s\nwant:\n%s", got, tt.want)
			}
			if _, err := parser.ParseStatement(got); err != nil {
				t.Errorf("rendered text does not parse: %v", err)
			}
		})
	}
}

func TestUnparse_UnknownNode(t *testing.T) {
	var sb strings.Builder
	if err := New(&sb).Unparse(nil); err == nil {
		t.Fatal("expected an error for a nil node")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestUnparse_WriteError(t *testing.T) {
	err := New(failingWriter{}).UnparseStmt(&ast.EmptyStatement{})
	if err != os.ErrClosed {
		t.Fatalf("got %v, want %v", err, os.ErrClosed)
	}
}

// A method body rewritten so that every return becomes a break out of a
// labeled block renders the same as the hand-written equivalent.
func TestMethodToLabeledStatement(t *testing.T) {
	text1 := "" +
		"public void eval() {\n" +
		"    if (in.isSet == 0 || in.end == in.start) {\n" +
		"        out.isSet = 0;\n" +
		"        return;\n" +
		"    }\n" +
		"    out.isSet = 1;\n" +
		"    out.start = 0;\n" +
		"    out.scale = scale.value;\n" +
		"    out.precision = precision.value;\n" +
		"\n" +
		"    byte[] buf = new byte[in.end - in.start];\n" +
		"\n" +
		"    in.buffer.getBytes(in.start, buf, 0, in.end - in.start);\n" +
		"\n" +
		"    String s = new String(buf, com.google.common.base.Charsets.UTF_8);\n" +
		"    java.math.BigDecimal bd = new java.math.BigDecimal(s);\n" +
		"\n" +
		"    org.apache.drill.exec.util.DecimalUtility.checkValueOverflow(bd, precision.value, scale.value);\n" +
		"    bd = bd.setScale(scale.value, java.math.RoundingMode.HALF_UP);\n" +
		"\n" +
		"    byte[] bytes = bd.unscaledValue().toByteArray();\n" +
		"    int len = bytes.length;\n" +
		"\n" +
		"    out.buffer = buffer.reallocIfNeeded(len);\n" +
		"    out.buffer.setBytes(out.start, bytes);\n" +
		"    out.end = out.start + len;\n" +
		"}"

	text2 := "" +
		"CastEmptyStringNullableVarCharToNullableVarDecimal_eval: {\n" +
		"    if (in.isSet == 0 || in.end == in.start) {\n" +
		"        out.isSet = 0;\n" +
		"        break CastEmptyStringNullableVarCharToNullableVarDecimal_eval;\n" +
		"    }\n" +
		"    out.isSet = 1;\n" +
		"    out.start = 0;\n" +
		"    out.scale = scale.value;\n" +
		"    out.precision = precision.value;\n" +
		"\n" +
		"    byte[] buf = new byte[in.end - in.start];\n" +
		"\n" +
		"    in.buffer.getBytes(in.start, buf, 0, in.end - in.start);\n" +
		"\n" +
		"    String s = new String(buf, com.google.common.base.Charsets.UTF_8);\n" +
		"    java.math.BigDecimal bd = new java.math.BigDecimal(s);\n" +
		"\n" +
		"    org.apache.drill.exec.util.DecimalUtility.checkValueOverflow(bd, precision.value, scale.value);\n" +
		"    bd = bd.setScale(scale.value, java.math.RoundingMode.HALF_UP);\n" +
		"\n" +
		"    byte[] bytes = bd.unscaledValue().toByteArray();\n" +
		"    int len = bytes.length;\n" +
		"\n" +
		"    out.buffer = buffer.reallocIfNeeded(len);\n" +
		"    out.buffer.setBytes(out.start, bytes);\n" +
		"    out.end = out.start + len;\n" +
		"}"

	md, err := parser.New(strings.NewReader(text1)).ParseMethodDeclaration()
	if err != nil {
		t.Fatal(err)
	}

	label := "CastEmptyStringNullableVarCharToNullableVarDecimal_" + md.Name
	c := &ast.DeepCopier{}
	c.Override(ast.KindReturnStatement, func(c *ast.DeepCopier, n ast.Node) ast.Node {
		return &ast.BreakStatement{Location: n.Loc(), Label: label}
	})
	b := &ast.Block{Location: md.Loc()}
	b.AddStatements(c.CopyStmts(md.Body.Statements))
	ls := &ast.LabeledStatement{Location: md.Loc(), Label: label, Body: b}

	var sb strings.Builder
	if err := New(&sb).UnparseStmt(ls); err != nil {
		t.Fatal(err)
	}
	if got, want := normalizeWhitespace(sb.String()), normalizeWhitespace(text2); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(String(md), "break") {
		t.Error("rewriting the copy changed the original method")
	}
}

func testdataFiles(t *testing.T) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(*testdataDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".java") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", *testdataDir, err)
	}
	if len(files) == 0 {
		t.Skipf("no .java files found in %s", *testdataDir)
	}
	return files
}

func parseFile(t *testing.T, path string) *ast.CompilationUnit {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cu, err := parser.ParseCompilationUnit(f, parser.WithFile(path))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return cu
}

// Rendering a parsed file and parsing the result again reaches a fixed
// point after one step.
func TestRoundTrip_Testdata(t *testing.T) {
	for _, path := range testdataFiles(t) {
		t.Run(filepath.Base(path), func(t *testing.T) {
			cu := parseFile(t, path)
			first := String(cu)
			again, err := parser.ParseCompilationUnit(strings.NewReader(first))
			if err != nil {
				t.Fatalf("reparse: %v\n%s", err, first)
			}
			if second := String(again); second != first {
				t.Errorf("second rendering differs:\n%s\nfirst:\n%s", second, first)
			}
		})
	}
}

// Every subtree of every sample renders identically to its copy.
func TestCopyIdentity_Testdata(t *testing.T) {
	for _, path := range testdataFiles(t) {
		t.Run(filepath.Base(path), func(t *testing.T) {
			cu := parseFile(t, path)
			c := &ast.DeepCopier{}
			count := 0
			ast.Inspect(cu, func(n ast.Node) bool {
				cp := c.Copy(n)
				if !reflect.DeepEqual(cp, n) {
					t.Errorf("%s: copy of %s differs structurally", n.Loc(), n.Kind())
				}
				if got, want := String(cp), String(n); got != want {
					t.Errorf("%s: copy of %s renders as\n%s\nwant\n%s", n.Loc(), n.Kind(), got, want)
				}
				count++
				return true
			})
			if count < 10 {
				t.Errorf("visited only %d nodes", count)
			}
		})
	}
}
