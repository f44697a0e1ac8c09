// Package unparse renders syntax trees back to Java source text.
//
// Output uses four-space indentation and K&R braces. Expressions carry just
// enough parentheses to reproduce the tree when the text is parsed again.
package unparse

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/jcook/java/ast"
)

type Unparser struct {
	w           io.Writer
	err         error
	indent      int
	indentStr   string
	atLineStart bool
}

func New(w io.Writer) *Unparser {
	return &Unparser{
		w:           w,
		indentStr:   "    ",
		atLineStart: true,
	}
}

// String renders n, ignoring write errors, which a strings.Builder never
// produces.
func String(n ast.Node) string {
	var sb strings.Builder
	New(&sb).Unparse(n)
	return sb.String()
}

// Unparse renders any node. Statements and declarations end with a newline;
// expressions and types do not.
func (u *Unparser) Unparse(n ast.Node) error {
	switch n := n.(type) {
	case *ast.CompilationUnit:
		u.compilationUnit(n)
	case *ast.PackageDeclaration:
		u.packageDecl(n)
	case *ast.ImportDeclaration:
		u.importDecl(n)
	case ast.TypeDeclaration:
		u.typeDecl(n)
	case ast.Member:
		u.member(n)
	case ast.Stmt:
		u.stmt(n)
	case ast.Expr:
		u.expr(n)
	case ast.Type:
		u.typ(n)
	case *ast.Modifiers:
		u.modifiers(n)
	case *ast.Annotation:
		u.annotation(n)
	case *ast.VariableDeclarator:
		u.variableDeclarator(n)
	case *ast.FormalParameter:
		u.formalParameter(n)
	case *ast.ConstructorInvocation:
		u.writeIndent()
		u.constructorInvocation(n)
		u.newline()
	case *ast.SwitchCase:
		u.switchCase(n)
	default:
		return fmt.Errorf("unparse: cannot render %T", n)
	}
	return u.err
}

func (u *Unparser) UnparseCompilationUnit(cu *ast.CompilationUnit) error {
	u.compilationUnit(cu)
	return u.err
}

func (u *Unparser) UnparseTypeDeclaration(td ast.TypeDeclaration) error {
	u.typeDecl(td)
	return u.err
}

func (u *Unparser) UnparseStmt(s ast.Stmt) error {
	u.stmt(s)
	return u.err
}

func (u *Unparser) UnparseExpr(e ast.Expr) error {
	u.expr(e)
	return u.err
}

func (u *Unparser) UnparseType(t ast.Type) error {
	u.typ(t)
	return u.err
}

func (u *Unparser) writeIndent() {
	if !u.atLineStart {
		return
	}
	for i := 0; i < u.indent; i++ {
		u.write(u.indentStr)
	}
	u.atLineStart = false
}

func (u *Unparser) write(s string) {
	if u.err != nil {
		return
	}
	_, u.err = io.WriteString(u.w, s)
}

func (u *Unparser) newline() {
	u.write("\n")
	u.atLineStart = true
}

func (u *Unparser) compilationUnit(cu *ast.CompilationUnit) {
	if cu.Package != nil {
		u.packageDecl(cu.Package)
		u.newline()
	}
	for _, imp := range cu.Imports {
		u.importDecl(imp)
	}
	if len(cu.Imports) > 0 {
		u.newline()
	}
	for i, td := range cu.Types {
		if i > 0 {
			u.newline()
		}
		u.typeDecl(td)
	}
}

func (u *Unparser) packageDecl(pd *ast.PackageDeclaration) {
	u.writeIndent()
	u.write("package " + pd.Name + ";")
	u.newline()
}

func (u *Unparser) importDecl(imp *ast.ImportDeclaration) {
	u.writeIndent()
	u.write("import ")
	if imp.Static {
		u.write("static ")
	}
	u.write(strings.Join(imp.Identifiers, "."))
	if imp.OnDemand {
		u.write(".*")
	}
	u.write(";")
	u.newline()
}

func (u *Unparser) modifiers(m *ast.Modifiers) {
	if m == nil {
		return
	}
	u.writeIndent()
	for _, a := range m.Annotations {
		u.annotation(a)
		u.write(" ")
	}
	for _, kw := range m.Flags.Keywords() {
		u.write(kw + " ")
	}
}

func (u *Unparser) annotation(a *ast.Annotation) {
	u.writeIndent()
	u.write("@")
	u.typ(a.Type)
	if a.Value != nil {
		u.write("(")
		u.expr(a.Value)
		u.write(")")
	}
}

func (u *Unparser) typeDecl(td ast.TypeDeclaration) {
	switch td := td.(type) {
	case *ast.ClassDeclaration:
		u.writeIndent()
		u.modifiers(td.Modifiers)
		u.write("class " + td.Name)
		if td.Extends != nil {
			u.write(" extends ")
			u.typ(td.Extends)
		}
		if len(td.Implements) > 0 {
			u.write(" implements ")
			u.referenceTypes(td.Implements)
		}
		u.classBody(td.Members)
	case *ast.InterfaceDeclaration:
		u.writeIndent()
		u.modifiers(td.Modifiers)
		u.write("interface " + td.Name)
		if len(td.Extends) > 0 {
			u.write(" extends ")
			u.referenceTypes(td.Extends)
		}
		u.classBody(td.Members)
	default:
		u.err = fmt.Errorf("unparse: cannot render %T", td)
	}
}

func (u *Unparser) referenceTypes(ts []*ast.ReferenceType) {
	for i, t := range ts {
		if i > 0 {
			u.write(", ")
		}
		u.typ(t)
	}
}

// classBody separates members with a blank line, except between
// consecutive fields.
func (u *Unparser) classBody(members []ast.Member) {
	u.write(" {")
	u.newline()
	u.indent++
	for i, m := range members {
		if i > 0 {
			_, prevField := members[i-1].(*ast.FieldDeclaration)
			_, field := m.(*ast.FieldDeclaration)
			if !prevField || !field {
				u.newline()
			}
		}
		u.member(m)
	}
	u.indent--
	u.writeIndent()
	u.write("}")
	u.newline()
}

func (u *Unparser) member(m ast.Member) {
	u.writeIndent()
	switch m := m.(type) {
	case *ast.FieldDeclaration:
		u.modifiers(m.Modifiers)
		u.typ(m.Type)
		u.write(" ")
		u.variableDeclarators(m.Variables)
		u.write(";")
		u.newline()
	case *ast.MethodDeclaration:
		u.modifiers(m.Modifiers)
		u.typ(m.ReturnType)
		u.write(" " + m.Name)
		u.formalParameters(m.Parameters)
		u.thrown(m.Thrown)
		if m.Body == nil {
			u.write(";")
			u.newline()
			return
		}
		u.write(" ")
		u.block(m.Body)
		u.newline()
	case *ast.ConstructorDeclaration:
		u.modifiers(m.Modifiers)
		u.write(m.Name)
		u.formalParameters(m.Parameters)
		u.thrown(m.Thrown)
		u.write(" {")
		u.newline()
		u.indent++
		if m.Invocation != nil {
			u.writeIndent()
			u.constructorInvocation(m.Invocation)
			u.newline()
		}
		if m.Body != nil {
			for _, s := range m.Body.Statements {
				u.stmt(s)
			}
		}
		u.indent--
		u.writeIndent()
		u.write("}")
		u.newline()
	case *ast.Initializer:
		if m.Static {
			u.write("static ")
		}
		u.block(m.Body)
		u.newline()
	default:
		u.err = fmt.Errorf("unparse: cannot render %T", m)
	}
}

func (u *Unparser) constructorInvocation(ci *ast.ConstructorInvocation) {
	if ci.Super {
		u.write("super")
	} else {
		u.write("this")
	}
	u.arguments(ci.Arguments)
	u.write(";")
}

func (u *Unparser) thrown(ts []*ast.ReferenceType) {
	if len(ts) > 0 {
		u.write(" throws ")
		u.referenceTypes(ts)
	}
}

func (u *Unparser) formalParameters(params []*ast.FormalParameter) {
	u.write("(")
	for i, p := range params {
		if i > 0 {
			u.write(", ")
		}
		u.formalParameter(p)
	}
	u.write(")")
}

func (u *Unparser) formalParameter(p *ast.FormalParameter) {
	u.writeIndent()
	if p.Final {
		u.write("final ")
	}
	u.typ(p.Type)
	if p.VarArgs {
		u.write("...")
	}
	u.write(" " + p.Name)
}

func (u *Unparser) variableDeclarators(vars []*ast.VariableDeclarator) {
	for i, v := range vars {
		if i > 0 {
			u.write(", ")
		}
		u.variableDeclarator(v)
	}
}

func (u *Unparser) variableDeclarator(v *ast.VariableDeclarator) {
	u.writeIndent()
	u.write(v.Name)
	for i := 0; i < v.Brackets; i++ {
		u.write("[]")
	}
	if v.Initializer != nil {
		u.write(" = ")
		u.expr(v.Initializer)
	}
}

func (u *Unparser) typ(t ast.Type) {
	u.writeIndent()
	switch t := t.(type) {
	case *ast.PrimitiveType:
		u.write(t.Primitive.String())
	case *ast.ArrayType:
		u.typ(t.Component)
		u.write("[]")
	case *ast.ReferenceType:
		u.write(t.Name())
		if len(t.TypeArguments) > 0 {
			u.write("<")
			for i, a := range t.TypeArguments {
				if i > 0 {
					u.write(", ")
				}
				u.typ(a)
			}
			u.write(">")
		}
	case *ast.Wildcard:
		u.write("?")
		if t.Bound != nil {
			if t.Super {
				u.write(" super ")
			} else {
				u.write(" extends ")
			}
			u.typ(t.Bound)
		}
	default:
		u.err = fmt.Errorf("unparse: cannot render type %T", t)
	}
}
