package unparse

import (
	"fmt"

	"github.com/dhamidi/jcook/java/ast"
)

func (u *Unparser) stmt(s ast.Stmt) {
	u.writeIndent()
	switch s := s.(type) {
	case *ast.Block:
		u.block(s)
		u.newline()
	case *ast.LocalVariableDeclarationStatement:
		u.localVariableDeclaration(s)
		u.write(";")
		u.newline()
	case *ast.ExpressionStatement:
		u.expr(s.Expr)
		u.write(";")
		u.newline()
	case *ast.ReturnStatement:
		u.write("return")
		if s.Value != nil {
			u.write(" ")
			u.expr(s.Value)
		}
		u.write(";")
		u.newline()
	case *ast.BreakStatement:
		u.jump("break", s.Label)
	case *ast.ContinueStatement:
		u.jump("continue", s.Label)
	case *ast.ThrowStatement:
		u.write("throw ")
		u.expr(s.Value)
		u.write(";")
		u.newline()
	case *ast.EmptyStatement:
		u.write(";")
		u.newline()
	case *ast.LabeledStatement:
		u.write(s.Label + ":")
		if u.nested(s.Body, false) {
			u.newline()
		}
	case *ast.IfStatement:
		u.ifStatement(s)
	case *ast.WhileStatement:
		u.write("while (")
		u.expr(s.Cond)
		u.write(")")
		if u.nested(s.Body, false) {
			u.newline()
		}
	case *ast.DoStatement:
		u.write("do")
		if u.nested(s.Body, false) {
			u.write(" ")
		} else {
			u.writeIndent()
		}
		u.write("while (")
		u.expr(s.Cond)
		u.write(");")
		u.newline()
	case *ast.ForStatement:
		u.forStatement(s)
	case *ast.ForEachStatement:
		u.write("for (")
		u.formalParameter(s.Variable)
		u.write(" : ")
		u.expr(s.Iterable)
		u.write(")")
		if u.nested(s.Body, false) {
			u.newline()
		}
	case *ast.SwitchStatement:
		u.write("switch (")
		u.expr(s.Selector)
		u.write(") {")
		u.newline()
		for _, c := range s.Cases {
			u.switchCase(c)
		}
		u.writeIndent()
		u.write("}")
		u.newline()
	default:
		u.err = fmt.Errorf("unparse: cannot render statement %T", s)
	}
}

func (u *Unparser) jump(keyword, label string) {
	u.write(keyword)
	if label != "" {
		u.write(" " + label)
	}
	u.write(";")
	u.newline()
}

// block writes a braced statement list and leaves the cursor after the
// closing brace.
func (u *Unparser) block(b *ast.Block) {
	u.writeIndent()
	u.write("{")
	u.newline()
	u.indent++
	for _, s := range b.Statements {
		u.stmt(s)
	}
	u.indent--
	u.writeIndent()
	u.write("}")
}

// nested writes the body of a compound statement after its header. It
// reports whether the body ended in a closing brace on the current line; if
// not, the cursor is at the start of a fresh line.
func (u *Unparser) nested(s ast.Stmt, braces bool) bool {
	if _, ok := s.(*ast.LocalVariableDeclarationStatement); ok {
		braces = true
	}
	if b, ok := s.(*ast.Block); ok {
		u.write(" ")
		u.block(b)
		return true
	}
	if braces {
		u.write(" ")
		u.block(&ast.Block{Location: s.Loc(), Statements: []ast.Stmt{s}})
		return true
	}
	u.newline()
	u.indent++
	u.stmt(s)
	u.indent--
	return false
}

func (u *Unparser) ifStatement(s *ast.IfStatement) {
	u.write("if (")
	u.expr(s.Cond)
	u.write(")")
	braced := u.nested(s.Then, s.Else != nil && opensDanglingIf(s.Then))
	if s.Else == nil {
		if braced {
			u.newline()
		}
		return
	}
	if braced {
		u.write(" ")
	} else {
		u.writeIndent()
	}
	u.write("else")
	if elseIf, ok := s.Else.(*ast.IfStatement); ok {
		u.write(" ")
		u.ifStatement(elseIf)
		return
	}
	if u.nested(s.Else, false) {
		u.newline()
	}
}

// opensDanglingIf reports whether an `else` written after s would attach to
// an if statement inside s.
func opensDanglingIf(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.IfStatement:
		if s.Else == nil {
			return true
		}
		return opensDanglingIf(s.Else)
	case *ast.WhileStatement:
		return opensDanglingIf(s.Body)
	case *ast.ForStatement:
		return opensDanglingIf(s.Body)
	case *ast.ForEachStatement:
		return opensDanglingIf(s.Body)
	case *ast.LabeledStatement:
		return opensDanglingIf(s.Body)
	}
	return false
}

func (u *Unparser) forStatement(s *ast.ForStatement) {
	u.write("for (")
	for i, init := range s.Init {
		if i > 0 {
			u.write(", ")
		}
		switch init := init.(type) {
		case *ast.LocalVariableDeclarationStatement:
			u.localVariableDeclaration(init)
		case *ast.ExpressionStatement:
			u.expr(init.Expr)
		default:
			u.err = fmt.Errorf("unparse: cannot render %T in for initializer", init)
		}
	}
	u.write(";")
	if s.Cond != nil {
		u.write(" ")
		u.expr(s.Cond)
	}
	u.write(";")
	if len(s.Update) > 0 {
		u.write(" ")
		u.expressions(s.Update)
	}
	u.write(")")
	if u.nested(s.Body, false) {
		u.newline()
	}
}

func (u *Unparser) localVariableDeclaration(s *ast.LocalVariableDeclarationStatement) {
	u.modifiers(s.Modifiers)
	u.typ(s.Type)
	u.write(" ")
	u.variableDeclarators(s.Variables)
}

func (u *Unparser) switchCase(c *ast.SwitchCase) {
	for _, l := range c.Labels {
		u.writeIndent()
		u.write("case ")
		u.expr(l)
		u.write(":")
		u.newline()
	}
	if c.Default {
		u.writeIndent()
		u.write("default:")
		u.newline()
	}
	u.indent++
	for _, s := range c.Body {
		u.stmt(s)
	}
	u.indent--
}
