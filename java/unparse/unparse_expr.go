package unparse

import (
	"fmt"

	"github.com/dhamidi/jcook/java/ast"
)

func (u *Unparser) expr(e ast.Expr) {
	u.writeIndent()
	switch e := e.(type) {
	case *ast.IntegerLiteral:
		u.write(e.Value)
	case *ast.FloatingPointLiteral:
		u.write(e.Value)
	case *ast.BooleanLiteral:
		if e.Value {
			u.write("true")
		} else {
			u.write("false")
		}
	case *ast.CharacterLiteral:
		u.write(e.Value)
	case *ast.StringLiteral:
		u.write(e.Value)
	case *ast.NullLiteral:
		u.write("null")
	case *ast.AmbiguousName:
		u.write(e.String())
	case *ast.ThisReference:
		u.write("this")
	case *ast.FieldAccessExpression:
		u.target(e.Target)
		u.write("." + e.Field)
	case *ast.ArrayAccess:
		switch e.Array.(type) {
		case *ast.NewArray, *ast.NewInitializedArray:
			u.parenthesized(e.Array)
		default:
			u.operand(e.Array, ast.PrecPrimary)
		}
		u.write("[")
		u.expr(e.Index)
		u.write("]")
	case *ast.MethodInvocation:
		if e.Target != nil {
			u.target(e.Target)
			u.write(".")
		}
		u.write(e.Name)
		u.arguments(e.Arguments)
	case *ast.NewClassInstance:
		u.write("new ")
		u.typ(e.Type)
		u.arguments(e.Arguments)
	case *ast.NewArray:
		u.write("new ")
		u.typ(e.Type)
		for _, d := range e.Dimensions {
			u.write("[")
			u.expr(d)
			u.write("]")
		}
		for i := 0; i < e.ExtraDims; i++ {
			u.write("[]")
		}
	case *ast.NewInitializedArray:
		u.write("new ")
		u.typ(e.Type)
		u.write(" ")
		u.expr(e.Initializer)
	case *ast.ArrayInitializer:
		if len(e.Values) == 0 {
			u.write("{}")
			return
		}
		u.write("{ ")
		u.expressions(e.Values)
		u.write(" }")
	case *ast.ClassLiteral:
		u.typ(e.Type)
		u.write(".class")
	case *ast.BinaryOperation:
		prec := ast.Precedence(e)
		u.operand(e.Left, prec)
		u.write(" " + e.Op + " ")
		u.operand(e.Right, prec+1)
	case *ast.Instanceof:
		u.operand(e.Value, ast.PrecRelational)
		u.write(" instanceof ")
		u.typ(e.Type)
	case *ast.Assignment:
		u.operand(e.Left, ast.PrecPostfix)
		u.write(" " + e.Op + " ")
		u.operand(e.Right, ast.PrecAssignment)
	case *ast.ConditionalExpression:
		u.operand(e.Cond, ast.PrecConditionalOr)
		u.write(" ? ")
		u.operand(e.Then, ast.PrecAssignment)
		u.write(" : ")
		u.operand(e.Else, ast.PrecConditional)
	case *ast.UnaryOperation:
		u.write(e.Op)
		if clashes(e.Op, e.Operand) {
			u.write(" ")
		}
		u.operand(e.Operand, ast.PrecUnary)
	case *ast.Crement:
		if e.Postfix {
			u.operand(e.Operand, ast.PrecPostfix)
			u.write(e.Op)
			return
		}
		u.write(e.Op)
		if clashes(e.Op, e.Operand) {
			u.write(" ")
		}
		u.operand(e.Operand, ast.PrecPostfix)
	case *ast.Cast:
		u.write("(")
		u.typ(e.Type)
		u.write(") ")
		// `(T) -x` reads as a subtraction unless T is primitive.
		if _, prim := e.Type.(*ast.PrimitiveType); !prim && leadingSign(e.Value) != 0 {
			u.parenthesized(e.Value)
			return
		}
		u.operand(e.Value, ast.PrecUnary)
	default:
		u.err = fmt.Errorf("unparse: cannot render expression %T", e)
	}
}

// operand writes e, wrapped in parentheses when it binds more loosely than
// minPrec.
func (u *Unparser) operand(e ast.Expr, minPrec int) {
	if ast.Precedence(e) < minPrec {
		u.parenthesized(e)
		return
	}
	u.expr(e)
}

func (u *Unparser) parenthesized(e ast.Expr) {
	u.write("(")
	u.expr(e)
	u.write(")")
}

// target writes the expression left of a `.` selector.
func (u *Unparser) target(e ast.Expr) {
	switch e.(type) {
	case *ast.NewArray:
		u.parenthesized(e)
	default:
		u.operand(e, ast.PrecPrimary)
	}
}

func (u *Unparser) arguments(args []ast.Expr) {
	u.write("(")
	u.expressions(args)
	u.write(")")
}

func (u *Unparser) expressions(es []ast.Expr) {
	for i, e := range es {
		if i > 0 {
			u.write(", ")
		}
		u.expr(e)
	}
}

// clashes reports whether writing operand right after the prefix op would
// fuse two sign characters into a different token, as in `- -x` or `+ ++x`.
func clashes(op string, operand ast.Expr) bool {
	if op != "+" && op != "-" && op != "++" && op != "--" {
		return false
	}
	if ast.Precedence(operand) < ast.PrecUnary {
		return false
	}
	return leadingSign(operand) == op[0]
}

// leadingSign returns the first character of e's rendering when it is `+` or
// `-`, and 0 otherwise.
func leadingSign(e ast.Expr) byte {
	var text string
	switch e := e.(type) {
	case *ast.UnaryOperation:
		text = e.Op
	case *ast.Crement:
		if e.Postfix {
			return leadingSign(e.Operand)
		}
		text = e.Op
	case *ast.IntegerLiteral:
		text = e.Value
	case *ast.FloatingPointLiteral:
		text = e.Value
	}
	if text != "" && (text[0] == '+' || text[0] == '-') {
		return text[0]
	}
	return 0
}
