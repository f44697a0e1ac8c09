package ast

import "fmt"

// Visitor is called by Walk for every node. If Visit returns a nil visitor,
// the children of the node are skipped.
type Visitor interface {
	Visit(n Node) Visitor
}

// Walk traverses the tree rooted at n in depth-first order.
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}
	for _, c := range Children(n) {
		Walk(v, c)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Inspect calls f for every node of the tree; a false return prunes the
// subtree.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// Children returns the direct children of n in source order. Nil optional
// children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil && !isNilNode(c) {
			out = append(out, c)
		}
	}
	addExprs := func(es []Expr) {
		for _, e := range es {
			add(e)
		}
	}
	addStmts := func(ss []Stmt) {
		for _, s := range ss {
			add(s)
		}
	}
	addRefs := func(ts []*ReferenceType) {
		for _, t := range ts {
			add(t)
		}
	}
	addVars := func(vs []*VariableDeclarator) {
		for _, v := range vs {
			add(v)
		}
	}
	addParams := func(ps []*FormalParameter) {
		for _, p := range ps {
			add(p)
		}
	}

	switch n := n.(type) {
	case *CompilationUnit:
		add(n.Package)
		for _, imp := range n.Imports {
			add(imp)
		}
		for _, td := range n.Types {
			add(td)
		}
	case *PackageDeclaration, *ImportDeclaration:
	case *ClassDeclaration:
		add(n.Modifiers)
		add(n.Extends)
		addRefs(n.Implements)
		for _, m := range n.Members {
			add(m)
		}
	case *InterfaceDeclaration:
		add(n.Modifiers)
		addRefs(n.Extends)
		for _, m := range n.Members {
			add(m)
		}
	case *FieldDeclaration:
		add(n.Modifiers)
		add(n.Type)
		addVars(n.Variables)
	case *MethodDeclaration:
		add(n.Modifiers)
		add(n.ReturnType)
		addParams(n.Parameters)
		addRefs(n.Thrown)
		add(n.Body)
	case *ConstructorDeclaration:
		add(n.Modifiers)
		addParams(n.Parameters)
		addRefs(n.Thrown)
		add(n.Invocation)
		add(n.Body)
	case *ConstructorInvocation:
		addExprs(n.Arguments)
	case *Initializer:
		add(n.Body)
	case *FormalParameter:
		add(n.Type)
	case *VariableDeclarator:
		add(n.Initializer)
	case *Modifiers:
		for _, a := range n.Annotations {
			add(a)
		}
	case *Annotation:
		add(n.Type)
		add(n.Value)

	case *PrimitiveType:
	case *ArrayType:
		add(n.Component)
	case *ReferenceType:
		for _, t := range n.TypeArguments {
			add(t)
		}
	case *Wildcard:
		add(n.Bound)

	case *Block:
		addStmts(n.Statements)
	case *LocalVariableDeclarationStatement:
		add(n.Modifiers)
		add(n.Type)
		addVars(n.Variables)
	case *ExpressionStatement:
		add(n.Expr)
	case *ReturnStatement:
		add(n.Value)
	case *LabeledStatement:
		add(n.Body)
	case *BreakStatement, *ContinueStatement, *EmptyStatement:
	case *IfStatement:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *WhileStatement:
		add(n.Cond)
		add(n.Body)
	case *DoStatement:
		add(n.Body)
		add(n.Cond)
	case *ForStatement:
		addStmts(n.Init)
		add(n.Cond)
		addExprs(n.Update)
		add(n.Body)
	case *ForEachStatement:
		add(n.Variable)
		add(n.Iterable)
		add(n.Body)
	case *SwitchStatement:
		add(n.Selector)
		for _, c := range n.Cases {
			add(c)
		}
	case *SwitchCase:
		addExprs(n.Labels)
		addStmts(n.Body)
	case *ThrowStatement:
		add(n.Value)

	case *IntegerLiteral, *FloatingPointLiteral, *BooleanLiteral,
		*CharacterLiteral, *StringLiteral, *NullLiteral,
		*AmbiguousName, *ThisReference:
	case *FieldAccessExpression:
		add(n.Target)
	case *ArrayAccess:
		add(n.Array)
		add(n.Index)
	case *MethodInvocation:
		add(n.Target)
		addExprs(n.Arguments)
	case *NewClassInstance:
		add(n.Type)
		addExprs(n.Arguments)
	case *NewArray:
		add(n.Type)
		addExprs(n.Dimensions)
	case *NewInitializedArray:
		add(n.Type)
		add(n.Initializer)
	case *ArrayInitializer:
		addExprs(n.Values)
	case *ClassLiteral:
		add(n.Type)
	case *BinaryOperation:
		add(n.Left)
		add(n.Right)
	case *UnaryOperation:
		add(n.Operand)
	case *Crement:
		add(n.Operand)
	case *Assignment:
		add(n.Left)
		add(n.Right)
	case *ConditionalExpression:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *Cast:
		add(n.Type)
		add(n.Value)
	case *Instanceof:
		add(n.Value)
		add(n.Type)
	default:
		panic(fmt.Sprintf("ast.Children: unexpected node %T", n))
	}
	return out
}

// isNilNode catches typed nil pointers stored in interface fields.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *PackageDeclaration:
		return n == nil
	case *Modifiers:
		return n == nil
	case *ReferenceType:
		return n == nil
	case *Block:
		return n == nil
	case *ConstructorInvocation:
		return n == nil
	case *ArrayType:
		return n == nil
	case *ArrayInitializer:
		return n == nil
	case *FormalParameter:
		return n == nil
	}
	return false
}
