package ast

import "fmt"

// CopyFunc replaces the default copy of one node kind. It receives the
// copier so that it can copy children, or fall back to Default.
type CopyFunc func(c *DeepCopier, n Node) Node

// DeepCopier produces structurally identical, fully independent copies of
// syntax trees. Behaviour for selected node kinds can be replaced with
// Override, which turns the copier into a tree rewriter:
//
//	c := &ast.DeepCopier{}
//	c.Override(ast.KindReturnStatement, func(c *ast.DeepCopier, n ast.Node) ast.Node {
//		return &ast.BreakStatement{Location: n.Loc(), Label: "done"}
//	})
//	body := c.CopyStmts(method.Body.Statements)
//
// The zero value copies every node verbatim.
type DeepCopier struct {
	overrides map[Kind]CopyFunc
}

func (c *DeepCopier) Override(k Kind, f CopyFunc) *DeepCopier {
	if c.overrides == nil {
		c.overrides = make(map[Kind]CopyFunc)
	}
	c.overrides[k] = f
	return c
}

// Copy copies any node, honouring overrides.
func (c *DeepCopier) Copy(n Node) Node {
	if n == nil || isNilNode(n) {
		return nil
	}
	if f, ok := c.overrides[n.Kind()]; ok {
		return f(c, n)
	}
	return c.Default(n)
}

func (c *DeepCopier) CopyCompilationUnit(cu *CompilationUnit) *CompilationUnit {
	if cu == nil {
		return nil
	}
	return c.Copy(cu).(*CompilationUnit)
}

func (c *DeepCopier) CopyTypeDeclaration(td TypeDeclaration) TypeDeclaration {
	return copyAs[TypeDeclaration](c, td)
}

func (c *DeepCopier) CopyMember(m Member) Member {
	return copyAs[Member](c, m)
}

func (c *DeepCopier) CopyStmt(s Stmt) Stmt {
	return copyAs[Stmt](c, s)
}

func (c *DeepCopier) CopyStmts(ss []Stmt) []Stmt {
	if ss == nil {
		return nil
	}
	out := make([]Stmt, len(ss))
	for i, s := range ss {
		out[i] = c.CopyStmt(s)
	}
	return out
}

func (c *DeepCopier) CopyExpr(e Expr) Expr {
	return copyAs[Expr](c, e)
}

func (c *DeepCopier) CopyExprs(es []Expr) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = c.CopyExpr(e)
	}
	return out
}

func (c *DeepCopier) CopyType(t Type) Type {
	return copyAs[Type](c, t)
}

func (c *DeepCopier) CopyBlock(b *Block) *Block {
	return copyAs[*Block](c, b)
}

func (c *DeepCopier) copyRef(t *ReferenceType) *ReferenceType {
	return copyAs[*ReferenceType](c, t)
}

func (c *DeepCopier) copyRefs(ts []*ReferenceType) []*ReferenceType {
	if ts == nil {
		return nil
	}
	out := make([]*ReferenceType, len(ts))
	for i, t := range ts {
		out[i] = c.copyRef(t)
	}
	return out
}

func (c *DeepCopier) copyModifiers(m *Modifiers) *Modifiers {
	return copyAs[*Modifiers](c, m)
}

func (c *DeepCopier) copyVars(vs []*VariableDeclarator) []*VariableDeclarator {
	if vs == nil {
		return nil
	}
	out := make([]*VariableDeclarator, len(vs))
	for i, v := range vs {
		out[i] = copyAs[*VariableDeclarator](c, v)
	}
	return out
}

func (c *DeepCopier) copyParams(ps []*FormalParameter) []*FormalParameter {
	if ps == nil {
		return nil
	}
	out := make([]*FormalParameter, len(ps))
	for i, p := range ps {
		out[i] = copyAs[*FormalParameter](c, p)
	}
	return out
}

// copyAs copies n and asserts that an override kept the node category the
// parent slot requires.
func copyAs[T any](c *DeepCopier, n Node) T {
	var zero T
	if n == nil || isNilNode(n) {
		return zero
	}
	out := c.Copy(n)
	if out == nil {
		return zero
	}
	t, ok := out.(T)
	if !ok {
		panic(fmt.Sprintf("ast: copy of %s produced %s, which cannot replace it", n.Kind(), out.Kind()))
	}
	return t
}

func cloneStrings(ss []string) []string {
	if ss == nil {
		return nil
	}
	return append([]string(nil), ss...)
}

// Default copies n structurally without consulting the override for n's own
// kind. Children are copied through Copy and so still see overrides.
func (c *DeepCopier) Default(n Node) Node {
	switch n := n.(type) {
	case *CompilationUnit:
		out := &CompilationUnit{Location: n.Location, File: n.File}
		if n.Package != nil {
			out.Package = copyAs[*PackageDeclaration](c, n.Package)
		}
		if n.Imports != nil {
			out.Imports = make([]*ImportDeclaration, len(n.Imports))
			for i, imp := range n.Imports {
				out.Imports[i] = copyAs[*ImportDeclaration](c, imp)
			}
		}
		if n.Types != nil {
			out.Types = make([]TypeDeclaration, len(n.Types))
			for i, td := range n.Types {
				out.Types[i] = c.CopyTypeDeclaration(td)
			}
		}
		return out
	case *PackageDeclaration:
		return &PackageDeclaration{Location: n.Location, Name: n.Name}
	case *ImportDeclaration:
		return &ImportDeclaration{Location: n.Location, Identifiers: cloneStrings(n.Identifiers), Static: n.Static, OnDemand: n.OnDemand}
	case *ClassDeclaration:
		return &ClassDeclaration{
			Location:   n.Location,
			Modifiers:  c.copyModifiers(n.Modifiers),
			Name:       n.Name,
			Extends:    c.copyRef(n.Extends),
			Implements: c.copyRefs(n.Implements),
			Members:    c.copyMembers(n.Members),
		}
	case *InterfaceDeclaration:
		return &InterfaceDeclaration{
			Location:  n.Location,
			Modifiers: c.copyModifiers(n.Modifiers),
			Name:      n.Name,
			Extends:   c.copyRefs(n.Extends),
			Members:   c.copyMembers(n.Members),
		}
	case *FieldDeclaration:
		return &FieldDeclaration{Location: n.Location, Modifiers: c.copyModifiers(n.Modifiers), Type: c.CopyType(n.Type), Variables: c.copyVars(n.Variables)}
	case *MethodDeclaration:
		return &MethodDeclaration{
			Location:   n.Location,
			Modifiers:  c.copyModifiers(n.Modifiers),
			ReturnType: c.CopyType(n.ReturnType),
			Name:       n.Name,
			Parameters: c.copyParams(n.Parameters),
			Thrown:     c.copyRefs(n.Thrown),
			Body:       c.CopyBlock(n.Body),
		}
	case *ConstructorDeclaration:
		return &ConstructorDeclaration{
			Location:   n.Location,
			Modifiers:  c.copyModifiers(n.Modifiers),
			Name:       n.Name,
			Parameters: c.copyParams(n.Parameters),
			Thrown:     c.copyRefs(n.Thrown),
			Invocation: copyAs[*ConstructorInvocation](c, n.Invocation),
			Body:       c.CopyBlock(n.Body),
		}
	case *ConstructorInvocation:
		return &ConstructorInvocation{Location: n.Location, Super: n.Super, Arguments: c.CopyExprs(n.Arguments)}
	case *Initializer:
		return &Initializer{Location: n.Location, Static: n.Static, Body: c.CopyBlock(n.Body)}
	case *FormalParameter:
		return &FormalParameter{Location: n.Location, Final: n.Final, Type: c.CopyType(n.Type), Name: n.Name, VarArgs: n.VarArgs}
	case *VariableDeclarator:
		return &VariableDeclarator{Location: n.Location, Name: n.Name, Brackets: n.Brackets, Initializer: c.CopyExpr(n.Initializer)}
	case *Modifiers:
		out := &Modifiers{Location: n.Location, Flags: n.Flags}
		if n.Annotations != nil {
			out.Annotations = make([]*Annotation, len(n.Annotations))
			for i, a := range n.Annotations {
				out.Annotations[i] = copyAs[*Annotation](c, a)
			}
		}
		return out
	case *Annotation:
		return &Annotation{Location: n.Location, Type: c.copyRef(n.Type), Value: c.CopyExpr(n.Value)}

	case *PrimitiveType:
		return &PrimitiveType{Location: n.Location, Primitive: n.Primitive}
	case *ArrayType:
		return &ArrayType{Location: n.Location, Component: c.CopyType(n.Component)}
	case *ReferenceType:
		out := &ReferenceType{Location: n.Location, Identifiers: cloneStrings(n.Identifiers)}
		if n.TypeArguments != nil {
			out.TypeArguments = make([]Type, len(n.TypeArguments))
			for i, t := range n.TypeArguments {
				out.TypeArguments[i] = c.CopyType(t)
			}
		}
		return out
	case *Wildcard:
		return &Wildcard{Location: n.Location, Bound: c.CopyType(n.Bound), Super: n.Super}

	case *Block:
		return &Block{Location: n.Location, Statements: c.CopyStmts(n.Statements)}
	case *LocalVariableDeclarationStatement:
		return &LocalVariableDeclarationStatement{Location: n.Location, Modifiers: c.copyModifiers(n.Modifiers), Type: c.CopyType(n.Type), Variables: c.copyVars(n.Variables)}
	case *ExpressionStatement:
		return &ExpressionStatement{Location: n.Location, Expr: c.CopyExpr(n.Expr)}
	case *ReturnStatement:
		return &ReturnStatement{Location: n.Location, Value: c.CopyExpr(n.Value)}
	case *LabeledStatement:
		return &LabeledStatement{Location: n.Location, Label: n.Label, Body: c.CopyStmt(n.Body)}
	case *BreakStatement:
		return &BreakStatement{Location: n.Location, Label: n.Label}
	case *ContinueStatement:
		return &ContinueStatement{Location: n.Location, Label: n.Label}
	case *IfStatement:
		return &IfStatement{Location: n.Location, Cond: c.CopyExpr(n.Cond), Then: c.CopyStmt(n.Then), Else: c.CopyStmt(n.Else)}
	case *WhileStatement:
		return &WhileStatement{Location: n.Location, Cond: c.CopyExpr(n.Cond), Body: c.CopyStmt(n.Body)}
	case *DoStatement:
		return &DoStatement{Location: n.Location, Body: c.CopyStmt(n.Body), Cond: c.CopyExpr(n.Cond)}
	case *ForStatement:
		return &ForStatement{Location: n.Location, Init: c.CopyStmts(n.Init), Cond: c.CopyExpr(n.Cond), Update: c.CopyExprs(n.Update), Body: c.CopyStmt(n.Body)}
	case *ForEachStatement:
		return &ForEachStatement{Location: n.Location, Variable: copyAs[*FormalParameter](c, n.Variable), Iterable: c.CopyExpr(n.Iterable), Body: c.CopyStmt(n.Body)}
	case *SwitchStatement:
		out := &SwitchStatement{Location: n.Location, Selector: c.CopyExpr(n.Selector)}
		if n.Cases != nil {
			out.Cases = make([]*SwitchCase, len(n.Cases))
			for i, sc := range n.Cases {
				out.Cases[i] = copyAs[*SwitchCase](c, sc)
			}
		}
		return out
	case *SwitchCase:
		return &SwitchCase{Location: n.Location, Labels: c.CopyExprs(n.Labels), Default: n.Default, Body: c.CopyStmts(n.Body)}
	case *ThrowStatement:
		return &ThrowStatement{Location: n.Location, Value: c.CopyExpr(n.Value)}
	case *EmptyStatement:
		return &EmptyStatement{Location: n.Location}

	case *IntegerLiteral:
		return &IntegerLiteral{Location: n.Location, Value: n.Value}
	case *FloatingPointLiteral:
		return &FloatingPointLiteral{Location: n.Location, Value: n.Value}
	case *BooleanLiteral:
		return &BooleanLiteral{Location: n.Location, Value: n.Value}
	case *CharacterLiteral:
		return &CharacterLiteral{Location: n.Location, Value: n.Value}
	case *StringLiteral:
		return &StringLiteral{Location: n.Location, Value: n.Value}
	case *NullLiteral:
		return &NullLiteral{Location: n.Location}
	case *AmbiguousName:
		return &AmbiguousName{Location: n.Location, Identifiers: cloneStrings(n.Identifiers)}
	case *FieldAccessExpression:
		return &FieldAccessExpression{Location: n.Location, Target: c.CopyExpr(n.Target), Field: n.Field}
	case *ArrayAccess:
		return &ArrayAccess{Location: n.Location, Array: c.CopyExpr(n.Array), Index: c.CopyExpr(n.Index)}
	case *MethodInvocation:
		return &MethodInvocation{Location: n.Location, Target: c.CopyExpr(n.Target), Name: n.Name, Arguments: c.CopyExprs(n.Arguments)}
	case *NewClassInstance:
		return &NewClassInstance{Location: n.Location, Type: c.copyRef(n.Type), Arguments: c.CopyExprs(n.Arguments)}
	case *NewArray:
		return &NewArray{Location: n.Location, Type: c.CopyType(n.Type), Dimensions: c.CopyExprs(n.Dimensions), ExtraDims: n.ExtraDims}
	case *NewInitializedArray:
		return &NewInitializedArray{Location: n.Location, Type: copyAs[*ArrayType](c, n.Type), Initializer: copyAs[*ArrayInitializer](c, n.Initializer)}
	case *ArrayInitializer:
		return &ArrayInitializer{Location: n.Location, Values: c.CopyExprs(n.Values)}
	case *ClassLiteral:
		return &ClassLiteral{Location: n.Location, Type: c.CopyType(n.Type)}
	case *ThisReference:
		return &ThisReference{Location: n.Location}
	case *BinaryOperation:
		return &BinaryOperation{Location: n.Location, Left: c.CopyExpr(n.Left), Op: n.Op, Right: c.CopyExpr(n.Right)}
	case *UnaryOperation:
		return &UnaryOperation{Location: n.Location, Op: n.Op, Operand: c.CopyExpr(n.Operand)}
	case *Crement:
		return &Crement{Location: n.Location, Op: n.Op, Operand: c.CopyExpr(n.Operand), Postfix: n.Postfix}
	case *Assignment:
		return &Assignment{Location: n.Location, Left: c.CopyExpr(n.Left), Op: n.Op, Right: c.CopyExpr(n.Right)}
	case *ConditionalExpression:
		return &ConditionalExpression{Location: n.Location, Cond: c.CopyExpr(n.Cond), Then: c.CopyExpr(n.Then), Else: c.CopyExpr(n.Else)}
	case *Cast:
		return &Cast{Location: n.Location, Type: c.CopyType(n.Type), Value: c.CopyExpr(n.Value)}
	case *Instanceof:
		return &Instanceof{Location: n.Location, Value: c.CopyExpr(n.Value), Type: c.CopyType(n.Type)}
	}
	panic(fmt.Sprintf("ast: DeepCopier cannot copy %T", n))
}

func (c *DeepCopier) copyMembers(ms []Member) []Member {
	if ms == nil {
		return nil
	}
	out := make([]Member, len(ms))
	for i, m := range ms {
		out[i] = c.CopyMember(m)
	}
	return out
}
