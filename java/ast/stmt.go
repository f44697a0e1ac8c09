package ast

// Block is a brace-delimited statement list. A block defines a lexical scope:
// locals declared directly in it are visible from their declaration to the
// end of the block.
type Block struct {
	Location
	Statements []Stmt
}

func (b *Block) AddStatement(s Stmt) {
	b.Statements = append(b.Statements, s)
}

func (b *Block) AddStatements(ss []Stmt) {
	b.Statements = append(b.Statements, ss...)
}

type LocalVariableDeclarationStatement struct {
	Location
	Modifiers *Modifiers
	Type      Type
	Variables []*VariableDeclarator
}

// VariableDeclarator declares one name; Brackets counts C-style `[]` after
// the name.
type VariableDeclarator struct {
	Location
	Name        string
	Brackets    int
	Initializer Expr
}

type ExpressionStatement struct {
	Location
	Expr Expr
}

// NewExpressionStatement takes its location from the expression.
func NewExpressionStatement(e Expr) *ExpressionStatement {
	return &ExpressionStatement{Location: e.Loc(), Expr: e}
}

type ReturnStatement struct {
	Location
	Value Expr
}

type LabeledStatement struct {
	Location
	Label string
	Body  Stmt
}

type BreakStatement struct {
	Location
	Label string
}

type ContinueStatement struct {
	Location
	Label string
}

type IfStatement struct {
	Location
	Cond Expr
	Then Stmt
	Else Stmt
}

type WhileStatement struct {
	Location
	Cond Expr
	Body Stmt
}

type DoStatement struct {
	Location
	Body Stmt
	Cond Expr
}

// ForStatement is the classic three-clause loop. Init holds either a single
// LocalVariableDeclarationStatement or expression statements.
type ForStatement struct {
	Location
	Init   []Stmt
	Cond   Expr
	Update []Expr
	Body   Stmt
}

type ForEachStatement struct {
	Location
	Variable *FormalParameter
	Iterable Expr
	Body     Stmt
}

type SwitchStatement struct {
	Location
	Selector Expr
	Cases    []*SwitchCase
}

// SwitchCase groups one or more labels with the statements that follow them.
type SwitchCase struct {
	Location
	Labels  []Expr
	Default bool
	Body    []Stmt
}

type ThrowStatement struct {
	Location
	Value Expr
}

type EmptyStatement struct {
	Location
}

func (*Block) Kind() Kind                             { return KindBlock }
func (*LocalVariableDeclarationStatement) Kind() Kind { return KindLocalVariableDeclarationStatement }
func (*VariableDeclarator) Kind() Kind                { return KindVariableDeclarator }
func (*ExpressionStatement) Kind() Kind               { return KindExpressionStatement }
func (*ReturnStatement) Kind() Kind                   { return KindReturnStatement }
func (*LabeledStatement) Kind() Kind                  { return KindLabeledStatement }
func (*BreakStatement) Kind() Kind                    { return KindBreakStatement }
func (*ContinueStatement) Kind() Kind                 { return KindContinueStatement }
func (*IfStatement) Kind() Kind                       { return KindIfStatement }
func (*WhileStatement) Kind() Kind                    { return KindWhileStatement }
func (*DoStatement) Kind() Kind                       { return KindDoStatement }
func (*ForStatement) Kind() Kind                      { return KindForStatement }
func (*ForEachStatement) Kind() Kind                  { return KindForEachStatement }
func (*SwitchStatement) Kind() Kind                   { return KindSwitchStatement }
func (*SwitchCase) Kind() Kind                        { return KindSwitchCase }
func (*ThrowStatement) Kind() Kind                    { return KindThrowStatement }
func (*EmptyStatement) Kind() Kind                    { return KindEmptyStatement }

func (*Block) stmtNode()                             {}
func (*LocalVariableDeclarationStatement) stmtNode() {}
func (*ExpressionStatement) stmtNode()               {}
func (*ReturnStatement) stmtNode()                   {}
func (*LabeledStatement) stmtNode()                  {}
func (*BreakStatement) stmtNode()                    {}
func (*ContinueStatement) stmtNode()                 {}
func (*IfStatement) stmtNode()                       {}
func (*WhileStatement) stmtNode()                    {}
func (*DoStatement) stmtNode()                       {}
func (*ForStatement) stmtNode()                      {}
func (*ForEachStatement) stmtNode()                  {}
func (*SwitchStatement) stmtNode()                   {}
func (*ThrowStatement) stmtNode()                    {}
func (*EmptyStatement) stmtNode()                    {}
