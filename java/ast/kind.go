package ast

type Kind int

const (
	KindInvalid Kind = iota

	// Declarations
	KindCompilationUnit
	KindPackageDeclaration
	KindImportDeclaration
	KindClassDeclaration
	KindInterfaceDeclaration
	KindFieldDeclaration
	KindMethodDeclaration
	KindConstructorDeclaration
	KindConstructorInvocation
	KindInitializer
	KindFormalParameter
	KindVariableDeclarator
	KindModifiers
	KindAnnotation

	// Types
	KindPrimitiveType
	KindArrayType
	KindReferenceType
	KindWildcard

	// Statements
	KindBlock
	KindLocalVariableDeclarationStatement
	KindExpressionStatement
	KindReturnStatement
	KindLabeledStatement
	KindBreakStatement
	KindContinueStatement
	KindIfStatement
	KindWhileStatement
	KindDoStatement
	KindForStatement
	KindForEachStatement
	KindSwitchStatement
	KindSwitchCase
	KindThrowStatement
	KindEmptyStatement

	// Expressions
	KindIntegerLiteral
	KindFloatingPointLiteral
	KindBooleanLiteral
	KindCharacterLiteral
	KindStringLiteral
	KindNullLiteral
	KindAmbiguousName
	KindFieldAccessExpression
	KindArrayAccess
	KindMethodInvocation
	KindNewClassInstance
	KindNewArray
	KindNewInitializedArray
	KindArrayInitializer
	KindClassLiteral
	KindThisReference
	KindBinaryOperation
	KindUnaryOperation
	KindCrement
	KindAssignment
	KindConditionalExpression
	KindCast
	KindInstanceof

	kindCount
)

var kindNames = map[Kind]string{
	KindInvalid:                           "Invalid",
	KindCompilationUnit:                   "CompilationUnit",
	KindPackageDeclaration:                "PackageDeclaration",
	KindImportDeclaration:                 "ImportDeclaration",
	KindClassDeclaration:                  "ClassDeclaration",
	KindInterfaceDeclaration:              "InterfaceDeclaration",
	KindFieldDeclaration:                  "FieldDeclaration",
	KindMethodDeclaration:                 "MethodDeclaration",
	KindConstructorDeclaration:            "ConstructorDeclaration",
	KindConstructorInvocation:             "ConstructorInvocation",
	KindInitializer:                       "Initializer",
	KindFormalParameter:                   "FormalParameter",
	KindVariableDeclarator:                "VariableDeclarator",
	KindModifiers:                         "Modifiers",
	KindAnnotation:                        "Annotation",
	KindPrimitiveType:                     "PrimitiveType",
	KindArrayType:                         "ArrayType",
	KindReferenceType:                     "ReferenceType",
	KindWildcard:                          "Wildcard",
	KindBlock:                             "Block",
	KindLocalVariableDeclarationStatement: "LocalVariableDeclarationStatement",
	KindExpressionStatement:               "ExpressionStatement",
	KindReturnStatement:                   "ReturnStatement",
	KindLabeledStatement:                  "LabeledStatement",
	KindBreakStatement:                    "BreakStatement",
	KindContinueStatement:                 "ContinueStatement",
	KindIfStatement:                       "IfStatement",
	KindWhileStatement:                    "WhileStatement",
	KindDoStatement:                       "DoStatement",
	KindForStatement:                      "ForStatement",
	KindForEachStatement:                  "ForEachStatement",
	KindSwitchStatement:                   "SwitchStatement",
	KindSwitchCase:                        "SwitchCase",
	KindThrowStatement:                    "ThrowStatement",
	KindEmptyStatement:                    "EmptyStatement",
	KindIntegerLiteral:                    "IntegerLiteral",
	KindFloatingPointLiteral:              "FloatingPointLiteral",
	KindBooleanLiteral:                    "BooleanLiteral",
	KindCharacterLiteral:                  "CharacterLiteral",
	KindStringLiteral:                     "StringLiteral",
	KindNullLiteral:                       "NullLiteral",
	KindAmbiguousName:                     "AmbiguousName",
	KindFieldAccessExpression:             "FieldAccessExpression",
	KindArrayAccess:                       "ArrayAccess",
	KindMethodInvocation:                  "MethodInvocation",
	KindNewClassInstance:                  "NewClassInstance",
	KindNewArray:                          "NewArray",
	KindNewInitializedArray:               "NewInitializedArray",
	KindArrayInitializer:                  "ArrayInitializer",
	KindClassLiteral:                      "ClassLiteral",
	KindThisReference:                     "ThisReference",
	KindBinaryOperation:                   "BinaryOperation",
	KindUnaryOperation:                    "UnaryOperation",
	KindCrement:                           "Crement",
	KindAssignment:                        "Assignment",
	KindConditionalExpression:             "ConditionalExpression",
	KindCast:                              "Cast",
	KindInstanceof:                        "Instanceof",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
