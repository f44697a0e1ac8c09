package ast

// Operator precedence levels, lowest binding first.
const (
	PrecAssignment = iota + 1
	PrecConditional
	PrecConditionalOr
	PrecConditionalAnd
	PrecInclusiveOr
	PrecExclusiveOr
	PrecAnd
	PrecEquality
	PrecRelational
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecUnary
	PrecPostfix
	PrecPrimary
)

var binaryPrecedence = map[string]int{
	"||":         PrecConditionalOr,
	"&&":         PrecConditionalAnd,
	"|":          PrecInclusiveOr,
	"^":          PrecExclusiveOr,
	"&":          PrecAnd,
	"==":         PrecEquality,
	"!=":         PrecEquality,
	"<":          PrecRelational,
	">":          PrecRelational,
	"<=":         PrecRelational,
	">=":         PrecRelational,
	"instanceof": PrecRelational,
	"<<":         PrecShift,
	">>":         PrecShift,
	">>>":        PrecShift,
	"+":          PrecAdditive,
	"-":          PrecAdditive,
	"*":          PrecMultiplicative,
	"/":          PrecMultiplicative,
	"%":          PrecMultiplicative,
}

var assignmentOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true,
}

// BinaryPrecedence returns the precedence of a binary infix operator, or 0
// when op is not one.
func BinaryPrecedence(op string) int {
	return binaryPrecedence[op]
}

func IsAssignmentOp(op string) bool {
	return assignmentOps[op]
}

// CompoundOperator returns the binary operator of a compound assignment,
// e.g. "+" for "+=".
func CompoundOperator(op string) (string, bool) {
	if op == "=" || !assignmentOps[op] {
		return "", false
	}
	return op[:len(op)-1], true
}

// Precedence reports how tightly an expression binds at its root. Unparsers
// compare it against the context an operand appears in.
func Precedence(e Expr) int {
	switch e := e.(type) {
	case *Assignment:
		return PrecAssignment
	case *ConditionalExpression:
		return PrecConditional
	case *BinaryOperation:
		if p := binaryPrecedence[e.Op]; p != 0 {
			return p
		}
		return PrecPrimary
	case *Instanceof:
		return PrecRelational
	case *UnaryOperation, *Cast:
		return PrecUnary
	case *Crement:
		if e.Postfix {
			return PrecPostfix
		}
		return PrecUnary
	}
	return PrecPrimary
}

// RightAssociative reports whether operators at the given level group to the
// right.
func RightAssociative(prec int) bool {
	return prec == PrecAssignment || prec == PrecConditional
}
