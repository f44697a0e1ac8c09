package ast

import "testing"

func TestChildren(t *testing.T) {
	x := &AmbiguousName{Identifiers: []string{"x"}}
	one := &IntegerLiteral{Value: "1"}
	tests := []struct {
		name string
		node Node
		want int
	}{
		{"binary", &BinaryOperation{Left: x, Op: "+", Right: one}, 2},
		{"return void", &ReturnStatement{}, 0},
		{"return value", &ReturnStatement{Value: one}, 1},
		{"if without else", &IfStatement{Cond: x, Then: &EmptyStatement{}}, 2},
		{"method call", &MethodInvocation{Name: "m", Arguments: []Expr{x, one}}, 2},
		{"class no extends", &ClassDeclaration{Name: "A"}, 0},
		{"for", &ForStatement{Cond: x, Update: []Expr{one}, Body: &Block{}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Children(tt.node)); got != tt.want {
				t.Errorf("got %d children, want %d", got, tt.want)
			}
		})
	}
}

func TestInspect_Prune(t *testing.T) {
	m := sampleMethod()
	var all, pruned int
	Inspect(m, func(n Node) bool {
		all++
		return true
	})
	Inspect(m, func(n Node) bool {
		pruned++
		return n.Kind() != KindBlock
	})
	if pruned >= all {
		t.Errorf("pruned walk visited %d nodes, full walk %d", pruned, all)
	}
}
