package compiler

import (
	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
)

type ctlKind int

const (
	ctlNormal ctlKind = iota
	ctlBreak
	ctlContinue
	ctlReturn
)

// ctl is how a statement completed. Abrupt completion by a thrown exception
// travels as an error instead.
type ctl struct {
	kind  ctlKind
	label string
	value any
}

type execFunc func(fr *frame) (ctl, error)

func nop(*frame) (ctl, error) { return ctl{}, nil }

// matches reports whether a break or continue targets the statement with
// the given labels.
func matches(labels []string, c ctl) bool {
	if c.label == "" {
		return true
	}
	for _, l := range labels {
		if l == c.label {
			return true
		}
	}
	return false
}

// stmt compiles s and reports whether it can complete normally.
func (b *body) stmt(s ast.Stmt) (execFunc, bool) {
	switch s := s.(type) {
	case *ast.Block:
		b.push()
		defer b.pop()
		return b.statements(s.Statements)
	case *ast.LocalVariableDeclarationStatement:
		return b.localVariables(s), true
	case *ast.ExpressionStatement:
		return b.expressionStatement(s), true
	case *ast.EmptyStatement:
		return nop, true
	case *ast.IfStatement:
		return b.ifStatement(s)
	case *ast.WhileStatement:
		return b.whileStatement(s, nil)
	case *ast.DoStatement:
		return b.doStatement(s, nil)
	case *ast.ForStatement:
		return b.forStatement(s, nil)
	case *ast.ForEachStatement:
		return b.forEachStatement(s, nil)
	case *ast.LabeledStatement:
		return b.labeled(s, nil)
	case *ast.SwitchStatement:
		return b.switchStatement(s, nil)
	case *ast.BreakStatement:
		return b.jump(s.Loc(), ctlBreak, s.Label), false
	case *ast.ContinueStatement:
		return b.jump(s.Loc(), ctlContinue, s.Label), false
	case *ast.ReturnStatement:
		return b.returnStatement(s), false
	case *ast.ThrowStatement:
		return b.throwStatement(s), false
	case nil:
		fail(ast.Location{}, KindType, "Missing statement")
	}
	fail(s.Loc(), KindUnsupported, "Unsupported statement %s", s.Kind())
	return nil, false
}

// statements compiles a sequence in the current scope. A statement after
// one that cannot complete normally is unreachable.
func (b *body) statements(ss []ast.Stmt) (execFunc, bool) {
	execs := make([]execFunc, 0, len(ss))
	completes := true
	for _, s := range ss {
		if !completes {
			fail(s.Loc(), KindType, "Statement is unreachable")
		}
		var exec execFunc
		exec, completes = b.stmt(s)
		execs = append(execs, exec)
	}
	return func(fr *frame) (ctl, error) {
		for _, exec := range execs {
			c, err := exec(fr)
			if err != nil || c.kind != ctlNormal {
				return c, err
			}
		}
		return ctl{}, nil
	}, completes
}

// sub compiles a statement that forms its own scope, such as a loop body.
func (b *body) sub(s ast.Stmt) (execFunc, bool) {
	if _, ok := s.(*ast.LocalVariableDeclarationStatement); ok {
		fail(s.Loc(), KindType, "Declaration is not allowed here")
	}
	b.push()
	defer b.pop()
	return b.stmt(s)
}

func (b *body) localVariables(s *ast.LocalVariableDeclarationStatement) execFunc {
	base := b.s.resolveType(b.ci.unit, s.Type)
	if base == loader.Void {
		fail(s.Loc(), KindType, "Local variable cannot be void")
	}
	final := s.Modifiers.Has(ast.ModFinal)
	execs := make([]execFunc, len(s.Variables))
	for i, v := range s.Variables {
		t := withBrackets(base, v.Brackets)
		var init evalFunc
		if v.Initializer != nil {
			init = b.initializer(v.Initializer, t).eval
		}
		slot := b.declare(v.Loc(), v.Name, t, final).slot
		if init == nil {
			zero := t.Zero()
			execs[i] = func(fr *frame) (ctl, error) {
				fr.locals[slot] = zero
				return ctl{}, nil
			}
			continue
		}
		execs[i] = func(fr *frame) (ctl, error) {
			x, err := init(fr)
			fr.locals[slot] = x
			return ctl{}, err
		}
	}
	if len(execs) == 1 {
		return execs[0]
	}
	return func(fr *frame) (ctl, error) {
		for _, exec := range execs {
			if _, err := exec(fr); err != nil {
				return ctl{}, err
			}
		}
		return ctl{}, nil
	}
}

func (b *body) expressionStatement(s *ast.ExpressionStatement) execFunc {
	switch s.Expr.(type) {
	case *ast.Assignment, *ast.Crement, *ast.MethodInvocation, *ast.NewClassInstance:
	default:
		fail(s.Loc(), KindType, "Expression %q is not a statement", describe(s.Expr))
	}
	eval := b.expr(s.Expr).eval
	return func(fr *frame) (ctl, error) {
		_, err := eval(fr)
		return ctl{}, err
	}
}

func (b *body) ifStatement(s *ast.IfStatement) (execFunc, bool) {
	cond := b.condition(s.Cond).eval
	then, thenCompletes := b.sub(s.Then)
	els, elseCompletes := execFunc(nop), true
	if s.Else != nil {
		els, elseCompletes = b.sub(s.Else)
	}
	return func(fr *frame) (ctl, error) {
		c, err := cond(fr)
		if err != nil {
			return ctl{}, err
		}
		if c.(bool) {
			return then(fr)
		}
		return els(fr)
	}, thenCompletes || elseCompletes
}

func (b *body) enter(labels []string, loop, swtch bool) *target {
	t := &target{labels: labels, loop: loop, swtch: swtch}
	b.targets = append(b.targets, t)
	return t
}

func (b *body) leave() {
	b.targets = b.targets[:len(b.targets)-1]
}

func constantTrue(v *value) bool {
	return v.isConstant() && v.konst.(bool)
}

// loopBody runs one iteration and reports whether the loop must stop and
// with which completion.
func loopBody(labels []string, body execFunc, fr *frame) (stop bool, c ctl, err error) {
	c, err = body(fr)
	if err != nil {
		return true, ctl{}, err
	}
	switch c.kind {
	case ctlBreak:
		if matches(labels, c) {
			return true, ctl{}, nil
		}
		return true, c, nil
	case ctlContinue:
		if matches(labels, c) {
			return false, ctl{}, nil
		}
		return true, c, nil
	case ctlReturn:
		return true, c, nil
	}
	return false, ctl{}, nil
}

func (b *body) whileStatement(s *ast.WhileStatement, labels []string) (execFunc, bool) {
	condValue := b.condition(s.Cond)
	cond := condValue.eval
	t := b.enter(labels, true, false)
	body, _ := b.sub(s.Body)
	b.leave()
	return func(fr *frame) (ctl, error) {
		for {
			c, err := cond(fr)
			if err != nil {
				return ctl{}, err
			}
			if !c.(bool) {
				return ctl{}, nil
			}
			if stop, res, err := loopBody(labels, body, fr); stop {
				return res, err
			}
		}
	}, !constantTrue(condValue) || t.broken
}

func (b *body) doStatement(s *ast.DoStatement, labels []string) (execFunc, bool) {
	t := b.enter(labels, true, false)
	body, _ := b.sub(s.Body)
	b.leave()
	condValue := b.condition(s.Cond)
	cond := condValue.eval
	return func(fr *frame) (ctl, error) {
		for {
			if stop, res, err := loopBody(labels, body, fr); stop {
				return res, err
			}
			c, err := cond(fr)
			if err != nil {
				return ctl{}, err
			}
			if !c.(bool) {
				return ctl{}, nil
			}
		}
	}, !constantTrue(condValue) || t.broken
}

func (b *body) forStatement(s *ast.ForStatement, labels []string) (execFunc, bool) {
	b.push()
	defer b.pop()
	init, _ := b.statements(s.Init)
	var cond evalFunc
	infinite := true
	if s.Cond != nil {
		cv := b.condition(s.Cond)
		cond, infinite = cv.eval, constantTrue(cv)
	}
	updates := make([]evalFunc, len(s.Update))
	for i, u := range s.Update {
		updates[i] = b.expressionStatementValue(u)
	}
	t := b.enter(labels, true, false)
	body, _ := b.sub(s.Body)
	b.leave()
	return func(fr *frame) (ctl, error) {
		if c, err := init(fr); err != nil || c.kind != ctlNormal {
			return c, err
		}
		for {
			if cond != nil {
				c, err := cond(fr)
				if err != nil {
					return ctl{}, err
				}
				if !c.(bool) {
					return ctl{}, nil
				}
			}
			if stop, res, err := loopBody(labels, body, fr); stop {
				return res, err
			}
			for _, u := range updates {
				if _, err := u(fr); err != nil {
					return ctl{}, err
				}
			}
		}
	}, !infinite || t.broken
}

func (b *body) expressionStatementValue(e ast.Expr) evalFunc {
	switch e.(type) {
	case *ast.Assignment, *ast.Crement, *ast.MethodInvocation, *ast.NewClassInstance:
	default:
		fail(e.Loc(), KindType, "Expression %q is not a statement", describe(e))
	}
	return b.expr(e).eval
}

func (b *body) forEachStatement(s *ast.ForEachStatement, labels []string) (execFunc, bool) {
	it := b.rvalue(s.Iterable)
	if !it.typ.IsArray() {
		fail(s.Iterable.Loc(), KindUnsupported, "Only arrays can be iterated, not %s", it.typ)
	}
	b.push()
	defer b.pop()
	p := s.Variable
	vt := b.s.resolveType(b.ci.unit, p.Type)
	if !invocationConvertible(it.typ.Elem, vt) {
		fail(p.Loc(), KindType, "Cannot iterate %s with a variable of type %s", it.typ, vt)
	}
	conv := converter(it.typ.Elem, vt)
	slot := b.declare(p.Loc(), p.Name, vt, p.Final).slot
	b.enter(labels, true, false)
	body, _ := b.sub(s.Body)
	b.leave()
	iterable := it.eval
	return func(fr *frame) (ctl, error) {
		arr, err := iterable(fr)
		if err != nil {
			return ctl{}, err
		}
		n, err := loader.ArrayLength(arr)
		if err != nil {
			return ctl{}, err
		}
		for i := range n {
			x, err := loader.ArrayGet(arr, i)
			if err != nil {
				return ctl{}, err
			}
			fr.locals[slot] = apply(conv, x)
			if stop, res, err := loopBody(labels, body, fr); stop {
				return res, err
			}
		}
		return ctl{}, nil
	}, true
}

// labeled gathers the labels of nested labeled statements so that a loop
// knows all of its names.
func (b *body) labeled(s *ast.LabeledStatement, labels []string) (execFunc, bool) {
	for _, t := range b.targets {
		if t.hasLabel(s.Label) {
			fail(s.Loc(), KindDuplicate, "Duplicate label %q", s.Label)
		}
	}
	for _, l := range labels {
		if l == s.Label {
			fail(s.Loc(), KindDuplicate, "Duplicate label %q", s.Label)
		}
	}
	labels = append(labels, s.Label)
	switch body := s.Body.(type) {
	case *ast.LabeledStatement:
		return b.labeled(body, labels)
	case *ast.WhileStatement:
		return b.whileStatement(body, labels)
	case *ast.DoStatement:
		return b.doStatement(body, labels)
	case *ast.ForStatement:
		return b.forStatement(body, labels)
	case *ast.ForEachStatement:
		return b.forEachStatement(body, labels)
	case *ast.SwitchStatement:
		return b.switchStatement(body, labels)
	}
	t := b.enter(labels, false, false)
	body, completes := b.sub(s.Body)
	b.leave()
	return func(fr *frame) (ctl, error) {
		c, err := body(fr)
		if err == nil && c.kind == ctlBreak && c.label != "" && matches(labels, c) {
			return ctl{}, nil
		}
		return c, err
	}, completes || t.broken
}

func (b *body) jump(loc ast.Location, kind ctlKind, label string) execFunc {
	var found *target
	for i := len(b.targets) - 1; i >= 0 && found == nil; i-- {
		t := b.targets[i]
		switch {
		case label != "":
			if t.hasLabel(label) {
				found = t
			}
		case kind == ctlContinue:
			if t.loop {
				found = t
			}
		case t.loop || t.swtch:
			found = t
		}
	}
	switch {
	case found == nil && label != "":
		fail(loc, KindResolution, "Undefined label %q", label)
	case found == nil && kind == ctlBreak:
		fail(loc, KindType, "\"break\" statement is not enclosed by a breakable statement")
	case found == nil:
		fail(loc, KindType, "\"continue\" statement is not enclosed by a loop")
	case kind == ctlContinue && !found.loop:
		fail(loc, KindType, "Labeled statement %q is not a loop", label)
	}
	if kind == ctlBreak {
		found.broken = true
	}
	c := ctl{kind: kind, label: label}
	return func(*frame) (ctl, error) { return c, nil }
}

func (b *body) returnStatement(s *ast.ReturnStatement) execFunc {
	switch {
	case b.ret == nil:
		fail(s.Loc(), KindType, "\"return\" is not allowed in an initializer")
	case b.ret == loader.Void && s.Value != nil:
		fail(s.Loc(), KindType, "Method is void; cannot return a value")
	case b.ret != loader.Void && s.Value == nil:
		fail(s.Loc(), KindType, "Method must return a value")
	}
	if s.Value == nil {
		return func(*frame) (ctl, error) { return ctl{kind: ctlReturn}, nil }
	}
	eval := b.assign(s.Value.Loc(), b.rvalue(s.Value), b.ret).eval
	return func(fr *frame) (ctl, error) {
		v, err := eval(fr)
		if err != nil {
			return ctl{}, err
		}
		return ctl{kind: ctlReturn, value: v}, nil
	}
}

func (b *body) throwStatement(s *ast.ThrowStatement) execFunc {
	v := b.rvalue(s.Value)
	throwable := b.s.lookupClass(loader.Throwable).Type()
	if !refAssignable(v.typ, throwable) {
		fail(s.Loc(), KindType, "Thrown expression of type %s is not a throwable", v.typ)
	}
	eval := v.eval
	return func(fr *frame) (ctl, error) {
		x, err := eval(fr)
		if err != nil {
			return ctl{}, err
		}
		obj, ok := x.(*loader.Object)
		if !ok {
			return ctl{}, loader.NewException(loader.NullPointerException, "Cannot throw null")
		}
		return ctl{}, &loader.Exception{Object: obj}
	}
}

func (b *body) switchStatement(s *ast.SwitchStatement, labels []string) (execFunc, bool) {
	sel := b.rvalue(s.Selector)
	str := sel.typ.Is("java.lang.String")
	if !str {
		if !sel.typ.IsIntegral() || unaryPromote(sel.typ) != loader.Int {
			fail(s.Selector.Loc(), KindType, "Invalid switch selector type %s", sel.typ)
		}
	}
	key := func(v any) any {
		if str {
			return v
		}
		return toInt64(v)
	}

	b.push()
	defer b.pop()
	t := b.enter(labels, false, true)
	defer b.leave()

	index := map[any]int{}
	deflt := -1
	bodies := make([]execFunc, len(s.Cases))
	completes := true
	for i, sc := range s.Cases {
		if sc.Default {
			if deflt >= 0 {
				fail(sc.Loc(), KindDuplicate, "Duplicate default label")
			}
			deflt = i
		}
		for _, l := range sc.Labels {
			lv := b.rvalue(l)
			if !lv.isConstant() {
				fail(l.Loc(), KindType, "Case label %q is not a constant expression", describe(l))
			}
			lv = b.assign(l.Loc(), lv, sel.typ)
			k := key(lv.konst)
			if _, dup := index[k]; dup {
				fail(l.Loc(), KindDuplicate, "Duplicate case label %q", describe(l))
			}
			index[k] = i
		}
		bodies[i], completes = b.statements(sc.Body)
	}
	completes = completes || deflt < 0 || t.broken

	eval := sel.eval
	return func(fr *frame) (ctl, error) {
		v, err := eval(fr)
		if err != nil {
			return ctl{}, err
		}
		if v == nil {
			return ctl{}, loader.NewException(loader.NullPointerException, "Cannot switch on null")
		}
		start, ok := index[key(v)]
		if !ok {
			start = deflt
		}
		if start < 0 {
			return ctl{}, nil
		}
		for _, body := range bodies[start:] {
			c, err := body(fr)
			if err != nil {
				return ctl{}, err
			}
			switch {
			case c.kind == ctlBreak && matches(labels, c):
				return ctl{}, nil
			case c.kind != ctlNormal:
				return c, nil
			}
		}
		return ctl{}, nil
	}, completes
}
