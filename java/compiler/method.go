package compiler

import "github.com/dhamidi/jcook/java/loader"

// compileInitializers turns field initializers and initializer blocks into
// the class's static initializer and its instance initializer. Static final
// fields with constant initializers also get their Constant.
func (s *session) compileInitializers(ci *classInfo) {
	statics := s.newBody(ci, true)
	instance := s.newBody(ci, false)
	statics.init, instance.init = true, true
	var staticExecs, instanceExecs []execFunc
	for _, item := range ci.inits {
		b := instance
		if item.static {
			b = statics
		}
		var exec execFunc
		if item.block != nil {
			var completes bool
			b.push()
			exec, completes = b.statements(item.block.Statements)
			b.pop()
			if !completes {
				fail(item.block.Loc(), KindType, "Initializer must be able to complete normally")
			}
		} else {
			exec = b.fieldInitializer(item)
		}
		if item.static {
			staticExecs = append(staticExecs, exec)
		} else {
			instanceExecs = append(instanceExecs, exec)
		}
	}

	if len(staticExecs) > 0 {
		slots := statics.slots
		ci.class.StaticInit = func() error {
			return runAll(newFrame(1, nil, slots, nil), staticExecs)
		}
	}
	if len(instanceExecs) > 0 {
		slots := instance.slots
		ci.instanceInit = func(depth int, this *loader.Object) error {
			return runAll(newFrame(depth, this, slots, nil), instanceExecs)
		}
	}
}

func runAll(fr *frame, execs []execFunc) error {
	for _, exec := range execs {
		if _, err := exec(fr); err != nil {
			return err
		}
	}
	return nil
}

func (b *body) fieldInitializer(item initItem) execFunc {
	f := item.field
	v := b.initializer(item.decl.Initializer, f.Type)
	if f.Flags.IsStatic() && f.Flags.IsFinal() && v.isConstant() {
		f.Constant = v.konst
	}
	eval := v.eval
	return func(fr *frame) (ctl, error) {
		x, err := eval(fr)
		if err != nil {
			return ctl{}, err
		}
		return ctl{}, f.Set(fr.object(), x)
	}
}

func (s *session) compileBodies(ci *classInfo) {
	for _, info := range ci.methods {
		if info.body != nil {
			s.compileMethod(ci, info)
		}
	}
	for _, info := range ci.ctors {
		s.compileConstructor(ci, info)
	}
}

func (s *session) compileMethod(ci *classInfo, info *methodInfo) {
	m := info.method
	b := s.newBody(ci, m.Flags.IsStatic())
	b.ret = m.Return
	b.declareParams(info.params, m.Params)
	exec, completes := b.stmt(info.body)
	if completes && m.Return != loader.Void {
		fail(info.loc, KindType, "Method must return a value")
	}
	slots := b.slots
	m.Run = func(depth int, this any, args []any) (any, error) {
		c, err := exec(newFrame(depth, this, slots, args))
		if err != nil {
			return nil, err
		}
		return c.value, nil
	}
	m.Impl = entry(m.Run)
	s.c.log.Debugf("compiled %s", m)
}

// compileConstructor runs, in order: the explicit or implicit this(...) or
// super(...), the instance initializers unless this(...) was called, and
// the body.
func (s *session) compileConstructor(ci *classInfo, info *methodInfo) {
	m := info.method
	b := s.newBody(ci, false)
	b.ret = loader.Void
	b.ctor = true
	b.declareParams(info.params, m.Params)

	delegate, args := b.constructorCall(info)
	runInit := info.invocation == nil || info.invocation.Super
	exec := execFunc(nop)
	if info.body != nil {
		exec, _ = b.stmt(info.body)
	}
	slots := b.slots
	m.Run = func(depth int, this any, vals []any) (any, error) {
		fr := newFrame(depth, this, slots, vals)
		superArgs, err := evalAll(fr, args)
		if err != nil {
			return nil, err
		}
		if _, err := invokeFrom(fr, delegate, this, superArgs); err != nil {
			return nil, err
		}
		if runInit && ci.instanceInit != nil {
			if err := ci.instanceInit(depth, fr.object()); err != nil {
				return nil, err
			}
		}
		_, err = exec(fr)
		return nil, err
	}
	m.Impl = entry(m.Run)
}

// entry runs a compiled method called from the host as the first frame.
func entry(run loader.DepthFunc) loader.Func {
	return func(this any, args []any) (any, error) {
		return run(1, this, args)
	}
}
