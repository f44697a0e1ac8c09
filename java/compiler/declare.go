package compiler

import (
	"strings"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
)

// session is the state of one Cook call.
type session struct {
	c     *Compiler
	units []*unit
	types map[string]*classInfo
	order []*classInfo
}

type unit struct {
	cu             *ast.CompilationUnit
	pkg            string
	single         map[string]*loader.Class
	onDemand       []string
	staticSingle   map[string][]*loader.Class
	staticOnDemand []*loader.Class
}

type classInfo struct {
	unit  *unit
	decl  ast.TypeDeclaration
	class *loader.Class

	methods []*methodInfo
	ctors   []*methodInfo
	inits   []initItem

	// instanceInit runs instance field initializers and instance
	// initializer blocks; constructors that call super(...) run it.
	instanceInit func(depth int, this *loader.Object) error
}

type methodInfo struct {
	method *loader.Method
	params []*ast.FormalParameter
	body   *ast.Block
	loc    ast.Location
	// invocation is the explicit this(...) or super(...) of a constructor.
	invocation *ast.ConstructorInvocation
}

// initItem is a field initializer or an initializer block, kept in source
// order.
type initItem struct {
	static bool
	field  *loader.Field
	decl   *ast.VariableDeclarator
	block  *ast.Block
}

func newSession(c *Compiler) *session {
	return &session{c: c, types: make(map[string]*classInfo)}
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// lookupClass finds a class of this batch or of the loader.
func (s *session) lookupClass(name string) *loader.Class {
	if ci, ok := s.types[name]; ok {
		return ci.class
	}
	return s.c.loader.Lookup(name)
}

func (s *session) packageExists(pkg string) bool {
	if s.c.loader.HasPackage(pkg) {
		return true
	}
	prefix := pkg + "."
	for name := range s.types {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (s *session) object() *loader.Class {
	return s.c.loader.Lookup("java.lang.Object")
}

func accessFlags(m *ast.Modifiers) loader.Flags {
	var f loader.Flags
	for _, mf := range []struct {
		mod  ast.Mod
		flag loader.Flags
	}{
		{ast.ModPublic, loader.AccPublic},
		{ast.ModPrivate, loader.AccPrivate},
		{ast.ModProtected, loader.AccProtected},
		{ast.ModStatic, loader.AccStatic},
		{ast.ModFinal, loader.AccFinal},
		{ast.ModAbstract, loader.AccAbstract},
		{ast.ModNative, loader.AccNative},
		{ast.ModSynchronized, loader.AccSynchronized},
		{ast.ModVolatile, loader.AccVolatile},
		{ast.ModStrictfp, loader.AccStrict},
	} {
		if m.Has(mf.mod) {
			f |= mf.flag
		}
	}
	return f
}

func (s *session) declareTypes(cu *ast.CompilationUnit) {
	u := &unit{
		cu:           cu,
		pkg:          cu.PackageName(),
		single:       make(map[string]*loader.Class),
		staticSingle: make(map[string][]*loader.Class),
	}
	s.units = append(s.units, u)
	for _, td := range cu.Types {
		name := qualify(u.pkg, td.TypeName())
		if s.lookupClass(name) != nil {
			fail(td.Loc(), KindDuplicate, "Redeclaration of type %q", name)
		}
		flags := accessFlags(td.TypeModifiers()) &^ (loader.AccPrivate | loader.AccProtected | loader.AccStatic)
		if _, ok := td.(*ast.InterfaceDeclaration); ok {
			flags |= loader.AccInterface | loader.AccAbstract
		}
		ci := &classInfo{unit: u, decl: td, class: loader.NewClass(name, flags, nil)}
		ci.class.Source = cu.File
		s.types[name] = ci
		s.order = append(s.order, ci)
	}
}

func (s *session) resolveImports(u *unit) {
	for _, imp := range u.cu.Imports {
		name := strings.Join(imp.Identifiers, ".")
		switch {
		case !imp.Static && !imp.OnDemand:
			c := s.lookupClass(name)
			if c == nil {
				fail(imp.Loc(), KindResolution, "Imported class %q could not be loaded", name)
			}
			simple := imp.Identifiers[len(imp.Identifiers)-1]
			if prev, ok := u.single[simple]; ok && prev != c {
				fail(imp.Loc(), KindDuplicate, "Conflicting single-type imports of %q and %q", prev.Name, c.Name)
			}
			u.single[simple] = c
		case !imp.Static:
			if !s.packageExists(name) {
				fail(imp.Loc(), KindResolution, "Package %q not found", name)
			}
			u.onDemand = append(u.onDemand, name)
		case !imp.OnDemand:
			if len(imp.Identifiers) < 2 {
				fail(imp.Loc(), KindResolution, "Invalid static import %q", name)
			}
			owner := strings.Join(imp.Identifiers[:len(imp.Identifiers)-1], ".")
			member := imp.Identifiers[len(imp.Identifiers)-1]
			c := s.lookupClass(owner)
			if c == nil {
				fail(imp.Loc(), KindResolution, "Imported class %q could not be loaded", owner)
			}
			if _, err := c.Field(member); err != nil && len(c.MethodsNamed(member)) == 0 && s.types[owner] == nil {
				fail(imp.Loc(), KindResolution, "Class %q has no static member %q", owner, member)
			}
			u.staticSingle[member] = append(u.staticSingle[member], c)
		default:
			c := s.lookupClass(name)
			if c == nil {
				fail(imp.Loc(), KindResolution, "Imported class %q could not be loaded", name)
			}
			u.staticOnDemand = append(u.staticOnDemand, c)
		}
	}
}

// simpleType resolves an unqualified type name as seen from u: types of the
// unit, single-type imports, the unit's package, then on-demand imports and
// java.lang.
func (s *session) simpleType(u *unit, loc ast.Location, name string) *loader.Class {
	for _, td := range u.cu.Types {
		if td.TypeName() == name {
			return s.types[qualify(u.pkg, name)].class
		}
	}
	if c, ok := u.single[name]; ok {
		return c
	}
	if c := s.lookupClass(qualify(u.pkg, name)); c != nil {
		return c
	}
	var found *loader.Class
	for _, pkg := range append(u.onDemand, "java.lang") {
		c := s.lookupClass(pkg + "." + name)
		if c == nil || c == found {
			continue
		}
		if found != nil {
			fail(loc, KindResolution, "Ambiguous type name %q: %s and %s", name, found.Name, c.Name)
		}
		found = c
	}
	return found
}

func (s *session) resolveClass(u *unit, t *ast.ReferenceType) *loader.Class {
	var c *loader.Class
	if len(t.Identifiers) == 1 {
		c = s.simpleType(u, t.Loc(), t.Identifiers[0])
	} else {
		c = s.lookupClass(t.Name())
	}
	if c == nil {
		fail(t.Loc(), KindResolution, "Cannot determine simple type name %q", t.Name())
	}
	return c
}

// resolveType maps a syntactic type to a runtime type. Type arguments are
// erased.
func (s *session) resolveType(u *unit, t ast.Type) *loader.Type {
	switch t := t.(type) {
	case *ast.PrimitiveType:
		if pt := loader.PrimitiveNamed(t.Primitive.String()); pt != nil {
			return pt
		}
		fail(t.Loc(), KindType, "Unknown primitive type")
	case *ast.ArrayType:
		elem := s.resolveType(u, t.Component)
		if elem == loader.Void {
			fail(t.Loc(), KindType, "Array of void")
		}
		return loader.ArrayOf(elem)
	case *ast.ReferenceType:
		for _, arg := range t.TypeArguments {
			if _, ok := arg.(*ast.Wildcard); !ok {
				s.resolveType(u, arg)
			}
		}
		return s.resolveClass(u, t).Type()
	case *ast.Wildcard:
		fail(t.Loc(), KindType, "Wildcard is only allowed as a type argument")
	case nil:
		fail(ast.Location{}, KindType, "Missing type")
	}
	fail(t.Loc(), KindUnsupported, "Unsupported type %s", t.Kind())
	return nil
}

func withBrackets(t *loader.Type, n int) *loader.Type {
	for range n {
		t = loader.ArrayOf(t)
	}
	return t
}

func (s *session) declareHierarchy(ci *classInfo) {
	u := ci.unit
	switch d := ci.decl.(type) {
	case *ast.ClassDeclaration:
		super := s.object()
		if d.Extends != nil {
			super = s.resolveClass(u, d.Extends)
			if super.IsInterface() {
				fail(d.Extends.Loc(), KindType, "%q is an interface; classes can only extend classes", super.Name)
			}
			if super.Flags.IsFinal() {
				fail(d.Extends.Loc(), KindType, "Cannot extend final class %q", super.Name)
			}
		}
		ci.class.Super = super
		for _, rt := range d.Implements {
			ci.class.Interfaces = append(ci.class.Interfaces, s.interfaceType(u, rt))
		}
	case *ast.InterfaceDeclaration:
		for _, rt := range d.Extends {
			ci.class.Interfaces = append(ci.class.Interfaces, s.interfaceType(u, rt))
		}
	}
}

func (s *session) interfaceType(u *unit, rt *ast.ReferenceType) *loader.Class {
	c := s.resolveClass(u, rt)
	if !c.IsInterface() {
		fail(rt.Loc(), KindType, "%q is not an interface", c.Name)
	}
	return c
}

// checkCycles rejects a class that is its own supertype.
func (s *session) checkCycles(ci *classInfo) {
	seen := map[*loader.Class]bool{}
	var visit func(c *loader.Class)
	visit = func(c *loader.Class) {
		if c == nil || seen[c] {
			return
		}
		seen[c] = true
		for _, sup := range append([]*loader.Class{c.Super}, c.Interfaces...) {
			if sup == ci.class {
				fail(ci.decl.Loc(), KindType, "Cyclic inheritance involving %q", ci.class.Name)
			}
			visit(sup)
		}
	}
	visit(ci.class)
}

func (s *session) declareMembers(ci *classInfo) {
	s.checkCycles(ci)
	iface := ci.class.IsInterface()
	for _, m := range ci.decl.TypeMembers() {
		switch m := m.(type) {
		case *ast.FieldDeclaration:
			s.declareField(ci, m, iface)
		case *ast.MethodDeclaration:
			s.declareMethod(ci, m, iface)
		case *ast.ConstructorDeclaration:
			if iface {
				fail(m.Loc(), KindType, "Interfaces cannot declare constructors")
			}
			s.declareConstructor(ci, m)
		case *ast.Initializer:
			if iface {
				fail(m.Loc(), KindType, "Interfaces cannot declare initializers")
			}
			ci.inits = append(ci.inits, initItem{static: m.Static, block: m.Body})
		}
	}
	if !iface && len(ci.ctors) == 0 {
		flags := ci.class.Flags & loader.AccPublic
		ctor := ci.class.AddConstructor(&loader.Method{Flags: flags})
		ci.ctors = append(ci.ctors, &methodInfo{method: ctor, loc: ci.decl.Loc()})
	}
}

func (s *session) declareField(ci *classInfo, fd *ast.FieldDeclaration, iface bool) {
	base := s.resolveType(ci.unit, fd.Type)
	if base == loader.Void {
		fail(fd.Type.Loc(), KindType, "Field type cannot be void")
	}
	flags := accessFlags(fd.Modifiers)
	if iface {
		flags |= loader.AccPublic | loader.AccStatic | loader.AccFinal
	}
	for _, v := range fd.Variables {
		if ci.class.DeclaredField(v.Name) != nil {
			fail(v.Loc(), KindDuplicate, "Redefinition of field %q", v.Name)
		}
		f := ci.class.AddField(&loader.Field{Name: v.Name, Type: withBrackets(base, v.Brackets), Flags: flags})
		if v.Initializer != nil {
			ci.inits = append(ci.inits, initItem{static: flags.IsStatic(), field: f, decl: v})
		} else if iface {
			fail(v.Loc(), KindType, "Interface field %q must be initialized", v.Name)
		}
	}
}

func (s *session) parameterTypes(u *unit, params []*ast.FormalParameter) []*loader.Type {
	types := make([]*loader.Type, len(params))
	for i, p := range params {
		t := s.resolveType(u, p.Type)
		if t == loader.Void {
			fail(p.Loc(), KindType, "Parameter %q cannot be void", p.Name)
		}
		if p.VarArgs {
			if i != len(params)-1 {
				fail(p.Loc(), KindType, "Only the last parameter may be variable-arity")
			}
			t = loader.ArrayOf(t)
		}
		types[i] = t
	}
	return types
}

func (s *session) thrown(u *unit, refs []*ast.ReferenceType) []*loader.Class {
	var out []*loader.Class
	throwable := s.lookupClass(loader.Throwable)
	for _, rt := range refs {
		c := s.resolveClass(u, rt)
		if !throwable.IsAssignableFrom(c) {
			fail(rt.Loc(), KindType, "%q is not a throwable", c.Name)
		}
		out = append(out, c)
	}
	return out
}

func (s *session) declareMethod(ci *classInfo, md *ast.MethodDeclaration, iface bool) {
	u := ci.unit
	m := &loader.Method{
		Name:   md.Name,
		Params: s.parameterTypes(u, md.Parameters),
		Return: s.resolveType(u, md.ReturnType),
		Flags:  accessFlags(md.Modifiers),
		Thrown: s.thrown(u, md.Thrown),
	}
	if n := len(md.Parameters); n > 0 && md.Parameters[n-1].VarArgs {
		m.Flags |= loader.AccVarargs
	}
	if iface {
		if md.Modifiers.Has(ast.ModDefault) {
			fail(md.Loc(), KindUnsupported, "Default methods are not supported")
		}
		m.Flags |= loader.AccPublic
		if !m.Flags.IsStatic() {
			m.Flags |= loader.AccAbstract
		}
	}
	switch {
	case m.Flags.IsNative():
		fail(md.Loc(), KindUnsupported, "Native method %q is not supported", md.Name)
	case m.Flags.IsAbstract():
		if md.Body != nil {
			fail(md.Loc(), KindType, "Abstract method %q cannot have a body", md.Name)
		}
		if !ci.class.Flags.IsAbstract() {
			fail(md.Loc(), KindType, "Non-abstract class %q declares abstract method %q", ci.class.Name, md.Name)
		}
	case md.Body == nil:
		fail(md.Loc(), KindType, "Method %q must have a body", md.Name)
	}
	desc := m.Descriptor()
	for _, prev := range ci.class.Methods {
		if prev.Name == m.Name && loader.MethodDescriptor(prev.Params, loader.Void) == loader.MethodDescriptor(m.Params, loader.Void) {
			fail(md.Loc(), KindDuplicate, "Redefinition of method %q", m.Name+desc[:strings.IndexByte(desc, ')')+1])
		}
	}
	ci.class.AddMethod(m)
	ci.methods = append(ci.methods, &methodInfo{method: m, params: md.Parameters, body: md.Body, loc: md.Loc()})
}

func (s *session) declareConstructor(ci *classInfo, cd *ast.ConstructorDeclaration) {
	if cd.Name != ci.decl.TypeName() {
		fail(cd.Loc(), KindType, "Constructor %q does not match class %q", cd.Name, ci.decl.TypeName())
	}
	u := ci.unit
	params := s.parameterTypes(u, cd.Parameters)
	if _, err := ci.class.Constructor(params...); err == nil {
		fail(cd.Loc(), KindDuplicate, "Redefinition of constructor %s%s", cd.Name, loader.MethodDescriptor(params, loader.Void))
	}
	flags := accessFlags(cd.Modifiers) & (loader.AccPublic | loader.AccPrivate | loader.AccProtected)
	if n := len(cd.Parameters); n > 0 && cd.Parameters[n-1].VarArgs {
		flags |= loader.AccVarargs
	}
	m := ci.class.AddConstructor(&loader.Method{Params: params, Flags: flags, Thrown: s.thrown(u, cd.Thrown)})
	body := cd.Body
	if body == nil {
		body = &ast.Block{Location: cd.Loc()}
	}
	ci.ctors = append(ci.ctors, &methodInfo{
		method:     m,
		params:     cd.Parameters,
		body:       body,
		loc:        cd.Loc(),
		invocation: cd.Invocation,
	})
}
