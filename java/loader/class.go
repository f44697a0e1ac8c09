package loader

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// Func implements a method or constructor. this is nil for static methods,
// the receiver otherwise: an *Object, or a string for java.lang.String.
type Func func(this any, args []any) (any, error)

// DepthFunc is a Func that is told how many Java frames are on the stack,
// its own included.
type DepthFunc func(depth int, this any, args []any) (any, error)

type Class struct {
	Name       string
	Super      *Class
	Interfaces []*Class
	Flags      Flags
	Source     string

	Fields       []*Field
	Methods      []*Method
	Constructors []*Method

	// StaticInit runs static field initializers and static blocks in source
	// order. It may be nil.
	StaticInit func() error

	typ     *Type
	typOnce sync.Once

	linkOnce sync.Once
	slots    int
	statics  []any

	mu         sync.Mutex
	initState  initState
	initErr    error
	initOwner  uint64
	initDone   chan struct{}
	dispatchMu sync.Mutex
	dispatch   map[string]*Method
}

type initState int

const (
	uninitialized initState = iota
	initializing
	initialized
	failed
)

func NewClass(name string, flags Flags, super *Class) *Class {
	return &Class{Name: name, Flags: flags, Super: super}
}

func (c *Class) String() string {
	return c.Name
}

// Type returns the class type; repeated calls return the same pointer.
func (c *Class) Type() *Type {
	c.typOnce.Do(func() {
		c.typ = &Type{Kind: KindClass, Class: c}
	})
	return c.typ
}

func (c *Class) IsInterface() bool {
	return c.Flags.IsInterface()
}

// Package returns the package part of the name, or "" for the default
// package.
func (c *Class) Package() string {
	for i := len(c.Name) - 1; i >= 0; i-- {
		if c.Name[i] == '.' {
			return c.Name[:i]
		}
	}
	return ""
}

func (c *Class) SimpleName() string {
	if p := c.Package(); p != "" {
		return c.Name[len(p)+1:]
	}
	return c.Name
}

func (c *Class) AddField(f *Field) *Field {
	f.Class = c
	c.Fields = append(c.Fields, f)
	return f
}

func (c *Class) AddMethod(m *Method) *Method {
	m.Class = c
	c.Methods = append(c.Methods, m)
	return m
}

func (c *Class) AddConstructor(m *Method) *Method {
	m.Class = c
	m.Name = "<init>"
	m.Return = Void
	c.Constructors = append(c.Constructors, m)
	return m
}

// IsAssignableFrom reports whether a value of class d can be stored in a
// variable of class c.
func (c *Class) IsAssignableFrom(d *Class) bool {
	if d == nil {
		return false
	}
	if c == d || c.Name == "java.lang.Object" {
		return true
	}
	if d.Super != nil && c.IsAssignableFrom(d.Super) {
		return true
	}
	for _, i := range d.Interfaces {
		if c.IsAssignableFrom(i) {
			return true
		}
	}
	return false
}

// IsSubclassOf reports whether c is d or extends it, ignoring interfaces.
func (c *Class) IsSubclassOf(d *Class) bool {
	for k := c; k != nil; k = k.Super {
		if k == d {
			return true
		}
	}
	return false
}

// DeclaredField returns a field declared by c itself.
func (c *Class) DeclaredField(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field finds a field declared by c, its superclasses or its
// superinterfaces.
func (c *Class) Field(name string) (*Field, error) {
	if f := c.findField(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrNoSuchField, c.Name, name)
}

func (c *Class) findField(name string) *Field {
	if f := c.DeclaredField(name); f != nil {
		return f
	}
	for _, i := range c.Interfaces {
		if f := i.findField(name); f != nil {
			return f
		}
	}
	if c.Super != nil {
		return c.Super.findField(name)
	}
	return nil
}

// Method finds a method by name and exact parameter types, searching
// superclasses and superinterfaces.
func (c *Class) Method(name string, params ...*Type) (*Method, error) {
	for _, m := range c.MethodsNamed(name) {
		if sameTypes(m.Params, params) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s%s", ErrNoSuchMethod, c.Name, name, paramList(params))
}

func (c *Class) MethodByDescriptor(name, desc string) (*Method, error) {
	for _, m := range c.MethodsNamed(name) {
		if m.Descriptor() == desc {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s%s", ErrNoSuchMethod, c.Name, name, desc)
}

// MethodsNamed returns the methods called name that are members of c, most
// derived first. Overridden methods are omitted.
func (c *Class) MethodsNamed(name string) []*Method {
	var out []*Method
	seen := map[string]bool{}
	var visit func(k *Class)
	visit = func(k *Class) {
		for _, m := range k.Methods {
			if m.Name == name && !seen[m.Descriptor()] {
				seen[m.Descriptor()] = true
				out = append(out, m)
			}
		}
		if k.Super != nil {
			visit(k.Super)
		}
		for _, i := range k.Interfaces {
			visit(i)
		}
	}
	visit(c)
	return out
}

func (c *Class) Constructor(params ...*Type) (*Method, error) {
	for _, m := range c.Constructors {
		if sameTypes(m.Params, params) {
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s.<init>%s", ErrNoSuchMethod, c.Name, paramList(params))
}

// Dispatch returns the implementation of m selected by the runtime class c.
func (c *Class) Dispatch(m *Method) *Method {
	if m.Flags.IsStatic() || m.Flags.IsPrivate() || m.Name == "<init>" {
		return m
	}
	key := m.Name + m.Descriptor()
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	if impl, ok := c.dispatch[key]; ok {
		return impl
	}
	impl := m
	for k := c; k != nil; k = k.Super {
		if found := k.declaredMethod(m.Name, key); found != nil && found.Impl != nil {
			impl = found
			break
		}
	}
	if c.dispatch == nil {
		c.dispatch = make(map[string]*Method)
	}
	c.dispatch[key] = impl
	return impl
}

func (c *Class) declaredMethod(name, key string) *Method {
	for _, m := range c.Methods {
		if m.Name == name && m.Name+m.Descriptor() == key {
			return m
		}
	}
	return nil
}

// link assigns instance and static field slots. Superclasses are linked
// first.
func (c *Class) link() {
	c.linkOnce.Do(func() {
		if c.Super != nil {
			c.Super.link()
			c.slots = c.Super.slots
		}
		for _, f := range c.Fields {
			if f.Flags.IsStatic() {
				f.slot = len(c.statics)
				c.statics = append(c.statics, f.Type.Zero())
				continue
			}
			f.slot = c.slots
			c.slots++
		}
	})
}

// Initialize runs the static initializer once, after initializing the
// superclass. A failed initialization is sticky. A request made by the
// goroutine running the initializer returns at once, so initializers may
// refer to their own class; other goroutines wait for it to finish.
func (c *Class) Initialize() error {
	c.link()
	c.mu.Lock()
	for c.initState == initializing {
		if c.initOwner == goroutineID() {
			c.mu.Unlock()
			return nil
		}
		done := c.initDone
		c.mu.Unlock()
		<-done
		c.mu.Lock()
	}
	switch c.initState {
	case initialized:
		c.mu.Unlock()
		return nil
	case failed:
		c.mu.Unlock()
		return c.initErr
	}
	c.initState = initializing
	c.initOwner = goroutineID()
	c.initDone = make(chan struct{})
	c.mu.Unlock()

	var err error
	if c.Super != nil {
		err = c.Super.Initialize()
	}
	if err == nil && c.StaticInit != nil {
		err = c.StaticInit()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer close(c.initDone)
	if err != nil {
		c.initState, c.initErr = failed, fmt.Errorf("initializing %s: %w", c.Name, err)
		return c.initErr
	}
	c.initState = initialized
	return nil
}

// goroutineID parses the current goroutine's id from its stack header,
// "goroutine 42 [running]:".
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// Allocate returns a new instance with every field at its default value.
// No constructor runs.
func (c *Class) Allocate() *Object {
	c.link()
	obj := &Object{Class: c, Fields: make([]any, c.slots), id: nextID.Add(1)}
	for k := c; k != nil; k = k.Super {
		for _, f := range k.Fields {
			if !f.Flags.IsStatic() {
				obj.Fields[f.slot] = f.Type.Zero()
			}
		}
	}
	return obj
}

// NewInstance allocates an object and runs the constructor whose parameters
// accept args.
func (c *Class) NewInstance(args ...any) (*Object, error) {
	if c.Flags.IsAbstract() || c.IsInterface() {
		return nil, fmt.Errorf("%w: %s is abstract", ErrInstantiation, c.Name)
	}
	ctor, coerced, err := selectMethod(c.Name+".<init>", c.Constructors, args)
	if err != nil {
		return nil, err
	}
	if err := c.Initialize(); err != nil {
		return nil, err
	}
	obj := c.Allocate()
	if _, err := ctor.Impl(obj, coerced); err != nil {
		return nil, err
	}
	return obj, nil
}

type Field struct {
	Class *Class
	Name  string
	Type  *Type
	Flags Flags
	// Constant holds the value of a static final field with a constant
	// initializer.
	Constant any

	slot int
}

// Get reads the field of obj, or the static value when the field is static.
func (f *Field) Get(obj *Object) (any, error) {
	if f.Flags.IsStatic() {
		if err := f.Class.Initialize(); err != nil {
			return nil, err
		}
		f.Class.mu.Lock()
		defer f.Class.mu.Unlock()
		return f.Class.statics[f.slot], nil
	}
	if obj == nil {
		return nil, NewException(NullPointerException, "cannot read field \""+f.Name+"\" of null")
	}
	return obj.Fields[f.slot], nil
}

func (f *Field) Set(obj *Object, v any) error {
	if f.Flags.IsStatic() {
		if err := f.Class.Initialize(); err != nil {
			return err
		}
		f.Class.mu.Lock()
		defer f.Class.mu.Unlock()
		f.Class.statics[f.slot] = v
		return nil
	}
	if obj == nil {
		return NewException(NullPointerException, "cannot assign field \""+f.Name+"\" of null")
	}
	obj.Fields[f.slot] = v
	return nil
}

type Method struct {
	Class  *Class
	Name   string
	Params []*Type
	Return *Type
	Flags  Flags
	Thrown []*Class
	Impl   Func

	// Run, when set, is Impl for callers that count Java frames. Compiled
	// methods set it; Impl then runs them as the first frame.
	Run DepthFunc
}

func (m *Method) Descriptor() string {
	return MethodDescriptor(m.Params, m.Return)
}

func (m *Method) String() string {
	return m.Class.Name + "." + m.Name + paramList(m.Params)
}

// Object is an instance of a class other than String.
type Object struct {
	Class  *Class
	Fields []any
	// Native carries host state for system classes.
	Native any

	id uint64
}

var nextID atomic.Uint64

// IdentityHash is stable for the lifetime of the object.
func (o *Object) IdentityHash() int32 {
	return int32(o.id * 0x9e3779b1)
}

func sameTypes(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func paramList(ts []*Type) string {
	s := "("
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.Name()
	}
	return s + ")"
}
