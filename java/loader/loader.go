// Package loader holds compiled classes and makes them invocable by name.
//
// A Loader delegates to its parent before looking at its own classes. Every
// chain ends in the immutable set of system classes (java.lang.Object,
// String, Math, the boxed-type helpers and the standard runtime exceptions).
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
)

var (
	ErrClassNotFound  = errors.New("class not found")
	ErrDuplicateClass = errors.New("duplicate class definition")
	ErrNoSuchMethod   = errors.New("no such method")
	ErrNoSuchField    = errors.New("no such field")
	ErrBadDescriptor  = errors.New("malformed descriptor")
	ErrInstantiation  = errors.New("cannot instantiate")
	ErrArgument       = errors.New("illegal argument")
)

type Loader struct {
	parent *Loader

	mu      sync.RWMutex
	classes map[string]*Class
	sealed  bool

	stdout, stderr io.Writer
	streamsOnce    sync.Once
	streams        [2]*Object
}

type Option func(*Loader)

// WithStdout sends System.out of code running in the loader to w.
func WithStdout(w io.Writer) Option {
	return func(l *Loader) {
		l.stdout = w
	}
}

// WithStderr sends System.err of code running in the loader to w.
func WithStderr(w io.Writer) Option {
	return func(l *Loader) {
		l.stderr = w
	}
}

// New returns an empty loader. A nil parent delegates to the system classes
// directly. Output streams not set by opts are inherited from the parent.
func New(parent *Loader, opts ...Option) *Loader {
	if parent == nil {
		parent = system()
	}
	l := &Loader{parent: parent, classes: make(map[string]*Class)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Parent() *Loader {
	return l.parent
}

// Define registers classes. Either all of them are added or none is: a name
// that is already visible from l, or repeated within classes, fails with
// ErrDuplicateClass.
func (l *Loader) Define(classes ...*Class) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sealed {
		return fmt.Errorf("%w: the system loader is immutable", ErrDuplicateClass)
	}
	batch := make(map[string]bool, len(classes))
	for _, c := range classes {
		if batch[c.Name] || l.classes[c.Name] != nil || (l.parent != nil && l.parent.Lookup(c.Name) != nil) {
			return fmt.Errorf("%w: %s", ErrDuplicateClass, c.Name)
		}
		batch[c.Name] = true
	}
	for _, c := range classes {
		c.link()
		l.classes[c.Name] = c
	}
	return nil
}

// Lookup returns the class or nil.
func (l *Loader) Lookup(name string) *Class {
	if l.parent != nil {
		if c := l.parent.Lookup(name); c != nil {
			return c
		}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.classes[name]
}

func (l *Loader) Resolve(name string) (*Class, error) {
	if c := l.Lookup(name); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrClassNotFound, name)
}

// Names lists the classes defined directly in l, sorted.
func (l *Loader) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.classes))
	for n := range l.classes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasPackage reports whether any visible class lives in pkg or one of its
// subpackages.
func (l *Loader) HasPackage(pkg string) bool {
	if l.parent != nil && l.parent.HasPackage(pkg) {
		return true
	}
	prefix := pkg + "."
	l.mu.RLock()
	defer l.mu.RUnlock()
	for n := range l.classes {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

// Stdout returns the writer behind System.out in l.
func (l *Loader) Stdout() io.Writer {
	for k := l; k != nil; k = k.parent {
		if k.stdout != nil {
			return k.stdout
		}
	}
	return os.Stdout
}

// Stderr returns the writer behind System.err in l.
func (l *Loader) Stderr() io.Writer {
	for k := l; k != nil; k = k.parent {
		if k.stderr != nil {
			return k.stderr
		}
	}
	return os.Stderr
}

// Get reads f as code running in l sees it: System.out and System.err are
// print streams on the loader's own writers.
func (l *Loader) Get(f *Field, obj *Object) (any, error) {
	if f.Class.Name == "java.lang.System" && f.Flags.IsStatic() {
		switch f.Name {
		case "out":
			return l.printStream(0), nil
		case "err":
			return l.printStream(1), nil
		}
	}
	return f.Get(obj)
}

func (l *Loader) printStream(i int) *Object {
	l.streamsOnce.Do(func() {
		ps := system().Lookup("java.io.PrintStream")
		l.streams[0] = &Object{Class: ps, Native: l.Stdout, id: nextID.Add(1)}
		l.streams[1] = &Object{Class: ps, Native: l.Stderr, id: nextID.Add(1)}
	})
	return l.streams[i]
}
