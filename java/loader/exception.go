package loader

import "errors"

// Names of the runtime exception classes raised by the loader and by
// compiled code.
const (
	Throwable                       = "java.lang.Throwable"
	ArithmeticException             = "java.lang.ArithmeticException"
	ArrayIndexOutOfBoundsException  = "java.lang.ArrayIndexOutOfBoundsException"
	ArrayStoreException             = "java.lang.ArrayStoreException"
	ClassCastException              = "java.lang.ClassCastException"
	IllegalArgumentException        = "java.lang.IllegalArgumentException"
	NegativeArraySizeException      = "java.lang.NegativeArraySizeException"
	NullPointerException            = "java.lang.NullPointerException"
	NumberFormatException           = "java.lang.NumberFormatException"
	StackOverflowError              = "java.lang.StackOverflowError"
	StringIndexOutOfBoundsException = "java.lang.StringIndexOutOfBoundsException"
)

// Exception is a thrown Java object travelling as a Go error.
type Exception struct {
	Object *Object
}

type throwableState struct {
	message    string
	hasMessage bool
}

// NewException instantiates a system exception class with a message.
func NewException(class, message string) *Exception {
	c := system().Lookup(class)
	if c == nil {
		panic("loader: unknown system exception " + class)
	}
	obj := c.Allocate()
	obj.Native = &throwableState{message: message, hasMessage: true}
	return &Exception{Object: obj}
}

func (e *Exception) Class() *Class {
	return e.Object.Class
}

// Message returns the detail message, or "" when there is none.
func (e *Exception) Message() string {
	if st, ok := e.Object.Native.(*throwableState); ok {
		return st.message
	}
	return ""
}

func (e *Exception) Error() string {
	if msg := e.Message(); msg != "" {
		return e.Object.Class.Name + ": " + msg
	}
	return e.Object.Class.Name
}

// InstanceOf reports whether the exception's class is class or a subclass
// of it.
func (e *Exception) InstanceOf(class string) bool {
	for c := e.Object.Class; c != nil; c = c.Super {
		if c.Name == class {
			return true
		}
	}
	return false
}

// AsException unwraps err to a thrown Java exception.
func AsException(err error) (*Exception, bool) {
	var ex *Exception
	ok := errors.As(err, &ex)
	return ex, ok
}
