package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jcook/java/compiler"
	"github.com/dhamidi/jcook/java/loader"
	"github.com/dhamidi/jcook/java/parser"
)

func newRunCmd(cfg *Config) *cobra.Command {
	var className, methodName string

	cmd := &cobra.Command{
		Use:   "run <file> [args...]",
		Short: "Compile a .java file and call one of its methods",
		Long: `Compile a .java file and call a method of one of its classes.

The class defaults to the first one declared in the file, the method to
"main". A main(String[]) method receives all arguments; any other method
is chosen by its number of parameters, and each argument is converted to
the type of its parameter. Instance methods are called on an instance
created with the no-argument constructor. A non-void result is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if className == "" {
				className = cfg.Run.Class
			}
			if methodName == "" {
				methodName = cfg.Run.Method
			}
			if methodName == "" {
				methodName = "main"
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			defer f.Close()
			cu, err := parser.ParseCompilationUnit(f, parser.WithFile(args[0]))
			if err != nil {
				return err
			}
			if className == "" {
				if len(cu.Types) == 0 {
					return fmt.Errorf("%s declares no classes", args[0])
				}
				className = cu.Types[0].TypeName()
				if pkg := cu.PackageName(); pkg != "" && !strings.Contains(className, ".") {
					className = pkg + "." + className
				}
			}

			ld := loader.New(nil, loader.WithStdout(cmd.OutOrStdout()), loader.WithStderr(cmd.ErrOrStderr()))
			if err := compiler.New(ld).Cook(cu); err != nil {
				return err
			}
			class, err := ld.Resolve(className)
			if err != nil {
				return err
			}

			result, void, err := runMethod(class, methodName, args[1:])
			if err != nil {
				var ex *loader.Exception
				if errors.As(err, &ex) {
					return fmt.Errorf("uncaught %w", err)
				}
				return err
			}
			if !void {
				s, err := loader.Stringify(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&className, "class", "c", "", "class to run (default: first class in the file)")
	cmd.Flags().StringVarP(&methodName, "method", "m", "", `method to call (default "main")`)
	cmd.Flags().SetInterspersed(false) // Arguments after <file> belong to the method

	return cmd
}

// runMethod calls the method name of class that accepts args and reports
// whether it returns void.
func runMethod(class *loader.Class, name string, args []string) (any, bool, error) {
	methods := class.MethodsNamed(name)
	if len(methods) == 0 {
		return nil, false, fmt.Errorf("class %s has no method %q", class.Name, name)
	}
	var lastErr error
	for _, m := range methods {
		var vals []any
		switch {
		case isMain(m):
			strs := make([]any, len(args))
			for i, a := range args {
				strs[i] = a
			}
			vals = []any{loader.ArrayFromValues(m.Params[0], strs)}
		case len(m.Params) == len(args):
			var err error
			if vals, err = parseArgs(args, m.Params); err != nil {
				lastErr = fmt.Errorf("%s: %w", m, err)
				continue
			}
		default:
			continue
		}

		var this any
		if !m.Flags.IsStatic() {
			obj, err := class.NewInstance()
			if err != nil {
				return nil, false, err
			}
			this = obj
		}
		res, err := m.Invoke(this, vals...)
		return res, m.Return == loader.Void, err
	}
	if lastErr != nil {
		return nil, false, lastErr
	}
	return nil, false, fmt.Errorf("no method %s.%s takes %d arguments", class.Name, name, len(args))
}

func isMain(m *loader.Method) bool {
	return m.Name == "main" && len(m.Params) == 1 &&
		m.Params[0].IsArray() && m.Params[0].Elem.Is("java.lang.String")
}

func parseArgs(args []string, params []*loader.Type) ([]any, error) {
	vals := make([]any, len(args))
	for i, a := range args {
		v, err := parseArg(a, params[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// parseArg converts a command-line argument to a value of type t.
func parseArg(s string, t *loader.Type) (any, error) {
	switch {
	case t == loader.Boolean:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", s)
		}
		return b, nil
	case t == loader.Char:
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || r > 0xFFFF {
			return nil, fmt.Errorf("%q is not a single char", s)
		}
		return loader.Coerce(r, t)
	case t.IsIntegral():
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", s)
		}
		return loader.Coerce(n, t)
	case t == loader.Float || t == loader.Double:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		return loader.Coerce(f, t)
	case t.Is("java.lang.String"), t.Is("java.lang.Object"):
		return s, nil
	}
	return nil, fmt.Errorf("cannot pass %q as %s", s, t)
}
