package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/parser"
)

func newParseCmd() *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .java file and print the syntax tree outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			defer f.Close()

			cu, err := parser.ParseCompilationUnit(f, parser.WithFile(args[0]))
			if err != nil {
				return err
			}
			return outline(cmd.OutOrStdout(), cu, maxDepth)
		},
	}

	cmd.Flags().IntVarP(&maxDepth, "depth", "d", 0, "maximum depth to print, 0 for all")

	return cmd
}

// outline prints one line per node: its kind, position and, where it has
// one, its name or operator.
func outline(w io.Writer, n ast.Node, maxDepth int) error {
	var walk func(n ast.Node, depth int) error
	walk = func(n ast.Node, depth int) error {
		if maxDepth > 0 && depth >= maxDepth {
			return nil
		}
		line := strings.Repeat("  ", depth) + n.Kind().String() + " " + n.Loc().String()
		if label := nodeLabel(n); label != "" {
			line += " " + label
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, c := range ast.Children(n) {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(n, 0)
}

func nodeLabel(n ast.Node) string {
	switch n := n.(type) {
	case *ast.AmbiguousName:
		return n.String()
	case *ast.ReferenceType:
		return n.Name()
	case *ast.PrimitiveType:
		return n.Primitive.String()
	}
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return ""
	}
	for _, field := range []string{"Name", "Op", "Label", "Value", "Field"} {
		f := v.FieldByName(field)
		if f.IsValid() && f.Kind() == reflect.String && f.String() != "" {
			return f.String()
		}
	}
	return ""
}
