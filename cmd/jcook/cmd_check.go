package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jcook/java/workspace"
)

var (
	locationColor = color.New(color.Bold)
	warningColor  = color.New(color.FgYellow, color.Bold)
	okColor       = color.New(color.FgGreen)
)

func newCheckCmd(cfg *Config) *cobra.Command {
	var (
		watch bool
		jobs  int
	)

	cmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Compile .java files and report diagnostics",
		Long: `Compile every given .java file, or every .java file below a given
directory, each on its own, and print the diagnostics.

With --watch, files are checked again whenever they change.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("jobs") {
				jobs = cfg.Check.Jobs
			}
			paths, err := javaFiles(args)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			ds, err := workspace.CheckFiles(ctx, paths, jobs)
			if err != nil {
				return err
			}
			printDiagnostics(out, ds)
			if !watch {
				if len(ds) > 0 {
					return fmt.Errorf("%d of %d files have errors", len(ds), len(paths))
				}
				okColor.Fprintf(out, "%d files ok\n", len(paths))
				return nil
			}

			w, err := workspace.NewWatcher(args...)
			if err != nil {
				return err
			}
			return w.Watch(ctx, func(path string) {
				src, err := os.ReadFile(path)
				if err != nil {
					printDiagnostics(out, []workspace.Diagnostic{workspace.FromError(path, err)})
					return
				}
				ds := workspace.Check(path, src)
				if len(ds) == 0 {
					okColor.Fprintf(out, "%s ok\n", path)
				}
				printDiagnostics(out, ds)
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "check files again when they change")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files to check concurrently, 0 for one per CPU")

	return cmd
}

// javaFiles expands directories in args to the .java files below them.
func javaFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".java" {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func printDiagnostics(w io.Writer, ds []workspace.Diagnostic) {
	for _, d := range ds {
		loc := d.File
		if d.Loc.Line > 0 {
			loc = fmt.Sprintf("%s:%d:%d", d.File, d.Loc.Line, d.Loc.Column)
		}
		severity := errorColor
		if d.Severity == workspace.SeverityWarning {
			severity = warningColor
		}
		fmt.Fprintf(w, "%s: %s %s\n", locationColor.Sprint(loc), severity.Sprintf("%s:", d.Severity), d.Message)
	}
}
