package workspace

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"sort"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/jcook/java/compiler"
	"github.com/dhamidi/jcook/java/loader"
)

var log = commonlog.GetLogger("jcook.workspace")

// Check compiles src into a fresh loader and reports the first problem, if
// any.
func Check(name string, src []byte) []Diagnostic {
	ld := loader.New(nil)
	err := compiler.New(ld).CookSource(name, bytes.NewReader(src))
	if err != nil {
		log.Debugf("%s: %s", name, err)
		return []Diagnostic{FromError(name, err)}
	}
	log.Debugf("%s: defined %d classes", name, len(ld.Names()))
	return nil
}

// CheckFiles checks every path independently, at most jobs at a time, and
// returns the diagnostics sorted by file and position. jobs <= 0 means one
// per CPU. Unreadable files are reported as diagnostics; only cancellation
// of ctx is returned as an error.
func CheckFiles(ctx context.Context, paths []string, jobs int) ([]Diagnostic, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([][]Diagnostic, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				results[i] = []Diagnostic{FromError(path, err)}
				return nil
			}
			results[i] = Check(path, src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Diagnostic
	for _, ds := range results {
		out = append(out, ds...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Loc.Line != b.Loc.Line {
			return a.Loc.Line < b.Loc.Line
		}
		return a.Loc.Column < b.Loc.Column
	})
	log.Infof("checked %d files, %d diagnostics", len(paths), len(out))
	return out, nil
}
