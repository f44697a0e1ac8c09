package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/jcook/java/ast"
	"github.com/dhamidi/jcook/java/loader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		stage   Stage
		line    int
		message string
	}{
		{"clean", "class A { int f() { return 1; } }", "", 0, ""},
		{"scan", "class A { char c = 'ab'; }", StageScan, 1, ""},
		{"parse", "class A { int f() { return 1 } }", StageParse, 1, ""},
		{"compile", "class A {\n  int f() { return x; }\n}", StageCompile, 2, `Expression "x" is not an rvalue`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := Check("A.java", []byte(tt.src))
			if tt.stage == "" {
				if len(ds) != 0 {
					t.Fatalf("got %v, want no diagnostics", ds)
				}
				return
			}
			if len(ds) != 1 {
				t.Fatalf("got %d diagnostics, want 1: %v", len(ds), ds)
			}
			d := ds[0]
			if d.Stage != tt.stage || d.Loc.Line != tt.line || d.Severity != SeverityError {
				t.Errorf("got %+v, want stage %s at line %d", d, tt.stage, tt.line)
			}
			if !strings.Contains(d.Message, tt.message) {
				t.Errorf("message %q does not contain %q", d.Message, tt.message)
			}
		})
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "Good.java", "class Good { static int f() { return 1; } }")
	bad := writeFile(t, dir, "Bad.java", "class Bad {\n\n  void f() { undefined(); }\n}")
	missing := filepath.Join(dir, "Missing.java")

	ds, err := CheckFiles(context.Background(), []string{good, missing, bad}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(ds), ds)
	}
	if ds[0].File != bad || ds[0].Stage != StageCompile || ds[0].Loc.Line != 3 {
		t.Errorf("first diagnostic = %+v", ds[0])
	}
	if ds[1].File != missing || ds[1].Stage != StageIO {
		t.Errorf("second diagnostic = %+v", ds[1])
	}
}

func TestCheckFilesSeparateLoaders(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "A.java", "class Same { }")
	b := writeFile(t, dir, "B.java", "class Same { int x; }")

	ds, err := CheckFiles(context.Background(), []string{a, b}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 0 {
		t.Errorf("got %v, want no diagnostics", ds)
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckFiles(ctx, []string{"A.java"}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestFromErrorRuntime(t *testing.T) {
	d := FromError("T.java", loader.NewException(loader.ArithmeticException, "/ by zero"))
	if d.Stage != StageRun {
		t.Errorf("stage = %s, want %s", d.Stage, StageRun)
	}
	if !strings.Contains(d.Message, "/ by zero") {
		t.Errorf("message = %q", d.Message)
	}
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		d    Diagnostic
		want string
	}{
		{Diagnostic{File: "A.java", Loc: ast.Location{File: "A.java", Line: 2, Column: 5}, Severity: SeverityError, Message: "boom"}, "A.java:2:5: error: boom"},
		{Diagnostic{File: "src/A.java", Loc: ast.Location{Line: 1, Column: 1}, Severity: SeverityWarning, Message: "hm"}, "src/A.java:1:1: warning: hm"},
		{Diagnostic{File: "gone.java", Severity: SeverityError, Message: "no such file"}, "gone.java: error: no such file"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestToProtocol(t *testing.T) {
	ds := []Diagnostic{
		{Loc: ast.Location{Line: 3, Column: 7}, Severity: SeverityError, Message: "bad"},
		{Severity: SeverityWarning, Message: "no position"},
	}
	got := toProtocol(ds)
	if len(got) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(got))
	}
	if got[0].Range.Start != (protocol.Position{Line: 2, Character: 6}) || got[0].Range.End.Character != 7 {
		t.Errorf("range = %+v", got[0].Range)
	}
	if *got[0].Severity != protocol.DiagnosticSeverityError || got[0].Message != "bad" || *got[0].Source != lsName {
		t.Errorf("diagnostic = %+v", got[0])
	}
	if got[1].Range.Start != (protocol.Position{}) || *got[1].Severity != protocol.DiagnosticSeverityWarning {
		t.Errorf("diagnostic = %+v", got[1])
	}
	if toProtocol(nil) == nil {
		t.Error("empty diagnostics must encode as a list")
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///home/me/src/A.java", "/home/me/src/A.java"},
		{"file:///tmp/with%20space/B.java", "/tmp/with space/B.java"},
		{"untitled:Scratch", "untitled:Scratch"},
	}
	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("uriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	w.Debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan string, 16)
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx, func(path string) { changed <- path }) }()

	// Give the watcher time to register the directories.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, sub, "notes.txt", "ignored")
	path := writeFile(t, sub, "A.java", "class A { }")

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("got %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}
