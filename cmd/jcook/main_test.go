package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jcook/java/loader"
)

func writeJava(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jcook.toml")
	content := `
[run]
class = "app.Main"
method = "start"

[check]
jobs = 3

[log]
verbosity = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Run:   RunConfig{Class: "app.Main", Method: "start"},
		Check: CheckConfig{Jobs: 3},
		Log:   LogConfig{Verbosity: 2},
	}
	if *cfg != want {
		t.Errorf("got %+v, want %+v", *cfg, want)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jcook.toml")
	cfg, err := loadConfig(path, false)
	if err != nil {
		t.Fatalf("implicit missing config: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("got %+v, want zero config", *cfg)
	}
	if _, err := loadConfig(path, true); err == nil {
		t.Error("explicit missing config: want error")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jcook.toml")
	if err := os.WriteFile(path, []byte("[run]\nklass = \"Main\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := loadConfig(path, true)
	if err == nil || !strings.Contains(err.Error(), "run.klass") {
		t.Errorf("got %v, want unknown key error", err)
	}
}

func TestParseArg(t *testing.T) {
	str := loader.New(nil).Lookup("java.lang.String").Type()
	tests := []struct {
		in      string
		typ     *loader.Type
		want    any
		wantErr bool
	}{
		{"true", loader.Boolean, true, false},
		{"yes", loader.Boolean, nil, true},
		{"x", loader.Char, uint16('x'), false},
		{"xy", loader.Char, nil, true},
		{"-5", loader.Byte, int8(-5), false},
		{"300", loader.Byte, nil, true},
		{"0x10", loader.Int, int32(16), false},
		{"9000000000", loader.Long, int64(9000000000), false},
		{"9000000000", loader.Int, nil, true},
		{"1.5", loader.Double, 1.5, false},
		{"2", loader.Float, float32(2), false},
		{"hello", str, "hello", false},
		{"1", loader.ArrayOf(loader.Int), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in+"/"+tt.typ.Name(), func(t *testing.T) {
			got, err := parseArg(tt.in, tt.typ)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("got %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func execute(t *testing.T, cfg *Config, args ...string) (string, error) {
	t.Helper()
	var cmd *cobra.Command
	switch args[0] {
	case "run":
		cmd = newRunCmd(cfg)
	case "check":
		cmd = newCheckCmd(cfg)
	case "parse":
		cmd = newParseCmd()
	case "fmt":
		cmd = newFmtCmd()
	default:
		t.Fatalf("unknown command %q", args[0])
	}
	var out bytes.Buffer
	cmd.SetArgs(args[1:])
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return out.String(), err
}

const calculator = `package calc;

public class Calc {
    public static int add(int a, int b) { return a + b; }
    public static void main(String[] args) {
        System.out.println("args: " + args.length);
    }
    public String greet(String name) { return "hello " + name; }
    public static int fail() { return 1 / 0; }
}
`

func TestRunCmd(t *testing.T) {
	path := writeJava(t, "Calc.java", calculator)
	tests := []struct {
		name string
		cfg  Config
		args []string
		want string
	}{
		{"main by default", Config{}, []string{path, "a", "b"}, "args: 2\n"},
		{"static method", Config{}, []string{"--method", "add", path, "3", "4"}, "7\n"},
		{"instance method", Config{}, []string{"-m", "greet", path, "world"}, "hello world\n"},
		{"method from config", Config{Run: RunConfig{Class: "calc.Calc", Method: "add"}}, []string{path, "1", "-2"}, "-1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			got, err := execute(t, &cfg, append([]string{"run"}, tt.args...)...)
			if err != nil {
				t.Fatalf("run: %v\n%s", err, got)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunCmdErrors(t *testing.T) {
	path := writeJava(t, "Calc.java", calculator)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"exception", []string{"-m", "fail", path}, "/ by zero"},
		{"bad argument", []string{"-m", "add", path, "x", "1"}, `"x" is not an integer`},
		{"wrong arity", []string{"-m", "add", path, "1"}, "takes 1 arguments"},
		{"unknown method", []string{"-m", "nope", path}, `has no method "nope"`},
		{"unknown class", []string{"-c", "Missing", path}, "Missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, &Config{}, append([]string{"run"}, tt.args...)...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestCheckCmd(t *testing.T) {
	good := writeJava(t, "Good.java", "class Good { int f() { return 1; } }")
	bad := writeJava(t, "Bad.java", "class Bad { int f() { return y; } }")

	out, err := execute(t, &Config{}, "check", good)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "1 files ok") {
		t.Errorf("output %q", out)
	}

	out, err = execute(t, &Config{}, "check", good, bad)
	if err == nil {
		t.Fatal("want error for failing file")
	}
	if !strings.Contains(out, bad+":1:") || !strings.Contains(out, `Expression "y" is not an rvalue`) {
		t.Errorf("output %q", out)
	}
}

func TestParseCmd(t *testing.T) {
	path := writeJava(t, "A.java", "class A { int f() { return 1 + 2; } }")
	out, err := execute(t, &Config{}, "parse", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"ClassDeclaration", " A\n", "MethodDeclaration", " f\n", "BinaryOperation", " +\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("outline lacks %q:\n%s", want, out)
		}
	}

	out, err = execute(t, &Config{}, "parse", "--depth", "1", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("depth 1 outline:\n%s", out)
	}
}

func TestFmtCmd(t *testing.T) {
	path := writeJava(t, "A.java", "class A{int f(){return 1*(2+3);}}")
	out, err := execute(t, &Config{}, "fmt", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "return 1 * (2 + 3);") {
		t.Errorf("output:\n%s", out)
	}
}
