package main

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const unitSrc = `
[[decl]]
kind = "interface"
name = "IFoo"
bases = ["IUnknown"]

[[decl.method]]
name = "Run"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (int, string) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	importCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color=off"}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return run(), out.String()
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "unit.toml", unitSrc)
	out := filepath.Join(dir, "unit.txt")

	code, log := execute(t, "import", "-o", out, "-n", "My.Space", "-u", "A;B", input)
	if code != exitOK {
		t.Fatalf("exit = %d, log:\n%s", code, log)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if !strings.Contains(string(data), "namespace My.Space") || !strings.Contains(string(data), "using B") {
		t.Fatalf("outline:\n%s", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "unit.idlgraph")); err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.Contains(log, "Generating unit.txt...") {
		t.Fatalf("log = %q", log)
	}
}

func TestImportExitCodes(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.toml", "[[decl]]\nkind = \"struct\"\nname = \"S\"\n")
	if code, log := execute(t, "import", bad); code != exitData {
		t.Fatalf("malformed unit: exit = %d, log:\n%s", code, log)
	}

	dup := writeFile(t, dir, "dup.toml", `
[[decl]]
kind = "enum"
name = "A"
member = [{ name = "X" }]

[[decl]]
kind = "enum"
name = "B"
member = [{ name = "X" }]
`)
	if code, log := execute(t, "import", dup); code != exitData {
		t.Fatalf("duplicate member: exit = %d, log:\n%s", code, log)
	}
}

func TestTraceRingDumpedOnFatal(t *testing.T) {
	dir := t.TempDir()
	dup := writeFile(t, dir, "dup.toml", `
[[decl]]
kind = "enum"
name = "A"
member = [{ name = "X" }]

[[decl]]
kind = "enum"
name = "B"
member = [{ name = "X" }]
`)
	code, log := execute(t, "--trace-ring-size", "64", "import", dup)
	if code != exitData {
		t.Fatalf("exit = %d, log:\n%s", code, log)
	}
	if !strings.Contains(log, "trace: last events before the failure") || !strings.Contains(log, "→ build") {
		t.Fatalf("ring not dumped:\n%s", log)
	}

	input := writeFile(t, dir, "unit.toml", unitSrc)
	if code, log := execute(t, "--trace-ring-size", "64", "import", input); code != exitOK || strings.Contains(log, "trace:") {
		t.Fatalf("exit = %d, unexpected dump:\n%s", code, log)
	}
}

func TestManifestDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, manifestName, `
[import]
namespace = "From.Manifest"
usings = ["Extra"]
comments = ["docs/a.toml"]
create_comments = false
`)
	sub := filepath.Join(dir, "idl")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	m, ok, err := loadProjectManifest(sub)
	if err != nil || !ok {
		t.Fatalf("manifest: ok=%v err=%v", ok, err)
	}
	c := m.Config.Import
	if c.Namespace != "From.Manifest" || !slices.Equal(c.Usings, []string{"Extra"}) {
		t.Fatalf("config = %+v", c)
	}
	if c.Comments[0] != filepath.Join(dir, "docs", "a.toml") {
		t.Fatalf("comments path = %q", c.Comments[0])
	}
	if c.CreateComments == nil || *c.CreateComments {
		t.Fatalf("create_comments not read")
	}
}

func TestManifestErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, manifestName, "[project]\nname = \"x\"\n")
	if _, err := loadProjectConfig(path); err == nil {
		t.Fatalf("want error for a manifest without [import]")
	}
	writeFile(t, dir, manifestName, "[import]\nrule = \"typo\"\n")
	if _, err := loadProjectConfig(path); err == nil {
		t.Fatalf("want error for an unknown key")
	}
}

func TestSplitPaths(t *testing.T) {
	got := splitPaths([]string{"a;b", " c ", ";"})
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
