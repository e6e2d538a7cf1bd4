package importer

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"idlimp/internal/diag"
	"idlimp/internal/enums"
	"idlimp/internal/errors"
	"idlimp/internal/interop"
	"idlimp/internal/logging"
	"idlimp/internal/model"
	"idlimp/internal/observ"
)

const kernelRules = `
[[param_type]]
attributes = "size_is"
match = 'BYTE\s*\*'
replace = 'byte[]'
new_attribute = "MarshalAs"
new_attr_value = "UnmanagedType.LPArray"

[[param_type]]
match = '\blong\b'
replace = 'int'
`

const kernelUnit = `
library = "Kernel"

[[decl]]
kind = "interface"
name = "IBase"
bases = ["IUnknown"]
attributes = ["uuid=00000000-0000-0000-0000-000000000001"]

[[decl.method]]
name = "Ping"
returns = "HRESULT"

[[decl]]
kind = "interface"
name = "IFoo"
bases = ["IBase"]
attributes = ["uuid=00000000-0000-0000-0000-000000000002"]

[[decl.method]]
name = "Read"
returns = "HRESULT"

[[decl.method.param]]
text = "BYTE * pv"
attributes = ["out", "size_is=cb"]

[[decl.method.param]]
text = "long cb"
attributes = ["in"]

[[decl.method]]
name = "Count"
attributes = ["propget"]

[[decl.method.param]]
text = "long pc"
attributes = ["out", "retval"]

[[decl.method]]
name = "Count"
attributes = ["propput"]

[[decl.method.param]]
text = "long c"
attributes = ["in"]

[[decl]]
kind = "enum"
name = "Color"
member = [{ name = "Red", value = "1" }, { name = "Green", value = "Shade + 1" }]

[[decl]]
kind = "enum"
name = "Tone"
member = [{ name = "Shade", value = "Red" }]

[[decl]]
kind = "coclass"
name = "Foo"
bases = ["IFoo"]
attributes = ["uuid=00000000-0000-0000-0000-0000000000F0"]
`

const kernelComments = `
[IFoo]
summary = "The foo interface"

[IFoo.children.Read]
summary = "Reads bytes"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func importKernel(t *testing.T, dir string) *Result {
	t.Helper()
	opts := Options{
		Input:          writeFile(t, dir, "kernel.toml", kernelUnit),
		Rules:          writeFile(t, dir, "rules.toml", kernelRules),
		Comments:       []string{writeFile(t, dir, "kernel.comments.toml", kernelComments)},
		CreateComments: true,
		Usings:         []string{"Extra.Stuff"},
		MaxDiagnostics: 32,
		Timer:          observ.NewTimer(),
	}
	res, err := Import(context.Background(), opts)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	return res
}

func memberNames(t *model.TypeDecl) []string {
	var out []string
	for _, m := range t.Members {
		out = append(out, m.Common().Name)
	}
	return out
}

func TestImportKernel(t *testing.T) {
	dir := t.TempDir()
	res := importKernel(t, dir)
	if !res.OK {
		t.Fatalf("import not ok: %s", diag.FormatShortDiagnostics(res.Bag.Items(), true))
	}
	ns := res.Namespace
	if ns.Name != "Kernel" {
		t.Fatalf("namespace = %q", ns.Name)
	}
	if want := append([]string{"Extra.Stuff"}, DefaultImports...); !slices.Equal(ns.Imports, want) {
		t.Fatalf("imports = %v, want %v", ns.Imports, want)
	}

	foo := ns.Type("IFoo")
	if got, want := memberNames(foo), []string{"Ping", "Read", "Count"}; !slices.Equal(got, want) {
		t.Fatalf("IFoo members = %v, want %v", got, want)
	}
	read := foo.Members[1].(*model.Method)
	pv := read.Params[0]
	if pv.Type.String() != "byte[]" || pv.Dir != model.DirOut {
		t.Fatalf("pv = %s %v", pv.Type, pv.Dir)
	}
	if a, ok := pv.Tags[0].Arg(interop.ArgSizeParamIndex); !ok || a.Value != "1" {
		t.Fatalf("pv tags = %+v", pv.Tags)
	}
	if read.Params[1].Type.Name != "int" {
		t.Fatalf("cb type = %s", read.Params[1].Type)
	}
	count := foo.Members[2].(*model.Property)
	if !count.HasGet || !count.HasSet || count.Type.Name != "int" {
		t.Fatalf("Count = %+v", count)
	}

	green := ns.Type("Color").Members[1].(*model.Field)
	if green.Init.Expr != "Tone.Shade + 1" {
		t.Fatalf("Green = %q", green.Init.Expr)
	}
	shade := ns.Type("Tone").Members[0].(*model.Field)
	if shade.Init.Expr != "Color.Red" {
		t.Fatalf("Shade = %q", shade.Init.Expr)
	}

	obj := ns.Type("_FooClass")
	if obj == nil || len(obj.Members) != 3 {
		t.Fatalf("_FooClass = %+v", obj)
	}
	creator := ns.Type("FooClass")
	if creator == nil || !strings.Contains(creator.Comments[0].Text, "Helper class used to create a new instance of the Foo COM object") {
		t.Fatalf("creator comments = %+v", creator)
	}
	if got := foo.Comments[0].Text; got != "<summary>The foo interface </summary>" {
		t.Fatalf("IFoo summary = %q", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "kernel.idlgraph")); err != nil {
		t.Fatalf("graph not written: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "kernel.outline"))
	if err != nil {
		t.Fatalf("outline not written: %v", err)
	}
	if !strings.Contains(string(out), "namespace Kernel") {
		t.Fatalf("outline:\n%s", out)
	}
}

func TestImportWithReference(t *testing.T) {
	dir := t.TempDir()
	kernel := importKernel(t, dir)

	unit := `
[[decl]]
kind = "interface"
name = "IBar"
bases = ["IFoo"]

[[decl.method]]
name = "Own"

[[decl]]
kind = "enum"
name = "Hue"
member = [{ name = "Warm", value = "Red" }]
`
	res, err := Import(context.Background(), Options{
		Input:      writeFile(t, dir, "views.toml", unit),
		References: []string{kernel.Graph},
		NoEmit:     true,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Namespace.Name != "views" {
		t.Fatalf("namespace = %q", res.Namespace.Name)
	}
	bar := res.Namespace.Type("IBar")
	if got, want := memberNames(bar), []string{"Ping", "Read", "Count", "Own"}; !slices.Equal(got, want) {
		t.Fatalf("IBar members = %v, want %v", got, want)
	}
	if bar.IfaceKind != model.KindUnknownBased {
		t.Fatalf("kind = %v, inherited from the referenced unit", bar.IfaceKind)
	}
	warm := res.Namespace.Type("Hue").Members[0].(*model.Field)
	if warm.Init.Expr != "Color.Red" {
		t.Fatalf("Warm = %q", warm.Init.Expr)
	}
}

func TestDuplicateEnumMemberIsFatal(t *testing.T) {
	dir := t.TempDir()
	unit := `
[[decl]]
kind = "enum"
name = "A"
member = [{ name = "X" }]

[[decl]]
kind = "enum"
name = "B"
member = [{ name = "X" }]
`
	core, logs := observer.New(zap.ErrorLevel)
	res, err := Import(context.Background(), Options{
		Input: writeFile(t, dir, "dup.toml", unit),
		Log:   logging.FromZap(zap.New(core)),
	})
	if !errors.Is(err, enums.ErrDuplicateMember) {
		t.Fatalf("want ErrDuplicateMember, got %v", err)
	}
	if res == nil || !res.Bag.HasFatal() {
		t.Fatalf("fatal diagnostic missing")
	}
	if logs.FilterMessageSnippet("defined in both B and A").Len() != 1 {
		t.Fatalf("collision not logged: %v", logs.All())
	}
	if _, statErr := os.Stat(filepath.Join(dir, "dup.outline")); statErr == nil {
		t.Fatalf("no output expected after a fatal error")
	}
}

func TestGetterAfterPutterFailsUnit(t *testing.T) {
	dir := t.TempDir()
	unit := `
[[decl]]
kind = "interface"
name = "IFoo"

[[decl.method]]
name = "Size"
attributes = ["propput"]

[[decl.method.param]]
text = "int v"

[[decl.method]]
name = "Size"
attributes = ["propget"]

[[decl.method.param]]
text = "int v"
attributes = ["out", "retval"]
`
	res, err := Import(context.Background(), Options{Input: writeFile(t, dir, "late.toml", unit)})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.OK {
		t.Fatalf("getter after putter must fail the unit")
	}
	if _, err := os.Stat(res.Output); err != nil {
		t.Fatalf("output must still be written: %v", err)
	}
}

func TestMissingInput(t *testing.T) {
	_, err := Import(context.Background(), Options{Input: filepath.Join(t.TempDir(), "none.toml")})
	if err == nil {
		t.Fatalf("want error")
	}
}

const twoBasesUnit = `
[[decl]]
kind = "interface"
name = "IA"
bases = ["IUnknown"]

[[decl]]
kind = "interface"
name = "IB"
bases = ["IUnknown"]

[[decl]]
kind = "coclass"
name = "Orphan"
bases = ["INotDeclared"]

[[decl]]
kind = "interface"
name = "IC"
bases = ["IA", "IB"]
`

const sizeIsUnit = `
[[decl]]
kind = "interface"
name = "IStream"

[[decl.method]]
name = "Read"

[[decl.method.param]]
text = "BYTE * pv"
attributes = ["out", "size_is=cbMissing"]
`

func TestErrorsFailUnitRegardlessOfLimit(t *testing.T) {
	tests := []struct {
		name string
		unit string
		max  int
		code diag.Code
	}{
		{"two bases, no limit", twoBasesUnit, 0, diag.IfcMultipleBases},
		{"two bases behind a warning", twoBasesUnit, 1, diag.IfcMultipleBases},
		{"unknown size_is sibling", sizeIsUnit, 0, diag.RulSizeIsUnresolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Import(context.Background(), Options{
				Input:          writeFile(t, t.TempDir(), "unit.toml", tt.unit),
				MaxDiagnostics: tt.max,
				NoEmit:         true,
				NoGraph:        true,
			})
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if res.OK {
				t.Fatalf("unit must fail, diagnostics: %s", diag.FormatShortDiagnostics(res.Bag.Items(), false))
			}
			if tt.max > 0 {
				if res.Bag.Len() != tt.max || res.Bag.Dropped() == 0 {
					t.Fatalf("len = %d, dropped = %d", res.Bag.Len(), res.Bag.Dropped())
				}
				return
			}
			found := false
			for _, d := range res.Bag.Items() {
				found = found || (d.Code == tt.code && d.Severity == diag.SevError)
			}
			if !found {
				t.Fatalf("want error %s, got %s", tt.code.ID(), diag.FormatShortDiagnostics(res.Bag.Items(), false))
			}
		})
	}
}

func TestEnumMemberClashesWithReference(t *testing.T) {
	dir := t.TempDir()
	kernel := importKernel(t, dir)

	unit := `
[[decl]]
kind = "enum"
name = "Hue"
member = [{ name = "Red", value = "7" }]
`
	core, logs := observer.New(zap.ErrorLevel)
	res, err := Import(context.Background(), Options{
		Input:      writeFile(t, dir, "hue.toml", unit),
		References: []string{kernel.Graph},
		Log:        logging.FromZap(zap.New(core)),
	})
	if !errors.Is(err, enums.ErrDuplicateMember) {
		t.Fatalf("want ErrDuplicateMember, got %v", err)
	}
	if !res.Bag.HasFatal() {
		t.Fatalf("fatal diagnostic missing")
	}
	if logs.FilterMessageSnippet("Red is defined in both Hue and Color").Len() != 1 {
		t.Fatalf("collision not logged: %v", logs.All())
	}
}

func TestDuplicateDiagnosticsReportedOnce(t *testing.T) {
	unit := twoBasesUnit + `
[[decl]]
kind = "interface"
name = "IC"
bases = ["IA", "IB"]
`
	res, err := Import(context.Background(), Options{
		Input:   writeFile(t, t.TempDir(), "twice.toml", unit),
		NoEmit:  true,
		NoGraph: true,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	n := 0
	for _, d := range res.Bag.Items() {
		if d.Code == diag.IfcMultipleBases {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("IFC2001 reported %d times, want 1", n)
	}
}
