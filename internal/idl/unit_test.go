package idl

import (
	"os"
	"path/filepath"
	"testing"

	"idlimp/internal/attr"
	"idlimp/internal/errors"
)

const sample = `
library = "FwKernel"

[[decl]]
kind = "interface"
name = "IFoo"
bases = ["IUnknown"]
attributes = ["uuid=6C456541-C2B6-11d3-8078-0000C0FB81B5", "dual"]

[[decl.method]]
name = "Read"
returns = "HRESULT"

[[decl.method.param]]
text = "BYTE * pv[]"
attributes = ["out", "size_is=cb"]

[[decl.method.param]]
text = "int cb"

[[decl]]
kind = "enum"
name = "Color"
member = [{ name = "Red", value = "1" }, { name = "Green" }]

[[decl]]
kind = "coclass"
name = "Foo"
bases = ["IFoo"]
`

func TestParse(t *testing.T) {
	u, err := Parse(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Library != "FwKernel" || len(u.Decls) != 3 {
		t.Fatalf("unit = %+v", u)
	}
	kinds := []DeclKind{u.Decls[0].Kind, u.Decls[1].Kind, u.Decls[2].Kind}
	if kinds[0] != KindInterface || kinds[1] != KindEnum || kinds[2] != KindCoClass {
		t.Fatalf("declaration order lost: %v", kinds)
	}
	read := u.Decls[0].Methods[0]
	if read.Params[0].Name != "pv" || read.Params[1].Name != "cb" {
		t.Fatalf("declarators = %q, %q", read.Params[0].Name, read.Params[1].Name)
	}
	if got := u.Decls[1].Members[1]; got.Name != "Green" || got.Value != "" {
		t.Fatalf("member = %+v", got)
	}

	attrs := Attrs(u.Decls[0].Attributes)
	if g, ok := attrs.Find(attr.KindGuid); !ok || g.Value != "6C456541-C2B6-11d3-8078-0000C0FB81B5" {
		t.Fatalf("uuid not read as guid: %+v", attrs.All())
	}
	if !attrs.Has(attr.KindDual) {
		t.Fatalf("dual missing")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown kind", "[[decl]]\nkind = \"struct\"\nname = \"S\"\n"},
		{"unknown key", "[[decl]]\nkind = \"interface\"\nname = \"I\"\nparent = \"X\"\n"},
		{"unnamed interface", "[[decl]]\nkind = \"interface\"\n"},
		{"unnamed parameter", "[[decl]]\nkind = \"interface\"\nname = \"I\"\n[[decl.method]]\nname = \"M\"\n[[decl.method.param]]\ntext = \"int\"\n"},
		{"bad toml", "[[decl]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("want error")
			}
			if !errors.IsData(err) {
				t.Fatalf("want data error, got %v", err)
			}
		})
	}
}

func TestLoadKeepsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	u, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if u.Path() != path {
		t.Fatalf("path = %q", u.Path())
	}
}
