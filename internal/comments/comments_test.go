package comments

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"idlimp/internal/errors"
	"idlimp/internal/model"
)

const sample = `
[Foo]
summary = "Does foo things"

[Foo.children.Bar]
summary = "Runs the bar"

[Foo.children.Bar.children.count]
summary = "How many"

[Foo.children.Bar.children.result]
summary = "The outcome"

[Foo.children.Bar.attributes]
retval = "result"
exception = "E_FAIL,E_POINTER"
E_FAIL = "on failure"
E_POINTER = "on null"

[Foo.children.Size]
summary = "Cafe\u0301 size"
`

func texts(cs []model.Comment) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Text
	}
	return out
}

func TestParseNormalizes(t *testing.T) {
	tbl, err := Parse(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e, ok := tbl.Lookup("Foo")
	if !ok {
		t.Fatalf("Foo missing")
	}
	if got := e.Child("Size").Summary; got != "Caf\u00e9 size" {
		t.Fatalf("summary = %q, want NFC form", got)
	}
	if got := e.Child("Bar").Attributes["retval"]; got != "result" {
		t.Fatalf("retval = %q", got)
	}
}

func TestAnnotateInterface(t *testing.T) {
	tbl, err := Parse(sample)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	foo := model.NewType(model.TypeInterface, "IFoo")
	bar := model.NewMethod("Bar")
	bar.AddParam(&model.Param{Name: "count", Type: model.Ref("int")})
	bar.Return = model.Ref("int")
	foo.AddMember(bar)
	foo.AddMember(&model.Property{MemberBase: model.MemberBase{Name: "Size"}, Type: model.Ref("int"), HasGet: true})
	foo.AddMember(&model.Property{MemberBase: model.MemberBase{Name: "Name"}, Type: model.Ref("string"), HasGet: true, HasSet: true})
	ns := &model.Namespace{Types: []*model.TypeDecl{foo}}

	Annotate(ns, tbl)

	if got := texts(foo.Comments); !slices.Equal(got, []string{"<summary>Does foo things </summary>"}) {
		t.Fatalf("type comments = %q", got)
	}
	want := []string{
		"<summary>Runs the bar </summary>",
		"<param name='count'>How many </param>",
		"<returns>The outcome</returns>",
		`<exception cref="E_FAIL">on failure</exception>`,
		`<exception cref="E_POINTER">on null</exception>`,
	}
	if got := texts(bar.Comments); !slices.Equal(got, want) {
		t.Fatalf("method comments =\n%q\nwant\n%q", got, want)
	}
	if got := texts(foo.Members[2].Common().Comments); got[0] != "<summary>Gets/Sets a Name </summary>" || got[1] != "<returns>A string </returns>" {
		t.Fatalf("property comments = %q", got)
	}
}

func TestAnnotateFallbacks(t *testing.T) {
	tbl, err := Parse(`
[IBase.children.Count]
summary = "Number of items"
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	derived := model.NewType(model.TypeInterface, "IDerived")
	derived.Bases = []model.TypeRef{model.Ref("IBase")}
	derived.AddMember(model.NewMethod("get_Count"))
	derived.AddMember(model.NewMethod("Other"))
	ns := &model.Namespace{Types: []*model.TypeDecl{derived}}

	Annotate(ns, tbl)

	if got := derived.Comments[0].Text; got != "<summary>IDerived </summary>" {
		t.Fatalf("type summary = %q", got)
	}
	if got := derived.Members[0].Common().Comments[0].Text; got != "<summary>Number of items </summary>" {
		t.Fatalf("accessor summary = %q", got)
	}
	if got := derived.Members[1].Common().Comments[0].Text; got != "<summary>Member Other </summary>" {
		t.Fatalf("default summary = %q", got)
	}
}

func TestAnnotateSkips(t *testing.T) {
	long := strings.Repeat("x", 81)
	tbl := NewTable()
	tbl.Add("Impl", &Entry{Summary: long})

	done := model.NewType(model.TypeInterface, "IDone")
	done.Comments = []model.Comment{{Text: "kept", Doc: true}}
	done.AddMember(model.NewMethod("M"))

	impl := model.NewType(model.TypeClass, "Impl")
	hidden := model.NewMethod("Hidden")
	shown := model.NewMethod("Shown")
	shown.Flags = model.FlagPublic
	impl.AddMember(hidden)
	impl.AddMember(shown)

	Annotate(&model.Namespace{Types: []*model.TypeDecl{done, impl}}, tbl)

	if len(done.Comments) != 1 || len(done.Members[0].Common().Comments) != 0 {
		t.Fatalf("commented types must be left alone")
	}
	if got := impl.Comments[0].Text; got != "<summary>\n"+long+"\n</summary>" {
		t.Fatalf("long summary = %q", got)
	}
	if len(hidden.Comments) != 0 || len(shown.Comments) == 0 {
		t.Fatalf("private class members must be skipped")
	}
}

func TestLoadAndMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.toml")
	if err := os.WriteFile(path, []byte("[A]\nsummary = \"from file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	extra := NewTable()
	extra.Add("A", &Entry{Summary: "ignored"})
	extra.Add("B", &Entry{Summary: "added"})
	tbl.Merge(extra)

	if tbl.Len() != 2 {
		t.Fatalf("len = %d", tbl.Len())
	}
	if e, _ := tbl.Lookup("A"); e.Summary != "from file" {
		t.Fatalf("merge must not overwrite: %q", e.Summary)
	}
	if _, err := Load(context.Background(), filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatalf("want error for missing file")
	}
}

func TestLoadStopsWhenCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.toml")
	if err := os.WriteFile(path, []byte("[A]\nsummary = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, path); !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
