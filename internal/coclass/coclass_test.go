package coclass

import (
	"slices"
	"testing"

	"idlimp/internal/attr"
	"idlimp/internal/comments"
	"idlimp/internal/diag"
	"idlimp/internal/iface"
	"idlimp/internal/interop"
	"idlimp/internal/model"
	"idlimp/internal/resolve"
)

const (
	fooGUID  = "11111111-2222-3333-4444-555555555555"
	coGUID   = "AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE"
	baseGUID = "99999999-8888-7777-6666-555555555555"
)

func newCtx() (*resolve.Context, *diag.Bag) {
	bag := diag.NewBag(16)
	return resolve.New(diag.BagReporter{Bag: bag}, nil, nil), bag
}

func declare(ctx *resolve.Context, name, guid string, inherits []string, methods ...string) {
	decl := model.NewType(model.TypeInterface, name, inherits...)
	for _, m := range methods {
		decl.AddMember(model.NewMethod(m))
	}
	iface.HandleInterface(ctx, decl, attr.NewSet(attr.WithValue("uuid", guid)))
	ctx.Declare(decl)
}

func guidOf(tags []model.Tag) string {
	i := model.FindTag(tags, interop.TagGuid)
	if i < 0 || len(tags[i].Args) == 0 {
		return ""
	}
	return tags[i].Args[0].Value
}

func names(refs []model.TypeRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}

func expand(ctx *resolve.Context, name string, inherits ...string) (*model.TypeDecl, *model.TypeDecl, *model.TypeDecl, *comments.Table) {
	decl := model.NewType(model.TypeCoClass, name, inherits...)
	attrs := attr.NewSet(attr.WithValue("uuid", coGUID))
	HandleCoClassInterface(ctx, decl, attrs.Clone())
	ctx.Declare(decl)
	obj := DeclareObject(ctx, decl, attrs)
	extra := comments.NewTable()
	creator := DeclareCreator(decl, extra)
	return decl, obj, creator, extra
}

func TestCoClassExpansion(t *testing.T) {
	ctx, bag := newCtx()
	declare(ctx, "IFoo", fooGUID, []string{"IUnknown"}, "Bar")

	decl, obj, creator, extra := expand(ctx, "Foo", "IFoo")

	if got := guidOf(decl.Tags); got != fooGUID {
		t.Fatalf("synonym guid = %q, want %q", got, fooGUID)
	}
	if i := model.FindTag(decl.Tags, interop.TagCoClass); i < 0 || decl.Tags[i].Args[0].Value != "typeof(_FooClass)" {
		t.Fatalf("missing CoClass tag: %+v", decl.Tags)
	}
	if len(decl.StartRegions) != 1 || decl.StartRegions[0].Text != "Foo CoClass definitions" {
		t.Fatalf("regions = %+v", decl.StartRegions)
	}

	if obj.Name != "_FooClass" || obj.Kind != model.TypeClass {
		t.Fatalf("object = %s (%v)", obj.Name, obj.Kind)
	}
	if got, want := names(obj.Bases), []string{"Foo", "IFoo"}; !slices.Equal(got, want) {
		t.Fatalf("object bases = %v, want %v", got, want)
	}
	if got := guidOf(obj.Tags); got != coGUID {
		t.Fatalf("object guid = %q, want %q", got, coGUID)
	}
	for _, tag := range []string{interop.TagComImport, interop.TagClassInterface, interop.TagTypeLibType} {
		if !hasTag(obj.Tags, tag) {
			t.Fatalf("object lacks %s", tag)
		}
	}
	if len(obj.Members) != 1 {
		t.Fatalf("object members = %d, want 1", len(obj.Members))
	}
	m := obj.Members[0].(*model.Method)
	if m.Flags != model.FlagPublic|model.FlagExtern {
		t.Fatalf("member flags = %v", m.Flags.Strings())
	}
	if !m.ImplTagged || model.FindTag(m.Tags, interop.TagMethodImpl) < 0 {
		t.Fatalf("member not bound to the runtime")
	}

	if creator.Name != "FooClass" || creator.Flags != model.FlagPublic|model.FlagStatic {
		t.Fatalf("creator = %s %v", creator.Name, creator.Flags.Strings())
	}
	create := creator.Members[0].(*model.Method)
	if create.Name != "Create" || create.Return.Name != "Foo" || create.ReturnsNew != "_FooClass" {
		t.Fatalf("Create = %+v", create)
	}
	e, ok := extra.Lookup("FooClass")
	if !ok || e.Child("Create") == nil {
		t.Fatalf("creator comments not registered")
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestIMarshalIgnored(t *testing.T) {
	ctx, _ := newCtx()
	declare(ctx, "IFoo", fooGUID, nil, "Bar")

	decl, obj, _, _ := expand(ctx, "Foo", "IFoo", "IMarshal")
	if got := names(decl.Bases); !slices.Equal(got, []string{"IFoo"}) {
		t.Fatalf("bases = %v", got)
	}
	if len(obj.Members) != 1 {
		t.Fatalf("members = %d", len(obj.Members))
	}
}

func TestRedundantBaseCopiedOnce(t *testing.T) {
	ctx, _ := newCtx()
	declare(ctx, "IBase", baseGUID, nil, "Common")
	declare(ctx, "IFoo", fooGUID, []string{"IBase"}, "Own")

	_, obj, _, _ := expand(ctx, "Foo", "IFoo", "IBase")

	var got []string
	for _, m := range obj.Members {
		got = append(got, m.Common().Name)
	}
	if want := []string{"Common", "Own"}; !slices.Equal(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}
}

func TestLaterBasesComeFirst(t *testing.T) {
	ctx, _ := newCtx()
	declare(ctx, "IA", fooGUID, nil, "A")
	declare(ctx, "IB", baseGUID, nil, "B")

	_, obj, _, _ := expand(ctx, "Foo", "IA", "IB")

	var got []string
	for _, m := range obj.Members {
		got = append(got, m.Common().Name)
	}
	if want := []string{"B", "A"}; !slices.Equal(got, want) {
		t.Fatalf("members = %v, want %v", got, want)
	}
}

func TestMissingPrimaryGUID(t *testing.T) {
	ctx, bag := newCtx()

	decl, _, _, _ := expand(ctx, "Foo", "IUnknownToUs")
	if hasTag(decl.Tags, interop.TagGuid) {
		t.Fatalf("guid must be dropped when the primary interface has none")
	}
	if bag.Len() == 0 || bag.Items()[0].Code != diag.CclMissingGuid {
		t.Fatalf("want %v, got %+v", diag.CclMissingGuid, bag.Items())
	}
}

func hasTag(tags []model.Tag, name string) bool { return model.FindTag(tags, name) >= 0 }
