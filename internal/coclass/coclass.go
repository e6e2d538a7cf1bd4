// Package coclass expands a COM coclass into the three declarations the
// target runtime needs: an interface synonym for the primary interface, a
// hidden implementation class bound to the runtime, and a public static
// creator.
package coclass

import (
	"idlimp/internal/attr"
	"idlimp/internal/comments"
	"idlimp/internal/diag"
	"idlimp/internal/iface"
	"idlimp/internal/interop"
	"idlimp/internal/model"
	"idlimp/internal/resolve"
	"idlimp/internal/trace"
)

// ObjectName is the name of the hidden implementation class of coclass name.
func ObjectName(name string) string { return "_" + name + "Class" }

// CreatorName is the name of the static creator class of coclass name.
func CreatorName(name string) string { return name + "Class" }

// HandleCoClassInterface turns decl into the interface synonym of its first
// base. The GUID in attrs is replaced by that base's GUID before the
// attributes are moved onto decl; attrs is left empty.
func HandleCoClassInterface(ctx *resolve.Context, decl *model.TypeDecl, attrs *attr.Set) {
	decl.StartRegions = append(decl.StartRegions, model.Region{Start: true, Text: decl.Name + " CoClass definitions"})
	decl.Tags = append(decl.Tags, interop.ComImport(), interop.CoClass(ObjectName(decl.Name)))

	inherits := make([]string, 0, len(decl.Inherits))
	for _, b := range decl.Inherits {
		if b == interop.IMarshal {
			continue
		}
		inherits = append(inherits, b)
	}
	decl.Inherits = inherits

	if len(decl.Inherits) == 0 {
		diag.ReportWarning(ctx.Reporter, diag.CclMissingBase, decl.Name,
			"coclass "+decl.Name+" implements no interface").Emit()
		ctx.Log.Warning("coclass " + decl.Name + " implements no interface")
		attrs.Remove(attr.KindGuid.Key())
	} else {
		primary := decl.Inherits[0]
		if guid, ok := ctx.GUID(primary); ok {
			attrs.Put(attr.WithValue(attr.KindGuid.Key(), guid))
		} else {
			attrs.Remove(attr.KindGuid.Key())
			diag.ReportWarning(ctx.Reporter, diag.CclMissingGuid, decl.Name,
				"no GUID recorded for "+primary).Emit()
		}
	}

	decl.Bases = decl.Bases[:0]
	for _, b := range decl.Inherits {
		decl.Bases = append(decl.Bases, model.Ref(b))
	}
	decl.Tags = append(decl.Tags, interop.DrainTags(attrs)...)
}

// DeclareObject builds the hidden class implementing coclass decl. Members
// of every non-redundant base are copied in ahead of the class's own ones and
// bound to the runtime. The remaining attrs, including the coclass's own
// GUID, become tags of the class.
func DeclareObject(ctx *resolve.Context, decl *model.TypeDecl, attrs *attr.Set) *model.TypeDecl {
	name := ObjectName(decl.Name)
	obj := model.NewType(model.TypeClass, name)
	obj.Flags = model.FlagInternal
	obj.Tags = append(obj.Tags,
		interop.ComImport(),
		interop.ClassInterfaceNone(),
		interop.TypeLibCanCreate())

	obj.Bases = append(obj.Bases, model.Ref(decl.Name))
	if len(decl.Inherits) > 0 {
		obj.Bases = append(obj.Bases, model.Ref(decl.Inherits[0]))
	}

	for _, base := range decl.Inherits {
		if ctx.Redundant(base, decl.Inherits) {
			trace.Point(ctx.Tracer, trace.ScopeDecl, "redundant-base", name+": "+base)
			continue
		}
		members, _, ok := iface.BaseMembers(ctx, base)
		if !ok {
			continue
		}
		for _, m := range members {
			m.Common().Flags = model.FlagPublic | model.FlagExtern
			interop.ApplyMethodImpl(m, false)
		}
		obj.PrependMembers(members)
	}

	obj.StartRegions = append(obj.StartRegions, model.Region{Start: true, Text: "Private " + name + " class"})
	obj.EndRegions = append(obj.EndRegions, model.Region{Text: name})
	obj.Tags = append(obj.Tags, interop.DrainTags(attrs)...)
	return obj
}

// DeclareCreator builds the public static class whose Create method returns
// a new instance of the hidden class. Its documentation goes into extra.
func DeclareCreator(decl *model.TypeDecl, extra *comments.Table) *model.TypeDecl {
	creator := model.NewType(model.TypeClass, CreatorName(decl.Name))
	creator.Flags = model.FlagPublic | model.FlagStatic

	create := model.NewMethod("Create")
	create.Flags = model.FlagPublic | model.FlagStatic
	create.Return = model.Ref(decl.Name)
	create.ReturnsNew = ObjectName(decl.Name)
	creator.AddMember(create)
	creator.EndRegions = append(creator.EndRegions, model.Region{})

	if extra != nil {
		extra.Add(creator.Name, &comments.Entry{
			Summary: "Helper class used to create a new instance of the " + decl.Name + " COM object",
			Children: map[string]*comments.Entry{
				"Create": {Summary: "Creates a new " + decl.Name + " object"},
			},
		})
	}
	return creator
}
