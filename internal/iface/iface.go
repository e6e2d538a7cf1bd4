// Package iface flattens COM interface inheritance.
//
// The target object model allows a single formal base per interface, so the
// members of the accepted base are copied into the derived interface and
// IUnknown/IDispatch turn into the interface kind instead of a base.
package iface

import (
	"idlimp/internal/attr"
	"idlimp/internal/diag"
	"idlimp/internal/interop"
	"idlimp/internal/model"
	"idlimp/internal/resolve"
	"idlimp/internal/trace"
)

// HandleInterface resolves the bases of decl, copies inherited members in,
// records its GUID and kind in ctx and moves the remaining attributes onto
// the declaration as tags.
func HandleInterface(ctx *resolve.Context, decl *model.TypeDecl, attrs *attr.Set) {
	decl.Tags = append(decl.Tags, interop.ComImport())

	kind := model.KindUnset
	if _, ok := attrs.Take(attr.KindDual); ok {
		kind = model.KindDual
	}
	if g, ok := attrs.Find(attr.KindGuid); ok {
		ctx.SetGUID(decl.Name, g.Value)
	}

	accepted := false
	for _, base := range decl.Inherits {
		if bk, ok := interop.BuiltinKind(base); ok {
			switch kind {
			case model.KindUnset:
				kind = bk
			case bk:
			default:
				kind = model.KindDual
			}
			continue
		}
		// a base reachable through another declared base is not a second base
		if ctx.Redundant(base, decl.Inherits) {
			trace.Point(ctx.Tracer, trace.ScopeDecl, "redundant-base", decl.Name+": "+base)
			continue
		}
		if accepted {
			diag.ReportError(ctx.Reporter, diag.IfcMultipleBases, decl.Name,
				"only one base class supported (interface "+decl.Name+")").
				WithNote(decl.Name, "ignored base "+base).
				Emit()
			ctx.Log.Error("only one base class supported (interface " + decl.Name + ")")
			continue
		}
		if members, bk, ok := BaseMembers(ctx, base); ok {
			decl.PrependMembers(members)
			if kind == model.KindUnset {
				kind = bk
			}
		}
		decl.Bases = append(decl.Bases, model.Ref(base))
		accepted = true
	}

	decl.IfaceKind = kind
	ctx.SetKind(decl.Name, kind)
	if kind != model.KindUnset && kind != model.KindDual {
		decl.Tags = append(decl.Tags, interop.InterfaceType(kind))
	}
	decl.Tags = append(decl.Tags, interop.DrainTags(attrs)...)
}

// BaseMembers returns owned copies of the methods and properties of the
// interface called name, made public and marked as hiding the inherited
// member, together with that interface's kind. ok is false when name is
// not declared.
func BaseMembers(ctx *resolve.Context, name string) (members []model.Member, kind model.InterfaceKind, ok bool) {
	base := ctx.Lookup(name)
	if base == nil {
		trace.Point(ctx.Tracer, trace.ScopeDecl, "base-not-found", name)
		return nil, model.KindUnset, false
	}

	members = make([]model.Member, 0, len(base.Members))
	for _, m := range base.Members {
		switch m.Kind() {
		case model.MemberMethod, model.MemberProperty:
		default:
			ctx.Log.Warning("unhandled member type " + m.Kind().String() + " " + name + "." + m.Common().Name)
			continue
		}
		c := m.CloneMember()
		b := c.Common()
		b.Flags = b.Flags&^(model.FlagPublic|model.FlagInternal) | model.FlagPublic | model.FlagHidesBase
		members = append(members, c)
	}
	return members, ctx.Kind(name), true
}
