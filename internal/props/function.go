// Package props turns IDL method declarations into interop members: it
// promotes retval parameters, converts single-parameter accessors into
// properties and merges getter/setter pairs afterwards.
package props

import (
	"strings"

	"idlimp/internal/attr"
	"idlimp/internal/diag"
	"idlimp/internal/interop"
	"idlimp/internal/model"
	"idlimp/internal/resolve"
	"idlimp/internal/trace"
)

// HandleFunction finishes a method of owner whose parameters have been
// converted already. rt is the declared return type, used only when the
// method preserves its signature. The result is either m or a Property
// replacing it; attrs is empty afterwards.
func HandleFunction(ctx *resolve.Context, owner *model.TypeDecl, m *model.Method, rt model.TypeRef, attrs *attr.Set) model.Member {
	subject := owner.Name + "." + m.Name

	preserveSig := false
	if c, ok := attrs.Find(attr.KindCustom); ok && c.Name == interop.PreserveSigMarker {
		if c.HasValue && c.Value != "false" {
			preserveSig = true
			m.PreserveSig = true
			m.Return = rt
			m.Tags = append(m.Tags, interop.PreserveSig())
		}
		attrs.Remove(c.Key)
	}

	var result model.Member = m
	_, get := attrs.Take(attr.KindPropGet)
	_, put := attrs.Take(attr.KindPropPut)
	_, putRef := attrs.Take(attr.KindPropPutRef)
	if get || put || putRef {
		if len(m.Params) == 1 {
			if put && putRef {
				diag.ReportWarning(ctx.Reporter, diag.PrpAccessorMix, subject,
					"both [propput] and [propputref] given; one setter is generated").Emit()
			}
			result = toProperty(ctx, m, get, put || putRef)
		} else {
			name := m.Name
			if get {
				m.Name = "get_" + m.Name
			}
			if put || putRef {
				if owner.MemberIndex("set_"+name) >= 0 {
					m.Name = "let_" + m.Name
				} else {
					m.Name = "set_" + m.Name
				}
			}
		}
	}

	if !preserveSig && result == m {
		promoteRetval(ctx, subject, m)
	}

	b := result.Common()
	if _, ok := attrs.Take(attr.KindLocal); ok {
		b.Tags = append(b.Tags, interop.Obsolete(interop.LocalObsoleteMessage))
	}
	if _, ok := attrs.Take(attr.KindRestricted); ok {
		b.Tags = append(b.Tags, interop.Restricted())
	}
	if w, ok := attrs.Take(attr.KindWarning); ok {
		b.Comments = append(b.Comments, model.Comment{Text: "<remarks>" + w.Value + "</remarks>", Doc: true})
	}
	b.Tags = append(b.Tags, interop.DrainTags(attrs)...)

	interop.ApplyMethodImpl(result, true)
	return result
}

func toProperty(ctx *resolve.Context, m *model.Method, get, set bool) *model.Property {
	param := m.Params[0]
	p := &model.Property{
		MemberBase: m.MemberBase,
		Type:       param.Type,
		HasGet:     get,
		HasSet:     set,
	}
	for _, t := range param.Tags {
		if strings.Contains(t.Name, interop.TagMarshalAs) && len(t.Args) > 0 {
			p.MarshalAs = t.Args[0].Value
		}
	}
	if p.MarshalAs == "" && len(param.Tags) == 0 && ctx.IsInterface(param.Type.Name) {
		p.MarshalAs = interop.UnmanagedInterface
	}
	return p
}

// promoteRetval makes the first non-array retval parameter the return value.
func promoteRetval(ctx *resolve.Context, subject string, m *model.Method) {
	m.Return = model.Void
	for i, p := range m.Params {
		if !p.Retval {
			continue
		}
		if p.Type.IsArray() {
			trace.Point(ctx.Tracer, trace.ScopeMember, "array-retval", subject+": "+p.Name)
			continue
		}
		m.Return = p.Type
		for _, t := range p.Tags {
			t.Target = interop.ReturnTarget
			m.ReturnTags = append(m.ReturnTags, t)
		}
		m.RemoveParam(i)
		return
	}
}
