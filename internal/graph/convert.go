package graph

import (
	"idlimp/internal/model"
	"idlimp/internal/resolve"
)

// Encode converts a namespace and its side tables into a payload.
func Encode(ns *model.Namespace, tables resolve.Tables) *Payload {
	p := &Payload{
		Schema:     SchemaVersion,
		Namespace:  ns.Name,
		Imports:    ns.Imports,
		Types:      make([]TypePayload, 0, len(ns.Types)),
		GUIDs:      tables.GUIDs,
		EnumOwners: tables.EnumOwners,
		Kinds:      make(map[string]uint8, len(tables.Kinds)),
	}
	for name, k := range tables.Kinds {
		p.Kinds[name] = uint8(k)
	}
	for _, t := range ns.Types {
		p.Types = append(p.Types, encodeType(t))
	}
	return p
}

func encodeType(t *model.TypeDecl) TypePayload {
	out := TypePayload{
		Kind:      uint8(t.Kind),
		Name:      t.Name,
		Inherits:  t.Inherits,
		Tags:      encodeTags(t.Tags),
		Comments:  encodeComments(t.Comments),
		Start:     encodeRegions(t.StartRegions),
		End:       encodeRegions(t.EndRegions),
		Flags:     uint16(t.Flags),
		IfaceKind: uint8(t.IfaceKind),
	}
	for _, b := range t.Bases {
		out.Bases = append(out.Bases, encodeRef(b))
	}
	for _, m := range t.Members {
		out.Members = append(out.Members, encodeMember(m))
	}
	return out
}

func encodeMember(m model.Member) MemberPayload {
	b := m.Common()
	out := MemberPayload{
		Kind:     uint8(m.Kind()),
		Name:     b.Name,
		Flags:    uint16(b.Flags),
		Tags:     encodeTags(b.Tags),
		Comments: encodeComments(b.Comments),
		Start:    encodeRegions(b.StartRegions),
		End:      encodeRegions(b.EndRegions),
		Impl:     b.ImplTagged,
	}
	switch m := m.(type) {
	case *model.Method:
		for _, p := range m.Params {
			out.Params = append(out.Params, ParamPayload{
				Name:   p.Name,
				Type:   encodeRef(p.Type),
				Dir:    uint8(p.Dir),
				Tags:   encodeTags(p.Tags),
				SizeIs: p.SizeIs,
				Retval: p.Retval,
			})
		}
		out.Return = encodeRef(m.Return)
		out.ReturnTags = encodeTags(m.ReturnTags)
		out.PreserveSig = m.PreserveSig
		out.ReturnsNew = m.ReturnsNew
	case *model.Property:
		out.Type = encodeRef(m.Type)
		out.HasGet = m.HasGet
		out.HasSet = m.HasSet
		out.GetTags = encodeTags(m.GetTags)
		out.SetTags = encodeTags(m.SetTags)
		out.MarshalAs = m.MarshalAs
	case *model.Field:
		out.InitKind = uint8(m.Init.Kind)
		out.InitLiteral = m.Init.Literal
		out.InitExpr = m.Init.Expr
	}
	return out
}

func encodeRef(r model.TypeRef) RefPayload { return RefPayload{Name: r.Name, Rank: r.ArrayRank} }

func encodeTags(tags []model.Tag) []TagPayload {
	if len(tags) == 0 {
		return nil
	}
	out := make([]TagPayload, len(tags))
	for i, t := range tags {
		out[i] = TagPayload{Target: t.Target, Name: t.Name}
		for _, a := range t.Args {
			out[i].Args = append(out[i].Args, [2]string{a.Name, a.Value})
		}
	}
	return out
}

func encodeComments(cs []model.Comment) []CommentPayload {
	if len(cs) == 0 {
		return nil
	}
	out := make([]CommentPayload, len(cs))
	for i, c := range cs {
		out[i] = CommentPayload(c)
	}
	return out
}

func encodeRegions(rs []model.Region) []RegionPayload {
	if len(rs) == 0 {
		return nil
	}
	out := make([]RegionPayload, len(rs))
	for i, r := range rs {
		out[i] = RegionPayload(r)
	}
	return out
}

// Decode rebuilds the namespace and side tables held by p. Parameters are
// bound to their owning methods again.
func Decode(p *Payload) (*model.Namespace, resolve.Tables) {
	ns := &model.Namespace{Name: p.Namespace, Imports: p.Imports}
	for i := range p.Types {
		ns.AddType(decodeType(&p.Types[i]))
	}
	tables := resolve.Tables{
		GUIDs:      p.GUIDs,
		EnumOwners: p.EnumOwners,
		Kinds:      make(map[string]model.InterfaceKind, len(p.Kinds)),
	}
	for name, k := range p.Kinds {
		tables.Kinds[name] = model.InterfaceKind(k)
	}
	return ns, tables
}

func decodeType(tp *TypePayload) *model.TypeDecl {
	t := model.NewType(model.TypeKind(tp.Kind), tp.Name, tp.Inherits...)
	t.Tags = decodeTags(tp.Tags)
	t.Comments = decodeComments(tp.Comments)
	t.StartRegions = decodeRegions(tp.Start)
	t.EndRegions = decodeRegions(tp.End)
	t.Flags = model.Flags(tp.Flags)
	t.IfaceKind = model.InterfaceKind(tp.IfaceKind)
	for _, b := range tp.Bases {
		t.Bases = append(t.Bases, decodeRef(b))
	}
	for i := range tp.Members {
		if m := decodeMember(&tp.Members[i]); m != nil {
			t.AddMember(m)
		}
	}
	return t
}

func decodeMember(mp *MemberPayload) model.Member {
	base := model.MemberBase{
		Name:         mp.Name,
		Flags:        model.Flags(mp.Flags),
		Tags:         decodeTags(mp.Tags),
		Comments:     decodeComments(mp.Comments),
		StartRegions: decodeRegions(mp.Start),
		EndRegions:   decodeRegions(mp.End),
		ImplTagged:   mp.Impl,
	}
	switch model.MemberKind(mp.Kind) {
	case model.MemberMethod:
		m := &model.Method{
			MemberBase:  base,
			Return:      decodeRef(mp.Return),
			ReturnTags:  decodeTags(mp.ReturnTags),
			PreserveSig: mp.PreserveSig,
			ReturnsNew:  mp.ReturnsNew,
		}
		for _, pp := range mp.Params {
			m.AddParam(&model.Param{
				Name:   pp.Name,
				Type:   decodeRef(pp.Type),
				Dir:    model.Direction(pp.Dir),
				Tags:   decodeTags(pp.Tags),
				SizeIs: pp.SizeIs,
				Retval: pp.Retval,
			})
		}
		return m
	case model.MemberProperty:
		return &model.Property{
			MemberBase: base,
			Type:       decodeRef(mp.Type),
			HasGet:     mp.HasGet,
			HasSet:     mp.HasSet,
			GetTags:    decodeTags(mp.GetTags),
			SetTags:    decodeTags(mp.SetTags),
			MarshalAs:  mp.MarshalAs,
		}
	case model.MemberField:
		return &model.Field{
			MemberBase: base,
			Init: model.Init{
				Kind:    model.InitKind(mp.InitKind),
				Literal: mp.InitLiteral,
				Expr:    mp.InitExpr,
			},
		}
	}
	return nil
}

func decodeRef(r RefPayload) model.TypeRef { return model.TypeRef{Name: r.Name, ArrayRank: r.Rank} }

func decodeTags(tags []TagPayload) []model.Tag {
	if len(tags) == 0 {
		return nil
	}
	out := make([]model.Tag, len(tags))
	for i, t := range tags {
		out[i] = model.Tag{Target: t.Target, Name: t.Name}
		for _, a := range t.Args {
			out[i].Args = append(out[i].Args, model.TagArg{Name: a[0], Value: a[1]})
		}
	}
	return out
}

func decodeComments(cs []CommentPayload) []model.Comment {
	if len(cs) == 0 {
		return nil
	}
	out := make([]model.Comment, len(cs))
	for i, c := range cs {
		out[i] = model.Comment(c)
	}
	return out
}

func decodeRegions(rs []RegionPayload) []model.Region {
	if len(rs) == 0 {
		return nil
	}
	out := make([]model.Region, len(rs))
	for i, r := range rs {
		out[i] = model.Region(r)
	}
	return out
}
