package importer

import (
	"context"

	"idlimp/internal/attr"
	"idlimp/internal/coclass"
	"idlimp/internal/comments"
	"idlimp/internal/enums"
	"idlimp/internal/idl"
	"idlimp/internal/iface"
	"idlimp/internal/interop"
	"idlimp/internal/model"
	"idlimp/internal/props"
	"idlimp/internal/resolve"
	"idlimp/internal/rules"
	"idlimp/internal/trace"
)

// builder replays a parsed unit through the import passes, in declaration
// order, into ns.
type builder struct {
	ctx    *resolve.Context
	engine *rules.Engine
	enums  *enums.Resolver
	// extra collects documentation for synthesized declarations.
	extra *comments.Table
	ns    *model.Namespace
}

func newBuilder(ctx *resolve.Context, engine *rules.Engine, ns *model.Namespace) *builder {
	return &builder{
		ctx:    ctx,
		engine: engine,
		enums:  enums.NewResolver(ctx),
		extra:  comments.NewTable(),
		ns:     ns,
	}
}

func (b *builder) build(ctx context.Context, u *idl.Unit) error {
	for i := range u.Decls {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := &u.Decls[i]
		_, span := trace.Start(ctx, trace.ScopeDecl, string(d.Kind)+" "+d.Name)
		var err error
		switch d.Kind {
		case idl.KindInterface:
			b.declareInterface(d)
		case idl.KindCoClass:
			b.declareCoClass(d)
		case idl.KindEnum:
			err = b.declareEnum(d)
		}
		span.End("")
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) declareInterface(d *idl.Decl) {
	decl := model.NewType(model.TypeInterface, d.Name, d.Bases...)
	for i := range d.Methods {
		decl.AddMember(b.method(decl, &d.Methods[i]))
	}
	iface.HandleInterface(b.ctx, decl, idl.Attrs(d.Attributes))
	b.declare(decl)
}

// method converts the parameters of md, then resolves size_is references
// and finally lets the property pass decide what member md becomes.
func (b *builder) method(owner *model.TypeDecl, md *idl.Method) model.Member {
	m := model.NewMethod(md.Name)
	for _, pd := range md.Params {
		p := &model.Param{Name: b.engine.ConvertParamName(pd.Name)}
		p.Type = b.engine.ConvertParamType(pd.Text, p, idl.Attrs(pd.Attributes))
		m.AddParam(p)
	}

	attrs := idl.Attrs(md.Attributes)
	b.engine.ResolveSizeIs(owner.Name+"."+m.Name, m, attrs)

	rt := model.Void
	if md.Returns != "" {
		rt = b.engine.ConvertParamType(md.Returns, nil, attr.NewSet())
	}
	return props.HandleFunction(b.ctx, owner, m, rt, attrs)
}

func (b *builder) declareCoClass(d *idl.Decl) {
	decl := model.NewType(model.TypeCoClass, d.Name, d.Bases...)
	attrs := idl.Attrs(d.Attributes)
	coclass.HandleCoClassInterface(b.ctx, decl, attrs.Clone())
	b.declare(decl)
	b.declare(coclass.DeclareObject(b.ctx, decl, attrs))
	b.declare(coclass.DeclareCreator(decl, b.extra))
}

func (b *builder) declareEnum(d *idl.Decl) error {
	decl := model.NewType(model.TypeEnum, d.Name)
	for _, md := range d.Members {
		f, err := b.enums.CreateMember(d.Name, md.Name, md.Value)
		if err != nil {
			return err
		}
		decl.AddMember(f)
	}
	decl.Tags = append(decl.Tags, interop.DrainTags(idl.Attrs(d.Attributes))...)
	b.declare(decl)
	return nil
}

func (b *builder) declare(t *model.TypeDecl) {
	b.ns.AddType(t)
	b.ctx.Declare(t)
}
