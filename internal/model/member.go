package model

// MemberKind discriminates the Member variants.
type MemberKind uint8

const (
	MemberMethod MemberKind = iota + 1
	MemberProperty
	MemberField
)

func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberProperty:
		return "property"
	case MemberField:
		return "field"
	default:
		return "invalid"
	}
}

// Member is implemented by *Method, *Property and *Field only.
type Member interface {
	Kind() MemberKind
	Common() *MemberBase
	// CloneMember returns an owned deep copy.
	CloneMember() Member
}

// MemberBase holds what every member kind shares.
type MemberBase struct {
	Name         string
	Flags        Flags
	Tags         []Tag
	Comments     []Comment
	StartRegions []Region
	EndRegions   []Region
	// ImplTagged records that the MethodImpl directive was applied.
	ImplTagged bool
}

func (b *MemberBase) Common() *MemberBase { return b }

func (b MemberBase) clone() MemberBase {
	b.Tags = cloneTags(b.Tags)
	b.Comments = append([]Comment(nil), b.Comments...)
	b.StartRegions = append([]Region(nil), b.StartRegions...)
	b.EndRegions = append([]Region(nil), b.EndRegions...)
	return b
}

// Direction of a method parameter.
type Direction uint8

const (
	DirIn Direction = iota
	DirOut
	DirInOut
)

func (d Direction) String() string {
	switch d {
	case DirOut:
		return "out"
	case DirInOut:
		return "ref"
	default:
		return "in"
	}
}

// Param is a method parameter. SizeIs and Retval are pending markers set by
// the rule engine and consumed once the whole method is known.
type Param struct {
	Name   string
	Type   TypeRef
	Dir    Direction
	Tags   []Tag
	SizeIs string
	Retval bool
	// Owner points back to the method the parameter belongs to.
	Owner *Method
}

type Method struct {
	MemberBase
	Params      []*Param
	Return      TypeRef
	ReturnTags  []Tag
	PreserveSig bool
	// ReturnsNew names the type a synthesized factory body instantiates.
	ReturnsNew string
}

func NewMethod(name string) *Method {
	return &Method{MemberBase: MemberBase{Name: name}, Return: Void}
}

func (*Method) Kind() MemberKind { return MemberMethod }

// AddParam appends p and binds its owner.
func (m *Method) AddParam(p *Param) {
	p.Owner = m
	m.Params = append(m.Params, p)
}

// ParamIndex returns the position of the parameter called name, or -1.
func (m *Method) ParamIndex(name string) int {
	for i, p := range m.Params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// RemoveParam drops the parameter at i.
func (m *Method) RemoveParam(i int) {
	m.Params = append(m.Params[:i], m.Params[i+1:]...)
}

func (m *Method) Clone() *Method {
	out := &Method{
		MemberBase:  m.MemberBase.clone(),
		Return:      m.Return,
		ReturnTags:  cloneTags(m.ReturnTags),
		PreserveSig: m.PreserveSig,
		ReturnsNew:  m.ReturnsNew,
	}
	for _, p := range m.Params {
		cp := *p
		cp.Tags = cloneTags(p.Tags)
		out.AddParam(&cp)
	}
	return out
}

func (m *Method) CloneMember() Member { return m.Clone() }

type Property struct {
	MemberBase
	Type    TypeRef
	HasGet  bool
	HasSet  bool
	GetTags []Tag
	SetTags []Tag
	// MarshalAs is the marshaling hint inferred from the accessor parameter.
	MarshalAs string
}

func (*Property) Kind() MemberKind { return MemberProperty }

func (p *Property) Clone() *Property {
	out := *p
	out.MemberBase = p.MemberBase.clone()
	out.GetTags = cloneTags(p.GetTags)
	out.SetTags = cloneTags(p.SetTags)
	return &out
}

func (p *Property) CloneMember() Member { return p.Clone() }

// InitKind says how a field's initializer is spelled.
type InitKind uint8

const (
	InitNone InitKind = iota
	InitLiteral
	InitExpr
)

type Init struct {
	Kind    InitKind
	Literal int64
	Expr    string
}

type Field struct {
	MemberBase
	Init Init
}

func (*Field) Kind() MemberKind { return MemberField }

func (f *Field) Clone() *Field {
	out := *f
	out.MemberBase = f.MemberBase.clone()
	return &out
}

func (f *Field) CloneMember() Member { return f.Clone() }
