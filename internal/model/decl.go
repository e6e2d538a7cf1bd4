package model

// TypeKind discriminates type declarations.
type TypeKind uint8

const (
	TypeInterface TypeKind = iota + 1
	// TypeCoClass is the interface synonym declared for a coclass.
	TypeCoClass
	TypeClass
	TypeEnum
)

func (k TypeKind) String() string {
	switch k {
	case TypeInterface:
		return "interface"
	case TypeCoClass:
		return "coclass"
	case TypeClass:
		return "class"
	case TypeEnum:
		return "enum"
	default:
		return "invalid"
	}
}

// IsInterface reports kinds emitted as interfaces.
func (k TypeKind) IsInterface() bool { return k == TypeInterface || k == TypeCoClass }

// InterfaceKind is the COM dispatch flavour of an interface.
type InterfaceKind uint8

const (
	KindUnset InterfaceKind = iota
	KindDual
	KindUnknownBased
	KindDispatchBased
)

// Snippet is the enum value the emitter writes into the InterfaceType tag.
func (k InterfaceKind) Snippet() string {
	switch k {
	case KindDual:
		return "ComInterfaceType.InterfaceIsDual"
	case KindUnknownBased:
		return "ComInterfaceType.InterfaceIsIUnknown"
	case KindDispatchBased:
		return "ComInterfaceType.InterfaceIsIDispatch"
	default:
		return ""
	}
}

func (k InterfaceKind) String() string {
	switch k {
	case KindDual:
		return "dual"
	case KindUnknownBased:
		return "iunknown"
	case KindDispatchBased:
		return "idispatch"
	default:
		return "unset"
	}
}

type TypeDecl struct {
	Kind TypeKind
	Name string
	// Inherits lists the bases as declared, before flattening.
	Inherits     []string
	Bases        []TypeRef
	Members      []Member
	Tags         []Tag
	Comments     []Comment
	StartRegions []Region
	EndRegions   []Region
	Flags        Flags
	// IfaceKind is resolved by the interface resolver.
	IfaceKind InterfaceKind
}

func NewType(kind TypeKind, name string, inherits ...string) *TypeDecl {
	return &TypeDecl{Kind: kind, Name: name, Inherits: inherits}
}

// MemberIndex returns the index of the first member called name, or -1.
func (t *TypeDecl) MemberIndex(name string) int {
	for i, m := range t.Members {
		if m.Common().Name == name {
			return i
		}
	}
	return -1
}

func (t *TypeDecl) AddMember(m Member) {
	t.Members = append(t.Members, m)
}

// PrependMembers places ms ahead of the existing members.
func (t *TypeDecl) PrependMembers(ms []Member) {
	if len(ms) == 0 {
		return
	}
	t.Members = append(append(make([]Member, 0, len(ms)+len(t.Members)), ms...), t.Members...)
}

func (t *TypeDecl) RemoveMember(i int) {
	t.Members = append(t.Members[:i], t.Members[i+1:]...)
}

// Namespace is the unit handed to the emitter.
type Namespace struct {
	Name    string
	Imports []string
	Banner  []string
	Types   []*TypeDecl
}

func (n *Namespace) AddType(t *TypeDecl) { n.Types = append(n.Types, t) }

// Type returns the declaration called name, or nil.
func (n *Namespace) Type(name string) *TypeDecl {
	for _, t := range n.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AddImport appends ns unless it is already present.
func (n *Namespace) AddImport(ns string) {
	for _, have := range n.Imports {
		if have == ns {
			return
		}
	}
	n.Imports = append(n.Imports, ns)
}
