// Package interop holds the runtime-interop vocabulary the import passes
// attach to declarations: tag names, their canonical argument snippets and
// the MethodImpl marshaling directive.
package interop

import (
	"idlimp/internal/attr"
	"idlimp/internal/model"
)

const (
	TagComImport      = "ComImport"
	TagGuid           = "Guid"
	TagInterfaceType  = "InterfaceType"
	TagCoClass        = "CoClass"
	TagClassInterface = "ClassInterface"
	TagTypeLibType    = "TypeLibType"
	TagTypeLibFunc    = "TypeLibFunc"
	TagMethodImpl     = "MethodImpl"
	TagPreserveSig    = "PreserveSig"
	TagObsolete       = "Obsolete"
	TagMarshalAs      = "MarshalAs"

	// PreserveSigMarker is the custom() GUID asking for HRESULT-preserving
	// signatures.
	PreserveSigMarker = "842883D3-DC67-45cf-B968-E763D37A7A19"

	UnmanagedInterface = "UnmanagedType.Interface"

	ArgSizeParamIndex = "SizeParamIndex"
	ArgSizeConst      = "SizeConst"

	ReturnTarget = "return"

	LocalObsoleteMessage = "Can't call COM method marked with [local] attribute in IDL file"
)

// Builtin bases never become formal base types.
const (
	IUnknown  = "IUnknown"
	IDispatch = "IDispatch"
	IMarshal  = "IMarshal"
)

// BuiltinKind maps IUnknown/IDispatch to their interface kind.
func BuiltinKind(name string) (model.InterfaceKind, bool) {
	switch name {
	case IUnknown:
		return model.KindUnknownBased, true
	case IDispatch:
		return model.KindDispatchBased, true
	}
	return model.KindUnset, false
}

func ComImport() model.Tag { return model.NewTag(TagComImport) }

func InterfaceType(k model.InterfaceKind) model.Tag {
	return model.NewTag(TagInterfaceType, model.TagArg{Value: k.Snippet()})
}

func CoClass(implName string) model.Tag {
	return model.NewTag(TagCoClass, model.TagArg{Value: "typeof(" + implName + ")"})
}

func ClassInterfaceNone() model.Tag {
	return model.NewTag(TagClassInterface, model.TagArg{Value: "ClassInterfaceType.None"})
}

func TypeLibCanCreate() model.Tag {
	return model.NewTag(TagTypeLibType, model.TagArg{Value: "TypeLibTypeFlags.FCanCreate"})
}

func Restricted() model.Tag {
	return model.NewTag(TagTypeLibFunc, model.TagArg{Value: "TypeLibFuncFlags.FRestricted"})
}

func Obsolete(msg string) model.Tag {
	return model.NewTag(TagObsolete, model.TagArg{Value: `"` + msg + `"`})
}

func PreserveSig() model.Tag { return model.NewTag(TagPreserveSig) }

// MethodImpl is the runtime marshaling directive for COM-bound members.
func MethodImpl() model.Tag {
	return model.NewTag(TagMethodImpl,
		model.TagArg{Value: "MethodImplOptions.InternalCall"},
		model.TagArg{Name: "MethodCodeType", Value: "MethodCodeType.Runtime"})
}

// ApplyMethodImpl attaches the MethodImpl directive to member. Properties get
// it on each accessor instead of the property itself. Interface methods
// returning a Guid are left alone: calling them through the directive
// crashes on 64-bit Linux runtimes.
func ApplyMethodImpl(member model.Member, onInterface bool) {
	switch m := member.(type) {
	case *model.Property:
		if m.HasGet {
			m.GetTags = []model.Tag{MethodImpl()}
		}
		if m.HasSet {
			m.SetTags = []model.Tag{MethodImpl()}
		}
	case *model.Method:
		if onInterface && m.Return.IsGuid() {
			return
		}
		if !m.ImplTagged {
			m.Tags = append(m.Tags, MethodImpl())
			m.ImplTagged = true
		}
	case *model.Field:
		if !m.ImplTagged {
			m.Tags = append(m.Tags, MethodImpl())
			m.ImplTagged = true
		}
	}
}

// FromAttribute carries an unconsumed IDL attribute over as a tag.
func FromAttribute(a attr.Attribute) model.Tag {
	if !a.HasValue {
		return model.NewTag(a.Key)
	}
	return model.NewTag(a.Key, model.TagArg{Name: a.Name, Value: a.Value})
}

// DrainTags converts and removes whatever is left in set.
func DrainTags(set *attr.Set) []model.Tag {
	rest := set.Drain()
	if len(rest) == 0 {
		return nil
	}
	out := make([]model.Tag, len(rest))
	for i, a := range rest {
		out[i] = FromAttribute(a)
	}
	return out
}
