// Package attr models IDL attributes as tagged variants.
//
// The parser hands every declaration an ordered attribute list. Passes look up
// the attributes they understand by Kind, consume them, and whatever is left
// is carried through verbatim as KindPassThrough.
package attr

import "strings"

// Kind identifies an attribute the import passes know how to consume.
type Kind uint8

const (
	KindPassThrough Kind = iota
	KindIn
	KindOut
	KindRetval
	KindSizeIs
	KindString
	KindIsArray
	KindDual
	KindGuid
	KindCustom
	KindPropGet
	KindPropPut
	KindPropPutRef
	KindLocal
	KindRestricted
	KindWarning
)

var kindByKey = map[string]Kind{
	"in":         KindIn,
	"out":        KindOut,
	"retval":     KindRetval,
	"size_is":    KindSizeIs,
	"string":     KindString,
	"IsArray":    KindIsArray,
	"dual":       KindDual,
	"Guid":       KindGuid,
	"uuid":       KindGuid,
	"custom":     KindCustom,
	"propget":    KindPropGet,
	"propput":    KindPropPut,
	"propputref": KindPropPutRef,
	"local":      KindLocal,
	"restricted": KindRestricted,
	"warning":    KindWarning,
}

var keyByKind = map[Kind]string{
	KindIn:         "in",
	KindOut:        "out",
	KindRetval:     "retval",
	KindSizeIs:     "size_is",
	KindString:     "string",
	KindIsArray:    "IsArray",
	KindDual:       "dual",
	KindGuid:       "Guid",
	KindCustom:     "custom",
	KindPropGet:    "propget",
	KindPropPut:    "propput",
	KindPropPutRef: "propputref",
	KindLocal:      "local",
	KindRestricted: "restricted",
	KindWarning:    "warning",
}

// Classify maps an attribute key to its Kind.
func Classify(key string) Kind {
	if k, ok := kindByKey[key]; ok {
		return k
	}
	return KindPassThrough
}

// Key returns the canonical key of a recognised kind, or "" for pass-through.
func (k Kind) Key() string {
	return keyByKind[k]
}

func (k Kind) String() string {
	if key, ok := keyByKind[k]; ok {
		return key
	}
	return "passthrough"
}

// Attribute is one `[key]`, `[key(value)]` or `[key(name=value)]` entry.
type Attribute struct {
	Kind     Kind
	Key      string
	Name     string
	Value    string
	HasValue bool
}

// New builds a valueless attribute. The alias "uuid" is stored as "Guid".
func New(key string) Attribute {
	k := Classify(key)
	if k != KindPassThrough {
		key = k.Key()
	}
	return Attribute{Kind: k, Key: key}
}

// WithValue builds an attribute carrying an unnamed value.
func WithValue(key, value string) Attribute {
	a := New(key)
	a.Value = value
	a.HasValue = true
	return a
}

// Named builds an attribute carrying a `name=value` argument.
func Named(key, name, value string) Attribute {
	a := WithValue(key, value)
	a.Name = name
	return a
}

// Parse reads the textual form used in rule and unit files:
// "key", "key=value" or "key=name=value".
func Parse(text string) Attribute {
	parts := strings.SplitN(strings.TrimSpace(text), "=", 3)
	switch len(parts) {
	case 1:
		return New(parts[0])
	case 2:
		return WithValue(parts[0], parts[1])
	default:
		return Named(parts[0], parts[1], parts[2])
	}
}

// Truthy reports whether the attribute's value does not spell false.
func (a Attribute) Truthy() bool {
	return !a.HasValue || !strings.EqualFold(a.Value, "false")
}

func (a Attribute) String() string {
	switch {
	case !a.HasValue:
		return a.Key
	case a.Name != "":
		return a.Key + "(" + a.Name + "=" + a.Value + ")"
	default:
		return a.Key + "(" + a.Value + ")"
	}
}
