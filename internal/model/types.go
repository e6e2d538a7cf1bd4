package model

import "strings"

// TypeRef names a type, optionally as a one-dimensional array.
type TypeRef struct {
	Name      string
	ArrayRank int
}

// Void is the return type of methods without a promoted retval.
var Void = TypeRef{Name: "void"}

func Ref(name string) TypeRef { return TypeRef{Name: name} }

func (t TypeRef) IsArray() bool { return t.ArrayRank > 0 }

func (t TypeRef) IsVoid() bool { return t.Name == "" || t.Name == "void" || t.Name == "System.Void" }

// IsGuid reports a GUID-typed reference.
func (t TypeRef) IsGuid() bool {
	return !t.IsArray() && (t.Name == "Guid" || t.Name == "System.Guid")
}

func (t TypeRef) String() string {
	if t.ArrayRank == 0 {
		return t.Name
	}
	return t.Name + "[" + strings.Repeat(",", t.ArrayRank-1) + "]"
}

// TagArg is one argument of a Tag; Value is emitted as written.
type TagArg struct {
	Name  string
	Value string
}

// Tag is an interop attribute attached to a declaration. Target carries a
// qualifier such as "return".
type Tag struct {
	Target string
	Name   string
	Args   []TagArg
}

func NewTag(name string, args ...TagArg) Tag {
	return Tag{Name: name, Args: args}
}

// Arg returns the first argument named name ("" for positional ones).
func (t Tag) Arg(name string) (TagArg, bool) {
	for _, a := range t.Args {
		if a.Name == name {
			return a, true
		}
	}
	return TagArg{}, false
}

// Qualified returns the name with its target prefix, e.g. "return: MarshalAs".
func (t Tag) Qualified() string {
	if t.Target == "" {
		return t.Name
	}
	return t.Target + ": " + t.Name
}

func (t Tag) Clone() Tag {
	t.Args = append([]TagArg(nil), t.Args...)
	return t
}

func cloneTags(tags []Tag) []Tag {
	if tags == nil {
		return nil
	}
	out := make([]Tag, len(tags))
	for i, t := range tags {
		out[i] = t.Clone()
	}
	return out
}

// FindTag returns the index of the first tag named name, or -1.
func FindTag(tags []Tag, name string) int {
	for i := range tags {
		if tags[i].Name == name {
			return i
		}
	}
	return -1
}

// Comment is a line of documentation; Doc marks XML doc comments.
type Comment struct {
	Text string
	Doc  bool
}

// Region is a cosmetic start/end marker around a declaration.
type Region struct {
	Start bool
	Text  string
}

// Flags carry visibility and modifiers.
type Flags uint16

const (
	FlagPublic Flags = 1 << iota
	FlagInternal
	FlagStatic
	// FlagHidesBase marks an inherited member redeclared in a derived
	// interface ("new" in the target language).
	FlagHidesBase
	// FlagExtern marks members bound to the runtime implementation.
	FlagExtern
)

func (f Flags) Has(x Flags) bool { return f&x != 0 }

// Strings returns textual flag labels.
func (f Flags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&FlagPublic != 0 {
		labels = append(labels, "public")
	}
	if f&FlagInternal != 0 {
		labels = append(labels, "internal")
	}
	if f&FlagStatic != 0 {
		labels = append(labels, "static")
	}
	if f&FlagHidesBase != 0 {
		labels = append(labels, "new")
	}
	if f&FlagExtern != 0 {
		labels = append(labels, "extern")
	}
	return labels
}
