// Package idl reads a parsed IDL unit: the declarations an IDL front end
// produced, in declaration order, with parameter texts and attributes kept
// as written.
//
//	[[decl]]
//	kind = "interface"
//	name = "IFoo"
//	bases = ["IUnknown"]
//	attributes = ["uuid=6C456541-C2B6-11d3-8078-0000C0FB81B5"]
//
//	[[decl.method]]
//	name = "Read"
//	returns = "HRESULT"
//
//	[[decl.method.param]]
//	text = "BYTE * pv"
//	attributes = ["out", "size_is=cb"]
package idl

import (
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"idlimp/internal/attr"
	"idlimp/internal/errors"
)

// DeclKind selects how a declaration is built.
type DeclKind string

const (
	KindInterface DeclKind = "interface"
	KindCoClass   DeclKind = "coclass"
	KindEnum      DeclKind = "enum"
)

// Unit is one parsed IDL file.
type Unit struct {
	// Library is the IDL library name, used as the default namespace.
	Library string `toml:"library"`
	Decls   []Decl `toml:"decl"`

	path string
}

type Decl struct {
	Kind       DeclKind `toml:"kind"`
	Name       string   `toml:"name"`
	Bases      []string `toml:"bases"`
	Attributes []string `toml:"attributes"`
	Methods    []Method `toml:"method"`
	Members    []Member `toml:"member"`
}

type Method struct {
	Name       string   `toml:"name"`
	Returns    string   `toml:"returns"`
	Attributes []string `toml:"attributes"`
	Params     []Param  `toml:"param"`
}

type Param struct {
	// Text is the declaration as written: type, declarator and any suffix.
	Text       string   `toml:"text"`
	Name       string   `toml:"name"`
	Attributes []string `toml:"attributes"`
}

// Member is an enum member. Value is the initializer expression, if any.
type Member struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// Path returns the file the unit was loaded from.
func (u *Unit) Path() string { return u.path }

// Load reads and validates the unit at path.
func Load(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read unit %s", path)
	}
	u, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "unit %s", path)
	}
	u.path = path
	return u, nil
}

// Parse decodes and validates a unit document.
func Parse(src string) (*Unit, error) {
	var u Unit
	meta, err := toml.Decode(src, &u)
	if err != nil {
		return nil, errors.MarkData(errors.Wrap(err, "decode"))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.MarkData(errors.WithHint(
			errors.Newf("unknown key %q", undecoded[0].String()),
			"declarations accept kind, name, bases, attributes, method and member"))
	}
	if err := u.validate(); err != nil {
		return nil, errors.MarkData(err)
	}
	return &u, nil
}

func (u *Unit) validate() error {
	for i := range u.Decls {
		d := &u.Decls[i]
		switch d.Kind {
		case KindInterface, KindCoClass:
		case KindEnum:
			if len(d.Methods) > 0 {
				return errors.Newf("enum %s declares methods", d.Name)
			}
		default:
			return errors.Newf("declaration %d (%s): unknown kind %q", i, d.Name, d.Kind)
		}
		if d.Name == "" && d.Kind != KindEnum {
			return errors.Newf("declaration %d: %s without a name", i, d.Kind)
		}
		for j := range d.Methods {
			m := &d.Methods[j]
			if m.Name == "" {
				return errors.Newf("%s: method %d without a name", d.Name, j)
			}
			for k := range m.Params {
				p := &m.Params[k]
				if p.Name == "" {
					p.Name = declarator(p.Text)
				}
				if p.Name == "" {
					return errors.Newf("%s.%s: parameter %d without a name", d.Name, m.Name, k)
				}
			}
		}
	}
	return nil
}

var declaratorRe = regexp.MustCompile(`(\w+)\W*$`)

// declarator extracts the parameter name from its declaration text.
func declarator(text string) string {
	text = strings.TrimSpace(text)
	if !strings.ContainsFunc(text, func(r rune) bool { return r == ' ' || r == '\t' || r == '*' }) {
		return ""
	}
	m := declaratorRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// Attrs parses attribute texts into a fresh set.
func Attrs(texts []string) *attr.Set {
	s := attr.NewSet()
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		s.Put(attr.Parse(t))
	}
	return s
}
