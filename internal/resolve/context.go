// Package resolve holds the namespace-wide state shared by the import passes:
// declared types, transitive base sets, interface GUIDs and kinds, and the
// owner of every enum member name.
//
// A Context is created once per unit, seeded with any reference graphs and
// then threaded explicitly through every pass. It is not safe for concurrent
// use; the passes run sequentially.
package resolve

import (
	"maps"
	"slices"

	"idlimp/internal/diag"
	"idlimp/internal/logging"
	"idlimp/internal/model"
	"idlimp/internal/trace"
)

type Context struct {
	Reporter diag.Reporter
	Log      logging.Logger
	Tracer   trace.Tracer

	types      map[string]*model.TypeDecl
	bases      map[string][]string
	guids      map[string]string
	kinds      map[string]model.InterfaceKind
	enumOwners map[string]string
}

// New creates an empty context. Nil collaborators are replaced by no-ops.
func New(r diag.Reporter, log logging.Logger, t trace.Tracer) *Context {
	if r == nil {
		r = diag.Nop
	}
	if log == nil {
		log = logging.Nop()
	}
	if t == nil {
		t = trace.Nop
	}
	return &Context{
		Reporter:   r,
		Log:        log,
		Tracer:     t,
		types:      make(map[string]*model.TypeDecl),
		bases:      make(map[string][]string),
		guids:      make(map[string]string),
		kinds:      make(map[string]model.InterfaceKind),
		enumOwners: make(map[string]string),
	}
}

// Declare makes t resolvable by name. Later declarations shadow earlier ones.
func (c *Context) Declare(t *model.TypeDecl) {
	c.types[t.Name] = t
	// a new name can extend sets computed while it was unknown
	clear(c.bases)
}

// Lookup returns the declaration called name, or nil.
func (c *Context) Lookup(name string) *model.TypeDecl {
	return c.types[name]
}

// AllBases returns the transitive closure of the declared bases of name, in
// discovery order. Unknown names have no bases.
func (c *Context) AllBases(name string) []string {
	return c.allBases(name, make(map[string]bool))
}

func (c *Context) allBases(name string, visiting map[string]bool) []string {
	if cached, ok := c.bases[name]; ok {
		return cached
	}
	t := c.types[name]
	if t == nil || visiting[name] {
		return nil
	}
	visiting[name] = true
	defer delete(visiting, name)

	out := make([]string, 0, len(t.Inherits))
	seen := make(map[string]bool, len(t.Inherits))
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, b := range t.Inherits {
		add(b)
	}
	for _, b := range t.Inherits {
		for _, n := range c.allBases(b, visiting) {
			add(n)
		}
	}
	c.bases[name] = out
	return out
}

// Redundant reports whether name is reachable through any other entry of
// among, which makes it a redundant base.
func (c *Context) Redundant(name string, among []string) bool {
	for _, other := range among {
		if other == name {
			continue
		}
		if slices.Contains(c.AllBases(other), name) {
			return true
		}
	}
	return false
}

// IsInterface reports whether name is a COM interface known to the unit.
func (c *Context) IsInterface(name string) bool {
	if len(c.AllBases(name)) > 0 {
		return true
	}
	t := c.types[name]
	return t != nil && t.Kind.IsInterface()
}

func (c *Context) SetGUID(name, guid string) { c.guids[name] = guid }

func (c *Context) GUID(name string) (string, bool) {
	g, ok := c.guids[name]
	return g, ok
}

func (c *Context) SetKind(name string, k model.InterfaceKind) { c.kinds[name] = k }

func (c *Context) Kind(name string) model.InterfaceKind { return c.kinds[name] }

// EnumOwner returns the enum that declared member.
func (c *Context) EnumOwner(member string) (string, bool) {
	o, ok := c.enumOwners[member]
	return o, ok
}

func (c *Context) SetEnumOwner(member, enum string) { c.enumOwners[member] = enum }

// Tables is the serializable part of a Context.
type Tables struct {
	GUIDs      map[string]string
	Kinds      map[string]model.InterfaceKind
	EnumOwners map[string]string
}

// Tables returns copies of the side tables.
func (c *Context) Tables() Tables {
	return Tables{
		GUIDs:      maps.Clone(c.guids),
		Kinds:      maps.Clone(c.kinds),
		EnumOwners: maps.Clone(c.enumOwners),
	}
}

// Absorb merges a previously serialized unit. Entries already present are
// overwritten, matching the order in which references are given.
func (c *Context) Absorb(types []*model.TypeDecl, t Tables) {
	for _, decl := range types {
		c.types[decl.Name] = decl
	}
	maps.Copy(c.guids, t.GUIDs)
	maps.Copy(c.kinds, t.Kinds)
	maps.Copy(c.enumOwners, t.EnumOwners)
	clear(c.bases)
}
