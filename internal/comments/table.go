// Package comments attaches XML documentation to the resolved declarations
// from a comment table produced by an external documentation parser.
package comments

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"idlimp/internal/errors"
)

// Entry documents a declaration. Children are keyed by member or parameter
// name; Attributes carry cross-cutting notes such as "retval" (the name of
// the return parameter) or "exception" (a comma-separated list of exception
// names, each with its own attribute holding the description).
type Entry struct {
	Summary    string
	Children   map[string]*Entry
	Attributes map[string]string
}

// Child returns the child entry called name, or nil.
func (e *Entry) Child(name string) *Entry {
	if e == nil {
		return nil
	}
	return e.Children[name]
}

// Table maps declaration names to their documentation.
type Table struct {
	entries map[string]*Entry
}

func NewTable() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

func (t *Table) Add(name string, e *Entry) { t.entries[name] = e }

// Lookup returns the entry called name.
func (t *Table) Lookup(name string) (*Entry, bool) {
	if t == nil {
		return nil, false
	}
	e, ok := t.entries[name]
	return e, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Merge copies the entries of other that t does not define yet.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for name, e := range other.entries {
		if _, ok := t.entries[name]; !ok {
			t.entries[name] = e
		}
	}
}

type fileEntry struct {
	Summary    string                `toml:"summary"`
	Children   map[string]*fileEntry `toml:"children"`
	Attributes map[string]string     `toml:"attributes"`
}

// Load reads one or more comment files. Later files win on duplicate names.
// It stops before the next file once ctx is done.
func Load(ctx context.Context, paths ...string) (*Table, error) {
	t := NewTable()
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "load comments")
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "read comments %s", p)
		}
		if err := t.parse(string(data)); err != nil {
			return nil, errors.Wrapf(err, "comments %s", p)
		}
	}
	return t, nil
}

// Parse reads a single comment document.
func Parse(src string) (*Table, error) {
	t := NewTable()
	if err := t.parse(src); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) parse(src string) error {
	var doc map[string]*fileEntry
	if _, err := toml.Decode(src, &doc); err != nil {
		return errors.MarkData(errors.Wrap(err, "decode"))
	}
	for name, fe := range doc {
		t.entries[name] = convert(fe)
	}
	return nil
}

func convert(fe *fileEntry) *Entry {
	if fe == nil {
		return &Entry{}
	}
	e := &Entry{Summary: norm.NFC.String(fe.Summary)}
	if len(fe.Children) > 0 {
		e.Children = make(map[string]*Entry, len(fe.Children))
		for name, c := range fe.Children {
			e.Children[name] = convert(c)
		}
	}
	if len(fe.Attributes) > 0 {
		e.Attributes = make(map[string]string, len(fe.Attributes))
		for k, v := range fe.Attributes {
			e.Attributes[k] = norm.NFC.String(v)
		}
	}
	return e
}
