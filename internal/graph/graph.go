// Package graph persists a resolved namespace so that later units can
// resolve bases, GUIDs and enum members against it.
package graph

import (
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"idlimp/internal/errors"
	"idlimp/internal/model"
	"idlimp/internal/resolve"
)

// Current schema version - increment when Payload format changes
const SchemaVersion uint16 = 2

// Ext is appended to the input path to name the graph written next to it.
const Ext = ".idlgraph"

// ErrSchema reports a payload written by an incompatible version.
var ErrSchema = errors.New("graph schema mismatch")

// Payload is the on-disk form of a resolved unit.
type Payload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Namespace string
	Imports   []string
	Types     []TypePayload

	// Side tables of the resolution context
	GUIDs      map[string]string
	Kinds      map[string]uint8
	EnumOwners map[string]string
}

type TypePayload struct {
	Kind      uint8
	Name      string
	Inherits  []string
	Bases     []RefPayload
	Members   []MemberPayload
	Tags      []TagPayload
	Comments  []CommentPayload
	Start     []RegionPayload
	End       []RegionPayload
	Flags     uint16
	IfaceKind uint8
}

type RefPayload struct {
	Name string
	Rank int
}

type TagPayload struct {
	Target string
	Name   string
	Args   [][2]string
}

type CommentPayload struct {
	Text string
	Doc  bool
}

type RegionPayload struct {
	Start bool
	Text  string
}

// MemberPayload flattens the three member variants; Kind selects which
// fields are meaningful.
type MemberPayload struct {
	Kind     uint8
	Name     string
	Flags    uint16
	Tags     []TagPayload
	Comments []CommentPayload
	Start    []RegionPayload
	End      []RegionPayload
	Impl     bool

	// methods
	Params      []ParamPayload
	Return      RefPayload
	ReturnTags  []TagPayload
	PreserveSig bool
	ReturnsNew  string

	// properties
	Type      RefPayload
	HasGet    bool
	HasSet    bool
	GetTags   []TagPayload
	SetTags   []TagPayload
	MarshalAs string

	// fields
	InitKind    uint8
	InitLiteral int64
	InitExpr    string
}

type ParamPayload struct {
	Name   string
	Type   RefPayload
	Dir    uint8
	Tags   []TagPayload
	SizeIs string `msgpack:",omitempty"`
	Retval bool   `msgpack:",omitempty"`
}

// Save writes ns and the side tables of ctx to path, replacing any existing
// file atomically.
func Save(path string, ns *model.Namespace, tables resolve.Tables) error {
	payload := Encode(ns, tables)

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "tmp-*"+Ext)
	if err != nil {
		return errors.Wrapf(err, "write graph %s", path)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode graph %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "write graph %s", path)
	}
	// atomic replace
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "write graph %s", path)
	}
	return nil
}

// Load reads a graph written by Save.
func Load(path string) (*model.Namespace, resolve.Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, resolve.Tables{}, errors.Wrapf(err, "open graph %s", path)
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, resolve.Tables{}, errors.MarkData(errors.Wrapf(err, "decode graph %s", path))
	}
	if payload.Schema != SchemaVersion {
		return nil, resolve.Tables{}, errors.MarkData(errors.WithHintf(
			errors.Wrapf(ErrSchema, "%s: schema %d, want %d", path, payload.Schema, SchemaVersion),
			"re-import the unit that produced %s", filepath.Base(path)))
	}
	ns, tables := Decode(&payload)
	return ns, tables, nil
}
