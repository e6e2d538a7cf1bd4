package importer

import (
	"path/filepath"
	"strings"

	"idlimp/internal/comments"
	"idlimp/internal/diag"
	"idlimp/internal/graph"
	"idlimp/internal/logging"
	"idlimp/internal/model"
	"idlimp/internal/observ"
)

// DefaultImports are the namespaces every generated unit uses.
var DefaultImports = []string{
	"System",
	"System.Runtime.InteropServices",
	"System.Runtime.InteropServices.ComTypes",
	"System.Runtime.CompilerServices",
}

// OutlineExt names the emitted outline next to the input.
const OutlineExt = ".outline"

type Options struct {
	// Input is the parsed unit to import.
	Input string
	// Output receives the outline; defaults to Input with OutlineExt.
	Output string
	// Rules is the conversion rule file (TOML or legacy XML). Empty means
	// no rules.
	Rules string
	// Namespace defaults to the unit's library name, then the input's
	// base name.
	Namespace string
	Usings    []string
	// References are graphs of previously imported units.
	References []string
	// Comments are the documentation tables to attach.
	Comments       []string
	CreateComments bool
	// NoGraph skips writing the unit's own graph.
	NoGraph bool
	// NoEmit skips writing the outline.
	NoEmit bool

	// MaxDiagnostics bounds the diagnostics kept in Result.Bag; 0 keeps all.
	// Errors past the bound still clear Result.OK.
	MaxDiagnostics int
	Log            logging.Logger
	// Timer, when set, records how long each pass took.
	Timer *observ.Timer
}

// Result is what a completed import produced. OK is false when the unit
// imported with errors; the output is written anyway.
type Result struct {
	OK        bool
	Namespace *model.Namespace
	Bag       *diag.Bag
	Output    string
	Graph     string
	// Comments is the table used for annotation, nil when disabled.
	Comments *comments.Table
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func (o Options) outputPath() string {
	if o.Output != "" {
		return o.Output
	}
	return trimExt(o.Input) + OutlineExt
}

// GraphPath is where the graph of the unit at input is written.
func GraphPath(input string) string {
	return trimExt(input) + graph.Ext
}
