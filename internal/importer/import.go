// Package importer drives one import: it loads the unit, rules, references
// and documentation, runs the passes in order and writes the resolved graph
// and the outline.
package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"idlimp/internal/comments"
	"idlimp/internal/diag"
	"idlimp/internal/emit"
	"idlimp/internal/enums"
	"idlimp/internal/errors"
	"idlimp/internal/graph"
	"idlimp/internal/idl"
	"idlimp/internal/logging"
	"idlimp/internal/model"
	"idlimp/internal/props"
	"idlimp/internal/resolve"
	"idlimp/internal/rules"
	"idlimp/internal/trace"
	"idlimp/internal/version"
)

// Import runs the whole pipeline for opts.Input. The error is non-nil only
// for fatal diagnostics and I/O failures; everything else is reported in
// Result.Bag and clears Result.OK. A partial Result accompanies fatal errors
// so the diagnostics can still be printed.
func Import(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}
	timer := opts.Timer
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := &Result{Bag: bag}
	defer bag.Sort()
	// flattened base members are visited once per derived interface
	rc := resolve.New(diag.NewDedupReporter(diag.BagReporter{Bag: bag}), log, trace.FromContext(ctx))

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "import")
	defer span.End(opts.Input)

	// pass runs fn as a timed, traced phase.
	pass := func(name string, fn func(context.Context) error) error {
		idx := timer.Begin(name)
		pctx, s := trace.Start(ctx, trace.ScopePass, name)
		err := fn(pctx)
		s.End("")
		note := ""
		if timer != nil {
			note = fmt.Sprintf("diags=%d", bag.Len())
		}
		timer.End(idx, note)
		return err
	}

	var unit *idl.Unit
	if err := pass("load_unit", func(context.Context) error {
		var err error
		unit, err = idl.Load(opts.Input)
		return err
	}); err != nil {
		diag.ReportFatal(rc.Reporter, diag.IOLoadFileError, opts.Input, err.Error()).Emit()
		return res, err
	}

	if err := pass("references", func(context.Context) error {
		return loadReferences(rc, opts.References)
	}); err != nil {
		return res, err
	}

	var cfg *rules.Config
	if err := pass("rules", func(context.Context) error {
		if opts.Rules == "" {
			return nil
		}
		var err error
		cfg, err = rules.Load(opts.Rules)
		return err
	}); err != nil {
		diag.ReportFatal(rc.Reporter, diag.RulBadPattern, opts.Rules, err.Error()).Emit()
		return res, err
	}

	var load *commentLoad
	if opts.CreateComments && len(opts.Comments) > 0 {
		load = startCommentLoad(ctx, opts.Comments)
	}
	// joins at most once; a no-op after the comment pass
	defer load.wait()

	ns := &model.Namespace{Name: namespaceName(opts, unit)}
	ns.Banner = banner(opts)
	for _, u := range opts.Usings {
		ns.AddImport(u)
	}
	for _, u := range DefaultImports {
		ns.AddImport(u)
	}
	res.Namespace = ns

	b := newBuilder(rc, rules.NewEngine(cfg, rc), ns)
	if err := pass("build", func(pctx context.Context) error {
		return b.build(pctx, unit)
	}); err != nil {
		if errors.Is(err, enums.ErrDuplicateMember) {
			log.Error(err.Error())
		}
		return res, err
	}

	ok := true
	_ = pass("merge_properties", func(context.Context) error {
		ok = props.MergeProperties(rc, ns)
		return nil
	})
	_ = pass("enum_references", func(context.Context) error {
		b.enums.AdjustReferences()
		return nil
	})

	if opts.CreateComments {
		if err := pass("comments", func(context.Context) error {
			table, err := load.wait()
			if err != nil {
				diag.ReportError(rc.Reporter, diag.CmtLoadFailed, "comments", err.Error()).Emit()
				return err
			}
			if table == nil {
				table = comments.NewTable()
			}
			table.Merge(b.extra)
			comments.Annotate(ns, table)
			res.Comments = table
			return nil
		}); err != nil {
			return res, err
		}
	}

	if !opts.NoGraph {
		res.Graph = GraphPath(opts.Input)
		if err := pass("serialize", func(context.Context) error {
			return graph.Save(res.Graph, ns, rc.Tables())
		}); err != nil {
			diag.ReportError(rc.Reporter, diag.IOWriteFailed, res.Graph, err.Error()).Emit()
			return res, err
		}
	}

	if !opts.NoEmit {
		res.Output = opts.outputPath()
		if err := pass("emit", func(context.Context) error {
			return writeOutline(res.Output, ns)
		}); err != nil {
			diag.ReportError(rc.Reporter, diag.IOWriteFailed, res.Output, err.Error()).Emit()
			return res, err
		}
	}

	res.OK = ok && !bag.HasErrors()
	return res, nil
}

// loadReferences seeds ctx with previously imported units, in order.
func loadReferences(ctx *resolve.Context, paths []string) error {
	for _, p := range paths {
		ns, tables, err := graph.Load(p)
		if err != nil {
			diag.ReportFatal(ctx.Reporter, diag.IOReferenceGraph, p, err.Error()).Emit()
			ctx.Log.Error(fmt.Sprintf("failed to read referenced data from file %q: %v", p, err))
			return err
		}
		ctx.Absorb(ns.Types, tables)
		trace.Point(ctx.Tracer, trace.ScopePass, "reference", fmt.Sprintf("%s types=%d", p, len(ns.Types)))
	}
	return nil
}

func namespaceName(opts Options, u *idl.Unit) string {
	switch {
	case opts.Namespace != "":
		return opts.Namespace
	case u.Library != "":
		return u.Library
	default:
		return trimExt(filepath.Base(opts.Input))
	}
}

func banner(opts Options) []string {
	lines := version.Banner()
	lines = append(lines,
		"",
		"File: "+filepath.Base(opts.outputPath()),
		"Generated from "+filepath.Base(opts.Input))
	return lines
}

func writeOutline(path string, ns *model.Namespace) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := emit.Write(f, ns, emit.Options{UseTabs: true}); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
