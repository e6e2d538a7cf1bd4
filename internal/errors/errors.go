// Package errors re-exports github.com/cockroachdb/errors for the importer.
//
//	if err := load(path); err != nil {
//	    return errors.Wrapf(err, "load rules %s", path)
//	}
//
// Errors that stem from bad input data (rule files, unit files, reference
// graphs) are marked with ErrData so the CLI can pick the matching exit code.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

var (
	Is        = crdb.Is
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
	Mark      = crdb.Mark
	Join      = crdb.Join
)

var AssertionFailedf = crdb.AssertionFailedf

// ErrData marks failures caused by the input rather than the importer.
var ErrData = New("invalid input data")

// MarkData tags err as a data error; nil stays nil.
func MarkData(err error) error {
	if err == nil {
		return nil
	}
	return Mark(err, ErrData)
}

// IsData reports whether err was marked with MarkData.
func IsData(err error) bool {
	return err != nil && Is(err, ErrData)
}
