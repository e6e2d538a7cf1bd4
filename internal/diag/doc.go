// Package diag defines the diagnostic model shared by all import passes.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by
//     the rule engine, the interface resolver, the property synthesizer, the
//     enum resolver and the coclass expander.
//   - Offer light-weight utilities (Reporter, Bag) that let passes emit
//     diagnostics without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error or Fatal (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//   - Message – human oriented text; keep it short and actionable.
//   - Subject – dotted path of the declaration the finding is about, e.g.
//     "IFoo.get_Bar". The importer works on a parsed graph, so there are no
//     source offsets to point at.
//   - Notes – optional secondary subjects with extra context.
//
// # Failure classes
//
// SevFatal aborts the unit (enum member collisions). SevError marks the unit
// failed while output is still produced best-effort. Warnings and infos never
// change the outcome. Bag.HasErrors is the single source of truth for the
// aggregate result.
package diag
