// Package trace records what the importer is doing while it runs.
//
// Events are grouped by scope: the driver (one import run), passes
// (construction, property merge, enum fix-up, comments, serialization) and
// individual declarations. The level decides how deep tracing goes.
//
//	idlimp import --trace=- --trace-level=phase unit.toml
//
// Tracers travel through the pipeline in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "merge-properties", 0)
//	defer span.End("")
package trace
