package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idlimp/internal/errors"
	"idlimp/internal/trace"
)

// setupTracing reads the trace flags and attaches a tracer to the command
// context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trace flag")
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trace-level flag")
	}

	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trace-ring-size flag")
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, errors.Wrap(err, "invalid trace level")
	}
	// an output or a ring without a level means the user wants to see phases
	if level == trace.LevelOff && (traceOutput != "" || ringSize > 0) {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(trace.Config{Level: level, OutputPath: traceOutput, RingSize: ringSize})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tracer")
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		_ = tracer.Flush()
		_ = tracer.Close()
	}, nil
}

// dumpTraceRing prints the events kept by a --trace-ring-size tracer.
func dumpTraceRing(cmd *cobra.Command) {
	ring, ok := trace.FromContext(cmd.Context()).(*trace.RingTracer)
	if !ok {
		return
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintln(out, "trace: last events before the failure")
	if err := ring.Dump(out, trace.FormatText); err != nil {
		fmt.Fprintf(out, "trace: dump error: %v\n", err)
	}
}
