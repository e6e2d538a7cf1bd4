package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"idlimp/internal/diag"
	"idlimp/internal/errors"
	"idlimp/internal/importer"
	"idlimp/internal/logging"
	"idlimp/internal/observ"
)

var importCmd = &cobra.Command{
	Use:   "import [flags] <unit>",
	Short: "Import a parsed IDL unit",
	Long: `Import runs the conversion passes over a parsed IDL unit, writes the resolved
graph next to the input for later --ref use and emits the outline.

Defaults are read from the [import] table of the nearest idlimp.toml; flags
override them.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringP("output", "o", "", "name of the created file (default: <unit>"+importer.OutlineExt+")")
	importCmd.Flags().StringP("config", "c", "", "conversion rule file (TOML or legacy XML)")
	importCmd.Flags().StringSliceP("comments", "i", nil, "comment tables; separate several with ';'")
	importCmd.Flags().StringP("namespace", "n", "", "namespace of the produced declarations")
	importCmd.Flags().StringSliceP("using", "u", nil, "additional imported namespaces; separate several with ';'")
	importCmd.Flags().StringSliceP("ref", "r", nil, "graphs used to resolve references; separate several with ';'")
	importCmd.Flags().BoolP("xml-comments", "x", true, "create XML documentation comments")
	importCmd.Flags().Bool("no-graph", false, "do not write the unit's graph")
	importCmd.Flags().Bool("json-log", false, "write log messages as JSON")
}

func runImport(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := importOptions(cmd, args[0])
	if err != nil {
		return &exitError{code: exitData, err: err}
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	jsonLog, _ := cmd.Flags().GetBool("json-log")
	opts.Log = logging.New(logging.Options{Out: cmd.ErrOrStderr(), JSON: jsonLog, Quiet: quiet})

	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if timings {
		opts.Timer = observ.NewTimer()
	}

	opts.Log.Message(fmt.Sprintf("Generating %s...", filepath.Base(outputName(opts))))
	res, err := importer.Import(cmd.Context(), opts)
	if res != nil {
		printDiagnostics(cmd, res.Bag)
		if res.Bag.HasFatal() {
			dumpTraceRing(cmd)
		}
	}
	if timings {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if err != nil {
		if errors.IsData(err) || (res != nil && res.Bag.HasFatal()) {
			return &exitError{code: exitData, err: err}
		}
		return &exitError{code: exitInternal, err: err}
	}
	if !res.OK {
		return &exitError{code: exitData}
	}
	return nil
}

func outputName(opts importer.Options) string {
	if opts.Output != "" {
		return opts.Output
	}
	return strings.TrimSuffix(opts.Input, filepath.Ext(opts.Input)) + importer.OutlineExt
}

// importOptions merges the manifest defaults with the flags given.
func importOptions(cmd *cobra.Command, input string) (importer.Options, error) {
	opts := importer.Options{Input: input, CreateComments: true}

	manifest, ok, err := loadProjectManifest(filepath.Dir(input))
	if err != nil {
		return opts, err
	}
	if ok {
		c := manifest.Config.Import
		opts.Rules = c.Rules
		opts.Namespace = c.Namespace
		opts.Usings = c.Usings
		opts.References = c.References
		opts.Comments = c.Comments
		if c.CreateComments != nil {
			opts.CreateComments = *c.CreateComments
		}
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.Output, _ = flags.GetString("output")
	}
	if flags.Changed("config") {
		opts.Rules, _ = flags.GetString("config")
	}
	if flags.Changed("namespace") {
		opts.Namespace, _ = flags.GetString("namespace")
	}
	if flags.Changed("comments") {
		v, _ := flags.GetStringSlice("comments")
		opts.Comments = splitPaths(v)
	}
	if flags.Changed("using") {
		v, _ := flags.GetStringSlice("using")
		opts.Usings = append(opts.Usings, splitPaths(v)...)
	}
	if flags.Changed("ref") {
		v, _ := flags.GetStringSlice("ref")
		opts.References = splitPaths(v)
	}
	if flags.Changed("xml-comments") {
		opts.CreateComments, _ = flags.GetBool("xml-comments")
	}
	opts.NoGraph, _ = flags.GetBool("no-graph")
	opts.MaxDiagnostics, _ = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	return opts, nil
}

// splitPaths accepts both repeated flags and ';'-separated lists.
func splitPaths(values []string) []string {
	var out []string
	for _, v := range values {
		for _, p := range strings.Split(v, ";") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag) {
	if bag == nil || bag.Len()+bag.Dropped() == 0 {
		return
	}
	out := cmd.ErrOrStderr()
	for _, line := range strings.Split(diag.FormatShortDiagnostics(bag.Items(), true), "\n") {
		switch {
		case strings.HasPrefix(line, "error"), strings.HasPrefix(line, "fatal"):
			errorColor.Fprintln(out, line)
		case strings.HasPrefix(line, "warning"):
			warningColor.Fprintln(out, line)
		default:
			fmt.Fprintln(out, line)
		}
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(out, "... %d more diagnostics not shown (--max-diagnostics %d)\n", n, bag.Cap())
	}
}
