package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output base path; the format is appended as extension
	formats  string // comma-separated output formats
	engine   string // svg engine: native or graphviz
	detailed bool   // show entity type and change status in node labels
	pngScale float64
	noCache  bool
	layout   layoutFlags
}

// renderCommand creates the render command for generating visualizations.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [snapshot]",
		Short: "Render an ontology snapshot to SVG, DOT, PNG, PDF or JSON",
		Long: `Render an ontology snapshot to SVG, DOT, PNG, PDF or JSON.

SVG is drawn natively by default; --engine graphviz draws it with Graphviz
using the computed positions. PNG and PDF are converted from the SVG and
require rsvg-convert.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &ro.layout)
			if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
				opts.Formats = parseFormats(ro.formats)
			}
			if cmd.Flags().Changed("engine") {
				opts.Engine = ro.engine
			}
			if cmd.Flags().Changed("detailed") {
				opts.Detailed = ro.detailed
			}
			if cmd.Flags().Changed("png-scale") {
				opts.PNGScale = ro.pngScale
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), firstArg(args), &ro, opts)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output base path (default: <input>)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), dot, png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&ro.engine, "engine", pipeline.EngineNative, "svg engine: native, graphviz")
	cmd.Flags().BoolVar(&ro.detailed, "detailed", false, "show entity type and change status in labels")
	cmd.Flags().Float64Var(&ro.pngScale, "png-scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	ro.layout.register(cmd)

	return cmd
}

// runRender loads the snapshot, runs the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, ro *renderOpts, opts pipeline.Options) error {
	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, "Loading snapshot...")
	spinner.Start()
	snap, err := c.loadSnapshot(ctx, input, ro.layout.query())
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("load snapshot: %w", err)
	}
	prog.stage("load", "nodes", len(snap.Nodes), "edges", len(snap.Edges))

	runner := c.newRunner(ro.noCache)
	defer runner.Close()

	spinner.SetMessage(fmt.Sprintf("Rendering %s layout...", opts.Layout.Algorithm))
	result, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.stage("pipeline", "layout_cached", result.CacheInfo.LayoutHit)
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(result.Artifacts)))

	base := ro.output
	if base == "" {
		base = inputName(input)
	}
	paths := outputPaths(base, opts.Formats)

	out := newReport(c.Out)
	out.done("Render complete")
	for _, format := range opts.Formats {
		path := paths[format]
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		out.wrote(path)
	}
	out.layout(result)
	return nil
}

// outputPaths maps each format to base.<format>. A base that already ends in
// the extension of a single requested format is used as is.
func outputPaths(base string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && filepath.Ext(base) == "."+formats[0] {
		paths[formats[0]] = base
		return paths
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
