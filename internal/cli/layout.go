package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

// layoutCommand creates the layout command, which writes the layout payload
// as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot]",
		Short: "Compute node positions and group hulls for an ontology snapshot",
		Long: `Compute node positions and group hulls for an ontology snapshot.

The snapshot is a JSON, YAML or TOML file of nodes and edges, "-" for JSON on
stdin, or a MongoDB URI. The output is a layout payload (positions, hulls,
nodes and edges) that 'render' and the HTTP API also produce with -f json.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flags)
			opts.Formats = []string{pipeline.FormatJSON}
			return c.runLayout(cmd.Context(), firstArg(args), &flags, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

// runLayout loads the snapshot, computes the layout, and writes the payload.
func (c *CLI) runLayout(ctx context.Context, input string, flags *layoutFlags, opts pipeline.Options, output string, noCache bool) error {
	spinner := newSpinnerWithContext(ctx, "Loading snapshot...")
	spinner.Start()
	snap, err := c.loadSnapshot(ctx, input, flags.query())
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("load snapshot: %w", err)
	}

	runner := c.newRunner(noCache)
	defer runner.Close()

	spinner.SetMessage("Computing layout...")
	result, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	outputPath := output
	if outputPath == "" {
		outputPath = inputName(input) + ".layout.json"
	}
	data := result.Artifacts[pipeline.FormatJSON]
	if outputPath == stdinInput {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	out := newReport(c.Out)
	out.done("Layout complete")
	out.wrote(outputPath)
	out.layout(result)
	out.next("Render", appName+" render "+input)

	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
