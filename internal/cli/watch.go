package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/model"
	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

// watchCommand creates the watch command, an interactive terminal viewer
// that animates iterative layouts frame by frame.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		flags layoutFlags
		fps   int
	)

	cmd := &cobra.Command{
		Use:   "watch [snapshot]",
		Short: "Animate a layout in the terminal",
		Long: `Animate a layout in the terminal.

Iterative algorithms (force, hybrid, radial) are stepped one tick per frame
until they settle. Press 'r' to re-heat the simulation from its current
positions, space to pause, and 'q' to quit. Hierarchical layouts are shown
as a single static frame.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, &flags)
			if !cmd.Flags().Changed("algorithm") && opts.Layout.Algorithm == "" {
				opts.Layout.Algorithm = layout.ForceDirected
			}
			if fps <= 0 {
				return fmt.Errorf("invalid --fps: %d", fps)
			}
			m, err := c.watchModel(cmd.Context(), firstArg(args), &flags, opts)
			if err != nil {
				return err
			}
			m.Interval = time.Second / time.Duration(fps)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			if stderrors.Is(err, tea.ErrProgramKilled) {
				return cmd.Context().Err()
			}
			return err
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	flags.register(cmd)

	return cmd
}

// watchModel loads the snapshot and prepares the viewer model.
func (c *CLI) watchModel(ctx context.Context, input string, flags *layoutFlags, opts pipeline.Options) (WatchModel, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return WatchModel{}, err
	}
	prog := newProgress(loggerFromContext(ctx))
	snap, err := c.loadSnapshot(ctx, input, flags.query())
	if err != nil {
		return WatchModel{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := pipeline.ValidateSnapshot(snap); err != nil {
		return WatchModel{}, err
	}
	prog.stage("load", "nodes", len(snap.Nodes), "edges", len(snap.Edges))

	m := model.Build(snap.Nodes, snap.Edges, model.WithLogger(c.Logger))
	prog.stage("model", "roots", len(m.Roots()))
	s, err := layout.NewSimulation(m, opts.Layout)
	if stderrors.Is(err, layout.ErrStatic) {
		res, err := layout.Compute(ctx, m, opts.Layout)
		if err != nil {
			return WatchModel{}, err
		}
		return NewWatchModel(m, opts.Layout.Algorithm, nil, res.Positions), nil
	}
	if err != nil {
		return WatchModel{}, err
	}
	return NewWatchModel(m, opts.Layout.Algorithm, s.Iterator(ctx), nil), nil
}
