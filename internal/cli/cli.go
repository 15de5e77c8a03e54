package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoviz/pkg/buildinfo"
	"github.com/matzehuels/ontoviz/pkg/cache"
	"github.com/matzehuels/ontoviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "ontoviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
	// Out receives command summaries. Default: stdout.
	Out io.Writer

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: &Config{},
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "ontoviz lays out ontology graphs",
		Long: `ontoviz computes node-link layouts of ontology schemas: an inheritance tree,
property and subobject associations, and group hulls drawn around the members
of each module or bundle.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := loadConfig(c.configPath, c.Logger)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/ontoviz/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the root command with ctx.
func (c *CLI) Execute(ctx context.Context, args ...string) error {
	root := c.RootCommand()
	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Payloads and artifacts
// are cached in memory for the lifetime of the process.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	var cc cache.Cache = cache.NewMemoryCache(0)
	if noCache {
		cc = cache.Disabled()
	}
	return pipeline.NewRunner(cc, nil, c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags holds the flags shared by commands that compute layouts.
type layoutFlags struct {
	algorithm string
	direction string
	padding   float64
	groups    []string
	types     []string
	limit     int
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "layout algorithm: hierarchical (default), force, hybrid, radial")
	cmd.Flags().StringVar(&f.direction, "direction", "", "rank direction for hierarchical layouts: TB (default), LR")
	cmd.Flags().Float64Var(&f.padding, "padding", 0, "space between group members and their hull")
	cmd.Flags().StringSliceVarP(&f.groups, "group", "g", nil, "only lay out members of these groups")
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "only lay out these entity types")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "maximum number of nodes to load")
	_ = cmd.RegisterFlagCompletionFunc("algorithm", completeAlgorithms)
}

// options merges the config file with the flags that were set.
func (c *CLI) options(cmd *cobra.Command, f *layoutFlags) pipeline.Options {
	opts := c.Config.pipelineOptions()
	if cmd.Flags().Changed("algorithm") {
		opts.Layout.Algorithm = layoutAlgorithm(f.algorithm)
	}
	if cmd.Flags().Changed("direction") {
		opts.Layout.Direction = layoutDirection(f.direction)
	}
	if cmd.Flags().Changed("padding") {
		opts.Padding = f.padding
	}
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
