// Package pipeline runs the ontoviz layout pipeline end to end.
//
// This package implements the snapshot → model → layout → hulls → artifacts
// pipeline shared by the CLI, the HTTP API, and the terminal viewer. By
// centralizing it, every entry point validates, caches, logs, and reports
// the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Model: classify the snapshot into tree, associations and orphans
//  2. Layout: compute node positions with the selected strategy
//  3. Hulls: derive one enclosing shape per group
//  4. Render: produce artifacts (SVG, DOT, PNG, PDF, JSON)
//
// Stages 1 to 3 produce a [render.Payload], which is cached as a unit.
// Artifacts are cached per format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	result, err := runner.Execute(ctx, snapshot, pipeline.Options{
//	    Layout:  layout.Options{Algorithm: layout.ForceDirected},
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// For animated output, an [Animator] streams intermediate frames of an
// iterative layout and drops frames of runs that a newer request for the
// same view has superseded.
package pipeline

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoviz/pkg/cache"
	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/layout"
	"github.com/matzehuels/ontoviz/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPadding is the space between member boxes and their group hull.
	DefaultPadding = 16.0

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0

	// DefaultCacheTTL bounds how long payloads and artifacts stay cached.
	DefaultCacheTTL = time.Hour
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Engine constants select how SVG (and derived PNG/PDF) output is drawn.
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidEngines is the set of supported SVG engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests and TOML for the
// CLI config file.
type Options struct {
	// Layout options, passed to the layout engine.
	Layout layout.Options `json:"layout" toml:"layout"`

	// Hull options
	Padding float64 `json:"padding,omitempty" toml:"padding"`

	// Render options
	Formats  []string `json:"formats,omitempty" toml:"formats"`
	Engine   string   `json:"engine,omitempty" toml:"engine"`
	Detailed bool     `json:"detailed,omitempty" toml:"detailed"`
	PNGScale float64  `json:"png_scale,omitempty" toml:"png_scale"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Payload is the geometry: positions, hulls, nodes and edges.
	Payload *render.Payload

	// SnapshotHash is the content hash of the input snapshot.
	SnapshotHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Dropped    int
	GroupCount int
	Iterations int
	LayoutTime time.Duration
	HullTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the payload came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an SVG engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid engine: %q (must be one of: %s)", engine, strings.Join(sortedKeys(ValidEngines), ", "))
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults rejects invalid input and applies defaults.
// An unknown algorithm is not an error: it falls back to Hierarchical with
// a warning, and the effective name is reported in results and frames.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Padding < 0 || math.IsNaN(o.Padding) || math.IsInf(o.Padding, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid padding: %v (must be a non-negative number)", o.Padding)
	}
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout options")
	}
	o.validated = true
	return nil
}

// SetDefaults fills zero values, including the layout options.
func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Layout.Logger == nil {
		o.Layout.Logger = o.Logger
	}
	o.Layout.SetDefaults()
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
}

// NodeSize returns the box size renderers and hulls use for every node.
// Iterative strategies treat nodes as circles of the collision radius, so
// their boxes are squares of twice that radius.
func (o *Options) NodeSize() (w, h float64) {
	if o.Layout.Algorithm.IsIterative() {
		d := 2 * o.Layout.NodeRadius
		return d, d
	}
	return o.Layout.NodeWidth, o.Layout.NodeHeight
}

// LayoutKeyOpts returns cache key options for the payload.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	h, _ := cache.HashJSON(o.Layout)
	return cache.LayoutKeyOpts{
		Algorithm:   string(o.Layout.Algorithm),
		Direction:   string(o.Layout.Direction),
		Padding:     o.Padding,
		OptionsHash: h,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
// JSON depends only on the payload; DOT and Graphviz output also depend on
// the detail flag.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	var engine string
	switch format {
	case FormatJSON:
	case FormatDOT:
		if o.Detailed {
			engine = "detailed"
		}
	default:
		engine = o.Engine
		if o.Detailed && engine == EngineGraphviz {
			engine += "+detailed"
		}
	}
	return cache.ArtifactKeyOpts{Format: format, Engine: engine}
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%s/%s formats=%v", o.Layout.Algorithm, o.Engine, o.Formats)
}
